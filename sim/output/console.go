package output

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/polymorph-sim/polymorph-sim/sim"
)

// ConsoleReporter prints one progress line per stage and per outcome.
type ConsoleReporter struct {
	w      io.Writer
	prefix string
}

// NewConsoleReporter writes progress to w. prefix, if set, starts every line
// (e.g. a replicate label).
func NewConsoleReporter(w io.Writer, prefix string) *ConsoleReporter {
	return &ConsoleReporter{w: w, prefix: prefix}
}

func (c *ConsoleReporter) ReportStage(r sim.StageReport) error {
	_, err := fmt.Fprintf(c.w, "%sGeneration %5d  %-5s  %s\n", c.prefix, r.Generation, r.Stage, formatPool(r))
	return err
}

func (c *ConsoleReporter) ReportOutcome(o sim.Outcome) error {
	_, err := fmt.Fprintf(c.w, "%sStopped at generation %d: %s  [%s %s]\n",
		c.prefix, o.Generation, o.Reason, o.Final.Stage, formatPool(o.Final))
	return err
}

func formatPool(r sim.StageReport) string {
	return fmt.Sprintf("n=%-7s AA=%.4f AB=%.4f BB=%.4f",
		humanize.Comma(int64(r.PopulationSize)), r.Proportions.AA, r.Proportions.AB, r.Proportions.BB)
}
