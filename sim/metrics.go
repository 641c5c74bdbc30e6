// Summarizes a finished run for final reporting.

package sim

import (
	"fmt"
	"io"
)

// Result describes how a run ended.
type Result struct {
	Key         SimulationKey
	Reason      TerminationReason
	Generations int         // last generation started
	Final       StageReport // the tagged final report
	Adults      StageReport // mature adults of the last generation
}

// BAlleleFrequency is the B allele frequency among the last mature adults.
func (r *Result) BAlleleFrequency() float64 {
	return r.Adults.Proportions.BAllele()
}

// Completed reports whether the run used its full generation budget.
func (r *Result) Completed() bool {
	return r.Reason == ReasonCompleted
}

// Print writes a human-readable summary block.
func (r *Result) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Simulation Result ===")
	fmt.Fprintf(w, "Seed               : %d\n", int64(r.Key))
	fmt.Fprintf(w, "Outcome            : %s\n", r.Reason)
	fmt.Fprintf(w, "Generations        : %d\n", r.Generations)
	fmt.Fprintf(w, "Final stage        : %s (n=%d)\n", r.Final.Stage, r.Final.PopulationSize)
	fmt.Fprintf(w, "Final AA/AB/BB     : %.4f / %.4f / %.4f\n",
		r.Final.Proportions.AA, r.Final.Proportions.AB, r.Final.Proportions.BB)
	fmt.Fprintf(w, "Adult B frequency  : %.4f\n", r.BAlleleFrequency())
}
