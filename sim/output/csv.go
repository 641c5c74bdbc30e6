// Package output provides the reporting collaborators of a run: a CSV file
// with one row per generation, a SQLite run history and console progress.
package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/gocarina/gocsv"

	"github.com/polymorph-sim/polymorph-sim/sim"
)

// optionalFloat renders as an empty CSV cell until a value is set.
type optionalFloat struct {
	value float64
	valid bool
}

func someFloat(v float64) optionalFloat { return optionalFloat{value: v, valid: true} }

// MarshalCSV implements gocsv.TypeMarshaller.
func (f optionalFloat) MarshalCSV() (string, error) {
	if !f.valid {
		return "", nil
	}
	return strconv.FormatFloat(f.value, 'f', 6, 64), nil
}

// GenerationRow is one CSV row: egg-stage proportions followed by the
// mature-adult proportions of the same generation.
type GenerationRow struct {
	Generation int           `csv:"generation"`
	EggAA      optionalFloat `csv:"eggAA"`
	EggAB      optionalFloat `csv:"eggAB"`
	EggBB      optionalFloat `csv:"eggBB"`
	AdultAA    optionalFloat `csv:"adultAA"`
	AdultAB    optionalFloat `csv:"adultAB"`
	AdultBB    optionalFloat `csv:"adultBB"`
}

// CSVReporter writes one GenerationRow per generation. Egg fields are filled
// first; the row is written once the adult stage of the same generation
// arrives, or when the run ends.
type CSVReporter struct {
	w             *bufio.Writer
	closer        io.Closer
	headerWritten bool
	pending       *GenerationRow
}

// NewCSVReporter writes rows to w through a buffer. Close flushes it.
func NewCSVReporter(w io.Writer) *CSVReporter {
	r := &CSVReporter{w: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		r.closer = c
	}
	return r
}

// CreateCSVReporter creates (or truncates) the file at path.
func CreateCSVReporter(path string) (*CSVReporter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return NewCSVReporter(f), nil
}

func (r *CSVReporter) ReportStage(rep sim.StageReport) error {
	if r.pending != nil && r.pending.Generation != rep.Generation {
		if err := r.flushPending(); err != nil {
			return err
		}
	}
	if r.pending == nil {
		r.pending = &GenerationRow{Generation: rep.Generation}
	}
	p := rep.Proportions
	switch rep.Stage {
	case sim.StageEgg:
		r.pending.EggAA, r.pending.EggAB, r.pending.EggBB = someFloat(p.AA), someFloat(p.AB), someFloat(p.BB)
	case sim.StageAdult:
		r.pending.AdultAA, r.pending.AdultAB, r.pending.AdultBB = someFloat(p.AA), someFloat(p.AB), someFloat(p.BB)
		return r.flushPending()
	}
	return nil
}

// ReportOutcome writes any half-filled row and flushes the buffer. The
// outcome itself has no CSV row.
func (r *CSVReporter) ReportOutcome(sim.Outcome) error {
	if err := r.flushPending(); err != nil {
		return err
	}
	return r.w.Flush()
}

func (r *CSVReporter) flushPending() error {
	if r.pending == nil {
		return nil
	}
	records := []GenerationRow{*r.pending}
	r.pending = nil

	if !r.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, r.w); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
		r.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, r.w); err != nil {
		return fmt.Errorf("writing csv row: %w", err)
	}
	return nil
}

// Close flushes buffered rows and closes the underlying file, if any.
func (r *CSVReporter) Close() error {
	if err := r.flushPending(); err != nil {
		return err
	}
	if err := r.w.Flush(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}
