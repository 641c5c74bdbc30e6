package sim

import (
	"errors"
	"fmt"
)

// LifeStage identifies which pool a report describes.
type LifeStage int

const (
	// StageEgg is the egg pool at the start of Phase A.
	StageEgg LifeStage = iota
	// StageAdult is the mature-adult pool at the end of Phase B.
	StageAdult
)

func (s LifeStage) String() string {
	switch s {
	case StageEgg:
		return "egg"
	case StageAdult:
		return "adult"
	}
	return fmt.Sprintf("LifeStage(%d)", int(s))
}

// TerminationReason tells why a run stopped.
type TerminationReason string

const (
	// ReasonCompleted: the configured generation count was reached.
	ReasonCompleted TerminationReason = "completed"
	// ReasonFixated: one allele vanished from the egg pool.
	ReasonFixated TerminationReason = "fixated"
	// ReasonDegenerateMatingWeights: male mating weights summed to zero or NaN.
	ReasonDegenerateMatingWeights TerminationReason = "degenerate_mating_weights"
	// ReasonExtinct: no eggs were produced.
	ReasonExtinct TerminationReason = "extinct"
)

// StageReport is the per-stage observation handed to reporters.
type StageReport struct {
	Generation     int
	Stage          LifeStage
	PopulationSize int
	Counts         GenotypeCounts
	Proportions    Proportions
}

func newStageReport(gen int, stage LifeStage, pop []Individual) StageReport {
	counts := CountGenotypes(pop)
	return StageReport{
		Generation:     gen,
		Stage:          stage,
		PopulationSize: len(pop),
		Counts:         counts,
		Proportions:    counts.Proportions(),
	}
}

// Outcome is the final, tagged report of a run.
type Outcome struct {
	Reason     TerminationReason
	Generation int
	Final      StageReport
}

// Reporter receives stage observations in generation order and one Outcome
// when the run stops. Implementations own formatting and persistence.
type Reporter interface {
	ReportStage(r StageReport) error
	ReportOutcome(o Outcome) error
}

// Reporters fans out to several reporters. Nil entries are skipped. All
// reporters are called; the errors are joined.
type Reporters []Reporter

func (rs Reporters) ReportStage(r StageReport) error {
	var errs []error
	for _, rep := range rs {
		if rep == nil {
			continue
		}
		if err := rep.ReportStage(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (rs Reporters) ReportOutcome(o Outcome) error {
	var errs []error
	for _, rep := range rs {
		if rep == nil {
			continue
		}
		if err := rep.ReportOutcome(o); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// discardReporter drops everything.
type discardReporter struct{}

func (discardReporter) ReportStage(StageReport) error { return nil }
func (discardReporter) ReportOutcome(Outcome) error   { return nil }
