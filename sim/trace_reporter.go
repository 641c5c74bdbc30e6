package sim

import "github.com/polymorph-sim/polymorph-sim/sim/trace"

// TraceReporter records stage reports into a trace.RunTrace.
type TraceReporter struct {
	Trace *trace.RunTrace
}

// NewTraceReporter creates a reporter backed by a fresh RunTrace.
func NewTraceReporter(level trace.TraceLevel) *TraceReporter {
	return &TraceReporter{Trace: trace.NewRunTrace(trace.TraceConfig{Level: level})}
}

func (tr *TraceReporter) ReportStage(r StageReport) error {
	tr.Trace.RecordStage(toStageRecord(r))
	return nil
}

func (tr *TraceReporter) ReportOutcome(o Outcome) error {
	tr.Trace.RecordOutcome(trace.OutcomeRecord{
		Reason:     string(o.Reason),
		Generation: o.Generation,
		Final:      toStageRecord(o.Final),
	})
	return nil
}

func toStageRecord(r StageReport) trace.StageRecord {
	return trace.StageRecord{
		Generation:     r.Generation,
		Stage:          r.Stage.String(),
		PopulationSize: r.PopulationSize,
		AA:             r.Proportions.AA,
		AB:             r.Proportions.AB,
		BB:             r.Proportions.BB,
	}
}
