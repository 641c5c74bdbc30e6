package trace

import (
	"testing"
)

func TestRunTrace_RecordStage_AllLevelKeepsEverything(t *testing.T) {
	// GIVEN a trace recording every stage
	rt := NewRunTrace(TraceConfig{Level: TraceLevelAll})

	// WHEN an egg and an adult record are recorded
	rt.RecordStage(StageRecord{Generation: 2, Stage: "egg", PopulationSize: 1000, AA: 0.1, AB: 0.5, BB: 0.4})
	rt.RecordStage(StageRecord{Generation: 2, Stage: "adult", PopulationSize: 120, AA: 0.2, AB: 0.5, BB: 0.3})

	// THEN both are kept in order
	if len(rt.Stages) != 2 {
		t.Fatalf("expected 2 stages, got %d", len(rt.Stages))
	}
	if rt.Stages[0].Stage != "egg" || rt.Stages[1].Stage != "adult" {
		t.Errorf("unexpected stage order: %q, %q", rt.Stages[0].Stage, rt.Stages[1].Stage)
	}
}

func TestRunTrace_RecordStage_AdultsLevelDropsEggs(t *testing.T) {
	// GIVEN a trace recording adults only
	rt := NewRunTrace(TraceConfig{Level: TraceLevelAdults})

	// WHEN an egg and an adult record are recorded
	rt.RecordStage(StageRecord{Generation: 2, Stage: "egg", PopulationSize: 1000})
	rt.RecordStage(StageRecord{Generation: 2, Stage: "adult", PopulationSize: 120})

	// THEN only the adult record is kept
	if len(rt.Stages) != 1 {
		t.Fatalf("expected 1 stage, got %d", len(rt.Stages))
	}
	if rt.Stages[0].Stage != "adult" {
		t.Errorf("expected adult record, got %q", rt.Stages[0].Stage)
	}
}

func TestRunTrace_NoneLevel_RecordsNothing(t *testing.T) {
	for _, level := range []TraceLevel{TraceLevelNone, ""} {
		rt := NewRunTrace(TraceConfig{Level: level})
		rt.RecordStage(StageRecord{Generation: 1, Stage: "adult"})
		rt.RecordOutcome(OutcomeRecord{Reason: "completed", Generation: 1})
		if len(rt.Stages) != 0 {
			t.Errorf("level %q: expected no stages, got %d", level, len(rt.Stages))
		}
		if rt.Outcome != nil {
			t.Errorf("level %q: expected no outcome", level)
		}
	}
}

func TestRunTrace_RecordOutcome_Stored(t *testing.T) {
	rt := NewRunTrace(TraceConfig{Level: TraceLevelAdults})
	rt.RecordOutcome(OutcomeRecord{Reason: "fixated", Generation: 7})
	if rt.Outcome == nil {
		t.Fatal("expected outcome to be stored")
	}
	if rt.Outcome.Reason != "fixated" || rt.Outcome.Generation != 7 {
		t.Errorf("unexpected outcome %+v", *rt.Outcome)
	}
}

func TestIsValidTraceLevel(t *testing.T) {
	tests := []struct {
		level string
		want  bool
	}{
		{"none", true},
		{"adults", true},
		{"all", true},
		{"", true},
		{"decisions", false},
		{"ALL", false},
	}
	for _, tt := range tests {
		if got := IsValidTraceLevel(tt.level); got != tt.want {
			t.Errorf("IsValidTraceLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestStageRecord_BAllele(t *testing.T) {
	r := StageRecord{AA: 0.07, AB: 0.49, BB: 0.44}
	want := 0.49/2 + 0.44
	if got := r.BAllele(); got != want {
		t.Errorf("BAllele() = %v, want %v", got, want)
	}
}
