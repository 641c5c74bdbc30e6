package trace

// TraceLevel controls which stages are recorded.
type TraceLevel string

const (
	// TraceLevelNone disables recording (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelAdults records mature-adult stages only.
	TraceLevelAdults TraceLevel = "adults"
	// TraceLevelAll records egg and adult stages.
	TraceLevelAll TraceLevel = "all"
)

// StageAdult is the stage name recorded at TraceLevelAdults.
const StageAdult = "adult"

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:   true,
	TraceLevelAdults: true,
	TraceLevelAll:    true,
	"":               true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// RunTrace collects stage records during a single run.
type RunTrace struct {
	Config  TraceConfig
	Stages  []StageRecord
	Outcome *OutcomeRecord
}

// NewRunTrace creates a RunTrace ready for recording.
func NewRunTrace(config TraceConfig) *RunTrace {
	return &RunTrace{
		Config: config,
		Stages: make([]StageRecord, 0),
	}
}

// RecordStage appends a stage record if the trace level admits it.
func (rt *RunTrace) RecordStage(record StageRecord) {
	switch rt.Config.Level {
	case TraceLevelAll:
	case TraceLevelAdults:
		if record.Stage != StageAdult {
			return
		}
	default:
		return
	}
	rt.Stages = append(rt.Stages, record)
}

// RecordOutcome stores the run's outcome. Outcomes are kept at every level
// except none.
func (rt *RunTrace) RecordOutcome(record OutcomeRecord) {
	if rt.Config.Level == TraceLevelNone || rt.Config.Level == "" {
		return
	}
	rt.Outcome = &record
}
