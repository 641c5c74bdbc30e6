package trace

// TraceSummary aggregates statistics from a RunTrace.
type TraceSummary struct {
	AdultStages    int
	EggStages      int
	FirstAdultB    float64 // B allele frequency among the first recorded adults
	LastAdultB     float64
	MinAdults      int
	MaxAdults      int
	MeanAdults     float64
	Reason         string // empty when no outcome was recorded
	LastGeneration int
}

// Summarize computes aggregate statistics from a RunTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(rt *RunTrace) *TraceSummary {
	summary := &TraceSummary{}
	if rt == nil {
		return summary
	}

	total := 0
	for _, r := range rt.Stages {
		if r.Generation > summary.LastGeneration {
			summary.LastGeneration = r.Generation
		}
		if r.Stage != StageAdult {
			summary.EggStages++
			continue
		}
		if summary.AdultStages == 0 {
			summary.FirstAdultB = r.BAllele()
			summary.MinAdults = r.PopulationSize
		}
		summary.AdultStages++
		summary.LastAdultB = r.BAllele()
		summary.MinAdults = min(summary.MinAdults, r.PopulationSize)
		summary.MaxAdults = max(summary.MaxAdults, r.PopulationSize)
		total += r.PopulationSize
	}
	if summary.AdultStages > 0 {
		summary.MeanAdults = float64(total) / float64(summary.AdultStages)
	}

	if rt.Outcome != nil {
		summary.Reason = rt.Outcome.Reason
		summary.LastGeneration = max(summary.LastGeneration, rt.Outcome.Generation)
	}
	return summary
}
