// Package trace records per-stage population observations of a run.
// This package has no dependencies on sim/ — it stores pure data types.
package trace

// StageRecord captures the genotype make-up of one pool at one stage.
type StageRecord struct {
	Generation     int
	Stage          string // "egg" or "adult"
	PopulationSize int
	AA, AB, BB     float64 // genotype proportions
}

// BAllele returns the B allele frequency implied by the record.
func (r StageRecord) BAllele() float64 {
	return r.AB/2 + r.BB
}

// OutcomeRecord captures how a run ended.
type OutcomeRecord struct {
	Reason     string
	Generation int
	Final      StageRecord
}
