package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

// ReporterFactory builds the reporter of replicate i. It may return nil to
// discard that replicate's reports. The returned close func, if non-nil, is
// called once the replicate finishes.
type ReporterFactory func(replicate int, key SimulationKey) (rep Reporter, closeFn func() error, err error)

// RunReplicates runs n independent replicates one after another. Replicate i
// draws from its own PartitionedRNG keyed by key.ForReplicate(i), so results
// do not depend on how many replicates precede it.
func RunReplicates(params *Params, key SimulationKey, n int, newReporter ReporterFactory) ([]*Result, error) {
	if n < 1 {
		return nil, fmt.Errorf("replicate count must be >= 1, got %d", n)
	}
	results := make([]*Result, 0, n)
	for i := 0; i < n; i++ {
		repKey := key.ForReplicate(i)
		var (
			rep     Reporter
			closeFn func() error
			err     error
		)
		if newReporter != nil {
			rep, closeFn, err = newReporter(i, repKey)
			if err != nil {
				return results, fmt.Errorf("replicate %d: %w", i, err)
			}
		}
		res, err := runReplicate(params, repKey, rep, closeFn)
		if err != nil {
			return results, fmt.Errorf("replicate %d: %w", i, err)
		}
		logrus.Debugf("replicate %d (key=%d) ended: %s after %d generations", i, repKey, res.Reason, res.Generations)
		results = append(results, res)
	}
	return results, nil
}

func runReplicate(params *Params, key SimulationKey, rep Reporter, closeFn func() error) (res *Result, err error) {
	if closeFn != nil {
		defer func() {
			if cerr := closeFn(); cerr != nil && err == nil {
				err = cerr
			}
		}()
	}
	s, err := NewSimulator(params, NewPartitionedRNG(key), rep)
	if err != nil {
		return nil, err
	}
	return s.Run()
}

// ReplicateSummary aggregates the results of several runs.
type ReplicateSummary struct {
	Runs       int
	ByReason   map[TerminationReason]int
	MeanB      float64 // mean final adult B allele frequency over runs with adults
	StdDevB    float64
	NoAdults   int // runs whose last mature-adult pool was empty; excluded from MeanB
	MeanGens   float64
	StdDevGens float64
	FixedB     int // fixated runs that kept only the B allele
	FixedA     int // fixated runs that kept only the A allele
}

// SummarizeReplicates computes outcome counts and moments across results.
// Safe for an empty slice.
func SummarizeReplicates(results []*Result) *ReplicateSummary {
	summary := &ReplicateSummary{ByReason: make(map[TerminationReason]int)}
	if len(results) == 0 {
		return summary
	}
	summary.Runs = len(results)
	bFreq := make([]float64, 0, len(results))
	gens := make([]float64, 0, len(results))
	for _, r := range results {
		summary.ByReason[r.Reason]++
		gens = append(gens, float64(r.Generations))
		if r.Adults.PopulationSize == 0 {
			summary.NoAdults++
		} else {
			bFreq = append(bFreq, r.BAlleleFrequency())
		}
		if r.Reason == ReasonFixated {
			if r.Final.Counts[BB] > 0 {
				summary.FixedB++
			} else {
				summary.FixedA++
			}
		}
	}
	summary.MeanB, summary.StdDevB = meanStdDev(bFreq)
	summary.MeanGens, summary.StdDevGens = meanStdDev(gens)
	return summary
}

// meanStdDev is stat.MeanStdDev with a zero spread for fewer than two
// samples, where the unbiased estimator is undefined.
func meanStdDev(x []float64) (mean, std float64) {
	switch len(x) {
	case 0:
		return 0, 0
	case 1:
		return x[0], 0
	}
	return stat.MeanStdDev(x, nil)
}
