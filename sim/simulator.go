// sim/simulator.go
package sim

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Simulator is the driver of a single run: it owns the generation counter and
// the egg/adult pools threaded between generations, and decides when to stop.
type Simulator struct {
	Params   *Params
	Engine   *Engine
	RNG      *PartitionedRNG
	Reporter Reporter

	// Generation is the generation currently running (1-indexed), 0 before Run.
	Generation int
	// Eggs is the egg pool laid by the last completed Phase C.
	Eggs []Individual
	// Adults is the mature-adult pool of the last completed Phase B.
	Adults []Individual
}

// NewSimulator validates params and wires a run. The PartitionedRNG is the
// run's only source of randomness; concurrent or replicate runs must each
// get their own. A nil reporter discards all reports.
func NewSimulator(params *Params, rng *PartitionedRNG, reporter Reporter) (*Simulator, error) {
	if params == nil {
		return nil, errors.New("nil parameters")
	}
	if rng == nil {
		return nil, errors.New("nil random source")
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if reporter == nil {
		reporter = discardReporter{}
	}
	return &Simulator{
		Params:   params,
		Engine:   NewEngine(params, rng),
		RNG:      rng,
		Reporter: reporter,
	}, nil
}

// Run executes generations until the configured count, fixation (when
// enabled), extinction or degenerate mating weights. The returned error is
// non-nil only when founders cannot be synthesized or a reporter fails; every
// designed ending is a Result.Reason.
func (sim *Simulator) Run() (*Result, error) {
	founders, err := sim.Engine.Founders()
	if err != nil {
		return nil, err
	}
	logrus.Infof("Starting run key=%d with %d founders, %d generations, egg cap %d",
		sim.RNG.Key(), len(founders), sim.Params.Generations, sim.Params.EggsPerGeneration)

	var lastAdult StageReport
	for gen := 1; gen <= sim.Params.Generations; gen++ {
		sim.Generation = gen

		// Phase A: the founders stand in for survivors in generation 1.
		var adults []Individual
		if gen == 1 {
			adults = founders
		} else {
			if err := sim.Reporter.ReportStage(newStageReport(gen, StageEgg, sim.Eggs)); err != nil {
				return nil, fmt.Errorf("reporting generation %d eggs: %w", gen, err)
			}
			adults = sim.Engine.SurviveEggs(sim.Eggs)
			sim.Eggs = nil
		}

		// Phase B
		pools := sim.Engine.Mature(adults)
		sim.Adults = pools.All
		lastAdult = newStageReport(gen, StageAdult, pools.All)
		if err := sim.Reporter.ReportStage(lastAdult); err != nil {
			return nil, fmt.Errorf("reporting generation %d adults: %w", gen, err)
		}
		logrus.Debugf("[gen %05d] adults=%d mature=%d (females=%d males=%d)",
			gen, len(adults), len(pools.All), len(pools.Females), len(pools.Males))

		// Phase C
		mating, ok := sim.Engine.MatingProportions(pools.Males)
		if !ok {
			logrus.Warnf("[gen %05d] mating weights degenerate with %d mature males; stopping run", gen, len(pools.Males))
			return sim.finish(ReasonDegenerateMatingWeights, gen, lastAdult)
		}
		laid, err := sim.Engine.LayEggs(pools.Females, mating)
		if err != nil {
			return nil, fmt.Errorf("generation %d: %w", gen, err)
		}
		sim.Eggs = sim.Engine.Truncate(laid)
		logrus.Debugf("[gen %05d] eggs laid=%d kept=%d", gen, len(laid), len(sim.Eggs))

		if len(sim.Eggs) == 0 {
			logrus.Warnf("[gen %05d] no eggs produced; population extinct", gen)
			return sim.finish(ReasonExtinct, gen, lastAdult)
		}

		// Phase D
		if sim.Params.StopWhenFixated {
			eggReport := newStageReport(gen, StageEgg, sim.Eggs)
			if eggReport.Counts.Fixated() {
				logrus.Infof("[gen %05d] allele fixated in egg pool (AA=%d AB=%d BB=%d)",
					gen, eggReport.Counts[AA], eggReport.Counts[AB], eggReport.Counts[BB])
				return sim.finish(ReasonFixated, gen, eggReport)
			}
		}
	}
	return sim.finish(ReasonCompleted, sim.Params.Generations, lastAdult)
}

func (sim *Simulator) finish(reason TerminationReason, gen int, final StageReport) (*Result, error) {
	outcome := Outcome{Reason: reason, Generation: gen, Final: final}
	if err := sim.Reporter.ReportOutcome(outcome); err != nil {
		return nil, fmt.Errorf("reporting outcome: %w", err)
	}
	logrus.Infof("Run key=%d ended at generation %d: %s", sim.RNG.Key(), gen, reason)
	return &Result{
		Key:         sim.RNG.Key(),
		Reason:      reason,
		Generations: gen,
		Final:       final,
		Adults:      newStageReport(gen, StageAdult, sim.Adults),
	}, nil
}
