package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runWithSeed(t *testing.T, p *Params, seed int64) (*Result, *recordingReporter) {
	t.Helper()
	rec := &recordingReporter{}
	s, err := NewSimulator(p, NewPartitionedRNG(NewSimulationKey(seed)), rec)
	require.NoError(t, err)
	res, err := s.Run()
	require.NoError(t, err)
	return res, rec
}

func findStage(stages []StageReport, gen int, stage LifeStage) (StageReport, bool) {
	for _, s := range stages {
		if s.Generation == gen && s.Stage == stage {
			return s, true
		}
	}
	return StageReport{}, false
}

func TestNewSimulator_Rejects(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(1))

	_, err := NewSimulator(nil, rng, nil)
	assert.Error(t, err)

	_, err = NewSimulator(testParams(), nil, nil)
	assert.Error(t, err)

	bad := testParams()
	bad.Generations = 0
	_, err = NewSimulator(bad, rng, nil)
	assert.True(t, errors.Is(err, ErrInvalidParams), "got %v", err)
}

func TestNewSimulator_NilReporterDiscards(t *testing.T) {
	s, err := NewSimulator(testParams(), NewPartitionedRNG(NewSimulationKey(1)), nil)
	require.NoError(t, err)
	res, err := s.Run()
	require.NoError(t, err)
	assert.NotNil(t, res)
}

func TestSimulator_FirstGeneration_AdultsAreMaturedFounders(t *testing.T) {
	// GIVEN baseline founders, one generation, and no maturation losses
	p := alwaysMatureParams()
	p.Survival.Global = 0.3
	p.Generations = 1

	// WHEN the run executes
	res, rec := runWithSeed(t, p, 42)

	// THEN generation 1 reports only an adult stage of floor(1000*0.3) founders
	require.Len(t, rec.stages, 1)
	adults := rec.stages[0]
	assert.Equal(t, StageAdult, adults.Stage)
	assert.Equal(t, 300, adults.PopulationSize)
	assert.Equal(t, 1, res.Generations)
	assert.Equal(t, ReasonCompleted, res.Reason)
}

func TestSimulator_AdultCount_MatchesSurvivalWeightedEggs(t *testing.T) {
	// GIVEN baseline parameters with maturation always succeeding
	p := alwaysMatureParams()
	p.Survival = testParams().Survival
	p.Generations = 2
	p.StopWhenFixated = false

	// WHEN generation 2 runs for many seeds
	const runs = 20
	var observed, expected float64
	for seed := int64(1); seed <= runs; seed++ {
		_, rec := runWithSeed(t, p, seed)
		eggs, ok := findStage(rec.stages, 2, StageEgg)
		require.True(t, ok)
		adults, ok := findStage(rec.stages, 2, StageAdult)
		require.True(t, ok)

		for _, g := range Genotypes {
			meanSurvival := (p.Survival.Female.Of(g) + p.Survival.Male.Of(g)) / 2
			expected += float64(eggs.Counts[g]) * p.Survival.Global * meanSurvival
		}
		observed += float64(adults.PopulationSize)
	}

	// THEN the mean adult count is eggs * global * class-weighted survival
	assert.InDelta(t, expected/runs, observed/runs, 15)
}

func TestSimulator_ZeroMatureMales_StopsWithDegenerateWeights(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Params)
	}{
		{"no male founders", func(p *Params) { p.Founders.ProportionFemales = 1 }},
		{"males never mature", func(p *Params) { p.Maturation.MaleDays = uniformValues(1000) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := alwaysMatureParams()
			tt.mutate(p)

			res, rec := runWithSeed(t, p, 7)

			assert.Equal(t, ReasonDegenerateMatingWeights, res.Reason)
			assert.Equal(t, 1, res.Generations)
			assert.Equal(t, StageAdult, res.Final.Stage)
			require.Len(t, rec.outcomes, 1)
			assert.Equal(t, ReasonDegenerateMatingWeights, rec.outcomes[0].Reason)
			assert.Equal(t, 1, rec.outcomes[0].Generation)
		})
	}
}

func TestSimulator_BBExcluded_StopsFixated(t *testing.T) {
	// GIVEN AA with full survival and mating success and BB with none
	p := alwaysMatureParams()
	p.Generations = 10
	p.StopWhenFixated = true
	p.Survival.Female = GenotypeValues{AA: 1}
	p.Survival.Male = GenotypeValues{AA: 1}
	p.Mating.MaleSuccess = GenotypeValues{AA: 1}

	// WHEN the run executes
	res, rec := runWithSeed(t, p, 3)

	// THEN it stops before the cap with no B allele left in the eggs
	assert.Equal(t, ReasonFixated, res.Reason)
	assert.Less(t, res.Generations, p.Generations)
	assert.Equal(t, StageEgg, res.Final.Stage)
	assert.Zero(t, res.Final.Counts[BB])
	assert.Zero(t, res.Final.Counts[AB])
	assert.Positive(t, res.Final.Counts[AA])
	assert.Equal(t, res.Generations, res.Final.Generation)

	require.Len(t, rec.outcomes, 1)
	assert.Equal(t, res.Final, rec.outcomes[0].Final)
}

func TestSimulator_FixationIgnoredWhenDisabled(t *testing.T) {
	p := alwaysMatureParams()
	p.Generations = 4
	p.StopWhenFixated = false
	p.Survival.Female = GenotypeValues{AA: 1}
	p.Survival.Male = GenotypeValues{AA: 1}
	p.Mating.MaleSuccess = GenotypeValues{AA: 1}

	res, _ := runWithSeed(t, p, 3)

	assert.Equal(t, ReasonCompleted, res.Reason)
	assert.Equal(t, 4, res.Generations)
	assert.InDelta(t, 0, res.BAlleleFrequency(), 1e-12)
}

func TestSimulator_NoEggs_StopsExtinct(t *testing.T) {
	p := alwaysMatureParams()
	p.Fecundity.EggsPerFemale = 0.5 // floor to zero eggs per clutch

	res, rec := runWithSeed(t, p, 1)

	assert.Equal(t, ReasonExtinct, res.Reason)
	assert.Equal(t, 1, res.Generations)
	require.Len(t, rec.outcomes, 1)
	assert.Equal(t, StageAdult, rec.outcomes[0].Final.Stage)
}

func TestSimulator_SameSeed_IdenticalSequence(t *testing.T) {
	p := testParams()
	p.Generations = 8
	p.StopWhenFixated = false

	first, recA := runWithSeed(t, p, 2024)
	second, recB := runWithSeed(t, p, 2024)

	assert.Equal(t, recA.stages, recB.stages)
	assert.Equal(t, recA.outcomes, recB.outcomes)
	assert.Equal(t, first, second)
}

func TestSimulator_DifferentSeeds_Diverge(t *testing.T) {
	p := testParams()
	p.Generations = 3
	p.StopWhenFixated = false

	_, recA := runWithSeed(t, p, 1)
	_, recB := runWithSeed(t, p, 2)

	assert.NotEqual(t, recA.stages, recB.stages)
}

func TestSimulator_ReportOrder(t *testing.T) {
	p := alwaysMatureParams()
	p.Generations = 3
	p.StopWhenFixated = false

	_, rec := runWithSeed(t, p, 11)

	// gen 1 has no egg stage; later generations report eggs before adults
	var got []StageReport
	for _, s := range rec.stages {
		got = append(got, StageReport{Generation: s.Generation, Stage: s.Stage})
	}
	want := []StageReport{
		{Generation: 1, Stage: StageAdult},
		{Generation: 2, Stage: StageEgg},
		{Generation: 2, Stage: StageAdult},
		{Generation: 3, Stage: StageEgg},
		{Generation: 3, Stage: StageAdult},
	}
	assert.Equal(t, want, got)
	for _, s := range rec.stages {
		if s.Stage == StageEgg {
			assert.LessOrEqual(t, s.PopulationSize, p.EggsPerGeneration)
		}
	}
}

type failingReporter struct{ err error }

func (f failingReporter) ReportStage(StageReport) error { return f.err }
func (f failingReporter) ReportOutcome(Outcome) error   { return nil }

func TestSimulator_ReporterErrorAbortsRun(t *testing.T) {
	boom := errors.New("disk full")
	rec := &recordingReporter{}
	s, err := NewSimulator(testParams(), NewPartitionedRNG(NewSimulationKey(1)),
		Reporters{rec, nil, failingReporter{boom}})
	require.NoError(t, err)

	_, err = s.Run()

	assert.True(t, errors.Is(err, boom), "got %v", err)
	// reporters after a failing one still received the stage
	assert.Len(t, rec.stages, 1)
}
