package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// Engine performs the phases of one generation's transition. It holds the
// read-only tables of a run and draws from the run's PartitionedRNG; the
// pools themselves are owned by the caller and passed through each phase.
type Engine struct {
	params *Params
	tables Tables
	rng    *PartitionedRNG
}

// NewEngine builds an Engine for a validated parameter set.
func NewEngine(params *Params, rng *PartitionedRNG) *Engine {
	return &Engine{
		params: params,
		tables: BuildTables(params),
		rng:    rng,
	}
}

// Founders synthesizes the generation 0 adult pool from the baseline sex and
// genotype proportions.
func (e *Engine) Founders() ([]Individual, error) {
	n := e.params.FounderCount()
	sexes := []Weighted[Sex]{
		{Female, e.tables.FounderSex[Female]},
		{Male, e.tables.FounderSex[Male]},
	}
	genotypes := make([]Weighted[Genotype], 0, numGenotypes)
	for _, g := range Genotypes {
		genotypes = append(genotypes, Weighted[Genotype]{g, e.tables.FounderGenotype.At(g)})
	}
	sexSampler, err := NewWeightedSampler(sexes)
	if err != nil {
		return nil, fmt.Errorf("founder sex proportions: %w", err)
	}
	genotypeSampler, err := NewWeightedSampler(genotypes)
	if err != nil {
		return nil, fmt.Errorf("founder genotype proportions: %w", err)
	}

	rng := e.rng.ForSubsystem(SubsystemFounders)
	founders := make([]Individual, 0, n)
	for i := 0; i < n; i++ {
		sex := sexSampler.Sample(rng)
		genotype := genotypeSampler.Sample(rng)
		founders = append(founders, Individual{Sex: sex, Genotype: genotype})
	}
	return founders, nil
}

// SurviveEggs runs Phase A: one independent Bernoulli trial per egg with
// probability eggSurvival[class] * global survival. Returns the new adult pool.
func (e *Engine) SurviveEggs(eggs []Individual) []Individual {
	rng := e.rng.ForSubsystem(SubsystemSurvival)
	global := e.params.Survival.Global
	adults := make([]Individual, 0, len(eggs))
	for _, egg := range eggs {
		if rng.Float64() < e.tables.EggSurvival.At(egg.Class())*global {
			adults = append(adults, egg)
		}
	}
	return adults
}

// MaturePools is the outcome of Phase B.
type MaturePools struct {
	All     []Individual
	Females []Individual
	Males   []Individual
}

// Mature runs Phase B. Each adult gets its own environment duration and
// realized maturation time; it matures iff the environment lasts at least as
// long as its maturation time. Unmatured adults are discarded.
func (e *Engine) Mature(adults []Individual) MaturePools {
	rng := e.rng.ForSubsystem(SubsystemMaturation)
	env := e.params.Environment
	cv := e.params.Maturation.CV

	var pools MaturePools
	pools.All = make([]Individual, 0, len(adults))
	for _, ind := range adults {
		duration := env.Time - env.Variation + rng.Float64()*2*env.Variation

		// Geometric mean of three uniform draws: tighter and more bell-shaped
		// than a single draw over the same range.
		mean := e.tables.MaturationDays.At(ind.Class())
		lo, span := mean*(1-cv), 2*mean*cv
		m1 := lo + rng.Float64()*span
		m2 := lo + rng.Float64()*span
		m3 := lo + rng.Float64()*span
		maturation := math.Cbrt(m1 * m2 * m3)

		if duration < maturation {
			continue
		}
		pools.All = append(pools.All, ind)
		if ind.Sex == Female {
			pools.Females = append(pools.Females, ind)
		} else {
			pools.Males = append(pools.Males, ind)
		}
	}
	return pools
}

// FrequencyDependence returns the male mating multiplier per genotype given
// the AA frequency among mature males. AA becomes relatively more attractive
// as it gets rarer; coef 0 returns all ones.
func FrequencyDependence(coef, pAA float64) GenotypeTable {
	return GenotypeTable{
		AA: 1,
		AB: 1 - coef*(1-pAA)/2,
		BB: 1 - coef*(1-pAA),
	}
}

// MatingProportions computes the normalized probability that a female mates
// with a male of each genotype. ok is false when the weights are degenerate
// (sum zero or any normalized weight NaN), which ends the run.
func (e *Engine) MatingProportions(males []Individual) (proportions GenotypeTable, ok bool) {
	maleFreq := GenotypeProportions(males) // zero males -> all 0.0
	fd := FrequencyDependence(e.params.Mating.FrequencyDependence, maleFreq.AA)

	var weights GenotypeTable
	sum := 0.0
	for _, g := range Genotypes {
		weights[g] = maleFreq.Of(g) * e.tables.MaleSuccess.At(g) * fd.At(g)
		sum += weights[g]
	}
	if sum == 0 || math.IsNaN(sum) {
		return weights, false
	}
	for _, g := range Genotypes {
		proportions[g] = weights[g] / sum
		if math.IsNaN(proportions[g]) {
			return proportions, false
		}
	}
	return proportions, true
}

// LayEggs runs the reproduction half of Phase C. Each female draws a single
// mate genotype for her whole clutch; every egg then draws one allele from
// the mother and one from a father of that genotype, and its sex
// independently.
func (e *Engine) LayEggs(females []Individual, mating GenotypeTable) ([]Individual, error) {
	mates := make([]Weighted[Genotype], 0, numGenotypes)
	for _, g := range Genotypes {
		mates = append(mates, Weighted[Genotype]{g, mating.At(g)})
	}
	mateSampler, err := NewWeightedSampler(mates)
	if err != nil {
		return nil, fmt.Errorf("mate choice: %w", err)
	}

	rng := e.rng.ForSubsystem(SubsystemMating)
	pFemale := e.params.ProportionFemales
	eggs := make([]Individual, 0, e.params.EggsPerGeneration)
	for _, mother := range females {
		father := Individual{Sex: Male, Genotype: mateSampler.Sample(rng)}
		clutch := int(e.tables.Fecundity.At(mother.Genotype))
		for i := 0; i < clutch; i++ {
			fromMother := AlleleFromParent(rng, mother)
			fromFather := AlleleFromParent(rng, father)
			genotype, err := GenotypeFromAlleles(fromMother, fromFather)
			if err != nil {
				return nil, err
			}
			sex := Male
			if rng.Float64() < pFemale {
				sex = Female
			}
			eggs = append(eggs, Individual{Sex: sex, Genotype: genotype})
		}
	}
	return eggs, nil
}

// Truncate shuffles the egg pool and keeps at most eggsPerGeneration eggs.
// Shuffling first keeps the cut from favouring early clutches.
func (e *Engine) Truncate(eggs []Individual) []Individual {
	rng := e.rng.ForSubsystem(SubsystemShuffle)
	rng.Shuffle(len(eggs), func(i, j int) { eggs[i], eggs[j] = eggs[j], eggs[i] })
	limit := e.params.EggsPerGeneration
	if len(eggs) > limit {
		logrus.Debugf("truncating egg pool from %d to %d", len(eggs), limit)
		eggs = eggs[:limit]
	}
	return eggs
}
