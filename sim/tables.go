package sim

import "math"

// ClassTable maps a (sex, genotype) class to a value.
type ClassTable [numSexes][numGenotypes]float64

// At returns the value for class c.
func (t *ClassTable) At(c Class) float64 {
	return t[c.Sex][c.Genotype]
}

// GenotypeTable maps a genotype to a value.
type GenotypeTable [numGenotypes]float64

// At returns the value for g.
func (t *GenotypeTable) At(g Genotype) float64 {
	return t[g]
}

// Tables holds the lookup tables derived once from Params.
type Tables struct {
	EggSurvival    ClassTable    // before the global survival scalar
	Fecundity      GenotypeTable // eggs per female, already scaled
	MaleSuccess    GenotypeTable
	MaturationDays ClassTable

	FounderSex      [numSexes]float64
	FounderGenotype GenotypeTable
}

// BuildTables derives the lookup tables of a validated parameter set.
func BuildTables(p *Params) Tables {
	var t Tables
	for _, g := range Genotypes {
		t.EggSurvival[Female][g] = p.Survival.Female.Of(g)
		t.EggSurvival[Male][g] = p.Survival.Male.Of(g)
		t.Fecundity[g] = p.Fecundity.EggsPerFemale * p.Fecundity.Relative.Of(g)
		t.MaleSuccess[g] = p.Mating.MaleSuccess.Of(g)
		t.MaturationDays[Female][g] = p.Maturation.FemaleDays.Of(g)
		t.MaturationDays[Male][g] = p.Maturation.MaleDays.Of(g)
	}
	t.FounderSex = [numSexes]float64{Female: p.Founders.ProportionFemales, Male: 1 - p.Founders.ProportionFemales}
	t.FounderGenotype = GenotypeTable{
		AA: p.Founders.ProportionAA,
		AB: math.Max(0, p.Founders.ProportionAB()),
		BB: p.Founders.ProportionBB,
	}
	return t
}
