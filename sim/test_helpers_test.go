package sim

// testParams mirrors the built-in defaults.yaml parameter set.
func testParams() *Params {
	return &Params{
		Generations:       5,
		EggsPerGeneration: 1000,
		ProportionFemales: 0.5,
		StopWhenFixated:   true,
		Founders:          FounderParams{ProportionAA: 0.07, ProportionBB: 0.44, ProportionFemales: 0.5},
		Survival: SurvivalParams{
			Global: 0.3,
			Female: GenotypeValues{AA: 0.71, AB: 0.9, BB: 1.0},
			Male:   GenotypeValues{AA: 0.81, AB: 1.0, BB: 1.0},
		},
		Fecundity: FecundityParams{EggsPerFemale: 50, Relative: GenotypeValues{AA: 1.0, AB: 0.97, BB: 0.87}},
		Mating:    MatingParams{MaleSuccess: GenotypeValues{AA: 1.0, AB: 0.55, BB: 0.1}},
		Maturation: MaturationParams{
			FemaleDays: GenotypeValues{AA: 8.8, AB: 8.8, BB: 8.8},
			MaleDays:   GenotypeValues{AA: 12.8, AB: 10.3, BB: 8.7},
			CV:         0.5,
		},
		Environment: EnvironmentParams{Time: 10, Variation: 1},
	}
}

// uniformValues returns v for every genotype.
func uniformValues(v float64) GenotypeValues {
	return GenotypeValues{AA: v, AB: v, BB: v}
}

// alwaysMatureParams removes mortality and makes every adult mature, so pool
// sizes depend only on the mating and egg-laying logic.
func alwaysMatureParams() *Params {
	p := testParams()
	p.Survival = SurvivalParams{Global: 1, Female: uniformValues(1), Male: uniformValues(1)}
	p.Maturation = MaturationParams{FemaleDays: uniformValues(1), MaleDays: uniformValues(1), CV: 0}
	p.Environment = EnvironmentParams{Time: 10, Variation: 0}
	return p
}

// recordingReporter keeps every report it receives.
type recordingReporter struct {
	stages   []StageReport
	outcomes []Outcome
}

func (r *recordingReporter) ReportStage(s StageReport) error {
	r.stages = append(r.stages, s)
	return nil
}

func (r *recordingReporter) ReportOutcome(o Outcome) error {
	r.outcomes = append(r.outcomes, o)
	return nil
}

// population builds n individuals of the given class.
func population(n int, sex Sex, g Genotype) []Individual {
	pop := make([]Individual, n)
	for i := range pop {
		pop[i] = Individual{Sex: sex, Genotype: g}
	}
	return pop
}
