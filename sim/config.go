package sim

import (
	"errors"
	"fmt"
	"math"
)

// proportionTolerance absorbs rounding when proportion_aa + proportion_bb == 1.
const proportionTolerance = 1e-9

// maxClutchSize bounds eggs_per_female * fecundity.relative so clutch sizes
// convert to int exactly.
const maxClutchSize = 1e6

// ErrInvalidParams wraps every parameter validation failure.
var ErrInvalidParams = errors.New("invalid parameters")

// GenotypeValues holds one value per genotype.
type GenotypeValues struct {
	AA float64 `yaml:"aa"`
	AB float64 `yaml:"ab"`
	BB float64 `yaml:"bb"`
}

// Of returns the value for g.
func (v GenotypeValues) Of(g Genotype) float64 {
	switch g {
	case AA:
		return v.AA
	case AB:
		return v.AB
	case BB:
		return v.BB
	}
	return math.NaN()
}

// FounderParams describes the synthetic generation 0.
type FounderParams struct {
	ProportionAA      float64 `yaml:"proportion_aa"`
	ProportionBB      float64 `yaml:"proportion_bb"`
	ProportionFemales float64 `yaml:"proportion_females"`
}

// ProportionAB is 1 - AA - BB.
func (f FounderParams) ProportionAB() float64 {
	return 1 - f.ProportionAA - f.ProportionBB
}

// SurvivalParams groups egg-to-adult survival probabilities.
type SurvivalParams struct {
	Global float64        `yaml:"global"` // applied on top of every per-class rate
	Female GenotypeValues `yaml:"female"`
	Male   GenotypeValues `yaml:"male"`
}

// FecundityParams groups egg-laying parameters.
type FecundityParams struct {
	EggsPerFemale float64        `yaml:"eggs_per_female"`
	Relative      GenotypeValues `yaml:"relative"` // genotype multiplier on EggsPerFemale
}

// MatingParams groups male mating success parameters.
type MatingParams struct {
	MaleSuccess         GenotypeValues `yaml:"male_success"`
	FrequencyDependence float64        `yaml:"frequency_dependence"` // 0 disables
}

// MaturationParams groups mean maturation times and their spread.
type MaturationParams struct {
	FemaleDays GenotypeValues `yaml:"female_days"`
	MaleDays   GenotypeValues `yaml:"male_days"`
	CV         float64        `yaml:"cv"`
}

// EnvironmentParams describes the uniform window [Time-Variation, Time+Variation).
type EnvironmentParams struct {
	Time      float64 `yaml:"time"`
	Variation float64 `yaml:"variation"`
}

// Params is the fully-resolved, read-only parameter snapshot of a run.
type Params struct {
	Generations       int     `yaml:"generations"`
	EggsPerGeneration int     `yaml:"eggs_per_generation"`
	ProportionFemales float64 `yaml:"proportion_females"` // sex ratio at egg-laying
	StopWhenFixated   bool    `yaml:"stop_when_fixated"`

	Founders    FounderParams     `yaml:"founders"`
	Survival    SurvivalParams    `yaml:"survival"`
	Fecundity   FecundityParams   `yaml:"fecundity"`
	Mating      MatingParams      `yaml:"mating"`
	Maturation  MaturationParams  `yaml:"maturation"`
	Environment EnvironmentParams `yaml:"environment"`
}

// FounderCount is the generation 0 adult count: floor(eggs * global survival).
func (p *Params) FounderCount() int {
	return int(float64(p.EggsPerGeneration) * p.Survival.Global)
}

// Validate checks every precondition the engine relies on.
func (p *Params) Validate() error {
	if p.Generations < 1 {
		return fmt.Errorf("%w: generations must be >= 1, got %d", ErrInvalidParams, p.Generations)
	}
	if p.EggsPerGeneration < 0 {
		return fmt.Errorf("%w: eggs_per_generation must be >= 0, got %d", ErrInvalidParams, p.EggsPerGeneration)
	}

	units := []namedValue{
		{"proportion_females", p.ProportionFemales},
		{"founders.proportion_aa", p.Founders.ProportionAA},
		{"founders.proportion_bb", p.Founders.ProportionBB},
		{"founders.proportion_females", p.Founders.ProportionFemales},
		{"survival.global", p.Survival.Global},
		{"mating.frequency_dependence", p.Mating.FrequencyDependence},
		{"maturation.cv", p.Maturation.CV},
	}
	for _, g := range Genotypes {
		units = append(units,
			namedValue{"survival.female." + g.String(), p.Survival.Female.Of(g)},
			namedValue{"survival.male." + g.String(), p.Survival.Male.Of(g)},
			namedValue{"mating.male_success." + g.String(), p.Mating.MaleSuccess.Of(g)},
		)
	}
	for _, u := range units {
		if err := validateUnit(u.name, u.v); err != nil {
			return err
		}
	}

	if ab := p.Founders.ProportionAB(); ab < -proportionTolerance {
		return fmt.Errorf("%w: founders.proportion_aa + founders.proportion_bb must be <= 1, got AB=%g",
			ErrInvalidParams, ab)
	}

	if err := validateNonNegative("fecundity.eggs_per_female", p.Fecundity.EggsPerFemale); err != nil {
		return err
	}
	if err := validateNonNegative("environment.variation", p.Environment.Variation); err != nil {
		return err
	}
	if err := validateNonNegative("environment.time", p.Environment.Time); err != nil {
		return err
	}
	for _, g := range Genotypes {
		if err := validateNonNegative("fecundity.relative."+g.String(), p.Fecundity.Relative.Of(g)); err != nil {
			return err
		}
		if clutch := p.Fecundity.EggsPerFemale * p.Fecundity.Relative.Of(g); clutch > maxClutchSize {
			return fmt.Errorf("%w: fecundity.eggs_per_female * fecundity.relative.%s must be <= %g, got %g",
				ErrInvalidParams, g, float64(maxClutchSize), clutch)
		}
		if err := validatePositive("maturation.female_days."+g.String(), p.Maturation.FemaleDays.Of(g)); err != nil {
			return err
		}
		if err := validatePositive("maturation.male_days."+g.String(), p.Maturation.MaleDays.Of(g)); err != nil {
			return err
		}
	}
	return nil
}

type namedValue struct {
	name string
	v    float64
}

func validateUnit(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return fmt.Errorf("%w: %s must be in [0, 1], got %g", ErrInvalidParams, name, v)
	}
	return nil
}

func validateNonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%w: %s must be a finite value >= 0, got %g", ErrInvalidParams, name, v)
	}
	return nil
}

func validatePositive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("%w: %s must be a finite value > 0, got %g", ErrInvalidParams, name, v)
	}
	return nil
}
