package sim

import (
	"errors"
	"fmt"
	"math/rand"
)

// Sex of an individual.
type Sex int

const (
	Female Sex = iota
	Male
	numSexes
)

func (s Sex) String() string {
	switch s {
	case Female:
		return "female"
	case Male:
		return "male"
	}
	return fmt.Sprintf("Sex(%d)", int(s))
}

// Genotype counts copies of the B allele: AA=0, AB=1, BB=2.
type Genotype int

const (
	AA Genotype = iota
	AB
	BB
	numGenotypes
)

// Genotypes lists every genotype in table order.
var Genotypes = [numGenotypes]Genotype{AA, AB, BB}

func (g Genotype) String() string {
	switch g {
	case AA:
		return "AA"
	case AB:
		return "AB"
	case BB:
		return "BB"
	}
	return fmt.Sprintf("Genotype(%d)", int(g))
}

// Allele is a single gene copy carried by a gamete.
type Allele byte

const (
	AlleleA Allele = 'A'
	AlleleB Allele = 'B'
)

func (a Allele) String() string { return string(rune(a)) }

// ErrUnknownAllele is returned for allele values other than A or B.
var ErrUnknownAllele = errors.New("unknown allele")

// Individual is an immutable (sex, genotype) value. Individuals with equal
// fields are interchangeable.
type Individual struct {
	Sex      Sex
	Genotype Genotype
}

// Class returns the table key of the individual.
func (ind Individual) Class() Class {
	return Class{Sex: ind.Sex, Genotype: ind.Genotype}
}

// Class is the comparable (sex, genotype) key of the parameter tables.
type Class struct {
	Sex      Sex
	Genotype Genotype
}

// AlleleFromParent returns the allele a parent passes to one gamete.
// Heterozygotes flip a fair coin on every call.
func AlleleFromParent(rng *rand.Rand, parent Individual) Allele {
	switch parent.Genotype {
	case AA:
		return AlleleA
	case BB:
		return AlleleB
	}
	if rng.Float64() < 0.5 {
		return AlleleA
	}
	return AlleleB
}

// GenotypeFromAlleles combines two gametes. Order does not matter.
func GenotypeFromAlleles(a1, a2 Allele) (Genotype, error) {
	for _, a := range [2]Allele{a1, a2} {
		if a != AlleleA && a != AlleleB {
			return 0, fmt.Errorf("%w: %q", ErrUnknownAllele, rune(a))
		}
	}
	switch {
	case a1 == AlleleA && a2 == AlleleA:
		return AA, nil
	case a1 == AlleleB && a2 == AlleleB:
		return BB, nil
	}
	return AB, nil
}

// GenotypeCounts tallies individuals per genotype.
type GenotypeCounts [numGenotypes]int

// CountGenotypes tallies the genotypes of a population.
func CountGenotypes(pop []Individual) GenotypeCounts {
	var c GenotypeCounts
	for _, ind := range pop {
		c[ind.Genotype]++
	}
	return c
}

// Total returns the number of individuals counted.
func (c GenotypeCounts) Total() int {
	return c[AA] + c[AB] + c[BB]
}

// Proportions converts counts into genotype frequencies. An empty tally
// yields all zeros.
func (c GenotypeCounts) Proportions() Proportions {
	n := c.Total()
	if n == 0 {
		return Proportions{}
	}
	return Proportions{
		AA: float64(c[AA]) / float64(n),
		AB: float64(c[AB]) / float64(n),
		BB: float64(c[BB]) / float64(n),
	}
}

// Fixated reports whether one allele is absent: no heterozygotes and no
// individuals of one of the homozygous classes.
func (c GenotypeCounts) Fixated() bool {
	return (c[AA] == 0 && c[AB] == 0) || (c[BB] == 0 && c[AB] == 0)
}

// Proportions holds genotype frequencies.
type Proportions struct {
	AA, AB, BB float64
}

// Of returns the frequency of g.
func (p Proportions) Of(g Genotype) float64 {
	switch g {
	case AA:
		return p.AA
	case AB:
		return p.AB
	case BB:
		return p.BB
	}
	return 0
}

// BAllele returns the frequency of the B allele implied by the genotype
// frequencies.
func (p Proportions) BAllele() float64 {
	return p.AB/2 + p.BB
}

// GenotypeProportions returns (pAA, pAB, pBB) for a population, or all zeros
// for an empty one.
func GenotypeProportions(pop []Individual) Proportions {
	return CountGenotypes(pop).Proportions()
}
