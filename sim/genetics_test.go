package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlleleFromParent_Homozygotes(t *testing.T) {
	rng := newRandFromSeed(3)
	for i := 0; i < 1000; i++ {
		assert.Equal(t, AlleleA, AlleleFromParent(rng, Individual{Female, AA}))
		assert.Equal(t, AlleleB, AlleleFromParent(rng, Individual{Male, BB}))
	}
}

func TestAlleleFromParent_HeterozygoteFairCoin(t *testing.T) {
	// GIVEN the same AB parent drawn for many gametes
	rng := newRandFromSeed(11)
	parent := Individual{Female, AB}
	const n = 100000
	countA := 0
	for i := 0; i < n; i++ {
		if AlleleFromParent(rng, parent) == AlleleA {
			countA++
		}
	}

	// THEN both alleles appear with frequency near 0.5
	assert.InDelta(t, 0.5, float64(countA)/n, 0.01)
}

func TestGenotypeFromAlleles(t *testing.T) {
	tests := []struct {
		a1, a2 Allele
		want   Genotype
	}{
		{AlleleA, AlleleA, AA},
		{AlleleB, AlleleB, BB},
		{AlleleA, AlleleB, AB},
		{AlleleB, AlleleA, AB},
	}
	for _, tt := range tests {
		got, err := GenotypeFromAlleles(tt.a1, tt.a2)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "(%s,%s)", tt.a1, tt.a2)

		swapped, err := GenotypeFromAlleles(tt.a2, tt.a1)
		require.NoError(t, err)
		assert.Equal(t, got, swapped, "not symmetric for (%s,%s)", tt.a1, tt.a2)
	}
}

func TestGenotypeFromAlleles_UnknownAllele(t *testing.T) {
	for _, pair := range [][2]Allele{{'C', AlleleA}, {AlleleB, 'x'}, {0, 0}} {
		_, err := GenotypeFromAlleles(pair[0], pair[1])
		assert.True(t, errors.Is(err, ErrUnknownAllele), "pair %q: got %v", pair, err)
	}
}

func TestGenotypeProportions_Empty(t *testing.T) {
	assert.Equal(t, Proportions{}, GenotypeProportions(nil))
	assert.Equal(t, Proportions{}, GenotypeProportions([]Individual{}))
}

func TestGenotypeProportions_Mixed(t *testing.T) {
	pop := append(population(1, Female, AA), population(3, Male, AB)...)
	pop = append(pop, population(4, Female, BB)...)

	got := GenotypeProportions(pop)

	assert.InDelta(t, 0.125, got.AA, 1e-12)
	assert.InDelta(t, 0.375, got.AB, 1e-12)
	assert.InDelta(t, 0.5, got.BB, 1e-12)
	assert.InDelta(t, 0.375/2+0.5, got.BAllele(), 1e-12)
}

func TestGenotypeCounts_Fixated(t *testing.T) {
	tests := []struct {
		name   string
		counts GenotypeCounts
		want   bool
	}{
		{"only AA", GenotypeCounts{10, 0, 0}, true},
		{"only BB", GenotypeCounts{0, 0, 10}, true},
		{"AA and BB", GenotypeCounts{5, 0, 5}, false},
		{"heterozygotes left", GenotypeCounts{10, 1, 0}, false},
		{"all classes", GenotypeCounts{1, 1, 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.counts.Fixated())
		})
	}
}

func TestClass_ValueEquality(t *testing.T) {
	// Keys built separately but with equal fields must hit the same entry.
	table := map[Class]float64{{Female, AB}: 0.9}
	key := Individual{Sex: Female, Genotype: AB}.Class()
	assert.Equal(t, 0.9, table[key])
}
