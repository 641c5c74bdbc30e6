package sim

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// ErrEmptyOrZeroWeight is returned when a weighted choice has no candidate
// with a positive, finite weight.
var ErrEmptyOrZeroWeight = errors.New("weighted choice: empty list or all weights zero/NaN")

// Weighted pairs a value with its unnormalized selection weight.
type Weighted[T any] struct {
	Value  T
	Weight float64
}

// WeightedSampler draws values with probability weight_i / sum(weights).
// Weights need not be normalized. NaN weights count as zero.
type WeightedSampler[T any] struct {
	values []T
	cdf    []float64 // cumulative weights, last entry == total
	total  float64
}

// NewWeightedSampler prepares a sampler over items. It fails with
// ErrEmptyOrZeroWeight when no item carries a positive weight, and rejects
// negative or infinite weights as malformed input.
func NewWeightedSampler[T any](items []Weighted[T]) (*WeightedSampler[T], error) {
	weights := make([]float64, len(items))
	for i, it := range items {
		w := it.Weight
		switch {
		case math.IsNaN(w):
			w = 0
		case w < 0:
			return nil, fmt.Errorf("weighted choice: negative weight %v at index %d", w, i)
		case math.IsInf(w, 1):
			return nil, fmt.Errorf("weighted choice: infinite weight at index %d", i)
		}
		weights[i] = w
	}
	total := floats.Sum(weights)
	if len(items) == 0 || !(total > 0) {
		return nil, ErrEmptyOrZeroWeight
	}

	s := &WeightedSampler[T]{
		values: make([]T, 0, len(items)),
		cdf:    make([]float64, 0, len(items)),
		total:  total,
	}
	cumulative := 0.0
	for i, w := range weights {
		if w == 0 {
			continue // zero-weight values can never be drawn
		}
		cumulative += w
		s.values = append(s.values, items[i].Value)
		s.cdf = append(s.cdf, cumulative)
	}
	// Guard against rounding drift so the last bucket always closes the range.
	s.cdf[len(s.cdf)-1] = total
	return s, nil
}

// Sample draws one value using a single rng.Float64() call.
func (s *WeightedSampler[T]) Sample(rng *rand.Rand) T {
	u := rng.Float64() * s.total
	idx := sort.Search(len(s.cdf), func(i int) bool { return u < s.cdf[i] })
	if idx >= len(s.values) {
		idx = len(s.values) - 1
	}
	return s.values[idx]
}

// Choose draws a single value from items. It is the one-shot form of
// NewWeightedSampler followed by Sample.
func Choose[T any](rng *rand.Rand, items []Weighted[T]) (T, error) {
	s, err := NewWeightedSampler(items)
	if err != nil {
		var zero T
		return zero, err
	}
	return s.Sample(rng), nil
}
