package quota

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spindleworks/formloom/internal/schema"
)

func opts(weights ...float64) []schema.Option {
	out := make([]schema.Option, len(weights))
	for i, w := range weights {
		out[i] = schema.Option{Value: string(rune('A' + i)), Weight: w}
	}
	return out
}

func TestAllocateExactSplit(t *testing.T) {
	counts := Allocate(opts(60, 40), 5)
	assert.Equal(t, []int{3, 2}, counts)
}

func TestAllocateLargestRemainder(t *testing.T) {
	// 33/33/34 over 10: bases [3,3,3], the single leftover unit goes to
	// the option with fraction 0.4.
	counts := Allocate(opts(33, 33, 34), 10)
	assert.Equal(t, []int{3, 3, 4}, counts)
}

func TestAllocateSumsToN(t *testing.T) {
	cases := []struct {
		name    string
		weights []float64
		n       int
	}{
		{"uneven", []float64{7, 13, 80}, 97},
		{"not summing to 100", []float64{5, 5, 5}, 11},
		{"single option", []float64{100}, 42},
		{"many ties", []float64{25, 25, 25, 25}, 7},
		{"zero weight option", []float64{0, 50, 50}, 9},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			counts := Allocate(opts(tc.weights...), tc.n)
			sum := 0
			for _, c := range counts {
				sum += c
			}
			assert.Equal(t, tc.n, sum)
		})
	}
}

func TestAllocateWithinOneOfIdealShare(t *testing.T) {
	weights := []float64{17, 29, 54}
	n := 101
	counts := Allocate(opts(weights...), n)
	for i, w := range weights {
		ideal := w / 100 * float64(n)
		assert.InDelta(t, ideal, float64(counts[i]), 1.0, "option %d", i)
	}
}

func TestAllocateTiesKeepOptionOrder(t *testing.T) {
	// Equal fractions: the earlier options receive the extra units.
	counts := Allocate(opts(25, 25, 25, 25), 6)
	assert.Equal(t, []int{2, 2, 1, 1}, counts)
}

func TestAllocateDeterministic(t *testing.T) {
	first := Allocate(opts(12, 34, 54), 77)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Allocate(opts(12, 34, 54), 77))
	}
}

func TestAllocateZeroN(t *testing.T) {
	assert.Equal(t, []int{0, 0}, Allocate(opts(60, 40), 0))
}

func TestAllocateAllZeroWeightsFallsBackToUniform(t *testing.T) {
	counts := Allocate(opts(0, 0, 0, 0), 8)
	assert.Equal(t, []int{2, 2, 2, 2}, counts)
}

func TestBuildDeckIsShuffledAllocation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	options := opts(60, 40)
	deck := BuildDeck(rng, options, 50)
	require.Len(t, deck, 50)

	byValue := map[string]int{}
	for _, v := range deck {
		byValue[v]++
	}
	assert.Equal(t, 30, byValue["A"])
	assert.Equal(t, 20, byValue["B"])
}

func TestBuildDeckSingleOption(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	deck := BuildDeck(rng, opts(100), 4)
	assert.Equal(t, []string{"A", "A", "A", "A"}, deck)
}

func TestBuildDeckCompositionStableAcrossSeeds(t *testing.T) {
	options := opts(33, 33, 34)
	want := BuildDeck(rand.New(rand.NewSource(1)), options, 30)
	got := BuildDeck(rand.New(rand.NewSource(99)), options, 30)

	sort.Strings(want)
	sort.Strings(got)
	assert.Equal(t, want, got, "shuffle must not change the multiset")
}
