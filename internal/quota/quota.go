// Package quota turns operator weight percentages into exact per-option
// response counts using the largest remainder (Hare quota) method, then
// materializes them as shuffled answer decks.
package quota

import (
	"math"
	"math/rand"

	"github.com/spindleworks/formloom/internal/schema"
)

// Allocate returns one integer count per option such that the counts sum
// to exactly n and each count tracks the option's share of the total
// weight to within one unit. Options whose fractional parts tie keep
// their original relative order, so the pre-shuffle allocation is fully
// deterministic for a fixed input.
//
// A question whose weights are all zero is treated as uniformly weighted.
func Allocate(opts []schema.Option, n int) []int {
	counts := make([]int, len(opts))
	if len(opts) == 0 || n <= 0 {
		return counts
	}

	weights := make([]float64, len(opts))
	total := 0.0
	for i, o := range opts {
		weights[i] = o.Weight
		total += o.Weight
	}
	if total == 0 {
		for i := range weights {
			weights[i] = 1
		}
		total = float64(len(weights))
	}

	type slot struct {
		idx  int
		frac float64
	}
	slots := make([]slot, len(opts))
	allocated := 0
	for i, w := range weights {
		exact := w / total * float64(n)
		base := int(math.Floor(exact))
		counts[i] = base
		allocated += base
		slots[i] = slot{idx: i, frac: exact - float64(base)}
	}

	// Hand the leftover units to the largest fractional remainders.
	// Insertion by fraction keeps equal fractions in option order.
	remainder := n - allocated
	for k := 1; k < len(slots); k++ {
		s := slots[k]
		j := k - 1
		for j >= 0 && slots[j].frac < s.frac {
			slots[j+1] = slots[j]
			j--
		}
		slots[j+1] = s
	}
	for k := 0; k < remainder && k < len(slots); k++ {
		counts[slots[k].idx]++
	}
	return counts
}

// BuildDeck expands the allocation into a length-n sequence of option
// values and applies a Fisher-Yates shuffle so position within the batch
// carries no ordering bias. The rng is injected so callers can seed runs
// reproducibly.
func BuildDeck(rng *rand.Rand, opts []schema.Option, n int) []string {
	counts := Allocate(opts, n)
	deck := make([]string, 0, n)
	for i, c := range counts {
		for k := 0; k < c; k++ {
			deck = append(deck, opts[i].Value)
		}
	}
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck
}
