// Package align reorders the answer decks of related demographic
// questions so each synthetic respondent's combination of age,
// profession, income, education and gender reads as plausible, while
// every deck keeps exactly its allocated multiset of values.
package align

import (
	"math/rand"
)

// Kind identifies which demographic a participating deck represents.
type Kind int

const (
	KindAge Kind = iota
	KindProfession
	KindEducation
	KindIncome
	KindGender
)

// anchorOrder is the priority used both to choose the anchor (the most
// constraining field, whose deck is never reordered) and to fix the
// order in which the remaining fields are assigned.
var anchorOrder = []Kind{KindAge, KindProfession, KindEducation, KindIncome, KindGender}

// Align reorders every non-anchor deck row by row: at each row the
// still-unused candidate that best fits the already-assigned values wins,
// with a small rng jitter added to the score so exact ties do not produce
// repeating patterns. The returned decks are permutations of the inputs.
//
// Gender decks participate in the reassignment but no scoring rule reads
// them, so their ordering ends up jitter-driven.
func Align(rng *rand.Rand, decks map[Kind][]string, scorer Scorer) map[Kind][]string {
	if scorer == nil {
		scorer = RuleScorer{}
	}

	out := make(map[Kind][]string, len(decks))

	anchor, ok := pickAnchor(decks)
	if !ok {
		for k, d := range decks {
			out[k] = append([]string(nil), d...)
		}
		return out
	}
	out[anchor] = append([]string(nil), decks[anchor]...)
	n := len(out[anchor])
	assigned := []Kind{anchor}

	for _, kind := range anchorOrder {
		deck, present := decks[kind]
		if !present || kind == anchor {
			continue
		}
		pool := append([]string(nil), deck...)
		result := make([]string, 0, len(deck))

		for i := 0; i < n && len(pool) > 0; i++ {
			base := profileAt(out, assigned, i)

			bestIdx := 0
			bestScore := 0.0
			for j, cand := range pool {
				p := base
				applyValue(&p, kind, cand)
				score := scorer.Score(p) + rng.Float64()
				if j == 0 || score > bestScore {
					bestIdx, bestScore = j, score
				}
			}
			result = append(result, pool[bestIdx])
			pool = append(pool[:bestIdx], pool[bestIdx+1:]...)
		}
		// A deck longer than the anchor's keeps its tail as-is.
		result = append(result, pool...)
		out[kind] = result
		assigned = append(assigned, kind)
	}
	return out
}

func pickAnchor(decks map[Kind][]string) (Kind, bool) {
	for _, k := range anchorOrder {
		if k == KindGender {
			continue
		}
		if d, ok := decks[k]; ok && len(d) > 0 {
			return k, true
		}
	}
	return 0, false
}

// profileAt derives the semantic reading of the already-assigned fields
// at the given row.
func profileAt(out map[Kind][]string, assigned []Kind, row int) Profile {
	var p Profile
	for _, k := range assigned {
		deck := out[k]
		if row < len(deck) {
			applyValue(&p, k, deck[row])
		}
	}
	return p
}

func applyValue(p *Profile, kind Kind, value string) {
	switch kind {
	case KindAge:
		p.HasAge = true
		p.Age = AgeMidpoint(value)
	case KindProfession:
		p.HasOccupation = true
		p.Occupation = OccupationOf(value)
	case KindIncome:
		p.HasIncome = true
		p.Income = IncomeTier(value)
	case KindEducation:
		p.HasEducation = true
		p.Education = EducationLevel(value)
	}
}
