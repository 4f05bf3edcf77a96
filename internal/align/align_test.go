package align

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignPairsPlausibleCombinations(t *testing.T) {
	// (Under 18, Business Owner) carries a hard penalty, so the student
	// must land on the under-18 row regardless of jitter.
	rng := rand.New(rand.NewSource(7))
	out := Align(rng, map[Kind][]string{
		KindAge:        {"Under 18", "25-34"},
		KindProfession: {"Student", "Business Owner"},
	}, nil)

	assert.Equal(t, []string{"Under 18", "25-34"}, out[KindAge], "anchor deck must not be reordered")
	assert.Equal(t, []string{"Student", "Business Owner"}, out[KindProfession])
}

func TestAlignPreservesMarginals(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	age := []string{"Under 18", "18-25", "25-34", "35-44", "55+", "Under 18", "25-34", "45-54"}
	prof := []string{"Student", "Student", "Employed", "Business", "Retired", "Unemployed", "Employed", "Employed"}
	income := []string{"No income", "No income", "Above 1 lakh", "50,000-1,00,000", "20,000-30,000", "No income", "Above 1 lakh", "50,000-1,00,000"}

	out := Align(rng, map[Kind][]string{
		KindAge:        append([]string(nil), age...),
		KindProfession: append([]string(nil), prof...),
		KindIncome:     append([]string(nil), income...),
	}, nil)

	for kind, original := range map[Kind][]string{KindAge: age, KindProfession: prof, KindIncome: income} {
		got := append([]string(nil), out[kind]...)
		want := append([]string(nil), original...)
		sort.Strings(got)
		sort.Strings(want)
		assert.Equal(t, want, got, "kind %d must be a permutation", kind)
	}
}

func TestAlignAssignsStudentsToMinors(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	age := []string{"Under 18", "Under 18", "35-44", "35-44"}
	prof := []string{"Employed", "Student", "Student", "Employed"}

	out := Align(rng, map[Kind][]string{
		KindAge:        age,
		KindProfession: prof,
	}, nil)

	for i, a := range out[KindAge] {
		p := out[KindProfession][i]
		if a == "Under 18" {
			assert.Equal(t, "Student", p, "row %d", i)
		} else {
			assert.Equal(t, "Employed", p, "row %d", i)
		}
	}
}

func TestAlignWithoutAnchorPassesThrough(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	gender := []string{"Male", "Female", "Other"}
	out := Align(rng, map[Kind][]string{KindGender: gender}, nil)
	assert.Equal(t, gender, out[KindGender])
}

func TestAlignGenderStaysPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	gender := []string{"Male", "Male", "Female", "Female", "Other"}
	out := Align(rng, map[Kind][]string{
		KindAge:    {"18-25", "25-34", "35-44", "45-54", "55+"},
		KindGender: append([]string(nil), gender...),
	}, nil)

	got := append([]string(nil), out[KindGender]...)
	want := append([]string(nil), gender...)
	sort.Strings(got)
	sort.Strings(want)
	assert.Equal(t, want, got)
}

func TestAgeMidpoint(t *testing.T) {
	cases := map[string]int{
		"Under 18":         15,
		"18-25":            21,
		"25-34":            29,
		"35-44":            39,
		"45-54":            49,
		"55 and above":     60,
		"something random": 30,
	}
	for in, want := range cases {
		assert.Equal(t, want, AgeMidpoint(in), "input %q", in)
	}
}

func TestOccupationOf(t *testing.T) {
	cases := map[string]Occupation{
		"College Student":      OccStudent,
		"Retired":              OccRetired,
		"Currently unemployed": OccUnemployed,
		"Business Owner":       OccBusiness,
		"Self-employed":        OccBusiness,
		"Salaried Employee":    OccEmployed,
		"Homemaker":            OccOther,
	}
	for in, want := range cases {
		assert.Equal(t, want, OccupationOf(in), "input %q", in)
	}
}

func TestIncomeTier(t *testing.T) {
	assert.Equal(t, 0, IncomeTier("No income"))
	assert.Equal(t, 15000, IncomeTier("Below 20,000"))
	assert.Equal(t, 35000, IncomeTier("20,000 - 40,000"))
	assert.Equal(t, 70000, IncomeTier("50,000 - 1,00,000"))
	assert.Equal(t, 150000, IncomeTier("Above 2 lakh"))
	assert.Equal(t, -1, IncomeTier("prefer not to say"))
}

func TestEducationLevel(t *testing.T) {
	assert.Equal(t, 10, EducationLevel("High School"))
	assert.Equal(t, 15, EducationLevel("Bachelor's Degree"))
	assert.Equal(t, 18, EducationLevel("Master's Degree"))
	assert.Equal(t, 12, EducationLevel("Prefer not to say"))
}

func TestRuleScorerVetoesImplausiblePairs(t *testing.T) {
	minorWorker := Profile{HasAge: true, Age: 15, HasOccupation: true, Occupation: OccEmployed}
	minorStudent := Profile{HasAge: true, Age: 15, HasOccupation: true, Occupation: OccStudent}

	s := RuleScorer{}
	require.Less(t, s.Score(minorWorker), s.Score(minorStudent))
	// Hard penalties must dominate any jitter or bonus.
	require.Less(t, s.Score(minorWorker), -5000.0)
}
