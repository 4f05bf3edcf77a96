package align

import (
	"strconv"
	"strings"
	"unicode"
)

// Occupation is the coarse class a profession answer maps to.
type Occupation string

const (
	OccStudent    Occupation = "student"
	OccRetired    Occupation = "retired"
	OccUnemployed Occupation = "unemployed"
	OccBusiness   Occupation = "business"
	OccEmployed   Occupation = "employed"
	OccOther      Occupation = "other"
)

// AgeMidpoint maps an age option's text to a representative numeric age.
// Unrecognized text falls back to 30, a neutral adult value.
func AgeMidpoint(s string) int {
	t := strings.ToLower(s)
	switch {
	case strings.Contains(t, "under 18") || strings.Contains(t, "below 18") || strings.Contains(t, "<18"):
		return 15
	case strings.Contains(t, "18-25") || strings.Contains(t, "18 - 25") || strings.Contains(t, "18 to 25"):
		return 21
	case strings.Contains(t, "25-34") || strings.Contains(t, "26-35") || strings.Contains(t, "25 - 34"):
		return 29
	case strings.Contains(t, "35-44") || strings.Contains(t, "36-45") || strings.Contains(t, "35 - 44"):
		return 39
	case strings.Contains(t, "45-54") || strings.Contains(t, "46-55") || strings.Contains(t, "45 - 54"):
		return 49
	case strings.Contains(t, "55") || strings.Contains(t, "above") || strings.Contains(t, "over") || strings.Contains(t, "+"):
		return 60
	}
	if lo, hi, ok := numericRange(t); ok {
		return (lo + hi) / 2
	}
	return 30
}

// numericRange pulls the first two numbers out of free-form range text
// like "between 20 and 29".
func numericRange(t string) (int, int, bool) {
	var nums []int
	field := strings.Builder{}
	flush := func() {
		if field.Len() > 0 {
			if n, err := strconv.Atoi(field.String()); err == nil {
				nums = append(nums, n)
			}
			field.Reset()
		}
	}
	for _, r := range t {
		if unicode.IsDigit(r) {
			field.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	if len(nums) >= 2 {
		return nums[0], nums[1], true
	}
	return 0, 0, false
}

// OccupationOf classifies a profession answer by keyword.
func OccupationOf(s string) Occupation {
	t := strings.ToLower(s)
	switch {
	case strings.Contains(t, "student") || strings.Contains(t, "studying") || strings.Contains(t, "pupil"):
		return OccStudent
	case strings.Contains(t, "retired") || strings.Contains(t, "pension"):
		return OccRetired
	case strings.Contains(t, "unemployed") || strings.Contains(t, "not working") || strings.Contains(t, "looking for"):
		return OccUnemployed
	case strings.Contains(t, "business") || strings.Contains(t, "self-employed") || strings.Contains(t, "self employed") ||
		strings.Contains(t, "entrepreneur") || strings.Contains(t, "freelance"):
		return OccBusiness
	case strings.Contains(t, "employ") || strings.Contains(t, "working") || strings.Contains(t, "professional") ||
		strings.Contains(t, "service") || strings.Contains(t, "job"):
		return OccEmployed
	}
	return OccOther
}

// IncomeTier maps an income answer to a coarse annual figure, or -1 when
// no tier can be inferred.
func IncomeTier(s string) int {
	t := strings.ToLower(s)
	switch {
	case strings.Contains(t, "no income") || strings.Contains(t, "none") || strings.Contains(t, "nil") ||
		strings.Contains(t, "not earning") || strings.Contains(t, "dependent"):
		return 0
	case strings.Contains(t, "below 20") || strings.Contains(t, "under 20") || strings.Contains(t, "less than 20") ||
		strings.Contains(t, "below 25") || strings.Contains(t, "under 25"):
		return 15000
	case strings.Contains(t, "20,000") || strings.Contains(t, "20000") || strings.Contains(t, "30,000") ||
		strings.Contains(t, "30000") || strings.Contains(t, "40,000") || strings.Contains(t, "40000"):
		return 35000
	case strings.Contains(t, "50,000") || strings.Contains(t, "50000") || strings.Contains(t, "75,000") ||
		strings.Contains(t, "1 lakh") || strings.Contains(t, "100000") || strings.Contains(t, "1,00,000"):
		return 70000
	case strings.Contains(t, "above") || strings.Contains(t, "more than") || strings.Contains(t, "over") ||
		strings.Contains(t, "lakh") || strings.Contains(t, "high"):
		return 150000
	}
	if strings.ContainsAny(t, "0123456789") {
		return 35000
	}
	return -1
}

// EducationLevel scores an education answer: 10 for school-level, 15 for
// a bachelor's, 18 for postgraduate work, 12 when unrecognized.
func EducationLevel(s string) int {
	t := strings.ToLower(s)
	switch {
	case strings.Contains(t, "phd") || strings.Contains(t, "doctor") || strings.Contains(t, "master") ||
		strings.Contains(t, "post graduate") || strings.Contains(t, "postgraduate") || strings.Contains(t, "pg"):
		return 18
	case strings.Contains(t, "bachelor") || strings.Contains(t, "graduate") || strings.Contains(t, "degree") ||
		strings.Contains(t, "b.tech") || strings.Contains(t, "b.sc") || strings.Contains(t, "undergrad"):
		return 15
	case strings.Contains(t, "school") || strings.Contains(t, "10th") || strings.Contains(t, "12th") ||
		strings.Contains(t, "secondary") || strings.Contains(t, "hsc") || strings.Contains(t, "ssc"):
		return 10
	}
	return 12
}
