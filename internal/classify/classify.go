// Package classify holds the question-intent heuristics. Every predicate
// is a pure function over a question's title (and option list for the
// demographic ones). The heuristics distinguish questions that ask FOR a
// piece of data from questions that are merely ABOUT it: "Your age" is an
// age question, "What do you think about age discrimination?" is not.
package classify

import (
	"strings"

	"github.com/spindleworks/formloom/internal/schema"
)

// Titles longer than this are treated as discussion prompts rather than
// data-collection fields regardless of keywords.
const maxIntentTitleLen = 60

var contextualMarkers = []string{
	"about", "opinion", "think", "feel", "agree", "rate", "impact",
	"affect", "importance", "discrimination", "awareness",
}

func normalize(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// asksFor reports whether the title is a short data-collection prompt
// containing one of the keywords, with no contextual phrasing around it.
func asksFor(title string, keywords ...string) bool {
	t := normalize(title)
	if t == "" || len(t) > maxIntentTitleLen {
		return false
	}
	hit := false
	for _, kw := range keywords {
		if strings.Contains(t, kw) {
			hit = true
			break
		}
	}
	if !hit {
		return false
	}
	for _, m := range contextualMarkers {
		if strings.Contains(t, m) {
			return false
		}
	}
	return true
}

func IsPersonalName(title string) bool {
	t := normalize(title)
	if strings.Contains(t, "user name") || strings.Contains(t, "username") ||
		strings.Contains(t, "file name") || strings.Contains(t, "nickname") {
		return false
	}
	return asksFor(title, "your name", "full name", "name")
}

func IsPersonalEmail(title string) bool {
	return asksFor(title, "email", "e-mail", "mail id")
}

func IsPhone(title string) bool {
	return asksFor(title, "phone", "mobile", "contact number", "whatsapp")
}

// Demographic predicates additionally require the option list to look the
// part, so a free-text "age of your car" prompt does not qualify.

func IsAge(title string, opts []schema.Option) bool {
	if !asksFor(title, "age", "how old", "year of birth", "age group") {
		return false
	}
	if len(opts) == 0 {
		return true
	}
	return countMatching(opts, func(v string) bool {
		return strings.ContainsAny(v, "0123456789") ||
			strings.Contains(v, "under") || strings.Contains(v, "above") ||
			strings.Contains(v, "over")
	}) >= len(opts)/2
}

func IsProfession(title string, opts []schema.Option) bool {
	if !asksFor(title, "profession", "occupation", "employment", "work status", "what do you do") {
		return false
	}
	if len(opts) == 0 {
		return true
	}
	return countMatching(opts, func(v string) bool {
		for _, kw := range []string{"student", "employ", "business", "retired", "work", "professional", "homemaker", "other"} {
			if strings.Contains(v, kw) {
				return true
			}
		}
		return false
	}) > 0
}

func IsIncome(title string, opts []schema.Option) bool {
	if !asksFor(title, "income", "salary", "earning", "annual package") {
		return false
	}
	if len(opts) == 0 {
		return true
	}
	return countMatching(opts, func(v string) bool {
		return strings.ContainsAny(v, "0123456789") ||
			strings.Contains(v, "no income") || strings.Contains(v, "nil") ||
			strings.Contains(v, "lakh") || strings.Contains(v, "below") ||
			strings.Contains(v, "above")
	}) > 0
}

func IsEducation(title string, opts []schema.Option) bool {
	if !asksFor(title, "education", "qualification", "degree", "studying") {
		return false
	}
	if len(opts) == 0 {
		return true
	}
	return countMatching(opts, func(v string) bool {
		for _, kw := range []string{"school", "bachelor", "master", "graduate", "phd", "diploma", "degree", "12th", "10th"} {
			if strings.Contains(v, kw) {
				return true
			}
		}
		return false
	}) > 0
}

func IsGender(title string, opts []schema.Option) bool {
	if !asksFor(title, "gender", "sex") {
		return false
	}
	if len(opts) == 0 {
		return true
	}
	return countMatching(opts, func(v string) bool {
		for _, kw := range []string{"male", "female", "other", "prefer not", "non-binary"} {
			if strings.Contains(v, kw) {
				return true
			}
		}
		return false
	}) > 0
}

func countMatching(opts []schema.Option, pred func(string) bool) int {
	n := 0
	for _, o := range opts {
		if pred(strings.ToLower(o.Value)) {
			n++
		}
	}
	return n
}
