// Package payload resolves each question's final answer for a given row
// and assembles the form-encoded submission body. Resolution precedence:
// operator override pools, synthetic personal data (name, email, phone),
// the question's allocated deck value, then option fallbacks.
package payload

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/spindleworks/formloom/internal/classify"
	"github.com/spindleworks/formloom/internal/schema"
)

// EmailKey is the literal field Google Forms uses when a form collects
// respondent emails outside a regular question.
const EmailKey = "emailAddress"

var emailDomains = []string{"gmail.com", "yahoo.com", "outlook.com", "hotmail.com"}

// checkbox rows pick up a second selection with this probability, drawn
// from the remaining options weighted above secondaryWeightFloor.
const (
	secondaryPickRate    = 0.3
	secondaryWeightFloor = 20.0
)

// Payload is one row's complete submission body: entry field values plus
// the form's hidden fields and page history. Multi-valued entries belong
// to checkbox questions.
type Payload struct {
	Row    int
	Fields map[string][]string
}

// ValidationError marks a row whose required questions could not all be
// resolved; such rows are logged and skipped, never dispatched.
type ValidationError struct {
	Row      int
	Question string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("row %d: required question %q resolved empty", e.Row, e.Question)
}

// Compiler builds payloads for consecutive rows of one run.
type Compiler struct {
	Rng       *rand.Rand
	Questions []schema.Question
	// Decks maps question ID to its (aligned) length-N answer deck.
	Decks map[string][]string
	// Overrides maps question ID to an operator-supplied value pool that
	// cycles by row index.
	Overrides map[string][]string
	// Names is the synthetic respondent name pool, cycled by row index.
	Names       []string
	Hidden      map[string]string
	PageHistory string
}

// CompileRow resolves every question for row i. It returns a
// *ValidationError when a required question ends up empty.
func (c *Compiler) CompileRow(i int) (*Payload, error) {
	p := &Payload{Row: i, Fields: make(map[string][]string, len(c.Questions)+3)}

	rowName := c.rowName(i)
	emailSeen := false

	for _, q := range c.Questions {
		key := fieldKey(q)
		if key == EmailKey {
			emailSeen = true
		}
		values := c.resolve(q, i, rowName)

		if q.Required && allBlank(values) {
			return nil, &ValidationError{Row: i, Question: q.Title}
		}
		if !allBlank(values) {
			p.Fields[key] = values
		}
	}

	if !emailSeen {
		p.Fields[EmailKey] = []string{c.syntheticEmail(rowName)}
	}
	for k, v := range c.Hidden {
		p.Fields[k] = []string{v}
	}
	history := c.PageHistory
	if history == "" {
		history = "0"
	}
	p.Fields["pageHistory"] = []string{history}

	return p, nil
}

func (c *Compiler) resolve(q schema.Question, i int, rowName string) []string {
	if pool := c.Overrides[q.ID]; len(pool) > 0 {
		return []string{pool[i%len(pool)]}
	}

	textual := q.Type == schema.ShortAnswer || q.Type == schema.Paragraph
	switch {
	case textual && classify.IsPersonalName(q.Title):
		return []string{rowName}
	case classify.IsPersonalEmail(q.Title):
		return []string{c.syntheticEmail(rowName)}
	case classify.IsPhone(q.Title):
		return []string{c.syntheticPhone()}
	}

	if deck, ok := c.Decks[q.ID]; ok && i < len(deck) {
		primary := deck[i]
		if primary == "" && len(q.Options) > 0 {
			primary = q.Options[0].Value
		}
		if q.Type == schema.Checkboxes {
			return c.checkboxValues(q, primary)
		}
		return []string{primary}
	}

	if len(q.Options) > 0 {
		return []string{q.Options[0].Value}
	}
	return []string{""}
}

// checkboxValues returns the deck's primary selection, occasionally
// joined by one extra heavier-weighted option so multi-select questions
// do not come back uniformly single-valued.
func (c *Compiler) checkboxValues(q schema.Question, primary string) []string {
	values := []string{primary}
	if c.Rng.Float64() >= secondaryPickRate {
		return values
	}
	var candidates []string
	for _, o := range q.Options {
		if o.Weight > secondaryWeightFloor && o.Value != primary {
			candidates = append(candidates, o.Value)
		}
	}
	if len(candidates) > 0 {
		values = append(values, candidates[c.Rng.Intn(len(candidates))])
	}
	return values
}

func (c *Compiler) rowName(i int) string {
	if len(c.Names) == 0 {
		return "Auto User"
	}
	return c.Names[i%len(c.Names)]
}

func (c *Compiler) syntheticEmail(name string) string {
	local := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", ".")
	domain := emailDomains[c.Rng.Intn(len(emailDomains))]
	return fmt.Sprintf("%s%d@%s", local, c.Rng.Intn(99), domain)
}

func (c *Compiler) syntheticPhone() string {
	digits := make([]byte, 10)
	digits[0] = "9876"[c.Rng.Intn(4)]
	for i := 1; i < len(digits); i++ {
		digits[i] = byte('0' + c.Rng.Intn(10))
	}
	return string(digits)
}

func fieldKey(q schema.Question) string {
	if q.EntryID == EmailKey {
		return EmailKey
	}
	return "entry." + q.EntryID
}

func allBlank(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
