package schema

// QuestionType mirrors the item types a Google Form can contain.
type QuestionType string

const (
	ShortAnswer    QuestionType = "SHORT_ANSWER"
	Paragraph      QuestionType = "PARAGRAPH"
	MultipleChoice QuestionType = "MULTIPLE_CHOICE"
	Checkboxes     QuestionType = "CHECKBOXES"
	Dropdown       QuestionType = "DROPDOWN"
	LinearScale    QuestionType = "LINEAR_SCALE"
	Date           QuestionType = "DATE"
	Time           QuestionType = "TIME"
	Grid           QuestionType = "GRID"
	Unknown        QuestionType = "UNKNOWN"
)

// Option is one selectable answer with an operator-assigned prevalence
// weight in [0,100]. Weights across a question's options are expected to
// sum to 100 but consumers normalize against the actual total.
type Option struct {
	Value  string  `json:"value"`
	Weight float64 `json:"weight"`
}

type Question struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Type     QuestionType `json:"type"`
	Options  []Option     `json:"options,omitempty"`
	Required bool         `json:"required"`
	EntryID  string       `json:"entry_id"`
}

// HasChoices reports whether the question carries a fixed option list that
// weight allocation applies to.
func (q Question) HasChoices() bool {
	switch q.Type {
	case MultipleChoice, Checkboxes, Dropdown, LinearScale:
		return len(q.Options) > 0
	}
	return false
}

// Form is the parsed structure of a single-page Google Form.
type Form struct {
	Title       string            `json:"title"`
	ResponseURL string            `json:"response_url"`
	Questions   []Question        `json:"questions"`
	Hidden      map[string]string `json:"hidden,omitempty"`
	PageHistory string            `json:"page_history"`
}
