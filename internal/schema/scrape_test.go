package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturePage = `<!DOCTYPE html><html><head>
<script type="text/javascript">var FB_PUBLIC_LOAD_DATA_ = [null,["A short survey",[[101,"Your Age",null,2,[[4001,[["Under 18"],["18-25"],["25-34"]],1]]],[102,"Your Name",null,0,[[4002,null,0]]],[103,"Which apply?",null,4,[[4003,[["Price"],["Quality"]],0]]],[104,"Section header",null,8,null]]],null,"Consumer Survey"];</script>
</head><body>
<form action="https://docs.google.com/forms/d/e/FAKE/formResponse">
<input type="hidden" name="fbzx" value="-912345">
<input type="hidden" name="pageHistory" value="0">
</form></body></html>`

func TestParseExtractsQuestions(t *testing.T) {
	form, err := Parse("https://docs.google.com/forms/d/e/FAKE/viewform", []byte(fixturePage))
	require.NoError(t, err)

	assert.Equal(t, "Consumer Survey", form.Title)
	assert.Equal(t, "https://docs.google.com/forms/d/e/FAKE/formResponse", form.ResponseURL)
	assert.Equal(t, "-912345", form.Hidden["fbzx"])
	assert.Equal(t, "0", form.PageHistory)

	require.Len(t, form.Questions, 3, "the section header carries no answer field")

	age := form.Questions[0]
	assert.Equal(t, "101", age.ID)
	assert.Equal(t, "Your Age", age.Title)
	assert.Equal(t, MultipleChoice, age.Type)
	assert.Equal(t, "4001", age.EntryID)
	assert.True(t, age.Required)
	require.Len(t, age.Options, 3)
	assert.Equal(t, "Under 18", age.Options[0].Value)

	name := form.Questions[1]
	assert.Equal(t, ShortAnswer, name.Type)
	assert.False(t, name.Required)
	assert.Empty(t, name.Options)

	boxes := form.Questions[2]
	assert.Equal(t, Checkboxes, boxes.Type)
}

func TestParseRejectsPagesWithoutFormData(t *testing.T) {
	_, err := Parse("https://example.test/viewform", []byte("<html><body>nothing here</body></html>"))
	assert.ErrorIs(t, err, ErrNoFormData)
}

func TestResponseURLDerivation(t *testing.T) {
	assert.Equal(t,
		"https://docs.google.com/forms/d/e/X/formResponse",
		responseURL("https://docs.google.com/forms/d/e/X/viewform?usp=sf_link"))
	assert.Equal(t,
		"https://docs.google.com/forms/d/e/X/formResponse",
		responseURL("https://docs.google.com/forms/d/e/X/"))
}

func TestHasChoices(t *testing.T) {
	q := Question{Type: MultipleChoice, Options: []Option{{Value: "A"}}}
	assert.True(t, q.HasChoices())
	assert.False(t, Question{Type: ShortAnswer}.HasChoices())
	assert.False(t, Question{Type: Dropdown}.HasChoices(), "dropdown without options")
}
