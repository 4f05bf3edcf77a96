package engine

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spindleworks/formloom/internal/payload"
	"github.com/spindleworks/formloom/internal/scheduler"
	"github.com/spindleworks/formloom/internal/schema"
)

type fakeDeliverer struct {
	mu       sync.Mutex
	payloads []*payload.Payload
	fail     func(row int) bool
}

func (f *fakeDeliverer) Deliver(_ context.Context, _ string, p *payload.Payload) error {
	f.mu.Lock()
	f.payloads = append(f.payloads, p)
	f.mu.Unlock()
	if f.fail != nil && f.fail(p.Row) {
		return assert.AnError
	}
	return nil
}

func surveyQuestions() []schema.Question {
	return []schema.Question{
		{
			ID: "q-age", Title: "Your Age", Type: schema.MultipleChoice, EntryID: "1001",
			Options: []schema.Option{
				{Value: "Under 18", Weight: 50},
				{Value: "35-44", Weight: 50},
			},
		},
		{
			ID: "q-prof", Title: "Occupation", Type: schema.MultipleChoice, EntryID: "1002",
			Options: []schema.Option{
				{Value: "Student", Weight: 50},
				{Value: "Business Owner", Weight: 50},
			},
		},
		{
			ID: "q-sat", Title: "How satisfied are you?", Type: schema.LinearScale, EntryID: "1003",
			Options: []schema.Option{
				{Value: "1", Weight: 20},
				{Value: "3", Weight: 30},
				{Value: "5", Weight: 50},
			},
		},
	}
}

func collect() (scheduler.Sink, *[]scheduler.Entry) {
	var mu sync.Mutex
	entries := &[]scheduler.Entry{}
	return func(e scheduler.Entry) {
		mu.Lock()
		*entries = append(*entries, e)
		mu.Unlock()
	}, entries
}

func TestRunEndToEnd(t *testing.T) {
	d := &fakeDeliverer{}
	sink, entries := collect()

	res, err := Run(context.Background(), Config{
		Questions: surveyQuestions(),
		Count:     10,
		Names:     []string{"Asha Rao"},
		Endpoint:  "http://example.test/formResponse",
		Rng:       rand.New(rand.NewSource(4)),
	}, d, sink)

	require.NoError(t, err)
	assert.Equal(t, scheduler.StatusDone, res.Status)
	assert.Equal(t, 10, res.Successes)
	require.Len(t, d.payloads, 10)

	// Marginals survive alignment: 5 of each age option across the batch.
	ages := map[string]int{}
	for _, p := range d.payloads {
		require.Len(t, p.Fields["entry.1001"], 1)
		ages[p.Fields["entry.1001"][0]]++

		// Demographic alignment keeps minors away from business owners.
		if p.Fields["entry.1001"][0] == "Under 18" {
			assert.Equal(t, "Student", p.Fields["entry.1002"][0])
		}
		assert.Contains(t, p.Fields, "pageHistory")
		assert.Contains(t, p.Fields, payload.EmailKey)
	}
	assert.Equal(t, 5, ages["Under 18"])
	assert.Equal(t, 5, ages["35-44"])

	require.NotEmpty(t, *entries)
	assert.Equal(t, scheduler.StatusInit, (*entries)[0].Status)
	last := (*entries)[len(*entries)-1]
	assert.Equal(t, scheduler.StatusDone, last.Status)
	assert.Equal(t, 10, last.Count)
}

func TestRunSkipsInvalidRows(t *testing.T) {
	d := &fakeDeliverer{}
	sink, entries := collect()

	questions := []schema.Question{{
		ID: "q-fb", Title: "Detailed feedback", Type: schema.Paragraph, EntryID: "2001", Required: true,
	}}

	res, err := Run(context.Background(), Config{
		Questions: questions,
		Count:     4,
		Endpoint:  "http://example.test/formResponse",
		Rng:       rand.New(rand.NewSource(1)),
	}, d, sink)

	require.NoError(t, err, "row-level validation failures are not fatal")
	assert.Equal(t, 0, res.Successes)
	assert.Empty(t, d.payloads, "invalid rows must never be dispatched")

	errEntries := 0
	for _, e := range *entries {
		if e.Status == scheduler.StatusError {
			errEntries++
		}
	}
	assert.GreaterOrEqual(t, errEntries, 4)
}

func TestRunPartialFailures(t *testing.T) {
	d := &fakeDeliverer{fail: func(row int) bool { return row%2 == 0 }}
	sink, _ := collect()

	res, err := Run(context.Background(), Config{
		Questions: surveyQuestions(),
		Count:     10,
		Endpoint:  "http://example.test/formResponse",
		Rng:       rand.New(rand.NewSource(9)),
	}, d, sink)

	require.NoError(t, err)
	assert.Equal(t, scheduler.StatusDone, res.Status)
	assert.Equal(t, 5, res.Successes)
}

func TestRunFatalOnStructuralErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := Run(context.Background(), Config{Count: 0, Rng: rng}, &fakeDeliverer{}, nil)
	assert.ErrorIs(t, err, ErrBadCount)

	_, err = Run(context.Background(), Config{Count: 5, Rng: rng}, &fakeDeliverer{}, nil)
	assert.ErrorIs(t, err, ErrNoQuestions)

	_, err = Run(context.Background(), Config{
		Count:     5,
		Rng:       rng,
		Questions: []schema.Question{{Title: "broken"}},
	}, &fakeDeliverer{}, nil)
	assert.Error(t, err)
}

func TestRunAbortedBeforeDispatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := &fakeDeliverer{}
	res, err := Run(ctx, Config{
		Questions: surveyQuestions(),
		Count:     10,
		Endpoint:  "http://example.test/formResponse",
		Rng:       rand.New(rand.NewSource(2)),
	}, d, nil)

	require.NoError(t, err)
	assert.Equal(t, scheduler.StatusAborted, res.Status)
	assert.Equal(t, 0, res.Successes)
	assert.Empty(t, d.payloads)
}
