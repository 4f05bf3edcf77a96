// Package engine runs one full synthetic-response batch: it allocates
// weighted answer decks, aligns related demographic decks, compiles
// per-row payloads and hands them to the scheduler. Row-level problems
// (failed validation, failed delivery) are logged and absorbed; only
// structural schema errors abort the run.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/spindleworks/formloom/internal/align"
	"github.com/spindleworks/formloom/internal/classify"
	"github.com/spindleworks/formloom/internal/payload"
	"github.com/spindleworks/formloom/internal/quota"
	"github.com/spindleworks/formloom/internal/scheduler"
	"github.com/spindleworks/formloom/internal/schema"
)

var (
	ErrNoQuestions = errors.New("schema has no questions")
	ErrBadCount    = errors.New("target count must be positive")
)

// Config carries everything one run needs.
type Config struct {
	Questions []schema.Question
	Count     int
	// Overrides maps question ID to an operator value pool cycling by row.
	Overrides map[string][]string
	// Names is the respondent name pool; generated names are used when
	// empty.
	Names       []string
	Endpoint    string
	Hidden      map[string]string
	PageHistory string
	// Delay is the minimum inter-group pause; zero disables pacing.
	Delay time.Duration
	// Rng drives every random decision of the run so batches can be
	// reproduced from a seed.
	Rng *rand.Rand
	// Scorer overrides the demographic plausibility rules; nil selects
	// the default rule table.
	Scorer align.Scorer
}

// Run generates, aligns, compiles and dispatches the batch, emitting the
// log stream through sink. The returned result carries the terminal
// status and the confirmed success count; a non-nil error means a fatal
// engine error before any dispatch.
func Run(ctx context.Context, cfg Config, d scheduler.Deliverer, sink scheduler.Sink) (scheduler.Result, error) {
	emit := func(e scheduler.Entry) {
		if sink != nil {
			e.Timestamp = time.Now()
			sink(e)
		}
	}

	if err := validate(cfg); err != nil {
		emit(scheduler.Entry{Msg: "engine error: " + err.Error(), Status: scheduler.StatusError})
		return scheduler.Result{Status: scheduler.StatusError}, err
	}

	emit(scheduler.Entry{
		Msg:    fmt.Sprintf("starting batch of %d responses", cfg.Count),
		Status: scheduler.StatusInit,
	})

	decks := buildDecks(cfg)

	compiler := &payload.Compiler{
		Rng:         cfg.Rng,
		Questions:   cfg.Questions,
		Decks:       decks,
		Overrides:   cfg.Overrides,
		Names:       cfg.Names,
		Hidden:      cfg.Hidden,
		PageHistory: cfg.PageHistory,
	}

	payloads := make([]*payload.Payload, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		p, err := compiler.CompileRow(i)
		if err != nil {
			var verr *payload.ValidationError
			if errors.As(err, &verr) {
				emit(scheduler.Entry{Msg: err.Error(), Status: scheduler.StatusError})
				continue
			}
			emit(scheduler.Entry{Msg: "engine error: " + err.Error(), Status: scheduler.StatusError})
			return scheduler.Result{Status: scheduler.StatusError}, err
		}
		payloads = append(payloads, p)
	}

	sched := &scheduler.Scheduler{Deliverer: d, Sink: sink, Delay: cfg.Delay}
	result := sched.Run(ctx, cfg.Endpoint, payloads)

	emit(scheduler.Entry{
		Msg:    terminalMsg(result),
		Status: result.Status,
		Count:  result.Successes,
	})
	return result, nil
}

func validate(cfg Config) error {
	if cfg.Count <= 0 {
		return fmt.Errorf("%w: %d", ErrBadCount, cfg.Count)
	}
	if len(cfg.Questions) == 0 {
		return ErrNoQuestions
	}
	if cfg.Rng == nil {
		return errors.New("random source is required")
	}
	for _, q := range cfg.Questions {
		if q.EntryID == "" {
			return fmt.Errorf("question %q has no entry id", q.Title)
		}
	}
	return nil
}

// buildDecks allocates one deck per choice question, then reorders the
// demographic decks for joint plausibility. Non-demographic decks pass
// through unchanged.
func buildDecks(cfg Config) map[string][]string {
	decks := make(map[string][]string)
	demographic := make(map[align.Kind]string)

	for _, q := range cfg.Questions {
		if !q.HasChoices() {
			continue
		}
		decks[q.ID] = quota.BuildDeck(cfg.Rng, q.Options, cfg.Count)

		if kind, ok := demographicKind(q); ok {
			if _, taken := demographic[kind]; !taken {
				demographic[kind] = q.ID
			}
		}
	}

	if len(demographic) < 2 {
		return decks
	}

	input := make(map[align.Kind][]string, len(demographic))
	for kind, id := range demographic {
		input[kind] = decks[id]
	}
	for kind, deck := range align.Align(cfg.Rng, input, cfg.Scorer) {
		decks[demographic[kind]] = deck
	}
	return decks
}

func demographicKind(q schema.Question) (align.Kind, bool) {
	switch {
	case classify.IsAge(q.Title, q.Options):
		return align.KindAge, true
	case classify.IsProfession(q.Title, q.Options):
		return align.KindProfession, true
	case classify.IsEducation(q.Title, q.Options):
		return align.KindEducation, true
	case classify.IsIncome(q.Title, q.Options):
		return align.KindIncome, true
	case classify.IsGender(q.Title, q.Options):
		return align.KindGender, true
	}
	return 0, false
}

func terminalMsg(r scheduler.Result) string {
	switch r.Status {
	case scheduler.StatusAborted:
		return fmt.Sprintf("run aborted after %d successful submissions", r.Successes)
	case scheduler.StatusError:
		return "run finished with no successful submissions"
	default:
		return fmt.Sprintf("run complete: %d successful submissions", r.Successes)
	}
}
