// Package scheduler delivers compiled payloads in fixed-size concurrent
// groups with adaptive pacing. Groups run strictly in order; within a
// group every delivery is dispatched at once and all outcomes are awaited
// before the next group starts. Cancellation is cooperative through the
// run context: it is checked before each group and inside every pacing
// wait, and in-flight deliveries of the current group are always allowed
// to settle.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/spindleworks/formloom/internal/payload"
)

// Status labels a log entry and the terminal result of a run.
type Status string

const (
	StatusInit     Status = "INIT"
	StatusRunning  Status = "RUNNING"
	StatusCooldown Status = "COOLDOWN"
	StatusError    Status = "ERROR"
	StatusDone     Status = "DONE"
	StatusAborted  Status = "ABORTED"
)

// Entry is one line of the run's append-only log stream. Count is the
// cumulative number of confirmed-successful rows at emission time.
type Entry struct {
	Msg       string    `json:"msg"`
	Status    Status    `json:"status"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

// Sink receives log entries as they are produced.
type Sink func(Entry)

// Deliverer performs one submission. A nil return is a confirmed
// success; any error is a per-row failure that never aborts the batch.
type Deliverer interface {
	Deliver(ctx context.Context, endpoint string, p *payload.Payload) error
}

// DeliverFunc adapts a plain function to the Deliverer interface.
type DeliverFunc func(ctx context.Context, endpoint string, p *payload.Payload) error

func (f DeliverFunc) Deliver(ctx context.Context, endpoint string, p *payload.Payload) error {
	return f(ctx, endpoint, p)
}

const (
	defaultGroupSize = 5
	// Every cooldownEvery cumulative successes the scheduler inserts a
	// fixed safety pause regardless of the configured delay.
	cooldownEvery = 50
	cooldownPause = 3 * time.Second
	minGroupDelay = 100 * time.Millisecond
)

// Scheduler dispatches payload batches against one endpoint.
type Scheduler struct {
	Deliverer Deliverer
	Sink      Sink
	// Delay is the operator-configured minimum pause between groups.
	// Zero means max speed: no inter-group pacing at all.
	Delay     time.Duration
	GroupSize int
}

// Result is the terminal state of a batch run.
type Result struct {
	Status    Status
	Successes int
}

type outcome struct {
	row int
	err error
}

// Run delivers the payloads and returns the terminal result. The sink
// sees one RUNNING or ERROR entry per delivery outcome plus any COOLDOWN
// entries, and Run's caller is expected to emit the terminal entry from
// the returned Result.
func (s *Scheduler) Run(ctx context.Context, endpoint string, payloads []*payload.Payload) Result {
	groupSize := s.GroupSize
	if groupSize <= 0 {
		groupSize = defaultGroupSize
	}

	successes := 0
	cooldownTier := 0
	aborted := false

	for start := 0; start < len(payloads); start += groupSize {
		if ctx.Err() != nil {
			aborted = true
			break
		}

		end := start + groupSize
		if end > len(payloads) {
			end = len(payloads)
		}
		successes += s.dispatchGroup(ctx, endpoint, payloads[start:end], successes)

		if end >= len(payloads) {
			break
		}

		switch {
		case successes/cooldownEvery > cooldownTier:
			cooldownTier = successes / cooldownEvery
			s.emit(Entry{
				Msg:    "cooldown: pausing to pace submissions",
				Status: StatusCooldown,
				Count:  successes,
			})
			if !sleepCtx(ctx, cooldownPause) {
				aborted = true
			}
		case s.Delay > 0:
			pause := s.Delay * 3 / 10
			if pause < minGroupDelay {
				pause = minGroupDelay
			}
			if !sleepCtx(ctx, pause) {
				aborted = true
			}
		}
		if aborted {
			break
		}
	}

	return Result{Status: s.terminalStatus(aborted, successes, len(payloads)), Successes: successes}
}

// dispatchGroup fires every delivery in the group concurrently and waits
// for all of them to settle, logging each outcome as it arrives. Returns
// the number of successes in the group. base is the cumulative success
// count before the group, used for log counts.
func (s *Scheduler) dispatchGroup(ctx context.Context, endpoint string, group []*payload.Payload, base int) int {
	// Deliveries already dispatched are allowed to settle even if the
	// run is aborted mid-group; cancellation only gates group starts.
	ctx = context.WithoutCancel(ctx)

	outcomes := make(chan outcome, len(group))
	var wg sync.WaitGroup
	for _, p := range group {
		wg.Add(1)
		go func(p *payload.Payload) {
			defer wg.Done()
			outcomes <- outcome{row: p.Row, err: s.Deliverer.Deliver(ctx, endpoint, p)}
		}(p)
	}
	go func() {
		wg.Wait()
		close(outcomes)
	}()

	ok := 0
	for o := range outcomes {
		if o.err != nil {
			s.emit(Entry{
				Msg:    fmt.Sprintf("row %d failed: %v", o.row, o.err),
				Status: StatusError,
				Count:  base + ok,
			})
			continue
		}
		ok++
		s.emit(Entry{
			Msg:    fmt.Sprintf("row %d submitted", o.row),
			Status: StatusRunning,
			Count:  base + ok,
		})
	}
	return ok
}

func (s *Scheduler) terminalStatus(aborted bool, successes, total int) Status {
	switch {
	case aborted:
		return StatusAborted
	case total > 0 && successes == 0:
		return StatusError
	default:
		return StatusDone
	}
}

func (s *Scheduler) emit(e Entry) {
	if s.Sink == nil {
		return
	}
	e.Timestamp = time.Now()
	s.Sink(e)
}

// sleepCtx waits for d, returning false immediately if the context is
// canceled first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
