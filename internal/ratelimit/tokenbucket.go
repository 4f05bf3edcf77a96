// Package ratelimit caps the global submission rate of a run with a
// refilling token jar shared by every in-flight delivery.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

type TokenJar struct {
	refillInterval  time.Duration
	tokensPerRefill int
	maxTokens       int
	tokens          int
	mu              sync.Mutex
	tokensAvailable chan struct{}
	done            chan struct{}
}

// NewTokenJar builds a jar refilled to sustain targetRPS with bursts up
// to burstLimit. The jar starts half full so the first group is not
// artificially delayed.
func NewTokenJar(targetRPS float64, burstLimit int) *TokenJar {
	if targetRPS <= 0 {
		targetRPS = 1
	}
	interval := time.Duration(float64(time.Second) / targetRPS)
	if interval < 10*time.Millisecond {
		interval = 10 * time.Millisecond
	}

	perRefill := 1
	if targetRPS > 10 {
		perRefill = int(targetRPS / 5)
		interval = time.Duration(float64(perRefill) * float64(time.Second) / targetRPS)
	}

	if burstLimit < perRefill {
		burstLimit = perRefill
	}

	jar := &TokenJar{
		refillInterval:  interval,
		tokensPerRefill: perRefill,
		maxTokens:       burstLimit,
		tokens:          burstLimit / 2,
		tokensAvailable: make(chan struct{}, 1),
		done:            make(chan struct{}),
	}
	go jar.refiller()
	return jar
}

func (tj *TokenJar) refiller() {
	ticker := time.NewTicker(tj.refillInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			tj.mu.Lock()
			wasEmpty := tj.tokens == 0
			tj.tokens += tj.tokensPerRefill
			if tj.tokens > tj.maxTokens {
				tj.tokens = tj.maxTokens
			}
			if wasEmpty && tj.tokens > 0 {
				select {
				case tj.tokensAvailable <- struct{}{}:
				default:
				}
			}
			tj.mu.Unlock()
		case <-tj.done:
			return
		}
	}
}

func (tj *TokenJar) take() bool {
	tj.mu.Lock()
	defer tj.mu.Unlock()
	if tj.tokens > 0 {
		tj.tokens--
		return true
	}
	return false
}

// WaitForToken blocks until a token is available or the context ends.
func (tj *TokenJar) WaitForToken(ctx context.Context) error {
	if tj.take() {
		return nil
	}
	ticker := time.NewTicker(tj.refillInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tj.tokensAvailable:
			if tj.take() {
				return nil
			}
		case <-ticker.C:
			if tj.take() {
				return nil
			}
		}
	}
}

func (tj *TokenJar) Stop() {
	close(tj.done)
}
