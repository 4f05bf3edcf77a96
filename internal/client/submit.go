package client

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	http "github.com/bogdanfinn/fhttp"

	"github.com/spindleworks/formloom/internal/headers"
	"github.com/spindleworks/formloom/internal/payload"
	"github.com/spindleworks/formloom/internal/ratelimit"
)

// responseWindow bounds how long one submission may take before it is
// classified as a failure. Mirrors the short confirmation window a
// hidden-iframe submit gets before the page moves on.
const responseWindow = 1500 * time.Millisecond

// Submitter delivers compiled payloads to a form's response endpoint. It
// satisfies the scheduler's Deliverer contract.
type Submitter struct {
	mu      sync.Mutex
	client  *ProxiedClient
	jar     *ratelimit.TokenJar
	referer string
	window  time.Duration
}

// NewSubmitter builds a delivery client for one run. referer is the
// form's viewform URL; targetRPS caps the sustained submission rate
// across all concurrent deliveries.
func NewSubmitter(referer string, targetRPS float64) (*Submitter, error) {
	c, err := CreateClient()
	if err != nil {
		return nil, err
	}
	return &Submitter{
		client:  c,
		jar:     ratelimit.NewTokenJar(targetRPS, int(targetRPS*2)),
		referer: referer,
		window:  responseWindow,
	}, nil
}

func (s *Submitter) Close() {
	s.jar.Stop()
}

// Deliver POSTs one payload. A nil return means the endpoint accepted
// the submission within the response window; every error is a per-row
// failure for the scheduler to count and log.
func (s *Submitter) Deliver(ctx context.Context, endpoint string, p *payload.Payload) error {
	if err := s.jar.WaitForToken(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	form := url.Values{}
	for k, vs := range p.Fields {
		for _, v := range vs {
			form.Add(k, v)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.window)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header = headers.BuildSubmitHeaders(s.referer)

	resp, err := s.currentClient().Do(req)
	if err != nil {
		return fmt.Errorf("transport: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		s.rotateClient()
		return fmt.Errorf("%w: status %d", ErrThrottled, resp.StatusCode)
	case resp.StatusCode >= 400:
		return fmt.Errorf("rejected with status %d", resp.StatusCode)
	}
	return nil
}

// Fetch GETs the form page for scraping.
func (s *Submitter) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header = headers.BuildFetchHeaders()

	resp, err := s.currentClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch form page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch form page: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (s *Submitter) currentClient() *ProxiedClient {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client
}

// rotateClient swaps in a fresh client (and the next proxy, when a list
// is configured) after the endpoint throttles the current fingerprint.
func (s *Submitter) rotateClient() {
	s.mu.Lock()
	defer s.mu.Unlock()
	RemoveProxy(s.client.ProxyURL)
	if c, err := CreateClient(); err == nil {
		s.client = c
	}
}
