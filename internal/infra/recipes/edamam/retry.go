package edamam

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/yanqian/mealweek/internal/domain/mealplan"
	"github.com/yanqian/mealweek/pkg/metrics"
)

const maxResponseBytes = 8 << 20

// ErrNetwork reports that no attempt produced an HTTP response.
var ErrNetwork = errors.New("recipe search unreachable")

// RetryConfig bounds the exponential backoff of the fetcher.
type RetryConfig struct {
	MaxAttempts   int
	BaseDelay     time.Duration
	BackoffFactor float64
}

// DefaultRetryConfig waits 900ms then 1.8s across three attempts.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{MaxAttempts: 3, BaseDelay: 900 * time.Millisecond, BackoffFactor: 2}
}

// Backoff is the wait before attempt+1, given the 1-based attempt that failed.
func (c RetryConfig) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(float64(c.BaseDelay) * math.Pow(c.BackoffFactor, float64(attempt-1)))
}

func (c RetryConfig) withDefaults() RetryConfig {
	def := DefaultRetryConfig()
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = def.MaxAttempts
	}
	if c.BaseDelay < 0 {
		c.BaseDelay = def.BaseDelay
	}
	if c.BackoffFactor < 1 {
		c.BackoffFactor = def.BackoffFactor
	}
	return c
}

// Response is a fully read upstream reply.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports a 2xx status.
func (r Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

type outcome string

const (
	outcomeSuccess   outcome = "success"
	outcomeRetryable outcome = "retryable"
	outcomeTerminal  outcome = "terminal"
	outcomeNetwork   outcome = "network"
)

func classify(status int) outcome {
	switch {
	case status >= 200 && status < 300:
		return outcomeSuccess
	case status == http.StatusTooManyRequests, status >= 500 && status < 600:
		return outcomeRetryable
	default:
		return outcomeTerminal
	}
}

// Fetcher issues one logical request with bounded retries. Each Do call
// owns its retry loop; attempts never overlap.
type Fetcher struct {
	client  *http.Client
	cfg     RetryConfig
	sleep   func(ctx context.Context, d time.Duration) error
	metrics *metrics.Collector
	logger  *slog.Logger
}

// NewFetcher builds a fetcher around client.
func NewFetcher(client *http.Client, cfg RetryConfig, collector *metrics.Collector, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Fetcher{
		client:  client,
		cfg:     cfg.withDefaults(),
		sleep:   sleepContext,
		metrics: collector,
		logger:  logger.With("component", "edamam.fetcher"),
	}
}

// Do sends req until it succeeds, fails terminally or attempts run out.
// After exhausting retries the last received response is returned as-is,
// even when non-2xx. ErrNetwork is returned only when no attempt got a
// response.
func (f *Fetcher) Do(ctx context.Context, req *http.Request, observer mealplan.RetryObserver) (Response, error) {
	var (
		last     Response
		haveResp bool
		lastErr  error
	)
	for attempt := 1; ; attempt++ {
		resp, err := f.attempt(ctx, req)
		var (
			kind   outcome
			status int
			reason string
		)
		if err != nil {
			kind, reason, lastErr = outcomeNetwork, "network", err
			f.logger.Warn("recipe search transport failure", "attempt", attempt, "error", err)
		} else {
			last, haveResp = resp, true
			status = resp.StatusCode
			kind = classify(status)
			reason = http.StatusText(status)
		}
		f.metrics.UpstreamRequest(string(kind))

		if kind == outcomeSuccess || kind == outcomeTerminal || attempt >= f.cfg.MaxAttempts {
			break
		}

		delay := f.cfg.Backoff(attempt)
		f.metrics.UpstreamRetry()
		mealplan.Notify(observer, mealplan.RetryEvent{
			Attempt:     attempt,
			MaxAttempts: f.cfg.MaxAttempts,
			Delay:       delay,
			Status:      status,
			Reason:      reason,
		})
		f.logger.Info("retrying recipe search", "attempt", attempt, "delay_ms", delay.Milliseconds(), "status", status)
		if err := f.sleep(ctx, delay); err != nil {
			break
		}
	}

	if !haveResp {
		if lastErr == nil {
			lastErr = ctx.Err()
		}
		return Response{}, fmt.Errorf("%w: %v", ErrNetwork, lastErr)
	}
	return last, nil
}

func (f *Fetcher) attempt(ctx context.Context, req *http.Request) (Response, error) {
	resp, err := f.client.Do(req.Clone(ctx))
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Response{}, fmt.Errorf("read response body: %w", err)
	}
	return Response{StatusCode: resp.StatusCode, Header: resp.Header.Clone(), Body: body}, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
