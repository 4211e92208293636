package edamam

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/mealweek/internal/domain/mealplan"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// statusServer replies with statuses in order, repeating the last one.
func statusServer(t *testing.T, statuses ...int) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := int(atomic.AddInt32(&calls, 1)) - 1
		if n >= len(statuses) {
			n = len(statuses) - 1
		}
		w.WriteHeader(statuses[n])
		_, _ = w.Write([]byte(`{"hits":[]}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestFetcher(client *http.Client) (*Fetcher, *[]time.Duration) {
	f := NewFetcher(client, DefaultRetryConfig(), nil, newTestLogger())
	var slept []time.Duration
	f.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return f, &slept
}

func newGet(t *testing.T, url string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	return req
}

func TestBackoffIsExponential(t *testing.T) {
	cfg := DefaultRetryConfig()
	require.Equal(t, 900*time.Millisecond, cfg.Backoff(1))
	require.Equal(t, 1800*time.Millisecond, cfg.Backoff(2))
	require.Equal(t, 3600*time.Millisecond, cfg.Backoff(3))
}

func TestFetcherRetriesThrottledThenSucceeds(t *testing.T) {
	srv, calls := statusServer(t, http.StatusTooManyRequests, http.StatusOK)
	f, slept := newTestFetcher(srv.Client())

	var events []mealplan.RetryEvent
	resp, err := f.Do(context.Background(), newGet(t, srv.URL), mealplan.ObserverFunc(func(e mealplan.RetryEvent) {
		events = append(events, e)
	}))

	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.EqualValues(t, 2, atomic.LoadInt32(calls))
	require.Equal(t, []time.Duration{900 * time.Millisecond}, *slept)
	require.Len(t, events, 1)
	require.Equal(t, 1, events[0].Attempt)
	require.Equal(t, 3, events[0].MaxAttempts)
	require.Equal(t, http.StatusTooManyRequests, events[0].Status)
	require.Equal(t, "API busy (status 429). Retrying 1/2 in 1s…", events[0].Message())
}

func TestFetcherDoesNotRetryTerminalStatus(t *testing.T) {
	srv, calls := statusServer(t, http.StatusBadRequest)
	f, slept := newTestFetcher(srv.Client())

	resp, err := f.Do(context.Background(), newGet(t, srv.URL), nil)

	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.EqualValues(t, 1, atomic.LoadInt32(calls))
	require.Empty(t, *slept)
}

func TestFetcherReturnsLastResponseWhenExhausted(t *testing.T) {
	srv, calls := statusServer(t, http.StatusServiceUnavailable)
	f, slept := newTestFetcher(srv.Client())

	resp, err := f.Do(context.Background(), newGet(t, srv.URL), nil)

	require.NoError(t, err)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	require.False(t, resp.OK())
	require.EqualValues(t, 3, atomic.LoadInt32(calls))
	require.Equal(t, []time.Duration{900 * time.Millisecond, 1800 * time.Millisecond}, *slept)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestFetcherReportsNetworkErrorWhenNoResponse(t *testing.T) {
	var calls int
	client := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		calls++
		return nil, errors.New("connection refused")
	})}
	f, slept := newTestFetcher(client)

	var events []mealplan.RetryEvent
	_, err := f.Do(context.Background(), newGet(t, "http://recipes.invalid/search"), mealplan.ObserverFunc(func(e mealplan.RetryEvent) {
		events = append(events, e)
	}))

	require.ErrorIs(t, err, ErrNetwork)
	require.Equal(t, 3, calls)
	require.Len(t, *slept, 2)
	require.Len(t, events, 2)
	require.Zero(t, events[0].Status)
	require.Equal(t, "network", events[0].Reason)
}

func TestFetcherKeepsResponseAfterLaterTransportFailure(t *testing.T) {
	srv, _ := statusServer(t, http.StatusBadGateway)
	var calls int
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		if calls == 1 {
			return http.DefaultTransport.RoundTrip(r)
		}
		return nil, errors.New("connection reset")
	})}
	f, _ := newTestFetcher(client)

	resp, err := f.Do(context.Background(), newGet(t, srv.URL), nil)

	require.NoError(t, err)
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	require.Equal(t, 3, calls)
}

func TestFetcherStopsWhenContextCancelledDuringWait(t *testing.T) {
	srv, calls := statusServer(t, http.StatusTooManyRequests)
	f := NewFetcher(srv.Client(), DefaultRetryConfig(), nil, newTestLogger())
	f.sleep = func(context.Context, time.Duration) error { return context.Canceled }

	resp, err := f.Do(context.Background(), newGet(t, srv.URL), nil)

	require.NoError(t, err)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	require.EqualValues(t, 1, atomic.LoadInt32(calls))
}
