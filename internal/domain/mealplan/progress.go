package mealplan

import (
	"encoding/json"
	"fmt"
	"time"
)

// RetryEvent describes a retry about to be scheduled by the fetch client.
type RetryEvent struct {
	Attempt     int
	MaxAttempts int
	Delay       time.Duration
	// Status is the HTTP status of the failed attempt, 0 for transport failures.
	Status int
	Reason string
}

// MarshalJSON renders the delay in milliseconds alongside the status line.
func (e RetryEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Attempt     int    `json:"attempt"`
		MaxAttempts int    `json:"maxAttempts"`
		DelayMs     int64  `json:"delayMs"`
		Status      int    `json:"status,omitempty"`
		Reason      string `json:"reason"`
		Message     string `json:"message"`
	}{e.Attempt, e.MaxAttempts, e.Delay.Milliseconds(), e.Status, e.Reason, e.Message()})
}

// Message renders the event for status lines.
func (e RetryEvent) Message() string {
	status := e.Reason
	if e.Status != 0 {
		status = fmt.Sprintf("%d", e.Status)
	}
	seconds := int(e.Delay.Round(time.Second) / time.Second)
	return fmt.Sprintf("API busy (status %s). Retrying %d/%d in %ds…", status, e.Attempt, e.MaxAttempts-1, seconds)
}

// RetryObserver is notified before each retry wait. Implementations must
// return promptly; the retry loop calls them inline.
type RetryObserver interface {
	OnRetry(event RetryEvent)
}

// ObserverFunc adapts a function to RetryObserver.
type ObserverFunc func(event RetryEvent)

func (f ObserverFunc) OnRetry(event RetryEvent) {
	if f != nil {
		f(event)
	}
}

// ChannelObserver forwards events to a channel without blocking; events
// are dropped when the channel is full.
type ChannelObserver chan<- RetryEvent

func (c ChannelObserver) OnRetry(event RetryEvent) {
	select {
	case c <- event:
	default:
	}
}

// Notify calls observer when it is non-nil.
func Notify(observer RetryObserver, event RetryEvent) {
	if observer != nil {
		observer.OnRetry(event)
	}
}
