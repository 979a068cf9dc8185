// Package notification fans parking events out to presentation subscribers.
package notification

import (
	"context"
	"errors"
	"sync"
	"time"
)

// EventType names a parking event.
type EventType string

const (
	EventFlowStep           EventType = "flow.step"
	EventSessionPhase       EventType = "session.phase"
	EventSessionTick        EventType = "session.tick"
	EventSessionWarning     EventType = "session.warning"
	EventSessionSummary     EventType = "session.summary"
	EventReceiptSent        EventType = "receipt.sent"
	EventFeedbackReceived   EventType = "feedback.received"
	EventInventoryRefreshed EventType = "inventory.refreshed"
)

// Event carries a snapshot of whatever changed.
type Event struct {
	ID      string      `json:"id"`
	Type    EventType   `json:"type"`
	At      time.Time   `json:"at"`
	Message string      `json:"message,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

// Sink receives events. Implementations must not call back into the
// parking service.
type Sink interface {
	Notify(ctx context.Context, ev Event) error
}

// Multi delivers to every sink and joins their errors.
type Multi []Sink

func (m Multi) Notify(ctx context.Context, ev Event) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Notify(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Recorder keeps every event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Notify(_ context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

// Events returns a copy of what has been recorded.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// OfType filters recorded events.
func (r *Recorder) OfType(t EventType) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, ev := range r.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
