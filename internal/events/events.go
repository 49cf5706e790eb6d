// Package events publishes domain events after successful writes and settlements.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Type names an event; it doubles as the AMQP routing key.
type Type string

const (
	ExpenditureRecorded Type = "expenditure.recorded"
	ExpenditureDeleted  Type = "expenditure.deleted"
	SettlementComputed  Type = "settlement.computed"
)

// Event is the JSON envelope sent to subscribers.
type Event struct {
	Type       Type      `json:"type"`
	GroupID    string    `json:"groupId"`
	ActorID    string    `json:"actorId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload,omitempty"`
}

// New stamps an event with the current time.
func New(t Type, groupID, actorID string, payload any) Event {
	return Event{Type: t, GroupID: groupID, ActorID: actorID, OccurredAt: time.Now().UTC(), Payload: payload}
}

// ToJSON encodes the envelope.
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ExpenditurePayload accompanies expenditure events.
type ExpenditurePayload struct {
	ExpenditureID string  `json:"expenditureId"`
	Amount        float64 `json:"amount,omitempty"`
	PayerID       string  `json:"payerId,omitempty"`
}

// SettlementPayload accompanies settlement.computed.
type SettlementPayload struct {
	Status      string  `json:"status"`
	TotalAmount float64 `json:"totalAmount"`
	Debts       int     `json:"debts"`
}

// Publisher delivers events. Publishing is best effort: callers log
// failures and never fail the request that produced the event.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Noop discards every event. It is used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// OfType returns the recorded events of type t.
func (r *Recorder) OfType(t Type) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
