// Package events carries ledger mutation notifications over AMQP. The
// API server publishes one event per successful mutation; the worker
// consumes them into an audit trail. The stream is advisory: a
// mutation never fails because its event could not be published.
package events

import (
	"encoding/json"
	"time"
)

// Entities and actions a LedgerEvent can describe.
const (
	EntityWallet      = "wallet"
	EntityCategory    = "category"
	EntityTransaction = "transaction"
	EntityGoal        = "goal"

	ActionCreated  = "created"
	ActionUpdated  = "updated"
	ActionDeleted  = "deleted"
	ActionReplaced = "replaced" // bulk category replace
	ActionWiped    = "wiped"    // delete-all transactions
)

// LedgerEvent describes one mutation of one user's ledger.
type LedgerEvent struct {
	UserID     string    `json:"user_id"`
	Entity     string    `json:"entity"`
	Action     string    `json:"action"`
	EntityID   string    `json:"entity_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewLedgerEvent stamps a mutation with the current time.
func NewLedgerEvent(userID, entity, action, entityID string) *LedgerEvent {
	return &LedgerEvent{
		UserID:     userID,
		Entity:     entity,
		Action:     action,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON parses an event from JSON bytes.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var ev LedgerEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
