package events

import (
	"testing"
	"time"
)

func TestNewLedgerEvent(t *testing.T) {
	ev := NewLedgerEvent("user-1", EntityTransaction, ActionCreated, "tx-9")

	if ev.UserID != "user-1" || ev.Entity != EntityTransaction || ev.Action != ActionCreated || ev.EntityID != "tx-9" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.OccurredAt.IsZero() {
		t.Error("OccurredAt should be stamped")
	}
	if time.Since(ev.OccurredAt) > time.Second {
		t.Error("OccurredAt should be recent")
	}
}

func TestLedgerEventJSONRoundTrip(t *testing.T) {
	ev := &LedgerEvent{
		UserID:     "user-1",
		Entity:     EntityCategory,
		Action:     ActionReplaced,
		OccurredAt: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	body, err := ev.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := LedgerEventFromJSON(body)
	if err != nil {
		t.Fatalf("LedgerEventFromJSON() error = %v", err)
	}
	if parsed.UserID != ev.UserID || parsed.Entity != ev.Entity || parsed.Action != ev.Action {
		t.Fatalf("round trip mismatch: %+v vs %+v", parsed, ev)
	}
	if !parsed.OccurredAt.Equal(ev.OccurredAt) {
		t.Fatalf("OccurredAt mismatch: %v vs %v", parsed.OccurredAt, ev.OccurredAt)
	}
}

func TestLedgerEventInvalidJSON(t *testing.T) {
	if _, err := LedgerEventFromJSON([]byte(`{"user_id": 42}`)); err == nil {
		t.Error("expected error for malformed event")
	}
}
