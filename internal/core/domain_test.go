package core

import (
	"testing"
	"time"
)

func validTransaction() Transaction {
	return Transaction{
		Type:     TypeExpense,
		Amount:   1500,
		Currency: CurrencyVND,
		Date:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Category: "food",
		Wallet:   "cash",
	}
}

func TestWalletValidate(t *testing.T) {
	if err := (Wallet{Name: "Cash"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Wallet{Name: "  "}).Validate(); err == nil {
		t.Fatal("expected error for blank name")
	}
	// Negative balances are legal: a wallet can be overdrawn.
	if err := (Wallet{Name: "Cash", Balance: -100}).Validate(); err != nil {
		t.Fatalf("expected ok for negative balance, got %v", err)
	}
}

func TestCategoryValidate(t *testing.T) {
	good := Category{Name: "Groceries", Type: TypeExpense, Budgeted: 0}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bads := []Category{
		{Name: "", Type: TypeExpense},
		{Name: "x", Type: "transfer"},
		{Name: "x", Type: TypeExpense, Budgeted: -1},
	}
	for i, c := range bads {
		if err := c.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	if err := validTransaction().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	mutations := []struct {
		name string
		mut  func(*Transaction)
	}{
		{"zero amount", func(tx *Transaction) { tx.Amount = 0 }},
		{"negative amount", func(tx *Transaction) { tx.Amount = -1 }},
		{"bad type", func(tx *Transaction) { tx.Type = "transfer" }},
		{"bad currency", func(tx *Transaction) { tx.Currency = "GBP" }},
		{"zero date", func(tx *Transaction) { tx.Date = time.Time{} }},
		{"blank category", func(tx *Transaction) { tx.Category = " " }},
		{"long note", func(tx *Transaction) { tx.Note = string(make([]byte, 501)) }},
	}
	for _, m := range mutations {
		tx := validTransaction()
		m.mut(&tx)
		if err := tx.Validate(); err == nil {
			t.Fatalf("%s: expected error", m.name)
		} else if !IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", m.name, err)
		}
	}
}

func TestGoalValidate(t *testing.T) {
	good := Goal{
		Title:        "New laptop",
		TargetAmount: 10_000_000,
		TargetDate:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Priority:     PriorityMedium,
		Status:       GoalActive,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bad := good
	bad.TargetAmount = 0
	if err := bad.Validate(); err == nil {
		t.Fatal("zero target amount must be rejected")
	}
	bad = good
	bad.Priority = "urgent"
	if err := bad.Validate(); err == nil {
		t.Fatal("unknown priority must be rejected")
	}
	bad = good
	bad.CurrentAmount = -1
	if err := bad.Validate(); err == nil {
		t.Fatal("negative current amount must be rejected")
	}
}

func TestTransactionSigned(t *testing.T) {
	tx := validTransaction()
	if got := tx.Signed(); got != -1500 {
		t.Fatalf("expense signed = %d, want -1500", got)
	}
	tx.Type = TypeIncome
	if got := tx.Signed(); got != 1500 {
		t.Fatalf("income signed = %d, want 1500", got)
	}
}
