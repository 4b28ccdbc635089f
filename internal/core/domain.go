package core

import (
	"strings"
	"time"
)

// EntryType is the direction of a transaction or the kind of a category.
type EntryType string

const (
	TypeIncome  EntryType = "income"
	TypeExpense EntryType = "expense"
)

// ValidEntryType reports whether t is income or expense.
func ValidEntryType(t EntryType) bool {
	return t == TypeIncome || t == TypeExpense
}

// GoalPriority orders savings goals for display.
type GoalPriority string

const (
	PriorityLow    GoalPriority = "low"
	PriorityMedium GoalPriority = "medium"
	PriorityHigh   GoalPriority = "high"
)

// GoalStatus tracks whether a goal is still being funded.
type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
)

const maxNoteLen = 500

type (
	// Wallet is a named money-holding account. Its balance is adjusted
	// atomically whenever a transaction referencing it is created,
	// edited, or deleted.
	Wallet struct {
		ID        string
		UserID    string
		Name      string
		Balance   Money // signed: a wallet may legitimately go negative
		Icon      string
		Color     string
		IsDefault bool
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	// Category is a spending or income bucket. Budgeted is the planned
	// envelope allocation; mutating it never touches wallet balances or
	// transaction totals.
	Category struct {
		ID        string
		UserID    string
		Name      string
		Type      EntryType
		Group     string
		Budgeted  Money // >= 0; 0 means no allocation
		Icon      string
		IsDefault bool
		Order     int
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	// Transaction is a single executed movement of money. Amount is
	// always positive; Type carries the direction. Category and Wallet
	// are name references, resolved at aggregation time.
	Transaction struct {
		ID        string
		UserID    string
		Type      EntryType
		Amount    Money
		Currency  string
		Date      time.Time
		Category  string
		Wallet    string
		Note      string
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	// Goal is a savings target tracked independently of wallets and
	// transactions. CurrentAmount grows through contributions and may
	// overshoot TargetAmount; progress is clamped only for display.
	Goal struct {
		ID            string
		UserID        string
		Title         string
		TargetAmount  Money
		TargetDate    time.Time
		Category      string
		Priority      GoalPriority
		Description   string
		CurrentAmount Money
		Status        GoalStatus
		CreatedAt     time.Time
		UpdatedAt     time.Time
	}

	// User is the owner of a ledger. PasswordHash is empty for accounts
	// created through Google sign-in only.
	User struct {
		ID            string
		Email         string
		Name          string
		PasswordHash  string
		GoogleSubject string
		CreatedAt     time.Time
	}
)

// Validate checks the fields a wallet needs before it can be stored.
func (w Wallet) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return NewValidationError("name", "empty")
	}
	if len(w.Name) > 100 {
		return NewValidationError("name", "too long (max 100 characters)")
	}
	return nil
}

// Validate checks the fields a category needs before it can be stored.
func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return NewValidationError("name", "empty")
	}
	if len(c.Name) > 100 {
		return NewValidationError("name", "too long (max 100 characters)")
	}
	if !ValidEntryType(c.Type) {
		return NewValidationError("type", "must be income or expense")
	}
	if c.Budgeted < 0 {
		return NewValidationError("budgeted", "must not be negative")
	}
	return nil
}

// Validate checks the fields a transaction needs before it can be stored.
func (t Transaction) Validate() error {
	if !ValidEntryType(t.Type) {
		return NewValidationError("type", "must be income or expense")
	}
	if t.Amount <= 0 {
		return NewValidationError("amount", "must be positive")
	}
	if !ValidCurrency(t.Currency) {
		return NewValidationError("currency", "unsupported currency")
	}
	if t.Date.IsZero() {
		return NewValidationError("date", "required")
	}
	if strings.TrimSpace(t.Category) == "" {
		return NewValidationError("category", "empty")
	}
	if len(t.Note) > maxNoteLen {
		return NewValidationError("note", "too long (max 500 characters)")
	}
	return nil
}

// Validate checks the fields a goal needs before it can be stored.
// TargetAmount must be strictly positive so that progress is always
// well defined downstream.
func (g Goal) Validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return NewValidationError("title", "empty")
	}
	if len(g.Title) > 150 {
		return NewValidationError("title", "too long (max 150 characters)")
	}
	if g.TargetAmount <= 0 {
		return NewValidationError("targetAmount", "must be positive")
	}
	if g.TargetDate.IsZero() {
		return NewValidationError("targetDate", "required")
	}
	switch g.Priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
	default:
		return NewValidationError("priority", "must be low, medium or high")
	}
	if g.CurrentAmount < 0 {
		return NewValidationError("currentAmount", "must not be negative")
	}
	switch g.Status {
	case GoalActive, GoalCompleted:
	default:
		return NewValidationError("status", "must be active or completed")
	}
	return nil
}

// Signed returns the amount with its direction applied: positive for
// income, negative for expense. This is what wallet balances move by.
func (t Transaction) Signed() Money {
	if t.Type == TypeExpense {
		return -t.Amount
	}
	return t.Amount
}
