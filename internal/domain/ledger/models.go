// Package ledger holds the expense-tracking domain: users, expenses,
// categories and debts, the store interfaces over them, and one handler
// implementation per message intent.
package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SourceType records where an expense entry came from.
type SourceType string

const (
	SourceText  SourceType = "text"
	SourceImage SourceType = "image"
	SourceVoice SourceType = "voice"
)

// DebtDirection says who owes whom.
type DebtDirection string

const (
	DirectionOwesMe DebtDirection = "owes_me"
	DirectionIOwe   DebtDirection = "i_owe"
)

// User is the acting user resolved from the webhook sender.
type User struct {
	ID              uuid.UUID
	PhoneNumber     string
	DisplayName     string
	EncryptedAPIKey []byte // Gemini key sealed by pkg/secrets, may be nil
	CreatedAt       time.Time
}

// Category is a stored expense category, default or user-created.
type Category struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	IsDefault bool
	CreatedAt time.Time
}

// Expense is one recorded expense.
type Expense struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Amount      decimal.Decimal
	Currency    string
	Description string
	CategoryID  *uuid.UUID
	Source      SourceType
	ExpenseDate time.Time
	CreatedAt   time.Time
}

// Debt is a one-directional owed amount between the acting user and a
// named person, created by a split or standalone, settled later by name.
type Debt struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	PersonName       string
	Amount           decimal.Decimal
	Currency         string
	Direction        DebtDirection
	Settled          bool
	RelatedExpenseID *uuid.UUID
	CreatedAt        time.Time
}

// CategoryTotal is one row of a per-category spending breakdown.
type CategoryTotal struct {
	Name  string
	Total decimal.Decimal
}

// Summary aggregates spending over a date window.
type Summary struct {
	Total      decimal.Decimal
	Count      int
	Currency   string
	ByCategory []CategoryTotal // sorted by total, largest first
}

// DebtSummary aggregates a user's pending debts.
type DebtSummary struct {
	Debts         []Debt
	TotalOwedToMe decimal.Decimal
	TotalIOwe     decimal.Decimal
}
