package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ExpenseStore persists expenses.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, expense *Expense) error
	// DeleteLastExpense removes the user's most recent expense and returns
	// it, or nil when the user has none.
	DeleteLastExpense(ctx context.Context, userID uuid.UUID) (*Expense, error)
	// Summarize aggregates spending between from and to, inclusive.
	Summarize(ctx context.Context, userID uuid.UUID, from, to time.Time) (*Summary, error)
}

// CategoryStore persists categories.
type CategoryStore interface {
	ListCategories(ctx context.Context, userID uuid.UUID) ([]Category, error)
	// GetCategoryByName resolves a name case-insensitively; nil when absent.
	GetCategoryByName(ctx context.Context, userID uuid.UUID, name string) (*Category, error)
	CreateCategory(ctx context.Context, category *Category) error
}

// DebtStore persists debts.
type DebtStore interface {
	CreateDebt(ctx context.Context, debt *Debt) error
	// PendingDebts returns the user's unsettled debts with running totals.
	PendingDebts(ctx context.Context, userID uuid.UUID) (*DebtSummary, error)
	// SettleDebtsByPerson marks every pending debt with the named person as
	// settled and reports how many were affected.
	SettleDebtsByPerson(ctx context.Context, userID uuid.UUID, personName string) (int64, error)
}

// UserStore resolves webhook senders to users.
type UserStore interface {
	// GetOrCreateByPhone finds the user for a phone number, creating them
	// (with the default category set) on first contact.
	GetOrCreateByPhone(ctx context.Context, phoneNumber, displayName string) (*User, error)
	// SaveAPIKey stores the user's sealed Gemini API key.
	SaveAPIKey(ctx context.Context, userID uuid.UUID, encrypted []byte) error
}
