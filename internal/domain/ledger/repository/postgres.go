// Package repository is the Postgres implementation of the ledger stores.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/thukbot/thuk/internal/domain/ledger"
)

// DB is the subset of pgxpool.Pool the store uses; pgxmock satisfies it in
// tests.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements ledger.ExpenseStore, ledger.CategoryStore,
// ledger.DebtStore and ledger.UserStore on Postgres.
type Store struct {
	db DB
}

// New creates a store over the given connection pool.
func New(db DB) *Store {
	return &Store{db: db}
}

// defaultCategories is seeded for every new user.
var defaultCategories = []string{
	"Food", "Transport", "Shopping", "Bills", "Entertainment", "Health", "Other",
}

// CreateExpense inserts one expense row.
func (s *Store) CreateExpense(ctx context.Context, e *ledger.Expense) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO expenses (id, user_id, amount, currency, description, category_id, source, expense_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.UserID, e.Amount.String(), e.Currency, e.Description, e.CategoryID, string(e.Source), e.ExpenseDate,
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// DeleteLastExpense removes the user's most recent expense and returns it,
// or nil when there is none.
func (s *Store) DeleteLastExpense(ctx context.Context, userID uuid.UUID) (*ledger.Expense, error) {
	row := s.db.QueryRow(ctx, `
		DELETE FROM expenses
		WHERE id = (
			SELECT id FROM expenses WHERE user_id = $1
			ORDER BY created_at DESC LIMIT 1
		)
		RETURNING id, amount::text, currency, description, expense_date`,
		userID,
	)

	var (
		e         ledger.Expense
		amountStr string
	)
	err := row.Scan(&e.ID, &amountStr, &e.Currency, &e.Description, &e.ExpenseDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete last expense: %w", err)
	}

	e.UserID = userID
	e.Amount, err = decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", amountStr, err)
	}
	return &e, nil
}

// Summarize aggregates spending between from and to, inclusive, with a
// per-category breakdown sorted largest first.
//
// Amounts are summed across currencies and the reported currency is
// whichever MAX picks; a per-currency breakdown would need a second
// GROUP BY. Acceptable while virtually all of a user's expenses share
// the home currency.
func (s *Store) Summarize(ctx context.Context, userID uuid.UUID, from, to time.Time) (*ledger.Summary, error) {
	row := s.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)::text, COUNT(*), COALESCE(MAX(currency), '')
		FROM expenses
		WHERE user_id = $1 AND expense_date BETWEEN $2 AND $3`,
		userID, from, to,
	)

	var (
		summary  ledger.Summary
		totalStr string
	)
	if err := row.Scan(&totalStr, &summary.Count, &summary.Currency); err != nil {
		return nil, fmt.Errorf("sum expenses: %w", err)
	}

	var err error
	summary.Total, err = decimal.NewFromString(totalStr)
	if err != nil {
		return nil, fmt.Errorf("parse total %q: %w", totalStr, err)
	}

	if summary.Count == 0 {
		return &summary, nil
	}

	rows, err := s.db.Query(ctx, `
		SELECT COALESCE(c.name, 'Uncategorized'), SUM(e.amount)::text
		FROM expenses e
		LEFT JOIN categories c ON c.id = e.category_id
		WHERE e.user_id = $1 AND e.expense_date BETWEEN $2 AND $3
		GROUP BY 1
		ORDER BY SUM(e.amount) DESC`,
		userID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("sum by category: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ct     ledger.CategoryTotal
			ctS    string
			parsed decimal.Decimal
		)
		if err := rows.Scan(&ct.Name, &ctS); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		if parsed, err = decimal.NewFromString(ctS); err != nil {
			return nil, fmt.Errorf("parse category total %q: %w", ctS, err)
		}
		ct.Total = parsed
		summary.ByCategory = append(summary.ByCategory, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category totals: %w", err)
	}
	return &summary, nil
}

// ListCategories returns the user's categories, defaults first.
func (s *Store) ListCategories(ctx context.Context, userID uuid.UUID) ([]ledger.Category, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, name, is_default, created_at
		FROM categories
		WHERE user_id = $1
		ORDER BY is_default DESC, name`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []ledger.Category
	for rows.Next() {
		var c ledger.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.IsDefault, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetCategoryByName resolves a category name case-insensitively.
func (s *Store) GetCategoryByName(ctx context.Context, userID uuid.UUID, name string) (*ledger.Category, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, name, is_default, created_at
		FROM categories
		WHERE user_id = $1 AND LOWER(name) = LOWER($2)`,
		userID, name,
	)

	var c ledger.Category
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.IsDefault, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category %q: %w", name, err)
	}
	return &c, nil
}

// CreateCategory inserts one custom category.
func (s *Store) CreateCategory(ctx context.Context, c *ledger.Category) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO categories (id, user_id, name, is_default)
		VALUES ($1, $2, $3, $4)`,
		c.ID, c.UserID, c.Name, c.IsDefault,
	)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// CreateDebt inserts one debt row.
func (s *Store) CreateDebt(ctx context.Context, d *ledger.Debt) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO debts (id, user_id, person_name, amount, currency, direction, related_expense_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		d.ID, d.UserID, d.PersonName, d.Amount.String(), d.Currency, string(d.Direction), d.RelatedExpenseID,
	)
	if err != nil {
		return fmt.Errorf("insert debt: %w", err)
	}
	return nil
}

// PendingDebts returns unsettled debts with per-direction totals.
func (s *Store) PendingDebts(ctx context.Context, userID uuid.UUID) (*ledger.DebtSummary, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, person_name, amount::text, currency, direction, created_at
		FROM debts
		WHERE user_id = $1 AND NOT settled
		ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("pending debts: %w", err)
	}
	defer rows.Close()

	summary := &ledger.DebtSummary{
		TotalOwedToMe: decimal.Zero,
		TotalIOwe:     decimal.Zero,
	}
	for rows.Next() {
		var (
			d         ledger.Debt
			amountStr string
			direction string
		)
		if err := rows.Scan(&d.ID, &d.PersonName, &amountStr, &d.Currency, &direction, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan debt: %w", err)
		}
		if d.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, fmt.Errorf("parse debt amount %q: %w", amountStr, err)
		}
		d.UserID = userID
		d.Direction = ledger.DebtDirection(direction)

		switch d.Direction {
		case ledger.DirectionOwesMe:
			summary.TotalOwedToMe = summary.TotalOwedToMe.Add(d.Amount)
		case ledger.DirectionIOwe:
			summary.TotalIOwe = summary.TotalIOwe.Add(d.Amount)
		}
		summary.Debts = append(summary.Debts, d)
	}
	return summary, rows.Err()
}

// SettleDebtsByPerson marks all pending debts with the named person as
// settled, matching the name case-insensitively.
func (s *Store) SettleDebtsByPerson(ctx context.Context, userID uuid.UUID, personName string) (int64, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE debts
		SET settled = TRUE, settled_at = NOW()
		WHERE user_id = $1 AND LOWER(person_name) = LOWER($2) AND NOT settled`,
		userID, personName,
	)
	if err != nil {
		return 0, fmt.Errorf("settle debts: %w", err)
	}
	return tag.RowsAffected(), nil
}

// GetOrCreateByPhone finds or creates the user for a phone number. New
// users get the default category set.
func (s *Store) GetOrCreateByPhone(ctx context.Context, phoneNumber, displayName string) (*ledger.User, error) {
	user, err := s.getByPhone(ctx, phoneNumber)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user = &ledger.User{
		ID:          uuid.New(),
		PhoneNumber: phoneNumber,
		DisplayName: displayName,
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO users (id, phone_number, display_name)
		VALUES ($1, $2, $3)`,
		user.ID, user.PhoneNumber, user.DisplayName,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	for _, name := range defaultCategories {
		_, err := s.db.Exec(ctx, `
			INSERT INTO categories (id, user_id, name, is_default)
			VALUES ($1, $2, $3, TRUE)`,
			uuid.New(), user.ID, name,
		)
		if err != nil {
			return nil, fmt.Errorf("seed category %q: %w", name, err)
		}
	}
	return user, nil
}

func (s *Store) getByPhone(ctx context.Context, phoneNumber string) (*ledger.User, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, phone_number, display_name, api_key_encrypted, created_at
		FROM users
		WHERE phone_number = $1`,
		phoneNumber,
	)

	var u ledger.User
	err := row.Scan(&u.ID, &u.PhoneNumber, &u.DisplayName, &u.EncryptedAPIKey, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by phone: %w", err)
	}
	return &u, nil
}

// SaveAPIKey stores the user's sealed API key.
func (s *Store) SaveAPIKey(ctx context.Context, userID uuid.UUID, encrypted []byte) error {
	_, err := s.db.Exec(ctx, `
		UPDATE users SET api_key_encrypted = $2 WHERE id = $1`,
		userID, encrypted,
	)
	if err != nil {
		return fmt.Errorf("save api key: %w", err)
	}
	return nil
}
