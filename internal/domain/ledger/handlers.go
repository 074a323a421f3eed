package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/thukbot/thuk/internal/domain/nlp"
	"github.com/thukbot/thuk/pkg/money"
)

// AddExpenseHandler records a single expense from a parsed message. It owns
// the user-facing reporting for messages the parser could not price.
type AddExpenseHandler struct {
	expenses   ExpenseStore
	categories *CategoryResolver
	now        func() time.Time
}

// NewAddExpenseHandler wires the add-expense handler.
func NewAddExpenseHandler(expenses ExpenseStore, categories *CategoryResolver, now func() time.Time) *AddExpenseHandler {
	if now == nil {
		now = time.Now
	}
	return &AddExpenseHandler{expenses: expenses, categories: categories, now: now}
}

// Handle records the expense and confirms it back to the user.
func (h *AddExpenseHandler) Handle(ctx context.Context, msg nlp.ParsedMessage, user User) (string, error) {
	if msg.Amount == nil {
		return "I couldn't detect an amount. Please try again with a clear amount like '500' or '$20'.", nil
	}

	var categoryID *uuid.UUID
	var categoryName string
	if msg.CategoryHint != "" {
		if cat, err := h.categories.Resolve(ctx, user.ID, msg.CategoryHint); err == nil && cat != nil {
			categoryID = &cat.ID
			categoryName = cat.Name
		}
	}

	expenseDate := today(h.now())
	if msg.ExpenseDate != nil {
		expenseDate = *msg.ExpenseDate
	}

	expense := &Expense{
		ID:          uuid.New(),
		UserID:      user.ID,
		Amount:      *msg.Amount,
		Currency:    msg.Currency,
		Description: msg.Description,
		CategoryID:  categoryID,
		Source:      SourceText,
		ExpenseDate: expenseDate,
	}
	if err := h.expenses.CreateExpense(ctx, expense); err != nil {
		return "", fmt.Errorf("create expense: %w", err)
	}

	var b strings.Builder
	b.WriteString("Added expense: ")
	b.WriteString(money.Format(*msg.Amount, msg.Currency))
	if categoryName != "" {
		fmt.Fprintf(&b, " (%s)", categoryName)
	}
	if msg.ExpenseDate != nil {
		fmt.Fprintf(&b, " on %s", expenseDate.Format("Jan 2"))
	}
	return b.String(), nil
}

// DeleteExpenseHandler removes the user's most recent expense.
type DeleteExpenseHandler struct {
	expenses ExpenseStore
}

// NewDeleteExpenseHandler wires the delete-expense handler.
func NewDeleteExpenseHandler(expenses ExpenseStore) *DeleteExpenseHandler {
	return &DeleteExpenseHandler{expenses: expenses}
}

// Handle deletes the last expense and echoes what was removed.
func (h *DeleteExpenseHandler) Handle(ctx context.Context, _ nlp.ParsedMessage, user User) (string, error) {
	expense, err := h.expenses.DeleteLastExpense(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("delete last expense: %w", err)
	}
	if expense == nil {
		return "No expenses found to delete.", nil
	}
	return fmt.Sprintf("Deleted last expense: %s", money.Format(expense.Amount, expense.Currency)), nil
}

// QueryHandler answers spending-summary questions over a relative time
// window; absent windows default to this month.
type QueryHandler struct {
	expenses ExpenseStore
	now      func() time.Time
}

// NewQueryHandler wires the query handler.
func NewQueryHandler(expenses ExpenseStore, now func() time.Time) *QueryHandler {
	if now == nil {
		now = time.Now
	}
	return &QueryHandler{expenses: expenses, now: now}
}

// Handle formats a spending summary for the requested window.
func (h *QueryHandler) Handle(ctx context.Context, msg nlp.ParsedMessage, user User) (string, error) {
	from, to := dateRange(today(h.now()), msg.TimeRange)

	summary, err := h.expenses.Summarize(ctx, user.ID, from, to)
	if err != nil {
		return "", fmt.Errorf("summarize expenses: %w", err)
	}

	window := describeTimeRange(msg.TimeRange)
	if summary == nil || summary.Count == 0 {
		return fmt.Sprintf("No expenses found %s.", window), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*Spending Summary* %s\n\n", window)
	fmt.Fprintf(&b, "Total: %s (%d expenses)\n", money.Format(summary.Total, summary.Currency), summary.Count)

	if len(summary.ByCategory) > 0 {
		b.WriteString("\n*By Category:*")
		for _, row := range summary.ByCategory {
			fmt.Fprintf(&b, "\n- %s: %s", row.Name, money.Format(row.Total, summary.Currency))
		}
	}
	return b.String(), nil
}

// dateRange converts a named range into an inclusive [from, to] window.
// Week windows start on Monday.
func dateRange(today time.Time, r nlp.TimeRange) (time.Time, time.Time) {
	switch r {
	case nlp.RangeToday:
		return today, today
	case nlp.RangeYesterday:
		y := today.AddDate(0, 0, -1)
		return y, y
	case nlp.RangeThisWeek:
		return startOfWeek(today), today
	case nlp.RangeLastWeek:
		end := startOfWeek(today).AddDate(0, 0, -1)
		return end.AddDate(0, 0, -6), end
	case nlp.RangeLastMonth:
		end := startOfMonth(today).AddDate(0, 0, -1)
		return startOfMonth(end), end
	default:
		// this_month, and the default for absent ranges
		return startOfMonth(today), today
	}
}

func startOfWeek(t time.Time) time.Time {
	weekday := (int(t.Weekday()) + 6) % 7 // Monday = 0
	return t.AddDate(0, 0, -weekday)
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func describeTimeRange(r nlp.TimeRange) string {
	switch r {
	case nlp.RangeToday:
		return "today"
	case nlp.RangeYesterday:
		return "yesterday"
	case nlp.RangeThisWeek:
		return "this week"
	case nlp.RangeLastWeek:
		return "last week"
	case nlp.RangeLastMonth:
		return "last month"
	default:
		return "this month"
	}
}

func today(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
