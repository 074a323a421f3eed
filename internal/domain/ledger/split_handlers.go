package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/thukbot/thuk/internal/domain/nlp"
	"github.com/thukbot/thuk/internal/domain/split"
	"github.com/thukbot/thuk/pkg/money"
)

// SplitHandler records a split expense: the user's share as their own
// expense plus one debt per named participant.
type SplitHandler struct {
	expenses   ExpenseStore
	debts      DebtStore
	categories *CategoryResolver
	now        func() time.Time
}

// NewSplitHandler wires the split-payment handler.
func NewSplitHandler(expenses ExpenseStore, debts DebtStore, categories *CategoryResolver, now func() time.Time) *SplitHandler {
	if now == nil {
		now = time.Now
	}
	return &SplitHandler{expenses: expenses, debts: debts, categories: categories, now: now}
}

// Handle computes the split, stores the user's share and the named debts,
// and reports the breakdown.
func (h *SplitHandler) Handle(ctx context.Context, msg nlp.ParsedMessage, user User) (string, error) {
	if msg.Amount == nil {
		return "I couldn't detect an amount. Please specify how much was spent.", nil
	}
	if msg.SplitCount == 0 && len(msg.SplitPeople) == 0 {
		return "Please specify how many people to split with or name them.", nil
	}

	var result split.Result
	var err error
	if len(msg.SplitPeople) > 0 {
		result, err = split.ComputeNamed(*msg.Amount, msg.SplitPeople, msg.Currency)
	} else {
		result, err = split.Compute(*msg.Amount, msg.SplitCount)
	}
	if err != nil {
		return "A split needs at least 2 people. Please tell me how many you shared with.", nil
	}

	var categoryID *uuid.UUID
	if msg.CategoryHint != "" {
		if cat, rerr := h.categories.Resolve(ctx, user.ID, msg.CategoryHint); rerr == nil && cat != nil {
			categoryID = &cat.ID
		}
	}

	expenseDate := today(h.now())
	if msg.ExpenseDate != nil {
		expenseDate = *msg.ExpenseDate
	}

	// Only the user's own share is recorded as their expense; the rest
	// lives on as debts.
	expense := &Expense{
		ID:          uuid.New(),
		UserID:      user.ID,
		Amount:      result.UserShare,
		Currency:    msg.Currency,
		Description: msg.Description,
		CategoryID:  categoryID,
		Source:      SourceText,
		ExpenseDate: expenseDate,
	}
	if err := h.expenses.CreateExpense(ctx, expense); err != nil {
		return "", fmt.Errorf("create split expense: %w", err)
	}

	for _, d := range result.NamedDebts {
		debt := &Debt{
			ID:               uuid.New(),
			UserID:           user.ID,
			PersonName:       d.PersonName,
			Amount:           d.Amount,
			Currency:         msg.Currency,
			Direction:        DirectionOwesMe,
			RelatedExpenseID: &expense.ID,
		}
		if err := h.debts.CreateDebt(ctx, debt); err != nil {
			return "", fmt.Errorf("create debt for %s: %w", d.PersonName, err)
		}
	}

	var b strings.Builder
	b.WriteString("Split expense created!\n")
	fmt.Fprintf(&b, "Total: %s\n", money.Format(result.TotalAmount, msg.Currency))
	fmt.Fprintf(&b, "Your share: %s\n", money.Format(result.UserShare, msg.Currency))
	fmt.Fprintf(&b, "Others owe you: %s (%d people)",
		money.Format(result.OthersOwedTotal, msg.Currency), result.ParticipantCount-1)

	if len(result.NamedDebts) > 0 {
		b.WriteString("\n\n*Debts created:*")
		for _, d := range result.NamedDebts {
			fmt.Fprintf(&b, "\n- %s: %s", d.PersonName, money.Format(d.Amount, msg.Currency))
		}
	}
	return b.String(), nil
}

// DebtsHandler answers "who owes me" questions.
type DebtsHandler struct {
	debts        DebtStore
	homeCurrency string
}

// NewDebtsHandler wires the debt-summary handler. Totals across people are
// reported in the home currency.
func NewDebtsHandler(debts DebtStore, homeCurrency string) *DebtsHandler {
	return &DebtsHandler{debts: debts, homeCurrency: homeCurrency}
}

// Handle formats the pending-debt summary in both directions.
func (h *DebtsHandler) Handle(ctx context.Context, _ nlp.ParsedMessage, user User) (string, error) {
	summary, err := h.debts.PendingDebts(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("pending debts: %w", err)
	}
	if summary == nil || len(summary.Debts) == 0 {
		return "You have no pending debts!", nil
	}

	var owesMe, iOwe []string
	for _, d := range summary.Debts {
		line := fmt.Sprintf("- %s: %s", d.PersonName, money.Format(d.Amount, d.Currency))
		if d.Direction == DirectionOwesMe {
			owesMe = append(owesMe, line)
		} else {
			iOwe = append(iOwe, line)
		}
	}

	var b strings.Builder
	b.WriteString("*Debt Summary*\n")
	if len(owesMe) > 0 {
		fmt.Fprintf(&b, "\n*People owe you:* %s\n", money.Format(summary.TotalOwedToMe, h.homeCurrency))
		b.WriteString(strings.Join(owesMe, "\n"))
		b.WriteString("\n")
	}
	if len(iOwe) > 0 {
		fmt.Fprintf(&b, "\n*You owe:* %s\n", money.Format(summary.TotalIOwe, h.homeCurrency))
		b.WriteString(strings.Join(iOwe, "\n"))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// SettleHandler marks debts with a named person as settled.
type SettleHandler struct {
	debts DebtStore
}

// NewSettleHandler wires the settle-debt handler.
func NewSettleHandler(debts DebtStore) *SettleHandler {
	return &SettleHandler{debts: debts}
}

// Handle settles every pending debt with the named counterparty.
func (h *SettleHandler) Handle(ctx context.Context, msg nlp.ParsedMessage, user User) (string, error) {
	if msg.PersonName == "" {
		return "Please specify who paid you back (e.g., 'Rahul paid me back').", nil
	}

	count, err := h.debts.SettleDebtsByPerson(ctx, user.ID, msg.PersonName)
	if err != nil {
		return "", fmt.Errorf("settle debts with %s: %w", msg.PersonName, err)
	}
	if count == 0 {
		return fmt.Sprintf("No pending debts found with %s.", msg.PersonName), nil
	}
	return fmt.Sprintf("Settled %d debt(s) with %s!", count, msg.PersonName), nil
}
