package ledger

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thukbot/thuk/internal/domain/nlp"
)

// ============================================================================
// SplitHandler
// ============================================================================

func newSplitHandler(expenses *fakeExpenseStore, debts *fakeDebtStore) *SplitHandler {
	return NewSplitHandler(expenses, debts, NewCategoryResolver(&fakeCategoryStore{}), fixedNow)
}

func TestSplitMissingAmount(t *testing.T) {
	h := newSplitHandler(&fakeExpenseStore{}, &fakeDebtStore{})

	reply, err := h.Handle(context.Background(), nlp.ParsedMessage{Intent: nlp.IntentSplitPayment, SplitCount: 4}, testUser())
	require.NoError(t, err)
	assert.Contains(t, reply, "couldn't detect an amount")
}

func TestSplitMissingParticipants(t *testing.T) {
	h := newSplitHandler(&fakeExpenseStore{}, &fakeDebtStore{})

	msg := nlp.ParsedMessage{Intent: nlp.IntentSplitPayment, Amount: amount("2000"), Currency: "INR"}
	reply, err := h.Handle(context.Background(), msg, testUser())
	require.NoError(t, err)
	assert.Contains(t, reply, "how many people")
}

func TestSplitByCount(t *testing.T) {
	expenses := &fakeExpenseStore{}
	debts := &fakeDebtStore{}
	h := newSplitHandler(expenses, debts)
	user := testUser()

	msg := nlp.ParsedMessage{
		Intent:     nlp.IntentSplitPayment,
		Amount:     amount("2000"),
		Currency:   "INR",
		SplitCount: 4,
	}
	reply, err := h.Handle(context.Background(), msg, user)
	require.NoError(t, err)

	assert.Contains(t, reply, "Split expense created!")
	assert.Contains(t, reply, "Total: ₹2,000.00")
	assert.Contains(t, reply, "Your share: ₹500.00")
	assert.Contains(t, reply, "Others owe you: ₹1,500.00 (3 people)")
	assert.NotContains(t, reply, "Debts created", "anonymous splits create no debts")

	// Only the user's share lands in their ledger.
	require.Len(t, expenses.created, 1)
	assert.True(t, expenses.created[0].Amount.Equal(decimal.NewFromInt(500)))
	assert.Empty(t, debts.created)
}

func TestSplitByNames(t *testing.T) {
	expenses := &fakeExpenseStore{}
	debts := &fakeDebtStore{}
	h := newSplitHandler(expenses, debts)
	user := testUser()

	msg := nlp.ParsedMessage{
		Intent:      nlp.IntentSplitPayment,
		Amount:      amount("1000"),
		Currency:    "INR",
		SplitCount:  3,
		SplitPeople: []string{"Rahul", "Priya"},
	}
	reply, err := h.Handle(context.Background(), msg, user)
	require.NoError(t, err)

	assert.Contains(t, reply, "*Debts created:*")
	assert.Contains(t, reply, "- Rahul: ₹333.33")
	assert.Contains(t, reply, "- Priya: ₹333.34")

	require.Len(t, expenses.created, 1)
	expenseID := expenses.created[0].ID

	require.Len(t, debts.created, 2)
	for _, d := range debts.created {
		assert.Equal(t, user.ID, d.UserID)
		assert.Equal(t, "INR", d.Currency)
		assert.Equal(t, DirectionOwesMe, d.Direction)
		require.NotNil(t, d.RelatedExpenseID)
		assert.Equal(t, expenseID, *d.RelatedExpenseID)
	}
}

// ============================================================================
// DebtsHandler
// ============================================================================

func TestDebtsNonePending(t *testing.T) {
	h := NewDebtsHandler(&fakeDebtStore{pending: &DebtSummary{}}, "INR")

	reply, err := h.Handle(context.Background(), nlp.ParsedMessage{}, testUser())
	require.NoError(t, err)
	assert.Equal(t, "You have no pending debts!", reply)
}

func TestDebtsSummary(t *testing.T) {
	h := NewDebtsHandler(&fakeDebtStore{pending: &DebtSummary{
		Debts: []Debt{
			{PersonName: "Rahul", Amount: decimal.RequireFromString("333.33"), Currency: "INR", Direction: DirectionOwesMe},
			{PersonName: "Priya", Amount: decimal.RequireFromString("333.34"), Currency: "INR", Direction: DirectionOwesMe},
			{PersonName: "Amit", Amount: decimal.RequireFromString("150"), Currency: "INR", Direction: DirectionIOwe},
		},
		TotalOwedToMe: decimal.RequireFromString("666.67"),
		TotalIOwe:     decimal.RequireFromString("150"),
	}}, "INR")

	reply, err := h.Handle(context.Background(), nlp.ParsedMessage{}, testUser())
	require.NoError(t, err)

	assert.Contains(t, reply, "*Debt Summary*")
	assert.Contains(t, reply, "*People owe you:* ₹666.67")
	assert.Contains(t, reply, "- Rahul: ₹333.33")
	assert.Contains(t, reply, "- Priya: ₹333.34")
	assert.Contains(t, reply, "*You owe:* ₹150.00")
	assert.Contains(t, reply, "- Amit: ₹150.00")
}

// ============================================================================
// SettleHandler
// ============================================================================

func TestSettle(t *testing.T) {
	t.Run("no person named", func(t *testing.T) {
		h := NewSettleHandler(&fakeDebtStore{})
		reply, err := h.Handle(context.Background(), nlp.ParsedMessage{}, testUser())
		require.NoError(t, err)
		assert.Contains(t, reply, "specify who paid you back")
	})

	t.Run("settles by name", func(t *testing.T) {
		debts := &fakeDebtStore{settledCount: 2}
		h := NewSettleHandler(debts)
		reply, err := h.Handle(context.Background(), nlp.ParsedMessage{PersonName: "Rahul"}, testUser())
		require.NoError(t, err)
		assert.Equal(t, "Settled 2 debt(s) with Rahul!", reply)
		assert.Equal(t, "Rahul", debts.settledWith)
	})

	t.Run("nothing pending with person", func(t *testing.T) {
		h := NewSettleHandler(&fakeDebtStore{settledCount: 0})
		reply, err := h.Handle(context.Background(), nlp.ParsedMessage{PersonName: "Rahul"}, testUser())
		require.NoError(t, err)
		assert.Equal(t, "No pending debts found with Rahul.", reply)
	})
}
