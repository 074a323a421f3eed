package ledger

import (
	"context"

	"github.com/thukbot/thuk/internal/domain/nlp"
)

const helpMessage = `*Thuk Commands*

*Add Expenses:*
- "Spent 500 on food"
- "Paid $20 for coffee yesterday"

*Split Payments:*
- "2000 dinner split with 4 people"
- "1000 movie with Rahul and Priya"
- "Who owes me money?"
- "Rahul paid me back"

*Query Expenses:*
- "How much did I spend today?"
- "Show this month's expenses"
- "Food expenses this week"

*Categories:*
- "Show my categories"
- "Add category Subscriptions"

*Other:*
- "Delete last expense"
- "Help" - Show this message`

// HelpHandler returns the static command reference.
type HelpHandler struct{}

// NewHelpHandler wires the help handler.
func NewHelpHandler() *HelpHandler {
	return &HelpHandler{}
}

// Handle returns the help text.
func (h *HelpHandler) Handle(_ context.Context, _ nlp.ParsedMessage, _ User) (string, error) {
	return helpMessage, nil
}
