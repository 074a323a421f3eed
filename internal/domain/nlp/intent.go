package nlp

import "regexp"

// Intent is the single closed-set action a message is classified into.
// Exactly one value per message; values are never combined.
type Intent string

const (
	IntentAddExpense     Intent = "add_expense"
	IntentDeleteExpense  Intent = "delete_expense"
	IntentQueryExpenses  Intent = "query_expenses"
	IntentSplitPayment   Intent = "split_payment"
	IntentCheckDebts     Intent = "check_debts"
	IntentSettleDebt     Intent = "settle_debt"
	IntentAddCategory    Intent = "add_category"
	IntentListCategories Intent = "list_categories"
	IntentHelp           Intent = "help"
	IntentUnknown        Intent = "unknown"
)

// intentRule pairs an intent with the patterns that select it.
type intentRule struct {
	intent   Intent
	patterns []*regexp.Regexp
}

// intentRules is the classifier's priority order. Rules are evaluated top
// to bottom against the lowered text and the first rule with any matching
// pattern wins; there is no scoring or confidence. Specific low-ambiguity
// phrasings (delete, settle, debt check, split) come before the broad
// spend-verb rule so "split 2000 with 4 people" never lands on AddExpense,
// even though it contains a number.
var intentRules = []intentRule{
	{IntentDeleteExpense, compilePatterns(
		`delete|remove|cancel|undo`,
	)},
	{IntentSettleDebt, compilePatterns(
		`paid me|settled|paid back|cleared|received from`,
	)},
	{IntentCheckDebts, compilePatterns(
		`who owes|owes me|owe me|my debts|debt summary|pending`,
	)},
	{IntentSplitPayment, compilePatterns(
		`split|divide|share|among|between|with \d+ people`,
	)},
	{IntentListCategories, compilePatterns(
		`my categories|list categories|show categories`,
	)},
	{IntentAddCategory, compilePatterns(
		`add category|new category|create category`,
	)},
	{IntentQueryExpenses, compilePatterns(
		`how much|show|list|expenses|spending|summary|tell me|what did i`,
	)},
	{IntentAddExpense, compilePatterns(
		`spent|paid|bought|expense|cost|charged`,
	)},
}

func compilePatterns(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return compiled
}

// Classify picks exactly one intent for the given text. It is total: text
// matching no rule is AddExpense when a numeric amount is still extractable
// from it, and Unknown otherwise.
func (e *Engine) Classify(text string) Intent {
	lower := normalize(text)

	if lower == "help" || lower == "?" || lower == "commands" {
		return IntentHelp
	}

	for _, rule := range intentRules {
		for _, p := range rule.patterns {
			if p.MatchString(lower) {
				return rule.intent
			}
		}
		// A named participant list ("with Rahul and Priya") is split wording
		// too. The names need their original casing, so this one is tested
		// against the raw text at the split rule's priority slot.
		if rule.intent == IntentSplitPayment && splitNamesRegex.MatchString(text) {
			return IntentSplitPayment
		}
	}

	if parseAmount(text) != nil {
		return IntentAddExpense
	}

	return IntentUnknown
}
