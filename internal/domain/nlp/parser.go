// Package nlp turns a free-text expense message into a typed intent plus a
// bag of extracted entities. Classification is a fixed-priority ordered rule
// table and every extractor is a pure, total function: malformed input never
// fails, it just yields absent fields or the Unknown intent.
package nlp

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TimeRange names a relative query window.
type TimeRange string

const (
	RangeToday     TimeRange = "today"
	RangeYesterday TimeRange = "yesterday"
	RangeThisWeek  TimeRange = "this_week"
	RangeLastWeek  TimeRange = "last_week"
	RangeThisMonth TimeRange = "this_month"
	RangeLastMonth TimeRange = "last_month"
)

// ParsedMessage is the immutable result of understanding one message. It is
// created fresh per message, consumed synchronously by the router, and never
// persisted; handlers read it but do not write back into it.
type ParsedMessage struct {
	Intent       Intent
	Amount       *decimal.Decimal // nil when absent; strictly positive otherwise
	Currency     string           // ISO-4217 code, never empty
	Description  string           // "" means absent
	CategoryHint string           // display-cased guess, never validated here
	ExpenseDate  *time.Time       // nil means "caller defaults to today"
	TimeRange    TimeRange        // "" means absent
	SplitCount   int              // 0 when absent; >= 2 otherwise
	SplitPeople  []string         // display names, excluding the acting user
	PersonName   string           // counterparty for settle/debt intents
	RawText      string           // original input, kept for diagnostics and fallback
}

// Engine composes the intent classifier and the entity extractors. It is
// immutable after construction and safe for concurrent use.
type Engine struct {
	tables        Tables
	categories    *categoryMatcher
	currencyWords []compiledWord
	timeRanges    []compiledRange
	now           func() time.Time
}

type compiledWord struct {
	code    string
	pattern *regexp.Regexp
}

type compiledRange struct {
	name    TimeRange
	pattern *regexp.Regexp
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock pins the engine's notion of now, so "yesterday" and explicit
// dates resolve deterministically in tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine builds an engine from the given lookup tables.
func NewEngine(tables Tables, opts ...Option) *Engine {
	e := &Engine{
		tables:     tables,
		categories: newCategoryMatcher(tables.Categories),
		now:        time.Now,
	}
	for _, w := range tables.CurrencyWords {
		e.currencyWords = append(e.currencyWords, compiledWord{
			code:    w.Code,
			pattern: compileWordPattern(w.Word),
		})
	}
	for _, r := range tables.TimeRanges {
		e.timeRanges = append(e.timeRanges, compiledRange{
			name:    r.Range,
			pattern: regexp.MustCompile(`(?i)` + r.Pattern),
		})
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Understand parses one message. Calling it twice on identical text yields
// field-for-field identical results; the only clock dependence is
// today/yesterday resolution through the injected clock.
func (e *Engine) Understand(text string) ParsedMessage {
	lower := normalize(text)

	msg := ParsedMessage{
		Intent:   IntentUnknown,
		Currency: e.tables.HomeCurrency,
		RawText:  text,
	}

	// Literal help requests short-circuit with no entity extraction.
	if lower == "help" || lower == "?" || lower == "commands" {
		msg.Intent = IntentHelp
		return msg
	}

	msg.Intent = e.Classify(text)
	msg.Amount = parseAmount(text)
	msg.Currency = e.detectCurrency(text)
	msg.Description = extractDescription(text)
	msg.CategoryHint = e.categories.Detect(lower)
	msg.ExpenseDate = e.extractDate(lower)
	msg.TimeRange = e.extractTimeRange(lower)

	if msg.Intent == IntentSplitPayment {
		msg.SplitCount, msg.SplitPeople = extractSplitInfo(text)
	}

	if msg.Intent == IntentSettleDebt || msg.Intent == IntentCheckDebts {
		msg.PersonName = extractPersonName(text)
	}

	return msg
}

func (e *Engine) today() time.Time {
	now := e.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
