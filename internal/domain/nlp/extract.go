package nlp

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cloudflare/ahocorasick"
	"github.com/shopspring/decimal"
)

// Amount patterns are tried in order: symbol-prefixed, symbol-suffixed,
// code-prefixed, word-suffixed, then any bare number. The first numeric
// match wins; thousands separators are stripped before parsing.
var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[₹$€£¥]\s*(\d+(?:,\d{3})*(?:\.\d{1,2})?)`),
	regexp.MustCompile(`(\d+(?:,\d{3})*(?:\.\d{1,2})?)\s*[₹$€£¥]`),
	regexp.MustCompile(`(?i)(?:rs\.?|inr|usd|eur|gbp|aed)\s*(\d+(?:,\d{3})*(?:\.\d{1,2})?)`),
	regexp.MustCompile(`(?i)(\d+(?:,\d{3})*(?:\.\d{1,2})?)\s*(?:rs\.?|rupees?|dollars?|euros?|pounds?|dirhams?)`),
	regexp.MustCompile(`(\d+(?:,\d{3})*(?:\.\d{1,2})?)`),
}

// parseAmount extracts the first strictly positive amount from the text,
// or nil when none is found. It never returns zero or a negative value.
func parseAmount(text string) *decimal.Decimal {
	for _, p := range amountPatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		d, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
		if err != nil || !d.IsPositive() {
			continue
		}
		return &d
	}
	return nil
}

// detectCurrency runs independently of amount extraction: any known symbol
// anywhere in the raw text wins immediately, then any configured currency
// word, then the home currency. Words match on boundaries, not substrings,
// so "dollars" never hits the "rs" abbreviation. The two passes do not
// have to agree on which substring they used.
func (e *Engine) detectCurrency(text string) string {
	for _, s := range e.tables.CurrencySymbols {
		if strings.Contains(text, s.Symbol) {
			return s.Code
		}
	}

	lower := strings.ToLower(text)
	for _, w := range e.currencyWords {
		if w.pattern.MatchString(lower) {
			return w.code
		}
	}

	return e.tables.HomeCurrency
}

// compileWordPattern anchors a currency word on word boundaries. Words
// ending in punctuation ("rs.") only get the leading anchor since \b does
// not apply after a non-word rune.
func compileWordPattern(word string) *regexp.Regexp {
	pattern := regexp.QuoteMeta(word)
	if isWordRune(rune(word[0])) {
		pattern = `\b` + pattern
	}
	if isWordRune(rune(word[len(word)-1])) {
		pattern += `\b`
	}
	return regexp.MustCompile(pattern)
}

func isWordRune(r rune) bool {
	return r == '_' || ('a' <= r && r <= 'z') || ('0' <= r && r <= '9')
}

var descriptionStrips = []*regexp.Regexp{
	regexp.MustCompile(`[₹$€£¥]\s*\d+(?:,\d{3})*(?:\.\d{1,2})?`),
	regexp.MustCompile(`\d+(?:,\d{3})*(?:\.\d{1,2})?\s*[₹$€£¥]`),
	regexp.MustCompile(`(?i)(?:rs\.?|inr|usd|eur)\s*\d+`),
	regexp.MustCompile(`(?i)\d+\s*(?:rs\.?|rupees?|dollars?)`),
	regexp.MustCompile(`(?i)\b(spent|paid|bought|for|on)\b`),
	regexp.MustCompile(`(?i)\b(today|yesterday|last week|this week|this month)\b`),
}

// extractDescription is a "what's left over" heuristic, not a semantic
// extraction: the matched amount substring, currency markers, spend verbs,
// prepositions and time words are stripped and residual whitespace is
// collapsed. An empty result means absent.
func extractDescription(text string) string {
	desc := text

	// Drop the substring the amount extractor would have used, bare
	// numbers included.
	for _, p := range amountPatterns {
		if loc := p.FindStringIndex(desc); loc != nil {
			desc = desc[:loc[0]] + desc[loc[1]:]
			break
		}
	}

	for _, p := range descriptionStrips {
		desc = p.ReplaceAllString(desc, "")
	}

	return strings.Join(strings.Fields(desc), " ")
}

// categoryMatcher scans text against every category keyword in a single
// Aho-Corasick pass. Ties across categories resolve by table order, not by
// match position or count.
type categoryMatcher struct {
	matcher *ahocorasick.Matcher
	owner   []int // pattern index -> category table index
	names   []string
}

func newCategoryMatcher(categories []CategoryKeywords) *categoryMatcher {
	cm := &categoryMatcher{names: make([]string, len(categories))}

	// The automaton keeps one index per distinct pattern, so a keyword shared
	// across categories must be registered once, owned by its earliest table
	// entry.
	seen := make(map[string]bool)
	var patterns [][]byte
	for i, c := range categories {
		cm.names[i] = c.Name
		for _, kw := range c.Keywords {
			key := strings.ToLower(kw)
			if seen[key] {
				continue
			}
			seen[key] = true
			patterns = append(patterns, []byte(key))
			cm.owner = append(cm.owner, i)
		}
	}

	if len(patterns) > 0 {
		cm.matcher = ahocorasick.NewMatcher(patterns)
	}
	return cm
}

// Detect returns the display name of the first category in table order with
// any keyword contained in the lowered text, or "" for no hit.
func (cm *categoryMatcher) Detect(lower string) string {
	if cm.matcher == nil {
		return ""
	}

	hits := cm.matcher.Match([]byte(lower))
	best := -1
	for _, idx := range hits {
		if idx < 0 || idx >= len(cm.owner) {
			continue
		}
		if best == -1 || cm.owner[idx] < best {
			best = cm.owner[idx]
		}
	}

	if best == -1 {
		return ""
	}
	return cm.names[best]
}

var dayMonthRegex = regexp.MustCompile(`(?i)(\d{1,2})(?:st|nd|rd|th)?\s*(?:of\s*)?(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)?`)

var monthsByName = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// extractDate resolves "yesterday" and day-of-month-plus-month-name forms
// like "on 15th" or "dec 20". It never returns today explicitly: a nil
// result means the caller should default to today. Invalid days for the
// named month (Feb 30) are discarded silently.
func (e *Engine) extractDate(lower string) *time.Time {
	today := e.today()

	if strings.Contains(lower, "yesterday") {
		d := today.AddDate(0, 0, -1)
		return &d
	}

	// Numbers without a month name match too ("paid 900 rent on 1st of
	// jun" hits "90" first), so scan every match for one that names a
	// month.
	for _, m := range dayMonthRegex.FindAllStringSubmatch(lower, -1) {
		if m[2] == "" {
			continue
		}

		day, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		month := monthsByName[strings.ToLower(m[2])]

		d := time.Date(today.Year(), month, day, 0, 0, 0, 0, today.Location())
		if d.Day() != day || d.Month() != month {
			continue
		}
		return &d
	}
	return nil
}

// extractTimeRange returns the first matching named range or "" for
// absent; callers default absent to this_month when formatting.
func (e *Engine) extractTimeRange(lower string) TimeRange {
	for _, r := range e.timeRanges {
		if r.pattern.MatchString(lower) {
			return r.name
		}
	}
	return ""
}

var (
	splitCountRegex   = regexp.MustCompile(`(?i)(\d+)\s*people`)
	splitNamesRegex   = regexp.MustCompile(`with\s+([A-Z][a-z]+(?:\s*(?:,|and)\s*[A-Z][a-z]+)*)`)
	splitNameSepRegex = regexp.MustCompile(`\s*(?:,|and)\s*`)
)

// extractSplitInfo tries an explicit "N people" count first, then a
// "with Name[, Name][ and Name]" list of capitalized words. When people
// are named the count includes the acting user (names + 1). Counts below
// two are treated as absent; the split handler asks the user to clarify.
func extractSplitInfo(text string) (int, []string) {
	if m := splitCountRegex.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 2 {
			return 0, nil
		}
		return n, nil
	}

	if m := splitNamesRegex.FindStringSubmatch(text); m != nil {
		people := splitNameSepRegex.Split(m[1], -1)
		return len(people) + 1, people
	}

	return 0, nil
}

var (
	personVerbRegex = regexp.MustCompile(`([A-Z][a-z]+)\s+(?:paid|settled|cleared)`)
	personFromRegex = regexp.MustCompile(`(?:from|by)\s+([A-Z][a-z]+)`)
)

// extractPersonName finds the counterparty for settle and debt-check
// messages: "Rahul paid me back" first, then "received from Rahul".
func extractPersonName(text string) string {
	if m := personVerbRegex.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := personFromRegex.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}
