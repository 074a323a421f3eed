package nlp

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string // "" means nil
	}{
		{"bare number", "spent 500 on food", "500"},
		{"symbol prefix", "₹1,250.50 groceries", "1250.50"},
		{"dollar prefix", "$20 coffee", "20"},
		{"symbol suffix", "250₹ auto", "250"},
		{"code prefix", "rs. 300 chai", "300"},
		{"word suffix", "500 rupees lunch", "500"},
		{"thousands separators", "paid 1,00,000", "1"}, // lakh grouping is not 3-digit, first group wins
		{"decimal", "12.50 for tea", "12.50"},
		{"no number", "good morning", ""},
		{"zero rejected", "spent 0 on nothing", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseAmount(tt.text)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestDetectCurrency(t *testing.T) {
	e := testEngine(t)

	tests := []struct {
		text string
		want string
	}{
		{"₹500 lunch", "INR"},
		{"$20 coffee", "USD"},
		{"€45 dinner", "EUR"},
		{"£10 bus", "GBP"},
		{"500 rupees", "INR"},
		{"30 dollars parking", "USD"},
		{"200 dirhams taxi", "AED"},
		{"spent 500 on food", "INR"}, // home currency fallback
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, e.detectCurrency(tt.text))
		})
	}
}

func TestDetectCurrencyHomeFallback(t *testing.T) {
	e := NewEngine(DefaultTables("USD"))
	assert.Equal(t, "USD", e.detectCurrency("spent 500 on food"))
}

func TestExtractDescription(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"amount and verbs stripped", "Spent 500 on food", "food"},
		{"currency marker stripped", "₹250 uber to airport", "uber to airport"},
		{"time words stripped", "paid 300 lunch yesterday", "lunch"},
		{"nothing left", "spent 500", ""},
		{"whitespace collapsed", "bought   shoes   3000", "shoes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractDescription(tt.text))
		})
	}
}

func TestCategoryDetect(t *testing.T) {
	e := testEngine(t)

	tests := []struct {
		text string
		want string
	}{
		{"lunch at the cafe", "Food"},
		{"uber to the office", "Transport"},
		{"amazon order", "Shopping"},
		{"electricity bill", "Bills"},
		{"netflix subscription", "Entertainment"},
		{"pharmacy run", "Health"},
		{"miscellaneous stuff", ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, e.categories.Detect(tt.text))
		})
	}
}

// Keywords from two categories in one message resolve by table order, not
// by position in the text.
func TestCategoryDetectTableOrderTieBreak(t *testing.T) {
	e := testEngine(t)
	// "uber" (Transport) appears before "dinner" (Food), but Food comes
	// first in the table.
	assert.Equal(t, "Food", e.categories.Detect("uber to dinner"))
}

// A keyword listed under more than one category belongs to the earliest
// one: "gas" sits in both Transport and Bills, and Transport wins.
func TestCategoryDetectSharedKeyword(t *testing.T) {
	e := testEngine(t)
	assert.Equal(t, "Transport", e.categories.Detect("spent 50 on gas"))
}

func TestCategoryMatcherDuplicateKeywordKeepsFirstOwner(t *testing.T) {
	cm := newCategoryMatcher([]CategoryKeywords{
		{"First", []string{"shared", "alpha"}},
		{"Second", []string{"shared", "beta"}},
	})
	assert.Equal(t, "First", cm.Detect("a shared keyword"))
	assert.Equal(t, "Second", cm.Detect("a beta keyword"))
}

func TestExtractSplitInfo(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantCount  int
		wantPeople []string
	}{
		{"explicit count", "2000 dinner split with 4 people", 4, nil},
		{"divide among", "divide 600 among 3 people", 3, nil},
		{"named people", "1000 movie with Rahul and Priya", 3, []string{"Rahul", "Priya"}},
		{"comma separated names", "500 with Amit, Neha and Vikram", 4, []string{"Amit", "Neha", "Vikram"}},
		{"single name", "800 cab with Rahul", 2, []string{"Rahul"}},
		{"count below two", "split with 1 people", 0, nil},
		{"no split info", "spent 500 on food", 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, people := extractSplitInfo(tt.text)
			assert.Equal(t, tt.wantCount, count)
			assert.Equal(t, tt.wantPeople, people)
		})
	}
}

func TestExtractPersonName(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Rahul paid me back", "Rahul"},
		{"Priya settled up", "Priya"},
		{"received from Amit", "Amit"},
		{"paid back by Neha", "Neha"},
		{"someone paid me back", ""},
		{"who owes me?", ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, extractPersonName(tt.text))
		})
	}
}

func TestExtractDateInvalidDay(t *testing.T) {
	e := testEngine(t)
	// Feb 30 does not exist; the match is discarded rather than
	// normalized into March.
	assert.Nil(t, e.extractDate("paid 500 on 30th feb"))
}
