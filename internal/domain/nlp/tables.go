package nlp

// Tables holds the immutable lookup data the engine is built from. The
// stock set comes from DefaultTables; tests substitute alternates through
// NewEngine. Slice order is significant everywhere: every lookup is
// first-hit-in-order, never best-hit.
type Tables struct {
	// HomeCurrency is the ISO-4217 code used when no currency is detected.
	HomeCurrency string

	// CurrencySymbols are checked first, in order, anywhere in the raw text.
	CurrencySymbols []CurrencySymbol

	// CurrencyWords are checked after symbols, in order, case-insensitive.
	CurrencyWords []CurrencyWord

	// Categories are scanned in order; the first category with any keyword
	// contained in the lowered text wins.
	Categories []CategoryKeywords

	// TimeRanges are checked in order; the first matching pattern wins.
	TimeRanges []TimeRangePattern
}

// CurrencySymbol maps a literal symbol to a currency code.
type CurrencySymbol struct {
	Symbol string
	Code   string
}

// CurrencyWord maps a lower-cased currency word to a currency code.
type CurrencyWord struct {
	Word string
	Code string
}

// CategoryKeywords maps a display-cased category name to its keyword list.
type CategoryKeywords struct {
	Name     string
	Keywords []string
}

// TimeRangePattern maps a named query range to its regex pattern.
type TimeRangePattern struct {
	Range   TimeRange
	Pattern string
}

// DefaultTables returns the stock lookup tables with the given home
// currency as the fallback code.
func DefaultTables(homeCurrency string) Tables {
	return Tables{
		HomeCurrency: homeCurrency,

		CurrencySymbols: []CurrencySymbol{
			{"₹", "INR"},
			{"$", "USD"},
			{"€", "EUR"},
			{"£", "GBP"},
			{"¥", "JPY"},
		},

		CurrencyWords: []CurrencyWord{
			{"rs.", "INR"},
			{"rs", "INR"},
			{"inr", "INR"},
			{"rupees", "INR"},
			{"rupee", "INR"},
			{"usd", "USD"},
			{"dollars", "USD"},
			{"dollar", "USD"},
			{"eur", "EUR"},
			{"euros", "EUR"},
			{"euro", "EUR"},
			{"gbp", "GBP"},
			{"pounds", "GBP"},
			{"pound", "GBP"},
			{"jpy", "JPY"},
			{"yen", "JPY"},
			{"aed", "AED"},
			{"dirhams", "AED"},
			{"dirham", "AED"},
		},

		Categories: []CategoryKeywords{
			{"Food", []string{
				"food", "lunch", "dinner", "breakfast", "snack", "meal", "eat", "eating",
				"restaurant", "cafe", "coffee", "tea", "swiggy", "zomato", "ubereats", "doordash",
				"sandwich", "burger", "pizza", "pasta", "noodles", "rice", "curry", "biryani",
				"dosa", "idli", "samosa", "paratha", "roti", "dal", "thali", "momos",
				"chicken", "mutton", "fish", "paneer", "salad", "soup", "bread",
				"chai", "lassi", "juice", "smoothie", "milkshake", "beer", "wine", "drinks",
				"ice cream", "icecream", "cake", "dessert", "sweet", "mithai", "gulab jamun",
				"mcdonalds", "kfc", "dominos", "subway", "starbucks", "ccd", "mcd",
			}},
			{"Transport", []string{
				"uber", "ola", "cab", "taxi", "auto", "rickshaw", "bus", "metro", "train",
				"fuel", "petrol", "diesel", "gas", "transport", "travel", "flight", "ticket",
				"rapido", "bike", "scooter", "parking", "toll", "lyft",
			}},
			{"Shopping", []string{
				"shopping", "amazon", "flipkart", "myntra", "clothes", "shoes", "electronics",
				"buy", "purchase", "mall", "store", "market", "bazaar", "grocery", "groceries",
				"bigbasket", "blinkit", "zepto", "instamart", "dmart",
			}},
			{"Bills", []string{
				"bill", "electricity", "water", "gas", "internet", "wifi", "phone", "recharge",
				"rent", "emi", "loan", "insurance", "tax", "maintenance", "society",
			}},
			{"Entertainment", []string{
				"movie", "netflix", "spotify", "amazon prime", "hotstar", "game", "gaming",
				"concert", "show", "subscription", "youtube", "premium", "theatre", "cinema",
				"pvr", "inox", "bookmyshow",
			}},
			{"Health", []string{
				"medicine", "doctor", "hospital", "pharmacy", "medical", "health", "gym",
				"fitness", "yoga", "clinic", "lab", "test", "checkup", "apollo", "1mg",
				"pharmeasy", "netmeds",
			}},
		},

		// Exact phrases come before the bare-word fallbacks so "last week"
		// resolves to last_week instead of being swallowed by "week".
		TimeRanges: []TimeRangePattern{
			{RangeToday, `\btoday\b`},
			{RangeYesterday, `\byesterday\b`},
			{RangeThisWeek, `\bthis week\b`},
			{RangeLastWeek, `\blast week\b`},
			{RangeThisMonth, `\bthis month\b`},
			{RangeLastMonth, `\blast month\b`},
			{RangeThisWeek, `\bweek\b`},
			{RangeThisMonth, `\bmonth\b`},
		},
	}
}
