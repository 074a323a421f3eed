// Package money provides currency-aware rounding and display formatting on
// top of go-money's ISO-4217 metadata, with shopspring/decimal carrying the
// exact values. Arithmetic on amounts stays in decimal; this package is the
// boundary where a value meets a currency's minor unit.
package money

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// MinorUnits returns the number of decimal places the currency carries
// (2 for INR/USD/EUR, 0 for JPY). Unknown codes default to 2.
func MinorUnits(code string) int32 {
	if c := money.GetCurrency(code); c != nil {
		return int32(c.Fraction)
	}
	return 2
}

// RoundToMinor rounds an exact decimal amount to the currency's minor unit
// using half-up rounding.
func RoundToMinor(d decimal.Decimal, code string) decimal.Decimal {
	return d.Round(MinorUnits(code))
}

// ToMinor converts an exact decimal amount to integer minor units
// (e.g. 12.50 EUR -> 1250).
func ToMinor(d decimal.Decimal, code string) int64 {
	exp := decimal.New(1, MinorUnits(code))
	return d.Mul(exp).Round(0).IntPart()
}

// FromMinor converts integer minor units back to a decimal amount.
func FromMinor(amountMinor int64, code string) decimal.Decimal {
	return decimal.New(amountMinor, -MinorUnits(code))
}

// Format renders an amount with its currency symbol and grouping, e.g.
// Format(1250.5, "INR") -> "₹1,250.50". Unknown codes fall back to
// go-money's default template.
func Format(d decimal.Decimal, code string) string {
	return money.New(ToMinor(d, code), code).Display()
}
