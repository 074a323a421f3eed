// Package split implements the settlement arithmetic for splitting one
// total among multiple participants. It is pure: no storage, no currency
// display, just the one place where a wrong rounding or tie-break policy
// would produce silently wrong money values.
package split

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/thukbot/thuk/pkg/money"
)

// ErrTooFewParticipants is returned for participant counts below two.
// Callers are expected to guard this precondition before asking for a
// split; reaching it means a caller bug, not bad user input.
var ErrTooFewParticipants = errors.New("split: at least two participants required")

// NamedDebt is one participant's owed share.
type NamedDebt struct {
	PersonName string
	Amount     decimal.Decimal
}

// Result describes one computed split.
type Result struct {
	TotalAmount      decimal.Decimal
	UserShare        decimal.Decimal
	OthersOwedTotal  decimal.Decimal
	PerPersonAmount  decimal.Decimal
	ParticipantCount int
	NamedDebts       []NamedDebt
}

// Compute divides total among participantCount people, the acting user
// included. The per-person amount is exact decimal division; the user's
// share is one per-person unit and the others-owed total is derived by
// subtraction, not by multiplying per-person back up, so
// UserShare + OthersOwedTotal == TotalAmount always holds exactly.
func Compute(total decimal.Decimal, participantCount int) (Result, error) {
	if participantCount < 2 {
		return Result{}, ErrTooFewParticipants
	}

	perPerson := total.Div(decimal.NewFromInt(int64(participantCount)))

	return Result{
		TotalAmount:      total,
		UserShare:        perPerson,
		OthersOwedTotal:  total.Sub(perPerson),
		PerPersonAmount:  perPerson,
		ParticipantCount: participantCount,
	}, nil
}

// ComputeNamed splits total among the acting user plus the named people
// and materializes one debt per name. Debts are minor-unit amounts in the
// given currency: each participant owes the per-person amount rounded to
// the currency's minor unit, except the last, who absorbs the rounding
// remainder. The named debts therefore always sum to OthersOwedTotal
// rounded to currency precision, even when the division is uneven.
func ComputeNamed(total decimal.Decimal, people []string, currency string) (Result, error) {
	res, err := Compute(total, len(people)+1)
	if err != nil {
		return Result{}, err
	}

	debts := make([]NamedDebt, len(people))
	assigned := decimal.Zero
	for i, name := range people[:len(people)-1] {
		amount := money.RoundToMinor(res.PerPersonAmount, currency)
		debts[i] = NamedDebt{PersonName: name, Amount: amount}
		assigned = assigned.Add(amount)
	}

	target := money.RoundToMinor(res.OthersOwedTotal, currency)
	debts[len(people)-1] = NamedDebt{
		PersonName: people[len(people)-1],
		Amount:     target.Sub(assigned),
	}

	res.NamedDebts = debts
	return res, nil
}
