package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/wesplit/internal/models"
)

// settleEpsilon is the smallest transfer worth suggesting.
var settleEpsilon = decimal.RequireFromString("0.01")

type position struct {
	participant models.Participant
	amount      models.Amount
}

// SuggestSettlements returns the payments that bring every balance to zero.
//
// Algorithm (greedy, two phases, amounts only pair within a currency):
//   - Split balances into debitors (negative) sorted ascending and creditors
//     (positive) sorted descending; both sorts are stable
//   - Phase 1: walking both lists from the end, settle every debitor whose
//     debt exactly matches a creditor's credit in one transfer
//   - Phase 2: walking the remaining debitors from the end, pay the largest
//     remaining creditor of the same currency until the debt is exhausted
//   - Creditors still owed money get a suggestion without payer; that credit
//     comes from the undistributed pool
//   - Suggestions below 0.01 are dropped
//
// The result is only meaningful for a balance that passes CheckBalance.
func SuggestSettlements(balance models.Balance) []models.SettleSuggestion {
	var creditors, debitors []position
	for _, pb := range balance.ParticipantsBalance {
		for _, a := range pb.Amounts {
			switch {
			case a.Value.IsPositive():
				creditors = append(creditors, position{participant: pb.Participant, amount: a})
			case a.Value.IsNegative():
				debitors = append(debitors, position{participant: pb.Participant, amount: a})
			}
		}
	}

	sort.SliceStable(debitors, func(i, j int) bool {
		return debitors[i].amount.Value.LessThan(debitors[j].amount.Value)
	})
	sort.SliceStable(creditors, func(i, j int) bool {
		return creditors[i].amount.Value.GreaterThan(creditors[j].amount.Value)
	})

	var suggestions []models.SettleSuggestion

	// Phase 1: exact matches.
	for i := len(debitors) - 1; i >= 0; i-- {
		debt := debitors[i].amount.Neg()
		for j := len(creditors) - 1; j >= 0; j-- {
			if !creditors[j].amount.Equal(debt) {
				continue
			}
			suggestions = append(suggestions, transfer(debitors[i].participant, creditors[j].participant, creditors[j].amount))
			debitors = append(debitors[:i], debitors[i+1:]...)
			creditors = append(creditors[:j], creditors[j+1:]...)
			break
		}
	}

	// Phase 2: partial settlements.
	for i := len(debitors) - 1; i >= 0; i-- {
		debtor := debitors[i]
		debt := debtor.amount.Value.Neg()
		currency := debtor.amount.CurrencyCode

		for debt.IsPositive() {
			j := largestCreditor(creditors, currency)
			if j < 0 {
				break
			}
			value := decimal.Min(debt, creditors[j].amount.Value)
			suggestions = append(suggestions, transfer(debtor.participant, creditors[j].participant, models.Amount{Value: value, CurrencyCode: currency}))

			debt = debt.Sub(value)
			creditors[j].amount = creditors[j].amount.Add(value.Neg())
			if creditors[j].amount.IsZero() {
				creditors = append(creditors[:j], creditors[j+1:]...)
			}
		}
	}

	for _, c := range creditors {
		suggestions = append(suggestions, models.SettleSuggestion{Recipient: c.participant, Amount: c.amount})
	}

	out := suggestions[:0]
	for _, s := range suggestions {
		if s.Amount.Value.Abs().LessThan(settleEpsilon) {
			continue
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// largestCreditor returns the index of the creditor with the largest
// remaining credit in currency, preferring the earliest among equals.
func largestCreditor(creditors []position, currency string) int {
	best := -1
	for j, c := range creditors {
		if c.amount.CurrencyCode != currency || !c.amount.Value.IsPositive() {
			continue
		}
		if best < 0 || c.amount.Value.GreaterThan(creditors[best].amount.Value) {
			best = j
		}
	}
	return best
}

func transfer(payer, recipient models.Participant, amount models.Amount) models.SettleSuggestion {
	p := payer
	return models.SettleSuggestion{Payer: &p, Recipient: recipient, Amount: amount}
}

// CheckBalance verifies that, for every currency, the participants' balances
// add up to the undistributed pool. It returns a *BalanceInvariantError
// listing the currencies that are off by more than one minor unit.
func CheckBalance(balance models.Balance) error {
	residue := make(map[string]decimal.Decimal)
	for _, pb := range balance.ParticipantsBalance {
		for _, a := range pb.Amounts {
			residue[a.CurrencyCode] = residue[a.CurrencyCode].Add(a.Value)
		}
	}
	for _, u := range balance.Undistributed {
		residue[u.CurrencyCode] = residue[u.CurrencyCode].Sub(u.Value)
	}

	off := make(map[string]string)
	for code, value := range residue {
		if value.Abs().GreaterThan(decimal.New(1, -models.MinorUnits(code))) {
			off[code] = value.String()
		}
	}
	if len(off) == 0 {
		return nil
	}
	return &BalanceInvariantError{Residue: off}
}
