package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/wesplit/internal/models"
)

// ledger accumulates signed per-currency totals for participants, keeping
// the order in which participants were first seen.
type ledger struct {
	order        []string
	participants map[string]models.Participant
	totals       map[string]map[string]decimal.Decimal
}

func newLedger() *ledger {
	return &ledger{
		participants: make(map[string]models.Participant),
		totals:       make(map[string]map[string]decimal.Decimal),
	}
}

func (l *ledger) touch(p models.Participant) string {
	key := p.Key()
	if _, ok := l.participants[key]; !ok {
		l.order = append(l.order, key)
		l.participants[key] = p
		l.totals[key] = make(map[string]decimal.Decimal)
	}
	return key
}

func (l *ledger) add(p models.Participant, currency string, value decimal.Decimal) {
	key := l.touch(p)
	l.totals[key][currency] = l.totals[key][currency].Add(value)
}

// AggregateBalance computes every participant's net position from a list of
// expenses. Positive amounts mean the participant is owed money.
//
// Algorithm:
//   - For each share whose participant is not the payer: the participant is
//     debited and the payer credited by the share amount
//   - Shares of the payer cancel out and are skipped
//   - Undistributed amounts are credited to the payer and added to the
//     per-currency undistributed pool
//
// Callers decide which expenses count; settled expenses are normally
// filtered out beforehand. Amounts are kept in the expense currency, so
// the result may hold several currencies per participant.
//
// Participants appear in group order, then in order of first appearance in
// the expenses. Currencies are sorted by code and zero entries are dropped.
func AggregateBalance(group models.Group, expenses []models.Expense) models.Balance {
	l := newLedger()
	for _, p := range group.Participants {
		l.touch(p)
	}
	pool := make(map[string]decimal.Decimal)

	for _, e := range expenses {
		currency := e.TotalAmount.CurrencyCode
		payer := e.PayedBy

		for _, s := range e.Shares {
			if s.Participant.Same(payer) || s.Amount.IsZero() {
				continue
			}
			l.add(s.Participant, currency, s.Amount.Value.Neg())
			l.add(payer, currency, s.Amount.Value)
		}

		if u := e.Undistributed(); !u.IsZero() {
			l.add(payer, currency, u.Value)
			pool[currency] = pool[currency].Add(u.Value)
		}
	}

	var balance models.Balance
	for _, key := range l.order {
		amounts := sortedAmounts(l.totals[key])
		if len(amounts) == 0 {
			continue
		}
		balance.ParticipantsBalance = append(balance.ParticipantsBalance, models.ParticipantBalance{
			Participant: l.participants[key],
			Amounts:     amounts,
		})
	}
	balance.Undistributed = sortedAmounts(pool)
	return balance
}

// sortedAmounts turns a currency map into amounts sorted by code, skipping zeros.
func sortedAmounts(totals map[string]decimal.Decimal) []models.Amount {
	codes := make([]string, 0, len(totals))
	for code, value := range totals {
		if !value.IsZero() {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)

	amounts := make([]models.Amount, 0, len(codes))
	for _, code := range codes {
		amounts = append(amounts, models.Amount{Value: totals[code], CurrencyCode: code})
	}
	if len(amounts) == 0 {
		return nil
	}
	return amounts
}
