package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/wesplit/internal/models"
)

// NormalizeCurrency converts every amount of the balance into target.
//
// An amount in currency c becomes value * rate(target) / rate(c). Amounts
// whose currency, or the target itself, has no rate are kept unconverted and
// listed in a *ConversionGapError. The returned balance is usable in both
// cases; the error is a warning for the caller to surface.
//
// Converted amounts of a participant are merged into a single target entry.
func NormalizeCurrency(balance models.Balance, rates models.FxRates, target string) (models.Balance, error) {
	gaps := make(map[string]struct{})

	targetRate, targetOK := rates.Rate(target)
	convert := func(amounts []models.Amount) []models.Amount {
		totals := make(map[string]decimal.Decimal)
		for _, a := range amounts {
			if a.CurrencyCode == target {
				totals[target] = totals[target].Add(a.Value)
				continue
			}
			rate, ok := rates.Rate(a.CurrencyCode)
			if !ok || !targetOK {
				gaps[a.CurrencyCode] = struct{}{}
				totals[a.CurrencyCode] = totals[a.CurrencyCode].Add(a.Value)
				continue
			}
			converted := a.Value.Mul(decimal.NewFromFloat(targetRate)).Div(decimal.NewFromFloat(rate))
			totals[target] = totals[target].Add(converted)
		}
		return sortedAmounts(totals)
	}

	out := models.Balance{Invalid: balance.Invalid}
	for _, pb := range balance.ParticipantsBalance {
		amounts := convert(pb.Amounts)
		if len(amounts) == 0 {
			continue
		}
		out.ParticipantsBalance = append(out.ParticipantsBalance, models.ParticipantBalance{
			Participant: pb.Participant,
			Amounts:     amounts,
		})
	}
	out.Undistributed = convert(balance.Undistributed)

	if len(gaps) == 0 {
		return out, nil
	}
	codes := make([]string, 0, len(gaps))
	for code := range gaps {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return out, &ConversionGapError{Target: target, Currencies: codes}
}
