package calculator

import (
	"errors"
	"math"
	"testing"

	"github.com/mmynk/wesplit/internal/models"
)

func TestNormalizeCurrency(t *testing.T) {
	rates := models.FxRates{Base: "USD", Rates: map[string]float64{"EUR": 0.5, "GEL": 2.5, "BAD": 0}}

	balance := models.Balance{
		ParticipantsBalance: []models.ParticipantBalance{
			{Participant: alice, Amounts: []models.Amount{models.NewAmount(-30, "EUR"), models.NewAmount(20, "USD")}},
			{Participant: bob, Amounts: []models.Amount{models.NewAmount(30, "EUR"), models.NewAmount(-20, "USD")}},
			{Participant: carol, Amounts: []models.Amount{models.NewAmount(10, "XXX")}},
		},
		Undistributed: []models.Amount{models.NewAmount(5, "GEL")},
	}

	tests := []struct {
		name         string
		target       string
		wantGaps     []string
		validateFunc func(t *testing.T, b models.Balance)
	}{
		{
			name:     "into the base currency",
			target:   "USD",
			wantGaps: []string{"XXX"},
			validateFunc: func(t *testing.T, b models.Balance) {
				// alice: -30 EUR = -60 USD, plus 20 USD
				if got := balanceOf(t, b, alice, "USD"); math.Abs(got+40) > 0.0001 {
					t.Errorf("alice USD = %v, want -40", got)
				}
				if got := balanceOf(t, b, bob, "USD"); math.Abs(got-40) > 0.0001 {
					t.Errorf("bob USD = %v, want 40", got)
				}
				if got := balanceOf(t, b, carol, "XXX"); math.Abs(got-10) > 0.0001 {
					t.Errorf("carol XXX = %v, want 10 kept unconverted", got)
				}
				if len(b.Undistributed) != 1 || b.Undistributed[0].CurrencyCode != "USD" ||
					math.Abs(b.Undistributed[0].Value.InexactFloat64()-2) > 0.0001 {
					t.Errorf("undistributed = %v, want [2 USD]", b.Undistributed)
				}
			},
		},
		{
			name:     "between two non-base currencies",
			target:   "GEL",
			wantGaps: []string{"XXX"},
			validateFunc: func(t *testing.T, b models.Balance) {
				// alice: -30 EUR * 2.5 / 0.5 = -150 GEL, 20 USD = 50 GEL
				if got := balanceOf(t, b, alice, "GEL"); math.Abs(got+100) > 0.0001 {
					t.Errorf("alice GEL = %v, want -100", got)
				}
				pb, _ := b.Of(alice)
				if len(pb.Amounts) != 1 {
					t.Errorf("alice amounts = %v, want a single GEL entry", pb.Amounts)
				}
			},
		},
		{
			name:     "target without rate keeps everything",
			target:   "BAD",
			wantGaps: []string{"EUR", "GEL", "USD", "XXX"},
			validateFunc: func(t *testing.T, b models.Balance) {
				if got := balanceOf(t, b, alice, "EUR"); math.Abs(got+30) > 0.0001 {
					t.Errorf("alice EUR = %v, want -30", got)
				}
				if got := balanceOf(t, b, alice, "USD"); math.Abs(got-20) > 0.0001 {
					t.Errorf("alice USD = %v, want 20", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeCurrency(balance, rates, tt.target)
			var gapErr *ConversionGapError
			if !errors.As(err, &gapErr) {
				t.Fatalf("NormalizeCurrency() error = %v, want *ConversionGapError", err)
			}
			if !errors.Is(err, ErrCurrencyConversionGap) {
				t.Errorf("error %v does not wrap ErrCurrencyConversionGap", err)
			}
			if len(gapErr.Currencies) != len(tt.wantGaps) {
				t.Fatalf("gaps = %v, want %v", gapErr.Currencies, tt.wantGaps)
			}
			for i := range tt.wantGaps {
				if gapErr.Currencies[i] != tt.wantGaps[i] {
					t.Errorf("gaps = %v, want %v", gapErr.Currencies, tt.wantGaps)
					break
				}
			}
			tt.validateFunc(t, got)
		})
	}
}

func TestNormalizeCurrencyWithoutGaps(t *testing.T) {
	rates := models.FxRates{Base: "EUR", Rates: map[string]float64{"USD": 1.25}}
	balance := models.Balance{
		ParticipantsBalance: []models.ParticipantBalance{
			{Participant: alice, Amounts: []models.Amount{models.NewAmount(25, "USD")}},
			{Participant: bob, Amounts: []models.Amount{models.NewAmount(-20, "EUR"), models.NewAmount(-25, "USD")}},
			{Participant: carol, Amounts: []models.Amount{models.NewAmount(20, "EUR")}},
		},
	}

	got, err := NormalizeCurrency(balance, rates, "EUR")
	if err != nil {
		t.Fatalf("NormalizeCurrency() error = %v", err)
	}
	if v := balanceOf(t, got, alice, "EUR"); math.Abs(v-20) > 0.0001 {
		t.Errorf("alice EUR = %v, want 20", v)
	}
	if v := balanceOf(t, got, bob, "EUR"); math.Abs(v+40) > 0.0001 {
		t.Errorf("bob EUR = %v, want -40", v)
	}
	if err := CheckBalance(got); err != nil {
		t.Errorf("normalized balance fails CheckBalance: %v", err)
	}
}
