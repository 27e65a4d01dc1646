package fx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mmynk/wesplit/internal/models"
)

// Source fetches a fresh FX snapshot.
type Source interface {
	Fetch(ctx context.Context) (models.FxRates, error)
}

// HTTPSource reads rates from a JSON endpoint shaped like
// {"base": "USD", "rates": {"EUR": 0.92}, "time_last_update_unix": 1700000000}.
// "base_code" and "conversion_rates" are accepted as aliases.
type HTTPSource struct {
	url    string
	client *http.Client
	base   string
}

// NewHTTPSource creates a source for the given URL.
func NewHTTPSource(url string, client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPSource{url: url, client: client}
}

// WithBase sets the base currency assumed when the payload names none.
func (s *HTTPSource) WithBase(base string) *HTTPSource {
	s.base = base
	return s
}

type ratesPayload struct {
	Base            string             `json:"base"`
	BaseCode        string             `json:"base_code"`
	Rates           map[string]float64 `json:"rates"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
	UpdatedUnix     int64              `json:"time_last_update_unix"`
}

// Fetch downloads and decodes the current rates.
func (s *HTTPSource) Fetch(ctx context.Context) (models.FxRates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return models.FxRates{}, fmt.Errorf("failed to build fx request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return models.FxRates{}, fmt.Errorf("failed to fetch fx rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.FxRates{}, fmt.Errorf("fx source returned %s", resp.Status)
	}

	var payload ratesPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return models.FxRates{}, fmt.Errorf("failed to decode fx rates: %w", err)
	}

	rates := models.FxRates{Base: payload.Base, Rates: payload.Rates}
	if rates.Base == "" {
		rates.Base = payload.BaseCode
	}
	if rates.Base == "" {
		rates.Base = s.base
	}
	if rates.Rates == nil {
		rates.Rates = payload.ConversionRates
	}
	if payload.UpdatedUnix > 0 {
		rates.UpdatedAt = time.Unix(payload.UpdatedUnix, 0).UTC()
	}
	return rates, nil
}
