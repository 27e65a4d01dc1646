// Package fx provides exchange rates: the latest stored snapshot, read
// through the cache, and a worker that refreshes it from an HTTP source.
package fx

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mmynk/wesplit/internal/cache"
	"github.com/mmynk/wesplit/internal/models"
)

// RateStore persists FX snapshots. storage.Store satisfies it.
type RateStore interface {
	SaveFxRates(ctx context.Context, rates models.FxRates) error
	LatestFxRates(ctx context.Context) (*models.FxRates, error)
}

// Provider serves the current FX snapshot.
type Provider struct {
	store  RateStore
	cache  *cache.Cache
	logger *slog.Logger
}

// NewProvider creates a provider. cache may be nil.
func NewProvider(store RateStore, cache *cache.Cache, logger *slog.Logger) *Provider {
	return &Provider{store: store, cache: cache, logger: logger}
}

// Rates returns the latest snapshot, preferring the cached copy.
// It returns a storage.ErrNotFound error when no snapshot was ever saved.
func (p *Provider) Rates(ctx context.Context) (models.FxRates, error) {
	cached, ok, err := p.cache.FxRates(ctx)
	if err != nil {
		p.logger.Warn("FX cache read failed", "error", err)
	}
	if ok {
		return *cached, nil
	}

	rates, err := p.store.LatestFxRates(ctx)
	if err != nil {
		return models.FxRates{}, fmt.Errorf("failed to load fx rates: %w", err)
	}
	if err := p.cache.SetFxRates(ctx, *rates); err != nil {
		p.logger.Warn("FX cache write failed", "error", err)
	}
	return *rates, nil
}

// Update validates and stores a new snapshot, then refreshes the cache.
func (p *Provider) Update(ctx context.Context, rates models.FxRates) (models.FxRates, error) {
	rates, err := Normalize(rates)
	if err != nil {
		return models.FxRates{}, err
	}
	if err := p.store.SaveFxRates(ctx, rates); err != nil {
		return models.FxRates{}, fmt.Errorf("failed to save fx rates: %w", err)
	}
	if err := p.cache.SetFxRates(ctx, rates); err != nil {
		p.logger.Warn("FX cache write failed", "error", err)
	}
	p.logger.Info("FX rates updated", "base", rates.Base, "count", len(rates.Rates))
	return rates, nil
}

// Normalize upper-cases currency codes, drops the base from the rate map
// and stamps the snapshot time. It rejects snapshots without a base or with
// non-positive rates.
func Normalize(rates models.FxRates) (models.FxRates, error) {
	base := strings.ToUpper(strings.TrimSpace(rates.Base))
	if base == "" {
		return models.FxRates{}, fmt.Errorf("fx rates need a base currency")
	}

	out := models.FxRates{Base: base, Rates: make(map[string]float64, len(rates.Rates)), UpdatedAt: rates.UpdatedAt}
	for code, rate := range rates.Rates {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == base {
			continue
		}
		if rate <= 0 {
			return models.FxRates{}, fmt.Errorf("invalid rate %v for %s", rate, code)
		}
		out.Rates[code] = rate
	}
	if out.UpdatedAt.IsZero() {
		out.UpdatedAt = time.Now().UTC()
	}
	return out, nil
}
