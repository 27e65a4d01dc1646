package fx

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmynk/wesplit/internal/metrics"
)

// Refresher periodically pulls rates from a Source into the Provider.
type Refresher struct {
	source   Source
	provider *Provider
	interval time.Duration
	logger   *slog.Logger
}

// NewRefresher creates a refresher running every interval.
func NewRefresher(source Source, provider *Provider, interval time.Duration, logger *slog.Logger) *Refresher {
	return &Refresher{source: source, provider: provider, interval: interval, logger: logger}
}

// Start runs the refresh loop. It blocks until the context is cancelled.
func (r *Refresher) Start(ctx context.Context) {
	r.logger.Info("FX refresher started", "interval", r.interval)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	// Refresh immediately on start, then on ticker
	r.Refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("FX refresher shutting down")
			return
		case <-ticker.C:
			r.Refresh(ctx)
		}
	}
}

// Refresh fetches and stores one snapshot. Failures are logged and counted;
// the previous snapshot stays in use.
func (r *Refresher) Refresh(ctx context.Context) bool {
	rates, err := r.source.Fetch(ctx)
	if err != nil {
		if ctx.Err() == nil {
			r.logger.Error("Failed to fetch FX rates", "error", err)
			metrics.FxRefreshes.WithLabelValues("error").Inc()
		}
		return false
	}

	if _, err := r.provider.Update(ctx, rates); err != nil {
		r.logger.Error("Failed to store FX rates", "error", err)
		metrics.FxRefreshes.WithLabelValues("error").Inc()
		return false
	}
	metrics.FxRefreshes.WithLabelValues("ok").Inc()
	return true
}
