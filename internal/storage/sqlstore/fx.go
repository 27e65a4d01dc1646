package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/wesplit/internal/models"
	"github.com/mmynk/wesplit/internal/storage"
)

// SaveFxRates stores a rate snapshot. Snapshots are keyed by their update
// time in milliseconds; saving the same instant twice replaces it.
func (s *SQLStore) SaveFxRates(ctx context.Context, rates models.FxRates) error {
	if rates.UpdatedAt.IsZero() {
		rates.UpdatedAt = time.Now()
	}
	fetchedAt := rates.UpdatedAt.UnixMilli()

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.exec(ctx, tx, "DELETE FROM fx_rates WHERE fetched_at = ?", fetchedAt); err != nil {
			return fmt.Errorf("failed to replace fx rates: %w", err)
		}
		// The base row marks the snapshot even when it carries no rates.
		if _, err := s.exec(ctx, tx,
			"INSERT INTO fx_rates (fetched_at, base, code, rate) VALUES (?, ?, ?, ?)",
			fetchedAt, rates.Base, rates.Base, 1.0,
		); err != nil {
			return fmt.Errorf("failed to insert fx base: %w", err)
		}
		for code, rate := range rates.Rates {
			if code == rates.Base {
				continue
			}
			_, err := s.exec(ctx, tx,
				"INSERT INTO fx_rates (fetched_at, base, code, rate) VALUES (?, ?, ?, ?)",
				fetchedAt, rates.Base, code, rate,
			)
			if err != nil {
				return fmt.Errorf("failed to insert fx rate: %w", err)
			}
		}
		return nil
	})
}

// LatestFxRates returns the newest snapshot.
func (s *SQLStore) LatestFxRates(ctx context.Context) (*models.FxRates, error) {
	var fetchedAt int64
	err := s.queryRow(ctx, s.db, "SELECT fetched_at FROM fx_rates ORDER BY fetched_at DESC LIMIT 1").Scan(&fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("fx rates: %w", storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest fx snapshot: %w", err)
	}

	rows, err := s.query(ctx, s.db, "SELECT base, code, rate FROM fx_rates WHERE fetched_at = ?", fetchedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get fx rates: %w", err)
	}
	defer rows.Close()

	rates := &models.FxRates{Rates: make(map[string]float64), UpdatedAt: time.UnixMilli(fetchedAt).UTC()}
	for rows.Next() {
		var (
			code string
			rate float64
		)
		if err := rows.Scan(&rates.Base, &code, &rate); err != nil {
			return nil, fmt.Errorf("failed to scan fx rate: %w", err)
		}
		if code != rates.Base {
			rates.Rates[code] = rate
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate fx rates: %w", err)
	}
	return rates, nil
}
