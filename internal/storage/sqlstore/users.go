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

// UpsertUser inserts a user on first sight and refreshes name and email
// afterwards. The last used currency is left untouched.
func (s *SQLStore) UpsertUser(ctx context.Context, user *models.User) error {
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}

	_, err := s.exec(ctx, s.db,
		`INSERT INTO users (id, name, email, last_used_currency, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET name = excluded.name, email = excluded.email`,
		user.ID, user.Name, user.Email, user.LastUsedCurrency, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *SQLStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user := &models.User{}
	err := s.queryRow(ctx, s.db,
		"SELECT id, name, email, last_used_currency, created_at FROM users WHERE id = ?",
		userID,
	).Scan(&user.ID, &user.Name, &user.Email, &user.LastUsedCurrency, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", userID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// SetLastUsedCurrency records the user's display currency, creating the
// user row if needed.
func (s *SQLStore) SetLastUsedCurrency(ctx context.Context, userID, currency string) error {
	_, err := s.exec(ctx, s.db,
		`INSERT INTO users (id, last_used_currency, created_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET last_used_currency = excluded.last_used_currency`,
		userID, currency, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to set last used currency: %w", err)
	}
	return nil
}
