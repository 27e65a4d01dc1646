package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/wesplit/internal/models"
	"github.com/mmynk/wesplit/internal/storage"
)

// CreateGroup persists a new group with its participants.
func (s *SQLStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}
	if group.Title == "" {
		group.Title = generateTitle(group.Participants)
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := s.exec(ctx, tx,
			"INSERT INTO expense_groups (id, title, image_url, created_at, revision) VALUES (?, ?, ?, ?, ?)",
			group.ID, group.Title, group.ImageURL, group.CreatedAt, group.Revision,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group: %w", err)
		}

		for i := range group.Participants {
			p := &group.Participants[i]
			if p.ID == "" {
				p.ID = uuid.New().String()
			}
			_, err = s.exec(ctx, tx,
				"INSERT INTO participants (id, group_id, name, user_id, sort_order) VALUES (?, ?, ?, ?, ?)",
				p.ID, group.ID, p.Name, p.UserID, i,
			)
			if err != nil {
				return fmt.Errorf("failed to insert participant: %w", err)
			}
		}
		return nil
	})
}

// GetGroup retrieves a group by ID, including its participants.
func (s *SQLStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	err := s.queryRow(ctx, s.db,
		"SELECT id, title, image_url, created_at, revision FROM expense_groups WHERE id = ?",
		groupID,
	).Scan(&group.ID, &group.Title, &group.ImageURL, &group.CreatedAt, &group.Revision)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	participants, err := s.participants(ctx, s.db, groupID)
	if err != nil {
		return nil, err
	}
	group.Participants = participants
	return group, nil
}

// ListGroups returns the groups a user takes part in, newest first.
func (s *SQLStore) ListGroups(ctx context.Context, userID string) ([]*models.Group, error) {
	rows, err := s.query(ctx, s.db,
		`SELECT g.id, g.title, g.image_url, g.created_at, g.revision
		 FROM expense_groups g
		 WHERE EXISTS (SELECT 1 FROM participants p WHERE p.group_id = g.id AND p.user_id = ?)
		 ORDER BY g.created_at DESC, g.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		g := &models.Group{}
		if err := rows.Scan(&g.ID, &g.Title, &g.ImageURL, &g.CreatedAt, &g.Revision); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	rows.Close()

	for _, g := range groups {
		if g.Participants, err = s.participants(ctx, s.db, g.ID); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// UpdateGroup replaces the group's title, image and participants.
// Existing participants are matched by ID; new ones get an ID.
func (s *SQLStore) UpdateGroup(ctx context.Context, group *models.Group) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := s.exec(ctx, tx,
			"UPDATE expense_groups SET title = ?, image_url = ? WHERE id = ?",
			group.Title, group.ImageURL, group.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update group: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("group %s: %w", group.ID, storage.ErrNotFound)
		}

		current, err := s.participants(ctx, tx, group.ID)
		if err != nil {
			return err
		}
		keep := make(map[string]bool, len(group.Participants))
		for i := range group.Participants {
			p := &group.Participants[i]
			if p.ID == "" {
				p.ID = uuid.New().String()
			}
			keep[p.ID] = true
		}

		for _, p := range current {
			if keep[p.ID] {
				continue
			}
			var refs int
			err := s.queryRow(ctx, tx,
				`SELECT (SELECT COUNT(*) FROM shares WHERE participant_id = ?) +
				        (SELECT COUNT(*) FROM expenses WHERE payer_id = ?)`,
				p.ID, p.ID,
			).Scan(&refs)
			if err != nil {
				return fmt.Errorf("failed to check participant references: %w", err)
			}
			if refs > 0 {
				return fmt.Errorf("participant %s: %w", p.Name, storage.ErrParticipantInUse)
			}
			if _, err := s.exec(ctx, tx, "DELETE FROM participants WHERE id = ?", p.ID); err != nil {
				return fmt.Errorf("failed to delete participant: %w", err)
			}
		}

		existing := make(map[string]bool, len(current))
		for _, p := range current {
			existing[p.ID] = true
		}
		for i, p := range group.Participants {
			if existing[p.ID] {
				_, err = s.exec(ctx, tx,
					"UPDATE participants SET name = ?, user_id = ?, sort_order = ? WHERE id = ? AND group_id = ?",
					p.Name, p.UserID, i, p.ID, group.ID,
				)
			} else {
				_, err = s.exec(ctx, tx,
					"INSERT INTO participants (id, group_id, name, user_id, sort_order) VALUES (?, ?, ?, ?, ?)",
					p.ID, group.ID, p.Name, p.UserID, i,
				)
			}
			if err != nil {
				return fmt.Errorf("failed to save participant: %w", err)
			}
		}
		// Balances carry participant details, so they are stale too.
		return s.bumpRevision(ctx, tx, group.ID)
	})
}

// DeleteGroup removes a group; participants and expenses cascade.
func (s *SQLStore) DeleteGroup(ctx context.Context, groupID string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		// Shares reference participants without cascading, so expenses go first.
		if _, err := s.exec(ctx, tx, "DELETE FROM expenses WHERE group_id = ?", groupID); err != nil {
			return fmt.Errorf("failed to delete group expenses: %w", err)
		}
		res, err := s.exec(ctx, tx, "DELETE FROM expense_groups WHERE id = ?", groupID)
		if err != nil {
			return fmt.Errorf("failed to delete group: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
		}
		return nil
	})
}

func (s *SQLStore) participants(ctx context.Context, q queryer, groupID string) ([]models.Participant, error) {
	rows, err := s.query(ctx, q,
		"SELECT id, name, user_id FROM participants WHERE group_id = ? ORDER BY sort_order, id",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.Name, &p.UserID); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}

// bumpRevision increments the group revision, invalidating cached balances.
func (s *SQLStore) bumpRevision(ctx context.Context, tx *sql.Tx, groupID string) error {
	res, err := s.exec(ctx, tx, "UPDATE expense_groups SET revision = revision + 1 WHERE id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to bump group revision: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	return nil
}

// generateTitle creates an auto-generated title from participants.
func generateTitle(participants []models.Participant) string {
	names := make([]string, 0, len(participants))
	for _, p := range participants {
		names = append(names, p.Name)
	}
	if len(names) == 0 {
		return fmt.Sprintf("Group - %s", time.Now().Format("Jan 2, 2006"))
	}
	if len(names) <= 3 {
		return fmt.Sprintf("Split with %s", strings.Join(names, ", "))
	}
	return fmt.Sprintf("Split with %s and %d others",
		strings.Join(names[:2], ", "),
		len(names)-2,
	)
}
