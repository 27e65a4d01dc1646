package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/wesplit/internal/models"
	"github.com/mmynk/wesplit/internal/storage"
)

const expenseColumns = `e.id, e.group_id, e.title, e.payer_id, p.name, p.user_id,
	e.total, e.currency, e.undistributed, e.split_type, e.expense_type, e.status,
	e.category, e.spent_at, e.created_at, e.updated_at`

// CreateExpense persists a new expense with its shares.
func (s *SQLStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if expense.CreatedAt == 0 {
		expense.CreatedAt = now
	}
	expense.UpdatedAt = now
	if expense.Date.IsZero() {
		expense.Date = time.Unix(now, 0).UTC()
	}
	if expense.Status == "" {
		expense.Status = models.ExpenseStatusNew
	}
	if expense.Type == "" {
		expense.Type = models.ExpenseTypeExpense
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := s.exec(ctx, tx,
			`INSERT INTO expenses (id, group_id, title, payer_id, total, currency, undistributed,
			 split_type, expense_type, status, category, spent_at, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			expense.ID, expense.GroupID, expense.Title, expense.PayedBy.ID,
			expense.TotalAmount.Value, expense.TotalAmount.CurrencyCode, undistributedValue(expense),
			string(expense.SplitType), string(expense.Type), string(expense.Status), string(expense.Category),
			expense.Date.Unix(), expense.CreatedAt, expense.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}
		if err := s.insertShares(ctx, tx, expense); err != nil {
			return err
		}
		return s.bumpRevision(ctx, tx, expense.GroupID)
	})
}

// GetExpense retrieves an expense by ID, including its shares.
func (s *SQLStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	row := s.queryRow(ctx, s.db,
		"SELECT "+expenseColumns+" FROM expenses e JOIN participants p ON p.id = e.payer_id WHERE e.id = ?",
		expenseID,
	)
	expense, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	shares, err := s.shares(ctx, "s.expense_id = ?", expenseID)
	if err != nil {
		return nil, err
	}
	expense.Shares = shares[expense.ID]
	return expense, nil
}

// ListExpenses returns the group's expenses, most recent first.
func (s *SQLStore) ListExpenses(ctx context.Context, groupID string, status models.ExpenseStatus) ([]*models.Expense, error) {
	query := "SELECT " + expenseColumns + " FROM expenses e JOIN participants p ON p.id = e.payer_id WHERE e.group_id = ?"
	args := []any{groupID}
	if status != "" {
		query += " AND e.status = ?"
		args = append(args, string(status))
	}
	query += " ORDER BY e.spent_at DESC, e.created_at DESC, e.id"

	rows, err := s.query(ctx, s.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	rows.Close()

	if len(expenses) == 0 {
		return expenses, nil
	}

	shares, err := s.shares(ctx, "e.group_id = ?", groupID)
	if err != nil {
		return nil, err
	}
	for _, e := range expenses {
		e.Shares = shares[e.ID]
	}
	return expenses, nil
}

// UpdateExpense replaces an expense and its shares. The group of an expense
// never changes.
func (s *SQLStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	expense.UpdatedAt = time.Now().Unix()

	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := s.exec(ctx, tx,
			`UPDATE expenses SET title = ?, payer_id = ?, total = ?, currency = ?, undistributed = ?,
			 split_type = ?, expense_type = ?, status = ?, category = ?, spent_at = ?, updated_at = ?
			 WHERE id = ? AND group_id = ?`,
			expense.Title, expense.PayedBy.ID, expense.TotalAmount.Value, expense.TotalAmount.CurrencyCode,
			undistributedValue(expense), string(expense.SplitType), string(expense.Type), string(expense.Status),
			string(expense.Category), expense.Date.Unix(), expense.UpdatedAt,
			expense.ID, expense.GroupID,
		)
		if err != nil {
			return fmt.Errorf("failed to update expense: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("expense %s: %w", expense.ID, storage.ErrNotFound)
		}

		if _, err := s.exec(ctx, tx, "DELETE FROM shares WHERE expense_id = ?", expense.ID); err != nil {
			return fmt.Errorf("failed to delete shares: %w", err)
		}
		if err := s.insertShares(ctx, tx, expense); err != nil {
			return err
		}
		return s.bumpRevision(ctx, tx, expense.GroupID)
	})
}

// DeleteExpense removes an expense; its shares cascade.
func (s *SQLStore) DeleteExpense(ctx context.Context, expenseID string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		var groupID string
		err := s.queryRow(ctx, tx, "SELECT group_id FROM expenses WHERE id = ?", expenseID).Scan(&groupID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to get expense: %w", err)
		}

		if _, err := s.exec(ctx, tx, "DELETE FROM expenses WHERE id = ?", expenseID); err != nil {
			return fmt.Errorf("failed to delete expense: %w", err)
		}
		return s.bumpRevision(ctx, tx, groupID)
	})
}

// SettleExpenses marks all NEW expenses of a group SETTLED.
func (s *SQLStore) SettleExpenses(ctx context.Context, groupID string) (int, error) {
	var settled int
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := s.exec(ctx, tx,
			"UPDATE expenses SET status = ?, updated_at = ? WHERE group_id = ? AND status = ?",
			string(models.ExpenseStatusSettled), time.Now().Unix(), groupID, string(models.ExpenseStatusNew),
		)
		if err != nil {
			return fmt.Errorf("failed to settle expenses: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to count settled expenses: %w", err)
		}
		settled = int(n)
		if settled == 0 {
			return nil
		}
		return s.bumpRevision(ctx, tx, groupID)
	})
	return settled, err
}

func (s *SQLStore) insertShares(ctx context.Context, tx *sql.Tx, expense *models.Expense) error {
	for i, share := range expense.Shares {
		_, err := s.exec(ctx, tx,
			"INSERT INTO shares (expense_id, participant_id, sort_order, amount, weight) VALUES (?, ?, ?, ?, ?)",
			expense.ID, share.Participant.ID, i, share.Amount.Value, share.Weight,
		)
		if err != nil {
			return fmt.Errorf("failed to insert share: %w", err)
		}
	}
	return nil
}

// shares loads shares matching the filter, grouped by expense ID and in order.
func (s *SQLStore) shares(ctx context.Context, filter string, args ...any) (map[string][]models.Share, error) {
	rows, err := s.query(ctx, s.db,
		`SELECT s.expense_id, s.amount, s.weight, e.currency, p.id, p.name, p.user_id
		 FROM shares s
		 JOIN expenses e ON e.id = s.expense_id
		 JOIN participants p ON p.id = s.participant_id
		 WHERE `+filter+`
		 ORDER BY s.expense_id, s.sort_order`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get shares: %w", err)
	}
	defer rows.Close()

	shares := make(map[string][]models.Share)
	for rows.Next() {
		var (
			expenseID string
			share     models.Share
		)
		err := rows.Scan(&expenseID, &share.Amount.Value, &share.Weight, &share.Amount.CurrencyCode,
			&share.Participant.ID, &share.Participant.Name, &share.Participant.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		shares[expenseID] = append(shares[expenseID], share)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}
	return shares, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	var (
		e                      models.Expense
		undistributed          decimal.NullDecimal
		splitType, expenseType string
		status, category       string
		spentAt                int64
	)
	err := row.Scan(&e.ID, &e.GroupID, &e.Title, &e.PayedBy.ID, &e.PayedBy.Name, &e.PayedBy.UserID,
		&e.TotalAmount.Value, &e.TotalAmount.CurrencyCode, &undistributed, &splitType, &expenseType, &status,
		&category, &spentAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}

	e.SplitType = models.SplitType(splitType)
	e.Type = models.ExpenseType(expenseType)
	e.Status = models.ExpenseStatus(status)
	e.Category = models.ParseCategory(category)
	e.Date = time.Unix(spentAt, 0).UTC()
	if undistributed.Valid && !undistributed.Decimal.IsZero() {
		e.UndistributedAmount = &models.Amount{Value: undistributed.Decimal, CurrencyCode: e.TotalAmount.CurrencyCode}
	}
	return &e, nil
}

func undistributedValue(e *models.Expense) decimal.NullDecimal {
	if e.UndistributedAmount == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: e.UndistributedAmount.Value, Valid: true}
}
