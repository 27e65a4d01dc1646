package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/wesplit/internal/calculator"
	"github.com/mmynk/wesplit/internal/models"
	"github.com/mmynk/wesplit/internal/storage"
	"github.com/mmynk/wesplit/pkg/api"
)

// ExpenseService implements the Connect ExpenseService.
type ExpenseService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store, logger *slog.Logger) *ExpenseService {
	return &ExpenseService{store: store, logger: logger}
}

// CreateExpense splits and stores a new expense.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	s.logger.Info("CreateExpense request received",
		"group_id", req.Msg.GroupID,
		"title", req.Msg.Expense.Title,
		"split_type", req.Msg.Expense.SplitType,
	)

	group, err := memberGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("CreateExpense failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	draft, err := draftExpense(group, req.Msg.Expense)
	if err != nil {
		return nil, toConnectError(err)
	}
	expense, err := redistribute(draft, nil)
	if err != nil {
		s.logger.Warn("CreateExpense rejected", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	if err := s.store.CreateExpense(ctx, &expense); err != nil {
		s.logger.Error("CreateExpense failed", "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Expense created",
		"expense_id", expense.ID,
		"group_id", group.ID,
		"total", expense.TotalAmount.String(),
	)

	return connect.NewResponse(&api.CreateExpenseResponse{Expense: expenseWithMe(expense, caller(ctx).ID)}), nil
}

// GetExpense retrieves an expense by ID.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	s.logger.Info("GetExpense request received", "expense_id", req.Msg.ExpenseID)

	expense, _, err := s.memberExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		s.logger.Error("GetExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetExpenseResponse{Expense: expenseWithMe(*expense, caller(ctx).ID)}), nil
}

// ListExpenses returns a group's expenses, optionally filtered by status.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	s.logger.Info("ListExpenses request received", "group_id", req.Msg.GroupID, "status", req.Msg.Status)

	switch req.Msg.Status {
	case "", models.ExpenseStatusNew, models.ExpenseStatusSettled:
	default:
		return nil, toConnectError(invalidf("unknown status %q", req.Msg.Status))
	}

	group, err := memberGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("ListExpenses failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	expenses, err := s.store.ListExpenses(ctx, group.ID, req.Msg.Status)
	if err != nil {
		s.logger.Error("ListExpenses failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	userID := caller(ctx).ID
	out := make([]models.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = expenseWithMe(*e, userID)
	}

	s.logger.Info("ListExpenses successful", "group_id", group.ID, "count", len(out))

	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// UpdateExpense replaces an expense and redistributes its shares. With an
// action, the action is applied to the stored split.
func (s *ExpenseService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	s.logger.Info("UpdateExpense request received",
		"expense_id", req.Msg.ExpenseID,
		"has_action", req.Msg.Action != nil,
	)

	stored, group, err := s.memberExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		s.logger.Error("UpdateExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, toConnectError(err)
	}

	draft, err := draftExpense(group, req.Msg.Expense)
	if err != nil {
		return nil, toConnectError(err)
	}
	action, err := splitAction(group, req.Msg.Action)
	if err != nil {
		return nil, toConnectError(err)
	}
	if action != nil {
		draft.Shares = stored.Shares
		draft.SplitType = stored.SplitType
	}

	expense, err := redistribute(draft, action)
	if err != nil {
		s.logger.Warn("UpdateExpense rejected", "expense_id", stored.ID, "error", err)
		return nil, toConnectError(err)
	}
	expense.ID = stored.ID
	expense.Status = stored.Status
	expense.CreatedAt = stored.CreatedAt
	if expense.Date.IsZero() {
		expense.Date = stored.Date
	}

	if err := s.store.UpdateExpense(ctx, &expense); err != nil {
		s.logger.Error("UpdateExpense failed", "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Expense updated", "expense_id", expense.ID, "split_type", expense.SplitType)

	return connect.NewResponse(&api.UpdateExpenseResponse{Expense: expenseWithMe(expense, caller(ctx).ID)}), nil
}

// DeleteExpense removes an expense by ID.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	s.logger.Info("DeleteExpense request received", "expense_id", req.Msg.ExpenseID)

	if _, _, err := s.memberExpense(ctx, req.Msg.ExpenseID); err != nil {
		s.logger.Error("DeleteExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, toConnectError(err)
	}
	if err := s.store.DeleteExpense(ctx, req.Msg.ExpenseID); err != nil {
		s.logger.Error("DeleteExpense failed", "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Expense deleted", "expense_id", req.Msg.ExpenseID)

	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

// PreviewSplit computes the split of a draft expense, after an optional
// action, without storing anything.
func (s *ExpenseService) PreviewSplit(ctx context.Context, req *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error) {
	s.logger.Debug("PreviewSplit request received", "group_id", req.Msg.GroupID)

	group, err := memberGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	draft, err := draftExpense(group, req.Msg.Expense)
	if err != nil {
		return nil, toConnectError(err)
	}
	action, err := splitAction(group, req.Msg.Action)
	if err != nil {
		return nil, toConnectError(err)
	}

	// Bring the draft to a consistent state first so the action edits
	// real amounts. Amounts over the total are shown, not rejected, so the
	// client can display the difference.
	expense, err := calculator.Redistribute(draft, nil)
	if err == nil && action != nil {
		expense, err = calculator.Redistribute(expense, action)
	}
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.PreviewSplitResponse{Expense: expenseWithMe(expense, caller(ctx).ID)}), nil
}

// SettleAll marks every NEW expense of the group as SETTLED.
func (s *ExpenseService) SettleAll(ctx context.Context, req *connect.Request[api.SettleAllRequest]) (*connect.Response[api.SettleAllResponse], error) {
	s.logger.Info("SettleAll request received", "group_id", req.Msg.GroupID)

	group, err := memberGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("SettleAll failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	settled, err := s.store.SettleExpenses(ctx, group.ID)
	if err != nil {
		s.logger.Error("SettleAll failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Group settled", "group_id", group.ID, "expenses", settled)

	return connect.NewResponse(&api.SettleAllResponse{Settled: settled}), nil
}

// RecordSettlement stores a payment between two participants.
func (s *ExpenseService) RecordSettlement(ctx context.Context, req *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error) {
	s.logger.Info("RecordSettlement request received",
		"group_id", req.Msg.GroupID,
		"payer_id", req.Msg.PayerID,
		"recipient_id", req.Msg.RecipientID,
		"amount", req.Msg.Amount.String(),
	)

	group, err := memberGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("RecordSettlement failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	payer, ok := group.Participant(req.Msg.PayerID)
	if !ok {
		return nil, toConnectError(invalidf("payer %q is not in the group", req.Msg.PayerID))
	}
	recipient, ok := group.Participant(req.Msg.RecipientID)
	if !ok {
		return nil, toConnectError(invalidf("recipient %q is not in the group", req.Msg.RecipientID))
	}
	if payer.Same(recipient) {
		return nil, toConnectError(invalidf("payer and recipient must differ"))
	}
	amount := models.Amount{
		Value:        req.Msg.Amount.Value,
		CurrencyCode: strings.ToUpper(strings.TrimSpace(req.Msg.Amount.CurrencyCode)),
	}
	if !amount.Value.IsPositive() || len(amount.CurrencyCode) != 3 {
		return nil, toConnectError(invalidf("invalid amount %s", req.Msg.Amount))
	}

	expense := settlementExpense(group, payer, recipient, amount)
	if err := s.store.CreateExpense(ctx, &expense); err != nil {
		s.logger.Error("RecordSettlement failed", "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Settlement recorded", "expense_id", expense.ID, "group_id", group.ID)

	return connect.NewResponse(&api.RecordSettlementResponse{Expense: expenseWithMe(expense, caller(ctx).ID)}), nil
}

// memberExpense loads an expense of a group the caller belongs to.
func (s *ExpenseService) memberExpense(ctx context.Context, expenseID string) (*models.Expense, *models.Group, error) {
	if expenseID == "" {
		return nil, nil, invalidf("expense_id required")
	}
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, nil, err
	}
	group, err := memberGroup(ctx, s.store, expense.GroupID)
	if err != nil {
		return nil, nil, err
	}
	return expense, group, nil
}
