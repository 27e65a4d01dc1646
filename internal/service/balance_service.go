package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/wesplit/internal/cache"
	"github.com/mmynk/wesplit/internal/calculator"
	"github.com/mmynk/wesplit/internal/fx"
	"github.com/mmynk/wesplit/internal/metrics"
	"github.com/mmynk/wesplit/internal/models"
	"github.com/mmynk/wesplit/internal/storage"
	"github.com/mmynk/wesplit/pkg/api"
)

// BalanceService implements the Connect BalanceService.
type BalanceService struct {
	store  storage.Store
	cache  *cache.Cache
	rates  *fx.Provider
	logger *slog.Logger
}

// NewBalanceService creates a BalanceService. cache may be nil.
func NewBalanceService(store storage.Store, cache *cache.Cache, rates *fx.Provider, logger *slog.Logger) *BalanceService {
	return &BalanceService{store: store, cache: cache, rates: rates, logger: logger}
}

// GetBalance computes who owes whom in a group.
//
// Algorithm:
//   - Aggregate the group's NEW expenses (cached per group revision)
//   - Check the zero-sum invariant; an invalid balance gets no suggestions
//   - Convert to the requested currency, or the caller's last used one,
//     reporting currencies without a rate as warnings
//   - Suggest settlements on the converted balance
func (s *BalanceService) GetBalance(ctx context.Context, req *connect.Request[api.GetBalanceRequest]) (*connect.Response[api.GetBalanceResponse], error) {
	s.logger.Info("GetBalance request received", "group_id", req.Msg.GroupID, "currency", req.Msg.Currency)

	group, err := memberGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("GetBalance failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	balance, err := s.groupBalance(ctx, group)
	if err != nil {
		s.logger.Error("GetBalance failed - could not aggregate", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	if err := calculator.CheckBalance(balance); err != nil {
		s.logger.Warn("Group balance is inconsistent", "group_id", group.ID, "error", err)
		metrics.InvalidBalances.Inc()
		balance.Invalid = true
	}

	resp := &api.GetBalanceResponse{}
	currency := s.displayCurrency(ctx, req.Msg.Currency)
	if currency != "" {
		resp.Currency = currency
		balance, resp.Warnings = s.normalize(ctx, balance, currency)
	}

	var suggestions []models.SettleSuggestion
	if !balance.Invalid {
		suggestions = calculator.SuggestSettlements(balance)
	}

	userID := caller(ctx).ID
	resp.Balance = balanceWithMe(balance, userID)
	resp.Suggestions = suggestionsWithMe(suggestions, userID)

	s.logger.Info("GetBalance successful",
		"group_id", group.ID,
		"participants_count", len(balance.ParticipantsBalance),
		"suggestions_count", len(suggestions),
		"invalid", balance.Invalid,
	)

	return connect.NewResponse(resp), nil
}

// groupBalance returns the aggregated balance of the group's NEW expenses.
func (s *BalanceService) groupBalance(ctx context.Context, group *models.Group) (models.Balance, error) {
	cached, ok, err := s.cache.Balance(ctx, group.ID, group.Revision)
	if err != nil {
		s.logger.Warn("Balance cache read failed", "group_id", group.ID, "error", err)
	}
	if ok {
		metrics.BalanceComputations.WithLabelValues("cache").Inc()
		return *cached, nil
	}

	stored, err := s.store.ListExpenses(ctx, group.ID, models.ExpenseStatusNew)
	if err != nil {
		return models.Balance{}, err
	}
	expenses := make([]models.Expense, len(stored))
	for i, e := range stored {
		expenses[i] = *e
	}

	balance := calculator.AggregateBalance(*group, expenses)
	metrics.BalanceComputations.WithLabelValues("computed").Inc()
	if err := s.cache.SetBalance(ctx, group.ID, group.Revision, balance); err != nil {
		s.logger.Warn("Balance cache write failed", "group_id", group.ID, "error", err)
	}
	return balance, nil
}

// displayCurrency resolves the target currency. An explicit choice is
// remembered as the caller's last used currency.
func (s *BalanceService) displayCurrency(ctx context.Context, requested string) string {
	userID := caller(ctx).ID
	requested = strings.ToUpper(strings.TrimSpace(requested))

	if requested != "" {
		if err := s.store.SetLastUsedCurrency(ctx, userID, requested); err != nil {
			s.logger.Warn("Failed to remember currency", "user_id", userID, "error", err)
		}
		return requested
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("Failed to load user", "user_id", userID, "error", err)
		}
		return ""
	}
	return user.LastUsedCurrency
}

// normalize converts the balance to currency. Missing rates never fail the
// request; they come back as warnings with the amounts left unconverted.
func (s *BalanceService) normalize(ctx context.Context, balance models.Balance, currency string) (models.Balance, []string) {
	rates, err := s.rates.Rates(ctx)
	if err != nil {
		s.logger.Warn("FX rates unavailable", "error", err)
		return balance, []string{"exchange rates are not available; amounts are shown in their own currencies"}
	}

	normalized, err := calculator.NormalizeCurrency(balance, rates, currency)
	var gap *calculator.ConversionGapError
	if errors.As(err, &gap) {
		metrics.ConversionGaps.Inc()
		s.logger.Warn("Currency conversion gap", "target", gap.Target, "currencies", gap.Currencies)
		return normalized, []string{gap.Error()}
	}
	return normalized, nil
}
