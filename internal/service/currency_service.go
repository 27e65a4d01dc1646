package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"connectrpc.com/connect"

	"github.com/mmynk/wesplit/internal/fx"
	"github.com/mmynk/wesplit/internal/storage"
	"github.com/mmynk/wesplit/pkg/api"
)

// CurrencyService implements the Connect CurrencyService.
type CurrencyService struct {
	store  storage.Store
	rates  *fx.Provider
	logger *slog.Logger
}

// NewCurrencyService creates a CurrencyService.
func NewCurrencyService(store storage.Store, rates *fx.Provider, logger *slog.Logger) *CurrencyService {
	return &CurrencyService{store: store, rates: rates, logger: logger}
}

// GetFxRates returns the latest exchange rate snapshot.
func (s *CurrencyService) GetFxRates(ctx context.Context, req *connect.Request[api.GetFxRatesRequest]) (*connect.Response[api.GetFxRatesResponse], error) {
	s.logger.Info("GetFxRates request received")

	rates, err := s.rates.Rates(ctx)
	if err != nil {
		s.logger.Error("GetFxRates failed", "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetFxRatesResponse{Rates: rates}), nil
}

// UpdateFxRates stores a new snapshot.
func (s *CurrencyService) UpdateFxRates(ctx context.Context, req *connect.Request[api.UpdateFxRatesRequest]) (*connect.Response[api.UpdateFxRatesResponse], error) {
	s.logger.Info("UpdateFxRates request received", "base", req.Msg.Rates.Base, "count", len(req.Msg.Rates.Rates))

	if _, err := fx.Normalize(req.Msg.Rates); err != nil {
		return nil, toConnectError(invalidf("%v", err))
	}
	rates, err := s.rates.Update(ctx, req.Msg.Rates)
	if err != nil {
		s.logger.Error("UpdateFxRates failed", "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.UpdateFxRatesResponse{Rates: rates}), nil
}

// ListCurrencies returns the currencies that can be converted, with the
// caller's last used currency first and the rest sorted by code.
func (s *CurrencyService) ListCurrencies(ctx context.Context, req *connect.Request[api.ListCurrenciesRequest]) (*connect.Response[api.ListCurrenciesResponse], error) {
	userID := caller(ctx).ID
	s.logger.Info("ListCurrencies request received", "user_id", userID)

	var codes []string
	rates, err := s.rates.Rates(ctx)
	switch {
	case err == nil:
		codes = append(codes, rates.Base)
		for code := range rates.Rates {
			codes = append(codes, code)
		}
		sort.Strings(codes)
	case errors.Is(err, storage.ErrNotFound):
	default:
		s.logger.Error("ListCurrencies failed", "error", err)
		return nil, toConnectError(err)
	}

	last := ""
	if user, err := s.store.GetUser(ctx, userID); err == nil {
		last = user.LastUsedCurrency
	} else if !errors.Is(err, storage.ErrNotFound) {
		s.logger.Warn("Failed to load user", "user_id", userID, "error", err)
	}

	if last != "" {
		out := []string{last}
		for _, code := range codes {
			if code != last {
				out = append(out, code)
			}
		}
		codes = out
	}

	return connect.NewResponse(&api.ListCurrenciesResponse{Currencies: codes}), nil
}
