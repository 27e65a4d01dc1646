package calculator

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrInvalidSplit is returned when an expense cannot be distributed
	// because no participant is included in the split.
	ErrInvalidSplit = errors.New("invalid split")

	// ErrCurrencyConversionGap is reported when some amounts could not be
	// converted for lack of an FX rate. It is a warning, not a failure.
	ErrCurrencyConversionGap = errors.New("currency conversion gap")

	// ErrBalanceInvariant is returned when a balance does not sum to zero.
	ErrBalanceInvariant = errors.New("balance invariant violated")
)

// InvalidSplitError describes why a redistribution was rejected.
type InvalidSplitError struct {
	SplitType string
	Reason    string
}

func (e *InvalidSplitError) Error() string {
	return fmt.Sprintf("invalid %s split: %s", strings.ToLower(e.SplitType), e.Reason)
}

func (e *InvalidSplitError) Unwrap() error { return ErrInvalidSplit }

// ConversionGapError lists the currencies left unconverted by NormalizeCurrency.
type ConversionGapError struct {
	Target     string
	Currencies []string
}

func (e *ConversionGapError) Error() string {
	return fmt.Sprintf("no fx rate to convert %s into %s", strings.Join(e.Currencies, ", "), e.Target)
}

func (e *ConversionGapError) Unwrap() error { return ErrCurrencyConversionGap }

// BalanceInvariantError carries the per-currency residue of a balance whose
// participant total does not match its undistributed pool.
type BalanceInvariantError struct {
	// Residue maps currency code to sum(participants) - sum(undistributed).
	Residue map[string]string
}

func (e *BalanceInvariantError) Error() string {
	codes := make([]string, 0, len(e.Residue))
	for code := range e.Residue {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	parts := make([]string, len(codes))
	for i, code := range codes {
		parts[i] = code + " " + e.Residue[code]
	}
	return "balance does not sum to zero: " + strings.Join(parts, ", ")
}

func (e *BalanceInvariantError) Unwrap() error { return ErrBalanceInvariant }
