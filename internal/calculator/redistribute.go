package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/wesplit/internal/models"
)

// UpdateAction is a user edit to how an expense is split.
// The variants are ShareAction, EqualAction and AmountAction; a nil action
// recomputes the split with the expense's current rule and weights.
type UpdateAction interface {
	updateAction()
}

// ShareAction sets a participant's weight in a SHARES split.
// A zero weight keeps the participant in the expense with a zero amount.
type ShareAction struct {
	Participant models.Participant
	Weight      decimal.Decimal
}

// EqualAction switches to an EQUAL split and includes or excludes a participant.
type EqualAction struct {
	Participant models.Participant
	Included    bool
}

// AmountAction switches to an AMOUNTS split and fixes a participant's amount.
type AmountAction struct {
	Participant models.Participant
	Value       decimal.Decimal
}

func (ShareAction) updateAction()  {}
func (EqualAction) updateAction()  {}
func (AmountAction) updateAction() {}

// splitEntry is one participant's input to a split: the inclusion flag (1/0)
// for EQUAL, the weight for SHARES or the fixed amount for AMOUNTS.
type splitEntry struct {
	participant models.Participant
	value       decimal.Decimal
}

type splitOptions struct {
	splitType models.SplitType
	entries   []splitEntry
}

// Redistribute returns a copy of expense whose shares, undistributed amount
// and split type are consistent with its total after applying action.
//
// The result always satisfies sum(shares) + undistributed == total.
// Amounts are truncated to the currency's minor unit and the rounding
// residue is kept as the undistributed amount.
func Redistribute(expense models.Expense, action UpdateAction) (models.Expense, error) {
	opts := currentOptions(expense)

	switch a := action.(type) {
	case nil:
	case ShareAction:
		if a.Weight.IsNegative() {
			return models.Expense{}, &InvalidSplitError{SplitType: string(models.SplitTypeShares), Reason: "weight cannot be negative"}
		}
		opts = opts.convert(models.SplitTypeShares, expense)
		opts.set(a.Participant, a.Weight)
	case EqualAction:
		opts = opts.convert(models.SplitTypeEqual, expense)
		opts.set(a.Participant, flag(a.Included))
	case AmountAction:
		if a.Value.IsNegative() {
			return models.Expense{}, &InvalidSplitError{SplitType: string(models.SplitTypeAmounts), Reason: "amount cannot be negative"}
		}
		opts = opts.convert(models.SplitTypeAmounts, expense)
		opts.set(a.Participant, a.Value)
	default:
		return models.Expense{}, fmt.Errorf("unsupported update action %T", action)
	}

	return apply(expense, opts)
}

// currentOptions reads the split inputs back from an expense. Explicit
// weights win; expenses without weights get them derived from their amounts.
func currentOptions(e models.Expense) splitOptions {
	splitType := e.SplitType
	if !splitType.Valid() {
		splitType = models.SplitTypeEqual
	}

	hasWeights := false
	allZero := true
	for _, s := range e.Shares {
		if s.Weight.IsPositive() {
			hasWeights = true
		}
		if !s.Amount.IsZero() {
			allZero = false
		}
	}

	opts := splitOptions{splitType: splitType, entries: make([]splitEntry, len(e.Shares))}
	switch splitType {
	case models.SplitTypeEqual:
		for i, s := range e.Shares {
			included := allZero || !s.Amount.IsZero()
			if hasWeights {
				included = s.Weight.IsPositive()
			}
			opts.entries[i] = splitEntry{participant: s.Participant, value: flag(included)}
		}
	case models.SplitTypeShares:
		if hasWeights {
			for i, s := range e.Shares {
				opts.entries[i] = splitEntry{participant: s.Participant, value: s.Weight}
			}
		} else {
			opts.entries = weightsFromAmounts(e.Shares)
		}
	case models.SplitTypeAmounts:
		for i, s := range e.Shares {
			opts.entries[i] = splitEntry{participant: s.Participant, value: s.Amount.Value}
		}
	}
	return opts
}

// convert translates the options into another split type.
func (o splitOptions) convert(to models.SplitType, e models.Expense) splitOptions {
	if o.splitType == to {
		return o
	}

	out := splitOptions{splitType: to, entries: make([]splitEntry, len(o.entries))}
	switch to {
	case models.SplitTypeEqual:
		for i, entry := range o.entries {
			out.entries[i] = splitEntry{participant: entry.participant, value: decimal.NewFromInt(1)}
		}
	case models.SplitTypeShares:
		if o.splitType == models.SplitTypeEqual {
			copy(out.entries, o.entries)
		} else {
			out.entries = weightsFromAmounts(e.Shares)
		}
	case models.SplitTypeAmounts:
		for i, s := range e.Shares {
			out.entries[i] = splitEntry{participant: s.Participant, value: s.Amount.Value}
		}
	}
	return out
}

func (o *splitOptions) set(p models.Participant, value decimal.Decimal) {
	for i := range o.entries {
		if o.entries[i].participant.Same(p) {
			o.entries[i].value = value
			return
		}
	}
	o.entries = append(o.entries, splitEntry{participant: p, value: value})
}

// weightsFromAmounts expresses every amount as a multiple of the smallest
// nonzero amount. Zero amounts keep weight 0; if every amount is zero all
// participants get weight 1.
func weightsFromAmounts(shares []models.Share) []splitEntry {
	var unit decimal.Decimal
	for _, s := range shares {
		v := s.Amount.Value.Abs()
		if v.IsZero() {
			continue
		}
		if unit.IsZero() || v.LessThan(unit) {
			unit = v
		}
	}

	entries := make([]splitEntry, len(shares))
	for i, s := range shares {
		weight := decimal.NewFromInt(1)
		if !unit.IsZero() {
			weight = s.Amount.Value.Abs().Div(unit)
		}
		entries[i] = splitEntry{participant: s.Participant, value: weight}
	}
	return entries
}

func apply(e models.Expense, opts splitOptions) (models.Expense, error) {
	out := e.Clone()
	total := e.TotalAmount
	units := models.MinorUnits(total.CurrencyCode)

	if len(opts.entries) == 0 {
		return models.Expense{}, &InvalidSplitError{SplitType: string(opts.splitType), Reason: "no participants"}
	}

	shares := make([]models.Share, len(opts.entries))
	switch opts.splitType {
	case models.SplitTypeEqual:
		count := int64(0)
		for _, entry := range opts.entries {
			if entry.value.IsPositive() {
				count++
			}
		}
		if count == 0 {
			return models.Expense{}, &InvalidSplitError{SplitType: string(opts.splitType), Reason: "no participants included"}
		}
		perShare := total.Value.Div(decimal.NewFromInt(count)).Truncate(units)
		for i, entry := range opts.entries {
			share := models.Share{Participant: entry.participant, Amount: models.ZeroAmount(total.CurrencyCode), Weight: decimal.Zero}
			if entry.value.IsPositive() {
				share.Amount = models.Amount{Value: perShare, CurrencyCode: total.CurrencyCode}
				share.Weight = decimal.NewFromInt(1)
			}
			shares[i] = share
		}
		spreadResidue(shares, total, perShare.Mul(decimal.NewFromInt(count)), units)

	case models.SplitTypeShares:
		sum := decimal.Zero
		for _, entry := range opts.entries {
			if entry.value.IsNegative() {
				return models.Expense{}, &InvalidSplitError{SplitType: string(opts.splitType), Reason: "weight cannot be negative"}
			}
			sum = sum.Add(entry.value)
		}
		if !sum.IsPositive() {
			return models.Expense{}, &InvalidSplitError{SplitType: string(opts.splitType), Reason: "all weights are zero"}
		}
		for i, entry := range opts.entries {
			value := entry.value.Mul(total.Value).Div(sum).Truncate(units)
			shares[i] = models.Share{
				Participant: entry.participant,
				Amount:      models.Amount{Value: value, CurrencyCode: total.CurrencyCode},
				Weight:      entry.value,
			}
		}

	case models.SplitTypeAmounts:
		for i, entry := range opts.entries {
			shares[i] = models.Share{
				Participant: entry.participant,
				Amount:      models.Amount{Value: entry.value, CurrencyCode: total.CurrencyCode},
				Weight:      decimal.Zero,
			}
		}
	}

	distributed := decimal.Zero
	for _, s := range shares {
		distributed = distributed.Add(s.Amount.Value)
	}

	out.Shares = shares
	out.SplitType = opts.splitType
	out.UndistributedAmount = nil
	if residual := total.Value.Sub(distributed); !residual.IsZero() {
		out.UndistributedAmount = &models.Amount{Value: residual, CurrencyCode: total.CurrencyCode}
	}
	return out, nil
}

func flag(included bool) decimal.Decimal {
	if included {
		return decimal.NewFromInt(1)
	}
	return decimal.Zero
}

// spreadResidue hands what truncation left over to the included shares, one
// minor unit each in order, so less than one minor unit stays undistributed.
func spreadResidue(shares []models.Share, total models.Amount, distributed decimal.Decimal, units int32) {
	step := decimal.New(1, -units)
	residue := total.Value.Sub(distributed)
	if residue.IsNegative() {
		step = step.Neg()
	}
	for i := range shares {
		if residue.Abs().LessThan(step.Abs()) {
			return
		}
		if !shares[i].Weight.IsPositive() {
			continue
		}
		shares[i].Amount = models.Amount{Value: shares[i].Amount.Value.Add(step), CurrencyCode: total.CurrencyCode}
		residue = residue.Sub(step)
	}
}
