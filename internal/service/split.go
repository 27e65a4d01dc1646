package service

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/wesplit/internal/calculator"
	"github.com/mmynk/wesplit/internal/models"
	"github.com/mmynk/wesplit/pkg/api"
)

// draftExpense validates client input against the group and builds an
// expense whose shares still need to be redistributed.
//
// Shares default to every group participant. For EQUAL splits a positive
// weight includes a participant; when no weight is given everyone listed
// is included.
func draftExpense(group *models.Group, in api.ExpenseInput) (models.Expense, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.Expense{}, invalidf("title required")
	}

	payer, ok := group.Participant(in.PayerID)
	if !ok {
		return models.Expense{}, invalidf("payer %q is not a participant of the group", in.PayerID)
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Total.CurrencyCode))
	if len(currency) != 3 {
		return models.Expense{}, invalidf("invalid currency %q", in.Total.CurrencyCode)
	}
	if in.Total.Value.IsNegative() {
		return models.Expense{}, invalidf("total cannot be negative")
	}

	splitType := in.SplitType
	if splitType == "" {
		splitType = models.SplitTypeEqual
	}
	if !splitType.Valid() {
		return models.Expense{}, invalidf("unknown split type %q", in.SplitType)
	}

	expenseType := in.Type
	if expenseType == "" {
		expenseType = models.ExpenseTypeExpense
	}
	if expenseType != models.ExpenseTypeExpense && expenseType != models.ExpenseTypeSettlement {
		return models.Expense{}, invalidf("unknown expense type %q", in.Type)
	}

	inputs := in.Shares
	if len(inputs) == 0 {
		inputs = make([]api.ShareInput, len(group.Participants))
		for i, p := range group.Participants {
			inputs[i] = api.ShareInput{ParticipantID: p.ID}
		}
	}

	shares := make([]models.Share, 0, len(inputs))
	seen := make(map[string]bool, len(inputs))
	anyWeight := false
	for _, si := range inputs {
		p, ok := group.Participant(si.ParticipantID)
		if !ok {
			return models.Expense{}, invalidf("participant %q is not in the group", si.ParticipantID)
		}
		if seen[p.ID] {
			return models.Expense{}, invalidf("participant %q listed twice", si.ParticipantID)
		}
		seen[p.ID] = true
		if si.Weight.IsNegative() || si.Amount.IsNegative() {
			return models.Expense{}, invalidf("share of %s cannot be negative", p.Name)
		}
		if si.Weight.IsPositive() {
			anyWeight = true
		}

		share := models.Share{Participant: p, Amount: models.ZeroAmount(currency), Weight: si.Weight}
		if splitType == models.SplitTypeAmounts {
			share.Amount = models.Amount{Value: si.Amount, CurrencyCode: currency}
			share.Weight = decimal.Zero
		}
		shares = append(shares, share)
	}
	if splitType == models.SplitTypeEqual && !anyWeight {
		for i := range shares {
			shares[i].Weight = decimal.NewFromInt(1)
		}
	}

	date := in.Date
	if !date.IsZero() {
		date = date.UTC()
	}

	return models.Expense{
		GroupID:     group.ID,
		Title:       title,
		PayedBy:     payer,
		Shares:      shares,
		TotalAmount: models.Amount{Value: in.Total.Value, CurrencyCode: currency},
		SplitType:   splitType,
		Type:        expenseType,
		Status:      models.ExpenseStatusNew,
		Category:    models.ParseCategory(string(in.Category)),
		Date:        date,
	}, nil
}

// splitAction resolves a wire action against the group.
func splitAction(group *models.Group, a *api.SplitAction) (calculator.UpdateAction, error) {
	if a == nil {
		return nil, nil
	}
	p, ok := group.Participant(a.ParticipantID)
	if !ok {
		return nil, invalidf("participant %q is not in the group", a.ParticipantID)
	}
	switch a.Kind {
	case api.SplitActionShare:
		return calculator.ShareAction{Participant: p, Weight: a.Weight}, nil
	case api.SplitActionEqual:
		return calculator.EqualAction{Participant: p, Included: a.Included}, nil
	case api.SplitActionAmount:
		return calculator.AmountAction{Participant: p, Value: a.Value}, nil
	default:
		return nil, invalidf("unknown split action %q", a.Kind)
	}
}

// redistribute runs the redistribution engine and rejects fixed amounts
// that add up to more than the total.
func redistribute(e models.Expense, action calculator.UpdateAction) (models.Expense, error) {
	out, err := calculator.Redistribute(e, action)
	if err != nil {
		return models.Expense{}, err
	}
	if out.Undistributed().Value.IsNegative() {
		return models.Expense{}, &calculator.InvalidSplitError{
			SplitType: string(out.SplitType),
			Reason:    "shares exceed the total by " + out.Undistributed().Abs().Format(true),
		}
	}
	return out, nil
}

// settlementExpense records a payment from payer to recipient. The
// recipient's share holds the whole amount, so the payment cancels the
// matching debt in the balance.
func settlementExpense(group *models.Group, payer, recipient models.Participant, amount models.Amount) models.Expense {
	return models.Expense{
		GroupID: group.ID,
		Title:   payer.Name + " paid " + recipient.Name,
		PayedBy: payer,
		Shares: []models.Share{
			{Participant: recipient, Amount: amount, Weight: decimal.Zero},
		},
		TotalAmount: amount,
		SplitType:   models.SplitTypeAmounts,
		Type:        models.ExpenseTypeSettlement,
		Status:      models.ExpenseStatusNew,
		Category:    models.CategoryNone,
		Date:        time.Now().UTC(),
	}
}
