package calculator

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/cucumber/godog"
	"github.com/cucumber/godog/colors"
	"github.com/shopspring/decimal"

	"github.com/mmynk/wesplit/internal/models"
)

// settlementWorld is the state shared by the steps of one scenario.
type settlementWorld struct {
	group       models.Group
	expenses    []models.Expense
	balance     models.Balance
	suggestions []models.SettleSuggestion
}

func member(name string) models.Participant {
	name = strings.TrimSpace(name)
	return models.Participant{ID: strings.ToLower(name), Name: name}
}

func members(list string) []models.Participant {
	var out []models.Participant
	for _, name := range strings.Split(list, ",") {
		out = append(out, member(name))
	}
	return out
}

func amountOf(value, currency string) (models.Amount, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return models.Amount{}, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	return models.Amount{Value: d, CurrencyCode: currency}, nil
}

func (w *settlementWorld) theGroup(list string) error {
	w.group = models.Group{ID: "feature", Participants: members(list)}
	return nil
}

func (w *settlementWorld) paidSplitEqually(payer, value, currency, list string) error {
	total, err := amountOf(value, currency)
	if err != nil {
		return err
	}
	participants := members(list)
	shares := make([]models.Share, len(participants))
	for i, p := range participants {
		shares[i] = models.Share{Participant: p, Amount: models.ZeroAmount(currency), Weight: decimal.NewFromInt(1)}
	}
	e, err := Redistribute(models.Expense{
		ID:          fmt.Sprintf("e%d", len(w.expenses)+1),
		PayedBy:     member(payer),
		Shares:      shares,
		TotalAmount: total,
		SplitType:   models.SplitTypeEqual,
		Status:      models.ExpenseStatusNew,
	}, nil)
	if err != nil {
		return err
	}
	w.expenses = append(w.expenses, e)
	return nil
}

func (w *settlementWorld) theBalance(table *godog.Table) error {
	w.balance = models.Balance{}
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		p := member(row.Cells[0].Value)
		a, err := amountOf(row.Cells[1].Value, row.Cells[2].Value)
		if err != nil {
			return err
		}
		found := false
		for j := range w.balance.ParticipantsBalance {
			if w.balance.ParticipantsBalance[j].Participant.Same(p) {
				w.balance.ParticipantsBalance[j].Amounts = append(w.balance.ParticipantsBalance[j].Amounts, a)
				found = true
			}
		}
		if !found {
			w.balance.ParticipantsBalance = append(w.balance.ParticipantsBalance, models.ParticipantBalance{Participant: p, Amounts: []models.Amount{a}})
		}
	}
	return nil
}

func (w *settlementWorld) poolHolds(value, currency string) error {
	a, err := amountOf(value, currency)
	if err != nil {
		return err
	}
	for _, u := range w.balance.Undistributed {
		if u.CurrencyCode == currency {
			if !u.Equal(a) {
				return fmt.Errorf("undistributed pool holds %v, want %v", u, a)
			}
			return nil
		}
	}
	if w.expenses != nil {
		return fmt.Errorf("undistributed pool has no %s", currency)
	}
	w.balance.Undistributed = append(w.balance.Undistributed, a)
	return nil
}

func (w *settlementWorld) aggregate() error {
	w.balance = AggregateBalance(w.group, w.expenses)
	return nil
}

func (w *settlementWorld) suggest() error {
	if err := CheckBalance(w.balance); err != nil {
		return err
	}
	w.suggestions = SuggestSettlements(w.balance)
	return nil
}

func (w *settlementWorld) hasBalance(name, value, currency string, sign int) error {
	want, err := amountOf(value, currency)
	if err != nil {
		return err
	}
	if sign < 0 {
		want = want.Neg()
	}
	pb, ok := w.balance.Of(member(name))
	if !ok {
		return fmt.Errorf("%s has no balance", name)
	}
	for _, a := range pb.Amounts {
		if a.CurrencyCode == currency {
			if !a.Equal(want) {
				return fmt.Errorf("%s balance is %v, want %v", name, a, want)
			}
			return nil
		}
	}
	return fmt.Errorf("%s has no %s balance", name, currency)
}

func (w *settlementWorld) isOwed(name, value, currency string) error {
	return w.hasBalance(name, value, currency, 1)
}

func (w *settlementWorld) owes(name, value, currency string) error {
	return w.hasBalance(name, value, currency, -1)
}

func (w *settlementWorld) consistent() error {
	return CheckBalance(w.balance)
}

func (w *settlementWorld) settled() error {
	if !w.balance.IsSettled() {
		return fmt.Errorf("balance is not settled: %+v", w.balance.ParticipantsBalance)
	}
	return nil
}

func (w *settlementWorld) suggestionCount(n int) error {
	if len(w.suggestions) != n {
		return fmt.Errorf("got %d suggestions, want %d", len(w.suggestions), n)
	}
	return nil
}

func (w *settlementWorld) findSuggestion(payer *models.Participant, recipient, value, currency string) error {
	want, err := amountOf(value, currency)
	if err != nil {
		return err
	}
	for _, s := range w.suggestions {
		if !s.Recipient.Same(member(recipient)) || !s.Amount.Equal(want) {
			continue
		}
		if (payer == nil) != (s.Payer == nil) {
			continue
		}
		if payer == nil || s.Payer.Same(*payer) {
			return nil
		}
	}
	return fmt.Errorf("no suggestion pays %s %v", recipient, want)
}

func (w *settlementWorld) pays(payer, recipient, value, currency string) error {
	p := member(payer)
	return w.findSuggestion(&p, recipient, value, currency)
}

func (w *settlementWorld) groupPays(recipient, value, currency string) error {
	return w.findSuggestion(nil, recipient, value, currency)
}

func (w *settlementWorld) settlesEverything() error {
	remaining := make(map[string]decimal.Decimal)
	for _, pb := range w.balance.ParticipantsBalance {
		for _, a := range pb.Amounts {
			remaining[pb.Participant.Key()+"/"+a.CurrencyCode] = a.Value
		}
	}
	for _, s := range w.suggestions {
		if s.Payer != nil {
			key := s.Payer.Key() + "/" + s.Amount.CurrencyCode
			remaining[key] = remaining[key].Add(s.Amount.Value)
		}
		key := s.Recipient.Key() + "/" + s.Amount.CurrencyCode
		remaining[key] = remaining[key].Sub(s.Amount.Value)
	}
	for key, v := range remaining {
		if v.Abs().GreaterThan(settleEpsilon) {
			return fmt.Errorf("%s is left at %v", key, v)
		}
	}
	return nil
}

func initializeSettlementScenario(ctx *godog.ScenarioContext) {
	w := &settlementWorld{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		*w = settlementWorld{}
		return ctx, nil
	})

	const money = `(-?\d+(?:\.\d+)?) ([A-Z]{3})`

	ctx.Step(`^the group "([^"]*)"$`, w.theGroup)
	ctx.Step(`^"([^"]*)" paid `+money+` split equally between "([^"]*)"$`, w.paidSplitEqually)
	ctx.Step(`^the balance:$`, w.theBalance)
	ctx.Step(`^the undistributed pool holds `+money+`$`, w.poolHolds)
	ctx.Step(`^the balance is aggregated$`, w.aggregate)
	ctx.Step(`^settlements are suggested$`, w.suggest)
	ctx.Step(`^"([^"]*)" is owed `+money+`$`, w.isOwed)
	ctx.Step(`^"([^"]*)" owes `+money+`$`, w.owes)
	ctx.Step(`^the balance is consistent$`, w.consistent)
	ctx.Step(`^the group is settled$`, w.settled)
	ctx.Step(`^(\d+) suggestions? (?:is|are) made$`, w.suggestionCount)
	ctx.Step(`^"([^"]*)" pays "([^"]*)" `+money+`$`, w.pays)
	ctx.Step(`^the group pays "([^"]*)" `+money+`$`, w.groupPays)
	ctx.Step(`^applying the suggestions settles every balance$`, w.settlesEverything)
}

func TestSettlementFeatures(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "settlement",
		ScenarioInitializer: initializeSettlementScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			Output:   colors.Colored(os.Stdout),
			Strict:   true,
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run settlement features")
	}
}
