package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/wesplit/internal/models"
)

// Group messages

type CreateGroupRequest struct {
	Title        string               `json:"title"`
	ImageURL     string               `json:"image_url,omitempty"`
	Participants []models.Participant `json:"participants"`
}

type CreateGroupResponse struct {
	Group models.Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupResponse struct {
	Group models.Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []models.Group `json:"groups"`
}

type UpdateGroupRequest struct {
	GroupID      string               `json:"group_id"`
	Title        string               `json:"title"`
	ImageURL     string               `json:"image_url,omitempty"`
	Participants []models.Participant `json:"participants"`
}

type UpdateGroupResponse struct {
	Group models.Group `json:"group"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"group_id"`
}

type DeleteGroupResponse struct{}

// Expense messages

// ExpenseInput is the client-editable part of an expense. Shares carry the
// participants taking part and, depending on the split type, their weight
// or fixed amount; the server computes the rest.
type ExpenseInput struct {
	Title     string             `json:"title"`
	PayerID   string             `json:"payer_id"`
	Total     models.Amount      `json:"total"`
	SplitType models.SplitType   `json:"split_type"`
	Shares    []ShareInput       `json:"shares"`
	Category  models.Category    `json:"category,omitempty"`
	Type      models.ExpenseType `json:"type,omitempty"`
	Date      time.Time          `json:"date"`
}

// ShareInput selects a participant for a split. Weight is used by SHARES
// and EQUAL (0 excludes), Amount by AMOUNTS.
type ShareInput struct {
	ParticipantID string          `json:"participant_id"`
	Weight        decimal.Decimal `json:"weight"`
	Amount        decimal.Decimal `json:"amount"`
}

// SplitAction is a single edit of an expense split.
type SplitAction struct {
	Kind          SplitActionKind `json:"kind"`
	ParticipantID string          `json:"participant_id"`
	Weight        decimal.Decimal `json:"weight"`
	Included      bool            `json:"included,omitempty"`
	Value         decimal.Decimal `json:"value"`
}

type SplitActionKind string

const (
	SplitActionShare  SplitActionKind = "SHARE"
	SplitActionEqual  SplitActionKind = "EQUAL"
	SplitActionAmount SplitActionKind = "AMOUNT"
)

type CreateExpenseRequest struct {
	GroupID string       `json:"group_id"`
	Expense ExpenseInput `json:"expense"`
}

type CreateExpenseResponse struct {
	Expense models.Expense `json:"expense"`
}

type GetExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type GetExpenseResponse struct {
	Expense models.Expense `json:"expense"`
}

type ListExpensesRequest struct {
	GroupID string `json:"group_id"`
	// Status filters by expense status; empty lists everything.
	Status models.ExpenseStatus `json:"status,omitempty"`
}

type ListExpensesResponse struct {
	Expenses []models.Expense `json:"expenses"`
}

// UpdateExpenseRequest replaces an expense. When Action is set it is applied
// to the stored split instead of the shares in Expense.
type UpdateExpenseRequest struct {
	ExpenseID string       `json:"expense_id"`
	Expense   ExpenseInput `json:"expense"`
	Action    *SplitAction `json:"action,omitempty"`
}

type UpdateExpenseResponse struct {
	Expense models.Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type DeleteExpenseResponse struct{}

// PreviewSplitRequest computes the split of a draft expense without saving it.
type PreviewSplitRequest struct {
	GroupID string       `json:"group_id"`
	Expense ExpenseInput `json:"expense"`
	Action  *SplitAction `json:"action,omitempty"`
}

type PreviewSplitResponse struct {
	Expense models.Expense `json:"expense"`
}

type SettleAllRequest struct {
	GroupID string `json:"group_id"`
}

type SettleAllResponse struct {
	Settled int `json:"settled"`
}

// RecordSettlementRequest saves a payment between two participants as a
// SETTLEMENT expense.
type RecordSettlementRequest struct {
	GroupID     string        `json:"group_id"`
	PayerID     string        `json:"payer_id"`
	RecipientID string        `json:"recipient_id"`
	Amount      models.Amount `json:"amount"`
}

type RecordSettlementResponse struct {
	Expense models.Expense `json:"expense"`
}

// Balance messages

type GetBalanceRequest struct {
	GroupID string `json:"group_id"`
	// Currency normalizes the balance to a single currency. Empty uses the
	// caller's last used currency, if any.
	Currency string `json:"currency,omitempty"`
}

type GetBalanceResponse struct {
	Balance     models.Balance            `json:"balance"`
	Suggestions []models.SettleSuggestion `json:"suggestions"`
	Currency    string                    `json:"currency,omitempty"`
	Warnings    []string                  `json:"warnings,omitempty"`
}

// Currency messages

type GetFxRatesRequest struct{}

type GetFxRatesResponse struct {
	Rates models.FxRates `json:"rates"`
}

type UpdateFxRatesRequest struct {
	Rates models.FxRates `json:"rates"`
}

type UpdateFxRatesResponse struct {
	Rates models.FxRates `json:"rates"`
}

type ListCurrenciesRequest struct{}

type ListCurrenciesResponse struct {
	Currencies []string `json:"currencies"`
}
