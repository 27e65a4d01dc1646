package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SplitType is the rule governing how an expense total is divided.
type SplitType string

const (
	SplitTypeEqual   SplitType = "EQUAL"
	SplitTypeShares  SplitType = "SHARES"
	SplitTypeAmounts SplitType = "AMOUNTS"
)

// Valid reports whether t is a known split type.
func (t SplitType) Valid() bool {
	switch t {
	case SplitTypeEqual, SplitTypeShares, SplitTypeAmounts:
		return true
	}
	return false
}

// ExpenseStatus tells whether an expense still counts toward balances.
type ExpenseStatus string

const (
	ExpenseStatusNew     ExpenseStatus = "NEW"
	ExpenseStatusSettled ExpenseStatus = "SETTLED"
)

// ExpenseType separates regular expenses from recorded payments between members.
type ExpenseType string

const (
	ExpenseTypeExpense    ExpenseType = "EXPENSE"
	ExpenseTypeSettlement ExpenseType = "SETTLEMENT"
)

// Share is one participant's part of an expense.
type Share struct {
	Participant Participant `json:"participant"`
	Amount      Amount      `json:"amount"`

	// Weight is the participant's weight in a SHARES split.
	// EQUAL splits use 1 for included and 0 for excluded participants.
	Weight decimal.Decimal `json:"weight"`
}

// Expense is a payment made by one participant on behalf of the group.
//
// Shares and UndistributedAmount are produced by the redistribution engine
// (calculator.Redistribute) and must not be edited directly.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// GroupID is the group this expense belongs to.
	GroupID string `json:"group_id"`

	Title string `json:"title"`

	// PayedBy is the participant who paid the total.
	PayedBy Participant `json:"payed_by"`

	Shares      []Share `json:"shares"`
	TotalAmount Amount  `json:"total_amount"`

	// UndistributedAmount is the part of the total not assigned to any share.
	// Nil when everything is distributed.
	UndistributedAmount *Amount `json:"undistributed_amount,omitempty"`

	SplitType SplitType     `json:"split_type"`
	Type      ExpenseType   `json:"type"`
	Status    ExpenseStatus `json:"status"`
	Category  Category      `json:"category"`

	// Date is when the expense happened.
	Date time.Time `json:"date"`

	// CreatedAt and UpdatedAt are Unix timestamps maintained by the store.
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// Undistributed returns the undistributed amount, or zero in the expense currency.
func (e Expense) Undistributed() Amount {
	if e.UndistributedAmount == nil {
		return ZeroAmount(e.TotalAmount.CurrencyCode)
	}
	return *e.UndistributedAmount
}

// Share returns the share of the given participant.
func (e Expense) Share(p Participant) (Share, bool) {
	for _, s := range e.Shares {
		if s.Participant.Same(p) {
			return s, true
		}
	}
	return Share{}, false
}

// Clone returns a copy that shares no mutable state with e.
func (e Expense) Clone() Expense {
	c := e
	if e.Shares != nil {
		c.Shares = make([]Share, len(e.Shares))
		copy(c.Shares, e.Shares)
	}
	if e.UndistributedAmount != nil {
		u := *e.UndistributedAmount
		c.UndistributedAmount = &u
	}
	return c
}

// FilterByStatus returns the expenses with the given status, in order.
func FilterByStatus(expenses []Expense, status ExpenseStatus) []Expense {
	var out []Expense
	for _, e := range expenses {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out
}
