package models

// Balance is the derived state of a group: what every participant is owed
// (positive) or owes (negative), per currency.
type Balance struct {
	ParticipantsBalance []ParticipantBalance `json:"participants_balance,omitempty"`

	// Undistributed is the per-currency pool of expense amounts not assigned
	// to any participant. The pool is credited to the payers.
	Undistributed []Amount `json:"undistributed,omitempty"`

	// Invalid marks a balance that failed the zero-sum check and must not be acted on.
	Invalid bool `json:"invalid"`
}

// ParticipantBalance holds one participant's nonzero balances, one per currency.
type ParticipantBalance struct {
	Participant Participant `json:"participant"`
	Amounts     []Amount    `json:"amounts,omitempty"`
}

// IsSettled reports whether no participant has an outstanding balance.
func (b Balance) IsSettled() bool {
	for _, pb := range b.ParticipantsBalance {
		for _, a := range pb.Amounts {
			if !a.IsZero() {
				return false
			}
		}
	}
	return true
}

// Of returns the balance entry of a participant.
func (b Balance) Of(p Participant) (ParticipantBalance, bool) {
	for _, pb := range b.ParticipantsBalance {
		if pb.Participant.Same(p) {
			return pb, true
		}
	}
	return ParticipantBalance{}, false
}

// SettleSuggestion is a single recommended payment.
type SettleSuggestion struct {
	// Payer is nil when the credit is owed by the undistributed pool rather
	// than by a specific participant.
	Payer     *Participant `json:"payer,omitempty"`
	Recipient Participant  `json:"recipient"`
	Amount    Amount       `json:"amount"`
}
