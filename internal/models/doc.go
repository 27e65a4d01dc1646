// Package models defines the core domain models for WeSplit.
//
// # Money
//
// Amount pairs a decimal value with an ISO 4217 currency code. All arithmetic
// is done on github.com/shopspring/decimal values; floats only appear at the
// edges (FX rate snapshots and test literals).
//
// # Groups and expenses
//
//   - Group: a titled set of participants
//   - Participant: a group member, optionally linked to a User
//   - Expense: a payment by one participant, split into Shares
//   - Share: one participant's amount (and weight) within an expense
//
// Participants are identified by ID once saved. A participant without an ID
// is a draft and is identified by name until it is persisted.
//
// # Derived state
//
//   - Balance / ParticipantBalance: per-currency net positions
//   - SettleSuggestion: a recommended payment between participants
//
// Derived values are never stored as the source of truth; they are
// recomputed from expenses by the calculator package.
package models
