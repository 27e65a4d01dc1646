package models

// User is an authenticated account. Participants may link to a user;
// a participant without a user is an anonymous member of a group.
type User struct {
	// ID is the unique identifier for the user, as carried in the bearer token.
	ID string `json:"id"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Email is the user's email address, if known.
	Email string `json:"email,omitempty"`

	// LastUsedCurrency is the display currency the user picked last.
	// It is the default target for balance normalization.
	LastUsedCurrency string `json:"last_used_currency,omitempty"`

	// CreatedAt is the Unix timestamp when the user was first seen.
	CreatedAt int64 `json:"created_at"`
}
