package models

// Group is a set of participants sharing expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Title is the display name of the group (e.g., "Roommates", "Trip to Tbilisi").
	Title string `json:"title"`

	// Participants is the ordered list of group members.
	Participants []Participant `json:"participants"`

	// ImageURL is an optional cover image.
	ImageURL string `json:"image_url,omitempty"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"created_at"`

	// Revision increases on every expense write in the group.
	// Cached balances are keyed by it.
	Revision int64 `json:"revision"`
}

// Participant returns the group member with the given identity key.
func (g Group) Participant(key string) (Participant, bool) {
	for _, p := range g.Participants {
		if p.Key() == key {
			return p, true
		}
	}
	return Participant{}, false
}

// HasUser reports whether any participant is linked to the given user.
func (g Group) HasUser(userID string) bool {
	if userID == "" {
		return false
	}
	for _, p := range g.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// WithMe returns a copy of the group with IsMe set on the caller's participants.
func (g Group) WithMe(userID string) Group {
	participants := make([]Participant, len(g.Participants))
	for i, p := range g.Participants {
		p.IsMe = userID != "" && p.UserID == userID
		participants[i] = p
	}
	g.Participants = participants
	return g
}
