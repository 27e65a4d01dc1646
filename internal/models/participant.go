package models

// Participant is a member of a group. The same person can take part in many groups.
type Participant struct {
	// ID is the unique identifier (UUID format).
	// Empty for a draft participant that has not been saved yet.
	ID string `json:"id,omitempty"`

	// Name is the display name.
	Name string `json:"name"`

	// UserID links the participant to a registered user, if any.
	UserID string `json:"user_id,omitempty"`

	// IsMe is true when the participant belongs to the calling user.
	// It is derived per request and never persisted.
	IsMe bool `json:"is_me,omitempty"`
}

// Key returns the identity key of the participant: its ID when saved,
// otherwise its name prefixed to keep drafts apart from saved ids.
func (p Participant) Key() string {
	if p.ID != "" {
		return p.ID
	}
	return "draft:" + p.Name
}

// Same reports whether both values denote the same participant.
func (p Participant) Same(other Participant) bool {
	return p.Key() == other.Key()
}

// IsDraft reports whether the participant has not been persisted yet.
func (p Participant) IsDraft() bool {
	return p.ID == ""
}
