package domain

// Activity represents a single extracurricular offering and its roster.
type Activity struct {
	Name            string
	Description     string
	Schedule        string
	MaxParticipants int
	Participants    []string
}

// SpotsLeft reports the remaining capacity. Capacity is advisory: signups
// are not rejected when it reaches zero.
func (a Activity) SpotsLeft() int {
	return a.MaxParticipants - len(a.Participants)
}

// HasParticipant reports whether the email is already on the roster.
func (a Activity) HasParticipant(email string) bool {
	for _, p := range a.Participants {
		if p == email {
			return true
		}
	}
	return false
}
