// Package model contains domain models passed between layers.
package model

import "slices"

// Activity is an extracurricular offering with its roster.
// The name is the registry key and is not part of the JSON value.
type Activity struct {
	Name            string   `json:"-" koanf:"name" validate:"required"`
	Description     string   `json:"description" koanf:"description"`
	Schedule        string   `json:"schedule" koanf:"schedule"`
	MaxParticipants int      `json:"max_participants" koanf:"max_participants" validate:"gt=0"`
	Participants    []string `json:"participants" koanf:"participants" validate:"unique"`
}

// Clone returns a deep copy. Participants is never nil in the copy so it
// always encodes as a JSON array.
func (a Activity) Clone() Activity {
	c := a
	c.Participants = make([]string, len(a.Participants))
	copy(c.Participants, a.Participants)
	return c
}

// HasParticipant reports whether email is on the roster.
func (a *Activity) HasParticipant(email string) bool {
	return slices.Contains(a.Participants, email)
}

// IsFull reports whether the roster has reached MaxParticipants.
func (a *Activity) IsFull() bool {
	return len(a.Participants) >= a.MaxParticipants
}

// AddParticipant appends email and reports false if it was already present.
func (a *Activity) AddParticipant(email string) bool {
	if a.HasParticipant(email) {
		return false
	}
	a.Participants = append(a.Participants, email)
	return true
}

// RemoveParticipant removes email keeping the order of the rest.
// It reports false if email was not on the roster.
func (a *Activity) RemoveParticipant(email string) bool {
	i := slices.Index(a.Participants, email)
	if i < 0 {
		return false
	}
	a.Participants = slices.Delete(a.Participants, i, i+1)
	return true
}
