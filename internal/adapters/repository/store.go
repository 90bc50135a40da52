// Package repository holds the in-memory activity registry.
package repository

import (
	"context"

	"github.com/okian/mergington/internal/domain/model"
)

// Store provides read/write access to the activity registry.
type Store interface {
	// List returns a copy of every activity in registration order.
	List(ctx context.Context) []model.Activity

	// Get returns a copy of one activity.
	// Returns ErrActivityNotFound if the name is unknown.
	Get(ctx context.Context, name string) (model.Activity, error)

	// Signup appends email to the activity roster.
	// Returns ErrActivityNotFound, ErrAlreadySignedUp or, when capacity
	// enforcement is on, ErrActivityFull.
	Signup(ctx context.Context, name, email string) error

	// Unregister removes email from the activity roster.
	// Returns ErrActivityNotFound or ErrNotSignedUp.
	Unregister(ctx context.Context, name, email string) error

	// Count returns the number of activities.
	Count(ctx context.Context) int

	// Participants returns the total number of roster entries.
	Participants(ctx context.Context) int
}
