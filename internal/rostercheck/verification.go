package rostercheck

import (
	"errors"
	"fmt"

	"github.com/okian/mergington/internal/domain/model"
)

// VerifyPresent checks every accepted assignment appears exactly once in its
// roster and nowhere else, and that rejected ones appear nowhere.
func VerifyPresent(listed []model.Activity, accepted, rejected []Assignment) error {
	seen := index(listed)
	var errs []error

	for _, a := range accepted {
		where := seen[a.Email]
		if len(where) != 1 || where[0] != a.Activity {
			errs = append(errs, fmt.Errorf("%w: %s expected once in %q, found in %v", ErrRosterMismatch, a.Email, a.Activity, where))
		}
	}
	for _, a := range rejected {
		if where := seen[a.Email]; len(where) != 0 {
			errs = append(errs, fmt.Errorf("%w: rejected %s found in %v", ErrRosterMismatch, a.Email, where))
		}
	}
	return errors.Join(errs...)
}

// VerifyAbsent checks none of the assignments remain on any roster.
func VerifyAbsent(listed []model.Activity, removed []Assignment) error {
	seen := index(listed)
	var errs []error
	for _, a := range removed {
		if where := seen[a.Email]; len(where) != 0 {
			errs = append(errs, fmt.Errorf("%w: %s still in %v", ErrRosterMismatch, a.Email, where))
		}
	}
	return errors.Join(errs...)
}

// VerifyCapacity reports rosters over max_participants. Only meaningful when
// the server enforces capacity.
func VerifyCapacity(listed []model.Activity) error {
	var errs []error
	for _, a := range listed {
		if len(a.Participants) > a.MaxParticipants {
			errs = append(errs, fmt.Errorf("%w: %q has %d of %d", ErrRosterMismatch, a.Name, len(a.Participants), a.MaxParticipants))
		}
	}
	return errors.Join(errs...)
}

// index maps email to every activity listing it, once per occurrence.
func index(listed []model.Activity) map[string][]string {
	out := make(map[string][]string)
	for _, a := range listed {
		for _, p := range a.Participants {
			out[p] = append(out[p], a.Name)
		}
	}
	return out
}

func countParticipants(listed []model.Activity) int {
	n := 0
	for _, a := range listed {
		n += len(a.Participants)
	}
	return n
}
