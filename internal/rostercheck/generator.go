package rostercheck

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/okian/mergington/internal/domain/model"
)

const defaultDomain = "rostercheck.mergington.edu"

// Plan assigns students synthetic emails and spreads them round-robin over
// the target activities. Unknown names in targets are kept so the run can
// observe the service's not-found handling.
func Plan(students int, domain string, targets []string, listed []model.Activity) ([]Assignment, error) {
	if len(targets) == 0 {
		for _, a := range listed {
			targets = append(targets, a.Name)
		}
	}
	targets = unique(targets)
	if len(targets) == 0 {
		return nil, ErrNoActivities
	}
	if domain == "" {
		domain = defaultDomain
	}

	out := make([]Assignment, 0, students)
	for i := range students {
		out = append(out, Assignment{
			Email:    fmt.Sprintf("student-%s@%s", uuid.NewString(), domain),
			Activity: targets[i%len(targets)],
		})
	}
	return out, nil
}

func unique(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
