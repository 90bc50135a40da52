// Package catalog provides the activity seed data the registry starts from.
//
// Seeds come either from the built-in Default set or from a YAML file
// (see LoadFile). Every seed passes Validate before it reaches the registry.
package catalog

import "github.com/okian/mergington/internal/domain/model"

// Seed is the full set of activities the registry is populated with.
type Seed struct {
	Activities []model.Activity `koanf:"activities" validate:"required,min=1,unique=Name,dive"`
}

// Default returns the built-in Mergington High School activities.
// A fresh copy is returned on every call.
func Default() Seed {
	return Seed{Activities: []model.Activity{
		{
			Name:            "Chess Club",
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
		},
		{
			Name:            "Programming Class",
			Description:     "Learn programming fundamentals and build software projects",
			Schedule:        "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"emma@mergington.edu", "sophia@mergington.edu"},
		},
		{
			Name:            "Gym Class",
			Description:     "Physical education and sports activities",
			Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
			MaxParticipants: 30,
			Participants:    []string{"john@mergington.edu", "olivia@mergington.edu"},
		},
		{
			Name:            "Basketball",
			Description:     "Join the school basketball team and compete in local tournaments",
			Schedule:        "Tuesdays and Thursdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 15,
			Participants:    []string{"liam@mergington.edu"},
		},
		{
			Name:            "Tennis Club",
			Description:     "Develop tennis skills and play friendly matches",
			Schedule:        "Wednesdays, 3:30 PM - 5:00 PM",
			MaxParticipants: 10,
			Participants:    []string{},
		},
		{
			Name:            "Art Studio",
			Description:     "Explore painting, drawing and mixed media",
			Schedule:        "Mondays, 3:30 PM - 5:00 PM",
			MaxParticipants: 16,
			Participants:    []string{"ava@mergington.edu"},
		},
		{
			Name:            "Drama Club",
			Description:     "Act, direct and produce the school plays",
			Schedule:        "Thursdays, 3:30 PM - 5:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"mia@mergington.edu", "noah@mergington.edu"},
		},
		{
			Name:            "Math Olympiad",
			Description:     "Solve challenging problems and prepare for math competitions",
			Schedule:        "Wednesdays, 4:00 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"lucas@mergington.edu"},
		},
		{
			Name:            "Science Club",
			Description:     "Hands-on experiments and science fair projects",
			Schedule:        "Fridays, 2:30 PM - 4:00 PM",
			MaxParticipants: 18,
			Participants:    []string{"isabella@mergington.edu"},
		},
	}}
}
