package rostercheck

import "time"

// Config holds configuration for a roster check run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Students   int           // Number of synthetic students to sign up
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	Activities []string      // Activities to target; empty means every listed activity
	Domain     string        // Email domain for synthetic students
	KeepRoster bool          // Skip the unregister phase
	Verbose    bool          // Log every rejected request
}

// Assignment pairs a synthetic student with the activity they join.
type Assignment struct {
	Email    string
	Activity string
}

// Outcome classifies one signup or unregister response.
type Outcome string

// Outcomes reported by the client.
const (
	OutcomeOK          Outcome = "ok"
	OutcomeDuplicate   Outcome = "duplicate"
	OutcomeFull        Outcome = "full"
	OutcomeNotFound    Outcome = "not_found"
	OutcomeNotSignedUp Outcome = "not_signed_up"
	OutcomeFailed      Outcome = "failed"
)

// Stats holds run statistics.
type Stats struct {
	Assigned             int
	SignedUp             int
	Full                 int
	DuplicatesRejected   int
	Unregistered         int
	Failed               int
	ActivitiesChecked    int
	ParticipantsObserved int
	StartTime            time.Time
	EndTime              time.Time
	Duration             time.Duration
}
