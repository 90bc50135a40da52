package rostercheck

import "errors"

// Sentinel errors for a roster check run.
var (
	ErrUnhealthy      = errors.New("service health check failed")
	ErrUnexpectedCode = errors.New("unexpected status code")
	ErrNoActivities   = errors.New("no activities to target")
	ErrRosterMismatch = errors.New("roster mismatch")
)
