package api

import (
	"errors"
	"net/http"

	repository "github.com/okian/mergington/internal/adapters/repository"
)

// Client-facing detail strings.
const (
	DetailActivityNotFound = "Activity not found"
	DetailAlreadySignedUp  = "Student is already signed up"
	DetailNotSignedUp      = "Student is not signed up for this activity"
	DetailActivityFull     = "Activity is full"
	DetailMissingEmail     = "Missing required query parameter: email"
)

// statusFor maps a registry error to its HTTP status and detail.
// ok is false for errors the client cannot act on.
func statusFor(err error) (status int, detail string, ok bool) {
	switch {
	case errors.Is(err, repository.ErrActivityNotFound):
		return http.StatusNotFound, DetailActivityNotFound, true
	case errors.Is(err, repository.ErrAlreadySignedUp):
		return http.StatusBadRequest, DetailAlreadySignedUp, true
	case errors.Is(err, repository.ErrNotSignedUp):
		return http.StatusBadRequest, DetailNotSignedUp, true
	case errors.Is(err, repository.ErrActivityFull):
		return http.StatusBadRequest, DetailActivityFull, true
	default:
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), false
	}
}
