// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/okian/mergington/internal/domain/model"
	"github.com/okian/mergington/pkg/logger"
)

// ActivitiesHandler serves the activity list and roster changes.
type ActivitiesHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewActivitiesHandler creates a new activities handler. l may be nil.
func NewActivitiesHandler(deps Dependencies, l logger.Logger) *ActivitiesHandler {
	return &ActivitiesHandler{deps: deps, logger: l}
}

// HandleList handles GET /activities.
func (h *ActivitiesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.deps.ListActivities(r.Context())
	if err != nil {
		h.fail(r.Context(), w, "list activities", err)
		return
	}
	writeJSON(w, http.StatusOK, activityMap(list))
}

// HandleSignup handles POST /activities/{activity_name}/signup?email=.
func (h *ActivitiesHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	name, email, ok := rosterParams(w, r)
	if !ok {
		return
	}
	if err := h.deps.Signup(r.Context(), name, email); err != nil {
		h.fail(r.Context(), w, "signup", err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: fmt.Sprintf("Signed up %s for %s", email, name)})
}

// HandleUnregister handles POST /activities/{activity_name}/unregister?email=.
func (h *ActivitiesHandler) HandleUnregister(w http.ResponseWriter, r *http.Request) {
	name, email, ok := rosterParams(w, r)
	if !ok {
		return
	}
	if err := h.deps.Unregister(r.Context(), name, email); err != nil {
		h.fail(r.Context(), w, "unregister", err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: fmt.Sprintf("Unregistered %s from %s", email, name)})
}

// rosterParams extracts the decoded activity name and the email query value.
// An empty email is accepted; a missing one is answered with 422.
func rosterParams(w http.ResponseWriter, r *http.Request) (name, email string, ok bool) {
	name = mux.Vars(r)["activity_name"]
	values, present := r.URL.Query()["email"]
	if !present || len(values) == 0 {
		writeError(w, http.StatusUnprocessableEntity, DetailMissingEmail)
		return "", "", false
	}
	return name, values[0], true
}

func (h *ActivitiesHandler) fail(ctx context.Context, w http.ResponseWriter, op string, err error) {
	status, detail, known := statusFor(err)
	if !known && h.logger != nil {
		h.logger.Error(ctx, op+" failed", logger.Error(err))
	}
	writeError(w, status, detail)
}

// activityMap encodes activities as a JSON object keyed by name,
// keeping registration order instead of sorting keys.
type activityMap []model.Activity

func (m activityMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, a := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(a.Name)
		if err != nil {
			return nil, err
		}
		if a.Participants == nil {
			a.Participants = []string{}
		}
		val, err := json.Marshal(a)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
