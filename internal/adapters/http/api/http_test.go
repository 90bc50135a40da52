package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/okian/mergington/internal/adapters/http/api"
	repository "github.com/okian/mergington/internal/adapters/repository"
	"github.com/okian/mergington/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// mockDependencies is a minimal in-memory registry for handler tests.
type mockDependencies struct {
	mu         sync.Mutex
	activities []model.Activity
	listErr    error
	calls      []string
}

func newMockDependencies() *mockDependencies {
	return &mockDependencies{activities: []model.Activity{
		{
			Name:            "Chess Club",
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
		},
		{
			Name:            "Basketball",
			Description:     "Join the school basketball team",
			Schedule:        "Tuesdays and Thursdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 15,
		},
	}}
}

func (m *mockDependencies) find(name string) *model.Activity {
	for i := range m.activities {
		if m.activities[i].Name == name {
			return &m.activities[i]
		}
	}
	return nil
}

func (m *mockDependencies) ListActivities(context.Context) ([]model.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]model.Activity, len(m.activities))
	for i, a := range m.activities {
		out[i] = a.Clone()
	}
	return out, nil
}

func (m *mockDependencies) Signup(_ context.Context, name, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "signup:"+name+":"+email)
	a := m.find(name)
	if a == nil {
		return repository.ErrActivityNotFound
	}
	if !a.AddParticipant(email) {
		return fmt.Errorf("wrapped: %w", repository.ErrAlreadySignedUp)
	}
	return nil
}

func (m *mockDependencies) Unregister(_ context.Context, name, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "unregister:"+name+":"+email)
	a := m.find(name)
	if a == nil {
		return repository.ErrActivityNotFound
	}
	if !a.RemoveParticipant(email) {
		return repository.ErrNotSignedUp
	}
	return nil
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newRouter(deps api.Dependencies) *mux.Router {
	router := mux.NewRouter()
	api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"started": true}}).
		Register(context.Background(), router)
	return router
}

func do(router http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return out
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		router := newRouter(newMockDependencies())

		Convey("Then health endpoint should expose metrics", func() {
			w := do(router, http.MethodGet, "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("And stats endpoint should return JSON", func() {
			w := do(router, http.MethodGet, "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode(w)["started"], ShouldEqual, true)
		})

		Convey("And unknown paths should return a JSON 404", func() {
			w := do(router, http.MethodGet, "/unknown")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decode(w)["detail"], ShouldEqual, "Not Found")
		})

		Convey("And wrong methods should return 405", func() {
			So(do(router, http.MethodGet, "/activities/Chess%20Club/signup?email=a@b").Code,
				ShouldEqual, http.StatusMethodNotAllowed)
			So(do(router, http.MethodPost, "/activities").Code, ShouldEqual, http.StatusMethodNotAllowed)
		})

		Convey("And every response should carry a request id", func() {
			w := do(router, http.MethodGet, "/activities")
			So(w.Header().Get(api.RequestIDHeader), ShouldNotBeEmpty)
		})

		Convey("And an inbound request id should be echoed", func() {
			req := httptest.NewRequest(http.MethodGet, "/activities", http.NoBody)
			req.Header.Set(api.RequestIDHeader, "abc-123")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "abc-123")
		})
	})

	Convey("Given a nil router", t, func() {
		server := api.NewServer(newMockDependencies(), &mockStatsProvider{})
		So(func() { server.Register(context.Background(), nil) }, ShouldPanic)
	})
}

func TestListActivities(t *testing.T) {
	Convey("Given the activities endpoint", t, func() {
		deps := newMockDependencies()
		router := newRouter(deps)

		Convey("When listing activities", func() {
			w := do(router, http.MethodGet, "/activities")

			Convey("Then every activity should be returned keyed by name", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldStartWith, "application/json")

				var body map[string]map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body, ShouldContainKey, "Chess Club")
				So(body, ShouldContainKey, "Basketball")

				chess := body["Chess Club"]
				for _, field := range []string{"description", "schedule", "max_participants", "participants"} {
					So(chess, ShouldContainKey, field)
				}
				So(chess, ShouldNotContainKey, "name")
				So(chess["participants"], ShouldResemble, []any{"michael@mergington.edu", "daniel@mergington.edu"})
				So(chess["max_participants"], ShouldEqual, 12.0)
			})

			Convey("And an empty roster should encode as an empty array", func() {
				So(w.Body.String(), ShouldContainSubstring, `"participants":[]`)
			})

			Convey("And keys should keep registration order", func() {
				body := w.Body.String()
				So(strings.Index(body, `"Chess Club"`), ShouldBeLessThan, strings.Index(body, `"Basketball"`))
			})
		})

		Convey("When the registry fails", func() {
			deps.listErr = errors.New("boom")
			w := do(router, http.MethodGet, "/activities")

			Convey("Then a 500 should be returned without internals", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(decode(w)["detail"], ShouldEqual, "Internal Server Error")
			})
		})
	})
}

func TestSignup(t *testing.T) {
	Convey("Given the signup endpoint", t, func() {
		deps := newMockDependencies()
		router := newRouter(deps)

		Convey("When signing up a new student with an encoded activity name", func() {
			w := do(router, http.MethodPost, "/activities/Chess%20Club/signup?email=test@mergington.edu")

			Convey("Then the confirmation should name both", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode(w)["message"], ShouldEqual, "Signed up test@mergington.edu for Chess Club")
			})

			Convey("And the handler should see the decoded name", func() {
				So(deps.calls, ShouldContain, "signup:Chess Club:test@mergington.edu")
			})
		})

		Convey("When signing up the same student twice", func() {
			do(router, http.MethodPost, "/activities/Chess%20Club/signup?email=duplicate@mergington.edu")
			w := do(router, http.MethodPost, "/activities/Chess%20Club/signup?email=duplicate@mergington.edu")

			Convey("Then the second call should be a 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode(w)["detail"], ShouldEqual, api.DetailAlreadySignedUp)
			})
		})

		Convey("When the activity does not exist", func() {
			w := do(router, http.MethodPost, "/activities/Nonexistent%20Activity/signup?email=test@mergington.edu")

			Convey("Then a 404 should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decode(w)["detail"], ShouldEqual, api.DetailActivityNotFound)
			})
		})

		Convey("When the activity name differs only in case", func() {
			w := do(router, http.MethodPost, "/activities/chess%20club/signup?email=test@mergington.edu")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the email parameter is missing", func() {
			w := do(router, http.MethodPost, "/activities/Chess%20Club/signup")

			Convey("Then a 422 should be returned and the registry untouched", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				So(decode(w)["detail"], ShouldEqual, api.DetailMissingEmail)
				So(deps.calls, ShouldBeEmpty)
			})
		})

		Convey("When the email is not a well-formed address", func() {
			w := do(router, http.MethodPost, "/activities/Basketball/signup?email=not-an-email")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("When the email contains an encoded plus sign", func() {
			w := do(router, http.MethodPost, "/activities/Basketball/signup?email=a%2Bb@mergington.edu")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode(w)["message"], ShouldEqual, "Signed up a+b@mergington.edu for Basketball")
		})
	})
}

func TestUnregister(t *testing.T) {
	Convey("Given the unregister endpoint", t, func() {
		deps := newMockDependencies()
		router := newRouter(deps)

		Convey("When unregistering a member", func() {
			w := do(router, http.MethodPost, "/activities/Chess%20Club/unregister?email=michael@mergington.edu")

			Convey("Then the confirmation should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode(w)["message"], ShouldEqual, "Unregistered michael@mergington.edu from Chess Club")
			})
		})

		Convey("When unregistering a non-member", func() {
			w := do(router, http.MethodPost, "/activities/Chess%20Club/unregister?email=notregistered@mergington.edu")

			Convey("Then a 400 should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode(w)["detail"], ShouldEqual, api.DetailNotSignedUp)
			})
		})

		Convey("When the activity does not exist", func() {
			w := do(router, http.MethodPost, "/activities/Nonexistent%20Activity/unregister?email=test@mergington.edu")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decode(w)["detail"], ShouldEqual, api.DetailActivityNotFound)
		})

		Convey("When the email parameter is missing", func() {
			w := do(router, http.MethodPost, "/activities/Chess%20Club/unregister")
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
		})
	})
}
