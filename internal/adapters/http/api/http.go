// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/okian/mergington/internal/domain/model"
	"github.com/okian/mergington/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ListActivities(ctx context.Context) ([]model.Activity, error)
	Signup(ctx context.Context, activity, email string) error
	Unregister(ctx context.Context, activity, email string) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	activitiesHandler *ActivitiesHandler
	logger            logger.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the logger used for access logs and internal errors.
func WithLogger(l logger.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	s := &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.activitiesHandler = NewActivitiesHandler(deps, s.logger)
	return s
}

// Register attaches all HTTP routes to router.
func (s *Server) Register(_ context.Context, router *mux.Router) {
	if router == nil {
		panic("router is nil")
	}

	router.Use(RequestIDMiddleware)
	if s.logger != nil {
		router.Use(AccessLogMiddleware(s.logger))
	}

	router.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz")).Methods(http.MethodGet)
	router.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats")).Methods(http.MethodGet)

	router.HandleFunc("/activities",
		MetricsMiddleware(s.activitiesHandler.HandleList, "activities")).Methods(http.MethodGet)
	router.HandleFunc("/activities/{activity_name}/signup",
		MetricsMiddleware(s.activitiesHandler.HandleSignup, "signup")).Methods(http.MethodPost)
	router.HandleFunc("/activities/{activity_name}/unregister",
		MetricsMiddleware(s.activitiesHandler.HandleUnregister, "unregister")).Methods(http.MethodPost)

	router.NotFoundHandler = MetricsMiddleware(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	}, "not_found")
	router.MethodNotAllowedHandler = MetricsMiddleware(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	}, "method_not_allowed")
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}
