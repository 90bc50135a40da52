// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	repository "github.com/okian/mergington/internal/adapters/repository"
	"github.com/okian/mergington/internal/domain/catalog"
	"github.com/okian/mergington/internal/domain/model"
	"github.com/okian/mergington/pkg/logger"
)

// ErrNotStarted is returned by registry operations before Start.
var ErrNotStarted = errors.New("service not started")

// Service owns the activity registry and exposes the signup operations.
type Service struct {
	mu sync.RWMutex

	registry repository.Store

	// Configuration
	seed                  *catalog.Seed
	seedFile              string
	enforceCapacity       bool
	metricsUpdateInterval time.Duration

	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSeed starts the registry from seed instead of the built-in catalog.
func WithSeed(seed catalog.Seed) Option {
	return func(s *Service) {
		s.seed = &seed
	}
}

// WithSeedFile loads the seed from a YAML file at Start.
// Ignored when WithSeed is also given.
func WithSeedFile(path string) Option {
	return func(s *Service) {
		s.seedFile = path
	}
}

// WithCapacityEnforcement rejects signups to full activities.
func WithCapacityEnforcement(enabled bool) Option {
	return func(s *Service) {
		s.enforceCapacity = enabled
	}
}

// WithMetricsUpdateInterval sets how often registry gauges are republished.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.metricsUpdateInterval = interval
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		metricsUpdateInterval: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the seed and builds the registry.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting activities service...")

	var seed catalog.Seed
	if s.seed != nil {
		seed = *s.seed
		if err := catalog.Validate(seed); err != nil {
			return err
		}
	} else {
		loaded, err := catalog.Load(ctx, s.seedFile)
		if err != nil {
			return err
		}
		seed = loaded
	}

	store, err := repository.NewMemoryStore(ctx, seed.Activities,
		repository.WithCapacityEnforcement(s.enforceCapacity),
		repository.WithMetricsUpdateInterval(s.metricsUpdateInterval),
	)
	if err != nil {
		return fmt.Errorf("build registry: %w", err)
	}
	s.registry = store

	s.started = true
	s.logger.Info(ctx, "activities service started",
		logger.Int("activities", store.Count(ctx)),
		logger.Int("participants", store.Participants(ctx)),
		logger.String("seedFile", s.seedFile),
		logger.Bool("enforceCapacity", s.enforceCapacity),
	)
	return nil
}

// Stop releases the registry's background resources.
// Rosters are not persisted.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping activities service...")

	if closer, ok := s.registry.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	s.started = false
	s.logger.Info(context.Background(), "activities service stopped")
}

func (s *Service) store() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.registry, nil
}

// ListActivities returns every activity in registration order.
func (s *Service) ListActivities(ctx context.Context) ([]model.Activity, error) {
	r, err := s.store()
	if err != nil {
		return nil, err
	}
	return r.List(ctx), nil
}

// Signup adds email to the named activity.
func (s *Service) Signup(ctx context.Context, activity, email string) error {
	r, err := s.store()
	if err != nil {
		return err
	}
	if err := r.Signup(ctx, activity, email); err != nil {
		s.logger.Debug(ctx, "signup rejected",
			logger.String("activity", activity),
			logger.String("email", email),
			logger.Error(err),
		)
		return err
	}
	s.logger.Info(ctx, "student signed up",
		logger.String("activity", activity),
		logger.String("email", email),
	)
	return nil
}

// Unregister removes email from the named activity.
func (s *Service) Unregister(ctx context.Context, activity, email string) error {
	r, err := s.store()
	if err != nil {
		return err
	}
	if err := r.Unregister(ctx, activity, email); err != nil {
		s.logger.Debug(ctx, "unregister rejected",
			logger.String("activity", activity),
			logger.String("email", email),
			logger.Error(err),
		)
		return err
	}
	s.logger.Info(ctx, "student unregistered",
		logger.String("activity", activity),
		logger.String("email", email),
	)
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":          s.started,
		"capacityEnforced": s.enforceCapacity,
	}
	if s.started {
		stats["activities"] = s.registry.Count(ctx)
		stats["participants"] = s.registry.Participants(ctx)
	}
	return stats
}
