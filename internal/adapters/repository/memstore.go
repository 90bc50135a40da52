package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/mergington/internal/domain/model"
	"github.com/okian/mergington/pkg/metrics"
)

// MemoryStore is the process-local activity registry.
//
// A single RWMutex guards every roster: List/Get/Count take the read lock and
// copy out, Signup/Unregister take the write lock so the membership check and
// the mutation happen atomically. The set of activities is fixed at
// construction; only rosters change afterwards.
type MemoryStore struct {
	mu     sync.RWMutex
	order  []string
	byName map[string]*model.Activity

	enforceCapacity       bool
	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore builds a registry from seed, keeping seed order.
// The seed is copied; later changes to it do not leak into the store.
// The background metrics updater stops on Close or when ctx is done.
func NewMemoryStore(ctx context.Context, seed []model.Activity, opts ...Option) (*MemoryStore, error) {
	s := &MemoryStore{
		order:                 make([]string, 0, len(seed)),
		byName:                make(map[string]*model.Activity, len(seed)),
		metricsUpdateInterval: 5 * time.Second,
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, a := range seed {
		if _, dup := s.byName[a.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateActivity, a.Name)
		}
		c := a.Clone()
		s.byName[a.Name] = &c
		s.order = append(s.order, a.Name)
	}

	s.updateMetrics()
	s.startMetricsUpdater(ctx)
	return s, nil
}

// Close stops the background metrics updater.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

// List implements Store.List.
func (s *MemoryStore) List(_ context.Context) []model.Activity {
	start := time.Now()
	defer observe("list", start)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Activity, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.byName[name].Clone())
	}
	return out
}

// Get implements Store.Get.
func (s *MemoryStore) Get(_ context.Context, name string) (model.Activity, error) {
	start := time.Now()
	defer observe("get", start)

	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.byName[name]
	if !ok {
		metrics.RecordErrorByComponent("repository", metrics.OutcomeNotFound)
		return model.Activity{}, fmt.Errorf("get %q: %w", name, ErrActivityNotFound)
	}
	return a.Clone(), nil
}

// Signup implements Store.Signup.
func (s *MemoryStore) Signup(_ context.Context, name, email string) error {
	start := time.Now()
	defer observe("signup", start)

	err := s.signup(name, email)
	metrics.RecordSignup(activityLabel(name, err), outcome(err))
	if err != nil {
		metrics.RecordErrorByComponent("repository", outcome(err))
	}
	return err
}

func (s *MemoryStore) signup(name, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byName[name]
	if !ok {
		return fmt.Errorf("signup %q: %w", name, ErrActivityNotFound)
	}
	if a.HasParticipant(email) {
		return fmt.Errorf("signup %q for %q: %w", email, name, ErrAlreadySignedUp)
	}
	if s.enforceCapacity && a.IsFull() {
		return fmt.Errorf("signup %q for %q: %w", email, name, ErrActivityFull)
	}
	a.AddParticipant(email)
	metrics.UpdateRosterSize(a.Name, len(a.Participants), a.MaxParticipants)
	return nil
}

// Unregister implements Store.Unregister.
func (s *MemoryStore) Unregister(_ context.Context, name, email string) error {
	start := time.Now()
	defer observe("unregister", start)

	err := s.unregister(name, email)
	metrics.RecordUnregister(activityLabel(name, err), outcome(err))
	if err != nil {
		metrics.RecordErrorByComponent("repository", outcome(err))
	}
	return err
}

func (s *MemoryStore) unregister(name, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byName[name]
	if !ok {
		return fmt.Errorf("unregister %q: %w", name, ErrActivityNotFound)
	}
	if !a.RemoveParticipant(email) {
		return fmt.Errorf("unregister %q from %q: %w", email, name, ErrNotSignedUp)
	}
	metrics.UpdateRosterSize(a.Name, len(a.Participants), a.MaxParticipants)
	return nil
}

// Count implements Store.Count.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Participants implements Store.Participants.
func (s *MemoryStore) Participants(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, a := range s.byName {
		n += len(a.Participants)
	}
	return n
}

// CapacityEnforced reports whether Signup rejects full rosters.
func (s *MemoryStore) CapacityEnforced() bool {
	return s.enforceCapacity
}

func (s *MemoryStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.updateMetrics()
			}
		}
	}()
}

// updateMetrics republishes every roster gauge plus the totals.
func (s *MemoryStore) updateMetrics() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, name := range s.order {
		a := s.byName[name]
		total += len(a.Participants)
		metrics.UpdateRosterSize(name, len(a.Participants), a.MaxParticipants)
	}
	metrics.UpdateActivitiesTotal(len(s.order))
	metrics.UpdateParticipantsTotal(total)
}

func observe(op string, start time.Time) {
	metrics.RecordRegistryLatency(op, float64(time.Since(start).Microseconds())/1000)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrActivityNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, ErrAlreadySignedUp):
		return metrics.OutcomeAlreadyMember
	case errors.Is(err, ErrNotSignedUp):
		return metrics.OutcomeNotMember
	case errors.Is(err, ErrActivityFull):
		return metrics.OutcomeFull
	default:
		return "error"
	}
}

func activityLabel(name string, err error) string {
	if errors.Is(err, ErrActivityNotFound) {
		return metrics.UnknownActivity
	}
	return name
}
