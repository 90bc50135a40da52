package repository

import "time"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithCapacityEnforcement makes Signup reject a full roster with ErrActivityFull.
// Off by default: max_participants is advisory.
func WithCapacityEnforcement(enabled bool) Option {
	return func(s *MemoryStore) {
		s.enforceCapacity = enabled
	}
}

// WithMetricsUpdateInterval sets the interval for background metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *MemoryStore) {
		if interval > 0 {
			s.metricsUpdateInterval = interval
		}
	}
}
