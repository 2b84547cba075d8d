package engine

import "time"

// TimeProvider is the wall-clock source used for generation latency metrics
type TimeProvider interface {
	Now() time.Time
}

// MonotonicTimeProvider reads the system clock (monotonic reading included)
type MonotonicTimeProvider struct{}

// NewMonotonicTimeProvider creates the default provider
func NewMonotonicTimeProvider() *MonotonicTimeProvider {
	return &MonotonicTimeProvider{}
}

// Now returns time.Now()
func (MonotonicTimeProvider) Now() time.Time {
	return time.Now()
}
