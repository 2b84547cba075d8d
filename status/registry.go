package status

import (
	"fmt"
	"sync/atomic"
)

// Registry is the metrics facade shared by the clock and every body
// Hot paths cache pointers at construction and write atomics directly
type Registry struct {
	Ints   *MetricMap[atomic.Int64]
	Floats *MetricMap[AtomicFloat]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Ints:   NewMetricMap[atomic.Int64](),
		Floats: NewMetricMap[AtomicFloat](),
	}
}

// Lines formats every metric as "key=value", ints first, each group sorted
func (r *Registry) Lines() []string {
	var lines []string
	r.Ints.Range(func(key string, v *atomic.Int64) {
		lines = append(lines, fmt.Sprintf("%s=%d", key, v.Load()))
	})
	r.Floats.Range(func(key string, v *AtomicFloat) {
		lines = append(lines, fmt.Sprintf("%s=%.2f", key, v.Get()))
	})
	return lines
}
