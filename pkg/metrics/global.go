package metrics

import (
	"sync"
)

var (
	globalMetrics *Metrics
	mu            sync.RWMutex
)

// SetGlobal installs the process-wide metrics instance. Called once at
// startup, before serving.
func SetGlobal(m *Metrics) {
	mu.Lock()
	defer mu.Unlock()
	globalMetrics = m
}

// Global returns the process-wide metrics instance, or nil when metrics are
// not initialized (tests that don't care about instrumentation).
func Global() *Metrics {
	mu.RLock()
	defer mu.RUnlock()
	return globalMetrics
}
