package health

import (
	"encoding/json"
	"net/http"
	"sort"
	"sync"
)

// Check produces the current status of one component.
type Check func() Status

// Monitor aggregates component health checks into a system status and serves
// it over HTTP. The system is unhealthy if any check is, degraded if any
// check is degraded, healthy otherwise.
type Monitor struct {
	component string

	mu     sync.RWMutex
	checks map[string]Check
}

// NewMonitor creates a Monitor reporting under the given system component
// name.
func NewMonitor(component string) *Monitor {
	return &Monitor{
		component: component,
		checks:    make(map[string]Check),
	}
}

// Register adds or replaces a named health check.
func (m *Monitor) Register(name string, check Check) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checks[name] = check
}

// Snapshot evaluates all checks and aggregates them.
func (m *Monitor) Snapshot() Status {
	m.mu.RLock()
	names := make([]string, 0, len(m.checks))
	for name := range m.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	checks := make([]Check, 0, len(names))
	for _, name := range names {
		checks = append(checks, m.checks[name])
	}
	m.mu.RUnlock()

	system := Healthy(m.component, "")
	for _, check := range checks {
		sub := check()
		system = system.WithSubStatus(sub)
		if sub.IsUnhealthy() {
			system.Healthy = false
			system.Status = StatusUnhealthy
		} else if sub.IsDegraded() && system.Status != StatusUnhealthy {
			system.Healthy = false
			system.Status = StatusDegraded
		}
	}
	return system
}

// ServeHTTP serves the aggregated status as JSON. Unhealthy returns 503,
// degraded and healthy return 200 (degraded processes still serve traffic).
func (m *Monitor) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	status := m.Snapshot()

	w.Header().Set("Content-Type", "application/json")
	if status.IsUnhealthy() {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	_ = json.NewEncoder(w).Encode(status)
}
