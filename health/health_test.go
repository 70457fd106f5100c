package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusConstructors(t *testing.T) {
	h := Healthy("taxonomy", "dataset loaded")
	assert.True(t, h.IsHealthy())
	assert.True(t, h.Healthy)
	assert.Equal(t, StatusHealthy, h.Status)
	assert.False(t, h.Timestamp.IsZero())

	d := Degraded("taxonomy", "embedded snapshot")
	assert.True(t, d.IsDegraded())
	assert.False(t, d.Healthy)

	u := Unhealthy("store", "unreachable")
	assert.True(t, u.IsUnhealthy())
	assert.False(t, u.Healthy)
}

func TestWithSubStatusDoesNotShareSlices(t *testing.T) {
	base := Healthy("system", "")
	a := base.WithSubStatus(Healthy("a", ""))
	b := base.WithSubStatus(Degraded("b", ""))

	require.Len(t, a.SubStatuses, 1)
	require.Len(t, b.SubStatuses, 1)
	assert.Equal(t, "a", a.SubStatuses[0].Component)
	assert.Equal(t, "b", b.SubStatuses[0].Component)
}

func TestMonitorAggregation(t *testing.T) {
	m := NewMonitor("rubro")
	m.Register("taxonomy", func() Status { return Healthy("taxonomy", "") })
	m.Register("store", func() Status { return Healthy("store", "") })

	status := m.Snapshot()
	assert.True(t, status.IsHealthy())
	assert.Len(t, status.SubStatuses, 2)

	// One degraded check degrades the system
	m.Register("store", func() Status { return Degraded("store", "fallback") })
	status = m.Snapshot()
	assert.True(t, status.IsDegraded())

	// One unhealthy check outranks degraded
	m.Register("taxonomy", func() Status { return Unhealthy("taxonomy", "gone") })
	status = m.Snapshot()
	assert.True(t, status.IsUnhealthy())
}

func TestMonitorServeHTTP(t *testing.T) {
	m := NewMonitor("rubro")
	m.Register("taxonomy", func() Status { return Degraded("taxonomy", "embedded snapshot") })

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	// Degraded still serves traffic
	assert.Equal(t, http.StatusOK, rec.Code)

	var status Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, StatusDegraded, status.Status)
	require.Len(t, status.SubStatuses, 1)
	assert.Equal(t, "taxonomy", status.SubStatuses[0].Component)
}

func TestMonitorServeHTTPUnhealthy(t *testing.T) {
	m := NewMonitor("rubro")
	m.Register("store", func() Status { return Unhealthy("store", "unreachable") })

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
