package metric

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/rubro/errors"
)

func TestNewMetricsRegistry(t *testing.T) {
	registry := NewMetricsRegistry()
	require.NotNil(t, registry)
	require.NotNil(t, registry.Metrics)
	require.NotNil(t, registry.PrometheusRegistry())

	// Core metrics gather without error
	families, err := registry.PrometheusRegistry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestRegisterCounter(t *testing.T) {
	registry := NewMetricsRegistry()

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_counter_total",
		Help: "Test counter",
	})

	require.NoError(t, registry.RegisterCounter("resolver", "test_counter", counter))

	// Duplicate local key rejected as invalid
	err := registry.RegisterCounter("resolver", "test_counter", counter)
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestRegisterGaugeAndUnregister(t *testing.T) {
	registry := NewMetricsRegistry()

	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "test_gauge",
		Help: "Test gauge",
	})

	require.NoError(t, registry.RegisterGauge("cache", "test_gauge", gauge))
	assert.True(t, registry.Unregister("cache", "test_gauge"))
	assert.False(t, registry.Unregister("cache", "test_gauge"))

	// Re-registration after unregister succeeds
	require.NoError(t, registry.RegisterGauge("cache", "test_gauge", gauge))
}

func TestRegisterPrometheusConflict(t *testing.T) {
	registry := NewMetricsRegistry()

	first := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "conflicting_total",
		Help: "Test",
	})
	second := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "conflicting_total",
		Help: "Test",
	})

	require.NoError(t, registry.RegisterCounter("a", "one", first))

	// Same prometheus name under a different local key
	err := registry.RegisterCounter("b", "two", second)
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestCoreMetricsUsable(t *testing.T) {
	registry := NewMetricsRegistry()
	m := registry.CoreMetrics()

	m.ResolutionsTotal.WithLabelValues("strict", "hit").Inc()
	m.TaxonomyEntries.Set(12)
	m.TaxonomyDegraded.Set(0)
	m.UnresolvedTotal.WithLabelValues("invoice").Inc()

	families, err := registry.PrometheusRegistry().Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "rubro_resolver_resolutions_total" {
			found = true
		}
	}
	assert.True(t, found, "resolutions counter should be gatherable")
}
