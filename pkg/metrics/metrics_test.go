package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRun("feed", StatusSuccess, 120*time.Millisecond)
	m.ObserveRun("feed", StatusSuccess, time.Second)
	m.ObserveRun("synthetic", StatusFailed, time.Millisecond)
	m.Fallback(ReasonSourceUnavailable)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Runs().WithLabelValues("feed", StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs().WithLabelValues("synthetic", StatusFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Fallbacks().WithLabelValues(ReasonSourceUnavailable)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Fallbacks().WithLabelValues(ReasonNoItemField)))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, family := range families {
		names = append(names, family.GetName())
	}
	assert.Contains(t, names, "sales_forecast_pipeline_runs_total")
	assert.Contains(t, names, "sales_forecast_pipeline_fallbacks_total")
	assert.Contains(t, names, "sales_forecast_pipeline_run_duration_seconds")
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveRun("feed", StatusSuccess, time.Second)
		m.Fallback(ReasonSourceEmpty)
	})
}
