package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersAll(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveProbe(true, 10*time.Millisecond)
	m.ObserveProbe(false, 0)
	m.ObservePublish(OutcomeAccepted, 20*time.Millisecond)
	m.ObservePublish(OutcomeTimeout, 10*time.Second)
	m.ObserveStressConnect(true, 5*time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.probesTotal.WithLabelValues(OutcomeOK)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.probesTotal.WithLabelValues(OutcomeFail)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.publishesTotal.WithLabelValues(OutcomeAccepted)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.publishesTotal.WithLabelValues(OutcomeTimeout)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.stressConnects.WithLabelValues(OutcomeOK)))
}

func TestNilMetrics_Safe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveProbe(true, time.Millisecond)
		m.ObservePublish(OutcomeError, 0)
		m.ObserveStressConnect(false, 0)
	})
}
