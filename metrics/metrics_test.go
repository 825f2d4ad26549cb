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
	m, err := New(reg)
	require.NoError(t, err)

	m.RecordSubmitted(0)
	m.RecordSubmitted(0)
	m.RecordRejected()
	m.RecordForcedWait(1)
	m.RecordUndeliverable(1)
	m.RecordAdmitted(0, 1, 5)
	m.RecordCompleted(0, 1, 10, time.Millisecond, 3*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Submitted.WithLabelValues("0")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Rejected))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ForcedWaits.WithLabelValues("1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Undeliverable.WithLabelValues("1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Admitted.WithLabelValues("0", "1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Completed.WithLabelValues("0", "1")))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.Available.WithLabelValues("0", "1")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Waiting))
}

func TestMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)
	_, err = New(reg)
	assert.Error(t, err)
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics
	m.RecordSubmitted(0)
	m.RecordRejected()
	m.RecordForcedWait(0)
	m.RecordUndeliverable(0)
	m.RecordAdmitted(0, 0, 0)
	m.RecordCompleted(0, 0, 0, 0, 0)

	unregistered, err := New(nil)
	require.NoError(t, err)
	unregistered.RecordRejected()
	assert.Equal(t, 1.0, testutil.ToFloat64(unregistered.Rejected))
}
