package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indigenousverify/internal/domain"
)

func TestMetrics_RecordVerdict(t *testing.T) {
	m, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	m.RecordVerdict(domain.StatusVerified)
	m.RecordVerdict(domain.StatusRejected)
	m.RecordVerdict(domain.StatusRejected)

	assert.InDelta(t, 1, testutil.ToFloat64(m.verdicts.WithLabelValues("VERIFIED")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.verdicts.WithLabelValues("REJECTED")), 0)
}

func TestMetrics_ObserveStore(t *testing.T) {
	m, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	m.ObserveStore("load", time.Now(), nil)
	m.ObserveStore("save", time.Now(), errors.New("disk full"))

	assert.InDelta(t, 0, testutil.ToFloat64(m.storeErrors.WithLabelValues("load")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.storeErrors.WithLabelValues("save")), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(m.storeDuration))
}

func TestMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)

	_, err = NewMetrics(reg)
	assert.Error(t, err)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordVerdict(domain.StatusVerified)
		m.ObserveStore("load", time.Now(), nil)
	})
	assert.Nil(t, m.Registry())
}
