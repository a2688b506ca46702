package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservers(t *testing.T) {
	m := New()

	m.ObserveEvaluation(nil)
	m.ObserveEvaluation(errors.New("boom"))
	m.ObserveEvaluation(nil)
	m.ObserveAward("b1")
	m.ObserveDuplicate()
	m.ObserveAwardFailure()
	m.ObserveBatch(3*time.Second, 2, 1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Evaluations.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Evaluations.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BadgesAwarded.WithLabelValues("b1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DuplicateAwards))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AwardFailures))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.BatchUsers.WithLabelValues("ok")))
}

func TestObserveBatchRecordsDuration(t *testing.T) {
	m := New()
	m.ObserveBatch(1500*time.Millisecond, 1, 0)

	families, err := m.registry.Gather()
	require.NoError(t, err)

	found := false
	for _, family := range families {
		if family.GetName() != "nocodejam_badges_batch_duration_seconds" {
			continue
		}
		found = true
		histogram := family.GetMetric()[0].GetHistogram()
		assert.Equal(t, uint64(1), histogram.GetSampleCount())
		assert.InDelta(t, 1.5, histogram.GetSampleSum(), 1e-9)
	}
	assert.True(t, found)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveEvaluation(nil)
		m.ObserveAward("b1")
		m.ObserveDuplicate()
		m.ObserveAwardFailure()
		m.ObserveBatch(time.Second, 1, 0)
	})
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.ObserveAward("first-steps")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `nocodejam_badges_awarded_total{badge_id="first-steps"} 1`)
}
