package service

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/academy-ledger-api/pkg/errors"
)

func TestMetricsSnapshotAggregates(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodGet, "/students", 200, 10*time.Millisecond)
	m.ObserveHTTPRequest(http.MethodGet, "/students", 200, 30*time.Millisecond)
	m.ObserveLedgerOperation("enroll", nil, time.Millisecond)
	m.ObserveLedgerOperation("enroll", appErrors.Clone(appErrors.ErrCourseFull, ""), time.Millisecond)
	m.ObserveReminder(nil)
	m.ObserveReminder(errors.New("smtp down"))
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)

	snap := m.Snapshot()
	assert.Equal(t, uint64(2), snap.RequestsTotal)
	assert.InDelta(t, 20.0, snap.AverageRequestDurationMs, 0.001)
	assert.Equal(t, uint64(2), snap.LedgerOperations)
	assert.Equal(t, uint64(1), snap.LedgerFailures)
	assert.Equal(t, uint64(1), snap.RemindersSent)
	assert.InDelta(t, 0.5, snap.CacheHitRatio, 0.001)
}

func TestMetricsHandlerExposesLedgerCounters(t *testing.T) {
	m := NewMetricsService()
	m.ObserveLedgerOperation("record_payment", appErrors.Clone(appErrors.ErrNotFound, "invoice not found"), time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `ledger_operations_total{operation="record_payment",outcome="NOT_FOUND"} 1`)
}

func TestNilMetricsServiceIsSafe(t *testing.T) {
	var m *MetricsService
	m.ObserveLedgerOperation("enroll", nil, time.Millisecond)
	m.ObserveReminder(nil)
	m.ObserveSnapshotQuery("list", time.Millisecond)
	assert.Zero(t, m.Snapshot().LedgerOperations)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
