package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_NilReceiverIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordHTTPRequest("GET", "/x", 200, time.Millisecond)
		m.RecordDBQuery("select", time.Millisecond, nil)
		m.RecordEvent("booking.created", nil)
		m.RecordBookingConflict()
	})
}

func TestMetrics_RecordEvent(t *testing.T) {
	m := New("booking-test")

	m.RecordEvent("booking.created", nil)
	m.RecordEvent("booking.created", errors.New("broker down"))
	m.RecordEvent("booking.created", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.eventsPublishedTotal.WithLabelValues("booking.created", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsPublishedTotal.WithLabelValues("booking.created", "error")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New("booking-test")
	m.RecordBookingConflict()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `booking_conflicts_total{service="booking-test"} 1`)
}
