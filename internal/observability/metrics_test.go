package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/messages", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/api/messages", "GET", 200, 30*time.Millisecond)
	m.RecordError("/api/messages", "GET", "FORBIDDEN")
	m.RecordEmail(true)
	m.RecordEmail(false)

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/api/messages|GET|200"])
	assert.Equal(t, int64(20), snap.AvgLatencyMilli["/api/messages|GET|200"])
	assert.Equal(t, int64(1), snap.Errors["/api/messages|GET|FORBIDDEN"])
	assert.Equal(t, int64(1), snap.EmailsSent)
	assert.Equal(t, int64(1), snap.EmailsFailed)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	m.RecordEmail(true)
	assert.Empty(t, m.Snapshot().Requests)
}
