package observability

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/v1/tickets", "GET", 200, 5*time.Millisecond)
	m.RecordRequest("/api/v1/tickets", "GET", 200, 7*time.Millisecond)
	m.RecordRequest("/api/v1/tickets", "POST", 201, time.Millisecond)
	m.RecordError("/api/v1/tickets", "POST", "VALIDATION_FAILED")

	requests, errors := m.Snapshot()
	assert.Equal(t, int64(2), requests["/api/v1/tickets|GET|200"])
	assert.Equal(t, int64(1), requests["/api/v1/tickets|POST|201"])
	assert.Equal(t, int64(1), errors["/api/v1/tickets|POST|VALIDATION_FAILED"])
}

func TestMetricsSnapshotIsACopy(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/x", "GET", 200, 0)
	requests, _ := m.Snapshot()
	requests["/x|GET|200"] = 99

	fresh, _ := m.Snapshot()
	assert.Equal(t, int64(1), fresh["/x|GET|200"])
}

func TestMetricsConcurrentAccess(t *testing.T) {
	m := NewMetrics()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordRequest("/y", "GET", 200, 0)
			m.RecordError("/y", "GET", "INTERNAL_ERROR")
		}()
	}
	wg.Wait()

	requests, errors := m.Snapshot()
	assert.Equal(t, int64(20), requests["/y|GET|200"])
	assert.Equal(t, int64(20), errors["/y|GET|INTERNAL_ERROR"])
}

func TestNilMetricsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/z", "GET", 200, 0)
	m.RecordError("/z", "GET", "X")
	requests, errors := m.Snapshot()
	assert.Empty(t, requests)
	assert.Empty(t, errors)
}
