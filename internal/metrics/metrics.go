// Package metrics keeps per-process run counters exposed by the optional
// monitoring endpoints.
package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	EntriesProcessed   int64
	ItemsRejected      int64
	DuplicatesFiltered int64
	PostsSent          int64
	NoPostRuns         int64

	LastProcessingTime time.Duration
	LastRunTime        time.Time
	LastError          string
	LastErrorTime      time.Time
	IsHealthy          bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) AddEntriesProcessed(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EntriesProcessed += int64(n)
}

func (m *Metrics) AddItemsRejected(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ItemsRejected += int64(n)
}

func (m *Metrics) AddDuplicatesFiltered(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesFiltered += int64(n)
}

func (m *Metrics) IncrementPostsSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PostsSent++
}

func (m *Metrics) IncrementNoPostRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NoPostRuns++
}

func (m *Metrics) RecordRun(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastProcessingTime = d
	m.LastRunTime = time.Now()
}

func (m *Metrics) RecordError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err.Error()
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

// GetStats snapshots the counters for the JSON monitoring handlers.
func (m *Metrics) GetStats() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]any{
		"entries_processed":   m.EntriesProcessed,
		"items_rejected":      m.ItemsRejected,
		"duplicates_filtered": m.DuplicatesFiltered,
		"posts_sent":          m.PostsSent,
		"no_post_runs":        m.NoPostRuns,
		"last_processing_ms":  m.LastProcessingTime.Milliseconds(),
		"last_run_time":       m.LastRunTime,
		"last_error":          m.LastError,
		"last_error_time":     m.LastErrorTime,
		"is_healthy":          m.IsHealthy,
	}
}
