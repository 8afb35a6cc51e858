package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu              sync.Mutex
	requestCount    map[string]int64
	errorCount      map[string]int64
	categoryCount   map[domain.Category]int64
	actionCount     map[domain.SuggestedAction]int64
	fallbackCount   int64
	requestDuration time.Duration
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	Requests        map[string]int64                 `json:"requests"`
	Errors          map[string]int64                 `json:"errors"`
	Categories      map[domain.Category]int64        `json:"categories"`
	Actions         map[domain.SuggestedAction]int64 `json:"actions"`
	ChatFallbacks   int64                            `json:"chat_fallbacks"`
	AvgLatencyMilli float64                          `json:"avg_latency_ms"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:  make(map[string]int64),
		errorCount:    make(map[string]int64),
		categoryCount: make(map[domain.Category]int64),
		actionCount:   make(map[domain.SuggestedAction]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.requestDuration += duration
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordClassification counts a chat response by category and suggested action.
func (m *Metrics) RecordClassification(category domain.Category, action domain.SuggestedAction) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categoryCount[category]++
	m.actionCount[action]++
}

// RecordChatFallback counts responses served from the fallback path.
func (m *Metrics) RecordChatFallback() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallbackCount++
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		Requests:   map[string]int64{},
		Errors:     map[string]int64{},
		Categories: map[domain.Category]int64{},
		Actions:    map[domain.SuggestedAction]int64{},
	}
	if m == nil {
		return snap
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var total int64
	for k, v := range m.requestCount {
		snap.Requests[k] = v
		total += v
	}
	for k, v := range m.errorCount {
		snap.Errors[k] = v
	}
	for k, v := range m.categoryCount {
		snap.Categories[k] = v
	}
	for k, v := range m.actionCount {
		snap.Actions[k] = v
	}
	snap.ChatFallbacks = m.fallbackCount
	if total > 0 {
		snap.AvgLatencyMilli = float64(m.requestDuration.Milliseconds()) / float64(total)
	}
	return snap
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
