package service

import (
	"sort"
	"sync"
	"time"
)

// MetricsCollector tracks count and timing of page actions, keyed by operation name.
type MetricsCollector struct {
	mu  sync.RWMutex
	ops map[string]*operationStats
}

type operationStats struct {
	startTime time.Time
	endTime   time.Time
	count     int
	failures  int
	totalTime time.Duration
}

// OperationMetrics contains timing information for an operation
type OperationMetrics struct {
	Operation      string    `json:"operation"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Count          int       `json:"count"`
	Failures       int       `json:"failures"`
	ProcessingTime int64     `json:"processing_time_ms"`
}

func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{ops: make(map[string]*operationStats)}
}

// RecordStart marks the start of an operation
func (mc *MetricsCollector) RecordStart(op string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	stats, ok := mc.ops[op]
	if !ok {
		stats = &operationStats{startTime: time.Now()}
		mc.ops[op] = stats
	}
	stats.count++
}

// RecordEnd marks the end of an operation
func (mc *MetricsCollector) RecordEnd(op string, duration time.Duration, err error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	stats, ok := mc.ops[op]
	if !ok {
		return
	}
	stats.endTime = time.Now()
	stats.totalTime += duration
	if err != nil {
		stats.failures++
	}
}

// GetMetrics returns current metrics for all operations, sorted by name
func (mc *MetricsCollector) GetMetrics() []OperationMetrics {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	out := make([]OperationMetrics, 0, len(mc.ops))
	for op, stats := range mc.ops {
		out = append(out, OperationMetrics{
			Operation:      op,
			StartTime:      stats.startTime,
			EndTime:        stats.endTime,
			Count:          stats.count,
			Failures:       stats.failures,
			ProcessingTime: stats.totalTime.Milliseconds(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Operation < out[j].Operation })
	return out
}

// Reset clears all metrics
func (mc *MetricsCollector) Reset() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.ops = make(map[string]*operationStats)
}
