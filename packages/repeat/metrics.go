package repeat

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	minLatencyUs = 1
	maxLatencyUs = 60_000_000
)

// Metrics collects submission latencies and outcomes. Safe for concurrent use.
type Metrics struct {
	mu sync.Mutex

	total   int64
	success int64
	errors  int64

	// Latency histogram in microseconds, 1us to 60s, 3 significant digits
	histogram *hdrhistogram.Histogram

	startTime time.Time
	endTime   time.Time
}

// NewMetrics creates a new Metrics collector
func NewMetrics() *Metrics {
	return &Metrics{
		histogram: hdrhistogram.New(minLatencyUs, maxLatencyUs, 3),
	}
}

// Start marks the beginning of the run
func (m *Metrics) Start() {
	m.mu.Lock()
	m.startTime = time.Now()
	m.mu.Unlock()
}

// Stop marks the end of the run
func (m *Metrics) Stop() {
	m.mu.Lock()
	m.endTime = time.Now()
	m.mu.Unlock()
}

// Record records one submission
func (m *Metrics) Record(duration time.Duration, err error) {
	latencyUs := min(max(duration.Microseconds(), minLatencyUs), maxLatencyUs)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.total++
	if err != nil {
		m.errors++
	} else {
		m.success++
	}
	_ = m.histogram.RecordValue(latencyUs)
}

// Summary is the final result of a run.
type Summary struct {
	Duration     time.Duration
	Total        int64
	SuccessCount int64
	ErrorCount   int64

	RPS       float64
	ErrorRate float64

	P50    time.Duration
	P95    time.Duration
	P99    time.Duration
	Min    time.Duration
	Max    time.Duration
	Mean   time.Duration
	StdDev time.Duration
}

// Summary returns the metrics summary
func (m *Metrics) Summary() *Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	duration := m.endTime.Sub(m.startTime)
	if m.endTime.IsZero() {
		duration = time.Since(m.startTime)
	}

	s := &Summary{
		Duration:     duration,
		Total:        m.total,
		SuccessCount: m.success,
		ErrorCount:   m.errors,
	}
	if duration.Seconds() > 0 {
		s.RPS = float64(m.total) / duration.Seconds()
	}
	if m.total == 0 {
		return s
	}

	s.ErrorRate = float64(m.errors) / float64(m.total)
	s.P50 = usToDuration(m.histogram.ValueAtQuantile(50))
	s.P95 = usToDuration(m.histogram.ValueAtQuantile(95))
	s.P99 = usToDuration(m.histogram.ValueAtQuantile(99))
	s.Min = usToDuration(m.histogram.Min())
	s.Max = usToDuration(m.histogram.Max())
	s.Mean = time.Duration(m.histogram.Mean() * float64(time.Microsecond))
	s.StdDev = time.Duration(m.histogram.StdDev() * float64(time.Microsecond))
	return s
}

func usToDuration(us int64) time.Duration {
	return time.Duration(us) * time.Microsecond
}
