package replacer

import (
	"log/slog"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Histogram tracks a latency distribution with percentile support. Samples
// are kept in a bounded FIFO ring so long-running processes don't grow it
// unbounded.
type Histogram struct {
	samples []float64 // latencies in microseconds
	mu      sync.RWMutex
	maxSize int
	sorted  bool
}

// NewHistogram creates a new histogram retaining at most maxSize samples.
func NewHistogram(maxSize int) *Histogram {
	if maxSize <= 0 {
		maxSize = 10000
	}
	return &Histogram{
		samples: make([]float64, 0, maxSize),
		maxSize: maxSize,
		sorted:  true,
	}
}

// Record adds a latency sample (in microseconds).
func (h *Histogram) Record(latencyUs float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.samples) >= h.maxSize {
		copy(h.samples, h.samples[1:])
		h.samples = h.samples[:len(h.samples)-1]
	}

	h.samples = append(h.samples, latencyUs)
	h.sorted = false
}

// Percentile calculates the given percentile (0-100) via linear
// interpolation between the two nearest ranks.
func (h *Histogram) Percentile(p float64) float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.samples) == 0 {
		return 0
	}

	// Sort a copy so the retained samples keep their arrival order for
	// Record's FIFO eviction.
	sorted := append([]float64(nil), h.samples...)
	sort.Float64s(sorted)

	rank := (p / 100.0) * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	weight := rank - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Mean calculates the average latency.
func (h *Histogram) Mean() float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range h.samples {
		sum += v
	}
	return sum / float64(len(h.samples))
}

// Min returns the minimum latency.
func (h *Histogram) Min() float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.samples) == 0 {
		return 0
	}
	min := h.samples[0]
	for _, v := range h.samples {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the maximum latency.
func (h *Histogram) Max() float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.samples) == 0 {
		return 0
	}
	max := h.samples[0]
	for _, v := range h.samples {
		if v > max {
			max = v
		}
	}
	return max
}

// Count returns the number of retained samples.
func (h *Histogram) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.samples)
}

// Reset clears all samples.
func (h *Histogram) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.samples = h.samples[:0]
	h.sorted = true
}

// HistogramSnapshot is a point-in-time read of a Histogram's statistics.
type HistogramSnapshot struct {
	Count int
	Min   float64
	Max   float64
	Mean  float64
	P50   float64
	P95   float64
	P99   float64
}

// Snapshot captures the histogram's current statistics.
func (h *Histogram) Snapshot() HistogramSnapshot {
	return HistogramSnapshot{
		Count: h.Count(),
		Min:   h.Min(),
		Max:   h.Max(),
		Mean:  h.Mean(),
		P50:   h.Percentile(50),
		P95:   h.Percentile(95),
		P99:   h.Percentile(99),
	}
}

// Metrics tracks replacer-level counters: hits, ghost hits, evictions, and
// operation latency. It is safe for concurrent use and is optional —
// callers that don't want the overhead can simply not wire one in.
type Metrics struct {
	residentHits  atomic.Uint64 // record_access on a frame already in T1/T2
	ghostHits     atomic.Uint64 // record_access on a page found in B1/B2
	misses        atomic.Uint64 // record_access on neither
	evictions     atomic.Uint64
	removals      atomic.Uint64
	promotionsT2  atomic.Uint64 // T1 -> T2 transitions

	recordAccessLatency *Histogram
	evictLatency        *Histogram

	startTime time.Time
	mu        sync.RWMutex
}

// NewMetrics creates a new, zeroed Metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{
		startTime:           time.Now(),
		recordAccessLatency: NewHistogram(10000),
		evictLatency:        NewHistogram(10000),
	}
}

func (m *Metrics) RecordResidentHit() { m.residentHits.Add(1) }
func (m *Metrics) RecordGhostHit()    { m.ghostHits.Add(1) }
func (m *Metrics) RecordMiss()        { m.misses.Add(1) }
func (m *Metrics) RecordEviction()    { m.evictions.Add(1) }
func (m *Metrics) RecordRemoval()     { m.removals.Add(1) }
func (m *Metrics) RecordPromotion()   { m.promotionsT2.Add(1) }

// RecordAccessLatency records the latency of a RecordAccess call.
func (m *Metrics) RecordAccessLatency(d time.Duration) {
	m.recordAccessLatency.Record(float64(d.Microseconds()))
}

// RecordEvictLatency records the latency of an Evict call.
func (m *Metrics) RecordEvictLatency(d time.Duration) {
	m.evictLatency.Record(float64(d.Microseconds()))
}

func (m *Metrics) GetResidentHits() uint64 { return m.residentHits.Load() }
func (m *Metrics) GetGhostHits() uint64    { return m.ghostHits.Load() }
func (m *Metrics) GetMisses() uint64       { return m.misses.Load() }
func (m *Metrics) GetEvictions() uint64    { return m.evictions.Load() }
func (m *Metrics) GetRemovals() uint64     { return m.removals.Load() }
func (m *Metrics) GetPromotions() uint64   { return m.promotionsT2.Load() }

// GetHitRate returns (resident + ghost hits) / total accesses, or 0 if no
// accesses have been recorded.
func (m *Metrics) GetHitRate() float64 {
	hits := m.residentHits.Load() + m.ghostHits.Load()
	total := hits + m.misses.Load()
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

func (m *Metrics) GetUptime() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return time.Since(m.startTime)
}

// GetRecordAccessLatency returns a snapshot of RecordAccess latency.
func (m *Metrics) GetRecordAccessLatency() HistogramSnapshot {
	return m.recordAccessLatency.Snapshot()
}

// GetEvictLatency returns a snapshot of Evict latency.
func (m *Metrics) GetEvictLatency() HistogramSnapshot {
	return m.evictLatency.Snapshot()
}

// LogMetrics logs all counters and latency percentiles via structured
// logging.
func (m *Metrics) LogMetrics(logger *slog.Logger) {
	access := m.GetRecordAccessLatency()
	evict := m.GetEvictLatency()

	logger.Info("replacer metrics",
		slog.Group("counters",
			slog.Uint64("resident_hits", m.GetResidentHits()),
			slog.Uint64("ghost_hits", m.GetGhostHits()),
			slog.Uint64("misses", m.GetMisses()),
			slog.Float64("hit_rate", m.GetHitRate()),
			slog.Uint64("evictions", m.GetEvictions()),
			slog.Uint64("removals", m.GetRemovals()),
			slog.Uint64("promotions", m.GetPromotions()),
		),
		slog.Group("latency_us",
			slog.Group("record_access",
				slog.Int("count", access.Count),
				slog.Float64("mean", access.Mean),
				slog.Float64("p50", access.P50),
				slog.Float64("p99", access.P99),
			),
			slog.Group("evict",
				slog.Int("count", evict.Count),
				slog.Float64("mean", evict.Mean),
				slog.Float64("p50", evict.P50),
				slog.Float64("p99", evict.P99),
			),
		),
		slog.Duration("uptime", m.GetUptime()),
	)
}

// Reset zeroes all counters and histograms, restarting the uptime clock.
// Useful for tests and for long-running benchmark tools between runs.
func (m *Metrics) Reset() {
	m.residentHits.Store(0)
	m.ghostHits.Store(0)
	m.misses.Store(0)
	m.evictions.Store(0)
	m.removals.Store(0)
	m.promotionsT2.Store(0)

	m.recordAccessLatency.Reset()
	m.evictLatency.Reset()

	m.mu.Lock()
	m.startTime = time.Now()
	m.mu.Unlock()
}
