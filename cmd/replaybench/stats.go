package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang/snappy"
	"github.com/spf13/afero"

	"github.com/pagereplace/replaybench/replacer"
)

// StatsSnapshot is the JSON shape written by `replaybench run --export` and
// read back by `replaybench stats --path`.
type StatsSnapshot struct {
	RunID       string                      `json:"run_id"`
	CapturedAt  time.Time                   `json:"captured_at"`
	ResidentHit uint64                      `json:"resident_hits"`
	GhostHit    uint64                      `json:"ghost_hits"`
	Misses      uint64                      `json:"misses"`
	Evictions   uint64                      `json:"evictions"`
	Removals    uint64                      `json:"removals"`
	Promotions  uint64                      `json:"promotions"`
	HitRate     float64                     `json:"hit_rate"`
	AccessLat   replacer.HistogramSnapshot  `json:"access_latency_us"`
	EvictLat    replacer.HistogramSnapshot  `json:"evict_latency_us"`
}

// snapshotMetrics flattens a replacer.Metrics into the exportable shape.
func snapshotMetrics(runID string, m *replacer.Metrics) StatsSnapshot {
	return StatsSnapshot{
		RunID:       runID,
		CapturedAt:  time.Now(),
		ResidentHit: m.GetResidentHits(),
		GhostHit:    m.GetGhostHits(),
		Misses:      m.GetMisses(),
		Evictions:   m.GetEvictions(),
		Removals:    m.GetRemovals(),
		Promotions:  m.GetPromotions(),
		HitRate:     m.GetHitRate(),
		AccessLat:   m.GetRecordAccessLatency(),
		EvictLat:    m.GetEvictLatency(),
	}
}

// exportStats JSON-marshals snap, snappy-compresses it, and writes it to
// path through fs.
func exportStats(fs afero.Fs, path string, snap StatsSnapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal stats snapshot: %w", err)
	}

	compressed := snappy.Encode(nil, data)

	if err := afero.WriteFile(fs, path, compressed, 0644); err != nil {
		return fmt.Errorf("write stats snapshot: %w", err)
	}
	return nil
}

// loadStats reverses exportStats: reads path through fs, snappy-decodes it,
// and unmarshals the JSON snapshot.
func loadStats(fs afero.Fs, path string) (StatsSnapshot, error) {
	var snap StatsSnapshot

	compressed, err := afero.ReadFile(fs, path)
	if err != nil {
		return snap, fmt.Errorf("read stats snapshot: %w", err)
	}

	data, err := snappy.Decode(nil, compressed)
	if err != nil {
		return snap, fmt.Errorf("decode stats snapshot: %w", err)
	}

	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("unmarshal stats snapshot: %w", err)
	}
	return snap, nil
}
