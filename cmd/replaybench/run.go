package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pagereplace/replaybench/replacer"
)

// RunConfig is the resolved configuration for a single replaybench run.
type RunConfig struct {
	TracePath   string
	Capacity    uint32
	Algorithm   string
	Concurrency int
}

// RunResult summarizes a completed replay.
type RunResult struct {
	RunID      string
	EventCount int
	FinalSize  int
	Metrics    *replacer.Metrics
}

// runTrace replays every event in the trace at cfg.TracePath against a
// freshly constructed replacer, fanning out across cfg.Concurrency workers
// via an ants pool. All workers share the single replacer instance,
// exercising the linearizability guarantee its internal mutex provides.
func runTrace(ctx context.Context, fs afero.Fs, cfg RunConfig, log *zap.SugaredLogger) (*RunResult, error) {
	runID := uuid.New().String()
	log = log.With("run_id", runID)

	events, err := LoadTrace(fs, cfg.TracePath)
	if err != nil {
		return nil, fmt.Errorf("load trace: %w", err)
	}
	log.Infow("loaded trace", "events", len(events), "capacity", cfg.Capacity, "algorithm", cfg.Algorithm)

	r := replacer.New(cfg.Algorithm, cfg.Capacity)
	metrics := replacer.NewMetrics()

	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	pool, err := ants.NewPool(concurrency)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	eg, egCtx := errgroup.WithContext(ctx)
	for i, ev := range events {
		ev := ev
		idx := i
		eg.Go(func() error {
			select {
			case <-egCtx.Done():
				return egCtx.Err()
			default:
			}

			done := make(chan error, 1)
			submitErr := pool.Submit(func() {
				done <- applyEvent(r, metrics, ev, log)
			})
			if submitErr != nil {
				return fmt.Errorf("submit event %d: %w", idx, submitErr)
			}
			return <-done
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("replay failed: %w", err)
	}

	finalSize := r.Size()
	log.Infow("run complete", "events", len(events), "hit_rate", metrics.GetHitRate(), "final_size", finalSize)

	return &RunResult{
		RunID:      runID,
		EventCount: len(events),
		FinalSize:  finalSize,
		Metrics:    metrics,
	}, nil
}

// applyEvent dispatches a single trace event to r, updating metrics.
// ViolationErrors from set_evictable/remove are caller-contract
// violations in the trace itself and are escalated via replacer.Fatal.
func applyEvent(r replacer.Replacer, metrics *replacer.Metrics, ev TraceEvent, log *zap.SugaredLogger) error {
	switch ev.Op {
	case OpAccess:
		start := time.Now()
		result := r.RecordAccess(ev.FrameID, ev.PageID)
		metrics.RecordAccessLatency(time.Since(start))

		switch result {
		case replacer.AccessPromoted:
			metrics.RecordResidentHit()
			metrics.RecordPromotion()
		case replacer.AccessResidentHit:
			metrics.RecordResidentHit()
		case replacer.AccessGhostHit:
			metrics.RecordGhostHit()
		case replacer.AccessMiss:
			metrics.RecordMiss()
		}
	case OpSetEvictable:
		if err := r.SetEvictable(ev.FrameID, ev.Evictable); err != nil {
			replacer.Fatal(err)
		}
	case OpEvict:
		start := time.Now()
		victim, ok := r.Evict()
		metrics.RecordEvictLatency(time.Since(start))
		metrics.RecordEviction()
		log.Debugw("evict", "victim", victim, "ok", ok)
	case OpRemove:
		if err := r.Remove(ev.FrameID); err != nil {
			replacer.Fatal(err)
		}
		metrics.RecordRemoval()
	default:
		return fmt.Errorf("unknown trace op %q", ev.Op)
	}
	return nil
}
