package main

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// TestRunTraceSmoke replays a small fixture trace through an in-memory
// afero filesystem and asserts the final replacer size matches a
// hand-computed value: three distinct frames are accessed and never
// pinned, evicted, or removed, so all three must still be evictable.
func TestRunTraceSmoke(t *testing.T) {
	fs := afero.NewMemMapFs()
	tracePath := "/traces/smoke.jsonl"

	events := []TraceEvent{
		{Op: OpAccess, FrameID: 0, PageID: 100},
		{Op: OpAccess, FrameID: 1, PageID: 101},
		{Op: OpAccess, FrameID: 2, PageID: 102},
	}
	require.NoError(t, WriteTrace(fs, tracePath, events))

	cfg := RunConfig{
		TracePath:   tracePath,
		Capacity:    5,
		Algorithm:   "clock",
		Concurrency: 2,
	}

	log := newLogger(EnvDev)
	defer log.Sync()

	result, err := runTrace(context.Background(), fs, cfg, log)
	require.NoError(t, err)

	require.Equal(t, len(events), result.EventCount)
	require.Equal(t, 3, result.FinalSize)
}

// TestRunTraceSmokeSingleFrame covers the same fixture-replay path with
// Concurrency: 1 and a single frame accessed repeatedly, avoiding any
// dependency on cross-event ordering: every event targets the same frame,
// so the final size is 1 regardless of how the worker pool interleaves
// event dispatch.
func TestRunTraceSmokeSingleFrame(t *testing.T) {
	fs := afero.NewMemMapFs()
	tracePath := "/traces/smoke_single.jsonl"

	events := []TraceEvent{
		{Op: OpAccess, FrameID: 0, PageID: 100},
		{Op: OpAccess, FrameID: 0, PageID: 100},
		{Op: OpAccess, FrameID: 0, PageID: 100},
	}
	require.NoError(t, WriteTrace(fs, tracePath, events))

	cfg := RunConfig{
		TracePath:   tracePath,
		Capacity:    5,
		Algorithm:   "arc",
		Concurrency: 1,
	}

	log := newLogger(EnvDev)
	defer log.Sync()

	result, err := runTrace(context.Background(), fs, cfg, log)
	require.NoError(t, err)

	require.Equal(t, len(events), result.EventCount)
	require.Equal(t, 1, result.FinalSize)
}
