package main

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndLoadTracePlain(t *testing.T) {
	fs := afero.NewMemMapFs()

	events := []TraceEvent{
		{Op: OpAccess, FrameID: 0, PageID: 100},
		{Op: OpAccess, FrameID: 1, PageID: 101},
		{Op: OpSetEvictable, FrameID: 0, Evictable: false},
		{Op: OpEvict},
		{Op: OpRemove, FrameID: 1},
	}

	require.NoError(t, WriteTrace(fs, "/trace.jsonl", events))

	loaded, err := LoadTrace(fs, "/trace.jsonl")
	require.NoError(t, err)
	assert.Equal(t, events, loaded)
}

func TestWriteAndLoadTraceCompressed(t *testing.T) {
	fs := afero.NewMemMapFs()

	events := []TraceEvent{
		{Op: OpAccess, FrameID: 0, PageID: 100},
		{Op: OpAccess, FrameID: 1, PageID: 101},
	}

	require.NoError(t, WriteTrace(fs, "/trace.jsonl.lz4", events))

	loaded, err := LoadTrace(fs, "/trace.jsonl.lz4")
	require.NoError(t, err)
	assert.Equal(t, events, loaded)
}

func TestLoadTraceSkipsBlankLines(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/trace.jsonl", []byte(
		"{\"op\":\"access\",\"frame_id\":0,\"page_id\":10}\n\n{\"op\":\"evict\"}\n",
	), 0644))

	loaded, err := LoadTrace(fs, "/trace.jsonl")
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, OpAccess, loaded[0].Op)
	assert.Equal(t, OpEvict, loaded[1].Op)
}

func TestLoadTraceMissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := LoadTrace(fs, "/nope.jsonl")
	assert.Error(t, err)
}

func TestLoadTraceMalformedLine(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/trace.jsonl", []byte("not json\n"), 0644))

	_, err := LoadTrace(fs, "/trace.jsonl")
	assert.Error(t, err)
}
