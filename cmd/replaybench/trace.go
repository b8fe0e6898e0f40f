package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pierrec/lz4/v4"
	"github.com/spf13/afero"
)

// TraceOp names the replayable replacer operation a trace line describes.
type TraceOp string

const (
	OpAccess       TraceOp = "access"
	OpSetEvictable TraceOp = "set_evictable"
	OpEvict        TraceOp = "evict"
	OpRemove       TraceOp = "remove"
)

// TraceEvent is one line of a replay trace: a single replacer operation and
// its arguments. FrameID/PageID/Evictable are interpreted per Op.
type TraceEvent struct {
	Op        TraceOp `json:"op"`
	FrameID   uint32  `json:"frame_id"`
	PageID    uint32  `json:"page_id,omitempty"`
	Evictable bool    `json:"evictable,omitempty"`
}

// LoadTrace reads a JSON-lines trace file from fs, transparently
// decompressing it first if path ends in ".lz4".
func LoadTrace(fs afero.Fs, path string) ([]TraceEvent, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".lz4") {
		r = lz4.NewReader(f)
	}

	var events []TraceEvent
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var ev TraceEvent
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			return nil, fmt.Errorf("parse trace line %q: %w", line, err)
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan trace file: %w", err)
	}

	return events, nil
}

// WriteTrace serializes events as JSON-lines to path through fs,
// lz4-compressing the output if path ends in ".lz4". Used by tests to build
// fixture traces; no CLI command calls it.
func WriteTrace(fs afero.Fs, path string, events []TraceEvent) error {
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("create trace file: %w", err)
	}
	defer f.Close()

	var w io.Writer = f
	var lz4w *lz4.Writer
	if strings.HasSuffix(path, ".lz4") {
		lz4w = lz4.NewWriter(f)
		w = lz4w
	}

	enc := json.NewEncoder(w)
	for _, ev := range events {
		if err := enc.Encode(ev); err != nil {
			return fmt.Errorf("encode trace event: %w", err)
		}
	}

	if lz4w != nil {
		if err := lz4w.Close(); err != nil {
			return fmt.Errorf("close lz4 writer: %w", err)
		}
	}
	return nil
}
