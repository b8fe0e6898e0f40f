package replacer

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// ErrorCode classifies a ViolationError.
type ErrorCode int

const (
	// ErrCodeUnknown is the zero value; never produced by this package.
	ErrCodeUnknown ErrorCode = iota

	// ErrCodeUnknownFrame: set_evictable on a frame_id the replacer has no
	// FrameStatus for (remove on an unknown frame is a no-op).
	ErrCodeUnknownFrame

	// ErrCodeNonEvictable: remove on a frame_id that is currently pinned.
	ErrCodeNonEvictable
)

// ViolationError marks a fatal caller-contract violation: a bookkeeping
// bug in the buffer pool manager, not a condition the replacer attempts
// to recover from.
type ViolationError struct {
	Code    ErrorCode
	Op      string
	FrameID uint32
	Message string
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("%s: frame %d: %s", e.Op, e.FrameID, e.Message)
}

// Is reports whether target is a ViolationError with the same code.
func (e *ViolationError) Is(target error) bool {
	t, ok := target.(*ViolationError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func errUnknownFrame(op string, frameID uint32) *ViolationError {
	return &ViolationError{
		Code:    ErrCodeUnknownFrame,
		Op:      op,
		FrameID: frameID,
		Message: "frame is not known to the replacer",
	}
}

func errNonEvictable(op string, frameID uint32) *ViolationError {
	return &ViolationError{
		Code:    ErrCodeNonEvictable,
		Op:      op,
		FrameID: frameID,
		Message: "frame is pinned (not evictable)",
	}
}

// Fatal panics with err's message prefixed by the caller's file:line. Use
// it where a ViolationError is not meant to be recovered — e.g. a
// benchmark tool replaying a trace it controls, where a ViolationError
// means the trace itself is corrupt.
func Fatal(err error) {
	if err == nil {
		return
	}
	_, file, line, ok := runtime.Caller(1)
	if !ok {
		file, line = "unknown", 0
	}
	panic(fmt.Sprintf("replacer: fatal: %v (at %s:%d)", err, filepath.Base(file), line))
}
