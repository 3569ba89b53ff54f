package entity

import (
	"errors"
	"fmt"
)

// Pipeline error taxonomy. Stages wrap these sentinels with fmt.Errorf so
// callers can classify failures with errors.Is across package boundaries.
var (
	// ErrDecode marks an unreadable or corrupt source video.
	ErrDecode = errors.New("decode error")

	// ErrSegmentation marks a source with too few keyframes to segment.
	// Reported, non-fatal: the caller decides whether to proceed with a
	// single segment.
	ErrSegmentation = errors.New("segmentation error")

	// ErrArgument marks an invalid parameter, a caller programming error.
	ErrArgument = errors.New("argument error")

	// ErrDimensionMismatch marks compositing inputs that differ in
	// resolution or duration.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// ExternalToolError reports a non-zero exit from the external media engine.
// It carries the failing stage name and the tool's diagnostic output
// verbatim, which is what operators see.
type ExternalToolError struct {
	Stage  string
	Output string
	Err    error
}

func (e *ExternalToolError) Error() string {
	return fmt.Sprintf("stage %s: external tool: %v: %s", e.Stage, e.Err, e.Output)
}

func (e *ExternalToolError) Unwrap() error {
	return e.Err
}
