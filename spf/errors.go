package spf

import (
	"errors"
	"fmt"
	"time"
)

// ErrAborted is returned when the operator requested an abort; the run stops
// at the next batch boundary.
var ErrAborted = errors.New("run aborted by operator")

// ErrRelaunchRequired signals that the application was closed (typically for
// a self-upgrade) and the current batch must restart against a fresh window.
var ErrRelaunchRequired = errors.New("application relaunch required")

// AcquisitionTimeoutError means no usable main window appeared within the
// launch deadline.
type AcquisitionTimeoutError struct {
	Title   string
	Elapsed time.Duration
}

func (e *AcquisitionTimeoutError) Error() string {
	return fmt.Sprintf("no window matching %q appeared within %s", e.Title, e.Elapsed)
}

// DialogResolutionError means a blocking dialog was found but could not be
// dismissed by any strategy.
type DialogResolutionError struct {
	Title string
	Kind  DialogKind
}

func (e *DialogResolutionError) Error() string {
	return fmt.Sprintf("could not resolve %s dialog %q", e.Kind, e.Title)
}

// InjectionError means the identifier list could not be delivered into a
// parameter prompt.
type InjectionError struct {
	Stage  string
	Window string
	Err    error
}

func (e *InjectionError) Error() string {
	return fmt.Sprintf("injection failed at %s in %q: %v", e.Stage, e.Window, e.Err)
}

func (e *InjectionError) Unwrap() error { return e.Err }

// PromptTimeoutError means an expected parameter prompt never appeared.
type PromptTimeoutError struct {
	Attempt int
	Elapsed time.Duration
}

func (e *PromptTimeoutError) Error() string {
	return fmt.Sprintf("parameter prompt %d did not appear within %s", e.Attempt, e.Elapsed)
}

// OutputTimeoutError means the result file never reached a stable non-empty
// size before the overall deadline.
type OutputTimeoutError struct {
	Path     string
	LastSize int64
	Elapsed  time.Duration
}

func (e *OutputTimeoutError) Error() string {
	return fmt.Sprintf("output %s did not stabilize within %s (last size %d)", e.Path, e.Elapsed, e.LastSize)
}

// BatchError wraps a failure with the batch it occurred in and the stage that
// failed, so partial progress is reported precisely.
type BatchError struct {
	Batch   int
	Total   int
	Stage   string
	Elapsed time.Duration
	Err     error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch %d/%d failed at %s after %s: %v", e.Batch, e.Total, e.Stage, e.Elapsed, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }
