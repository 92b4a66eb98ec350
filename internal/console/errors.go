package console

import "fmt"

// LaunchError means the target executable could not be started. It is the
// only fatal error in the taxonomy: the workflow aborts with zero successes.
type LaunchError struct {
	Path string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s: %v", e.Path, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// TimeoutError means no candidate pattern matched within the bounded wait.
// Preview carries the trailing output captured so far for diagnostics.
// Callers treat it as advisory, never fatal.
type TimeoutError struct {
	Preview string
}

func (e *TimeoutError) Error() string {
	return "no pattern matched before timeout"
}

// WriteError means a send failed, typically because the channel is closed.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write to target: %v", e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// ReadError means the output stream broke (EOF or an underlying read
// failure) while waiting for a pattern.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read from target: %v", e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }
