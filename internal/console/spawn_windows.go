//go:build windows

package console

import "errors"

// Process is a Channel backed by a child process. There is no ConPTY
// implementation yet; Spawn always fails on Windows.
type Process struct {
	*Stream
}

// Spawn is not supported on Windows.
func Spawn(path string, args ...string) (*Process, error) {
	return nil, &LaunchError{Path: path, Err: errors.ErrUnsupported}
}
