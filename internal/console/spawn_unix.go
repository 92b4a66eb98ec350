//go:build !windows

package console

import (
	"os/exec"
	"sync"
	"time"
)

// Process is a Channel backed by a child process on a pseudo-terminal.
// It exclusively owns the child and the pty master; Close releases both
// on every exit path.
type Process struct {
	*Stream
	cmd       *exec.Cmd
	closeOnce sync.Once
	closeErr  error
}

// Spawn starts path under a pty and returns the channel to it.
// A start failure is reported as *LaunchError.
func Spawn(path string, args ...string) (*Process, error) {
	cmd := exec.Command(path, args...)
	f, err := startPty(cmd)
	if err != nil {
		return nil, &LaunchError{Path: path, Err: err}
	}
	return &Process{Stream: New(f), cmd: cmd}, nil
}

// Close closes the pty master and reaps the child. If the child does not
// exit on its own shortly after the pty closes, it is killed.
func (p *Process) Close() error {
	p.closeOnce.Do(func() {
		p.closeErr = p.Stream.Close()

		done := make(chan error, 1)
		go func() { done <- p.cmd.Wait() }()
		select {
		case <-done:
		case <-time.After(3 * time.Second):
			_ = p.cmd.Process.Kill()
			<-done
		}
	})
	return p.closeErr
}
