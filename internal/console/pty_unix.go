//go:build !windows

package console

import (
	"os"
	"os/exec"

	"github.com/creack/pty"
)

// startPty starts cmd with its stdio attached to a new pty and returns
// the master side.
func startPty(cmd *exec.Cmd) (*os.File, error) {
	return pty.StartWithSize(cmd, &pty.Winsize{Rows: 40, Cols: 120})
}
