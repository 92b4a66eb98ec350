package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// findExecutable probes candidate paths and returns the first that
// exists, made absolute.
func findExecutable(candidates []string) (string, bool) {
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			if abs, err := filepath.Abs(p); err == nil {
				return abs, true
			}
			return p, true
		}
	}
	return "", false
}

// promptLine prints prompt and reads one trimmed line.
func promptLine(in io.Reader, out io.Writer, prompt string) (string, error) {
	_, _ = fmt.Fprint(out, prompt)
	sc := bufio.NewScanner(in)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.Trim(strings.TrimSpace(sc.Text()), `"`), nil
}

// confirm asks a Y/n question; empty, "y" and "yes" count as assent.
func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	line, err := promptLine(in, out, prompt)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "", "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
