package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/loykin/hallfill/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindExecutable(t *testing.T) {
	dir := t.TempDir()
	exists := filepath.Join(dir, "mobile_system")
	require.NoError(t, os.WriteFile(exists, []byte("#!/bin/sh\n"), 0o755))

	got, ok := findExecutable([]string{
		filepath.Join(dir, "absent.exe"),
		exists,
	})
	require.True(t, ok)
	assert.Equal(t, exists, got)

	_, ok = findExecutable([]string{filepath.Join(dir, "nope")})
	assert.False(t, ok)
}

func TestPromptLine(t *testing.T) {
	var out bytes.Buffer
	line, err := promptLine(strings.NewReader("  \"./mobile_system\"  \n"), &out, "path: ")
	require.NoError(t, err)
	assert.Equal(t, "./mobile_system", line)
	assert.Equal(t, "path: ", out.String())
}

func TestConfirm(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"\n", true},
		{"y\n", true},
		{"Yes\n", true},
		{"n\n", false},
		{"whatever\n", false},
	}
	for _, c := range cases {
		got, err := confirm(strings.NewReader(c.input), &bytes.Buffer{}, "? ")
		require.NoError(t, err)
		assert.Equal(t, c.want, got, "input %q", c.input)
	}
}

func fileConfig(count int) config.FileConfig {
	return config.FileConfig{Count: count}
}

func TestResolveCountValidation(t *testing.T) {
	_, err := resolveCount(&RunFlags{Count: -3}, fileConfig(0))
	assert.Error(t, err)

	n, err := resolveCount(&RunFlags{Count: 7}, fileConfig(0))
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	// Config value used when the flag is absent.
	n, err = resolveCount(&RunFlags{}, fileConfig(12))
	require.NoError(t, err)
	assert.Equal(t, 12, n)
}
