// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package fsutil

import (
	"os"
	"os/user"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadLines(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "settings.txt")
	require.NoError(t, os.WriteFile(filePath, []byte("# comment\nseed=3\n\n  updater=adam  \n"), 0o644))
	lines, err := ReadLines(filePath)
	require.NoError(t, err)
	require.Equal(t, []string{"seed=3", "updater=adam"}, lines)

	exists, err := FileExists(filePath)
	require.NoError(t, err)
	require.True(t, exists)
	exists, err = FileExists(filePath + ".missing")
	require.NoError(t, err)
	require.False(t, exists)

	_, err = ReadLines(filePath + ".missing")
	require.Error(t, err)
}

func TestReplaceTildeInDir(t *testing.T) {
	dir, err := ReplaceTildeInDir("/tmp/x")
	require.NoError(t, err)
	require.Equal(t, "/tmp/x", dir)

	usr, err := user.Current()
	if err != nil {
		t.Skip("current user unknown")
	}
	dir, err = ReplaceTildeInDir("~/graphs")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(usr.HomeDir, "graphs"), dir)
}
