package builder

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeFakeBinary writes a tiny /bin/sh script that stands in for the
// microconfig binary, so the suite does not depend on the real microconfig
// tool being installed.
func writeFakeBinary(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake binary harness is POSIX-only")
	}
	path := filepath.Join(t.TempDir(), "microconfig")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

func TestBuildSucceeds(t *testing.T) {
	bin := writeFakeBinary(t, "exit 0\n")
	b := &MicroconfigBuilder{BinaryPath: bin}
	require.NoError(t, b.Build(context.Background(), "development", t.TempDir(), t.TempDir()))
}

func TestBuildReportsConfigBuildFailure(t *testing.T) {
	bin := writeFakeBinary(t, "echo boom 1>&2\nexit 1\n")
	b := &MicroconfigBuilder{BinaryPath: bin}
	err := b.Build(context.Background(), "development", t.TempDir(), t.TempDir())
	require.Error(t, err)
	require.Contains(t, err.Error(), "config_build_failure")
	require.Contains(t, err.Error(), "boom")
}

func TestBuildReportsInvocationFailure(t *testing.T) {
	b := &MicroconfigBuilder{BinaryPath: filepath.Join(t.TempDir(), "does-not-exist")}
	err := b.Build(context.Background(), "development", t.TempDir(), t.TempDir())
	require.Error(t, err)
	require.Contains(t, err.Error(), "command_read_failure")
}
