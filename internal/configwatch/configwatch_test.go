package configwatch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeTarget struct {
	count atomic.Int64
}

func (f *fakeTarget) SetSuppliersCount(count int) {
	f.count.Store(int64(count))
}

func TestReloadOnWriteAppliesSuppliersCount(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Environments: [development]\nConfigSuppliersCount: 3\n"), 0o644))

	target := &fakeTarget{}
	w, err := New(path, target)
	require.NoError(t, err)
	w.debounceTime = 10 * time.Millisecond
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(path, []byte("Environments: [development]\nConfigSuppliersCount: 7\n"), 0o644))

	require.Eventually(t, func() bool {
		return target.count.Load() == 7
	}, time.Second, 10*time.Millisecond)
}
