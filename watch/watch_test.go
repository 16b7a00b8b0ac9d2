package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunDebouncesChanges(t *testing.T) {
	dir := t.TempDir()
	registry := filepath.Join(dir, "gl.xml")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(registry, []byte("<registry/>"), 0o644))

	w, err := New([]string{registry}, 50*time.Millisecond)
	require.NoError(t, err)

	var runs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(context.Context) error {
			runs.Add(1)
			return nil
		})
	}()

	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 10*time.Millisecond)

	// a burst of writes settles into one run
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(registry, []byte("<registry></registry>"), 0o644))
	}
	require.Eventually(t, func() bool { return runs.Load() == 2 }, 2*time.Second, 10*time.Millisecond)

	// unrelated files in the same directory are ignored
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(2), runs.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunKeepsGoingAfterTaskError(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "allow.txt")
	require.NoError(t, os.WriteFile(file, []byte("glClear\n"), 0o644))

	w, err := New([]string{file}, 20*time.Millisecond)
	require.NoError(t, err)

	var runs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx, func(context.Context) error {
		runs.Add(1)
		return assert.AnError
	})

	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, os.WriteFile(file, []byte("glDrawArrays\n"), 0o644))
	require.Eventually(t, func() bool { return runs.Load() == 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestIgnore(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "gl.go")
	w, err := New([]string{out}, 0)
	require.NoError(t, err)
	defer w.watcher.Close()

	assert.Equal(t, DefaultDebounce, w.debounce)
	assert.True(t, w.relevant(out))
	w.Ignore(out)
	assert.False(t, w.relevant(out))
	assert.False(t, w.relevant(filepath.Join(dir, "other.go")))
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "missing", "gl.xml")}, 0)
	assert.Error(t, err)
}
