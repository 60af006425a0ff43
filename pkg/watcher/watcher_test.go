package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "task.yaml")
	other := filepath.Join(dir, "other.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	fw, err := NewFileWatcher(20 * time.Millisecond)
	require.NoError(t, err)
	defer fw.Close()

	changed := make(chan string, 4)
	require.NoError(t, fw.Watch([]string{path}, func(p string) { changed <- p }))
	fw.Start()

	// several writes collapse into one callback
	for range 3 {
		require.NoError(t, os.WriteFile(path, []byte("b"), 0o644))
	}
	require.NoError(t, os.WriteFile(other, []byte("c"), 0o644))

	select {
	case p := <-changed:
		abs, err := filepath.Abs(path)
		require.NoError(t, err)
		assert.Equal(t, abs, p)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case p := <-changed:
		t.Fatalf("unexpected second callback for %s", p)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestRemoveAll(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "task.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	fw, err := NewFileWatcher(time.Millisecond)
	require.NoError(t, err)
	defer fw.Close()

	calls := make(chan string, 1)
	require.NoError(t, fw.Watch([]string{path}, func(p string) { calls <- p }))
	require.NoError(t, fw.RemoveAll())
	fw.Start()
	require.NoError(t, os.WriteFile(path, []byte("b"), 0o644))

	select {
	case <-calls:
		t.Fatal("callback after RemoveAll")
	case <-time.After(100 * time.Millisecond):
	}
}
