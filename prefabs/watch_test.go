package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReportsPrefabFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tuning.yaml"), []byte("tick_rate: 30\n"), 0o644))

	var got []string
	require.Eventually(t, func() bool {
		got = append(got, w.Drain()...)
		return len(got) > 0
	}, 2*time.Second, 20*time.Millisecond)
	for _, name := range got {
		assert.Equal(t, "tuning.yaml", name)
	}
}

func TestEveryBundleFileIsWatched(t *testing.T) {
	entries, err := PrefabsFS.ReadDir(".")
	require.NoError(t, err)
	for _, e := range entries {
		assert.Contains(t, Files, e.Name())
	}
}

func TestWatcherMissingDir(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestNilWatcherDrain(t *testing.T) {
	var w *Watcher
	assert.Nil(t, w.Drain())
}
