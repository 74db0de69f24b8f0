package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestWatcherRun(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())

	changes := make(chan []string, 8)
	done := make(chan error, 1)
	w := &Watcher{Dir: dir, Quiet: 100 * time.Millisecond, Tick: 20 * time.Millisecond}
	go func() {
		done <- w.Run(ctx, func(paths []string) { changes <- paths })
	}()

	// give the watcher time to register the folder
	time.Sleep(100 * time.Millisecond)
	calidad := filepath.Join(dir, "Calidad__Pases.xlsx")
	tmd := filepath.Join(dir, "TMD__BD.csv")
	require.NoError(t, os.WriteFile(calidad, []byte("a"), 0644))
	require.NoError(t, os.WriteFile(tmd, []byte("b"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("c"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "~$Calidad__Pases.xlsx"), []byte("d"), 0644))

	seen := make(map[string]bool)
	timeout := time.After(5 * time.Second)
	for len(seen) < 2 {
		select {
		case paths := <-changes:
			for _, p := range paths {
				seen[p] = true
			}
		case <-timeout:
			t.Fatalf("changes not reported, got %v", seen)
		}
	}
	assert.Equal(t, map[string]bool{calidad: true, tmd: true}, seen)

	cancel()
	assert.NoError(t, <-done)
}

func TestWatcherMissingDir(t *testing.T) {
	w := &Watcher{Dir: filepath.Join(t.TempDir(), "missing")}
	assert.Error(t, w.Run(context.Background(), func([]string) {}))
}

func TestRelevant(t *testing.T) {
	tests := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: "/d/DR__Reporte.xlsx", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "/d/DR__Reporte.xlsx", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "/d/.DR__Reporte.xlsx", Op: fsnotify.Create}, false},
		{fsnotify.Event{Name: "/d/readme.md", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: "/d/TMD.csv", Op: fsnotify.Rename}, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, relevant(tt.event), tt.event.String())
	}
}
