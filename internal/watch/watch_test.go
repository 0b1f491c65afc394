package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperation_String(t *testing.T) {
	tests := []struct {
		name string
		op   Operation
		want string
	}{
		{"create", OpCreate, "CREATE"},
		{"modify", OpModify, "MODIFY"},
		{"delete", OpDelete, "DELETE"},
		{"rename", OpRename, "RENAME"},
		{"unknown", Operation(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.op.String())
		})
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.Equal(t, 300*time.Millisecond, opts.DebounceWindow)
	assert.Equal(t, 16, opts.EventBufferSize)
}

func TestOptions_WithDefaults(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want Options
	}{
		{
			name: "empty options get defaults",
			opts: Options{},
			want: DefaultOptions(),
		},
		{
			name: "partial options keep custom values",
			opts: Options{DebounceWindow: 500 * time.Millisecond},
			want: Options{DebounceWindow: 500 * time.Millisecond, EventBufferSize: 16},
		},
		{
			name: "all custom values preserved",
			opts: Options{DebounceWindow: 100 * time.Millisecond, EventBufferSize: 4},
			want: Options{DebounceWindow: 100 * time.Millisecond, EventBufferSize: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.opts.WithDefaults()
			assert.Equal(t, tt.want.DebounceWindow, got.DebounceWindow)
			assert.Equal(t, tt.want.EventBufferSize, got.EventBufferSize)
		})
	}
}

func TestNew_NoFiles_Error(t *testing.T) {
	_, err := New(nil, DefaultOptions())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no files to watch")
}

func TestNew_ResolvesWatchedSet(t *testing.T) {
	// Given: two ranking files
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.txt")
	pathB := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(pathA, []byte("x\n"), 0o644))
	require.NoError(t, os.WriteFile(pathB, []byte("y\n"), 0o644))

	// When: creating a watcher
	w, err := New([]string{pathA, pathB}, DefaultOptions())
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	// Then: the watched set holds both absolute paths, sorted
	watched := w.Watched()
	require.Len(t, watched, 2)
	assert.True(t, filepath.IsAbs(watched[0]))
	assert.True(t, filepath.IsAbs(watched[1]))
	assert.Equal(t, filepath.Base(watched[0]), "a.txt")
	assert.Equal(t, filepath.Base(watched[1]), "b.txt")
}

func TestWatcher_DetectsModify(t *testing.T) {
	// Given: a running watcher over one file
	dir := t.TempDir()
	path := filepath.Join(dir, "run.txt")
	require.NoError(t, os.WriteFile(path, []byte("v1\n"), 0o644))

	w, err := New([]string{path}, Options{DebounceWindow: 50 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the run loop a moment to start draining events
	time.Sleep(50 * time.Millisecond)

	// When: the file changes
	require.NoError(t, os.WriteFile(path, []byte("v2\n"), 0o644))

	// Then: a debounced batch for that file arrives
	select {
	case events := <-w.Events():
		require.NotEmpty(t, events)
		assert.Equal(t, path, events[0].Path)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for modify event")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for Run to return")
	}
}

func TestWatcher_IgnoresUnwatchedSiblings(t *testing.T) {
	// Given: a running watcher over one of two sibling files
	dir := t.TempDir()
	watchedPath := filepath.Join(dir, "watched.txt")
	siblingPath := filepath.Join(dir, "sibling.txt")
	require.NoError(t, os.WriteFile(watchedPath, []byte("x\n"), 0o644))
	require.NoError(t, os.WriteFile(siblingPath, []byte("y\n"), 0o644))

	w, err := New([]string{watchedPath}, Options{DebounceWindow: 50 * time.Millisecond})
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)

	// When: only the sibling changes
	require.NoError(t, os.WriteFile(siblingPath, []byte("y2\n"), 0o644))

	// Then: no event is emitted for it
	select {
	case events := <-w.Events():
		t.Fatalf("expected no events, got %v", events)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_Stop_Idempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.txt")
	require.NoError(t, os.WriteFile(path, []byte("x\n"), 0o644))

	w, err := New([]string{path}, DefaultOptions())
	require.NoError(t, err)

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())

	// Channels are closed after stop
	_, ok := <-w.Events()
	assert.False(t, ok)
	_, ok = <-w.Errors()
	assert.False(t, ok)
}
