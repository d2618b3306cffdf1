package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) handle(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func TestOperation_String(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpWrite, "write"},
		{OpCreate, "create"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{Operation(99), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.op.String())
	}
}

func TestWatchAndUnwatch(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	defer w.Close()

	dir := t.TempDir()
	a := filepath.Join(dir, "a.toml")
	b := filepath.Join(dir, "b.toml")
	require.NoError(t, w.Watch(a))
	require.NoError(t, w.Watch(b))
	require.NoError(t, w.Watch(a))
	assert.ElementsMatch(t, []string{a, b}, w.WatchedFiles())

	require.NoError(t, w.Unwatch(a))
	assert.Equal(t, []string{b}, w.WatchedFiles())
	require.NoError(t, w.Unwatch(a))

	assert.Error(t, w.Watch(filepath.Join(dir, "missing", "c.toml")))
}

func TestWatchAfterClose(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Watch(filepath.Join(t.TempDir(), "x")), ErrClosed)
	assert.NoError(t, w.Close())
}

func TestDeliversWriteForWatchedFileOnly(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "config.toml")
	other := filepath.Join(dir, "other.toml")
	require.NoError(t, os.WriteFile(watched, []byte("a"), 0o644))

	w, err := New(WithDebounce(0))
	require.NoError(t, err)
	defer w.Close()
	var rec recorder
	w.OnChange(rec.handle)
	require.NoError(t, w.Watch(watched))
	w.Start()
	assert.True(t, w.IsRunning())

	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(watched, []byte("b"), 0o644))

	require.Eventually(t, func() bool { return len(rec.snapshot()) > 0 }, 5*time.Second, 10*time.Millisecond)
	for _, e := range rec.snapshot() {
		assert.Equal(t, watched, e.Path)
	}
}

func TestDebounceCoalesces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	w, err := New(WithDebounce(100 * time.Millisecond))
	require.NoError(t, err)
	defer w.Close()
	var rec recorder
	w.OnChange(rec.handle)
	require.NoError(t, w.Watch(path))
	w.Start()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte{byte('a' + i)}, 0o644))
	}

	require.Eventually(t, func() bool { return len(rec.snapshot()) > 0 }, 5*time.Second, 10*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	events := rec.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, OpCreate, events[0].Op)
}

func TestQueueEventCoalescing(t *testing.T) {
	tests := []struct {
		name string
		ops  []Operation
		want Operation
	}{
		{"create then write", []Operation{OpCreate, OpWrite}, OpCreate},
		{"writes", []Operation{OpWrite, OpWrite}, OpWrite},
		{"write then remove", []Operation{OpWrite, OpRemove}, OpRemove},
		{"remove then create", []Operation{OpRemove, OpCreate}, OpWrite},
		{"rename then write", []Operation{OpRename, OpWrite}, OpWrite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &Watcher{pending: make(map[string]pendingEvent)}
			for _, op := range tt.ops {
				w.queueEvent(Event{Path: "/f", Op: op, Time: time.Now()})
			}
			assert.Equal(t, tt.want, w.pending["/f"].Op)
		})
	}
}

func TestHandlerPanicIsContained(t *testing.T) {
	w, err := New(WithDebounce(0))
	require.NoError(t, err)
	defer w.Close()

	var rec recorder
	w.OnChange(func(Event) { panic("boom") })
	w.OnChange(rec.handle)
	w.emitEvent(Event{Path: "/f", Op: OpWrite})
	assert.Len(t, rec.snapshot(), 1)
}
