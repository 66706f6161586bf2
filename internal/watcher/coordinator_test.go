package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mvp-joe/tsdoc/internal/indexer"
	"github.com/mvp-joe/tsdoc/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for WatchCoordinator:
// - File change events call IndexFiles with the changed files
// - onIndexed only hears about runs that changed storage
// - IndexFiles errors are logged and do not stop the coordinator
// - Reindex pauses the watcher around a full Index
// - A watcher Start error is returned and the watcher is stopped
// - Context cancellation stops the watcher
// - End to end: writing a file updates the index through a real watcher

// mockFileWatcher implements FileWatcher for testing.
type mockFileWatcher struct {
	mu            sync.Mutex
	startErr      error
	startCallback func(files []string)
	started       chan struct{}
	pauseCount    int
	resumeCount   int
	pausedDuring  bool
	stopCalled    bool
}

func newMockFileWatcher() *mockFileWatcher {
	return &mockFileWatcher{started: make(chan struct{})}
}

func (m *mockFileWatcher) Start(ctx context.Context, callback func(files []string)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.startErr != nil {
		return m.startErr
	}
	m.startCallback = callback
	close(m.started)
	return nil
}

func (m *mockFileWatcher) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCalled = true
	return nil
}

func (m *mockFileWatcher) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauseCount++
}

func (m *mockFileWatcher) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resumeCount++
}

func (m *mockFileWatcher) trigger(files []string) {
	m.mu.Lock()
	callback := m.startCallback
	m.mu.Unlock()
	callback(files)
}

func (m *mockFileWatcher) paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pauseCount > m.resumeCount
}

// mockIndexer implements Indexer for testing.
type mockIndexer struct {
	mu       sync.Mutex
	watcher  *mockFileWatcher
	hints    [][]string
	fullRuns int
	stats    *indexer.Stats
	err      error
}

func (m *mockIndexer) Index(ctx context.Context) (*indexer.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fullRuns++
	if m.watcher != nil && m.watcher.paused() {
		m.watcher.mu.Lock()
		m.watcher.pausedDuring = true
		m.watcher.mu.Unlock()
	}
	return m.stats, m.err
}

func (m *mockIndexer) IndexFiles(ctx context.Context, paths []string) (*indexer.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hints = append(m.hints, paths)
	return m.stats, m.err
}

// startCoordinator runs Start in the background until the test ends.
func startCoordinator(t *testing.T, c *WatchCoordinator, fw *mockFileWatcher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	select {
	case <-fw.started:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher not started")
	}
}

func TestWatchCoordinator_FileChange(t *testing.T) {
	t.Parallel()

	// Setup
	fw := newMockFileWatcher()
	idx := &mockIndexer{stats: &indexer.Stats{Written: []string{"a.ts"}}}
	var notified []*indexer.Stats
	c := NewWatchCoordinator(fw, idx, func(s *indexer.Stats) { notified = append(notified, s) })
	startCoordinator(t, c, fw)

	// Execute
	fw.trigger([]string{"/p/a.ts", "/p/b.ts"})
	fw.trigger(nil)

	// Verify
	assert.Equal(t, [][]string{{"/p/a.ts", "/p/b.ts"}}, idx.hints)
	require.Len(t, notified, 1)
	assert.Same(t, idx.stats, notified[0])
}

func TestWatchCoordinator_NoChangesNotNotified(t *testing.T) {
	t.Parallel()

	fw := newMockFileWatcher()
	idx := &mockIndexer{stats: &indexer.Stats{FilesUnchanged: 1}}
	notified := 0
	c := NewWatchCoordinator(fw, idx, func(*indexer.Stats) { notified++ })
	startCoordinator(t, c, fw)

	fw.trigger([]string{"/p/a.ts"})

	assert.Len(t, idx.hints, 1)
	assert.Equal(t, 0, notified)
}

func TestWatchCoordinator_IndexErrorContinues(t *testing.T) {
	t.Parallel()

	fw := newMockFileWatcher()
	idx := &mockIndexer{err: errors.New("disk full")}
	c := NewWatchCoordinator(fw, idx, nil)
	startCoordinator(t, c, fw)

	fw.trigger([]string{"/p/a.ts"})
	fw.trigger([]string{"/p/b.ts"})

	assert.Len(t, idx.hints, 2)
}

func TestWatchCoordinator_Reindex(t *testing.T) {
	t.Parallel()

	// Setup
	fw := newMockFileWatcher()
	idx := &mockIndexer{watcher: fw, stats: &indexer.Stats{Written: []string{"a.ts"}}}
	notified := 0
	c := NewWatchCoordinator(fw, idx, func(*indexer.Stats) { notified++ })

	// Execute
	stats, err := c.Reindex(context.Background())

	// Verify
	require.NoError(t, err)
	assert.Same(t, idx.stats, stats)
	assert.Equal(t, 1, idx.fullRuns)
	assert.True(t, fw.pausedDuring)
	assert.Equal(t, 1, fw.pauseCount)
	assert.Equal(t, 1, fw.resumeCount)
	assert.Equal(t, 1, notified)

	// Test: errors are returned and the watcher still resumes
	idx.err = errors.New("boom")
	_, err = c.Reindex(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 2, fw.resumeCount)
}

func TestWatchCoordinator_StartError(t *testing.T) {
	t.Parallel()

	fw := newMockFileWatcher()
	fw.startErr = errors.New("no inotify")
	c := NewWatchCoordinator(fw, &mockIndexer{}, nil)

	err := c.Start(context.Background())
	assert.EqualError(t, err, "no inotify")
	assert.True(t, fw.stopCalled)
}

func TestWatchCoordinator_ContextCancel(t *testing.T) {
	t.Parallel()

	fw := newMockFileWatcher()
	c := NewWatchCoordinator(fw, &mockIndexer{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx) }()
	<-fw.started
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
	assert.True(t, fw.stopCalled)
}

func TestWatchCoordinator_EndToEnd(t *testing.T) {
	t.Parallel()

	// Setup
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.ts"), []byte("export const a = 1;\n"), 0644))

	db := storage.NewTestDB(t)
	idx, err := indexer.New(indexer.Config{
		RootDir:         root,
		IncludePatterns: []string{"**/*.ts"},
		Workers:         1,
		CacheCapacity:   8,
	}, db, nil)
	require.NoError(t, err)
	t.Cleanup(idx.Close)

	fw, err := NewFileWatcher([]string{root}, Options{Extensions: []string{".ts"}, Debounce: testDebounce, SkipDir: []string{".tsdoc"}})
	require.NoError(t, err)

	indexed := make(chan *indexer.Stats, 4)
	c := NewWatchCoordinator(fw, idx, func(s *indexer.Stats) { indexed <- s })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	stats, err := c.Reindex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FilesAdded)
	<-indexed
	time.Sleep(50 * time.Millisecond)

	// Execute
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.ts"), []byte("export let b = \"x\";\n"), 0644))

	// Verify
	select {
	case s := <-indexed:
		assert.Equal(t, []string{"b.ts"}, s.Written)
	case <-time.After(3 * time.Second):
		t.Fatal("change was not indexed")
	}

	nodes, err := storage.NewReader(db).NodesByName("b")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "string", nodes[0].TypeRepr())
}
