package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProcessor struct {
	mu    sync.Mutex
	paths []string
	block chan struct{}
}

func (p *recordingProcessor) Process(ctx context.Context, path string) error {
	if p.block != nil {
		<-p.block
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paths = append(p.paths, path)
	return nil
}

func (p *recordingProcessor) processed() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.paths...)
}

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0644))
	return path
}

func TestBackfillProcessesExistingFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "QUOTE_70211_export.json")
	writeFile(t, dir, "QUOTE_70212_export.json")
	writeFile(t, dir, "notes.txt")

	processor := &recordingProcessor{}
	watcher := NewWatcher(dir, "QUOTE_*.json", processor)

	count, err := watcher.Backfill(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Len(t, processor.processed(), 2)
}

func TestWatcherPicksUpNewFile(t *testing.T) {
	dir := t.TempDir()
	processor := &recordingProcessor{}
	watcher := NewWatcher(dir, "QUOTE_*.json", processor, WithSettleDelay(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()

	// Give the watcher time to register before creating the file
	time.Sleep(100 * time.Millisecond)
	path := writeFile(t, dir, "QUOTE_70300_export.json")
	writeFile(t, dir, "ignored.csv")

	require.Eventually(t, func() bool {
		return len(processor.processed()) == 1
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, []string{path}, processor.processed())
}

func TestInFlightPathDropsDuplicateEvent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "QUOTE_70400_export.json")

	processor := &recordingProcessor{block: make(chan struct{})}
	watcher := NewWatcher(dir, "QUOTE_*.json", processor, WithSettleDelay(0))

	ctx := context.Background()
	watcher.handle(ctx, path)

	// Wait until the first run holds the in-flight slot
	require.Eventually(t, func() bool {
		watcher.mu.Lock()
		defer watcher.mu.Unlock()
		_, busy := watcher.inFlight[path]
		return busy
	}, time.Second, 5*time.Millisecond)

	// Second event for the same path is a no-op
	watcher.handle(ctx, path)

	close(processor.block)
	watcher.wg.Wait()

	assert.Len(t, processor.processed(), 1)
}

func TestInFlightSlotFreedAfterProcessing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "QUOTE_70500_export.json")

	processor := &recordingProcessor{}
	watcher := NewWatcher(dir, "QUOTE_*.json", processor, WithSettleDelay(0))

	watcher.handle(context.Background(), path)
	watcher.wg.Wait()
	watcher.handle(context.Background(), path)
	watcher.wg.Wait()

	assert.Len(t, processor.processed(), 2)
}
