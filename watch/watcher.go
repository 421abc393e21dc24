// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultSettleDelay = 2 * time.Second

// Processor handles one export file end to end.
type Processor interface {
	Process(ctx context.Context, path string) error
}

// Watcher observes a directory for newly created export files matching
// a filename pattern and dispatches them to a Processor.
type Watcher struct {
	dir       string
	pattern   string
	processor Processor
	settle    time.Duration
	logger    *slog.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
	wg       sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithSettleDelay overrides the pause between seeing a file and
// reading it, which lets the exporting side finish writing.
func WithSettleDelay(delay time.Duration) Option {
	return func(w *Watcher) {
		w.settle = delay
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// NewWatcher builds a watcher over dir for files whose base name
// matches pattern (filepath.Match syntax, e.g. "QUOTE_*.json").
func NewWatcher(dir, pattern string, processor Processor, opts ...Option) *Watcher {
	w := &Watcher{
		dir:       dir,
		pattern:   pattern,
		processor: processor,
		settle:    defaultSettleDelay,
		logger:    slog.Default(),
		inFlight:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Backfill processes every matching file already present in the
// directory. Individual failures are logged and do not stop the
// sweep; the count of successfully processed files is returned.
func (w *Watcher) Backfill(ctx context.Context) (int, error) {
	matches, err := filepath.Glob(filepath.Join(w.dir, w.pattern))
	if err != nil {
		return 0, fmt.Errorf("listing export directory: %w", err)
	}

	processed := 0
	for _, path := range matches {
		if err := ctx.Err(); err != nil {
			return processed, err
		}
		if err := w.dispatch(ctx, path); err != nil {
			w.logger.Error("backfill processing failed", "file", filepath.Base(path), "err", err)
			continue
		}
		processed++
	}
	return processed, nil
}

// Run watches the directory until the context is cancelled. Pending
// processing runs are waited for before Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	if _, err := os.Stat(w.dir); err != nil {
		return fmt.Errorf("export directory unavailable: %w", err)
	}

	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating filesystem watcher: %w", err)
	}
	defer notifier.Close()

	if err := notifier.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	w.logger.Info("watching for exports", "dir", w.dir, "pattern", w.pattern)

	for {
		select {
		case <-ctx.Done():
			w.wg.Wait()
			return ctx.Err()
		case event, ok := <-notifier.Events:
			if !ok {
				w.wg.Wait()
				return nil
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if matched, _ := filepath.Match(w.pattern, filepath.Base(event.Name)); !matched {
				continue
			}
			w.handle(ctx, event.Name)
		case err, ok := <-notifier.Errors:
			if !ok {
				w.wg.Wait()
				return nil
			}
			w.logger.Error("filesystem watcher error", "err", err)
		}
	}
}

// handle starts a processing run for path unless one is already in
// flight. Duplicate create events for the same path are dropped.
func (w *Watcher) handle(ctx context.Context, path string) {
	w.mu.Lock()
	if _, busy := w.inFlight[path]; busy {
		w.mu.Unlock()
		w.logger.Debug("already processing, event dropped", "file", filepath.Base(path))
		return
	}
	w.inFlight[path] = struct{}{}
	w.mu.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			delete(w.inFlight, path)
			w.mu.Unlock()
		}()

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.settle):
		}

		if err := w.processor.Process(ctx, path); err != nil {
			w.logger.Error("processing failed", "file", filepath.Base(path), "err", err)
		}
	}()
}

// dispatch is the synchronous variant used by Backfill. The in-flight
// set still guards the path so a watcher event arriving mid-sweep
// cannot double-process the same file.
func (w *Watcher) dispatch(ctx context.Context, path string) error {
	w.mu.Lock()
	if _, busy := w.inFlight[path]; busy {
		w.mu.Unlock()
		return nil
	}
	w.inFlight[path] = struct{}{}
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		delete(w.inFlight, path)
		w.mu.Unlock()
	}()
	return w.processor.Process(ctx, path)
}
