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


package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/quotesync/core"
	"github.com/poiesic/quotesync/publish"
	"github.com/poiesic/quotesync/router"
	"github.com/poiesic/quotesync/storage"
)

const (
	defaultPoolSize = 4
	notifyTimeout   = 15 * time.Second
)

// Notifier delivers post-publish notifications.
type Notifier interface {
	Enabled() bool
	Notify(ctx context.Context, quoteNumber, sheetURL string) error
}

// Archiver moves a processed source file out of the export directory.
type Archiver interface {
	Archive(path string) (string, error)
}

// Pipeline runs one export file through routing, publishing, the sync
// ledger, notification and archival.
type Pipeline struct {
	router    *router.Router
	publisher publish.Publisher
	ledger    storage.LedgerRepository
	notifier  Notifier
	archiver  Archiver
	pool      *ants.Pool
	poolSize  int
	force     bool
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLedger enables sync history recording and unchanged-content
// skipping.
func WithLedger(ledger storage.LedgerRepository) Option {
	return func(p *Pipeline) {
		p.ledger = ledger
	}
}

// WithNotifier enables post-publish webhook notification.
func WithNotifier(notifier Notifier) Option {
	return func(p *Pipeline) {
		p.notifier = notifier
	}
}

// WithArchiver enables moving processed files out of the export
// directory.
func WithArchiver(archiver Archiver) Option {
	return func(p *Pipeline) {
		p.archiver = archiver
	}
}

// WithForce republishes even when the ledger shows the same content
// digest already synced.
func WithForce(force bool) Option {
	return func(p *Pipeline) {
		p.force = force
	}
}

// WithPoolSize sets the size of the notification worker pool.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) {
		if size > 0 {
			p.poolSize = size
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPipeline creates a Pipeline. Router and publisher are required;
// ledger, notifier and archiver are optional collaborators.
func NewPipeline(rt *router.Router, publisher publish.Publisher, opts ...Option) (*Pipeline, error) {
	if rt == nil {
		return nil, ErrRouterRequired
	}
	if publisher == nil {
		return nil, ErrPublisherRequired
	}

	p := &Pipeline{
		router:    rt,
		publisher: publisher,
		poolSize:  defaultPoolSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	pool, err := ants.NewPool(p.poolSize, ants.WithLogger(antsLogger{p.logger}))
	if err != nil {
		return nil, err
	}
	p.pool = pool
	return p, nil
}

// Close drains the notification pool. Pending notifications are given
// a grace period before the pool shuts down.
func (p *Pipeline) Close() {
	if err := p.pool.ReleaseTimeout(notifyTimeout); err != nil {
		p.pool.Release()
	}
}

// Process runs a single export file end to end.
//
// Routing and publishing failures abort the run and leave the file in
// place. Once the spreadsheet is written, ledger, notification and
// archival failures only log. A panic anywhere in the run is contained
// as an error so one bad file cannot take down the watch loop.
func (p *Pipeline) Process(ctx context.Context, path string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic processing %s: %v", filepath.Base(path), r)
		}
	}()

	export, err := router.ReadExport(path)
	if err != nil {
		return err
	}

	quote, routed, err := p.router.Route(ctx, export)
	if err != nil {
		return err
	}

	// Fingerprint the routed content, not the delivered bytes: a
	// redirect stub stays identical while its target changes.
	digest := core.DigestContent(routed)
	if p.ledger != nil && !p.force {
		if last, err := p.ledger.GetLatest(ctx, quote.QuoteNumber); err == nil && last.Digest == digest {
			p.logger.Info("content unchanged since last sync, skipping",
				"quote", quote.QuoteNumber, "file", filepath.Base(path))
			p.archive(path)
			return nil
		} else if err != nil && !errors.Is(err, storage.ErrNotFound) {
			p.logger.Warn("cannot read sync ledger", "quote", quote.QuoteNumber, "err", err)
		}
	}

	table := publish.TableFromQuote(quote)
	meta := publish.MetadataFromQuote(quote)
	sheetURL, err := p.publisher.Publish(ctx, quote.QuoteNumber, table, meta)
	if err != nil {
		return err
	}

	if p.ledger != nil {
		record := &core.SyncRecord{
			QuoteNumber: quote.QuoteNumber,
			SheetURL:    sheetURL,
			SourceFile:  filepath.Base(path),
			Digest:      digest,
			LineItems:   len(quote.LineItems),
		}
		if err := p.ledger.RecordSync(ctx, record); err != nil {
			p.logger.Error("cannot record sync", "quote", quote.QuoteNumber, "err", err)
		}
	}

	p.notify(quote.QuoteNumber, sheetURL)
	p.archive(path)
	return nil
}

// notify submits the webhook call to the worker pool so a slow
// endpoint never stalls file processing.
func (p *Pipeline) notify(quoteNumber, sheetURL string) {
	if p.notifier == nil || !p.notifier.Enabled() {
		return
	}

	err := p.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := p.notifier.Notify(ctx, quoteNumber, sheetURL); err != nil {
			p.logger.Warn("webhook notification failed", "quote", quoteNumber, "err", err)
		}
	})
	if err != nil {
		p.logger.Warn("cannot submit notification", "quote", quoteNumber, "err", err)
	}
}

func (p *Pipeline) archive(path string) {
	if p.archiver == nil {
		return
	}
	target, err := p.archiver.Archive(path)
	if err != nil {
		p.logger.Warn("cannot archive processed file", "file", filepath.Base(path), "err", err)
		return
	}
	p.logger.Debug("archived processed file", "target", target)
}

// antsLogger adapts slog to the pool's printf-style logger, which is
// where worker panics get reported.
type antsLogger struct {
	logger *slog.Logger
}

func (l antsLogger) Printf(format string, args ...any) {
	l.logger.Error("notification pool", "msg", fmt.Sprintf(format, args...))
}
