package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/quotesync/publish"
	"github.com/poiesic/quotesync/router"
	storagebadger "github.com/poiesic/quotesync/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const canonicalExport = `{
  "quote_number": "70211",
  "header": {"po_number": "PO-1", "terms": "NET 30"},
  "customer": {"name": "JANE DOE", "organization": "ACME", "address": ["123 MAIN ST"]},
  "line_items": [
    {"qty": "2", "part_number": "P-1", "description": "Widget", "unit_price": "10.50", "ext_price": "21.00", "item_type": "P"}
  ],
  "totals": {"subtotal": "21.00", "tax": "1.47", "shipping": "0", "total": "22.47"}
}`

type fakePublisher struct {
	mu    sync.Mutex
	calls []string
	fail  error
}

func (p *fakePublisher) Publish(ctx context.Context, quoteNumber string, table *publish.Table, meta *publish.Metadata) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return "", p.fail
	}
	p.calls = append(p.calls, quoteNumber)
	return "https://docs.google.com/spreadsheets/d/fake-" + quoteNumber, nil
}

func (p *fakePublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (n *fakeNotifier) Enabled() bool { return true }

func (n *fakeNotifier) Notify(ctx context.Context, quoteNumber, sheetURL string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, quoteNumber+" "+sheetURL)
	return nil
}

func (n *fakeNotifier) notified() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.calls...)
}

type fakeArchiver struct {
	mu    sync.Mutex
	paths []string
	fail  error
}

func (a *fakeArchiver) Archive(path string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.fail != nil {
		return "", a.fail
	}
	a.paths = append(a.paths, path)
	return filepath.Join("archive", filepath.Base(path)), nil
}

func (a *fakeArchiver) archived() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.paths...)
}

func writeExport(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestProcessPublishesRecordsAndArchives(t *testing.T) {
	path := writeExport(t, "QUOTE_70211_export.json", canonicalExport)
	ledger, backend, err := storagebadger.NewMemoryLedger()
	require.NoError(t, err)
	defer backend.Close()

	publisher := &fakePublisher{}
	notifier := &fakeNotifier{}
	archiver := &fakeArchiver{}
	p, err := NewPipeline(router.NewRouter(), publisher,
		WithLedger(ledger), WithNotifier(notifier), WithArchiver(archiver))
	require.NoError(t, err)
	defer p.Close()

	require.NoError(t, p.Process(context.Background(), path))

	assert.Equal(t, []string{"70211"}, publisher.published())
	assert.Equal(t, []string{path}, archiver.archived())

	record, err := ledger.GetLatest(context.Background(), "70211")
	require.NoError(t, err)
	assert.Equal(t, "QUOTE_70211_export.json", record.SourceFile)
	assert.Equal(t, 1, record.LineItems)
	assert.NotZero(t, record.Digest)

	require.Eventually(t, func() bool {
		return len(notifier.notified()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "70211 https://docs.google.com/spreadsheets/d/fake-70211", notifier.notified()[0])
}

func TestProcessPublishFailureLeavesFileInPlace(t *testing.T) {
	path := writeExport(t, "QUOTE_70211_export.json", canonicalExport)

	publisher := &fakePublisher{fail: errors.New("sheets quota exceeded")}
	archiver := &fakeArchiver{}
	ledger, backend, err := storagebadger.NewMemoryLedger()
	require.NoError(t, err)
	defer backend.Close()

	p, err := NewPipeline(router.NewRouter(), publisher, WithLedger(ledger), WithArchiver(archiver))
	require.NoError(t, err)
	defer p.Close()

	err = p.Process(context.Background(), path)

	assert.ErrorContains(t, err, "quota")
	assert.Empty(t, archiver.archived())
	assert.FileExists(t, path)
	_, err = ledger.GetLatest(context.Background(), "70211")
	assert.Error(t, err)
}

func TestProcessSkipsUnchangedContent(t *testing.T) {
	path := writeExport(t, "QUOTE_70211_export.json", canonicalExport)
	ledger, backend, err := storagebadger.NewMemoryLedger()
	require.NoError(t, err)
	defer backend.Close()

	publisher := &fakePublisher{}
	p, err := NewPipeline(router.NewRouter(), publisher, WithLedger(ledger))
	require.NoError(t, err)
	defer p.Close()

	require.NoError(t, p.Process(context.Background(), path))
	require.NoError(t, p.Process(context.Background(), path))

	assert.Len(t, publisher.published(), 1)
}

func TestProcessRepublishesWhenRedirectTargetChanges(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "full.json")
	require.NoError(t, os.WriteFile(target, []byte(`{
	  "line_items": [{"qty": "1", "part_number": "P-1", "description": "Widget", "unit_price": "5", "ext_price": "5", "item_type": "P"}]
	}`), 0644))
	stub := filepath.Join(dir, "QUOTE_70211.json")
	require.NoError(t, os.WriteFile(stub, []byte(`{"redirect": "full.json"}`), 0644))

	ledger, backend, err := storagebadger.NewMemoryLedger()
	require.NoError(t, err)
	defer backend.Close()

	publisher := &fakePublisher{}
	p, err := NewPipeline(router.NewRouter(), publisher, WithLedger(ledger))
	require.NoError(t, err)
	defer p.Close()

	require.NoError(t, p.Process(context.Background(), stub))

	// The stub is byte-identical on re-delivery; only the target moved
	require.NoError(t, os.WriteFile(target, []byte(`{
	  "line_items": [{"qty": "2", "part_number": "P-2", "description": "Gadget", "unit_price": "7", "ext_price": "14", "item_type": "P"}]
	}`), 0644))
	require.NoError(t, p.Process(context.Background(), stub))

	assert.Len(t, publisher.published(), 2)

	// An unchanged target still short-circuits
	require.NoError(t, p.Process(context.Background(), stub))
	assert.Len(t, publisher.published(), 2)
}

func TestProcessForceRepublishes(t *testing.T) {
	path := writeExport(t, "QUOTE_70211_export.json", canonicalExport)
	ledger, backend, err := storagebadger.NewMemoryLedger()
	require.NoError(t, err)
	defer backend.Close()

	publisher := &fakePublisher{}
	p, err := NewPipeline(router.NewRouter(), publisher, WithLedger(ledger), WithForce(true))
	require.NoError(t, err)
	defer p.Close()

	require.NoError(t, p.Process(context.Background(), path))
	require.NoError(t, p.Process(context.Background(), path))

	assert.Len(t, publisher.published(), 2)
}

func TestProcessArchiveFailureDoesNotFailRun(t *testing.T) {
	path := writeExport(t, "QUOTE_70211_export.json", canonicalExport)

	publisher := &fakePublisher{}
	p, err := NewPipeline(router.NewRouter(), publisher,
		WithArchiver(&fakeArchiver{fail: errors.New("disk full")}))
	require.NoError(t, err)
	defer p.Close()

	assert.NoError(t, p.Process(context.Background(), path))
	assert.Len(t, publisher.published(), 1)
}

type panickyPublisher struct{}

func (p *panickyPublisher) Publish(ctx context.Context, quoteNumber string, table *publish.Table, meta *publish.Metadata) (string, error) {
	panic("formatting index out of range")
}

func TestProcessContainsPanics(t *testing.T) {
	path := writeExport(t, "QUOTE_70211_export.json", canonicalExport)

	p, err := NewPipeline(router.NewRouter(), &panickyPublisher{})
	require.NoError(t, err)
	defer p.Close()

	err = p.Process(context.Background(), path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic")
	assert.FileExists(t, path)
}

func TestProcessUnroutableFilename(t *testing.T) {
	path := writeExport(t, "invoice.json", canonicalExport)

	p, err := NewPipeline(router.NewRouter(), &fakePublisher{})
	require.NoError(t, err)
	defer p.Close()

	err = p.Process(context.Background(), path)

	assert.ErrorIs(t, err, router.ErrUnroutableFilename)
}

func TestNewPipelineRequiresCollaborators(t *testing.T) {
	_, err := NewPipeline(nil, &fakePublisher{})
	assert.ErrorIs(t, err, ErrRouterRequired)

	_, err = NewPipeline(router.NewRouter(), nil)
	assert.ErrorIs(t, err, ErrPublisherRequired)
}
