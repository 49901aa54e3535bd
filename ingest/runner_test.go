package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridian-labs/vigia/core"
)

func newTestRunner(t *testing.T, resolver Resolver, ledger *memLedger, store *memVectorStore, strategies ...Strategy) *Runner {
	t.Helper()
	if len(strategies) == 0 {
		strategies = []Strategy{textStrategy{}}
	}
	registry, err := NewRegistry(strategies...)
	require.NoError(t, err)

	runner, err := NewRunner(registry, resolver, ledger, store, passthroughSplitter{}, WithPoolSize(2))
	require.NoError(t, err)
	t.Cleanup(runner.Release)
	return runner
}

func TestNewRunnerValidation(t *testing.T) {
	registry, err := NewRegistry(textStrategy{})
	require.NoError(t, err)
	ledger := newMemLedger()
	store := &memVectorStore{}

	_, err = NewRunner(nil, memResolver{}, ledger, store, passthroughSplitter{})
	assert.ErrorIs(t, err, ErrRegistryRequired)
	_, err = NewRunner(registry, nil, ledger, store, passthroughSplitter{})
	assert.ErrorIs(t, err, ErrResolverRequired)
	_, err = NewRunner(registry, memResolver{}, nil, store, passthroughSplitter{})
	assert.ErrorIs(t, err, ErrLedgerRequired)
	_, err = NewRunner(registry, memResolver{}, ledger, nil, passthroughSplitter{})
	assert.ErrorIs(t, err, ErrStoreRequired)
	_, err = NewRunner(registry, memResolver{}, ledger, store, nil)
	assert.ErrorIs(t, err, ErrSplitterRequired)
}

func TestRunnerIngestsSources(t *testing.T) {
	resolver := memResolver{resources: []Resource{
		memResource{name: "a.txt", path: "data/cat1/a.txt", data: "uno\ndos"},
		memResource{name: "b.txt", path: "data/cat2/b.txt", data: "tres"},
	}}
	ledger := newMemLedger()
	store := &memVectorStore{}
	runner := newTestRunner(t, resolver, ledger, store)

	report, err := runner.Run(context.Background(), "data/*/*.txt")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Discovered)
	assert.Equal(t, 2, report.Ingested)
	assert.Equal(t, 3, report.Chunks)
	assert.Equal(t, 2, ledger.count())
	assert.Equal(t, 3, store.count())

	// Chunks carry their source identity.
	for _, chunk := range store.chunks {
		assert.NotEmpty(t, chunk.Meta(core.MetaSourceID))
	}
}

func TestRunnerStampsSourceCategory(t *testing.T) {
	resolver := memResolver{resources: []Resource{
		memResource{name: "2024.txt", path: "data/resoluciones/2024.txt", data: "multa firme"},
	}}
	ledger := newMemLedger()
	store := &memVectorStore{}
	runner := newTestRunner(t, resolver, ledger, store)

	_, err := runner.Run(context.Background(), "data/*/*.txt")
	require.NoError(t, err)

	require.NotEmpty(t, store.chunks)
	for _, chunk := range store.chunks {
		assert.Equal(t, "resoluciones/2024.txt", chunk.Meta(core.MetaSourceID))
		assert.Equal(t, "resoluciones", chunk.Meta(core.MetaCategory),
			"every chunk is tagged with the path segment preceding the filename")
	}
}

func TestRunnerIdempotentRerun(t *testing.T) {
	resolver := memResolver{resources: []Resource{
		memResource{name: "a.txt", path: "data/cat1/a.txt", data: "uno\ndos"},
		memResource{name: "b.txt", path: "data/cat2/b.txt", data: "tres"},
	}}
	ledger := newMemLedger()
	store := &memVectorStore{}
	runner := newTestRunner(t, resolver, ledger, store)

	_, err := runner.Run(context.Background(), "*")
	require.NoError(t, err)
	firstChunks := store.count()

	report, err := runner.Run(context.Background(), "*")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Skipped, "second run skips all recorded sources")
	assert.Equal(t, 0, report.Ingested)
	assert.Equal(t, 2, ledger.count(), "exactly one record per source")
	assert.Equal(t, firstChunks, store.count(), "no duplicate chunks on re-run")
}

func TestRunnerParseFailureIsolation(t *testing.T) {
	resolver := memResolver{resources: []Resource{
		memResource{name: "bad.err", path: "data/cat/bad.err", data: "x"},
		memResource{name: "good.txt", path: "data/cat/good.txt", data: "contenido"},
	}}
	ledger := newMemLedger()
	store := &memVectorStore{}
	runner := newTestRunner(t, resolver, ledger, store,
		textStrategy{},
		textStrategy{key: "err", err: errors.New("boom")},
	)

	report, err := runner.Run(context.Background(), "*")
	require.NoError(t, err, "one bad file never blocks the batch")

	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Ingested)
	assert.Equal(t, 1, ledger.count())

	exists, _ := ledger.Exists(context.Background(), "cat/bad.err")
	assert.False(t, exists, "a failed source stays re-ingestable")
}

func TestRunnerUnresolvedStrategySkipped(t *testing.T) {
	resolver := memResolver{resources: []Resource{
		memResource{name: "notes.md", path: "data/cat/notes.md", data: "x"},
		memResource{name: "good.txt", path: "data/cat/good.txt", data: "contenido"},
	}}
	ledger := newMemLedger()
	store := &memVectorStore{}
	runner := newTestRunner(t, resolver, ledger, store)

	report, err := runner.Run(context.Background(), "*")
	require.NoError(t, err, "a missing strategy must not abort the batch")
	assert.Equal(t, 1, report.Unmatched)
	assert.Equal(t, 1, report.Ingested)
}

func TestRunnerNoResourcesIsNoOp(t *testing.T) {
	runner := newTestRunner(t, memResolver{}, newMemLedger(), &memVectorStore{})

	report, err := runner.Run(context.Background(), "nothing/*")
	require.NoError(t, err)
	assert.Equal(t, 0, report.Discovered)
	assert.Equal(t, 0, report.Ingested)
}

func TestRunnerZeroDocumentsIsNoOp(t *testing.T) {
	resolver := memResolver{resources: []Resource{
		memResource{name: "empty.nil", path: "data/cat/empty.nil"},
	}}
	ledger := newMemLedger()
	store := &memVectorStore{}
	runner := newTestRunner(t, resolver, ledger, store, nilStrategy{})

	report, err := runner.Run(context.Background(), "*")
	require.NoError(t, err)
	assert.Equal(t, 0, report.Ingested)
	assert.Equal(t, 0, store.count())
	assert.Equal(t, 0, ledger.count())
}

func TestRunnerPersistFailureSurfacedAndRetryable(t *testing.T) {
	resolver := memResolver{resources: []Resource{
		memResource{name: "a.txt", path: "data/cat/a.txt", data: "contenido"},
	}}
	ledger := newMemLedger()
	store := &memVectorStore{addErr: errors.New("store down")}
	runner := newTestRunner(t, resolver, ledger, store)

	_, err := runner.Run(context.Background(), "*")
	require.Error(t, err, "persistence failure is surfaced to the batch caller")
	assert.Equal(t, 0, ledger.count(), "no ledger record without persisted chunks")

	// Next run retries the same source once the store recovers.
	store.addErr = nil
	report, err := runner.Run(context.Background(), "*")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Ingested)
	assert.Equal(t, 1, ledger.count())
}

func TestRunnerBlankDocumentsDropped(t *testing.T) {
	resolver := memResolver{resources: []Resource{
		memResource{name: "a.txt", path: "data/cat/a.txt", data: "uno\n\n   \ndos"},
	}}
	ledger := newMemLedger()
	store := &memVectorStore{}
	runner := newTestRunner(t, resolver, ledger, store)

	report, err := runner.Run(context.Background(), "*")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Chunks, "blank lines never reach the vector store")
	for _, chunk := range store.chunks {
		assert.False(t, chunk.Blank())
	}
}

func TestRunnerProgressCallback(t *testing.T) {
	resolver := memResolver{resources: []Resource{
		memResource{name: "a.txt", path: "data/cat1/a.txt", data: "uno"},
		memResource{name: "b.txt", path: "data/cat2/b.txt", data: "dos"},
	}}

	registry, err := NewRegistry(textStrategy{})
	require.NoError(t, err)

	var seen []string
	runner, err := NewRunner(registry, resolver, newMemLedger(), &memVectorStore{}, passthroughSplitter{},
		WithProgress(func(sourceID string) { seen = append(seen, sourceID) }))
	require.NoError(t, err)
	defer runner.Release()

	_, err = runner.Run(context.Background(), "*")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"cat1/a.txt", "cat2/b.txt"}, seen)
}

// nilStrategy parses every resource into zero documents.
type nilStrategy struct{}

func (nilStrategy) Key() string { return "nil" }

func (nilStrategy) Parse(context.Context, Resource) ([]core.Document, error) {
	return nil, nil
}
