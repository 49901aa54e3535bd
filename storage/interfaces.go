package storage

import (
	"context"
	"time"

	"github.com/veridian-labs/vigia/core"
)

// VectorStore persists chunks and answers similarity queries over them.
// Implementations must be thread-safe and support concurrent access.
type VectorStore interface {
	// Add persists the given chunks. Documents failing the non-empty-text
	// invariant are rejected. Adding is atomic per call: either all chunks
	// of the batch are persisted or none.
	Add(ctx context.Context, chunks []core.Document) error

	// Search returns chunks relevant to the query with similarity >=
	// minSimilarity, up to limit results, ordered by similarity
	// (highest first). An empty result is not an error.
	Search(ctx context.Context, query string, minSimilarity float32, limit int) ([]core.Document, error)

	// Close releases the underlying resources.
	Close() error
}

// Ledger records which source identifiers have already been ingested.
// A record is written once, after the source's chunks are durably
// persisted, and is never mutated or deleted by this system.
type Ledger interface {
	// Exists reports whether sourceID has an ingestion record.
	Exists(ctx context.Context, sourceID string) (bool, error)

	// Save writes the ingestion record for sourceID. Saving an already
	// recorded sourceID is a no-op, not an error.
	Save(ctx context.Context, sourceID string, ingestedAt time.Time) error
}
