// Copyright 2025 Veridian Labs
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

package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/veridian-labs/vigia/ai"
	"github.com/veridian-labs/vigia/core"
	"github.com/veridian-labs/vigia/storage"
)

// StoreConfig configures the pgvector-backed vector store.
type StoreConfig struct {
	// ConnString is the PostgreSQL connection string.
	ConnString string

	// TableName is the chunk table. Default "documents".
	TableName string

	// VectorDim is the embedding dimensionality. Must match the embedding
	// model. Default 384.
	VectorDim int
}

// Store implements storage.VectorStore on PostgreSQL with pgvector.
type Store struct {
	config   StoreConfig
	pool     *pgxpool.Pool
	embedder ai.Embedder
	logger   *slog.Logger
	closed   bool
}

var _ storage.VectorStore = (*Store)(nil)

// NewStore connects to PostgreSQL and prepares the chunk table, the
// pgvector extension and the similarity index.
func NewStore(ctx context.Context, config StoreConfig, embedder ai.Embedder) (*Store, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if config.TableName == "" {
		config.TableName = "documents"
	}
	if config.VectorDim == 0 {
		config.VectorDim = 384
	}

	pool, err := pgxpool.New(ctx, config.ConnString)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &Store{
		config:   config,
		pool:     pool,
		embedder: embedder,
		logger:   slog.Default().With("component", "pgvector-store"),
	}

	if err := s.initialize(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("creating vector extension: %w", err)
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			metadata JSONB,
			embedding vector(%d)
		)`, s.config.TableName, s.config.VectorDim)
	if _, err := s.pool.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("creating table %s: %w", s.config.TableName, err)
	}

	createIndex := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS %s_embedding_idx
		ON %s
		USING ivfflat (embedding vector_cosine_ops)
		WITH (lists = 100)`,
		s.config.TableName, s.config.TableName)
	if _, err := s.pool.Exec(ctx, createIndex); err != nil {
		return fmt.Errorf("creating similarity index: %w", err)
	}

	return nil
}

// Add embeds the chunks in one batch and upserts them in a single
// transaction. Re-adding a chunk with the same identity overwrites it,
// which keeps re-ingestion idempotent at the row level.
func (s *Store) Add(ctx context.Context, chunks []core.Document) error {
	if s.closed {
		return storage.ErrStorageClosed
	}
	if len(chunks) == 0 {
		return nil
	}
	for _, chunk := range chunks {
		if chunk.Blank() {
			return storage.ErrEmptyChunk
		}
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}
	vectors, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding %d chunks: %w", len(chunks), err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	stmt := fmt.Sprintf(`
		INSERT INTO %s (id, content, metadata, embedding)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			metadata = EXCLUDED.metadata,
			embedding = EXCLUDED.embedding`,
		s.config.TableName)

	for i, chunk := range chunks {
		id := fmt.Sprintf("%016x", uint64(chunk.ID()))
		if _, err := tx.Exec(ctx, stmt, id, chunk.Text, chunk.Metadata, pgvector.NewVector(vectors[i])); err != nil {
			return fmt.Errorf("inserting chunk %s: %w", id, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	s.logger.Debug("stored chunks", "count", len(chunks))
	return nil
}

// Search embeds the query and returns the chunks whose cosine similarity
// meets minSimilarity, most similar first, at most limit of them.
func (s *Store) Search(ctx context.Context, query string, minSimilarity float32, limit int) ([]core.Document, error) {
	if s.closed {
		return nil, storage.ErrStorageClosed
	}
	if query == "" {
		return nil, storage.ErrInvalidQuery
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit %d", storage.ErrInvalidQuery, limit)
	}

	vector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	// Cosine distance operator <=> ranges over [0, 2]; similarity is its
	// complement on [-1, 1].
	sql := fmt.Sprintf(`
		SELECT content, metadata, 1 - (embedding <=> $1) AS similarity
		FROM %s
		WHERE 1 - (embedding <=> $1) >= $2
		ORDER BY embedding <=> $1
		LIMIT $3`,
		s.config.TableName)

	rows, err := s.pool.Query(ctx, sql, pgvector.NewVector(vector), minSimilarity, limit)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var docs []core.Document
	for rows.Next() {
		var content string
		var metadata map[string]string
		var similarity float32
		if err := rows.Scan(&content, &metadata, &similarity); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		docs = append(docs, core.NewDocument(content, metadata))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	s.logger.Debug("similarity search", "results", len(docs), "minSimilarity", minSimilarity)
	return docs, nil
}

// Pool exposes the underlying connection pool so other PostgreSQL-backed
// components, like the ingestion ledger, can share it.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.pool.Close()
	return nil
}
