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
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veridian-labs/vigia/core"
	"github.com/veridian-labs/vigia/storage"
)

const ledgerTable = "ingestion_history"

// Ledger implements storage.Ledger on PostgreSQL. It records which sources
// have already been ingested so re-runs skip them.
type Ledger struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

var _ storage.Ledger = (*Ledger)(nil)

// NewLedger prepares the ingestion history table on an existing pool.
// The pool's lifecycle belongs to the caller.
func NewLedger(ctx context.Context, pool *pgxpool.Pool) (*Ledger, error) {
	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			source_id TEXT PRIMARY KEY,
			ingested_at TIMESTAMPTZ NOT NULL
		)`, ledgerTable)
	if _, err := pool.Exec(ctx, createTable); err != nil {
		return nil, fmt.Errorf("creating table %s: %w", ledgerTable, err)
	}

	return &Ledger{
		pool:   pool,
		logger: slog.Default().With("component", "ingestion-ledger"),
	}, nil
}

// Exists reports whether a source has already been ingested.
func (l *Ledger) Exists(ctx context.Context, sourceID string) (bool, error) {
	if sourceID == "" {
		return false, core.ErrEmptySourceID
	}

	sql := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE source_id = $1)", ledgerTable)
	var exists bool
	if err := l.pool.QueryRow(ctx, sql, sourceID).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking source %s: %w", sourceID, err)
	}
	return exists, nil
}

// Save records a source as ingested. Saving an already recorded source is
// a no-op, which keeps the operation safe under at-least-once ingestion.
func (l *Ledger) Save(ctx context.Context, sourceID string, ingestedAt time.Time) error {
	if sourceID == "" {
		return core.ErrEmptySourceID
	}

	sql := fmt.Sprintf(`
		INSERT INTO %s (source_id, ingested_at)
		VALUES ($1, $2)
		ON CONFLICT (source_id) DO NOTHING`, ledgerTable)
	if _, err := l.pool.Exec(ctx, sql, sourceID, ingestedAt.UTC()); err != nil {
		return fmt.Errorf("recording source %s: %w", sourceID, err)
	}

	l.logger.Debug("recorded ingested source", "source", sourceID)
	return nil
}
