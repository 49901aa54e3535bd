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

// Package vigia assembles the sanction ingestion pipeline and the
// retrieval-augmented assistant from configuration.
package vigia

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/veridian-labs/vigia/ai"
	"github.com/veridian-labs/vigia/ai/openai"
	"github.com/veridian-labs/vigia/chat"
	"github.com/veridian-labs/vigia/config"
	"github.com/veridian-labs/vigia/ingest"
	"github.com/veridian-labs/vigia/memory"
	"github.com/veridian-labs/vigia/memory/badgerstore"
	"github.com/veridian-labs/vigia/split"
	"github.com/veridian-labs/vigia/storage/postgres"
)

// Engine wires configuration into the live components: AI provider,
// PostgreSQL vector store and ledger, conversation memory, the ingestion
// runner and the chat assistant.
type Engine struct {
	config    *config.Config
	provider  ai.Provider
	store     *postgres.Store
	ledger    *postgres.Ledger
	memory    memory.Store
	memClose  func() error
	runner    *ingest.Runner
	assistant *chat.Assistant
	logger    *slog.Logger
}

// EngineOption configures an Engine beyond what the config file carries.
type EngineOption func(*engineOptions)

type engineOptions struct {
	progress func(sourceID string)
}

// WithIngestProgress installs a callback invoked after each source is
// fully ingested. Used by the CLI to drive a progress bar.
func WithIngestProgress(fn func(sourceID string)) EngineOption {
	return func(o *engineOptions) {
		o.progress = fn
	}
}

// NewEngine builds a fully wired Engine from configuration.
func NewEngine(ctx context.Context, cfg *config.Config, opts ...EngineOption) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &engineOptions{}
	for _, opt := range opts {
		opt(options)
	}

	provider, err := openai.NewProvider(ai.NewConfig(
		ai.WithEmbeddingHost(cfg.AI.EmbeddingHost),
		ai.WithChatHost(cfg.AI.ChatHost),
		ai.WithEmbeddingModel(cfg.AI.EmbeddingModel),
		ai.WithChatModel(cfg.AI.ChatModel),
		ai.WithToken(cfg.AI.Token),
	))
	if err != nil {
		return nil, err
	}

	store, err := postgres.NewStore(ctx, postgres.StoreConfig{
		ConnString: cfg.Database.URL,
		TableName:  cfg.Database.TableName,
		VectorDim:  cfg.Database.VectorDim,
	}, provider.Embedder())
	if err != nil {
		provider.Close()
		return nil, err
	}

	ledger, err := postgres.NewLedger(ctx, store.Pool())
	if err != nil {
		store.Close()
		provider.Close()
		return nil, err
	}

	mem, memClose, err := newMemoryStore(cfg)
	if err != nil {
		store.Close()
		provider.Close()
		return nil, err
	}

	splitter, err := newSplitter(cfg)
	if err != nil {
		memClose()
		store.Close()
		provider.Close()
		return nil, err
	}

	registry, err := ingest.NewRegistry(ingest.NewCSVStrategy(), ingest.NewPDFStrategy())
	if err != nil {
		memClose()
		store.Close()
		provider.Close()
		return nil, err
	}

	runnerOpts := []ingest.Option{}
	if cfg.Ingest.PoolSize > 0 {
		runnerOpts = append(runnerOpts, ingest.WithPoolSize(cfg.Ingest.PoolSize))
	}
	if options.progress != nil {
		runnerOpts = append(runnerOpts, ingest.WithProgress(options.progress))
	}
	runner, err := ingest.NewRunner(registry, ingest.FileResolver{}, ledger, store, splitter, runnerOpts...)
	if err != nil {
		memClose()
		store.Close()
		provider.Close()
		return nil, err
	}

	assistant, err := chat.NewAssistant(provider.ChatModel(), store, mem,
		chat.WithSimilarityThreshold(*cfg.Chat.SimilarityThreshold),
		chat.WithRetrievalLimit(cfg.Chat.RetrievalLimit))
	if err != nil {
		runner.Release()
		memClose()
		store.Close()
		provider.Close()
		return nil, err
	}

	return &Engine{
		config:    cfg,
		provider:  provider,
		store:     store,
		ledger:    ledger,
		memory:    mem,
		memClose:  memClose,
		runner:    runner,
		assistant: assistant,
		logger:    slog.Default().With("component", "engine"),
	}, nil
}

func newMemoryStore(cfg *config.Config) (memory.Store, func() error, error) {
	switch cfg.Memory.Backend {
	case config.MemoryBadger:
		store, err := badgerstore.Open(cfg.Memory.Path, false, cfg.Memory.MaxTurns)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		store, err := memory.NewKeyedStore(cfg.Memory.MaxTurns)
		if err != nil {
			return nil, nil, err
		}
		return store, func() error { return nil }, nil
	}
}

func newSplitter(cfg *config.Config) (ingest.Splitter, error) {
	switch cfg.Ingest.Splitter {
	case config.SplitterWindow:
		return split.NewWindowSplitter(split.WindowSplitterConfig{
			WindowSize: cfg.Ingest.WindowSize,
			Overlap:    cfg.Ingest.Overlap,
		})
	default:
		tokenizer, err := split.NewTikTokenizer()
		if err != nil {
			return nil, fmt.Errorf("loading tokenizer: %w", err)
		}
		return split.NewTokenSplitter(split.TokenSplitterConfig{
			TargetTokens:         cfg.Ingest.TargetTokens,
			MinCharsPerChunk:     cfg.Ingest.MinCharsPerChunk,
			MinTokensToEmbed:     cfg.Ingest.MinTokensToEmbed,
			MaxChunksPerDocument: cfg.Ingest.MaxChunks,
			KeepSeparators:       true,
		}, tokenizer)
	}
}

// Ingest runs the ingestion pipeline over the configured (or overriding)
// glob pattern.
func (e *Engine) Ingest(ctx context.Context, pattern string) (*ingest.Report, error) {
	if pattern == "" {
		pattern = e.config.Ingest.Pattern
	}
	return e.runner.Run(ctx, pattern)
}

// Assistant returns the chat assistant.
func (e *Engine) Assistant() *chat.Assistant {
	return e.assistant
}

// Close tears down the engine in reverse construction order.
func (e *Engine) Close() error {
	e.runner.Release()

	var firstErr error
	if err := e.memClose(); err != nil {
		e.logger.Error("error closing memory store", "err", err)
		firstErr = err
	}
	if err := e.store.Close(); err != nil {
		e.logger.Error("error closing vector store", "err", err)
		if firstErr == nil {
			firstErr = err
		}
	}
	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
