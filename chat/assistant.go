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

package chat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/veridian-labs/vigia/ai"
	"github.com/veridian-labs/vigia/core"
	"github.com/veridian-labs/vigia/memory"
	"github.com/veridian-labs/vigia/storage"
)

const (
	// DefaultSimilarityThreshold filters out weakly related chunks.
	DefaultSimilarityThreshold float32 = 0.7

	// DefaultRetrievalLimit caps how many chunks feed the prompt.
	DefaultRetrievalLimit = 4
)

// Assistant answers user queries, optionally grounding them in retrieved
// sanction records and bounded conversation memory.
type Assistant struct {
	model     ai.ChatModel
	store     storage.VectorStore
	memory    memory.Store
	threshold float32
	limit     int
	logger    *slog.Logger
}

// Option configures an Assistant.
type Option func(*Assistant) error

// WithSimilarityThreshold sets the minimum similarity for retrieved chunks.
func WithSimilarityThreshold(threshold float32) Option {
	return func(a *Assistant) error {
		if threshold < 0 || threshold > 1 {
			return fmt.Errorf("%w: %f", ErrInvalidThreshold, threshold)
		}
		a.threshold = threshold
		return nil
	}
}

// WithRetrievalLimit sets the maximum number of retrieved chunks.
func WithRetrievalLimit(limit int) Option {
	return func(a *Assistant) error {
		if limit <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
		}
		a.limit = limit
		return nil
	}
}

// WithLogger sets the assistant's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assistant) error {
		a.logger = logger
		return nil
	}
}

// NewAssistant creates an Assistant wired to a chat model, a vector store
// and a conversation memory store.
func NewAssistant(model ai.ChatModel, store storage.VectorStore, mem memory.Store, opts ...Option) (*Assistant, error) {
	if model == nil {
		return nil, ErrModelRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}
	if mem == nil {
		return nil, ErrMemoryRequired
	}

	a := &Assistant{
		model:     model,
		store:     store,
		memory:    mem,
		threshold: DefaultSimilarityThreshold,
		limit:     DefaultRetrievalLimit,
		logger:    slog.Default().With("component", "assistant"),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Query answers a request and returns a Stream of answer chunks.
//
// In plain mode the prompt goes to the model as-is, with no system
// message, no retrieval and no memory. In retrieval mode the vector store is searched first (a search
// failure is returned here, before any streaming), conversation history is
// attached, and the exchange is appended to memory only after the stream
// completes successfully.
func (a *Assistant) Query(ctx context.Context, req core.QueryRequest) (*Stream, error) {
	if err := core.ValidateQueryRequest(req); err != nil {
		return nil, err
	}

	if !req.UseRetrieval {
		return a.queryPlain(ctx, req), nil
	}
	return a.queryWithRetrieval(ctx, req)
}

func (a *Assistant) queryPlain(ctx context.Context, req core.QueryRequest) *Stream {
	// No persona, no context, no memory: the model sees the prompt as-is.
	messages := []ai.Message{
		{Role: ai.RoleUser, Content: req.Prompt},
	}

	stream := newStream()
	go func() {
		_, err := a.model.Generate(ctx, messages, stream.chunkFunc(ctx))
		stream.finish(err)
	}()
	return stream
}

func (a *Assistant) queryWithRetrieval(ctx context.Context, req core.QueryRequest) (*Stream, error) {
	start := time.Now()
	results, err := a.store.Search(ctx, req.Prompt, a.threshold, a.limit)
	if err != nil {
		return nil, fmt.Errorf("searching context: %w", err)
	}
	a.logger.Debug("retrieved context",
		"conversation", req.ConversationID,
		"chunks", len(results),
		"elapsed", time.Since(start))

	history, err := a.memory.History(ctx, req.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("loading conversation history: %w", err)
	}

	messages := make([]ai.Message, 0, len(history)+2)
	messages = append(messages, ai.Message{Role: ai.RoleSystem, Content: systemPrompt})
	for _, turn := range history {
		messages = append(messages, ai.Message{Role: turnRole(turn.Role), Content: turn.Content})
	}
	messages = append(messages, ai.Message{Role: ai.RoleUser, Content: buildRetrievalPrompt(req.Prompt, results)})

	stream := newStream()
	go func() {
		answer, err := a.model.Generate(ctx, messages, stream.chunkFunc(ctx))
		if err != nil {
			stream.finish(err)
			return
		}
		a.remember(context.WithoutCancel(ctx), req, answer)
		stream.finish(nil)
	}()
	return stream, nil
}

// remember appends the completed exchange to conversation memory.
// A memory failure does not invalidate an already delivered answer.
func (a *Assistant) remember(ctx context.Context, req core.QueryRequest, answer string) {
	now := time.Now().UTC()
	err := a.memory.Append(ctx, req.ConversationID,
		core.Turn{Role: core.RoleUser, Content: req.Prompt, At: now},
		core.Turn{Role: core.RoleAssistant, Content: answer, At: now},
	)
	if err != nil {
		a.logger.Warn("failed to persist conversation turns",
			"conversation", req.ConversationID, "err", err)
	}
}

// chunkFunc adapts the stream to the model's streaming callback, aborting
// generation when the caller's context is cancelled.
func (s *Stream) chunkFunc(ctx context.Context) ai.StreamFunc {
	return func(cbCtx context.Context, chunk []byte) error {
		select {
		case s.chunks <- string(chunk):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-cbCtx.Done():
			return cbCtx.Err()
		}
	}
}

func turnRole(role core.Role) ai.MessageRole {
	if role == core.RoleAssistant {
		return ai.RoleAssistant
	}
	return ai.RoleUser
}
