package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/veridian-labs/vigia/core"
)

// DefaultMaxTurns is the production conversation window bound.
const DefaultMaxTurns = 6

// ErrInvalidMaxTurns indicates a non-positive window bound.
var ErrInvalidMaxTurns = errors.New("max turns must be positive")

// Store maps conversation identifiers to bounded turn windows.
// Implementations must be safe for concurrent use and must serialize
// appends within one conversation.
type Store interface {
	// History returns the conversation's recent turns, oldest first.
	// An unknown conversation id yields an empty history, not an error.
	History(ctx context.Context, conversationID string) ([]core.Turn, error)

	// Append adds turns to the conversation's window, creating it on first
	// use and evicting the oldest turns beyond the bound.
	Append(ctx context.Context, conversationID string, turns ...core.Turn) error
}

// Window is a bounded FIFO sequence of turns. It is not safe for
// concurrent use; callers hold their own per-conversation lock.
type Window struct {
	maxTurns int
	turns    []core.Turn
}

// NewWindow creates an empty window bounded to maxTurns entries.
func NewWindow(maxTurns int) (*Window, error) {
	if maxTurns <= 0 {
		return nil, ErrInvalidMaxTurns
	}
	return &Window{maxTurns: maxTurns}, nil
}

// Append adds turns, evicting the oldest entries beyond the bound.
func (w *Window) Append(turns ...core.Turn) {
	w.turns = append(w.turns, turns...)
	if excess := len(w.turns) - w.maxTurns; excess > 0 {
		w.turns = append(w.turns[:0:0], w.turns[excess:]...)
	}
}

// Turns returns a copy of the window contents, oldest first.
func (w *Window) Turns() []core.Turn {
	out := make([]core.Turn, len(w.turns))
	copy(out, w.turns)
	return out
}

// Len returns the number of turns currently held.
func (w *Window) Len() int {
	return len(w.turns)
}

// KeyedStore is the in-memory Store. A short-lived map lock guards
// conversation lookup; each conversation then carries its own mutex, so
// operations on distinct conversations proceed without contention.
type KeyedStore struct {
	maxTurns int

	mu            sync.RWMutex
	conversations map[string]*conversation
}

type conversation struct {
	mu     sync.Mutex
	window *Window
}

var _ Store = (*KeyedStore)(nil)

// NewKeyedStore creates an in-memory store with the given window bound.
func NewKeyedStore(maxTurns int) (*KeyedStore, error) {
	if maxTurns <= 0 {
		return nil, ErrInvalidMaxTurns
	}
	return &KeyedStore{
		maxTurns:      maxTurns,
		conversations: make(map[string]*conversation),
	}, nil
}

// History returns the conversation's recent turns, oldest first.
func (s *KeyedStore) History(_ context.Context, conversationID string) ([]core.Turn, error) {
	s.mu.RLock()
	conv, ok := s.conversations[conversationID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()
	return conv.window.Turns(), nil
}

// Append adds turns to the conversation, creating its window lazily.
func (s *KeyedStore) Append(_ context.Context, conversationID string, turns ...core.Turn) error {
	for _, turn := range turns {
		if err := core.ValidateTurn(turn); err != nil {
			return err
		}
	}

	conv := s.conversation(conversationID)
	conv.mu.Lock()
	defer conv.mu.Unlock()
	conv.window.Append(turns...)
	return nil
}

func (s *KeyedStore) conversation(conversationID string) *conversation {
	s.mu.RLock()
	conv, ok := s.conversations[conversationID]
	s.mu.RUnlock()
	if ok {
		return conv
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if conv, ok = s.conversations[conversationID]; ok {
		return conv
	}
	window, _ := NewWindow(s.maxTurns)
	conv = &conversation{window: window}
	s.conversations[conversationID] = conv
	return conv
}
