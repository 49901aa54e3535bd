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

package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/veridian-labs/vigia/core"
	"github.com/veridian-labs/vigia/memory"
)

const conversationPrefix = "convmem"

// Store persists bounded conversation windows in BadgerDB.
type Store struct {
	db       *badger.DB
	maxTurns int
	logger   *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

var _ memory.Store = (*Store)(nil)

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// Open opens a BadgerDB-backed memory store at the specified path.
// Creates the directory if it doesn't exist. When inMemory is true the
// path is ignored and nothing is written to disk.
func Open(filePath string, inMemory bool, maxTurns int) (*Store, error) {
	if maxTurns <= 0 {
		return nil, fmt.Errorf("%w: %d", memory.ErrInvalidMaxTurns, maxTurns)
	}

	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	logger := slog.Default().With("component", "badgerstore")
	opts.Logger = &badgerLoggerAdapter{logger: logger}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:       db,
		maxTurns: maxTurns,
		logger:   logger,
		locks:    make(map[string]*sync.Mutex),
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// History returns the stored window for a conversation, oldest first.
// Unknown conversations read as empty.
func (s *Store) History(ctx context.Context, conversationID string) ([]core.Turn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var turns []core.Turn
	err := s.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get(makeConversationKey(conversationID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &turns)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("reading conversation %s: %w", conversationID, err)
	}
	return turns, nil
}

// Append adds turns to a conversation window, evicting the oldest turns
// once the bound is exceeded. Appends to the same conversation are
// serialized; distinct conversations do not block each other.
func (s *Store) Append(ctx context.Context, conversationID string, turns ...core.Turn) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, turn := range turns {
		if err := core.ValidateTurn(turn); err != nil {
			return err
		}
	}
	if len(turns) == 0 {
		return nil
	}

	lock := s.conversationLock(conversationID)
	lock.Lock()
	defer lock.Unlock()

	err := s.db.Update(func(tx *badger.Txn) error {
		key := makeConversationKey(conversationID)

		var window []core.Turn
		item, err := tx.Get(key)
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err == nil {
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &window)
			}); err != nil {
				return err
			}
		}

		window = append(window, turns...)
		if excess := len(window) - s.maxTurns; excess > 0 {
			window = window[excess:]
		}

		value, err := json.Marshal(window)
		if err != nil {
			return err
		}
		return tx.Set(key, value)
	})
	if err != nil {
		return fmt.Errorf("appending to conversation %s: %w", conversationID, err)
	}
	return nil
}

func (s *Store) conversationLock(conversationID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[conversationID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[conversationID] = lock
	}
	return lock
}

// makeConversationKey generates the key holding a conversation window.
func makeConversationKey(conversationID string) []byte {
	return []byte(fmt.Sprintf("%s:%s", conversationPrefix, conversationID))
}
