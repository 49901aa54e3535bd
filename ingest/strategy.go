package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/veridian-labs/vigia/core"
)

// Strategy parses one resource type into normalized documents.
// Implementations must be thread-safe; the runner parses resources
// concurrently.
type Strategy interface {
	// Parse reads the resource and returns one document per logical record
	// (a CSV row, a PDF page). Splitting into chunks happens later, as a
	// separate pass.
	Parse(ctx context.Context, res Resource) ([]core.Document, error)

	// Key returns the lowercase file extension this strategy handles,
	// without the leading dot (e.g. "csv", "pdf").
	Key() string
}

// Registry maps file-type keys to parsing strategies.
// Strategies are registered explicitly at startup; resolution is by
// case-insensitive file extension.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry creates a registry holding the given strategies.
func NewRegistry(strategies ...Strategy) (*Registry, error) {
	r := &Registry{strategies: make(map[string]Strategy, len(strategies))}
	for _, s := range strategies {
		if err := r.Register(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a strategy under its key.
func (r *Registry) Register(s Strategy) error {
	key := strings.ToLower(s.Key())
	if _, ok := r.strategies[key]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateStrategy, key)
	}
	r.strategies[key] = s
	return nil
}

// Resolve returns the strategy for the given filename, keyed by its
// extension. The second return is false when no strategy is registered;
// callers skip such resources rather than failing the batch.
func (r *Registry) Resolve(filename string) (Strategy, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	s, ok := r.strategies[ext]
	return s, ok
}

// Keys returns the registered strategy keys.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.strategies))
	for k := range r.strategies {
		keys = append(keys, k)
	}
	return keys
}
