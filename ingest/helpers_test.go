package ingest

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/veridian-labs/vigia/core"
)

// memResource is an in-memory Resource for tests.
type memResource struct {
	name string
	path string
	data string
}

func (r memResource) Name() string { return r.name }

func (r memResource) Path() string {
	if r.path != "" {
		return r.path
	}
	return r.name
}

func (r memResource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader([]byte(r.data))), nil
}

// memResolver serves a fixed resource set regardless of pattern.
type memResolver struct {
	resources []Resource
}

func (r memResolver) Resolve(string) ([]Resource, error) {
	return r.resources, nil
}

// memLedger is an in-memory storage.Ledger.
type memLedger struct {
	mu      sync.Mutex
	records map[string]time.Time
}

func newMemLedger() *memLedger {
	return &memLedger{records: make(map[string]time.Time)}
}

func (l *memLedger) Exists(_ context.Context, sourceID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.records[sourceID]
	return ok, nil
}

func (l *memLedger) Save(_ context.Context, sourceID string, ingestedAt time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.records[sourceID]; !ok {
		l.records[sourceID] = ingestedAt
	}
	return nil
}

func (l *memLedger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// memVectorStore collects added chunks.
type memVectorStore struct {
	mu     sync.Mutex
	chunks []core.Document
	addErr error
}

func (s *memVectorStore) Add(_ context.Context, chunks []core.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addErr != nil {
		return s.addErr
	}
	s.chunks = append(s.chunks, chunks...)
	return nil
}

func (s *memVectorStore) Search(context.Context, string, float32, int) ([]core.Document, error) {
	return nil, nil
}

func (s *memVectorStore) Close() error { return nil }

func (s *memVectorStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.chunks)
}

// passthroughSplitter returns non-blank documents unchanged.
type passthroughSplitter struct{}

func (passthroughSplitter) Split(docs []core.Document) []core.Document {
	var out []core.Document
	for _, doc := range docs {
		if !doc.Blank() {
			out = append(out, doc)
		}
	}
	return out
}

// textStrategy parses each line of a text resource into one document.
type textStrategy struct {
	key string
	err error
}

func (s textStrategy) Key() string {
	if s.key == "" {
		return "txt"
	}
	return s.key
}

func (s textStrategy) Parse(_ context.Context, res Resource) ([]core.Document, error) {
	if s.err != nil {
		return nil, s.err
	}
	rc, err := res.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}

	var docs []core.Document
	for _, line := range bytes.Split(data, []byte("\n")) {
		docs = append(docs, core.NewDocument(string(line), map[string]string{
			core.MetaSource: res.Name(),
		}))
	}
	return docs, nil
}
