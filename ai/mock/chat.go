package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/veridian-labs/vigia/ai"
)

// MockChatModel is a test double for ai.ChatModel.
// It allows custom behavior injection via function fields.
type MockChatModel struct {
	// GenerateFunc is called by Generate if set.
	// If nil, uses the scripted Chunks/Err behavior.
	GenerateFunc func(ctx context.Context, messages []ai.Message, onChunk ai.StreamFunc) (string, error)

	// Chunks are streamed one by one on each Generate call when
	// GenerateFunc is nil. When empty, a single default chunk is streamed.
	Chunks []string

	// Err, when set, is returned after all Chunks have been streamed.
	Err error

	mu        sync.Mutex
	calls     [][]ai.Message
	callCount int
}

// NewMockChatModel creates a mock chat model that streams the given chunks.
// Note: Returns concrete type to allow test assertions.
func NewMockChatModel(chunks ...string) *MockChatModel {
	return &MockChatModel{Chunks: chunks}
}

// Generate streams the scripted chunks through onChunk, in order.
func (m *MockChatModel) Generate(ctx context.Context, messages []ai.Message, onChunk ai.StreamFunc) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.calls = append(m.calls, append([]ai.Message(nil), messages...))
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, messages, onChunk)
	}

	chunks := m.Chunks
	if len(chunks) == 0 {
		chunks = []string{"respuesta simulada"}
	}

	var sb strings.Builder
	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		sb.WriteString(chunk)
		if onChunk != nil {
			if err := onChunk(ctx, []byte(chunk)); err != nil {
				return "", err
			}
		}
	}
	if m.Err != nil {
		return "", m.Err
	}
	return sb.String(), nil
}

// CallCount returns the number of Generate calls.
func (m *MockChatModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastMessages returns the messages passed to the most recent Generate call,
// or nil if Generate was never called.
func (m *MockChatModel) LastMessages() []ai.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return nil
	}
	return m.calls[len(m.calls)-1]
}

// Reset clears recorded calls and any injected behavior.
func (m *MockChatModel) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.calls = nil
	m.GenerateFunc = nil
	m.Err = nil
}
