package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// MessageRole identifies the author of a chat message.
type MessageRole string

const (
	// RoleSystem carries the assistant's standing instructions.
	RoleSystem MessageRole = "system"
	// RoleUser carries text written by the end user.
	RoleUser MessageRole = "user"
	// RoleAssistant carries text previously produced by the model.
	RoleAssistant MessageRole = "assistant"
)

// Message is a single entry in a chat completion request.
type Message struct {
	Role    MessageRole
	Content string
}

// StreamFunc receives one chunk of generated text at a time, in order.
// Returning an error aborts the generation.
type StreamFunc func(ctx context.Context, chunk []byte) error

// ChatModel produces streamed chat completions.
// Implementations must be thread-safe for concurrent use.
type ChatModel interface {
	// Generate runs a chat completion over the given messages.
	// If onChunk is non-nil it is invoked for each generated chunk as it
	// arrives; the full concatenated response is returned either way.
	// Returns an error if generation fails or onChunk aborts it.
	Generate(ctx context.Context, messages []Message, onChunk StreamFunc) (string, error)
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder and
// ChatModel instances, ensuring they share configuration and resources.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// ChatModel returns the chat completion service.
	// The returned ChatModel is safe for concurrent use.
	ChatModel() ChatModel

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
