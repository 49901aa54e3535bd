// Package chat implements the query-side orchestration of the assistant.
//
// An Assistant answers user prompts either directly or in retrieval mode,
// where the vector store is searched for relevant sanction chunks, the
// retrieved context is folded into the prompt, and the bounded conversation
// memory is consulted and updated. Answers are always streamed through a
// Stream so callers can render tokens as they arrive.
package chat
