package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is derived from content hashing so that identical content produces identical IDs.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Well-known metadata keys attached to documents and chunks.
// Strategies may add their own keys; consumers must tolerate missing ones.
const (
	MetaSource     = "source"
	MetaSourceType = "source_type"
	MetaCategory   = "source_category"
	MetaSourceID   = "source_id"
	MetaChunkStart = "chunk_start"
	MetaChunkEnd   = "chunk_end"
	MetaPage       = "page"
)

// Document is one normalized unit of retrievable text with metadata.
// Ingestion strategies produce documents from raw records or pages; the
// splitters derive retrieval-sized chunks from them. A chunk is structurally
// a Document carrying provenance metadata back to its parent.
type Document struct {
	Text     string
	Metadata map[string]string
}

// NewDocument creates a Document with a copy of the given metadata.
func NewDocument(text string, metadata map[string]string) Document {
	md := make(map[string]string, len(metadata))
	for k, v := range metadata {
		md[k] = v
	}
	return Document{Text: text, Metadata: md}
}

// Meta returns the metadata value for key, or "" when absent.
func (d Document) Meta(key string) string {
	return d.Metadata[key]
}

// ID returns the content-derived identifier of the document.
// Provenance metadata participates so that the same text appearing in two
// sources, or twice in one source, yields distinct IDs.
func (d Document) ID() ID {
	return IDFromContent(d.Meta(MetaSourceID) + "\x00" + d.Meta(MetaChunkStart) + "\x00" + d.Text)
}

// Blank reports whether the document text is empty or whitespace only.
func (d Document) Blank() bool {
	return strings.TrimSpace(d.Text) == ""
}

// Role identifies the author of a conversation turn.
type Role int

const (
	// RoleUser represents the human side of the conversation.
	RoleUser Role = iota + 1
	// RoleAssistant represents the model side of the conversation.
	RoleAssistant
)

// Turn is a single (role, content) entry in a conversation window.
type Turn struct {
	Role    Role
	Content string
	At      time.Time
}

// QueryRequest describes one chat query. It is transient per call.
type QueryRequest struct {
	Prompt         string
	ConversationID string
	UseRetrieval   bool
}
