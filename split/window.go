package split

import (
	"strconv"
	"strings"

	"github.com/veridian-labs/vigia/core"
)

// WindowSplitterConfig bounds chunks produced by the WindowSplitter.
type WindowSplitterConfig struct {
	// WindowSize is the number of words per chunk.
	WindowSize int
	// Overlap is how many words consecutive windows share.
	Overlap int
}

// DefaultWindowSplitterConfig returns the production window parameters.
func DefaultWindowSplitterConfig() WindowSplitterConfig {
	return WindowSplitterConfig{
		WindowSize: 500,
		Overlap:    50,
	}
}

// WindowSplitter slides a fixed-size word window with overlap across each
// document. It is stateless; Split may be called concurrently.
type WindowSplitter struct {
	config WindowSplitterConfig
}

// NewWindowSplitter creates a WindowSplitter.
// Overlap >= WindowSize would make the step non-positive and loop forever,
// so it is rejected here.
func NewWindowSplitter(config WindowSplitterConfig) (*WindowSplitter, error) {
	if config.WindowSize <= 0 {
		return nil, ErrInvalidWindowSize
	}
	if config.Overlap < 0 || config.Overlap >= config.WindowSize {
		return nil, ErrOverlapTooLarge
	}
	return &WindowSplitter{config: config}, nil
}

// Split derives overlapping word-window chunks from each document.
// Documents with no non-blank text yield zero chunks. Chunk metadata copies
// the parent's and adds chunk_start/chunk_end word offsets.
func (s *WindowSplitter) Split(docs []core.Document) []core.Document {
	var chunks []core.Document
	for _, doc := range docs {
		chunks = append(chunks, s.splitDocument(doc)...)
	}
	return chunks
}

func (s *WindowSplitter) splitDocument(doc core.Document) []core.Document {
	words := strings.Fields(doc.Text)
	if len(words) == 0 {
		return nil
	}

	step := s.config.WindowSize - s.config.Overlap
	var out []core.Document

	for start := 0; start < len(words); start += step {
		end := min(start+s.config.WindowSize, len(words))

		chunk := core.NewDocument(strings.Join(words[start:end], " "), doc.Metadata)
		chunk.Metadata[core.MetaChunkStart] = strconv.Itoa(start)
		chunk.Metadata[core.MetaChunkEnd] = strconv.Itoa(end)
		out = append(out, chunk)

		// The final window ends exactly at the last word.
		if end == len(words) {
			break
		}
	}

	return out
}
