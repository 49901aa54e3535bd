package split

import (
	"strconv"
	"strings"

	"github.com/veridian-labs/vigia/core"
)

// TokenSplitterConfig bounds chunks produced by the TokenSplitter.
type TokenSplitterConfig struct {
	// TargetTokens is the maximum estimated token count per chunk.
	TargetTokens int
	// MinCharsPerChunk drops chunks whose trimmed text is shorter than this,
	// unless the chunk is the only one for its document.
	MinCharsPerChunk int
	// MinTokensToEmbed drops a trailing remainder shorter than this many
	// tokens, unless it is the only chunk for its document.
	MinTokensToEmbed int
	// MaxChunksPerDocument truncates output per input document; excess
	// content is discarded.
	MaxChunksPerDocument int
	// KeepSeparators cuts chunks back to sentence boundaries so that chunk
	// edges fall after '.', '?', '!' or a newline rather than mid-word.
	KeepSeparators bool
}

// DefaultTokenSplitterConfig returns the production chunking parameters.
func DefaultTokenSplitterConfig() TokenSplitterConfig {
	return TokenSplitterConfig{
		TargetTokens:         504,
		MinCharsPerChunk:     100,
		MinTokensToEmbed:     50,
		MaxChunksPerDocument: 100,
		KeepSeparators:       true,
	}
}

// TokenSplitter splits documents into chunks bounded by an estimated token
// budget. It is stateless; Split may be called concurrently.
type TokenSplitter struct {
	config    TokenSplitterConfig
	tokenizer Tokenizer
}

// NewTokenSplitter creates a TokenSplitter.
// Misconfiguration is fatal here rather than at split time.
func NewTokenSplitter(config TokenSplitterConfig, tokenizer Tokenizer) (*TokenSplitter, error) {
	if tokenizer == nil {
		return nil, ErrTokenizerRequired
	}
	if config.TargetTokens <= 0 {
		return nil, ErrInvalidTokenBudget
	}
	if config.MaxChunksPerDocument <= 0 {
		config.MaxChunksPerDocument = DefaultTokenSplitterConfig().MaxChunksPerDocument
	}
	return &TokenSplitter{config: config, tokenizer: tokenizer}, nil
}

// Split derives token-bounded chunks from each document.
// Blank documents yield zero chunks. Chunk metadata copies the parent's
// and adds chunk_start/chunk_end token offsets.
func (s *TokenSplitter) Split(docs []core.Document) []core.Document {
	var chunks []core.Document
	for _, doc := range docs {
		chunks = append(chunks, s.splitDocument(doc)...)
	}
	return chunks
}

func (s *TokenSplitter) splitDocument(doc core.Document) []core.Document {
	if doc.Blank() {
		return nil
	}

	tokens := s.tokenizer.Tokenize(doc.Text)
	var out []core.Document
	offset := 0

	for len(tokens) > 0 && len(out) < s.config.MaxChunksPerDocument {
		take := min(s.config.TargetTokens, len(tokens))
		chunkText := strings.Join(tokens[:take], "")

		if strings.TrimSpace(chunkText) == "" {
			tokens = tokens[take:]
			offset += take
			continue
		}

		if s.config.KeepSeparators {
			// Prefer a sentence boundary past the minimum chunk length.
			if cut := lastBoundary(chunkText); cut+1 >= s.config.MinCharsPerChunk {
				chunkText = chunkText[:cut+1]
			}
		} else {
			chunkText = strings.ReplaceAll(chunkText, "\n", " ")
		}

		consumed := len(s.tokenizer.Tokenize(chunkText))
		if consumed <= 0 || consumed > take {
			consumed = take
		}
		tokens = tokens[consumed:]

		trimmed := strings.TrimSpace(chunkText)
		keep := len(trimmed) >= s.config.MinCharsPerChunk
		if len(tokens) == 0 && consumed < s.config.MinTokensToEmbed {
			// Trailing remainder too small to be worth embedding.
			keep = false
		}
		if keep {
			out = append(out, s.chunk(doc, trimmed, offset, offset+consumed))
		}
		offset += consumed
	}

	// A document smaller than every minimum still yields exactly one chunk.
	if len(out) == 0 {
		whole := strings.TrimSpace(doc.Text)
		if len(s.tokenizer.Tokenize(whole)) <= s.config.TargetTokens {
			out = append(out, s.chunk(doc, whole, 0, len(s.tokenizer.Tokenize(whole))))
		}
	}

	return out
}

func (s *TokenSplitter) chunk(parent core.Document, text string, start, end int) core.Document {
	chunk := core.NewDocument(text, parent.Metadata)
	chunk.Metadata[core.MetaChunkStart] = strconv.Itoa(start)
	chunk.Metadata[core.MetaChunkEnd] = strconv.Itoa(end)
	return chunk
}

// lastBoundary returns the index of the last sentence boundary character
// in text, or -1 when there is none.
func lastBoundary(text string) int {
	return strings.LastIndexAny(text, ".?!\n")
}
