package split

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridian-labs/vigia/core"
)

// wordTokenizer is a deterministic test tokenizer: one token per word with
// its trailing separator attached, so concatenation restores the text.
type wordTokenizer struct{}

func (wordTokenizer) Tokenize(text string) []string {
	var tokens []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == ' ' || text[i] == '\n' {
			tokens = append(tokens, text[start:i+1])
			start = i + 1
		}
	}
	if start < len(text) {
		tokens = append(tokens, text[start:])
	}
	return tokens
}

func newTestTokenSplitter(t *testing.T, config TokenSplitterConfig) *TokenSplitter {
	t.Helper()
	s, err := NewTokenSplitter(config, wordTokenizer{})
	require.NoError(t, err)
	return s
}

func TestNewTokenSplitterValidation(t *testing.T) {
	_, err := NewTokenSplitter(DefaultTokenSplitterConfig(), nil)
	assert.ErrorIs(t, err, ErrTokenizerRequired)

	_, err = NewTokenSplitter(TokenSplitterConfig{TargetTokens: 0}, wordTokenizer{})
	assert.ErrorIs(t, err, ErrInvalidTokenBudget)
}

func TestTokenSplitterBlankDocument(t *testing.T) {
	s := newTestTokenSplitter(t, DefaultTokenSplitterConfig())

	assert.Empty(t, s.Split([]core.Document{{Text: ""}}))
	assert.Empty(t, s.Split([]core.Document{{Text: "  \n "}}))
	assert.Empty(t, s.Split(nil))
}

func TestTokenSplitterBudget(t *testing.T) {
	s := newTestTokenSplitter(t, TokenSplitterConfig{
		TargetTokens:         100,
		MinCharsPerChunk:     10,
		MinTokensToEmbed:     5,
		MaxChunksPerDocument: 100,
	})

	chunks := s.Split([]core.Document{{Text: words(1000)}})
	require.Len(t, chunks, 10)

	tok := wordTokenizer{}
	for i, chunk := range chunks {
		count := len(tok.Tokenize(chunk.Text))
		assert.LessOrEqual(t, count, 100, "chunk %d exceeds token budget", i)
		if i < len(chunks)-1 {
			assert.GreaterOrEqual(t, len(chunk.Text), 10, "non-final chunk %d below min chars", i)
		}
	}
}

func TestTokenSplitterShortDocumentSingleChunk(t *testing.T) {
	// Shorter than every minimum, still exactly one chunk.
	s := newTestTokenSplitter(t, DefaultTokenSplitterConfig())

	chunks := s.Split([]core.Document{{Text: "multa leve"}})
	require.Len(t, chunks, 1)
	assert.Equal(t, "multa leve", chunks[0].Text)
}

func TestTokenSplitterDropsSmallRemainder(t *testing.T) {
	s := newTestTokenSplitter(t, TokenSplitterConfig{
		TargetTokens:         100,
		MinCharsPerChunk:     10,
		MinTokensToEmbed:     10,
		MaxChunksPerDocument: 100,
	})

	// 105 words: one full chunk plus a 5-token remainder below the
	// embedding minimum, which is dropped.
	chunks := s.Split([]core.Document{{Text: words(105)}})
	require.Len(t, chunks, 1)
}

func TestTokenSplitterMaxChunks(t *testing.T) {
	s := newTestTokenSplitter(t, TokenSplitterConfig{
		TargetTokens:         100,
		MinCharsPerChunk:     10,
		MinTokensToEmbed:     5,
		MaxChunksPerDocument: 3,
	})

	// Excess content is discarded, not carried into a new document.
	chunks := s.Split([]core.Document{{Text: words(1000)}})
	assert.Len(t, chunks, 3)
}

func TestTokenSplitterKeepSeparators(t *testing.T) {
	s := newTestTokenSplitter(t, TokenSplitterConfig{
		TargetTokens:         10,
		MinCharsPerChunk:     5,
		MinTokensToEmbed:     1,
		MaxChunksPerDocument: 100,
		KeepSeparators:       true,
	})

	// The first sentence ends well before the 10-token budget; the chunk
	// edge must land on the period, not mid-sentence.
	text := "la entidad fue sancionada por incumplimiento. la resolución detalla el monto aplicado y la fecha correspondiente al caso"
	chunks := s.Split([]core.Document{{Text: text}})
	require.NotEmpty(t, chunks)
	assert.True(t, strings.HasSuffix(chunks[0].Text, "incumplimiento."),
		"first chunk should end at the sentence boundary, got %q", chunks[0].Text)
}

func TestTokenSplitterProvenanceMetadata(t *testing.T) {
	s := newTestTokenSplitter(t, TokenSplitterConfig{
		TargetTokens:         50,
		MinCharsPerChunk:     10,
		MinTokensToEmbed:     5,
		MaxChunksPerDocument: 100,
	})

	doc := core.NewDocument(words(120), map[string]string{
		core.MetaSourceID: "sanciones/sanciones.csv",
		"resolucion":      "R-001",
	})
	chunks := s.Split([]core.Document{doc})
	require.NotEmpty(t, chunks)

	for _, chunk := range chunks {
		assert.Equal(t, "sanciones/sanciones.csv", chunk.Meta(core.MetaSourceID))
		assert.Equal(t, "R-001", chunk.Meta("resolucion"))
		assert.NotEmpty(t, chunk.Meta(core.MetaChunkStart))
		assert.NotEmpty(t, chunk.Meta(core.MetaChunkEnd))
	}
	assert.Equal(t, "0", chunks[0].Meta(core.MetaChunkStart))
}

func TestTokenSplitterDeterministic(t *testing.T) {
	s := newTestTokenSplitter(t, TokenSplitterConfig{
		TargetTokens:         64,
		MinCharsPerChunk:     10,
		MinTokensToEmbed:     5,
		MaxChunksPerDocument: 100,
		KeepSeparators:       true,
	})

	doc := core.Document{Text: words(777)}
	first := s.Split([]core.Document{doc})
	second := s.Split([]core.Document{doc})
	assert.Equal(t, first, second)
}

func TestHeuristicTokenizerRoundTrip(t *testing.T) {
	tok := HeuristicTokenizer{}

	for _, text := range []string{"", "abc", "sanción número 42 con acentos y ñ", words(30)} {
		tokens := tok.Tokenize(text)
		assert.Equal(t, text, strings.Join(tokens, ""))
	}
}
