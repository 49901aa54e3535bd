package split

import (
	"github.com/pkoukk/tiktoken-go"
)

// Tokenizer segments text into token strings for budget estimation.
// Concatenating the returned tokens must yield the original text, so that
// any token prefix decodes back to a text prefix.
//
// The token unit is an approximation: chunk boundaries are reproducible only
// for a fixed Tokenizer, not across different ones.
type Tokenizer interface {
	Tokenize(text string) []string
}

// TikTokenizer tokenizes with the cl100k_base BPE encoding.
type TikTokenizer struct {
	enc *tiktoken.Tiktoken
}

// NewTikTokenizer loads the cl100k_base encoding.
// Loading may fetch the BPE ranks on first use; callers that need a fully
// offline tokenizer should use HeuristicTokenizer instead.
func NewTikTokenizer() (*TikTokenizer, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, err
	}
	return &TikTokenizer{enc: enc}, nil
}

// Tokenize splits text into the string form of its BPE tokens.
// BPE tokens partition the input, so concatenation restores the text.
func (t *TikTokenizer) Tokenize(text string) []string {
	ids := t.enc.Encode(text, nil, nil)
	tokens := make([]string, len(ids))
	for i, id := range ids {
		tokens[i] = t.enc.Decode([]int{id})
	}
	return tokens
}

// HeuristicTokenizer approximates tokens as groups of up to four runes,
// following the common four-characters-per-token rule of thumb. It needs
// no external data and is fully deterministic.
type HeuristicTokenizer struct{}

// Tokenize splits text into groups of at most four runes.
func (HeuristicTokenizer) Tokenize(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	tokens := make([]string, 0, len(runes)/4+1)
	for start := 0; start < len(runes); start += 4 {
		end := min(start+4, len(runes))
		tokens = append(tokens, string(runes[start:end]))
	}
	return tokens
}
