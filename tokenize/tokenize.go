// Package tokenize provides tokenizers that split document text into word
// and punctuation tokens.
package tokenize

import (
	"regexp"
	"strings"

	"github.com/jdkato/prose/v2"
)

// Tokenizer splits a document string into an ordered sequence of tokens.
type Tokenizer interface {
	Tokenize(text string) ([]string, error)
}

// Word tokens are runs of letters, digits and underscores; punctuation runs
// are kept as their own tokens so punctuation skip-sets can match them.
var simpleRe = regexp.MustCompile(`[\p{L}\p{N}_]+|[^\p{L}\p{N}_\s]+`)

// Simple is a regex tokenizer. It is deterministic, Unicode-aware and never
// fails.
type Simple struct{}

// Tokenize extracts word and punctuation tokens from text.
func (Simple) Tokenize(text string) ([]string, error) {
	return simpleRe.FindAllString(text, -1), nil
}

// Prose tokenizes with the prose NLP library. Heavier than Simple, but
// handles contractions and unit-like tokens the way a treebank tokenizer
// does.
type Prose struct{}

// Tokenize extracts tokens from text using prose's tokenizer. Tagging,
// entity extraction and sentence segmentation are disabled.
func (Prose) Tokenize(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithExtraction(false),
		prose.WithSegmentation(false),
	)
	if err != nil {
		return nil, err
	}
	toks := doc.Tokens()
	out := make([]string, 0, len(toks))
	for _, tok := range toks {
		out = append(out, tok.Text)
	}
	return out, nil
}
