package docvec

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"docvec/tokenize"
	"docvec/vocab"
)

// CorpusConfig controls tokenization and cleaning at corpus construction.
type CorpusConfig struct {
	// Tokenizer splits each lowercased document. Defaults to
	// tokenize.Simple.
	Tokenizer tokenize.Tokenizer
	// Clean removes skip-listed tokens after tokenization. Stopwords and
	// Punctuation are ignored unless Clean is set.
	Clean       bool
	Stopwords   []string
	Punctuation []string
}

// Corpus owns an ordered sequence of raw documents and the views derived
// from it. Tokenized and tagged views are built eagerly at construction so
// tokenizer failures surface immediately; the dictionary and bag-of-words
// views are built lazily, at most once each, on first demand in any order.
type Corpus struct {
	raw       []string
	tokenized [][]string
	tagged    []TaggedDocument

	dictOnce sync.Once
	dict     *vocab.Dictionary

	bowOnce sync.Once
	bow     [][]vocab.BowEntry
}

// NewCorpus tokenizes every document (lowercasing first) and applies the
// configured skip-set. A tokenizer failure on any document fails the whole
// construction; no partial corpus is returned. A nil config uses the
// defaults.
func NewCorpus(docs []string, cfg *CorpusConfig) (*Corpus, error) {
	if cfg == nil {
		cfg = &CorpusConfig{}
	}
	tok := cfg.Tokenizer
	if tok == nil {
		tok = tokenize.Simple{}
	}

	var skip map[string]struct{}
	if cfg.Clean {
		skip = make(map[string]struct{}, len(cfg.Stopwords)+len(cfg.Punctuation))
		for _, s := range cfg.Stopwords {
			skip[s] = struct{}{}
		}
		for _, p := range cfg.Punctuation {
			skip[p] = struct{}{}
		}
		slog.Debug("cleaning enabled", "skip_tokens", len(skip))
	}

	tokenized := make([][]string, len(docs))
	tagged := make([]TaggedDocument, len(docs))
	for i, doc := range docs {
		tokens, err := tok.Tokenize(strings.ToLower(doc))
		if err != nil {
			return nil, fmt.Errorf("docvec: tokenizing document %d: %w", i, err)
		}
		if skip != nil {
			kept := make([]string, 0, len(tokens))
			for _, t := range tokens {
				if _, drop := skip[t]; !drop {
					kept = append(kept, t)
				}
			}
			tokens = kept
		}
		tokenized[i] = tokens
		tagged[i] = TaggedDocument{Words: tokens, Tag: i}
	}

	return &Corpus{
		raw:       docs,
		tokenized: tokenized,
		tagged:    tagged,
	}, nil
}

// Len returns the number of documents.
func (c *Corpus) Len() int { return len(c.raw) }

// Tokens returns the ordered token sequences, one per document.
func (c *Corpus) Tokens() [][]string { return c.tokenized }

// Tagged returns the ordered tagged documents; Tagged()[i].Tag == i.
func (c *Corpus) Tagged() []TaggedDocument { return c.tagged }

// Dictionary returns the shared dictionary, building it on first call by
// scanning all token sequences. Subsequent calls return the same instance.
func (c *Corpus) Dictionary() *vocab.Dictionary {
	c.dictOnce.Do(func() {
		c.dict = vocab.Build(c.tokenized)
		slog.Debug("dictionary built", "tokens", c.dict.Len(), "docs", c.dict.NumDocs())
	})
	return c.dict
}

// BagOfWords returns the ordered bag-of-words documents, building them on
// first call. The dictionary is built first if it has not been requested
// yet.
func (c *Corpus) BagOfWords() [][]vocab.BowEntry {
	c.bowOnce.Do(func() {
		d := c.Dictionary()
		bows := make([][]vocab.BowEntry, len(c.tokenized))
		for i, tokens := range c.tokenized {
			bows[i] = d.DocBow(tokens)
		}
		c.bow = bows
	})
	return c.bow
}
