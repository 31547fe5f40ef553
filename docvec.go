// Package docvec derives numeric representations from a sequence of raw
// text documents: token streams, a shared dictionary, bag-of-words,
// tf-idf weights and several document embeddings.
//
// All derived views are computed at most once and cached. The Corpus owns
// the token-level views; the Embedder builds embedding strategies on top
// of them:
//
//	corpus, _ := docvec.NewCorpus(docs, nil)
//	emb := docvec.NewEmbedder(corpus, &docvec.EmbedderConfig{Pretrained: "vectors.bin"})
//	vectors := emb.OneHot(docvec.ScorerTFIDF)
package docvec

import "errors"

// ErrNoPretrained is returned when a strategy that needs pretrained word
// vectors is invoked on an Embedder configured without a resource path.
var ErrNoPretrained = errors.New("pretrained word vectors not configured")

// ErrNotImplemented marks embedding strategies that are recognized but not
// supported.
var ErrNotImplemented = errors.New("not implemented")

// TaggedDocument pairs a token sequence with its corpus index. The tag is
// the document's stable identity across all derived views.
type TaggedDocument struct {
	Words []string
	Tag   int
}

// Scorer selects the per-token weight used by the one-hot embedding.
type Scorer string

const (
	// ScorerTFIDF weights tokens by tf-idf over the whole corpus.
	ScorerTFIDF Scorer = "tfidf"
	// ScorerCount weights tokens by their raw in-document count.
	ScorerCount Scorer = "count"
)

// Normalizer selects how a summed word-vector document embedding is scaled.
type Normalizer string

const (
	// NormalizerL2 scales the sum with Normalize. Note that Normalize
	// divides by the L1 norm; see its doc comment.
	NormalizerL2 Normalizer = "l2"
	// NormalizerMean divides the sum by max(token count, 1).
	NormalizerMean Normalizer = "mean"
	// NormalizerNone returns the raw sum.
	NormalizerNone Normalizer = "none"
)
