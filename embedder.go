package docvec

import (
	"fmt"
	"log/slog"
	"sync"

	"gonum.org/v1/gonum/floats"

	"docvec/doc2vec"
	"docvec/internal/tfidf"
	"docvec/wordvec"
)

// EmbedderConfig configures an Embedder.
type EmbedderConfig struct {
	// Pretrained is the path to a word2vec binary file. Strategies that
	// need word vectors fail with ErrNoPretrained when it is empty.
	Pretrained string
	// Logger receives warning diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// Embedder derives document embeddings from one Corpus. Each strategy is
// computed at most once on first demand and cached; none is ever computed
// eagerly, and no strategy triggers another. The cache of a strategy is
// keyed on whether it has ever run: a second call with a different
// parameter returns the first call's result unchanged (see OneHot and
// WordVectorSum).
type Embedder struct {
	corpus     *Corpus
	pretrained string
	log        *slog.Logger

	w2vOnce sync.Once
	w2v     *wordvec.KeyedVectors
	w2vErr  error

	tfidfOnce   sync.Once
	tfidfScores [][]tfidf.Weight

	onehotOnce sync.Once
	onehot     [][]float64

	sumOnce sync.Once
	sum     [][]float64

	denseOnce sync.Once
	dense     [][]float64
}

// NewEmbedder creates an Embedder over the given corpus. The corpus is
// never mutated. A nil config means no pretrained resource.
func NewEmbedder(c *Corpus, cfg *EmbedderConfig) *Embedder {
	if cfg == nil {
		cfg = &EmbedderConfig{}
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Embedder{
		corpus:     c,
		pretrained: cfg.Pretrained,
		log:        log,
	}
}

// OneHot returns one embedding per document, of dictionary-size width,
// formed by summing one-hot vectors of the document's token ids weighted
// by the scorer. ScorerTFIDF triggers a corpus-wide tf-idf computation on
// first use; an unrecognized scorer falls back to ScorerCount with a
// warning. The result is cached on first call regardless of scorer.
func (e *Embedder) OneHot(scorer Scorer) [][]float64 {
	e.onehotOnce.Do(func() {
		e.onehot = e.computeOneHot(scorer)
	})
	return e.onehot
}

func (e *Embedder) computeOneHot(scorer Scorer) [][]float64 {
	dim := e.corpus.Dictionary().Len()

	if scorer == ScorerTFIDF {
		scores := e.tfidfWeights()
		out := make([][]float64, len(scores))
		for i, doc := range scores {
			vec := make([]float64, dim)
			for _, w := range doc {
				floats.Add(vec, OneHotVec(w.ID, dim, w.Value))
			}
			out[i] = vec
		}
		return out
	}

	if scorer != ScorerCount {
		e.log.Warn("unrecognized scorer, using raw count", "scorer", string(scorer))
	}
	bows := e.corpus.BagOfWords()
	out := make([][]float64, len(bows))
	for i, bow := range bows {
		vec := make([]float64, dim)
		for _, entry := range bow {
			floats.Add(vec, OneHotVec(entry.ID, dim, float64(entry.Count)))
		}
		out[i] = vec
	}
	return out
}

// tfidfWeights computes tf-idf weights for every document in one batch.
// IDF is a global statistic, so the weights cannot be derived per document
// in isolation. Computed once, then reused.
func (e *Embedder) tfidfWeights() [][]tfidf.Weight {
	e.tfidfOnce.Do(func() {
		bows := e.corpus.BagOfWords()
		model := tfidf.New(bows)
		scores := make([][]tfidf.Weight, len(bows))
		for i, bow := range bows {
			scores[i] = model.Score(bow)
		}
		e.tfidfScores = scores
	})
	return e.tfidfScores
}

// keyedVectors loads the pretrained table once. The whole table is read
// into memory on first use.
func (e *Embedder) keyedVectors() (*wordvec.KeyedVectors, error) {
	e.w2vOnce.Do(func() {
		e.w2v, e.w2vErr = wordvec.Load(e.pretrained)
	})
	return e.w2v, e.w2vErr
}

// WordVectorSum returns one embedding per document, of pretrained-table
// width, formed by summing the table vectors of the document's tokens.
// Tokens absent from the table contribute zero vectors, so the mean
// normalizer divides by the token count, not the resolved count. The
// result is cached on first call regardless of normalizer. Fails with
// ErrNoPretrained when no resource path was configured; the Embedder
// remains usable for OneHot.
func (e *Embedder) WordVectorSum(normalizer Normalizer) ([][]float64, error) {
	if e.pretrained == "" {
		return nil, fmt.Errorf("docvec: word vector sum: %w", ErrNoPretrained)
	}
	kv, err := e.keyedVectors()
	if err != nil {
		return nil, fmt.Errorf("docvec: word vector sum: %w", err)
	}

	e.sumOnce.Do(func() {
		e.sum = e.computeWordVectorSum(kv, normalizer)
	})
	return e.sum, nil
}

func (e *Embedder) computeWordVectorSum(kv *wordvec.KeyedVectors, normalizer Normalizer) [][]float64 {
	switch normalizer {
	case NormalizerL2, NormalizerMean, NormalizerNone, "":
	default:
		e.log.Warn("unrecognized normalizer, returning raw sums", "normalizer", string(normalizer))
	}

	dim := kv.Dim()
	docs := e.corpus.Tokens()
	out := make([][]float64, len(docs))
	for i, tokens := range docs {
		vec := make([]float64, dim)
		for _, tok := range tokens {
			if wv, ok := kv.Vector(tok); ok {
				floats.Add(vec, wv)
			}
		}
		switch normalizer {
		case NormalizerL2:
			vec = Normalize(vec)
		case NormalizerMean:
			n := len(tokens)
			if n < 1 {
				n = 1
			}
			floats.Scale(1/float64(n), vec)
		}
		out[i] = vec
	}
	return out
}

// DenseEmbedding trains a paragraph-vector model over the tagged corpus
// and returns one vector per document in tag order. This is the most
// expensive strategy and is never triggered implicitly by another. The
// pretrained table is required as initialization material. A nil config
// uses doc2vec.DefaultConfig(). Cached on first call.
func (e *Embedder) DenseEmbedding(cfg *doc2vec.Config) ([][]float64, error) {
	if e.pretrained == "" {
		return nil, fmt.Errorf("docvec: dense embedding: %w", ErrNoPretrained)
	}
	kv, err := e.keyedVectors()
	if err != nil {
		return nil, fmt.Errorf("docvec: dense embedding: %w", err)
	}

	e.denseOnce.Do(func() {
		c := doc2vec.DefaultConfig()
		if cfg != nil {
			c = *cfg
		}
		if c.Pretrained == nil {
			c.Pretrained = kv.Vector
		}
		if c.VectorSize != kv.Dim() {
			e.log.Warn("requested vector size differs from pretrained width",
				"vector_size", c.VectorSize, "pretrained", kv.Dim())
		}

		tagged := e.corpus.Tagged()
		docs := make([]doc2vec.Document, len(tagged))
		for i, td := range tagged {
			docs[i] = doc2vec.Document{Words: td.Words, Tag: td.Tag}
		}

		model := doc2vec.New(c)
		model.BuildVocab(docs)
		model.Train(docs, c.Epochs)

		vectors := make([][]float64, len(docs))
		for i := range docs {
			vectors[i] = model.DocVector(i)
		}
		e.dense = vectors
	})
	return e.dense, nil
}

// FastText is not supported.
func (e *Embedder) FastText() ([][]float64, error) {
	return nil, fmt.Errorf("docvec: fasttext embeddings: %w", ErrNotImplemented)
}

// Attention is not supported.
func (e *Embedder) Attention() ([][]float64, error) {
	return nil, fmt.Errorf("docvec: attention embeddings: %w", ErrNotImplemented)
}
