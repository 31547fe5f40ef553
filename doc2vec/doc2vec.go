// Package doc2vec trains paragraph vectors over a tagged corpus. It
// implements the distributed-memory and distributed-bag-of-words modes with
// negative sampling, and can seed its word vectors from a pretrained table.
package doc2vec

import (
	"log/slog"
	"math"
	"math/rand"
	"sort"
)

// Mode selects the training objective.
type Mode int

const (
	// DistributedMemory predicts a center word from the document vector
	// averaged with its context word vectors.
	DistributedMemory Mode = iota
	// DistributedBagOfWords predicts each word from the document vector
	// alone.
	DistributedBagOfWords
)

// Lookup resolves a word to a pretrained vector. A miss returns false.
type Lookup func(word string) ([]float64, bool)

// Config holds training hyperparameters.
type Config struct {
	VectorSize int
	Window     int
	MinCount   int
	Mode       Mode
	Epochs     int
	Alpha      float64 // starting learning rate
	MinAlpha   float64
	Negative   int // negative samples per target
	Seed       int64
	Pretrained Lookup // optional word vector initialization
	Verbose    bool
}

// DefaultConfig returns the default hyperparameters.
func DefaultConfig() Config {
	return Config{
		VectorSize: 300,
		Window:     5,
		MinCount:   5,
		Mode:       DistributedMemory,
		Epochs:     20,
		Alpha:      0.025,
		MinAlpha:   1e-4,
		Negative:   5,
		Seed:       1,
	}
}

// Document is one training unit: a token sequence and its corpus index.
type Document struct {
	Words []string
	Tag   int
}

const negTableSize = 100_000

// Model holds the trainer vocabulary and the learned vectors.
type Model struct {
	cfg Config

	words   []string
	wordIDs map[string]int
	counts  []int

	docVecs  [][]float64 // indexed by tag
	wordVecs [][]float64
	ctxVecs  [][]float64 // output layer

	negTable []int
	rng      *rand.Rand
}

// New creates an untrained model. BuildVocab must be called before Train.
func New(cfg Config) *Model {
	if cfg.VectorSize <= 0 {
		cfg.VectorSize = 300
	}
	if cfg.Window <= 0 {
		cfg.Window = 5
	}
	if cfg.MinCount < 1 {
		cfg.MinCount = 1
	}
	if cfg.Epochs <= 0 {
		cfg.Epochs = 20
	}
	if cfg.Alpha <= 0 {
		cfg.Alpha = 0.025
	}
	if cfg.MinAlpha <= 0 {
		cfg.MinAlpha = 1e-4
	}
	if cfg.Negative <= 0 {
		cfg.Negative = 5
	}
	return &Model{
		cfg:     cfg,
		wordIDs: make(map[string]int),
		rng:     rand.New(rand.NewSource(cfg.Seed)),
	}
}

// BuildVocab counts word occurrences across the tagged corpus, keeps words
// with count >= MinCount, and initializes all vectors. Word vectors matching
// the pretrained table (and its width) start from the pretrained values;
// the rest start from small random values. Document vectors start from small
// random values when the document has at least one trainable word, and stay
// zero otherwise so an untrainable document keeps a zero vector.
func (m *Model) BuildVocab(docs []Document) {
	counts := make(map[string]int)
	maxTag := -1
	for _, doc := range docs {
		for _, w := range doc.Words {
			counts[w]++
		}
		if doc.Tag > maxTag {
			maxTag = doc.Tag
		}
	}

	kept := make([]string, 0, len(counts))
	for w, c := range counts {
		if c >= m.cfg.MinCount {
			kept = append(kept, w)
		}
	}
	sort.Strings(kept)

	m.words = kept
	m.counts = make([]int, len(kept))
	m.wordIDs = make(map[string]int, len(kept))
	for i, w := range kept {
		m.wordIDs[w] = i
		m.counts[i] = counts[w]
	}

	dim := m.cfg.VectorSize
	m.docVecs = make([][]float64, maxTag+1)
	for i := range m.docVecs {
		m.docVecs[i] = make([]float64, dim)
	}
	for _, doc := range docs {
		if doc.Tag < 0 || doc.Tag >= len(m.docVecs) {
			continue
		}
		for _, w := range doc.Words {
			if _, ok := m.wordIDs[w]; ok {
				m.docVecs[doc.Tag] = m.randomVector(dim)
				break
			}
		}
	}
	m.wordVecs = make([][]float64, len(kept))
	m.ctxVecs = make([][]float64, len(kept))
	pretrainedHits := 0
	for i, w := range kept {
		m.ctxVecs[i] = make([]float64, dim)
		if m.cfg.Pretrained != nil {
			if vec, ok := m.cfg.Pretrained(w); ok && len(vec) == dim {
				m.wordVecs[i] = append([]float64(nil), vec...)
				pretrainedHits++
				continue
			}
		}
		m.wordVecs[i] = m.randomVector(dim)
	}

	m.buildNegTable()

	if m.cfg.Verbose {
		slog.Debug("vocabulary built",
			"words", len(kept), "docs", len(docs), "pretrained", pretrainedHits)
	}
}

func (m *Model) randomVector(dim int) []float64 {
	vec := make([]float64, dim)
	for i := range vec {
		vec[i] = (m.rng.Float64() - 0.5) / float64(dim)
	}
	return vec
}

// buildNegTable fills the negative sampling table with word ids in
// proportion to count^0.75.
func (m *Model) buildNegTable() {
	m.negTable = make([]int, 0, negTableSize)
	if len(m.counts) == 0 {
		return
	}
	var total float64
	for _, c := range m.counts {
		total += math.Pow(float64(c), 0.75)
	}
	var cum float64
	for id, c := range m.counts {
		cum += math.Pow(float64(c), 0.75) / total
		for len(m.negTable) < int(cum*negTableSize) {
			m.negTable = append(m.negTable, id)
		}
	}
	for len(m.negTable) < negTableSize {
		m.negTable = append(m.negTable, len(m.counts)-1)
	}
}

// VocabSize returns the number of trainable words.
func (m *Model) VocabSize() int { return len(m.words) }

// Train runs the requested number of epochs of stochastic gradient descent
// over the full corpus, with the learning rate decaying linearly from Alpha
// to MinAlpha. Epochs <= 0 falls back to the configured value.
func (m *Model) Train(docs []Document, epochs int) {
	if epochs <= 0 {
		epochs = m.cfg.Epochs
	}

	total := 0
	for _, doc := range docs {
		total += len(doc.Words)
	}
	total *= epochs
	if total == 0 {
		return
	}

	processed := 0
	for epoch := 0; epoch < epochs; epoch++ {
		for _, doc := range docs {
			m.trainDocument(doc, &processed, total)
		}
		if m.cfg.Verbose {
			slog.Debug("epoch finished", "epoch", epoch+1, "of", epochs)
		}
	}
}

func (m *Model) trainDocument(doc Document, processed *int, total int) {
	ids := make([]int, 0, len(doc.Words))
	for _, w := range doc.Words {
		if id, ok := m.wordIDs[w]; ok {
			ids = append(ids, id)
		}
	}
	*processed += len(doc.Words)
	if len(ids) == 0 || doc.Tag < 0 || doc.Tag >= len(m.docVecs) {
		return
	}

	alpha := m.cfg.Alpha * (1 - float64(*processed)/float64(total))
	if alpha < m.cfg.MinAlpha {
		alpha = m.cfg.MinAlpha
	}
	docVec := m.docVecs[doc.Tag]

	for pos, target := range ids {
		if m.cfg.Mode == DistributedBagOfWords {
			m.updatePair(docVec, target, alpha)
			continue
		}

		// Distributed memory: average the document vector with the
		// context word vectors, then predict the center word.
		reduced := m.rng.Intn(m.cfg.Window) + 1
		lo, hi := pos-reduced, pos+reduced
		if lo < 0 {
			lo = 0
		}
		if hi >= len(ids) {
			hi = len(ids) - 1
		}

		dim := m.cfg.VectorSize
		input := make([]float64, dim)
		copy(input, docVec)
		n := 1
		for c := lo; c <= hi; c++ {
			if c == pos {
				continue
			}
			for j, v := range m.wordVecs[ids[c]] {
				input[j] += v
			}
			n++
		}
		for j := range input {
			input[j] /= float64(n)
		}

		errVec := m.updatePair(input, target, alpha)

		// Distribute the accumulated error to the document vector and
		// every context word vector.
		for j, g := range errVec {
			docVec[j] += g
		}
		for c := lo; c <= hi; c++ {
			if c == pos {
				continue
			}
			wv := m.wordVecs[ids[c]]
			for j, g := range errVec {
				wv[j] += g
			}
		}
	}
}

// updatePair runs one negative sampling step predicting target from input.
// The output-layer vectors are updated in place; the returned gradient is
// the error to propagate back to the input side. In DBOW mode the input is
// the document vector itself, so the error is applied to it directly and
// the return value is nil.
func (m *Model) updatePair(input []float64, target int, alpha float64) []float64 {
	dim := m.cfg.VectorSize
	var errVec []float64
	inPlace := m.cfg.Mode == DistributedBagOfWords
	if !inPlace {
		errVec = make([]float64, dim)
	}

	for k := 0; k <= m.cfg.Negative; k++ {
		var sample int
		var label float64
		if k == 0 {
			sample, label = target, 1
		} else {
			sample = m.negTable[m.rng.Intn(len(m.negTable))]
			if sample == target {
				continue
			}
		}
		ctx := m.ctxVecs[sample]

		var dot float64
		for j := range input {
			dot += input[j] * ctx[j]
		}
		g := (label - sigmoid(dot)) * alpha

		if inPlace {
			for j := range input {
				in := input[j]
				input[j] += g * ctx[j]
				ctx[j] += g * in
			}
		} else {
			for j := range input {
				errVec[j] += g * ctx[j]
				ctx[j] += g * input[j]
			}
		}
	}
	return errVec
}

const maxExp = 6.0

func sigmoid(x float64) float64 {
	if x > maxExp {
		return 1
	}
	if x < -maxExp {
		return 0
	}
	return 1 / (1 + math.Exp(-x))
}

// DocVector returns the trained vector for a document tag. Unknown tags
// yield a zero vector of the configured size.
func (m *Model) DocVector(tag int) []float64 {
	if tag < 0 || tag >= len(m.docVecs) {
		return make([]float64, m.cfg.VectorSize)
	}
	return m.docVecs[tag]
}
