package docvec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"docvec/doc2vec"
)

// writeWordVectors writes a word2vec binary file for tests.
func writeWordVectors(t *testing.T, entries map[string][]float32, dim int) string {
	t.Helper()
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d %d\n", len(entries), dim)
	for word, vec := range entries {
		buf.WriteString(word)
		buf.WriteByte(' ')
		for _, v := range vec {
			var b [4]byte
			binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
			buf.Write(b[:])
		}
		buf.WriteByte('\n')
	}
	path := filepath.Join(t.TempDir(), "vectors.bin")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testVectorsPath(t *testing.T) string {
	t.Helper()
	return writeWordVectors(t, map[string][]float32{
		"cat": {1, 2, 3},
		"dog": {1, 0, 1},
	}, 3)
}

func mustCorpus(t *testing.T, docs []string) *Corpus {
	t.Helper()
	c, err := NewCorpus(docs, nil)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestOneHotCount(t *testing.T) {
	c := mustCorpus(t, []string{"cat cat dog", "dog"})
	e := NewEmbedder(c, nil)

	vectors := e.OneHot(ScorerCount)
	if len(vectors) != 2 {
		t.Fatalf("got %d vectors, want 2", len(vectors))
	}
	d := c.Dictionary()
	catID, _ := d.ID("cat")
	dogID, _ := d.ID("dog")
	if vectors[0][catID] != 2 || vectors[0][dogID] != 1 {
		t.Errorf("doc 0 = %v, want count weights 2 and 1", vectors[0])
	}
	if vectors[1][catID] != 0 || vectors[1][dogID] != 1 {
		t.Errorf("doc 1 = %v, want count weights 0 and 1", vectors[1])
	}
}

func TestOneHotTfidfDiscountsUbiquitousTerms(t *testing.T) {
	docs := []string{"the rare rare rare", "the", "the"}
	c := mustCorpus(t, docs)
	d := c.Dictionary()
	theID, _ := d.ID("the")
	rareID, _ := d.ID("rare")

	// Separate embedders: the one-hot cache is keyed on first use.
	tfidfVecs := NewEmbedder(c, nil).OneHot(ScorerTFIDF)
	countVecs := NewEmbedder(c, nil).OneHot(ScorerCount)

	if tfidfVecs[0][theID] != 0 {
		t.Errorf("tf-idf weight of ubiquitous term = %v, want 0", tfidfVecs[0][theID])
	}
	if countVecs[0][theID] == 0 {
		t.Error("count weight of ubiquitous term should be nonzero")
	}
	if tfidfVecs[0][rareID] <= 0 {
		t.Errorf("tf-idf weight of rare term = %v, want > 0", tfidfVecs[0][rareID])
	}
}

func TestOneHotUnknownScorerFallsBackToCount(t *testing.T) {
	c := mustCorpus(t, []string{"cat dog", "dog"})
	got := NewEmbedder(c, nil).OneHot(Scorer("bogus"))
	want := NewEmbedder(c, nil).OneHot(ScorerCount)
	for i := range want {
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Fatalf("fallback differs from count at [%d][%d]", i, j)
			}
		}
	}
}

func TestOneHotCachedAcrossScorers(t *testing.T) {
	c := mustCorpus(t, []string{"the rare rare", "the", "the"})
	e := NewEmbedder(c, nil)

	first := e.OneHot(ScorerTFIDF)
	second := e.OneHot(ScorerCount)
	if &first[0] != &second[0] {
		t.Error("second call recomputed; the first scorer's result must be reused")
	}
}

func TestOneHotEmptyDocument(t *testing.T) {
	c := mustCorpus(t, []string{"cat", ""})
	vectors := NewEmbedder(c, nil).OneHot(ScorerCount)
	for _, v := range vectors[1] {
		if v != 0 {
			t.Fatal("empty document must embed to a zero vector")
		}
	}
}

func TestWordVectorSumNoPretrained(t *testing.T) {
	c := mustCorpus(t, []string{"cat"})
	e := NewEmbedder(c, nil)

	if _, err := e.WordVectorSum(NormalizerL2); !errors.Is(err, ErrNoPretrained) {
		t.Fatalf("err = %v, want ErrNoPretrained", err)
	}
	// The embedder stays usable for one-hot.
	if vectors := e.OneHot(ScorerCount); len(vectors) != 1 {
		t.Error("OneHot should still work after the configuration error")
	}
}

func TestWordVectorSumRaw(t *testing.T) {
	c := mustCorpus(t, []string{"cat dog", "bird", ""})
	e := NewEmbedder(c, &EmbedderConfig{Pretrained: testVectorsPath(t)})

	vectors, err := e.WordVectorSum(NormalizerNone)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{2, 2, 4}
	for j := range want {
		if vectors[0][j] != want[j] {
			t.Errorf("doc 0 = %v, want %v", vectors[0], want)
			break
		}
	}
	// Unknown tokens contribute zero vectors; empty docs sum to zero.
	for i := 1; i < 3; i++ {
		for _, v := range vectors[i] {
			if v != 0 {
				t.Errorf("doc %d = %v, want zeros", i, vectors[i])
				break
			}
		}
	}
}

func TestWordVectorSumL2UsesL1Divisor(t *testing.T) {
	c := mustCorpus(t, []string{"cat dog"})
	e := NewEmbedder(c, &EmbedderConfig{Pretrained: testVectorsPath(t)})

	vectors, err := e.WordVectorSum(NormalizerL2)
	if err != nil {
		t.Fatal(err)
	}
	// Sum is {2,2,4}; the "l2" path divides by the L1 norm (8), the
	// pipeline's historical behavior.
	want := []float64{0.25, 0.25, 0.5}
	for j := range want {
		if math.Abs(vectors[0][j]-want[j]) > 1e-12 {
			t.Errorf("doc 0 = %v, want %v", vectors[0], want)
			break
		}
	}
}

func TestWordVectorSumMean(t *testing.T) {
	c := mustCorpus(t, []string{"cat dog", ""})
	e := NewEmbedder(c, &EmbedderConfig{Pretrained: testVectorsPath(t)})

	vectors, err := e.WordVectorSum(NormalizerMean)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{1, 1, 2}
	for j := range want {
		if vectors[0][j] != want[j] {
			t.Errorf("doc 0 = %v, want %v", vectors[0], want)
			break
		}
	}
	// max(token count, 1) guards the empty document.
	for _, v := range vectors[1] {
		if v != 0 {
			t.Fatal("empty document must embed to a zero vector")
		}
	}
}

func TestWordVectorSumCachedAcrossNormalizers(t *testing.T) {
	c := mustCorpus(t, []string{"cat dog"})
	e := NewEmbedder(c, &EmbedderConfig{Pretrained: testVectorsPath(t)})

	first, err := e.WordVectorSum(NormalizerL2)
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.WordVectorSum(NormalizerMean)
	if err != nil {
		t.Fatal(err)
	}
	if &first[0] != &second[0] {
		t.Error("second call recomputed; the first normalizer's result must be reused")
	}
}

func TestDenseEmbedding(t *testing.T) {
	c := mustCorpus(t, []string{
		"cat sat cat sat",
		"dog ran dog ran",
		"",
	})
	e := NewEmbedder(c, &EmbedderConfig{Pretrained: testVectorsPath(t)})

	cfg := doc2vec.DefaultConfig()
	cfg.VectorSize = 3
	cfg.MinCount = 1
	cfg.Window = 2
	cfg.Epochs = 2
	cfg.Seed = 7

	vectors, err := e.DenseEmbedding(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(vectors) != 3 {
		t.Fatalf("got %d vectors, want 3", len(vectors))
	}
	for i, v := range vectors {
		if len(v) != 3 {
			t.Errorf("doc %d width = %d, want 3", i, len(v))
		}
	}
	for _, v := range vectors[2] {
		if v != 0 {
			t.Fatal("empty document must embed to a zero vector")
		}
	}

	again, err := e.DenseEmbedding(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	if &vectors[0] != &again[0] {
		t.Error("dense embedding recomputed instead of returning the cache")
	}
}

func TestDenseEmbeddingNoPretrained(t *testing.T) {
	c := mustCorpus(t, []string{"cat"})
	if _, err := NewEmbedder(c, nil).DenseEmbedding(nil); !errors.Is(err, ErrNoPretrained) {
		t.Fatalf("err = %v, want ErrNoPretrained", err)
	}
}

func TestUnsupportedStrategies(t *testing.T) {
	e := NewEmbedder(mustCorpus(t, []string{"cat"}), nil)
	if _, err := e.FastText(); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("FastText err = %v, want ErrNotImplemented", err)
	}
	if _, err := e.Attention(); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("Attention err = %v, want ErrNotImplemented", err)
	}
}
