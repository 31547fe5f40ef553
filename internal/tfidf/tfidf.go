// Package tfidf weights bag-of-words documents by term frequency scaled
// with a corpus-wide inverse document frequency.
package tfidf

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"docvec/vocab"
)

// Weight is one (token id, tf-idf weight) pair of a weighted document.
type Weight struct {
	ID    int
	Value float64
}

// Model holds the inverse document frequencies of a corpus. IDF is a global
// statistic, so the model must be built from the full set of bag-of-words
// documents.
type Model struct {
	idf []float64
}

// New computes idf(t) = log2(N / df(t)) over the whole corpus.
func New(bows [][]vocab.BowEntry) *Model {
	maxID := -1
	df := make(map[int]int)
	for _, bow := range bows {
		for _, e := range bow {
			df[e.ID]++
			if e.ID > maxID {
				maxID = e.ID
			}
		}
	}
	idf := make([]float64, maxID+1)
	n := float64(len(bows))
	for id, f := range df {
		idf[id] = math.Log2(n / float64(f))
	}
	return &Model{idf: idf}
}

// Score weights one bag-of-words document. Terms whose weight comes out
// zero (a term present in every document has idf 0) are dropped, and the
// remaining weights are L2-normalized.
func (m *Model) Score(bow []vocab.BowEntry) []Weight {
	weights := make([]Weight, 0, len(bow))
	for _, e := range bow {
		if e.ID >= len(m.idf) {
			continue
		}
		w := float64(e.Count) * m.idf[e.ID]
		if w == 0 {
			continue
		}
		weights = append(weights, Weight{ID: e.ID, Value: w})
	}

	values := make([]float64, len(weights))
	for i, w := range weights {
		values[i] = w.Value
	}
	if norm := floats.Norm(values, 2); norm > 0 {
		for i := range weights {
			weights[i].Value /= norm
		}
	}
	return weights
}
