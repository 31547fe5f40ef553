package tfidf

import (
	"math"
	"testing"

	"docvec/vocab"
)

func buildBows(docs [][]string) (*vocab.Dictionary, [][]vocab.BowEntry) {
	d := vocab.Build(docs)
	bows := make([][]vocab.BowEntry, len(docs))
	for i, doc := range docs {
		bows[i] = d.DocBow(doc)
	}
	return d, bows
}

func TestUbiquitousTermScoresZero(t *testing.T) {
	// "the" appears in every document, so its idf is log2(3/3) = 0 and it
	// must be dropped from every scored document.
	d, bows := buildBows([][]string{
		{"the", "cat"},
		{"the", "dog"},
		{"the", "fish"},
	})
	m := New(bows)

	theID, _ := d.ID("the")
	for i, bow := range bows {
		for _, w := range m.Score(bow) {
			if w.ID == theID {
				t.Errorf("doc %d: ubiquitous term got weight %v, want dropped", i, w.Value)
			}
		}
	}
}

func TestRareTermOutweighsCommonTerm(t *testing.T) {
	d, bows := buildBows([][]string{
		{"shared", "rare", "rare", "rare"},
		{"shared"},
		{"shared"},
	})
	m := New(bows)

	weights := m.Score(bows[0])
	if len(weights) != 1 {
		t.Fatalf("expected only the rare term to survive, got %v", weights)
	}
	rareID, _ := d.ID("rare")
	if weights[0].ID != rareID {
		t.Errorf("surviving term id = %d, want %d", weights[0].ID, rareID)
	}
	if weights[0].Value <= 0 {
		t.Errorf("rare term weight = %v, want > 0", weights[0].Value)
	}
}

func TestScoreL2Normalized(t *testing.T) {
	_, bows := buildBows([][]string{
		{"a", "a", "b"},
		{"c"},
	})
	m := New(bows)

	weights := m.Score(bows[0])
	var sum float64
	for _, w := range weights {
		sum += w.Value * w.Value
	}
	if len(weights) > 0 && math.Abs(math.Sqrt(sum)-1) > 1e-9 {
		t.Errorf("L2 norm = %v, want 1", math.Sqrt(sum))
	}
}

func TestScoreEmptyDoc(t *testing.T) {
	_, bows := buildBows([][]string{
		{"a"},
		{},
	})
	m := New(bows)
	if weights := m.Score(bows[1]); len(weights) != 0 {
		t.Errorf("expected no weights for empty doc, got %v", weights)
	}
}
