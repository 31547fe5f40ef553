// Package vocab maps corpus tokens to dense integer ids and converts token
// sequences to bag-of-words form.
package vocab

import "sort"

// BowEntry is one (token id, count) pair of a bag-of-words document.
type BowEntry struct {
	ID    int
	Count int
}

// Dictionary is a bijection between the distinct tokens of a corpus and
// dense integer ids 0..V-1. Once built it is immutable.
type Dictionary struct {
	token2id map[string]int
	id2token []string
	docFreq  []int
	numDocs  int
}

// Build scans all token sequences and assigns ids to distinct tokens.
// Ids follow the sorted order of the tokens, so a given corpus always
// produces the same mapping.
func Build(docs [][]string) *Dictionary {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{}, len(doc))
		for _, tok := range doc {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	d := &Dictionary{
		token2id: make(map[string]int, len(terms)),
		id2token: terms,
		docFreq:  make([]int, len(terms)),
		numDocs:  len(docs),
	}
	for i, term := range terms {
		d.token2id[term] = i
		d.docFreq[i] = df[term]
	}
	return d
}

// Len returns the number of distinct tokens.
func (d *Dictionary) Len() int { return len(d.id2token) }

// NumDocs returns the number of documents the dictionary was built from.
func (d *Dictionary) NumDocs() int { return d.numDocs }

// ID returns the id of a token, and whether the token is known.
func (d *Dictionary) ID(token string) (int, bool) {
	id, ok := d.token2id[token]
	return id, ok
}

// Token returns the token for an id. It returns "" for out-of-range ids.
func (d *Dictionary) Token(id int) string {
	if id < 0 || id >= len(d.id2token) {
		return ""
	}
	return d.id2token[id]
}

// DocFreq returns the number of documents a token id occurs in.
func (d *Dictionary) DocFreq(id int) int {
	if id < 0 || id >= len(d.docFreq) {
		return 0
	}
	return d.docFreq[id]
}

// DocBow converts one token sequence to its bag-of-words form: one
// (id, count) entry per distinct known token, ordered by id. Tokens not in
// the dictionary are ignored.
func (d *Dictionary) DocBow(tokens []string) []BowEntry {
	counts := make(map[int]int)
	for _, tok := range tokens {
		if id, ok := d.token2id[tok]; ok {
			counts[id]++
		}
	}
	bow := make([]BowEntry, 0, len(counts))
	for id, count := range counts {
		bow = append(bow, BowEntry{ID: id, Count: count})
	}
	sort.Slice(bow, func(i, j int) bool { return bow[i].ID < bow[j].ID })
	return bow
}
