// Package wordvec loads pretrained word vectors stored in the word2vec C
// binary format into an in-memory lookup table.
package wordvec

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// KeyedVectors is a read-only token → vector lookup table with a fixed
// vector width.
type KeyedVectors struct {
	dim     int
	vectors map[string][]float64
}

// Load reads an entire word2vec binary file into memory. The format is a
// header line "vocabSize dim\n" followed by vocabSize entries, each a
// space-terminated word and dim little-endian float32 values.
func Load(path string) (*KeyedVectors, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wordvec: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	header, err := r.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("wordvec: reading header: %w", err)
	}
	fields := strings.Fields(header)
	if len(fields) != 2 {
		return nil, fmt.Errorf("wordvec: malformed header %q", strings.TrimSpace(header))
	}
	vocabSize, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, fmt.Errorf("wordvec: malformed vocab size: %w", err)
	}
	dim, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, fmt.Errorf("wordvec: malformed vector size: %w", err)
	}
	if vocabSize < 0 || dim <= 0 {
		return nil, fmt.Errorf("wordvec: invalid header %d %d", vocabSize, dim)
	}

	kv := &KeyedVectors{
		dim:     dim,
		vectors: make(map[string][]float64, vocabSize),
	}
	buf := make([]byte, 4*dim)
	for i := 0; i < vocabSize; i++ {
		word, err := readWord(r)
		if err != nil {
			return nil, fmt.Errorf("wordvec: reading word %d: %w", i, err)
		}
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("wordvec: reading vector for %q: %w", word, err)
		}
		vec := make([]float64, dim)
		for j := 0; j < dim; j++ {
			bits := binary.LittleEndian.Uint32(buf[4*j:])
			vec[j] = float64(math.Float32frombits(bits))
		}
		kv.vectors[word] = vec
	}
	return kv, nil
}

// readWord reads a space-terminated word, skipping any newline left over
// from the previous entry.
func readWord(r *bufio.Reader) (string, error) {
	var sb strings.Builder
	for {
		b, err := r.ReadByte()
		if err != nil {
			return "", err
		}
		if b == '\n' && sb.Len() == 0 {
			continue
		}
		if b == ' ' {
			return sb.String(), nil
		}
		sb.WriteByte(b)
	}
}

// Dim returns the fixed vector width.
func (kv *KeyedVectors) Dim() int { return kv.dim }

// Len returns the number of loaded tokens.
func (kv *KeyedVectors) Len() int { return len(kv.vectors) }

// Vector returns the vector for a token and whether the token is present.
// A miss is not an error.
func (kv *KeyedVectors) Vector(token string) ([]float64, bool) {
	vec, ok := kv.vectors[token]
	return vec, ok
}
