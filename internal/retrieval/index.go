// Package retrieval implements exact nearest-neighbor search over the FAQ
// corpus. Vectors are unit-normalized at build time so similarity is a
// plain inner product in [-1, 1], directly comparable to the composer's
// confidence threshold.
package retrieval

import (
	"fmt"
	"math"
	"sort"

	"github.com/knurex/faqbot/internal/corpus"
)

// Hit is one scored retrieval result. Transient: created per request,
// never persisted.
type Hit struct {
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Score    float32 `json:"score"`

	// Index is the entry's position in the original corpus; it breaks
	// score ties so results are deterministic.
	Index int `json:"-"`
}

// InvalidInputError rejects a malformed query: empty text, k <= 0, or a
// query vector whose dimensionality doesn't match the corpus. Surfaced to
// the caller as a client-side rejection, never retried.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string { return e.Reason }

// Searcher is the search contract. Index is the exact brute-force
// implementation; an ANN-backed index can replace it without changing
// callers.
type Searcher interface {
	Search(vector []float32, topK int) ([]Hit, error)
	Dimension() int
	Size() int
}

// Compile-time check that Index implements Searcher.
var _ Searcher = (*Index)(nil)

// Index holds the corpus entries paired 1:1 with unit-normalized embedding
// rows. Immutable after construction, so any number of searches may run
// concurrently without locking.
type Index struct {
	entries []corpus.Entry
	vectors [][]float32
	dim     int
}

// NewIndex builds an Index from entries and their embedding vectors (same
// order, same length). Vectors are copied and normalized; the caller's
// slices are not retained. Fails on an empty corpus or ragged input, so a
// search over nothing cannot exist.
func NewIndex(entries []corpus.Entry, vectors [][]float32) (*Index, error) {
	if len(entries) == 0 {
		return nil, &corpus.DataError{Source: "index", Err: corpus.ErrEmpty}
	}
	if len(entries) != len(vectors) {
		return nil, fmt.Errorf("entries and vectors length mismatch: %d vs %d", len(entries), len(vectors))
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("zero-dimension embedding for entry 0")
	}

	rows := make([][]float32, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("entry %d: dimension %d, want %d", i, len(v), dim)
		}
		rows[i] = normalized(v)
	}

	return &Index{entries: entries, vectors: rows, dim: dim}, nil
}

// Dimension returns the embedding dimensionality of the index.
func (x *Index) Dimension() int { return x.dim }

// Size returns the number of corpus entries.
func (x *Index) Size() int { return len(x.entries) }

// Entry returns the corpus entry at position i.
func (x *Index) Entry(i int) corpus.Entry { return x.entries[i] }

// Search scans every corpus row and returns the min(topK, size) most
// similar entries, sorted by descending score with ties broken by lower
// corpus index. The query vector is normalized before scoring.
func (x *Index) Search(vector []float32, topK int) ([]Hit, error) {
	if topK <= 0 {
		return nil, &InvalidInputError{Reason: fmt.Sprintf("topK must be positive, got %d", topK)}
	}
	if len(vector) != x.dim {
		return nil, &InvalidInputError{Reason: fmt.Sprintf("query dimension %d, corpus dimension %d", len(vector), x.dim)}
	}

	query := normalized(vector)

	scores := make([]float32, len(x.vectors))
	for i, row := range x.vectors {
		scores[i] = dot(query, row)
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if scores[ia] != scores[ib] {
			return scores[ia] > scores[ib]
		}
		return ia < ib
	})

	if topK > len(order) {
		topK = len(order)
	}

	hits := make([]Hit, topK)
	for i := 0; i < topK; i++ {
		idx := order[i]
		hits[i] = Hit{
			Question: x.entries[idx].Question,
			Answer:   x.entries[idx].Answer,
			Score:    scores[idx],
			Index:    idx,
		}
	}
	return hits, nil
}

// normalized returns a unit-length copy of v. A zero vector is returned
// as an all-zero copy, which scores 0 against everything.
func normalized(v []float32) []float32 {
	out := make([]float32, len(v))
	var sumSq float64
	for _, f := range v {
		sumSq += float64(f) * float64(f)
	}
	norm := math.Sqrt(sumSq)
	if norm == 0 {
		return out
	}
	for i, f := range v {
		out[i] = float32(float64(f) / norm)
	}
	return out
}

func dot(a, b []float32) float32 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return float32(sum)
}
