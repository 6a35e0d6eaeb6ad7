// Package mock provides a deterministic embedding.Embedder test double.
package mock

import (
	"context"
	"hash/fnv"
	"math"
)

// Embedder is a test double with injectable behavior. With no functions
// set it returns deterministic unit vectors derived from the text hash, so
// identical strings always embed identically.
type Embedder struct {
	EmbedFunc      func(ctx context.Context, text string) ([]float32, error)
	EmbedBatchFunc func(ctx context.Context, texts []string) ([][]float32, error)

	// Dim is the dimensionality of generated vectors; 0 means 8.
	Dim int

	// EmbedCalls counts Embed invocations, BatchCalls counts EmbedBatch.
	EmbedCalls int
	BatchCalls int
}

func (m *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	m.EmbedCalls++
	if m.EmbedFunc != nil {
		return m.EmbedFunc(ctx, text)
	}
	return Vector(text, m.dim()), nil
}

func (m *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	m.BatchCalls++
	if m.EmbedBatchFunc != nil {
		return m.EmbedBatchFunc(ctx, texts)
	}
	vecs := make([][]float32, len(texts))
	for i, t := range texts {
		vecs[i] = Vector(t, m.dim())
	}
	return vecs, nil
}

func (m *Embedder) dim() int {
	if m.Dim > 0 {
		return m.Dim
	}
	return 8
}

// Vector generates a deterministic unit-length vector of the given
// dimension from the FNV hash of text.
func Vector(text string, dim int) []float32 {
	h := fnv.New64a()
	h.Write([]byte(text))
	seed := h.Sum64()

	v := make([]float32, dim)
	var sumSq float64
	for i := range v {
		seed = seed*6364136223846793005 + 1442695040888963407
		// Map to [-1, 1).
		v[i] = float32(int64(seed>>11))/float32(1<<52) - 1
		sumSq += float64(v[i]) * float64(v[i])
	}
	norm := float32(math.Sqrt(sumSq))
	if norm == 0 {
		v[0] = 1
		return v
	}
	for i := range v {
		v[i] /= norm
	}
	return v
}
