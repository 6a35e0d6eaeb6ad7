package retrieval

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/knurex/faqbot/internal/corpus"
	"github.com/knurex/faqbot/internal/embedding"
)

// VectorCache lets index builds reuse vectors computed in earlier runs.
// Implementations are keyed by question text; storage.Store adapts itself
// via ForModel.
type VectorCache interface {
	Lookup(text string) ([]float32, bool, error)
	Store(texts []string, vectors [][]float32) error
}

// BuildIndex embeds every corpus question in one logical batch and
// constructs the search index. cache may be nil; cache failures degrade to
// re-embedding and are logged, never fatal — only embedder errors abort
// the build.
func BuildIndex(ctx context.Context, entries []corpus.Entry, embedder embedding.Embedder, cache VectorCache) (*Index, error) {
	if len(entries) == 0 {
		return nil, &corpus.DataError{Source: "index", Err: corpus.ErrEmpty}
	}

	vectors := make([][]float32, len(entries))
	var missing []string
	var missingIdx []int

	for i, e := range entries {
		if cache != nil {
			vec, ok, err := cache.Lookup(e.Question)
			if err != nil {
				slog.Warn("embedding cache lookup failed, re-embedding", "error", err)
			} else if ok {
				vectors[i] = vec
				continue
			}
		}
		missing = append(missing, e.Question)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) > 0 {
		embedded, err := embedder.EmbedBatch(ctx, missing)
		if err != nil {
			return nil, fmt.Errorf("embedding corpus questions: %w", err)
		}
		if len(embedded) != len(missing) {
			return nil, fmt.Errorf("embedder returned %d vectors for %d questions", len(embedded), len(missing))
		}
		for j, vec := range embedded {
			vectors[missingIdx[j]] = vec
		}
		if cache != nil {
			if err := cache.Store(missing, embedded); err != nil {
				slog.Warn("embedding cache write failed", "error", err)
			}
		}
	}

	slog.Info("corpus index built",
		"entries", len(entries),
		"embedded", len(missing),
		"cached", len(entries)-len(missing),
	)

	return NewIndex(entries, vectors)
}
