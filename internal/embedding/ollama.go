package embedding

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/knurex/faqbot/internal/ollama"
)

const defaultBatchSize = 32

// OllamaEmbedder generates embeddings through a local Ollama instance.
type OllamaEmbedder struct {
	client    *ollama.Client
	model     string
	batchSize int
}

// NewOllamaEmbedder creates an embedder using the given client and model.
// batchSize caps how many texts go into one /api/embed call; <= 0 uses the
// default (32).
func NewOllamaEmbedder(client *ollama.Client, model string, batchSize int) *OllamaEmbedder {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &OllamaEmbedder{client: client, model: model, batchSize: batchSize}
}

// Embed returns the embedding vector for a single text.
func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := e.client.Embed(ctx, e.model, text)
	if err != nil {
		return nil, fmt.Errorf("embedding text: %w", err)
	}
	return vec, nil
}

// EmbedBatch embeds texts in batchSize partitions with bounded concurrency.
// Output order matches input order across partitions.
func (e *OllamaEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	results := make([][]float32, len(texts))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(4) // Bound concurrency to avoid overwhelming the engine.

	offset := 0
	for _, chunk := range partition(texts, e.batchSize) {
		start, chunk := offset, chunk
		offset += len(chunk)
		g.Go(func() error {
			vecs, err := e.client.EmbedBatch(gCtx, e.model, chunk)
			if err != nil {
				return fmt.Errorf("embedding batch at offset %d: %w", start, err)
			}
			copy(results[start:], vecs)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
