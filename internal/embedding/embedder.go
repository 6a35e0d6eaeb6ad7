// Package embedding abstracts the text-embedding capability behind one
// interface with interchangeable backends (local Ollama or any
// OpenAI-compatible embeddings API). Vector dimensionality is fixed per
// model and must be identical between corpus-build time and query time.
package embedding

import "context"

// Embedder maps text to fixed-dimension float32 vectors. Failures are fatal
// for the operation in progress: callers never retry and never mask them.
type Embedder interface {
	// Embed returns the embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one vector per input text, in input order.
	// Returns nil (not error) for empty input.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// partition splits texts into chunks of at most size elements, preserving
// order. size <= 0 yields a single chunk.
func partition(texts []string, size int) [][]string {
	if size <= 0 || size >= len(texts) {
		return [][]string{texts}
	}
	var chunks [][]string
	for start := 0; start < len(texts); start += size {
		end := start + size
		if end > len(texts) {
			end = len(texts)
		}
		chunks = append(chunks, texts[start:end])
	}
	return chunks
}
