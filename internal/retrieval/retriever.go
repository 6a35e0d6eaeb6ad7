package retrieval

import (
	"context"

	"github.com/knurex/faqbot/internal/embedding"
)

// Retriever combines the embedder and the search index: embed the query
// text, then scan the corpus.
type Retriever struct {
	embedder embedding.Embedder
	index    Searcher
}

// NewRetriever creates a Retriever over the given embedder and index.
func NewRetriever(embedder embedding.Embedder, index Searcher) *Retriever {
	return &Retriever{embedder: embedder, index: index}
}

// Retrieve embeds query and returns the top-K most similar corpus entries.
// Embedding failures propagate verbatim and are fatal for this request.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]Hit, error) {
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	return r.index.Search(vec, topK)
}
