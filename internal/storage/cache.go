package storage

// ModelCache scopes the embedding cache to one model, keyed by question
// text. It satisfies the retrieval package's VectorCache interface.
type ModelCache struct {
	store *Store
	model string
}

// ForModel returns a cache view bound to the given embedding model.
// Vectors from different models never mix.
func (s *Store) ForModel(model string) *ModelCache {
	return &ModelCache{store: s, model: model}
}

// Lookup returns the cached vector for text, with ok=false when absent.
func (c *ModelCache) Lookup(text string) ([]float32, bool, error) {
	return c.store.GetVector(c.model, HashText(text))
}

// Store caches vectors for the given texts in one transaction.
func (c *ModelCache) Store(texts []string, vectors [][]float32) error {
	hashes := make([]string, len(texts))
	for i, t := range texts {
		hashes[i] = HashText(t)
	}
	return c.store.PutVectors(c.model, hashes, vectors)
}
