package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/knurex/faqbot/internal/ollama"
)

// fakeOllama answers /api/embed with vectors whose single component is the
// numeric value of the input text, so order survives round trips.
func fakeOllama(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req struct {
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding embed request: %v", err)
		}
		vecs := make([][]float32, len(req.Input))
		for i, in := range req.Input {
			vecs[i] = []float32{float32(in[0])}
		}
		json.NewEncoder(w).Encode(map[string]any{"embeddings": vecs})
	}))
}

func TestOllamaEmbedBatch_PartitionsPreserveOrder(t *testing.T) {
	var calls atomic.Int32
	srv := fakeOllama(t, &calls)
	defer srv.Close()

	e := NewOllamaEmbedder(ollama.New(srv.URL), "nomic-embed-text", 2)

	texts := []string{"a", "b", "c", "d", "e"}
	vecs, err := e.EmbedBatch(context.Background(), texts)
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	if len(vecs) != len(texts) {
		t.Fatalf("got %d vectors, want %d", len(vecs), len(texts))
	}
	for i, text := range texts {
		if vecs[i][0] != float32(text[0]) {
			t.Errorf("vecs[%d] = %v, want vector for %q", i, vecs[i], text)
		}
	}
	// 5 texts at batch size 2 → 3 partitions.
	if got := calls.Load(); got != 3 {
		t.Errorf("embed calls = %d, want 3", got)
	}
}

func TestOllamaEmbedBatch_Empty(t *testing.T) {
	e := NewOllamaEmbedder(ollama.New("http://127.0.0.1:1"), "m", 0)
	vecs, err := e.EmbedBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("EmbedBatch(nil): %v", err)
	}
	if vecs != nil {
		t.Errorf("EmbedBatch(nil) = %v, want nil", vecs)
	}
}

func TestPartition(t *testing.T) {
	tests := []struct {
		name  string
		texts []string
		size  int
		want  int // number of chunks
	}{
		{"all_in_one", []string{"a", "b"}, 0, 1},
		{"exact", []string{"a", "b", "c", "d"}, 2, 2},
		{"remainder", []string{"a", "b", "c"}, 2, 2},
		{"oversized", []string{"a"}, 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := partition(tt.texts, tt.size)
			if len(chunks) != tt.want {
				t.Fatalf("got %d chunks, want %d", len(chunks), tt.want)
			}
			var total int
			for _, c := range chunks {
				total += len(c)
			}
			if total != len(tt.texts) {
				t.Errorf("chunks cover %d texts, want %d", total, len(tt.texts))
			}
		})
	}
}
