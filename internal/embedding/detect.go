package embedding

import (
	"fmt"
	"time"

	"github.com/knurex/faqbot/internal/ollama"
)

// DetectConfig holds parameters for backend selection.
type DetectConfig struct {
	Backend string // "ollama", "openai", or "" for ollama

	OllamaBaseURL string
	OllamaModel   string

	OpenAIBaseURL string
	OpenAIModel   string
	OpenAIKeyEnv  string
	OpenAITimeout time.Duration
	BatchSize     int
}

// Detect builds the configured embedding backend. The ollama backend is the
// default; readiness (server running, model pulled) is checked separately
// via ollama.EnsureReady so the caller controls progress output.
func Detect(cfg DetectConfig) (Embedder, error) {
	switch cfg.Backend {
	case "", "ollama":
		return NewOllamaEmbedder(ollama.New(cfg.OllamaBaseURL), cfg.OllamaModel, cfg.BatchSize), nil
	case "openai":
		return NewOpenAIEmbedder(OpenAIConfig{
			BaseURL:   cfg.OpenAIBaseURL,
			Model:     cfg.OpenAIModel,
			APIKeyEnv: cfg.OpenAIKeyEnv,
			BatchSize: cfg.BatchSize,
			Timeout:   cfg.OpenAITimeout,
		})
	default:
		return nil, fmt.Errorf("unknown embedding backend %q", cfg.Backend)
	}
}
