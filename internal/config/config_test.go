package config

import (
	"testing"
)

// mapBackend is an in-memory Backend for tests.
type mapBackend struct {
	data map[string]any
}

func (m *mapBackend) GetString(key string) (string, bool, error) {
	v, ok := m.data[key]
	if !ok {
		return "", false, nil
	}
	s, _ := v.(string)
	return s, true, nil
}

func (m *mapBackend) GetInt(key string) (int, bool, error) {
	v, ok := m.data[key]
	if !ok {
		return 0, false, nil
	}
	i, _ := v.(int)
	return i, true, nil
}

func (m *mapBackend) SetString(key, val string) error { m.data[key] = val; return nil }
func (m *mapBackend) SetInt(key string, val int) error { m.data[key] = val; return nil }
func (m *mapBackend) Delete(key string) error { delete(m.data, key); return nil }

func emptyBackend() *mapBackend {
	return &mapBackend{data: make(map[string]any)}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := loadWith(emptyBackend())
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Embedding.Backend != "ollama" || cfg.Embedding.OllamaModel != "nomic-embed-text" {
		t.Errorf("embedding defaults = %+v", cfg.Embedding)
	}
	// The embedder appends /embeddings, so the default must carry the
	// version segment.
	if cfg.Embedding.OpenAIBaseURL != "https://api.openai.com/v1" {
		t.Errorf("openai base url = %q", cfg.Embedding.OpenAIBaseURL)
	}
	if cfg.Chat.TopK != 3 || cfg.Chat.ConfidenceThreshold != 0.45 {
		t.Errorf("chat defaults = %+v", cfg.Chat)
	}
	if cfg.Chat.OmitEmptyAlternative {
		t.Error("omit_empty_alternative should default to false")
	}
	if cfg.Corpus.Path != "faqs_expanded.json" {
		t.Errorf("corpus path = %q", cfg.Corpus.Path)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "*" {
		t.Errorf("allowed origins = %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Server.APIToken != "" {
		t.Error("api token should default to empty")
	}
}

func TestLoad_BackendOverrides(t *testing.T) {
	b := emptyBackend()
	b.data["server.port"] = 9090
	b.data["embedding.backend"] = "openai"
	b.data["chat.confidence_threshold"] = "0.6"
	b.data["chat.greeting_markers"] = "привіт, hello"

	cfg, err := loadWith(b)
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Embedding.Backend != "openai" {
		t.Errorf("backend = %q", cfg.Embedding.Backend)
	}
	if cfg.Chat.ConfidenceThreshold != 0.6 {
		t.Errorf("threshold = %v", cfg.Chat.ConfidenceThreshold)
	}
	want := []string{"привіт", "hello"}
	if len(cfg.Chat.GreetingMarkers) != 2 || cfg.Chat.GreetingMarkers[0] != want[0] || cfg.Chat.GreetingMarkers[1] != want[1] {
		t.Errorf("greeting markers = %v", cfg.Chat.GreetingMarkers)
	}
}

func TestLoad_EnvOverridesBackend(t *testing.T) {
	b := emptyBackend()
	b.data["server.port"] = 9090
	t.Setenv("FAQBOT_SERVER_PORT", "7070")
	t.Setenv("FAQBOT_CHAT_OMIT_EMPTY_ALTERNATIVE", "true")

	cfg, err := loadWith(b)
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d, env must win over file", cfg.Server.Port)
	}
	if !cfg.Chat.OmitEmptyAlternative {
		t.Error("omit_empty_alternative not applied from env")
	}
}

func TestLoad_APITokenIsEnvOnly(t *testing.T) {
	b := emptyBackend()
	b.data["server.api_token"] = "from-file"
	t.Setenv("FAQBOT_API_TOKEN", "from-env")

	cfg, err := loadWith(b)
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}
	if cfg.Server.APIToken != "from-env" {
		t.Errorf("api token = %q, file value must be ignored", cfg.Server.APIToken)
	}
}

func TestLoad_UnparsableValueKeepsDefault(t *testing.T) {
	t.Setenv("FAQBOT_CHAT_TOP_K", "many")

	cfg, err := loadWith(emptyBackend())
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}
	if cfg.Chat.TopK != 3 {
		t.Errorf("top_k = %d, want default on parse failure", cfg.Chat.TopK)
	}
}

func TestEmbeddingModel(t *testing.T) {
	e := EmbeddingConfig{Backend: "ollama", OllamaModel: "nomic-embed-text", OpenAIModel: "text-embedding-3-small"}
	if e.Model() != "nomic-embed-text" {
		t.Errorf("ollama model = %q", e.Model())
	}
	e.Backend = "openai"
	if e.Model() != "text-embedding-3-small" {
		t.Errorf("openai model = %q", e.Model())
	}
}

func TestShowAll_ExcludesSecrets(t *testing.T) {
	cfg, err := loadWith(emptyBackend())
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}

	keys := ShowAll(cfg)
	if len(keys) == 0 {
		t.Fatal("expected non-empty keys from ShowAll")
	}
	var sawPort bool
	for _, k := range keys {
		if k.Key == "server.api_token" {
			t.Error("secret key exposed by ShowAll")
		}
		if k.Key == "server.port" && k.Value == "8080" {
			sawPort = true
		}
	}
	if !sawPort {
		t.Error("expected to find server.port=8080 in ShowAll output")
	}
}

func TestValidKeys_ExcludesSecrets(t *testing.T) {
	for _, k := range ValidKeys() {
		if k == "server.api_token" {
			t.Error("secret key listed in ValidKeys")
		}
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" a ,, b,c ")
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("splitList = %v", got)
	}
}
