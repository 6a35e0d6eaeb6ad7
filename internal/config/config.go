// Package config loads faqbot configuration from defaults, an
// XDG-compatible JSON file, and FAQBOT_* environment variables, in that
// precedence.
package config

import (
	"os"
	"path/filepath"
)

type Config struct {
	Server    ServerConfig
	Embedding EmbeddingConfig
	Corpus    CorpusConfig
	Chat      ChatConfig
	Storage   StorageConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port           int
	AllowedOrigins []string
	// APIToken guards /stats; empty disables the endpoint. Env only
	// (FAQBOT_API_TOKEN), never persisted to the config file.
	APIToken string
}

type EmbeddingConfig struct {
	Backend       string // "ollama" or "openai"
	OllamaBaseURL string
	OllamaModel   string
	OpenAIBaseURL string
	OpenAIModel   string
	OpenAIKeyEnv  string
	BatchSize     int
}

type CorpusConfig struct {
	Path string
}

type ChatConfig struct {
	TopK                 int
	ConfidenceThreshold  float64
	GreetingMarkers      []string // empty means built-in defaults
	GreetingReply        string
	OmitEmptyAlternative bool
}

type StorageConfig struct {
	// DataDir holds the embedding cache database; empty disables caching.
	DataDir string
}

type LogConfig struct {
	Level string
}

// Model returns the embedding model name for the active backend.
func (c EmbeddingConfig) Model() string {
	if c.Backend == "openai" {
		return c.OpenAIModel
	}
	return c.OllamaModel
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"*"},
		},
		Embedding: EmbeddingConfig{
			Backend:       "ollama",
			OllamaBaseURL: "http://localhost:11434",
			OllamaModel:   "nomic-embed-text",
			OpenAIBaseURL: "https://api.openai.com/v1",
			OpenAIModel:   "text-embedding-3-small",
			OpenAIKeyEnv:  "OPENAI_API_KEY",
			BatchSize:     32,
		},
		Corpus: CorpusConfig{
			Path: "faqs_expanded.json",
		},
		Chat: ChatConfig{
			TopK:                3,
			ConfidenceThreshold: 0.45,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the JSON file at
// $XDG_CONFIG_HOME/faqbot/config.json, then applies FAQBOT_* environment
// overrides. Every key has a usable default; Load fails only on an
// unreadable key value.
func Load() (Config, error) {
	return loadWith(newFileBackend(configFilePath()))
}

func loadWith(b Backend) (Config, error) {
	cfg := defaults()
	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

func configFilePath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".config")
		} else {
			dir = "."
		}
	}
	return filepath.Join(dir, "faqbot", "config.json")
}

func defaultDataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".local", "share")
		} else {
			return "faqbot-data"
		}
	}
	return filepath.Join(dir, "faqbot")
}
