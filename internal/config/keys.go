package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type keyType int

const (
	kString keyType = iota
	kInt
	kBool
	kFloat
	kList // comma-separated string
)

type keySpec struct {
	key     string
	typ     keyType
	env     string
	secret  bool
	apply   func(cfg *Config, v any)
	extract func(cfg Config) any
}

var specs = []keySpec{
	{
		key: "server.port", typ: kInt, env: "FAQBOT_SERVER_PORT",
		apply:   func(cfg *Config, v any) { cfg.Server.Port = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.Port },
	},
	{
		key: "server.allowed_origins", typ: kList, env: "FAQBOT_SERVER_ALLOWED_ORIGINS",
		apply:   func(cfg *Config, v any) { cfg.Server.AllowedOrigins = v.([]string) },
		extract: func(cfg Config) any { return strings.Join(cfg.Server.AllowedOrigins, ",") },
	},
	{
		key: "server.api_token", typ: kString, env: "FAQBOT_API_TOKEN",
		secret:  true,
		apply:   func(cfg *Config, v any) { cfg.Server.APIToken = v.(string) },
		extract: func(cfg Config) any { return cfg.Server.APIToken },
	},
	{
		key: "embedding.backend", typ: kString, env: "FAQBOT_EMBEDDING_BACKEND",
		apply:   func(cfg *Config, v any) { cfg.Embedding.Backend = v.(string) },
		extract: func(cfg Config) any { return cfg.Embedding.Backend },
	},
	{
		key: "embedding.ollama_base_url", typ: kString, env: "FAQBOT_OLLAMA_BASE_URL",
		apply:   func(cfg *Config, v any) { cfg.Embedding.OllamaBaseURL = v.(string) },
		extract: func(cfg Config) any { return cfg.Embedding.OllamaBaseURL },
	},
	{
		key: "embedding.ollama_model", typ: kString, env: "FAQBOT_OLLAMA_MODEL",
		apply:   func(cfg *Config, v any) { cfg.Embedding.OllamaModel = v.(string) },
		extract: func(cfg Config) any { return cfg.Embedding.OllamaModel },
	},
	{
		key: "embedding.openai_base_url", typ: kString, env: "FAQBOT_OPENAI_BASE_URL",
		apply:   func(cfg *Config, v any) { cfg.Embedding.OpenAIBaseURL = v.(string) },
		extract: func(cfg Config) any { return cfg.Embedding.OpenAIBaseURL },
	},
	{
		key: "embedding.openai_model", typ: kString, env: "FAQBOT_OPENAI_MODEL",
		apply:   func(cfg *Config, v any) { cfg.Embedding.OpenAIModel = v.(string) },
		extract: func(cfg Config) any { return cfg.Embedding.OpenAIModel },
	},
	{
		key: "embedding.openai_key_env", typ: kString, env: "FAQBOT_OPENAI_KEY_ENV",
		apply:   func(cfg *Config, v any) { cfg.Embedding.OpenAIKeyEnv = v.(string) },
		extract: func(cfg Config) any { return cfg.Embedding.OpenAIKeyEnv },
	},
	{
		key: "embedding.batch_size", typ: kInt, env: "FAQBOT_EMBEDDING_BATCH_SIZE",
		apply:   func(cfg *Config, v any) { cfg.Embedding.BatchSize = v.(int) },
		extract: func(cfg Config) any { return cfg.Embedding.BatchSize },
	},
	{
		key: "corpus.path", typ: kString, env: "FAQBOT_CORPUS_PATH",
		apply:   func(cfg *Config, v any) { cfg.Corpus.Path = v.(string) },
		extract: func(cfg Config) any { return cfg.Corpus.Path },
	},
	{
		key: "chat.top_k", typ: kInt, env: "FAQBOT_CHAT_TOP_K",
		apply:   func(cfg *Config, v any) { cfg.Chat.TopK = v.(int) },
		extract: func(cfg Config) any { return cfg.Chat.TopK },
	},
	{
		key: "chat.confidence_threshold", typ: kFloat, env: "FAQBOT_CHAT_CONFIDENCE_THRESHOLD",
		apply:   func(cfg *Config, v any) { cfg.Chat.ConfidenceThreshold = v.(float64) },
		extract: func(cfg Config) any { return cfg.Chat.ConfidenceThreshold },
	},
	{
		key: "chat.greeting_markers", typ: kList, env: "FAQBOT_CHAT_GREETING_MARKERS",
		apply:   func(cfg *Config, v any) { cfg.Chat.GreetingMarkers = v.([]string) },
		extract: func(cfg Config) any { return strings.Join(cfg.Chat.GreetingMarkers, ",") },
	},
	{
		key: "chat.greeting_reply", typ: kString, env: "FAQBOT_CHAT_GREETING_REPLY",
		apply:   func(cfg *Config, v any) { cfg.Chat.GreetingReply = v.(string) },
		extract: func(cfg Config) any { return cfg.Chat.GreetingReply },
	},
	{
		key: "chat.omit_empty_alternative", typ: kBool, env: "FAQBOT_CHAT_OMIT_EMPTY_ALTERNATIVE",
		apply:   func(cfg *Config, v any) { cfg.Chat.OmitEmptyAlternative = v.(bool) },
		extract: func(cfg Config) any { return cfg.Chat.OmitEmptyAlternative },
	},
	{
		key: "storage.data_dir", typ: kString, env: "FAQBOT_STORAGE_DATA_DIR",
		apply:   func(cfg *Config, v any) { cfg.Storage.DataDir = v.(string) },
		extract: func(cfg Config) any { return cfg.Storage.DataDir },
	},
	{
		key: "log.level", typ: kString, env: "FAQBOT_LOG_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
		extract: func(cfg Config) any { return cfg.Log.Level },
	},
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func applyBackend(cfg *Config, b Backend) error {
	for _, s := range specs {
		if s.secret {
			continue
		}
		switch s.typ {
		case kInt:
			v, ok, err := b.GetInt(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		default:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if !ok || v == "" {
				continue
			}
			applyRaw(cfg, s, v, "config key "+s.key)
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		if s.env == "" {
			continue
		}
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		applyRaw(cfg, s, raw, "env var "+s.env)
	}
}

// applyRaw parses a string value per the spec's type. Unparsable values
// keep the previous (default or file) value with a warning rather than
// failing startup.
func applyRaw(cfg *Config, s keySpec, raw, origin string) {
	switch s.typ {
	case kString:
		s.apply(cfg, raw)
	case kList:
		s.apply(cfg, splitList(raw))
	case kInt:
		if i, err := strconv.Atoi(raw); err == nil {
			s.apply(cfg, i)
		} else {
			fmt.Fprintf(os.Stderr, "[WARN] could not parse integer from %s=%q: %v. Using default value.\n", origin, raw, err)
		}
	case kBool:
		if b, err := strconv.ParseBool(raw); err == nil {
			s.apply(cfg, b)
		} else {
			fmt.Fprintf(os.Stderr, "[WARN] could not parse bool from %s=%q: %v. Using default value.\n", origin, raw, err)
		}
	case kFloat:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			s.apply(cfg, f)
		} else {
			fmt.Fprintf(os.Stderr, "[WARN] could not parse float from %s=%q: %v. Using default value.\n", origin, raw, err)
		}
	}
}
