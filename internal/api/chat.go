// Package api exposes the FAQ engine over HTTP and MCP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/knurex/faqbot/internal/composer"
	"github.com/knurex/faqbot/internal/retrieval"
)

const maxChatBodySize = 1 << 20 // 1MB

// Responder abstracts the reply composer for the HTTP layer.
type Responder interface {
	Respond(ctx context.Context, question string) (composer.Reply, error)
}

type Deps struct {
	Responder      Responder
	Searcher       retrieval.Searcher
	Model          string
	Token          string // empty disables /stats
	AllowedOrigins []string
	StartedAt      time.Time
}

type ChatRequest struct {
	Question string `json:"question"`
}

// NewHandler builds the public router: /chat, /health, and — when a
// bearer token is configured — /stats.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)

	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
	}))

	r.Post("/chat", handleChat(deps))
	r.Get("/health", handleHealth)

	if deps.Token != "" {
		r.Group(func(g chi.Router) {
			g.Use(BearerAuth(deps.Token))
			g.Get("/stats", handleStats(deps))
		})
	}

	return r
}

func handleChat(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxChatBodySize)
		defer r.Body.Close()

		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		start := time.Now()
		reply, err := deps.Responder.Respond(r.Context(), req.Question)
		if err != nil {
			var invalid *retrieval.InvalidInputError
			if errors.As(err, &invalid) {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "%s", invalid.Reason)
				return
			}
			slog.Error("chat request failed", "request_id", reqIDFrom(r.Context()), "error", err)
			httpError(w, http.StatusBadGateway, "api_error", "embedding backend unavailable")
			return
		}

		slog.Info("chat request",
			"request_id", reqIDFrom(r.Context()),
			"sources", len(reply.Sources),
			"duration", time.Since(start).Round(time.Millisecond))

		writeJSON(w, http.StatusOK, reply)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type statsResponse struct {
	CorpusSize int    `json:"corpus_size"`
	Dimension  int    `json:"dimension"`
	Model      string `json:"model"`
	Uptime     string `json:"uptime,omitempty"`
}

func handleStats(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, statsResponse{
			CorpusSize: deps.Searcher.Size(),
			Dimension:  deps.Searcher.Dimension(),
			Model:      deps.Model,
			Uptime:     time.Since(deps.StartedAt).Round(time.Second).String(),
		})
	}
}

type ctxKey int

const reqIDKey ctxKey = 0

// requestID honours an inbound X-Request-ID and mints one otherwise, so
// log lines can be correlated with client traces.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), reqIDKey, id)))
	})
}

func reqIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(reqIDKey).(string)
	return id
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	writeJSON(w, code, map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
