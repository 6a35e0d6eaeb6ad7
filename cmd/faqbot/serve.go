package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/knurex/faqbot/internal/api"
	"github.com/knurex/faqbot/internal/composer"
	"github.com/knurex/faqbot/internal/config"
	"github.com/knurex/faqbot/internal/corpus"
	"github.com/knurex/faqbot/internal/embedding"
	"github.com/knurex/faqbot/internal/ollama"
	"github.com/knurex/faqbot/internal/retrieval"
	"github.com/knurex/faqbot/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the faqbot server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		withMCP, _ := cmd.Flags().GetBool("mcp")
		return runServer(withMCP)
	},
}

func init() {
	serveCmd.Flags().Bool("mcp", false, "also serve MCP over stdio")
}

func runServer(withMCP bool) error {
	fmt.Fprintf(os.Stderr, "faqbot version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logLevel := slog.LevelInfo
	if strings.EqualFold(cfg.Log.Level, "debug") {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	embedder, err := embedding.Detect(detectConfig(cfg))
	if err != nil {
		return fmt.Errorf("configuring embedding backend: %w", err)
	}

	// The local backend can be probed and pulled; remote ones fail on
	// first use instead.
	if cfg.Embedding.Backend == "" || cfg.Embedding.Backend == "ollama" {
		client := ollama.New(cfg.Embedding.OllamaBaseURL)
		if err := ollama.EnsureReady(ctx, client, cfg.Embedding.OllamaModel, os.Stderr); err != nil {
			return err
		}
	}

	// A server without a corpus is useless: refuse to start.
	entries, err := corpus.Load(cfg.Corpus.Path)
	if err != nil {
		return fmt.Errorf("loading corpus: %w", err)
	}

	var cache retrieval.VectorCache
	if cfg.Storage.DataDir != "" {
		store, err := storage.Open(cfg.Storage.DataDir)
		if err != nil {
			printWarning("embedding cache unavailable: %v", err)
		} else {
			defer func() {
				if err := store.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "warning: closing storage: %v\n", err)
				}
			}()
			cache = store.ForModel(cfg.Embedding.Model())
		}
	}

	index, err := retrieval.BuildIndex(ctx, entries, embedder, cache)
	if err != nil {
		return fmt.Errorf("building index: %w", err)
	}

	retriever := retrieval.NewRetriever(embedder, index)
	comp := composer.New(retriever, composer.Config{
		TopK:                 cfg.Chat.TopK,
		ConfidenceThreshold:  float32(cfg.Chat.ConfidenceThreshold),
		GreetingMarkers:      cfg.Chat.GreetingMarkers,
		GreetingReply:        cfg.Chat.GreetingReply,
		OmitEmptyAlternative: cfg.Chat.OmitEmptyAlternative,
	})

	handler := api.NewHandler(api.Deps{
		Responder:      comp,
		Searcher:       index,
		Model:          cfg.Embedding.Model(),
		Token:          cfg.Server.APIToken,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		StartedAt:      time.Now(),
	})

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	if withMCP {
		mcpSrv := api.NewMCPServer(api.MCPDeps{
			Retriever: retriever,
			Searcher:  index,
			Model:     cfg.Embedding.Model(),
		})
		stdioSrv := server.NewStdioServer(mcpSrv)
		go func() {
			if err := stdioSrv.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("MCP stdio server error", "error", err)
			}
		}()
		slog.Info("MCP server started (stdio transport)")
	}

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(os.Stderr, "faqbot listening on %s\n", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(os.Stderr, "shutting down...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func detectConfig(cfg config.Config) embedding.DetectConfig {
	return embedding.DetectConfig{
		Backend:       cfg.Embedding.Backend,
		OllamaBaseURL: cfg.Embedding.OllamaBaseURL,
		OllamaModel:   cfg.Embedding.OllamaModel,
		OpenAIBaseURL: cfg.Embedding.OpenAIBaseURL,
		OpenAIModel:   cfg.Embedding.OpenAIModel,
		OpenAIKeyEnv:  cfg.Embedding.OpenAIKeyEnv,
		BatchSize:     cfg.Embedding.BatchSize,
	}
}
