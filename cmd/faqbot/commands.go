package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/knurex/faqbot/internal/composer"
	"github.com/knurex/faqbot/internal/config"
	"github.com/knurex/faqbot/internal/corpus"
	"github.com/knurex/faqbot/internal/expand"
	"github.com/knurex/faqbot/internal/ollama"
	"github.com/knurex/faqbot/internal/scrape"
)

// --- expand ---

var expandCmd = &cobra.Command{
	Use:   "expand",
	Short: "Expand the raw corpus with question paraphrases",
	Long: `Expand the raw corpus with question paraphrases.

Each base question grows into a set of reworded variants sharing the same
answer, which widens what the semantic search can match. Runs fully
offline; no embedding backend is needed.

Example:
  faqbot expand -i faqs.json -o faqs_expanded.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, _ := cmd.Flags().GetString("input")
		output, _ := cmd.Flags().GetString("output")

		entries, err := corpus.Load(input)
		if err != nil {
			return fmt.Errorf("loading corpus: %w", err)
		}

		printStep("Expanding %d entries...", len(entries))
		expanded := expand.Expand(entries)

		if err := corpus.Save(output, expanded); err != nil {
			return fmt.Errorf("saving corpus: %w", err)
		}

		printSuccess("Expanded %d entries into %d, saved to %s", len(entries), len(expanded), output)
		return nil
	},
}

// --- scrape ---

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Seed the raw corpus from the faculty website and PDFs",
	Long: `Seed the raw corpus from the faculty website and PDFs.

Fetches the contacts, hostel, admission and departments sections, shapes
them into question/answer records, and optionally appends paragraphs
extracted from a local admission-rules PDF.

Examples:
  faqbot scrape -o faqs.json
  faqbot scrape --base-url https://rex.knu.ua --pdf rules.pdf -o faqs.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		baseURL, _ := cmd.Flags().GetString("base-url")
		pdfPath, _ := cmd.Flags().GetString("pdf")
		output, _ := cmd.Flags().GetString("output")

		var entries []corpus.Entry

		if baseURL != "" {
			printStep("Scraping %s...", baseURL)
			scraped, err := scrape.New(baseURL).All(cmd.Context())
			if err != nil {
				return err
			}
			printSuccess("Scraped %d entries from the website", len(scraped))
			entries = append(entries, scraped...)
		}

		if pdfPath != "" {
			printStep("Extracting paragraphs from %s...", pdfPath)
			fromPDF, err := scrape.FromPDF(pdfPath)
			if err != nil {
				return err
			}
			printSuccess("Extracted %d entries from the PDF", len(fromPDF))
			entries = append(entries, fromPDF...)
		}

		if len(entries) == 0 {
			return fmt.Errorf("nothing scraped: provide --base-url and/or --pdf")
		}

		if err := corpus.Save(output, entries); err != nil {
			return fmt.Errorf("saving corpus: %w", err)
		}

		printSuccess("Saved %d entries to %s", len(entries), output)
		return nil
	},
}

// --- ask ---

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the running server a question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/chat", map[string]string{"question": args[0]})
		if err != nil {
			return err
		}

		var reply composer.Reply
		if err := decodeJSON(resp, &reply); err != nil {
			return err
		}

		fmt.Println(reply.Reply)
		if len(reply.Sources) > 0 {
			fmt.Println()
			for i, src := range reply.Sources {
				printStatus(fmt.Sprintf("Джерело %d", i+1), "%s (score %.2f)", src.Question, src.Score)
			}
		}
		return nil
	},
}

// --- status ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show faqbot system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			printError("config error: %v", err)
			return nil
		}

		serverURL := fmt.Sprintf("http://127.0.0.1:%d", cfg.Server.Port)
		client := &http.Client{Timeout: 2 * time.Second}

		resp, err := client.Get(serverURL + "/health")
		serverUp := false
		if err != nil {
			printStatus("Server", "stopped")
		} else {
			resp.Body.Close()
			if resp.StatusCode == 200 {
				serverUp = true
				printStatus("Server", "running on port %d", cfg.Server.Port)
			} else {
				printStatus("Server", "error (HTTP %d)", resp.StatusCode)
			}
		}

		printStatus("Backend", "%s", cfg.Embedding.Backend)
		printStatus("Embed model", "%s", cfg.Embedding.Model())

		if cfg.Embedding.Backend == "" || cfg.Embedding.Backend == "ollama" {
			if ollama.New(cfg.Embedding.OllamaBaseURL).IsRunning(cmd.Context()) {
				printStatus("Ollama", "running at %s", cfg.Embedding.OllamaBaseURL)
			} else {
				printStatus("Ollama", "not running")
			}
		}

		if serverUp && cfg.Server.APIToken != "" {
			api, err := newAPIClient()
			if err == nil {
				statsResp, err := api.get(cmd.Context(), "/stats")
				if err == nil {
					var stats struct {
						CorpusSize int    `json:"corpus_size"`
						Dimension  int    `json:"dimension"`
						Uptime     string `json:"uptime"`
					}
					if decodeJSON(statsResp, &stats) == nil {
						printStatus("Corpus", "%d entries, dim %d", stats.CorpusSize, stats.Dimension)
						printStatus("Uptime", "%s", stats.Uptime)
					}
				}
			}
		}

		printStatus("Corpus path", "%s", cfg.Corpus.Path)
		printStatus("Data dir", "%s", cfg.Storage.DataDir)
		return nil
	},
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		for _, k := range config.ShowAll(cfg) {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	expandCmd.Flags().StringP("input", "i", "faqs.json", "raw corpus file")
	expandCmd.Flags().StringP("output", "o", "faqs_expanded.json", "expanded corpus file")

	scrapeCmd.Flags().String("base-url", "https://rex.knu.ua", "faculty website base URL (empty to skip)")
	scrapeCmd.Flags().String("pdf", "", "local PDF file to extract paragraphs from")
	scrapeCmd.Flags().StringP("output", "o", "faqs.json", "output corpus file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
