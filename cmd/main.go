package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"productsum/internal/config"
	"productsum/internal/enrich"
	"productsum/internal/models"
	"productsum/internal/notify"
	"productsum/internal/source"
	"productsum/internal/summarizer"
	"productsum/internal/tui"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(log)

	ctx := context.Background()

	_ = godotenv.Load()

	var (
		filePath string
		dirPath  string
		cfgPath  string
		plain    bool
	)
	flag.StringVar(&filePath, "file", "", "Path to a single JSON document to enrich")
	flag.StringVar(&dirPath, "dir", "", "Path to a directory of JSON documents to enrich")
	flag.StringVar(&cfgPath, "config", "", "Path to a YAML pipeline config (optional)")
	flag.BoolVar(&plain, "plain", false, "Disable the interactive UI and log progress instead")
	flag.Parse()

	if (filePath == "") == (dirPath == "") {
		fmt.Fprintln(os.Stderr, "Usage: productsum (-file products.json | -dir /path/to/json/files) [-config config.yaml] [-plain]")
		os.Exit(2)
	}

	envCfg := config.LoadEnv()
	if cfgPath == "" {
		cfgPath = envCfg.ConfigPath
	}

	pipelineCfg, err := config.LoadPipeline(cfgPath)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load pipeline config",
			"error", err,
			"configPath", cfgPath)

		os.Exit(1)
	}

	gen := initOpenAIGenerator(ctx, envCfg.OpenAIAPIKey, log)

	build := func(notifier notify.Notifier) *source.Resolver {
		items := summarizer.NewItemSummarizer(gen, summarizer.Config{
			Model:              pipelineCfg.Model,
			SystemPrompt:       pipelineCfg.SystemPrompt,
			UserPromptTemplate: pipelineCfg.UserPromptTemplate,
			CacheEntries:       pipelineCfg.CacheEntries,
		}, log)
		enricher := enrich.New(items, notifier, log)

		return source.NewResolver(enricher, notifier, pipelineCfg.PreviewRecords, log)
	}

	if plain {
		runPlain(ctx, filePath, dirPath, build, log)

		return
	}

	cfg := tui.Config{Dir: dirPath}
	if filePath != "" {
		content, readErr := os.ReadFile(filePath)
		if readErr != nil {
			log.ErrorContext(ctx, "Failed to read input file",
				"error", readErr,
				"file", filePath)

			os.Exit(1)
		}
		cfg.Content = content
	}

	if err := tui.Run(ctx, cfg, func(n notify.Notifier) tui.Pipeline {
		return build(n)
	}); err != nil {
		log.ErrorContext(ctx, "Failed to run UI",
			"error", err)

		os.Exit(1)
	}
}

func initOpenAIGenerator(
	ctx context.Context,
	apiKey string,
	log *slog.Logger,
) summarizer.Generator {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		log.WarnContext(ctx, "OPENAI_API_KEY is missing so fallback summaries will be used",
			"envVar", "OPENAI_API_KEY")

		return nil
	}

	gen, err := summarizer.NewOpenAIGenerator(apiKey)
	if err != nil {
		log.ErrorContext(ctx, "Failed to create OpenAI generator so fallback summaries will be used",
			"error", err)

		return nil
	}

	log.InfoContext(ctx, "OpenAI generator is initialized",
		"provider", "openai")

	return gen
}

func runPlain(
	ctx context.Context,
	filePath string,
	dirPath string,
	build func(notify.Notifier) *source.Resolver,
	log *slog.Logger,
) {
	resolver := build(notify.NewLogNotifier(log))

	if dirPath != "" {
		outcomes, err := resolver.ProcessDirectory(ctx, dirPath)
		if err != nil {
			log.ErrorContext(ctx, "Failed to process directory",
				"error", err,
				"dir", dirPath)

			os.Exit(1)
		}

		renderDirectoryReport(outcomes)

		return
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		log.ErrorContext(ctx, "Failed to read input file",
			"error", err,
			"file", filePath)

		os.Exit(1)
	}

	result, err := resolver.ProcessDocument(ctx, content)
	if err != nil {
		log.ErrorContext(ctx, "Failed to process document",
			"error", err,
			"file", filePath)

		os.Exit(1)
	}

	renderPreview(result.Preview)

	// The enriched document itself goes to stdout so it can be piped
	// or redirected, matching the download-a-byte-stream contract.
	if _, err := os.Stdout.Write(result.Download.Data); err != nil {
		log.ErrorContext(ctx, "Failed to write enriched document",
			"error", err)

		os.Exit(1)
	}
	fmt.Println()
}

func renderDirectoryReport(outcomes map[string]models.FileOutcome) {
	fmt.Fprintln(os.Stderr, "Processing Results")

	for _, name := range slices.Sorted(maps.Keys(outcomes)) {
		outcome := outcomes[name]
		if outcome.Success() {
			line := fmt.Sprintf("✅ %s: Processed %d products → %s",
				name, outcome.RecordCount, outcome.OutputPath)
			fmt.Fprintln(os.Stderr, successStyle.Render(line))
		} else {
			fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("❌ %s: %v", name, outcome.Err)))
		}
	}
}

func renderPreview(preview models.Preview) {
	fmt.Fprintln(os.Stderr, "Sample Results")

	for i, record := range preview.Records {
		fmt.Fprintf(os.Stderr, "Product %d:\n", i+1)

		pretty, err := json.MarshalIndent(record, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", record)

			continue
		}
		fmt.Fprintln(os.Stderr, string(pretty))
	}

	if preview.Remaining > 0 {
		fmt.Fprintln(os.Stderr, infoStyle.Render(fmt.Sprintf(
			"%d more products processed. Download the JSON file to see all results.",
			preview.Remaining)))
	}
}
