package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"

	"productsum/internal/enrich"
	"productsum/internal/models"
	"productsum/internal/notify"
)

const (
	// DownloadName is the file name under which single-document
	// results are offered to the caller.
	DownloadName = "processed_products.json"

	downloadMediaType = "application/json"

	// outputPrefix derives a sibling output file name from a source
	// file name in directory mode.
	outputPrefix = "processed_"

	defaultPreviewRecords = 3
)

// PathError reports that a directory-mode target path does not exist.
type PathError struct {
	Path string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("directory does not exist: %s", e.Path)
}

// Resolver feeds source documents to the enricher and routes results
// back out: as an in-memory download for a single document, or as
// sibling files plus an outcome map for a directory.
type Resolver struct {
	enricher     *enrich.Enricher
	notifier     notify.Notifier
	previewLimit int
	log          *slog.Logger
}

func NewResolver(
	enricher *enrich.Enricher,
	notifier notify.Notifier,
	previewLimit int,
	log *slog.Logger,
) *Resolver {
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	if previewLimit <= 0 {
		previewLimit = defaultPreviewRecords
	}

	return &Resolver{
		enricher:     enricher,
		notifier:     notifier,
		previewLimit: previewLimit,
		log:          log,
	}
}

// ProcessDocument enriches one uploaded document. Binary content is
// accepted as long as it decodes as UTF-8 text. Nothing is written to
// the filesystem; the enriched JSON is returned as a download payload
// together with a preview of the leading records.
func (r *Resolver) ProcessDocument(
	ctx context.Context,
	content []byte,
) (*models.DocumentResult, error) {
	if !utf8.Valid(content) {
		err := errors.New("document content is not valid UTF-8 text")
		r.notifier.Error(ctx, err.Error())

		return nil, err
	}

	records, err := r.enricher.EnrichDocument(ctx, content)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode enriched records: %w", err)
	}

	shown := min(r.previewLimit, len(records))
	r.notifier.Info(ctx, fmt.Sprintf("Processed %d records", len(records)))

	return &models.DocumentResult{
		Records: records,
		Preview: models.Preview{
			Records:   records[:shown],
			Remaining: len(records) - shown,
		},
		Download: models.Download{
			Name:      DownloadName,
			MediaType: downloadMediaType,
			Data:      data,
		},
	}, nil
}

// ProcessDirectory enriches every *.json file in dir, writing each
// result to a processed_-prefixed sibling file. The returned map has
// exactly one entry per discovered file: a failure in one file never
// halts processing of the rest.
func (r *Resolver) ProcessDirectory(
	ctx context.Context,
	dir string,
) (map[string]models.FileOutcome, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			pathErr := &PathError{Path: dir}
			r.notifier.Error(ctx, pathErr.Error())

			return nil, pathErr
		}

		return nil, fmt.Errorf("failed to stat directory %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list JSON files in %q: %w", dir, err)
	}

	outcomes := make(map[string]models.FileOutcome, len(matches))

	if len(matches) == 0 {
		r.notifier.Warn(ctx, fmt.Sprintf("No JSON files found in %s", dir))

		return outcomes, nil
	}

	for _, path := range matches {
		name := filepath.Base(path)
		r.notifier.Info(ctx, fmt.Sprintf("Processing %s...", name))

		outcome := r.processFile(ctx, dir, name, path)
		outcomes[name] = outcome

		if outcome.Err != nil {
			r.log.ErrorContext(ctx, "Failed to process file",
				"error", outcome.Err,
				"file", name)
			r.notifier.Error(ctx, fmt.Sprintf("Error processing %s: %v", name, outcome.Err))
		}
	}

	return outcomes, nil
}

func (r *Resolver) processFile(
	ctx context.Context,
	dir string,
	name string,
	path string,
) models.FileOutcome {
	content, err := os.ReadFile(path)
	if err != nil {
		return models.FileOutcome{Err: fmt.Errorf("failed to read file: %w", err)}
	}

	records, err := r.enricher.EnrichDocument(ctx, content)
	if err != nil {
		return models.FileOutcome{Err: err}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return models.FileOutcome{Err: fmt.Errorf("failed to encode enriched records: %w", err)}
	}

	outputPath := filepath.Join(dir, outputPrefix+name)
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return models.FileOutcome{Err: fmt.Errorf("failed to write output file: %w", err)}
	}

	return models.FileOutcome{
		RecordCount: len(records),
		OutputPath:  outputPath,
	}
}
