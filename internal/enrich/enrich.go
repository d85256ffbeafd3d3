package enrich

import (
	"context"
	"encoding/json"
	"log/slog"

	"productsum/internal/models"
	"productsum/internal/notify"
	"productsum/internal/summarizer"
)

// Enricher decodes a JSON document of product records and attaches an
// AI-generated summary to every record object in it.
type Enricher struct {
	items    *summarizer.ItemSummarizer
	notifier notify.Notifier
	log      *slog.Logger
}

func New(
	items *summarizer.ItemSummarizer,
	notifier notify.Notifier,
	log *slog.Logger,
) *Enricher {
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}

	return &Enricher{
		items:    items,
		notifier: notifier,
		log:      log,
	}
}

// EnrichDocument decodes content as a JSON array and enriches it in
// place. The returned collection always has the same length and order
// as the input; only record objects gain an ai_summary key, other
// elements pass through untouched. Decode and shape problems are fatal
// for the whole document; per-record generation problems never are.
func (e *Enricher) EnrichDocument(ctx context.Context, content []byte) ([]any, error) {
	var decoded any
	if err := json.Unmarshal(content, &decoded); err != nil {
		decodeErr := &DecodeError{Err: err}
		e.log.ErrorContext(ctx, "Failed to decode document",
			"error", err)
		e.notifier.Error(ctx, decodeErr.Error())

		return nil, decodeErr
	}

	records, ok := decoded.([]any)
	if !ok {
		shapeErr := &ShapeError{Got: jsonTypeName(decoded)}
		e.log.ErrorContext(ctx, "Document has unexpected top-level shape",
			"got", shapeErr.Got)
		e.notifier.Error(ctx, shapeErr.Error())

		return nil, shapeErr
	}

	total := len(records)
	for i, element := range records {
		if record, isRecord := element.(models.Record); isRecord {
			record[models.SummaryKey] = e.items.Summarize(ctx, record)
		}

		// Skipped elements still count for progress.
		e.notifier.Progress(ctx, i+1, total)
	}

	return records, nil
}
