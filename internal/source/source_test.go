package source_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"productsum/internal/enrich"
	"productsum/internal/notify"
	"productsum/internal/source"
	"productsum/internal/summarizer"
)

type stubGenerator struct {
	output string
	err    error
}

func (g *stubGenerator) Generate(
	_ context.Context,
	_ string,
	_ []summarizer.Message,
) (string, error) {
	if g.err != nil {
		return "", g.err
	}

	return g.output, nil
}

type recordingNotifier struct {
	infos  []string
	warns  []string
	errors []string
}

func (n *recordingNotifier) Progress(context.Context, int, int) {}

func (n *recordingNotifier) Info(_ context.Context, message string) {
	n.infos = append(n.infos, message)
}

func (n *recordingNotifier) Warn(_ context.Context, message string) {
	n.warns = append(n.warns, message)
}

func (n *recordingNotifier) Error(_ context.Context, message string) {
	n.errors = append(n.errors, message)
}

func newResolver(gen summarizer.Generator, notifier notify.Notifier) *source.Resolver {
	items := summarizer.NewItemSummarizer(gen, summarizer.Config{Model: "test-model"}, slog.Default())
	enricher := enrich.New(items, notifier, slog.Default())

	return source.NewResolver(enricher, notifier, 0, slog.Default())
}

func writeFile(t *testing.T, dir string, name string, content string) {
	t.Helper()

	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

func TestProcessDirectoryMixedOutcomes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.json", `[{"name":"A"},{"name":"B"}]`)
	writeFile(t, dir, "broken.json", `{not json`)
	writeFile(t, dir, "wrong_shape.json", `{"a":1}`)
	writeFile(t, dir, "notes.txt", "not a json file")

	resolver := newResolver(&stubGenerator{output: "- Fine"}, &recordingNotifier{})

	outcomes, err := resolver.ProcessDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(outcomes) != 3 {
		t.Fatalf("expected one outcome per JSON file, got %d", len(outcomes))
	}

	good, ok := outcomes["good.json"]
	if !ok || !good.Success() {
		t.Fatalf("expected good.json to succeed, got %+v", good)
	}

	if good.RecordCount != 2 {
		t.Fatalf("expected 2 records, got %d", good.RecordCount)
	}

	wantPath := filepath.Join(dir, "processed_good.json")
	if good.OutputPath != wantPath {
		t.Fatalf("output path mismatch: got %q want %q", good.OutputPath, wantPath)
	}

	if broken := outcomes["broken.json"]; broken.Success() {
		t.Fatalf("expected broken.json to fail")
	} else {
		var decodeErr *enrich.DecodeError
		if !errors.As(broken.Err, &decodeErr) {
			t.Fatalf("expected DecodeError for broken.json, got %v", broken.Err)
		}
	}

	if wrongShape := outcomes["wrong_shape.json"]; wrongShape.Success() {
		t.Fatalf("expected wrong_shape.json to fail")
	} else {
		var shapeErr *enrich.ShapeError
		if !errors.As(wrongShape.Err, &shapeErr) {
			t.Fatalf("expected ShapeError for wrong_shape.json, got %v", wrongShape.Err)
		}
	}

	if _, err := os.Stat(filepath.Join(dir, "processed_broken.json")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no output file for a failed source, stat err: %v", err)
	}
}

func TestProcessDirectoryFailureDoesNotHaltLaterFiles(t *testing.T) {
	dir := t.TempDir()
	// Glob order is lexical, so the broken file comes first.
	writeFile(t, dir, "a_broken.json", `{not json`)
	writeFile(t, dir, "z_good.json", `[{"name":"Z"}]`)

	resolver := newResolver(&stubGenerator{output: "- Fine"}, &recordingNotifier{})

	outcomes, err := resolver.ProcessDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if good := outcomes["z_good.json"]; !good.Success() {
		t.Fatalf("expected later file to be processed after a failure, got %+v", good)
	}
}

func TestProcessDirectoryWritesIndentedOutput(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "products.json", `[{"name":"A"}]`)

	resolver := newResolver(&stubGenerator{output: "• Durable"}, &recordingNotifier{})

	outcomes, err := resolver.ProcessDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outcome := outcomes["products.json"]
	data, err := os.ReadFile(outcome.OutputPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	if !strings.HasPrefix(string(data), "[\n  {") {
		t.Fatalf("expected 2-space indented array, got %q", string(data)[:min(len(data), 20)])
	}

	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	summary, ok := records[0]["ai_summary"].([]any)
	if !ok || len(summary) != 1 || summary[0] != "Durable" {
		t.Fatalf("unexpected summary in output: %v", records[0]["ai_summary"])
	}
}

func TestProcessDirectoryMissingPath(t *testing.T) {
	resolver := newResolver(&stubGenerator{output: "- x"}, &recordingNotifier{})

	_, err := resolver.ProcessDirectory(context.Background(), filepath.Join(t.TempDir(), "missing"))

	var pathErr *source.PathError
	if !errors.As(err, &pathErr) {
		t.Fatalf("expected PathError, got %v", err)
	}
}

func TestProcessDirectoryWithoutJSONFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "readme.md", "nothing to see")

	notifier := &recordingNotifier{}
	resolver := newResolver(&stubGenerator{output: "- x"}, notifier)

	outcomes, err := resolver.ProcessDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("expected empty outcome, got error: %v", err)
	}

	if len(outcomes) != 0 {
		t.Fatalf("expected no outcomes, got %d", len(outcomes))
	}

	if len(notifier.warns) != 1 {
		t.Fatalf("expected one warning, got %q", notifier.warns)
	}
}

func TestProcessDocumentPreviewAndDownload(t *testing.T) {
	resolver := newResolver(&stubGenerator{output: "- Fine"}, &recordingNotifier{})

	content := []byte(`[{"n":1},{"n":2},{"n":3},{"n":4},{"n":5}]`)

	result, err := resolver.ProcessDocument(context.Background(), content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Records) != 5 {
		t.Fatalf("expected 5 records, got %d", len(result.Records))
	}

	if len(result.Preview.Records) != 3 {
		t.Fatalf("expected preview of 3 records, got %d", len(result.Preview.Records))
	}

	if result.Preview.Remaining != 2 {
		t.Fatalf("expected 2 remaining records, got %d", result.Preview.Remaining)
	}

	if result.Download.Name != "processed_products.json" {
		t.Fatalf("unexpected download name %q", result.Download.Name)
	}

	if result.Download.MediaType != "application/json" {
		t.Fatalf("unexpected media type %q", result.Download.MediaType)
	}

	var roundTrip []any
	if err := json.Unmarshal(result.Download.Data, &roundTrip); err != nil {
		t.Fatalf("download payload is not valid JSON: %v", err)
	}

	if len(roundTrip) != 5 {
		t.Fatalf("expected 5 records in download payload, got %d", len(roundTrip))
	}
}

func TestProcessDocumentSmallBatchPreview(t *testing.T) {
	resolver := newResolver(&stubGenerator{output: "- Fine"}, &recordingNotifier{})

	result, err := resolver.ProcessDocument(context.Background(), []byte(`[{"n":1},{"n":2}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Preview.Records) != 2 {
		t.Fatalf("expected preview of 2 records, got %d", len(result.Preview.Records))
	}

	if result.Preview.Remaining != 0 {
		t.Fatalf("expected no remaining records, got %d", result.Preview.Remaining)
	}
}

func TestProcessDocumentInvalidUTF8(t *testing.T) {
	resolver := newResolver(&stubGenerator{output: "- x"}, &recordingNotifier{})

	if _, err := resolver.ProcessDocument(context.Background(), []byte{0xff, 0xfe, 0xfd}); err == nil {
		t.Fatalf("expected error for invalid UTF-8 content")
	}
}

func TestProcessDocumentDecodeErrorIsFatal(t *testing.T) {
	resolver := newResolver(&stubGenerator{output: "- x"}, &recordingNotifier{})

	_, err := resolver.ProcessDocument(context.Background(), []byte(`{not json`))

	var decodeErr *enrich.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
}
