package models

// SummaryKey is the key added to every record object that received
// an AI-generated summary.
const SummaryKey = "ai_summary"

// Record is one product object decoded from an input document.
type Record = map[string]any

// FileOutcome is the result of processing one source file in
// directory mode. A non-nil Err marks the file as failed; otherwise
// RecordCount and OutputPath describe the written sibling file.
type FileOutcome struct {
	RecordCount int
	OutputPath  string
	Err         error
}

// Success reports whether the file was processed and written.
func (o FileOutcome) Success() bool {
	return o.Err == nil
}

// Preview holds the leading enriched records shown to the user in
// single-document mode, plus the count of records not shown.
type Preview struct {
	Records   []any
	Remaining int
}

// Download is the enriched document offered to the caller as a byte
// stream in single-document mode.
type Download struct {
	Name      string
	MediaType string
	Data      []byte
}

// DocumentResult is the outcome of single-document processing.
type DocumentResult struct {
	Records  []any
	Preview  Preview
	Download Download
}
