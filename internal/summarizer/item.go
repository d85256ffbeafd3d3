package summarizer

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"productsum/internal/models"
)

const (
	// fallbackSummaryText is the single bullet returned when anything
	// in the per-record generation path fails.
	fallbackSummaryText = "Error generating summary"

	// productInfoPlaceholder marks where the serialized record is
	// embedded into the user prompt template.
	productInfoPlaceholder = "{product_info}"

	DefaultSystemPrompt = "You are a product analysis assistant. " +
		"Create concise, bullet-point summaries of product features."

	DefaultUserPromptTemplate = "Summarize the key features of the following product " +
		"as a short bullet-point list. Start every bullet with \"-\".\n\n" +
		"Product information:\n" + productInfoPlaceholder
)

// Config carries the generation settings for an ItemSummarizer.
// Empty prompt fields fall back to the package defaults.
type Config struct {
	Model              string
	SystemPrompt       string
	UserPromptTemplate string
	CacheEntries       int
}

// ItemSummarizer produces a bullet-point summary for one record.
// It never returns an error: every failure collapses into a
// one-element fallback list, so one bad record cannot abort a batch.
type ItemSummarizer struct {
	gen          Generator
	model        string
	systemPrompt string
	userTemplate string
	cache        *summaryCache
	log          *slog.Logger
}

// NewItemSummarizer builds an item summarizer. A nil generator is
// allowed and makes every summary the fallback sentinel.
func NewItemSummarizer(gen Generator, cfg Config, log *slog.Logger) *ItemSummarizer {
	systemPrompt := strings.TrimSpace(cfg.SystemPrompt)
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}

	userTemplate := cfg.UserPromptTemplate
	if strings.TrimSpace(userTemplate) == "" {
		userTemplate = DefaultUserPromptTemplate
	}

	return &ItemSummarizer{
		gen:          gen,
		model:        cfg.Model,
		systemPrompt: systemPrompt,
		userTemplate: userTemplate,
		cache:        newSummaryCache(cfg.CacheEntries),
		log:          log,
	}
}

// Summarize returns the bullet-point summary for a record.
func (s *ItemSummarizer) Summarize(ctx context.Context, record models.Record) []string {
	serialized, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to serialize record for summarization",
			"error", err,
			"fallback", true)

		return []string{fallbackSummaryText}
	}

	cacheKey := summaryCacheKey(serialized)
	if bullets, ok := s.cache.get(cacheKey); ok {
		return bullets
	}

	if s.gen == nil {
		return []string{fallbackSummaryText}
	}

	text, err := s.gen.Generate(ctx, s.model, []Message{
		{Role: RoleSystem, Content: s.systemPrompt},
		{Role: RoleUser, Content: s.buildUserPrompt(serialized)},
	})
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to generate summary for record",
			"error", err,
			"model", s.model,
			"fallback", true,
			"recordLen", len(serialized))

		return []string{fallbackSummaryText}
	}

	bullets := ExtractBullets(text)
	s.cache.set(cacheKey, bullets)

	return bullets
}

func (s *ItemSummarizer) buildUserPrompt(serialized []byte) string {
	if strings.Contains(s.userTemplate, productInfoPlaceholder) {
		return strings.ReplaceAll(s.userTemplate, productInfoPlaceholder, string(serialized))
	}

	return s.userTemplate + "\n\n" + string(serialized)
}
