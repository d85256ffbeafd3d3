package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	defaultModel          = "gpt-4o-mini"
	defaultPreviewRecords = 3
	defaultCacheEntries   = 256
)

// Env holds settings read from the process environment.
type Env struct {
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	ConfigPath   string `env:"PRODUCTSUM_CONFIG"`
}

func LoadEnv() Env {
	var cfg Env
	env.Must(cfg, env.Parse(&cfg))
	return cfg
}

// Pipeline holds the enrichment settings read from an optional YAML
// file. Empty prompt fields defer to the summarizer package defaults.
type Pipeline struct {
	Model              string `yaml:"model"`
	SystemPrompt       string `yaml:"system_prompt"`
	UserPromptTemplate string `yaml:"user_prompt_template"`
	PreviewRecords     int    `yaml:"preview_records"`
	CacheEntries       int    `yaml:"cache_entries"`
}

// LoadPipeline reads a pipeline config from path. An empty path or a
// missing file yields the defaults.
func LoadPipeline(path string) (*Pipeline, error) {
	if path == "" {
		return defaultPipeline(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultPipeline(), nil
		}

		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var cfg Pipeline
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}

	applyPipelineDefaults(&cfg)

	return &cfg, nil
}

func defaultPipeline() *Pipeline {
	return &Pipeline{
		Model:          defaultModel,
		PreviewRecords: defaultPreviewRecords,
		CacheEntries:   defaultCacheEntries,
	}
}

func applyPipelineDefaults(cfg *Pipeline) {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.PreviewRecords <= 0 {
		cfg.PreviewRecords = defaultPreviewRecords
	}
	if cfg.CacheEntries <= 0 {
		cfg.CacheEntries = defaultCacheEntries
	}
}
