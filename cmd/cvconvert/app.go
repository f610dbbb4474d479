package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/a-tejada/cv-converter/internal/config"
	"github.com/a-tejada/cv-converter/internal/llm"
	"github.com/a-tejada/cv-converter/internal/logging"
	"github.com/a-tejada/cv-converter/internal/schemas"
	"github.com/a-tejada/cv-converter/internal/types"
	schemafiles "github.com/a-tejada/cv-converter/schemas"
)

// loadConfig reads the config file and environment and applies CLI overrides.
func loadConfig(o config.Overrides) (*config.Config, error) {
	files := []string{config.DefaultFile}
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}
		files = []string{configPath}
	}

	cfg, err := config.Load(files...)
	if err != nil {
		return nil, err
	}
	o.LogLevel = logLevel
	cfg = cfg.Merge(o)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger writes logs to stderr so stdout stays usable for command output.
func newLogger(cfg *config.Config) (*logrus.Logger, error) {
	return logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
}

// newLLMClient creates the client of the configured provider.
func newLLMClient(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (llm.Client, error) {
	apiKey := cfg.APIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("no API key for provider %s: set OPENAI_API_KEY or GEMINI_API_KEY, or pass --no-ai", cfg.LLM.Provider)
	}

	llmCfg := llm.ConfigFor(llm.Provider(cfg.LLM.Provider))
	if cfg.LLM.Model != "" {
		llmCfg = llmCfg.WithModel(llm.ModelTier(cfg.LLM.Tier), cfg.LLM.Model)
	}
	if cfg.LLM.BaseURL != "" {
		llmCfg.BaseURL = cfg.LLM.BaseURL
	}
	llmCfg.Timeout = cfg.Timeout()

	log.WithFields(logrus.Fields{
		"provider": cfg.LLM.Provider,
		"model":    llmCfg.GetModel(llm.ModelTier(cfg.LLM.Tier)),
		"api_key":  llm.MaskAPIKey(apiKey),
	}).Debug("llm.client")
	return llm.NewClient(ctx, llmCfg, apiKey, log)
}

// loadFollowUp reads and validates a reviewer follow-up form.
func loadFollowUp(path string) (*types.FollowUp, error) {
	if path == "" {
		return nil, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read follow-up file: %w", err)
	}
	if err := schemas.ValidateEmbedded(schemafiles.FollowUp, string(content)); err != nil {
		return nil, fmt.Errorf("invalid follow-up form: %w", err)
	}
	var followUp types.FollowUp
	if err := json.Unmarshal(content, &followUp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal follow-up JSON: %w", err)
	}
	if err := followUp.Validate(); err != nil {
		return nil, fmt.Errorf("invalid follow-up form: %w", err)
	}
	return &followUp, nil
}

// writeOutput writes data to path, creating the parent directory.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
