package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cvconvert.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "standard", cfg.LLM.Tier)
	assert.Equal(t, 90, cfg.LLM.TimeoutSeconds)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "formation_bio_cvs.zip", cfg.ZipName)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "Formation Bio", cfg.RelevantCompany)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "us-east-1", cfg.S3.Region)
	assert.True(t, cfg.UseSSL())
	assert.False(t, cfg.S3Enabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
llm:
  provider: gemini
  timeout_seconds: 30
workers: 8
relevant_company: Acme Research
log:
  level: debug
  format: text
s3:
  endpoint: localhost:9000
  access_key_id: minio
  secret_access_key: minio123
  bucket_name: cvs
  use_ssl: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 30, cfg.LLM.TimeoutSeconds)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "Acme Research", cfg.RelevantCompany)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.True(t, cfg.S3Enabled())
	assert.False(t, cfg.UseSSL())
	assert.Equal(t, "converted", cfg.S3.Prefix)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvironmentWins(t *testing.T) {
	path := writeConfig(t, "workers: 8\n")
	t.Setenv("CVCONVERT_WORKERS", "2")
	t.Setenv("OPENAI_API_KEY", "sk-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, "sk-env", cfg.APIKey())
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "workers: [unclosed\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func(t *testing.T) *Config {
		cfg, err := Load()
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "unknown provider", mutate: func(c *Config) { c.LLM.Provider = "anthropic" }, wantErr: "Provider"},
		{name: "zero workers", mutate: func(c *Config) { c.Workers = 0 }, wantErr: "Workers"},
		{name: "bad log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: "Format"},
		{name: "incomplete s3", mutate: func(c *Config) { c.S3.Endpoint = "localhost:9000" }, wantErr: "BucketName"},
		{name: "missing template", mutate: func(c *Config) { c.Template = "/no/such/template.docx" }, wantErr: "template file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAPIKey(t *testing.T) {
	cfg := &Config{OpenAIAPIKey: "sk-openai", GeminiAPIKey: "gm-key"}
	cfg.LLM.Provider = "openai"
	assert.Equal(t, "sk-openai", cfg.APIKey())
	cfg.LLM.Provider = "gemini"
	assert.Equal(t, "gm-key", cfg.APIKey())
}

func TestMerge(t *testing.T) {
	cfg := &Config{OutputDir: "out", Workers: 4}
	cfg.LLM.Provider = "openai"

	merged := cfg.Merge(Overrides{Provider: "gemini", Workers: 2, Template: "t.docx"})

	assert.Equal(t, "gemini", merged.LLM.Provider)
	assert.Equal(t, 2, merged.Workers)
	assert.Equal(t, "t.docx", merged.Template)
	assert.Equal(t, "out", merged.OutputDir)
	assert.Equal(t, "openai", cfg.LLM.Provider, "original must not change")
}

func TestMasked(t *testing.T) {
	cfg := &Config{OpenAIAPIKey: "sk-secret"}
	cfg.S3.SecretAccessKey = "minio123"

	masked := cfg.Masked(func(string) string { return "***" })
	assert.Equal(t, "***", masked.OpenAIAPIKey)
	assert.Equal(t, "***", masked.S3.SecretAccessKey)
	assert.Equal(t, "sk-secret", cfg.OpenAIAPIKey)
}
