// Package config provides configuration loading and validation for the CLI.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gotify/configor"
)

// DefaultFile is the configuration file read when no path is given.
const DefaultFile = "cvconvert.yml"

// Config holds every setting of the converter. Values come from defaults, an
// optional YAML file and the environment, in increasing precedence; CLI flags
// are applied on top by the caller through Merge.
type Config struct {
	LLM struct {
		Provider       string `yaml:"provider" default:"openai" env:"CVCONVERT_LLM_PROVIDER" validate:"oneof=openai gemini"`
		Tier           string `yaml:"tier" default:"standard" env:"CVCONVERT_LLM_TIER" validate:"oneof=lite standard advanced"`
		Model          string `yaml:"model" env:"CVCONVERT_LLM_MODEL"`
		BaseURL        string `yaml:"base_url" env:"CVCONVERT_LLM_BASE_URL" validate:"omitempty,url"`
		TimeoutSeconds int    `yaml:"timeout_seconds" default:"90" env:"CVCONVERT_LLM_TIMEOUT_SECONDS" validate:"min=1"`
	} `yaml:"llm"`

	OpenAIAPIKey string `yaml:"openai_api_key" env:"OPENAI_API_KEY"`
	GeminiAPIKey string `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`

	Template        string `yaml:"template" env:"CVCONVERT_TEMPLATE"`
	OutputDir       string `yaml:"output_dir" default:"out" env:"CVCONVERT_OUTPUT_DIR"`
	ZipName         string `yaml:"zip_name" default:"formation_bio_cvs.zip" env:"CVCONVERT_ZIP_NAME"`
	Workers         int    `yaml:"workers" default:"4" env:"CVCONVERT_WORKERS" validate:"min=1,max=64"`
	RelevantCompany string `yaml:"relevant_company" default:"Formation Bio" env:"CVCONVERT_RELEVANT_COMPANY" validate:"required"`

	Log struct {
		Level  string `yaml:"level" default:"info" env:"CVCONVERT_LOG_LEVEL" validate:"oneof=debug info warn warning error"`
		Format string `yaml:"format" default:"json" env:"CVCONVERT_LOG_FORMAT" validate:"oneof=json text"`
	} `yaml:"log"`

	S3 struct {
		Endpoint        string `yaml:"endpoint" env:"S3_ENDPOINT"`
		AccessKeyID     string `yaml:"access_key_id" env:"S3_ACCESS_KEY_ID" validate:"required_with=Endpoint"`
		SecretAccessKey string `yaml:"secret_access_key" env:"S3_SECRET_ACCESS_KEY" validate:"required_with=Endpoint"`
		BucketName      string `yaml:"bucket_name" env:"S3_BUCKET_NAME" validate:"required_with=Endpoint"`
		Prefix          string `yaml:"prefix" default:"converted" env:"S3_PREFIX"`
		Region          string `yaml:"region" default:"us-east-1" env:"S3_REGION"`
		UseSSL          *bool  `yaml:"use_ssl" default:"true" env:"S3_USE_SSL"`
	} `yaml:"s3"`
}

// Load reads the configuration from the given YAML files. Missing files are
// skipped, so an empty call yields defaults plus the environment.
func Load(files ...string) (*Config, error) {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if f == "" {
			continue
		}
		if _, err := os.Stat(f); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to stat config file %s: %w", f, err)
		}
		existing = append(existing, f)
	}

	cfg := new(Config)
	if err := configor.New(&configor.Config{}).Load(cfg, existing...); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("'%s' failed '%s'", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config error: %s", strings.Join(msgs, ", "))
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.Template != "" {
		if _, err := os.Stat(c.Template); os.IsNotExist(err) {
			return fmt.Errorf("config error: template file not found: %s", c.Template)
		}
	}
	return nil
}

// APIKey returns the key of the configured provider.
func (c *Config) APIKey() string {
	if c.LLM.Provider == "gemini" {
		return c.GeminiAPIKey
	}
	return c.OpenAIAPIKey
}

// Timeout returns the LLM request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.LLM.TimeoutSeconds) * time.Second
}

// S3Enabled reports whether uploads are configured.
func (c *Config) S3Enabled() bool {
	return c.S3.Endpoint != ""
}

// UseSSL reports whether the S3 endpoint is reached over TLS.
func (c *Config) UseSSL() bool {
	return c.S3.UseSSL == nil || *c.S3.UseSSL
}

// Overrides are values set on the command line. Zero values leave the
// configuration unchanged.
type Overrides struct {
	Provider  string
	Model     string
	Template  string
	OutputDir string
	Workers   int
	LogLevel  string
}

// Merge returns a copy of c with the non-empty overrides applied.
func (c *Config) Merge(o Overrides) *Config {
	result := *c

	if o.Provider != "" {
		result.LLM.Provider = o.Provider
	}
	if o.Model != "" {
		result.LLM.Model = o.Model
	}
	if o.Template != "" {
		result.Template = o.Template
	}
	if o.OutputDir != "" {
		result.OutputDir = o.OutputDir
	}
	if o.Workers > 0 {
		result.Workers = o.Workers
	}
	if o.LogLevel != "" {
		result.Log.Level = o.LogLevel
	}

	return &result
}

// Masked returns a copy with secrets replaced, for printing.
func (c *Config) Masked(mask func(string) string) *Config {
	result := *c
	result.OpenAIAPIKey = mask(c.OpenAIAPIKey)
	result.GeminiAPIKey = mask(c.GeminiAPIKey)
	result.S3.SecretAccessKey = mask(c.S3.SecretAccessKey)
	return &result
}
