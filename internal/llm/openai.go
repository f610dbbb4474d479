package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/a-tejada/cv-converter/internal/logging"
)

const openAIMaxAttempts = 3

// OpenAIClient implements Client over the chat/completions endpoint.
type OpenAIClient struct {
	config     *Config
	apiKey     string
	httpClient *http.Client
	log        logrus.FieldLogger
	// SystemPrompt is sent as the first message of every request
	SystemPrompt string
	backoff      time.Duration
}

// NewOpenAIClient creates a new OpenAI client. A nil logger disables logging.
func NewOpenAIClient(config *Config, apiKey string, log logrus.FieldLogger) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if log == nil {
		log = logging.Discard()
	}
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultOpenAIConfig().BaseURL
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultOpenAIConfig().Timeout
	}
	cfg := *config
	cfg.BaseURL = strings.TrimRight(baseURL, "/")

	return &OpenAIClient{
		config:       &cfg,
		apiKey:       apiKey,
		httpClient:   &http.Client{Timeout: timeout},
		log:          log,
		SystemPrompt: SystemPrompt(),
		backoff:      500 * time.Millisecond,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Temperature    float32           `json:"temperature"`
	Messages       []chatMessage     `json:"messages"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// GenerateContent generates text content using the specified model tier
func (c *OpenAIClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.complete(ctx, prompt, tier, false)
}

// GenerateJSON generates a JSON object using the specified model tier
func (c *OpenAIClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	text, err := c.complete(ctx, prompt, tier, true)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

// GetModel returns the model name for a tier
func (c *OpenAIClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close drops idle HTTP connections.
func (c *OpenAIClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *OpenAIClient) complete(ctx context.Context, prompt string, tier ModelTier, jsonMode bool) (string, error) {
	model := c.config.GetModel(tier)
	if model == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	rid := uuid.New().String()
	start := time.Now()
	log := c.log.WithFields(logrus.Fields{"req_id": rid, "model": model, "prompt_len": len(prompt)})
	log.Debug("llm.openai.start")

	body := chatRequest{
		Model:       model,
		Temperature: c.config.Temperature,
		Messages: []chatMessage{
			{Role: "system", Content: c.SystemPrompt},
			{Role: "user", Content: prompt},
		},
	}
	if jsonMode {
		body.ResponseFormat = map[string]string{"type": "json_object"}
	}

	var raw []byte
	var err error
	for attempt := 1; attempt <= openAIMaxAttempts; attempt++ {
		raw, err = c.post(ctx, c.config.BaseURL+"/chat/completions", body)
		if err == nil {
			break
		}
		apiErr, ok := err.(*APICallError)
		if !ok || !apiErr.Retryable() || attempt == openAIMaxAttempts {
			break
		}
		log.WithError(err).WithField("attempt", attempt).Warn("llm.openai.retry")
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.backoff * time.Duration(attempt)):
		}
	}
	if err != nil {
		log.WithError(err).WithField("elapsed_ms", time.Since(start).Milliseconds()).Error("llm.openai.http_error")
		return "", err
	}

	var cc chatResponse
	if err := json.Unmarshal(raw, &cc); err != nil {
		log.WithError(err).WithField("raw_bytes", len(raw)).Error("llm.openai.decode_error")
		return "", &APICallError{Provider: ProviderOpenAI, Message: "decode response", Cause: err}
	}
	if len(cc.Choices) == 0 {
		log.Error("llm.openai.no_choices")
		return "", &APICallError{Provider: ProviderOpenAI, Message: "no choices in response"}
	}

	content := strings.TrimSpace(cc.Choices[0].Message.Content)
	log.WithFields(logrus.Fields{
		"finish_reason":     cc.Choices[0].FinishReason,
		"prompt_tokens":     cc.Usage.PromptTokens,
		"completion_tokens": cc.Usage.CompletionTokens,
		"elapsed_ms":        time.Since(start).Milliseconds(),
	}).Info("llm.openai.ok")
	return content, nil
}

func (c *OpenAIClient) post(ctx context.Context, url string, body chatRequest) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APICallError{Provider: ProviderOpenAI, Message: "http request failed", Cause: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.WithError(err).Warn("llm.openai.body_close_error")
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APICallError{Provider: ProviderOpenAI, StatusCode: resp.StatusCode, Message: "read response", Cause: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APICallError{Provider: ProviderOpenAI, StatusCode: resp.StatusCode, Message: apiErrorMessage(data)}
	}
	return data, nil
}

// apiErrorMessage pulls error.message out of an OpenAI error body.
func apiErrorMessage(body []byte) string {
	var e struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
