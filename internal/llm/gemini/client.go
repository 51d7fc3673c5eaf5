package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"compliance-backend/internal/llm"
	"compliance-backend/internal/shared/telemetry"
)

const providerName = "gemini"

// Client implements llm.Client on top of the Gemini API SDK.
type Client struct {
	client *genai.Client
	model  string
}

// Option tweaks the underlying SDK configuration.
type Option func(*genai.ClientConfig)

// WithBaseURL points the SDK at a different endpoint.
func WithBaseURL(baseURL string) Option {
	return func(cfg *genai.ClientConfig) {
		cfg.HTTPOptions.BaseURL = baseURL
	}
}

// NewClient constructs a Gemini client.
func NewClient(ctx context.Context, apiKey, model string, timeout time.Duration, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, llm.MissingConfig(providerName, "GEMINI_API_KEY")
	}
	if strings.TrimSpace(model) == "" {
		return nil, llm.MissingConfig(providerName, "GEMINI_MODEL")
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

// Complete issues a single generateContent call.
func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	temperature := float32(0)
	cfg := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}
	if strings.TrimSpace(req.System) != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.JSON {
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return "", mapError(err)
	}
	content := strings.TrimSpace(resp.Text())
	if content == "" {
		return "", fmt.Errorf("gemini response empty content")
	}
	if resp.UsageMetadata != nil {
		telemetry.Info("llm.response", map[string]any{
			"provider":         providerName,
			"model":            c.model,
			"attempt":          llm.AttemptFromContext(ctx),
			"promptTokens":     resp.UsageMetadata.PromptTokenCount,
			"candidatesTokens": resp.UsageMetadata.CandidatesTokenCount,
		})
	}
	return content, nil
}

func mapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &llm.StatusError{Provider: providerName, StatusCode: apiErr.Code, Body: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &llm.StatusError{Provider: providerName, StatusCode: apiErrPtr.Code, Body: apiErrPtr.Message}
	}
	return err
}

var _ llm.Client = (*Client)(nil)
