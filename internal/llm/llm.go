package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Client abstracts generative-text providers.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Request is a single instruction sent to a provider.
type Request struct {
	System    string
	Prompt    string
	MaxTokens int
	JSON      bool
}

// Hash returns a stable identifier for the request contents.
func (r Request) Hash() string {
	sum := sha256.Sum256([]byte(r.System + "\n\n" + r.Prompt))
	return hex.EncodeToString(sum[:])
}

// ErrNotConfigured is returned when a provider credential or model is missing.
var ErrNotConfigured = errors.New("llm provider not configured")

// ConfigError names the missing configuration key.
type ConfigError struct {
	Provider string
	Key      string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s is not configured for provider %s", e.Key, e.Provider)
}

// Unwrap lets errors.Is match ErrNotConfigured.
func (e *ConfigError) Unwrap() error {
	return ErrNotConfigured
}

// MissingConfig builds a ConfigError for the given provider and key.
func MissingConfig(provider, key string) error {
	return &ConfigError{Provider: provider, Key: key}
}

// StatusError reports a non-success HTTP response from a provider.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 300 {
		body = body[:300]
	}
	return fmt.Sprintf("%s http status %d: %s", e.Provider, e.StatusCode, body)
}

type attemptKey struct{}

// WithAttempt stores the 1-based attempt number for provider logging.
func WithAttempt(ctx context.Context, attempt int) context.Context {
	return context.WithValue(ctx, attemptKey{}, attempt)
}

// AttemptFromContext returns the attempt number stored by WithAttempt.
func AttemptFromContext(ctx context.Context) int {
	if v, ok := ctx.Value(attemptKey{}).(int); ok {
		return v
	}
	return 0
}
