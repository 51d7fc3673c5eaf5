package recommendations

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"compliance-backend/internal/audit"
	"compliance-backend/internal/llm"
	"compliance-backend/internal/shared/telemetry"
)

// ClientFactory resolves a provider name to a client. Missing credentials
// must be reported as llm.ErrNotConfigured without any network call.
type ClientFactory func(ctx context.Context, provider string) (llm.Client, error)

// Service runs the generation pipeline: request, validate, enrich, prioritize.
type Service struct {
	Clients         ClientFactory
	DefaultProvider string
	Retry           RetryPolicy
	Sleeper         Sleeper
	Timeout         time.Duration
}

// Generate produces a validated, enriched and prioritized recommendation set.
// An empty provider uses DefaultProvider.
func (s *Service) Generate(ctx context.Context, provider string, auditCtx audit.Context) (GenerationResult, error) {
	if err := auditCtx.Validate(); err != nil {
		return GenerationResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	provider = strings.TrimSpace(provider)
	if provider == "" {
		provider = s.DefaultProvider
	}
	if s.Clients == nil {
		return GenerationResult{}, llm.MissingConfig(provider, "LLM_PROVIDER")
	}
	client, err := s.Clients(ctx, provider)
	if err != nil {
		return GenerationResult{}, err
	}

	auditCtx = auditCtx.WithScores()

	retry := s.Retry
	if retry.MaxRetries == 0 && retry.InitialDelay == 0 {
		retry = DefaultRetryPolicy()
	}
	requester := NewRequester(client, provider,
		WithRetryPolicy(retry),
		WithSleeper(s.Sleeper),
		WithTimeout(s.Timeout),
	)
	candidates, err := requester.Request(ctx, auditCtx)
	if err != nil {
		return GenerationResult{Attempts: requester.Attempts()}, err
	}

	report := candidates.Validate()
	result := GenerationResult{
		Analysis: candidates.Analysis,
		Context:  candidates.Context,
		Partial:  report.Partial(),
		Dropped:  report.Dropped,
		Warnings: report.Warnings(),
		Fallback: candidates.Fallback,
		Attempts: requester.Attempts(),
	}
	if err := report.Err(); err != nil {
		return result, err
	}

	recs := ensureUniqueIDs(report.Kept)
	recs = Enrich(ctx, recs, auditCtx)
	result.Recommendations = Prioritize(recs)

	telemetry.Info("generation.complete", map[string]any{
		"provider": provider,
		"attempts": result.Attempts,
		"kept":     len(result.Recommendations),
		"dropped":  result.Dropped,
		"fallback": result.Fallback,
	})
	return result, nil
}

// ensureUniqueIDs assigns fresh ids to entries that lack one or repeat one.
func ensureUniqueIDs(recs []Recommendation) []Recommendation {
	seen := make(map[string]bool, len(recs))
	out := make([]Recommendation, len(recs))
	for i, rec := range recs {
		id := strings.TrimSpace(rec.ID)
		if id == "" || seen[id] {
			id = uuid.NewString()
		}
		seen[id] = true
		rec.ID = id
		out[i] = rec
	}
	return out
}
