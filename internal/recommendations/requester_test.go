package recommendations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compliance-backend/internal/llm"
)

func TestRetryPolicyDelay(t *testing.T) {
	p := DefaultRetryPolicy()
	assert.Equal(t, time.Second, p.Delay(0))
	assert.Equal(t, 2*time.Second, p.Delay(1))
	assert.Equal(t, 4*time.Second, p.Delay(2))
}

func TestRetryPolicyDelaySaturates(t *testing.T) {
	p := DefaultRetryPolicy()
	assert.Equal(t, MaxRetryDelay, p.Delay(7))
	for _, attempt := range []int{34, 63, 64, 1000} {
		assert.Equal(t, MaxRetryDelay, p.Delay(attempt), "attempt %d", attempt)
	}
	assert.Equal(t, time.Duration(0), RetryPolicy{MaxRetries: 3}.Delay(40))
}

func TestRequesterAlwaysFailingService(t *testing.T) {
	client := &scriptedClient{replies: []scriptedReply{
		{err: &llm.StatusError{Provider: "test", StatusCode: 503, Body: "unavailable"}},
	}}
	sleeper := &recordingSleeper{}
	r := NewRequester(client, "test", WithSleeper(sleeper))
	assert.Equal(t, StateIdle, r.State())

	_, err := r.Request(context.Background(), sampleAudit())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGenerationFailed))
	var statusErr *llm.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 503, statusErr.StatusCode)
	assert.Equal(t, 3, client.calls)
	assert.Equal(t, 3, r.Attempts())
	assert.Equal(t, []time.Duration{1000 * time.Millisecond, 2000 * time.Millisecond, 4000 * time.Millisecond}, sleeper.delays)
	assert.Equal(t, StateFailed, r.State())
}

func TestRequesterSucceedsAfterRetry(t *testing.T) {
	client := &scriptedClient{replies: []scriptedReply{
		{err: errors.New("connection reset by peer")},
		{text: threeRecommendations},
	}}
	sleeper := &recordingSleeper{}
	r := NewRequester(client, "test", WithSleeper(sleeper))

	candidates, err := r.Request(context.Background(), sampleAudit())

	require.NoError(t, err)
	assert.Len(t, candidates.Items, 3)
	assert.False(t, candidates.Fallback)
	assert.Equal(t, "Installation partiellement conforme", candidates.Analysis.Summary)
	assert.Equal(t, 2, client.calls)
	assert.Equal(t, []time.Duration{time.Second}, sleeper.delays)
	assert.Equal(t, StateSucceeded, r.State())
}

func TestRequesterDoesNotRetryConfigErrors(t *testing.T) {
	client := &scriptedClient{replies: []scriptedReply{
		{err: llm.MissingConfig("anthropic", "ANTHROPIC_API_KEY")},
	}}
	sleeper := &recordingSleeper{}
	r := NewRequester(client, "anthropic", WithSleeper(sleeper))

	_, err := r.Request(context.Background(), sampleAudit())

	require.Error(t, err)
	assert.True(t, errors.Is(err, llm.ErrNotConfigured))
	assert.Equal(t, 1, client.calls)
	assert.Empty(t, sleeper.delays)
}

func TestRequesterStopsWhenContextCancelledDuringBackoff(t *testing.T) {
	client := &scriptedClient{replies: []scriptedReply{{err: errors.New("boom")}}}
	sleeper := &recordingSleeper{err: context.Canceled}
	r := NewRequester(client, "test", WithSleeper(sleeper))

	_, err := r.Request(context.Background(), sampleAudit())

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, client.calls)
	assert.Equal(t, StateFailed, r.State())
}

func TestRequesterTimeoutBoundsTheRun(t *testing.T) {
	client := &scriptedClient{replies: []scriptedReply{{err: errors.New("boom")}}}
	r := NewRequester(client, "test",
		WithRetryPolicy(RetryPolicy{MaxRetries: 5, InitialDelay: time.Hour}),
		WithTimeout(20*time.Millisecond),
	)

	_, err := r.Request(context.Background(), sampleAudit())

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, 1, client.calls)
}

func TestRequesterFallbackOnUnparseableResponse(t *testing.T) {
	raw := "Voici mes recommandations: vérifier le TGBT et le câblage."
	client := &scriptedClient{replies: []scriptedReply{{text: raw}}}
	r := NewRequester(client, "test", WithSleeper(&recordingSleeper{}))

	candidates, err := r.Request(context.Background(), sampleAudit())
	require.NoError(t, err)
	require.True(t, candidates.Fallback)
	require.Len(t, candidates.Items, 1)

	report := candidates.Validate()
	require.Len(t, report.Kept, 1)
	rec := report.Kept[0]
	assert.Equal(t, PriorityMedium, rec.Priority)
	assert.Equal(t, 70.0, rec.DataQuality.Completeness)
	assert.Equal(t, raw, rec.Description)
	assert.True(t, rec.Fallback)
	assert.Equal(t, StateSucceeded, r.State())
}

func TestRequesterSkipsBracesInLeadingProse(t *testing.T) {
	reply := "Voici l'analyse {synthèse} :\n" + threeRecommendations
	client := &scriptedClient{replies: []scriptedReply{{text: reply}}}
	r := NewRequester(client, "test", WithSleeper(&recordingSleeper{}))

	candidates, err := r.Request(context.Background(), sampleAudit())

	require.NoError(t, err)
	assert.False(t, candidates.Fallback)
	assert.Len(t, candidates.Items, 3)
	assert.Equal(t, "Installation partiellement conforme", candidates.Analysis.Summary)
}

func TestParseResponseNeedsRecommendationsKey(t *testing.T) {
	_, err := parseResponse(`Note {"analysis": {"summary": "x"}} fin`)
	assert.ErrorIs(t, err, errMissingRecommendations)

	_, err = parseResponse("aucune donnée")
	assert.ErrorIs(t, err, errNoJSONObject)
}

func TestRequesterToleratesCodeFences(t *testing.T) {
	client := &scriptedClient{replies: []scriptedReply{{text: "```json\n" + threeRecommendations + "\n```"}}}
	r := NewRequester(client, "test", WithSleeper(&recordingSleeper{}))

	candidates, err := r.Request(context.Background(), sampleAudit())
	require.NoError(t, err)
	assert.False(t, candidates.Fallback)
	assert.Len(t, candidates.Items, 3)
}

func TestRequesterIsSingleUse(t *testing.T) {
	client := &scriptedClient{replies: []scriptedReply{{text: threeRecommendations}}}
	r := NewRequester(client, "test", WithSleeper(&recordingSleeper{}))

	_, err := r.Request(context.Background(), sampleAudit())
	require.NoError(t, err)
	_, err = r.Request(context.Background(), sampleAudit())
	assert.Error(t, err)
	assert.Equal(t, 1, client.calls)
}

func TestRequesterPromptEmbedsAuditAndSchema(t *testing.T) {
	client := &scriptedClient{replies: []scriptedReply{{text: threeRecommendations}}}
	r := NewRequester(client, "test", WithSleeper(&recordingSleeper{}))

	_, err := r.Request(context.Background(), sampleAudit())
	require.NoError(t, err)
	require.Len(t, client.reqs, 1)
	assert.Contains(t, client.reqs[0].Prompt, "Acme")
	assert.Contains(t, client.reqs[0].Prompt, `"timeFrame"`)
	assert.True(t, client.reqs[0].JSON)
}
