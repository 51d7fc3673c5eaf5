package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compliance-backend/internal/audit"
)

func TestBuildRecommendationPromptEmbedsContext(t *testing.T) {
	nc := audit.ResponseNonConforme
	ctx := audit.Context{
		AuditType: "electrique",
		Client:    audit.ClientInfo{Name: "ACME Datacenter"},
		Questions: []audit.Question{
			{ID: "q1", Group: "TGBT", Text: "Le TGBT est-il protege ?", Response: &nc, Comment: "porte ouverte"},
		},
	}

	req, err := BuildRecommendationPrompt(ctx)
	require.NoError(t, err)
	assert.True(t, req.JSON)
	assert.Contains(t, req.Prompt, "ACME Datacenter")
	assert.Contains(t, req.Prompt, "[TGBT] Le TGBT est-il protege ? (porte ouverte)")
	assert.Contains(t, req.Prompt, `"recommendations"`)
	assert.NotContains(t, req.Prompt, "{{")
}

func TestRequestHashDeterministic(t *testing.T) {
	a := Request{System: "s", Prompt: "p"}
	b := Request{System: "s", Prompt: "p"}
	c := Request{System: "s", Prompt: "other"}
	assert.Equal(t, a.Hash(), b.Hash())
	assert.NotEqual(t, a.Hash(), c.Hash())
}

func TestConfigErrorMatchesSentinel(t *testing.T) {
	err := MissingConfig("anthropic", "ANTHROPIC_API_KEY")
	assert.True(t, errors.Is(err, ErrNotConfigured))
	assert.True(t, strings.Contains(err.Error(), "ANTHROPIC_API_KEY"))
}

func TestAttemptContext(t *testing.T) {
	ctx := WithAttempt(context.Background(), 2)
	assert.Equal(t, 2, AttemptFromContext(ctx))
	assert.Equal(t, 0, AttemptFromContext(context.Background()))
}
