package recommendations

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compliance-backend/internal/audit"
	"compliance-backend/internal/llm"
)

func TestGeneratePipelineOrdersByPriorityScore(t *testing.T) {
	auditCtx := sampleAudit()
	global := audit.Score(auditCtx.Questions, "")
	assert.Equal(t, 50.0, global.Score)
	assert.Equal(t, 100.0, global.Repondu)

	client := &scriptedClient{replies: []scriptedReply{{text: threeRecommendations}}}
	svc := &Service{Clients: staticFactory(client), DefaultProvider: "test", Sleeper: &recordingSleeper{}}

	result, err := svc.Generate(context.Background(), "", auditCtx)

	require.NoError(t, err)
	require.Len(t, result.Recommendations, 3)
	assert.Equal(t, "rec-critical", result.Recommendations[0].ID)
	assert.Equal(t, "rec-low", result.Recommendations[2].ID)
	assert.False(t, result.Partial)
	assert.False(t, result.Fallback)
	assert.Equal(t, 1, result.Attempts)
	for _, r := range result.Recommendations {
		assert.NotNil(t, r.ClientContext)
		assert.NotNil(t, r.Metrics)
	}
	assert.Contains(t, client.reqs[0].Prompt, `"repondu": 100`)
}

func TestGenerateReportsPartialResult(t *testing.T) {
	reply := `{"recommendations":[
	  {"title":"ok","description":"d","priority":"low","timeFrame":"long_term",
	   "impact":{"energyEfficiency":0,"performance":0,"compliance":0,"details":{"energyEfficiency":"","performance":"","compliance":""}},
	   "implementation":{"difficulty":"easy","estimatedCost":"","timeframe":"","prerequisites":[]},
	   "dataQuality":{"completeness":50}},
	  {"title":"bad","description":"d","priority":"critical","timeFrame":"long_term",
	   "impact":{"energyEfficiency":0,"performance":0,"compliance":0,"details":{"energyEfficiency":"","performance":"","compliance":""}},
	   "implementation":{"difficulty":"easy","estimatedCost":"","timeframe":"","prerequisites":[]},
	   "dataQuality":{"completeness":50}}
	]}`
	client := &scriptedClient{replies: []scriptedReply{{text: reply}}}
	svc := &Service{Clients: staticFactory(client), DefaultProvider: "test", Sleeper: &recordingSleeper{}}

	result, err := svc.Generate(context.Background(), "", sampleAudit())

	require.NoError(t, err)
	require.Len(t, result.Recommendations, 1)
	assert.NotEmpty(t, result.Recommendations[0].ID)
	assert.True(t, result.Partial)
	assert.Equal(t, 1, result.Dropped)
	assert.NotEmpty(t, result.Warnings)
}

func TestGenerateRejectsInvalidInputBeforeNetwork(t *testing.T) {
	client := &scriptedClient{}
	svc := &Service{Clients: staticFactory(client), DefaultProvider: "test"}

	_, err := svc.Generate(context.Background(), "", audit.Context{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, 0, client.calls)
}

func TestGenerateMissingCredential(t *testing.T) {
	svc := &Service{
		DefaultProvider: "anthropic",
		Clients: func(ctx context.Context, provider string) (llm.Client, error) {
			return nil, llm.MissingConfig(provider, "ANTHROPIC_API_KEY")
		},
	}

	_, err := svc.Generate(context.Background(), "", sampleAudit())

	var cfgErr *llm.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "ANTHROPIC_API_KEY", cfgErr.Key)
}

func TestGenerateAllDroppedIsExplicit(t *testing.T) {
	client := &scriptedClient{replies: []scriptedReply{{text: `{"recommendations":[{"title":"x"}]}`}}}
	svc := &Service{Clients: staticFactory(client), DefaultProvider: "test", Sleeper: &recordingSleeper{}}

	result, err := svc.Generate(context.Background(), "", sampleAudit())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoValidRecommendations))
	assert.Equal(t, 1, result.Dropped)
}

func TestEnsureUniqueIDs(t *testing.T) {
	out := ensureUniqueIDs([]Recommendation{{ID: "a"}, {ID: ""}, {ID: "a"}})
	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].ID)
	assert.NotEmpty(t, out[1].ID)
	assert.NotEqual(t, "a", out[2].ID)
	assert.NotEqual(t, out[1].ID, out[2].ID)
}

func TestGenerateDoesNotTrustFallbackKeyInReply(t *testing.T) {
	reply := `{"recommendations":[
	  {"title":"ok","description":"d","priority":"low","timeFrame":"long_term","fallback":true,
	   "impact":{"energyEfficiency":0,"performance":0,"compliance":0,"details":{"energyEfficiency":"","performance":"","compliance":""}},
	   "implementation":{"difficulty":"easy","estimatedCost":"","timeframe":"","prerequisites":[]},
	   "dataQuality":{"completeness":50}}
	]}`
	client := &scriptedClient{replies: []scriptedReply{{text: reply}}}
	svc := &Service{Clients: staticFactory(client), DefaultProvider: "test", Sleeper: &recordingSleeper{}}

	result, err := svc.Generate(context.Background(), "", sampleAudit())

	require.NoError(t, err)
	require.Len(t, result.Recommendations, 1)
	assert.False(t, result.Fallback)
	assert.False(t, result.Recommendations[0].Fallback)
}

func TestGenerateMarksParseFallback(t *testing.T) {
	client := &scriptedClient{replies: []scriptedReply{{text: "Vérifier le câblage du TGBT."}}}
	svc := &Service{Clients: staticFactory(client), DefaultProvider: "test", Sleeper: &recordingSleeper{}}

	result, err := svc.Generate(context.Background(), "", sampleAudit())

	require.NoError(t, err)
	require.Len(t, result.Recommendations, 1)
	assert.True(t, result.Fallback)
	assert.True(t, result.Recommendations[0].Fallback)
}
