package recommendations

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compliance-backend/internal/llm"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api"))
	return r
}

func postJSON(t *testing.T, r http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandlerGenerateSuccess(t *testing.T) {
	var gotProvider string
	client := &scriptedClient{replies: []scriptedReply{{text: threeRecommendations}}}
	svc := &Service{
		DefaultProvider: "openai",
		Sleeper:         &recordingSleeper{},
		Clients: func(ctx context.Context, provider string) (llm.Client, error) {
			gotProvider = provider
			return client, nil
		},
	}
	r := newTestRouter(svc)

	rec := postJSON(t, r, "/api/anthropic/recommendations", map[string]any{"auditData": sampleAudit()})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "anthropic", gotProvider)
	var body generateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Recommendations, 3)
	assert.Equal(t, "rec-critical", body.Recommendations[0].ID)
	assert.Equal(t, "Installation partiellement conforme", body.Analysis.Summary)

	rec = postJSON(t, r, "/api/recommendations", map[string]any{"auditData": sampleAudit()})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "openai", gotProvider)
}

func TestHandlerGenerateErrors(t *testing.T) {
	failing := &scriptedClient{replies: []scriptedReply{{err: &llm.StatusError{Provider: "test", StatusCode: 500}}}}
	cases := []struct {
		name    string
		body    any
		factory ClientFactory
		status  int
		code    string
	}{
		{
			name:    "missing_audit_data",
			body:    map[string]any{},
			factory: staticFactory(failing),
			status:  http.StatusBadRequest,
			code:    ErrorCodeValidation,
		},
		{
			name:    "invalid_audit_data",
			body:    map[string]any{"auditData": map[string]any{"auditType": ""}},
			factory: staticFactory(failing),
			status:  http.StatusBadRequest,
			code:    ErrorCodeValidation,
		},
		{
			name: "missing_credential",
			body: map[string]any{"auditData": sampleAudit()},
			factory: func(ctx context.Context, provider string) (llm.Client, error) {
				return nil, llm.MissingConfig(provider, "ANTHROPIC_API_KEY")
			},
			status: http.StatusInternalServerError,
			code:   ErrorCodeConfiguration,
		},
		{
			name:    "service_failure",
			body:    map[string]any{"auditData": sampleAudit()},
			factory: staticFactory(failing),
			status:  http.StatusBadGateway,
			code:    ErrorCodeGenerationFailed,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &Service{Clients: tc.factory, DefaultProvider: "test", Sleeper: &recordingSleeper{}}
			r := newTestRouter(svc)

			rec := postJSON(t, r, "/api/anthropic/recommendations", tc.body)

			require.Equal(t, tc.status, rec.Code, rec.Body.String())
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body["code"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHandlerMissingCredentialNamesKey(t *testing.T) {
	svc := &Service{
		DefaultProvider: "anthropic",
		Clients: func(ctx context.Context, provider string) (llm.Client, error) {
			return nil, llm.MissingConfig(provider, "ANTHROPIC_API_KEY")
		},
	}
	r := newTestRouter(svc)

	rec := postJSON(t, r, "/api/anthropic/recommendations", map[string]any{"auditData": sampleAudit()})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "ANTHROPIC_API_KEY")
}
