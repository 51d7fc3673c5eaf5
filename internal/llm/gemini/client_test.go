package gemini

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"compliance-backend/internal/llm"
)

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(context.Background(), "", "gemini-2.0-flash", 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, llm.ErrNotConfigured))
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestCompleteReturnsCandidateText(t *testing.T) {
	var path, body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"recommendations\":[]}"}]}}]}`))
	}))
	defer server.Close()

	client, err := NewClient(context.Background(), "key", "gemini-test", 0, WithBaseURL(server.URL))
	require.NoError(t, err)

	out, err := client.Complete(context.Background(), llm.Request{System: "sys", Prompt: "audit", JSON: true})
	require.NoError(t, err)
	assert.Equal(t, `{"recommendations":[]}`, out)
	assert.True(t, strings.Contains(path, "gemini-test"), "path %s", path)
	assert.Contains(t, body, "application/json")
}

func TestMapErrorConvertsAPIError(t *testing.T) {
	err := mapError(genai.APIError{Code: 429, Message: "quota exceeded"})
	var statusErr *llm.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 429, statusErr.StatusCode)
	assert.Contains(t, statusErr.Error(), "quota exceeded")

	plain := errors.New("boom")
	assert.Same(t, plain, mapError(plain))
}
