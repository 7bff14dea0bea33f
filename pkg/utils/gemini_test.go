package utils

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func newFakeGeminiServer(t *testing.T, response string, captured *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			http.NotFound(w, r)
			return
		}
		if captured != nil {
			body, _ := io.ReadAll(r.Body)
			*captured = string(body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestGeminiClient(t *testing.T, srv *httptest.Server) TextGenerationClientInterface {
	t.Helper()
	client, err := NewGeminiTextClient(context.Background(), "test-key", "", option.WithEndpoint(srv.URL))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestGeminiTextClient_GenerateText(t *testing.T) {
	var body string
	srv := newFakeGeminiServer(t,
		`{"candidates":[{"content":{"role":"model","parts":[{"text":"  Day 1: "},{"text":"Louvre  "}]},"finishReason":1}]}`,
		&body)

	got, err := newTestGeminiClient(t, srv).GenerateText(context.Background(), "You are a local guide.", "Plan Paris")
	require.NoError(t, err)
	assert.Equal(t, "Day 1: Louvre", got)
	assert.Contains(t, body, "You are a local guide.")
	assert.Contains(t, body, "Plan Paris")
}

func TestGeminiTextClient_NoCandidates(t *testing.T) {
	srv := newFakeGeminiServer(t, `{"candidates":[]}`, nil)

	_, err := newTestGeminiClient(t, srv).GenerateText(context.Background(), "", "Plan Paris")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini:")
}

func TestGeminiTextClient_EmptyText(t *testing.T) {
	srv := newFakeGeminiServer(t,
		`{"candidates":[{"content":{"role":"model","parts":[{"text":"   "}]},"finishReason":1}]}`,
		nil)

	_, err := newTestGeminiClient(t, srv).GenerateText(context.Background(), "", "Plan Paris")
	assert.EqualError(t, err, "gemini: empty response")
}
