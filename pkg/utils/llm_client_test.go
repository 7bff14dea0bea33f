package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingClient struct {
	calls  int
	closed bool
}

func (r *recordingClient) GenerateText(ctx context.Context, system, prompt string) (string, error) {
	r.calls++
	return "ok:" + prompt, nil
}

func (r *recordingClient) Close() error {
	r.closed = true
	return nil
}

func TestNewTextGenerationClient_UnsupportedProvider(t *testing.T) {
	_, err := NewTextGenerationClient(context.Background(), LLMConfig{Provider: "claude"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported llm provider")
}

func TestNewTextGenerationClient_OpenAI(t *testing.T) {
	client, err := NewTextGenerationClient(context.Background(), LLMConfig{Provider: "OpenAI", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAITextClient{}, client)
}

func TestRateLimitedTextClient_DelegatesAndCloses(t *testing.T) {
	inner := &recordingClient{}
	client := NewRateLimitedTextClient(inner, 0, 0)

	out, err := client.GenerateText(context.Background(), "sys", "plan")
	require.NoError(t, err)
	assert.Equal(t, "ok:plan", out)
	assert.Equal(t, 1, inner.calls)

	require.NoError(t, client.Close())
	assert.True(t, inner.closed)
}

func TestRateLimitedTextClient_CancelledContext(t *testing.T) {
	inner := &recordingClient{}
	client := NewRateLimitedTextClient(inner, 0.001, 1)

	_, err := client.GenerateText(context.Background(), "", "first")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.GenerateText(ctx, "", "second")
	require.Error(t, err)
	assert.Equal(t, 1, inner.calls)
}
