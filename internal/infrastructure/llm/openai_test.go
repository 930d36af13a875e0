package llm

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theshubhamgundu/sahaaya/internal/config"
	"github.com/theshubhamgundu/sahaaya/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestOpenAIClient(t *testing.T, url string) *OpenAIClient {
	t.Helper()
	c, err := NewOpenAIClient(config.ModelConfig{
		Provider:     "openai",
		APIKey:       "test-key",
		BaseURL:      url,
		Model:        "test-model",
		Timeout:      5 * time.Second,
		MaxToolTurns: 2,
	}, discardLogger())
	require.NoError(t, err)
	return c
}

func TestOpenAIClient_Generate_StructuredOutput(t *testing.T) {
	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, sonic.Unmarshal(body, &captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"model": "test-model-001",
			"choices": [{"message": {"role": "assistant", "content": "{\"ok\":true}"}}],
			"usage": {"prompt_tokens": 7, "completion_tokens": 3, "total_tokens": 10}
		}`))
	}))
	defer server.Close()

	c := newTestOpenAIClient(t, server.URL)
	resp, err := c.Generate(context.Background(), &domain.GenerateRequest{
		Flow:   "detect_emotional_distress",
		Prompt: "hello",
		OutputSchema: &domain.Schema{
			Type:       domain.TypeObject,
			Properties: map[string]*domain.Schema{"ok": {Type: domain.TypeBoolean}},
			Required:   []string{"ok"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, `{"ok":true}`, resp.Text)
	assert.Equal(t, "test-model-001", resp.Model)
	assert.Equal(t, 10, resp.Usage.TotalTokens)
	require.NotNil(t, captured.ResponseFormat)
	assert.Equal(t, "json_schema", captured.ResponseFormat.Type)
	assert.Equal(t, "detect_emotional_distress", captured.ResponseFormat.JSONSchema.Name)
	assert.Empty(t, captured.Tools)
}

func TestOpenAIClient_Generate_ToolLoop(t *testing.T) {
	var calls atomic.Int32
	var second chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) == 1 {
			_, _ = w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "",
				"tool_calls": [{"id": "call_1", "type": "function",
					"function": {"name": "getLegalInformation", "arguments": "{\"situationDescription\":\"harassed at work\"}"}}]}}]}`))
			return
		}
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, sonic.Unmarshal(body, &second))
		_, _ = w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "{\"message\":\"done\"}"}}]}`))
	}))
	defer server.Close()

	var gotArgs map[string]any
	tool := domain.Tool{
		Name:        "getLegalInformation",
		InputSchema: &domain.Schema{Type: domain.TypeObject},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			gotArgs = args
			return "legal text", nil
		},
	}

	c := newTestOpenAIClient(t, server.URL)
	resp, err := c.Generate(context.Background(), &domain.GenerateRequest{
		Flow:   "generate_personalized_support",
		Prompt: "help",
		Tools:  []domain.Tool{tool},
	})
	require.NoError(t, err)

	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, `{"message":"done"}`, resp.Text)
	assert.True(t, resp.ToolCalled("getLegalInformation"))
	assert.Equal(t, "harassed at work", gotArgs["situationDescription"])

	require.Len(t, second.Messages, 3)
	assert.Equal(t, "assistant", second.Messages[1].Role)
	assert.Equal(t, "tool", second.Messages[2].Role)
	assert.Equal(t, "call_1", second.Messages[2].ToolCallID)
	assert.Equal(t, `{"output":"legal text"}`, second.Messages[2].Content)
}

func TestOpenAIClient_Generate_ToolLoopLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": [{"message": {"role": "assistant",
			"tool_calls": [{"id": "c", "type": "function", "function": {"name": "loop", "arguments": "{}"}}]}}]}`))
	}))
	defer server.Close()

	c := newTestOpenAIClient(t, server.URL)
	_, err := c.Generate(context.Background(), &domain.GenerateRequest{
		Prompt: "x",
		Tools:  []domain.Tool{{Name: "loop", Handler: func(context.Context, map[string]any) (any, error) { return "", nil }}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeded 2 turns")
}

func TestOpenAIClient_Generate_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	c := newTestOpenAIClient(t, server.URL)
	_, err := c.Generate(context.Background(), &domain.GenerateRequest{Prompt: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai error (status 429)")
}

func TestUserMessage_InlinesMediaAsDataURI(t *testing.T) {
	msg := userMessage(&domain.GenerateRequest{
		Prompt: "what is this",
		Media:  []domain.Media{{MIMEType: "image/png", Data: []byte{0x89, 0x50}}},
	})
	parts, ok := msg.Content.([]contentPart)
	require.True(t, ok)
	require.Len(t, parts, 2)
	assert.Equal(t, "text", parts[0].Type)
	assert.Equal(t, "data:image/png;base64,iVA=", parts[1].ImageURL.URL)
}

func TestNewOpenAIClient_RequiresBaseURL(t *testing.T) {
	_, err := NewOpenAIClient(config.ModelConfig{Model: "m"}, discardLogger())
	assert.Error(t, err)
}
