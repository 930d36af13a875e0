package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/theshubhamgundu/sahaaya/internal/config"
	"github.com/theshubhamgundu/sahaaya/internal/domain"
)

const endpointChatCompletions = "/chat/completions"

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint
// (OpenAI, Groq, OpenRouter, Ollama, vLLM) over the Hertz client.
type OpenAIClient struct {
	client       *client.Client
	baseURL      string
	apiKey       string
	model        string
	temperature  float32
	timeout      time.Duration
	maxToolTurns int
	logger       *slog.Logger
}

// ============ wire types ============

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Tools          []chatTool      `json:"tools,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	Temperature    *float32        `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role       string     `json:"role"`
	Content    any        `json:"content"`
	ToolCalls  []toolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatTool struct {
	Type     string       `json:"type"`
	Function toolFunction `json:"function"`
}

type toolFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

type toolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function toolCallFunc `json:"function"`
}

type toolCallFunc struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type responseFormat struct {
	Type       string      `json:"type"`
	JSONSchema *jsonSchema `json:"json_schema,omitempty"`
}

type jsonSchema struct {
	Name   string         `json:"name"`
	Strict bool           `json:"strict"`
	Schema map[string]any `json:"schema"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role      string     `json:"role"`
			Content   string     `json:"content"`
			ToolCalls []toolCall `json:"tool_calls"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewOpenAIClient creates an OpenAI-compatible client
func NewOpenAIClient(cfg config.ModelConfig, logger *slog.Logger) (*OpenAIClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("openai base url is required")
	}

	c, err := client.NewClient(
		client.WithDialTimeout(10*time.Second),
		client.WithMaxIdleConnDuration(60*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	maxTurns := cfg.MaxToolTurns
	if maxTurns < 1 {
		maxTurns = 1
	}

	return &OpenAIClient{
		client:       c,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		model:        cfg.Model,
		temperature:  cfg.Temperature,
		timeout:      cfg.Timeout,
		maxToolTurns: maxTurns,
		logger:       logger.With("provider", "openai", "model", cfg.Model),
	}, nil
}

// Name implements domain.ModelClient
func (c *OpenAIClient) Name() string {
	return "openai:" + c.model
}

// Generate implements domain.ModelClient
func (c *OpenAIClient) Generate(ctx context.Context, req *domain.GenerateRequest) (*domain.GenerateResponse, error) {
	start := time.Now()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	temperature := c.temperature
	body := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{userMessage(req)},
		Temperature: &temperature,
	}
	if len(req.Tools) > 0 {
		for _, t := range req.Tools {
			body.Tools = append(body.Tools, chatTool{
				Type: "function",
				Function: toolFunction{
					Name:        t.Name,
					Description: t.Description,
					Parameters:  toJSONSchema(t.InputSchema),
				},
			})
		}
	} else if req.OutputSchema != nil {
		body.ResponseFormat = &responseFormat{
			Type: "json_schema",
			JSONSchema: &jsonSchema{
				Name:   req.Flow,
				Schema: toJSONSchema(req.OutputSchema),
			},
		}
	}

	out := &domain.GenerateResponse{Model: c.model}
	for turn := 0; ; turn++ {
		resp, err := c.do(ctx, &body)
		if err != nil {
			return nil, err
		}
		out.Usage.PromptTokens += resp.Usage.PromptTokens
		out.Usage.CompletionTokens += resp.Usage.CompletionTokens
		out.Usage.TotalTokens += resp.Usage.TotalTokens
		if resp.Model != "" {
			out.Model = resp.Model
		}

		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("openai response has no choices")
		}
		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			out.Text = msg.Content
			out.Latency = time.Since(start)
			c.logger.DebugContext(ctx, "openai generation finished",
				"flow", req.Flow,
				"turns", turn+1,
				"tool_runs", len(out.ToolRuns),
				"latency_ms", out.Latency.Milliseconds(),
			)
			return out, nil
		}
		if turn >= c.maxToolTurns {
			return nil, fmt.Errorf("openai tool loop exceeded %d turns", c.maxToolTurns)
		}

		body.Messages = append(body.Messages, chatMessage{
			Role:      "assistant",
			Content:   msg.Content,
			ToolCalls: msg.ToolCalls,
		})
		for _, call := range msg.ToolCalls {
			var args map[string]any
			if call.Function.Arguments != "" {
				if err := sonic.UnmarshalString(call.Function.Arguments, &args); err != nil {
					return nil, fmt.Errorf("failed to unmarshal arguments for tool %s: %w", call.Function.Name, err)
				}
			}
			inv := runTool(ctx, req.Tools, call.Function.Name, args)
			out.ToolRuns = append(out.ToolRuns, inv)
			if inv.Err != nil {
				c.logger.WarnContext(ctx, "tool invocation failed", "flow", req.Flow, "tool", call.Function.Name, "error", inv.Err)
			}

			result, err := sonic.MarshalString(toolResult(inv))
			if err != nil {
				return nil, fmt.Errorf("failed to marshal tool result: %w", err)
			}
			body.Messages = append(body.Messages, chatMessage{
				Role:       "tool",
				Content:    result,
				ToolCallID: call.ID,
			})
		}
	}
}

func (c *OpenAIClient) do(ctx context.Context, body *chatRequest) (*chatResponse, error) {
	payload, err := sonic.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	req.SetMethod(consts.MethodPost)
	req.SetRequestURI(c.baseURL + endpointChatCompletions)
	req.Header.SetContentTypeBytes([]byte("application/json"))
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.SetBody(payload)

	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(ctx, req, resp, deadline)
	} else {
		err = c.client.Do(ctx, req, resp)
	}
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}

	if resp.StatusCode() != consts.StatusOK {
		return nil, fmt.Errorf("openai error (status %d): %s", resp.StatusCode(), strings.TrimSpace(string(resp.Body())))
	}

	var out chatResponse
	if err := sonic.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if out.Error != nil {
		return nil, fmt.Errorf("openai error: %s", out.Error.Message)
	}
	return &out, nil
}

func userMessage(req *domain.GenerateRequest) chatMessage {
	if len(req.Media) == 0 {
		return chatMessage{Role: "user", Content: req.Prompt}
	}
	parts := []contentPart{{Type: "text", Text: req.Prompt}}
	for _, m := range req.Media {
		parts = append(parts, contentPart{
			Type:     "image_url",
			ImageURL: &imageURL{URL: "data:" + m.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(m.Data)},
		})
	}
	return chatMessage{Role: "user", Content: parts}
}

func toJSONSchema(s *domain.Schema) map[string]any {
	if s == nil {
		return nil
	}
	out := map[string]any{"type": string(s.Type)}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if s.Minimum != nil {
		out["minimum"] = *s.Minimum
	}
	if s.Maximum != nil {
		out["maximum"] = *s.Maximum
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, p := range s.Properties {
			props[name] = toJSONSchema(p)
		}
		out["properties"] = props
	}
	if len(s.Required) > 0 {
		out["required"] = s.Required
	}
	return out
}
