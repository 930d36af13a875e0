package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/theshubhamgundu/sahaaya/internal/config"
	"github.com/theshubhamgundu/sahaaya/internal/domain"
)

// contentGenerator is the subset of *genai.Models used by GeminiClient
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient calls Gemini through the Google GenAI SDK
type GeminiClient struct {
	models       contentGenerator
	model        string
	temperature  float32
	timeout      time.Duration
	maxToolTurns int
	logger       *slog.Logger
}

// NewGeminiClient creates a Gemini API client
func NewGeminiClient(ctx context.Context, cfg config.ModelConfig, logger *slog.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return newGeminiClient(client.Models, cfg, logger), nil
}

func newGeminiClient(models contentGenerator, cfg config.ModelConfig, logger *slog.Logger) *GeminiClient {
	maxTurns := cfg.MaxToolTurns
	if maxTurns < 1 {
		maxTurns = 1
	}
	return &GeminiClient{
		models:       models,
		model:        cfg.Model,
		temperature:  cfg.Temperature,
		timeout:      cfg.Timeout,
		maxToolTurns: maxTurns,
		logger:       logger.With("provider", "gemini", "model", cfg.Model),
	}
}

// Name implements domain.ModelClient
func (c *GeminiClient) Name() string {
	return "gemini:" + c.model
}

// Generate implements domain.ModelClient.
//
// Gemini rejects function calling combined with a JSON response MIME type,
// so tool flows rely on the prompt's output format and the caller's validation.
func (c *GeminiClient) Generate(ctx context.Context, req *domain.GenerateRequest) (*domain.GenerateResponse, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	start := time.Now()

	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	for _, m := range req.Media {
		parts = append(parts, genai.NewPartFromBytes(m.Data, m.MIMEType))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	temperature := c.temperature
	gcfg := &genai.GenerateContentConfig{Temperature: &temperature}
	if len(req.Tools) > 0 {
		decls := make([]*genai.FunctionDeclaration, 0, len(req.Tools))
		for _, t := range req.Tools {
			decls = append(decls, &genai.FunctionDeclaration{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  toGenaiSchema(t.InputSchema),
			})
		}
		gcfg.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	} else if req.OutputSchema != nil {
		gcfg.ResponseMIMEType = "application/json"
		gcfg.ResponseSchema = toGenaiSchema(req.OutputSchema)
	}
	if req.RelaxedSafety {
		gcfg.SafetySettings = relaxedSafety()
	}

	out := &domain.GenerateResponse{Model: c.model}
	for turn := 0; ; turn++ {
		resp, err := c.models.GenerateContent(ctx, c.model, contents, gcfg)
		if err != nil {
			return nil, fmt.Errorf("gemini generate content: %w", err)
		}
		addGeminiUsage(&out.Usage, resp)

		calls := resp.FunctionCalls()
		if len(calls) == 0 {
			out.Text = resp.Text()
			out.Latency = time.Since(start)
			c.logger.DebugContext(ctx, "gemini generation finished",
				"flow", req.Flow,
				"turns", turn+1,
				"tool_runs", len(out.ToolRuns),
				"latency_ms", out.Latency.Milliseconds(),
			)
			return out, nil
		}
		if turn >= c.maxToolTurns {
			return nil, fmt.Errorf("gemini tool loop exceeded %d turns", c.maxToolTurns)
		}

		contents = append(contents, resp.Candidates[0].Content)
		replies := make([]*genai.Part, 0, len(calls))
		for _, call := range calls {
			inv := runTool(ctx, req.Tools, call.Name, call.Args)
			out.ToolRuns = append(out.ToolRuns, inv)
			if inv.Err != nil {
				c.logger.WarnContext(ctx, "tool invocation failed", "flow", req.Flow, "tool", call.Name, "error", inv.Err)
			}
			replies = append(replies, genai.NewPartFromFunctionResponse(call.Name, toolResult(inv)))
		}
		contents = append(contents, genai.NewContentFromParts(replies, genai.RoleUser))
	}
}

func addGeminiUsage(u *domain.Usage, resp *genai.GenerateContentResponse) {
	if resp.UsageMetadata == nil {
		return
	}
	u.PromptTokens += int(resp.UsageMetadata.PromptTokenCount)
	u.CompletionTokens += int(resp.UsageMetadata.CandidatesTokenCount)
	u.TotalTokens += int(resp.UsageMetadata.TotalTokenCount)
}

func relaxedSafety() []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryDangerousContent,
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
	}
	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, cat := range categories {
		settings = append(settings, &genai.SafetySetting{
			Category:  cat,
			Threshold: genai.HarmBlockThresholdBlockNone,
		})
	}
	return settings
}

func toGenaiSchema(s *domain.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Description: s.Description,
		Required:    s.Required,
		Minimum:     s.Minimum,
		Maximum:     s.Maximum,
	}
	switch s.Type {
	case domain.TypeObject:
		out.Type = genai.TypeObject
	case domain.TypeBoolean:
		out.Type = genai.TypeBoolean
	case domain.TypeNumber:
		out.Type = genai.TypeNumber
	default:
		out.Type = genai.TypeString
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}
	return out
}
