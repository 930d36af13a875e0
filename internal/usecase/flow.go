package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/theshubhamgundu/sahaaya/internal/domain"
	"github.com/theshubhamgundu/sahaaya/internal/prompt"
	"github.com/theshubhamgundu/sahaaya/pkg/logger"
)

// flowInvoker binds a prompt, output schema and tools into one model call
// and decodes the validated reply.
type flowInvoker struct {
	model   domain.ModelClient
	prompts *prompt.Catalog
	policy  domain.PolicySource
	logger  *slog.Logger
}

func newFlowInvoker(model domain.ModelClient, prompts *prompt.Catalog, policy domain.PolicySource, logger *slog.Logger) *flowInvoker {
	if policy == nil {
		policy = domain.StaticPolicy(domain.DefaultFlowPolicy())
	}
	return &flowInvoker{
		model:   model,
		prompts: prompts,
		policy:  policy,
		logger:  logger,
	}
}

// flowCall describes one flow execution
type flowCall struct {
	name          string
	data          any
	media         []domain.Media
	schema        *domain.Schema
	tools         []domain.Tool
	relaxedSafety bool
}

// invoke renders the prompt, calls the model and decodes the first JSON
// object of the reply into out. out must be a pointer to a struct whose
// required fields are pointers, so absence can be detected by the caller.
//
// Errors are either domain model errors (call failed) or model output errors
// (no JSON object, wrong types).
func (f *flowInvoker) invoke(ctx context.Context, call *flowCall, out any) (*domain.GenerateResponse, error) {
	text, err := f.prompts.Render(call.name, call.data)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}

	resp, err := f.model.Generate(ctx, &domain.GenerateRequest{
		Flow:          call.name,
		Prompt:        text,
		Media:         call.media,
		OutputSchema:  call.schema,
		Tools:         call.tools,
		RelaxedSafety: call.relaxedSafety,
	})
	if err != nil {
		return nil, domain.NewModelError(call.name, err)
	}

	logger.WithFlow(f.logger, call.name, resp.Model).InfoContext(ctx, "flow completed",
		"latency_ms", resp.Latency.Milliseconds(),
		"tool_runs", len(resp.ToolRuns),
		"reply_bytes", len(resp.Text),
		"total_tokens", resp.Usage.TotalTokens,
	)

	if strings.TrimSpace(resp.Text) == "" {
		return resp, domain.NewModelOutputError(call.name, "empty reply")
	}
	raw, ok := extractJSON(resp.Text)
	if !ok {
		return resp, domain.NewModelOutputError(call.name, "reply contains no JSON object")
	}
	if err := sonic.UnmarshalString(raw, out); err != nil {
		return resp, domain.NewModelOutputError(call.name, "reply does not match the output schema")
	}
	return resp, nil
}

// fallback reports whether a failed flow should answer with its typed
// fallback value instead of surfacing err.
func (f *flowInvoker) fallback(ctx context.Context, flow string, err error) bool {
	enabled := f.policy.Policy().FallbackOnError
	f.logger.WarnContext(ctx, "flow failed",
		"flow", flow,
		"error", err,
		"fallback", enabled,
	)
	return enabled
}

// extractJSON returns the first top-level JSON object that parses.
// Models sometimes wrap the object in prose or a fenced code block.
func extractJSON(text string) (string, bool) {
	for _, candidate := range findJSONCandidates(text) {
		if sonic.Valid([]byte(candidate)) {
			return candidate, true
		}
	}
	return "", false
}

// findJSONCandidates scans s for balanced top-level {...} spans, skipping
// braces inside string literals.
func findJSONCandidates(s string) []string {
	var candidates []string
	depth := 0
	start := -1
	inString := false
	escape := false

	for i := 0; i < len(s); i++ {
		b := s[i]
		if escape {
			escape = false
			continue
		}
		if inString {
			switch b {
			case '\\':
				escape = true
			case '"':
				inString = false
			}
			continue
		}

		switch b {
		case '"':
			// only strings inside an object matter
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start != -1 {
					candidates = append(candidates, s[start:i+1])
					start = -1
				}
			}
		}
	}
	return candidates
}

// errorText is the client-visible description of a flow failure
func errorText(err error) string {
	var de *domain.DomainError
	if errors.As(err, &de) {
		return de.UserMessage()
	}
	return err.Error()
}

// detach keeps ctx values but drops its cancellation, bounded by timeout
func detach(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), timeout)
}

func strPtr(s string) *string {
	return &s
}

func nonEmpty(p *string) *string {
	if p == nil || strings.TrimSpace(*p) == "" {
		return nil
	}
	return p
}

func clamp01(v float64) float64 {
	switch {
	case v != v: // NaN
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
