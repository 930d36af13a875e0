package llm

import (
	"context"
	"fmt"

	"github.com/theshubhamgundu/sahaaya/internal/domain"
)

// runTool executes the named tool with the model-chosen arguments.
// Failures are reported back to the model instead of aborting the generation.
func runTool(ctx context.Context, tools []domain.Tool, name string, args map[string]any) domain.ToolInvocation {
	inv := domain.ToolInvocation{Name: name, Args: args}
	for _, t := range tools {
		if t.Name != name {
			continue
		}
		if t.Handler == nil {
			inv.Err = fmt.Errorf("tool %q has no handler", name)
			return inv
		}
		inv.Output, inv.Err = t.Handler(ctx, args)
		return inv
	}
	inv.Err = fmt.Errorf("unknown tool %q", name)
	return inv
}

// toolResult is the payload sent back to the model for one invocation
func toolResult(inv domain.ToolInvocation) map[string]any {
	if inv.Err != nil {
		return map[string]any{"error": inv.Err.Error()}
	}
	return map[string]any{"output": inv.Output}
}
