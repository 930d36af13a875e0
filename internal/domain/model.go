package domain

import (
	"context"
	"time"
)

// SchemaType is the JSON type of a schema node
type SchemaType string

const (
	TypeObject  SchemaType = "object"
	TypeString  SchemaType = "string"
	TypeBoolean SchemaType = "boolean"
	TypeNumber  SchemaType = "number"
)

// Schema is a provider-neutral subset of JSON Schema used for flow outputs and tool inputs
type Schema struct {
	Type        SchemaType
	Description string
	Properties  map[string]*Schema
	Required    []string
	Minimum     *float64
	Maximum     *float64
}

// Media is an inline attachment sent along with the prompt
type Media struct {
	MIMEType string
	Data     []byte
}

// ToolHandler runs a tool locally with the arguments chosen by the model
type ToolHandler func(ctx context.Context, args map[string]any) (any, error)

// Tool is a callback the model may invoke during generation
type Tool struct {
	Name        string
	Description string
	InputSchema *Schema
	Handler     ToolHandler
}

// ToolInvocation records one tool call made during a generation
type ToolInvocation struct {
	Name   string
	Args   map[string]any
	Output any
	Err    error
}

// GenerateRequest is a single flow execution against the hosted model
type GenerateRequest struct {
	// Flow names the calling flow, used for logs
	Flow         string
	Prompt       string
	Media        []Media
	OutputSchema *Schema
	Tools        []Tool
	// RelaxedSafety disables provider content blocking for the request
	RelaxedSafety bool
}

// Usage reports token accounting when the provider returns it
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// GenerateResponse is the raw model reply
type GenerateResponse struct {
	Text     string
	Model    string
	ToolRuns []ToolInvocation
	Usage    Usage
	Latency  time.Duration
}

// ToolCalled reports whether the named tool was invoked at least once
func (r *GenerateResponse) ToolCalled(name string) bool {
	for _, run := range r.ToolRuns {
		if run.Name == name {
			return true
		}
	}
	return false
}

// ModelClient is a hosted large-language-model provider
type ModelClient interface {
	// Generate renders one completion, running the tool loop when tools are attached
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)

	// Name identifies the provider and model for logs and health checks
	Name() string
}
