package domain

import "time"

// FlowPolicy holds the configurable defaults the flows apply when the model
// or the caller leaves a value ambiguous.
type FlowPolicy struct {
	// FallbackOnError converts model failures into typed fallback values
	FallbackOnError             bool
	DefaultLanguage             string
	DistressedEmotionalState    string
	NonDistressedEmotionalState string
	// ContextWindow is the number of prior sign turns passed as context
	ContextWindow   int
	UnclearSentinel string
	// PromptLogGrace is how long a legal request waits for the prompt log
	// before returning without a warning
	PromptLogGrace time.Duration
}

// DefaultFlowPolicy returns the policy used when nothing is configured
func DefaultFlowPolicy() FlowPolicy {
	return FlowPolicy{
		FallbackOnError:             true,
		DefaultLanguage:             "en",
		DistressedEmotionalState:    "distress",
		NonDistressedEmotionalState: "neutral",
		ContextWindow:               5,
		UnclearSentinel:             "Gesture unclear",
		PromptLogGrace:              150 * time.Millisecond,
	}
}

// PolicySource provides the current flow policy; implementations may reload it at runtime
type PolicySource interface {
	Policy() FlowPolicy
}

// StaticPolicy is a PolicySource that never changes
type StaticPolicy FlowPolicy

// Policy implements PolicySource
func (p StaticPolicy) Policy() FlowPolicy {
	return FlowPolicy(p)
}
