package config

import (
	"log/slog"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/theshubhamgundu/sahaaya/internal/domain"
)

// PolicyStore holds the current flow policy and swaps it atomically on reload
type PolicyStore struct {
	current atomic.Pointer[domain.FlowPolicy]
}

// NewPolicyStore creates a store seeded with the given flows section
func NewPolicyStore(flows FlowsConfig) *PolicyStore {
	s := &PolicyStore{}
	s.Store(flows)
	return s
}

// Policy implements domain.PolicySource
func (s *PolicyStore) Policy() domain.FlowPolicy {
	return *s.current.Load()
}

// Store replaces the current policy
func (s *PolicyStore) Store(flows FlowsConfig) {
	p := flows.ToPolicy()
	s.current.Store(&p)
}

// ToPolicy converts the flows section to the domain policy, keeping defaults for unset values
func (f FlowsConfig) ToPolicy() domain.FlowPolicy {
	p := domain.DefaultFlowPolicy()
	p.FallbackOnError = f.FallbackOnError
	if f.DefaultLanguage != "" {
		p.DefaultLanguage = f.DefaultLanguage
	}
	if f.DistressedEmotionalState != "" {
		p.DistressedEmotionalState = f.DistressedEmotionalState
	}
	if f.NonDistressedEmotionalState != "" {
		p.NonDistressedEmotionalState = f.NonDistressedEmotionalState
	}
	if f.ContextWindow > 0 {
		p.ContextWindow = f.ContextWindow
	}
	if f.UnclearSentinel != "" {
		p.UnclearSentinel = f.UnclearSentinel
	}
	if f.PromptLogGrace > 0 {
		p.PromptLogGrace = f.PromptLogGrace
	}
	return p
}

// watch reloads the flows section whenever the config file changes.
// Invalid edits are logged and ignored, the previous policy stays active.
func (s *PolicyStore) watch(v *viper.Viper) {
	v.OnConfigChange(func(e fsnotify.Event) {
		// the full unmarshal merges defaults and env overrides into the section
		var cfg Config
		if err := v.Unmarshal(&cfg); err != nil {
			slog.Warn("failed to reload flow policy", "file", e.Name, "error", err)
			return
		}
		flows := cfg.Flows
		if err := flows.Validate(); err != nil {
			slog.Warn("ignoring invalid flow policy", "file", e.Name, "error", err)
			return
		}
		s.Store(flows)
		slog.Info("flow policy reloaded", "file", e.Name, "op", e.Op.String())
	})
	v.WatchConfig()
}
