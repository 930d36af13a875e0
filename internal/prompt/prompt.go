// Package prompt renders the flow prompt templates.
//
// Rendering is a pure function of the typed input: the same input always
// yields the same text, and every user supplied string is inserted as a JSON
// string literal so distinct inputs cannot render to the same prompt.
package prompt

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"
)

// Template names
const (
	DetectEmotionalDistress      = "detect_emotional_distress"
	GeneratePersonalizedSupport  = "generate_personalized_support"
	ProvideRelevantLegalGuidance = "provide_relevant_legal_guidance"
	InterpretHandGesture         = "interpret_hand_gesture"
	GenerateSignLanguageResponse = "generate_sign_language_response"
)

//go:embed templates.yaml
var defaultCatalog []byte

// DistressInput feeds DetectEmotionalDistress
type DistressInput struct {
	UserInput       string
	DefaultLanguage string
}

// SupportInput feeds GeneratePersonalizedSupport
type SupportInput struct {
	Situation              string
	EmotionalState         string
	InputLanguage          string
	LegalInformationNeeded bool
	ToolName               string
}

// LegalInput feeds ProvideRelevantLegalGuidance
type LegalInput struct {
	SituationDescription string
	ToolName             string
}

// GestureInput feeds InterpretHandGesture; the image travels as media
type GestureInput struct {
	UnclearSentinel string
}

// SignResponseInput feeds GenerateSignLanguageResponse
type SignResponseInput struct {
	InterpretedGestureText string
	ConversationContext    string
}

type entry struct {
	Description string `yaml:"description"`
	Template    string `yaml:"template"`
}

// Catalog is a set of compiled prompt templates
type Catalog struct {
	templates    map[string]*template.Template
	descriptions map[string]string
}

// Load compiles the embedded catalog
func Load() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// MustLoad is like Load but panics on error; the embedded catalog is fixed at build time
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse compiles a YAML catalog
func Parse(data []byte) (*Catalog, error) {
	var entries map[string]entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse prompt catalog: %w", err)
	}

	c := &Catalog{
		templates:    make(map[string]*template.Template, len(entries)),
		descriptions: make(map[string]string, len(entries)),
	}
	for name, e := range entries {
		if strings.TrimSpace(e.Template) == "" {
			return nil, fmt.Errorf("prompt %q has an empty template", name)
		}
		t, err := template.New(name).
			Option("missingkey=error").
			Funcs(template.FuncMap{"quote": Quote}).
			Parse(e.Template)
		if err != nil {
			return nil, fmt.Errorf("failed to compile prompt %q: %w", name, err)
		}
		c.templates[name] = t
		c.descriptions[name] = e.Description
	}
	return c, nil
}

// Render executes the named template with data
func (c *Catalog) Render(name string, data any) (string, error) {
	t, ok := c.templates[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt %q", name)
	}
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render prompt %q: %w", name, err)
	}
	return strings.TrimSpace(sb.String()), nil
}

// Names lists the catalog entries in sorted order
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.templates))
	for name := range c.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Description returns the one-line description of a prompt
func (c *Catalog) Description(name string) string {
	return c.descriptions[name]
}

// Quote renders s as a JSON string literal. Quotes, backslashes and control
// characters are escaped, which makes the mapping injective.
func Quote(s string) string {
	out, err := sonic.MarshalString(s)
	if err != nil {
		// sonic only fails on unsupported types
		return fmt.Sprintf("%q", s)
	}
	return out
}
