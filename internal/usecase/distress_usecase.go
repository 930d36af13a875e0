package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/theshubhamgundu/sahaaya/internal/domain"
	"github.com/theshubhamgundu/sahaaya/internal/domain/entity"
	"github.com/theshubhamgundu/sahaaya/internal/prompt"
)

const distressFallbackError = "Sorry, I couldn't analyze your message right now."

type distressUsecase struct {
	flow *flowInvoker
}

// NewDistressUsecase creates the emotional distress detection flow.
//
// Parameters:
//   - model: hosted model client
//   - prompts: compiled prompt catalog
//   - policy: source of the default language and fallback policy
//   - logger: structured logger
func NewDistressUsecase(
	model domain.ModelClient,
	prompts *prompt.Catalog,
	policy domain.PolicySource,
	logger *slog.Logger,
) domain.DistressUsecase {
	return &distressUsecase{flow: newFlowInvoker(model, prompts, policy, logger)}
}

type distressReply struct {
	EmotionalDistressDetected *bool   `json:"emotionalDistressDetected"`
	DistressType              *string `json:"distressType"`
	Affirmation               *string `json:"affirmation"`
	CalmingResponse           *string `json:"calmingResponse"`
	LegalInformationNeeded    *bool   `json:"legalInformationNeeded"`
	DetectedLanguage          *string `json:"detectedLanguage"`
}

// Detect classifies userInput for emotional distress.
// A model failure yields a non-distressed assessment carrying Error.
func (u *distressUsecase) Detect(ctx context.Context, userInput string) (*entity.DistressAssessment, error) {
	if strings.TrimSpace(userInput) == "" {
		return nil, domain.NewInvalidInputError(domain.MsgInvalidInput)
	}
	policy := u.flow.policy.Policy()

	var reply distressReply
	_, err := u.flow.invoke(ctx, &flowCall{
		name:   prompt.DetectEmotionalDistress,
		data:   prompt.DistressInput{UserInput: userInput, DefaultLanguage: policy.DefaultLanguage},
		schema: distressSchema,
	}, &reply)
	if err == nil && (reply.EmotionalDistressDetected == nil || reply.LegalInformationNeeded == nil) {
		err = domain.NewModelOutputError(prompt.DetectEmotionalDistress, "missing required fields")
	}
	if err != nil {
		if !u.flow.fallback(ctx, prompt.DetectEmotionalDistress, err) {
			return nil, err
		}
		return &entity.DistressAssessment{
			UserInput:        userInput,
			DetectedLanguage: policy.DefaultLanguage,
			Error:            distressFallbackError,
		}, nil
	}

	out := &entity.DistressAssessment{
		UserInput:                 userInput,
		EmotionalDistressDetected: *reply.EmotionalDistressDetected,
		LegalInformationNeeded:    *reply.LegalInformationNeeded,
		DetectedLanguage:          normalizeLanguage(reply.DetectedLanguage, policy.DefaultLanguage),
	}
	if out.EmotionalDistressDetected {
		out.DistressType = nonEmpty(reply.DistressType)
		out.Affirmation = nonEmpty(reply.Affirmation)
		out.CalmingResponse = nonEmpty(reply.CalmingResponse)
	}
	return out, nil
}

// normalizeLanguage keeps two-letter codes and falls back to def otherwise
func normalizeLanguage(code *string, def string) string {
	if code == nil {
		return def
	}
	c := strings.ToLower(strings.TrimSpace(*code))
	if len(c) != 2 || c[0] < 'a' || c[0] > 'z' || c[1] < 'a' || c[1] > 'z' {
		return def
	}
	return c
}
