package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/theshubhamgundu/sahaaya/internal/domain"
	"github.com/theshubhamgundu/sahaaya/internal/domain/entity"
	"github.com/theshubhamgundu/sahaaya/internal/prompt"
)

const supportFallbackMessage = "Sorry, I couldn't generate a supportive message right now."

type supportUsecase struct {
	flow *flowInvoker
}

// NewSupportUsecase creates the personalized support flow
func NewSupportUsecase(
	model domain.ModelClient,
	prompts *prompt.Catalog,
	policy domain.PolicySource,
	logger *slog.Logger,
) domain.SupportUsecase {
	return &supportUsecase{flow: newFlowInvoker(model, prompts, policy, logger)}
}

type supportReply struct {
	Message       *string `json:"message"`
	LegalGuidance *string `json:"legalGuidance"`
}

// Generate writes a support message in the requested language.
//
// LegalGuidance is set exactly when req.LegalInformationNeeded is true. When
// the model skipped the tool, the tool is run locally and its text used as is.
func (u *supportUsecase) Generate(ctx context.Context, req *entity.SupportRequest) (*entity.SupportMessage, error) {
	if req == nil || strings.TrimSpace(req.Situation) == "" || strings.TrimSpace(req.EmotionalState) == "" {
		return nil, domain.NewInvalidInputError(domain.MsgInvalidInput)
	}
	in := *req
	if strings.TrimSpace(in.InputLanguage) == "" {
		in.InputLanguage = u.flow.policy.Policy().DefaultLanguage
	}

	call := &flowCall{
		name: prompt.GeneratePersonalizedSupport,
		data: prompt.SupportInput{
			Situation:              in.Situation,
			EmotionalState:         in.EmotionalState,
			InputLanguage:          in.InputLanguage,
			LegalInformationNeeded: in.LegalInformationNeeded,
			ToolName:               ToolGetLegalInformation,
		},
		schema: supportSchema,
	}
	if in.LegalInformationNeeded {
		call.tools = []domain.Tool{legalInformationTool()}
	}

	out := &entity.SupportMessage{
		Situation:              in.Situation,
		EmotionalState:         in.EmotionalState,
		LegalInformationNeeded: in.LegalInformationNeeded,
		InputLanguage:          in.InputLanguage,
	}

	var reply supportReply
	_, err := u.flow.invoke(ctx, call, &reply)
	if err == nil && (reply.Message == nil || strings.TrimSpace(*reply.Message) == "") {
		err = domain.NewModelOutputError(prompt.GeneratePersonalizedSupport, "missing message")
	}
	if err != nil {
		if !u.flow.fallback(ctx, prompt.GeneratePersonalizedSupport, err) {
			return nil, err
		}
		out.Message = supportFallbackMessage
		out.Error = errorText(err)
		if in.LegalInformationNeeded {
			out.LegalGuidance = strPtr(GetLegalInformation(in.Situation))
		}
		return out, nil
	}

	out.Message = *reply.Message
	if in.LegalInformationNeeded {
		if reply.LegalGuidance != nil {
			out.LegalGuidance = reply.LegalGuidance
		} else {
			out.LegalGuidance = strPtr(GetLegalInformation(in.Situation))
		}
	}
	return out, nil
}
