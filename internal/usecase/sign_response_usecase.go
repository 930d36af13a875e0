package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/theshubhamgundu/sahaaya/internal/domain"
	"github.com/theshubhamgundu/sahaaya/internal/domain/entity"
	"github.com/theshubhamgundu/sahaaya/internal/prompt"
)

const signReplyFallback = "Sorry, I couldn't generate a response right now."

type signResponseUsecase struct {
	flow *flowInvoker
}

// NewSignResponseUsecase creates the sign language reply flow
func NewSignResponseUsecase(
	model domain.ModelClient,
	prompts *prompt.Catalog,
	policy domain.PolicySource,
	logger *slog.Logger,
) domain.SignResponseUsecase {
	return &signResponseUsecase{flow: newFlowInvoker(model, prompts, policy, logger)}
}

type signResponseReply struct {
	ResponseText        *string `json:"responseText"`
	SuggestedSignVisual *string `json:"suggestedSignVisual"`
}

// Respond answers an interpreted gesture. ResponseText is always populated.
func (u *signResponseUsecase) Respond(ctx context.Context, interpretedGestureText, conversationContext string) (*entity.SignLanguageReply, error) {
	if strings.TrimSpace(interpretedGestureText) == "" {
		return nil, domain.NewInvalidInputError(domain.MsgInvalidInput)
	}

	out := &entity.SignLanguageReply{
		InterpretedGestureText: interpretedGestureText,
		ConversationContext:    conversationContext,
	}

	var reply signResponseReply
	_, err := u.flow.invoke(ctx, &flowCall{
		name: prompt.GenerateSignLanguageResponse,
		data: prompt.SignResponseInput{
			InterpretedGestureText: interpretedGestureText,
			ConversationContext:    conversationContext,
		},
		schema: signResponseSchema,
	}, &reply)
	if err == nil && (reply.ResponseText == nil || strings.TrimSpace(*reply.ResponseText) == "") {
		err = domain.NewModelOutputError(prompt.GenerateSignLanguageResponse, "missing responseText")
	}
	if err != nil {
		if !u.flow.fallback(ctx, prompt.GenerateSignLanguageResponse, err) {
			return nil, err
		}
		if errors.Is(err, domain.ErrModelUnavailable) {
			out.ResponseText = "An error occurred: " + errorText(err)
		} else {
			out.ResponseText = signReplyFallback
		}
		out.Error = errorText(err)
		return out, nil
	}

	out.ResponseText = *reply.ResponseText
	out.SuggestedSignVisual = nonEmpty(reply.SuggestedSignVisual)
	return out, nil
}
