package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/theshubhamgundu/sahaaya/internal/domain"
	"github.com/theshubhamgundu/sahaaya/internal/domain/entity"
	"github.com/theshubhamgundu/sahaaya/internal/prompt"
)

// PromptLogWarning is reported on a legal guidance response whose prompt could not be logged
const PromptLogWarning = "Your request was answered but could not be recorded."

const defaultPromptLogTimeout = 5 * time.Second

type legalGuidanceUsecase struct {
	flow         *flowInvoker
	promptLog    domain.PromptLogRepository
	writeTimeout time.Duration
	logger       *slog.Logger
}

// NewLegalGuidanceUsecase creates the legal guidance flow.
//
// Parameters:
//   - model: hosted model client
//   - prompts: compiled prompt catalog
//   - policy: fallback policy and prompt log grace window
//   - promptLog: prompt log repository, nil disables logging
//   - writeTimeout: upper bound of a single prompt log write
//   - logger: structured logger
//
// Returns:
//   - domain.LegalGuidanceUsecase implementation
func NewLegalGuidanceUsecase(
	model domain.ModelClient,
	prompts *prompt.Catalog,
	policy domain.PolicySource,
	promptLog domain.PromptLogRepository,
	writeTimeout time.Duration,
	logger *slog.Logger,
) domain.LegalGuidanceUsecase {
	if writeTimeout <= 0 {
		writeTimeout = defaultPromptLogTimeout
	}
	return &legalGuidanceUsecase{
		flow:         newFlowInvoker(model, prompts, policy, logger),
		promptLog:    promptLog,
		writeTimeout: writeTimeout,
		logger:       logger,
	}
}

type legalInformationReply struct {
	LegalRights               *string `json:"legalRights"`
	ApplicableLaws            *string `json:"applicableLaws"`
	ComplaintFilingProcedures *string `json:"complaintFilingProcedures"`
	VerifiedHelplines         *string `json:"verifiedHelplines"`
	NGOs                      *string `json:"ngos"`
	SupportCenters            *string `json:"supportCenters"`
}

type legalReply struct {
	LegalGuidance    *legalInformationReply `json:"legalGuidance"`
	IncludeResources *bool                  `json:"includeResources"`
}

// Provide returns legal information for situationDescription. All six
// fields are always populated; fields the model left out come from the
// guidance tool. The prompt is logged in the background.
func (u *legalGuidanceUsecase) Provide(ctx context.Context, situationDescription string) (*entity.LegalGuidance, error) {
	if strings.TrimSpace(situationDescription) == "" {
		return nil, domain.NewInvalidInputError(domain.MsgInvalidInput)
	}

	logged := u.logPrompt(ctx, situationDescription)

	out := &entity.LegalGuidance{SituationDescription: situationDescription}
	toolInfo := GetLegalGuidance(situationDescription)

	var reply legalReply
	_, err := u.flow.invoke(ctx, &flowCall{
		name: prompt.ProvideRelevantLegalGuidance,
		data: prompt.LegalInput{
			SituationDescription: situationDescription,
			ToolName:             ToolGetLegalGuidance,
		},
		schema: legalSchema,
		tools:  []domain.Tool{legalGuidanceTool()},
	}, &reply)
	if err == nil && reply.IncludeResources == nil {
		err = domain.NewModelOutputError(prompt.ProvideRelevantLegalGuidance, "missing includeResources")
	}
	if err != nil {
		if !u.flow.fallback(ctx, prompt.ProvideRelevantLegalGuidance, err) {
			return nil, err
		}
		out.Information = toolInfo
		out.IncludeResources = true
		out.Error = errorText(err)
	} else {
		out.Information = mergeLegalInformation(reply.LegalGuidance, toolInfo)
		out.IncludeResources = *reply.IncludeResources
	}

	if logged != nil {
		out.Warning = u.awaitPromptLog(ctx, logged)
	}
	return out, nil
}

// logPrompt starts the prompt log write on a detached context. The returned
// channel yields the write result once; nil means logging is disabled.
func (u *legalGuidanceUsecase) logPrompt(ctx context.Context, text string) <-chan error {
	if u.promptLog == nil {
		return nil
	}
	entry := &entity.PromptLogEntry{
		ID:         uuid.New().String(),
		PromptText: text,
		CreatedAt:  time.Now().UTC(),
	}

	done := make(chan error, 1)
	go func() {
		wctx, cancel := detach(ctx, u.writeTimeout)
		defer cancel()
		err := u.promptLog.Record(wctx, entry)
		if err != nil {
			u.logger.WarnContext(wctx, "failed to record legal prompt", "prompt_id", entry.ID, "error", err)
		}
		done <- err
	}()
	return done
}

// awaitPromptLog waits up to the grace window for the write result
func (u *legalGuidanceUsecase) awaitPromptLog(ctx context.Context, done <-chan error) string {
	grace := u.flow.policy.Policy().PromptLogGrace
	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case err := <-done:
		if err != nil {
			return PromptLogWarning
		}
	case <-timer.C:
	case <-ctx.Done():
	}
	return ""
}

func mergeLegalInformation(r *legalInformationReply, tool entity.LegalInformation) entity.LegalInformation {
	if r == nil {
		return tool
	}
	pick := func(v *string, def string) string {
		if v == nil || strings.TrimSpace(*v) == "" {
			return def
		}
		return *v
	}
	return entity.LegalInformation{
		LegalRights:               pick(r.LegalRights, tool.LegalRights),
		ApplicableLaws:            pick(r.ApplicableLaws, tool.ApplicableLaws),
		ComplaintFilingProcedures: pick(r.ComplaintFilingProcedures, tool.ComplaintFilingProcedures),
		VerifiedHelplines:         pick(r.VerifiedHelplines, tool.VerifiedHelplines),
		NGOs:                      pick(r.NGOs, tool.NGOs),
		SupportCenters:            pick(r.SupportCenters, tool.SupportCenters),
	}
}
