package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/theshubhamgundu/sahaaya/internal/domain"
	"github.com/theshubhamgundu/sahaaya/internal/domain/entity"
)

// ============ distress -> support ============

type emotionalSupportUsecase struct {
	distress domain.DistressUsecase
	support  domain.SupportUsecase
	policy   domain.PolicySource
	logger   *slog.Logger
}

// NewEmotionalSupportUsecase chains distress detection into support generation
func NewEmotionalSupportUsecase(
	distress domain.DistressUsecase,
	support domain.SupportUsecase,
	policy domain.PolicySource,
	logger *slog.Logger,
) domain.EmotionalSupportUsecase {
	if policy == nil {
		policy = domain.StaticPolicy(domain.DefaultFlowPolicy())
	}
	return &emotionalSupportUsecase{
		distress: distress,
		support:  support,
		policy:   policy,
		logger:   logger,
	}
}

// Assist classifies userInput and, when legal information is needed, asks
// the support flow for a message with legal guidance. The second call waits
// for the first.
func (u *emotionalSupportUsecase) Assist(ctx context.Context, userInput string) (*domain.EmotionalSupportResult, error) {
	assessment, err := u.distress.Detect(ctx, userInput)
	if err != nil {
		return nil, err
	}
	result := &domain.EmotionalSupportResult{Assessment: assessment}
	if !assessment.LegalInformationNeeded {
		return result, nil
	}

	policy := u.policy.Policy()
	emotionalState := policy.NonDistressedEmotionalState
	if assessment.EmotionalDistressDetected {
		emotionalState = policy.DistressedEmotionalState
		if assessment.DistressType != nil && strings.TrimSpace(*assessment.DistressType) != "" {
			emotionalState = *assessment.DistressType
		}
	}
	language := assessment.DetectedLanguage
	if language == "" {
		language = policy.DefaultLanguage
	}

	u.logger.DebugContext(ctx, "chaining support flow", "emotional_state", emotionalState, "language", language)
	result.Support, err = u.support.Generate(ctx, &entity.SupportRequest{
		Situation:              userInput,
		EmotionalState:         emotionalState,
		LegalInformationNeeded: true,
		InputLanguage:          language,
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ============ gesture -> reply ============

type signInteractionUsecase struct {
	gesture  domain.GestureUsecase
	response domain.SignResponseUsecase
	sessions domain.SignSessionStore
	policy   domain.PolicySource
	logger   *slog.Logger
}

// NewSignInteractionUsecase chains gesture interpretation into a reply and
// keeps the rolling turn log of each session.
func NewSignInteractionUsecase(
	gesture domain.GestureUsecase,
	response domain.SignResponseUsecase,
	sessions domain.SignSessionStore,
	policy domain.PolicySource,
	logger *slog.Logger,
) domain.SignInteractionUsecase {
	if policy == nil {
		policy = domain.StaticPolicy(domain.DefaultFlowPolicy())
	}
	return &signInteractionUsecase{
		gesture:  gesture,
		response: response,
		sessions: sessions,
		policy:   policy,
		logger:   logger,
	}
}

// Interact interprets one frame and, when it was understood, replies using
// the session's last turns as context. An empty sessionID starts a new session.
//
// Session store failures only cost the context; the interaction still completes.
func (u *signInteractionUsecase) Interact(ctx context.Context, sessionID, gestureImageURI string) (*entity.SignInteraction, error) {
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	window := u.policy.Policy().ContextWindow

	interp, err := u.gesture.Interpret(ctx, gestureImageURI)
	if err != nil {
		return nil, err
	}
	out := &entity.SignInteraction{SessionID: sessionID, Interpretation: interp}

	history, err := u.sessions.Recent(ctx, sessionID, window)
	if err != nil {
		u.logger.WarnContext(ctx, "failed to load sign session", "session_id", sessionID, "error", err)
		history = nil
	}

	if !interp.Succeeded() {
		out.Turns = history
		return out, nil
	}

	reply, err := u.response.Respond(ctx, interp.InterpretedText, FormatSignContext(history))
	if err != nil {
		return nil, err
	}
	out.Reply = reply

	turns := []entity.SignTurn{
		{Sender: entity.SignTurnUser, Text: interp.InterpretedText},
		{Sender: entity.SignTurnAI, Text: reply.ResponseText},
	}
	if err := u.sessions.Append(ctx, sessionID, turns...); err != nil {
		u.logger.WarnContext(ctx, "failed to store sign session", "session_id", sessionID, "error", err)
	}

	out.Turns = lastTurns(append(history, turns...), window)
	return out, nil
}

// EndSession forgets the session's turn log
func (u *signInteractionUsecase) EndSession(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return domain.NewInvalidInputError(domain.MsgInvalidInput)
	}
	if err := u.sessions.Delete(ctx, sessionID); err != nil {
		return domain.NewUnavailableError("sign session store", err)
	}
	return nil
}

// FormatSignContext renders turns as "sender: text" lines
func FormatSignContext(turns []entity.SignTurn) string {
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		lines = append(lines, string(t.Sender)+": "+t.Text)
	}
	return strings.Join(lines, "\n")
}

func lastTurns(turns []entity.SignTurn, n int) []entity.SignTurn {
	if n <= 0 {
		return []entity.SignTurn{}
	}
	if len(turns) > n {
		return turns[len(turns)-n:]
	}
	return turns
}
