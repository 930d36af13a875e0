package domain

import (
	"context"

	"github.com/theshubhamgundu/sahaaya/internal/domain/entity"
)

// ============ Flow usecases ============

// DistressUsecase classifies free text for emotional distress
type DistressUsecase interface {
	Detect(ctx context.Context, userInput string) (*entity.DistressAssessment, error)
}

// SupportUsecase writes a personalized support message
type SupportUsecase interface {
	Generate(ctx context.Context, req *entity.SupportRequest) (*entity.SupportMessage, error)
}

// LegalGuidanceUsecase returns legal rights and resources for a situation
type LegalGuidanceUsecase interface {
	Provide(ctx context.Context, situationDescription string) (*entity.LegalGuidance, error)
}

// GestureUsecase interprets a single captured hand gesture frame
type GestureUsecase interface {
	Interpret(ctx context.Context, gestureImageURI string) (*entity.GestureInterpretation, error)
}

// SignResponseUsecase answers an interpreted gesture
type SignResponseUsecase interface {
	Respond(ctx context.Context, interpretedGestureText, conversationContext string) (*entity.SignLanguageReply, error)
}

// EmotionalSupportResult is the outcome of the distress -> support chain
type EmotionalSupportResult struct {
	Assessment *entity.DistressAssessment
	Support    *entity.SupportMessage
}

// EmotionalSupportUsecase chains distress detection into support generation
type EmotionalSupportUsecase interface {
	Assist(ctx context.Context, userInput string) (*EmotionalSupportResult, error)
}

// SignInteractionUsecase chains gesture interpretation into a reply within a session
type SignInteractionUsecase interface {
	Interact(ctx context.Context, sessionID, gestureImageURI string) (*entity.SignInteraction, error)
	EndSession(ctx context.Context, sessionID string) error
}

// SignSessionStore keeps the rolling turn log of sign language sessions
type SignSessionStore interface {
	// Append adds turns to the session and refreshes its expiry
	Append(ctx context.Context, sessionID string, turns ...entity.SignTurn) error
	// Recent returns at most n of the latest turns, oldest first
	Recent(ctx context.Context, sessionID string, n int) ([]entity.SignTurn, error)
	Delete(ctx context.Context, sessionID string) error
}

// PromptLogRepository stores the raw text of legal guidance requests
type PromptLogRepository interface {
	Record(ctx context.Context, entry *entity.PromptLogEntry) error
	Ping(ctx context.Context) error
}
