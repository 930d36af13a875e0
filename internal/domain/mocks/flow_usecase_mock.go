package mocks

import (
	"context"

	"github.com/theshubhamgundu/sahaaya/internal/domain"
	"github.com/theshubhamgundu/sahaaya/internal/domain/entity"
)

// MockDistressUsecase is a mock implementation of domain.DistressUsecase
type MockDistressUsecase struct {
	DetectFunc func(ctx context.Context, userInput string) (*entity.DistressAssessment, error)
}

// Detect mocks the Detect method
func (m *MockDistressUsecase) Detect(ctx context.Context, userInput string) (*entity.DistressAssessment, error) {
	if m.DetectFunc != nil {
		return m.DetectFunc(ctx, userInput)
	}
	return &entity.DistressAssessment{UserInput: userInput, DetectedLanguage: "en"}, nil
}

// MockSupportUsecase is a mock implementation of domain.SupportUsecase
type MockSupportUsecase struct {
	GenerateFunc func(ctx context.Context, req *entity.SupportRequest) (*entity.SupportMessage, error)
}

// Generate mocks the Generate method
func (m *MockSupportUsecase) Generate(ctx context.Context, req *entity.SupportRequest) (*entity.SupportMessage, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return &entity.SupportMessage{
		Situation:              req.Situation,
		EmotionalState:         req.EmotionalState,
		LegalInformationNeeded: req.LegalInformationNeeded,
		InputLanguage:          req.InputLanguage,
		Message:                "You are not alone.",
	}, nil
}

// MockLegalGuidanceUsecase is a mock implementation of domain.LegalGuidanceUsecase
type MockLegalGuidanceUsecase struct {
	ProvideFunc func(ctx context.Context, situationDescription string) (*entity.LegalGuidance, error)
}

// Provide mocks the Provide method
func (m *MockLegalGuidanceUsecase) Provide(ctx context.Context, situationDescription string) (*entity.LegalGuidance, error) {
	if m.ProvideFunc != nil {
		return m.ProvideFunc(ctx, situationDescription)
	}
	return &entity.LegalGuidance{SituationDescription: situationDescription}, nil
}

// MockGestureUsecase is a mock implementation of domain.GestureUsecase
type MockGestureUsecase struct {
	InterpretFunc func(ctx context.Context, gestureImageURI string) (*entity.GestureInterpretation, error)
}

// Interpret mocks the Interpret method
func (m *MockGestureUsecase) Interpret(ctx context.Context, gestureImageURI string) (*entity.GestureInterpretation, error) {
	if m.InterpretFunc != nil {
		return m.InterpretFunc(ctx, gestureImageURI)
	}
	return &entity.GestureInterpretation{
		GestureImageURI: gestureImageURI,
		InterpretedText: "hello",
		State:           entity.GestureSuccess,
	}, nil
}

// MockSignResponseUsecase is a mock implementation of domain.SignResponseUsecase
type MockSignResponseUsecase struct {
	RespondFunc func(ctx context.Context, interpretedGestureText, conversationContext string) (*entity.SignLanguageReply, error)
}

// Respond mocks the Respond method
func (m *MockSignResponseUsecase) Respond(ctx context.Context, interpretedGestureText, conversationContext string) (*entity.SignLanguageReply, error) {
	if m.RespondFunc != nil {
		return m.RespondFunc(ctx, interpretedGestureText, conversationContext)
	}
	return &entity.SignLanguageReply{
		InterpretedGestureText: interpretedGestureText,
		ConversationContext:    conversationContext,
		ResponseText:           "Hello!",
	}, nil
}

// MockEmotionalSupportUsecase is a mock implementation of domain.EmotionalSupportUsecase
type MockEmotionalSupportUsecase struct {
	AssistFunc func(ctx context.Context, userInput string) (*domain.EmotionalSupportResult, error)
}

// Assist mocks the Assist method
func (m *MockEmotionalSupportUsecase) Assist(ctx context.Context, userInput string) (*domain.EmotionalSupportResult, error) {
	if m.AssistFunc != nil {
		return m.AssistFunc(ctx, userInput)
	}
	return &domain.EmotionalSupportResult{
		Assessment: &entity.DistressAssessment{UserInput: userInput, DetectedLanguage: "en"},
	}, nil
}

// MockSignInteractionUsecase is a mock implementation of domain.SignInteractionUsecase
type MockSignInteractionUsecase struct {
	InteractFunc   func(ctx context.Context, sessionID, gestureImageURI string) (*entity.SignInteraction, error)
	EndSessionFunc func(ctx context.Context, sessionID string) error
}

// Interact mocks the Interact method
func (m *MockSignInteractionUsecase) Interact(ctx context.Context, sessionID, gestureImageURI string) (*entity.SignInteraction, error) {
	if m.InteractFunc != nil {
		return m.InteractFunc(ctx, sessionID, gestureImageURI)
	}
	return &entity.SignInteraction{SessionID: sessionID}, nil
}

// EndSession mocks the EndSession method
func (m *MockSignInteractionUsecase) EndSession(ctx context.Context, sessionID string) error {
	if m.EndSessionFunc != nil {
		return m.EndSessionFunc(ctx, sessionID)
	}
	return nil
}
