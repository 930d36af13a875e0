package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theshubhamgundu/sahaaya/internal/domain"
	"github.com/theshubhamgundu/sahaaya/internal/domain/entity"
	"github.com/theshubhamgundu/sahaaya/internal/domain/mocks"
	"github.com/theshubhamgundu/sahaaya/internal/infrastructure/session"
)

func TestEmotionalSupportUsecase_Assist(t *testing.T) {
	tests := []struct {
		name        string
		assessment  entity.DistressAssessment
		wantSupport bool
		wantState   string
		wantLang    string
	}{
		{
			name:        "no legal need skips support",
			assessment:  entity.DistressAssessment{EmotionalDistressDetected: true, DistressType: strPtr("anxiety"), DetectedLanguage: "en"},
			wantSupport: false,
		},
		{
			name:        "distress type becomes emotional state",
			assessment:  entity.DistressAssessment{EmotionalDistressDetected: true, DistressType: strPtr("fear"), LegalInformationNeeded: true, DetectedLanguage: "hi"},
			wantSupport: true,
			wantState:   "fear",
			wantLang:    "hi",
		},
		{
			name:        "distress without type",
			assessment:  entity.DistressAssessment{EmotionalDistressDetected: true, LegalInformationNeeded: true},
			wantSupport: true,
			wantState:   "distress",
			wantLang:    "en",
		},
		{
			name:        "not distressed",
			assessment:  entity.DistressAssessment{LegalInformationNeeded: true, DetectedLanguage: "ta"},
			wantSupport: true,
			wantState:   "neutral",
			wantLang:    "ta",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []*entity.SupportRequest
			distress := &mocks.MockDistressUsecase{DetectFunc: func(ctx context.Context, userInput string) (*entity.DistressAssessment, error) {
				a := tt.assessment
				a.UserInput = userInput
				return &a, nil
			}}
			support := &mocks.MockSupportUsecase{GenerateFunc: func(ctx context.Context, req *entity.SupportRequest) (*entity.SupportMessage, error) {
				got = append(got, req)
				return &entity.SupportMessage{Message: "You are not alone."}, nil
			}}
			uc := NewEmotionalSupportUsecase(distress, support, nil, testLogger())

			res, err := uc.Assist(context.Background(), "my landlord locked me out")
			require.NoError(t, err)
			assert.Equal(t, "my landlord locked me out", res.Assessment.UserInput)

			if !tt.wantSupport {
				assert.Empty(t, got)
				assert.Nil(t, res.Support)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, "my landlord locked me out", got[0].Situation)
			assert.Equal(t, tt.wantState, got[0].EmotionalState)
			assert.Equal(t, tt.wantLang, got[0].InputLanguage)
			assert.True(t, got[0].LegalInformationNeeded)
			require.NotNil(t, res.Support)
		})
	}
}

func TestEmotionalSupportUsecase_Assist_Errors(t *testing.T) {
	boom := domain.NewInvalidInputError(domain.MsgInvalidInput)
	distress := &mocks.MockDistressUsecase{DetectFunc: func(ctx context.Context, userInput string) (*entity.DistressAssessment, error) {
		return nil, boom
	}}
	support := &mocks.MockSupportUsecase{GenerateFunc: func(ctx context.Context, req *entity.SupportRequest) (*entity.SupportMessage, error) {
		t.Fatal("support must not run")
		return nil, nil
	}}
	uc := NewEmotionalSupportUsecase(distress, support, nil, testLogger())

	_, err := uc.Assist(context.Background(), "")
	assert.ErrorIs(t, err, boom)
}

func newTestSignInteraction(gesture domain.GestureUsecase, response domain.SignResponseUsecase, store domain.SignSessionStore, window int) domain.SignInteractionUsecase {
	return NewSignInteractionUsecase(gesture, response, store, policyWith(func(p *domain.FlowPolicy) {
		p.ContextWindow = window
	}), testLogger())
}

func TestSignInteractionUsecase_Interact(t *testing.T) {
	store := session.NewMemoryStore(time.Hour, 50)
	n := 0
	gesture := &mocks.MockGestureUsecase{InterpretFunc: func(ctx context.Context, uri string) (*entity.GestureInterpretation, error) {
		n++
		return &entity.GestureInterpretation{
			GestureImageURI: uri,
			InterpretedText: fmt.Sprintf("sign %d", n),
			State:           entity.GestureSuccess,
		}, nil
	}}
	var contexts []string
	response := &mocks.MockSignResponseUsecase{RespondFunc: func(ctx context.Context, text, conversationContext string) (*entity.SignLanguageReply, error) {
		contexts = append(contexts, conversationContext)
		return &entity.SignLanguageReply{InterpretedGestureText: text, ResponseText: "reply to " + text}, nil
	}}
	uc := newTestSignInteraction(gesture, response, store, 3)
	ctx := context.Background()

	first, err := uc.Interact(ctx, "", testFrameURI)
	require.NoError(t, err)
	require.NotEmpty(t, first.SessionID)
	require.NotNil(t, first.Reply)
	assert.Equal(t, "reply to sign 1", first.Reply.ResponseText)
	assert.Equal(t, []entity.SignTurn{
		{Sender: entity.SignTurnUser, Text: "sign 1"},
		{Sender: entity.SignTurnAI, Text: "reply to sign 1"},
	}, first.Turns)

	second, err := uc.Interact(ctx, first.SessionID, testFrameURI)
	require.NoError(t, err)
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Len(t, second.Turns, 3)
	assert.Equal(t, "reply to sign 2", second.Turns[2].Text)

	require.Len(t, contexts, 2)
	assert.Equal(t, "", contexts[0])
	assert.Equal(t, "user: sign 1\nai: reply to sign 1", contexts[1])

	// the context only carries the last window of turns
	_, err = uc.Interact(ctx, first.SessionID, testFrameURI)
	require.NoError(t, err)
	assert.Equal(t, "ai: reply to sign 1\nuser: sign 2\nai: reply to sign 2", contexts[2])

	require.NoError(t, uc.EndSession(ctx, first.SessionID))
	turns, err := store.Recent(ctx, first.SessionID, 10)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestSignInteractionUsecase_Interact_FailureSkipsReply(t *testing.T) {
	store := session.NewMemoryStore(time.Hour, 50)
	require.NoError(t, store.Append(context.Background(), "s1", entity.SignTurn{Sender: entity.SignTurnUser, Text: "hi"}))

	gesture := &mocks.MockGestureUsecase{InterpretFunc: func(ctx context.Context, uri string) (*entity.GestureInterpretation, error) {
		return &entity.GestureInterpretation{InterpretedText: "Gesture unclear", State: entity.GestureFailure}, nil
	}}
	response := &mocks.MockSignResponseUsecase{RespondFunc: func(ctx context.Context, text, c string) (*entity.SignLanguageReply, error) {
		t.Fatal("no reply for a failed interpretation")
		return nil, nil
	}}
	uc := newTestSignInteraction(gesture, response, store, 5)

	got, err := uc.Interact(context.Background(), "s1", testFrameURI)
	require.NoError(t, err)
	assert.Nil(t, got.Reply)
	assert.Equal(t, []entity.SignTurn{{Sender: entity.SignTurnUser, Text: "hi"}}, got.Turns)
}

func TestSignInteractionUsecase_Interact_StoreErrorsTolerated(t *testing.T) {
	store := &mocks.MockSignSessionStore{
		RecentFunc: func(ctx context.Context, id string, n int) ([]entity.SignTurn, error) {
			return nil, errors.New("redis down")
		},
		AppendFunc: func(ctx context.Context, id string, turns ...entity.SignTurn) error {
			return errors.New("redis down")
		},
	}
	uc := newTestSignInteraction(&mocks.MockGestureUsecase{}, &mocks.MockSignResponseUsecase{}, store, 5)

	got, err := uc.Interact(context.Background(), "s1", testFrameURI)
	require.NoError(t, err)
	require.NotNil(t, got.Reply)
	assert.Len(t, got.Turns, 2)
}

func TestSignInteractionUsecase_Interact_InvalidImage(t *testing.T) {
	gesture := &mocks.MockGestureUsecase{InterpretFunc: func(ctx context.Context, uri string) (*entity.GestureInterpretation, error) {
		return nil, domain.NewInvalidImageError(errors.New("not a data URI"))
	}}
	uc := newTestSignInteraction(gesture, &mocks.MockSignResponseUsecase{}, &mocks.MockSignSessionStore{}, 5)

	_, err := uc.Interact(context.Background(), "s1", "nope")
	assert.True(t, domain.IsInvalidInput(err))
}

func TestSignInteractionUsecase_EndSession(t *testing.T) {
	store := &mocks.MockSignSessionStore{DeleteFunc: func(ctx context.Context, id string) error {
		return errors.New("redis down")
	}}
	uc := newTestSignInteraction(&mocks.MockGestureUsecase{}, &mocks.MockSignResponseUsecase{}, store, 5)

	assert.True(t, domain.IsInvalidInput(uc.EndSession(context.Background(), " ")))
	assert.ErrorIs(t, uc.EndSession(context.Background(), "s1"), domain.ErrUnavailable)
}

func TestFormatSignContext(t *testing.T) {
	assert.Equal(t, "", FormatSignContext(nil))
	assert.Equal(t, "user: a\nai: b", FormatSignContext([]entity.SignTurn{
		{Sender: entity.SignTurnUser, Text: "a"},
		{Sender: entity.SignTurnAI, Text: "b"},
	}))
}
