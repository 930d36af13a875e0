package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theshubhamgundu/sahaaya/internal/domain"
	"github.com/theshubhamgundu/sahaaya/internal/domain/entity"
	"github.com/theshubhamgundu/sahaaya/internal/domain/mocks"
)

func TestSupportUsecase_Generate_LegalGuidancePresence(t *testing.T) {
	tests := []struct {
		name      string
		needed    bool
		reply     string
		wantLegal *string
		wantTools int
		wantMsg   string
	}{
		{
			name:      "needed and provided by model",
			needed:    true,
			reply:     `{"message":"Aap akele nahi hain.","legalGuidance":"tool text"}`,
			wantLegal: strPtr("tool text"),
			wantTools: 1,
			wantMsg:   "Aap akele nahi hain.",
		},
		{
			name:      "needed and empty string kept",
			needed:    true,
			reply:     `{"message":"ok","legalGuidance":""}`,
			wantLegal: strPtr(""),
			wantTools: 1,
			wantMsg:   "ok",
		},
		{
			name:      "needed but omitted runs tool locally",
			needed:    true,
			reply:     `{"message":"ok"}`,
			wantLegal: strPtr(legalInformationPlaceholder),
			wantTools: 1,
			wantMsg:   "ok",
		},
		{
			name:      "not needed drops stray guidance",
			needed:    false,
			reply:     `{"message":"ok","legalGuidance":"should not appear"}`,
			wantLegal: nil,
			wantTools: 0,
			wantMsg:   "ok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &mocks.MockModelClient{GenerateFunc: mocks.ReplyWith(tt.reply)}
			uc := NewSupportUsecase(model, testPrompts, nil, testLogger())

			got, err := uc.Generate(context.Background(), &entity.SupportRequest{
				Situation:              "my boss threatens me",
				EmotionalState:         "fear",
				LegalInformationNeeded: tt.needed,
				InputLanguage:          "hi",
			})
			require.NoError(t, err)

			assert.Equal(t, tt.wantMsg, got.Message)
			assert.Equal(t, tt.wantLegal, got.LegalGuidance)
			assert.Equal(t, "hi", got.InputLanguage)
			assert.Len(t, model.Requests()[0].Tools, tt.wantTools)
		})
	}
}

func TestSupportUsecase_Generate_Fallback(t *testing.T) {
	model := &mocks.MockModelClient{
		GenerateFunc: func(ctx context.Context, req *domain.GenerateRequest) (*domain.GenerateResponse, error) {
			return nil, errors.New("deadline exceeded")
		},
	}
	uc := NewSupportUsecase(model, testPrompts, nil, testLogger())

	got, err := uc.Generate(context.Background(), &entity.SupportRequest{
		Situation:              "my boss threatens me",
		EmotionalState:         "fear",
		LegalInformationNeeded: true,
	})
	require.NoError(t, err)
	assert.Equal(t, supportFallbackMessage, got.Message)
	assert.NotEmpty(t, got.Error)
	require.NotNil(t, got.LegalGuidance)
	assert.Equal(t, legalInformationPlaceholder, *got.LegalGuidance)
	assert.Equal(t, "en", got.InputLanguage, "language defaults to policy")
}

func TestSupportUsecase_Generate_Validation(t *testing.T) {
	uc := NewSupportUsecase(&mocks.MockModelClient{}, testPrompts, nil, testLogger())

	for _, req := range []*entity.SupportRequest{
		nil,
		{Situation: "", EmotionalState: "fear"},
		{Situation: "x", EmotionalState: "  "},
	} {
		_, err := uc.Generate(context.Background(), req)
		require.Error(t, err)
		assert.True(t, domain.IsInvalidInput(err))
	}
}

func TestSupportUsecase_Generate_MissingMessage(t *testing.T) {
	model := &mocks.MockModelClient{GenerateFunc: mocks.ReplyWith(`{"legalGuidance":"x"}`)}
	uc := NewSupportUsecase(model, testPrompts, policyWith(noFallback), testLogger())

	_, err := uc.Generate(context.Background(), &entity.SupportRequest{Situation: "x", EmotionalState: "sad"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidModelOutput)
}

func TestGetLegalInformation(t *testing.T) {
	assert.Equal(t, "", GetLegalInformation(""))
	assert.Equal(t, "", GetLegalInformation("   "))
	assert.Equal(t, legalInformationPlaceholder, GetLegalInformation("harassment at work"))
}

func TestLegalInformationTool_Handler(t *testing.T) {
	tool := legalInformationTool()

	out, err := tool.Handler(context.Background(), map[string]any{"situation": "x"})
	require.NoError(t, err)
	assert.Equal(t, legalInformationPlaceholder, out)

	out, err = tool.Handler(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "", out)

	_, err = tool.Handler(context.Background(), map[string]any{"situation": 42})
	assert.Error(t, err)
}
