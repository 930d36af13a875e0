package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theshubhamgundu/sahaaya/internal/domain"
	"github.com/theshubhamgundu/sahaaya/internal/domain/mocks"
)

func TestDistressUsecase_Detect(t *testing.T) {
	tests := []struct {
		name      string
		reply     string
		modelErr  error
		policy    domain.PolicySource
		check     func(t *testing.T, got *distressCheck)
		wantErr   bool
		checkKind func(error) bool
	}{
		{
			name:  "distress detected",
			reply: `{"emotionalDistressDetected":true,"distressType":"fear","affirmation":"You are brave.","calmingResponse":"Breathe slowly.","legalInformationNeeded":true,"detectedLanguage":"en"}`,
			check: func(t *testing.T, got *distressCheck) {
				assert.True(t, got.detected)
				assert.Equal(t, "fear", got.distressType)
				assert.Equal(t, "You are brave.", got.affirmation)
				assert.True(t, got.legal)
				assert.Equal(t, "en", got.language)
				assert.Empty(t, got.errText)
			},
		},
		{
			name:  "no distress drops support fields",
			reply: "```json\n{\"emotionalDistressDetected\":false,\"affirmation\":\"stray\",\"calmingResponse\":\"stray\",\"legalInformationNeeded\":false,\"detectedLanguage\":\"hi\"}\n```",
			check: func(t *testing.T, got *distressCheck) {
				assert.False(t, got.detected)
				assert.False(t, got.hasAffirmation)
				assert.False(t, got.hasCalming)
				assert.Equal(t, "hi", got.language)
			},
		},
		{
			name:  "language defaults to policy",
			reply: `{"emotionalDistressDetected":false,"legalInformationNeeded":false,"detectedLanguage":"mixed"}`,
			policy: policyWith(func(p *domain.FlowPolicy) {
				p.DefaultLanguage = "te"
			}),
			check: func(t *testing.T, got *distressCheck) {
				assert.Equal(t, "te", got.language)
			},
		},
		{
			name:  "missing required field falls back",
			reply: `{"distressType":"fear"}`,
			check: func(t *testing.T, got *distressCheck) {
				assert.False(t, got.detected)
				assert.False(t, got.legal)
				assert.Equal(t, "en", got.language)
				assert.Equal(t, distressFallbackError, got.errText)
			},
		},
		{
			name:  "wrong type falls back",
			reply: `{"emotionalDistressDetected":"yes","legalInformationNeeded":false}`,
			check: func(t *testing.T, got *distressCheck) {
				assert.Equal(t, distressFallbackError, got.errText)
			},
		},
		{
			name:     "model error falls back",
			modelErr: errors.New("connection reset"),
			check: func(t *testing.T, got *distressCheck) {
				assert.False(t, got.detected)
				assert.Equal(t, distressFallbackError, got.errText)
			},
		},
		{
			name:      "model error surfaces when fallback disabled",
			modelErr:  errors.New("connection reset"),
			policy:    policyWith(noFallback),
			wantErr:   true,
			checkKind: domain.IsModelError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &mocks.MockModelClient{GenerateFunc: mocks.ReplyWith(tt.reply)}
			if tt.modelErr != nil {
				model.GenerateFunc = func(ctx context.Context, req *domain.GenerateRequest) (*domain.GenerateResponse, error) {
					return nil, tt.modelErr
				}
			}
			policy := tt.policy
			if policy == nil {
				policy = policyWith(nil)
			}

			uc := NewDistressUsecase(model, testPrompts, policy, testLogger())
			got, err := uc.Detect(context.Background(), "I am scared of my landlord")
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, tt.checkKind(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "I am scared of my landlord", got.UserInput)

			c := &distressCheck{
				detected:       got.EmotionalDistressDetected,
				legal:          got.LegalInformationNeeded,
				language:       got.DetectedLanguage,
				errText:        got.Error,
				hasAffirmation: got.Affirmation != nil,
				hasCalming:     got.CalmingResponse != nil,
			}
			if got.DistressType != nil {
				c.distressType = *got.DistressType
			}
			if got.Affirmation != nil {
				c.affirmation = *got.Affirmation
			}
			tt.check(t, c)
		})
	}
}

type distressCheck struct {
	detected       bool
	distressType   string
	affirmation    string
	hasAffirmation bool
	hasCalming     bool
	legal          bool
	language       string
	errText        string
}

func TestDistressUsecase_Detect_RejectsBlankInput(t *testing.T) {
	model := &mocks.MockModelClient{}
	uc := NewDistressUsecase(model, testPrompts, nil, testLogger())

	_, err := uc.Detect(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, domain.IsInvalidInput(err))
	assert.Empty(t, model.Requests(), "no model call for invalid input")
}

func TestDistressUsecase_Detect_RequestShape(t *testing.T) {
	model := &mocks.MockModelClient{GenerateFunc: mocks.ReplyWith(`{"emotionalDistressDetected":false,"legalInformationNeeded":false}`)}
	uc := NewDistressUsecase(model, testPrompts, nil, testLogger())

	_, err := uc.Detect(context.Background(), `he said "leave"`)
	require.NoError(t, err)

	reqs := model.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "detect_emotional_distress", reqs[0].Flow)
	assert.Contains(t, reqs[0].Prompt, `User Input: "he said \"leave\""`)
	assert.Same(t, distressSchema, reqs[0].OutputSchema)
	assert.Empty(t, reqs[0].Tools)
}
