package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/theshubhamgundu/sahaaya/internal/handler/dto"
)

func strPtr(s string) *string { return &s }

func TestRenderBoard(t *testing.T) {
	out := RenderBoard([]string{"X", "", "", "", "O", "", "", "", ""})

	assert.Contains(t, out, "X")
	assert.Contains(t, out, "O")
	for _, idx := range []string{"1", "2", "3", "5", "6", "7", "8"} {
		assert.Contains(t, out, idx)
	}
	assert.Equal(t, 5, len(strings.Split(out, "\n")))
}

func TestRenderLegalGuidance(t *testing.T) {
	g := dto.LegalGuidanceResponse{
		LegalGuidance: dto.LegalInformation{
			LegalRights:               "rights-text",
			ApplicableLaws:            "laws-text",
			ComplaintFilingProcedures: "complaint-text",
			VerifiedHelplines:         "helplines-text",
			NGOs:                      "ngos-text",
			SupportCenters:            "centers-text",
		},
	}

	out := RenderLegalGuidance(g)
	assert.Contains(t, out, "rights-text")
	assert.Contains(t, out, "complaint-text")
	assert.NotContains(t, out, "helplines-text")

	g.IncludeResources = true
	g.Warning = "not recorded"
	out = RenderLegalGuidance(g)
	assert.Contains(t, out, "helplines-text")
	assert.Contains(t, out, "ngos-text")
	assert.Contains(t, out, "centers-text")
	assert.Contains(t, out, "not recorded")
}

func TestRenderEmotionalSupport(t *testing.T) {
	r := dto.EmotionalSupportResponse{
		Assessment: dto.DistressAssessmentResponse{
			EmotionalDistressDetected: true,
			DistressType:              strPtr("fear"),
			Affirmation:               strPtr("brave"),
			LegalInformationNeeded:    true,
			DetectedLanguage:          "en",
		},
		Support: &dto.SupportMessageResponse{Message: "alone-not", LegalGuidance: strPtr("")},
	}

	out := RenderEmotionalSupport(r)
	assert.Contains(t, out, "fear")
	assert.Contains(t, out, "brave")
	assert.Contains(t, out, "alone-not")
	assert.Contains(t, out, "(none available)")
}

func TestRenderSignInteraction(t *testing.T) {
	out := RenderSignInteraction(dto.SignInteractionResponse{
		SessionID: "s-1",
		State:     "success",
		Interpretation: dto.GestureInterpretationResponse{
			InterpretedText: "hello",
			Confidence:      0.5,
			State:           "success",
		},
		Reply: &dto.SignLanguageReplyResponse{ResponseText: "hi-there"},
		Turns: []dto.SignTurn{{Sender: "user", Text: "hello"}, {Sender: "ai", Text: "hi-there"}},
	})

	assert.Contains(t, out, "50%")
	assert.Contains(t, out, "hi-there")
	assert.Contains(t, out, "ai:")
	assert.Contains(t, out, "session s-1")
}

func TestBanner(t *testing.T) {
	out := Banner("Peer chat")
	assert.Contains(t, out, "Sahaaya · Peer chat")
	assert.Contains(t, out, "╭")
}

func TestStatusLine(t *testing.T) {
	assert.Contains(t, errorLine.sprintf("bad %s", "input"), "✗ bad input")
	assert.Contains(t, successLine.sprintf("saved"), "✓ saved")
}
