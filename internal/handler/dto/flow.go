package dto

import (
	"github.com/theshubhamgundu/sahaaya/internal/domain"
	"github.com/theshubhamgundu/sahaaya/internal/domain/entity"
)

// ============ distress ============

// DetectDistressRequest is the body of POST /api/detect-emotional-distress
type DetectDistressRequest struct {
	UserInput string `json:"userInput"`
}

// DistressAssessmentResponse is the classification of a user message
type DistressAssessmentResponse struct {
	EmotionalDistressDetected bool    `json:"emotionalDistressDetected"`
	DistressType              *string `json:"distressType,omitempty"`
	Affirmation               *string `json:"affirmation,omitempty"`
	CalmingResponse           *string `json:"calmingResponse,omitempty"`
	LegalInformationNeeded    bool    `json:"legalInformationNeeded"`
	DetectedLanguage          string  `json:"detectedLanguage"`
	Error                     string  `json:"error,omitempty"`
}

// ToDistressAssessmentResponse converts entity to response DTO
func ToDistressAssessmentResponse(a *entity.DistressAssessment) DistressAssessmentResponse {
	return DistressAssessmentResponse{
		EmotionalDistressDetected: a.EmotionalDistressDetected,
		DistressType:              a.DistressType,
		Affirmation:               a.Affirmation,
		CalmingResponse:           a.CalmingResponse,
		LegalInformationNeeded:    a.LegalInformationNeeded,
		DetectedLanguage:          a.DetectedLanguage,
		Error:                     a.Error,
	}
}

// ============ support ============

// GenerateSupportRequest is the body of POST /api/generate-personalized-support
type GenerateSupportRequest struct {
	Situation              string `json:"situation"`
	EmotionalState         string `json:"emotionalState"`
	LegalInformationNeeded bool   `json:"legalInformationNeeded"`
	InputLanguage          string `json:"inputLanguage,omitempty"`
}

// SupportMessageResponse is a supportive message in the user's language.
// legalGuidance is present, possibly empty, exactly when it was requested.
type SupportMessageResponse struct {
	Message       string  `json:"message"`
	LegalGuidance *string `json:"legalGuidance,omitempty"`
	Error         string  `json:"error,omitempty"`
}

// ToSupportMessageResponse converts entity to response DTO
func ToSupportMessageResponse(m *entity.SupportMessage) SupportMessageResponse {
	return SupportMessageResponse{
		Message:       m.Message,
		LegalGuidance: m.LegalGuidance,
		Error:         m.Error,
	}
}

// ============ legal ============

// LegalGuidanceRequest is the body of POST /api/provide-relevant-legal-guidance
type LegalGuidanceRequest struct {
	SituationDescription string `json:"situationDescription"`
}

// LegalInformation holds the six guidance fields
type LegalInformation struct {
	LegalRights               string `json:"legalRights"`
	ApplicableLaws            string `json:"applicableLaws"`
	ComplaintFilingProcedures string `json:"complaintFilingProcedures"`
	VerifiedHelplines         string `json:"verifiedHelplines"`
	NGOs                      string `json:"ngos"`
	SupportCenters            string `json:"supportCenters"`
}

// LegalGuidanceResponse is the legal guidance for a situation
type LegalGuidanceResponse struct {
	LegalGuidance    LegalInformation `json:"legalGuidance"`
	IncludeResources bool             `json:"includeResources"`
	Warning          string           `json:"warning,omitempty"`
	Error            string           `json:"error,omitempty"`
}

// ToLegalGuidanceResponse converts entity to response DTO
func ToLegalGuidanceResponse(g *entity.LegalGuidance) LegalGuidanceResponse {
	info := g.Information
	return LegalGuidanceResponse{
		LegalGuidance: LegalInformation{
			LegalRights:               info.LegalRights,
			ApplicableLaws:            info.ApplicableLaws,
			ComplaintFilingProcedures: info.ComplaintFilingProcedures,
			VerifiedHelplines:         info.VerifiedHelplines,
			NGOs:                      info.NGOs,
			SupportCenters:            info.SupportCenters,
		},
		IncludeResources: g.IncludeResources,
		Warning:          g.Warning,
		Error:            g.Error,
	}
}

// ============ sign language ============

// InterpretGestureRequest is the body of POST /api/interpret-hand-gesture
type InterpretGestureRequest struct {
	GestureImageURI string `json:"gestureImageUri"`
}

// GestureInterpretationResponse is the reading of one gesture frame
type GestureInterpretationResponse struct {
	InterpretedText string  `json:"interpretedText"`
	Confidence      float64 `json:"confidence"`
	State           string  `json:"state"`
	Error           string  `json:"error,omitempty"`
}

// ToGestureInterpretationResponse converts entity to response DTO
func ToGestureInterpretationResponse(g *entity.GestureInterpretation) GestureInterpretationResponse {
	return GestureInterpretationResponse{
		InterpretedText: g.InterpretedText,
		Confidence:      g.Confidence,
		State:           string(g.State),
		Error:           g.Error,
	}
}

// SignResponseRequest is the body of POST /api/generate-sign-language-response
type SignResponseRequest struct {
	InterpretedGestureText string `json:"interpretedGestureText"`
	ConversationContext    string `json:"conversationContext,omitempty"`
}

// SignLanguageReplyResponse is the reply to an interpreted gesture
type SignLanguageReplyResponse struct {
	ResponseText        string  `json:"responseText"`
	SuggestedSignVisual *string `json:"suggestedSignVisual,omitempty"`
	Error               string  `json:"error,omitempty"`
}

// ToSignLanguageReplyResponse converts entity to response DTO
func ToSignLanguageReplyResponse(r *entity.SignLanguageReply) SignLanguageReplyResponse {
	return SignLanguageReplyResponse{
		ResponseText:        r.ResponseText,
		SuggestedSignVisual: r.SuggestedSignVisual,
		Error:               r.Error,
	}
}

// ============ chains ============

// EmotionalSupportResponse is the distress assessment plus, when legal
// information was needed, the support message
type EmotionalSupportResponse struct {
	Assessment DistressAssessmentResponse `json:"assessment"`
	Support    *SupportMessageResponse    `json:"support,omitempty"`
}

// ToEmotionalSupportResponse converts the chain result to response DTO
func ToEmotionalSupportResponse(r *domain.EmotionalSupportResult) EmotionalSupportResponse {
	resp := EmotionalSupportResponse{Assessment: ToDistressAssessmentResponse(r.Assessment)}
	if r.Support != nil {
		s := ToSupportMessageResponse(r.Support)
		resp.Support = &s
	}
	return resp
}

// SignInteractRequest is the body of POST /api/sign-language/interact
type SignInteractRequest struct {
	SessionID       string `json:"sessionId,omitempty"`
	GestureImageURI string `json:"gestureImageUri"`
}

// SignTurn is one line of a sign conversation
type SignTurn struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// SignInteractionResponse is the outcome of one sign conversation step
type SignInteractionResponse struct {
	SessionID      string                        `json:"sessionId"`
	State          string                        `json:"state"`
	Interpretation GestureInterpretationResponse `json:"interpretation"`
	Reply          *SignLanguageReplyResponse    `json:"reply,omitempty"`
	Turns          []SignTurn                    `json:"turns"`
}

// ToSignInteractionResponse converts entity to response DTO
func ToSignInteractionResponse(s *entity.SignInteraction) SignInteractionResponse {
	resp := SignInteractionResponse{
		SessionID:      s.SessionID,
		State:          string(s.Interpretation.State),
		Interpretation: ToGestureInterpretationResponse(s.Interpretation),
		Turns:          make([]SignTurn, 0, len(s.Turns)),
	}
	if s.Reply != nil {
		r := ToSignLanguageReplyResponse(s.Reply)
		resp.Reply = &r
	}
	for _, t := range s.Turns {
		resp.Turns = append(resp.Turns, SignTurn{Sender: string(t.Sender), Text: t.Text})
	}
	return resp
}
