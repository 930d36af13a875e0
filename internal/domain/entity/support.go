package entity

// SupportRequest carries the inputs of the personalized support flow
type SupportRequest struct {
	Situation              string
	EmotionalState         string
	LegalInformationNeeded bool
	InputLanguage          string
}

// SupportMessage is a personalized affirmation plus optional legal guidance.
// LegalGuidance is non-nil exactly when the request asked for legal information,
// it may point to an empty string.
type SupportMessage struct {
	Situation              string
	EmotionalState         string
	LegalInformationNeeded bool
	InputLanguage          string
	Message                string
	LegalGuidance          *string
	Error                  string
}
