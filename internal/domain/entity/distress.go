package entity

// DistressAssessment is the result of classifying free text for emotional distress.
//
// DistressType, Affirmation and CalmingResponse are only set when
// EmotionalDistressDetected is true.
type DistressAssessment struct {
	UserInput                 string
	EmotionalDistressDetected bool
	DistressType              *string
	Affirmation               *string
	CalmingResponse           *string
	LegalInformationNeeded    bool
	DetectedLanguage          string

	// Error is set when the assessment is a fallback value
	Error string
}

// IsFallback reports whether the assessment was produced without a usable model reply
func (a *DistressAssessment) IsFallback() bool {
	return a.Error != ""
}
