package entity

import "time"

// LegalInformation is the six-field block filled by the legal guidance tool
type LegalInformation struct {
	LegalRights               string
	ApplicableLaws            string
	ComplaintFilingProcedures string
	VerifiedHelplines         string
	NGOs                      string
	SupportCenters            string
}

// Complete reports whether every field carries text
func (l LegalInformation) Complete() bool {
	return l.LegalRights != "" &&
		l.ApplicableLaws != "" &&
		l.ComplaintFilingProcedures != "" &&
		l.VerifiedHelplines != "" &&
		l.NGOs != "" &&
		l.SupportCenters != ""
}

// LegalGuidance is the output of the legal guidance flow
type LegalGuidance struct {
	SituationDescription string
	Information          LegalInformation
	IncludeResources     bool

	// Warning reports a non-blocking side-effect failure (prompt log)
	Warning string
	Error   string
}

// PromptLogEntry is one record of the legal guidance prompt log
type PromptLogEntry struct {
	ID         string
	PromptText string
	CreatedAt  time.Time
}
