package usecase

import "github.com/theshubhamgundu/sahaaya/internal/domain"

// Output schemas sent to the model for each flow. Required fields are checked
// again after decoding because not every provider enforces the schema.

func str(desc string) *domain.Schema {
	return &domain.Schema{Type: domain.TypeString, Description: desc}
}

func boolean(desc string) *domain.Schema {
	return &domain.Schema{Type: domain.TypeBoolean, Description: desc}
}

var (
	zero = 0.0
	one  = 1.0
)

var distressSchema = &domain.Schema{
	Type: domain.TypeObject,
	Properties: map[string]*domain.Schema{
		"emotionalDistressDetected": boolean("Whether emotional distress is detected in the user input."),
		"distressType":              str("The type of emotional distress detected (e.g., shame, fear, anxiety)."),
		"affirmation":               str("A personalized affirmation to provide comfort, in the detected language."),
		"calmingResponse":           str("A calming response to provide mental clarity, in the detected language."),
		"legalInformationNeeded":    boolean("Whether legal information is needed based on the user input."),
		"detectedLanguage":          str("The ISO 639-1 code of the language detected in the user input."),
	},
	Required: []string{"emotionalDistressDetected", "legalInformationNeeded"},
}

var supportSchema = &domain.Schema{
	Type: domain.TypeObject,
	Properties: map[string]*domain.Schema{
		"message":       str("A personalized affirmation and calming response in the input language."),
		"legalGuidance": str("Legal guidance returned by the legal information tool."),
	},
	Required: []string{"message"},
}

var legalInformationSchema = &domain.Schema{
	Type: domain.TypeObject,
	Properties: map[string]*domain.Schema{
		"legalRights":               str("Explanation of the user's legal rights based on the situation."),
		"applicableLaws":            str("List of applicable laws (e.g., POCSO, POSH, SC/ST Act)."),
		"complaintFilingProcedures": str("Step-by-step instructions on how to file a complaint."),
		"verifiedHelplines":         str("Contact information for verified helplines."),
		"ngos":                      str("Contact information for relevant NGOs."),
		"supportCenters":            str("Contact information for support centers."),
	},
	Required: []string{"legalRights", "applicableLaws", "complaintFilingProcedures", "verifiedHelplines", "ngos", "supportCenters"},
}

var legalSchema = &domain.Schema{
	Type: domain.TypeObject,
	Properties: map[string]*domain.Schema{
		"legalGuidance":    legalInformationSchema,
		"includeResources": boolean("Whether to include resource information in the output."),
	},
	Required: []string{"legalGuidance", "includeResources"},
}

var gestureSchema = &domain.Schema{
	Type: domain.TypeObject,
	Properties: map[string]*domain.Schema{
		"interpretedText": str("The textual interpretation of the hand gesture."),
		"confidence": {
			Type:        domain.TypeNumber,
			Description: "The confidence score of the interpretation (0.0 to 1.0).",
			Minimum:     &zero,
			Maximum:     &one,
		},
		"error": str("Any error message if interpretation failed."),
	},
	Required: []string{"interpretedText"},
}

var signResponseSchema = &domain.Schema{
	Type: domain.TypeObject,
	Properties: map[string]*domain.Schema{
		"responseText":        str("The AI's textual response to the user's sign."),
		"suggestedSignVisual": str("A brief description of a sign the AI might use in response."),
	},
	Required: []string{"responseText"},
}
