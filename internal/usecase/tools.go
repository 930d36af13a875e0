package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/theshubhamgundu/sahaaya/internal/domain"
	"github.com/theshubhamgundu/sahaaya/internal/domain/entity"
)

// Tool names as exposed to the model
const (
	ToolGetLegalInformation = "getLegalInformation"
	ToolGetLegalGuidance    = "getLegalGuidance"
)

const legalInformationPlaceholder = "Based on your situation, you may consider the following: [Placeholder Legal Info]. " +
	"Please consult with a legal professional for personalized advice."

// GetLegalInformation returns a short legal note for a situation, or "" when
// the situation is blank.
func GetLegalInformation(situation string) string {
	if strings.TrimSpace(situation) == "" {
		return ""
	}
	return legalInformationPlaceholder
}

// GetLegalGuidance returns the six-field legal information block for a situation
func GetLegalGuidance(situationDescription string) entity.LegalInformation {
	return entity.LegalInformation{
		LegalRights: fmt.Sprintf("Based on the situation: %s, you have the right to seek legal counsel "+
			"and protection under the relevant laws.", situationDescription),
		ApplicableLaws:            "POCSO, POSH, SC/ST Act (if applicable)",
		ComplaintFilingProcedures: "Contact a lawyer or legal aid organization for assistance with filing a complaint.",
		VerifiedHelplines:         "1098 (Childline India), 181 (Women Helpline)",
		NGOs:                      "List of relevant NGOs will be here",
		SupportCenters:            "List of support centers will be here",
	}
}

func legalInformationTool() domain.Tool {
	return domain.Tool{
		Name:        ToolGetLegalInformation,
		Description: "Retrieves relevant legal information based on the user-provided situation.",
		InputSchema: &domain.Schema{
			Type: domain.TypeObject,
			Properties: map[string]*domain.Schema{
				"situation": {Type: domain.TypeString, Description: "The user-provided situation."},
			},
			Required: []string{"situation"},
		},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			situation, err := stringArg(args, "situation")
			if err != nil {
				return nil, err
			}
			return GetLegalInformation(situation), nil
		},
	}
}

func legalGuidanceTool() domain.Tool {
	return domain.Tool{
		Name: ToolGetLegalGuidance,
		Description: "Provides legal rights, applicable laws, complaint filing procedures, and contact " +
			"information for helplines, NGOs, and support centers based on the user's situation.",
		InputSchema: &domain.Schema{
			Type: domain.TypeObject,
			Properties: map[string]*domain.Schema{
				"situationDescription": {Type: domain.TypeString, Description: "A detailed description of the user's situation."},
			},
			Required: []string{"situationDescription"},
		},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			desc, err := stringArg(args, "situationDescription")
			if err != nil {
				return nil, err
			}
			return legalInformationWire(GetLegalGuidance(desc)), nil
		},
	}
}

// stringArg reads a string argument; a missing key reads as ""
func stringArg(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string, got %T", key, v)
	}
	return s, nil
}

// legalInformationWire is the tool output shape shown to the model
func legalInformationWire(l entity.LegalInformation) map[string]any {
	return map[string]any{
		"legalRights":               l.LegalRights,
		"applicableLaws":            l.ApplicableLaws,
		"complaintFilingProcedures": l.ComplaintFilingProcedures,
		"verifiedHelplines":         l.VerifiedHelplines,
		"ngos":                      l.NGOs,
		"supportCenters":            l.SupportCenters,
	}
}
