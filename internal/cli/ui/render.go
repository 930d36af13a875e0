package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/fatih/color"

	"github.com/theshubhamgundu/sahaaya/internal/handler/dto"
)

var (
	headingStyle   = Styles.Heading
	keyStyle       = Styles.Muted
	valueStyle     = lipgloss.NewStyle().Foreground(Yellow)
	highlightStyle = lipgloss.NewStyle().Foreground(Pink).Bold(true)

	messageStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Pink).
			Padding(0, 1).
			Width(72)

	cellStyle = lipgloss.NewStyle().Width(3).Align(lipgloss.Center)
)

// formatKeyValue formats a key-value pair
func formatKeyValue(key, value string) string {
	return fmt.Sprintf("%s %s", keyStyle.Render(key), value)
}

func yesNo(b bool) string {
	if b {
		return color.YellowString("yes")
	}
	return color.GreenString("no")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// RenderAssessment renders a distress assessment as a tree
func RenderAssessment(a dto.DistressAssessmentResponse) string {
	t := tree.New().Root(headingStyle.Render("Distress assessment"))
	t.Child(formatKeyValue("Distress detected:", yesNo(a.EmotionalDistressDetected)))
	if a.DistressType != nil {
		t.Child(formatKeyValue("Type:", valueStyle.Render(*a.DistressType)))
	}
	t.Child(formatKeyValue("Legal information needed:", yesNo(a.LegalInformationNeeded)))
	t.Child(formatKeyValue("Language:", a.DetectedLanguage))
	if a.Error != "" {
		t.Child(formatKeyValue("Error:", color.RedString(a.Error)))
	}

	out := t.String()
	if a.Affirmation != nil || a.CalmingResponse != nil {
		var lines []string
		if s := deref(a.Affirmation); s != "" {
			lines = append(lines, highlightStyle.Render(s))
		}
		if s := deref(a.CalmingResponse); s != "" {
			lines = append(lines, s)
		}
		if len(lines) > 0 {
			out += "\n\n" + messageStyle.Render(strings.Join(lines, "\n\n"))
		}
	}
	return out
}

// RenderSupport renders a supportive message and its legal guidance
func RenderSupport(s dto.SupportMessageResponse) string {
	var b strings.Builder
	b.WriteString(messageStyle.Render(s.Message))
	if s.LegalGuidance != nil {
		b.WriteString("\n\n")
		b.WriteString(headingStyle.Render("Legal guidance"))
		b.WriteString("\n")
		if *s.LegalGuidance == "" {
			b.WriteString(keyStyle.Render("(none available)"))
		} else {
			b.WriteString(*s.LegalGuidance)
		}
	}
	if s.Error != "" {
		b.WriteString("\n\n")
		b.WriteString(formatKeyValue("Error:", color.RedString(s.Error)))
	}
	return b.String()
}

// RenderEmotionalSupport renders the assessment followed by the support message, if any
func RenderEmotionalSupport(r dto.EmotionalSupportResponse) string {
	out := RenderAssessment(r.Assessment)
	if r.Support != nil {
		out += "\n\n" + RenderSupport(*r.Support)
	}
	return out
}

// RenderLegalGuidance renders the six guidance fields as a tree
func RenderLegalGuidance(g dto.LegalGuidanceResponse) string {
	info := g.LegalGuidance
	t := tree.New().Root(headingStyle.Render("Legal guidance"))
	for _, f := range []struct{ key, value string }{
		{"Legal rights", info.LegalRights},
		{"Applicable laws", info.ApplicableLaws},
		{"Complaint filing", info.ComplaintFilingProcedures},
	} {
		t.Child(tree.New().Root(valueStyle.Render(f.key)).Child(f.value))
	}
	if g.IncludeResources {
		t.Child(tree.New().Root(valueStyle.Render("Verified helplines")).Child(info.VerifiedHelplines))
		t.Child(tree.New().Root(valueStyle.Render("NGOs")).Child(info.NGOs))
		t.Child(tree.New().Root(valueStyle.Render("Support centers")).Child(info.SupportCenters))
	}

	out := t.String()
	if g.Warning != "" {
		out += "\n\n" + color.YellowString("⚠ %s", g.Warning)
	}
	if g.Error != "" {
		out += "\n" + keyStyle.Render("model error: "+g.Error)
	}
	return out
}

// RenderGesture renders one gesture reading
func RenderGesture(g dto.GestureInterpretationResponse) string {
	t := tree.New().Root(headingStyle.Render("Gesture"))
	t.Child(formatKeyValue("Text:", valueStyle.Render(g.InterpretedText)))
	t.Child(formatKeyValue("Confidence:", fmt.Sprintf("%.0f%%", g.Confidence*100)))
	t.Child(formatKeyValue("State:", coloredState(g.State)))
	if g.Error != "" {
		t.Child(formatKeyValue("Error:", color.RedString(g.Error)))
	}
	return t.String()
}

// RenderSignReply renders a reply to an interpreted gesture
func RenderSignReply(r dto.SignLanguageReplyResponse) string {
	out := messageStyle.Render(r.ResponseText)
	if v := deref(r.SuggestedSignVisual); v != "" {
		out += "\n" + formatKeyValue("Suggested sign:", v)
	}
	return out
}

// RenderSignInteraction renders one step of a sign conversation
func RenderSignInteraction(s dto.SignInteractionResponse) string {
	var b strings.Builder
	b.WriteString(RenderGesture(s.Interpretation))
	if s.Reply != nil {
		b.WriteString("\n\n")
		b.WriteString(RenderSignReply(*s.Reply))
	}
	if len(s.Turns) > 0 {
		b.WriteString("\n\n")
		b.WriteString(headingStyle.Render("Conversation"))
		for _, turn := range s.Turns {
			b.WriteString("\n  ")
			b.WriteString(keyStyle.Render(turn.Sender + ":"))
			b.WriteString(" ")
			b.WriteString(turn.Text)
		}
	}
	b.WriteString("\n")
	b.WriteString(keyStyle.Render("session " + s.SessionID))
	return b.String()
}

func coloredState(state string) string {
	switch state {
	case "success":
		return color.GreenString(state)
	case "failure":
		return color.RedString(state)
	default:
		return color.YellowString(state)
	}
}

// RenderBoard renders a tic-tac-toe board. Empty cells show their index.
func RenderBoard(board []string) string {
	rows := make([]string, 0, 5)
	for r := 0; r < 3; r++ {
		cells := make([]string, 0, 3)
		for c := 0; c < 3; c++ {
			i := r*3 + c
			var cell string
			switch {
			case i >= len(board) || board[i] == "":
				cell = keyStyle.Render(fmt.Sprintf("%d", i))
			case board[i] == "X":
				cell = highlightStyle.Render("X")
			default:
				cell = headingStyle.Render(board[i])
			}
			cells = append(cells, cellStyle.Render(cell))
		}
		rows = append(rows, strings.Join(cells, keyStyle.Render("│")))
		if r < 2 {
			rows = append(rows, keyStyle.Render("───┼───┼───"))
		}
	}
	return strings.Join(rows, "\n")
}
