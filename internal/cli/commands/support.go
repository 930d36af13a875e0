package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theshubhamgundu/sahaaya/internal/cli/ui"
)

var supportCmd = &cobra.Command{
	Use:   "support [text]",
	Short: "share how you feel and get a supportive reply",
	Long: `Share what is on your mind. Sahaaya checks the message for signs of distress
and, when legal information could help, adds a supportive message with guidance
in your language. You are asked for the text when none is given.`,
	Example: `  $ sahaayactl support "I feel scared to go home"
  $ sahaayactl support`,
	RunE: runSupport,
}

var legalCmd = &cobra.Command{
	Use:     "legal [situation]",
	Short:   "get legal rights, laws and helplines for a situation",
	Example: `  $ sahaayactl legal "My employer has not paid me for three months"`,
	RunE:    runLegal,
}

func init() {
	supportCmd.SilenceUsage = true
	legalCmd.SilenceUsage = true
}

func runSupport(cmd *cobra.Command, args []string) error {
	apiClient, _, err := newAPIClient()
	if err != nil {
		return err
	}
	text, err := textArg(args, "What is on your mind?")
	if err != nil {
		return err
	}

	ctx, cancel := flowContext()
	defer cancel()

	ui.PrintInfo("Listening...")
	resp, err := apiClient.EmotionalSupport(ctx, text)
	if err != nil {
		return reportRequestError("support", err)
	}
	fmt.Println()
	fmt.Println(ui.RenderEmotionalSupport(*resp))
	return nil
}

func runLegal(cmd *cobra.Command, args []string) error {
	apiClient, _, err := newAPIClient()
	if err != nil {
		return err
	}
	text, err := textArg(args, "Describe your situation")
	if err != nil {
		return err
	}

	ctx, cancel := flowContext()
	defer cancel()

	ui.PrintInfo("Looking up legal guidance...")
	resp, err := apiClient.ProvideLegalGuidance(ctx, text)
	if err != nil {
		return reportRequestError("legal guidance", err)
	}
	fmt.Println()
	fmt.Println(ui.RenderLegalGuidance(*resp))
	return nil
}
