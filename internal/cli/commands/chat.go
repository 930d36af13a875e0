package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theshubhamgundu/sahaaya/internal/cli/tui"
	"github.com/theshubhamgundu/sahaaya/internal/cli/ui"
)

var (
	chatRole string
	chatName string
)

// chatCmd is the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "join the peer support chat",
	Long: `Join the shared peer support chat as a user or a supporter.

Messages from both sides appear live in the order they were sent.`,
	Example: `  # Join as a user
  $ sahaayactl chat

  # Join as a supporter with a display name
  $ sahaayactl chat --role supporter --name Asha

  # Keyboard controls:
  • Enter sends the message
  • Ctrl+L clears the chat for everyone
  • Ctrl+R reconnects after the stream drops
  • Esc quits`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatRole, "role", "user", "chat role: user or supporter")
	chatCmd.Flags().StringVar(&chatName, "name", "", "display name (defaults to the configured name)")
	chatCmd.SilenceUsage = true
}

func runChat(cmd *cobra.Command, args []string) error {
	if chatRole != "user" && chatRole != "supporter" {
		ui.PrintError("invalid role %q, must be 'user' or 'supporter'", chatRole)
		return fmt.Errorf("invalid arguments")
	}

	apiClient, cfg, err := newAPIClient()
	if err != nil {
		return err
	}
	name := chatName
	if name == "" {
		name = cfg.SenderName
	}

	program := tui.NewChatProgram(apiClient, chatRole, name)
	if err := program.Run(); err != nil {
		return fmt.Errorf("failed to run chat TUI: %w", err)
	}
	return nil
}
