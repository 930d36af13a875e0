package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theshubhamgundu/sahaaya/internal/cli/loader"
	"github.com/theshubhamgundu/sahaaya/internal/cli/ui"
)

var (
	gestureFile    string
	gestureSession string
	gestureEnd     bool
)

var gestureCmd = &cobra.Command{
	Use:   "gesture",
	Short: "interpret a hand gesture image and get a reply",
	Long: `Send a photo of a sign language gesture. The gesture is interpreted and, when it
was understood, answered using the last turns of the session as context.
Pass the printed session id with --session to continue a conversation.`,
	Example: `  # Start a conversation
  $ sahaayactl gesture -f hello.png

  # Continue it
  $ sahaayactl gesture -f thanks.jpg --session 3f2b...

  # Forget it
  $ sahaayactl gesture --session 3f2b... --end`,
	Args: cobra.NoArgs,
	RunE: runGesture,
}

func init() {
	gestureCmd.Flags().StringVarP(&gestureFile, "file", "f", "", "gesture image (png, jpeg, webp)")
	gestureCmd.Flags().StringVar(&gestureSession, "session", "", "sign conversation session id")
	gestureCmd.Flags().BoolVar(&gestureEnd, "end", false, "end the session given by --session")
	gestureCmd.SilenceUsage = true
}

func runGesture(cmd *cobra.Command, args []string) error {
	apiClient, _, err := newAPIClient()
	if err != nil {
		return err
	}
	ctx, cancel := flowContext()
	defer cancel()

	if gestureEnd {
		if gestureSession == "" {
			ui.PrintError("--end needs --session")
			return fmt.Errorf("invalid arguments")
		}
		if err := apiClient.EndSignSession(ctx, gestureSession); err != nil {
			return reportRequestError("end session", err)
		}
		ui.PrintSuccess("Session %s ended", gestureSession)
		return nil
	}

	if gestureFile == "" {
		ui.PrintError("an image is required, pass it with -f")
		return fmt.Errorf("invalid arguments")
	}
	uri, err := loader.DataURIFromFile(gestureFile)
	if err != nil {
		ui.PrintError("%v", err)
		return fmt.Errorf("image load failed")
	}

	ui.PrintInfo("Reading gesture...")
	resp, err := apiClient.SignInteract(ctx, gestureSession, uri)
	if err != nil {
		return reportRequestError("gesture", err)
	}
	fmt.Println()
	fmt.Println(ui.RenderSignInteraction(*resp))
	return nil
}
