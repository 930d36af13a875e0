package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theshubhamgundu/sahaaya/internal/cli/client"
	"github.com/theshubhamgundu/sahaaya/internal/cli/loader"
	"github.com/theshubhamgundu/sahaaya/internal/cli/ui"
)

var applyFile string

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "run a flow from a YAML or JSON request file",
	Long: `Run a single flow from a request file. The file names the flow in 'kind'
(Distress, Support, Legal, Gesture, SignResponse or EmotionalSupport) and
carries its fields under 'spec'.`,
	Example: `  $ cat legal.yaml
  kind: Legal
  spec:
    situationDescription: My landlord keeps my deposit without reason

  $ sahaayactl apply -f legal.yaml`,
	Args: cobra.NoArgs,
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringVarP(&applyFile, "file", "f", "", "request file")
	_ = applyCmd.MarkFlagRequired("file")
	applyCmd.SilenceUsage = true
}

func runApply(cmd *cobra.Command, args []string) error {
	apiClient, _, err := newAPIClient()
	if err != nil {
		return err
	}

	ui.PrintInfo("Loading request from file: %s", applyFile)
	req, err := loader.LoadFromFile(applyFile)
	if err != nil {
		ui.PrintError("failed to load file: %v", err)
		return fmt.Errorf("file load failed")
	}
	ui.PrintInfo("Request kind: %s", req.Kind)

	ctx, cancel := flowContext()
	defer cancel()

	out, err := applyRequest(ctx, apiClient, req)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(out)
	return nil
}

// applyRequest posts req to the flow its kind names and renders the answer
func applyRequest(ctx context.Context, apiClient *client.APIClient, req *loader.RequestFile) (string, error) {
	invalid := func(err error) (string, error) {
		ui.PrintError("invalid request specification: %v", err)
		return "", fmt.Errorf("validation failed")
	}

	switch req.Kind {
	case loader.KindDistress:
		body, err := req.ToDetectDistressRequest()
		if err != nil {
			return invalid(err)
		}
		resp, err := apiClient.DetectDistress(ctx, body.UserInput)
		if err != nil {
			return "", reportRequestError("distress detection", err)
		}
		return ui.RenderAssessment(*resp), nil

	case loader.KindEmotionalSupport:
		body, err := req.ToDetectDistressRequest()
		if err != nil {
			return invalid(err)
		}
		resp, err := apiClient.EmotionalSupport(ctx, body.UserInput)
		if err != nil {
			return "", reportRequestError("support", err)
		}
		return ui.RenderEmotionalSupport(*resp), nil

	case loader.KindSupport:
		body, err := req.ToGenerateSupportRequest()
		if err != nil {
			return invalid(err)
		}
		resp, err := apiClient.GenerateSupport(ctx, body)
		if err != nil {
			return "", reportRequestError("support", err)
		}
		return ui.RenderSupport(*resp), nil

	case loader.KindLegal:
		body, err := req.ToLegalGuidanceRequest()
		if err != nil {
			return invalid(err)
		}
		resp, err := apiClient.ProvideLegalGuidance(ctx, body.SituationDescription)
		if err != nil {
			return "", reportRequestError("legal guidance", err)
		}
		return ui.RenderLegalGuidance(*resp), nil

	case loader.KindGesture:
		body, err := req.ToInterpretGestureRequest()
		if err != nil {
			return invalid(err)
		}
		resp, err := apiClient.InterpretGesture(ctx, body.GestureImageURI)
		if err != nil {
			return "", reportRequestError("gesture", err)
		}
		return ui.RenderGesture(*resp), nil

	case loader.KindSignResponse:
		body, err := req.ToSignResponseRequest()
		if err != nil {
			return invalid(err)
		}
		resp, err := apiClient.GenerateSignResponse(ctx, body)
		if err != nil {
			return "", reportRequestError("sign response", err)
		}
		return ui.RenderSignReply(*resp), nil
	}
	ui.PrintError("invalid request kind: %s", req.Kind)
	return "", fmt.Errorf("invalid request kind")
}
