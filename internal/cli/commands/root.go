package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/theshubhamgundu/sahaaya/internal/cli/client"
	"github.com/theshubhamgundu/sahaaya/internal/cli/config"
	"github.com/theshubhamgundu/sahaaya/internal/cli/ui"
)

const version = "0.1.0"

// flowTimeout bounds one flow call
const flowTimeout = 2 * time.Minute

var serverOverride string

// rootCmd is the root command
var rootCmd = &cobra.Command{
	Use:     "sahaayactl",
	Short:   "Sahaaya support CLI",
	Version: version,
	Long: `A command-line companion for the Sahaaya support service. Check in on how you
feel, look up legal guidance, talk through sign language gestures, or join the
peer chat as a user or a supporter.`,
	Example: `  # Point the CLI at a server
  $ sahaayactl config set-server http://localhost:8080

  # Talk about how you feel
  $ sahaayactl support "I feel scared to go home"

  # Ask for legal guidance
  $ sahaayactl legal "My employer has not paid me for three months"

  # Join the peer chat as a supporter
  $ sahaayactl chat --role supporter`,
}

// Execute executes the root command
func Execute() error {
	rootCmd.SetVersionTemplate(formatVersion())
	return rootCmd.Execute()
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVarP(&serverOverride, "server", "s", "", "API server address (overrides config)")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(supportCmd)
	rootCmd.AddCommand(legalCmd)
	rootCmd.AddCommand(gestureCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(ticTacToeCmd)

	rootCmd.SetUsageTemplate(usageTemplate())
	rootCmd.SetHelpTemplate(usageTemplate())
}

func usageTemplate() string {
	return `{{if .Long}}{{.Long}}

{{end}}` + ui.Styles.Bold.Render("USAGE") + `
  {{.UseLine}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}

{{if .HasExample}}` + ui.Styles.Bold.Render("EXAMPLES") + `
{{.Example}}

{{end}}{{if .HasAvailableSubCommands}}` + ui.Styles.Bold.Render("COMMANDS") + `{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasAvailableLocalFlags}}` + ui.Styles.Bold.Render("OPTIONS") + `
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableInheritedFlags}}` + ui.Styles.Bold.Render("GLOBAL OPTIONS") + `
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
}

func formatVersion() string {
	return fmt.Sprintf("sahaayactl version %s\n", version)
}

// newAPIClient builds a client for the configured server or --server
func newAPIClient() (*client.APIClient, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		ui.PrintError("failed to load config: %v", err)
		return nil, nil, fmt.Errorf("config load failed")
	}
	server := cfg.Server
	if serverOverride != "" {
		server = serverOverride
	}

	apiClient, err := client.NewAPIClient(server)
	if err != nil {
		ui.PrintError("failed to create client: %v", err)
		return nil, nil, fmt.Errorf("client creation failed")
	}
	return apiClient, cfg, nil
}

// textArg joins args, or asks for the text when none were given
func textArg(args []string, message string) (string, error) {
	if text := strings.TrimSpace(strings.Join(args, " ")); text != "" {
		return text, nil
	}
	var text string
	if err := survey.AskOne(&survey.Multiline{Message: message}, &text, survey.WithValidator(survey.Required)); err != nil {
		return "", fmt.Errorf("input cancelled")
	}
	return strings.TrimSpace(text), nil
}

// reportRequestError prints a failed call the way the server phrased it
func reportRequestError(action string, err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		ui.PrintError("%s: %s", action, apiErr.Message)
	} else {
		ui.PrintError("%s: %v", action, err)
	}
	return fmt.Errorf("%s failed", action)
}

func flowContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), flowTimeout)
}
