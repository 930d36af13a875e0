package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theshubhamgundu/sahaaya/internal/cli/client"
	"github.com/theshubhamgundu/sahaaya/internal/cli/config"
	"github.com/theshubhamgundu/sahaaya/internal/cli/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "view or change CLI settings",
}

var configSetServerCmd = &cobra.Command{
	Use:     "set-server <url>",
	Short:   "set the API server address",
	Example: `  $ sahaayactl config set-server http://localhost:8080`,
	Args:    cobra.ExactArgs(1),
	RunE:    runConfigSetServer,
}

var configSetNameCmd = &cobra.Command{
	Use:     "set-name <name>",
	Short:   "set the display name used in peer chat",
	Example: `  $ sahaayactl config set-name Asha`,
	Args:    cobra.ExactArgs(1),
	RunE:    runConfigSetName,
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "show the current settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigView,
}

func init() {
	configCmd.AddCommand(configSetServerCmd)
	configCmd.AddCommand(configSetNameCmd)
	configCmd.AddCommand(configViewCmd)
	configCmd.SilenceUsage = true
}

func runConfigSetServer(cmd *cobra.Command, args []string) error {
	// validates the address before it is stored
	apiClient, err := client.NewAPIClient(args[0])
	if err != nil {
		ui.PrintError("%v", err)
		return fmt.Errorf("invalid server")
	}

	cfg, err := config.Load()
	if err != nil {
		ui.PrintError("failed to load config: %v", err)
		return fmt.Errorf("config load failed")
	}
	cfg.Server = apiClient.Server()
	if err := cfg.Save(); err != nil {
		ui.PrintError("failed to save config: %v", err)
		return fmt.Errorf("config save failed")
	}
	ui.PrintSuccess("Server set to %s", cfg.Server)

	ctx, cancel := flowContext()
	defer cancel()
	if err := apiClient.Ping(ctx); err != nil {
		ui.PrintWarning("server is not reachable yet: %v", err)
	}
	return nil
}

func runConfigSetName(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		ui.PrintError("failed to load config: %v", err)
		return fmt.Errorf("config load failed")
	}
	cfg.SenderName = args[0]
	if err := cfg.Save(); err != nil {
		ui.PrintError("failed to save config: %v", err)
		return fmt.Errorf("config save failed")
	}
	ui.PrintSuccess("Chat name set to %s", cfg.SenderName)
	return nil
}

func runConfigView(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		ui.PrintError("failed to load config: %v", err)
		return fmt.Errorf("config load failed")
	}
	path, _ := config.GetConfigPath()

	ui.PrintBold("Config file: %s", path)
	fmt.Printf("  Server: %s\n", cfg.Server)
	name := cfg.SenderName
	if name == "" {
		name = "(default)"
	}
	fmt.Printf("  Chat name: %s\n", name)
	return nil
}
