package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/theshubhamgundu/sahaaya/internal/cli/commands"
	"github.com/theshubhamgundu/sahaaya/internal/cli/ui"
)

func main() {
	if err := commands.Execute(); err != nil {
		if msg := err.Error(); strings.Contains(msg, "unknown command") {
			ui.PrintError("%s", msg)
			fmt.Println("\nRun 'sahaayactl --help' for usage.")
		}
		os.Exit(1)
	}
}
