package commands

import (
	"fmt"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/theshubhamgundu/sahaaya/internal/cli/ui"
)

var ticTacToeCmd = &cobra.Command{
	Use:     "tictactoe",
	Aliases: []string{"ttt"},
	Short:   "play a calming game of tic-tac-toe",
	Long:    `Play tic-tac-toe against the server. You are X and always move first.`,
	Args:    cobra.NoArgs,
	RunE:    runTicTacToe,
}

func init() {
	ticTacToeCmd.SilenceUsage = true
}

func runTicTacToe(cmd *cobra.Command, args []string) error {
	apiClient, _, err := newAPIClient()
	if err != nil {
		return err
	}

	ui.PrintWelcomeBanner("Tic-Tac-Toe")
	board := make([]string, 9)
	status := "Your turn (X)"

	for {
		fmt.Println(ui.RenderBoard(board))
		fmt.Println()
		ui.PrintBold("%s", status)

		open := openCells(board)
		if len(open) == 0 {
			break
		}

		var choice string
		prompt := &survey.Select{Message: "Pick a cell:", Options: open}
		if err := survey.AskOne(prompt, &choice); err != nil {
			return fmt.Errorf("game cancelled")
		}
		index, _ := strconv.Atoi(choice)

		ctx, cancel := flowContext()
		resp, err := apiClient.TicTacToeMove(ctx, board, index)
		cancel()
		if err != nil {
			return reportRequestError("move", err)
		}

		board, status = resp.Board, resp.Status
		ui.ClearScreen()
		if resp.Winner == "" {
			continue
		}

		fmt.Println(ui.RenderBoard(board))
		fmt.Println()
		ui.PrintSuccess("%s", status)

		again := false
		if err := survey.AskOne(&survey.Confirm{Message: "Play again?", Default: true}, &again); err != nil || !again {
			return nil
		}
		board, status = make([]string, 9), "Your turn (X)"
		ui.ClearScreen()
	}
	return nil
}

func openCells(board []string) []string {
	var out []string
	for i, cell := range board {
		if cell == "" {
			out = append(out, strconv.Itoa(i))
		}
	}
	return out
}
