package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/theshubhamgundu/sahaaya/internal/domain"
	"github.com/theshubhamgundu/sahaaya/internal/domain/entity"
)

// winLines are the rows, columns and diagonals of the board
var winLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

type gameUsecase struct {
	pick   func(n int) int
	logger *slog.Logger
}

// NewGameUsecase creates the tic-tac-toe opponent. The user plays X, the
// opponent answers with O on a random empty cell.
func NewGameUsecase(logger *slog.Logger) domain.GameUsecase {
	return &gameUsecase{pick: rand.IntN, logger: logger}
}

// Move places X at index and lets the opponent answer
func (u *gameUsecase) Move(ctx context.Context, board entity.TicTacToeBoard, index int) (*entity.TicTacToeGame, error) {
	if err := validateBoard(board); err != nil {
		return nil, err
	}
	if Winner(board) != "" {
		return nil, domain.NewInvalidInputError("game is already over")
	}
	if index < 0 || index >= len(board) {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("index must be between 0 and %d", len(board)-1))
	}
	if board[index] != entity.MarkEmpty {
		return nil, domain.NewInvalidInputError("cell is already taken")
	}

	board[index] = entity.MarkX
	game := &entity.TicTacToeGame{Board: board, AIMove: -1, Winner: Winner(board)}

	if !game.Over() {
		empty := emptyCells(board)
		move := empty[u.pick(len(empty))]
		game.Board[move] = entity.MarkO
		game.AIMove = move
		game.Winner = Winner(game.Board)
	}
	if !game.Over() {
		game.Next = entity.MarkX
	}

	u.logger.DebugContext(ctx, "tic-tac-toe move", "index", index, "ai_move", game.AIMove, "winner", game.Winner)
	return game, nil
}

// Winner returns X or O for a completed line, Draw for a full board and ""
// while the game is open
func Winner(b entity.TicTacToeBoard) string {
	for _, line := range winLines {
		first := b[line[0]]
		if first != entity.MarkEmpty && first == b[line[1]] && first == b[line[2]] {
			return first
		}
	}
	if len(emptyCells(b)) == 0 {
		return entity.Draw
	}
	return ""
}

func emptyCells(b entity.TicTacToeBoard) []int {
	var out []int
	for i, c := range b {
		if c == entity.MarkEmpty {
			out = append(out, i)
		}
	}
	return out
}

// validateBoard checks the marks and that it is X's turn
func validateBoard(b entity.TicTacToeBoard) error {
	xs, oCount := 0, 0
	for _, c := range b {
		switch c {
		case entity.MarkEmpty:
		case entity.MarkX:
			xs++
		case entity.MarkO:
			oCount++
		default:
			return domain.NewInvalidInputError(fmt.Sprintf("invalid cell value %q", c))
		}
	}
	if xs != oCount {
		return domain.NewInvalidInputError("it is not X's turn")
	}
	return nil
}
