package entity

// TicTacToe marks and outcomes
const (
	MarkEmpty = ""
	MarkX     = "X"
	MarkO     = "O"
	Draw      = "Draw"
)

// TicTacToeBoard holds the 9 cells in row-major order
type TicTacToeBoard [9]string

// TicTacToeGame is the state returned after a move
type TicTacToeGame struct {
	Board  TicTacToeBoard
	Winner string
	Next   string
	AIMove int
}

// Over reports whether the game has finished
func (g *TicTacToeGame) Over() bool {
	return g.Winner != ""
}

// Status is the line shown above the board
func (g *TicTacToeGame) Status() string {
	switch g.Winner {
	case MarkX:
		return "You win! Great job!"
	case MarkO:
		return "AI wins! Try again!"
	case Draw:
		return "It's a draw!"
	}
	return "Your turn (" + MarkX + ")"
}
