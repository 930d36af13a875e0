package dto

import (
	"github.com/theshubhamgundu/sahaaya/internal/domain/entity"
)

// TicTacToeMoveRequest is the body of POST /api/games/tic-tac-toe/move.
// board holds 9 cells of "", "X" or "O"; the user plays X at index.
type TicTacToeMoveRequest struct {
	Board []string `json:"board"`
	Index *int     `json:"index"`
}

// TicTacToeGameResponse is the board after the user's and the AI's move
type TicTacToeGameResponse struct {
	Board  []string `json:"board"`
	Winner string   `json:"winner,omitempty"`
	Next   string   `json:"next,omitempty"`
	AIMove *int     `json:"aiMove,omitempty"`
	Status string   `json:"status"`
}

// ToTicTacToeGameResponse converts entity to response DTO
func ToTicTacToeGameResponse(g *entity.TicTacToeGame) TicTacToeGameResponse {
	resp := TicTacToeGameResponse{
		Board:  g.Board[:],
		Winner: g.Winner,
		Next:   g.Next,
		Status: g.Status(),
	}
	if g.AIMove >= 0 {
		move := g.AIMove
		resp.AIMove = &move
	}
	return resp
}
