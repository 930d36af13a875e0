package handler

import (
	"context"
	"log/slog"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/theshubhamgundu/sahaaya/internal/domain"
	"github.com/theshubhamgundu/sahaaya/internal/domain/entity"
	"github.com/theshubhamgundu/sahaaya/internal/handler/dto"
)

// GameHandler serves the tic-tac-toe game
type GameHandler struct {
	usecase domain.GameUsecase
	logger  *slog.Logger
}

// NewGameHandler creates the game handler
func NewGameHandler(usecase domain.GameUsecase, logger *slog.Logger) *GameHandler {
	return &GameHandler{usecase: usecase, logger: logger}
}

// Move plays the user's X and the AI's answer
//
//	@Summary		Tic-tac-toe move
//	@Tags			Games
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.TicTacToeMoveRequest	true	"Board and move"
//	@Success		200		{object}	dto.TicTacToeGameResponse
//	@Failure		400		{object}	handler.ErrorBody
//	@Router			/api/games/tic-tac-toe/move [post]
func (h *GameHandler) Move(ctx context.Context, c *app.RequestContext) {
	var req dto.TicTacToeMoveRequest
	if err := c.BindJSON(&req); err != nil || req.Index == nil {
		BadRequestResponse(c)
		return
	}

	var board entity.TicTacToeBoard
	if len(req.Board) != len(board) {
		ErrorResponse(c, domain.NewInvalidInputError("board must have 9 cells"))
		return
	}
	copy(board[:], req.Board)

	game, err := h.usecase.Move(ctx, board, *req.Index)
	if err != nil {
		h.logger.Debug("move rejected", "error", err)
		ErrorResponse(c, err)
		return
	}
	c.JSON(consts.StatusOK, dto.ToTicTacToeGameResponse(game))
}
