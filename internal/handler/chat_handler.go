package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/cloudwego/hertz/pkg/protocol/sse"

	"github.com/theshubhamgundu/sahaaya/internal/domain"
	"github.com/theshubhamgundu/sahaaya/internal/domain/entity"
	"github.com/theshubhamgundu/sahaaya/internal/handler/dto"
)

// SnapshotEvent is the SSE event type carrying a full chat view
const SnapshotEvent = "snapshot"

// ChatHandler serves the peer chat between a user and a supporter
type ChatHandler struct {
	usecase domain.ChatRelayUsecase
	logger  *slog.Logger
}

// NewChatHandler creates the chat handler
func NewChatHandler(usecase domain.ChatRelayUsecase, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		usecase: usecase,
		logger:  logger,
	}
}

func viewerRole(c *app.RequestContext) entity.ChatSender {
	return entity.ChatSender(c.DefaultQuery("role", string(entity.SenderUser)))
}

// ListMessages returns a role's view of the chat
//
//	@Summary		List chat messages
//	@Description	Returns the role's greeting followed by the stored messages ordered by timestamp
//	@Tags			Chat
//	@Produce		json
//	@Param			role	query		string	false	"user or supporter"	default(user)
//	@Success		200		{object}	dto.ChatMessagesResponse
//	@Failure		400		{object}	handler.ErrorBody
//	@Failure		503		{object}	handler.ErrorBody
//	@Router			/api/chat/messages [get]
func (h *ChatHandler) ListMessages(ctx context.Context, c *app.RequestContext) {
	msgs, err := h.usecase.History(ctx, viewerRole(c))
	if err != nil {
		h.logger.Error("failed to list chat messages", "error", err)
		ErrorResponse(c, err)
		return
	}
	c.JSON(consts.StatusOK, dto.ToChatMessagesResponse(msgs))
}

// SendMessage appends a message to the chat
//
//	@Summary		Send chat message
//	@Tags			Chat
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.SendChatMessageRequest	true	"Message"
//	@Success		201		{object}	dto.ChatMessage
//	@Failure		400		{object}	handler.ErrorBody
//	@Failure		503		{object}	handler.ErrorBody
//	@Router			/api/chat/messages [post]
func (h *ChatHandler) SendMessage(ctx context.Context, c *app.RequestContext) {
	var req dto.SendChatMessageRequest
	if err := c.BindJSON(&req); err != nil {
		h.logger.Warn("failed to bind request", "error", err)
		BadRequestResponse(c)
		return
	}

	msg, err := h.usecase.Send(ctx, &domain.SendChatMessageRequest{
		Text:       req.Text,
		Sender:     entity.ChatSender(req.Sender),
		SenderName: req.SenderName,
	})
	if err != nil {
		h.logger.Warn("failed to send chat message", "error", err)
		ErrorResponse(c, err)
		return
	}
	c.JSON(consts.StatusCreated, dto.ToChatMessage(msg))
}

// ClearMessages removes the whole chat
//
//	@Summary		Clear chat
//	@Tags			Chat
//	@Success		204
//	@Failure		503	{object}	handler.ErrorBody
//	@Router			/api/chat/messages [delete]
func (h *ChatHandler) ClearMessages(ctx context.Context, c *app.RequestContext) {
	if err := h.usecase.Clear(ctx); err != nil {
		h.logger.Error("failed to clear chat", "error", err)
		ErrorResponse(c, err)
		return
	}
	NoContentResponse(c)
}

// Stream pushes the role's view as an SSE snapshot event on every change
//
//	@Summary		Stream chat snapshots
//	@Description	Server-sent events; each "snapshot" event carries the full view as JSON
//	@Tags			Chat
//	@Produce		text/event-stream
//	@Param			role	query	string	false	"user or supporter"	default(user)
//	@Success		200
//	@Failure		400	{object}	handler.ErrorBody
//	@Router			/api/chat/stream [get]
func (h *ChatHandler) Stream(ctx context.Context, c *app.RequestContext) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	role := viewerRole(c)
	updates, err := h.usecase.Watch(ctx, role)
	if err != nil {
		h.logger.Warn("failed to watch chat", "error", err)
		ErrorResponse(c, err)
		return
	}

	// status must be set before the SSE writer takes over the response
	c.SetStatusCode(consts.StatusOK)
	writer := sse.NewWriter(c)
	defer writer.Close()

	h.logger.Info("chat stream opened", "role", role)
	var seq int
	for snap := range updates {
		seq++
		if err := h.writeSnapshot(writer, seq, snap); err != nil {
			h.logger.Info("chat stream closed", "role", role, "error", err)
			return
		}
	}
}

func (h *ChatHandler) writeSnapshot(w *sse.Writer, seq int, snap []*entity.ChatMessage) error {
	data, err := sonic.Marshal(dto.ToChatMessagesResponse(snap))
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return w.WriteEvent(strconv.Itoa(seq), SnapshotEvent, data)
}
