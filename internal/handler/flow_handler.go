package handler

import (
	"context"
	"log/slog"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/theshubhamgundu/sahaaya/internal/domain"
	"github.com/theshubhamgundu/sahaaya/internal/domain/entity"
	"github.com/theshubhamgundu/sahaaya/internal/handler/dto"
	"github.com/theshubhamgundu/sahaaya/pkg/logger"
)

// FlowUsecases groups the model-backed flows served by FlowHandler
type FlowUsecases struct {
	Distress         domain.DistressUsecase
	Support          domain.SupportUsecase
	Legal            domain.LegalGuidanceUsecase
	Gesture          domain.GestureUsecase
	SignResponse     domain.SignResponseUsecase
	EmotionalSupport domain.EmotionalSupportUsecase
	SignInteraction  domain.SignInteractionUsecase
}

// FlowHandler serves the assistance flows
type FlowHandler struct {
	flows  FlowUsecases
	logger *slog.Logger
}

// NewFlowHandler creates the flow handler
func NewFlowHandler(flows FlowUsecases, logger *slog.Logger) *FlowHandler {
	return &FlowHandler{flows: flows, logger: logger}
}

// bind decodes the JSON body, answering 400 when it does not fit req
func (h *FlowHandler) bind(c *app.RequestContext, req any) bool {
	if err := c.BindJSON(req); err != nil {
		h.logger.Warn("failed to bind request", "path", string(c.Path()), "error", err)
		BadRequestResponse(c)
		return false
	}
	return true
}

func (h *FlowHandler) fail(ctx context.Context, c *app.RequestContext, op string, err error) {
	l := logger.WithError(h.requestLogger(ctx), err)
	if domain.IsInvalidInput(err) {
		l.WarnContext(ctx, op+" rejected")
	} else {
		l.ErrorContext(ctx, op+" failed")
	}
	ErrorResponse(c, err)
}

// requestLogger prefers the request-scoped logger set by the logging middleware
func (h *FlowHandler) requestLogger(ctx context.Context) *slog.Logger {
	if l := logger.FromContext(ctx); l != slog.Default() {
		return l
	}
	return h.logger
}

// DetectDistress classifies a user message
//
//	@Summary		Detect emotional distress
//	@Description	Classifies a message for emotional distress and the need for legal information
//	@Tags			Flows
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.DetectDistressRequest		true	"User message"
//	@Success		200		{object}	dto.DistressAssessmentResponse
//	@Failure		400		{object}	handler.ErrorBody
//	@Failure		500		{object}	handler.ErrorBody
//	@Router			/api/detect-emotional-distress [post]
func (h *FlowHandler) DetectDistress(ctx context.Context, c *app.RequestContext) {
	var req dto.DetectDistressRequest
	if !h.bind(c, &req) {
		return
	}
	h.requestLogger(ctx).InfoContext(ctx, "distress detection requested", logger.TextAttrs("user_input", req.UserInput))

	a, err := h.flows.Distress.Detect(ctx, req.UserInput)
	if err != nil {
		h.fail(ctx, c, "distress detection", err)
		return
	}
	c.JSON(consts.StatusOK, dto.ToDistressAssessmentResponse(a))
}

// GenerateSupport writes a supportive message
//
//	@Summary		Generate personalized support
//	@Description	Writes a supportive message in the user's language, with legal guidance when requested
//	@Tags			Flows
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.GenerateSupportRequest	true	"Situation"
//	@Success		200		{object}	dto.SupportMessageResponse
//	@Failure		400		{object}	handler.ErrorBody
//	@Failure		500		{object}	handler.ErrorBody
//	@Router			/api/generate-personalized-support [post]
func (h *FlowHandler) GenerateSupport(ctx context.Context, c *app.RequestContext) {
	var req dto.GenerateSupportRequest
	if !h.bind(c, &req) {
		return
	}
	h.requestLogger(ctx).InfoContext(ctx, "support requested",
		logger.TextAttrs("situation", req.Situation),
		"legal_needed", req.LegalInformationNeeded,
		"language", req.InputLanguage,
	)

	m, err := h.flows.Support.Generate(ctx, &entity.SupportRequest{
		Situation:              req.Situation,
		EmotionalState:         req.EmotionalState,
		LegalInformationNeeded: req.LegalInformationNeeded,
		InputLanguage:          req.InputLanguage,
	})
	if err != nil {
		h.fail(ctx, c, "support generation", err)
		return
	}
	c.JSON(consts.StatusOK, dto.ToSupportMessageResponse(m))
}

// ProvideLegalGuidance returns legal information for a situation
//
//	@Summary		Provide relevant legal guidance
//	@Description	Returns legal rights, laws, procedures and contacts for a situation
//	@Tags			Flows
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.LegalGuidanceRequest	true	"Situation"
//	@Success		200		{object}	dto.LegalGuidanceResponse
//	@Failure		400		{object}	handler.ErrorBody
//	@Failure		500		{object}	handler.ErrorBody
//	@Router			/api/provide-relevant-legal-guidance [post]
func (h *FlowHandler) ProvideLegalGuidance(ctx context.Context, c *app.RequestContext) {
	var req dto.LegalGuidanceRequest
	if !h.bind(c, &req) {
		return
	}
	h.requestLogger(ctx).InfoContext(ctx, "legal guidance requested", logger.TextAttrs("situation", req.SituationDescription))

	g, err := h.flows.Legal.Provide(ctx, req.SituationDescription)
	if err != nil {
		h.fail(ctx, c, "legal guidance", err)
		return
	}
	c.JSON(consts.StatusOK, dto.ToLegalGuidanceResponse(g))
}

// InterpretGesture reads one hand gesture frame
//
//	@Summary		Interpret hand gesture
//	@Description	Interprets a sign language gesture from a base64 data URI image
//	@Tags			Sign language
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.InterpretGestureRequest	true	"Gesture frame"
//	@Success		200		{object}	dto.GestureInterpretationResponse
//	@Failure		400		{object}	handler.ErrorBody
//	@Failure		500		{object}	handler.ErrorBody
//	@Router			/api/interpret-hand-gesture [post]
func (h *FlowHandler) InterpretGesture(ctx context.Context, c *app.RequestContext) {
	var req dto.InterpretGestureRequest
	if err := c.BindJSON(&req); err != nil {
		h.logger.Warn("failed to bind request", "path", string(c.Path()), "error", err)
		ErrorResponse(c, domain.NewInvalidImageError(err))
		return
	}

	g, err := h.flows.Gesture.Interpret(ctx, req.GestureImageURI)
	if err != nil {
		h.fail(ctx, c, "gesture interpretation", err)
		return
	}
	c.JSON(consts.StatusOK, dto.ToGestureInterpretationResponse(g))
}

// GenerateSignResponse answers an interpreted gesture
//
//	@Summary		Generate sign language response
//	@Description	Replies to an interpreted gesture in conversational text
//	@Tags			Sign language
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.SignResponseRequest	true	"Interpreted gesture"
//	@Success		200		{object}	dto.SignLanguageReplyResponse
//	@Failure		400		{object}	handler.ErrorBody
//	@Failure		500		{object}	handler.ErrorBody
//	@Router			/api/generate-sign-language-response [post]
func (h *FlowHandler) GenerateSignResponse(ctx context.Context, c *app.RequestContext) {
	var req dto.SignResponseRequest
	if !h.bind(c, &req) {
		return
	}

	r, err := h.flows.SignResponse.Respond(ctx, req.InterpretedGestureText, req.ConversationContext)
	if err != nil {
		h.fail(ctx, c, "sign response", err)
		return
	}
	c.JSON(consts.StatusOK, dto.ToSignLanguageReplyResponse(r))
}

// EmotionalSupport runs distress detection and, when legal information is
// needed, support generation
//
//	@Summary		Emotional support
//	@Description	Classifies the message, then writes a support message with legal guidance when needed
//	@Tags			Flows
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.DetectDistressRequest	true	"User message"
//	@Success		200		{object}	dto.EmotionalSupportResponse
//	@Failure		400		{object}	handler.ErrorBody
//	@Failure		500		{object}	handler.ErrorBody
//	@Router			/api/emotional-support [post]
func (h *FlowHandler) EmotionalSupport(ctx context.Context, c *app.RequestContext) {
	var req dto.DetectDistressRequest
	if !h.bind(c, &req) {
		return
	}
	h.requestLogger(ctx).InfoContext(ctx, "emotional support requested", logger.TextAttrs("user_input", req.UserInput))

	r, err := h.flows.EmotionalSupport.Assist(ctx, req.UserInput)
	if err != nil {
		h.fail(ctx, c, "emotional support", err)
		return
	}
	c.JSON(consts.StatusOK, dto.ToEmotionalSupportResponse(r))
}

// SignInteract interprets a frame and replies within a session
//
//	@Summary		Sign language interaction
//	@Description	Interprets a gesture and replies using the session's recent turns as context
//	@Tags			Sign language
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.SignInteractRequest	true	"Gesture frame and session"
//	@Success		200		{object}	dto.SignInteractionResponse
//	@Failure		400		{object}	handler.ErrorBody
//	@Failure		500		{object}	handler.ErrorBody
//	@Router			/api/sign-language/interact [post]
func (h *FlowHandler) SignInteract(ctx context.Context, c *app.RequestContext) {
	var req dto.SignInteractRequest
	if err := c.BindJSON(&req); err != nil {
		h.logger.Warn("failed to bind request", "path", string(c.Path()), "error", err)
		ErrorResponse(c, domain.NewInvalidImageError(err))
		return
	}

	s, err := h.flows.SignInteraction.Interact(ctx, req.SessionID, req.GestureImageURI)
	if err != nil {
		h.fail(ctx, c, "sign interaction", err)
		return
	}
	h.requestLogger(ctx).InfoContext(ctx, "sign interaction",
		"session_id", s.SessionID,
		"state", s.Interpretation.State,
		"turns", len(s.Turns),
	)
	c.JSON(consts.StatusOK, dto.ToSignInteractionResponse(s))
}

// EndSignSession forgets a sign session
//
//	@Summary		End sign language session
//	@Tags			Sign language
//	@Param			id	path	string	true	"Session ID"
//	@Success		204
//	@Failure		400	{object}	handler.ErrorBody
//	@Failure		503	{object}	handler.ErrorBody
//	@Router			/api/sign-language/sessions/{id} [delete]
func (h *FlowHandler) EndSignSession(ctx context.Context, c *app.RequestContext) {
	id := c.Param("id")
	if err := h.flows.SignInteraction.EndSession(ctx, id); err != nil {
		h.fail(ctx, c, "end sign session", err)
		return
	}
	NoContentResponse(c)
}
