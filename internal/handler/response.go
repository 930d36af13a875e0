package handler

import (
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/theshubhamgundu/sahaaya/internal/domain"
)

// ErrorBody is the body of every failed request
type ErrorBody struct {
	Error string `json:"error"`
}

// ErrorResponse writes err as {error} with a status derived from its kind.
// Internal details are never exposed.
func ErrorResponse(c *app.RequestContext, err error) {
	userMessage := func(fallback string) string {
		var de *domain.DomainError
		if errors.As(err, &de) && de.UserMessage() != "" {
			return de.UserMessage()
		}
		return fallback
	}

	switch {
	case domain.IsInvalidInput(err):
		c.JSON(consts.StatusBadRequest, ErrorBody{Error: userMessage(domain.MsgInvalidInput)})
	case domain.IsNotFound(err):
		c.JSON(consts.StatusNotFound, ErrorBody{Error: userMessage("Not found")})
	case domain.IsUnavailable(err):
		c.JSON(consts.StatusServiceUnavailable, ErrorBody{Error: userMessage("Service unavailable")})
	case domain.IsModelError(err):
		c.JSON(consts.StatusInternalServerError, ErrorBody{Error: userMessage(domain.MsgInternal)})
	default:
		c.JSON(consts.StatusInternalServerError, ErrorBody{Error: domain.MsgInternal})
	}
}

// BadRequestResponse writes a 400 with the generic validation message
func BadRequestResponse(c *app.RequestContext) {
	c.JSON(consts.StatusBadRequest, ErrorBody{Error: domain.MsgInvalidInput})
}

// NoContentResponse returns 204, used by deletes
func NoContentResponse(c *app.RequestContext) {
	c.Status(consts.StatusNoContent)
}
