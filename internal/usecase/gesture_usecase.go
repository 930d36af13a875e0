package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"github.com/theshubhamgundu/sahaaya/internal/domain"
	"github.com/theshubhamgundu/sahaaya/internal/domain/entity"
	"github.com/theshubhamgundu/sahaaya/internal/prompt"
)

const gestureNoOutputError = "No output from AI model."

type gestureUsecase struct {
	flow   *flowInvoker
	logger *slog.Logger
}

// NewGestureUsecase creates the hand gesture interpretation flow
func NewGestureUsecase(
	model domain.ModelClient,
	prompts *prompt.Catalog,
	policy domain.PolicySource,
	logger *slog.Logger,
) domain.GestureUsecase {
	return &gestureUsecase{
		flow:   newFlowInvoker(model, prompts, policy, logger),
		logger: logger,
	}
}

type gestureReply struct {
	InterpretedText *string  `json:"interpretedText"`
	Confidence      *float64 `json:"confidence"`
	Error           *string  `json:"error"`
}

// Interpret reads one gesture frame.
//
// The frame moves idle -> capturing (decode) -> interpreting (model call) ->
// success or failure. A URI that does not decode is rejected before any model
// call. There are no retries.
func (u *gestureUsecase) Interpret(ctx context.Context, gestureImageURI string) (*entity.GestureInterpretation, error) {
	out := &entity.GestureInterpretation{
		GestureImageURI: gestureImageURI,
		State:           entity.GestureIdle,
	}

	u.transition(ctx, out, entity.GestureCapturing)
	frame, err := ParseDataURI(gestureImageURI)
	if err != nil {
		return nil, domain.NewInvalidImageError(err)
	}

	u.transition(ctx, out, entity.GestureInterpreting)
	policy := u.flow.policy.Policy()

	var reply gestureReply
	resp, err := u.flow.invoke(ctx, &flowCall{
		name:          prompt.InterpretHandGesture,
		data:          prompt.GestureInput{UnclearSentinel: policy.UnclearSentinel},
		media:         []domain.Media{{MIMEType: frame.MIMEType, Data: frame.Data}},
		schema:        gestureSchema,
		relaxedSafety: true,
	}, &reply)
	if err == nil && reply.InterpretedText == nil {
		err = domain.NewModelOutputError(prompt.InterpretHandGesture, "missing interpretedText")
	}
	if err != nil {
		if !u.flow.fallback(ctx, prompt.InterpretHandGesture, err) {
			return nil, err
		}
		if resp != nil && strings.TrimSpace(resp.Text) == "" {
			out.InterpretedText = entity.GestureTextFailed
			out.Error = gestureNoOutputError
		} else {
			out.InterpretedText = entity.GestureTextError
			out.Error = errorText(err)
		}
		u.transition(ctx, out, entity.GestureFailure)
		return out, nil
	}

	out.InterpretedText = strings.TrimSpace(*reply.InterpretedText)
	if reply.Confidence != nil {
		out.Confidence = clamp01(*reply.Confidence)
	}
	if reply.Error != nil {
		out.Error = strings.TrimSpace(*reply.Error)
	}

	if out.Error == "" && gestureUnderstood(out.InterpretedText, policy.UnclearSentinel) {
		u.transition(ctx, out, entity.GestureSuccess)
	} else {
		u.transition(ctx, out, entity.GestureFailure)
	}
	return out, nil
}

func (u *gestureUsecase) transition(ctx context.Context, g *entity.GestureInterpretation, to entity.GestureState) {
	u.logger.DebugContext(ctx, "gesture state", "from", g.State, "to", to)
	g.State = to
}

func gestureUnderstood(text, sentinel string) bool {
	switch {
	case text == "":
		return false
	case strings.EqualFold(text, sentinel):
		return false
	case text == entity.GestureTextFailed, text == entity.GestureTextError:
		return false
	}
	return true
}

// ParseDataURI decodes a base64 data URI of the form data:<mime>;base64,<data>
func ParseDataURI(uri string) (*entity.GestureFrame, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, fmt.Errorf("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("data URI has no payload")
	}
	mime, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return nil, fmt.Errorf("data URI is not base64 encoded")
	}
	// drop parameters such as charset
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	if mime == "" || !strings.Contains(mime, "/") {
		return nil, fmt.Errorf("data URI has no MIME type")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(payload)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("data URI payload is empty")
	}

	return &entity.GestureFrame{MIMEType: strings.ToLower(mime), Data: data, URI: uri}, nil
}
