package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/network/standard"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/theshubhamgundu/sahaaya/internal/handler/dto"
)

// SnapshotEvent is the SSE event type carrying a chat view
const SnapshotEvent = "snapshot"

// APIError is a non-2xx answer from the API server
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an APIError with the given status code
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// APIClient wraps Hertz Client for HTTP communication with API Server
type APIClient struct {
	client *client.Client
	server string
}

// NewAPIClient creates a new API client
func NewAPIClient(server string) (*APIClient, error) {
	normalizedServer, err := normalizeServerURL(server)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}

	// the standard dialer is required for streamed bodies
	c, err := client.NewClient(
		client.WithDialTimeout(10*time.Second),
		client.WithMaxIdleConnDuration(60*time.Second),
		client.WithResponseBodyStream(true),
		client.WithDialer(standard.NewDialer()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return &APIClient{client: c, server: normalizedServer}, nil
}

// Server returns the normalized server address
func (c *APIClient) Server() string {
	return c.server
}

// normalizeServerURL normalizes server URL to ensure it has a scheme and no trailing slash
func normalizeServerURL(server string) (string, error) {
	if !strings.Contains(server, "://") {
		server = "http://" + server
	}
	u, err := url.Parse(server)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid server URL")
	}
	return fmt.Sprintf("%s://%s", u.Scheme, u.Host), nil
}

// do sends a JSON request and decodes a JSON answer into out.
// in and out may be nil.
func (c *APIClient) do(ctx context.Context, method, path string, in, out any) error {
	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	req.SetMethod(method)
	req.SetRequestURI(c.server + path)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		body, err := sonic.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		req.Header.SetContentTypeBytes([]byte("application/json"))
		req.SetBody(body)
	}

	if err := c.client.Do(ctx, req, resp); err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	body := resp.Body()
	if code := resp.StatusCode(); code < 200 || code >= 300 {
		return apiError(code, body)
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

func apiError(code int, body []byte) *APIError {
	var payload struct {
		Error string `json:"error"`
	}
	if err := sonic.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return &APIError{StatusCode: code, Message: payload.Error}
	}
	return &APIError{StatusCode: code, Message: strings.TrimSpace(string(body))}
}

// Ping checks that the server answers
func (c *APIClient) Ping(ctx context.Context) error {
	return c.do(ctx, consts.MethodGet, endpointPing, nil, nil)
}

// ============ flows ============

// DetectDistress classifies userInput
func (c *APIClient) DetectDistress(ctx context.Context, userInput string) (*dto.DistressAssessmentResponse, error) {
	var out dto.DistressAssessmentResponse
	if err := c.do(ctx, consts.MethodPost, endpointDetectDistress, dto.DetectDistressRequest{UserInput: userInput}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateSupport asks for a supportive message
func (c *APIClient) GenerateSupport(ctx context.Context, req *dto.GenerateSupportRequest) (*dto.SupportMessageResponse, error) {
	var out dto.SupportMessageResponse
	if err := c.do(ctx, consts.MethodPost, endpointGenerateSupport, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProvideLegalGuidance asks for legal information about a situation
func (c *APIClient) ProvideLegalGuidance(ctx context.Context, situation string) (*dto.LegalGuidanceResponse, error) {
	var out dto.LegalGuidanceResponse
	if err := c.do(ctx, consts.MethodPost, endpointLegalGuidance, dto.LegalGuidanceRequest{SituationDescription: situation}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// InterpretGesture reads one gesture frame given as a data URI
func (c *APIClient) InterpretGesture(ctx context.Context, gestureImageURI string) (*dto.GestureInterpretationResponse, error) {
	var out dto.GestureInterpretationResponse
	if err := c.do(ctx, consts.MethodPost, endpointInterpretGesture, dto.InterpretGestureRequest{GestureImageURI: gestureImageURI}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateSignResponse replies to an interpreted gesture
func (c *APIClient) GenerateSignResponse(ctx context.Context, req *dto.SignResponseRequest) (*dto.SignLanguageReplyResponse, error) {
	var out dto.SignLanguageReplyResponse
	if err := c.do(ctx, consts.MethodPost, endpointSignResponse, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EmotionalSupport runs distress detection and, when needed, support generation
func (c *APIClient) EmotionalSupport(ctx context.Context, userInput string) (*dto.EmotionalSupportResponse, error) {
	var out dto.EmotionalSupportResponse
	if err := c.do(ctx, consts.MethodPost, endpointEmotionalSupport, dto.DetectDistressRequest{UserInput: userInput}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SignInteract sends one frame of a sign conversation. An empty sessionID
// starts a new session.
func (c *APIClient) SignInteract(ctx context.Context, sessionID, gestureImageURI string) (*dto.SignInteractionResponse, error) {
	var out dto.SignInteractionResponse
	req := dto.SignInteractRequest{SessionID: sessionID, GestureImageURI: gestureImageURI}
	if err := c.do(ctx, consts.MethodPost, endpointSignInteract, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EndSignSession forgets a sign conversation
func (c *APIClient) EndSignSession(ctx context.Context, sessionID string) error {
	return c.do(ctx, consts.MethodDelete, fmt.Sprintf(endpointSignSession, url.PathEscape(sessionID)), nil, nil)
}

// TicTacToeMove plays X at index and returns the board after the AI's answer
func (c *APIClient) TicTacToeMove(ctx context.Context, board []string, index int) (*dto.TicTacToeGameResponse, error) {
	var out dto.TicTacToeGameResponse
	req := dto.TicTacToeMoveRequest{Board: board, Index: &index}
	if err := c.do(ctx, consts.MethodPost, endpointTicTacToeMove, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ============ peer chat ============

// ListChat returns the chat as seen by role
func (c *APIClient) ListChat(ctx context.Context, role string) (*dto.ChatMessagesResponse, error) {
	var out dto.ChatMessagesResponse
	if err := c.do(ctx, consts.MethodGet, endpointChatMessages+"?role="+url.QueryEscape(role), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendChat appends a message to the shared chat
func (c *APIClient) SendChat(ctx context.Context, req *dto.SendChatMessageRequest) (*dto.ChatMessage, error) {
	var out dto.ChatMessage
	if err := c.do(ctx, consts.MethodPost, endpointChatMessages, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClearChat removes every chat message
func (c *APIClient) ClearChat(ctx context.Context) error {
	return c.do(ctx, consts.MethodDelete, endpointChatMessages, nil, nil)
}

// StreamChat subscribes to the chat as seen by role. Every snapshot event
// is delivered on the first channel. Both channels are closed when the
// stream ends, or at the next event once ctx is done.
func (c *APIClient) StreamChat(ctx context.Context, role string) (<-chan dto.ChatMessagesResponse, <-chan error, error) {
	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()

	req.SetMethod(consts.MethodGet)
	req.SetRequestURI(c.server + endpointChatStream + "?role=" + url.QueryEscape(role))
	req.Header.Set("Accept", "text/event-stream")

	if err := c.client.Do(ctx, req, resp); err != nil {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}
	if code := resp.StatusCode(); code != consts.StatusOK {
		err := apiError(code, resp.Body())
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
		return nil, nil, err
	}

	bodyStream := resp.BodyStream()
	if bodyStream == nil {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
		return nil, nil, fmt.Errorf("body stream is nil")
	}

	snapCh := make(chan dto.ChatMessagesResponse, 4)
	errCh := make(chan error, 1)

	go func() {
		defer func() {
			close(snapCh)
			close(errCh)
			protocol.ReleaseRequest(req)
			protocol.ReleaseResponse(resp)
		}()

		err := ParseSSE(bodyStream, func(event, data string) bool {
			if event != SnapshotEvent {
				return true
			}
			var snap dto.ChatMessagesResponse
			if err := sonic.UnmarshalString(data, &snap); err != nil {
				errCh <- fmt.Errorf("failed to parse snapshot: %w", err)
				return false
			}
			select {
			case snapCh <- snap:
				return true
			case <-ctx.Done():
				return false
			}
		})
		if err != nil && ctx.Err() == nil {
			select {
			case errCh <- err:
			default:
			}
		}
	}()

	return snapCh, errCh, nil
}

// ParseSSE reads server-sent events from r and hands each dispatched event
// to emit. Reading stops when emit returns false or r is exhausted.
// Events without an explicit type are reported as "message".
func ParseSSE(r io.Reader, emit func(event, data string) bool) error {
	scanner := bufio.NewScanner(r)
	const maxScanTokenSize = 1024 * 1024
	scanner.Buffer(make([]byte, 64*1024), maxScanTokenSize)

	var (
		event string
		data  []string
	)
	dispatch := func() bool {
		if len(data) == 0 {
			event = ""
			return true
		}
		typ := event
		if typ == "" {
			typ = "message"
		}
		payload := strings.Join(data, "\n")
		event, data = "", data[:0]
		return emit(typ, payload)
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			if !dispatch() {
				return nil
			}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			event = value
		case "data":
			data = append(data, value)
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("scanner error: %w", err)
	}
	dispatch()
	return nil
}
