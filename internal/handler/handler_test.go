package handler_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theshubhamgundu/sahaaya/internal/domain"
	"github.com/theshubhamgundu/sahaaya/internal/domain/entity"
	"github.com/theshubhamgundu/sahaaya/internal/domain/mocks"
	"github.com/theshubhamgundu/sahaaya/internal/handler"
	"github.com/theshubhamgundu/sahaaya/internal/infrastructure/chatlog"
	"github.com/theshubhamgundu/sahaaya/internal/prompt"
	"github.com/theshubhamgundu/sahaaya/internal/router"
	"github.com/theshubhamgundu/sahaaya/internal/usecase"
)

var prompts = prompt.MustLoad()

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testServer struct {
	h       *server.Hertz
	model   *mocks.MockModelClient
	chatLog *chatlog.MemoryLog
}

type serverOption func(*testDeps)

type testDeps struct {
	policy   domain.PolicySource
	chat     domain.ChatRelayUsecase
	checks   map[string]handler.Pinger
	sessions domain.SignSessionStore
}

func withPolicy(p domain.PolicySource) serverOption {
	return func(d *testDeps) { d.policy = p }
}

func withChat(c domain.ChatRelayUsecase) serverOption {
	return func(d *testDeps) { d.chat = c }
}

func withChecks(checks map[string]handler.Pinger) serverOption {
	return func(d *testDeps) { d.checks = checks }
}

// newTestServer wires the real usecases over a stub model and in-memory stores
func newTestServer(t *testing.T, model *mocks.MockModelClient, opts ...serverOption) *testServer {
	t.Helper()
	if model == nil {
		model = &mocks.MockModelClient{}
	}
	logger := discardLogger()
	chatLog := chatlog.NewMemoryLog(100)

	deps := &testDeps{sessions: &mocks.MockSignSessionStore{}}
	for _, opt := range opts {
		opt(deps)
	}
	if deps.chat == nil {
		deps.chat = usecase.NewChatRelayUsecase(chatLog, logger)
	}

	distress := usecase.NewDistressUsecase(model, prompts, deps.policy, logger)
	support := usecase.NewSupportUsecase(model, prompts, deps.policy, logger)
	gesture := usecase.NewGestureUsecase(model, prompts, deps.policy, logger)
	signResponse := usecase.NewSignResponseUsecase(model, prompts, deps.policy, logger)

	h := server.New(server.WithHostPorts("127.0.0.1:0"))
	router.Setup(h, router.Handlers{
		Flow: handler.NewFlowHandler(handler.FlowUsecases{
			Distress:         distress,
			Support:          support,
			Legal:            usecase.NewLegalGuidanceUsecase(model, prompts, deps.policy, nil, 0, logger),
			Gesture:          gesture,
			SignResponse:     signResponse,
			EmotionalSupport: usecase.NewEmotionalSupportUsecase(distress, support, deps.policy, logger),
			SignInteraction:  usecase.NewSignInteractionUsecase(gesture, signResponse, deps.sessions, deps.policy, logger),
		}, logger),
		Chat:   handler.NewChatHandler(deps.chat, logger),
		Game:   handler.NewGameHandler(usecase.NewGameUsecase(logger), logger),
		Health: handler.NewHealthHandler(deps.checks),
	})
	return &testServer{h: h, model: model, chatLog: chatLog}
}

func (s *testServer) do(method, path, body string) (int, []byte) {
	var b *ut.Body
	if body != "" {
		b = &ut.Body{Body: bytes.NewBufferString(body), Len: len(body)}
	}
	w := ut.PerformRequest(s.h.Engine, method, path, b,
		ut.Header{Key: "Content-Type", Value: "application/json"})
	resp := w.Result()
	return resp.StatusCode(), resp.Body()
}

func decode(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, sonic.Unmarshal(body, &out), string(body))
	return out
}

func TestFlowEndpoints_RejectEmptyBody(t *testing.T) {
	paths := map[string]string{
		"/api/detect-emotional-distress":       domain.MsgInvalidInput,
		"/api/generate-personalized-support":   domain.MsgInvalidInput,
		"/api/provide-relevant-legal-guidance": domain.MsgInvalidInput,
		"/api/generate-sign-language-response": domain.MsgInvalidInput,
		"/api/emotional-support":               domain.MsgInvalidInput,
		"/api/interpret-hand-gesture":          domain.MsgInvalidImageData,
		"/api/sign-language/interact":          domain.MsgInvalidImageData,
	}
	s := newTestServer(t, nil)

	for path, want := range paths {
		t.Run(path, func(t *testing.T) {
			for _, body := range []string{`{}`, `{"userInput":"   ","situation":" ","situationDescription":"","interpretedGestureText":""}`} {
				code, raw := s.do(consts.MethodPost, path, body)
				assert.Equal(t, consts.StatusBadRequest, code)
				assert.Equal(t, want, decode(t, raw)["error"])
			}
		})
	}
	assert.Empty(t, s.model.Requests(), "validation happens before any model call")
}

func TestFlowEndpoints_RejectWrongTypes(t *testing.T) {
	s := newTestServer(t, nil)

	code, raw := s.do(consts.MethodPost, "/api/detect-emotional-distress", `{"userInput":42}`)
	assert.Equal(t, consts.StatusBadRequest, code)
	assert.Equal(t, domain.MsgInvalidInput, decode(t, raw)["error"])

	code, _ = s.do(consts.MethodPost, "/api/provide-relevant-legal-guidance", `not json`)
	assert.Equal(t, consts.StatusBadRequest, code)
}

func TestInterpretHandGesture_InvalidImage(t *testing.T) {
	s := newTestServer(t, nil)

	code, raw := s.do(consts.MethodPost, "/api/interpret-hand-gesture", `{"gestureImageUri":"not-a-data-uri"}`)

	assert.Equal(t, consts.StatusBadRequest, code)
	assert.JSONEq(t, `{"error":"Invalid image data"}`, string(raw))
	assert.Empty(t, s.model.Requests())
}

func TestInterpretHandGesture_Success(t *testing.T) {
	model := &mocks.MockModelClient{GenerateFunc: mocks.ReplyWith(`{"interpretedText":"Hello","confidence":3}`)}
	s := newTestServer(t, model)

	code, raw := s.do(consts.MethodPost, "/api/interpret-hand-gesture", `{"gestureImageUri":"data:image/png;base64,aGk="}`)
	require.Equal(t, consts.StatusOK, code, string(raw))

	got := decode(t, raw)
	assert.Equal(t, "Hello", got["interpretedText"])
	assert.Equal(t, 1.0, got["confidence"])
	assert.Equal(t, "success", got["state"])
}

func TestDetectEmotionalDistress(t *testing.T) {
	model := &mocks.MockModelClient{GenerateFunc: mocks.ReplyWith(`{
		"emotionalDistressDetected": true,
		"distressType": "anxiety",
		"affirmation": "You are brave for reaching out.",
		"calmingResponse": "Take a slow breath.",
		"legalInformationNeeded": false,
		"detectedLanguage": "en"
	}`)}
	s := newTestServer(t, model)

	code, raw := s.do(consts.MethodPost, "/api/detect-emotional-distress", `{"userInput":"I can't stop shaking, I'm so scared"}`)
	require.Equal(t, consts.StatusOK, code, string(raw))

	got := decode(t, raw)
	assert.Equal(t, true, got["emotionalDistressDetected"])
	assert.Equal(t, "anxiety", got["distressType"])
	assert.NotEmpty(t, got["affirmation"])
	assert.Equal(t, "en", got["detectedLanguage"])
	assert.NotContains(t, got, "error")
}

func TestDetectEmotionalDistress_NotDistressed(t *testing.T) {
	model := &mocks.MockModelClient{GenerateFunc: mocks.ReplyWith(
		`{"emotionalDistressDetected":false,"affirmation":"x","calmingResponse":"y","legalInformationNeeded":false}`)}
	s := newTestServer(t, model)

	code, raw := s.do(consts.MethodPost, "/api/detect-emotional-distress", `{"userInput":"What time is it?"}`)
	require.Equal(t, consts.StatusOK, code)

	got := decode(t, raw)
	assert.Equal(t, false, got["emotionalDistressDetected"])
	assert.NotContains(t, got, "affirmation")
	assert.NotContains(t, got, "calmingResponse")
	assert.Equal(t, "en", got["detectedLanguage"])
}

func TestGeneratePersonalizedSupport_LegalGuidanceKey(t *testing.T) {
	model := &mocks.MockModelClient{GenerateFunc: mocks.ReplyWith(`{"message":"You are not alone.","legalGuidance":""}`)}
	s := newTestServer(t, model)

	_, raw := s.do(consts.MethodPost, "/api/generate-personalized-support",
		`{"situation":"harassed at work","emotionalState":"anxious","legalInformationNeeded":true}`)
	got := decode(t, raw)
	assert.Contains(t, got, "legalGuidance")
	assert.Equal(t, "", got["legalGuidance"])

	_, raw = s.do(consts.MethodPost, "/api/generate-personalized-support",
		`{"situation":"harassed at work","emotionalState":"anxious","legalInformationNeeded":false}`)
	got = decode(t, raw)
	assert.NotContains(t, got, "legalGuidance")
	assert.Equal(t, "You are not alone.", got["message"])
}

func TestProvideLegalGuidance_AllFields(t *testing.T) {
	model := &mocks.MockModelClient{GenerateFunc: mocks.ReplyWith(`{"includeResources":true}`)}
	s := newTestServer(t, model)

	for i := 0; i < 2; i++ {
		code, raw := s.do(consts.MethodPost, "/api/provide-relevant-legal-guidance", `{"situationDescription":"my employer withholds wages"}`)
		require.Equal(t, consts.StatusOK, code)

		info, ok := decode(t, raw)["legalGuidance"].(map[string]any)
		require.True(t, ok)
		for _, k := range []string{"legalRights", "applicableLaws", "complaintFilingProcedures", "verifiedHelplines", "ngos", "supportCenters"} {
			assert.NotEmpty(t, info[k], k)
		}
	}
}

func TestFlow_ModelFailureWithoutFallback(t *testing.T) {
	model := &mocks.MockModelClient{GenerateFunc: func(ctx context.Context, req *domain.GenerateRequest) (*domain.GenerateResponse, error) {
		return nil, errors.New("upstream 503")
	}}
	policy := domain.DefaultFlowPolicy()
	policy.FallbackOnError = false
	s := newTestServer(t, model, withPolicy(domain.StaticPolicy(policy)))

	code, raw := s.do(consts.MethodPost, "/api/detect-emotional-distress", `{"userInput":"help"}`)
	assert.Equal(t, consts.StatusInternalServerError, code)
	assert.NotContains(t, string(raw), "upstream 503")
	assert.Contains(t, decode(t, raw), "error")
}

func TestFlow_ModelFailureFallback(t *testing.T) {
	model := &mocks.MockModelClient{GenerateFunc: func(ctx context.Context, req *domain.GenerateRequest) (*domain.GenerateResponse, error) {
		return nil, errors.New("upstream 503")
	}}
	s := newTestServer(t, model)

	code, raw := s.do(consts.MethodPost, "/api/generate-sign-language-response", `{"interpretedGestureText":"hello"}`)
	require.Equal(t, consts.StatusOK, code)
	got := decode(t, raw)
	assert.NotEmpty(t, got["responseText"])
	assert.NotEmpty(t, got["error"])
}

func TestEmotionalSupport(t *testing.T) {
	model := &mocks.MockModelClient{GenerateFunc: func(ctx context.Context, req *domain.GenerateRequest) (*domain.GenerateResponse, error) {
		if req.Flow == prompt.DetectEmotionalDistress {
			return &domain.GenerateResponse{Text: `{"emotionalDistressDetected":true,"distressType":"fear","affirmation":"a","calmingResponse":"c","legalInformationNeeded":true,"detectedLanguage":"hi"}`}, nil
		}
		return &domain.GenerateResponse{Text: `{"message":"Aap akele nahi hain.","legalGuidance":"helpline 181"}`}, nil
	}}
	s := newTestServer(t, model)

	code, raw := s.do(consts.MethodPost, "/api/emotional-support", `{"userInput":"mujhe dar lag raha hai"}`)
	require.Equal(t, consts.StatusOK, code, string(raw))

	got := decode(t, raw)
	assessment := got["assessment"].(map[string]any)
	assert.Equal(t, "fear", assessment["distressType"])
	support := got["support"].(map[string]any)
	assert.Equal(t, "helpline 181", support["legalGuidance"])
	assert.Len(t, model.Requests(), 2)
}

func TestSignInteract(t *testing.T) {
	model := &mocks.MockModelClient{GenerateFunc: func(ctx context.Context, req *domain.GenerateRequest) (*domain.GenerateResponse, error) {
		if req.Flow == prompt.InterpretHandGesture {
			return &domain.GenerateResponse{Text: `{"interpretedText":"Thank you","confidence":0.9}`}, nil
		}
		return &domain.GenerateResponse{Text: `{"responseText":"You're welcome!"}`}, nil
	}}
	s := newTestServer(t, model)

	code, raw := s.do(consts.MethodPost, "/api/sign-language/interact", `{"sessionId":"s-1","gestureImageUri":"data:image/png;base64,aGk="}`)
	require.Equal(t, consts.StatusOK, code, string(raw))

	got := decode(t, raw)
	assert.Equal(t, "s-1", got["sessionId"])
	assert.Equal(t, "success", got["state"])
	assert.Equal(t, "You're welcome!", got["reply"].(map[string]any)["responseText"])
	assert.Len(t, got["turns"], 2)

	code, _ = s.do(consts.MethodDelete, "/api/sign-language/sessions/s-1", "")
	assert.Equal(t, consts.StatusNoContent, code)
}

func TestChatEndpoints(t *testing.T) {
	s := newTestServer(t, nil)

	code, raw := s.do(consts.MethodPost, "/api/chat/messages", `{"text":"hello","sender":"user"}`)
	require.Equal(t, consts.StatusCreated, code, string(raw))
	sent := decode(t, raw)
	assert.Equal(t, "You", sent["senderName"])

	code, _ = s.do(consts.MethodPost, "/api/chat/messages", `{"text":"hi, I'm here","sender":"supporter","senderName":"Asha"}`)
	require.Equal(t, consts.StatusCreated, code)

	code, raw = s.do(consts.MethodGet, "/api/chat/messages?role=supporter", "")
	require.Equal(t, consts.StatusOK, code)
	msgs := decode(t, raw)["messages"].([]any)
	require.Len(t, msgs, 3)
	assert.Equal(t, "system-supporter", msgs[0].(map[string]any)["id"])
	assert.Equal(t, sent["id"], msgs[1].(map[string]any)["id"])
	assert.Equal(t, "Asha", msgs[2].(map[string]any)["senderName"])

	code, _ = s.do(consts.MethodDelete, "/api/chat/messages", "")
	assert.Equal(t, consts.StatusNoContent, code)

	_, raw = s.do(consts.MethodGet, "/api/chat/messages", "")
	assert.Len(t, decode(t, raw)["messages"], 1)
}

func TestChatEndpoints_Validation(t *testing.T) {
	s := newTestServer(t, nil)

	code, _ := s.do(consts.MethodGet, "/api/chat/messages?role=admin", "")
	assert.Equal(t, consts.StatusBadRequest, code)

	for _, body := range []string{`{"text":"","sender":"user"}`, `{"text":"x","sender":"system"}`, `{"text":1}`} {
		code, raw := s.do(consts.MethodPost, "/api/chat/messages", body)
		assert.Equal(t, consts.StatusBadRequest, code, body)
		assert.Contains(t, decode(t, raw), "error")
	}

	code, _ = s.do(consts.MethodGet, "/api/chat/stream?role=nobody", "")
	assert.Equal(t, consts.StatusBadRequest, code)
}

func TestChatEndpoints_StoreUnavailable(t *testing.T) {
	relay := &mocks.MockChatRelayUsecase{
		HistoryFunc: func(ctx context.Context, viewer entity.ChatSender) ([]*entity.ChatMessage, error) {
			return nil, domain.NewUnavailableError("chat log", errors.New("dial tcp: refused"))
		},
	}
	s := newTestServer(t, nil, withChat(relay))

	code, raw := s.do(consts.MethodGet, "/api/chat/messages", "")
	assert.Equal(t, consts.StatusServiceUnavailable, code)
	assert.NotContains(t, string(raw), "refused")
}

func TestTicTacToeMove(t *testing.T) {
	s := newTestServer(t, nil)

	code, raw := s.do(consts.MethodPost, "/api/games/tic-tac-toe/move", `{"board":["X","X","","O","O","","","",""],"index":2}`)
	require.Equal(t, consts.StatusOK, code, string(raw))
	got := decode(t, raw)
	assert.Equal(t, "X", got["winner"])
	assert.Equal(t, "You win! Great job!", got["status"])
	assert.NotContains(t, got, "aiMove")

	code, raw = s.do(consts.MethodPost, "/api/games/tic-tac-toe/move", `{"board":["","","","","","","","",""],"index":4}`)
	require.Equal(t, consts.StatusOK, code)
	got = decode(t, raw)
	assert.Contains(t, got, "aiMove")
	assert.Equal(t, "X", got["next"])

	for _, body := range []string{
		`{"board":["","",""],"index":0}`,
		`{"board":["X","","","","","","","",""],"index":0}`,
		`{"board":["","","","","","","","",""]}`,
		`{"board":["","","","","","","","",""],"index":12}`,
	} {
		code, _ := s.do(consts.MethodPost, "/api/games/tic-tac-toe/move", body)
		assert.Equal(t, consts.StatusBadRequest, code, body)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil, withChecks(map[string]handler.Pinger{
		"chat_log": handler.PingFunc(func(ctx context.Context) error { return nil }),
		"model":    nil,
	}))

	code, raw := s.do(consts.MethodGet, "/ping", "")
	assert.Equal(t, consts.StatusOK, code)
	assert.Equal(t, "pong", decode(t, raw)["message"])

	code, _ = s.do(consts.MethodGet, "/health/live", "")
	assert.Equal(t, consts.StatusOK, code)

	code, raw = s.do(consts.MethodGet, "/health/ready", "")
	assert.Equal(t, consts.StatusOK, code)
	got := decode(t, raw)
	assert.Equal(t, "ready", got["status"])
	assert.Equal(t, "healthy", got["chat_log"])
	assert.NotContains(t, got, "model")
}

func TestHealth_NotReady(t *testing.T) {
	s := newTestServer(t, nil, withChecks(map[string]handler.Pinger{
		"chat_log":   handler.PingFunc(func(ctx context.Context) error { return nil }),
		"prompt_log": handler.PingFunc(func(ctx context.Context) error { return errors.New("database is closed") }),
	}))

	code, raw := s.do(consts.MethodGet, "/health/ready", "")
	assert.Equal(t, consts.StatusServiceUnavailable, code)
	got := decode(t, raw)
	assert.Equal(t, "not_ready", got["status"])
	assert.Equal(t, "unhealthy", got["prompt_log"])
	assert.Equal(t, "healthy", got["chat_log"])
}

func TestMiddleware_RecoveryAndHeaders(t *testing.T) {
	s := newTestServer(t, nil)
	s.h.GET("/boom", func(ctx context.Context, c *app.RequestContext) {
		panic("kaboom")
	})

	w := ut.PerformRequest(s.h.Engine, consts.MethodGet, "/boom", nil)
	resp := w.Result()
	assert.Equal(t, consts.StatusInternalServerError, resp.StatusCode())
	assert.JSONEq(t, `{"error":"Internal error"}`, string(resp.Body()))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	w = ut.PerformRequest(s.h.Engine, consts.MethodGet, "/ping", nil, ut.Header{Key: "X-Request-ID", Value: "req-1"})
	assert.Equal(t, "req-1", w.Result().Header.Get("X-Request-ID"))
	assert.Equal(t, "*", w.Result().Header.Get("Access-Control-Allow-Origin"))

	w = ut.PerformRequest(s.h.Engine, consts.MethodOptions, "/api/chat/messages", nil)
	assert.Equal(t, consts.StatusNoContent, w.Result().StatusCode())
}
