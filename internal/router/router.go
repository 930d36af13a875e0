package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/hertz-contrib/swagger"
	swaggerFiles "github.com/swaggo/files"

	"github.com/theshubhamgundu/sahaaya/internal/handler"
	"github.com/theshubhamgundu/sahaaya/internal/middleware"
)

// Handlers are the HTTP handlers mounted by Setup
type Handlers struct {
	Flow   *handler.FlowHandler
	Chat   *handler.ChatHandler
	Game   *handler.GameHandler
	Health *handler.HealthHandler
}

// Setup sets up all routes
func Setup(h *server.Hertz, hs Handlers) {
	// Global middleware
	h.Use(middleware.Recovery())
	h.Use(middleware.Logger())
	h.Use(middleware.CORS())

	// Access at: http://localhost:8080/swagger/index.html
	h.GET("/swagger/*any", swagger.WrapHandler(swaggerFiles.Handler))

	h.GET("/ping", hs.Health.Ping)
	h.GET("/health/ready", hs.Health.Readiness)
	h.GET("/health/live", hs.Health.Liveness)

	api := h.Group("/api")
	{
		api.POST("/detect-emotional-distress", hs.Flow.DetectDistress)
		api.POST("/generate-personalized-support", hs.Flow.GenerateSupport)
		api.POST("/provide-relevant-legal-guidance", hs.Flow.ProvideLegalGuidance)
		api.POST("/interpret-hand-gesture", hs.Flow.InterpretGesture)
		api.POST("/generate-sign-language-response", hs.Flow.GenerateSignResponse)
		api.POST("/emotional-support", hs.Flow.EmotionalSupport)

		sign := api.Group("/sign-language")
		{
			sign.POST("/interact", hs.Flow.SignInteract)
			sign.DELETE("/sessions/:id", hs.Flow.EndSignSession)
		}

		chat := api.Group("/chat")
		{
			chat.GET("/messages", hs.Chat.ListMessages)
			chat.POST("/messages", hs.Chat.SendMessage)
			chat.DELETE("/messages", hs.Chat.ClearMessages)
			chat.GET("/stream", hs.Chat.Stream)
		}

		api.POST("/games/tic-tac-toe/move", hs.Game.Move)
	}
}
