package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/network/netpoll"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	_ "github.com/theshubhamgundu/sahaaya/docs" // swagger docs
	"github.com/theshubhamgundu/sahaaya/internal/config"
	"github.com/theshubhamgundu/sahaaya/internal/domain"
	"github.com/theshubhamgundu/sahaaya/internal/handler"
	"github.com/theshubhamgundu/sahaaya/internal/infrastructure/chatlog"
	infradb "github.com/theshubhamgundu/sahaaya/internal/infrastructure/database"
	"github.com/theshubhamgundu/sahaaya/internal/infrastructure/llm"
	"github.com/theshubhamgundu/sahaaya/internal/infrastructure/session"
	"github.com/theshubhamgundu/sahaaya/internal/prompt"
	"github.com/theshubhamgundu/sahaaya/internal/router"
	"github.com/theshubhamgundu/sahaaya/internal/usecase"
	dbpkg "github.com/theshubhamgundu/sahaaya/pkg/database"
	"github.com/theshubhamgundu/sahaaya/pkg/logger"
)

//	@title			Sahaaya API
//	@version		1.0
//	@description	Support and referral backend: distress detection, supportive messages, legal guidance, sign language assistance and peer chat.

//	@host		localhost:8080
//	@BasePath	/

const sessionSweepInterval = time.Minute

var (
	cfgFile string
	version = "1.0.0"
)

var rootCmd = &cobra.Command{
	Use:   "sahaaya-apiserver",
	Short: "Sahaaya support and referral API server",
	Long: `Sahaaya API server is an HTTP API server built with the Hertz framework.
It serves the model-backed assistance flows (distress detection, personalized
support, legal guidance, sign language) and the peer chat relay.`,
	Version: version,
	Run:     runServer,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "configs/config.yaml", "path to config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func runServer(cmd *cobra.Command, args []string) {
	cfg, policy, err := config.LoadWatched(cfgFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logCloser, err := logger.Setup(cfg.Log)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logCloser.Close()
	slog.Info("Sahaaya API server starting...",
		"version", version,
		"config", cfgFile,
	)

	hlog.SetLogger(logger.NewHertzSlogAdapter(slog.Default()))
	hlog.SetLevel(hlog.LevelInfo)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Hosted model
	model, err := llm.NewClient(ctx, cfg.Model, slog.Default())
	if err != nil {
		slog.Error("failed to create model client", "error", err)
		os.Exit(1)
	}
	slog.Info("model client ready", "model", model.Name())

	prompts, err := prompt.Load()
	if err != nil {
		slog.Error("failed to compile prompts", "error", err)
		os.Exit(1)
	}

	// Redis is shared by the chat log and the session store
	var rdb *redis.Client
	if cfg.Chat.Backend == "redis" || cfg.Session.Backend == "redis" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Chat.Redis.Addr,
			Password: cfg.Chat.Redis.Password,
			DB:       cfg.Chat.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			slog.Warn("redis ping failed, chat may be unavailable", "addr", cfg.Chat.Redis.Addr, "error", err)
		}
		cancel()
	}

	var chatLog domain.ChatLog
	if cfg.Chat.Backend == "redis" {
		chatLog = chatlog.NewRedisLog(rdb, cfg.Chat.Redis.Key, cfg.Chat.Redis.Channel, cfg.Chat.MaxMessages, slog.Default())
	} else {
		chatLog = chatlog.NewMemoryLog(cfg.Chat.MaxMessages)
	}
	slog.Info("chat log initialized", "backend", cfg.Chat.Backend)

	var sessions domain.SignSessionStore
	if cfg.Session.Backend == "redis" {
		sessions = session.NewRedisStore(rdb, cfg.Session.Prefix, cfg.Session.TTL, cfg.Session.MaxTurns)
	} else {
		mem := session.NewMemoryStore(cfg.Session.TTL, cfg.Session.MaxTurns)
		go sweepSessions(ctx, mem)
		sessions = mem
	}

	// Legal prompt log (optional)
	var (
		db        *sql.DB
		promptLog domain.PromptLogRepository
	)
	if cfg.PromptLog.Enabled() {
		db, err = dbpkg.NewClient(cfg.PromptLog, slog.Default())
		if err != nil {
			slog.Error("failed to connect to prompt log database", "error", err)
			os.Exit(1)
		}
		promptLog = infradb.NewPromptLogRepository(db)
		slog.Info("prompt log enabled", "driver", cfg.PromptLog.Driver)
	} else {
		slog.Warn("prompt log disabled, legal guidance prompts will not be recorded")
	}

	// Usecases
	distress := usecase.NewDistressUsecase(model, prompts, policy, slog.Default())
	support := usecase.NewSupportUsecase(model, prompts, policy, slog.Default())
	gesture := usecase.NewGestureUsecase(model, prompts, policy, slog.Default())
	signResponse := usecase.NewSignResponseUsecase(model, prompts, policy, slog.Default())
	flows := handler.FlowUsecases{
		Distress:         distress,
		Support:          support,
		Legal:            usecase.NewLegalGuidanceUsecase(model, prompts, policy, promptLog, cfg.PromptLog.WriteTimeout, slog.Default()),
		Gesture:          gesture,
		SignResponse:     signResponse,
		EmotionalSupport: usecase.NewEmotionalSupportUsecase(distress, support, policy, slog.Default()),
		SignInteraction:  usecase.NewSignInteractionUsecase(gesture, signResponse, sessions, policy, slog.Default()),
	}

	checks := map[string]handler.Pinger{
		"chat_log": chatLog,
		"model":    handler.PingFunc(modelConfigured(cfg.Model)),
	}
	if promptLog != nil {
		checks["prompt_log"] = promptLog
	}

	h := server.Default(
		server.WithHostPorts(cfg.GetServerAddr()),
		server.WithReadTimeout(cfg.GetReadTimeout()),
		server.WithWriteTimeout(cfg.GetWriteTimeout()),
		server.WithMaxRequestBodySize(cfg.Server.MaxRequestBodySize*1024*1024),
		server.WithTransport(netpoll.NewTransporter),
	)

	router.Setup(h, router.Handlers{
		Flow:   handler.NewFlowHandler(flows, slog.Default()),
		Chat:   handler.NewChatHandler(usecase.NewChatRelayUsecase(chatLog, slog.Default()), slog.Default()),
		Game:   handler.NewGameHandler(usecase.NewGameUsecase(slog.Default()), slog.Default()),
		Health: handler.NewHealthHandler(checks),
	})

	go func() {
		if err := h.Run(); err != nil {
			slog.Error("server run failed", "error", err)
			os.Exit(1)
		}
	}()
	slog.Info("server started successfully",
		"address", cfg.GetServerAddr(),
		"mode", cfg.Server.Mode,
	)

	<-ctx.Done()
	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := h.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	if db != nil {
		if err := dbpkg.Close(db, slog.Default()); err != nil {
			slog.Error("failed to close prompt log database", "error", err)
		}
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			slog.Error("failed to close redis client", "error", err)
		}
	}

	slog.Info("server stopped gracefully")
}

func sweepSessions(ctx context.Context, store *session.MemoryStore) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.Sweep(); n > 0 {
				slog.Debug("expired sign sessions removed", "count", n)
			}
		}
	}
}

// modelConfigured reports a readiness failure when the provider cannot be
// called with the loaded credentials
func modelConfigured(cfg config.ModelConfig) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		switch {
		case cfg.Model == "":
			return errors.New("model name is not configured")
		case cfg.Provider == "openai" && cfg.BaseURL == "":
			return errors.New("model base_url is not configured")
		case cfg.Provider != "openai" && cfg.APIKey == "" && os.Getenv("GOOGLE_API_KEY") == "" && os.Getenv("GEMINI_API_KEY") == "":
			return errors.New("model api_key is not configured")
		}
		return nil
	}
}
