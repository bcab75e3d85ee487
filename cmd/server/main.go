// Indian Law Assistant - legal information chat server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JEETMANISHBOBDE/AI-Powered-Legal-Chatbot/internal/agent"
	"github.com/JEETMANISHBOBDE/AI-Powered-Legal-Chatbot/internal/api"
	"github.com/JEETMANISHBOBDE/AI-Powered-Legal-Chatbot/internal/config"
	"github.com/JEETMANISHBOBDE/AI-Powered-Legal-Chatbot/internal/identity"
	"github.com/JEETMANISHBOBDE/AI-Powered-Legal-Chatbot/internal/middleware"
	"github.com/JEETMANISHBOBDE/AI-Powered-Legal-Chatbot/internal/store"
	"github.com/JEETMANISHBOBDE/AI-Powered-Legal-Chatbot/internal/tools"
	"github.com/JEETMANISHBOBDE/AI-Powered-Legal-Chatbot/web"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "model", cfg.Groq.ModelID)

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	// Configure the legal assistant agent: Groq-hosted model with the
	// encyclopedia-lookup and web-search tools.
	agentCfg := agent.Config{
		Name:           cfg.Agent.Name,
		ModelID:        cfg.Groq.ModelID,
		BaseURL:        cfg.Groq.BaseURL,
		APIKey:         cfg.Groq.APIKey,
		Instructions:   agent.DefaultInstructions(),
		Streaming:      cfg.Agent.Streaming,
		ShowToolCalls:  cfg.Agent.ShowToolCalls,
		MaxToolRounds:  cfg.Agent.MaxToolRounds,
		RequestTimeout: cfg.Groq.RequestTimeout,
	}
	toolset := []tools.Tool{tools.NewWikipedia(), tools.NewDuckDuckGo()}
	agentService := agent.NewService(agent.NewGroqResponder(agentCfg, toolset))

	// Initialize handlers.
	chatHandler := agent.NewHandler(agentService, repo, cfg)
	infoHandler := api.NewHandler(repo, cfg)
	wsHandler := agent.NewWebSocketHandler(agentService, repo)

	// Setup router.
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(identity.Middleware(isDevelopment()))

	infoHandler.RegisterRoutes(r)
	chatHandler.RegisterRoutes(r)

	// WebSocket endpoint for streamed responses.
	r.Get("/ws/chat", wsHandler.ServeHTTP)

	// Serve embedded frontend.
	r.Handle("/*", web.Handler())

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     r,
		ReadTimeout: 30 * time.Second,
		// No write timeout: a chat submission blocks on the agent call.
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Expired conversations are swept so chat history never outlives the
	// UI session.
	store.StartTTLWorker(ctx, repo, cfg.SessionTTL, cfg.CleanupInterval)
	slog.Info("TTL worker started", "session_ttl", cfg.SessionTTL)

	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}

// isDevelopment reports whether the server runs in development mode,
// which relaxes the Secure flag on the identity cookie.
func isDevelopment() bool {
	return os.Getenv("APP_ENV") != "production"
}
