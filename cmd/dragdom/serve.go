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

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"github.com/dragdom/dragdom/internal/api"
	"github.com/dragdom/dragdom/internal/auth"
	"github.com/dragdom/dragdom/internal/collab"
	"github.com/dragdom/dragdom/internal/config"
	"github.com/dragdom/dragdom/internal/logging"
	mw "github.com/dragdom/dragdom/internal/middleware"
)

func newServeCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and websocket drag sessions",
		Long: `Serve the bounds API under /api and shared drag sessions on /ws.

Configuration comes from the environment:
  DRAGDOM_PORT              listen port (8080)
  DRAGDOM_JWT_SECRET        token signing secret
  DRAGDOM_TOKEN_TTL         lifetime of minted tokens (24h)
  DRAGDOM_AUTH_DISABLED     serve without tokens (false)
  DRAGDOM_ALLOWED_ORIGINS   comma separated browser origins
  DRAGDOM_LOG_LEVEL         debug, info, warn, error (info)
  DRAGDOM_LOG_FORMAT        text, json, logfmt (text)
  DRAGDOM_READ_TIMEOUT      HTTP read timeout (15s)
  DRAGDOM_WRITE_TIMEOUT     HTTP write timeout (15s)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			level, format := cfg.LogLevel, cfg.LogFormat
			if root.logLevel != "" {
				level = root.logLevel
			}
			if root.logFormat != "" {
				format = root.logFormat
			}
			logger, err := logging.New(os.Stderr, level, format)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	hub := collab.NewHub(logger)
	go hub.Run(ctx)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      newRouter(cfg, hub, logger),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		logger.Info("shutting down server")

		// Close drag sessions first so observers hear why.
		hub.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "error", err)
		}
	}()

	logger.Info("server starting", "addr", srv.Addr, "auth", !cfg.AuthDisabled)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func newRouter(cfg *config.Config, hub *collab.Hub, logger *slog.Logger) http.Handler {
	authService := auth.NewService(cfg.JWTSecret, cfg.TokenTTL)
	authHandler := auth.NewHandler(authService)
	apiHandler := api.NewHandler(logger)

	r := mux.NewRouter()
	r.MethodNotAllowedHandler = http.HandlerFunc(api.MethodNotAllowed)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	apiRouter := r.PathPrefix("/api").Subrouter()
	var wsHandler http.Handler = collab.ServeWS(hub, cfg.OriginPatterns())

	if cfg.AuthDisabled {
		logger.Warn("authentication disabled")
	} else {
		apiRouter.Use(authService.Middleware)
		wsHandler = authService.Middleware(wsHandler)

		apiRouter.HandleFunc("/auth/me", authHandler.Me).Methods("GET")
		apiRouter.HandleFunc("/auth/refresh", authHandler.Refresh).Methods("POST")
	}
	apiHandler.Routes(apiRouter)

	// WebSocket endpoint
	r.Handle("/ws", wsHandler)

	// Preflights are answered before routing.
	return mw.Recovery(logger)(mw.Logger(logger)(mw.CORS(cfg.Origins())(r)))
}
