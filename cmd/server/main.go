package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"noteful/internal/api"
	"noteful/internal/auth"
	"noteful/internal/config"
	"noteful/internal/logging"
	"noteful/internal/mcp"
	"noteful/internal/middleware"
	"noteful/internal/store/sqlstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New(os.Stderr, "info", "json").Fatal().Err(err).Msg("Failed to load config")
	}
	log := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	if cfg.EnsureSecret() {
		log.Warn().Msg("JWT_SECRET not set, using development secret")
	}

	// Initialize store
	store, err := sqlstore.New(cfg.DBDriver, cfg.DBConn)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("Failed to initialize database")
	}
	defer store.Close()

	issuer := auth.NewJWTIssuer(cfg.JWTSecret, cfg.JWTExpiry)
	handlers := api.NewHandlers(store, auth.NewBcryptHasher(0), issuer, log)

	mux := http.NewServeMux()
	handlers.Register(mux)
	mux.Handle("/mcp", mcp.NewMCPServer(store, log).HTTPHandler())

	// Apply middleware: Logging -> Auth
	handler := middleware.Logging(log)(middleware.Auth(issuer)(mux))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Shutdown did not complete")
	}
}
