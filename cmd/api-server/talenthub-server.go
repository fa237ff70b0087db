package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"talenthub/db"
	"talenthub/db/migrations"
	"talenthub/internal/auth"
	"talenthub/internal/config"
	"talenthub/internal/handlers"
	"talenthub/internal/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logger.NewLogger("talenthub-server")

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.SetLevel(cfg.LogLevel)

	dbConn, err := sqlx.Connect("postgres", cfg.Storage.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to DB")
	}
	defer dbConn.Close()

	if !cfg.Storage.SkipMigrations {
		if err := migrations.Run(dbConn.DB); err != nil {
			log.Fatal().Err(err).Msg("migrations failed")
		}
	}
	if version, err := migrations.Version(dbConn.DB); err == nil {
		log.Info().Int64("schema_version", version).Msg("database ready")
	}

	tokens, err := auth.NewTokens(cfg.Auth.SecretKey, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot create token signer")
	}

	store := db.NewStorage(dbConn)
	h := handlers.NewHandler(store, tokens, log)

	srv := &http.Server{
		Addr: cfg.Server.Address,
		Handler: h.Routes(handlers.RouterOptions{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			RequestTimeout: cfg.Server.RequestTimeout,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("address", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Err(err).Msg("graceful shutdown failed")
	}
}
