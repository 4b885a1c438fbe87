package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/justsurfingit/jobly/internal/auth"
	"github.com/justsurfingit/jobly/internal/config"
	"github.com/justsurfingit/jobly/internal/database"
	"github.com/justsurfingit/jobly/internal/handlers"
	"github.com/justsurfingit/jobly/internal/logging"
	"github.com/justsurfingit/jobly/internal/middleware"
	"github.com/justsurfingit/jobly/internal/services"
)

func main() {
	// 1. Environment: a .env file is optional, real env vars win.
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if envErr != nil {
		logging.Debug().Err(envErr).Msg("no .env file loaded")
	}
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 2. Database
	gdb, err := database.Connect(cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("database connection failed")
	}
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(gdb); err != nil {
			logging.Fatal().Err(err).Msg("migration failed")
		}
	}
	db, err := database.SQL(gdb)
	if err != nil {
		logging.Fatal().Err(err).Msg("database handle unavailable")
	}
	defer db.Close()

	// 3. Services
	tokens, err := auth.NewTokenManager(cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("token manager setup failed")
	}

	deps := handlers.Deps{
		Companies:   services.NewCompanyService(db),
		Jobs:        services.NewJobService(db),
		Users:       services.NewUserService(db, cfg.Security.BcryptWorkFactor),
		Tokens:      tokens,
		CORSOrigins: cfg.Security.CORSOrigins,
	}

	stopCleanup := make(chan struct{})
	defer close(stopCleanup)
	if cfg.Security.LoginRateLimit > 0 {
		deps.LoginLimiter = middleware.NewRateLimiter(cfg.Security.LoginRateLimit, cfg.Security.LoginRateWindow)
		go deps.LoginLimiter.Run(5*time.Minute, stopCleanup)
	}

	if cfg.LLM.Enabled() {
		llm, err := services.NewLLMService(context.Background(), cfg.LLM)
		if err != nil {
			logging.Warn().Err(err).Msg("job extraction disabled")
		} else {
			deps.Extractor = llm
			logging.Info().Str("model", cfg.LLM.Model).Msg("job extraction enabled")
		}
	}

	// 4. HTTP server
	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handlers.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
	}
}
