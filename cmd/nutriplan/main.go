// Package main NutriPlan API
//
// @title           NutriPlan API
// @version         1.0
// @description     Subscription tiers and feature gating for the NutriPlan nutrition dashboard.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the identity provider token.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	_ "github.com/magabrotheeeer/nutriplan/docs"
	"github.com/magabrotheeeer/nutriplan/internal/app/nutriplan"
	"github.com/magabrotheeeer/nutriplan/internal/config"
	"github.com/magabrotheeeer/nutriplan/internal/lib/sl"
)

func main() {
	// A missing .env is fine: the environment may already be populated.
	_ = godotenv.Load()
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting nutriplan", slog.String("env", cfg.Env))
	logger.Debug("config loaded", slog.String("config", cfg.String()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := nutriplan.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("nutriplan stopped gracefully")
}
