// File: cmd/bot/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/capgarrick/deepfake-detector/internal/config"
	"github.com/capgarrick/deepfake-detector/internal/infra/api"
	"github.com/capgarrick/deepfake-detector/internal/infra/logging"
	"github.com/capgarrick/deepfake-detector/internal/infra/telegram"
	"github.com/capgarrick/deepfake-detector/internal/infra/worker"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logging, verbose)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// The token usually lives in the environment, not the YAML file.
	// In Docker the env var is injected directly; locally .env fills it in.
	if cfg.Bot.Token == "" {
		_ = godotenv.Load()
		cfg.Bot.Token = os.Getenv("BOT_TOKEN")
	}
	if cfg.Bot.Token == "" {
		log.Fatalf("bot token missing: set bot.token in %s or BOT_TOKEN in the environment", *cfgPath)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	// ---- Detection service ----
	apiClient, err := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, cfg.API.UploadTimeout, logger)
	if err != nil {
		log.Fatalf("api client: %v", err)
	}
	detector := api.NewLimitedDetector(apiClient, cfg.API.ConcurrentLimit)

	// ---- Update workers ----
	pool := worker.NewPool(cfg.Bot.Workers, logger)
	pool.Start(ctx)

	// ---- Telegram ----
	bot, err := telegram.NewBot(cfg, apiClient, detector, apiClient, pool, logger)
	if err != nil {
		log.Fatalf("telegram: %v", err)
	}
	if strings.ToLower(cfg.Bot.Mode) != "polling" {
		logger.Warn().Str("mode", cfg.Bot.Mode).Msg("bot mode not implemented; falling back to polling")
	}
	go func() {
		if err := bot.StartPolling(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("Polling stopped")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("Shutdown requested")
	bot.StopPolling()
	cancel()
	pool.Stop()
}
