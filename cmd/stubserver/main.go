// File: cmd/stubserver/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/capgarrick/deepfake-detector/internal/config"
	"github.com/capgarrick/deepfake-detector/internal/infra/logging"
	"github.com/capgarrick/deepfake-detector/internal/infra/metrics"
	redisinfra "github.com/capgarrick/deepfake-detector/internal/infra/redis"
	"github.com/capgarrick/deepfake-detector/internal/infra/stub"
)

// Overridden at build time:
//
//	go build -ldflags "-X main.version=... -X main.commit=..."
var (
	version = "dev"
	commit  = "none"
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

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	// ---- Metrics ----
	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Redis (optional) ----
	// Without it the server still works; responses are computed fresh and
	// the chat endpoint is not rate limited.
	var (
		cache   *redisinfra.ResultCache
		limiter *redisinfra.RateLimiter
	)
	if cfg.Stub.Redis.URL != "" {
		redisClient, err := redisinfra.NewClient(ctx, &cfg.Stub.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable, caching and rate limiting disabled")
		} else {
			cache = redisinfra.NewResultCache(redisClient, cfg.Stub.Redis.TTL)
			limiter = redisinfra.NewRateLimiter(redisClient)
		}
	}

	// ---- Sessions ----
	sessions := stub.NewSessionStore(cfg.Stub.SessionTTL, logger)
	go func() { _ = sessions.RunSweeper(ctx, time.Minute) }()

	// ---- HTTP server ----
	srv := stub.NewServer(stub.NewGuardBot(), stub.NewAnalyzer(), sessions, cache, limiter, logger)
	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Stub.Port), Handler: srv.Routes()}
	go func() {
		logger.Info().Str("addr", server.Addr).Str("version", version).Msg("Stub server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("HTTP server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("Shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP shutdown failed")
	}
	cancel()
}
