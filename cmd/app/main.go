// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/capgarrick/deepfake-detector/internal/application"
	"github.com/capgarrick/deepfake-detector/internal/config"
	"github.com/capgarrick/deepfake-detector/internal/domain/ports/adapter"
	"github.com/capgarrick/deepfake-detector/internal/infra/api"
	"github.com/capgarrick/deepfake-detector/internal/infra/logging"
	"github.com/capgarrick/deepfake-detector/internal/infra/tui"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logging, verbose)")
	offline := flag.Bool("offline", false, "run with canned responses, no backend required")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Logs go to stderr so they never bleed into the alt-screen UI.
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	// ---- Backend services ----
	var assistant adapter.AssistantServiceAdapter
	var detector adapter.DetectionServiceAdapter
	if *offline {
		noop := api.NewNoopAdapter()
		assistant, detector = noop, noop
		logger.Info().Msg("Offline mode, backend calls are stubbed")
	} else {
		apiClient, err := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, cfg.API.UploadTimeout, logger)
		if err != nil {
			log.Fatalf("api client: %v", err)
		}
		assistant = apiClient
		detector = api.NewLimitedDetector(apiClient, cfg.API.ConcurrentLimit)
	}

	// ---- Controllers + terminal view ----
	view := tui.NewPresenter()
	client := application.NewClient(assistant, detector, application.Views{Chat: view, Analysis: view}, cfg, logger)

	prog := tea.NewProgram(tui.NewModel(ctx, client), tea.WithAltScreen())
	view.Attach(prog)

	if _, err := prog.Run(); err != nil {
		log.Fatalf("terminal ui: %v", err)
	}
}
