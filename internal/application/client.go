// File: internal/application/client.go
package application

import (
	"github.com/rs/zerolog"

	"github.com/capgarrick/deepfake-detector/internal/config"
	"github.com/capgarrick/deepfake-detector/internal/domain/ports/adapter"
	"github.com/capgarrick/deepfake-detector/internal/domain/ports/presenter"
	"github.com/capgarrick/deepfake-detector/internal/usecase"
)

// Client composes the two controllers behind one front-end session. Each
// front-end gets its own Client: the terminal app builds exactly one, the
// Telegram bot builds one per chat.
type Client struct {
	Chat     usecase.ChatUseCase
	Analysis usecase.AnalysisUseCase
}

// Views carries the render ports for one front-end.
type Views struct {
	Chat     presenter.ChatPresenter
	Analysis presenter.AnalysisPresenter
}

// NewClient wires the controllers to the shared adapters and the caller's
// presenters. Pacing knobs come from config; zero values fall back to the
// controller defaults.
func NewClient(assistant adapter.AssistantServiceAdapter, detector adapter.DetectionServiceAdapter, views Views, cfg *config.Config, logger *zerolog.Logger) *Client {
	var (
		maxLen int
		delays usecase.Delays
	)
	if cfg != nil {
		maxLen = cfg.Chat.MaxMessageLen
		delays = usecase.Delays{
			Stage:     cfg.Analysis.StageDelay,
			Settle:    cfg.Analysis.SettleDelay,
			NoticeTTL: cfg.Analysis.NoticeTTL,
		}
	}

	chatLog := logger.With().Str("component", "ChatUC").Logger()
	analysisLog := logger.With().Str("component", "AnalysisUC").Logger()

	return &Client{
		Chat:     usecase.NewChatUseCase(assistant, views.Chat, maxLen, &chatLog),
		Analysis: usecase.NewAnalysisUseCase(detector, views.Analysis, delays, &analysisLog),
	}
}
