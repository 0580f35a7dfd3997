// File: internal/infra/telegram/bot.go

// Package telegram is the messaging front-end: a long-polling bot that
// relays chat turns and uploaded media to the same controllers the terminal
// client uses, one controller pair per chat.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/capgarrick/deepfake-detector/internal/application"
	"github.com/capgarrick/deepfake-detector/internal/config"
	"github.com/capgarrick/deepfake-detector/internal/domain"
	"github.com/capgarrick/deepfake-detector/internal/domain/model"
	"github.com/capgarrick/deepfake-detector/internal/domain/ports/adapter"
	"github.com/capgarrick/deepfake-detector/internal/format"
	"github.com/capgarrick/deepfake-detector/internal/infra/worker"
)

const helpText = "🛡️ <b>DeepGuard</b>\n\n" +
	"Send a video or audio file and I will run a deepfake analysis on it.\n" +
	"Anything you type goes to the assistant, which answers questions about deepfakes.\n\n" +
	"/start — connect and get a greeting\n" +
	"/tips — quick safety reminders\n" +
	"/reset — discard the current file\n" +
	"/help — this message"

// fallbackTips mirrors the backend's quick-tips set for when the endpoint
// is unreachable.
var fallbackTips = []string{
	"🔍 Always verify shocking content before sharing",
	"👁️ Check for unnatural blinking in videos",
	"🔊 Listen for robotic or mechanical voice quality",
	"🌐 Use reverse image search for suspicious photos",
	"🛡️ Limit personal photos shared publicly online",
}

// TipsProvider is the optional quick-tips source; the HTTP API client
// implements it.
type TipsProvider interface {
	Tips(ctx context.Context) ([]string, error)
}

// Bot polls Telegram for updates and hands each one to the worker pool.
// Every chat gets its own controller pair and presenter, created lazily on
// first contact.
type Bot struct {
	api       *tgbotapi.BotAPI
	cfg       *config.Config
	assistant adapter.AssistantServiceAdapter
	detector  adapter.DetectionServiceAdapter
	tips      TipsProvider
	pool      *worker.Pool
	files     *http.Client
	log       *zerolog.Logger

	mu            sync.Mutex
	sessions      map[int64]*chatBinding
	cancelPolling context.CancelFunc
}

// chatBinding is one chat's controller pair plus the temp dir holding its
// last downloaded file.
type chatBinding struct {
	client *application.Client
	view   *Presenter

	mu     sync.Mutex
	tmpDir string
}

// swapDir records the new download dir and removes the previous one.
func (s *chatBinding) swapDir(dir string) {
	s.mu.Lock()
	old := s.tmpDir
	s.tmpDir = dir
	s.mu.Unlock()
	if old != "" {
		_ = os.RemoveAll(old)
	}
}

func NewBot(cfg *config.Config, assistant adapter.AssistantServiceAdapter, detector adapter.DetectionServiceAdapter, tips TipsProvider, pool *worker.Pool, logger *zerolog.Logger) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot token is empty")
	}
	if assistant == nil || detector == nil {
		return nil, errors.New("service adapters are nil")
	}
	if pool == nil {
		return nil, errors.New("worker pool is nil")
	}

	api, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}

	timeout := cfg.API.UploadTimeout
	if timeout <= 0 {
		timeout = 3 * time.Minute
	}

	return &Bot{
		api:       api,
		cfg:       cfg,
		assistant: assistant,
		detector:  detector,
		tips:      tips,
		pool:      pool,
		files:     &http.Client{Timeout: timeout},
		log:       logger,
		sessions:  map[int64]*chatBinding{},
	}, nil
}

// StartPolling runs the update loop until ctx is canceled. Each update is
// submitted to the worker pool; a saturated pool drops the update rather
// than stalling the poll.
func (b *Bot) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	b.cancelPolling = cancel

	b.log.Info().Str("bot", b.api.Self.UserName).Msg("Polling started")
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case up := <-updates:
			if err := b.pool.Submit(func(ctx context.Context) error {
				return b.handleUpdate(ctx, up)
			}); err != nil {
				b.log.Warn().Err(err).Msg("Update dropped")
			}
		}
	}
}

func (b *Bot) StopPolling() {
	if b.cancelPolling != nil {
		b.cancelPolling()
	}
}

// binding returns the chat's controller pair, creating it on first contact.
func (b *Bot) binding(chatID int64) *chatBinding {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.sessions[chatID]; ok {
		return s
	}
	log := b.log.With().Int64("chat_id", chatID).Logger()
	view := NewPresenter(b.api, chatID, &log)
	client := application.NewClient(b.assistant, b.detector, application.Views{Chat: view, Analysis: view}, b.cfg, &log)
	s := &chatBinding{client: client, view: view}
	b.sessions[chatID] = s
	return s
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	if update.CallbackQuery != nil {
		return b.handleQuery(ctx, update.CallbackQuery)
	}
	if update.Message == nil {
		return nil
	}
	msg := update.Message
	s := b.binding(msg.Chat.ID)

	if _, _, _, _, ok := extractMedia(msg); ok {
		return b.handleMedia(ctx, s, msg)
	}

	fields := strings.Fields(msg.Text)
	command := "message"
	if len(fields) > 0 && strings.HasPrefix(fields[0], "/") {
		command = strings.SplitN(fields[0], "@", 2)[0]
	}

	switch command {
	case "/start":
		if s.client.Chat.Snapshot().Open {
			s.view.send("I'm already here. Ask me anything about deepfakes, or send a file to analyze.")
			return nil
		}
		s.client.Chat.Open(ctx)
		return nil

	case "/help":
		s.view.send(helpText)
		return nil

	case "/tips":
		return b.sendTips(ctx, s)

	case "/reset":
		switch err := s.client.Analysis.ClearSelection(); {
		case errors.Is(err, domain.ErrBusy):
			s.view.Notify("An analysis is running. Wait for it to finish.")
		}
		return nil

	default:
		if strings.TrimSpace(msg.Text) == "" {
			return nil
		}
		return b.relayText(ctx, s, msg.Text)
	}
}

// relayText forwards free-form text to the chat controller, opening the
// session on first contact so the greeting precedes the first answer.
func (b *Bot) relayText(ctx context.Context, s *chatBinding, text string) error {
	if !s.client.Chat.Snapshot().Open {
		s.client.Chat.Open(ctx)
	}
	switch err := s.client.Chat.Submit(ctx, text); {
	case err == nil:
	case errors.Is(err, domain.ErrBusy):
		s.view.Notify("Still working on your previous message. One moment.")
	case errors.Is(err, domain.ErrMessageTooLong):
		s.view.Notify(fmt.Sprintf("That message is too long. Keep it under %d characters.", b.cfg.Chat.MaxMessageLen))
	}
	return nil
}

func (b *Bot) sendTips(ctx context.Context, s *chatBinding) error {
	tips := fallbackTips
	if b.tips != nil {
		if got, err := b.tips.Tips(ctx); err != nil {
			b.log.Debug().Err(err).Msg("Tips fetch failed, using fallback")
		} else if len(got) > 0 {
			tips = got
		}
	}
	var sb strings.Builder
	sb.WriteString("<b>Quick tips</b>\n")
	for _, t := range tips {
		sb.WriteString(format.EscapeHTML(t) + "\n")
	}
	s.view.send(strings.TrimRight(sb.String(), "\n"))
	return nil
}

// handleMedia downloads the attachment into a per-chat temp dir and feeds
// it to the analysis controller. The size ceiling is checked before the
// download; everything after that is the controller's call.
func (b *Bot) handleMedia(ctx context.Context, s *chatBinding, msg *tgbotapi.Message) error {
	fileID, name, mime, size, _ := extractMedia(msg)
	if size > model.MaxUploadBytes {
		s.view.Notify(fmt.Sprintf("File is too large (%s). The limit is %s.",
			format.Bytes(size), format.Bytes(model.MaxUploadBytes)))
		return nil
	}

	path, err := b.download(ctx, fileID, name)
	if err != nil {
		b.log.Warn().Err(err).Str("file", name).Msg("Attachment download failed")
		s.view.Notify("Could not fetch that file from Telegram. Please try again.")
		return err
	}

	if err := s.client.Analysis.Select(ctx, path, mime, size); err != nil {
		// The controller already rendered the rejection.
		_ = os.RemoveAll(filepath.Dir(path))
		return nil
	}
	s.swapDir(filepath.Dir(path))
	return nil
}

// download fetches the attachment under its original base name so media
// classification sees the real extension.
func (b *Bot) download(ctx context.Context, fileID, name string) (string, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return "", fmt.Errorf("file url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	resp, err := b.files.Do(req)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("download: status %d", resp.StatusCode)
	}

	dir, err := os.MkdirTemp("", "deepguard-")
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	path := filepath.Join(dir, filepath.Base(name))
	f, err := os.Create(path)
	if err != nil {
		_ = os.RemoveAll(dir)
		return "", fmt.Errorf("download: %w", err)
	}
	_, err = io.Copy(f, io.LimitReader(resp.Body, model.MaxUploadBytes+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.RemoveAll(dir)
		return "", fmt.Errorf("download: %w", err)
	}
	return path, nil
}

type cbHandler func(ctx context.Context, s *chatBinding, data string) error

// Exact-match callbacks
func (b *Bot) cbRoutes() map[string]cbHandler {
	return map[string]cbHandler{
		cbRun: func(ctx context.Context, s *chatBinding, _ string) error {
			switch err := s.client.Analysis.Analyze(ctx); {
			case err == nil, errors.Is(err, domain.ErrBusy):
			case errors.Is(err, domain.ErrNoCandidate):
				s.view.Notify("Send a video or audio file first.")
			default:
				s.view.Notify("Press New analysis to start over.")
			}
			return nil
		},
		cbClear: func(ctx context.Context, s *chatBinding, _ string) error {
			if err := s.client.Analysis.ClearSelection(); errors.Is(err, domain.ErrBusy) {
				s.view.Notify("An analysis is running. Wait for it to finish.")
			}
			return nil
		},
		cbReset: func(ctx context.Context, s *chatBinding, _ string) error {
			if err := s.client.Analysis.Reset(); err != nil {
				// A stale button; clearing covers the remaining states.
				_ = s.client.Analysis.ClearSelection()
			}
			return nil
		},
	}
}

// Prefix-match callbacks
func (b *Bot) cbPrefixRoutes() []struct {
	Prefix string
	Fn     cbHandler
} {
	return []struct {
		Prefix string
		Fn     cbHandler
	}{
		{
			Prefix: cbTypePrefix,
			Fn: func(ctx context.Context, s *chatBinding, data string) error {
				t := model.AnalysisType(strings.TrimPrefix(data, cbTypePrefix))
				// Stale or invalid switches are silently ignored; the
				// keyboard reflects whatever the controller accepted.
				_ = s.client.Analysis.SetType(t)
				return nil
			},
		},
		{
			Prefix: cbSugPrefix,
			Fn: func(ctx context.Context, s *chatBinding, data string) error {
				i, err := strconv.Atoi(strings.TrimPrefix(data, cbSugPrefix))
				if err != nil {
					return nil
				}
				text, ok := s.view.Suggestion(i)
				if !ok {
					return nil
				}
				return b.relayText(ctx, s, text)
			},
		},
	}
}

func (b *Bot) handleQuery(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	if query == nil || query.From == nil {
		return errors.New("invalid callback query")
	}

	// Stop the telegram spinner when we return
	defer func() { _, _ = b.api.Request(tgbotapi.NewCallback(query.ID, "")) }()

	var chatID int64
	if query.Message != nil && query.Message.Chat != nil {
		chatID = query.Message.Chat.ID
	} else {
		chatID = query.From.ID
	}
	if chatID == 0 {
		return nil
	}
	s := b.binding(chatID)
	data := strings.TrimSpace(query.Data)

	if fn, ok := b.cbRoutes()[data]; ok {
		return fn(ctx, s, data)
	}
	for _, pr := range b.cbPrefixRoutes() {
		if strings.HasPrefix(data, pr.Prefix) {
			return pr.Fn(ctx, s, data)
		}
	}
	return errors.New("unknown callback data")
}
