// File: internal/usecase/chat_uc.go
package usecase

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/capgarrick/deepfake-detector/internal/domain"
	"github.com/capgarrick/deepfake-detector/internal/domain/model"
	"github.com/capgarrick/deepfake-detector/internal/domain/ports/adapter"
	"github.com/capgarrick/deepfake-detector/internal/domain/ports/presenter"
)

// Fixed widget copy. Fallbacks must read like normal assistant output; a
// failed welcome fetch is logged but never surfaced as an error.
const (
	fallbackWelcome = "Hello! 👋 I'm the DeepGuard assistant. I can explain what deepfakes are, " +
		"how to spot them, and how to stay safe online. What would you like to know?"
	fallbackProcessing = "Sorry, something went wrong while processing your message. Please try again."
	fallbackConnectivity = "I can't reach the DeepGuard server right now. " +
		"Please check your connection and try again."
)

// DefaultSuggestions are offered whenever the backend does not provide its
// own set.
var DefaultSuggestions = []string{"What is a deepfake?", "How to detect them?", "Protection tips"}

// DefaultMaxMessageLen bounds a single submission, in runes.
const DefaultMaxMessageLen = 500

// Compile-time check
var _ ChatUseCase = (*chatUC)(nil)

// ChatUseCase drives the assistant widget: an open/closed panel, an
// append-only transcript, and a strictly serialized exchange with the chat
// endpoint. All rendering goes through the injected presenter.
type ChatUseCase interface {
	Toggle(ctx context.Context)
	Open(ctx context.Context)
	Close()
	Submit(ctx context.Context, text string) error
	Snapshot() model.ChatSession
}

type chatUC struct {
	mu      sync.Mutex
	session *model.ChatSession
	ai      adapter.AssistantServiceAdapter
	view    presenter.ChatPresenter
	maxLen  int
	log     *zerolog.Logger
}

func NewChatUseCase(ai adapter.AssistantServiceAdapter, view presenter.ChatPresenter, maxLen int, logger *zerolog.Logger) *chatUC {
	if maxLen <= 0 {
		maxLen = DefaultMaxMessageLen
	}
	return &chatUC{
		session: model.NewChatSession(),
		ai:      ai,
		view:    view,
		maxLen:  maxLen,
		log:     logger,
	}
}

func (c *chatUC) Toggle(ctx context.Context) {
	c.mu.Lock()
	open := c.session.Open
	c.mu.Unlock()
	if open {
		c.Close()
	} else {
		c.Open(ctx)
	}
}

// Open shows the widget. The first open on an empty transcript performs the
// one-time welcome fetch; it occupies the session's single outstanding
// request slot so a submission cannot overtake the greeting.
func (c *chatUC) Open(ctx context.Context) {
	c.mu.Lock()
	if c.session.Open {
		c.mu.Unlock()
		return
	}
	c.session.Open = true
	first := len(c.session.Messages) == 0
	if first {
		c.session.Waiting = true
	}
	history := c.session.History()
	c.mu.Unlock()

	c.view.SessionOpened(history)
	if !first {
		return
	}

	greeting := adapter.Greeting{Message: fallbackWelcome, Suggestions: DefaultSuggestions}
	if g, err := c.ai.Welcome(ctx); err != nil {
		c.log.Warn().Err(err).Msg("Welcome fetch failed, using fallback greeting")
	} else {
		if g.Message != "" {
			greeting.Message = g.Message
		}
		if len(g.Suggestions) > 0 {
			greeting.Suggestions = g.Suggestions
		}
	}

	c.mu.Lock()
	m := c.session.Append(uuid.NewString(), model.RoleBot, greeting.Message)
	c.session.Waiting = false
	c.mu.Unlock()

	c.view.MessageAppended(m)
	c.view.ShowSuggestions(greeting.Suggestions)
}

// Close hides the widget. The transcript survives; an in-flight reply still
// lands in it.
func (c *chatUC) Close() {
	c.mu.Lock()
	if !c.session.Open {
		c.mu.Unlock()
		return
	}
	c.session.Open = false
	c.mu.Unlock()
	c.view.SessionClosed()
}

// Submit sends one user message. Empty input is a no-op; a submission while
// a reply is outstanding is rejected with domain.ErrBusy. The session always
// returns to idle, whatever the backend does.
func (c *chatUC) Submit(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len([]rune(text)) > c.maxLen {
		return domain.ErrMessageTooLong
	}

	c.mu.Lock()
	if !c.session.Open {
		c.mu.Unlock()
		return domain.ErrSessionClosed
	}
	if c.session.Waiting {
		c.mu.Unlock()
		return domain.ErrBusy
	}
	c.session.Waiting = true
	userMsg := c.session.Append(uuid.NewString(), model.RoleUser, text)
	c.mu.Unlock()

	c.view.MessageAppended(userMsg)
	c.view.ClearSuggestions()
	c.view.TypingStarted()

	reply, err := c.ai.Send(ctx, text)

	bot := reply
	switch {
	case err == nil && strings.TrimSpace(reply.Text) != "":
		// keep the reply as-is
	case err == nil:
		// a 2xx with an empty body reads as a processing failure
		c.log.Warn().Msg("Chat reply was empty, using processing fallback")
		bot = adapter.Reply{Text: fallbackProcessing, Suggestions: DefaultSuggestions}
	case domain.IsServiceError(err):
		c.log.Warn().Err(err).Msg("Chat request rejected by backend")
		bot = adapter.Reply{Text: fallbackProcessing, Suggestions: DefaultSuggestions}
	default:
		c.log.Warn().Err(err).Msg("Chat request failed to reach backend")
		bot = adapter.Reply{Text: fallbackConnectivity, Suggestions: DefaultSuggestions}
	}

	c.mu.Lock()
	botMsg := c.session.Append(uuid.NewString(), model.RoleBot, bot.Text)
	c.session.Waiting = false
	c.mu.Unlock()

	c.view.TypingStopped()
	c.view.MessageAppended(botMsg)
	if len(bot.Suggestions) > 0 {
		c.view.ShowSuggestions(bot.Suggestions)
	}
	return nil
}

// Snapshot returns a copy of the session for state queries; mutating it does
// not affect the controller.
func (c *chatUC) Snapshot() model.ChatSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Snapshot()
}
