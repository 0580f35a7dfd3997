// File: internal/infra/telegram/presenter.go
package telegram

import (
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/capgarrick/deepfake-detector/internal/domain/model"
	"github.com/capgarrick/deepfake-detector/internal/domain/ports/presenter"
	"github.com/capgarrick/deepfake-detector/internal/format"
)

// sender is the slice of the tgbotapi client the presenter needs. Tests
// substitute a recording fake.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Compile-time checks
var (
	_ presenter.ChatPresenter     = (*Presenter)(nil)
	_ presenter.AnalysisPresenter = (*Presenter)(nil)
)

// Presenter renders one chat's controller events as Telegram messages. It
// is called from controller goroutines and performs bot API calls directly;
// the mutex only guards the message-id and suggestion bookkeeping.
type Presenter struct {
	api    sender
	chatID int64
	log    *zerolog.Logger

	mu           sync.Mutex
	lastBotMsgID int
	suggestions  []string
	candidateMsg int
	progressMsg  int
}

func NewPresenter(api sender, chatID int64, logger *zerolog.Logger) *Presenter {
	return &Presenter{api: api, chatID: chatID, log: logger}
}

// Suggestion resolves a suggestion-button index back to its text.
func (p *Presenter) Suggestion(i int) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i < 0 || i >= len(p.suggestions) {
		return "", false
	}
	return p.suggestions[i], true
}

// ----- ChatPresenter -----

// SessionOpened is a no-op: Telegram keeps its own scrollback, so there is
// no panel to populate.
func (p *Presenter) SessionOpened([]model.ChatMessage) {}

func (p *Presenter) SessionClosed() {}

// MessageAppended relays assistant messages. User messages are skipped; the
// sender already sees their own message in the chat.
func (p *Presenter) MessageAppended(m model.ChatMessage) {
	if m.Role != model.RoleBot {
		return
	}
	msg := tgbotapi.NewMessage(p.chatID, format.HTML(m.Content))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	sent, err := p.api.Send(msg)
	if err != nil {
		p.log.Warn().Err(err).Msg("Failed to send assistant message")
		return
	}
	p.mu.Lock()
	p.lastBotMsgID = sent.MessageID
	p.mu.Unlock()
}

func (p *Presenter) TypingStarted() {
	action := tgbotapi.NewChatAction(p.chatID, tgbotapi.ChatTyping)
	if _, err := p.api.Request(action); err != nil {
		p.log.Debug().Err(err).Msg("Chat action failed")
	}
}

// TypingStopped is a no-op: Telegram expires the typing action on its own
// when the reply arrives.
func (p *Presenter) TypingStopped() {}

// ShowSuggestions attaches the follow-up buttons to the latest assistant
// message. Buttons carry an index, not the text; callback data is capped at
// 64 bytes and suggestions routinely exceed it.
func (p *Presenter) ShowSuggestions(items []string) {
	p.mu.Lock()
	p.suggestions = append([]string(nil), items...)
	msgID := p.lastBotMsgID
	p.mu.Unlock()

	if len(items) == 0 {
		return
	}
	kb := suggestionKeyboard(items)
	if msgID == 0 {
		msg := tgbotapi.NewMessage(p.chatID, "Try one of these:")
		msg.ReplyMarkup = kb
		if _, err := p.api.Send(msg); err != nil {
			p.log.Debug().Err(err).Msg("Failed to send suggestions")
		}
		return
	}
	edit := tgbotapi.NewEditMessageReplyMarkup(p.chatID, msgID, kb)
	if _, err := p.api.Request(edit); err != nil {
		p.log.Debug().Err(err).Msg("Failed to attach suggestions")
	}
}

// ClearSuggestions only drops the stored set. Keyboards on old messages
// stay valid; pressing one simply resubmits that question.
func (p *Presenter) ClearSuggestions() {
	p.mu.Lock()
	p.suggestions = nil
	p.mu.Unlock()
}

// ----- AnalysisPresenter -----

// CandidateSelected shows the accepted file with its pipeline chooser. A
// pipeline switch edits the same message instead of stacking new ones.
func (p *Presenter) CandidateSelected(c model.UploadCandidate, chosen model.AnalysisType) {
	text := candidateHTML(c, chosen)
	kb := pipelineKeyboard(c, chosen)

	p.mu.Lock()
	msgID := p.candidateMsg
	p.mu.Unlock()

	if msgID != 0 {
		edit := tgbotapi.NewEditMessageText(p.chatID, msgID, text)
		edit.ParseMode = tgbotapi.ModeHTML
		edit.ReplyMarkup = &kb
		if _, err := p.api.Send(edit); err == nil {
			return
		}
		// Fall through and send a fresh message when the edit fails.
	}

	msg := tgbotapi.NewMessage(p.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = kb
	sent, err := p.api.Send(msg)
	if err != nil {
		p.log.Warn().Err(err).Msg("Failed to send candidate message")
		return
	}
	p.mu.Lock()
	p.candidateMsg = sent.MessageID
	p.mu.Unlock()
}

func (p *Presenter) CandidateCleared() {
	p.mu.Lock()
	p.candidateMsg = 0
	p.progressMsg = 0
	p.mu.Unlock()
	p.send("Selection cleared. Send another video or audio file when ready.")
}

// Progress posts the stage ladder as one message that keeps getting edited,
// so the chat shows a single moving progress line.
func (p *Presenter) Progress(stage model.ProgressStage) {
	text := progressHTML(stage)

	p.mu.Lock()
	msgID := p.progressMsg
	p.mu.Unlock()

	if msgID == 0 {
		msg := tgbotapi.NewMessage(p.chatID, text)
		msg.ParseMode = tgbotapi.ModeHTML
		sent, err := p.api.Send(msg)
		if err != nil {
			p.log.Warn().Err(err).Msg("Failed to send progress message")
			return
		}
		p.mu.Lock()
		p.progressMsg = sent.MessageID
		p.mu.Unlock()
		return
	}

	edit := tgbotapi.NewEditMessageText(p.chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	if _, err := p.api.Send(edit); err != nil {
		p.log.Debug().Err(err).Msg("Failed to edit progress message")
	}
}

// ResultReady replaces the progress message with the verdict card.
func (p *Presenter) ResultReady(r model.AnalysisResult) {
	text := resultHTML(r)
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔁 New analysis", "reset"),
		),
	)

	p.mu.Lock()
	msgID := p.progressMsg
	p.progressMsg = 0
	p.mu.Unlock()

	if msgID != 0 {
		edit := tgbotapi.NewEditMessageText(p.chatID, msgID, text)
		edit.ParseMode = tgbotapi.ModeHTML
		edit.ReplyMarkup = &kb
		if _, err := p.api.Send(edit); err == nil {
			return
		}
	}
	msg := tgbotapi.NewMessage(p.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = kb
	if _, err := p.api.Send(msg); err != nil {
		p.log.Warn().Err(err).Msg("Failed to send result message")
	}
}

func (p *Presenter) WorkflowReset() {
	p.mu.Lock()
	p.candidateMsg = 0
	p.progressMsg = 0
	p.mu.Unlock()
	p.send("Ready for a new analysis. Send a video or audio file.")
}

func (p *Presenter) Notify(text string) {
	p.send("⚠️ " + format.EscapeHTML(text))
}

// DismissNotice is a no-op: sent messages stay in the chat, which is the
// right behavior for a messaging surface.
func (p *Presenter) DismissNotice() {}

func (p *Presenter) send(text string) {
	msg := tgbotapi.NewMessage(p.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := p.api.Send(msg); err != nil {
		p.log.Warn().Err(err).Msg("Failed to send message")
	}
}
