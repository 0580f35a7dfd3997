//go:build !integration

package telegram

import (
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/capgarrick/deepfake-detector/internal/domain/model"
)

// fakeSender records every outgoing call and hands out message IDs.
type fakeSender struct {
	mu     sync.Mutex
	sent   []tgbotapi.Chattable
	nextID int
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	f.nextID++
	return tgbotapi.Message{MessageID: f.nextID}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) calls() []tgbotapi.Chattable {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tgbotapi.Chattable(nil), f.sent...)
}

func newTestPresenter() (*Presenter, *fakeSender) {
	fake := &fakeSender{}
	nop := zerolog.Nop()
	return NewPresenter(fake, 42, &nop), fake
}

func TestPresenterChat(t *testing.T) {
	t.Run("should relay assistant messages as HTML and skip user echoes", func(t *testing.T) {
		p, fake := newTestPresenter()

		p.MessageAppended(model.ChatMessage{Role: model.RoleUser, Content: "hi"})
		if got := len(fake.calls()); got != 0 {
			t.Fatalf("user message should not be sent, got %d calls", got)
		}

		p.MessageAppended(model.ChatMessage{Role: model.RoleBot, Content: "**Hello** there"})
		calls := fake.calls()
		if len(calls) != 1 {
			t.Fatalf("expected 1 call, got %d", len(calls))
		}
		msg, ok := calls[0].(tgbotapi.MessageConfig)
		if !ok {
			t.Fatalf("expected MessageConfig, got %T", calls[0])
		}
		if msg.ParseMode != tgbotapi.ModeHTML {
			t.Fatalf("ParseMode = %q, want HTML", msg.ParseMode)
		}
		if !strings.Contains(msg.Text, "<b>Hello</b>") {
			t.Fatalf("markup not transformed: %q", msg.Text)
		}
	})

	t.Run("should attach suggestions to the latest assistant message", func(t *testing.T) {
		p, fake := newTestPresenter()

		p.MessageAppended(model.ChatMessage{Role: model.RoleBot, Content: "Welcome"})
		p.ShowSuggestions([]string{"What is a deepfake?", "Protection tips"})

		calls := fake.calls()
		if len(calls) != 2 {
			t.Fatalf("expected 2 calls, got %d", len(calls))
		}
		edit, ok := calls[1].(tgbotapi.EditMessageReplyMarkupConfig)
		if !ok {
			t.Fatalf("expected EditMessageReplyMarkupConfig, got %T", calls[1])
		}
		rows := edit.ReplyMarkup.InlineKeyboard
		if len(rows) != 2 {
			t.Fatalf("expected 2 keyboard rows, got %d", len(rows))
		}
		if data := *rows[1][0].CallbackData; data != "sug:1" {
			t.Fatalf("callback data = %q, want sug:1", data)
		}

		if got, ok := p.Suggestion(1); !ok || got != "Protection tips" {
			t.Fatalf("Suggestion(1) = %q, %v", got, ok)
		}
		p.ClearSuggestions()
		if _, ok := p.Suggestion(0); ok {
			t.Fatal("suggestions should be cleared")
		}
	})

	t.Run("should send typing as a chat action", func(t *testing.T) {
		p, fake := newTestPresenter()
		p.TypingStarted()
		calls := fake.calls()
		if len(calls) != 1 {
			t.Fatalf("expected 1 call, got %d", len(calls))
		}
		action, ok := calls[0].(tgbotapi.ChatActionConfig)
		if !ok {
			t.Fatalf("expected ChatActionConfig, got %T", calls[0])
		}
		if action.Action != tgbotapi.ChatTyping {
			t.Fatalf("action = %q, want typing", action.Action)
		}
	})
}

func TestPresenterAnalysis(t *testing.T) {
	candidate := model.UploadCandidate{Name: "clip.mp4", Kind: model.MediaVideo, SizeBytes: 1 << 20}

	t.Run("should edit the candidate card on pipeline switches", func(t *testing.T) {
		p, fake := newTestPresenter()

		p.CandidateSelected(candidate, model.AnalysisFull)
		p.CandidateSelected(candidate, model.AnalysisVideo)

		calls := fake.calls()
		if len(calls) != 2 {
			t.Fatalf("expected 2 calls, got %d", len(calls))
		}
		if _, ok := calls[0].(tgbotapi.MessageConfig); !ok {
			t.Fatalf("first call should send, got %T", calls[0])
		}
		edit, ok := calls[1].(tgbotapi.EditMessageTextConfig)
		if !ok {
			t.Fatalf("second call should edit, got %T", calls[1])
		}
		if !strings.Contains(edit.Text, "video") {
			t.Fatalf("edited card should name the new pipeline: %q", edit.Text)
		}
	})

	t.Run("should keep progress in a single edited message", func(t *testing.T) {
		p, fake := newTestPresenter()

		p.Progress(model.StagePreparing)
		p.Progress(model.StageUploaded)
		p.Progress(model.StageReceived)

		calls := fake.calls()
		if len(calls) != 3 {
			t.Fatalf("expected 3 calls, got %d", len(calls))
		}
		if _, ok := calls[0].(tgbotapi.MessageConfig); !ok {
			t.Fatalf("first stage should send, got %T", calls[0])
		}
		for i := 1; i < 3; i++ {
			if _, ok := calls[i].(tgbotapi.EditMessageTextConfig); !ok {
				t.Fatalf("stage %d should edit, got %T", i, calls[i])
			}
		}
	})

	t.Run("should replace the progress message with the verdict card", func(t *testing.T) {
		p, fake := newTestPresenter()

		p.Progress(model.StagePreparing)
		p.ResultReady(model.AnalysisResult{
			AuthenticityScore: 35,
			Confidence:        80,
			Verdict:           model.VerdictLikelyFake,
			Indicators:        []string{"Audio desync"},
		})

		calls := fake.calls()
		if len(calls) != 2 {
			t.Fatalf("expected 2 calls, got %d", len(calls))
		}
		edit, ok := calls[1].(tgbotapi.EditMessageTextConfig)
		if !ok {
			t.Fatalf("result should edit the progress message, got %T", calls[1])
		}
		if !strings.Contains(edit.Text, "Likely Fake") {
			t.Fatalf("verdict missing from card: %q", edit.Text)
		}
		if edit.ReplyMarkup == nil || len(edit.ReplyMarkup.InlineKeyboard) == 0 {
			t.Fatal("result card should carry the reset keyboard")
		}

		// The next run must start a fresh progress message.
		p.Progress(model.StagePreparing)
		calls = fake.calls()
		if _, ok := calls[2].(tgbotapi.MessageConfig); !ok {
			t.Fatalf("new run should send a new message, got %T", calls[2])
		}
	})

	t.Run("should escape server text in notices", func(t *testing.T) {
		p, fake := newTestPresenter()
		p.Notify("<script>nope</script>")
		calls := fake.calls()
		msg := calls[0].(tgbotapi.MessageConfig)
		if strings.Contains(msg.Text, "<script>") {
			t.Fatalf("notice not escaped: %q", msg.Text)
		}
	})
}
