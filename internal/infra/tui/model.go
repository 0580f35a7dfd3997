// File: internal/infra/tui/model.go
package tui

import (
	"context"
	"os"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/capgarrick/deepfake-detector/internal/application"
	"github.com/capgarrick/deepfake-detector/internal/domain/model"
)

const chatPanelWidth = 46

// pickerExtensions feeds the file picker's allow-list; the controller
// re-validates whatever comes out of it.
var pickerExtensions = []string{
	".mp4", ".avi", ".mov", ".mkv", ".webm",
	".mp3", ".wav", ".ogg", ".flac", ".m4a",
}

// Model is the bubbletea model. It mirrors the controller state it needs
// for rendering; the controllers stay the source of truth and every mirror
// field is written only from presenter messages.
type Model struct {
	ctx    context.Context
	client *application.Client
	styles Styles

	input      textarea.Model
	transcript viewport.Model
	spin       spinner.Model
	bar        progress.Model
	picker     filepicker.Model

	pickerOpen bool

	// assistant panel mirror
	chatOpen    bool
	history     []model.ChatMessage
	typing      bool
	greeting    bool // welcome fetch in flight
	suggestions []string

	// analysis panel mirror
	candidate *model.UploadCandidate
	chosen    model.AnalysisType
	analyzing bool
	stage     model.ProgressStage
	result    *model.AnalysisResult
	notice    string

	width  int
	height int
	ready  bool
}

func NewModel(ctx context.Context, client *application.Client) Model {
	styles := NewStyles()

	ta := textarea.New()
	ta.Placeholder = "Ask about deepfakes... (Enter to send)"
	ta.ShowLineNumbers = false
	ta.CharLimit = 500
	ta.SetHeight(2)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Badge

	vp := viewport.New(chatPanelWidth-2, 16)

	fp := filepicker.New()
	fp.AllowedTypes = pickerExtensions
	if wd, err := os.Getwd(); err == nil {
		fp.CurrentDirectory = wd
	}

	return Model{
		ctx:    ctx,
		client: client,
		styles: styles,
		input:  ta,
		spin:   sp,
		bar:    progress.New(progress.WithDefaultGradient()),
		picker: fp,

		transcript: vp,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spin.Tick)
}

// Controller commands. Each runs one operation on its own goroutine; the
// visible outcome arrives back through presenter messages, so the returned
// opDoneMsg only reports guard rejections.

func (m Model) toggleChatCmd() tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		client.Chat.Toggle(ctx)
		return opDoneMsg{}
	}
}

func (m Model) submitCmd(text string) tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		return opDoneMsg{err: client.Chat.Submit(ctx, text)}
	}
}

func (m Model) selectCmd(path string) tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		var size int64
		if fi, err := os.Stat(path); err == nil {
			size = fi.Size()
		}
		return opDoneMsg{err: client.Analysis.Select(ctx, path, "", size)}
	}
}

func (m Model) setTypeCmd(t model.AnalysisType) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return opDoneMsg{err: client.Analysis.SetType(t)}
	}
}

func (m Model) analyzeCmd() tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		return opDoneMsg{err: client.Analysis.Analyze(ctx)}
	}
}

func (m Model) clearCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return opDoneMsg{err: client.Analysis.ClearSelection()}
	}
}

func (m Model) resetCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return opDoneMsg{err: client.Analysis.Reset()}
	}
}

// nextType cycles through the pipelines allowed for the current candidate.
func (m Model) nextType() (model.AnalysisType, bool) {
	if m.candidate == nil {
		return "", false
	}
	allowed := m.candidate.AllowedTypes()
	if len(allowed) < 2 {
		return "", false
	}
	for i, t := range allowed {
		if t == m.chosen {
			return allowed[(i+1)%len(allowed)], true
		}
	}
	return allowed[0], true
}
