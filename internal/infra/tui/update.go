// File: internal/infra/tui/update.go
package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/capgarrick/deepfake-detector/internal/domain"
)

const noticeTTL = 4 * time.Second

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m = m.layout()
		return m, nil

	case spinner.TickMsg:
		if m.busy() {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	// ----- assistant panel -----

	case chatOpenedMsg:
		m.chatOpen = true
		m.history = msg.history
		m.greeting = len(msg.history) == 0
		m = m.layout()
		m.refreshTranscript()
		if m.greeting {
			return m, m.spin.Tick
		}
		return m, nil

	case chatClosedMsg:
		m.chatOpen = false
		m = m.layout()
		return m, nil

	case chatAppendMsg:
		m.history = append(m.history, msg.message)
		m.greeting = false
		m.refreshTranscript()
		return m, nil

	case typingMsg:
		m.typing = msg.on
		if msg.on {
			return m, m.spin.Tick
		}
		return m, nil

	case suggestionsMsg:
		m.suggestions = msg.items
		return m, nil

	// ----- analysis panel -----

	case candidateMsg:
		c := msg.candidate
		m.candidate = &c
		m.chosen = msg.chosen
		m.result = nil
		m.analyzing = false
		return m, nil

	case candidateClearedMsg:
		m.candidate = nil
		m.chosen = ""
		m.result = nil
		m.analyzing = false
		return m, nil

	case progressMsg:
		m.stage = msg.stage
		m.analyzing = msg.stage.Percent < 100
		if m.analyzing {
			return m, m.spin.Tick
		}
		return m, nil

	case resultMsg:
		r := msg.result
		m.result = &r
		m.analyzing = false
		return m, nil

	case workflowResetMsg:
		m.candidate = nil
		m.chosen = ""
		m.result = nil
		m.analyzing = false
		return m, nil

	case noticeMsg:
		m.notice = msg.text
		return m, nil

	case noticeDismissMsg:
		m.notice = ""
		return m, nil

	case opDoneMsg:
		return m.handleOpDone(msg)
	}

	return m, nil
}

// handleOpDone surfaces the guard rejections the controllers report through
// the return value instead of a presenter call.
func (m Model) handleOpDone(msg opDoneMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.err == nil:
		return m, nil
	case errors.Is(msg.err, domain.ErrMessageTooLong):
		return m.showNotice("Message is too long. Keep it under 500 characters.")
	case errors.Is(msg.err, domain.ErrBusy):
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) showNotice(text string) (tea.Model, tea.Cmd) {
	m.notice = text
	return m, tea.Tick(noticeTTL, func(time.Time) tea.Msg { return noticeDismissMsg{} })
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	// File picker captures everything while open.
	if m.pickerOpen {
		if msg.Type == tea.KeyEsc {
			m.pickerOpen = false
			return m, nil
		}
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		if ok, path := m.picker.DidSelectFile(msg); ok {
			m.pickerOpen = false
			return m, tea.Batch(cmd, m.selectCmd(path))
		}
		if ok, _ := m.picker.DidSelectDisabledFile(msg); ok {
			m.notice = "That file type is not supported."
			return m, tea.Batch(cmd, tea.Tick(noticeTTL, func(time.Time) tea.Msg { return noticeDismissMsg{} }))
		}
		return m, cmd
	}

	switch msg.Type {
	case tea.KeyEsc:
		if m.chatOpen {
			return m, m.toggleChatCmd()
		}
		return m, tea.Quit

	case tea.KeyTab:
		return m, m.toggleChatCmd()

	case tea.KeyCtrlO:
		if m.analyzing {
			return m.showNotice("Analysis in progress. Wait for it to finish.")
		}
		m.pickerOpen = true
		return m, m.picker.Init()

	case tea.KeyCtrlT:
		if next, ok := m.nextType(); ok {
			return m, m.setTypeCmd(next)
		}
		return m, nil

	case tea.KeyCtrlA:
		if m.candidate == nil {
			return m.showNotice("Choose a file first (ctrl+o).")
		}
		return m, m.analyzeCmd()

	case tea.KeyCtrlX:
		if m.result != nil {
			return m, m.resetCmd()
		}
		if m.candidate != nil {
			return m, m.clearCmd()
		}
		return m, nil

	case tea.KeyEnter:
		if msg.Alt {
			break // newline in the textarea
		}
		if !m.chatOpen {
			return m, nil
		}
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		m.input.Reset()
		return m, m.submitCmd(text)

	case tea.KeyPgUp, tea.KeyPgDown:
		if m.chatOpen {
			var cmd tea.Cmd
			m.transcript, cmd = m.transcript.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	// alt+1..9 submits the matching suggestion chip.
	if msg.Alt && len(msg.Runes) == 1 && msg.Runes[0] >= '1' && msg.Runes[0] <= '9' {
		i := int(msg.Runes[0] - '1')
		if m.chatOpen && i < len(m.suggestions) {
			return m, m.submitCmd(m.suggestions[i])
		}
		return m, nil
	}

	if !m.chatOpen {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// busy reports whether anything that warrants the spinner is running.
func (m Model) busy() bool {
	return m.typing || m.analyzing || m.greeting
}

// layout recomputes component sizes from the window and panel state.
func (m Model) layout() Model {
	if !m.ready {
		return m
	}
	chromeHeight := 8 // header, borders, input, footer
	panelHeight := m.height - chromeHeight
	if panelHeight < 6 {
		panelHeight = 6
	}

	m.transcript.Width = chatPanelWidth - 4
	m.transcript.Height = panelHeight - 6
	if m.transcript.Height < 3 {
		m.transcript.Height = 3
	}
	m.input.SetWidth(chatPanelWidth - 6)

	analysisWidth := m.width - 4
	if m.chatOpen {
		analysisWidth -= chatPanelWidth + 1
	}
	if analysisWidth < 24 {
		analysisWidth = 24
	}
	m.bar.Width = analysisWidth - 6

	m.picker.Height = m.height - 6
	if m.picker.Height < 5 {
		m.picker.Height = 5
	}
	m.refreshTranscript()
	return m
}
