// File: internal/infra/tui/presenter.go
package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/capgarrick/deepfake-detector/internal/domain/model"
	"github.com/capgarrick/deepfake-detector/internal/domain/ports/presenter"
)

// Presenter messages. The controllers run inside command goroutines; every
// render call crosses back into the update loop as one of these.
type (
	chatOpenedMsg  struct{ history []model.ChatMessage }
	chatClosedMsg  struct{}
	chatAppendMsg  struct{ message model.ChatMessage }
	typingMsg      struct{ on bool }
	suggestionsMsg struct{ items []string }

	candidateMsg struct {
		candidate model.UploadCandidate
		chosen    model.AnalysisType
	}
	candidateClearedMsg struct{}
	progressMsg         struct{ stage model.ProgressStage }
	resultMsg           struct{ result model.AnalysisResult }
	workflowResetMsg    struct{}
	noticeMsg           struct{ text string }
	noticeDismissMsg    struct{}

	// opDoneMsg closes out a controller command; err keeps rejected guard
	// calls visible to the update loop (most are already rendered by the
	// controller itself and need no extra handling).
	opDoneMsg struct{ err error }
)

// Compile-time checks
var (
	_ presenter.ChatPresenter     = (*Presenter)(nil)
	_ presenter.AnalysisPresenter = (*Presenter)(nil)
)

// Presenter forwards controller render calls into the bubbletea program.
// It must be attached to the program before the first controller operation
// runs; operations are only ever dispatched from the update loop, so binding
// in main between NewProgram and Run is enough.
type Presenter struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func NewPresenter() *Presenter {
	return &Presenter{}
}

// Attach binds the running program. Calls before Attach are dropped.
func (p *Presenter) Attach(prog *tea.Program) {
	p.mu.Lock()
	p.send = prog.Send
	p.mu.Unlock()
}

func (p *Presenter) post(msg tea.Msg) {
	p.mu.Lock()
	send := p.send
	p.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

func (p *Presenter) SessionOpened(history []model.ChatMessage) {
	p.post(chatOpenedMsg{history: history})
}

func (p *Presenter) SessionClosed() { p.post(chatClosedMsg{}) }

func (p *Presenter) MessageAppended(m model.ChatMessage) {
	p.post(chatAppendMsg{message: m})
}

func (p *Presenter) TypingStarted() { p.post(typingMsg{on: true}) }
func (p *Presenter) TypingStopped() { p.post(typingMsg{on: false}) }

func (p *Presenter) ShowSuggestions(items []string) {
	p.post(suggestionsMsg{items: items})
}

func (p *Presenter) ClearSuggestions() { p.post(suggestionsMsg{}) }

func (p *Presenter) CandidateSelected(c model.UploadCandidate, chosen model.AnalysisType) {
	p.post(candidateMsg{candidate: c, chosen: chosen})
}

func (p *Presenter) CandidateCleared() { p.post(candidateClearedMsg{}) }

func (p *Presenter) Progress(stage model.ProgressStage) {
	p.post(progressMsg{stage: stage})
}

func (p *Presenter) ResultReady(r model.AnalysisResult) {
	p.post(resultMsg{result: r})
}

func (p *Presenter) WorkflowReset() { p.post(workflowResetMsg{}) }

func (p *Presenter) Notify(text string) { p.post(noticeMsg{text: text}) }

func (p *Presenter) DismissNotice() { p.post(noticeDismissMsg{}) }
