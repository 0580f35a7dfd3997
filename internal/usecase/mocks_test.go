//go:build !integration

// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"sync"

	"github.com/capgarrick/deepfake-detector/internal/domain/model"
	"github.com/capgarrick/deepfake-detector/internal/domain/ports/adapter"
	"github.com/capgarrick/deepfake-detector/internal/domain/ports/presenter"
)

// -----------------------------
// Adapter fakes
// -----------------------------

var _ adapter.AssistantServiceAdapter = (*fakeAssistant)(nil)

// fakeAssistant scripts the chat backend. The optional started/gate channels
// let a test hold a request open: started closes when Send is first reached,
// and Send does not return until gate is closed.
type fakeAssistant struct {
	mu         sync.Mutex
	greeting   adapter.Greeting
	welcomeErr error
	reply      adapter.Reply
	sendErr    error
	lastSent   string
	n          int

	started   chan struct{}
	gate      chan struct{}
	startOnce sync.Once
}

func (f *fakeAssistant) Welcome(ctx context.Context) (adapter.Greeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.greeting, f.welcomeErr
}

func (f *fakeAssistant) Send(ctx context.Context, message string) (adapter.Reply, error) {
	f.mu.Lock()
	f.n++
	f.lastSent = message
	reply, err := f.reply, f.sendErr
	f.mu.Unlock()

	if f.started != nil {
		f.startOnce.Do(func() { close(f.started) })
	}
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return adapter.Reply{}, ctx.Err()
		}
	}
	return reply, err
}

func (f *fakeAssistant) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.n
}

var _ adapter.DetectionServiceAdapter = (*fakeDetector)(nil)

// fakeDetector scripts the analysis backend the same way. Tests may swap res
// and err between calls under mu.
type fakeDetector struct {
	mu  sync.Mutex
	res *model.AnalysisResult
	err error
	req model.AnalysisRequest
	n   int

	started   chan struct{}
	gate      chan struct{}
	startOnce sync.Once
}

func (f *fakeDetector) Analyze(ctx context.Context, req model.AnalysisRequest) (*model.AnalysisResult, error) {
	f.mu.Lock()
	f.n++
	f.req = req
	f.mu.Unlock()

	if f.started != nil {
		f.startOnce.Do(func() { close(f.started) })
	}
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.res == nil {
		return &model.AnalysisResult{}, nil
	}
	r := *f.res
	return &r, nil
}

func (f *fakeDetector) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.n
}

func (f *fakeDetector) lastReq() model.AnalysisRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.req
}

// -----------------------------
// Presenter recorders
// -----------------------------

var _ presenter.ChatPresenter = (*chatRecorder)(nil)

// chatRecorder logs every render call as a flat event string so tests can
// assert ordering with plain index comparisons.
type chatRecorder struct {
	mu     sync.Mutex
	events []string
	items  []string
}

func (r *chatRecorder) record(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *chatRecorder) SessionOpened(history []model.ChatMessage) { r.record("opened") }
func (r *chatRecorder) SessionClosed()                            { r.record("closed") }

func (r *chatRecorder) MessageAppended(m model.ChatMessage) {
	r.record("msg:" + string(m.Role) + ":" + m.Content)
}

func (r *chatRecorder) TypingStarted() { r.record("typing:on") }
func (r *chatRecorder) TypingStopped() { r.record("typing:off") }

func (r *chatRecorder) ShowSuggestions(items []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append([]string(nil), items...)
	r.events = append(r.events, "suggest:show")
}

func (r *chatRecorder) ClearSuggestions() { r.record("suggest:clear") }

func (r *chatRecorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

// shown returns the items of the most recent ShowSuggestions call.
func (r *chatRecorder) shown() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.items...)
}

var _ presenter.AnalysisPresenter = (*analysisRecorder)(nil)

type analysisRecorder struct {
	mu        sync.Mutex
	events    []string
	notices   []string
	stages    []int
	result    *model.AnalysisResult
	dismissed int
}

func (r *analysisRecorder) record(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *analysisRecorder) CandidateSelected(c model.UploadCandidate, chosen model.AnalysisType) {
	r.record("selected:" + c.Name + ":" + string(chosen))
}

func (r *analysisRecorder) CandidateCleared() { r.record("cleared") }

func (r *analysisRecorder) Progress(stage model.ProgressStage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stages = append(r.stages, stage.Percent)
}

func (r *analysisRecorder) ResultReady(res model.AnalysisResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.result = &res
}

func (r *analysisRecorder) WorkflowReset() { r.record("reset") }

func (r *analysisRecorder) Notify(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, text)
}

func (r *analysisRecorder) DismissNotice() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dismissed++
}

func (r *analysisRecorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *analysisRecorder) lastNotice() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return ""
	}
	return r.notices[len(r.notices)-1]
}

func (r *analysisRecorder) dismissals() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dismissed
}

func (r *analysisRecorder) progressSeen() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.stages...)
}

func (r *analysisRecorder) lastResult() *model.AnalysisResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result
}
