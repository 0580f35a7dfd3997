//go:build !integration

package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/capgarrick/deepfake-detector/internal/domain"
	"github.com/capgarrick/deepfake-detector/internal/domain/model"
)

func testDelays() Delays {
	return Delays{Stage: time.Millisecond, Settle: time.Millisecond, NoticeTTL: 20 * time.Millisecond}
}

func newAnalysisForTest(det *fakeDetector) (*analysisUC, *analysisRecorder) {
	view := &analysisRecorder{}
	logger := zerolog.Nop()
	return NewAnalysisUseCase(det, view, testDelays(), &logger), view
}

func TestAnalysisSelect(t *testing.T) {
	t.Run("valid video should move to Selected with the full pipeline", func(t *testing.T) {
		uc, view := newAnalysisForTest(&fakeDetector{})

		if err := uc.Select(context.Background(), "clip.mp4", "", 40<<20); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		snap := uc.Snapshot()
		if snap.State != model.WorkflowSelected {
			t.Fatalf("expected Selected state, got %s", snap.State)
		}
		if snap.Type != model.AnalysisFull {
			t.Errorf("expected default type full, got %s", snap.Type)
		}
		events := view.list()
		if events[len(events)-1] != "selected:clip.mp4:full" {
			t.Errorf("expected selection event, got %v", events)
		}
	})

	t.Run("audio file should auto-select the audio pipeline", func(t *testing.T) {
		uc, _ := newAnalysisForTest(&fakeDetector{})

		if err := uc.Select(context.Background(), "voice.flac", "", 1<<20); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := uc.Snapshot().Type; got != model.AnalysisAudio {
			t.Errorf("expected audio type, got %s", got)
		}
	})

	t.Run("invalid file should be rejected and keep the previous candidate", func(t *testing.T) {
		uc, view := newAnalysisForTest(&fakeDetector{})

		if err := uc.Select(context.Background(), "clip.mp4", "", 1<<20); err != nil {
			t.Fatalf("setup selection failed: %v", err)
		}
		err := uc.Select(context.Background(), "data.txt", "text/plain", 1<<10)
		if !errors.Is(err, domain.ErrUnsupportedMedia) {
			t.Fatalf("expected ErrUnsupportedMedia, got %v", err)
		}
		snap := uc.Snapshot()
		if snap.Candidate == nil || snap.Candidate.Name != "clip.mp4" {
			t.Errorf("expected previous candidate retained, got %+v", snap.Candidate)
		}
		if view.lastNotice() == "" {
			t.Error("expected a validation notice")
		}
	})

	t.Run("oversized file should be rejected with the limit in the notice", func(t *testing.T) {
		uc, view := newAnalysisForTest(&fakeDetector{})

		err := uc.Select(context.Background(), "big.mp4", "", model.MaxUploadBytes+1)
		if !errors.Is(err, domain.ErrFileTooLarge) {
			t.Fatalf("expected ErrFileTooLarge, got %v", err)
		}
		if notice := view.lastNotice(); !strings.Contains(notice, "100.0 MB") {
			t.Errorf("expected the 100 MB limit in the notice, got %q", notice)
		}
	})

	t.Run("validation notice should auto-dismiss", func(t *testing.T) {
		uc, view := newAnalysisForTest(&fakeDetector{})

		_ = uc.Select(context.Background(), "data.txt", "", 1)

		deadline := time.Now().Add(2 * time.Second)
		for view.dismissals() == 0 {
			if time.Now().After(deadline) {
				t.Fatal("notice was never dismissed")
			}
			time.Sleep(5 * time.Millisecond)
		}
	})
}

func TestAnalysisSetType(t *testing.T) {
	t.Run("video candidate may switch pipelines", func(t *testing.T) {
		uc, view := newAnalysisForTest(&fakeDetector{})
		_ = uc.Select(context.Background(), "clip.mp4", "", 1<<20)

		if err := uc.SetType(model.AnalysisAudio); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := uc.Snapshot().Type; got != model.AnalysisAudio {
			t.Errorf("expected audio type, got %s", got)
		}
		events := view.list()
		if events[len(events)-1] != "selected:clip.mp4:audio" {
			t.Errorf("expected re-render with the new type, got %v", events)
		}
	})

	t.Run("audio candidate cannot run the video pipeline", func(t *testing.T) {
		uc, _ := newAnalysisForTest(&fakeDetector{})
		_ = uc.Select(context.Background(), "voice.mp3", "", 1<<20)

		if err := uc.SetType(model.AnalysisVideo); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("no candidate means no type to set", func(t *testing.T) {
		uc, _ := newAnalysisForTest(&fakeDetector{})
		if err := uc.SetType(model.AnalysisFull); !errors.Is(err, domain.ErrInvalidState) {
			t.Fatalf("expected ErrInvalidState, got %v", err)
		}
	})
}

func TestAnalyze(t *testing.T) {
	t.Run("end to end success should walk all stages into Result", func(t *testing.T) {
		det := &fakeDetector{res: &model.AnalysisResult{
			AuthenticityScore: 82,
			Confidence:        91,
			Verdict:           model.VerdictLikelyAuthentic,
		}}
		uc, view := newAnalysisForTest(det)
		_ = uc.Select(context.Background(), "clip.mp4", "", 40<<20)

		if err := uc.Analyze(context.Background()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		stages := view.progressSeen()
		want := []int{0, 30, 70, 100}
		if len(stages) != len(want) {
			t.Fatalf("expected stages %v, got %v", want, stages)
		}
		for i := range want {
			if stages[i] != want[i] {
				t.Fatalf("expected stages %v, got %v", want, stages)
			}
		}

		snap := uc.Snapshot()
		if snap.State != model.WorkflowResult {
			t.Fatalf("expected Result state, got %s", snap.State)
		}
		res := view.lastResult()
		if res == nil || res.AuthenticityScore != 82 || res.Confidence != 91 {
			t.Errorf("expected the normalized result displayed, got %+v", res)
		}
		if res.Verdict.Label() != "Likely Authentic" {
			t.Errorf("expected verdict badge 'Likely Authentic', got %q", res.Verdict.Label())
		}
		if got := det.lastReq(); got.Type != model.AnalysisFull || got.Candidate.Name != "clip.mp4" {
			t.Errorf("unexpected request sent: %+v", got)
		}
	})

	t.Run("analyze with no candidate should be a no-op", func(t *testing.T) {
		det := &fakeDetector{}
		uc, view := newAnalysisForTest(det)

		if err := uc.Analyze(context.Background()); !errors.Is(err, domain.ErrNoCandidate) {
			t.Fatalf("expected ErrNoCandidate, got %v", err)
		}
		if det.calls() != 0 {
			t.Errorf("expected no request, got %d", det.calls())
		}
		if len(view.progressSeen()) != 0 {
			t.Errorf("expected no progress events, got %v", view.progressSeen())
		}
	})

	t.Run("failure should surface the server detail and recover to Selected", func(t *testing.T) {
		det := &fakeDetector{err: &domain.ServiceError{Status: 400, Detail: "Audio too short (minimum 0.5 seconds)"}}
		uc, view := newAnalysisForTest(det)
		_ = uc.Select(context.Background(), "voice.wav", "", 1<<20)

		if err := uc.Analyze(context.Background()); err == nil {
			t.Fatal("expected the failure to propagate")
		}
		if got := view.lastNotice(); got != "Audio too short (minimum 0.5 seconds)" {
			t.Errorf("expected the server detail in the notice, got %q", got)
		}
		if got := uc.Snapshot().State; got != model.WorkflowSelected {
			t.Fatalf("expected recovery to Selected, got %s", got)
		}

		// recovered state accepts a retry
		det.mu.Lock()
		det.err = nil
		det.res = &model.AnalysisResult{AuthenticityScore: 55, Confidence: 60, Verdict: model.VerdictUncertain}
		det.mu.Unlock()
		if err := uc.Analyze(context.Background()); err != nil {
			t.Fatalf("expected retry to succeed, got %v", err)
		}
	})

	t.Run("failure without detail should use the fixed default", func(t *testing.T) {
		det := &fakeDetector{err: errors.New("dial tcp: connection refused")}
		uc, view := newAnalysisForTest(det)
		_ = uc.Select(context.Background(), "clip.mp4", "", 1<<20)

		_ = uc.Analyze(context.Background())
		if got := view.lastNotice(); got != fallbackAnalysisError {
			t.Errorf("expected the default error notice, got %q", got)
		}
	})

	t.Run("re-entrant operations are rejected while Analyzing", func(t *testing.T) {
		det := &fakeDetector{
			res:     &model.AnalysisResult{AuthenticityScore: 70, Confidence: 80, Verdict: model.VerdictLikelyAuthentic},
			started: make(chan struct{}),
			gate:    make(chan struct{}),
		}
		started := det.started
		uc, _ := newAnalysisForTest(det)
		_ = uc.Select(context.Background(), "clip.mp4", "", 1<<20)

		done := make(chan error, 1)
		go func() { done <- uc.Analyze(context.Background()) }()

		select {
		case <-started:
		case <-time.After(2 * time.Second):
			t.Fatal("analysis never reached the adapter")
		}

		if err := uc.Analyze(context.Background()); !errors.Is(err, domain.ErrBusy) {
			t.Errorf("expected ErrBusy for re-entrant analyze, got %v", err)
		}
		if err := uc.ClearSelection(); !errors.Is(err, domain.ErrBusy) {
			t.Errorf("expected ErrBusy for clear during analyze, got %v", err)
		}
		if err := uc.Select(context.Background(), "other.mp4", "", 1); !errors.Is(err, domain.ErrBusy) {
			t.Errorf("expected ErrBusy for select during analyze, got %v", err)
		}

		close(det.gate)
		if err := <-done; err != nil {
			t.Fatalf("analysis failed: %v", err)
		}
		if det.calls() != 1 {
			t.Errorf("expected exactly one request, got %d", det.calls())
		}
	})
}

func TestWorkflowResetAndClear(t *testing.T) {
	t.Run("reset should only work from Result", func(t *testing.T) {
		det := &fakeDetector{res: &model.AnalysisResult{AuthenticityScore: 90, Confidence: 88, Verdict: model.VerdictLikelyAuthentic}}
		uc, view := newAnalysisForTest(det)

		if err := uc.Reset(); !errors.Is(err, domain.ErrInvalidState) {
			t.Fatalf("expected ErrInvalidState from Empty, got %v", err)
		}

		_ = uc.Select(context.Background(), "clip.mp4", "", 1<<20)
		if err := uc.Reset(); !errors.Is(err, domain.ErrInvalidState) {
			t.Fatalf("expected ErrInvalidState from Selected, got %v", err)
		}

		if err := uc.Analyze(context.Background()); err != nil {
			t.Fatalf("analysis failed: %v", err)
		}
		if err := uc.Reset(); err != nil {
			t.Fatalf("expected reset from Result, got %v", err)
		}
		snap := uc.Snapshot()
		if snap.State != model.WorkflowEmpty || snap.Candidate != nil || snap.Result != nil {
			t.Errorf("expected a pristine workflow after reset, got %+v", snap)
		}
		events := view.list()
		if events[len(events)-1] != "reset" {
			t.Errorf("expected reset event, got %v", events)
		}
	})

	t.Run("clear should empty a selection", func(t *testing.T) {
		uc, view := newAnalysisForTest(&fakeDetector{})
		_ = uc.Select(context.Background(), "clip.mp4", "", 1<<20)

		if err := uc.ClearSelection(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := uc.Snapshot().State; got != model.WorkflowEmpty {
			t.Fatalf("expected Empty, got %s", got)
		}
		events := view.list()
		if events[len(events)-1] != "cleared" {
			t.Errorf("expected cleared event, got %v", events)
		}
	})

	t.Run("clear on empty is a quiet no-op", func(t *testing.T) {
		uc, view := newAnalysisForTest(&fakeDetector{})
		if err := uc.ClearSelection(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(view.list()) != 0 {
			t.Errorf("expected no events, got %v", view.list())
		}
	})
}
