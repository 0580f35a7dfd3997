// File: internal/usecase/analysis_uc.go
package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/capgarrick/deepfake-detector/internal/domain"
	"github.com/capgarrick/deepfake-detector/internal/domain/model"
	"github.com/capgarrick/deepfake-detector/internal/domain/ports/adapter"
	"github.com/capgarrick/deepfake-detector/internal/domain/ports/presenter"
	"github.com/capgarrick/deepfake-detector/internal/format"
)

const fallbackAnalysisError = "Analysis failed. Please try again."

const unsupportedMediaText = "Unsupported file type. Please choose a video (MP4, AVI, MOV, MKV, WebM) " +
	"or audio (MP3, WAV, OGG, FLAC, M4A) file."

// Delays holds the pacing knobs. Production values come from config; tests
// run with millisecond values.
type Delays struct {
	Stage     time.Duration // between progress stage markers
	Settle    time.Duration // before the final 100%
	NoticeTTL time.Duration // transient notice lifetime
}

func (d Delays) withDefaults() Delays {
	if d.Stage <= 0 {
		d.Stage = 400 * time.Millisecond
	}
	if d.Settle <= 0 {
		d.Settle = 600 * time.Millisecond
	}
	if d.NoticeTTL <= 0 {
		d.NoticeTTL = 4 * time.Second
	}
	return d
}

// WorkflowSnapshot is a point-in-time copy of the controller state.
type WorkflowSnapshot struct {
	State     model.WorkflowState
	Candidate *model.UploadCandidate
	Type      model.AnalysisType
	Result    *model.AnalysisResult
}

// Compile-time check
var _ AnalysisUseCase = (*analysisUC)(nil)

// AnalysisUseCase drives the file-analysis workflow: candidate selection and
// validation, one in-flight analysis at a time, staged progress, and result
// presentation. Every failure path lands back in a recoverable state.
type AnalysisUseCase interface {
	Select(ctx context.Context, path, declaredMIME string, size int64) error
	SetType(t model.AnalysisType) error
	ClearSelection() error
	Analyze(ctx context.Context) error
	Reset() error
	Snapshot() WorkflowSnapshot
}

type analysisUC struct {
	mu           sync.Mutex
	state        model.WorkflowState
	candidate    *model.UploadCandidate
	analysisType model.AnalysisType
	result       *model.AnalysisResult
	detector     adapter.DetectionServiceAdapter
	view         presenter.AnalysisPresenter
	delays       Delays
	log          *zerolog.Logger
}

func NewAnalysisUseCase(detector adapter.DetectionServiceAdapter, view presenter.AnalysisPresenter, delays Delays, logger *zerolog.Logger) *analysisUC {
	return &analysisUC{
		state:    model.WorkflowEmpty,
		detector: detector,
		view:     view,
		delays:   delays.withDefaults(),
		log:      logger,
	}
}

// Select validates a picked file. A rejection leaves any previously accepted
// candidate in place; acceptance replaces it and preselects the default
// pipeline for its kind.
func (a *analysisUC) Select(ctx context.Context, path, declaredMIME string, size int64) error {
	a.mu.Lock()
	if a.state == model.WorkflowAnalyzing {
		a.mu.Unlock()
		return domain.ErrBusy
	}
	cand, err := model.NewUploadCandidate(path, declaredMIME, size)
	if err != nil {
		a.mu.Unlock()
		a.log.Debug().Err(err).Str("file", path).Msg("Rejected selection")
		a.notify(rejectionText(err, size))
		return err
	}
	a.candidate = cand
	a.analysisType = cand.DefaultType()
	a.result = nil
	a.state = model.WorkflowSelected
	c, chosen := *cand, a.analysisType
	a.mu.Unlock()

	a.view.CandidateSelected(c, chosen)
	return nil
}

// SetType switches the pipeline for the current candidate. Audio candidates
// only ever run the audio pipeline.
func (a *analysisUC) SetType(t model.AnalysisType) error {
	a.mu.Lock()
	if a.state != model.WorkflowSelected {
		a.mu.Unlock()
		return domain.ErrInvalidState
	}
	allowed := false
	for _, x := range a.candidate.AllowedTypes() {
		if x == t {
			allowed = true
			break
		}
	}
	if !allowed {
		a.mu.Unlock()
		return domain.ErrInvalidArgument
	}
	a.analysisType = t
	c := *a.candidate
	a.mu.Unlock()

	a.view.CandidateSelected(c, t)
	return nil
}

// ClearSelection discards the candidate from any state except Analyzing.
func (a *analysisUC) ClearSelection() error {
	a.mu.Lock()
	if a.state == model.WorkflowAnalyzing {
		a.mu.Unlock()
		return domain.ErrBusy
	}
	if a.state == model.WorkflowEmpty {
		a.mu.Unlock()
		return nil
	}
	a.candidate = nil
	a.result = nil
	a.analysisType = ""
	a.state = model.WorkflowEmpty
	a.mu.Unlock()

	a.view.CandidateCleared()
	return nil
}

// Analyze submits the candidate through the chosen pipeline. Progress runs
// through the fixed stage markers; any failure surfaces a transient notice
// and returns to Selected, never stuck in Analyzing.
func (a *analysisUC) Analyze(ctx context.Context) error {
	a.mu.Lock()
	switch a.state {
	case model.WorkflowSelected:
	case model.WorkflowAnalyzing:
		a.mu.Unlock()
		return domain.ErrBusy
	case model.WorkflowEmpty:
		a.mu.Unlock()
		return domain.ErrNoCandidate
	default:
		a.mu.Unlock()
		return domain.ErrInvalidState
	}
	req := model.AnalysisRequest{ID: uuid.NewString(), Type: a.analysisType, Candidate: *a.candidate}
	a.state = model.WorkflowAnalyzing
	a.mu.Unlock()

	log := a.log.With().Str("request_id", req.ID).Str("type", string(req.Type)).Str("file", req.Candidate.Name).Logger()
	log.Info().Int64("size", req.Candidate.SizeBytes).Msg("Starting analysis")
	started := time.Now()

	a.view.Progress(model.StagePreparing)
	sleep(ctx, a.delays.Stage)
	a.view.Progress(model.StageUploaded)

	res, err := a.detector.Analyze(ctx, req)
	if err != nil {
		log.Warn().Err(err).Msg("Analysis request failed")
		a.mu.Lock()
		a.state = model.WorkflowSelected
		a.mu.Unlock()
		detail := domain.ServiceDetail(err)
		if detail == "" {
			detail = fallbackAnalysisError
		}
		a.notify(detail)
		return err
	}

	a.view.Progress(model.StageReceived)
	sleep(ctx, a.delays.Settle)
	a.view.Progress(model.StageComplete)

	a.mu.Lock()
	a.result = res
	a.state = model.WorkflowResult
	a.mu.Unlock()

	log.Info().Dur("duration", time.Since(started)).Float64("score", res.AuthenticityScore).
		Str("verdict", string(res.Verdict)).Msg("Analysis finished")
	a.view.ResultReady(*res)
	return nil
}

// Reset starts a new analysis from a displayed result.
func (a *analysisUC) Reset() error {
	a.mu.Lock()
	if a.state != model.WorkflowResult {
		a.mu.Unlock()
		return domain.ErrInvalidState
	}
	a.candidate = nil
	a.result = nil
	a.analysisType = ""
	a.state = model.WorkflowEmpty
	a.mu.Unlock()

	a.view.WorkflowReset()
	return nil
}

func (a *analysisUC) Snapshot() WorkflowSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	snap := WorkflowSnapshot{State: a.state, Type: a.analysisType}
	if a.candidate != nil {
		c := *a.candidate
		snap.Candidate = &c
	}
	if a.result != nil {
		r := *a.result
		snap.Result = &r
	}
	return snap
}

// notify shows a transient notice and schedules its dismissal.
func (a *analysisUC) notify(text string) {
	a.view.Notify(text)
	time.AfterFunc(a.delays.NoticeTTL, a.view.DismissNotice)
}

func rejectionText(err error, size int64) string {
	if err == domain.ErrFileTooLarge {
		return fmt.Sprintf("File is too large (%s). The limit is %s.",
			format.Bytes(size), format.Bytes(model.MaxUploadBytes))
	}
	return unsupportedMediaText
}

// sleep pauses between progress stages; a cancelled context cuts the pacing
// short without failing the operation.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
