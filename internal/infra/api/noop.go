// File: internal/infra/api/noop.go
package api

import (
	"context"
	"time"

	"github.com/capgarrick/deepfake-detector/internal/domain/model"
	"github.com/capgarrick/deepfake-detector/internal/domain/ports/adapter"
)

var _ adapter.AssistantServiceAdapter = (*NoopAdapter)(nil)
var _ adapter.DetectionServiceAdapter = (*NoopAdapter)(nil)

// NoopAdapter implements both service ports for local/dev runs without a
// backend. It answers with canned content after a small simulated delay.
type NoopAdapter struct{}

// NewNoopAdapter constructs the noop adapter.
func NewNoopAdapter() *NoopAdapter {
	return &NoopAdapter{}
}

func (a *NoopAdapter) Welcome(ctx context.Context) (adapter.Greeting, error) {
	if err := pause(ctx); err != nil {
		return adapter.Greeting{}, err
	}
	return adapter.Greeting{
		Message:     "Hello! I'm running in offline mode. Ask me anything about deepfakes.",
		Suggestions: []string{"What is a deepfake?", "How to detect them?"},
	}, nil
}

func (a *NoopAdapter) Send(ctx context.Context, message string) (adapter.Reply, error) {
	if err := pause(ctx); err != nil {
		return adapter.Reply{}, err
	}
	return adapter.Reply{Text: "This is an offline response."}, nil
}

func (a *NoopAdapter) Analyze(ctx context.Context, req model.AnalysisRequest) (*model.AnalysisResult, error) {
	if err := pause(ctx); err != nil {
		return nil, err
	}
	return &model.AnalysisResult{
		AuthenticityScore: 50,
		Confidence:        50,
		Verdict:           model.VerdictUncertain,
		Details:           []model.DetailMetric{{Label: "Overall Health", Value: 50}},
		Indicators:        append([]string(nil), placeholderIndicators...),
		Tips:              append([]string(nil), placeholderTips...),
	}, nil
}

// pause simulates slight processing time and respects ctx.
func pause(ctx context.Context) error {
	select {
	case <-time.After(100 * time.Millisecond):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
