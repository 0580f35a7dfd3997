package adapter

import (
	"context"

	"github.com/capgarrick/deepfake-detector/internal/domain/model"
)

// DetectionServiceAdapter is the port for the analysis endpoints. Analyze
// blocks for the whole upload/processing round-trip and returns the
// normalized result. Error conventions match AssistantServiceAdapter.
type DetectionServiceAdapter interface {
	Analyze(ctx context.Context, req model.AnalysisRequest) (*model.AnalysisResult, error)
}
