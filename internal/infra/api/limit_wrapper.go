// File: internal/infra/api/limit_wrapper.go
package api

import (
	"context"

	"github.com/capgarrick/deepfake-detector/internal/domain/model"
	"github.com/capgarrick/deepfake-detector/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.DetectionServiceAdapter = (*limitedDetector)(nil)

type limitedDetector struct {
	inner adapter.DetectionServiceAdapter
	sem   chan struct{}
}

// NewLimitedDetector caps concurrent uploads to the analysis backend.
func NewLimitedDetector(inner adapter.DetectionServiceAdapter, maxConcurrent int) adapter.DetectionServiceAdapter {
	if maxConcurrent <= 0 {
		return inner
	}
	return &limitedDetector{
		inner: inner,
		sem:   make(chan struct{}, maxConcurrent),
	}
}

func (l *limitedDetector) Analyze(ctx context.Context, req model.AnalysisRequest) (*model.AnalysisResult, error) {
	l.sem <- struct{}{}
	defer func() { <-l.sem }()
	return l.inner.Analyze(ctx, req)
}
