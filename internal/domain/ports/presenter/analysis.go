// File: internal/domain/ports/presenter/analysis.go
package presenter

import "github.com/capgarrick/deepfake-detector/internal/domain/model"

// AnalysisPresenter is the render port for the analysis workflow. Same
// threading contract as ChatPresenter.
type AnalysisPresenter interface {
	CandidateSelected(c model.UploadCandidate, chosen model.AnalysisType)
	CandidateCleared()
	Progress(stage model.ProgressStage)
	ResultReady(r model.AnalysisResult)
	WorkflowReset()

	// Notify shows a transient notice; DismissNotice retires it. The
	// controller schedules the dismissal, so implementations only need to
	// show/hide.
	Notify(text string)
	DismissNotice()
}
