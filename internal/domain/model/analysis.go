package model

type AnalysisType string

const (
	AnalysisFull  AnalysisType = "full"
	AnalysisVideo AnalysisType = "video"
	AnalysisAudio AnalysisType = "audio"
)

type Verdict string

const (
	VerdictLikelyAuthentic Verdict = "likely_authentic"
	VerdictUncertain       Verdict = "uncertain"
	VerdictLikelyFake      Verdict = "likely_fake"
)

// VerdictFor derives the categorical verdict from an authenticity score when
// the backend omits an explicit one.
func VerdictFor(score float64) Verdict {
	switch {
	case score >= 70:
		return VerdictLikelyAuthentic
	case score >= 50:
		return VerdictUncertain
	default:
		return VerdictLikelyFake
	}
}

// Label is the human form of the verdict ("Likely Authentic" etc).
func (v Verdict) Label() string {
	switch v {
	case VerdictLikelyAuthentic:
		return "Likely Authentic"
	case VerdictUncertain:
		return "Uncertain"
	case VerdictLikelyFake:
		return "Likely Fake"
	}
	return "Unknown"
}

// DetailMetric is one named 0-100 measurement in the result breakdown.
type DetailMetric struct {
	Label string
	Value float64
}

// AnalysisResult is the normalized outcome shown to the user regardless of
// which payload shape the backend produced.
type AnalysisResult struct {
	AuthenticityScore float64
	Confidence        float64
	Verdict           Verdict
	Details           []DetailMetric
	Indicators        []string
	Tips              []string
}

// AnalysisRequest ties a candidate to the pipeline chosen for it.
// Constructed at submit time; immutable; exactly one outstanding per
// workflow.
type AnalysisRequest struct {
	ID        string
	Type      AnalysisType
	Candidate UploadCandidate
}

type WorkflowState string

const (
	WorkflowEmpty     WorkflowState = "empty"
	WorkflowSelected  WorkflowState = "selected"
	WorkflowAnalyzing WorkflowState = "analyzing"
	WorkflowResult    WorkflowState = "result"
)

// ProgressStage is one step of the fixed upload progress sequence. The
// percentages are stage markers, not wall-clock estimates.
type ProgressStage struct {
	Percent int
	Label   string
}

var (
	StagePreparing = ProgressStage{Percent: 0, Label: "Preparing upload"}
	StageUploaded  = ProgressStage{Percent: 30, Label: "Upload sent"}
	StageReceived  = ProgressStage{Percent: 70, Label: "Processing results"}
	StageComplete  = ProgressStage{Percent: 100, Label: "Analysis complete"}
)
