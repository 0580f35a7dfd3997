// File: internal/infra/api/normalize.go
package api

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/capgarrick/deepfake-detector/internal/domain"
	"github.com/capgarrick/deepfake-detector/internal/domain/model"
	"github.com/capgarrick/deepfake-detector/internal/format"
)

// The backend grew shapes over time: the combined pipeline nests its summary
// under "overall_result" while the single-modality endpoints answer flat,
// with their breakdown under "details". NormalizeResult folds every shape
// into model.AnalysisResult with the documented defaults so the workflow
// never sees a partial payload.

const (
	defaultScore = 50
	maxTips      = 5
)

var placeholderIndicators = []string{"No specific manipulation indicators were reported"}

var placeholderTips = []string{
	"Verify the source before trusting any media",
	"Look for unnatural facial movements or lighting",
	"Check whether reputable outlets report the same content",
}

type overallResult struct {
	AuthenticityScore *float64 `json:"authenticity_score"`
	Confidence        *float64 `json:"confidence"`
	Verdict           string   `json:"verdict"`
	IsDeepfake        *bool    `json:"is_deepfake"`
}

type resultPayload struct {
	Success           bool           `json:"success"`
	Error             string         `json:"error"`
	OverallResult     *overallResult `json:"overall_result"`
	AuthenticityScore *float64       `json:"authenticity_score"`
	Confidence        *float64       `json:"confidence"`
	Verdict           string         `json:"verdict"`
	IsDeepfake        *bool          `json:"is_deepfake"`
	Video             map[string]any `json:"video"`
	Audio             map[string]any `json:"audio"`
	FaceLandmarks     map[string]any `json:"face_landmarks"`
	Details           map[string]any `json:"details"`
	Indicators        []string       `json:"indicators"`
	Tips              []string       `json:"tips"`
	Recommendations   []string       `json:"recommendations"`
}

// NormalizeResult interprets a 2xx analysis body.
func NormalizeResult(raw []byte) (*model.AnalysisResult, error) {
	var p resultPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &domain.ServiceError{Status: http.StatusOK, Detail: "malformed analysis payload"}
	}
	// Application-level rejection inside a 2xx ("Audio too short" and kin).
	if p.Error != "" {
		return nil, &domain.ServiceError{Status: http.StatusOK, Detail: p.Error}
	}

	scorePtr, confPtr, verdict := p.AuthenticityScore, p.Confidence, p.Verdict
	if o := p.OverallResult; o != nil {
		if o.AuthenticityScore != nil {
			scorePtr = o.AuthenticityScore
		}
		if o.Confidence != nil {
			confPtr = o.Confidence
		}
		if o.Verdict != "" {
			verdict = o.Verdict
		}
	}

	score := float64(defaultScore)
	if scorePtr != nil {
		score = clamp(*scorePtr)
	}
	confidence := float64(defaultScore)
	if confPtr != nil {
		confidence = clamp(*confPtr)
	}

	v := model.Verdict(verdict)
	switch v {
	case model.VerdictLikelyAuthentic, model.VerdictUncertain, model.VerdictLikelyFake:
	default:
		v = model.VerdictFor(score)
	}

	details := harvestDetails(p)
	if len(details) == 0 {
		details = []model.DetailMetric{{Label: "Overall Health", Value: score}}
	}

	indicators := p.Indicators
	if len(indicators) == 0 {
		indicators = append([]string(nil), placeholderIndicators...)
	}

	return &model.AnalysisResult{
		AuthenticityScore: score,
		Confidence:        confidence,
		Verdict:           v,
		Details:           details,
		Indicators:        indicators,
		Tips:              normalizeTips(p.Tips, p.Recommendations),
	}, nil
}

// harvestDetails pulls numeric fields out of the optional sections in a
// fixed order: per-modality sections first, then the flat "details" map the
// single-modality endpoints use. Keys are sorted so display order is stable.
func harvestDetails(p resultPayload) []model.DetailMetric {
	sections := []struct {
		name   string
		fields map[string]any
	}{
		{"Video", p.Video},
		{"Audio", p.Audio},
		{"Face Landmarks", p.FaceLandmarks},
		{"", p.Details},
	}
	var out []model.DetailMetric
	for _, s := range sections {
		if len(s.fields) == 0 {
			continue
		}
		keys := make([]string, 0, len(s.fields))
		for k := range s.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			num, ok := asNumber(s.fields[k])
			if !ok {
				continue
			}
			label := humanizeKey(k)
			if s.name != "" {
				label = s.name + " " + label
			}
			out = append(out, model.DetailMetric{Label: label, Value: clamp(num)})
		}
	}
	return out
}

func normalizeTips(tips, recommendations []string) []string {
	if len(tips) == 0 {
		tips = recommendations
	}
	cleaned := make([]string, 0, maxTips)
	for _, tip := range tips {
		t := format.StripLeadingGlyph(tip)
		if t == "" {
			continue
		}
		cleaned = append(cleaned, t)
		if len(cleaned) == maxTips {
			break
		}
	}
	if len(cleaned) == 0 {
		cleaned = append(cleaned, placeholderTips...)
	}
	return cleaned
}

// asNumber tolerates the backend's loose typing: numbers may arrive as JSON
// numbers or as numeric strings.
func asNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	}
	return 0, false
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// humanizeKey turns snake_case payload keys into display labels
// ("mfcc_smoothness" -> "Mfcc Smoothness").
func humanizeKey(k string) string {
	words := strings.Split(k, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
