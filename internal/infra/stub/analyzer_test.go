//go:build !integration

// File: internal/infra/stub/analyzer_test.go
package stub

import (
	"errors"
	"net/http"
	"reflect"
	"testing"

	"github.com/capgarrick/deepfake-detector/internal/domain/model"
)

func TestAnalyzerFull(t *testing.T) {
	analyzer := NewAnalyzer()
	data := []byte("a perfectly ordinary clip")

	t.Run("should nest the summary under overall_result for video", func(t *testing.T) {
		payload, err := analyzer.Full("clip.mp4", data)
		if err != nil {
			t.Fatalf("Full returned error: %v", err)
		}
		overall, ok := payload["overall_result"].(map[string]any)
		if !ok {
			t.Fatal("expected nested overall_result")
		}
		score, ok := overall["authenticity_score"].(float64)
		if !ok || score < 35 || score > 95 {
			t.Errorf("authenticity_score %v outside dealt range", overall["authenticity_score"])
		}
		confidence, ok := overall["confidence"].(float64)
		if !ok || confidence < 55 || confidence > 90 {
			t.Errorf("confidence %v outside dealt range", overall["confidence"])
		}
		if got := overall["verdict"]; got != string(model.VerdictFor(score)) {
			t.Errorf("verdict %v does not match score %v", got, score)
		}
		if got := overall["is_deepfake"]; got != (score < 50) {
			t.Errorf("is_deepfake %v does not match score %v", got, score)
		}
		for _, section := range []string{"video", "audio", "face_landmarks"} {
			if _, ok := payload[section].(map[string]any); !ok {
				t.Errorf("expected %s section in video analysis", section)
			}
		}
		if _, ok := payload["indicators"].([]string); !ok {
			t.Error("expected indicators list")
		}
	})

	t.Run("should skip video sections for audio files", func(t *testing.T) {
		payload, err := analyzer.Full("voice.mp3", data)
		if err != nil {
			t.Fatalf("Full returned error: %v", err)
		}
		if _, ok := payload["video"]; ok {
			t.Error("audio file must not get a video section")
		}
		if _, ok := payload["face_landmarks"]; ok {
			t.Error("audio file must not get a face_landmarks section")
		}
		if _, ok := payload["audio"].(map[string]any); !ok {
			t.Error("expected audio section")
		}
	})

	t.Run("should return identical payloads for identical bytes", func(t *testing.T) {
		first, err := analyzer.Full("clip.mp4", data)
		if err != nil {
			t.Fatalf("Full returned error: %v", err)
		}
		second, err := analyzer.Full("clip.mp4", data)
		if err != nil {
			t.Fatalf("Full returned error: %v", err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Error("same content must yield the same canned result")
		}
	})

	t.Run("should keep section metrics inside the clamp", func(t *testing.T) {
		payload, err := analyzer.Full("clip.mp4", []byte("another clip entirely"))
		if err != nil {
			t.Fatalf("Full returned error: %v", err)
		}
		for _, section := range []string{"video", "audio", "face_landmarks"} {
			m := payload[section].(map[string]any)
			for key, raw := range m {
				v, ok := raw.(float64)
				if !ok {
					t.Fatalf("%s.%s is not numeric: %v", section, key, raw)
				}
				if v < 2 || v > 98 {
					t.Errorf("%s.%s = %v outside clamp", section, key, v)
				}
			}
		}
	})
}

func TestAnalyzerVideo(t *testing.T) {
	analyzer := NewAnalyzer()

	t.Run("should return a flat payload with details", func(t *testing.T) {
		payload, err := analyzer.Video("clip.mov", []byte("movie bytes"))
		if err != nil {
			t.Fatalf("Video returned error: %v", err)
		}
		if _, ok := payload["overall_result"]; ok {
			t.Error("single-modality payload must stay flat")
		}
		if _, ok := payload["authenticity_score"].(float64); !ok {
			t.Error("expected top-level authenticity_score")
		}
		details, ok := payload["details"].(map[string]any)
		if !ok {
			t.Fatal("expected details section")
		}
		for _, key := range []string{"noise_score", "blur_score", "compression_artifacts", "temporal_consistency"} {
			if _, ok := details[key]; !ok {
				t.Errorf("missing detail %q", key)
			}
		}
	})

	t.Run("should reject files without a video stream", func(t *testing.T) {
		_, err := analyzer.Video("voice.wav", []byte("audio bytes"))
		var ae *apiError
		if !errors.As(err, &ae) {
			t.Fatalf("expected apiError, got %v", err)
		}
		if ae.Status != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", ae.Status)
		}
		if ae.Reason != "no_video_stream" {
			t.Errorf("expected no_video_stream reason, got %q", ae.Reason)
		}
	})
}

func TestAnalyzerAudio(t *testing.T) {
	analyzer := NewAnalyzer()

	t.Run("should report spectral fields and voice metrics", func(t *testing.T) {
		payload, err := analyzer.Audio("voice.mp3", []byte("some recorded speech"))
		if err != nil {
			t.Fatalf("Audio returned error: %v", err)
		}
		if payload["sample_rate"] != 22050 {
			t.Errorf("expected sample_rate 22050, got %v", payload["sample_rate"])
		}
		duration, ok := payload["duration"].(float64)
		if !ok || duration < 0.6 {
			t.Errorf("duration %v below floor", payload["duration"])
		}
		score := payload["authenticity_score"].(float64)
		wantProb := round1((100 - score) / 100)
		if payload["deepfake_probability"] != wantProb {
			t.Errorf("deepfake_probability %v, want %v", payload["deepfake_probability"], wantProb)
		}
		vm, ok := payload["voice_metrics"].(map[string]any)
		if !ok {
			t.Fatal("expected voice_metrics")
		}
		for _, key := range []string{"pitch_mean", "pitch_variation", "jitter", "shimmer"} {
			if _, ok := vm[key]; !ok {
				t.Errorf("missing voice metric %q", key)
			}
		}
	})

	t.Run("should accept video files for track extraction", func(t *testing.T) {
		if _, err := analyzer.Audio("clip.mp4", []byte("movie bytes")); err != nil {
			t.Fatalf("video upload must be accepted on the audio route: %v", err)
		}
	})
}

func TestCheckUpload(t *testing.T) {
	t.Run("should reject unsupported extensions", func(t *testing.T) {
		_, _, err := checkUpload("notes.txt", []byte("hello"))
		var ae *apiError
		if !errors.As(err, &ae) || ae.Status != http.StatusBadRequest {
			t.Fatalf("expected 400 apiError, got %v", err)
		}
		if ae.Reason != "unsupported_media" {
			t.Errorf("expected unsupported_media reason, got %q", ae.Reason)
		}
	})

	t.Run("should reject empty uploads", func(t *testing.T) {
		_, _, err := checkUpload("clip.mp4", nil)
		var ae *apiError
		if !errors.As(err, &ae) || ae.Status != http.StatusBadRequest {
			t.Fatalf("expected 400 apiError, got %v", err)
		}
		if ae.Reason != "empty_file" {
			t.Errorf("expected empty_file reason, got %q", ae.Reason)
		}
	})
}

func TestPickIndicators(t *testing.T) {
	t.Run("should stay silent for clean scores", func(t *testing.T) {
		src := newScoreSource([]byte("clean"))
		if got := pickIndicators(src, 82, model.MediaVideo); len(got) != 0 {
			t.Errorf("expected no indicators, got %v", got)
		}
	})

	t.Run("should surface one finding for borderline scores", func(t *testing.T) {
		src := newScoreSource([]byte("borderline"))
		if got := pickIndicators(src, 60, model.MediaAudio); len(got) != 1 {
			t.Errorf("expected one indicator, got %v", got)
		}
	})

	t.Run("should surface three findings for suspicious scores", func(t *testing.T) {
		src := newScoreSource([]byte("suspicious"))
		got := pickIndicators(src, 40, model.MediaVideo)
		if len(got) != 3 {
			t.Fatalf("expected three indicators, got %v", got)
		}
		seen := map[string]bool{}
		for _, s := range got {
			if seen[s] {
				t.Errorf("duplicate indicator %q", s)
			}
			seen[s] = true
		}
	})
}
