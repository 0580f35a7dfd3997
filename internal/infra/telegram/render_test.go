//go:build !integration

package telegram

import (
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/capgarrick/deepfake-detector/internal/domain/model"
)

func TestTextBar(t *testing.T) {
	cases := []struct {
		percent int
		want    string
	}{
		{0, "░░░░░░░░░░"},
		{30, "███░░░░░░░"},
		{100, "██████████"},
		{-5, "░░░░░░░░░░"},
		{140, "██████████"},
	}
	for _, tc := range cases {
		if got := textBar(tc.percent, 10); got != tc.want {
			t.Fatalf("textBar(%d) = %q, want %q", tc.percent, got, tc.want)
		}
	}
}

func TestPipelineKeyboard(t *testing.T) {
	t.Run("should offer all three pipelines for video", func(t *testing.T) {
		c := model.UploadCandidate{Name: "clip.mp4", Kind: model.MediaVideo}
		kb := pipelineKeyboard(c, model.AnalysisFull)

		if len(kb.InlineKeyboard) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(kb.InlineKeyboard))
		}
		typeRow := kb.InlineKeyboard[0]
		if len(typeRow) != 3 {
			t.Fatalf("expected 3 pipeline buttons, got %d", len(typeRow))
		}
		if typeRow[0].Text != "✅ full" {
			t.Fatalf("chosen pipeline not marked: %q", typeRow[0].Text)
		}
		if *typeRow[1].CallbackData != "type:video" {
			t.Fatalf("callback data = %q", *typeRow[1].CallbackData)
		}
		actions := kb.InlineKeyboard[1]
		if *actions[0].CallbackData != "run" || *actions[1].CallbackData != "clear" {
			t.Fatalf("action row data = %q, %q", *actions[0].CallbackData, *actions[1].CallbackData)
		}
	})

	t.Run("should pin audio files to the audio pipeline", func(t *testing.T) {
		c := model.UploadCandidate{Name: "voice.mp3", Kind: model.MediaAudio}
		kb := pipelineKeyboard(c, model.AnalysisAudio)
		if len(kb.InlineKeyboard[0]) != 1 {
			t.Fatalf("expected 1 pipeline button, got %d", len(kb.InlineKeyboard[0]))
		}
	})
}

func TestResultHTML(t *testing.T) {
	r := model.AnalysisResult{
		AuthenticityScore: 42,
		Confidence:        66,
		Verdict:           model.VerdictLikelyFake,
		Details:           []model.DetailMetric{{Label: "Noise <level>", Value: 40}},
		Indicators:        []string{"Lip <sync> drift"},
		Tips:              []string{"Verify the source"},
	}
	got := resultHTML(r)

	if !strings.Contains(got, "🚨 <b>Likely Fake</b>") {
		t.Fatalf("verdict line missing: %q", got)
	}
	if !strings.Contains(got, "Authenticity: <b>42%</b>") {
		t.Fatalf("score line missing: %q", got)
	}
	if strings.Contains(got, "<level>") || strings.Contains(got, "<sync>") {
		t.Fatalf("server strings must be escaped: %q", got)
	}
	if !strings.Contains(got, "Noise &lt;level&gt;") {
		t.Fatalf("escaped label missing: %q", got)
	}
}

func TestExtractMedia(t *testing.T) {
	cases := []struct {
		name     string
		msg      *tgbotapi.Message
		wantName string
		wantMIME string
		wantOK   bool
	}{
		{
			name:     "video with filename",
			msg:      &tgbotapi.Message{Video: &tgbotapi.Video{FileID: "v1", FileName: "clip.mp4", MimeType: "video/mp4", FileSize: 9}},
			wantName: "clip.mp4",
			wantMIME: "video/mp4",
			wantOK:   true,
		},
		{
			name:     "voice note gets a synthetic name",
			msg:      &tgbotapi.Message{Voice: &tgbotapi.Voice{FileID: "v2", FileSize: 5}},
			wantName: "voice.ogg",
			wantMIME: "audio/ogg",
			wantOK:   true,
		},
		{
			name:     "video note",
			msg:      &tgbotapi.Message{VideoNote: &tgbotapi.VideoNote{FileID: "v3", FileSize: 7}},
			wantName: "note.mp4",
			wantMIME: "video/mp4",
			wantOK:   true,
		},
		{
			name:     "document keeps its name",
			msg:      &tgbotapi.Message{Document: &tgbotapi.Document{FileID: "d1", FileName: "talk.wav", MimeType: "audio/wav", FileSize: 3}},
			wantName: "talk.wav",
			wantMIME: "audio/wav",
			wantOK:   true,
		},
		{
			name:   "plain text has no media",
			msg:    &tgbotapi.Message{Text: "hello"},
			wantOK: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, name, mime, _, ok := extractMedia(tc.msg)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if !ok {
				return
			}
			if name != tc.wantName {
				t.Fatalf("name = %q, want %q", name, tc.wantName)
			}
			if mime != tc.wantMIME {
				t.Fatalf("mime = %q, want %q", mime, tc.wantMIME)
			}
		})
	}
}
