// File: internal/infra/telegram/render.go
package telegram

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/capgarrick/deepfake-detector/internal/domain/model"
	"github.com/capgarrick/deepfake-detector/internal/format"
)

// Callback data vocabulary. Exact matches and prefixes, routed in bot.go.
const (
	cbRun        = "run"
	cbClear      = "clear"
	cbReset      = "reset"
	cbTypePrefix = "type:"
	cbSugPrefix  = "sug:"
)

var verdictEmoji = map[model.Verdict]string{
	model.VerdictLikelyAuthentic: "✅",
	model.VerdictUncertain:       "⚠️",
	model.VerdictLikelyFake:      "🚨",
}

// suggestionKeyboard renders follow-up questions one per row, indexed
// through the presenter's stored set.
func suggestionKeyboard(items []string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(items))
	for i, s := range items {
		label := strings.TrimSpace(s)
		if label == "" {
			label = "•"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, cbSugPrefix+strconv.Itoa(i)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// pipelineKeyboard offers the allowed analysis types with the chosen one
// marked, plus the run/clear row.
func pipelineKeyboard(c model.UploadCandidate, chosen model.AnalysisType) tgbotapi.InlineKeyboardMarkup {
	typeRow := make([]tgbotapi.InlineKeyboardButton, 0, 3)
	for _, t := range c.AllowedTypes() {
		label := string(t)
		if t == chosen {
			label = "✅ " + label
		}
		typeRow = append(typeRow, tgbotapi.NewInlineKeyboardButtonData(label, cbTypePrefix+string(t)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		typeRow,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("▶️ Analyze", cbRun),
			tgbotapi.NewInlineKeyboardButtonData("✖️ Clear", cbClear),
		),
	)
}

func candidateHTML(c model.UploadCandidate, chosen model.AnalysisType) string {
	return fmt.Sprintf("📎 <b>%s</b>\n%s · %s\n\nPipeline: <b>%s</b>\nPick a pipeline, then press Analyze.",
		format.EscapeHTML(c.Name), c.Kind, format.Bytes(c.SizeBytes), chosen)
}

func progressHTML(stage model.ProgressStage) string {
	return fmt.Sprintf("⏳ <b>%s</b>\n<code>%s</code> %d%%",
		stage.Label, textBar(stage.Percent, 10), stage.Percent)
}

// textBar renders 0-100 as a fixed-width block bar.
func textBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// resultHTML renders the verdict card. Server-supplied strings are escaped;
// only our own markup survives.
func resultHTML(r model.AnalysisResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s <b>%s</b>\n", verdictEmoji[r.Verdict], r.Verdict.Label()))
	sb.WriteString(fmt.Sprintf("Authenticity: <b>%.0f%%</b> · Confidence: %.0f%%\n", r.AuthenticityScore, r.Confidence))

	if len(r.Details) > 0 {
		sb.WriteString("\n")
		for _, d := range r.Details {
			sb.WriteString(fmt.Sprintf("%s\n<code>%s</code> %.0f\n",
				format.EscapeHTML(d.Label), textBar(int(d.Value), 10), d.Value))
		}
	}
	if len(r.Indicators) > 0 {
		sb.WriteString("\n<b>Indicators</b>\n")
		for _, s := range r.Indicators {
			sb.WriteString("• " + format.EscapeHTML(s) + "\n")
		}
	}
	if len(r.Tips) > 0 {
		sb.WriteString("\n<b>Tips</b>\n")
		for _, s := range r.Tips {
			sb.WriteString("• " + format.EscapeHTML(s) + "\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// extractMedia pulls the attachment out of a message, synthesizing a
// filename when Telegram does not carry one (voice notes, video notes).
// Returns ok=false when the message has no usable attachment.
func extractMedia(msg *tgbotapi.Message) (fileID, name, mime string, size int64, ok bool) {
	switch {
	case msg.Video != nil:
		v := msg.Video
		name = v.FileName
		if name == "" {
			name = "video.mp4"
		}
		return v.FileID, name, v.MimeType, int64(v.FileSize), true
	case msg.Audio != nil:
		a := msg.Audio
		name = a.FileName
		if name == "" {
			name = "audio.mp3"
		}
		return a.FileID, name, a.MimeType, int64(a.FileSize), true
	case msg.Voice != nil:
		v := msg.Voice
		mime = v.MimeType
		if mime == "" {
			mime = "audio/ogg"
		}
		return v.FileID, "voice.ogg", mime, int64(v.FileSize), true
	case msg.VideoNote != nil:
		v := msg.VideoNote
		return v.FileID, "note.mp4", "video/mp4", int64(v.FileSize), true
	case msg.Document != nil:
		d := msg.Document
		name = d.FileName
		if name == "" {
			name = "upload.bin"
		}
		return d.FileID, name, d.MimeType, int64(d.FileSize), true
	}
	return "", "", "", 0, false
}
