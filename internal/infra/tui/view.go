// File: internal/infra/tui/view.go
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/capgarrick/deepfake-detector/internal/domain/model"
	"github.com/capgarrick/deepfake-detector/internal/format"
)

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.pickerOpen {
		title := m.styles.Header.Render(" Choose a file ")
		hint := m.styles.Hint.Render("enter: select   esc: cancel")
		return lipgloss.JoinVertical(lipgloss.Left, title, m.picker.View(), hint)
	}

	header := m.renderHeader()
	analysis := m.renderAnalysisPanel()

	body := analysis
	if m.chatOpen {
		body = lipgloss.JoinHorizontal(lipgloss.Top, analysis, " ", m.renderChatPanel())
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderFooter())
}

func (m Model) renderHeader() string {
	title := m.styles.Header.Render(" DeepGuard ")
	var status string
	switch {
	case m.analyzing:
		status = lipgloss.JoinHorizontal(lipgloss.Center, m.spin.View(), " ", m.styles.Badge.Render(m.stage.Label))
	case m.typing:
		status = lipgloss.JoinHorizontal(lipgloss.Center, m.spin.View(), " ", m.styles.Badge.Render("Assistant is typing"))
	case m.greeting:
		status = lipgloss.JoinHorizontal(lipgloss.Center, m.spin.View(), " ", m.styles.Badge.Render("Connecting"))
	default:
		status = m.styles.Muted.Render("Ready")
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", status)
}

func (m Model) renderFooter() string {
	hints := []string{"tab: assistant", "ctrl+o: file", "ctrl+a: analyze", "ctrl+t: pipeline", "ctrl+x: clear", "ctrl+c: quit"}
	if m.chatOpen {
		hints = append(hints, "alt+1..3: suggestion")
	}
	return m.styles.Hint.Render(strings.Join(hints, "   "))
}

func (m Model) renderAnalysisPanel() string {
	width := m.width - 4
	if m.chatOpen {
		width -= chatPanelWidth + 1
	}
	if width < 24 {
		width = 24
	}

	var sb strings.Builder
	sb.WriteString(m.styles.PanelTtl.Render("Deepfake Analysis") + "\n")
	if m.notice != "" {
		sb.WriteString(m.styles.Notice.Render(m.notice) + "\n")
	}
	sb.WriteString("\n")

	switch {
	case m.analyzing:
		sb.WriteString(m.renderCandidateLine())
		sb.WriteString("\n\n")
		sb.WriteString(m.bar.ViewAs(float64(m.stage.Percent)/100) + "\n")
		sb.WriteString(m.styles.Muted.Render(m.stage.Label))

	case m.result != nil:
		sb.WriteString(m.renderResult(width))

	case m.candidate != nil:
		sb.WriteString(m.renderCandidateLine())
		sb.WriteString("\n\n")
		sb.WriteString(m.renderTypeChoice())
		sb.WriteString("\n\n")
		sb.WriteString(m.styles.Muted.Render("ctrl+a to start the analysis"))

	default:
		sb.WriteString(m.styles.Muted.Render("No file selected.") + "\n")
		sb.WriteString(m.styles.Muted.Render("ctrl+o to choose a video or audio file."))
	}

	return m.styles.Panel.Width(width).Render(sb.String())
}

func (m Model) renderCandidateLine() string {
	c := m.candidate
	if c == nil {
		return ""
	}
	return m.styles.Bold.Render(c.Name) + m.styles.Muted.Render(
		fmt.Sprintf("  %s · %s", c.Kind, format.Bytes(c.SizeBytes)))
}

func (m Model) renderTypeChoice() string {
	if m.candidate == nil {
		return ""
	}
	parts := make([]string, 0, 3)
	for _, t := range m.candidate.AllowedTypes() {
		label := string(t)
		if t == m.chosen {
			parts = append(parts, m.styles.Badge.Render("["+label+"]"))
		} else {
			parts = append(parts, m.styles.Muted.Render(" "+label+" "))
		}
	}
	hint := ""
	if len(parts) > 1 {
		hint = m.styles.Muted.Render("  (ctrl+t switches)")
	}
	return "Pipeline: " + strings.Join(parts, " ") + hint
}

func (m Model) renderResult(width int) string {
	r := m.result
	var sb strings.Builder

	badge := m.styles.Verdict[string(r.Verdict)]
	sb.WriteString(fmt.Sprintf("Authenticity %.0f%%  ", r.AuthenticityScore))
	sb.WriteString(badge.Render(r.Verdict.Label()))
	sb.WriteString(m.styles.Muted.Render(fmt.Sprintf("  confidence %.0f%%", r.Confidence)))
	sb.WriteString("\n\n")

	barWidth := width - 28
	if barWidth < 8 {
		barWidth = 8
	}
	for _, d := range r.Details {
		bar := m.styles.MetricBar.Render(metricBar(d.Value, barWidth))
		sb.WriteString(fmt.Sprintf("%-20s %s %3.0f\n", d.Label, bar, d.Value))
	}

	if len(r.Indicators) > 0 {
		sb.WriteString("\n" + m.styles.Bold.Render("Indicators") + "\n")
		for _, s := range r.Indicators {
			sb.WriteString("• " + s + "\n")
		}
	}
	if len(r.Tips) > 0 {
		sb.WriteString("\n" + m.styles.Bold.Render("Tips") + "\n")
		for _, s := range r.Tips {
			sb.WriteString("• " + s + "\n")
		}
	}
	sb.WriteString("\n" + m.styles.Muted.Render("ctrl+x starts a new analysis"))
	return sb.String()
}

// metricBar renders a 0-100 value as a fixed-width cell bar.
func metricBar(v float64, width int) string {
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	filled := int(v/100*float64(width) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func (m Model) renderChatPanel() string {
	var sb strings.Builder
	sb.WriteString(m.styles.PanelTtl.Render("DeepGuard Assistant") + "\n\n")
	sb.WriteString(m.transcript.View() + "\n")

	if m.typing {
		sb.WriteString(m.spin.View() + m.styles.Muted.Render(" typing...") + "\n")
	} else if m.greeting {
		sb.WriteString(m.spin.View() + m.styles.Muted.Render(" fetching greeting...") + "\n")
	}

	if len(m.suggestions) > 0 && !m.typing {
		for i, s := range m.suggestions {
			sb.WriteString(m.styles.Muted.Render(fmt.Sprintf("%d. %s", i+1, s)) + "\n")
		}
	}

	sb.WriteString(m.styles.Input.Render(m.input.View()))
	return m.styles.Panel.Width(chatPanelWidth).Render(sb.String())
}

// refreshTranscript re-renders the history into the viewport and pins the
// view to the latest message.
func (m *Model) refreshTranscript() {
	wrap := lipgloss.NewStyle().Width(m.transcript.Width)
	var sb strings.Builder
	for _, msg := range m.history {
		switch msg.Role {
		case model.RoleUser:
			sb.WriteString(m.styles.UserTag.Render("You") + "\n")
			sb.WriteString(wrap.Render(format.Sanitize(msg.Content)) + "\n\n")
		default:
			sb.WriteString(m.styles.BotTag.Render("GuardBot") + "\n")
			sb.WriteString(wrap.Render(format.Terminal(msg.Content)) + "\n\n")
		}
	}
	m.transcript.SetContent(sb.String())
	m.transcript.GotoBottom()
}
