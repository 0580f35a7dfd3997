// File: internal/infra/tui/styles.go

// Package tui is the terminal front-end: a bubbletea program with the
// analysis workflow on the left and the toggleable assistant panel on the
// right. It talks to the controllers only through commands and receives
// every visible change back as a presenter message.
package tui

import "github.com/charmbracelet/lipgloss"

// DeepGuard palette.
var (
	colorPrimary = lipgloss.Color("#5B8DEF") // interface chrome
	colorAccent  = lipgloss.Color("#9D6BF0") // assistant
	colorMuted   = lipgloss.Color("#6B7280")
	colorDanger  = lipgloss.Color("#E5484D")
	colorWarn    = lipgloss.Color("#F5A524")
	colorOK      = lipgloss.Color("#30A46C")
)

// Styles bundles the lipgloss styles used by the views.
type Styles struct {
	Header    lipgloss.Style
	Badge     lipgloss.Style
	Muted     lipgloss.Style
	Bold      lipgloss.Style
	Panel     lipgloss.Style
	PanelTtl  lipgloss.Style
	UserTag   lipgloss.Style
	BotTag    lipgloss.Style
	Notice    lipgloss.Style
	Verdict   map[string]lipgloss.Style
	MetricBar lipgloss.Style
	Input     lipgloss.Style
	Hint      lipgloss.Style
}

func NewStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Background(colorPrimary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),

		Badge: lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true),

		Muted: lipgloss.NewStyle().
			Foreground(colorMuted),

		Bold: lipgloss.NewStyle().
			Bold(true),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1),

		PanelTtl: lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true),

		UserTag: lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true),

		BotTag: lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true),

		Notice: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(colorWarn).
			Padding(0, 1),

		Verdict: map[string]lipgloss.Style{
			"likely_authentic": lipgloss.NewStyle().Foreground(colorOK).Bold(true),
			"uncertain":        lipgloss.NewStyle().Foreground(colorWarn).Bold(true),
			"likely_fake":      lipgloss.NewStyle().Foreground(colorDanger).Bold(true),
		},

		MetricBar: lipgloss.NewStyle().
			Foreground(colorPrimary),

		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1),

		Hint: lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginTop(1),
	}
}
