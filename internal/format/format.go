// File: internal/format/format.go
package format

import (
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// Assistant text carries a small markdown subset: **bold**, *italic*,
// bullet/numbered lines and #..### headers. The transforms below render it
// for the two front-ends. Input is always sanitized (and HTML-escaped for
// the Telegram target) before any markup is applied, so payload content can
// never smuggle tags or terminal control sequences.

var (
	headerRe   = regexp.MustCompile(`^(#{1,3})\s+(.+)$`)
	bulletRe   = regexp.MustCompile(`^[•\-]\s+(.+)$`)
	numberedRe = regexp.MustCompile(`^(\d+)\.\s+(.+)$`)
	boldRe     = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe   = regexp.MustCompile(`\*([^*]+)\*`)
)

var (
	termBold   = lipgloss.NewStyle().Bold(true)
	termItalic = lipgloss.NewStyle().Italic(true)
	termHeader = lipgloss.NewStyle().Bold(true).Underline(true)
)

// Sanitize drops control characters (including ANSI escape introducers)
// while keeping newlines and tabs.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

// EscapeHTML sanitizes and escapes user-supplied text for Telegram's HTML
// parse mode. No markup transform is ever applied to user messages.
func EscapeHTML(s string) string {
	return html.EscapeString(Sanitize(s))
}

// HTML renders assistant text as Telegram HTML. Newlines pass through
// unchanged (Telegram renders them as line breaks; it has no <br> tag).
func HTML(s string) string {
	lines := strings.Split(Sanitize(s), "\n")
	for i, line := range lines {
		lines[i] = htmlLine(line)
	}
	return strings.Join(lines, "\n")
}

func htmlLine(line string) string {
	esc := html.EscapeString(line)
	if m := headerRe.FindStringSubmatch(esc); m != nil {
		return "<b>" + inlineHTML(m[2]) + "</b>"
	}
	if m := bulletRe.FindStringSubmatch(esc); m != nil {
		return "• " + inlineHTML(m[1])
	}
	if m := numberedRe.FindStringSubmatch(esc); m != nil {
		return m[1] + ". " + inlineHTML(m[2])
	}
	return inlineHTML(esc)
}

func inlineHTML(s string) string {
	s = boldRe.ReplaceAllString(s, "<b>$1</b>")
	s = italicRe.ReplaceAllString(s, "<i>$1</i>")
	return s
}

// Terminal renders assistant text with ANSI styling for the TUI transcript.
func Terminal(s string) string {
	lines := strings.Split(Sanitize(s), "\n")
	for i, line := range lines {
		lines[i] = terminalLine(line)
	}
	return strings.Join(lines, "\n")
}

func terminalLine(line string) string {
	if m := headerRe.FindStringSubmatch(line); m != nil {
		return termHeader.Render(stripInline(m[2]))
	}
	if m := bulletRe.FindStringSubmatch(line); m != nil {
		return "• " + inlineTerminal(m[1])
	}
	if m := numberedRe.FindStringSubmatch(line); m != nil {
		return m[1] + ". " + inlineTerminal(m[2])
	}
	return inlineTerminal(line)
}

func inlineTerminal(s string) string {
	s = boldRe.ReplaceAllStringFunc(s, func(m string) string {
		return termBold.Render(m[2 : len(m)-2])
	})
	s = italicRe.ReplaceAllStringFunc(s, func(m string) string {
		return termItalic.Render(m[1 : len(m)-1])
	})
	return s
}

// stripInline removes inline markers without styling, for lines that already
// carry a line-level style.
func stripInline(s string) string {
	s = boldRe.ReplaceAllString(s, "$1")
	s = italicRe.ReplaceAllString(s, "$1")
	return s
}

// StripLeadingGlyph removes the decorative emoji/bullet prefix from a tip
// string ("🚨 Do not share" -> "Do not share").
func StripLeadingGlyph(s string) string {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			break
		}
		i += size
	}
	return strings.TrimSpace(s[i:])
}
