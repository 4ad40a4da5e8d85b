// Package ui holds the lipgloss styles and small rendering helpers shared by
// the board, agent pane and overlays. Styles are derived from a theme.Theme,
// never from literal colors.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/stephenmfriend/taskpane/theme"
)

// Styles is the set of styles computed from one theme.
type Styles struct {
	Logo     lipgloss.Style
	Tagline  lipgloss.Style
	Muted    lipgloss.Style
	Text     lipgloss.Style
	Selected lipgloss.Style
	Empty    lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Success  lipgloss.Style

	StatusBar    lipgloss.Style
	StatusAccent lipgloss.Style

	Button        lipgloss.Style
	ButtonFocused lipgloss.Style

	Label      lipgloss.Style
	InputLabel lipgloss.Style
}

// NewStyles builds the styles for th.
func NewStyles(th *theme.Theme) Styles {
	accent := th.Accent.Lipgloss()
	text := th.Text.Lipgloss()
	dim := th.Dim.Lipgloss()
	muted := th.Muted.Lipgloss()
	darkGray := theme.Darken(th.Dim, 0.55).Lipgloss()

	return Styles{
		Logo: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),

		Tagline: lipgloss.NewStyle().
			Foreground(dim).
			Italic(true),

		Muted:    lipgloss.NewStyle().Foreground(muted),
		Text:     lipgloss.NewStyle().Foreground(text),
		Selected: lipgloss.NewStyle().Foreground(accent).Bold(true),

		Empty: lipgloss.NewStyle().
			Foreground(dim).
			Italic(true),

		Error: lipgloss.NewStyle().
			Foreground(th.Error.Lipgloss()).
			Bold(true),

		Warning: lipgloss.NewStyle().Foreground(th.Warning.Lipgloss()),
		Success: lipgloss.NewStyle().Foreground(th.Success.Lipgloss()),

		StatusBar: lipgloss.NewStyle().
			Foreground(text).
			Background(darkGray).
			Padding(0, 1),

		StatusAccent: lipgloss.NewStyle().
			Foreground(accent).
			Background(darkGray).
			Bold(true),

		Button: lipgloss.NewStyle().
			Foreground(text).
			Background(darkGray).
			Padding(0, 1),

		ButtonFocused: lipgloss.NewStyle().
			Foreground(text).
			Background(accent).
			Padding(0, 1).
			Bold(true),

		Label: lipgloss.NewStyle().
			Foreground(muted).
			Width(12),

		InputLabel: lipgloss.NewStyle().
			Foreground(muted).
			Width(13),
	}
}

// Pane returns a rounded-border box whose border color is taken from the
// pane's gradient start.
func Pane(th *theme.Theme, kind theme.PaneKind, active bool) lipgloss.Style {
	start, _ := th.PaneGradient(kind, active)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(start.Lipgloss()).
		Padding(0, 1)
}

// Title renders a pane title with the pane gradient.
func Title(th *theme.Theme, kind theme.PaneKind, label string, active bool) string {
	return theme.GradientText(label, th.Gradient(kind, active), active)
}

// Tag renders a tag pill in its stable color.
func Tag(th *theme.Theme, tag string) string {
	return lipgloss.NewStyle().
		Foreground(th.TagColor(tag).Lipgloss()).
		Render("#" + tag)
}

// Tags renders tags separated by spaces.
func Tags(th *theme.Theme, tags []string) string {
	parts := make([]string, 0, len(tags))
	for _, t := range tags {
		parts = append(parts, Tag(th, t))
	}
	return strings.Join(parts, " ")
}

// Truncate shortens s to maxWidth terminal cells, ending in "..." when cut.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// Placeholder is rendered for absent optional values.
const Placeholder = "None"

// OrPlaceholder returns s, or Placeholder when s is blank.
func OrPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}
