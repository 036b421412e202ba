package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/sketchui/internal/version"
)

// AppName is shown at the left of the header bar.
const AppName = "SKETCHUI"

// AppVersion returns the application version from the version package
func AppVersion() string {
	return version.Version
}

// Layout constants
const (
	// Rows above the content area: header bar and its divider
	headerLines = 2
	// Rows below the content area: divider and footer bar
	footerLines = 2

	InspectorWidth = 34 // Inspector panel width including its border
	MinCanvasWidth = 40 // Below canvas+inspector the inspector is hidden
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7D56F4") // Purple
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF5555") // Red

	TextColor   = lipgloss.Color("#FFFFFF") // White
	SubtleColor = lipgloss.Color("#626262") // Gray
	BorderColor = lipgloss.Color("#7D56F4") // Purple (same as primary)
)

// Common styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// Inspector rows
	FieldKeyStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Width(12)

	FieldValueStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	SelectedFieldStyle = lipgloss.NewStyle().
				Foreground(SecondaryColor).
				Bold(true)

	FocusedInputStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	BlurredInputStyle = lipgloss.NewStyle().
				Foreground(SubtleColor)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	InfoNoticeStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	ErrorNoticeStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Bold(true)

	// Box style for the upload and discover screens
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(1, 2)
)

// RenderTitle renders a title with consistent styling
func RenderTitle(text string) string {
	return TitleStyle.Render(text)
}

// RenderSubtitle renders a subtitle with consistent styling
func RenderSubtitle(text string) string {
	return SubtitleStyle.Render(text)
}

// BuildHeaderContent lays out the app name on the left and status on the
// right of a bar width cells wide.
func BuildHeaderContent(left, right string, width int) string {
	l := lipgloss.NewStyle().Foreground(TextColor).Bold(true).Render(AppName+" v"+AppVersion()) +
		lipgloss.NewStyle().Foreground(SubtleColor).Render("  "+left)
	r := lipgloss.NewStyle().Foreground(SubtleColor).Render(right)

	gap := width - 2 - lipgloss.Width(l) - lipgloss.Width(r)
	if gap < 1 {
		return l
	}
	return l + strings.Repeat(" ", gap) + r
}

// RenderApplicationContainer wraps every screen: a header bar, a divider,
// the content area, a divider and a footer bar. The content area starts at
// row headerLines, which mouse handling relies on.
func RenderApplicationContainer(header, content, footer string, width, height int) string {
	bar := lipgloss.NewStyle().Width(width).MaxWidth(width).Padding(0, 1)
	divider := lipgloss.NewStyle().Foreground(BorderColor).Render(strings.Repeat("─", max(width, 0)))

	contentHeight := height - headerLines - footerLines
	if contentHeight < 1 {
		contentHeight = 1
	}
	body := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		MaxWidth(width).
		MaxHeight(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left,
		bar.MaxHeight(1).Render(header),
		divider,
		body,
		divider,
		bar.MaxHeight(1).Render(footer),
	)
}

// truncate shortens s to at most width cells, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = strings.ReplaceAll(s, "\n", " ")
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
