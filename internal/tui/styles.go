package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/muurk/pixelcfg/internal/version"
)

// Application branding constants
const (
	AppName   = "PIXEL CONTROLLER EDITOR"
	GitHubURL = "github.com/muurk/pixelcfg"
)

// AppVersion returns the application version from the centralized version package
func AppVersion() string {
	return version.Version
}

// Layout constants for responsive terminal width
const (
	MinTerminalWidth = 60  // Minimum supported terminal width
	MaxContentWidth  = 100 // Maximum content width before capping
	labelWidth       = 16
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7D56F4") // Purple - headers, borders
	SecondaryColor = lipgloss.Color("#43BF6D") // Green - success, selection
	WarningColor   = lipgloss.Color("#FFA500") // Orange - pending edits, warnings
	ErrorColor     = lipgloss.Color("#FF5555") // Red - errors
	TextColor      = lipgloss.Color("#FFFFFF") // White - main content
	SubtleColor    = lipgloss.Color("#626262") // Gray - secondary info
)

// Common styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	LabelStyle = lipgloss.NewStyle().
			Width(labelWidth).
			Foreground(SubtleColor)

	SelectedLabelStyle = LabelStyle.
				Foreground(SecondaryColor).
				Bold(true)

	ValueStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	SelectedValueStyle = lipgloss.NewStyle().
				Foreground(SecondaryColor).
				Bold(true)

	ChangedMarkerStyle = lipgloss.NewStyle().
				Foreground(WarningColor).
				Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	ErrorMessageStyle = lipgloss.NewStyle().
				Foreground(ErrorColor)

	SuccessMessageStyle = lipgloss.NewStyle().
				Foreground(SecondaryColor)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	HelpStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			PaddingTop(1)

	SuccessTitleStyle = lipgloss.NewStyle().
				Foreground(SecondaryColor).
				Bold(true)

	ErrorTitleStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	ResultKeyStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Width(labelWidth)

	TroubleshootingStyle = lipgloss.NewStyle().
				Foreground(SubtleColor)
)

// Status markers
const (
	SuccessMarker = "✓"
	FailureMarker = "✗"
	ChangedMarker = "*"
	CursorMarker  = "→ "
)

// GetTerminalSize returns the current terminal width and height, clamped
// to the supported content width.
func GetTerminalSize() (int, int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return MinTerminalWidth, 24
	}
	return clampWidth(width), height
}

func clampWidth(width int) int {
	if width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}

// BoxStyle returns a bordered box in color sized for width.
func BoxStyle(width int, color lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Width(width-2).
		Padding(0, 1)
}

// RenderDivider creates a horizontal line of the specified width
func RenderDivider(width int) string {
	if width < 1 {
		width = 1
	}
	return lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Render(strings.Repeat("─", width))
}

// RenderHeader renders the application title line for target.
func RenderHeader(target string) string {
	title := TitleStyle.Render(AppName + " v" + AppVersion())
	if target == "" {
		return title
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, SubtitleStyle.Render(target))
}
