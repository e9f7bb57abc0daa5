package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ethanolivertroy/ctrlmap/internal/confidence"
)

// Colors (theme-aware - updated by theme.go)
var (
	PrimaryColor   = lipgloss.Color("#7D56F4")
	SecondaryColor = lipgloss.Color("#04B575")
	SubtleColor    = lipgloss.Color("#626262")
	HighColor      = lipgloss.Color("#FF6B00")
	MediumColor    = lipgloss.Color("#FFD700")
	LowColor       = lipgloss.Color("#90EE90")
	AccentColor    = lipgloss.Color("#00BFFF")
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(PrimaryColor).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// Detail view styles
	LabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			Width(16)

	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	DescriptionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#CCCCCC")).
				Width(80)

	// Badge styles
	ControlBadge = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(PrimaryColor).
			Padding(0, 1)

	// List item styles
	SelectedItemStyle = lipgloss.NewStyle().
				BorderLeft(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(PrimaryColor).
				PaddingLeft(1)

	NormalItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)
)

// LevelColor returns the color associated with a confidence level
func LevelColor(level confidence.Level) lipgloss.Color {
	switch level {
	case confidence.High:
		return HighColor
	case confidence.Medium:
		return MediumColor
	default:
		return LowColor
	}
}

// ConfidenceBadge returns a colored badge for a confidence level
func ConfidenceBadge(level confidence.Level) string {
	style := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#000000")).
		Background(LevelColor(level)).
		Padding(0, 1)
	return style.Render(strings.ToUpper(string(level)))
}

// ApplicableBadge returns a badge for the model's applicability verdict
func ApplicableBadge(applicable bool) string {
	if applicable {
		return lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#000000")).
			Background(SecondaryColor).
			Padding(0, 1).
			Render("APPLICABLE")
	}
	return lipgloss.NewStyle().
		Foreground(SubtleColor).
		Padding(0, 1).
		Render("not applicable")
}

// ScoreBar returns a visual bar for a score normalized against the
// strongest match in the result.
func ScoreBar(score, maxScore float64, width int) string {
	if score <= 0 || maxScore <= 0 || width <= 0 {
		return ""
	}
	norm := score / maxScore
	filled := int(norm * float64(width))
	if filled < 1 {
		filled = 1
	}
	if filled > width {
		filled = width
	}
	empty := width - filled

	var color lipgloss.Color
	if norm > 0.7 {
		color = HighColor
	} else if norm > 0.4 {
		color = MediumColor
	} else {
		color = LowColor
	}

	filledStyle := lipgloss.NewStyle().Foreground(color)
	emptyStyle := lipgloss.NewStyle().Foreground(SubtleColor)

	return filledStyle.Render(strings.Repeat("█", filled)) +
		emptyStyle.Render(strings.Repeat("░", empty))
}

// StatsStyle for statistics header
var StatsStyle = lipgloss.NewStyle().
	Foreground(SubtleColor).
	Padding(0, 1)

// StatHighlight for important stats
var StatHighlight = lipgloss.NewStyle().
	Foreground(PrimaryColor).
	Bold(true)

// ScoreBadge returns the raw score colored by its normalized strength
func ScoreBadge(score, maxScore float64) string {
	if maxScore <= 0 {
		return SubtitleStyle.Render("0.000")
	}
	norm := score / maxScore
	var style lipgloss.Style
	if norm > 0.7 {
		style = lipgloss.NewStyle().Foreground(HighColor).Bold(true)
	} else if norm > 0.4 {
		style = lipgloss.NewStyle().Foreground(MediumColor)
	} else {
		style = lipgloss.NewStyle().Foreground(LowColor)
	}
	return style.Render(fmt.Sprintf("%.3f", score))
}
