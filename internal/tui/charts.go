package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
	"github.com/ethanolivertroy/ctrlmap/internal/confidence"
	"github.com/ethanolivertroy/ctrlmap/internal/mapping"
)

// ConfidenceStats holds the per-level control counts
type ConfidenceStats struct {
	High   int
	Medium int
	Low    int
	Total  int
}

// GetConfidenceStats returns the confidence breakdown of a mapping
func GetConfidenceStats(entries []mapping.Entry) ConfidenceStats {
	stats := ConfidenceStats{Total: len(entries)}
	for _, e := range entries {
		switch e.Level {
		case confidence.High:
			stats.High++
		case confidence.Medium:
			stats.Medium++
		default:
			stats.Low++
		}
	}
	return stats
}

// MatchStats holds one control's score for the top-matches chart
type MatchStats struct {
	ControlID string
	Score     float64
	Level     confidence.Level
}

// GetTopMatches returns the top N controls by retrieval score
func GetTopMatches(entries []mapping.Entry, n int) []MatchStats {
	var stats []MatchStats
	for _, e := range entries {
		stats = append(stats, MatchStats{ControlID: e.ControlID, Score: e.Score, Level: e.Level})
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Score > stats[j].Score
	})

	if len(stats) > n {
		stats = stats[:n]
	}
	return stats
}

// RenderConfidenceChart renders a bar chart of the confidence breakdown
func RenderConfidenceChart(entries []mapping.Entry, width, height int) string {
	stats := GetConfidenceStats(entries)
	if stats.Total == 0 {
		return "No mapping data available"
	}

	var b strings.Builder

	// Title
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(PrimaryColor).
		Padding(0, 1).
		Render("Confidence Distribution")
	b.WriteString(title)
	b.WriteString("\n\n")

	// Create bar chart
	bc := barchart.New(width-4, height-12,
		barchart.WithNoAutoBarWidth(),
		barchart.WithBarWidth(8),
		barchart.WithBarGap(2),
	)

	items := []barchart.BarData{
		{
			Label: "High",
			Values: []barchart.BarValue{{
				Name:  "High",
				Value: float64(stats.High),
				Style: lipgloss.NewStyle().Foreground(HighColor),
			}},
		},
		{
			Label: "Medium",
			Values: []barchart.BarValue{{
				Name:  "Medium",
				Value: float64(stats.Medium),
				Style: lipgloss.NewStyle().Foreground(MediumColor),
			}},
		},
		{
			Label: "Low",
			Values: []barchart.BarValue{{
				Name:  "Low",
				Value: float64(stats.Low),
				Style: lipgloss.NewStyle().Foreground(LowColor),
			}},
		},
	}
	bc.PushAll(items)
	bc.Draw()

	b.WriteString(bc.View())
	b.WriteString("\n\n")

	// Summary with percentages
	highPct := float64(stats.High) / float64(stats.Total) * 100
	medPct := float64(stats.Medium) / float64(stats.Total) * 100
	lowPct := float64(stats.Low) / float64(stats.Total) * 100

	highStyle := lipgloss.NewStyle().Foreground(HighColor).Bold(true)
	medStyle := lipgloss.NewStyle().Foreground(MediumColor).Bold(true)
	lowStyle := lipgloss.NewStyle().Foreground(LowColor).Bold(true)

	b.WriteString(highStyle.Render(fmt.Sprintf("High:   %d (%.1f%%)", stats.High, highPct)))
	b.WriteString("\n")
	b.WriteString(medStyle.Render(fmt.Sprintf("Medium: %d (%.1f%%)", stats.Medium, medPct)))
	b.WriteString("\n")
	b.WriteString(lowStyle.Render(fmt.Sprintf("Low:    %d (%.1f%%)", stats.Low, lowPct)))
	b.WriteString("\n\n")

	summaryStyle := lipgloss.NewStyle().Foreground(SubtleColor)
	b.WriteString(summaryStyle.Render(fmt.Sprintf("Total controls mapped: %d", stats.Total)))
	b.WriteString("\n\n")

	// Footer
	footer := summaryStyle.Render("g/esc back to charts menu")
	b.WriteString(footer)

	return b.String()
}

// RenderScoreChart renders a bar chart of the strongest matches
func RenderScoreChart(entries []mapping.Entry, width, height int) string {
	matches := GetTopMatches(entries, 10)
	if len(matches) == 0 || matches[0].Score == 0 {
		return "No scored matches available"
	}

	var b strings.Builder

	// Title
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(PrimaryColor).
		Padding(0, 1).
		Render("Top 10 Matches by Retrieval Score")
	b.WriteString(title)
	b.WriteString("\n\n")

	// Create bar chart
	bc := barchart.New(width-4, height-10,
		barchart.WithNoAutoBarWidth(),
		barchart.WithBarWidth(3),
		barchart.WithBarGap(1),
	)

	var items []barchart.BarData
	for _, s := range matches {
		items = append(items, barchart.BarData{
			Label: truncateString(s.ControlID, 10),
			Values: []barchart.BarValue{{
				Name:  s.ControlID,
				Value: s.Score,
				Style: lipgloss.NewStyle().Foreground(LevelColor(s.Level)),
			}},
		})
	}
	bc.PushAll(items)
	bc.Draw()

	b.WriteString(bc.View())
	b.WriteString("\n\n")

	// Legend with full control IDs
	for _, s := range matches {
		marker := lipgloss.NewStyle().Foreground(LevelColor(s.Level)).Render("█")
		b.WriteString(fmt.Sprintf("%s %s: %.3f (%s)\n", marker, s.ControlID, s.Score, s.Level))
	}

	// Footer
	b.WriteString("\n")
	footerStyle := lipgloss.NewStyle().Foreground(SubtleColor)
	footer := "g/esc back to charts menu"
	b.WriteString(footerStyle.Render(footer))

	return b.String()
}

// AssessmentStats holds the model verdict breakdown
type AssessmentStats struct {
	Applicable    int
	NotApplicable int
	Total         int
}

// GetAssessmentStats returns the applicability breakdown of assessed controls
func GetAssessmentStats(items []ControlItem) AssessmentStats {
	var stats AssessmentStats
	for _, c := range items {
		if c.Assessment == nil {
			continue
		}
		stats.Total++
		if c.Assessment.Applicable {
			stats.Applicable++
		} else {
			stats.NotApplicable++
		}
	}
	return stats
}

// RenderAssessmentChart renders a chart of model applicability verdicts
func RenderAssessmentChart(items []ControlItem, width, height int) string {
	stats := GetAssessmentStats(items)
	if stats.Total == 0 {
		return "No model assessments available (run the enhance command first)"
	}

	var b strings.Builder

	// Title
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(PrimaryColor).
		Padding(0, 1).
		Render("Model Applicability Verdicts")
	b.WriteString(title)
	b.WriteString("\n\n")

	// Create bar chart
	bc := barchart.New(width-4, height-12,
		barchart.WithNoAutoBarWidth(),
		barchart.WithBarWidth(8),
		barchart.WithBarGap(2),
	)

	items2 := []barchart.BarData{
		{
			Label: "Yes",
			Values: []barchart.BarValue{{
				Name:  "Applicable",
				Value: float64(stats.Applicable),
				Style: lipgloss.NewStyle().Foreground(SecondaryColor),
			}},
		},
		{
			Label: "No",
			Values: []barchart.BarValue{{
				Name:  "Not applicable",
				Value: float64(stats.NotApplicable),
				Style: lipgloss.NewStyle().Foreground(SubtleColor),
			}},
		},
	}
	bc.PushAll(items2)
	bc.Draw()

	b.WriteString(bc.View())
	b.WriteString("\n\n")

	// Summary
	appPct := float64(stats.Applicable) / float64(stats.Total) * 100

	summaryStyle := lipgloss.NewStyle().Foreground(SubtleColor)
	appStyle := lipgloss.NewStyle().Foreground(SecondaryColor).Bold(true)

	b.WriteString(appStyle.Render(fmt.Sprintf("Applicable: %d of %d assessed (%.1f%%)", stats.Applicable, stats.Total, appPct)))
	b.WriteString("\n\n")

	// Footer
	footer := summaryStyle.Render("g/esc back to charts menu")
	b.WriteString(footer)

	return b.String()
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-1] + "."
}
