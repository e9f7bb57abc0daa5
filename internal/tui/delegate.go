package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ControlDelegate is a custom delegate for rendering mapped controls
type ControlDelegate struct {
	ShowDescription bool
	MaxScore        float64
	Styles          ControlDelegateStyles
}

// ControlDelegateStyles contains the styles for the delegate
type ControlDelegateStyles struct {
	NormalTitle   lipgloss.Style
	NormalDesc    lipgloss.Style
	SelectedTitle lipgloss.Style
	SelectedDesc  lipgloss.Style
	DimmedTitle   lipgloss.Style
	DimmedDesc    lipgloss.Style
	IDStyle       lipgloss.Style
}

// NewControlDelegate creates a new delegate with default styles.
// maxScore is the strongest score in the result, used to scale bars.
func NewControlDelegate(maxScore float64) ControlDelegate {
	return ControlDelegate{
		ShowDescription: true,
		MaxScore:        maxScore,
		Styles: ControlDelegateStyles{
			NormalTitle:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")),
			NormalDesc:    lipgloss.NewStyle().Foreground(SubtleColor),
			SelectedTitle: lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true),
			SelectedDesc:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")),
			DimmedTitle:   lipgloss.NewStyle().Foreground(SubtleColor),
			DimmedDesc:    lipgloss.NewStyle().Foreground(SubtleColor),
			IDStyle:       lipgloss.NewStyle().Foreground(SecondaryColor).Bold(true),
		},
	}
}

// Height returns the height of each item
func (d ControlDelegate) Height() int {
	if d.ShowDescription {
		return 2
	}
	return 1
}

// Spacing returns the spacing between items
func (d ControlDelegate) Spacing() int {
	return 1
}

// Update handles item updates
func (d ControlDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

// Render renders a single item
func (d ControlDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ctrl, ok := item.(ControlItem)
	if !ok {
		return
	}

	isSelected := index == m.Index()
	isFiltering := m.FilterState() == list.Filtering

	var titleStyle, descStyle, idStyle lipgloss.Style
	if isFiltering {
		titleStyle = d.Styles.DimmedTitle
		descStyle = d.Styles.DimmedDesc
		idStyle = d.Styles.DimmedTitle
	} else if isSelected {
		titleStyle = d.Styles.SelectedTitle
		descStyle = d.Styles.SelectedDesc
		idStyle = d.Styles.IDStyle
	} else {
		titleStyle = d.Styles.NormalTitle
		descStyle = d.Styles.NormalDesc
		idStyle = d.Styles.IDStyle
	}

	// Build the title line with the control ID prefix
	idPrefix := idStyle.Render(fmt.Sprintf("[%s]", ctrl.Entry.ControlID))
	title := titleStyle.Render(" " + truncateString(ctrl.Entry.Description, 70))

	// Indicators
	indicators := " " + ConfidenceBadge(ctrl.Entry.Level)
	if a := ctrl.Assessment; a != nil {
		if a.Applicable {
			indicators += lipgloss.NewStyle().Foreground(SecondaryColor).Bold(true).Render(" [A]")
		} else {
			indicators += lipgloss.NewStyle().Foreground(SubtleColor).Render(" [-]")
		}
	}

	line := idPrefix + title + indicators

	if isSelected {
		line = SelectedItemStyle.Render(line)
	} else {
		line = NormalItemStyle.Render(line)
	}

	fmt.Fprint(w, line)

	if d.ShowDescription {
		descText := fmt.Sprintf("score: %s", ScoreBadge(ctrl.Entry.Score, d.MaxScore))
		if bar := ScoreBar(ctrl.Entry.Score, d.MaxScore, 10); bar != "" {
			descText += " " + bar
		}
		desc := descStyle.Render(descText)
		if isSelected {
			desc = SelectedItemStyle.Render(desc)
		} else {
			desc = NormalItemStyle.Render(desc)
		}
		fmt.Fprint(w, "\n"+desc)
	}
}
