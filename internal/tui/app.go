package tui

import (
	"fmt"
	"os/exec"
	"runtime"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/ethanolivertroy/ctrlmap/internal/confidence"
	"github.com/ethanolivertroy/ctrlmap/internal/enhance"
	"github.com/ethanolivertroy/ctrlmap/internal/mapping"
)

// ViewState represents the current view
type ViewState int

const (
	ViewList ViewState = iota
	ViewDetail
	ViewChartsMenu
	ViewConfidenceChart
	ViewScoreChart
	ViewAssessmentChart
	ViewExportMenu
)

// ChartOption represents a chart in the charts menu
type ChartOption struct {
	Name        string
	Description string
	View        ViewState
}

// SortMode represents the current sort order
type SortMode int

const (
	SortByScore SortMode = iota
	SortByCatalog
	SortByID
)

func (s SortMode) String() string {
	switch s {
	case SortByScore:
		return "Score"
	case SortByCatalog:
		return "Catalog Order"
	case SortByID:
		return "Control ID"
	}
	return ""
}

// FilterMode represents special filters
type FilterMode int

const (
	FilterNone FilterMode = iota
	FilterHigh
	FilterApplicable
)

// Model is the main application model
type Model struct {
	list          list.Model
	service       string
	allControls   []ControlItem
	filtered      []list.Item
	maxScore      float64
	err           error
	width         int
	height        int
	view          ViewState
	selected      *ControlItem
	keys          KeyMap
	help          help.Model
	showHelp      bool
	viewport      viewport.Model
	viewportReady bool
	sortMode      SortMode
	filterMode    FilterMode
	stats         Stats
	statusMsg     string
	// Charts menu state
	chartOptions       []ChartOption
	selectedChartIndex int
	// Export menu state
	exportOptions       []ExportOption
	selectedExportIndex int
}

// Stats holds statistics about the mapping
type Stats struct {
	Total    int
	High     int
	Medium   int
	Assessed int
}

// NewModel creates a new application model from a mapping result and,
// optionally, a model assessment pass (enriched may be nil).
func NewModel(result *mapping.Result, enriched *enhance.Enriched) Model {
	h := help.New()
	h.ShowAll = false

	assessments := make(map[string]*enhance.Assessment)
	if enriched != nil {
		for i := range enriched.Assessments {
			a := &enriched.Assessments[i]
			assessments[a.ControlID] = a
		}
	}

	controls := make([]ControlItem, len(result.Entries))
	maxScore := 0.0
	for i, e := range result.Entries {
		controls[i] = ControlItem{Entry: e, Assessment: assessments[e.ControlID]}
		if e.Score > maxScore {
			maxScore = e.Score
		}
	}

	m := Model{
		service:     result.Service,
		allControls: controls,
		maxScore:    maxScore,
		keys:        DefaultKeyMap(),
		help:        h,
		sortMode:    SortByScore,
		chartOptions: []ChartOption{
			{Name: "Confidence Distribution", Description: "Controls per confidence level", View: ViewConfidenceChart},
			{Name: "Top Matches", Description: "Strongest controls by retrieval score", View: ViewScoreChart},
			{Name: "Model Verdicts", Description: "Applicability from the assessment pass", View: ViewAssessmentChart},
		},
		exportOptions: []ExportOption{
			{Name: "JSON (Current View)", Format: ExportJSON, Scope: ExportCurrentView},
			{Name: "JSON (Full Mapping)", Format: ExportJSON, Scope: ExportFullMapping},
			{Name: "CSV (Current View)", Format: ExportCSV, Scope: ExportCurrentView},
			{Name: "CSV (Full Mapping)", Format: ExportCSV, Scope: ExportFullMapping},
			{Name: "Markdown (Current View)", Format: ExportMarkdown, Scope: ExportCurrentView},
			{Name: "Markdown (Full Mapping)", Format: ExportMarkdown, Scope: ExportFullMapping},
		},
	}

	m.calculateStats()
	m.applySortAndFilter()

	delegate := NewControlDelegate(maxScore)
	m.list = list.New(m.filtered, delegate, 0, 0)
	m.list.Title = fmt.Sprintf("Control Mapping: %s", result.Service)
	m.list.SetShowStatusBar(true)
	m.list.SetFilteringEnabled(true)
	m.list.SetShowHelp(false) // Disable built-in help, we render our own
	m.list.Styles.Title = TitleStyle

	// Use exact substring matching
	m.list.Filter = func(term string, targets []string) []list.Rank {
		var ranks []list.Rank
		term = strings.ToLower(term)
		for i, target := range targets {
			if strings.Contains(strings.ToLower(target), term) {
				ranks = append(ranks, list.Rank{Index: i})
			}
		}
		return ranks
	}

	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Clear status message on any key press
		m.statusMsg = ""

		// Handle quit
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		// Global keys
		switch msg.String() {
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		}

		// If in list view and not filtering
		if m.view == ViewList && m.list.FilterState() != list.Filtering {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "enter":
				if item, ok := m.list.SelectedItem().(ControlItem); ok {
					m.selected = &item
					m.view = ViewDetail
					m.viewport = viewport.New(m.width-4, m.height-6)
					m.viewport.SetContent(m.renderDetailContent())
					m.viewportReady = true
					return m, nil
				}
			case "s":
				m.sortMode = (m.sortMode + 1) % 3
				m.applySortAndFilter()
				m.list.SetItems(m.filtered)
				m.statusMsg = fmt.Sprintf("Sorted by: %s", m.sortMode.String())
				return m, nil
			case "h":
				if m.filterMode == FilterHigh {
					m.filterMode = FilterNone
					m.statusMsg = "Filter cleared"
				} else {
					m.filterMode = FilterHigh
					m.statusMsg = "Showing high confidence only"
				}
				m.applySortAndFilter()
				m.list.SetItems(m.filtered)
				return m, nil
			case "a":
				if m.filterMode == FilterApplicable {
					m.filterMode = FilterNone
					m.statusMsg = "Filter cleared"
				} else {
					m.filterMode = FilterApplicable
					m.statusMsg = "Showing model-applicable only"
				}
				m.applySortAndFilter()
				m.list.SetItems(m.filtered)
				return m, nil
			case "c":
				if item, ok := m.list.SelectedItem().(ControlItem); ok {
					copyToClipboard(item.Entry.ControlID)
					m.statusMsg = fmt.Sprintf("Copied: %s", item.Entry.ControlID)
					return m, nil
				}
			case "t":
				theme := CycleTheme()
				m.list.Styles.Title = TitleStyle
				m.statusMsg = fmt.Sprintf("Theme: %s", theme)
				return m, nil
			case "g":
				m.selectedChartIndex = 0
				m.view = ViewChartsMenu
				return m, nil
			case "G", "end":
				// Jump to end of list (vim style)
				if len(m.list.Items()) > 0 {
					m.list.Select(len(m.list.Items()) - 1)
				}
				return m, nil
			case "home":
				m.list.Select(0)
				return m, nil
			case "x":
				m.selectedExportIndex = 0
				m.view = ViewExportMenu
				return m, nil
			}
		}

		// If in detail view
		if m.view == ViewDetail {
			switch msg.String() {
			case "q", "esc", "backspace":
				m.view = ViewList
				m.selected = nil
				return m, nil
			case "c":
				if m.selected != nil {
					copyToClipboard(m.selected.Entry.ControlID)
					m.statusMsg = fmt.Sprintf("Copied: %s", m.selected.Entry.ControlID)
					return m, nil
				}
			default:
				// Pass to viewport for scrolling
				if m.viewportReady {
					var cmd tea.Cmd
					m.viewport, cmd = m.viewport.Update(msg)
					return m, cmd
				}
			}
		}

		// If in charts menu view
		if m.view == ViewChartsMenu {
			switch msg.String() {
			case "q", "esc", "g", "backspace":
				m.view = ViewList
				return m, nil
			case "j", "down":
				m.selectedChartIndex = (m.selectedChartIndex + 1) % len(m.chartOptions)
				return m, nil
			case "k", "up":
				m.selectedChartIndex = (m.selectedChartIndex - 1 + len(m.chartOptions)) % len(m.chartOptions)
				return m, nil
			case "enter":
				m.view = m.chartOptions[m.selectedChartIndex].View
				return m, nil
			}
		}

		// If in export menu view
		if m.view == ViewExportMenu {
			switch msg.String() {
			case "q", "esc", "x", "backspace":
				m.view = ViewList
				return m, nil
			case "j", "down":
				m.selectedExportIndex = (m.selectedExportIndex + 1) % len(m.exportOptions)
				return m, nil
			case "k", "up":
				m.selectedExportIndex = (m.selectedExportIndex - 1 + len(m.exportOptions)) % len(m.exportOptions)
				return m, nil
			case "enter":
				selected := m.exportOptions[m.selectedExportIndex]
				var controls []ControlItem
				if selected.Scope == ExportCurrentView {
					// Get current visible items (respects search filter)
					for _, item := range m.list.VisibleItems() {
						if ci, ok := item.(ControlItem); ok {
							controls = append(controls, ci)
						}
					}
				} else {
					controls = m.allControls
				}

				// Export to current directory
				result := Export(m.service, controls, selected.Format, ".")
				if result.Err != nil {
					m.statusMsg = fmt.Sprintf("Export failed: %v", result.Err)
				} else {
					m.statusMsg = fmt.Sprintf("Exported %d controls to %s", result.Count, result.FilePath)
				}
				m.view = ViewList
				return m, nil
			}
		}

		// If in a chart view
		if m.view == ViewConfidenceChart || m.view == ViewScoreChart || m.view == ViewAssessmentChart {
			switch msg.String() {
			case "q", "esc", "g", "backspace":
				m.view = ViewChartsMenu
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		headerHeight := 4 // Title + stats
		footerHeight := 2 // Help
		m.list.SetSize(msg.Width, msg.Height-headerHeight-footerHeight)
		if m.viewportReady {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = msg.Height - 6
		}
		return m, nil
	}

	// Update list if in list view
	if m.view == ViewList {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) calculateStats() {
	m.stats.Total = len(m.allControls)
	m.stats.High = 0
	m.stats.Medium = 0
	m.stats.Assessed = 0
	for _, c := range m.allControls {
		switch c.Entry.Level {
		case confidence.High:
			m.stats.High++
		case confidence.Medium:
			m.stats.Medium++
		}
		if c.Assessment != nil {
			m.stats.Assessed++
		}
	}
}

func (m *Model) applySortAndFilter() {
	// Start with all controls
	filtered := make([]ControlItem, len(m.allControls))
	copy(filtered, m.allControls)

	// Apply filter
	switch m.filterMode {
	case FilterHigh:
		var high []ControlItem
		for _, c := range filtered {
			if c.Entry.Level == confidence.High {
				high = append(high, c)
			}
		}
		filtered = high
	case FilterApplicable:
		var applicable []ControlItem
		for _, c := range filtered {
			if c.Assessment != nil && c.Assessment.Applicable {
				applicable = append(applicable, c)
			}
		}
		filtered = applicable
	}

	// Apply sort (catalog order is the construction order)
	switch m.sortMode {
	case SortByScore:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Entry.Score > filtered[j].Entry.Score
		})
	case SortByID:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Entry.ControlID < filtered[j].Entry.ControlID
		})
	}

	// Convert to list items
	m.filtered = make([]list.Item, len(filtered))
	for i, c := range filtered {
		m.filtered[i] = c
	}
}

// View renders the view
func (m Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("\n  Error: %v\n\n  Press q to quit.\n", m.err)
	}

	if m.view == ViewDetail && m.selected != nil {
		return m.renderDetailView()
	}

	if m.view == ViewChartsMenu {
		return m.renderChartsMenu()
	}

	if m.view == ViewExportMenu {
		return m.renderExportMenu()
	}

	if m.view == ViewConfidenceChart {
		return RenderConfidenceChart(m.entries(), m.width, m.height)
	}

	if m.view == ViewScoreChart {
		return RenderScoreChart(m.entries(), m.width, m.height)
	}

	if m.view == ViewAssessmentChart {
		return RenderAssessmentChart(m.allControls, m.width, m.height)
	}

	return m.renderListView()
}

func (m Model) entries() []mapping.Entry {
	entries := make([]mapping.Entry, len(m.allControls))
	for i, c := range m.allControls {
		entries[i] = c.Entry
	}
	return entries
}

func (m Model) renderExportMenu() string {
	var b strings.Builder

	// Title
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(PrimaryColor).
		Padding(0, 1).
		Render("Export Report")
	b.WriteString("\n")
	b.WriteString(title)
	b.WriteString("\n\n")

	// Current view info - use list's visible items which respects search filter
	currentCount := len(m.list.VisibleItems())
	totalCount := len(m.allControls)
	infoStyle := lipgloss.NewStyle().Foreground(SubtleColor)
	b.WriteString(infoStyle.Render(fmt.Sprintf("Current view: %d controls | Full mapping: %d controls", currentCount, totalCount)))
	b.WriteString("\n\n")

	// Menu options
	for i, opt := range m.exportOptions {
		if i == m.selectedExportIndex {
			// Highlighted
			selectedStyle := lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(PrimaryColor).
				Padding(0, 1)
			b.WriteString(selectedStyle.Render(fmt.Sprintf("> %s", opt.Name)))
		} else {
			b.WriteString(fmt.Sprintf("  %s", opt.Name))
		}
		b.WriteString("\n")
	}

	// Footer
	b.WriteString("\n")
	footerStyle := lipgloss.NewStyle().Foreground(SubtleColor)
	b.WriteString(footerStyle.Render("j/k navigate • enter export • x/esc back"))

	return b.String()
}

func (m Model) renderChartsMenu() string {
	var b strings.Builder

	// Title
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(PrimaryColor).
		Padding(0, 1).
		Render("Charts & Graphs")
	b.WriteString("\n")
	b.WriteString(title)
	b.WriteString("\n\n")

	// Menu options
	for i, opt := range m.chartOptions {
		if i == m.selectedChartIndex {
			// Highlighted
			selectedStyle := lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(PrimaryColor).
				Padding(0, 1)
			b.WriteString(selectedStyle.Render(fmt.Sprintf("> %s", opt.Name)))
		} else {
			b.WriteString(fmt.Sprintf("  %s", opt.Name))
		}
		b.WriteString("\n")
		descStyle := lipgloss.NewStyle().Foreground(SubtleColor)
		b.WriteString(descStyle.Render(fmt.Sprintf("    %s", opt.Description)))
		b.WriteString("\n\n")
	}

	// Footer
	footerStyle := lipgloss.NewStyle().Foreground(SubtleColor)
	b.WriteString(footerStyle.Render("j/k navigate • enter select • g/esc back"))

	return b.String()
}

func (m Model) renderListView() string {
	var b strings.Builder

	// Stats header
	stats := fmt.Sprintf("%s | %s | %s",
		StatHighlight.Render(fmt.Sprintf("%d controls", m.stats.Total)),
		lipgloss.NewStyle().Foreground(HighColor).Render(fmt.Sprintf("%d high", m.stats.High)),
		lipgloss.NewStyle().Foreground(MediumColor).Render(fmt.Sprintf("%d medium", m.stats.Medium)),
	)
	if m.stats.Assessed > 0 {
		stats += fmt.Sprintf(" | %d assessed", m.stats.Assessed)
	}
	b.WriteString(StatsStyle.Render(stats))
	b.WriteString("\n")

	// Sort/filter indicator
	indicators := []string{fmt.Sprintf("Sort: %s", m.sortMode.String())}
	switch m.filterMode {
	case FilterHigh:
		indicators = append(indicators, lipgloss.NewStyle().Foreground(HighColor).Render("Filter: High Confidence"))
	case FilterApplicable:
		indicators = append(indicators, lipgloss.NewStyle().Foreground(SecondaryColor).Render("Filter: Applicable"))
	}
	b.WriteString(SubtitleStyle.Render(strings.Join(indicators, " | ")))
	b.WriteString("\n")

	// List
	b.WriteString(m.list.View())

	// Status message or help
	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(SubtitleStyle.Render(m.statusMsg))
	}

	// Help footer
	b.WriteString("\n")
	if m.showHelp {
		b.WriteString(m.help.View(m.keys))
	} else {
		helpText := "/ filter • s sort • h high only • a applicable • g charts • x export • c copy • q quit"
		b.WriteString(SubtitleStyle.Render(helpText))
	}

	return b.String()
}

func (m Model) renderDetailView() string {
	var b strings.Builder

	// Header
	b.WriteString("\n")
	b.WriteString(ControlBadge.Render(m.selected.Entry.ControlID))
	b.WriteString("  ")
	b.WriteString(ConfidenceBadge(m.selected.Entry.Level))
	if a := m.selected.Assessment; a != nil {
		b.WriteString("  ")
		b.WriteString(ApplicableBadge(a.Applicable))
	}
	b.WriteString("\n\n")

	// Viewport with scrollable content
	if m.viewportReady {
		b.WriteString(m.viewport.View())
	}

	// Footer
	b.WriteString("\n")
	footer := "↑/↓ scroll | c copy | q/esc back"
	if m.statusMsg != "" {
		footer = m.statusMsg + " | " + footer
	}
	b.WriteString(SubtitleStyle.Render(footer))
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderDetailContent() string {
	c := m.selected

	var md strings.Builder
	md.WriteString(fmt.Sprintf("# %s\n\n", c.Entry.ControlID))
	md.WriteString(fmt.Sprintf("%s\n\n", c.Entry.Description))
	md.WriteString(fmt.Sprintf("**Retrieval score:** %.4f\n\n", c.Entry.Score))
	md.WriteString(fmt.Sprintf("**Confidence:** %s\n\n", c.Entry.Level))

	if a := c.Assessment; a != nil {
		md.WriteString("## Model Assessment\n\n")
		if a.Applicable {
			md.WriteString(fmt.Sprintf("Applicable with **%s** confidence.\n\n", a.Level))
		} else {
			md.WriteString("Judged **not applicable** to this service.\n\n")
		}
		if a.Justification != "" {
			md.WriteString(fmt.Sprintf("> %s\n", a.Justification))
		}
	}

	width := m.width - 8
	if width < 20 {
		width = 78
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md.String()
	}
	out, err := renderer.Render(md.String())
	if err != nil {
		return md.String()
	}
	return out
}

// Helper functions
func copyToClipboard(text string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("pbcopy")
	case "linux":
		cmd = exec.Command("xclip", "-selection", "clipboard")
	case "windows":
		cmd = exec.Command("clip")
	default:
		return
	}
	cmd.Stdin = strings.NewReader(text)
	_ = cmd.Run()
}
