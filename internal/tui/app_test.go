package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethanolivertroy/ctrlmap/internal/confidence"
	"github.com/ethanolivertroy/ctrlmap/internal/enhance"
	"github.com/ethanolivertroy/ctrlmap/internal/mapping"
)

func testResult() *mapping.Result {
	return &mapping.Result{
		Service: "AWS Timestream",
		Entries: []mapping.Entry{
			{ControlID: "AC-1", Description: "Access control policy and procedures", Score: 1.2, Level: confidence.Medium},
			{ControlID: "SC-7", Description: "Boundary protection for network traffic", Score: 4.8, Level: confidence.High},
			{ControlID: "PE-3", Description: "Physical access control for facilities", Score: 0, Level: confidence.Low},
		},
	}
}

func testEnriched() *enhance.Enriched {
	return &enhance.Enriched{
		Service: "AWS Timestream",
		Assessments: []enhance.Assessment{
			{ControlID: "SC-7", BaseLevel: confidence.High, Applicable: true, Level: confidence.High, Justification: "The service documents VPC endpoints."},
			{ControlID: "AC-1", BaseLevel: confidence.Medium, Applicable: false, Level: confidence.Low, Justification: "Policy controls are organizational."},
		},
	}
}

func TestNewModelSortsListByScore(t *testing.T) {
	m := NewModel(testResult(), nil)

	items := m.list.Items()
	if len(items) != 3 {
		t.Fatalf("len(items) = %d, want 3", len(items))
	}
	first, ok := items[0].(ControlItem)
	if !ok {
		t.Fatalf("item type = %T, want ControlItem", items[0])
	}
	if first.Entry.ControlID != "SC-7" {
		t.Errorf("first item = %q, want %q", first.Entry.ControlID, "SC-7")
	}
}

func TestNewModelAttachesAssessments(t *testing.T) {
	m := NewModel(testResult(), testEnriched())

	assessed := 0
	for _, c := range m.allControls {
		if c.Assessment != nil {
			assessed++
		}
	}
	if assessed != 2 {
		t.Errorf("assessed controls = %d, want 2", assessed)
	}
	if m.stats.Assessed != 2 {
		t.Errorf("stats.Assessed = %d, want 2", m.stats.Assessed)
	}
}

func TestStats(t *testing.T) {
	m := NewModel(testResult(), nil)

	if m.stats.Total != 3 {
		t.Errorf("Total = %d, want 3", m.stats.Total)
	}
	if m.stats.High != 1 {
		t.Errorf("High = %d, want 1", m.stats.High)
	}
	if m.stats.Medium != 1 {
		t.Errorf("Medium = %d, want 1", m.stats.Medium)
	}
}

func TestHighConfidenceFilter(t *testing.T) {
	m := NewModel(testResult(), nil)
	m.width = 80
	m.height = 24

	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}}
	newModel, _ := m.Update(msg)
	updated := newModel.(Model)

	if updated.filterMode != FilterHigh {
		t.Fatalf("filterMode = %v, want FilterHigh", updated.filterMode)
	}
	if len(updated.filtered) != 1 {
		t.Fatalf("len(filtered) = %d, want 1", len(updated.filtered))
	}
	ci := updated.filtered[0].(ControlItem)
	if ci.Entry.ControlID != "SC-7" {
		t.Errorf("filtered item = %q, want %q", ci.Entry.ControlID, "SC-7")
	}

	// Pressing h again clears the filter
	newModel, _ = updated.Update(msg)
	updated = newModel.(Model)
	if updated.filterMode != FilterNone {
		t.Errorf("filterMode = %v, want FilterNone after toggle", updated.filterMode)
	}
}

func TestApplicableFilter(t *testing.T) {
	m := NewModel(testResult(), testEnriched())
	m.width = 80
	m.height = 24

	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}
	newModel, _ := m.Update(msg)
	updated := newModel.(Model)

	if len(updated.filtered) != 1 {
		t.Fatalf("len(filtered) = %d, want 1", len(updated.filtered))
	}
	ci := updated.filtered[0].(ControlItem)
	if ci.Entry.ControlID != "SC-7" {
		t.Errorf("filtered item = %q, want %q", ci.Entry.ControlID, "SC-7")
	}
}

func TestSortCycle(t *testing.T) {
	m := NewModel(testResult(), nil)
	m.width = 80
	m.height = 24

	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}}
	newModel, _ := m.Update(msg)
	updated := newModel.(Model)

	if updated.sortMode != SortByCatalog {
		t.Fatalf("sortMode = %v, want SortByCatalog", updated.sortMode)
	}
	ci := updated.filtered[0].(ControlItem)
	if ci.Entry.ControlID != "AC-1" {
		t.Errorf("first item in catalog order = %q, want %q", ci.Entry.ControlID, "AC-1")
	}

	newModel, _ = updated.Update(msg)
	updated = newModel.(Model)
	if updated.sortMode != SortByID {
		t.Fatalf("sortMode = %v, want SortByID", updated.sortMode)
	}
	ci = updated.filtered[0].(ControlItem)
	if ci.Entry.ControlID != "AC-1" {
		t.Errorf("first item by ID = %q, want %q", ci.Entry.ControlID, "AC-1")
	}
}

func TestEnterOpensDetailView(t *testing.T) {
	m := NewModel(testResult(), nil)
	m.width = 80
	m.height = 24

	msg := tea.KeyMsg{Type: tea.KeyEnter}
	newModel, _ := m.Update(msg)
	updated := newModel.(Model)

	if updated.view != ViewDetail {
		t.Fatalf("view = %v, want ViewDetail", updated.view)
	}
	if updated.selected == nil {
		t.Fatal("selected = nil, want current item")
	}
	if updated.selected.Entry.ControlID != "SC-7" {
		t.Errorf("selected = %q, want %q", updated.selected.Entry.ControlID, "SC-7")
	}
}

func TestEscapeReturnsToListView(t *testing.T) {
	m := NewModel(testResult(), nil)
	m.width = 80
	m.height = 24
	m.view = ViewDetail
	m.selected = &m.allControls[0]

	msg := tea.KeyMsg{Type: tea.KeyEscape}
	newModel, _ := m.Update(msg)
	updated := newModel.(Model)

	if updated.view != ViewList {
		t.Errorf("view = %v, want ViewList", updated.view)
	}
	if updated.selected != nil {
		t.Error("selected should be nil after exiting detail view")
	}
}

func TestChartsMenuNavigation(t *testing.T) {
	m := NewModel(testResult(), nil)
	m.width = 80
	m.height = 24

	newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	updated := newModel.(Model)
	if updated.view != ViewChartsMenu {
		t.Fatalf("view = %v, want ViewChartsMenu", updated.view)
	}

	newModel, _ = updated.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	updated = newModel.(Model)
	if updated.selectedChartIndex != 1 {
		t.Errorf("selectedChartIndex = %d, want 1", updated.selectedChartIndex)
	}

	newModel, _ = updated.Update(tea.KeyMsg{Type: tea.KeyEnter})
	updated = newModel.(Model)
	if updated.view != ViewScoreChart {
		t.Errorf("view = %v, want ViewScoreChart", updated.view)
	}
}

func TestRenderDetailContent(t *testing.T) {
	m := NewModel(testResult(), testEnriched())
	m.width = 100
	for i := range m.allControls {
		if m.allControls[i].Entry.ControlID == "SC-7" {
			m.selected = &m.allControls[i]
		}
	}

	output := m.renderDetailContent()

	if !strings.Contains(output, "SC-7") {
		t.Error("Missing control ID in output")
	}
	if !strings.Contains(output, "Boundary protection") {
		t.Error("Missing description in output")
	}
	if !strings.Contains(output, "VPC endpoints") {
		t.Error("Missing justification in output")
	}
}

func TestRenderListView(t *testing.T) {
	m := NewModel(testResult(), nil)
	m.width = 80
	m.height = 24

	output := m.View()

	if output == "" {
		t.Fatal("View returned empty string")
	}
	if !strings.Contains(output, "3 controls") {
		t.Error("Missing control count in stats header")
	}
	if !strings.Contains(output, "Sort: Score") {
		t.Error("Missing sort indicator")
	}
}
