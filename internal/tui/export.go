package tui

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ExportFormat represents the export file format
type ExportFormat int

const (
	ExportJSON ExportFormat = iota
	ExportCSV
	ExportMarkdown
)

func (f ExportFormat) String() string {
	switch f {
	case ExportJSON:
		return "JSON"
	case ExportCSV:
		return "CSV"
	case ExportMarkdown:
		return "Markdown"
	}
	return ""
}

func (f ExportFormat) Extension() string {
	switch f {
	case ExportJSON:
		return ".json"
	case ExportCSV:
		return ".csv"
	case ExportMarkdown:
		return ".md"
	}
	return ""
}

// ExportScope represents what data to export
type ExportScope int

const (
	ExportCurrentView ExportScope = iota
	ExportFullMapping
)

func (s ExportScope) String() string {
	switch s {
	case ExportCurrentView:
		return "Current View"
	case ExportFullMapping:
		return "Full Mapping"
	}
	return ""
}

// ExportOption represents a menu option
type ExportOption struct {
	Name   string
	Format ExportFormat
	Scope  ExportScope
}

// ExportResult contains the result of an export operation
type ExportResult struct {
	FilePath string
	Count    int
	Err      error
}

// Export writes a mapping report for the given controls to a file
func Export(service string, items []ControlItem, format ExportFormat, outputDir string) ExportResult {
	timestamp := time.Now().Format("2006-01-02_150405")
	filename := fmt.Sprintf("mapping_report_%s%s", timestamp, format.Extension())
	filepath := filepath.Join(outputDir, filename)

	var err error
	switch format {
	case ExportJSON:
		err = exportJSON(service, items, filepath)
	case ExportCSV:
		err = exportCSV(service, items, filepath)
	case ExportMarkdown:
		err = exportMarkdown(service, items, filepath)
	}

	if err != nil {
		return ExportResult{Err: err}
	}

	return ExportResult{FilePath: filepath, Count: len(items)}
}

func exportJSON(service string, items []ControlItem, filepath string) error {
	type ExportControl struct {
		ControlID     string  `json:"control_id"`
		Description   string  `json:"description"`
		Score         float64 `json:"score"`
		Confidence    string  `json:"confidence"`
		Assessed      bool    `json:"assessed"`
		Applicable    *bool   `json:"llm_applicable,omitempty"`
		LLMConfidence string  `json:"llm_confidence,omitempty"`
		Justification string  `json:"justification,omitempty"`
	}

	export := struct {
		Service    string          `json:"service"`
		ExportedAt string          `json:"exported_at"`
		TotalCount int             `json:"total_count"`
		Controls   []ExportControl `json:"controls"`
	}{
		Service:    service,
		ExportedAt: time.Now().Format(time.RFC3339),
		TotalCount: len(items),
	}

	for _, c := range items {
		ec := ExportControl{
			ControlID:   c.Entry.ControlID,
			Description: c.Entry.Description,
			Score:       c.Entry.Score,
			Confidence:  string(c.Entry.Level),
		}
		if a := c.Assessment; a != nil {
			ec.Assessed = true
			applicable := a.Applicable
			ec.Applicable = &applicable
			ec.LLMConfidence = string(a.Level)
			ec.Justification = a.Justification
		}
		export.Controls = append(export.Controls, ec)
	}

	file, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(export)
}

func exportCSV(service string, items []ControlItem, filepath string) error {
	file, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Header
	header := []string{
		"Service", "Control ID", "Description", "Score", "Confidence",
		"Assessed", "LLM Applicable", "LLM Confidence", "Justification",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	// Data rows
	for _, c := range items {
		assessed := "No"
		applicable := ""
		llmConfidence := ""
		justification := ""
		if a := c.Assessment; a != nil {
			assessed = "Yes"
			applicable = "No"
			if a.Applicable {
				applicable = "Yes"
			}
			llmConfidence = string(a.Level)
			justification = a.Justification
		}

		row := []string{
			service,
			c.Entry.ControlID,
			c.Entry.Description,
			fmt.Sprintf("%.4f", c.Entry.Score),
			string(c.Entry.Level),
			assessed,
			applicable,
			llmConfidence,
			justification,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportMarkdown(service string, items []ControlItem, filepath string) error {
	file, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer file.Close()

	var b strings.Builder

	// Header
	b.WriteString(fmt.Sprintf("# Control Mapping Report: %s\n\n", service))
	b.WriteString(fmt.Sprintf("**Generated:** %s\n\n", time.Now().Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("**Total Controls:** %d\n\n", len(items)))

	// Summary stats
	highCount := 0
	assessedCount := 0
	for _, c := range items {
		if string(c.Entry.Level) == "high" {
			highCount++
		}
		if c.Assessment != nil {
			assessedCount++
		}
	}
	b.WriteString("## Summary\n\n")
	b.WriteString(fmt.Sprintf("- **High Confidence:** %d (%.1f%%)\n", highCount, float64(highCount)/float64(len(items))*100))
	b.WriteString(fmt.Sprintf("- **Model Assessed:** %d (%.1f%%)\n\n", assessedCount, float64(assessedCount)/float64(len(items))*100))

	// Table
	b.WriteString("## Controls\n\n")
	b.WriteString("| Control ID | Description | Score | Confidence | Model Verdict |\n")
	b.WriteString("|------------|-------------|-------|------------|---------------|\n")

	for _, c := range items {
		verdict := ""
		if a := c.Assessment; a != nil {
			if a.Applicable {
				verdict = fmt.Sprintf("applicable (%s)", a.Level)
			} else {
				verdict = "not applicable"
			}
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %.3f | %s | %s |\n",
			c.Entry.ControlID, truncateString(c.Entry.Description, 60), c.Entry.Score, c.Entry.Level, verdict))
	}

	// Justifications for assessed controls
	if assessedCount > 0 {
		b.WriteString("\n## Model Justifications\n\n")
		for _, c := range items {
			if a := c.Assessment; a != nil && a.Justification != "" {
				b.WriteString(fmt.Sprintf("### %s\n\n%s\n\n", c.Entry.ControlID, a.Justification))
			}
		}
	}

	b.WriteString("\n---\n\n")
	b.WriteString("*Generated by ctrlmap*\n")

	_, err = file.WriteString(b.String())
	return err
}
