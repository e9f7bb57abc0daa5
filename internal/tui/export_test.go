package tui

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/ethanolivertroy/ctrlmap/internal/confidence"
	"github.com/ethanolivertroy/ctrlmap/internal/enhance"
	"github.com/ethanolivertroy/ctrlmap/internal/mapping"
)

func testItems() []ControlItem {
	return []ControlItem{
		{
			Entry: mapping.Entry{ControlID: "SC-7", Description: "Boundary protection", Score: 4.8, Level: confidence.High},
			Assessment: &enhance.Assessment{
				ControlID:     "SC-7",
				BaseLevel:     confidence.High,
				Applicable:    true,
				Level:         confidence.High,
				Justification: "Documented VPC endpoint support.",
			},
		},
		{
			Entry: mapping.Entry{ControlID: "AC-1", Description: "Access control policy", Score: 1.2, Level: confidence.Medium},
		},
		{
			Entry: mapping.Entry{ControlID: "PE-3", Description: "Physical access control", Score: 0, Level: confidence.Low},
		},
	}
}

func TestExportFormatStrings(t *testing.T) {
	tests := []struct {
		format ExportFormat
		name   string
		ext    string
	}{
		{ExportJSON, "JSON", ".json"},
		{ExportCSV, "CSV", ".csv"},
		{ExportMarkdown, "Markdown", ".md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.format.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
			if got := tt.format.Extension(); got != tt.ext {
				t.Errorf("Extension() = %q, want %q", got, tt.ext)
			}
		})
	}
}

func TestExportJSON(t *testing.T) {
	dir := t.TempDir()
	result := Export("AWS Timestream", testItems(), ExportJSON, dir)

	if result.Err != nil {
		t.Fatalf("Export() error = %v", result.Err)
	}
	if result.Count != 3 {
		t.Errorf("Count = %d, want 3", result.Count)
	}
	if !strings.HasSuffix(result.FilePath, ".json") {
		t.Errorf("FilePath = %q, want .json suffix", result.FilePath)
	}

	data, err := os.ReadFile(result.FilePath)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}

	var parsed struct {
		Service    string `json:"service"`
		TotalCount int    `json:"total_count"`
		Controls   []struct {
			ControlID     string  `json:"control_id"`
			Score         float64 `json:"score"`
			Confidence    string  `json:"confidence"`
			Assessed      bool    `json:"assessed"`
			Applicable    *bool   `json:"llm_applicable"`
			Justification string  `json:"justification"`
		} `json:"controls"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("parsing export: %v", err)
	}

	if parsed.Service != "AWS Timestream" {
		t.Errorf("service = %q, want %q", parsed.Service, "AWS Timestream")
	}
	if parsed.TotalCount != 3 {
		t.Errorf("total_count = %d, want 3", parsed.TotalCount)
	}
	if len(parsed.Controls) != 3 {
		t.Fatalf("len(controls) = %d, want 3", len(parsed.Controls))
	}

	first := parsed.Controls[0]
	if first.ControlID != "SC-7" {
		t.Errorf("first control = %q, want %q", first.ControlID, "SC-7")
	}
	if !first.Assessed {
		t.Error("first control should be assessed")
	}
	if first.Applicable == nil || !*first.Applicable {
		t.Error("first control should be applicable")
	}
	if parsed.Controls[1].Assessed {
		t.Error("second control should not be assessed")
	}
	if parsed.Controls[1].Applicable != nil {
		t.Error("unassessed control should omit llm_applicable")
	}
}

func TestExportCSV(t *testing.T) {
	dir := t.TempDir()
	result := Export("AWS Timestream", testItems(), ExportCSV, dir)

	if result.Err != nil {
		t.Fatalf("Export() error = %v", result.Err)
	}

	file, err := os.Open(result.FilePath)
	if err != nil {
		t.Fatalf("opening export: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("parsing CSV: %v", err)
	}

	if len(records) != 4 { // header + 3 rows
		t.Fatalf("len(records) = %d, want 4", len(records))
	}
	if records[0][1] != "Control ID" {
		t.Errorf("header[1] = %q, want %q", records[0][1], "Control ID")
	}
	if records[1][1] != "SC-7" {
		t.Errorf("row 1 control = %q, want %q", records[1][1], "SC-7")
	}
	if records[1][6] != "Yes" {
		t.Errorf("row 1 applicable = %q, want %q", records[1][6], "Yes")
	}
	if records[2][5] != "No" {
		t.Errorf("row 2 assessed = %q, want %q", records[2][5], "No")
	}
}

func TestExportMarkdown(t *testing.T) {
	dir := t.TempDir()
	result := Export("AWS Timestream", testItems(), ExportMarkdown, dir)

	if result.Err != nil {
		t.Fatalf("Export() error = %v", result.Err)
	}

	data, err := os.ReadFile(result.FilePath)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	content := string(data)

	if !strings.Contains(content, "# Control Mapping Report: AWS Timestream") {
		t.Error("Missing report title")
	}
	if !strings.Contains(content, "| SC-7 |") {
		t.Error("Missing SC-7 table row")
	}
	if !strings.Contains(content, "## Model Justifications") {
		t.Error("Missing justifications section")
	}
	if !strings.Contains(content, "Documented VPC endpoint support.") {
		t.Error("Missing justification text")
	}
}

func TestExportBadDirectory(t *testing.T) {
	result := Export("svc", testItems(), ExportJSON, "/nonexistent/path")
	if result.Err == nil {
		t.Error("Export() to bad directory should fail")
	}
}
