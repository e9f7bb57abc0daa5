package main

import (
	"flag"
	"strings"
	"testing"
)

func TestUsageListsCommands(t *testing.T) {
	out := usage()

	for _, cmd := range []string{"map", "enhance", "browse", "version"} {
		if !strings.Contains(out, cmd) {
			t.Errorf("usage missing %q command", cmd)
		}
	}
	if !strings.Contains(out, "LLM_PROVIDER") {
		t.Error("usage missing LLM_PROVIDER environment documentation")
	}
}

func TestMapFlagsParsing(t *testing.T) {
	fs := flag.NewFlagSet("map", flag.ContinueOnError)
	opts := mapFlags(fs)

	err := fs.Parse([]string{
		"-controls", "controls.csv",
		"-service", "AWS Timestream",
		"-doc", "doc.txt",
		"-note", "time series database",
		"-output", "out/mapping.json",
		"-k1", "1.2",
		"-high-cutoff", "0.8",
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if opts.ControlsPath != "controls.csv" {
		t.Errorf("ControlsPath = %q, want %q", opts.ControlsPath, "controls.csv")
	}
	if opts.Service != "AWS Timestream" {
		t.Errorf("Service = %q, want %q", opts.Service, "AWS Timestream")
	}
	if opts.Note != "time series database" {
		t.Errorf("Note = %q, want %q", opts.Note, "time series database")
	}
	if opts.K1 != 1.2 {
		t.Errorf("K1 = %v, want 1.2", opts.K1)
	}
	if opts.HighCutoff != 0.8 {
		t.Errorf("HighCutoff = %v, want 0.8", opts.HighCutoff)
	}
	if opts.MediumCutoff != 0.4 {
		t.Errorf("MediumCutoff = %v, want 0.4 (default)", opts.MediumCutoff)
	}
}

func TestMapFlagsDefaults(t *testing.T) {
	fs := flag.NewFlagSet("map", flag.ContinueOnError)
	opts := mapFlags(fs)

	if err := fs.Parse(nil); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if opts.HighCutoff != 0.7 {
		t.Errorf("HighCutoff = %v, want 0.7", opts.HighCutoff)
	}
	if opts.MediumCutoff != 0.4 {
		t.Errorf("MediumCutoff = %v, want 0.4", opts.MediumCutoff)
	}
	if opts.K1 != 0 {
		t.Errorf("K1 = %v, want 0 (resolved to 1.5 downstream)", opts.K1)
	}
}
