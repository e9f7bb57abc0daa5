package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethanolivertroy/ctrlmap/internal/bm25"
	"github.com/ethanolivertroy/ctrlmap/internal/catalog"
	"github.com/ethanolivertroy/ctrlmap/internal/confidence"
	"github.com/ethanolivertroy/ctrlmap/internal/fetch"
	"github.com/ethanolivertroy/ctrlmap/internal/mapping"
)

// MapOptions carries everything the mapping pipeline needs. The zero
// value is not usable: ControlsPath and Service are required.
type MapOptions struct {
	ControlsPath string
	IDColumn     string
	DescColumn   string

	Service string
	Note    string
	DocPath string
	DocURL  string

	OutputPath string

	K1           float64
	B            float64
	HighCutoff   float64
	MediumCutoff float64
}

func (o MapOptions) validate() error {
	if o.Service == "" {
		return fmt.Errorf("a service name is required (-service)")
	}
	if o.DocPath != "" && o.DocURL != "" {
		return fmt.Errorf("-doc and -doc-url are mutually exclusive")
	}
	if o.HighCutoff <= o.MediumCutoff {
		return fmt.Errorf("high cutoff %v must be greater than medium cutoff %v", o.HighCutoff, o.MediumCutoff)
	}
	return nil
}

// runPipeline loads the catalog, builds the mapper, and maps the
// service document. It returns the mapper too so callers can reuse
// the extractor for prompt excerpts.
func runPipeline(ctx context.Context, opts MapOptions) (*mapping.Mapper, *mapping.Result, string, error) {
	if err := opts.validate(); err != nil {
		return nil, nil, "", err
	}

	var cat *catalog.Catalog
	if opts.ControlsPath != "" {
		var err error
		cat, err = catalog.Load(opts.ControlsPath, catalog.Options{
			IDColumn:          opts.IDColumn,
			DescriptionColumn: opts.DescColumn,
		})
		if err != nil {
			return nil, nil, "", fmt.Errorf("loading control catalog: %w", err)
		}
	} else {
		cat = catalog.Builtin()
	}

	docText := ""
	switch {
	case opts.DocPath != "":
		raw, err := os.ReadFile(opts.DocPath)
		if err != nil {
			return nil, nil, "", fmt.Errorf("reading service documentation: %w", err)
		}
		docText = string(raw)
	case opts.DocURL != "":
		text, err := fetch.NewClient().Document(ctx, opts.DocURL)
		if err != nil {
			return nil, nil, "", fmt.Errorf("fetching service documentation: %w", err)
		}
		docText = text
	}

	mapper, err := mapping.New(cat, mapping.Config{
		Params:     bm25.Params{K1: opts.K1, B: opts.B},
		Thresholds: confidence.Thresholds{High: opts.HighCutoff, Medium: opts.MediumCutoff},
	})
	if err != nil {
		return nil, nil, "", err
	}

	result, err := mapper.Map(opts.Service, opts.Note, docText)
	if err != nil {
		return nil, nil, "", err
	}
	return mapper, result, docText, nil
}

// writeArtifact marshals v as indented JSON and writes it to path,
// creating parent directories as needed.
func writeArtifact(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
