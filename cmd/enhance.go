package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ethanolivertroy/ctrlmap/internal/enhance"
	"github.com/ethanolivertroy/ctrlmap/internal/llm"
	"github.com/ethanolivertroy/ctrlmap/internal/mapping"
)

// EnhanceOptions configures the model-backed assessment pass that runs
// on top of the lexical mapping.
type EnhanceOptions struct {
	MaxControls int
}

// enhanceArtifact is the combined output written by RunEnhance: the
// raw lexical mapping plus the model's per-control assessments.
type enhanceArtifact struct {
	Base     *mapping.Result   `json:"base_mapping"`
	Enhanced *enhance.Enriched `json:"enhanced_mapping"`
}

// assessBanner is the progress line printed before the assessment pass.
func assessBanner(cfg llm.Config) string {
	return fmt.Sprintf("Assessing top candidates with %s (%s)...", cfg.Provider, cfg.Model)
}

// RunEnhance runs the mapping pipeline, asks the configured language
// model to assess the strongest candidate controls, and writes a
// combined artifact.
func RunEnhance(ctx context.Context, opts MapOptions, eopts EnhanceOptions) error {
	cfg := llm.ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		fmt.Fprintf(os.Stderr, "\nSet LLM_PROVIDER (gemini, vertex, ollama, openrouter) and the provider's credentials.\n")
		return err
	}

	mapper, result, docText, err := runPipeline(ctx, opts)
	if err != nil {
		return err
	}

	mdl, err := llm.NewModel(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing %s model: %w", cfg.Provider, err)
	}

	enhancer := enhance.NewModelEnhancer(mdl, enhance.Options{MaxControls: eopts.MaxControls})
	fmt.Fprintln(os.Stderr, assessBanner(cfg))
	enriched, err := enhancer.Enhance(ctx, result, enhance.Context{
		Service:    opts.Service,
		Note:       opts.Note,
		DocExcerpt: mapper.Extract(docText),
	})
	if err != nil {
		return fmt.Errorf("model assessment: %w", err)
	}

	artifact := enhanceArtifact{Base: result, Enhanced: enriched}
	if opts.OutputPath != "" {
		if err := writeArtifact(opts.OutputPath, artifact); err != nil {
			return err
		}
		fmt.Printf("Wrote enhanced mapping for %q to %s\n", result.Service, opts.OutputPath)
	} else {
		data, err := json.MarshalIndent(artifact, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding enhanced mapping: %w", err)
		}
		fmt.Println(string(data))
	}

	for _, a := range enriched.Assessments {
		marker := "not applicable"
		if a.Applicable {
			marker = string(a.Level)
		}
		fmt.Fprintf(os.Stderr, "  %-8s %-14s %s\n", a.ControlID, marker, truncate(a.Justification, 70))
	}
	return nil
}
