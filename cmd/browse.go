package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethanolivertroy/ctrlmap/internal/enhance"
	"github.com/ethanolivertroy/ctrlmap/internal/llm"
	"github.com/ethanolivertroy/ctrlmap/internal/tui"
)

// RunBrowse runs the mapping pipeline and opens the interactive results
// browser. With assess set, the configured language model assesses the
// strongest candidates first so the browser can show its verdicts.
func RunBrowse(ctx context.Context, opts MapOptions, assess bool, maxControls int) error {
	mapper, result, docText, err := runPipeline(ctx, opts)
	if err != nil {
		return err
	}

	var enriched *enhance.Enriched
	if assess {
		cfg := llm.ConfigFromEnv()
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("model configuration: %w", err)
		}
		mdl, err := llm.NewModel(ctx, cfg)
		if err != nil {
			return fmt.Errorf("initializing %s model: %w", cfg.Provider, err)
		}
		enhancer := enhance.NewModelEnhancer(mdl, enhance.Options{MaxControls: maxControls})
		fmt.Fprintln(os.Stderr, assessBanner(cfg))
		enriched, err = enhancer.Enhance(ctx, result, enhance.Context{
			Service:    opts.Service,
			Note:       opts.Note,
			DocExcerpt: mapper.Extract(docText),
		})
		if err != nil {
			return fmt.Errorf("model assessment: %w", err)
		}
	}

	p := tea.NewProgram(tui.NewModel(result, enriched), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}
