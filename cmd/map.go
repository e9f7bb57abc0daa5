package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ethanolivertroy/ctrlmap/internal/confidence"
	"github.com/ethanolivertroy/ctrlmap/internal/mapping"
)

// RunMap executes the lexical mapping pipeline and either writes the
// mapping artifact to opts.OutputPath or prints it to stdout.
func RunMap(ctx context.Context, opts MapOptions) error {
	_, result, _, err := runPipeline(ctx, opts)
	if err != nil {
		return err
	}

	if opts.OutputPath != "" {
		if err := writeArtifact(opts.OutputPath, result); err != nil {
			return err
		}
		fmt.Printf("Wrote mapping for %q to %s\n", result.Service, opts.OutputPath)
	} else {
		data, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("encoding mapping: %w", err)
		}
		fmt.Println(string(data))
	}

	printSummary(result, 5)
	return nil
}

// printSummary writes a short ranked digest to stderr so it never
// pollutes piped JSON output.
func printSummary(result *mapping.Result, top int) {
	ranked := result.Ranked()
	if len(ranked) == 0 {
		return
	}
	if top > len(ranked) {
		top = len(ranked)
	}
	counts := map[confidence.Level]int{}
	for _, e := range ranked {
		counts[e.Level]++
	}
	fmt.Fprintf(os.Stderr, "\n%d controls mapped (%d high, %d medium, %d low)\n",
		len(ranked), counts[confidence.High], counts[confidence.Medium], counts[confidence.Low])
	fmt.Fprintln(os.Stderr, "Top matches:")
	for _, e := range ranked[:top] {
		fmt.Fprintf(os.Stderr, "  %-8s %-6s %.3f  %s\n", e.ControlID, e.Level, e.Score, truncate(e.Description, 60))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
