package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ethanolivertroy/ctrlmap/cmd"
)

func printUsage() {
	fmt.Fprint(os.Stderr, usage())
}

func usage() string {
	return `ctrlmap - map cloud service documentation to a security control catalog

Usage:
  ctrlmap <command> [flags]

Commands:
  map       Score a service document against a control catalog
  enhance   Run map, then assess the top candidates with an LLM
  browse    Interactive browser for mapping results
  version   Print the version

Examples:
  ctrlmap map -controls controls.csv -service "AWS Timestream" -doc security.txt
  ctrlmap map -controls controls.csv -service "AWS Lambda" -doc doc.txt -output out/mapping.json
  ctrlmap enhance -controls controls.csv -service "AWS Timestream" -doc doc.txt -max-controls 5
  ctrlmap browse -controls controls.csv -service "AWS Timestream" -doc doc.txt
  ctrlmap browse -controls controls.csv -service "AWS Timestream" -doc doc.txt -assess
  ctrlmap map -service "AWS Timestream" -doc doc.txt    # bundled NIST 800-53 catalog
  ctrlmap map -service "AWS Timestream" -doc-url https://docs.aws.example/security.html

Environment (enhance, browse -assess):
  LLM_PROVIDER      LLM provider: gemini (default), vertex, ollama, or openrouter
  LLM_MODEL         Model name (e.g., gemini-2.0-flash, llama3.2)
  GEMINI_API_KEY    Required for Gemini provider
  VERTEX_PROJECT    GCP project ID (required for Vertex AI)
  VERTEX_LOCATION   GCP region (required for Vertex AI, e.g., us-central1)
  OLLAMA_URL        Ollama server URL (default: http://localhost:11434)
  OPENROUTER_API_KEY  Required for OpenRouter provider
`
}

// mapFlags registers the flags shared by every pipeline subcommand.
func mapFlags(fs *flag.FlagSet) *cmd.MapOptions {
	opts := &cmd.MapOptions{}
	fs.StringVar(&opts.ControlsPath, "controls", "", "control catalog CSV (default: bundled NIST 800-53 subset)")
	fs.StringVar(&opts.IDColumn, "id-column", "", "catalog column holding control IDs (default \"id\")")
	fs.StringVar(&opts.DescColumn, "description-column", "", "catalog column holding control text (default \"description\")")
	fs.StringVar(&opts.Service, "service", "", "name of the cloud service being mapped (required)")
	fs.StringVar(&opts.Note, "note", "", "free-text note about the service, added to the query")
	fs.StringVar(&opts.DocPath, "doc", "", "service documentation file")
	fs.StringVar(&opts.DocURL, "doc-url", "", "fetch service documentation from a URL instead of a file")
	fs.StringVar(&opts.OutputPath, "output", "", "write the JSON artifact here instead of stdout")
	fs.Float64Var(&opts.K1, "k1", 0, "BM25 k1 parameter (default 1.5)")
	fs.Float64Var(&opts.B, "b", 0, "BM25 b parameter (default 0.75)")
	fs.Float64Var(&opts.HighCutoff, "high-cutoff", 0.7, "normalized score above which confidence is high")
	fs.Float64Var(&opts.MediumCutoff, "medium-cutoff", 0.4, "normalized score above which confidence is medium")
	return opts
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()

	switch os.Args[1] {
	case "map":
		mapCmd := flag.NewFlagSet("map", flag.ExitOnError)
		opts := mapFlags(mapCmd)
		mapCmd.Parse(os.Args[2:])

		if err := cmd.RunMap(ctx, *opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "enhance":
		enhanceCmd := flag.NewFlagSet("enhance", flag.ExitOnError)
		opts := mapFlags(enhanceCmd)
		maxControls := enhanceCmd.Int("max-controls", 5, "number of top candidates to assess")
		enhanceCmd.Parse(os.Args[2:])

		if err := cmd.RunEnhance(ctx, *opts, cmd.EnhanceOptions{MaxControls: *maxControls}); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "browse":
		browseCmd := flag.NewFlagSet("browse", flag.ExitOnError)
		opts := mapFlags(browseCmd)
		assess := browseCmd.Bool("assess", false, "assess top candidates with the configured LLM before browsing")
		maxControls := browseCmd.Int("max-controls", 5, "number of top candidates to assess")
		browseCmd.Parse(os.Args[2:])

		if err := cmd.RunBrowse(ctx, *opts, *assess, *maxControls); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "help", "--help", "-h":
		printUsage()

	case "version", "--version":
		fmt.Println("ctrlmap v0.1.0")

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}
