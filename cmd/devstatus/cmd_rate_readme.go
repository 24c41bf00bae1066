package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/troml/dev-status/internal/domain/interfaces"
)

func runRateReadme(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("rate-readme", flag.ExitOnError)
	var (
		path        = fs.String("path", ".", "Project directory containing the README")
		fullRefresh = fs.Bool("full-refresh", false, "Ignore cached results and re-assess every rubric item")
		jsonOutput  = fs.Bool("json", false, "Emit the rating as JSON")
		verbose     = fs.Bool("verbose", false, "Enable debug logging")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: devstatus rate-readme [options]

Rate a project's README against the documentation rubric using the
configured LLM. Requires OPENROUTER_API_KEY or OPENAI_API_KEY.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	settings, err := loadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *fullRefresh {
		settings.FullRefresh = true
	}

	logger := &interfaces.StderrLogger{Verbose: *verbose}
	orch := buildOrchestrator(*path, settings, logger)

	rating, err := orch.RateReadme(ctx, *path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *jsonOutput {
		printJSON(rating)
		return
	}

	fmt.Printf("README score: %d/100 (%s)\n\n", rating.OverallScoreNumeric, rating.OverallScore)
	for _, item := range rating.RubricResults {
		mark := "✅"
		switch item.Status {
		case "fail":
			mark = "❌"
		case "na":
			mark = "➖"
		}
		fmt.Printf("  %s %-25s %s\n", mark, item.ID, item.Advice)
	}
}
