package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/troml/dev-status/internal/domain-adapters/gateways"
	orchestrators "github.com/troml/dev-status/internal/domain-orchestrators"
	"github.com/troml/dev-status/internal/domain/entities"
	"github.com/troml/dev-status/internal/domain/interfaces"
	"github.com/troml/dev-status/internal/domain/services"
)

func runAnalyze(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	var (
		path       = fs.String("path", ".", "Project directory to analyze")
		project    = fs.String("project", "", "Registry project name (default: pyproject name)")
		venvMode   = fs.Bool("venv", false, "Exclude environment-dependent checks from score denominators")
		explain    = fs.Bool("explain", false, "Include the category score breakdown in the output")
		jsonOutput = fs.Bool("json", false, "Emit the full report as JSON")
		verbose    = fs.Bool("verbose", false, "Enable debug logging")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: devstatus analyze [options]

Run every check against a project directory, query the package registry
and classify the project's development status.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Analyze the current directory
  devstatus analyze

  # Analyze another project with the score breakdown
  devstatus analyze --path ../mylib --explain

  # Machine-readable output
  devstatus analyze --path ../mylib --json
`)
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

	logger := &interfaces.StderrLogger{Verbose: *verbose}
	orch := buildOrchestrator(*path, settings, logger)

	report, err := orch.Analyze(ctx, orchestrators.AnalyzeRequest{
		Path:     *path,
		Project:  *project,
		VenvMode: *venvMode,
		Explain:  *explain,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *jsonOutput {
		printJSON(report)
		return
	}
	printReport(report)
}

// buildOrchestrator wires the adapters together. The rater is only
// constructed when an API key is configured.
func buildOrchestrator(path string, settings entities.Settings, logger interfaces.Logger) *orchestrators.AnalyzeOrchestrator {
	scanner := gateways.NewRepoScanner(logger)
	registry := gateways.NewPyPIGateway(logger)

	var rater orchestrators.ReadmeRater
	if key := settings.APIKey(); key != "" {
		llm := gateways.NewOpenAIGateway(settings.BaseURL, key, settings.Model, logger)
		rater = services.NewRater(llm, filepath.Join(path, ".cache"), logger)
	}

	return orchestrators.NewAnalyzeOrchestrator(scanner, registry, rater, settings, logger)
}

func printReport(report *entities.Report) {
	fmt.Printf("Project: %s", report.Project)
	if report.LatestVersion != "" {
		fmt.Printf(" (latest release %s)", report.LatestVersion)
	}
	fmt.Println()
	fmt.Println()

	for _, id := range entities.AllChecks {
		result, ok := report.Checks[id]
		if !ok {
			continue
		}
		mark := "✅"
		if !result.Passed {
			mark = "❌"
		}
		fmt.Printf("  %s %-10s %-45s %s\n", mark, id, entities.CheckTitles[id], result.Evidence)
	}

	fmt.Println()
	fmt.Printf("Status: %s\n", report.Classifier)
	fmt.Printf("Reason: %s\n", report.Reason)

	if report.Explanation != nil {
		e := report.Explanation
		fmt.Println()
		fmt.Printf("  EPS:          %d/%d\n", e.EPS.Passed, e.EPS.Total)
		fmt.Printf("  Completeness: %d/%d\n", e.Completeness.Passed, e.Completeness.Total)
		fmt.Printf("  Badness:      %d/%d\n", e.Badness.Passed, e.Badness.Total)
		fmt.Printf("  LTS:          %d/%d\n", e.LTS.Passed, e.LTS.Total)
	}
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to encode output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}
