package main

import (
	"context"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/troml/dev-status/internal/domain/entities"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	command := os.Args[1]

	// Dispatch to subcommand
	switch command {
	case "analyze":
		runAnalyze(ctx, os.Args[2:])
	case "rate-readme":
		runRateReadme(ctx, os.Args[2:])
	case "checks":
		runChecks(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`devstatus - Development status classifier for Python projects

Usage:
  devstatus <command> [options]

Commands:
  analyze      Run all checks against a project and classify its maturity
  rate-readme  Rate a project's README against the documentation rubric
  checks       List the check vocabulary and category membership

Use "devstatus <command> --help" for more information about a command.`)
}

// loadSettings reads process configuration from the environment, after
// loading an optional .env file from the working directory.
func loadSettings() (entities.Settings, error) {
	//nolint:errcheck // A missing .env file is the normal case
	_ = godotenv.Load()

	var settings entities.Settings
	if err := env.Parse(&settings); err != nil {
		return settings, fmt.Errorf("failed to parse environment: %w", err)
	}
	return settings, nil
}
