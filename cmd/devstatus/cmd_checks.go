package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/troml/dev-status/internal/domain/entities"
)

func runChecks(args []string) {
	fs := flag.NewFlagSet("checks", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: devstatus checks

List the full check vocabulary with each check's category membership.
`)
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%d checks:\n\n", len(entities.AllChecks))
	for _, id := range entities.AllChecks {
		categories := id.Categories()
		membership := "-"
		if len(categories) > 0 {
			membership = strings.Join(categories, ", ")
		}
		fmt.Printf("  %-10s %-45s %s\n", id, entities.CheckTitles[id], membership)
	}
}
