package services

// Rubric item identifiers for README rating. CORE items carry most of
// the score; EXTRA items are bonus credit.
var (
	RubricCore = []string{
		"CLARITY_OF_PURPOSE",
		"QUICKSTART_INSTALL",
		"HELLO_WORLD_EXAMPLE",
		"VISUAL_DEMONSTRATION",
		"CONTRIBUTION_GATEWAY",
		"DEVELOPMENT_SETUP",
		"LICENSE_CLARITY",
	}
	RubricExtra = []string{
		"PROJECT_HEALTH_BADGES",
		"PRIOR_ART_COMPARISON",
		"DESIGN_RATIONALE",
	}
)

// RubricDescriptions spells out the intent behind each rubric item for
// the assessing model.
var RubricDescriptions = map[string]string{
	"CLARITY_OF_PURPOSE":    "Does the README begin with a clear, concise summary of what the package does and its main purpose? A new user should understand the project's goal in the first paragraph.",
	"QUICKSTART_INSTALL":    "Is there a clear, copy-pasteable installation command (e.g., `pip install`) or a prominent link to an installation guide?",
	"HELLO_WORLD_EXAMPLE":   "Can a user find a minimal, complete, and copy-pasteable code example to quickly understand the package's primary function and see it in action?",
	"VISUAL_DEMONSTRATION":  "If the project is visual (e.g., plotting, UI, image processing), does the README include a screenshot, GIF, or example output image? If not a visual tool, this is not applicable.",
	"CONTRIBUTION_GATEWAY":  "Is there a clear section or link to a `CONTRIBUTING.md` file that explains how others can contribute to the project (e.g., bug reports, pull requests)?",
	"DEVELOPMENT_SETUP":     "Are there instructions for a contributor to set up a local development environment and run tests?",
	"LICENSE_CLARITY":       "Is the software license clearly stated in the README, or is there a prominent link to a `LICENSE` file?",
	"PROJECT_HEALTH_BADGES": "Does the README include status badges for things like CI/CD, test coverage, or the latest released version?",
	"PRIOR_ART_COMPARISON":  "Does the documentation discuss how this project compares to other similar tools or alternatives in the ecosystem?",
	"DESIGN_RATIONALE":      "Does the README explain key design choices, trade-offs, or the philosophy behind the project?",
}

// rubricIsCore reports whether id belongs to the CORE set.
func rubricIsCore(id string) bool {
	for _, c := range RubricCore {
		if c == id {
			return true
		}
	}
	return false
}

// allRubricIDs returns CORE followed by EXTRA, the canonical order for
// stored and reported results.
func allRubricIDs() []string {
	out := make([]string, 0, len(RubricCore)+len(RubricExtra))
	out = append(out, RubricCore...)
	out = append(out, RubricExtra...)
	return out
}
