package entities

// CategoryScore is an absolute passed/total pair for one category after
// any exclusions have been applied to the denominator.
type CategoryScore struct {
	Passed int `json:"passed"`
	Total  int `json:"total"`
}

// Full reports whether every counted check in the category passed.
func (c CategoryScore) Full() bool {
	return c.Passed == c.Total
}

// Explanation is the structured breakdown behind a classification. Prose
// rendering is a projection of this struct and never feeds back into the
// decision.
type Explanation struct {
	EPS          CategoryScore `json:"eps"`
	Completeness CategoryScore `json:"completeness"`
	Badness      CategoryScore `json:"badness"`
	LTS          CategoryScore `json:"lts"`

	// FiredGate names the gate that short-circuited the ladder, empty
	// when all gates passed.
	FiredGate string `json:"fired_gate,omitempty"`

	// MatchedTier is the ladder row that accepted the project. When no
	// row matched and the result fell through to Pre-Alpha, Fallback is
	// set instead.
	MatchedTier Status `json:"matched_tier"`
	Fallback    bool   `json:"fallback,omitempty"`
}

// Classification is the engine's outcome: one tier plus a free-text
// reason. Reason is informational only and never parsed by callers.
type Classification struct {
	Status Status `json:"-"`
	Reason string `json:"reason"`

	// Explanation is populated only when explain mode was requested.
	Explanation *Explanation `json:"explanation,omitempty"`
}

// Report is the full analysis output for one project.
type Report struct {
	Project       string                  `json:"project"`
	Path          string                  `json:"path"`
	LatestVersion string                  `json:"latest_version,omitempty"`
	Classifier    string                  `json:"classifier"`
	Reason        string                  `json:"reason"`
	Checks        map[CheckID]CheckResult `json:"checks"`
	Metrics       Metrics                 `json:"metrics,omitempty"`
	Explanation   *Explanation            `json:"explanation,omitempty"`
}
