package services

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/troml/dev-status/internal/domain/entities"
)

// Check thresholds.
const (
	minTestToModuleRatio = 0.5
	minTypeHintCoverage  = 80.0

	recentReleaseWindow  = 24 * 30 * 24 * time.Hour // R2
	yearlyReleaseWindow  = 12 * 30 * 24 * time.Hour // R4 (12mo)
	activeReleaseWindow  = 6 * 30 * 24 * time.Hour  // M1
	minReleasesPerYear   = 2                        // M2 (12mo)
)

// CheckInput bundles everything the check definitions read. Collaborator
// failures arrive as errors here and leave as failed results with the
// error summary as evidence; the engine never sees an error.
type CheckInput struct {
	Repo     *entities.RepoSnapshot
	Registry *entities.RegistrySnapshot
	// RegistryErr is set when the registry lookup itself failed (network,
	// rate limit). All registry-backed checks then fail with its summary.
	RegistryErr error

	ChangelogErrors []ChangelogError

	// Readme is the precomputed Q8 outcome (the rater owns its own
	// fallback semantics).
	Readme entities.CheckResult

	Config entities.ProjectConfig
	Now    time.Time
}

// BuildResults evaluates the full check vocabulary against the input.
func BuildResults(in CheckInput) entities.Results {
	results := entities.Results{}
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	addRegistryChecks(results, in, now)
	addRepoChecks(results, in)
	addHygieneChecks(results, in)
	return results
}

func addRegistryChecks(results entities.Results, in CheckInput, now time.Time) {
	registryIDs := []entities.CheckID{
		entities.CheckR1, entities.CheckR2, entities.CheckR3, entities.CheckR4,
		entities.CheckR6, entities.CheckM1, entities.CheckM2,
	}

	if in.RegistryErr != nil {
		for _, id := range registryIDs {
			results[id] = fail("registry lookup failed: " + in.RegistryErr.Error())
		}
		return
	}

	reg := in.Registry
	if reg == nil || !reg.Found || reg.ReleaseCount == 0 {
		for _, id := range registryIDs {
			results[id] = fail("project has no releases on the registry")
		}
		return
	}

	results[entities.CheckR1] = pass(fmt.Sprintf(
		"%d release(s) found, latest %s", reg.ReleaseCount, reg.LatestVersion))

	age := now.Sub(reg.LatestUpload)
	results[entities.CheckR2] = verdict(age <= recentReleaseWindow, fmt.Sprintf(
		"latest release %s uploaded %s", reg.LatestVersion, reg.LatestUpload.Format("2006-01-02")))
	results[entities.CheckR3] = verdict(reg.ReleaseCount > 1, fmt.Sprintf(
		"%d release(s) published", reg.ReleaseCount))
	results[entities.CheckR4] = verdict(age <= yearlyReleaseWindow, fmt.Sprintf(
		"latest release is %d day(s) old", int(age.Hours()/24)))
	results[entities.CheckM1] = verdict(age <= activeReleaseWindow, fmt.Sprintf(
		"latest release is %d day(s) old", int(age.Hours()/24)))
	results[entities.CheckM2] = verdict(reg.ReleasesLast12mo >= minReleasesPerYear, fmt.Sprintf(
		"%d release(s) in the last 12 months", reg.ReleasesLast12mo))

	attested := 0
	for _, f := range reg.Files {
		if f.HasAttestations {
			attested++
		}
	}
	results[entities.CheckR6] = verdict(reg.AnyFileAttested, fmt.Sprintf(
		"%d of %d file(s) in release %s are attested", attested, len(reg.Files), reg.LatestVersion))
}

func addRepoChecks(results entities.Results, in CheckInput) {
	repo := in.Repo
	if repo == nil {
		repo = &entities.RepoSnapshot{}
	}

	// R5: changelog structure.
	switch {
	case repo.ChangelogPath == "":
		results[entities.CheckR5] = fail("no changelog found")
	case len(in.ChangelogErrors) > 0:
		results[entities.CheckR5] = fail(fmt.Sprintf("%s: %s",
			repo.ChangelogPath, summarizeChangelogErrors(in.ChangelogErrors)))
	default:
		results[entities.CheckR5] = pass(repo.ChangelogPath + " follows Keep a Changelog structure")
	}

	results[entities.CheckQ1] = verdict(len(repo.CIConfigs) > 0,
		fmt.Sprintf("%d CI configuration file(s) found", len(repo.CIConfigs)))
	results[entities.CheckQ2] = verdict(repo.MultiPythonCI,
		"CI matrix exercises multiple Python versions: "+yesNo(repo.MultiPythonCI))
	results[entities.CheckQ3] = verdict(repo.TestFileCount > 0,
		fmt.Sprintf("%d test file(s) found", repo.TestFileCount))

	if repo.SourceModuleCount == 0 {
		results[entities.CheckQ4] = fail("no source modules found")
	} else {
		ratio := float64(repo.TestFileCount) / float64(repo.SourceModuleCount)
		results[entities.CheckQ4] = verdict(ratio >= minTestToModuleRatio, fmt.Sprintf(
			"%d test file(s) for %d module(s) (ratio %.2f)",
			repo.TestFileCount, repo.SourceModuleCount, ratio))
	}

	if repo.TypeHintTotal == 0 {
		results[entities.CheckQ5] = fail("no public functions found to measure")
	} else {
		results[entities.CheckQ5] = verdict(repo.TypeHintCoverage >= minTypeHintCoverage,
			fmt.Sprintf("%.1f%% of %d public function(s) annotated",
				repo.TypeHintCoverage, repo.TypeHintTotal))
	}

	results[entities.CheckQ6] = governanceCheck(repo, "automation")
	results[entities.CheckQ7] = verdict(repo.HasDocs, "documentation directory or config: "+yesNo(repo.HasDocs))
	results[entities.CheckQ8] = in.Readme

	if repo.Pyproject == nil {
		results[entities.CheckQ9] = fail("no pyproject metadata")
	} else {
		results[entities.CheckQ9] = verdict(len(repo.Pyproject.URLs) > 0,
			fmt.Sprintf("%d project URL(s) declared", len(repo.Pyproject.URLs)))
	}

	results[entities.CheckS1] = governanceCheck(repo, "security")
	results[entities.CheckC1] = governanceCheck(repo, "contributing")
	results[entities.CheckC2] = governanceCheck(repo, "citation")
	results[entities.CheckC3] = governanceCheck(repo, "code_of_conduct")
	results[entities.CheckC4] = governanceCheck(repo, "templates")

	results[entities.CheckD1] = dependencyBoundsCheck(repo.Pyproject)

	results[entities.CheckCmpl1] = verdict(
		repo.ReadmePath != "" && strings.TrimSpace(repo.ReadmeContent) != "",
		readmeEvidence(repo))
	results[entities.CheckCmpl2] = governanceCheck(repo, "legal")
	results[entities.CheckCmpl3] = pyprojectCompletenessCheck(repo.Pyproject)
	results[entities.CheckCmpl4] = governanceCheck(repo, "release_notes")
}

var releasedVersionRe = regexp.MustCompile(`(?m)^##\s+\[\d`)

func addHygieneChecks(results entities.Results, in CheckInput) {
	repo := in.Repo
	if repo == nil {
		repo = &entities.RepoSnapshot{}
	}
	h := repo.Hygiene

	results[entities.CheckFail0] = clean("committed virtualenv", h.CommittedVenvs)
	results[entities.CheckFail1] = clean("committed __pycache__", h.CommittedCaches)
	results[entities.CheckFail2] = clean("committed egg-info", h.CommittedEggInfo)
	results[entities.CheckFail3] = clean("merge conflict markers", h.ConflictMarkers)
	results[entities.CheckFail4] = clean("zero-byte modules", h.ZeroByteModules)
	results[entities.CheckFail6] = clean("print-debugging in package code", h.PrintCalls)
	results[entities.CheckFail7] = clean("leftover debugger invocations", h.DebuggerCalls)
	results[entities.CheckFail8] = clean("hardcoded secret-looking literals", h.SecretLiterals)
	results[entities.CheckFail10] = clean("bare except clauses", h.BareExcepts)
	results[entities.CheckFail11] = clean("committed OS junk files", h.OSJunkFiles)

	// Fail5: wildcard dependency pins.
	var wildcards []string
	if repo.Pyproject != nil {
		for _, dep := range repo.Pyproject.Dependencies {
			if strings.Contains(dep, "*") {
				wildcards = append(wildcards, dep)
			}
		}
	}
	results[entities.CheckFail5] = clean("wildcard dependency pins", wildcards)

	// Fail9: setup.py without pyproject.toml.
	if repo.HasSetupPy && !repo.HasPyproject {
		results[entities.CheckFail9] = fail("setup.py present with no pyproject.toml")
	} else {
		results[entities.CheckFail9] = pass("metadata lives in pyproject.toml")
	}

	// Fail12: a changelog that never shipped anything. No changelog at
	// all is R5's problem, not a hygiene violation.
	if repo.ChangelogContent != "" && !releasedVersionRe.MatchString(repo.ChangelogContent) {
		results[entities.CheckFail12] = fail("changelog contains no released version entries")
	} else {
		results[entities.CheckFail12] = pass("no unreleased-only changelog")
	}
}

func governanceCheck(repo *entities.RepoSnapshot, category string) entities.CheckResult {
	files := repo.Governance[category]
	if len(files) == 0 {
		return fail("no " + category + " file found")
	}
	return pass(strings.Join(truncateList(files, 3), ", "))
}

func dependencyBoundsCheck(p *entities.Pyproject) entities.CheckResult {
	if p == nil {
		return fail("no pyproject metadata")
	}
	var unbounded []string
	for _, dep := range p.Dependencies {
		if !strings.ContainsAny(dep, "<>=~!") {
			unbounded = append(unbounded, dep)
		}
	}
	if len(unbounded) > 0 {
		return fail("unbounded specifier(s): " + strings.Join(truncateList(unbounded, 3), ", "))
	}
	return pass(fmt.Sprintf("all %d dependency specifier(s) are bounded", len(p.Dependencies)))
}

func pyprojectCompletenessCheck(p *entities.Pyproject) entities.CheckResult {
	if p == nil {
		return fail("no pyproject metadata")
	}
	var missing []string
	if p.Name == "" {
		missing = append(missing, "name")
	}
	if p.Version == "" {
		missing = append(missing, "version")
	}
	if p.Description == "" {
		missing = append(missing, "description")
	}
	if p.License == "" {
		missing = append(missing, "license")
	}
	if len(missing) > 0 {
		return fail("pyproject missing: " + strings.Join(missing, ", "))
	}
	return pass("pyproject declares name, version, description and license")
}

func summarizeChangelogErrors(errs []ChangelogError) string {
	msgs := make([]string, 0, 3)
	for _, e := range errs {
		msgs = append(msgs, fmt.Sprintf("line %d: %s", e.Line, e.Message))
		if len(msgs) == 3 {
			break
		}
	}
	suffix := ""
	if len(errs) > 3 {
		suffix = fmt.Sprintf(" (and %d more)", len(errs)-3)
	}
	return strings.Join(msgs, "; ") + suffix
}

func readmeEvidence(repo *entities.RepoSnapshot) string {
	if repo.ReadmePath == "" {
		return "no README found"
	}
	if strings.TrimSpace(repo.ReadmeContent) == "" {
		return repo.ReadmePath + " is empty"
	}
	return repo.ReadmePath
}

func truncateList(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	out := append([]string{}, items[:n]...)
	return append(out, fmt.Sprintf("and %d more", len(items)-n))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func pass(evidence string) entities.CheckResult {
	return entities.CheckResult{Passed: true, Evidence: evidence}
}

func fail(evidence string) entities.CheckResult {
	return entities.CheckResult{Passed: false, Evidence: evidence}
}

func verdict(ok bool, evidence string) entities.CheckResult {
	return entities.CheckResult{Passed: ok, Evidence: evidence}
}

func clean(what string, findings []string) entities.CheckResult {
	if len(findings) == 0 {
		return pass("no " + what)
	}
	return fail(what + ": " + strings.Join(truncateList(findings, 3), ", "))
}
