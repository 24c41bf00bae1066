// Package orchestrators coordinates complex workflows across multiple domain services.
package orchestrators

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/troml/dev-status/internal/domain/entities"
	"github.com/troml/dev-status/internal/domain/interfaces"
	"github.com/troml/dev-status/internal/domain/interfaces/gateways"
	"github.com/troml/dev-status/internal/domain/services"
)

// RepoScanner builds a snapshot of a project directory.
type RepoScanner interface {
	Scan(root string) (*entities.RepoSnapshot, entities.ProjectConfig, error)
}

// ReadmeRater scores README content against the rubric.
type ReadmeRater interface {
	RateReadme(ctx context.Context, content string, fullRefresh bool) (*entities.Rating, error)
}

// AnalyzeOrchestrator runs the full analysis workflow: scan the repo,
// query the registry, validate the changelog, rate the README, evaluate
// the check vocabulary and classify.
type AnalyzeOrchestrator struct {
	scanner  RepoScanner
	registry gateways.RegistryGateway
	rater    ReadmeRater
	settings entities.Settings
	log      interfaces.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewAnalyzeOrchestrator creates the orchestrator. rater may be nil when
// no LLM is configured; Q8 then degrades per the project's use_ai flag.
func NewAnalyzeOrchestrator(
	scanner RepoScanner,
	registry gateways.RegistryGateway,
	rater ReadmeRater,
	settings entities.Settings,
	log interfaces.Logger,
) *AnalyzeOrchestrator {
	if log == nil {
		log = &interfaces.NoOpLogger{}
	}
	return &AnalyzeOrchestrator{
		scanner:  scanner,
		registry: registry,
		rater:    rater,
		settings: settings,
		log:      log,
		now:      time.Now,
	}
}

// AnalyzeRequest are the per-run options.
type AnalyzeRequest struct {
	Path string

	// Project overrides the registry project name; default is the
	// pyproject name, then the directory basename.
	Project string

	VenvMode bool
	Explain  bool
}

// Analyze runs the workflow and assembles the report.
func (o *AnalyzeOrchestrator) Analyze(ctx context.Context, req AnalyzeRequest) (*entities.Report, error) {
	snap, cfg, err := o.scanner.Scan(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to scan repository: %w", err)
	}

	project := req.Project
	if project == "" && snap.Pyproject != nil {
		project = snap.Pyproject.Name
	}
	if project == "" {
		project = filepath.Base(snap.Root)
	}

	o.log.Info("analyzing project", interfaces.F("project", project), interfaces.F("path", req.Path))

	reg, regErr := o.registry.Snapshot(ctx, project)
	if regErr != nil {
		// Registry trouble fails the registry-backed checks; the rest of
		// the analysis still runs.
		o.log.Warn("registry lookup failed", interfaces.F("error", regErr.Error()))
	}

	var changelogErrs []services.ChangelogError
	if snap.ChangelogContent != "" {
		changelogErrs = services.NewChangelogValidator(snap.ChangelogPath).Validate(snap.ChangelogContent)
	}

	readme, rating := o.assessReadme(ctx, snap, cfg)

	results := services.BuildResults(services.CheckInput{
		Repo:            snap,
		Registry:        reg,
		RegistryErr:     regErr,
		ChangelogErrors: changelogErrs,
		Readme:          readme,
		Config:          cfg,
		Now:             o.now(),
	})

	metrics := entities.Metrics{
		"test_files":         float64(snap.TestFileCount),
		"source_modules":     float64(snap.SourceModuleCount),
		"type_hint_coverage": snap.TypeHintCoverage,
	}
	if rating != nil {
		metrics["readme_score"] = float64(rating.OverallScoreNumeric)
	}

	classification := services.Classify(results, metrics, services.ClassifyOptions{
		VenvMode: req.VenvMode || o.settings.VenvMode,
		Explain:  req.Explain,
	})

	report := &entities.Report{
		Project:     project,
		Path:        req.Path,
		Classifier:  classification.Status.Classifier(),
		Reason:      classification.Reason,
		Checks:      results,
		Metrics:     metrics,
		Explanation: classification.Explanation,
	}
	if reg != nil && reg.Found {
		report.LatestVersion = reg.LatestVersion
	}

	o.log.Info("classification complete", interfaces.F("classifier", report.Classifier))
	return report, nil
}

// RateReadme runs the standalone README rating workflow for a project
// directory.
func (o *AnalyzeOrchestrator) RateReadme(ctx context.Context, path string) (*entities.Rating, error) {
	snap, _, err := o.scanner.Scan(path)
	if err != nil {
		return nil, fmt.Errorf("failed to scan repository: %w", err)
	}
	if snap.ReadmePath == "" {
		return nil, fmt.Errorf("no README found in %s", path)
	}
	if o.rater == nil {
		return nil, fmt.Errorf("no LLM is configured; set OPENROUTER_API_KEY or OPENAI_API_KEY")
	}
	return o.rater.RateReadme(ctx, snap.ReadmeContent, o.settings.FullRefresh)
}

// assessReadme produces the README quality check outcome. The rater owns
// its own failure semantics: strict mode turns LLM trouble into a
// failed check, non-strict degrades to a pass with a note.
func (o *AnalyzeOrchestrator) assessReadme(ctx context.Context, snap *entities.RepoSnapshot, cfg entities.ProjectConfig) (entities.CheckResult, *entities.Rating) {
	if snap.ReadmePath == "" {
		return entities.CheckResult{Passed: false, Evidence: "no README found"}, nil
	}
	if strings.TrimSpace(snap.ReadmeContent) == "" {
		return entities.CheckResult{Passed: false, Evidence: snap.ReadmePath + " is empty"}, nil
	}
	if !cfg.UseAI || o.rater == nil {
		return entities.CheckResult{Passed: true, Evidence: "README present; AI assessment disabled"}, nil
	}

	rating, err := o.rater.RateReadme(ctx, snap.ReadmeContent, o.settings.FullRefresh)
	if err != nil {
		o.log.Warn("README assessment failed", interfaces.F("error", err.Error()))
		if o.settings.Strict {
			return entities.CheckResult{Passed: false, Evidence: "README assessment failed: " + err.Error()}, nil
		}
		return entities.CheckResult{Passed: true, Evidence: "README present; assessment unavailable"}, nil
	}

	evidence := fmt.Sprintf("README scored %d/100 (%s)", rating.OverallScoreNumeric, rating.OverallScore)
	passed := rating.OverallScoreNumeric >= o.settings.MinReadmeScore
	return entities.CheckResult{Passed: passed, Evidence: evidence}, rating
}
