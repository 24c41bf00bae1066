package services

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/troml/dev-status/internal/domain/entities"
	"github.com/troml/dev-status/internal/domain/interfaces"
	"github.com/troml/dev-status/internal/domain/interfaces/gateways"
)

const stateFileName = "readme_rater.state.json"

// Rater scores README content against the rubric, converging on
// previously cached results: items that already passed for the same
// content hash are not re-assessed.
type Rater struct {
	llm      gateways.LLMGateway
	cacheDir string
	log      interfaces.Logger
}

// NewRater creates a Rater. cacheDir holds the convergence state file
// and is created on first save.
func NewRater(llm gateways.LLMGateway, cacheDir string, log interfaces.Logger) *Rater {
	if log == nil {
		log = &interfaces.NoOpLogger{}
	}
	return &Rater{llm: llm, cacheDir: cacheDir, log: log}
}

// RateReadme rates the given README content. fullRefresh ignores the
// cache and re-assesses every rubric item.
func (r *Rater) RateReadme(ctx context.Context, content string, fullRefresh bool) (*entities.Rating, error) {
	hash := NormHash(content)

	prev := r.loadState()
	if prev != nil && prev.ReadmeFileHash != hash {
		// Content changed; the old assessments no longer apply.
		prev = nil
	}
	if prev != nil && !fullRefresh {
		r.log.Info("README unchanged, reusing cached passing items")
	}

	idsToCheck := selectIDsForCheck(prev, fullRefresh)
	r.log.Debug("rubric items needing assessment", interfaces.F("count", len(idsToCheck)))

	var fresh []entities.RubricItem
	if len(idsToCheck) > 0 {
		var err error
		fresh, err = r.llm.AssessReadme(ctx, content, idsToCheck)
		if err != nil {
			return nil, fmt.Errorf("readme assessment failed: %w", err)
		}
	}

	// Merge: cached non-failing items first, fresh results override.
	merged := map[string]entities.RubricItem{}
	if prev != nil {
		for _, item := range prev.RubricResults {
			if item.Status != entities.RubricFail {
				merged[item.ID] = item
			}
		}
	}
	for _, item := range fresh {
		merged[item.ID] = item
	}

	var final []entities.RubricItem
	for _, id := range allRubricIDs() {
		if item, ok := merged[id]; ok {
			final = append(final, item)
		}
	}

	score := ComputeReadmeScore(final)
	now := time.Now().UTC().Format(time.RFC3339)

	if err := r.saveState(&entities.RaterState{
		ReadmeFileHash: hash,
		RubricResults:  final,
		Score:          score,
		Updated:        now,
	}); err != nil {
		// Cache failures degrade convergence, not correctness.
		r.log.Warn("failed to persist rater state", interfaces.F("error", err))
	}

	return &entities.Rating{
		OverallScore:        QualLabel(score),
		OverallScoreNumeric: score,
		LastCheckedUTC:      now,
		ReadmeFileHash:      hash,
		RubricResults:       final,
	}, nil
}

// selectIDsForCheck returns the rubric IDs that need a fresh
// assessment: all of them on a refresh or cold cache, otherwise only
// items that previously failed or were never assessed.
func selectIDsForCheck(prev *entities.RaterState, fullRefresh bool) []string {
	all := allRubricIDs()
	if fullRefresh || prev == nil {
		return all
	}

	prevByID := map[string]entities.RubricItem{}
	for _, item := range prev.RubricResults {
		prevByID[item.ID] = item
	}

	var out []string
	for _, id := range all {
		item, ok := prevByID[id]
		if !ok || item.Status == entities.RubricFail {
			out = append(out, id)
		}
	}
	return out
}

func (r *Rater) statePath() string {
	return filepath.Join(r.cacheDir, stateFileName)
}

func (r *Rater) loadState() *entities.RaterState {
	data, err := os.ReadFile(r.statePath())
	if err != nil {
		return nil
	}
	var state entities.RaterState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil
	}
	return &state
}

func (r *Rater) saveState(state *entities.RaterState) error {
	if err := os.MkdirAll(r.cacheDir, 0o750); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if err := os.WriteFile(r.statePath(), data, 0o600); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	return nil
}

// NormHash computes a normalized content hash: CRLF collapsed to LF
// and surrounding whitespace trimmed, so editor differences do not
// invalidate the cache.
func NormHash(content string) string {
	normalized := strings.TrimSpace(strings.ReplaceAll(content, "\r\n", "\n"))
	sum := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("sha256:%x", sum)
}
