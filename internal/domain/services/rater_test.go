package services

import (
	"context"
	"testing"

	"github.com/troml/dev-status/internal/domain/entities"
)

// fakeLLM records the IDs it was asked to assess and answers from a
// canned map (defaulting to pass).
type fakeLLM struct {
	askedIDs [][]string
	answers  map[string]entities.RubricStatus
	err      error
}

func (f *fakeLLM) AssessReadme(_ context.Context, _ string, ids []string) ([]entities.RubricItem, error) {
	f.askedIDs = append(f.askedIDs, ids)
	if f.err != nil {
		return nil, f.err
	}
	var out []entities.RubricItem
	for _, id := range ids {
		status := entities.RubricPass
		if s, ok := f.answers[id]; ok {
			status = s
		}
		out = append(out, entities.RubricItem{ID: id, Status: status, Advice: "ok"})
	}
	return out, nil
}

func TestRaterColdCacheAssessesEverything(t *testing.T) {
	llm := &fakeLLM{}
	rater := NewRater(llm, t.TempDir(), nil)

	rating, err := rater.RateReadme(context.Background(), "# my project\n", false)
	if err != nil {
		t.Fatalf("RateReadme failed: %v", err)
	}

	if len(llm.askedIDs) != 1 || len(llm.askedIDs[0]) != len(allRubricIDs()) {
		t.Fatalf("expected one full assessment, got %v", llm.askedIDs)
	}
	if rating.OverallScoreNumeric != 100 {
		t.Errorf("score = %d, want 100", rating.OverallScoreNumeric)
	}
	if rating.OverallScore != "Excellent" {
		t.Errorf("label = %q, want Excellent", rating.OverallScore)
	}
}

func TestRaterConvergenceReasksOnlyFailures(t *testing.T) {
	dir := t.TempDir()
	llm := &fakeLLM{answers: map[string]entities.RubricStatus{
		"HELLO_WORLD_EXAMPLE": entities.RubricFail,
	}}
	rater := NewRater(llm, dir, nil)

	content := "# my project\n"
	if _, err := rater.RateReadme(context.Background(), content, false); err != nil {
		t.Fatalf("first rating failed: %v", err)
	}

	// Second run on identical content: only the failed item goes back.
	llm.answers = nil
	if _, err := rater.RateReadme(context.Background(), content, false); err != nil {
		t.Fatalf("second rating failed: %v", err)
	}

	if len(llm.askedIDs) != 2 {
		t.Fatalf("expected two assessment calls, got %d", len(llm.askedIDs))
	}
	second := llm.askedIDs[1]
	if len(second) != 1 || second[0] != "HELLO_WORLD_EXAMPLE" {
		t.Errorf("second run asked %v, want only HELLO_WORLD_EXAMPLE", second)
	}
}

func TestRaterContentChangeInvalidatesCache(t *testing.T) {
	dir := t.TempDir()
	llm := &fakeLLM{}
	rater := NewRater(llm, dir, nil)

	if _, err := rater.RateReadme(context.Background(), "# v1\n", false); err != nil {
		t.Fatalf("first rating failed: %v", err)
	}
	if _, err := rater.RateReadme(context.Background(), "# v2\n", false); err != nil {
		t.Fatalf("second rating failed: %v", err)
	}

	if len(llm.askedIDs) != 2 {
		t.Fatalf("expected two calls, got %d", len(llm.askedIDs))
	}
	if len(llm.askedIDs[1]) != len(allRubricIDs()) {
		t.Errorf("changed content should re-assess everything, asked %v", llm.askedIDs[1])
	}
}

func TestRaterFullRefreshIgnoresCache(t *testing.T) {
	dir := t.TempDir()
	llm := &fakeLLM{}
	rater := NewRater(llm, dir, nil)

	content := "# stable\n"
	if _, err := rater.RateReadme(context.Background(), content, false); err != nil {
		t.Fatalf("first rating failed: %v", err)
	}
	if _, err := rater.RateReadme(context.Background(), content, true); err != nil {
		t.Fatalf("refresh rating failed: %v", err)
	}

	if len(llm.askedIDs[1]) != len(allRubricIDs()) {
		t.Errorf("full refresh should re-assess everything, asked %v", llm.askedIDs[1])
	}
}

func TestNormHashNormalizesLineEndings(t *testing.T) {
	a := NormHash("hello\nworld\n")
	b := NormHash("hello\r\nworld\r\n")
	c := NormHash("  hello\nworld  ")
	if a != b || a != c {
		t.Errorf("hashes differ: %s / %s / %s", a, b, c)
	}
	if len(a) == 0 || a[:7] != "sha256:" {
		t.Errorf("hash %q lacks sha256 prefix", a)
	}
	if a == NormHash("different") {
		t.Error("distinct content must not collide")
	}
}
