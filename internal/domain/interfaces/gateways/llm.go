package gateways

import (
	"context"

	"github.com/troml/dev-status/internal/domain/entities"
)

// LLMGateway assesses README content against rubric items using a
// language model. Implementations must be deterministic-leaning (low
// temperature) but callers still treat every response as advisory.
type LLMGateway interface {
	// AssessReadme evaluates the given rubric item IDs against the README
	// content and returns one RubricItem per assessed ID. An empty ID
	// list returns an empty slice without any remote call.
	AssessReadme(ctx context.Context, readmeContent string, ids []string) ([]entities.RubricItem, error)
}
