package gateways

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/troml/dev-status/internal/domain/entities"
	"github.com/troml/dev-status/internal/domain/interfaces"
	"github.com/troml/dev-status/internal/domain/services"
)

// OpenAIGateway talks to an OpenAI-compatible chat completions endpoint
// to assess README content against rubric items.
type OpenAIGateway struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	log     interfaces.Logger
}

// NewOpenAIGateway creates an LLM gateway. baseURL is the API root,
// e.g. https://openrouter.ai/api/v1.
func NewOpenAIGateway(baseURL, apiKey, model string, log interfaces.Logger) *OpenAIGateway {
	if log == nil {
		log = &interfaces.NoOpLogger{}
	}
	return &OpenAIGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client: &http.Client{
			Timeout: 2 * time.Minute,
		},
		log: log,
	}
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// AssessReadme evaluates the given rubric IDs against the README. An
// empty ID list short-circuits without a remote call.
func (g *OpenAIGateway) AssessReadme(ctx context.Context, readmeContent string, ids []string) ([]entities.RubricItem, error) {
	if len(ids) == 0 {
		return []entities.RubricItem{}, nil
	}
	if g.apiKey == "" {
		return nil, fmt.Errorf("LLM API key is not configured")
	}

	reqBody := chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt()},
			{Role: "user", Content: userPrompt(readmeContent, ids)},
		},
		// Low temperature keeps assessments close to deterministic.
		Temperature:    0.1,
		ResponseFormat: &respFormat{Type: "json_object"},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	g.log.Debug("assessing rubric items", interfaces.F("count", len(ids)), interfaces.F("model", g.model))

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("LLM request failed: %w", err)
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read LLM response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("LLM API returned status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var chat chatResponse
	if err := json.Unmarshal(respBody, &chat); err != nil {
		return nil, fmt.Errorf("failed to decode LLM response: %w", err)
	}
	if len(chat.Choices) == 0 || chat.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("LLM returned an empty response")
	}

	return parseRubricItems(chat.Choices[0].Message.Content)
}

// parseRubricItems decodes the model's JSON. The prompt asks for an
// array, but some models wrap it in a single root key; unwrap that case.
func parseRubricItems(content string) ([]entities.RubricItem, error) {
	var items []entities.RubricItem
	if err := json.Unmarshal([]byte(content), &items); err == nil {
		return items, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &wrapper); err != nil {
		return nil, fmt.Errorf("LLM response is not valid JSON: %w", err)
	}
	if len(wrapper) != 1 {
		return nil, fmt.Errorf("LLM response is not a JSON array or a simple wrapper")
	}
	for _, raw := range wrapper {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("LLM wrapper value is not an array: %w", err)
		}
		return items, nil
	}
	return nil, fmt.Errorf("LLM response is not a JSON array or a simple wrapper")
}

func systemPrompt() string {
	return `You are an expert technical documentation reviewer for Python projects.
Your task is to evaluate a project's README.md file based on a specific set of criteria.

You will be given the full content of the README.md and a list of rubric items to assess.
For each rubric item, you must determine if the README successfully meets the goal.

Your response MUST be a JSON array of objects with fields "id", "status" and "advice".

- The 'id' must be one of the rubric IDs you were asked to assess.
- The 'status' must be 'pass', 'fail', or 'na' (not applicable).
- The 'advice' must be a concise, one-sentence recommendation for how the author can improve that specific rubric item. If the status is 'pass', provide a brief confirmation.

Evaluate each item independently and critically. Be strict but fair.`
}

func userPrompt(readmeContent string, ids []string) string {
	var b strings.Builder
	b.WriteString("Please evaluate the following README.md file.\n\nREADME CONTENT:\n---\n")
	b.WriteString(readmeContent)
	b.WriteString("\n---\n\nRUBRIC ITEMS TO ASSESS:\n")
	for _, id := range ids {
		desc := services.RubricDescriptions[id]
		if desc == "" {
			desc = "No description available."
		}
		fmt.Fprintf(&b, "- %s: %s\n", id, desc)
	}
	b.WriteString("\nProvide your evaluation as a JSON array of objects.")
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
