// internal/generate/client.go
//
// OpenAI-backed Generator. Speaks the chat completions REST API directly
// with a strict JSON schema response format, so the model can only answer
// with a well-formed puzzle document.

package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
)

const systemPrompt = "You create word-group puzzles like NYT Connections. Output ONLY compact JSON. No prose."

// Client calls an OpenAI-compatible chat completions endpoint.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
}

// NewClient builds a Client. baseURL and model fall back to the OpenAI
// defaults when empty.
func NewClient(apiKey, baseURL, model string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// Generate fills the requested puzzle slots. Category and word counts are
// clamped to sane bounds before prompting.
func (c *Client) Generate(ctx context.Context, req Request) (*Response, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("generate: api key missing")
	}

	cc := clamp(req.CategoryCount, 1, 12, 4)
	wc := clamp(req.WordCount, 2, 12, 4)

	body := map[string]any{
		"model":       c.model,
		"temperature": 0.7,
		"response_format": map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   "Puzzle",
				"strict": true,
				"schema": puzzleSchema(req.Mode, cc, wc),
			},
		},
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt(req, cc, wc)},
		},
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("generate: request failed: %w", err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("generate: upstream status %d: %s", resp.StatusCode, truncate(payload, 200))
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(payload, &completion); err != nil {
		return nil, fmt.Errorf("generate: decode completion: %w", err)
	}
	content := "{}"
	if len(completion.Choices) > 0 {
		content = completion.Choices[0].Message.Content
	}

	var parsed Response
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		// model violated the contract; hand back an empty, typed result
		parsed = Response{}
	}
	if parsed.Title == "" {
		parsed.Title = req.Title
	}
	for i := range parsed.Categories {
		if len(parsed.Categories[i].Words) > wc {
			parsed.Categories[i].Words = parsed.Categories[i].Words[:wc]
		}
	}
	return &parsed, nil
}

// userPrompt flattens the request into instruction lines for the model.
func userPrompt(req Request, cc, wc int) string {
	title := req.Title
	if title == "" {
		title = "Untitled"
	}
	var lines []string
	lines = append(lines,
		fmt.Sprintf("Puzzle title: %s", title),
		fmt.Sprintf("Category count: %d | Words per category: %d", cc, wc),
		fmt.Sprintf("Mode: %s", req.Mode),
	)
	if req.Mode == ModeSingle && req.TargetIndex > -1 && req.TargetIndex < len(req.Categories) {
		c := req.Categories[req.TargetIndex]
		lines = append(lines,
			fmt.Sprintf("Target category index: %d", req.TargetIndex),
			fmt.Sprintf("Target category name: %s", nameOr(c.Name)),
			fmt.Sprintf("Seed words: %s", seedsOr(c.SeedWords)),
			fmt.Sprintf("Need: %d", c.Need),
		)
	} else {
		lines = append(lines, "Input categories (index, name, seedWords, need):")
		for i, c := range req.Categories {
			lines = append(lines, fmt.Sprintf("%d. name=%q | seed=[%s] | need=%d",
				i, nameOr(c.Name), strings.Join(c.SeedWords, ", "), c.Need))
		}
	}
	lines = append(lines,
		"Rules:",
		"- Use short, concrete words/phrases (1-3 words each).",
		"- No profanity/offensive content.",
		"- Keep words within a category tightly related to its name.",
		"- Avoid near-duplicates within the same category.",
		"- For missing-fill, keep existing seed words and add distinct new ones to reach the required length.",
	)
	return strings.Join(lines, "\n")
}

// puzzleSchema is the strict response schema: every property key must be
// listed in required for the API to accept strict mode.
func puzzleSchema(mode Mode, cc, wc int) map[string]any {
	minCats, maxCats := cc, cc
	if mode == ModeSingle {
		minCats, maxCats = 1, 1
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{"type": "string"},
			"categories": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name":  map[string]any{"type": "string"},
						"words": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "minItems": wc, "maxItems": wc},
					},
					"required":             []string{"name", "words"},
					"additionalProperties": false,
				},
				"minItems": minCats,
				"maxItems": maxCats,
			},
		},
		"required":             []string{"title", "categories"},
		"additionalProperties": false,
	}
}

func nameOr(s string) string {
	if s == "" {
		return "Untitled"
	}
	return s
}

func seedsOr(seeds []string) string {
	if len(seeds) == 0 {
		return "none"
	}
	return strings.Join(seeds, ", ")
}

func clamp(n, lo, hi, def int) int {
	if n == 0 {
		n = def
	}
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
