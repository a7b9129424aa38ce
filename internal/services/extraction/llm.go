package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/ladlehq/ladle/internal/errors"
	"github.com/ladlehq/ladle/internal/httpclient"
	"github.com/ladlehq/ladle/internal/metrics"
	"github.com/ladlehq/ladle/internal/recipe"
	"github.com/ladlehq/ladle/internal/services/ai"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// LlamaProvider extracts structured recipes by calling a llama.cpp style
// OpenAI-compatible chat completions endpoint.
type LlamaProvider struct {
	serverURL string
	client    *http.Client
}

// NewLlamaProvider returns a provider that talks to serverURL with the given
// request timeout. The timeout bounds the full completion, not the dial.
func NewLlamaProvider(serverURL string, timeout time.Duration) *LlamaProvider {
	return &LlamaProvider{
		serverURL: strings.TrimRight(serverURL, "/"),
		client:    httpclient.NewInstrumentedClient(timeout),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages      []chatMessage `json:"messages"`
	Temperature   float64       `json:"temperature"`
	TopP          float64       `json:"top_p"`
	RepeatPenalty float64       `json:"repeat_penalty"`
	Stream        bool          `json:"stream"`
}

// Generate sends the caption and transcript to the model and parses the
// returned completion into a recipe draft. Every failure mode returns an
// extraction error so the caller can fall back to heuristic parsing.
func (p *LlamaProvider) Generate(ctx context.Context, caption, transcript, platform string) (*recipe.Draft, error) {
	startTime := time.Now()
	defer func() {
		duration := time.Since(startTime).Seconds()
		attrs := []attribute.KeyValue{attribute.String("provider", "llama")}
		if metrics.LLMExtractionDuration != nil {
			metrics.LLMExtractionDuration.Record(ctx, duration, metric.WithAttributes(attrs...))
		}
		if metrics.ExternalAPIDuration != nil {
			metrics.ExternalAPIDuration.Record(ctx, duration, metric.WithAttributes(attrs...))
		}
		if metrics.ExternalAPICallsTotal != nil {
			metrics.ExternalAPICallsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
		}
	}()

	req := chatRequest{
		Messages: []chatMessage{
			{Role: "system", Content: ai.BuildSystemPrompt(platform)},
			{Role: "user", Content: ai.BuildUserPrompt(caption, transcript)},
		},
		Temperature:   0.1,
		TopP:          0.1,
		RepeatPenalty: 1.2,
		Stream:        false,
	}

	body, _ := json.Marshal(req)
	httpReq, err := http.NewRequestWithContext(httpclient.WithProvider(ctx, "LLM"), "POST", p.serverURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewExtractionError("failed to build LLM request", "llm_request_failed", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, apperrors.NewExtractionError("LLM server unreachable", "llm_unreachable", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewExtractionError("failed to read LLM response", "llm_read_failed", err)
	}

	if resp.StatusCode >= 400 {
		return nil, apperrors.NewExtractionError(
			fmt.Sprintf("LLM server returned status %d", resp.StatusCode),
			"llm_http_error",
			fmt.Errorf("%s", strings.TrimSpace(string(respBody))),
		)
	}

	var chatResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, apperrors.NewExtractionError("malformed LLM response envelope", "llm_envelope_invalid", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, apperrors.NewExtractionError("LLM returned no choices", "llm_no_choices", nil)
	}

	draft, err := parseCompletion(chatResp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	return draft, nil
}

// llmRecipe tolerates both the prompted Mealie-style keys and the plainer
// aliases smaller models tend to emit.
type llmRecipe struct {
	Name         string
	Title        string
	Description  string
	RecipeYield  string
	Servings     string
	TotalTime    string
	Ingredients  []json.RawMessage
	Instructions []json.RawMessage
}

func (r *llmRecipe) UnmarshalJSON(data []byte) error {
	type alias struct {
		Name              string            `json:"name"`
		Title             string            `json:"title"`
		Description       string            `json:"description"`
		RecipeYield       string            `json:"recipeYield"`
		Servings          string            `json:"servings"`
		TotalTime         string            `json:"totalTime"`
		RecipeIngredient  []json.RawMessage `json:"recipeIngredient"`
		IngredientsAlias  []json.RawMessage `json:"ingredients"`
		RecipeInstruction []json.RawMessage `json:"recipeInstructions"`
		InstructionsAlias []json.RawMessage `json:"instructions"`
	}
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	r.Name = a.Name
	r.Title = a.Title
	r.Description = a.Description
	r.RecipeYield = a.RecipeYield
	r.Servings = a.Servings
	r.TotalTime = a.TotalTime
	r.Ingredients = a.RecipeIngredient
	if len(r.Ingredients) == 0 {
		r.Ingredients = a.IngredientsAlias
	}
	r.Instructions = a.RecipeInstruction
	if len(r.Instructions) == 0 {
		r.Instructions = a.InstructionsAlias
	}
	return nil
}

// parseCompletion turns raw model output into a draft. It strips markdown
// fences and smart quotes, then isolates the outermost JSON object before
// unmarshalling, since small models wrap JSON in prose despite instructions.
func parseCompletion(content string) (*recipe.Draft, error) {
	cleaned := extractJSON(content)
	if cleaned == "" {
		return nil, apperrors.NewExtractionError("no JSON object in LLM output", "llm_no_json", nil)
	}

	var raw llmRecipe
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, apperrors.NewExtractionError("invalid JSON in LLM output", "llm_json_invalid", err)
	}

	draft := &recipe.Draft{
		Title:       firstNonEmpty(raw.Name, raw.Title),
		Description: raw.Description,
		TotalTime:   raw.TotalTime,
		Yield:       firstNonEmpty(raw.RecipeYield, raw.Servings),
	}

	for _, ing := range raw.Ingredients {
		var line string
		if err := json.Unmarshal(ing, &line); err != nil {
			return nil, apperrors.NewExtractionError("ingredient entry is not a string", "llm_bad_ingredient", err)
		}
		if line = strings.TrimSpace(line); line != "" {
			draft.Ingredients = append(draft.Ingredients, recipe.ParseIngredient(line))
		}
	}

	for _, ins := range raw.Instructions {
		step, err := instructionText(ins)
		if err != nil {
			return nil, err
		}
		if step != "" {
			draft.Instructions = append(draft.Instructions, step)
		}
	}

	if len(draft.Ingredients) == 0 && len(draft.Instructions) == 0 {
		return nil, apperrors.NewExtractionError("LLM output has neither ingredients nor instructions", "llm_empty_recipe", nil)
	}
	return draft, nil
}

// instructionText accepts either a plain string or a {"text": ...} object.
func instructionText(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s), nil
	}
	var obj struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", apperrors.NewExtractionError("instruction entry has unsupported shape", "llm_bad_instruction", err)
	}
	return strings.TrimSpace(obj.Text), nil
}

var smartQuoteReplacer = strings.NewReplacer(
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
)

// extractJSON returns the outermost {...} window of content after removing
// markdown code fences and smart quotes. Returns "" when no braces exist.
func extractJSON(content string) string {
	cleaned := strings.ReplaceAll(content, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = smartQuoteReplacer.Replace(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return cleaned[start : end+1]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
