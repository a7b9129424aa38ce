package extraction

import (
	"context"

	"github.com/ladlehq/ladle/internal/recipe"
)

// Provider defines the interface for structured recipe extraction from a
// caption and transcript. Implementations may fail; callers that need the
// never-fails guarantee wrap a Provider in a FallbackExtractor.
type Provider interface {
	Generate(ctx context.Context, caption, transcript, platform string) (*recipe.Draft, error)
}

// Source identifies which path produced a draft.
type Source string

const (
	SourceLLM       Source = "llm"
	SourceHeuristic Source = "heuristic"
)

// Result is the tagged outcome of extraction: the draft plus the path that
// produced it.
type Result struct {
	Draft  *recipe.Draft
	Source Source
}
