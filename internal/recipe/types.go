package recipe

import (
	"net/url"
	"strings"
)

// Ingredient is one entry of a recipe's ingredient list, split into its
// quantity, unit, and name parts. Quantity stays a string so fractions and
// ranges ("1/2", "2-3") survive round-tripping.
type Ingredient struct {
	Quantity string `json:"quantity,omitempty"`
	Unit     string `json:"unit,omitempty"`
	Name     string `json:"name"`
}

// String reassembles the ingredient into a single display line.
func (i Ingredient) String() string {
	parts := make([]string, 0, 3)
	if i.Quantity != "" {
		parts = append(parts, i.Quantity)
	}
	if i.Unit != "" {
		parts = append(parts, i.Unit)
	}
	if i.Name != "" {
		parts = append(parts, i.Name)
	}
	return strings.Join(parts, " ")
}

// Draft is the structure produced by extraction, LLM or heuristic. Every
// field is optional; the normalizer is responsible for repair.
type Draft struct {
	Title         string
	Description   string
	Ingredients   []Ingredient
	Instructions  []string
	TotalTime     string
	Yield         string
	SourceURL     string
	SourceCaption string
}

// Canonical is a draft with the publishing invariants enforced: non-empty
// title, non-empty ingredient and instruction lists, source URL present.
// Only the normalizer constructs these.
type Canonical struct {
	Title         string
	Description   string
	Ingredients   []Ingredient
	Instructions  []string
	TotalTime     string
	Yield         string
	SourceURL     string
	SourceCaption string
}

// Draft converts a canonical recipe back to draft shape, used by the
// normalizer's idempotence path and by tests.
func (c Canonical) Draft() *Draft {
	return &Draft{
		Title:         c.Title,
		Description:   c.Description,
		Ingredients:   c.Ingredients,
		Instructions:  c.Instructions,
		TotalTime:     c.TotalTime,
		Yield:         c.Yield,
		SourceURL:     c.SourceURL,
		SourceCaption: c.SourceCaption,
	}
}

// TitleFromSource derives a placeholder title from the caption's first line,
// falling back to the source URL's host.
func TitleFromSource(caption, sourceURL string) string {
	for _, line := range strings.Split(caption, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			const maxLen = 80
			if len(line) > maxLen {
				line = strings.TrimSpace(line[:maxLen]) + "..."
			}
			return line
		}
	}

	if u, err := url.Parse(sourceURL); err == nil && u.Host != "" {
		return "Recipe from " + strings.TrimPrefix(u.Host, "www.")
	}
	return "Recipe from social media video"
}
