package mealie

import (
	"github.com/ladlehq/ladle/internal/recipe"
)

// RecipePayload is the Mealie recipe schema subset the service writes.
type RecipePayload struct {
	Name               string        `json:"name"`
	Description        string        `json:"description,omitempty"`
	RecipeYield        string        `json:"recipeYield,omitempty"`
	TotalTime          string        `json:"totalTime,omitempty"`
	RecipeIngredient   []string      `json:"recipeIngredient"`
	RecipeInstructions []Instruction `json:"recipeInstructions"`
	OrgURL             string        `json:"orgURL,omitempty"`
}

type Instruction struct {
	Text string `json:"text"`
}

const captionHeading = "**[ORIGINAL CAPTION]**"

// BuildPayload converts a canonical recipe into the Mealie schema. The
// original caption is appended to the description so it survives inside
// Mealie even when extraction missed details.
func BuildPayload(c recipe.Canonical) RecipePayload {
	p := RecipePayload{
		Name:        c.Title,
		Description: c.Description,
		RecipeYield: c.Yield,
		TotalTime:   c.TotalTime,
		OrgURL:      c.SourceURL,
	}

	for _, ing := range c.Ingredients {
		p.RecipeIngredient = append(p.RecipeIngredient, ing.String())
	}
	for _, step := range c.Instructions {
		p.RecipeInstructions = append(p.RecipeInstructions, Instruction{Text: step})
	}

	if c.SourceCaption != "" {
		p.Description += "\n\n" + captionHeading + "\n" + c.SourceCaption
	}

	return p
}
