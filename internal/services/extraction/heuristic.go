package extraction

import (
	"regexp"
	"strings"

	"github.com/ladlehq/ladle/internal/recipe"
)

// HeuristicParser builds a best-effort draft from raw text when the LLM path
// is unavailable. It never fails; the worst case is an empty draft that the
// normalizer fills with placeholders.
type HeuristicParser struct{}

func NewHeuristicParser() *HeuristicParser {
	return &HeuristicParser{}
}

var (
	ingredientCue  = regexp.MustCompile(`(?i)\bingredients?\b\s*:?`)
	instructionCue = regexp.MustCompile(`(?i)\b(?:instructions?|directions?|method|steps)\b\s*:?`)
	numberedStep   = regexp.MustCompile(`(?m)^\s*\d+[.)]\s+`)
	digitPattern   = regexp.MustCompile(`\d`)
)

// Parse extracts a draft from the combined caption and transcript text.
// When section headers like "Ingredients:" and "Instructions:" are present
// the text between them is parsed structurally; otherwise every sentence is
// classified by whether it carries a quantity.
func (p *HeuristicParser) Parse(text string) *recipe.Draft {
	draft := &recipe.Draft{}
	if strings.TrimSpace(text) == "" {
		return draft
	}

	ingLoc := ingredientCue.FindStringIndex(text)
	insLoc := instructionCue.FindStringIndex(text)

	switch {
	case ingLoc != nil && insLoc != nil && ingLoc[1] <= insLoc[0]:
		draft.Ingredients = parseIngredientSection(text[ingLoc[1]:insLoc[0]])
		draft.Instructions = parseInstructionSection(text[insLoc[1]:])
	case ingLoc != nil && insLoc == nil:
		draft.Ingredients = parseIngredientSection(text[ingLoc[1]:])
	case insLoc != nil && ingLoc == nil:
		draft.Instructions = parseInstructionSection(text[insLoc[1]:])
	default:
		draft.Ingredients, draft.Instructions = classifySentences(text)
	}

	return draft
}

// parseIngredientSection splits an ingredient block on newlines and commas,
// stripping list markers and trailing sentence periods.
func parseIngredientSection(section string) []recipe.Ingredient {
	var out []recipe.Ingredient
	for _, line := range strings.FieldsFunc(section, func(r rune) bool {
		return r == '\n' || r == ','
	}) {
		line = trimListMarker(line)
		if line == "" {
			continue
		}
		out = append(out, recipe.ParseIngredient(line))
	}
	return out
}

// parseInstructionSection splits an instruction block into steps, preferring
// explicit numbering, then line breaks, then sentence boundaries.
func parseInstructionSection(section string) []string {
	section = strings.TrimSpace(section)
	if section == "" {
		return nil
	}

	var parts []string
	switch {
	case numberedStep.MatchString(section):
		parts = numberedStep.Split(section, -1)
	case strings.Contains(section, "\n"):
		parts = strings.Split(section, "\n")
	default:
		parts = splitSentences(section)
	}

	var out []string
	for _, part := range parts {
		if part = trimListMarker(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// classifySentences implements the cueless fallback: sentences containing a
// digit read like quantities and become ingredients, the rest instructions.
func classifySentences(text string) ([]recipe.Ingredient, []string) {
	var ingredients []recipe.Ingredient
	var instructions []string

	for _, sentence := range splitSentences(text) {
		if sentence == "" {
			continue
		}
		if digitPattern.MatchString(sentence) {
			ingredients = append(ingredients, recipe.ParseIngredient(sentence))
		} else {
			instructions = append(instructions, sentence)
		}
	}
	return ingredients, instructions
}

func splitSentences(text string) []string {
	var out []string
	for _, s := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '\n'
	}) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// trimListMarker strips bullets, dashes and trailing periods from a list item.
func trimListMarker(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "-*•")
	s = strings.TrimSuffix(strings.TrimSpace(s), ".")
	return strings.TrimSpace(s)
}
