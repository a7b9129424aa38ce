package recipe

import (
	"strings"
	"unicode"
)

// PlaceholderIngredient and PlaceholderInstruction fill otherwise-empty
// lists so downstream publishing never receives an empty array.
const (
	PlaceholderIngredient  = "See transcription"
	PlaceholderInstruction = "See the original video for instructions"
)

// transcriptionFixes maps frequent speech-to-text misspellings of cooking
// vocabulary to their correct forms. Lookup is lowercase; the replacement
// preserves the original word's capitalization.
var transcriptionFixes = map[string]string{
	"flower":    "flour",
	"suger":     "sugar",
	"shugar":    "sugar",
	"chiken":    "chicken",
	"chicke":    "chicken",
	"tumeric":   "turmeric",
	"garlick":   "garlic",
	"onyon":     "onion",
	"buter":     "butter",
	"ciniman":   "cinnamon",
	"cinamon":   "cinnamon",
	"vanila":    "vanilla",
	"brocoli":   "broccoli",
	"zuccini":   "zucchini",
	"parmesean": "parmesan",
	"parmasan":  "parmesan",
	"mozarella": "mozzarella",
	"sautee":    "saute",
	"marinaid":  "marinade",
	"cillantro": "cilantro",
	"corriander": "coriander",
	"expresso":   "espresso",
}

// Normalizer repairs extraction drafts into canonical recipes. The zero
// value is not usable; construct with NewNormalizer.
type Normalizer struct {
	fixes map[string]string
}

// NewNormalizer returns a Normalizer with the builtin correction dictionary.
func NewNormalizer() *Normalizer {
	return &Normalizer{fixes: transcriptionFixes}
}

// Normalize validates and repairs a draft into a Canonical recipe. It never
// fails: empty or garbage input yields a sparse but invariant-satisfying
// recipe. Normalize is idempotent: feeding its output back in produces an
// identical result.
func (n *Normalizer) Normalize(d *Draft) Canonical {
	if d == nil {
		d = &Draft{}
	}

	c := Canonical{
		Title:         strings.TrimSpace(d.Title),
		Description:   strings.TrimSpace(d.Description),
		TotalTime:     strings.TrimSpace(d.TotalTime),
		Yield:         strings.TrimSpace(d.Yield),
		SourceURL:     strings.TrimSpace(d.SourceURL),
		SourceCaption: d.SourceCaption,
	}

	if c.Title == "" {
		c.Title = TitleFromSource(d.SourceCaption, d.SourceURL)
	}

	c.Ingredients = n.normalizeIngredients(d.Ingredients)
	c.Instructions = n.normalizeInstructions(d.Instructions)

	return c
}

func (n *Normalizer) normalizeIngredients(in []Ingredient) []Ingredient {
	out := make([]Ingredient, 0, len(in))
	seen := make(map[string]bool, len(in))

	for _, ing := range in {
		ing.Quantity = strings.TrimSpace(ing.Quantity)
		ing.Unit = strings.TrimSpace(ing.Unit)
		ing.Name = n.correctText(collapseSpaces(ing.Name))

		key := strings.ToLower(ing.String())
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, ing)
	}

	if len(out) == 0 {
		out = append(out, Ingredient{Name: PlaceholderIngredient})
	}
	return out
}

func (n *Normalizer) normalizeInstructions(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))

	for _, step := range in {
		step = n.correctText(collapseSpaces(step))

		key := strings.ToLower(step)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, step)
	}

	if len(out) == 0 {
		out = append(out, PlaceholderInstruction)
	}
	return out
}

// correctText applies the misspelling dictionary word by word, preserving
// the original capitalization and trailing punctuation of each word.
func (n *Normalizer) correctText(text string) string {
	if text == "" {
		return ""
	}

	words := strings.Fields(text)
	for i, word := range words {
		core := strings.TrimFunc(word, unicode.IsPunct)
		if core == "" {
			continue
		}

		fix, ok := n.fixes[strings.ToLower(core)]
		if !ok || strings.EqualFold(core, fix) {
			continue
		}

		if isCapitalized(core) {
			fix = capitalize(fix)
		}
		words[i] = strings.Replace(word, core, fix, 1)
	}
	return strings.Join(words, " ")
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isCapitalized(s string) bool {
	r := []rune(s)
	return len(r) > 0 && unicode.IsUpper(r[0])
}

func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
