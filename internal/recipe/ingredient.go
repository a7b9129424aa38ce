package recipe

import (
	"regexp"
	"strings"
)

// knownUnits covers the measurements that show up in social media recipes,
// imperial and metric. Matching is case-insensitive on the singular form.
var knownUnits = map[string]bool{
	"cup": true, "cups": true,
	"tablespoon": true, "tablespoons": true, "tbsp": true,
	"teaspoon": true, "teaspoons": true, "tsp": true,
	"ounce": true, "ounces": true, "oz": true,
	"pound": true, "pounds": true, "lb": true, "lbs": true,
	"gram": true, "grams": true, "g": true, "kg": true, "mg": true,
	"ml": true, "l": true, "liter": true, "liters": true,
	"pinch": true, "dash": true, "clove": true, "cloves": true,
	"slice": true, "slices": true, "piece": true, "pieces": true,
	"can": true, "cans": true, "stick": true, "sticks": true,
	"bunch": true, "handful": true, "sprig": true, "sprigs": true,
}

// quantityPattern matches a leading amount: integers, decimals, fractions,
// ranges, and unicode fraction glyphs.
var quantityPattern = regexp.MustCompile(`^((?:\d+\s+)?\d+(?:[./,]\d+)?(?:\s*-\s*\d+(?:[./,]\d+)?)?|[½⅓⅔¼¾⅛])`)

// ParseIngredient splits a free-text ingredient line like "2 cups flour"
// into quantity, unit, and name. Lines without a leading quantity become a
// bare name. The parse never fails; a best-effort split is always returned.
func ParseIngredient(line string) Ingredient {
	line = strings.TrimSpace(line)
	if line == "" {
		return Ingredient{}
	}

	quantity := quantityPattern.FindString(line)
	rest := strings.TrimSpace(line[len(quantity):])
	quantity = strings.TrimSpace(quantity)

	if quantity == "" {
		return Ingredient{Name: line}
	}

	fields := strings.Fields(rest)
	if len(fields) > 1 && knownUnits[strings.ToLower(fields[0])] {
		return Ingredient{
			Quantity: quantity,
			Unit:     fields[0],
			Name:     strings.TrimSpace(strings.Join(fields[1:], " ")),
		}
	}

	return Ingredient{Quantity: quantity, Name: rest}
}
