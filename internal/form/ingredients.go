package form

import (
	"math"
	"strconv"
	"strings"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/models"
)

const (
	defaultAmount = 1
	defaultUnit   = "piece"
)

// ParseIngredients reads one ingredient per non-blank line.
func ParseIngredients(text string) []models.Ingredient {
	lines := models.SplitLines(text)
	out := make([]models.Ingredient, 0, len(lines))
	for _, line := range lines {
		out = append(out, ParseIngredientLine(line))
	}
	return out
}

// ParseIngredientLine reads "name amount unit", where the name may contain
// spaces. "eggs 2" has no unit; a line without a number has no amount.
// Missing parts stay zero so validation can name them.
func ParseIngredientLine(line string) models.Ingredient {
	fields := strings.Fields(line)
	n := len(fields)
	switch {
	case n >= 3:
		if amount, ok := parseAmount(fields[n-2]); ok {
			return models.Ingredient{
				Name:   strings.Join(fields[:n-2], " "),
				Amount: amount,
				Unit:   fields[n-1],
			}
		}
		fallthrough
	case n == 2:
		if amount, ok := parseAmount(fields[n-1]); ok {
			return models.Ingredient{Name: strings.Join(fields[:n-1], " "), Amount: amount}
		}
	}
	return models.Ingredient{Name: strings.Join(fields, " ")}
}

// parseAmount accepts decimals and simple fractions like 1/2.
func parseAmount(s string) (float64, bool) {
	if num, den, isFrac := strings.Cut(s, "/"); isFrac {
		a, okA := parseFinite(num)
		b, okB := parseFinite(den)
		if !okA || !okB || b == 0 {
			return 0, false
		}
		return a / b, true
	}
	return parseFinite(s)
}

// parseFinite is strconv.ParseFloat without inf and NaN, which JSON cannot carry.
func parseFinite(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// FormatIngredient renders ing back as an editable line.
func FormatIngredient(ing models.Ingredient) string {
	parts := []string{ing.Name}
	if ing.Amount != 0 {
		parts = append(parts, formatFloat(ing.Amount))
	}
	if ing.Unit != "" {
		parts = append(parts, ing.Unit)
	}
	return strings.Join(parts, " ")
}

// AdminUpdate converts the form for the admin endpoint. It never fails:
// unparsable numbers fall back to prep/cook 0, one serving and zero
// nutrition, ingredients without amount or unit get 1 piece, and
// instructions become a list of non-blank lines.
func AdminUpdate(f RecipeForm) models.AdminRecipeUpdateRequest {
	ingredients := ParseIngredients(f.Ingredients)
	for i := range ingredients {
		if ingredients[i].Amount <= 0 {
			ingredients[i].Amount = defaultAmount
		}
		if ingredients[i].Unit == "" {
			ingredients[i].Unit = defaultUnit
		}
	}
	servings := intOr(f.Servings, 0)
	if servings <= 0 {
		servings = 1
	}
	instructions := models.SplitLines(f.Instructions)
	if instructions == nil {
		instructions = []string{}
	}
	return models.AdminRecipeUpdateRequest{
		Title:        strings.TrimSpace(f.Title),
		Description:  strings.TrimSpace(f.Description),
		Category:     models.Category(strings.TrimSpace(f.Category)),
		Published:    f.Published,
		Ingredients:  ingredients,
		Instructions: instructions,
		PrepTime:     intOr(f.PrepTime, 0),
		CookTime:     intOr(f.CookTime, 0),
		Servings:     servings,
		Nutrition: models.Nutrition{
			Calories: floatOr(f.Calories),
			Protein:  floatOr(f.Protein),
			Carbs:    floatOr(f.Carbs),
			Fat:      floatOr(f.Fat),
			Fiber:    floatOr(f.Fiber),
			Sugar:    floatOr(f.Sugar),
		},
	}
}

// intOr parses a leading integer the way a lenient form does: "15 min"
// reads as 15, garbage as def.
func intOr(s string, def int) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || (end == 0 && s[end] == '-')) {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return def
	}
	return n
}

func floatOr(s string) float64 {
	v, ok := parseFinite(strings.TrimSpace(s))
	if !ok {
		return 0
	}
	return v
}
