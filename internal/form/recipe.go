// Package form turns what an author typed into a recipe request, and checks
// it before anything is sent: required fields, positive numbers, a known
// category and well-formed ingredient lines.
package form

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/models"
)

// Field keys used in FieldErrors.
const (
	FieldTitle        = "title"
	FieldDescription  = "description"
	FieldInstructions = "instructions"
	FieldPrepTime     = "prepTime"
	FieldCookTime     = "cookTime"
	FieldServings     = "servings"
	FieldCategory     = "category"
	FieldIngredients  = "ingredients"
	FieldCalories     = "calories"
	FieldProtein      = "protein"
	FieldCarbs        = "carbs"
	FieldFat          = "fat"
	FieldFiber        = "fiber"
	FieldSugar        = "sugar"
)

var labels = map[string]string{
	FieldTitle:        "Title",
	FieldDescription:  "Description",
	FieldInstructions: "Instructions",
	FieldPrepTime:     "Prep time",
	FieldCookTime:     "Cook time",
	FieldServings:     "Servings",
	FieldCategory:     "Category",
	FieldIngredients:  "Ingredients",
	FieldCalories:     "Calories",
	FieldProtein:      "Protein",
	FieldCarbs:        "Carbs",
	FieldFat:          "Fat",
	FieldFiber:        "Fiber",
	FieldSugar:        "Sugar",
}

// RecipeForm is the raw text of the add/edit screen. Ingredients holds one
// "name amount unit" line per ingredient.
type RecipeForm struct {
	Title        string
	Description  string
	Instructions string
	PrepTime     string
	CookTime     string
	Servings     string
	Category     string
	Ingredients  string
	Calories     string
	Protein      string
	Carbs        string
	Fat          string
	Fiber        string
	Sugar        string
	Published    bool
}

// FieldErrors maps a field key to its message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e[k])
	}
	return strings.Join(parts, "; ")
}

// Field returns the message for key, or "".
func (e FieldErrors) Field(key string) string { return e[key] }

func (e FieldErrors) add(key, msg string) {
	if _, exists := e[key]; !exists {
		e[key] = msg
	}
}

// AsFieldErrors extracts FieldErrors from err.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	ok := errors.As(err, &fe)
	return fe, ok
}

// recipeRules is what the validator checks once text has become numbers.
type recipeRules struct {
	Title        string           `form:"title"        validate:"required,max=255"`
	Description  string           `form:"description"  validate:"max=2000"`
	Instructions string           `form:"instructions" validate:"required"`
	PrepTime     int              `form:"prepTime"     validate:"gt=0"`
	CookTime     int              `form:"cookTime"     validate:"gt=0"`
	Servings     int              `form:"servings"     validate:"gt=0"`
	Category     string           `form:"category"     validate:"required,category"`
	Ingredients  []ingredientRule `form:"ingredients"  validate:"min=1,dive"`
	Calories     float64          `form:"calories"     validate:"gte=0"`
	Protein      float64          `form:"protein"      validate:"gte=0"`
	Carbs        float64          `form:"carbs"        validate:"gte=0"`
	Fat          float64          `form:"fat"          validate:"gte=0"`
	Fiber        float64          `form:"fiber"        validate:"gte=0"`
	Sugar        float64          `form:"sugar"        validate:"gte=0"`
}

type ingredientRule struct {
	Name   string  `form:"name"   validate:"required"`
	Amount float64 `form:"amount" validate:"gt=0"`
	Unit   string  `form:"unit"   validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("form"); name != "" {
			return name
		}
		return fld.Name
	})
	if err := v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).Valid()
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate checks f and returns the request to send. When anything is wrong
// the error is a FieldErrors and nothing should be submitted.
func Validate(f RecipeForm) (models.RecipeRequest, error) {
	errs := FieldErrors{}
	rules := recipeRules{
		Title:        strings.TrimSpace(f.Title),
		Description:  strings.TrimSpace(f.Description),
		Instructions: strings.Join(models.SplitLines(f.Instructions), "\n"),
		Category:     strings.TrimSpace(f.Category),
	}
	rules.PrepTime = parseInt(errs, FieldPrepTime, f.PrepTime)
	rules.CookTime = parseInt(errs, FieldCookTime, f.CookTime)
	rules.Servings = parseInt(errs, FieldServings, f.Servings)
	rules.Calories = parseFloat(errs, FieldCalories, f.Calories)
	rules.Protein = parseFloat(errs, FieldProtein, f.Protein)
	rules.Carbs = parseFloat(errs, FieldCarbs, f.Carbs)
	rules.Fat = parseFloat(errs, FieldFat, f.Fat)
	rules.Fiber = parseFloat(errs, FieldFiber, f.Fiber)
	rules.Sugar = parseFloat(errs, FieldSugar, f.Sugar)

	ingredients := ParseIngredients(f.Ingredients)
	for _, ing := range ingredients {
		rules.Ingredients = append(rules.Ingredients, ingredientRule{
			Name: ing.Name, Amount: ing.Amount, Unit: ing.Unit,
		})
	}

	if err := validate.Struct(rules); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return models.RecipeRequest{}, fmt.Errorf("validate recipe: %w", err)
		}
		for _, fe := range verrs {
			key := fieldKey(fe)
			errs.add(key, message(key, fe))
		}
	}
	if len(errs) > 0 {
		return models.RecipeRequest{}, errs
	}

	req := models.RecipeRequest{
		Title:        rules.Title,
		Description:  rules.Description,
		Instructions: rules.Instructions,
		PrepTime:     rules.PrepTime,
		CookTime:     rules.CookTime,
		Servings:     rules.Servings,
		Category:     models.Category(rules.Category),
		Nutrition: models.Nutrition{
			Calories: rules.Calories,
			Protein:  rules.Protein,
			Carbs:    rules.Carbs,
			Fat:      rules.Fat,
			Fiber:    rules.Fiber,
			Sugar:    rules.Sugar,
		},
		Published: f.Published,
	}
	req.Ingredients = ingredients
	return req, nil
}

// fieldKey drops the struct name from the namespace:
// "recipeRules.ingredients[1].unit" becomes "ingredients[1].unit".
func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(key string, fe validator.FieldError) string {
	label := labelFor(key)
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "gt":
		return label + " must be greater than " + fe.Param()
	case "gte":
		return label + " must not be negative"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "min":
		if key == FieldIngredients {
			return "Add at least one ingredient"
		}
		return fmt.Sprintf("%s needs at least %s entries", label, fe.Param())
	case "category":
		return "Choose a valid category"
	default:
		return label + " is invalid"
	}
}

// labelFor names a field for humans, including indexed ingredient fields.
func labelFor(key string) string {
	if l, ok := labels[key]; ok {
		return l
	}
	var idx int
	var sub string
	if n, _ := fmt.Sscanf(strings.NewReplacer("[", " ", "].", " ").Replace(key), "ingredients %d %s", &idx, &sub); n == 2 {
		return fmt.Sprintf("Ingredient %d %s", idx+1, sub)
	}
	return key
}

func parseInt(errs FieldErrors, key, raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		errs.add(key, labels[key]+" must be a whole number")
		return 0
	}
	return n
}

func parseFloat(errs FieldErrors, key, raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	n, ok := parseFinite(raw)
	if !ok {
		errs.add(key, labels[key]+" must be a number")
		return 0
	}
	return n
}

// FromRecipe fills the form with an existing recipe for editing.
func FromRecipe(r models.Recipe) RecipeForm {
	lines := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		lines = append(lines, FormatIngredient(ing))
	}
	return RecipeForm{
		Title:        r.Title,
		Description:  r.Description,
		Instructions: r.Instructions,
		PrepTime:     strconv.Itoa(r.PrepTime),
		CookTime:     strconv.Itoa(r.CookTime),
		Servings:     strconv.Itoa(r.Servings),
		Category:     string(r.Category),
		Ingredients:  strings.Join(lines, "\n"),
		Calories:     formatFloat(r.Calories),
		Protein:      formatFloat(r.Protein),
		Carbs:        formatFloat(r.Carbs),
		Fat:          formatFloat(r.Fat),
		Fiber:        formatFloat(r.Fiber),
		Sugar:        formatFloat(r.Sugar),
		Published:    r.IsPublished(),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
