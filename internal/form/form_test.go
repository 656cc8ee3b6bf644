package form_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/form"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/models"
)

func validForm() form.RecipeForm {
	return form.RecipeForm{
		Title:        "  Protein oats ",
		Description:  "Breakfast bowl",
		Instructions: "Boil water\n\n  Add oats  \nStir",
		PrepTime:     "5",
		CookTime:     "10",
		Servings:     "2",
		Category:     "BREAKFAST",
		Ingredients:  "rolled oats 80 g\nwhey protein 1/2 scoop\n",
		Calories:     "420",
		Protein:      "32.5",
		Published:    true,
	}
}

func TestValidate_Valid(t *testing.T) {
	req, err := form.Validate(validForm())
	require.NoError(t, err)

	assert.Equal(t, "Protein oats", req.Title)
	assert.Equal(t, "Boil water\nAdd oats\nStir", req.Instructions)
	assert.Equal(t, 5, req.PrepTime)
	assert.Equal(t, 10, req.CookTime)
	assert.Equal(t, 2, req.Servings)
	assert.Equal(t, models.CategoryBreakfast, req.Category)
	assert.InDelta(t, 32.5, req.Protein, 0.001)
	assert.Zero(t, req.Fat)
	assert.True(t, req.Published)
	assert.Equal(t, []models.Ingredient{
		{Name: "rolled oats", Amount: 80, Unit: "g"},
		{Name: "whey protein", Amount: 0.5, Unit: "scoop"},
	}, req.Ingredients)
}

func TestValidate_FieldErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f *form.RecipeForm)
		field   string
		message string
	}{
		{name: "blank title", mutate: func(f *form.RecipeForm) { f.Title = "   " },
			field: form.FieldTitle, message: "Title is required"},
		{name: "no instructions", mutate: func(f *form.RecipeForm) { f.Instructions = "\n \n" },
			field: form.FieldInstructions, message: "Instructions is required"},
		{name: "missing prep time", mutate: func(f *form.RecipeForm) { f.PrepTime = "" },
			field: form.FieldPrepTime, message: "Prep time must be greater than 0"},
		{name: "zero servings", mutate: func(f *form.RecipeForm) { f.Servings = "0" },
			field: form.FieldServings, message: "Servings must be greater than 0"},
		{name: "text cook time", mutate: func(f *form.RecipeForm) { f.CookTime = "ten" },
			field: form.FieldCookTime, message: "Cook time must be a whole number"},
		{name: "negative fat", mutate: func(f *form.RecipeForm) { f.Fat = "-1" },
			field: form.FieldFat, message: "Fat must not be negative"},
		{name: "text sugar", mutate: func(f *form.RecipeForm) { f.Sugar = "lots" },
			field: form.FieldSugar, message: "Sugar must be a number"},
		{name: "unknown category", mutate: func(f *form.RecipeForm) { f.Category = "BRUNCH" },
			field: form.FieldCategory, message: "Choose a valid category"},
		{name: "no category", mutate: func(f *form.RecipeForm) { f.Category = "" },
			field: form.FieldCategory, message: "Category is required"},
		{name: "no ingredients", mutate: func(f *form.RecipeForm) { f.Ingredients = "" },
			field: form.FieldIngredients, message: "Add at least one ingredient"},
		{name: "ingredient without unit", mutate: func(f *form.RecipeForm) { f.Ingredients = "oats 80\nmilk 200 ml" },
			field: "ingredients[0].unit", message: "Ingredient 1 unit is required"},
		{name: "ingredient without amount", mutate: func(f *form.RecipeForm) { f.Ingredients = "oats 80 g\nsalt" },
			field: "ingredients[1].amount", message: "Ingredient 2 amount must be greater than 0"},
		{name: "infinite calories", mutate: func(f *form.RecipeForm) { f.Calories = "Inf" },
			field: form.FieldCalories, message: "Calories must be a number"},
		{name: "NaN protein", mutate: func(f *form.RecipeForm) { f.Protein = "NaN" },
			field: form.FieldProtein, message: "Protein must be a number"},
		{name: "infinite amount", mutate: func(f *form.RecipeForm) { f.Ingredients = "eggs inf piece" },
			field: "ingredients[0].amount", message: "Ingredient 1 amount must be greater than 0"},
		{name: "infinite fraction", mutate: func(f *form.RecipeForm) { f.Ingredients = "eggs Inf/2 piece" },
			field: "ingredients[0].amount", message: "Ingredient 1 amount must be greater than 0"},
		{name: "negative amount", mutate: func(f *form.RecipeForm) { f.Ingredients = "oats -3 g" },
			field: "ingredients[0].amount", message: "Ingredient 1 amount must be greater than 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(&f)

			_, err := form.Validate(f)
			require.Error(t, err)
			fieldErrs, ok := form.AsFieldErrors(err)
			require.True(t, ok)
			assert.Equal(t, tt.message, fieldErrs.Field(tt.field), "all errors: %v", fieldErrs)
		})
	}
}

func TestValidate_CollectsEveryField(t *testing.T) {
	_, err := form.Validate(form.RecipeForm{})
	fieldErrs, ok := form.AsFieldErrors(err)
	require.True(t, ok)
	for _, key := range []string{
		form.FieldTitle, form.FieldInstructions, form.FieldPrepTime,
		form.FieldCookTime, form.FieldServings, form.FieldCategory, form.FieldIngredients,
	} {
		assert.NotEmpty(t, fieldErrs.Field(key), key)
	}
	assert.Contains(t, err.Error(), "Title is required")
}

func TestParseIngredientLine(t *testing.T) {
	tests := []struct {
		line string
		want models.Ingredient
	}{
		{line: "egg 2 pcs", want: models.Ingredient{Name: "egg", Amount: 2, Unit: "pcs"}},
		{line: "  chicken   breast 200 g ", want: models.Ingredient{Name: "chicken breast", Amount: 200, Unit: "g"}},
		{line: "butter 1/4 cup", want: models.Ingredient{Name: "butter", Amount: 0.25, Unit: "cup"}},
		{line: "eggs 2", want: models.Ingredient{Name: "eggs", Amount: 2}},
		{line: "salt to taste", want: models.Ingredient{Name: "salt to taste"}},
		{line: "pepper", want: models.Ingredient{Name: "pepper"}},
		{line: "milk 1/0 cup", want: models.Ingredient{Name: "milk 1/0 cup"}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, form.ParseIngredientLine(tt.line))
		})
	}
}

func TestFormatIngredientRoundTrip(t *testing.T) {
	ing := models.Ingredient{Name: "rolled oats", Amount: 80, Unit: "g"}
	assert.Equal(t, "rolled oats 80 g", form.FormatIngredient(ing))
	assert.Equal(t, ing, form.ParseIngredientLine(form.FormatIngredient(ing)))
}

func TestFromRecipe(t *testing.T) {
	published := false
	r := models.Recipe{
		Title:        "Soup",
		Instructions: "Chop\nBoil",
		PrepTime:     10,
		CookTime:     30,
		Servings:     4,
		Category:     models.CategorySoup,
		Ingredients:  []models.Ingredient{{Name: "carrot", Amount: 2, Unit: "pcs"}},
		Nutrition:    models.Nutrition{Calories: 120.5},
		Published:    &published,
	}
	f := form.FromRecipe(r)
	assert.Equal(t, "carrot 2 pcs", f.Ingredients)
	assert.Equal(t, "120.5", f.Calories)
	assert.False(t, f.Published)

	req, err := form.Validate(f)
	require.NoError(t, err)
	assert.Equal(t, r.Ingredients, req.Ingredients)
	assert.Equal(t, r.Instructions, req.Instructions)
}

func TestAdminUpdate_Defaults(t *testing.T) {
	req := form.AdminUpdate(form.RecipeForm{
		Title:        "Bowl",
		Category:     "LUNCH",
		Instructions: "one\n\ntwo\n",
		Ingredients:  "rice\nbeans 200 g\ntofu 3",
		PrepTime:     "15 min",
		CookTime:     "soon",
		Servings:     "",
		Calories:     "abc",
		Protein:      "12",
	})

	assert.Equal(t, []string{"one", "two"}, req.Instructions)
	assert.Equal(t, 15, req.PrepTime)
	assert.Equal(t, 0, req.CookTime)
	assert.Equal(t, 1, req.Servings)
	assert.Zero(t, req.Calories)
	assert.InDelta(t, 12.0, req.Protein, 0.001)
	assert.Equal(t, []models.Ingredient{
		{Name: "rice", Amount: 1, Unit: "piece"},
		{Name: "beans", Amount: 200, Unit: "g"},
		{Name: "tofu", Amount: 3, Unit: "piece"},
	}, req.Ingredients)
}

func TestAdminUpdate_NonFiniteNumbersFallBack(t *testing.T) {
	req := form.AdminUpdate(form.RecipeForm{
		Title:       "Bowl",
		Ingredients: "eggs inf piece",
		Calories:    "+Inf",
		Fat:         "NaN",
	})

	assert.Zero(t, req.Calories)
	assert.Zero(t, req.Fat)
	require.Len(t, req.Ingredients, 1)
	assert.Equal(t, 1.0, req.Ingredients[0].Amount)

	_, err := json.Marshal(req)
	assert.NoError(t, err)
}

func TestAdminUpdate_EmptyInstructions(t *testing.T) {
	req := form.AdminUpdate(form.RecipeForm{Title: "x"})
	assert.NotNil(t, req.Instructions)
	assert.Empty(t, req.Instructions)
	assert.Empty(t, req.Ingredients)
}
