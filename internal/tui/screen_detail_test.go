//nolint:testpackage // tests drive the unexported model
package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/guard"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/models"
)

func TestRenderRecipe(t *testing.T) {
	h := newHarness(t)
	tests := []struct {
		name     string
		recipe   models.Recipe
		contains []string
	}{
		{
			name: "Full",
			recipe: models.Recipe{
				Title:        "Pancakes",
				Category:     models.CategoryBreakfast,
				PrepTime:     5,
				CookTime:     15,
				Servings:     2,
				Instructions: "Whisk\nFry",
				Ingredients:  []models.Ingredient{{Name: "flour", Amount: 150, Unit: "g"}},
				Author:       &models.UserSummary{Username: "chef"},
				ImageURL:     "/api/uploads/pancakes.png",
			},
			contains: []string{
				"Pancakes", "by chef",
				"Prep 5 min | Cook 15 min | Total 20 min | Serves 2",
				"- flour 150 g", "1. Whisk", "2. Fry",
				"/api/uploads/pancakes.png",
			},
		},
		{
			name:     "Empty",
			recipe:   models.Recipe{Title: "Mystery", Published: published(false), GeneratedByAI: true},
			contains: []string{"No ingredients listed", "No instructions", "AI", "draft"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := h.m.renderRecipe(&tt.recipe)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestDetail_OpenFromCatalogAndBack(t *testing.T) {
	h := newHarness(t)
	h.backend.AddRecipe(h.user.ID, models.Recipe{Title: "Plain toast", PrepTime: 1, CookTime: 2, Servings: 1})
	h.restore()
	h.navigate(guard.RouteRecipes)

	h.press("enter")

	require.Equal(t, detailScreen, h.m.state)
	require.NotNil(t, h.m.detail)
	assert.Equal(t, "Plain toast", h.m.detail.Title)
	assert.Contains(t, h.m.renderRecipe(h.m.detail), "No ingredients listed")

	h.press("e")
	assert.Equal(t, detailScreen, h.m.state, "anonymous users cannot edit")

	h.press("b")
	assert.Equal(t, catalogScreen, h.m.state)
}

func TestDetail_OwnerCanDelete(t *testing.T) {
	h := newHarness(t)
	r := seedRecipe(h, h.user, "Fried rice")
	h.loginAs(h.user)
	h.navigate(guard.RouteRecipes)
	h.press("enter")
	require.Equal(t, detailScreen, h.m.state)

	h.press("d", "y")

	assert.Equal(t, catalogScreen, h.m.state)
	assert.Nil(t, h.m.detail)
	assert.Empty(t, titles(h.m.lists[catalogScreen]))
	_, exists := h.backend.Recipe(r.ID)
	assert.False(t, exists)
}

func TestDetail_OthersCannotModify(t *testing.T) {
	h := newHarness(t)
	seedRecipe(h, h.admin, "Admin stew")
	h.loginAs(h.user)
	h.navigate(guard.RouteRecipes)
	h.press("enter")

	h.press("d")

	assert.Nil(t, h.m.confirm)
	assert.False(t, h.m.canModify(h.m.detail))
}
