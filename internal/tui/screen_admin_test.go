//nolint:testpackage // tests drive the unexported model
package tui

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/guard"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/models"
)

func TestAdmin_ForbiddenForUsers(t *testing.T) {
	h := newHarness(t)
	h.loginAs(h.user)
	h.m.state = profileScreen

	h.navigate(guard.RouteAdmin)

	assert.Equal(t, homeScreen, h.m.state)
	assert.Equal(t, "Admin access required", h.m.status)
	assert.NotContains(t, menuTitles(h.m), "Admin")
	assert.Zero(t, h.backend.Hits(http.MethodGet, "/api/admin/stats"))
}

func TestAdmin_Dashboard(t *testing.T) {
	h := newHarness(t)
	seedRecipe(h, h.user, "Fried rice")
	h.backend.AddRecipe(h.user.ID, models.Recipe{Title: "Robot stew", GeneratedByAI: true})
	h.loginAs(h.admin)
	require.Contains(t, menuTitles(h.m), "Admin")

	h.navigate(guard.RouteAdmin)

	require.Equal(t, adminScreen, h.m.state)
	require.NotNil(t, h.m.admin.dash)
	assert.False(t, h.m.admin.loading)
	assert.EqualValues(t, 2, h.m.admin.dash.Stats.TotalUsers)
	assert.EqualValues(t, 2, h.m.admin.dash.Stats.TotalRecipes)
	assert.Contains(t, h.m.View(), "AI generated:  1 (50%)")

	h.press("2")
	assert.Equal(t, adminUsersTab, h.m.admin.tab)
	assert.Contains(t, h.m.View(), testUsername)

	h.press("tab")
	assert.Equal(t, adminRecipesTab, h.m.admin.tab)
	assert.Contains(t, h.m.View(), "Robot stew")

	h.press("tab")
	assert.Equal(t, adminStatsTab, h.m.admin.tab)
}

func TestAdmin_CursorStaysInRange(t *testing.T) {
	h := newHarness(t)
	h.loginAs(h.admin)
	h.navigate(guard.RouteAdmin)
	h.press("2")

	h.press("up")
	assert.Equal(t, 0, h.m.admin.cursor)

	h.press("down", "down", "down")
	assert.Equal(t, 1, h.m.admin.cursor)
}

func TestAdmin_DeleteUser(t *testing.T) {
	h := newHarness(t)
	seedRecipe(h, h.user, "Fried rice")
	h.loginAs(h.admin)
	h.navigate(guard.RouteAdmin)
	h.press("2")

	h.press("d")
	require.NotNil(t, h.m.confirm)
	assert.Contains(t, h.m.confirm.prompt, testUsername)

	h.press("y")

	assert.Equal(t, "User deleted", h.m.status)
	_, exists := h.backend.User(h.user.ID)
	assert.False(t, exists)
	require.NotNil(t, h.m.admin.dash)
	assert.Len(t, h.m.admin.dash.Users, 1)
	assert.Empty(t, h.m.admin.dash.Recipes)
}

func TestAdmin_TogglePublishRecipe(t *testing.T) {
	h := newHarness(t)
	r := seedRecipe(h, h.user, "Fried rice")
	h.loginAs(h.admin)
	h.navigate(guard.RouteAdmin)
	h.press("3")

	h.press("p")

	assert.Equal(t, "Recipe unpublished", h.m.status)
	stored, _ := h.backend.Recipe(r.ID)
	assert.False(t, stored.IsPublished())
	assert.False(t, h.m.admin.dash.Recipes[0].IsPublished())
}

func TestAdmin_ModerateRecipe(t *testing.T) {
	h := newHarness(t)
	r := seedRecipe(h, h.user, "Fried rice")
	h.loginAs(h.admin)
	h.navigate(guard.RouteAdmin)
	h.press("3", "e")
	require.Equal(t, recipeFormScreen, h.m.state)
	require.True(t, h.m.recipeForm.admin)

	h.m.recipeForm.fields.setValue("title", "Fried rice (edited)")
	h.press("ctrl+s")

	assert.Equal(t, adminScreen, h.m.state)
	assert.Equal(t, "Recipe updated", h.m.status)
	stored, _ := h.backend.Recipe(r.ID)
	assert.Equal(t, "Fried rice (edited)", stored.Title)
}

func TestAdmin_DemotingSelfLeavesDashboard(t *testing.T) {
	h := newHarness(t)
	h.loginAs(h.admin)
	h.navigate(guard.RouteAdmin)
	h.press("2", "down", "e")
	require.Equal(t, adminUserEditScreen, h.m.state)
	require.Equal(t, h.admin.ID, h.m.editingUser)
	assert.Equal(t, string(models.RoleAdmin), h.m.userForm.value("role"))

	h.m.userForm.setValue("role", "user")
	h.press("ctrl+s")

	require.NotNil(t, h.sess.User())
	assert.False(t, h.sess.IsAdmin())
	assert.Equal(t, homeScreen, h.m.state)
	assert.Equal(t, "Your admin role was removed", h.m.status)
	assert.NotContains(t, menuTitles(h.m), "Admin")
}
