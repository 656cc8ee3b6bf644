package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/form"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/models"
)

// openDetail shows r at once and refreshes it from the backend.
func (m *model) openDetail(r models.Recipe, from screenState) tea.Cmd {
	m.state = detailScreen
	m.detailReturn = from
	m.err = nil
	m.showRecipe(&r)
	m.detailView.GotoTop()
	return m.loadRecipeCmd(r.ID)
}

func (m *model) showRecipe(r *models.Recipe) {
	m.detail = r
	m.detailView.SetContent(m.renderRecipe(r))
}

func (m *model) handleRecipeLoaded(msg recipeLoadedMsg) tea.Cmd {
	if msg.err != nil {
		return m.handleError(msg.err)
	}
	if m.detail != nil && m.detail.ID == msg.recipe.ID {
		m.showRecipe(msg.recipe)
	}
	return nil
}

func (m *model) updateDetailScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEsc, keyBack:
			m.err = nil
			m.state = m.detailReturn
			return m, nil
		case keyEdit:
			if m.canModify(m.detail) {
				return m, m.openRecipeForm(m.detail, false, detailScreen)
			}
			return m, nil
		case keyDelete:
			if m.canModify(m.detail) {
				m.confirmDelete(*m.detail)
			}
			return m, nil
		case keyPublish:
			if m.canModify(m.detail) {
				return m, m.togglePublish(*m.detail)
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.detailView, cmd = m.detailView.Update(msg)
	return m, cmd
}

// canModify reports whether the signed-in user may change r.
func (m *model) canModify(r *models.Recipe) bool {
	return r != nil && (m.sess.Owns(r) || m.sess.IsAdmin())
}

func (m *model) viewDetailScreen() string {
	if m.detail == nil {
		return subtleStyle.Render("No recipe selected.")
	}
	return m.detailView.View()
}

// renderRecipe lays out the full recipe for the viewport.
func (m *model) renderRecipe(r *models.Recipe) string {
	var b strings.Builder
	title := titleStyle.Render(r.Title)
	if r.GeneratedByAI {
		title += " " + badgeStyle.Render("AI")
	}
	if !r.IsPublished() {
		title += " " + badgeStyle.Render("draft")
	}
	b.WriteString(title + "\n")

	meta := []string{}
	if r.Category != "" {
		meta = append(meta, r.Category.Label())
	}
	if r.Author != nil {
		meta = append(meta, "by "+r.Author.Username)
	}
	if len(meta) > 0 {
		b.WriteString(subtleStyle.Render(strings.Join(meta, " | ")) + "\n")
	}
	if r.Description != "" {
		b.WriteString("\n" + r.Description + "\n")
	}
	b.WriteString(fmt.Sprintf("\nPrep %d min | Cook %d min | Total %d min | Serves %d\n",
		r.PrepTime, r.CookTime, r.TotalTime(), r.Servings))

	b.WriteString("\n" + labelStyle.Render("Ingredients") + "\n")
	if len(r.Ingredients) == 0 {
		b.WriteString(subtleStyle.Render("No ingredients listed") + "\n")
	}
	for _, ing := range r.Ingredients {
		b.WriteString("  - " + form.FormatIngredient(ing) + "\n")
	}

	b.WriteString("\n" + labelStyle.Render("Instructions") + "\n")
	steps := r.Steps()
	if len(steps) == 0 {
		b.WriteString(subtleStyle.Render("No instructions") + "\n")
	}
	for i, step := range steps {
		b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, step))
	}

	b.WriteString("\n" + labelStyle.Render("Nutrition per serving") + "\n")
	b.WriteString(fmt.Sprintf("  %.0f kcal | protein %.1f g | carbs %.1f g | fat %.1f g | fiber %.1f g | sugar %.1f g\n",
		r.Calories, r.Protein, r.Carbs, r.Fat, r.Fiber, r.Sugar))

	if r.ImageURL != "" {
		b.WriteString("\n" + subtleStyle.Render("Image: "+m.svc.Recipes.UploadURL(r.ImageURL)) + "\n")
	}
	return b.String()
}

// confirmDelete asks before deleting r. The row stays until the backend
// confirms the delete.
func (m *model) confirmDelete(r models.Recipe) {
	id := r.ID
	m.ask(fmt.Sprintf("Delete %q?", r.Title), func() tea.Cmd {
		return tea.Batch(m.deleteRecipeCmd(id), m.setStatusMessage("Deleting..."))
	})
}

func (m *model) togglePublish(r models.Recipe) tea.Cmd {
	return m.publishRecipeCmd(r.ID, !r.IsPublished())
}

func (m *model) handleRecipeDeleted(msg recipeDeletedMsg) tea.Cmd {
	if msg.err != nil {
		return m.handleError(msg.err)
	}
	m.err = nil
	m.forEachList(func(l *recipeList) bool { return l.pager.Remove(msg.id) })
	if m.detail != nil && m.detail.ID == msg.id {
		m.detail = nil
		if m.state == detailScreen {
			m.state = m.detailReturn
		}
	}
	return m.setStatusMessage("Recipe deleted")
}

func (m *model) handleRecipePublished(msg recipePublishedMsg) tea.Cmd {
	if msg.err != nil {
		return m.handleError(msg.err)
	}
	m.err = nil
	published := msg.published
	setFlag := func(r *models.Recipe) {
		flag := published
		r.Published = &flag
	}
	m.forEachList(func(l *recipeList) bool {
		for _, r := range l.pager.Items() {
			if r.ID == msg.id {
				setFlag(&r)
				return l.pager.Replace(r)
			}
		}
		return false
	})
	if m.detail != nil && m.detail.ID == msg.id {
		updated := *m.detail
		setFlag(&updated)
		m.showRecipe(&updated)
	}
	if m.admin.dash != nil {
		for i := range m.admin.dash.Recipes {
			if m.admin.dash.Recipes[i].ID == msg.id {
				setFlag(&m.admin.dash.Recipes[i])
			}
		}
	}
	if published {
		return m.setStatusMessage("Recipe published")
	}
	return m.setStatusMessage("Recipe unpublished")
}
