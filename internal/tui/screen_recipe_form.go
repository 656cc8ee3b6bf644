package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/form"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/guard"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/models"
)

const fieldImage = "image"

// openRecipeForm starts adding (r == nil) or editing r. In admin mode the
// save goes through the admin endpoint.
func (m *model) openRecipeForm(r *models.Recipe, admin bool, returnTo screenState) tea.Cmd {
	if r != nil && !admin && guard.Check(m.sess, guard.RouteEdit) != guard.Allow {
		return m.navigate(guard.RouteEdit)
	}
	f := form.RecipeForm{Category: string(models.CategoryBreakfast), Published: true}
	var id int64
	if r != nil {
		f = form.FromRecipe(*r)
		id = r.ID
	}
	rf := &m.recipeForm
	rf.editingID = id
	rf.admin = admin
	rf.errs = nil
	rf.submitting = false
	rf.returnTo = returnTo
	rf.published = f.Published
	values := formValues(f)
	for key, v := range values {
		rf.fields.setValue(key, v)
	}
	rf.fields.setValue(fieldImage, "")
	m.err = nil
	m.state = recipeFormScreen
	return rf.fields.focusIndex(0)
}

func formValues(f form.RecipeForm) map[string]string {
	return map[string]string{
		form.FieldTitle:        f.Title,
		form.FieldDescription:  f.Description,
		form.FieldCategory:     f.Category,
		form.FieldPrepTime:     f.PrepTime,
		form.FieldCookTime:     f.CookTime,
		form.FieldServings:     f.Servings,
		form.FieldIngredients:  f.Ingredients,
		form.FieldInstructions: f.Instructions,
		form.FieldCalories:     f.Calories,
		form.FieldProtein:      f.Protein,
		form.FieldCarbs:        f.Carbs,
		form.FieldFat:          f.Fat,
		form.FieldFiber:        f.Fiber,
		form.FieldSugar:        f.Sugar,
	}
}

// currentForm reads the typed values back into a form.RecipeForm.
func (m *model) currentForm() form.RecipeForm {
	fs := &m.recipeForm.fields
	return form.RecipeForm{
		Title:        fs.raw(form.FieldTitle),
		Description:  fs.raw(form.FieldDescription),
		Category:     strings.ToUpper(fs.value(form.FieldCategory)),
		PrepTime:     fs.raw(form.FieldPrepTime),
		CookTime:     fs.raw(form.FieldCookTime),
		Servings:     fs.raw(form.FieldServings),
		Ingredients:  fs.raw(form.FieldIngredients),
		Instructions: fs.raw(form.FieldInstructions),
		Calories:     fs.raw(form.FieldCalories),
		Protein:      fs.raw(form.FieldProtein),
		Carbs:        fs.raw(form.FieldCarbs),
		Fat:          fs.raw(form.FieldFat),
		Fiber:        fs.raw(form.FieldFiber),
		Sugar:        fs.raw(form.FieldSugar),
		Published:    m.recipeForm.published,
	}
}

func (m *model) updateRecipeFormScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEsc:
			m.recipeForm.fields.blurAll()
			m.err = nil
			m.state = m.recipeForm.returnTo
			return m, nil
		case keyToggle:
			m.recipeForm.published = !m.recipeForm.published
			return m, nil
		}
		if m.recipeForm.submitting {
			return m, nil
		}
		if cmd, handled := m.recipeForm.fields.handleKey(keyMsg, m.submitRecipeForm); handled {
			return m, cmd
		}
	}
	return m, m.recipeForm.fields.update(msg)
}

// submitRecipeForm validates locally first; an invalid form shows the field
// messages and sends nothing.
func (m *model) submitRecipeForm() tea.Cmd {
	rf := &m.recipeForm
	f := m.currentForm()
	if rf.admin {
		rf.submitting = true
		m.admin.loading = true
		return tea.Batch(m.adminUpdateRecipeCmd(rf.editingID, form.AdminUpdate(f)), m.spinner.Tick)
	}
	req, err := form.Validate(f)
	if err != nil {
		if fieldErrs, ok := form.AsFieldErrors(err); ok {
			rf.errs = fieldErrs
			return m.setStatusMessage(fmt.Sprintf("Please fix %d field(s)", len(fieldErrs)))
		}
		m.err = err
		return nil
	}
	rf.errs = nil
	rf.submitting = true
	m.err = nil
	imagePath := rf.fields.value(fieldImage)
	return tea.Batch(m.saveRecipeCmd(rf.editingID, req, imagePath), m.setStatusMessage("Saving..."), m.spinner.Tick)
}

func (m *model) handleRecipeSaved(msg recipeSavedMsg) tea.Cmd {
	m.recipeForm.submitting = false
	if msg.err != nil {
		// The form keeps its values so the user can fix and resubmit.
		return m.handleError(msg.err)
	}
	m.err = nil
	m.recipeForm.fields.blurAll()
	saved := *msg.recipe
	m.forEachList(func(l *recipeList) bool { return l.pager.Replace(saved) })

	returnTo := m.recipeForm.returnTo
	if returnTo == detailScreen {
		returnTo = m.detailReturn
	}
	m.state = detailScreen
	m.detailReturn = returnTo
	m.showRecipe(&saved)
	m.detailView.GotoTop()
	if msg.created {
		return m.setStatusMessage("Recipe created")
	}
	return m.setStatusMessage("Recipe saved")
}

func (m *model) viewRecipeFormScreen() string {
	rf := &m.recipeForm
	var b strings.Builder
	switch {
	case rf.admin:
		b.WriteString(titleStyle.Render(fmt.Sprintf("Moderate recipe #%d", rf.editingID)))
	case rf.editingID != 0:
		b.WriteString(titleStyle.Render("Edit recipe"))
	default:
		b.WriteString(titleStyle.Render("New recipe"))
	}
	b.WriteString("\n\n")
	b.WriteString(rf.fields.view(rf.errs))
	published := "no"
	if rf.published {
		published = "yes"
	}
	b.WriteString("\n" + labelStyle.Render("Published: "+published) + "\n")
	if rf.submitting {
		b.WriteString(m.spinner.View() + " Saving...\n")
	}
	return b.String()
}
