package tui

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/models"
)

func (m *model) openAdmin() tea.Cmd {
	m.state = adminScreen
	m.err = nil
	return m.reloadDashboard()
}

func (m *model) reloadDashboard() tea.Cmd {
	m.admin.loading = true
	return tea.Batch(m.loadDashboardCmd(), m.spinner.Tick)
}

func (m *model) handleDashboard(msg dashboardMsg) tea.Cmd {
	m.admin.loading = false
	if msg.err != nil {
		return m.handleError(msg.err)
	}
	m.err = nil
	m.admin.dash = msg.dash
	m.clampAdminCursor()
	return nil
}

func (m *model) adminRows() int {
	if m.admin.dash == nil {
		return 0
	}
	switch m.admin.tab {
	case adminUsersTab:
		return len(m.admin.dash.Users)
	case adminRecipesTab:
		return len(m.admin.dash.Recipes)
	}
	return 0
}

func (m *model) clampAdminCursor() {
	n := m.adminRows()
	if m.admin.cursor >= n {
		m.admin.cursor = n - 1
	}
	if m.admin.cursor < 0 {
		m.admin.cursor = 0
	}
}

func (m *model) selectedUser() (models.UserSummary, bool) {
	if m.admin.dash == nil || m.admin.tab != adminUsersTab || m.admin.cursor >= len(m.admin.dash.Users) {
		return models.UserSummary{}, false
	}
	return m.admin.dash.Users[m.admin.cursor], true
}

func (m *model) selectedAdminRecipe() (models.Recipe, bool) {
	if m.admin.dash == nil || m.admin.tab != adminRecipesTab || m.admin.cursor >= len(m.admin.dash.Recipes) {
		return models.Recipe{}, false
	}
	return m.admin.dash.Recipes[m.admin.cursor], true
}

//nolint:gocyclo // one case per key
func (m *model) updateAdminScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case keyEsc, keyBack:
		return m, m.goHome()
	case keyTab, "right", "l":
		m.admin.tab = (m.admin.tab + 1) % numAdminTabs
		m.admin.cursor = 0
	case keyShiftTab, "left", "h":
		m.admin.tab = (m.admin.tab + numAdminTabs - 1) % numAdminTabs
		m.admin.cursor = 0
	case "1", "2", "3":
		n, _ := strconv.Atoi(keyMsg.String())
		m.admin.tab = adminTab(n - 1)
		m.admin.cursor = 0
	case keyUp, "k":
		m.admin.cursor--
		m.clampAdminCursor()
	case keyDown, "j":
		m.admin.cursor++
		m.clampAdminCursor()
	case keyReload:
		return m, m.reloadDashboard()
	case keyEdit:
		return m, m.editAdminSelection()
	case keyDelete:
		m.confirmAdminDelete()
	case keyPublish:
		if r, found := m.selectedAdminRecipe(); found {
			return m, m.togglePublish(r)
		}
	}
	return m, nil
}

func (m *model) editAdminSelection() tea.Cmd {
	if u, ok := m.selectedUser(); ok {
		m.editingUser = u.ID
		m.userForm.setValue("username", u.Username)
		m.userForm.setValue("email", u.Email)
		m.userForm.setValue("firstName", u.FirstName)
		m.userForm.setValue("lastName", u.LastName)
		m.userForm.setValue("role", string(u.Role))
		m.userForm.setValue("password", "")
		m.err = nil
		m.state = adminUserEditScreen
		return m.userForm.focusIndex(0)
	}
	if r, ok := m.selectedAdminRecipe(); ok {
		return m.openRecipeForm(&r, true, adminScreen)
	}
	return nil
}

func (m *model) confirmAdminDelete() {
	if u, ok := m.selectedUser(); ok {
		id := u.ID
		m.ask(fmt.Sprintf("Delete user %q and all their recipes?", u.Username), func() tea.Cmd {
			return m.adminDeleteUserCmd(id)
		})
		return
	}
	if r, ok := m.selectedAdminRecipe(); ok {
		id := r.ID
		m.ask(fmt.Sprintf("Delete recipe %q?", r.Title), func() tea.Cmd {
			return m.adminDeleteRecipeCmd(id)
		})
	}
}

func (m *model) updateUserEditScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.String() == keyEsc {
			m.userForm.blurAll()
			m.err = nil
			m.state = adminScreen
			return m, nil
		}
		if cmd, handled := m.userForm.handleKey(keyMsg, m.submitUserEdit); handled {
			return m, cmd
		}
	}
	return m, m.userForm.update(msg)
}

func (m *model) submitUserEdit() tea.Cmd {
	role := models.Role(strings.ToUpper(m.userForm.value("role")))
	if role != models.RoleAdmin {
		role = models.RoleUser
	}
	req := models.AdminUserUpdateRequest{
		Username:  m.userForm.value("username"),
		Email:     m.userForm.value("email"),
		FirstName: m.userForm.value("firstName"),
		LastName:  m.userForm.value("lastName"),
		Role:      role,
		Password:  m.userForm.raw("password"),
	}
	m.err = nil
	return tea.Batch(m.adminUpdateUserCmd(m.editingUser, req), m.setStatusMessage("Saving user..."))
}

// handleAdminUserSaved refreshes the session when admins edited their own
// account, since the backend then issues a new token.
func (m *model) handleAdminUserSaved(msg adminUserSavedMsg) tea.Cmd {
	if msg.err != nil {
		return m.handleError(msg.err)
	}
	m.err = nil
	if me := m.sess.User(); msg.resp.SelfUpdate || (me != nil && me.ID == msg.resp.ID) {
		if err := m.sess.UpdateUser(msg.resp.User); err != nil {
			slog.Error("Failed to store updated account", "error", err)
		}
		m.rebuildMenu()
		if !m.sess.IsAdmin() {
			m.userForm.blurAll()
			return tea.Batch(m.goHome(), m.setStatusMessage("Your admin role was removed"))
		}
	}
	m.userForm.blurAll()
	m.state = adminScreen
	return tea.Batch(m.reloadDashboard(), m.setStatusMessage("User updated"))
}

func (m *model) handleAdminDone(msg adminDoneMsg) tea.Cmd {
	m.recipeForm.submitting = false
	m.admin.loading = false
	if msg.err != nil {
		return m.handleError(msg.err)
	}
	m.err = nil
	if m.state == recipeFormScreen {
		m.recipeForm.fields.blurAll()
		m.state = adminScreen
	}
	return tea.Batch(m.reloadDashboard(), m.setStatusMessage(msg.status))
}

func (m *model) viewAdminScreen() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Admin dashboard") + "\n")
	tabs := make([]string, 0, numAdminTabs)
	for t := adminStatsTab; t < numAdminTabs; t++ {
		label := fmt.Sprintf("%d %s", t+1, t)
		if t == m.admin.tab {
			tabs = append(tabs, badgeStyle.Render(label))
		} else {
			tabs = append(tabs, subtleStyle.Render(label))
		}
	}
	b.WriteString(strings.Join(tabs, "  ") + "\n\n")

	if m.admin.loading {
		b.WriteString(m.spinner.View() + " Loading...\n")
	}
	d := m.admin.dash
	if d == nil {
		return b.String()
	}
	switch m.admin.tab {
	case adminStatsTab:
		b.WriteString(fmt.Sprintf("Users:         %d\n", d.Stats.TotalUsers))
		b.WriteString(fmt.Sprintf("Recipes:       %d\n", d.Stats.TotalRecipes))
		b.WriteString(fmt.Sprintf("AI generated:  %d (%d%%)\n", d.Stats.AIGeneratedRecipes, d.Stats.AIShare()))
		if d.Stats.ActiveUsers > 0 {
			b.WriteString(fmt.Sprintf("Active users:  %d\n", d.Stats.ActiveUsers))
		}
	case adminUsersTab:
		rows := make([][]string, 0, len(d.Users))
		for _, u := range d.Users {
			name := strings.TrimSpace(u.FirstName + " " + u.LastName)
			rows = append(rows, []string{strconv.FormatInt(u.ID, 10), u.Username, name, u.Email, string(u.Role)})
		}
		b.WriteString(m.renderTable([]string{"ID", "Username", "Name", "Email", "Role"}, rows))
	case adminRecipesTab:
		rows := make([][]string, 0, len(d.Recipes))
		for _, r := range d.Recipes {
			author := ""
			if r.Author != nil {
				author = r.Author.Username
			}
			published := "no"
			if r.IsPublished() {
				published = "yes"
			}
			rows = append(rows, []string{strconv.FormatInt(r.ID, 10), r.Title, author, r.Category.Label(), published})
		}
		b.WriteString(m.renderTable([]string{"ID", "Title", "Author", "Category", "Published"}, rows))
	}
	return b.String()
}

func (m *model) renderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return subtleStyle.Render("Nothing here yet.")
	}
	cursor := m.admin.cursor
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(subtleStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return labelStyle.Bold(true).Padding(0, 1)
			case row == cursor:
				return focusedStyle.Padding(0, 1)
			default:
				return lipgloss.NewStyle().Padding(0, 1)
			}
		})
	return t.Render()
}

func (m *model) viewUserEditScreen() string {
	return titleStyle.Render(fmt.Sprintf("Edit user #%d", m.editingUser)) + "\n\n" + m.userForm.view(nil)
}
