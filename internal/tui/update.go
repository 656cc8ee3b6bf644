package tui

import (
	"errors"
	"log/slog"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/guard"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/pager"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/session"
)

// Update handles incoming messages.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if !m.sess.Loading() && !m.busy() {
			return m, nil
		}
		return m, cmd

	case clearStatusMsg:
		m.status = ""
		return m, nil

	case tea.KeyMsg:
		if msg.String() == keyCtrlC {
			return m, tea.Quit
		}
		if m.confirm != nil {
			return m, m.updateConfirmation(msg)
		}
		if m.sess.Loading() {
			return m, nil
		}
	}

	if cmd, handled := m.handleResult(msg); handled {
		return m, cmd
	}
	return m.updateScreen(msg)
}

// handleResult applies the outcome of a command, whatever screen is shown.
func (m *model) handleResult(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case sessionRestoredMsg:
		return m.handleSessionRestored(msg), true
	case sessionChangedMsg:
		m.rebuildMenu()
		return m.waitForSessionCmd(), true
	case loginSuccessMsg:
		return m.handleLoginSuccess(msg), true
	case LoginError:
		return m.handleLoginError(msg), true
	case registerSuccessMsg:
		return m.handleRegisterSuccess(msg), true
	case RegisterError:
		m.err = msg
		return nil, true
	case recipesPageMsg:
		return m.handleRecipesPage(msg), true
	case recipeLoadedMsg:
		return m.handleRecipeLoaded(msg), true
	case recipeSavedMsg:
		return m.handleRecipeSaved(msg), true
	case recipeDeletedMsg:
		return m.handleRecipeDeleted(msg), true
	case recipePublishedMsg:
		return m.handleRecipePublished(msg), true
	case profileSavedMsg:
		return m.handleProfileSaved(msg), true
	case passwordSavedMsg:
		return m.handlePasswordSaved(msg), true
	case suggestionMsg:
		return m.handleSuggestion(msg), true
	case dashboardMsg:
		return m.handleDashboard(msg), true
	case adminUserSavedMsg:
		return m.handleAdminUserSaved(msg), true
	case adminDoneMsg:
		return m.handleAdminDone(msg), true
	}
	return nil, false
}

func (m *model) updateScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case homeScreen:
		return m.updateHomeScreen(msg)
	case loginScreen:
		return m.updateLoginScreen(msg)
	case registerScreen:
		return m.updateRegisterScreen(msg)
	case catalogScreen, aiRecipesScreen, myRecipesScreen:
		return m.updateRecipeListScreen(msg)
	case searchScreen:
		return m.updateSearchScreen(msg)
	case detailScreen:
		return m.updateDetailScreen(msg)
	case recipeFormScreen:
		return m.updateRecipeFormScreen(msg)
	case profileScreen:
		return m.updateProfileScreen(msg)
	case profileEditScreen, passwordScreen, pictureScreen:
		return m.updateProfileFormScreen(msg)
	case suggestScreen:
		return m.updateSuggestScreen(msg)
	case adminScreen:
		return m.updateAdminScreen(msg)
	case adminUserEditScreen:
		return m.updateUserEditScreen(msg)
	}
	return m, nil
}

// busy reports whether a request the spinner should show is in flight.
func (m *model) busy() bool {
	if m.recipeForm.submitting || m.suggesting || m.admin.loading {
		return true
	}
	for _, l := range m.lists {
		if l.pager.Status() == pager.Loading {
			return true
		}
	}
	return false
}

func (m *model) resize(width, height int) {
	m.width, m.height = width, height
	h, v := m.docStyle.GetFrameSize()
	listWidth := width - h
	listHeight := height - v - helpStatusHeight
	if listHeight < 1 {
		listHeight = 1
	}
	m.menu.SetSize(listWidth, listHeight)
	for _, l := range m.lists {
		l.list.SetSize(listWidth, listHeight-searchBarHeight)
	}
	m.detailView.Width = listWidth
	m.detailView.Height = listHeight
	m.searchInput.Width = listWidth - inputOffset
}

const (
	helpStatusHeight = 3
	searchBarHeight  = 2
)

// navigate opens route if the guard allows it. A route that needs a user is
// remembered and reopened after login; while the session is still
// hydrating the decision is deferred to sessionRestoredMsg.
func (m *model) navigate(route guard.Route) tea.Cmd {
	switch guard.Check(m.sess, route) {
	case guard.Wait:
		m.pendingRoute = route
		return m.spinner.Tick
	case guard.RedirectLogin:
		m.pendingRoute = route
		slog.Debug("Login required", "route", route)
		return m.openLogin()
	case guard.Forbidden:
		m.state = homeScreen
		m.rebuildMenu()
		return m.setStatusMessage("Admin access required")
	case guard.Allow:
	}
	m.err = nil
	return m.open(route)
}

func (m *model) open(route guard.Route) tea.Cmd {
	switch route {
	case guard.RouteLogin:
		return m.openLogin()
	case guard.RouteRegister:
		return m.openRegister()
	case guard.RouteRecipes:
		return m.openRecipeList(catalogScreen)
	case guard.RouteAIRecipes:
		return m.openRecipeList(aiRecipesScreen)
	case guard.RouteMine:
		return m.openRecipeList(myRecipesScreen)
	case guard.RouteSearch:
		return m.openSearch()
	case guard.RouteAdd:
		return m.openRecipeForm(nil, false, m.state)
	case guard.RouteProfile:
		return m.openProfile()
	case guard.RouteSuggest:
		return m.openSuggest()
	case guard.RouteAdmin:
		return m.openAdmin()
	default:
		m.state = homeScreen
		m.rebuildMenu()
		return nil
	}
}

// afterLogin continues to the route that sent the user to the login screen.
func (m *model) afterLogin() tea.Cmd {
	route := m.pendingRoute
	m.pendingRoute = ""
	if route == "" || route == guard.RouteLogin || route == guard.RouteRegister {
		route = guard.RouteHome
	}
	m.rebuildMenu()
	return m.navigate(route)
}

func (m *model) handleSessionRestored(msg sessionRestoredMsg) tea.Cmd {
	if msg.err != nil {
		// Restore failures are silent: the user just starts logged out.
		slog.Info("Stored session not restored", "error", msg.err)
	}
	m.rebuildMenu()
	if m.pendingRoute != "" {
		route := m.pendingRoute
		m.pendingRoute = ""
		return m.navigate(route)
	}
	return nil
}

// handleError shows err, or logs out and asks for a new login when the
// backend rejected the stored credentials.
func (m *model) handleError(err error) tea.Cmd {
	if err == nil {
		return nil
	}
	if m.sess.HandleUnauthorized(err) {
		m.pendingRoute = screenRoutes[m.state]
		if m.pendingRoute == guard.RouteEdit || m.pendingRoute == guard.RouteRecipe {
			m.pendingRoute = ""
		}
		m.rebuildMenu()
		cmd := m.openLogin()
		return tea.Batch(cmd, m.setStatusMessage("Your session has expired, please log in again"))
	}
	if errors.Is(err, session.ErrNotLoggedIn) {
		return m.openLogin()
	}
	slog.Warn("Request failed", "screen", m.state, "error", err)
	m.err = err
	return nil
}

// ask shows a y/n prompt; onYes runs on "y".
func (m *model) ask(prompt string, onYes func() tea.Cmd) {
	m.confirm = &confirmation{prompt: prompt + " (y/n)", onYes: onYes}
}

func (m *model) updateConfirmation(msg tea.KeyMsg) tea.Cmd {
	c := m.confirm
	switch msg.String() {
	case "y", "Y":
		m.confirm = nil
		return c.onYes()
	case "n", "N", keyEsc:
		m.confirm = nil
		return m.setStatusMessage("Cancelled")
	}
	return nil
}
