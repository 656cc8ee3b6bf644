package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/guard"
)

const actionLogout = "logout"

// rebuildMenu lists what the current user can open.
func (m *model) rebuildMenu() {
	items := []list.Item{
		menuItem{title: "Browse recipes", desc: "Published recipes from the community", route: guard.RouteRecipes},
		menuItem{title: "Search", desc: "Find recipes by title or ingredient", route: guard.RouteSearch},
		menuItem{title: "AI recipes", desc: "Recipes created by the AI suggester", route: guard.RouteAIRecipes},
	}
	u := m.sess.User()
	if u != nil {
		items = append(items,
			menuItem{title: "My recipes", desc: "Recipes you have written", route: guard.RouteMine},
			menuItem{title: "Add recipe", desc: "Share a new recipe", route: guard.RouteAdd},
			menuItem{title: "AI suggest", desc: "Get a recipe idea from your ingredients", route: guard.RouteSuggest},
			menuItem{title: "Profile", desc: "Account details, password and picture", route: guard.RouteProfile},
		)
		if u.IsAdmin() {
			items = append(items, menuItem{title: "Admin", desc: "Stats, users and moderation", route: guard.RouteAdmin})
		}
		items = append(items, menuItem{title: "Log out", desc: "Signed in as " + u.Username, action: actionLogout})
	} else {
		items = append(items,
			menuItem{title: "Log in", desc: "Sign in to write and manage recipes", route: guard.RouteLogin},
			menuItem{title: "Register", desc: "Create an account", route: guard.RouteRegister},
		)
	}
	m.menu.SetItems(items)
	if m.menu.Index() >= len(items) {
		m.menu.Select(0)
	}
}

func (m *model) updateHomeScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyQuit:
			return m, tea.Quit
		case keyEnter:
			item, isMenuItem := m.menu.SelectedItem().(menuItem)
			if !isMenuItem {
				return m, nil
			}
			if item.action == actionLogout {
				m.sess.Logout()
				m.rebuildMenu()
				return m, m.setStatusMessage("Logged out")
			}
			return m, m.navigate(item.route)
		}
	}
	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

func (m *model) viewHomeScreen() string {
	var b strings.Builder
	if u := m.sess.User(); u != nil {
		b.WriteString(subtleStyle.Render("Hello, "+u.DisplayName()) + "\n")
	}
	b.WriteString(m.menu.View())
	return b.String()
}

// goHome returns to the menu.
func (m *model) goHome() tea.Cmd {
	m.err = nil
	m.state = homeScreen
	m.rebuildMenu()
	return nil
}
