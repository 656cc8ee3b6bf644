// Package tui is the terminal front end: one bubbletea model with a screen
// per page, driven by the session and the service layer.
package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/api"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/service"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/session"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA"))
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F25D94"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	badgeStyle   = lipgloss.NewStyle().Padding(0, 1).Bold(true).
			Foreground(lipgloss.Color("#FFFDF5")).Background(lipgloss.Color("#6124DF"))
)

// Options configures Start.
type Options struct {
	Session  *session.Session
	Services *service.Services
	// Timeout bounds every request; zero means 15s.
	Timeout time.Duration
	Debug   bool
}

// Start runs the TUI until the user quits.
func Start(opts Options) error {
	m := initModel(opts.Session, opts.Services, opts.Timeout, opts.Debug)
	m.sessionCh, m.unsubscribe = opts.Session.Subscribe()
	defer m.unsubscribe()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("TUI stopped with an error", "error", err)
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// Init restores the stored session while the spinner runs.
func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.restoreSessionCmd(), m.waitForSessionCmd())
}

func initHelpTextMap() map[screenState]string {
	return map[screenState]string{
		homeScreen:          "enter: open | q: quit",
		loginScreen:         "tab: next field | enter: log in | ctrl+r: register | esc: back",
		registerScreen:      "tab: next field | enter: create account | esc: back",
		catalogScreen:       "enter: open | m: load more | r: reload | esc: back",
		searchScreen:        "/: edit query | enter: search/open | m: load more | esc: back",
		aiRecipesScreen:     "enter: open | m: load more | r: reload | esc: back",
		myRecipesScreen:     "enter: open | a: add | e: edit | p: publish | d: delete | m: load more | esc: back",
		detailScreen:        "e: edit | p: publish | d: delete | esc: back",
		recipeFormScreen:    "tab: next field | ctrl+p: toggle published | ctrl+s: save | esc: cancel",
		profileScreen:       "e: edit profile | p: change password | i: upload picture | esc: back",
		profileEditScreen:   "tab: next field | enter: save | esc: cancel",
		passwordScreen:      "tab: next field | enter: save | esc: cancel",
		pictureScreen:       "enter: upload | esc: cancel",
		suggestScreen:       "ctrl+s: suggest | esc: back",
		adminScreen:         "tab: switch tab | up/down: select | e: edit | p: publish | d: delete | r: reload | esc: back",
		adminUserEditScreen: "tab: next field | enter: save | esc: cancel",
	}
}

// setStatusMessage shows status and schedules its removal.
func (m *model) setStatusMessage(status string) tea.Cmd {
	m.status = status
	if m.statusTimeout <= 0 {
		return nil
	}
	return clearStatusCmd(m.statusTimeout)
}

func (m *model) getMainContentView() string {
	switch m.state {
	case homeScreen:
		return m.viewHomeScreen()
	case loginScreen:
		return m.viewLoginScreen()
	case registerScreen:
		return m.viewRegisterScreen()
	case catalogScreen, aiRecipesScreen, myRecipesScreen:
		return m.viewRecipeListScreen(m.state)
	case searchScreen:
		return m.viewSearchScreen()
	case detailScreen:
		return m.viewDetailScreen()
	case recipeFormScreen:
		return m.viewRecipeFormScreen()
	case profileScreen:
		return m.viewProfileScreen()
	case profileEditScreen, passwordScreen, pictureScreen:
		return m.viewProfileFormScreen()
	case suggestScreen:
		return m.viewSuggestScreen()
	case adminScreen:
		return m.viewAdminScreen()
	case adminUserEditScreen:
		return m.viewUserEditScreen()
	default:
		return "Unknown screen"
	}
}

func (m *model) getDebugInfoString() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf(" [Screen: %s]\n", m.state))
	b.WriteString(fmt.Sprintf(" [Session: %s]\n", m.sess.Phase()))
	if u := m.sess.User(); u != nil {
		b.WriteString(fmt.Sprintf(" [User: %s (%s)]\n", u.Username, u.Role))
	}
	b.WriteString(fmt.Sprintf(" [Pending route: %q]\n", m.pendingRoute))
	if l, ok := m.lists[m.state]; ok {
		b.WriteString(fmt.Sprintf(" [Pager: %s page=%d more=%t rows=%d]\n",
			l.pager.Status(), l.pager.NextPage(), l.pager.HasMore(), l.pager.Len()))
	}
	return b.String()
}

// View renders the UI.
func (m *model) View() string {
	var mainContent string
	if m.sess.Loading() {
		mainContent = m.spinner.View() + " Restoring session..."
	} else {
		mainContent = m.getMainContentView()
	}

	var footer strings.Builder
	if m.confirm != nil {
		footer.WriteString("\n" + focusedStyle.Render(m.confirm.prompt))
	}
	if m.err != nil {
		footer.WriteString("\n" + errorStyle.Render("Error: "+api.Message(m.err)))
	}
	if m.status != "" {
		footer.WriteString("\n" + statusStyle.Render(m.status))
	}
	if m.debugMode {
		footer.WriteString("\n\n---\nDebug:\n")
		footer.WriteString(m.getDebugInfoString())
	}

	help := subtleStyle.Render(m.helpTextMap[m.state])
	return fmt.Sprintf("%s\n%s%s", m.docStyle.Render(mainContent), help, footer.String())
}
