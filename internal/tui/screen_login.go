package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/api"
)

var (
	errCredentialsRequired = errors.New("username and password are required")
	errInvalidCredentials  = errors.New("invalid username or password")
)

func (m *model) openLogin() tea.Cmd {
	m.state = loginScreen
	m.err = nil
	m.login.setValue("password", "")
	return m.login.focusIndex(0)
}

// updateLoginScreen handles input on the login screen.
func (m *model) updateLoginScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEsc:
			m.pendingRoute = ""
			m.login.blurAll()
			return m, m.goHome()
		case "ctrl+r":
			return m, m.openRegister()
		}
		if cmd, handled := m.login.handleKey(keyMsg, m.submitLogin); handled {
			return m, cmd
		}
	}
	return m, m.login.update(msg)
}

func (m *model) submitLogin() tea.Cmd {
	username := m.login.value("username")
	password := m.login.raw("password")
	if username == "" || password == "" {
		m.err = errCredentialsRequired
		return nil
	}
	m.err = nil
	return tea.Batch(m.makeLoginCmd(username, password), m.setStatusMessage("Logging in..."))
}

func (m *model) handleLoginSuccess(msg loginSuccessMsg) tea.Cmd {
	m.err = nil
	m.login.reset()
	m.login.blurAll()
	status := m.setStatusMessage("Welcome, " + msg.user.DisplayName())
	return tea.Batch(status, m.afterLogin())
}

// handleLoginError keeps the typed values so the user can correct them.
// A rejected login is not a lost session, so HandleUnauthorized is not used.
func (m *model) handleLoginError(msg LoginError) tea.Cmd {
	m.status = ""
	m.err = msg
	if errors.Is(msg, api.ErrAuthorization) && api.Message(msg) == msg.Error() {
		m.err = errInvalidCredentials
	}
	return nil
}

// viewLoginScreen renders the login form.
func (m *model) viewLoginScreen() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Log in") + "\n\n")
	b.WriteString(m.login.view(nil))
	b.WriteString("\n" + subtleStyle.Render("No account yet? Press ctrl+r to register.") + "\n")
	return b.String()
}
