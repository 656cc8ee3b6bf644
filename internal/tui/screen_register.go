package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/models"
)

var (
	errRegisterRequired = errors.New("username, email and password are required")
	errConfirmMismatch  = errors.New("passwords do not match")
)

func (m *model) openRegister() tea.Cmd {
	m.state = registerScreen
	m.err = nil
	m.register.setValue("password", "")
	m.register.setValue("confirm", "")
	return m.register.focusIndex(0)
}

// updateRegisterScreen handles input on the registration screen.
func (m *model) updateRegisterScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.String() == keyEsc {
			m.register.blurAll()
			return m, m.openLogin()
		}
		if cmd, handled := m.register.handleKey(keyMsg, m.submitRegister); handled {
			return m, cmd
		}
	}
	return m, m.register.update(msg)
}

func (m *model) submitRegister() tea.Cmd {
	req := models.RegisterRequest{
		Username:  m.register.value("username"),
		Email:     m.register.value("email"),
		FirstName: m.register.value("firstName"),
		LastName:  m.register.value("lastName"),
		Password:  m.register.raw("password"),
	}
	switch {
	case req.Username == "" || req.Email == "" || req.Password == "":
		m.err = errRegisterRequired
		return nil
	case req.Password != m.register.raw("confirm"):
		m.err = errConfirmMismatch
		return nil
	}
	m.err = nil
	return tea.Batch(m.makeRegisterCmd(req), m.setStatusMessage("Creating account..."))
}

// handleRegisterSuccess continues signed in when the backend issued a
// session, otherwise sends the user to the login form with the username
// filled in.
func (m *model) handleRegisterSuccess(msg registerSuccessMsg) tea.Cmd {
	username := m.register.value("username")
	m.register.reset()
	m.register.blurAll()
	if msg.loggedIn {
		return tea.Batch(m.setStatusMessage("Account created"), m.afterLogin())
	}
	status := "Account created, please log in"
	if msg.resp != nil && msg.resp.Message != "" {
		status = msg.resp.Message
	}
	cmd := m.openLogin()
	m.login.setValue("username", username)
	return tea.Batch(cmd, m.login.focusIndex(1), m.setStatusMessage(status))
}

func (m *model) viewRegisterScreen() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Create an account") + "\n\n")
	b.WriteString(m.register.view(nil))
	return b.String()
}
