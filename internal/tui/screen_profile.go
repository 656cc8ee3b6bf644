package tui

import (
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/service"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/models"
)

func (m *model) openProfile() tea.Cmd {
	m.state = profileScreen
	m.err = nil
	return nil
}

func (m *model) updateProfileScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case keyEsc, keyBack:
		return m, m.goHome()
	case keyEdit:
		u := m.sess.User()
		if u == nil {
			return m, nil
		}
		m.profileForm.setValue("username", u.Username)
		m.profileForm.setValue("email", u.Email)
		m.profileForm.setValue("firstName", u.FirstName)
		m.profileForm.setValue("lastName", u.LastName)
		m.state = profileEditScreen
		return m, m.profileForm.focusIndex(0)
	case keyPublish:
		m.state = passwordScreen
		return m, m.passwordForm.reset()
	case "i":
		m.state = pictureScreen
		return m, m.pictureForm.reset()
	}
	return m, nil
}

// activeProfileForm is the form of the current profile sub-screen.
func (m *model) activeProfileForm() (*fieldSet, func() tea.Cmd) {
	switch m.state {
	case passwordScreen:
		return &m.passwordForm, m.submitPassword
	case pictureScreen:
		return &m.pictureForm, m.submitPicture
	default:
		return &m.profileForm, m.submitProfile
	}
}

func (m *model) updateProfileFormScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	fs, submit := m.activeProfileForm()
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.String() == keyEsc {
			fs.blurAll()
			m.err = nil
			m.state = profileScreen
			return m, nil
		}
		if cmd, handled := fs.handleKey(keyMsg, submit); handled {
			return m, cmd
		}
	}
	return m, fs.update(msg)
}

func (m *model) submitProfile() tea.Cmd {
	req := models.ProfileUpdateRequest{
		Username:  m.profileForm.value("username"),
		Email:     m.profileForm.value("email"),
		FirstName: m.profileForm.value("firstName"),
		LastName:  m.profileForm.value("lastName"),
		Bio:       m.profileForm.value("bio"),
	}
	m.err = nil
	return tea.Batch(m.updateProfileCmd(req), m.setStatusMessage("Saving profile..."))
}

func (m *model) submitPassword() tea.Cmd {
	req := models.PasswordUpdateRequest{
		CurrentPassword: m.passwordForm.raw("current"),
		NewPassword:     m.passwordForm.raw("new"),
		ConfirmPassword: m.passwordForm.raw("confirm"),
	}
	if req.NewPassword != req.ConfirmPassword {
		m.err = service.ErrPasswordMismatch
		return nil
	}
	m.err = nil
	return tea.Batch(m.updatePasswordCmd(req), m.setStatusMessage("Changing password..."))
}

func (m *model) submitPicture() tea.Cmd {
	path := m.pictureForm.value(fieldImage)
	if path == "" {
		m.err = service.ErrImageRequired
		return nil
	}
	m.err = nil
	return tea.Batch(m.updatePictureCmd(path), m.setStatusMessage("Uploading picture..."))
}

// handleProfileSaved stores the returned account in the session, including
// a refreshed token when the username changed.
func (m *model) handleProfileSaved(msg profileSavedMsg) tea.Cmd {
	if msg.err != nil {
		return m.handleError(msg.err)
	}
	if err := m.sess.UpdateUser(*msg.user); err != nil {
		slog.Error("Failed to store updated profile", "error", err)
		m.err = err
		return nil
	}
	m.err = nil
	m.profileForm.blurAll()
	m.pictureForm.blurAll()
	m.state = profileScreen
	m.rebuildMenu()
	return m.setStatusMessage("Profile updated")
}

func (m *model) handlePasswordSaved(msg passwordSavedMsg) tea.Cmd {
	if msg.err != nil {
		return m.handleError(msg.err)
	}
	m.err = nil
	m.passwordForm.reset()
	m.passwordForm.blurAll()
	m.state = profileScreen
	return m.setStatusMessage("Password changed")
}

func (m *model) viewProfileScreen() string {
	u := m.sess.User()
	if u == nil {
		return subtleStyle.Render("Not logged in.")
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(u.DisplayName()) + " " + badgeStyle.Render(string(u.Role)) + "\n\n")
	rows := [][2]string{
		{"Username", u.Username},
		{"Email", u.Email},
		{"First name", u.FirstName},
		{"Last name", u.LastName},
	}
	if u.ProfilePicture != "" {
		rows = append(rows, [2]string{"Picture", m.svc.Recipes.UploadURL(u.ProfilePicture)})
	}
	if u.CreatedAt != nil {
		rows = append(rows, [2]string{"Member since", u.CreatedAt.Format("2006-01-02")})
	}
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render(fmt.Sprintf("%-13s", row[0]+":")), row[1]))
	}
	return b.String()
}

func (m *model) viewProfileFormScreen() string {
	var title string
	switch m.state {
	case passwordScreen:
		title = "Change password"
	case pictureScreen:
		title = "Upload profile picture"
	default:
		title = "Edit profile"
	}
	fs, _ := m.activeProfileForm()
	return titleStyle.Render(title) + "\n\n" + fs.view(nil)
}
