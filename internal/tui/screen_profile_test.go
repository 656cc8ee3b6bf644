//nolint:testpackage // tests drive the unexported model
package tui

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/guard"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/service"
)

func TestProfile_Edit(t *testing.T) {
	h := newHarness(t)
	h.loginAs(h.user)
	h.navigate(guard.RouteProfile)
	require.Equal(t, profileScreen, h.m.state)

	h.press("e")
	require.Equal(t, profileEditScreen, h.m.state)
	assert.Equal(t, testUsername, h.m.profileForm.value("username"))

	h.m.profileForm.setValue("firstName", "Goodie")
	h.press("ctrl+s")

	assert.Equal(t, profileScreen, h.m.state)
	assert.Equal(t, "Profile updated", h.m.status)
	require.NotNil(t, h.sess.User())
	assert.Equal(t, "Goodie", h.sess.User().FirstName)
	stored, _ := h.backend.User(h.user.ID)
	assert.Equal(t, "Goodie", stored.FirstName)
}

func TestProfile_ClearLastName(t *testing.T) {
	h := newHarness(t)
	h.loginAs(h.user)
	h.navigate(guard.RouteProfile)

	h.press("e")
	h.m.profileForm.setValue("lastName", "Doe")
	h.press("ctrl+s")
	require.Equal(t, "Doe", h.sess.User().LastName)

	h.press("e")
	require.Equal(t, "Doe", h.m.profileForm.value("lastName"))
	h.m.profileForm.setValue("lastName", "")
	h.press("ctrl+s")

	assert.Equal(t, profileScreen, h.m.state)
	require.NotNil(t, h.sess.User())
	assert.Empty(t, h.sess.User().LastName)
	stored, _ := h.backend.User(h.user.ID)
	assert.Empty(t, stored.LastName)
	rec, err := h.store.Get()
	require.NoError(t, err)
	assert.Empty(t, rec.User.LastName)
}

func TestProfile_PasswordMismatchSendsNothing(t *testing.T) {
	h := newHarness(t)
	h.loginAs(h.user)
	h.navigate(guard.RouteProfile)
	h.press("p")
	require.Equal(t, passwordScreen, h.m.state)

	h.m.passwordForm.setValue("current", testPassword)
	h.m.passwordForm.setValue("new", "newpass1")
	h.m.passwordForm.setValue("confirm", "newpass2")
	h.press("ctrl+s")

	assert.ErrorIs(t, h.m.err, service.ErrPasswordMismatch)
	assert.Zero(t, h.backend.Hits(http.MethodPut, "/api/users/profile/password"))
}

func TestProfile_PasswordChanged(t *testing.T) {
	h := newHarness(t)
	h.loginAs(h.user)
	h.navigate(guard.RouteProfile)
	h.press("p")

	h.m.passwordForm.setValue("current", testPassword)
	h.m.passwordForm.setValue("new", "newpass1")
	h.m.passwordForm.setValue("confirm", "newpass1")
	h.press("ctrl+s")

	assert.NoError(t, h.m.err)
	assert.Equal(t, profileScreen, h.m.state)
	assert.Equal(t, "Password changed", h.m.status)
	assert.Empty(t, h.m.passwordForm.raw("current"))
}

func TestProfile_WrongCurrentPassword(t *testing.T) {
	h := newHarness(t)
	h.loginAs(h.user)
	h.navigate(guard.RouteProfile)
	h.press("p")

	h.m.passwordForm.setValue("current", "not-my-password")
	h.m.passwordForm.setValue("new", "newpass1")
	h.m.passwordForm.setValue("confirm", "newpass1")
	h.press("ctrl+s")

	assert.Equal(t, passwordScreen, h.m.state)
	require.Error(t, h.m.err)
	assert.Contains(t, h.m.View(), "Current password is incorrect")
	assert.NotNil(t, h.sess.User(), "a rejected password is not a logout")
}

func TestProfile_Picture(t *testing.T) {
	h := newHarness(t)
	h.loginAs(h.user)
	h.navigate(guard.RouteProfile)
	h.press("i")
	require.Equal(t, pictureScreen, h.m.state)

	h.press("ctrl+s")
	assert.ErrorIs(t, h.m.err, service.ErrImageRequired)

	img := filepath.Join(t.TempDir(), "me.jpg")
	require.NoError(t, os.WriteFile(img, []byte("jpeg bytes"), 0o600))
	h.m.pictureForm.setValue(fieldImage, img)
	h.press("ctrl+s")

	assert.Equal(t, profileScreen, h.m.state)
	require.NotNil(t, h.sess.User())
	assert.NotEmpty(t, h.sess.User().ProfilePicture)
	assert.Contains(t, h.m.View(), "Picture:")
}

func TestProfile_EscBacksOut(t *testing.T) {
	h := newHarness(t)
	h.loginAs(h.user)
	h.navigate(guard.RouteProfile)

	h.press("e", "esc")
	assert.Equal(t, profileScreen, h.m.state)

	h.press("esc")
	assert.Equal(t, homeScreen, h.m.state)
}
