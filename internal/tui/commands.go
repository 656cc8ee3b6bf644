package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/pager"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/service"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/models"
)

// clearStatusCmd sends clearStatusMsg after delay.
func clearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// withTimeout runs fn on a command goroutine with the per-request timeout.
func (m *model) withTimeout(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return fn(ctx)
	}
}

// --- Session --- //

type sessionRestoredMsg struct {
	err error
}

type sessionChangedMsg struct{}

func (m *model) restoreSessionCmd() tea.Cmd {
	sess := m.sess
	return m.withTimeout(func(ctx context.Context) tea.Msg {
		return sessionRestoredMsg{err: sess.Restore(ctx)}
	})
}

// waitForSessionCmd blocks until the session reports a change.
func (m *model) waitForSessionCmd() tea.Cmd {
	ch := m.sessionCh
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return sessionChangedMsg{}
	}
}

type loginSuccessMsg struct {
	user *models.User
}

// LoginError is a failed login attempt.
type LoginError struct {
	err error
}

func (e LoginError) Error() string { return e.err.Error() }

func (e LoginError) Unwrap() error { return e.err }

func (m *model) makeLoginCmd(username, password string) tea.Cmd {
	sess := m.sess
	return m.withTimeout(func(ctx context.Context) tea.Msg {
		u, err := sess.Login(ctx, username, password)
		if err != nil {
			return LoginError{err: err}
		}
		return loginSuccessMsg{user: u}
	})
}

type registerSuccessMsg struct {
	resp     *models.RegisterResponse
	loggedIn bool
}

// RegisterError is a failed registration.
type RegisterError struct {
	err error
}

func (e RegisterError) Error() string { return e.err.Error() }

func (e RegisterError) Unwrap() error { return e.err }

func (m *model) makeRegisterCmd(req models.RegisterRequest) tea.Cmd {
	sess := m.sess
	return m.withTimeout(func(ctx context.Context) tea.Msg {
		resp, err := sess.Register(ctx, req)
		if err != nil {
			return RegisterError{err: err}
		}
		return registerSuccessMsg{resp: resp, loggedIn: sess.User() != nil}
	})
}

// --- Recipes --- //

type recipesPageMsg struct {
	screen screenState
	req    pager.Request
	page   models.Page[models.Recipe]
	err    error
}

type recipeLoadedMsg struct {
	recipe *models.Recipe
	err    error
}

type recipeSavedMsg struct {
	recipe  *models.Recipe
	created bool
	err     error
}

type recipeDeletedMsg struct {
	id  int64
	err error
}

type recipePublishedMsg struct {
	id        int64
	published bool
	err       error
}

func (m *model) fetchPageCmd(screen screenState, req pager.Request) tea.Cmd {
	l := m.lists[screen]
	svc := m.svc
	return m.withTimeout(func(ctx context.Context) tea.Msg {
		page, err := l.fetch(ctx, svc, req)
		return recipesPageMsg{screen: screen, req: req, page: page, err: err}
	})
}

func (m *model) loadRecipeCmd(id int64) tea.Cmd {
	recipes := m.svc.Recipes
	return m.withTimeout(func(ctx context.Context) tea.Msg {
		r, err := recipes.Get(ctx, id)
		return recipeLoadedMsg{recipe: r, err: err}
	})
}

func (m *model) saveRecipeCmd(id int64, req models.RecipeRequest, imagePath string) tea.Cmd {
	recipes := m.svc.Recipes
	return m.withTimeout(func(ctx context.Context) tea.Msg {
		image, closeImage, err := openImage(imagePath)
		if err != nil {
			return recipeSavedMsg{err: err}
		}
		defer closeImage()

		var r *models.Recipe
		if id == 0 {
			r, err = recipes.Create(ctx, req, image)
		} else {
			r, err = recipes.Update(ctx, id, req, image)
		}
		return recipeSavedMsg{recipe: r, created: id == 0, err: err}
	})
}

func (m *model) deleteRecipeCmd(id int64) tea.Cmd {
	recipes := m.svc.Recipes
	return m.withTimeout(func(ctx context.Context) tea.Msg {
		return recipeDeletedMsg{id: id, err: recipes.Delete(ctx, id)}
	})
}

func (m *model) publishRecipeCmd(id int64, published bool) tea.Cmd {
	recipes := m.svc.Recipes
	return m.withTimeout(func(ctx context.Context) tea.Msg {
		err := recipes.SetPublished(ctx, id, published)
		return recipePublishedMsg{id: id, published: published, err: err}
	})
}

// --- Profile --- //

type profileSavedMsg struct {
	user *models.User
	err  error
}

type passwordSavedMsg struct {
	err error
}

func (m *model) updateProfileCmd(req models.ProfileUpdateRequest) tea.Cmd {
	users := m.svc.Users
	return m.withTimeout(func(ctx context.Context) tea.Msg {
		u, err := users.UpdateProfile(ctx, req)
		return profileSavedMsg{user: u, err: err}
	})
}

func (m *model) updatePasswordCmd(req models.PasswordUpdateRequest) tea.Cmd {
	users := m.svc.Users
	return m.withTimeout(func(ctx context.Context) tea.Msg {
		return passwordSavedMsg{err: users.UpdatePassword(ctx, req)}
	})
}

func (m *model) updatePictureCmd(path string) tea.Cmd {
	users := m.svc.Users
	return m.withTimeout(func(ctx context.Context) tea.Msg {
		image, closeImage, err := openImage(path)
		if err != nil {
			return profileSavedMsg{err: err}
		}
		defer closeImage()
		u, err := users.UpdatePicture(ctx, image)
		return profileSavedMsg{user: u, err: err}
	})
}

// --- AI --- //

type suggestionMsg struct {
	suggestion *models.Suggestion
	err        error
}

func (m *model) suggestCmd(ingredients []string) tea.Cmd {
	ai := m.svc.AI
	return m.withTimeout(func(ctx context.Context) tea.Msg {
		s, err := ai.Suggest(ctx, ingredients)
		return suggestionMsg{suggestion: s, err: err}
	})
}

// --- Admin --- //

type dashboardMsg struct {
	dash *service.Dashboard
	err  error
}

type adminUserSavedMsg struct {
	resp *models.AdminUserUpdateResponse
	err  error
}

// adminDoneMsg reports a finished admin write; status is shown on success.
type adminDoneMsg struct {
	status string
	err    error
}

func (m *model) loadDashboardCmd() tea.Cmd {
	admin := m.svc.Admin
	return m.withTimeout(func(ctx context.Context) tea.Msg {
		d, err := admin.Dashboard(ctx)
		return dashboardMsg{dash: d, err: err}
	})
}

func (m *model) adminUpdateUserCmd(id int64, req models.AdminUserUpdateRequest) tea.Cmd {
	admin := m.svc.Admin
	return m.withTimeout(func(ctx context.Context) tea.Msg {
		resp, err := admin.UpdateUser(ctx, id, req)
		return adminUserSavedMsg{resp: resp, err: err}
	})
}

func (m *model) adminDeleteUserCmd(id int64) tea.Cmd {
	admin := m.svc.Admin
	return m.withTimeout(func(ctx context.Context) tea.Msg {
		return adminDoneMsg{status: "User deleted", err: admin.DeleteUser(ctx, id)}
	})
}

func (m *model) adminUpdateRecipeCmd(id int64, req models.AdminRecipeUpdateRequest) tea.Cmd {
	admin := m.svc.Admin
	return m.withTimeout(func(ctx context.Context) tea.Msg {
		return adminDoneMsg{status: "Recipe updated", err: admin.UpdateRecipe(ctx, id, req)}
	})
}

func (m *model) adminDeleteRecipeCmd(id int64) tea.Cmd {
	admin := m.svc.Admin
	return m.withTimeout(func(ctx context.Context) tea.Msg {
		return adminDoneMsg{status: "Recipe deleted", err: admin.DeleteRecipe(ctx, id)}
	})
}

// --- Files --- //

// openImage opens the image at path for upload. An empty path means no
// image; the returned close func is then a no-op.
func openImage(path string) (*service.Image, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open image: %w", err)
	}
	info, err := f.Stat()
	if err != nil || info.IsDir() {
		_ = f.Close()
		if err == nil {
			err = errors.New("is a directory")
		}
		return nil, nil, fmt.Errorf("open image %s: %w", path, err)
	}
	image := &service.Image{
		Name:        filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Content:     io.Reader(f),
	}
	return image, func() {
		if errClose := f.Close(); errClose != nil {
			slog.Warn("Failed to close image", "path", path, "error", errClose)
		}
	}, nil
}
