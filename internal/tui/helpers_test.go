//nolint:testpackage // tests drive the unexported model
package tui

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/api"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/apitest"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/credstore"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/guard"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/service"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/session"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/models"
)

const (
	testUsername  = "gooduser"
	testPassword  = "password1"
	adminUsername = "boss"
	adminPassword = "password2"

	// cmdTimeout bounds a single command; cursor blink commands take about
	// half a second.
	cmdTimeout = 3 * time.Second
)

var tuiPkgPath = reflect.TypeOf(model{}).PkgPath()

type harness struct {
	t       *testing.T
	backend *apitest.Server
	store   *credstore.Memory
	sess    *session.Session
	m       *model
	user    models.User
	admin   models.User
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	backend := apitest.New()
	t.Cleanup(backend.Close)
	store := credstore.NewMemory()
	client := api.New(backend.URL, store)
	sess := session.New(store, client)

	m := initModel(sess, service.New(client), 5*time.Second, false)
	m.statusTimeout = 0
	return &harness{
		t:       t,
		backend: backend,
		store:   store,
		sess:    sess,
		m:       m,
		user:    backend.AddUser(testUsername, testPassword, models.RoleUser),
		admin:   backend.AddUser(adminUsername, adminPassword, models.RoleAdmin),
	}
}

// restore finishes session hydration the way the program start does.
func (h *harness) restore() {
	h.t.Helper()
	h.run(h.m.restoreSessionCmd())
	require.False(h.t, h.sess.Loading())
}

// loginAs stores a valid token for u and restores the session from it.
func (h *harness) loginAs(u models.User) {
	h.t.Helper()
	require.NoError(h.t, h.store.Set(storedRecord(h, u)))
	h.restore()
	require.NotNil(h.t, h.sess.User())
}

func storedRecord(h *harness, u models.User) *credstore.Record {
	return &credstore.Record{
		ServerURL: h.backend.URL,
		Token:     h.backend.TokenFor(u),
		User:      &u,
	}
}

func (h *harness) navigate(route guard.Route) {
	h.t.Helper()
	h.run(h.m.navigate(route))
}

// press sends each key in turn and runs what it returns.
func (h *harness) press(keys ...string) {
	h.t.Helper()
	for _, k := range keys {
		_, cmd := h.m.Update(keyMsg(k))
		h.run(cmd)
	}
}

// run executes cmd, feeds every message of this package back into the
// model and repeats with the commands that produces. Messages of other
// packages (cursor blinks, spinner ticks, quit) are dropped.
func (h *harness) run(cmd tea.Cmd) {
	h.t.Helper()
	pending := []tea.Cmd{cmd}
	for len(pending) > 0 {
		msgs := h.collect(pending)
		pending = nil
		for _, msg := range msgs {
			if !ownMsg(msg) {
				continue
			}
			_, next := h.m.Update(msg)
			pending = append(pending, next)
		}
	}
}

// collect runs cmds concurrently, expanding batches, and returns the
// resulting messages in command order.
func (h *harness) collect(cmds []tea.Cmd) []tea.Msg {
	h.t.Helper()
	var leaves []tea.Cmd
	for _, c := range cmds {
		if c != nil {
			leaves = append(leaves, c)
		}
	}
	if len(leaves) == 0 {
		return nil
	}

	results := make([]tea.Msg, len(leaves))
	var wg sync.WaitGroup
	for i, c := range leaves {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = execWithTimeout(c)
		}()
	}
	wg.Wait()

	var out []tea.Msg
	for _, msg := range results {
		if batch, ok := msg.(tea.BatchMsg); ok {
			out = append(out, h.collect(batch)...)
			continue
		}
		if msg != nil {
			out = append(out, msg)
		}
	}
	return out
}

func execWithTimeout(c tea.Cmd) tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
	defer cancel()
	done := make(chan tea.Msg, 1)
	go func() { done <- c() }()
	select {
	case msg := <-done:
		return msg
	case <-ctx.Done():
		return nil
	}
}

func ownMsg(msg tea.Msg) bool {
	t := reflect.TypeOf(msg)
	if t == nil {
		return false
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.PkgPath() == tuiPkgPath
}

var namedKeys = map[string]tea.KeyType{
	"enter":     tea.KeyEnter,
	"esc":       tea.KeyEsc,
	"tab":       tea.KeyTab,
	"shift+tab": tea.KeyShiftTab,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"ctrl+s":    tea.KeyCtrlS,
	"ctrl+p":    tea.KeyCtrlP,
	"ctrl+r":    tea.KeyCtrlR,
	"ctrl+c":    tea.KeyCtrlC,
}

func keyMsg(k string) tea.KeyMsg {
	if t, ok := namedKeys[k]; ok {
		return tea.KeyMsg{Type: t}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func menuTitles(m *model) []string {
	items := m.menu.Items()
	out := make([]string, 0, len(items))
	for _, it := range items {
		if mi, ok := it.(menuItem); ok {
			out = append(out, mi.title)
		}
	}
	return out
}

// titles lists the rows of the list shown on screen.
func titles(l *recipeList) []string {
	out := make([]string, 0, l.pager.Len())
	for _, r := range l.pager.Items() {
		out = append(out, r.Title)
	}
	return out
}

func published(v bool) *bool { return &v }

func seedRecipe(h *harness, owner models.User, title string) models.Recipe {
	return h.backend.AddRecipe(owner.ID, models.Recipe{
		Title:        title,
		Description:  title + " from the test kitchen",
		Category:     models.CategoryDinner,
		PrepTime:     10,
		CookTime:     20,
		Servings:     2,
		Instructions: "Mix\nCook",
		Ingredients:  []models.Ingredient{{Name: "rice", Amount: 200, Unit: "g"}},
		Published:    published(true),
	})
}
