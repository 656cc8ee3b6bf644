package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/guard"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/pager"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/models"
)

// openRecipeList shows screen and reloads it from the first page.
func (m *model) openRecipeList(screen screenState) tea.Cmd {
	m.state = screen
	l := m.lists[screen]
	req := l.pager.Reload()
	m.syncList(l)
	return tea.Batch(m.fetchPageCmd(screen, req), m.spinner.Tick)
}

func (m *model) openSearch() tea.Cmd {
	m.state = searchScreen
	m.searchFocused = true
	return m.searchInput.Focus()
}

// syncList copies the pager rows into the list widget.
func (m *model) syncList(l *recipeList) {
	rows := l.pager.Items()
	items := make([]list.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, recipeItem{recipe: r})
	}
	l.list.SetItems(items)
	more := ""
	if l.pager.HasMore() {
		more = "+"
	}
	l.list.Title = fmt.Sprintf("%s (%d%s)", l.title, len(rows), more)
}

func (m *model) handleRecipesPage(msg recipesPageMsg) tea.Cmd {
	l, ok := m.lists[msg.screen]
	if !ok {
		return nil
	}
	if !l.pager.Resolve(msg.req, msg.page, msg.err) {
		slog.Debug("Dropped stale page", "screen", msg.screen, "page", msg.req.Page, "query", msg.req.Query)
		return nil
	}
	m.syncList(l)
	if msg.err != nil {
		return m.handleError(msg.err)
	}
	return nil
}

// loadMore requests the next page of the list on screen, if there is one
// and nothing is in flight.
func (m *model) loadMore(screen screenState) tea.Cmd {
	l := m.lists[screen]
	req, ok := l.pager.Next()
	if !ok {
		return nil
	}
	return tea.Batch(m.fetchPageCmd(screen, req), m.spinner.Tick)
}

func (m *model) reloadList(screen screenState) tea.Cmd {
	l := m.lists[screen]
	req := l.pager.Reload()
	m.syncList(l)
	return m.fetchPageCmd(screen, req)
}

func (m *model) selectedRecipe(screen screenState) (models.Recipe, bool) {
	item, ok := m.lists[screen].list.SelectedItem().(recipeItem)
	if !ok {
		return models.Recipe{}, false
	}
	return item.recipe, true
}

// updateRecipeListScreen handles the catalog, AI and my-recipes lists.
func (m *model) updateRecipeListScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	screen := m.state
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if cmd, handled := m.handleListKey(screen, keyMsg); handled {
			return m, cmd
		}
	}
	var cmd tea.Cmd
	l := m.lists[screen]
	l.list, cmd = l.list.Update(msg)
	return m, cmd
}

func (m *model) handleListKey(screen screenState, msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case keyEsc, keyBack:
		return m.goHome(), true
	case keyEnter:
		r, ok := m.selectedRecipe(screen)
		if !ok {
			return nil, true
		}
		return m.openDetail(r, screen), true
	case keyMore:
		return m.loadMore(screen), true
	case keyReload:
		return m.reloadList(screen), true
	case keyAdd:
		return m.navigate(guard.RouteAdd), true
	}
	if screen != myRecipesScreen {
		return nil, false
	}
	r, ok := m.selectedRecipe(screen)
	switch msg.String() {
	case keyEdit:
		if ok {
			return m.openRecipeForm(&r, false, screen), true
		}
		return nil, true
	case keyDelete:
		if ok {
			m.confirmDelete(r)
		}
		return nil, true
	case keyPublish:
		if ok {
			return m.togglePublish(r), true
		}
		return nil, true
	}
	return nil, false
}

// updateSearchScreen edits the query while the input is focused and
// otherwise behaves like the other lists.
func (m *model) updateSearchScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if m.searchFocused {
		if isKey {
			switch keyMsg.String() {
			case keyEnter:
				return m, m.runSearch()
			case keyEsc:
				m.searchFocused = false
				m.searchInput.Blur()
				if m.lists[searchScreen].pager.Status() == pager.Idle {
					return m, m.goHome()
				}
				return m, nil
			case keyDown, keyTab:
				m.searchFocused = false
				m.searchInput.Blur()
				return m, nil
			}
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}
	if isKey && keyMsg.String() == keySearch {
		m.searchFocused = true
		return m, m.searchInput.Focus()
	}
	return m.updateRecipeListScreen(msg)
}

// runSearch starts over from page 0 for the typed query. Results of any
// earlier search still in flight are dropped when they arrive.
func (m *model) runSearch() tea.Cmd {
	query := strings.TrimSpace(m.searchInput.Value())
	l := m.lists[searchScreen]
	req := l.pager.Reset(query)
	m.syncList(l)
	m.searchFocused = false
	m.searchInput.Blur()
	m.err = nil
	return tea.Batch(m.fetchPageCmd(searchScreen, req), m.spinner.Tick)
}

func (m *model) viewRecipeListScreen(screen screenState) string {
	l := m.lists[screen]
	var b strings.Builder
	b.WriteString(l.list.View())
	b.WriteString("\n" + m.listFooter(l))
	return b.String()
}

func (m *model) listFooter(l *recipeList) string {
	switch {
	case l.pager.Status() == pager.Loading:
		return m.spinner.View() + " Loading..."
	case l.pager.Status() == pager.Errored:
		return errorStyle.Render("Could not load recipes. Press r to retry.")
	case l.pager.Status() == pager.Loaded && l.pager.Len() == 0:
		return subtleStyle.Render("No recipes found.")
	case l.pager.HasMore():
		return subtleStyle.Render("Press m to load more.")
	case l.pager.Status() == pager.Loaded:
		return subtleStyle.Render("End of list.")
	}
	return ""
}

func (m *model) viewSearchScreen() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Search") + "\n")
	b.WriteString(m.searchInput.View() + "\n\n")
	if m.lists[searchScreen].pager.Status() == pager.Idle {
		b.WriteString(subtleStyle.Render("Type a query and press enter."))
		return b.String()
	}
	b.WriteString(m.viewRecipeListScreen(searchScreen))
	return b.String()
}

// forEachList applies fn to every list and refreshes those it changed.
func (m *model) forEachList(fn func(l *recipeList) bool) {
	for _, l := range m.lists {
		if fn(l) {
			m.syncList(l)
		}
	}
}
