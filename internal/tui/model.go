package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/form"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/guard"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/pager"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/service"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/session"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/models"
)

// Screens of the application. Each page has exactly one screen.
type screenState int

const (
	homeScreen screenState = iota
	loginScreen
	registerScreen
	catalogScreen
	searchScreen
	aiRecipesScreen
	myRecipesScreen
	detailScreen
	recipeFormScreen
	profileScreen
	profileEditScreen
	passwordScreen
	pictureScreen
	suggestScreen
	adminScreen
	adminUserEditScreen
)

var screenNames = map[screenState]string{
	homeScreen:          "home",
	loginScreen:         "login",
	registerScreen:      "register",
	catalogScreen:       "catalog",
	searchScreen:        "search",
	aiRecipesScreen:     "ai-recipes",
	myRecipesScreen:     "my-recipes",
	detailScreen:        "detail",
	recipeFormScreen:    "recipe-form",
	profileScreen:       "profile",
	profileEditScreen:   "profile-edit",
	passwordScreen:      "password",
	pictureScreen:       "picture",
	suggestScreen:       "ai-suggest",
	adminScreen:         "admin",
	adminUserEditScreen: "admin-user-edit",
}

func (s screenState) String() string {
	if name, ok := screenNames[s]; ok {
		return name
	}
	return fmt.Sprintf("screen(%d)", int(s))
}

// screenRoutes maps every screen to the route the guard checks for it.
var screenRoutes = map[screenState]guard.Route{
	homeScreen:          guard.RouteHome,
	loginScreen:         guard.RouteLogin,
	registerScreen:      guard.RouteRegister,
	catalogScreen:       guard.RouteRecipes,
	searchScreen:        guard.RouteSearch,
	aiRecipesScreen:     guard.RouteAIRecipes,
	myRecipesScreen:     guard.RouteMine,
	detailScreen:        guard.RouteRecipe,
	recipeFormScreen:    guard.RouteEdit,
	profileScreen:       guard.RouteProfile,
	profileEditScreen:   guard.RouteProfile,
	passwordScreen:      guard.RouteProfile,
	pictureScreen:       guard.RouteProfile,
	suggestScreen:       guard.RouteSuggest,
	adminScreen:         guard.RouteAdmin,
	adminUserEditScreen: guard.RouteAdmin,
}

const (
	defaultListWidth  = 80
	defaultListHeight = 20
	inputOffset       = 4

	keyEnter    = "enter"
	keyQuit     = "q"
	keyBack     = "b"
	keyEsc      = "esc"
	keyEdit     = "e"
	keyAdd      = "a"
	keyDelete   = "d"
	keyPublish  = "p"
	keyMore     = "m"
	keyReload   = "r"
	keySearch   = "/"
	keyTab      = "tab"
	keyShiftTab = "shift+tab"
	keyUp       = "up"
	keyDown     = "down"
	keySubmit   = "ctrl+s"
	keyToggle   = "ctrl+p"
	keyCtrlC    = "ctrl+c"
)

// recipeItem is a recipe row in a list. Implements list.Item.
type recipeItem struct {
	recipe models.Recipe
}

func (i recipeItem) Title() string {
	title := i.recipe.Title
	if i.recipe.GeneratedByAI {
		title += " [AI]"
	}
	if !i.recipe.IsPublished() {
		title += " [draft]"
	}
	return title
}

func (i recipeItem) Description() string {
	parts := []string{}
	if i.recipe.Category != "" {
		parts = append(parts, i.recipe.Category.Label())
	}
	if total := i.recipe.TotalTime(); total > 0 {
		parts = append(parts, fmt.Sprintf("%d min", total))
	}
	if i.recipe.Author != nil {
		parts = append(parts, "by "+i.recipe.Author.Username)
	}
	return strings.Join(parts, " | ")
}

func (i recipeItem) FilterValue() string { return i.recipe.Title }

// menuItem is an entry of the home menu. Either route or action is set.
type menuItem struct {
	title  string
	desc   string
	route  guard.Route
	action string
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

type recipePager = pager.Pager[models.Recipe, int64]

// recipeList is the state of one "load more" recipe screen.
type recipeList struct {
	title string
	pager *recipePager
	list  list.Model
	fetch pageFetcher
}

// recipeForm is the add/edit screen. In admin mode the lenient admin
// conversion is used instead of validation.
type recipeForm struct {
	fields     fieldSet
	published  bool
	editingID  int64
	admin      bool
	errs       form.FieldErrors
	submitting bool
	returnTo   screenState
}

type adminTab int

const (
	adminStatsTab adminTab = iota
	adminUsersTab
	adminRecipesTab
	numAdminTabs
)

func (t adminTab) String() string {
	switch t {
	case adminStatsTab:
		return "Stats"
	case adminUsersTab:
		return "Users"
	default:
		return "Recipes"
	}
}

type adminState struct {
	dash    *service.Dashboard
	tab     adminTab
	cursor  int
	loading bool
}

// confirmation is a y/n prompt shown over the current screen.
type confirmation struct {
	prompt string
	onYes  func() tea.Cmd
}

// model is the state of the TUI.
type model struct {
	state        screenState
	pendingRoute guard.Route

	sess        *session.Session
	svc         *service.Services
	timeout     time.Duration
	sessionCh   <-chan struct{}
	unsubscribe func()

	debugMode     bool
	width         int
	height        int
	docStyle      lipgloss.Style
	spinner       spinner.Model
	helpTextMap   map[screenState]string
	status        string
	statusTimeout time.Duration
	err           error

	menu list.Model

	login    fieldSet
	register fieldSet

	lists         map[screenState]*recipeList
	searchInput   textinput.Model
	searchFocused bool

	detail       *models.Recipe
	detailReturn screenState
	detailView   viewport.Model

	recipeForm recipeForm
	confirm    *confirmation

	profileForm  fieldSet
	passwordForm fieldSet
	pictureForm  fieldSet

	suggestInput textarea.Model
	suggestion   *models.Suggestion
	suggesting   bool

	admin       adminState
	userForm    fieldSet
	editingUser int64
}

// clearStatusMsg clears the status line.
type clearStatusMsg struct{}
