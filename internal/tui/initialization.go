package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/form"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/pager"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/service"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/session"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/models"
)

const (
	docStyleMarginVertical   = 1
	docStyleMarginHorizontal = 2
	statusMessageTimeout     = 3 * time.Second
	defaultRequestTimeout    = 15 * time.Second
)

// pageFetcher loads one page for a recipe list.
type pageFetcher func(ctx context.Context, svc *service.Services, req pager.Request) (models.Page[models.Recipe], error)

func initRecipeList(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("212")).
		BorderLeftForeground(lipgloss.Color("212"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("240")).
		BorderLeftForeground(lipgloss.Color("212"))

	l := list.New([]list.Item{}, delegate, defaultListWidth, defaultListHeight)
	l.Title = title
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	// Searching goes through the backend, so local filtering is off.
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.Styles.Title = list.DefaultStyles().Title.Bold(true)
	return l
}

func initRecipeLists() map[screenState]*recipeList {
	size := service.DefaultPageSize
	newList := func(title string, fetch pageFetcher) *recipeList {
		return &recipeList{
			title: title,
			pager: pager.New(models.RecipeKey),
			list:  initRecipeList(title),
			fetch: fetch,
		}
	}
	return map[screenState]*recipeList{
		catalogScreen: newList("Recipes", func(ctx context.Context, svc *service.Services, req pager.Request) (models.Page[models.Recipe], error) {
			return svc.Recipes.List(ctx, req.Page, size)
		}),
		searchScreen: newList("Search results", func(ctx context.Context, svc *service.Services, req pager.Request) (models.Page[models.Recipe], error) {
			return svc.Recipes.Search(ctx, req.Query, req.Page, size)
		}),
		aiRecipesScreen: newList("AI recipes", func(ctx context.Context, svc *service.Services, req pager.Request) (models.Page[models.Recipe], error) {
			return svc.Recipes.AIGenerated(ctx, req.Page, size)
		}),
		myRecipesScreen: newList("My recipes", func(ctx context.Context, svc *service.Services, req pager.Request) (models.Page[models.Recipe], error) {
			return svc.Recipes.Mine(ctx, req.Page, size)
		}),
	}
}

func initMenu() list.Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), defaultListWidth, defaultListHeight)
	l.Title = "Good Food Good Mood"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.Styles.Title = list.DefaultStyles().Title.Bold(true)
	return l
}

func initSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "Search recipes"
	ti.CharLimit = inputCharLimit
	ti.Width = inputWidth
	return ti
}

func initLoginForm() fieldSet {
	return newFieldSet(
		newTextField("username", "Username", "Username"),
		newPasswordField("password", "Password"),
	)
}

func initRegisterForm() fieldSet {
	return newFieldSet(
		newTextField("username", "Username", "Username"),
		newTextField("email", "Email", "you@example.com"),
		newTextField("firstName", "First name", "optional"),
		newTextField("lastName", "Last name", "optional"),
		newPasswordField("password", "Password"),
		newPasswordField("confirm", "Confirm password"),
	)
}

func categoryHint() string {
	names := make([]string, 0, len(models.Categories()))
	for _, c := range models.Categories() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

func initRecipeFields() fieldSet {
	category := newTextField(form.FieldCategory, "Category", string(models.CategoryBreakfast))
	category.label = "Category (" + categoryHint() + ")"
	return newFieldSet(
		newTextField(form.FieldTitle, "Title", "Title"),
		newTextField(form.FieldDescription, "Description", "optional"),
		category,
		newTextField(form.FieldPrepTime, "Prep time (min)", "10"),
		newTextField(form.FieldCookTime, "Cook time (min)", "20"),
		newTextField(form.FieldServings, "Servings", "2"),
		newAreaField(form.FieldIngredients, "Ingredients (one per line: name amount unit)", "rolled oats 80 g"),
		newAreaField(form.FieldInstructions, "Instructions (one step per line)", "Boil water"),
		newTextField(form.FieldCalories, "Calories", "0"),
		newTextField(form.FieldProtein, "Protein (g)", "0"),
		newTextField(form.FieldCarbs, "Carbs (g)", "0"),
		newTextField(form.FieldFat, "Fat (g)", "0"),
		newTextField(form.FieldFiber, "Fiber (g)", "0"),
		newTextField(form.FieldSugar, "Sugar (g)", "0"),
		newTextField(fieldImage, "Image file", "optional path to a .jpg or .png"),
	)
}

func initProfileForm() fieldSet {
	return newFieldSet(
		newTextField("username", "Username", "Username"),
		newTextField("email", "Email", "Email"),
		newTextField("firstName", "First name", "First name"),
		newTextField("lastName", "Last name", "Last name"),
		newTextField("bio", "Bio", "optional"),
	)
}

func initPasswordForm() fieldSet {
	return newFieldSet(
		newPasswordField("current", "Current password"),
		newPasswordField("new", "New password"),
		newPasswordField("confirm", "Confirm new password"),
	)
}

func initPictureForm() fieldSet {
	return newFieldSet(newTextField(fieldImage, "Picture file", "path to a .jpg or .png"))
}

func initUserForm() fieldSet {
	return newFieldSet(
		newTextField("username", "Username", "Username"),
		newTextField("email", "Email", "Email"),
		newTextField("firstName", "First name", "First name"),
		newTextField("lastName", "Last name", "Last name"),
		newTextField("role", "Role (USER or ADMIN)", string(models.RoleUser)),
		newPasswordField("password", "New password (blank keeps it)"),
	)
}

func initSuggestInput() textarea.Model {
	ta := textarea.New()
	ta.Placeholder = "chicken, rice, broccoli"
	ta.CharLimit = areaCharLimit
	ta.ShowLineNumbers = false
	ta.SetWidth(inputWidth + inputOffset)
	ta.SetHeight(areaHeight)
	return ta
}

func initSpinner() spinner.Model {
	return spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("205"))),
	)
}

func initDocStyle() lipgloss.Style {
	return lipgloss.NewStyle().Margin(docStyleMarginVertical, docStyleMarginHorizontal)
}

// initModel builds the starting model on top of an unrestored session.
func initModel(sess *session.Session, svc *service.Services, timeout time.Duration, debugMode bool) *model {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	m := &model{
		state:         homeScreen,
		sess:          sess,
		svc:           svc,
		timeout:       timeout,
		debugMode:     debugMode,
		width:         defaultListWidth,
		height:        defaultListHeight,
		docStyle:      initDocStyle(),
		spinner:       initSpinner(),
		helpTextMap:   initHelpTextMap(),
		statusTimeout: statusMessageTimeout,
		menu:          initMenu(),
		login:         initLoginForm(),
		register:      initRegisterForm(),
		lists:         initRecipeLists(),
		searchInput:   initSearchInput(),
		detailView:    viewport.New(defaultListWidth, defaultListHeight),
		recipeForm:    recipeForm{fields: initRecipeFields()},
		profileForm:   initProfileForm(),
		passwordForm:  initPasswordForm(),
		pictureForm:   initPictureForm(),
		suggestInput:  initSuggestInput(),
		userForm:      initUserForm(),
	}
	m.rebuildMenu()
	return m
}
