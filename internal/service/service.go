// Package service wraps the GFGM REST endpoints in typed calls. Each method is
// one request plus whatever normalization the screens rely on.
package service

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/api"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/models"
)

// DefaultPageSize is used when a caller passes a non-positive size.
const DefaultPageSize = 10

var (
	// ErrMissingID is returned before any request for a zero or negative id.
	ErrMissingID = errors.New("recipe ID is required")
	// ErrImageRequired is returned when an upload has no image.
	ErrImageRequired = errors.New("an image is required")
	// ErrPasswordMismatch means the new password and its confirmation differ.
	ErrPasswordMismatch = errors.New("new passwords do not match")
	// ErrNoIngredients is returned when an AI suggestion is asked for nothing.
	ErrNoIngredients = errors.New("enter at least one ingredient")
)

// Services bundles every domain service over one API client.
type Services struct {
	Recipes *RecipeService
	Users   *UserService
	Admin   *AdminService
	AI      *AIService
}

// New builds all services on top of c.
func New(c *api.Client) *Services {
	return &Services{
		Recipes: NewRecipeService(c),
		Users:   NewUserService(c),
		Admin:   NewAdminService(c),
		AI:      NewAIService(c),
	}
}

// Image is an optional file attached to a multipart request.
type Image = api.File

func pageQuery(page, size int) url.Values {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	return url.Values{
		"page": {strconv.Itoa(page)},
		"size": {strconv.Itoa(size)},
	}
}

func idPath(prefix string, id int64) string {
	return prefix + "/" + strconv.FormatInt(id, 10)
}

// getPage reads a page and degrades to an empty last page on failure; the
// error is still returned so the screen can show a banner.
func getPage[T any](ctx context.Context, c *api.Client, path string, query url.Values) (models.Page[T], error) {
	var page models.Page[T]
	if err := c.GetJSON(ctx, path, query, &page); err != nil {
		return models.EmptyPage[T](), err
	}
	if page.Content == nil {
		page.Content = []T{}
	}
	return page, nil
}
