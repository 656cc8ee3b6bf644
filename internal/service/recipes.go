package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/api"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/models"
)

const (
	recipesPath = "/api/recipes"
	minePath    = recipesPath + "/my-recipes"
	searchPath  = recipesPath + "/search"
	aiListPath  = recipesPath + "/ai"
	uploadsPath = "/api/uploads"

	recipeField = "recipe"
	imageField  = "image"
	queryParam  = "query"
)

// RecipeService covers the public catalog and the author's own recipes.
type RecipeService struct {
	client *api.Client
}

func NewRecipeService(c *api.Client) *RecipeService {
	return &RecipeService{client: c}
}

// List returns a page of the published catalog.
func (s *RecipeService) List(ctx context.Context, page, size int) (models.Page[models.Recipe], error) {
	p, err := getPage[models.Recipe](ctx, s.client, recipesPath, pageQuery(page, size))
	if err != nil {
		slog.Warn("Failed to fetch recipes", "page", page, "error", err)
	}
	return p, err
}

// Mine returns a page of the current user's recipes.
func (s *RecipeService) Mine(ctx context.Context, page, size int) (models.Page[models.Recipe], error) {
	p, err := getPage[models.Recipe](ctx, s.client, minePath, pageQuery(page, size))
	if err != nil {
		slog.Warn("Failed to fetch user recipes", "page", page, "error", err)
	}
	return p, err
}

// AIGenerated returns a page of published recipes produced by the AI suggester.
func (s *RecipeService) AIGenerated(ctx context.Context, page, size int) (models.Page[models.Recipe], error) {
	p, err := getPage[models.Recipe](ctx, s.client, aiListPath, pageQuery(page, size))
	if err != nil {
		slog.Warn("Failed to fetch AI recipes", "page", page, "error", err)
	}
	return p, err
}

// Search returns a page of recipes matching query.
func (s *RecipeService) Search(ctx context.Context, query string, page, size int) (models.Page[models.Recipe], error) {
	q := pageQuery(page, size)
	q.Set(queryParam, query)
	p, err := getPage[models.Recipe](ctx, s.client, searchPath, q)
	if err != nil {
		slog.Warn("Failed to search recipes", "query", query, "error", err)
	}
	return p, err
}

// Get fetches one recipe. A non-positive id fails without a request.
func (s *RecipeService) Get(ctx context.Context, id int64) (*models.Recipe, error) {
	if id <= 0 {
		return nil, ErrMissingID
	}
	var r models.Recipe
	if err := s.client.GetJSON(ctx, idPath(recipesPath, id), nil, &r); err != nil {
		return nil, fmt.Errorf("get recipe %d: %w", id, err)
	}
	return &r, nil
}

// Create uploads a new recipe with an optional image.
func (s *RecipeService) Create(ctx context.Context, req models.RecipeRequest, image *Image) (*models.Recipe, error) {
	var r models.Recipe
	if err := s.client.PostMultipart(ctx, recipesPath, recipeMultipart(req, image), &r); err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}
	return &r, nil
}

// Update replaces recipe id; a nil image keeps the current one.
func (s *RecipeService) Update(
	ctx context.Context, id int64, req models.RecipeRequest, image *Image,
) (*models.Recipe, error) {
	if id <= 0 {
		return nil, ErrMissingID
	}
	var r models.Recipe
	if err := s.client.PutMultipart(ctx, idPath(recipesPath, id), recipeMultipart(req, image), &r); err != nil {
		return nil, fmt.Errorf("update recipe %d: %w", id, err)
	}
	return &r, nil
}

// SetPublished flips publication with a partial recipe part.
func (s *RecipeService) SetPublished(ctx context.Context, id int64, published bool) error {
	if id <= 0 {
		return ErrMissingID
	}
	body := recipeMultipart(models.PublishRequest{Published: published}, nil)
	if err := s.client.PutMultipart(ctx, idPath(recipesPath, id), body, nil); err != nil {
		return fmt.Errorf("set recipe %d published=%t: %w", id, published, err)
	}
	return nil
}

// Delete removes recipe id.
func (s *RecipeService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrMissingID
	}
	if err := s.client.Delete(ctx, idPath(recipesPath, id)); err != nil {
		return fmt.Errorf("delete recipe %d: %w", id, err)
	}
	return nil
}

// UploadURL is the absolute URL of an uploaded asset.
func (s *RecipeService) UploadURL(filename string) string {
	return UploadURL(s.client.BaseURL(), filename)
}

// UploadURL builds the asset URL for filename on baseURL. Absolute URLs are
// returned unchanged; "/api/uploads/x" and "x" resolve to the same asset.
func UploadURL(baseURL, filename string) string {
	if filename == "" {
		return ""
	}
	if u, err := url.Parse(filename); err == nil && u.IsAbs() {
		return filename
	}
	joined, err := url.JoinPath(baseURL, uploadPath(filename))
	if err != nil {
		return strings.TrimRight(baseURL, "/") + uploadPath(filename)
	}
	return joined
}

func uploadPath(filename string) string {
	if u, err := url.Parse(filename); err == nil && u.IsAbs() {
		return u.Path
	}
	if strings.HasPrefix(filename, uploadsPath+"/") {
		return filename
	}
	return uploadsPath + "/" + strings.TrimPrefix(filename, "/")
}

// Download is a streamed asset. The caller closes Body.
type Download struct {
	Body        io.ReadCloser
	ContentType string
}

// Image downloads an uploaded asset.
func (s *RecipeService) Image(ctx context.Context, filename string) (*Download, error) {
	if filename == "" {
		return nil, fmt.Errorf("download image: %w", api.ErrNotFound)
	}
	body, contentType, err := s.client.Download(ctx, uploadPath(filename))
	if err != nil {
		return nil, fmt.Errorf("download image %s: %w", filename, err)
	}
	return &Download{Body: body, ContentType: contentType}, nil
}

func recipeMultipart(part any, image *Image) *api.Multipart {
	return &api.Multipart{
		JSONField: recipeField,
		JSON:      part,
		FileField: imageField,
		File:      image,
	}
}
