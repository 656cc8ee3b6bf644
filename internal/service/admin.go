package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/api"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/models"
)

const (
	adminStatsPath   = "/api/admin/stats"
	adminUsersPath   = "/api/admin/users"
	adminRecipesPath = "/api/admin/recipes"

	// DashboardPageSize is how many recipes the dashboard loads at once.
	DashboardPageSize = 100
)

// AdminService is the moderation API. Every call needs an ADMIN session.
type AdminService struct {
	client *api.Client
}

func NewAdminService(c *api.Client) *AdminService {
	return &AdminService{client: c}
}

// Dashboard is everything the admin screen shows.
type Dashboard struct {
	Stats   models.AdminStats
	Users   []models.UserSummary
	Recipes []models.Recipe
}

// Stats returns site-wide counters.
func (s *AdminService) Stats(ctx context.Context) (*models.AdminStats, error) {
	var stats models.AdminStats
	if err := s.client.GetJSON(ctx, adminStatsPath, nil, &stats); err != nil {
		return nil, fmt.Errorf("get admin stats: %w", err)
	}
	return &stats, nil
}

// Users returns every account with missing fields defaulted.
func (s *AdminService) Users(ctx context.Context) ([]models.UserSummary, error) {
	var users []models.UserSummary
	if err := s.client.GetJSON(ctx, adminUsersPath, nil, &users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	for i := range users {
		NormalizeUser(&users[i])
	}
	if users == nil {
		users = []models.UserSummary{}
	}
	return users, nil
}

// Recipes returns a page of all recipes, published or not, normalized.
func (s *AdminService) Recipes(ctx context.Context, page, size int) (models.Page[models.Recipe], error) {
	p, err := getPage[models.Recipe](ctx, s.client, adminRecipesPath, pageQuery(page, size))
	if err != nil {
		return p, fmt.Errorf("list admin recipes: %w", err)
	}
	for i := range p.Content {
		NormalizeRecipe(&p.Content[i])
	}
	return p, nil
}

// Dashboard fetches stats, users and recipes concurrently. The first failure
// cancels the others and is returned.
func (s *AdminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.Stats(gctx)
		if err != nil {
			return err
		}
		d.Stats = *stats
		return nil
	})
	g.Go(func() error {
		users, err := s.Users(gctx)
		d.Users = users
		return err
	})
	g.Go(func() error {
		page, err := s.Recipes(gctx, 0, DashboardPageSize)
		d.Recipes = page.Content
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load admin dashboard: %w", err)
	}
	return &d, nil
}

// UpdateUser edits any account. When an admin edits themselves the response
// carries SelfUpdate and a fresh token.
func (s *AdminService) UpdateUser(
	ctx context.Context, id int64, req models.AdminUserUpdateRequest,
) (*models.AdminUserUpdateResponse, error) {
	var resp models.AdminUserUpdateResponse
	if err := s.client.PutJSON(ctx, idPath(adminUsersPath, id), req, &resp); err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	return &resp, nil
}

// UpdateRecipe edits any recipe through the admin endpoint.
func (s *AdminService) UpdateRecipe(ctx context.Context, id int64, req models.AdminRecipeUpdateRequest) error {
	if id <= 0 {
		return ErrMissingID
	}
	if err := s.client.PutJSON(ctx, idPath(adminRecipesPath, id), req, nil); err != nil {
		return fmt.Errorf("update recipe %d: %w", id, err)
	}
	return nil
}

// DeleteUser removes an account.
func (s *AdminService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, idPath(adminUsersPath, id)); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}

// DeleteRecipe removes any recipe.
func (s *AdminService) DeleteRecipe(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrMissingID
	}
	if err := s.client.Delete(ctx, idPath(adminRecipesPath, id)); err != nil {
		return fmt.Errorf("delete recipe %d: %w", id, err)
	}
	return nil
}

// NormalizeUser fills the defaults the admin screens expect.
func NormalizeUser(u *models.UserSummary) {
	if u.Role == "" {
		u.Role = models.RoleUser
	}
}

// NormalizeRecipe fills the defaults the admin screens expect: no
// ingredients, one serving, BREAKFAST and published unless stated otherwise.
func NormalizeRecipe(r *models.Recipe) {
	if r.Ingredients == nil {
		r.Ingredients = []models.Ingredient{}
	}
	if r.Servings == 0 {
		r.Servings = 1
	}
	if r.Category == "" {
		r.Category = models.CategoryBreakfast
	}
	if r.Published == nil {
		published := true
		r.Published = &published
	}
}
