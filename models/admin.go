package models

// AdminStats is the body of GET /api/admin/stats.
type AdminStats struct {
	TotalUsers         int64 `json:"totalUsers"`
	TotalRecipes       int64 `json:"totalRecipes"`
	AIGeneratedRecipes int64 `json:"aiGeneratedRecipes"`
	ActiveUsers        int64 `json:"activeUsers,omitempty"`
	PublishedRecipes   int64 `json:"publishedRecipes,omitempty"`
}

// AIShare is the percentage of recipes generated by the AI suggester.
func (s AdminStats) AIShare() int {
	if s.TotalRecipes == 0 {
		return 0
	}
	return int(s.AIGeneratedRecipes * 100 / s.TotalRecipes)
}

// AdminUserUpdateRequest is the body of PUT /api/admin/users/{id}.
// An empty password leaves the current one unchanged.
type AdminUserUpdateRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      Role   `json:"role"`
	Password  string `json:"password,omitempty"`
}

// AdminUserUpdateResponse carries a fresh token when an admin edits
// their own account.
type AdminUserUpdateResponse struct {
	User
	SelfUpdate bool `json:"selfUpdate,omitempty"`
}

// AdminRecipeUpdateRequest is the JSON body of PUT /api/admin/recipes/{id}.
// Instructions are sent as a list of steps here, unlike the author endpoints.
type AdminRecipeUpdateRequest struct {
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Category     Category     `json:"category"`
	Published    bool         `json:"published"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions []string     `json:"instructions"`
	PrepTime     int          `json:"prepTime"`
	CookTime     int          `json:"cookTime"`
	Servings     int          `json:"servings"`
	Nutrition
}
