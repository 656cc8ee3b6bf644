package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/api"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/models"
)

const predictPath = "/api/ai/predict"

// AIService proxies the recipe suggester.
type AIService struct {
	client *api.Client
}

func NewAIService(c *api.Client) *AIService {
	return &AIService{client: c}
}

// Suggest asks for a recipe built from ingredients. Blank entries are
// dropped; nothing left means no request.
func (s *AIService) Suggest(ctx context.Context, ingredients []string) (*models.Suggestion, error) {
	cleaned := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		if ing = strings.TrimSpace(ing); ing != "" {
			cleaned = append(cleaned, ing)
		}
	}
	if len(cleaned) == 0 {
		return nil, ErrNoIngredients
	}
	var out models.Suggestion
	if err := s.client.PostJSON(ctx, predictPath, models.SuggestionRequest{Ingredients: cleaned}, &out); err != nil {
		return nil, fmt.Errorf("suggest recipe: %w", err)
	}
	return &out, nil
}

// ParseIngredientList splits comma- or newline-separated user input.
func ParseIngredientList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '\n' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
