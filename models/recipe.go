package models

import (
	"strings"
	"time"
)

// Category is one of the fixed fitness-meal categories.
type Category string

const (
	CategoryBreakfast  Category = "BREAKFAST"
	CategoryLunch      Category = "LUNCH"
	CategoryDinner     Category = "DINNER"
	CategorySnack      Category = "SNACK"
	CategoryDessert    Category = "DESSERT"
	CategoryBeverage   Category = "BEVERAGE"
	CategoryAppetizer  Category = "APPETIZER"
	CategoryMainCourse Category = "MAIN_COURSE"
	CategorySideDish   Category = "SIDE_DISH"
	CategorySalad      Category = "SALAD"
	CategorySoup       Category = "SOUP"
	CategoryOther      Category = "OTHER"
)

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{
		CategoryBreakfast, CategoryLunch, CategoryDinner, CategorySnack,
		CategoryDessert, CategoryBeverage, CategoryAppetizer, CategoryMainCourse,
		CategorySideDish, CategorySalad, CategorySoup, CategoryOther,
	}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Label turns MAIN_COURSE into "Main Course".
func (c Category) Label() string {
	words := strings.Split(strings.ToLower(string(c)), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// Ingredient is one line of a recipe's ordered ingredient list.
type Ingredient struct {
	ID     int64   `json:"id,omitempty"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// Nutrition holds per-serving nutrition facts. All values are non-negative.
type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
}

// Recipe mirrors the backend's recipe DTO.
type Recipe struct {
	ID           int64        `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description,omitempty"`
	Instructions string       `json:"instructions"`
	ImageURL     string       `json:"imageUrl,omitempty"`
	PrepTime     int          `json:"prepTime"`
	CookTime     int          `json:"cookTime"`
	Servings     int          `json:"servings"`
	Category     Category     `json:"category,omitempty"`
	Ingredients  []Ingredient `json:"ingredients,omitempty"`
	Nutrition
	GeneratedByAI bool         `json:"generatedByAi,omitempty"`
	Published     *bool        `json:"published,omitempty"`
	Author        *UserSummary `json:"author,omitempty"`
	CreatedAt     *time.Time   `json:"createdAt,omitempty"`
	UpdatedAt     *time.Time   `json:"updatedAt,omitempty"`
}

// IsPublished treats a missing flag as published, like the backend default.
func (r *Recipe) IsPublished() bool {
	return r.Published == nil || *r.Published
}

// Steps splits the newline-delimited instructions, dropping blank lines.
func (r *Recipe) Steps() []string {
	return SplitLines(r.Instructions)
}

// TotalTime is prep plus cook time in minutes.
func (r *Recipe) TotalTime() int {
	return r.PrepTime + r.CookTime
}

// OwnedBy reports whether the recipe's author is the given user.
func (r *Recipe) OwnedBy(u *User) bool {
	return u != nil && r.Author != nil && r.Author.ID == u.ID
}

// RecipeKey returns the recipe ID; used by the pager to drop duplicates.
func RecipeKey(r Recipe) int64 { return r.ID }

// RecipeRequest is the JSON "recipe" part of create/update multipart requests.
type RecipeRequest struct {
	Title        string       `json:"title"`
	Description  string       `json:"description,omitempty"`
	Instructions string       `json:"instructions"`
	PrepTime     int          `json:"prepTime"`
	CookTime     int          `json:"cookTime"`
	Servings     int          `json:"servings"`
	Category     Category     `json:"category"`
	Ingredients  []Ingredient `json:"ingredients"`
	Nutrition
	Published bool `json:"published"`
}

// PublishRequest is the partial "recipe" part used to toggle publication.
type PublishRequest struct {
	Published bool `json:"published"`
}

// Page is a paginated slice of a collection. Last marks the final page.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Last          bool  `json:"last"`
	TotalElements int64 `json:"totalElements,omitempty"`
	Number        int   `json:"number,omitempty"`
}

// EmptyPage is the shape list reads degrade to on failure.
func EmptyPage[T any]() Page[T] {
	return Page[T]{Content: []T{}, Last: true}
}

// SplitLines splits s on newlines, trimming and dropping blank lines.
func SplitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
