package models

// SuggestionRequest is the body of POST /api/ai/predict.
type SuggestionRequest struct {
	Ingredients []string `json:"ingredients"`
}

// Suggestion is the recipe predicted from an ingredient list.
type Suggestion struct {
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
}
