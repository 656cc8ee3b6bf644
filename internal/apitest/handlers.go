package apitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/models"
)

const maxUpload = 10 << 20

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	s.mu.Lock()
	a := s.findByUsernameLocked(req.Username)
	var u models.User
	if a != nil {
		u = a.user
	}
	s.mu.Unlock()
	if a == nil || bcrypt.CompareHashAndPassword(a.hash, []byte(req.Password)) != nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	writeJSON(w, http.StatusOK, s.withToken(u))
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" || req.Email == "" {
		writeMessage(w, http.StatusBadRequest, "Username, email and password are required")
		return
	}
	s.mu.Lock()
	if s.findByUsernameLocked(req.Username) != nil {
		s.mu.Unlock()
		writeMessage(w, http.StatusBadRequest, "Username is already taken!")
		return
	}
	u := s.addUserLocked(models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}, req.Password)
	s.mu.Unlock()

	if s.RegisterIssuesToken {
		writeJSON(w, http.StatusOK, s.withToken(u))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "User registered successfully",
		"username": u.Username,
	})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	u, ok := s.caller(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Full authentication is required")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	caller, _ := s.caller(r)
	var req models.ProfileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	s.mu.Lock()
	if req.Username != "" && req.Username != caller.Username && s.findByUsernameLocked(req.Username) != nil {
		s.mu.Unlock()
		writeMessage(w, http.StatusBadRequest, "Username is already taken!")
		return
	}
	a := s.users[caller.ID]
	if req.Username != "" {
		a.user.Username = req.Username
	}
	if req.Email != "" {
		a.user.Email = req.Email
	}
	a.user.FirstName = req.FirstName
	a.user.LastName = req.LastName
	u := a.user
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.withToken(u))
}

func (s *Server) updatePassword(w http.ResponseWriter, r *http.Request) {
	caller, _ := s.caller(r)
	var req models.PasswordUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.NewPassword == "" || req.NewPassword != req.ConfirmPassword {
		writeMessage(w, http.StatusBadRequest, "New passwords do not match")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.users[caller.ID]
	if bcrypt.CompareHashAndPassword(a.hash, []byte(req.CurrentPassword)) != nil {
		writeMessage(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.MinCost)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}
	a.hash = hash
	writeMessage(w, http.StatusOK, "Password updated successfully")
}

func (s *Server) updatePicture(w http.ResponseWriter, r *http.Request) {
	caller, _ := s.caller(r)
	name, ok := s.storeImage(w, r)
	if !ok {
		return
	}
	if name == "" {
		writeMessage(w, http.StatusBadRequest, "Image is required")
		return
	}
	s.mu.Lock()
	a := s.users[caller.ID]
	a.user.ProfilePicture = "/api/uploads/" + name
	u := a.user
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	data, ok := s.Upload(chi.URLParam(r, "filename"))
	if !ok {
		writeMessage(w, http.StatusNotFound, "File not found")
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(data))
	_, _ = w.Write(data)
}

// storeImage saves the optional "image" part and returns its file name.
// ok is false when a response has already been written.
func (s *Server) storeImage(w http.ResponseWriter, r *http.Request) (string, bool) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		writeMessage(w, http.StatusBadRequest, "Expected multipart form data")
		return "", false
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		return "", true
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Cannot read image")
		return "", false
	}
	name := uuid.NewString() + filepath.Ext(header.Filename)
	s.mu.Lock()
	s.uploads[name] = data
	s.mu.Unlock()
	return name, true
}

func (s *Server) listRecipes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	items := s.sortedRecipesLocked(func(rec *models.Recipe) bool { return rec.IsPublished() })
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, paginate(r, items))
}

func (s *Server) aiRecipes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	items := s.sortedRecipesLocked(func(rec *models.Recipe) bool {
		return rec.IsPublished() && rec.GeneratedByAI
	})
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, paginate(r, items))
}

func (s *Server) searchRecipes(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("query")))
	s.mu.Lock()
	items := s.sortedRecipesLocked(func(rec *models.Recipe) bool {
		if !rec.IsPublished() {
			return false
		}
		return strings.Contains(strings.ToLower(rec.Title), query) ||
			strings.Contains(strings.ToLower(rec.Description), query)
	})
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, paginate(r, items))
}

func (s *Server) myRecipes(w http.ResponseWriter, r *http.Request) {
	caller, _ := s.caller(r)
	s.mu.Lock()
	items := s.sortedRecipesLocked(func(rec *models.Recipe) bool {
		return rec.Author != nil && rec.Author.ID == caller.ID
	})
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, paginate(r, items))
}

func (s *Server) getRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid recipe id")
		return
	}
	rec, found := s.Recipe(id)
	caller, _ := s.caller(r)
	if !found || (!rec.IsPublished() && !canModify(caller, rec)) {
		writeMessage(w, http.StatusNotFound, fmt.Sprintf("Recipe not found with id: %d", id))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func canModify(u models.User, rec models.Recipe) bool {
	return u.ID != 0 && (u.Role == models.RoleAdmin || (rec.Author != nil && rec.Author.ID == u.ID))
}

// recipePart decodes the "recipe" JSON part into a key set, so partial
// updates can tell absent fields from zero values.
func recipePart(r *http.Request) (map[string]json.RawMessage, []byte, error) {
	values := r.MultipartForm.Value["recipe"]
	if len(values) == 0 {
		return nil, nil, fmt.Errorf("missing recipe part")
	}
	raw := []byte(values[0])
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, nil, err
	}
	return fields, raw, nil
}

func (s *Server) createRecipe(w http.ResponseWriter, r *http.Request) {
	caller, _ := s.caller(r)
	image, ok := s.storeImage(w, r)
	if !ok {
		return
	}
	_, raw, err := recipePart(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid recipe data")
		return
	}
	var req models.RecipeRequest
	if err = json.Unmarshal(raw, &req); err != nil || strings.TrimSpace(req.Title) == "" {
		writeMessage(w, http.StatusBadRequest, "Title is required")
		return
	}
	rec := recipeFromRequest(req)
	if image != "" {
		rec.ImageURL = "/api/uploads/" + image
	}
	now := time.Now().UTC().Truncate(time.Second)
	rec.CreatedAt, rec.UpdatedAt = &now, &now
	writeJSON(w, http.StatusOK, s.AddRecipe(caller.ID, rec))
}

func recipeFromRequest(req models.RecipeRequest) models.Recipe {
	published := req.Published
	return models.Recipe{
		Title:        req.Title,
		Description:  req.Description,
		Instructions: req.Instructions,
		PrepTime:     req.PrepTime,
		CookTime:     req.CookTime,
		Servings:     req.Servings,
		Category:     req.Category,
		Ingredients:  req.Ingredients,
		Nutrition:    req.Nutrition,
		Published:    &published,
	}
}

func (s *Server) updateRecipe(w http.ResponseWriter, r *http.Request) {
	caller, _ := s.caller(r)
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid recipe id")
		return
	}
	existing, found := s.Recipe(id)
	if !found {
		writeMessage(w, http.StatusNotFound, fmt.Sprintf("Recipe not found with id: %d", id))
		return
	}
	if !canModify(caller, existing) {
		writeMessage(w, http.StatusForbidden, "You are not allowed to modify this recipe")
		return
	}
	image, ok := s.storeImage(w, r)
	if !ok {
		return
	}
	fields, raw, err := recipePart(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid recipe data")
		return
	}

	updated := existing
	if _, full := fields["title"]; full {
		var req models.RecipeRequest
		if err = json.Unmarshal(raw, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid recipe data")
			return
		}
		updated = recipeFromRequest(req)
		updated.ID, updated.Author = existing.ID, existing.Author
		updated.ImageURL, updated.GeneratedByAI = existing.ImageURL, existing.GeneratedByAI
		updated.CreatedAt = existing.CreatedAt
	}
	if rawPublished, present := fields["published"]; present {
		var published bool
		if err = json.Unmarshal(rawPublished, &published); err == nil {
			updated.Published = &published
		}
	}
	if image != "" {
		updated.ImageURL = "/api/uploads/" + image
	}
	now := time.Now().UTC().Truncate(time.Second)
	updated.UpdatedAt = &now

	s.mu.Lock()
	s.recipes[id] = &updated
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteRecipe(w http.ResponseWriter, r *http.Request) {
	caller, _ := s.caller(r)
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid recipe id")
		return
	}
	existing, found := s.Recipe(id)
	if !found {
		writeMessage(w, http.StatusNotFound, fmt.Sprintf("Recipe not found with id: %d", id))
		return
	}
	if !canModify(caller, existing) {
		writeMessage(w, http.StatusForbidden, "You are not allowed to delete this recipe")
		return
	}
	s.mu.Lock()
	delete(s.recipes, id)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) predict(w http.ResponseWriter, r *http.Request) {
	var req models.SuggestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Ingredients) == 0 {
		writeMessage(w, http.StatusBadRequest, "At least one ingredient is required")
		return
	}
	steps := make([]string, 0, len(req.Ingredients)+1)
	for _, ing := range req.Ingredients {
		steps = append(steps, "Prepare the "+ing)
	}
	steps = append(steps, "Combine, cook and serve")
	writeJSON(w, http.StatusOK, models.Suggestion{
		Name:        "Bowl of " + strings.Join(req.Ingredients, " and "),
		Ingredients: req.Ingredients,
		Steps:       steps,
	})
}
