package apitest

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/models"
)

func (s *Server) adminStats(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := models.AdminStats{
		TotalUsers:   int64(len(s.users)),
		TotalRecipes: int64(len(s.recipes)),
	}
	authors := map[int64]bool{}
	for _, rec := range s.recipes {
		if rec.GeneratedByAI {
			stats.AIGeneratedRecipes++
		}
		if rec.IsPublished() {
			stats.PublishedRecipes++
		}
		if rec.Author != nil {
			authors[rec.Author.ID] = true
		}
	}
	stats.ActiveUsers = int64(len(authors))
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) adminUsers(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	out := make([]models.UserSummary, 0, len(s.users))
	for _, a := range s.users {
		out = append(out, *summaryOf(a.user))
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) adminUpdateUser(w http.ResponseWriter, r *http.Request) {
	caller, _ := s.caller(r)
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	var req models.AdminUserUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	a, found := s.users[id]
	if !found {
		s.mu.Unlock()
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	if other := s.findByUsernameLocked(req.Username); other != nil && other.user.ID != id {
		s.mu.Unlock()
		writeMessage(w, http.StatusBadRequest, "Username is already taken!")
		return
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
		if err != nil {
			s.mu.Unlock()
			writeMessage(w, http.StatusInternalServerError, err.Error())
			return
		}
		a.hash = hash
	}
	a.user.Username = req.Username
	a.user.Email = req.Email
	a.user.FirstName = req.FirstName
	a.user.LastName = req.LastName
	if req.Role != "" {
		a.user.Role = req.Role
	}
	u := a.user
	s.mu.Unlock()

	resp := models.AdminUserUpdateResponse{User: u}
	if caller.ID == id {
		resp.User = s.withToken(u)
		resp.SelfUpdate = true
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) adminDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.users[id]; !found {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	delete(s.users, id)
	for recID, rec := range s.recipes {
		if rec.Author != nil && rec.Author.ID == id {
			delete(s.recipes, recID)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) adminRecipes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	items := s.sortedRecipesLocked(func(*models.Recipe) bool { return true })
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, paginate(r, items))
}

func (s *Server) adminUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid recipe id")
		return
	}
	var req models.AdminRecipeUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, found := s.recipes[id]
	if !found {
		writeMessage(w, http.StatusNotFound, "Recipe not found")
		return
	}
	published := req.Published
	rec.Title = req.Title
	rec.Description = req.Description
	rec.Category = req.Category
	rec.Published = &published
	rec.Ingredients = req.Ingredients
	rec.Instructions = strings.Join(req.Instructions, "\n")
	rec.PrepTime = req.PrepTime
	rec.CookTime = req.CookTime
	rec.Servings = req.Servings
	rec.Nutrition = req.Nutrition
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) adminDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid recipe id")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.recipes[id]; !found {
		writeMessage(w, http.StatusNotFound, "Recipe not found")
		return
	}
	delete(s.recipes, id)
	w.WriteHeader(http.StatusNoContent)
}
