// Package apitest runs an in-process GFGM backend for tests. It implements the
// REST surface the client talks to, keeps everything in memory and issues
// real HS256 tokens, so client code is exercised over actual HTTP.
package apitest

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/crypto/bcrypt"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/models"
)

const defaultPageSize = 10

type account struct {
	user models.User
	hash []byte
}

// Server is a fake backend. All fields are guarded by mu.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	secret   []byte
	tokenTTL time.Duration
	users    map[int64]*account
	recipes  map[int64]*models.Recipe
	uploads  map[string][]byte
	failures map[string]int
	hits     map[string]int
	nextUser int64
	nextRec  int64

	// RegisterIssuesToken makes register answer like login instead of
	// with a bare acknowledgement.
	RegisterIssuesToken bool
}

// New starts a fake backend. Call Close when done.
func New() *Server {
	s := &Server{
		secret:   []byte("apitest-secret"),
		tokenTTL: time.Hour,
		users:    map[int64]*account{},
		recipes:  map[int64]*models.Recipe{},
		uploads:  map[string][]byte{},
		failures: map[string]int{},
		hits:     map[string]int{},
	}
	s.Server = httptest.NewServer(s.router())
	return s
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.count)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.login)
		r.Post("/auth/register", s.register)
		r.Get("/uploads/{filename}", s.upload)

		r.Group(func(r chi.Router) {
			r.Use(s.optionalAuth)
			r.Get("/recipes", s.listRecipes)
			r.Get("/recipes/search", s.searchRecipes)
			r.Get("/recipes/ai", s.aiRecipes)
			r.Get("/recipes/{id}", s.getRecipe)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.authenticator)
			r.Get("/auth/me", s.me)
			r.Put("/users/profile", s.updateProfile)
			r.Put("/users/profile/password", s.updatePassword)
			r.Put("/users/profile/picture", s.updatePicture)
			r.Get("/recipes/my-recipes", s.myRecipes)
			r.Post("/recipes", s.createRecipe)
			r.Put("/recipes/{id}", s.updateRecipe)
			r.Delete("/recipes/{id}", s.deleteRecipe)
			r.Post("/ai/predict", s.predict)

			r.Route("/admin", func(r chi.Router) {
				r.Use(s.adminOnly)
				r.Get("/stats", s.adminStats)
				r.Get("/users", s.adminUsers)
				r.Put("/users/{id}", s.adminUpdateUser)
				r.Delete("/users/{id}", s.adminDeleteUser)
				r.Get("/recipes", s.adminRecipes)
				r.Put("/recipes/{id}", s.adminUpdateRecipe)
				r.Delete("/recipes/{id}", s.adminDeleteRecipe)
			})
		})
	})
	return r
}

// count records hits and serves injected failures.
func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		s.mu.Lock()
		s.hits[key]++
		status := s.failures[key]
		s.mu.Unlock()
		if status != 0 {
			writeMessage(w, status, "injected failure")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// FailWith makes every request to "METHOD /path" answer status until reset
// with status 0.
func (s *Server) FailWith(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failures, method+" "+path)
		return
	}
	s.failures[method+" "+path] = status
}

// Hits returns how many times "METHOD /path" was requested.
func (s *Server) Hits(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[method+" "+path]
}

// AddUser seeds an account and returns it without a token.
func (s *Server) AddUser(username, password string, role models.Role) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(models.User{Username: username, Email: username + "@example.com", Role: role}, password)
}

func (s *Server) addUserLocked(u models.User, password string) models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	s.nextUser++
	u.ID = s.nextUser
	u.Password = ""
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	now := time.Now().UTC().Truncate(time.Second)
	u.CreatedAt = &now
	s.users[u.ID] = &account{user: u, hash: hash}
	return u
}

// AddRecipe seeds a recipe authored by ownerID and returns it.
func (s *Server) AddRecipe(ownerID int64, r models.Recipe) models.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextRec++
	r.ID = s.nextRec
	if owner, ok := s.users[ownerID]; ok {
		r.Author = summaryOf(owner.user)
	}
	s.recipes[r.ID] = &r
	return r
}

// Recipe returns the stored recipe with id.
func (s *Server) Recipe(id int64) (models.Recipe, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recipes[id]
	if !ok {
		return models.Recipe{}, false
	}
	return *r, true
}

// User returns the stored account with id.
func (s *Server) User(id int64) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.users[id]
	if !ok {
		return models.User{}, false
	}
	return a.user, true
}

// Upload returns the bytes stored under filename.
func (s *Server) Upload(filename string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.uploads[filename]
	return data, ok
}

func (s *Server) findByUsernameLocked(username string) *account {
	for _, a := range s.users {
		if a.user.Username == username {
			return a
		}
	}
	return nil
}

// sortedRecipesLocked returns recipes matching keep ordered by id.
func (s *Server) sortedRecipesLocked(keep func(*models.Recipe) bool) []models.Recipe {
	out := []models.Recipe{}
	for _, r := range s.recipes {
		if keep(r) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func summaryOf(u models.User) *models.UserSummary {
	return &models.UserSummary{
		ID:             u.ID,
		Username:       u.Username,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
		Role:           u.Role,
		CreatedAt:      u.CreatedAt,
	}
}

// paginate slices items by the page and size query parameters.
func paginate[T any](r *http.Request, items []T) models.Page[T] {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = defaultPageSize
	}
	start := page * size
	if start > len(items) {
		start = len(items)
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	content := make([]T, end-start)
	copy(content, items[start:end])
	return models.Page[T]{
		Content:       content,
		Last:          end >= len(items),
		TotalElements: int64(len(items)),
		Number:        page,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("apitest: encode response", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}
