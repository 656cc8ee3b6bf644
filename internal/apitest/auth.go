package apitest

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/models"
)

type contextKey string

const userIDKey contextKey = "userID"

type claims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenFor issues a valid token for the seeded user.
func (s *Server) TokenFor(u models.User) string {
	return s.sign(u, time.Now().Add(s.tokenTTL))
}

// ExpiredTokenFor issues a token that expired an hour ago.
func (s *Server) ExpiredTokenFor(u models.User) string {
	return s.sign(u, time.Now().Add(-time.Hour))
}

func (s *Server) sign(u models.User, expires time.Time) string {
	c := claims{
		UserID: u.ID,
		Role:   string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Username,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return token
}

func (s *Server) parse(tokenString string) (int64, error) {
	c := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, c, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, jwt.ErrTokenInvalidClaims
	}
	return c.UserID, nil
}

// identify resolves the caller from a bearer token or a Basic pair.
// ok is false when credentials were sent but are not valid.
func (s *Server) identify(r *http.Request) (int64, bool) {
	if username, password, isBasic := r.BasicAuth(); isBasic {
		s.mu.Lock()
		defer s.mu.Unlock()
		a := s.findByUsernameLocked(username)
		if a == nil || bcrypt.CompareHashAndPassword(a.hash, []byte(password)) != nil {
			return 0, false
		}
		return a.user.ID, true
	}

	header := r.Header.Get("Authorization")
	if header == "" {
		return 0, true
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return 0, false
	}
	id, err := s.parse(parts[1])
	if err != nil {
		return 0, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[id]; !exists {
		return 0, false
	}
	return id, true
}

func (s *Server) authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.identify(r)
		if !ok || id == 0 {
			writeMessage(w, http.StatusUnauthorized, "Full authentication is required")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, id)))
	})
}

// optionalAuth attaches the caller when credentials are valid and lets
// anonymous requests through.
func (s *Server) optionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := s.identify(r); ok && id != 0 {
			r = r.WithContext(context.WithValue(r.Context(), userIDKey, id))
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := s.caller(r)
		if !ok || caller.Role != models.RoleAdmin {
			writeMessage(w, http.StatusForbidden, "Access Denied")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// caller returns the authenticated user of r.
func (s *Server) caller(r *http.Request) (models.User, bool) {
	id, ok := r.Context().Value(userIDKey).(int64)
	if !ok {
		return models.User{}, false
	}
	return s.User(id)
}

func (s *Server) withToken(u models.User) models.User {
	u.Token = s.TokenFor(u)
	return u
}
