// Package session holds who is signed in. It hydrates from the credential
// store on start, confirms the stored identity with the backend and keeps
// the store in step with login, logout and profile edits.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/api"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/credstore"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/models"
)

const (
	loginPath    = "/api/auth/login"
	registerPath = "/api/auth/register"
	mePath       = "/api/auth/me"
)

var (
	// ErrNotLoggedIn is returned by operations that need a user.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrSessionExpired means the stored token expired before restore.
	ErrSessionExpired = errors.New("stored session has expired")
	// ErrMissingToken means a bearer-mode login answered without a token.
	ErrMissingToken = errors.New("login response has no token")
	// ErrServerChanged means the stored record belongs to another backend.
	ErrServerChanged = errors.New("stored session belongs to another server")
)

// Phase is where the session is in its start-up lifecycle.
type Phase int

const (
	PhaseInit Phase = iota
	PhaseHydrating
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseHydrating:
		return "hydrating"
	case PhaseReady:
		return "ready"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Session is safe for concurrent use. Readers never wait on the network.
type Session struct {
	store  credstore.Store
	client *api.Client
	now    func() time.Time

	mu    sync.RWMutex
	user  *models.User
	phase Phase
	subs  map[chan struct{}]struct{}
}

// Option customises a Session.
type Option func(*Session)

// WithClock overrides time.Now for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New returns a session in PhaseInit. Call Restore to hydrate it.
func New(store credstore.Store, client *api.Client, opts ...Option) *Session {
	s := &Session{
		store:  store,
		client: client,
		now:    time.Now,
		subs:   map[chan struct{}]struct{}{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// User returns a copy of the signed-in user, or nil.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Loading is true until the first Restore finishes.
func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase != PhaseReady
}

func (s *Session) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// IsAdmin reports whether the signed-in user has the ADMIN role.
func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.IsAdmin()
}

// Owns reports whether the signed-in user authored r.
func (s *Session) Owns(r *models.Recipe) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return r != nil && r.OwnedBy(s.user)
}

// Subscribe returns a channel that receives a value after every change.
// Notifications coalesce: a slow reader sees at most one pending signal.
// The returned func unsubscribes.
func (s *Session) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()
	return ch, func() {
		s.mu.Lock()
		delete(s.subs, ch)
		s.mu.Unlock()
	}
}

// notifyLocked signals subscribers. Caller holds mu.
func (s *Session) notifyLocked() {
	for ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Restore hydrates the session from the store. A stored record sets the
// user optimistically; the backend then confirms it. Any failure ends in a
// silent logout, and the cause is returned for logging only.
func (s *Session) Restore(ctx context.Context) error {
	s.mu.Lock()
	s.phase = PhaseHydrating
	s.notifyLocked()
	s.mu.Unlock()

	rec, err := s.store.Get()
	if errors.Is(err, credstore.ErrNoRecord) {
		s.finish(nil)
		return nil
	}
	if err != nil {
		s.Logout()
		return fmt.Errorf("read stored session: %w", err)
	}
	if !rec.HasCredentials() {
		s.Logout()
		return nil
	}

	s.mu.Lock()
	s.user = rec.User
	s.notifyLocked()
	s.mu.Unlock()

	if rec.ServerURL != "" && rec.ServerURL != s.client.BaseURL() {
		s.Logout()
		return fmt.Errorf("%w: %s", ErrServerChanged, rec.ServerURL)
	}
	if s.client.AuthMode() == api.AuthBearer && tokenExpired(rec.Token, s.now()) {
		slog.Info("Stored token expired, logging out")
		s.Logout()
		return ErrSessionExpired
	}

	var fresh models.User
	if err = s.client.GetJSON(ctx, mePath, nil, &fresh); err != nil {
		slog.Warn("Session restore failed", "error", err)
		s.Logout()
		return fmt.Errorf("confirm stored session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil && rec.User != nil {
		// Logged out while the request was in flight.
		s.phase = PhaseReady
		s.notifyLocked()
		return nil
	}
	merged := models.User{}
	if rec.User != nil {
		merged = *rec.User
	}
	merged.Refresh(fresh)
	merged.Token, merged.Password = "", ""
	rec.User = &merged
	if err = s.store.Set(rec); err != nil {
		slog.Error("Failed to persist restored session", "error", err)
	}
	s.user = &merged
	s.phase = PhaseReady
	s.notifyLocked()
	slog.Info("Session restored", "username", merged.Username)
	return nil
}

func (s *Session) finish(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
	s.phase = PhaseReady
	s.notifyLocked()
}

// Login exchanges credentials for a session. On failure the previous state
// is left untouched and the error is returned as is.
func (s *Session) Login(ctx context.Context, username, password string) (*models.User, error) {
	req := api.Request{
		Method:    http.MethodPost,
		Path:      loginPath,
		Body:      models.LoginRequest{Username: username, Password: password},
		Anonymous: true,
	}
	if s.client.AuthMode() == api.AuthBasic {
		req.Credentials = &api.Credentials{Username: username, Password: password}
	}

	var u models.User
	if err := s.client.Do(ctx, req, &u); err != nil {
		return nil, err
	}
	if u.Username == "" {
		u.Username = username
	}
	if err := s.establish(u, username, password); err != nil {
		return nil, err
	}
	slog.Info("Logged in", "username", u.Username, "role", u.Role)
	return s.User(), nil
}

// Register creates an account. When the backend answers with a token, or the
// client authenticates with Basic credentials, the new user is signed in;
// otherwise the caller should send them to the login screen.
func (s *Session) Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResponse, error) {
	var resp models.RegisterResponse
	err := s.client.Do(ctx, api.Request{
		Method: http.MethodPost, Path: registerPath, Body: req, Anonymous: true,
	}, &resp)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.Token != "":
		u := resp.User
		if u.Username == "" {
			u.Username = req.Username
		}
		if err = s.establish(u, req.Username, req.Password); err != nil {
			return nil, err
		}
	case s.client.AuthMode() == api.AuthBasic:
		if _, err = s.Login(ctx, req.Username, req.Password); err != nil {
			return nil, fmt.Errorf("sign in after registration: %w", err)
		}
	}
	slog.Info("Registered", "username", req.Username, "signed_in", s.User() != nil)
	return &resp, nil
}

// establish persists a fresh record and then sets the user.
func (s *Session) establish(u models.User, username, password string) error {
	rec := &credstore.Record{ServerURL: s.client.BaseURL()}
	switch s.client.AuthMode() {
	case api.AuthBasic:
		rec.Username, rec.Password = username, password
		rec.Token = u.Token
	default:
		if u.Token == "" {
			return ErrMissingToken
		}
		rec.Token = u.Token
	}
	u.Token, u.Password = "", ""
	rec.User = &u
	if err := s.store.Set(rec); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.finish(&u)
	return nil
}

// Logout forgets the user. Store failures are logged and never keep the
// user signed in.
func (s *Session) Logout() {
	if err := s.store.Clear(); err != nil {
		slog.Error("Failed to clear stored session", "error", err)
	}
	s.finish(nil)
}

// UpdateUser refreshes the current user from patch, the account record the
// backend returned, and persists it. A token in patch replaces the stored one.
func (s *Session) UpdateUser(patch models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return ErrNotLoggedIn
	}

	merged := *s.user
	merged.Refresh(patch)
	merged.Token, merged.Password = "", ""

	rec, err := s.store.Get()
	if errors.Is(err, credstore.ErrNoRecord) {
		rec = &credstore.Record{ServerURL: s.client.BaseURL()}
	} else if err != nil {
		return fmt.Errorf("read stored session: %w", err)
	}
	if patch.Token != "" {
		rec.Token = patch.Token
	}
	if rec.Username != "" && patch.Username != "" {
		rec.Username = patch.Username
	}
	rec.User = &merged
	if err = s.store.Set(rec); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.user = &merged
	s.notifyLocked()
	return nil
}

// HandleUnauthorized logs out when err is a 401 from a signed-in call and
// reports whether it did.
func (s *Session) HandleUnauthorized(err error) bool {
	if !errors.Is(err, api.ErrAuthorization) || s.User() == nil {
		return false
	}
	slog.Info("Credentials rejected, logging out")
	s.Logout()
	return true
}

// tokenExpired reads exp from a JWT without verifying it. Tokens that are not
// JWTs, or carry no exp, are left for the server to judge.
func tokenExpired(token string, now time.Time) bool {
	if token == "" {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(now)
}
