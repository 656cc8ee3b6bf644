package models

import "time"

// Role is the authorization role the backend assigns to a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User is the account record returned by the auth and user endpoints.
// Password is write-only: it is only ever sent, never rendered.
type User struct {
	ID             int64      `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email,omitempty"`
	FirstName      string     `json:"firstName,omitempty"`
	LastName       string     `json:"lastName,omitempty"`
	Role           Role       `json:"role,omitempty"`
	ProfilePicture string     `json:"profilePicture,omitempty"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`
	Token          string     `json:"token,omitempty"`
	Password       string     `json:"password,omitempty"`
}

// IsAdmin reports whether the user carries the ADMIN role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// DisplayName prefers "First Last" and falls back to the username.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Username
	}
}

// Refresh replaces u with fresh, a full account record from the backend.
// Profile fields are taken as they are, so a name cleared on the server is
// cleared here too. Identity fields fresh lacks are kept. Token and Password
// are never copied so they cannot leak into durable storage.
func (u *User) Refresh(fresh User) {
	if fresh.ID != 0 {
		u.ID = fresh.ID
	}
	if fresh.Username != "" {
		u.Username = fresh.Username
	}
	if fresh.Email != "" {
		u.Email = fresh.Email
	}
	if fresh.Role != "" {
		u.Role = fresh.Role
	}
	if fresh.CreatedAt != nil {
		u.CreatedAt = fresh.CreatedAt
	}
	u.FirstName = fresh.FirstName
	u.LastName = fresh.LastName
	u.ProfilePicture = fresh.ProfilePicture
}

// UserSummary is the author block embedded in recipes and the admin user list.
type UserSummary struct {
	ID             int64      `json:"id"`
	Username       string     `json:"username"`
	FirstName      string     `json:"firstName,omitempty"`
	LastName       string     `json:"lastName,omitempty"`
	Email          string     `json:"email,omitempty"`
	ProfilePicture string     `json:"profilePicture,omitempty"`
	Role           Role       `json:"role,omitempty"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// RegisterResponse covers both backend revisions: a bare acknowledgement
// ({message, username}) or a full user record with a token.
type RegisterResponse struct {
	User
	Message string `json:"message,omitempty"`
}

// ProfileUpdateRequest is the body of PUT /api/users/profile.
// Names and bio are always sent: an empty value clears them.
type ProfileUpdateRequest struct {
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Bio       string `json:"bio"`
}

// PasswordUpdateRequest is the body of PUT /api/users/profile/password.
type PasswordUpdateRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}
