// Package credstore keeps the one durable client-side session record:
// the server URL plus either a session token or a username/password pair,
// and the last known user profile.
package credstore

import (
	"errors"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/models"
)

// ErrNoRecord is returned by Get when nothing has been stored yet.
var ErrNoRecord = errors.New("no stored session")

// Record is what survives a restart.
type Record struct {
	ServerURL string       `json:"serverUrl,omitempty"`
	Token     string       `json:"token,omitempty"`
	Username  string       `json:"username,omitempty"`
	Password  string       `json:"password,omitempty"`
	User      *models.User `json:"user,omitempty"`
}

// HasCredentials reports whether the record can authenticate a request.
func (r *Record) HasCredentials() bool {
	return r != nil && (r.Token != "" || (r.Username != "" && r.Password != ""))
}

// Clone returns a deep copy so callers never share the stored user.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	if r.User != nil {
		u := *r.User
		c.User = &u
	}
	return &c
}

// Store is injected into the HTTP layer and the session; nothing else
// touches durable credentials.
type Store interface {
	// Get returns the stored record or ErrNoRecord.
	Get() (*Record, error)
	// Set replaces the stored record.
	Set(rec *Record) error
	// Clear removes the stored record. Clearing an empty store is not an error.
	Clear() error
}
