// Package auth implements the demo identity provider: one user registered
// in memory, plaintext credentials, and a current-actor lookup for the feed.
package auth

import (
	"errors"
	"strings"
	"sync"
)

// DefaultBio is given to newly registered users
const DefaultBio = "Sharing my favorite Filipino & Japanese dishes 🍣🍜"

var (
	// ErrInvalidInput is returned when username or password is blank
	ErrInvalidInput = errors.New("username and password are required")
	// ErrInvalidCredentials is returned when login does not match the registered user
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrReservedUsername is returned when registering the name used for anonymous actors
	ErrReservedUsername = errors.New("username is reserved")
	// ErrUserNotFound is returned when no user is registered or signed in
	ErrUserNotFound = errors.New("user not found")
)

// Service defines the identity provider
type Service interface {
	Register(username, password string) (*User, error)
	Login(username, password string) (*User, error)
	Logout()
	UpdateProfile(patch ProfilePatch) (*User, error)
	Current() (*User, bool)
	Lookup(username string) (*User, bool)
}

type service struct {
	mu         sync.RWMutex
	registered *User
	current    *User
}

// NewService creates an identity provider with no registered user
func NewService() Service {
	return &service{}
}

// Register replaces the registered user. It does not sign in.
func (s *service) Register(username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidInput
	}
	if strings.EqualFold(username, GuestID) {
		return nil, ErrReservedUsername
	}

	u := &User{
		Username:    username,
		Password:    password,
		DisplayName: username,
		Bio:         DefaultBio,
	}

	s.mu.Lock()
	s.registered = u
	s.mu.Unlock()

	return copyUser(u), nil
}

// Login signs in when the credentials match the registered user
func (s *service) Login(username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.registered == nil || s.registered.Username != username || s.registered.Password != password {
		return nil, ErrInvalidCredentials
	}

	s.current = copyUser(s.registered)
	return copyUser(s.current), nil
}

// Logout signs the current user out
func (s *service) Logout() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

// UpdateProfile applies patch to both the signed-in and the registered user
func (s *service) UpdateProfile(patch ProfilePatch) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.registered == nil && s.current == nil {
		return nil, ErrUserNotFound
	}

	for _, u := range []*User{s.registered, s.current} {
		if u == nil {
			continue
		}
		if patch.DisplayName != nil {
			u.DisplayName = *patch.DisplayName
		}
		if patch.Bio != nil {
			u.Bio = *patch.Bio
		}
		if patch.AvatarURI != nil {
			u.AvatarURI = *patch.AvatarURI
		}
	}

	if s.current != nil {
		return copyUser(s.current), nil
	}
	return copyUser(s.registered), nil
}

// Current returns the signed-in user
func (s *service) Current() (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil, false
	}
	return copyUser(s.current), true
}

// Lookup returns the signed-in user if it has the given username
func (s *service) Lookup(username string) (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil || s.current.Username != username {
		return nil, false
	}
	return copyUser(s.current), true
}

func copyUser(u *User) *User {
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}
