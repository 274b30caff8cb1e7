package main

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrNoSession is returned by session-bound operations attempted
// without an authenticated user.
var ErrNoSession = errors.New("no active session")

// UserProfile carries the account details used to prefill the
// checkout form.
type UserProfile struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// FullName assembles the display name out of the available parts.
func (p UserProfile) FullName() string {
	name := strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
	if name != "" {
		return name
	}
	return strings.TrimSpace(p.Name)
}

// Authenticator describes the session credential holder. The cart
// store and the checkout flow only ever see this contract.
type Authenticator interface {
	Token() string
	IsAuthenticated() bool
	CheckAndRefresh(ctx context.Context) error
	UserInfo() UserProfile
}

var _ Authenticator = (*TokenSession)(nil)

// TokenSession is an in-memory session holding a bearer token and the
// owner profile. An optional refresh hook renews the token before
// sensitive submissions.
type TokenSession struct {
	mu      sync.RWMutex
	token   string
	profile UserProfile
	refresh func(ctx context.Context, current string) (string, error)
}

// NewTokenSession provides a session around an existing token.
func NewTokenSession(token string, profile UserProfile) *TokenSession {
	return &TokenSession{token: token, profile: profile}
}

// WithRefresh installs the token renewal hook.
func (s *TokenSession) WithRefresh(f func(ctx context.Context, current string) (string, error)) *TokenSession {
	s.mu.Lock()
	s.refresh = f
	s.mu.Unlock()
	return s
}

// Token returns the current bearer token.
func (s *TokenSession) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetToken replaces the current bearer token. An empty value logs
// the session out.
func (s *TokenSession) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// IsAuthenticated tells whether the session holds a token.
func (s *TokenSession) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// CheckAndRefresh renews the token through the installed hook. With
// no hook the current token is kept as-is.
func (s *TokenSession) CheckAndRefresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refresh == nil || s.token == "" {
		return nil
	}
	token, err := s.refresh(ctx, s.token)
	if err != nil {
		return err
	}
	s.token = token
	return nil
}

// UserInfo returns the profile of the session owner.
func (s *TokenSession) UserInfo() UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}
