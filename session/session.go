// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/models"
)

// StorageKey is where the token lives in local storage.
const StorageKey = "auth_jwt"

// ExpiryMargin is how long a stored token must remain valid to be reused.
const ExpiryMargin = 30 * time.Minute

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expires too soon")
)

// Claims are the identity claims issued by the auth provider.
type Claims struct {
	jwt.RegisteredClaims
	Name      string `json:"name"`
	GivenName string `json:"given_name"`
	Email     string `json:"email"`
	Picture   string `json:"picture"`
}

// Viewer is the identity the claims describe.
func (c *Claims) Viewer() models.User {
	name := c.GivenName
	if name == "" {
		name = c.Name
	}
	return models.User{Name: name, Email: c.Email, ImageURL: c.Picture}
}

// Decode reads the claims of token without verifying its signature. Trust
// is delegated to the issuer and the transport.
func Decode(token string) (*Claims, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing exp claim", ErrInvalidToken)
	}
	return &claims, nil
}

// Storage persists the token between runs.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Session is the viewer's authentication state.
type Session struct {
	storage Storage
	now     func() time.Time

	mu     sync.RWMutex
	token  string
	viewer models.User
}

// New returns an unauthenticated session backed by storage.
func New(storage Storage) *Session {
	return &Session{storage: storage, now: time.Now}
}

// Restore loads the stored token. A token expiring within ExpiryMargin is
// removed from storage and the session stays unauthenticated.
func (s *Session) Restore(ctx context.Context) error {
	token, err := s.storage.Get(ctx, StorageKey)
	if errors.Is(err, db.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}

	claims, err := Decode(token)
	if err == nil && !claims.ExpiresAt.After(s.now().Add(ExpiryMargin)) {
		err = ErrExpiredToken
	}
	if err != nil {
		slog.Info("discarding stored token", "reason", err)
		if derr := s.storage.Delete(ctx, StorageKey); derr != nil {
			return fmt.Errorf("failed to discard stored token: %w", derr)
		}
		return nil
	}

	s.set(token, claims)
	return nil
}

// SignIn accepts a token from the auth provider and stores it.
func (s *Session) SignIn(ctx context.Context, token string) error {
	claims, err := Decode(token)
	if err != nil {
		return err
	}
	if !claims.ExpiresAt.After(s.now()) {
		return ErrExpiredToken
	}
	if err := s.storage.Set(ctx, StorageKey, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	s.set(token, claims)
	slog.Info("signed in", "email", claims.Email)
	return nil
}

// SignOut forgets the token.
func (s *Session) SignOut(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.viewer = models.User{}
	s.mu.Unlock()

	if err := s.storage.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}

func (s *Session) set(token string, claims *Claims) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.viewer = claims.Viewer()
}

// Token returns the bearer credential, or "" when signed out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Viewer returns the signed in user.
func (s *Session) Viewer() models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewer
}

// Authenticated reports whether a token is held.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}
