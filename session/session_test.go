// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/danielhkuo/quickly-vote/db"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// memStorage is an in-memory Storage.
type memStorage struct {
	mu      sync.Mutex
	values  map[string]string
	deletes int
}

func newMemStorage() *memStorage {
	return &memStorage{values: map[string]string{}}
}

func (m *memStorage) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", db.ErrNotFound
	}
	return v, nil
}

func (m *memStorage) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	m.deletes++
	return nil
}

func mint(t *testing.T, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("issuer-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func aliceClaims(ttl time.Duration) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(ttl))},
		Name:             "Alice Example",
		GivenName:        "Alice",
		Email:            "alice@example.com",
		Picture:          "https://img.example/alice.png",
	}
}

func newSession(storage Storage) *Session {
	s := New(storage)
	s.now = func() time.Time { return now }
	return s
}

func TestRestore(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing stored", func(t *testing.T) {
		s := newSession(newMemStorage())
		if err := s.Restore(ctx); err != nil {
			t.Fatalf("Restore() error = %v", err)
		}
		if s.Authenticated() {
			t.Error("session should be anonymous")
		}
	})

	t.Run("valid token", func(t *testing.T) {
		storage := newMemStorage()
		token := mint(t, aliceClaims(2*time.Hour))
		storage.values[StorageKey] = token

		s := newSession(storage)
		if err := s.Restore(ctx); err != nil {
			t.Fatalf("Restore() error = %v", err)
		}
		if s.Token() != token {
			t.Error("token not restored")
		}
		if got := s.Viewer().Email; got != "alice@example.com" {
			t.Errorf("Viewer().Email = %q", got)
		}
	})

	discarded := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{"expires within margin", func(t *testing.T) string { return mint(t, aliceClaims(29*time.Minute)) }},
		{"expires exactly at margin", func(t *testing.T) string { return mint(t, aliceClaims(ExpiryMargin)) }},
		{"already expired", func(t *testing.T) string { return mint(t, aliceClaims(-time.Hour)) }},
		{"malformed", func(*testing.T) string { return "not-a-jwt" }},
		{"missing exp", func(t *testing.T) string {
			c := aliceClaims(time.Hour)
			c.ExpiresAt = nil
			return mint(t, c)
		}},
	}
	for _, tt := range discarded {
		t.Run(tt.name, func(t *testing.T) {
			storage := newMemStorage()
			storage.values[StorageKey] = tt.token(t)

			s := newSession(storage)
			if err := s.Restore(ctx); err != nil {
				t.Fatalf("Restore() error = %v", err)
			}
			if s.Authenticated() {
				t.Error("session should stay anonymous")
			}
			if _, ok := storage.values[StorageKey]; ok {
				t.Error("stored token should be removed")
			}
		})
	}
}

func TestSignIn(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the token", func(t *testing.T) {
		storage := newMemStorage()
		s := newSession(storage)
		token := mint(t, aliceClaims(time.Hour))

		if err := s.SignIn(ctx, token); err != nil {
			t.Fatalf("SignIn() error = %v", err)
		}
		if storage.values[StorageKey] != token {
			t.Error("token not persisted")
		}
		if !s.Authenticated() || s.Viewer().Name != "Alice" {
			t.Errorf("Viewer() = %+v", s.Viewer())
		}
	})

	t.Run("rejects invalid tokens", func(t *testing.T) {
		s := newSession(newMemStorage())
		if err := s.SignIn(ctx, "garbage"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("SignIn() error = %v, want ErrInvalidToken", err)
		}
		if err := s.SignIn(ctx, mint(t, aliceClaims(-time.Minute))); !errors.Is(err, ErrExpiredToken) {
			t.Errorf("SignIn() error = %v, want ErrExpiredToken", err)
		}
		if s.Authenticated() {
			t.Error("session should stay anonymous")
		}
	})
}

func TestSignOut(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()
	s := newSession(storage)
	if err := s.SignIn(ctx, mint(t, aliceClaims(time.Hour))); err != nil {
		t.Fatal(err)
	}

	if err := s.SignOut(ctx); err != nil {
		t.Fatalf("SignOut() error = %v", err)
	}
	if s.Authenticated() || s.Viewer().Email != "" {
		t.Error("session should be anonymous after sign out")
	}
	if _, ok := storage.values[StorageKey]; ok {
		t.Error("token should be removed from storage")
	}
}

func TestClaims_Viewer(t *testing.T) {
	c := aliceClaims(time.Hour)
	if got := c.Viewer(); got.Name != "Alice" || got.ImageURL != "https://img.example/alice.png" {
		t.Errorf("Viewer() = %+v", got)
	}

	c.GivenName = ""
	if got := c.Viewer().Name; got != "Alice Example" {
		t.Errorf("Viewer().Name without given_name = %q, want full name", got)
	}
}
