// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/skip2/go-qrcode"

	"github.com/danielhkuo/quickly-vote/api"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/dom"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/query"
	"github.com/danielhkuo/quickly-vote/session"
	"github.com/danielhkuo/quickly-vote/views"
)

// TokenSecret signs the tokens minted for tests and verified by Backend.
var TokenSecret = []byte("test-token-secret")

// Test users
var (
	Alice = models.User{Name: "Alice Example", Email: "alice@example.com"}
	Bob   = models.User{Name: "Bob Example", Email: "bob@example.com"}
	Carol = models.User{Name: "Carol Example", Email: "carol@example.com", ImageURL: "https://img.example/carol.png"}
)

// SetupTestStore opens a fresh sqlite storage with the schema in place
func SetupTestStore(t *testing.T) *db.Store {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, "file:"+filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test storage: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return db.NewStore(conn, db.TypeSQLite)
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		APIBaseURL:   "http://localhost:8000",
		StorageURL:   "file::memory:",
		StorageType:  db.TypeSQLite,
		PublicURL:    "https://vote.example",
		PollInterval: 20 * time.Millisecond,
		MinBusy:      0,
	}
}

// MintToken returns a signed token for user that expires after ttl
func MintToken(t *testing.T, user models.User, ttl time.Duration) string {
	t.Helper()

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        user.Email,
		"email":      user.Email,
		"name":       user.Name,
		"given_name": user.Name,
		"picture":    user.ImageURL,
		"iat":        now.Unix(),
		"exp":        now.Add(ttl).Unix(),
	})
	signed, err := token.SignedString(TokenSecret)
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return signed
}

// NewEnv wires views against backend. A non-zero user is signed in.
func NewEnv(t *testing.T, backend *Backend, user models.User) *views.Env {
	t.Helper()

	cfg := GetTestConfig()
	sess := session.New(SetupTestStore(t))
	if user.Email != "" {
		if err := sess.SignIn(context.Background(), MintToken(t, user, time.Hour)); err != nil {
			t.Fatalf("Failed to sign in: %v", err)
		}
	}

	return &views.Env{
		Doc:     dom.New(),
		Cache:   query.NewClient(),
		API:     api.New(backend.URL(), sess),
		Session: sess,
		Nav:     &views.Navigator{},
		QR: func(content string) ([]byte, error) {
			return qrcode.Encode(content, qrcode.Low, 64)
		},
		PublicURL:    cfg.PublicURL,
		PollInterval: cfg.PollInterval,
		MinBusy:      cfg.MinBusy,
	}
}

// MakeRequest creates an HTTP request with JSON body
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	return req
}

// Eventually polls cond until it holds or timeout passes
func Eventually(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out: %s", msg)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
