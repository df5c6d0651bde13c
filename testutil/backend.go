// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-vote/models"
)

// Backend is an in-memory poll backend speaking the snake_case REST
// contract. Requests must carry a token minted with MintToken.
type Backend struct {
	Server *httptest.Server

	mu       sync.Mutex
	users    []models.User
	polls    map[string]*backendPoll
	order    []string
	nextID   int
	requests map[string]int
	failures map[string]int
}

type backendPoll struct {
	id          string
	createdAt   time.Time
	owner       string
	title       string
	options     []string
	choiceType  string
	accessType  string
	colorScheme string
	secret      string
	status      string
	members     []string
	voted       map[string][]string
}

// NewBackend starts a backend knowing users. It is closed when the test
// ends.
func NewBackend(t *testing.T, users ...models.User) *Backend {
	t.Helper()

	b := &Backend{
		users:    users,
		polls:    make(map[string]*backendPoll),
		requests: make(map[string]int),
		failures: make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /users", b.handle(b.listUsers))
	mux.HandleFunc("GET /polls", b.handle(b.listPolls))
	mux.HandleFunc("POST /polls", b.handle(b.createPoll))
	mux.HandleFunc("GET /polls/{id}", b.handle(b.getPoll))
	mux.HandleFunc("DELETE /polls/{id}", b.handle(b.deletePoll))
	mux.HandleFunc("POST /polls/{id}/users", b.handle(b.addUsers))
	mux.HandleFunc("POST /polls/{id}/close", b.handle(b.closePoll))
	mux.HandleFunc("POST /polls/{id}/vote", b.handle(b.vote))

	b.Server = httptest.NewServer(mux)
	t.Cleanup(b.Server.Close)
	return b
}

// URL is the base URL of the backend.
func (b *Backend) URL() string {
	return b.Server.URL
}

// Requests returns how many requests matched pattern, e.g. "GET /polls/{id}".
func (b *Backend) Requests(pattern string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests[pattern]
}

// FailNext makes the next request matching pattern fail with status.
func (b *Backend) FailNext(pattern string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[pattern] = status
}

// SeedPoll stores a poll owned by owner and returns its id. members become
// eligible to vote.
func (b *Backend) SeedPoll(owner, title string, choice models.ChoiceType, options []string, members ...string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.newPollLocked(owner, title, string(choice), string(models.AccessInviteOnly), string(models.DefaultColorScheme), options)
	for _, m := range members {
		if !slices.Contains(p.members, m) {
			p.members = append(p.members, m)
		}
	}
	return p.id
}

// Close ends voting on poll id as if its owner did.
func (b *Backend) Close(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p, ok := b.polls[id]; ok {
		p.status = string(models.StatusClosed)
	}
}

// CastVote records a ballot by email without going through HTTP.
func (b *Backend) CastVote(id, email string, values ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p, ok := b.polls[id]; ok {
		p.voted[email] = values
	}
}

type backendHandler func(w http.ResponseWriter, r *http.Request, viewer string)

func (b *Backend) handle(next backendHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests[r.Pattern]++
		status, fail := b.failures[r.Pattern]
		delete(b.failures, r.Pattern)
		b.mu.Unlock()

		if fail {
			writeJSON(w, status, map[string]any{"error": http.StatusText(status)})
			return
		}

		viewer, err := viewerEmail(r.Header.Get("Authorization"))
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": err.Error()})
			return
		}

		b.mu.Lock()
		defer b.mu.Unlock()
		next(w, r, viewer)
	}
}

func viewerEmail(header string) (string, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return "", fmt.Errorf("missing bearer token")
	}
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return TokenSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return "", fmt.Errorf("token has no email")
	}
	return email, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (b *Backend) newPollLocked(owner, title, choice, access, color string, options []string) *backendPoll {
	b.nextID++
	p := &backendPoll{
		id:          fmt.Sprintf("poll-%d", b.nextID),
		createdAt:   time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(b.nextID) * time.Minute),
		owner:       owner,
		title:       title,
		options:     slices.Clone(options),
		choiceType:  choice,
		accessType:  access,
		colorScheme: color,
		secret:      uuid.NewString(),
		status:      string(models.StatusOpen),
		members:     []string{owner},
		voted:       make(map[string][]string),
	}
	b.polls[p.id] = p
	b.order = append(b.order, p.id)
	return p
}

func (b *Backend) userLocked(email string) map[string]any {
	for _, u := range b.users {
		if u.Email == email {
			out := map[string]any{"name": u.Name, "email": u.Email}
			if u.ImageURL != "" {
				out["image_url"] = u.ImageURL
			}
			return out
		}
	}
	return map[string]any{"name": email, "email": email}
}

func (p *backendPoll) visibleTo(email, secret string) bool {
	if slices.Contains(p.members, email) {
		return true
	}
	return p.accessType == string(models.AccessPublic) || (secret != "" && secret == p.secret)
}

// wireLocked is the snake_case representation of p for viewer.
func (b *Backend) wireLocked(p *backendPoll, viewer string) map[string]any {
	users := make([]map[string]any, 0, len(p.members))
	for _, m := range p.members {
		u := b.userLocked(m)
		u["status"] = string(models.UserEligible)
		if _, ok := p.voted[m]; ok {
			u["status"] = string(models.UserVoted)
		}
		users = append(users, u)
	}

	out := map[string]any{
		"id":               p.id,
		"created_at":       p.createdAt.Format(time.RFC3339),
		"created_by_email": p.owner,
		"created_by":       b.userLocked(p.owner),
		"title":            p.title,
		"options":          p.options,
		"choice_type":      p.choiceType,
		"access_type":      p.accessType,
		"color_scheme":     p.colorScheme,
		"status":           p.status,
		"users":            users,
	}
	if viewer == p.owner {
		out["access_secret"] = p.secret
	}
	if p.status == string(models.StatusClosed) {
		results := make(map[string]int, len(p.options))
		for _, o := range p.options {
			results[o] = 0
		}
		for _, values := range p.voted {
			for _, v := range values {
				results[v]++
			}
		}
		out["results"] = results
	}
	return out
}

func (b *Backend) listUsers(w http.ResponseWriter, r *http.Request, viewer string) {
	out := make([]map[string]any, 0, len(b.users))
	for _, u := range b.users {
		out = append(out, b.userLocked(u.Email))
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) listPolls(w http.ResponseWriter, r *http.Request, viewer string) {
	out := []map[string]any{}
	for i := len(b.order) - 1; i >= 0; i-- {
		p := b.polls[b.order[i]]
		if slices.Contains(p.members, viewer) {
			out = append(out, b.wireLocked(p, viewer))
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) createPoll(w http.ResponseWriter, r *http.Request, viewer string) {
	var req struct {
		Title       string   `json:"title"`
		Options     []string `json:"options"`
		ChoiceType  string   `json:"choice_type"`
		AccessType  string   `json:"access_type"`
		ColorScheme string   `json:"color_scheme"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json"})
		return
	}
	if req.Title == "" || len(req.Options) < 2 || req.ChoiceType == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "invalid poll"})
		return
	}
	if req.AccessType == "" {
		req.AccessType = string(models.AccessInviteOnly)
	}
	p := b.newPollLocked(viewer, req.Title, req.ChoiceType, req.AccessType, req.ColorScheme, req.Options)
	writeJSON(w, http.StatusCreated, b.wireLocked(p, viewer))
}

func (b *Backend) pollFor(w http.ResponseWriter, r *http.Request, viewer string, ownerOnly bool) *backendPoll {
	p, ok := b.polls[r.PathValue("id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "poll not found"})
		return nil
	}
	if ownerOnly && p.owner != viewer {
		writeJSON(w, http.StatusForbidden, map[string]any{"error": "not the owner"})
		return nil
	}
	return p
}

func (b *Backend) getPoll(w http.ResponseWriter, r *http.Request, viewer string) {
	p := b.pollFor(w, r, viewer, false)
	if p == nil {
		return
	}
	if !p.visibleTo(viewer, r.URL.Query().Get("secret")) {
		writeJSON(w, http.StatusForbidden, map[string]any{"error": "no access"})
		return
	}
	writeJSON(w, http.StatusOK, b.wireLocked(p, viewer))
}

func (b *Backend) deletePoll(w http.ResponseWriter, r *http.Request, viewer string) {
	p := b.pollFor(w, r, viewer, true)
	if p == nil {
		return
	}
	delete(b.polls, p.id)
	b.order = slices.DeleteFunc(b.order, func(id string) bool { return id == p.id })
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) addUsers(w http.ResponseWriter, r *http.Request, viewer string) {
	p := b.pollFor(w, r, viewer, true)
	if p == nil {
		return
	}
	var req struct {
		Users []struct {
			Email string `json:"email"`
		} `json:"users"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json"})
		return
	}
	for _, u := range req.Users {
		if u.Email != "" && !slices.Contains(p.members, u.Email) {
			p.members = append(p.members, u.Email)
		}
	}
	writeJSON(w, http.StatusOK, b.wireLocked(p, viewer))
}

func (b *Backend) closePoll(w http.ResponseWriter, r *http.Request, viewer string) {
	p := b.pollFor(w, r, viewer, true)
	if p == nil {
		return
	}
	p.status = string(models.StatusClosed)
	writeJSON(w, http.StatusOK, b.wireLocked(p, viewer))
}

func (b *Backend) vote(w http.ResponseWriter, r *http.Request, viewer string) {
	p := b.pollFor(w, r, viewer, false)
	if p == nil {
		return
	}
	var req struct {
		Values []string `json:"values"`
		Secret string   `json:"secret"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json"})
		return
	}

	switch {
	case p.status != string(models.StatusOpen):
		writeJSON(w, http.StatusConflict, map[string]any{"error": "poll is closed"})
		return
	case !p.visibleTo(viewer, req.Secret):
		writeJSON(w, http.StatusForbidden, map[string]any{"error": "no access"})
		return
	case p.voted[viewer] != nil:
		writeJSON(w, http.StatusConflict, map[string]any{"error": "already voted"})
		return
	case len(req.Values) == 0, p.choiceType == string(models.ChoiceSingle) && len(req.Values) != 1:
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid selection"})
		return
	}
	for _, v := range req.Values {
		if !slices.Contains(p.options, v) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "unknown option"})
			return
		}
	}

	if !slices.Contains(p.members, viewer) {
		p.members = append(p.members, viewer)
	}
	p.voted[viewer] = slices.Clone(req.Values)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
