// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-vote/casing"
	"github.com/danielhkuo/quickly-vote/models"
)

// Keys whose values are data, not objects with field names. Their keys
// are never translated.
var opaqueKeys = []string{"results"}

// TokenSource supplies the bearer credential for each request.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// StatusError is returned for every non-2xx backend response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API call failed: %s %s: %s", e.Method, e.Path, e.Status)
}

// Client calls the poll backend.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// New returns a client for the backend at baseURL. Cookies set by the
// backend are kept and sent back on later requests.
func New(baseURL string, tokens TokenSource) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 15 * time.Second,
			Jar:     jar,
		},
		tokens: tokens,
	}
}

// call performs one request. in is encoded to JSON with its keys turned to
// snake_case; the response keys are turned to camelCase and decoded into
// out. Either may be nil.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		wire, err := toWire(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(wire)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	requestID := uuid.NewString()
	token := ""
	if c.tokens != nil {
		token = c.tokens.Token()
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		slog.Warn("backend request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	slog.Debug("backend request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		slog.Warn("backend request rejected", "method", method, "path", path, "status", resp.StatusCode, "request_id", requestID)
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Status:     fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := fromWire(resp.Body, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func toWire(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return json.Marshal(casing.ToSnake(generic, opaqueKeys...))
}

func fromWire(r io.Reader, out any) error {
	var generic any
	if err := json.NewDecoder(r).Decode(&generic); err != nil {
		return err
	}
	raw, err := json.Marshal(casing.ToCamel(generic, opaqueKeys...))
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// ListUsers returns every user the viewer may invite.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.call(ctx, http.MethodGet, "/users", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListPolls returns the polls visible to the viewer, newest first.
func (c *Client) ListPolls(ctx context.Context) ([]models.Poll, error) {
	var polls []models.Poll
	if err := c.call(ctx, http.MethodGet, "/polls", nil, nil, &polls); err != nil {
		return nil, err
	}
	return polls, nil
}

// CreatePoll creates a poll owned by the viewer.
func (c *Client) CreatePoll(ctx context.Context, req models.CreatePollRequest) (*models.Poll, error) {
	var poll models.Poll
	if err := c.call(ctx, http.MethodPost, "/polls", nil, req, &poll); err != nil {
		return nil, err
	}
	return &poll, nil
}

// GetPoll reads one poll. A non-empty secret grants access to viewers who
// are not members.
func (c *Client) GetPoll(ctx context.Context, id, secret string) (*models.Poll, error) {
	var query url.Values
	if secret != "" {
		query = url.Values{"secret": {secret}}
	}
	var poll models.Poll
	if err := c.call(ctx, http.MethodGet, "/polls/"+url.PathEscape(id), query, nil, &poll); err != nil {
		return nil, err
	}
	return &poll, nil
}

// DeletePoll removes a poll and everything attached to it.
func (c *Client) DeletePoll(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/polls/"+url.PathEscape(id), nil, nil, nil)
}

// AddPollUsers makes users eligible to vote.
func (c *Client) AddPollUsers(ctx context.Context, id string, users []models.User) (*models.Poll, error) {
	var poll models.Poll
	body := models.AddPollUsersRequest{Users: users}
	if err := c.call(ctx, http.MethodPost, "/polls/"+url.PathEscape(id)+"/users", nil, body, &poll); err != nil {
		return nil, err
	}
	return &poll, nil
}

// ClosePoll ends voting.
func (c *Client) ClosePoll(ctx context.Context, id string) (*models.Poll, error) {
	var poll models.Poll
	if err := c.call(ctx, http.MethodPost, "/polls/"+url.PathEscape(id)+"/close", nil, nil, &poll); err != nil {
		return nil, err
	}
	return &poll, nil
}

// Vote casts the viewer's ballot.
func (c *Client) Vote(ctx context.Context, id string, req models.VoteRequest) error {
	return c.call(ctx, http.MethodPost, "/polls/"+url.PathEscape(id)+"/vote", nil, req, nil)
}
