// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-vote/app"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/testutil"
	"github.com/danielhkuo/quickly-vote/views"
)

type testServer struct {
	mux     *http.ServeMux
	app     *app.App
	backend *testutil.Backend
}

func newTestServer(t *testing.T, user models.User) *testServer {
	t.Helper()

	backend := testutil.NewBackend(t, testutil.Alice, testutil.Bob, testutil.Carol)
	a := app.New(testutil.NewEnv(t, backend, user))
	t.Cleanup(a.Reset)

	h := NewPageHandler(a, testutil.GetTestConfig())
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /poll/create", h.CreatePoll)
	mux.HandleFunc("GET /poll/{id}", h.Poll)
	mux.HandleFunc("GET /poll/{id}/share", h.SharePoll)
	mux.HandleFunc("GET /poll/{id}/manage", h.ManagePoll)
	mux.HandleFunc("GET /signin", h.SignIn)
	mux.HandleFunc("POST /ui/events", h.Event)

	return &testServer{mux: mux, app: a, backend: backend}
}

func (s *testServer) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	s.mux.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
	return w
}

func (s *testServer) event(t *testing.T, req EventRequest) EventResponse {
	t.Helper()

	w := httptest.NewRecorder()
	s.mux.ServeHTTP(w, testutil.MakeRequest("POST", "/ui/events", req, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200 for event %+v, got %d: %s", req, w.Code, w.Body.String())
	}

	var resp EventResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode event response: %v", err)
	}
	return resp
}

func TestHome_RendersDocument(t *testing.T) {
	s := newTestServer(t, testutil.Alice)
	s.backend.SeedPoll(testutil.Alice.Email, "Team lunch", models.ChoiceSingle, []string{"Pizza", "Sushi"})

	w := s.get(t, "/")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Expected HTML, got %q", ct)
	}

	body := w.Body.String()
	for _, want := range []string{"<!DOCTYPE html>", "Team lunch", `data-events="click"`, "/ui/events"} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected page to contain %q", want)
		}
	}
	if strings.Contains(body, `http-equiv="refresh"`) {
		t.Error("Expected no refresh once polls are loaded")
	}
}

func TestRender_CanonicalLinkUsesPublicURL(t *testing.T) {
	s := newTestServer(t, testutil.Alice)
	id := s.backend.SeedPoll(testutil.Alice.Email, "Team lunch", models.ChoiceSingle, []string{"Pizza", "Sushi"})

	w := s.get(t, "/poll/"+id+"/manage")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	want := `href="https://vote.example/poll/` + id + `/manage" rel="canonical"`
	if !strings.Contains(w.Body.String(), want) {
		t.Errorf("Expected page to contain %q", want)
	}
}

func TestHome_KeepsViewAcrossReloads(t *testing.T) {
	s := newTestServer(t, testutil.Alice)

	s.get(t, "/")
	first := s.app.Current()
	s.get(t, "/")

	if s.app.Current() != first {
		t.Error("Expected reloading the same route to keep the view")
	}

	s.get(t, "/poll/create")
	if s.app.Current() == first {
		t.Error("Expected a new route to replace the view")
	}
}

func TestCreatePoll_ThroughEvents(t *testing.T) {
	s := newTestServer(t, testutil.Alice)

	if w := s.get(t, "/poll/create"); w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	s.event(t, EventRequest{Target: views.CreateTitleID, Type: "change", Value: "Pizza?"})
	s.event(t, EventRequest{Target: views.CreateOptionID(0), Type: "change", Value: "Yes"})
	s.event(t, EventRequest{Target: views.CreateOptionID(1), Type: "change", Value: "No"})
	resp := s.event(t, EventRequest{Target: views.CreateSubmitID, Type: "click"})

	if !resp.Handled {
		t.Fatal("Expected submit to be handled")
	}
	if resp.Redirect != views.SharePollPath("poll-1") {
		t.Errorf("Expected redirect to share page, got %q", resp.Redirect)
	}
	if n := s.backend.Requests("POST /polls"); n != 1 {
		t.Errorf("Expected one create request, got %d", n)
	}
}

func TestEvent_UnknownTarget(t *testing.T) {
	s := newTestServer(t, testutil.Alice)
	s.get(t, "/")

	resp := s.event(t, EventRequest{Target: "does-not-exist", Type: "click"})
	if resp.Handled {
		t.Error("Expected unknown target not to be handled")
	}
	if resp.Redirect != "" {
		t.Errorf("Expected no redirect, got %q", resp.Redirect)
	}
}

func TestEvent_Invalid(t *testing.T) {
	s := newTestServer(t, testutil.Alice)

	testCases := []struct {
		name string
		body any
	}{
		{"unknown type", EventRequest{Target: "x", Type: "scroll"}},
		{"missing target", EventRequest{Type: "click"}},
		{"not json", "{"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var req *http.Request
			if raw, ok := tc.body.(string); ok {
				req = httptest.NewRequest("POST", "/ui/events", strings.NewReader(raw))
			} else {
				req = testutil.MakeRequest("POST", "/ui/events", tc.body, nil)
			}
			w := httptest.NewRecorder()
			s.mux.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", w.Code)
			}
		})
	}
}

func TestManage_ConfirmDialogAndEscape(t *testing.T) {
	s := newTestServer(t, testutil.Alice)
	id := s.backend.SeedPoll(testutil.Alice.Email, "Offsite", models.ChoiceSingle, []string{"Berlin", "Hamburg"})

	s.get(t, views.ManagePollPath(id))
	resp := s.event(t, EventRequest{Target: views.ManageCloseID, Type: "click"})
	if !resp.Handled {
		t.Fatal("Expected close click to be handled")
	}

	body := s.get(t, views.ManagePollPath(id)).Body.String()
	if !strings.Contains(body, "overflow: hidden") {
		t.Error("Expected the page scroll to be locked while the dialog is open")
	}
	if !strings.Contains(body, views.ManageCloseConfirmID+"-confirm") {
		t.Error("Expected the confirmation dialog in the page")
	}

	s.event(t, EventRequest{Type: "keydown", Key: "Escape"})

	manage := s.app.Current().(*views.ManagePoll)
	closeConfirm, _ := manage.Confirmers()
	if closeConfirm.Pending() {
		t.Error("Expected Escape to cancel the confirmation")
	}
	manage.Wait()

	body = s.get(t, views.ManagePollPath(id)).Body.String()
	if strings.Contains(body, "overflow: hidden") {
		t.Error("Expected the scroll lock to be released")
	}
	if n := s.backend.Requests("POST /polls/{id}/close"); n != 0 {
		t.Errorf("Expected no close request after cancel, got %d", n)
	}
}

func TestManage_CloseNavigatesToPoll(t *testing.T) {
	s := newTestServer(t, testutil.Alice)
	id := s.backend.SeedPoll(testutil.Alice.Email, "Offsite", models.ChoiceSingle, []string{"Berlin", "Hamburg"})

	s.get(t, views.ManagePollPath(id))
	s.event(t, EventRequest{Target: views.ManageCloseID, Type: "click"})
	s.event(t, EventRequest{Target: views.ManageCloseConfirmID + "-confirm", Type: "click"})

	s.app.Current().(*views.ManagePoll).Wait()

	w := s.get(t, views.ManagePollPath(id))
	if w.Code != http.StatusSeeOther {
		t.Fatalf("Expected a redirect after closing, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != views.PollPath(id) {
		t.Errorf("Expected redirect to %s, got %q", views.PollPath(id), loc)
	}
}

func TestSignIn(t *testing.T) {
	t.Run("signed in users skip the form", func(t *testing.T) {
		s := newTestServer(t, testutil.Alice)

		w := s.get(t, "/signin?next=/poll/create")
		if w.Code != http.StatusSeeOther {
			t.Fatalf("Expected 303, got %d", w.Code)
		}
		if loc := w.Header().Get("Location"); loc != "/poll/create" {
			t.Errorf("Expected redirect to next, got %q", loc)
		}
	})

	t.Run("foreign next is ignored", func(t *testing.T) {
		s := newTestServer(t, testutil.Alice)

		w := s.get(t, "/signin?next=//evil.example")
		if loc := w.Header().Get("Location"); loc != "/" {
			t.Errorf("Expected redirect home, got %q", loc)
		}
	})

	t.Run("token form", func(t *testing.T) {
		s := newTestServer(t, models.User{})

		if w := s.get(t, "/signin?next=/poll/create"); w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		s.event(t, EventRequest{Target: views.SignInTokenID, Type: "change", Value: testutil.MintToken(t, testutil.Bob, time.Hour)})
		resp := s.event(t, EventRequest{Target: views.SignInSubmitID, Type: "click"})

		if resp.Redirect != "/poll/create" {
			t.Errorf("Expected redirect to /poll/create, got %q", resp.Redirect)
		}
		if got := s.app.Env.Session.Viewer().Email; got != testutil.Bob.Email {
			t.Errorf("Expected Bob to be signed in, got %q", got)
		}
	})
}

func TestShow_FollowsPendingNavigation(t *testing.T) {
	s := newTestServer(t, testutil.Alice)
	s.get(t, "/")

	s.app.Env.Nav.Push("/poll/create")
	w := s.get(t, "/")

	if w.Code != http.StatusSeeOther {
		t.Fatalf("Expected 303, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/poll/create" {
		t.Errorf("Expected redirect to /poll/create, got %q", loc)
	}

	// The navigation is consumed
	if w := s.get(t, "/"); w.Code != http.StatusOK {
		t.Errorf("Expected 200 after the navigation was followed, got %d", w.Code)
	}
}
