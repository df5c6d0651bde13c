// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/ui"
)

// EventRequest is a browser event reported by the page script.
type EventRequest struct {
	Target string `json:"target"`
	Type   string `json:"type"`
	Key    string `json:"key,omitempty"`
	Value  string `json:"value,omitempty"`
}

// EventResponse tells the page script whether the event was handled and
// where to go next. Without a redirect the script reloads the page.
type EventResponse struct {
	Handled  bool   `json:"handled"`
	Redirect string `json:"redirect,omitempty"`
}

var eventTypes = map[string]bool{
	"click":   true,
	"change":  true,
	"keydown": true,
}

// Event handles POST /ui/events
func (h *PageHandler) Event(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if !eventTypes[req.Type] {
		middleware.ErrorResponse(w, http.StatusBadRequest, "unknown event type")
		return
	}
	if req.Type != "keydown" && req.Target == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "target is required")
		return
	}

	handled := h.app.Dispatch(r.Context(), req.Target, &ui.Event{
		Type:  req.Type,
		Key:   req.Key,
		Value: req.Value,
	})

	resp := EventResponse{Handled: handled}
	if next, ok := h.app.Env.Nav.Take(); ok {
		resp.Redirect = next
	}

	slog.Debug("event dispatched", "type", req.Type, "target", req.Target, "handled", handled, "redirect", resp.Redirect)
	middleware.JSONResponse(w, http.StatusOK, resp)
}
