// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"math"
	"strconv"
	"time"

	"github.com/danielhkuo/quickly-vote/ui"
)

type layoutData struct {
	Title     string
	Canonical string
	Page      ui.Node
	Portals   ui.Node
	BodyStyle map[string]string
	Focus     string
	Refresh   time.Duration
}

// FocusAttr names the element the page script focuses after load.
const FocusAttr = "data-focus"

func layout(d layoutData) ui.Node {
	var refresh ui.Node
	if d.Refresh > 0 {
		secs := int(math.Ceil(d.Refresh.Seconds()))
		refresh = ui.El("meta", ui.Props{Attrs: map[string]string{
			"http-equiv": "refresh",
			"content":    strconv.Itoa(secs),
		}})
	}

	var canonical ui.Node
	if d.Canonical != "" {
		canonical = ui.El("link", ui.Props{Attrs: map[string]string{
			"rel":  "canonical",
			"href": d.Canonical,
		}})
	}

	body := ui.Props{Class: "h-full bg-white", Style: d.BodyStyle}
	if d.Focus != "" {
		body = body.Attr(FocusAttr, d.Focus)
	}

	return ui.El("html", ui.Props{Attrs: map[string]string{"lang": "de"}},
		ui.El("head", ui.Props{},
			ui.El("meta", ui.Props{Attrs: map[string]string{"charset": "utf-8"}}),
			ui.El("meta", ui.Props{Attrs: map[string]string{
				"name":    "viewport",
				"content": "width=device-width, initial-scale=1",
			}}),
			refresh,
			canonical,
			ui.El("title", ui.Props{}, ui.Text(d.Title)),
		),
		ui.El("body", body,
			ui.El("div", ui.Props{Class: "h-full", Attrs: map[string]string{"id": "root"}}, d.Page),
			d.Portals,
			ui.El("script", ui.Props{}, ui.Text(bridgeScript)),
		),
	)
}

// bridgeScript reports clicks, changes and Escape to /ui/events one at a
// time, then follows the returned redirect or reloads.
const bridgeScript = `(function () {
  var queue = Promise.resolve(), pending = 0, redirect = "";

  function finish() {
    if (--pending > 0) return;
    if (redirect) location.assign(redirect); else location.reload();
  }

  function send(ev) {
    pending++;
    queue = queue.then(function () {
      return fetch("/ui/events", {
        method: "POST",
        headers: {"Content-Type": "application/json"},
        body: JSON.stringify(ev)
      }).then(function (r) { return r.json(); }).then(function (res) {
        if (res.redirect) redirect = res.redirect;
      });
    }).catch(function () {}).then(finish);
  }

  function handles(el, type) {
    return (el.getAttribute("data-events") || "").split(" ").indexOf(type) >= 0;
  }

  function target(el, type) {
    while (el && el.closest) {
      el = el.closest("[data-events]");
      if (!el || handles(el, type)) return el;
      el = el.parentElement;
    }
    return null;
  }

  document.addEventListener("click", function (e) {
    var el = target(e.target, "click");
    if (!el || !el.id || el.disabled) return;
    e.preventDefault();
    send({target: el.id, type: "click"});
  });

  document.addEventListener("change", function (e) {
    var el = e.target;
    if (!el.id || !handles(el, "change")) return;
    send({target: el.id, type: "change", value: el.value});
  });

  document.addEventListener("keydown", function (e) {
    if (e.key !== "Escape") return;
    e.preventDefault();
    send({type: "keydown", key: e.key});
  });

  var focus = document.body.getAttribute("data-focus");
  if (focus) {
    var el = document.getElementById(focus);
    if (el) el.focus();
  }
})();`
