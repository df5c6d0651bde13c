// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package dialog

import (
	"github.com/danielhkuo/quickly-vote/ui"
)

// PartProps configures a dialog part. With AsChild the part forwards its
// props onto its single child instead of rendering its own element.
type PartProps struct {
	ui.Props
	AsChild bool
}

// Content is the dialog panel.
func Content(p PartProps, children ...ui.Node) ui.Node {
	own := ui.Props{
		Class: "bg-white border border-divider/70 text-black text-base/7 shadow-2xl fixed top-1/2 left-1/2 -translate-x-1/2 -translate-y-1/2 p-8 pt-7 flex flex-col gap-8 max-h-[90vh] overflow-auto w-full outline-none max-w-[90%] !max-h-auto !h-auto rounded-5xl",
	}
	return ui.As(p.AsChild, "div", ui.MergeProps(own, p.Props), children...)
}

// Header lays out the title and close button.
func Header(p PartProps, children ...ui.Node) ui.Node {
	own := ui.Props{Class: "flex items-center justify-between gap-4"}
	return ui.As(p.AsChild, "div", ui.MergeProps(own, p.Props), children...)
}

// Title is the dialog heading.
func Title(p PartProps, children ...ui.Node) ui.Node {
	own := ui.Props{Class: "flex gap-4 justify-between items-center text-4xl/9 font-bold text-gray-900"}
	return ui.As(p.AsChild, "h1", ui.MergeProps(own, p.Props), children...)
}

// CloseButton closes the dialog in ctx, then runs the caller's click
// handler if one is set. Without children it renders a cross.
func CloseButton(ctx Context, p PartProps, children ...ui.Node) ui.Node {
	own := ui.Props{
		Class: "flex items-center justify-center text-2xl text-dimmed hover:text-bright rounded-md w-9 h-9 hover:bg-highlight cursor-pointer",
		Attrs: map[string]string{
			"id":         ctx.ID + "-close",
			"type":       "button",
			"aria-label": "Close",
		},
	}.On("click", func(*ui.Event) { ctx.Close() })

	if len(children) == 0 && !p.AsChild {
		children = []ui.Node{ui.Text("×")}
	}
	return ui.As(p.AsChild, "button", ui.MergeProps(own, p.Props), children...)
}
