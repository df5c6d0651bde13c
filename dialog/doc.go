// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package dialog implements a modal dialog rendered into the document portal.

A Dialog is either uncontrolled, owning its open state, or controlled
through Update by a parent that passes the open value and a change
callback. While open it:

  - locks body scrolling
  - moves focus to the dialog and restores it on close
  - closes on Escape unless IgnoreEscape is set
  - closes on a backdrop click when CloseOnOutsideClick is set

The parts (Content, Header, Title, CloseButton) are plain
element builders and accept AsChild to merge their props into the single
child instead of rendering their own element.

Ids derive from the dialog id: <id>-close for the close button and
<id>-backdrop for the backdrop.
*/
package dialog
