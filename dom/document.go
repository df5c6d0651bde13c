// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package dom

import (
	"sort"
	"sync"

	"github.com/danielhkuo/quickly-vote/ui"
)

// Document is the page-wide state shared by every component: the scroll
// lock, the focused element, document key listeners and the portal root.
// One Document exists per composition root.
type Document struct {
	mu sync.Mutex

	scrollLocks int
	focused     string

	nextListener int
	listeners    map[int]func(*ui.Event)

	nextPortal int
	portals    map[string]portal
}

type portal struct {
	seq    int
	render func() ui.Node
}

// New returns an empty document.
func New() *Document {
	return &Document{
		listeners: map[int]func(*ui.Event){},
		portals:   map[string]portal{},
	}
}

// ScrollLock is a held reference on the page scroll lock.
type ScrollLock struct {
	once sync.Once
	doc  *Document
}

// LockScroll disables page scrolling until the returned lock is released.
// Locks are counted; scrolling resumes when the last one is released.
func (d *Document) LockScroll() *ScrollLock {
	d.mu.Lock()
	d.scrollLocks++
	d.mu.Unlock()
	return &ScrollLock{doc: d}
}

// Release gives the lock back. Releasing twice is a no-op.
func (l *ScrollLock) Release() {
	if l == nil {
		return
	}
	l.once.Do(func() {
		l.doc.mu.Lock()
		defer l.doc.mu.Unlock()
		if l.doc.scrollLocks > 0 {
			l.doc.scrollLocks--
		}
	})
}

// ScrollLocked reports whether any scroll lock is held.
func (d *Document) ScrollLocked() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.scrollLocks > 0
}

// BodyStyle is the inline style the body element renders with.
func (d *Document) BodyStyle() map[string]string {
	if d.ScrollLocked() {
		return map[string]string{"overflow": "hidden"}
	}
	return nil
}

// Focus moves focus to the element with the given id. An empty id blurs.
func (d *Document) Focus(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.focused = id
}

// ActiveElement returns the id of the focused element, or "".
func (d *Document) ActiveElement() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.focused
}

// AddKeyListener registers fn for document keydown events and returns a
// function removing it.
func (d *Document) AddKeyListener(fn func(*ui.Event)) (remove func()) {
	d.mu.Lock()
	id := d.nextListener
	d.nextListener++
	d.listeners[id] = fn
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.listeners, id)
			d.mu.Unlock()
		})
	}
}

// DispatchKey delivers a keydown event to every listener in registration
// order. Listeners run without the document lock held.
func (d *Document) DispatchKey(key string) {
	d.mu.Lock()
	ids := make([]int, 0, len(d.listeners))
	for id := range d.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(*ui.Event), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, d.listeners[id])
	}
	d.mu.Unlock()

	ev := &ui.Event{Type: "keydown", Key: key}
	for _, fn := range fns {
		fn(ev)
	}
}

// Mount renders a subtree into the top-level portal root under id,
// independent of where its owner sits in the page tree. Mounting an id
// twice replaces the earlier render function.
func (d *Document) Mount(id string, render func() ui.Node) (unmount func()) {
	d.mu.Lock()
	seq := d.nextPortal
	d.nextPortal++
	d.portals[id] = portal{seq: seq, render: render}
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if p, ok := d.portals[id]; ok && p.seq == seq {
			delete(d.portals, id)
		}
	}
}

// Portals renders every mounted portal in mount order.
func (d *Document) Portals() ui.Fragment {
	d.mu.Lock()
	list := make([]portal, 0, len(d.portals))
	for _, p := range d.portals {
		list = append(list, p)
	}
	d.mu.Unlock()

	sort.Slice(list, func(i, j int) bool { return list[i].seq < list[j].seq })
	out := make(ui.Fragment, 0, len(list))
	for _, p := range list {
		if n := p.render(); n != nil {
			out = append(out, n)
		}
	}
	return out
}
