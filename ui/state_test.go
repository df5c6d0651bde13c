// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ui

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestState_Uncontrolled(t *testing.T) {
	s := NewState(1)
	var notified []int
	s.Sync(nil, func(v int) { notified = append(notified, v) })

	s.Set(2)
	s.Update(func(v int) int { return v * 10 })

	if s.Get() != 20 {
		t.Errorf("Expected 20, got %d", s.Get())
	}
	if len(notified) != 2 || notified[1] != 20 {
		t.Errorf("Unexpected notifications %v", notified)
	}
	if s.Controlled() {
		t.Error("Expected uncontrolled state")
	}
}

func TestState_Controlled(t *testing.T) {
	s := NewState(false)
	open := true
	var requested []bool
	s.Sync(&open, func(v bool) { requested = append(requested, v) })

	s.Set(false)

	if !s.Get() {
		t.Error("Expected the parent value to win until it syncs")
	}
	if len(requested) != 1 || requested[0] {
		t.Errorf("Expected one close request, got %v", requested)
	}

	open = false
	s.Sync(&open, nil)
	if s.Get() {
		t.Error("Expected the synced parent value")
	}
	if !s.Controlled() {
		t.Error("Expected controlled state")
	}
}

func TestState_UnsetDefaultsToUncontrolled(t *testing.T) {
	s := NewState("a")
	s.Set("b")
	if s.Get() != "b" {
		t.Errorf("Expected b, got %s", s.Get())
	}
}

type fakeTimer struct {
	now     time.Time
	delays  []time.Duration
	pending []func()
}

func (f *fakeTimer) install(a *Action) {
	a.now = func() time.Time { return f.now }
	a.afterFunc = func(d time.Duration, fn func()) {
		f.delays = append(f.delays, d)
		f.pending = append(f.pending, fn)
	}
}

func (f *fakeTimer) fire() {
	for _, fn := range f.pending {
		fn()
	}
	f.pending = nil
}

func TestAction_MinimumBusy(t *testing.T) {
	a := NewAction(500 * time.Millisecond)
	clock := &fakeTimer{now: time.Unix(0, 0)}
	clock.install(a)

	errBoom := errors.New("boom")
	err := a.Run(context.Background(), func(context.Context) error {
		if !a.Busy() {
			t.Error("Expected busy while running")
		}
		clock.now = clock.now.Add(200 * time.Millisecond)
		return errBoom
	})

	if !errors.Is(err, errBoom) {
		t.Errorf("Expected the operation error right away, got %v", err)
	}
	if !a.Busy() {
		t.Error("Expected busy until the minimum has passed")
	}
	if len(clock.delays) != 1 || clock.delays[0] != 300*time.Millisecond {
		t.Errorf("Expected remaining 300ms, got %v", clock.delays)
	}

	clock.fire()
	if a.Busy() {
		t.Error("Expected idle after the minimum")
	}
}

func TestAction_SlowOperation(t *testing.T) {
	a := NewAction(500 * time.Millisecond)
	clock := &fakeTimer{now: time.Unix(0, 0)}
	clock.install(a)

	a.Run(context.Background(), func(context.Context) error {
		clock.now = clock.now.Add(time.Second)
		return nil
	})

	if a.Busy() {
		t.Error("Expected idle right after a slow operation")
	}
	if len(clock.delays) != 0 {
		t.Errorf("Expected no timer, got %v", clock.delays)
	}

	var nilAction *Action
	if nilAction.Busy() {
		t.Error("Expected nil action to be idle")
	}
}
