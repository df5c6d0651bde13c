// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ui

import (
	"log/slog"
	"sync"
)

type stateMode int

const (
	modeUnset stateMode = iota
	modeUncontrolled
	modeControlled
)

func (m stateMode) String() string {
	switch m {
	case modeUncontrolled:
		return "uncontrolled"
	case modeControlled:
		return "controlled"
	}
	return "unset"
}

// State holds a value that is either owned by the component (uncontrolled)
// or by its parent through a value and change notifier (controlled).
//
// The mode is decided by whether Sync receives a value. Callers must pick a
// mode once per component lifetime; switching is a contract violation that
// is logged and otherwise left as the caller made it.
type State[T any] struct {
	mu       sync.Mutex
	internal T
	external T
	mode     stateMode
	onChange func(T)
}

// NewState returns an uncontrolled state holding defaultValue.
func NewState[T any](defaultValue T) *State[T] {
	return &State[T]{internal: defaultValue}
}

// Sync applies the props of the current render. A non-nil value puts the
// state in controlled mode.
func (s *State[T]) Sync(value *T, onChange func(T)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mode := modeUncontrolled
	if value != nil {
		mode = modeControlled
		s.external = *value
	}
	if s.mode != modeUnset && s.mode != mode {
		slog.Warn("state switched mode during its lifetime",
			"from", s.mode.String(),
			"to", mode.String(),
		)
	}
	s.mode = mode
	s.onChange = onChange
}

// Controlled reports whether the parent owns the value.
func (s *State[T]) Controlled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode == modeControlled
}

// Get returns the current value.
func (s *State[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == modeControlled {
		return s.external
	}
	return s.internal
}

// Set writes v. In controlled mode only the notifier sees v; the parent
// decides whether to pass it back through Sync.
func (s *State[T]) Set(v T) {
	s.mu.Lock()
	if s.mode != modeControlled {
		s.internal = v
	}
	notify := s.onChange
	s.mu.Unlock()

	if notify != nil {
		notify(v)
	}
}

// Update sets the result of fn applied to the current value.
func (s *State[T]) Update(fn func(T) T) {
	s.Set(fn(s.Get()))
}
