// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"slices"
	"strings"
	"time"
)

type ChoiceType string

// Choice type constants
const (
	ChoiceSingle   ChoiceType = "SINGLE"
	ChoiceMultiple ChoiceType = "MULTIPLE"
)

// Label is the human readable name shown in selects.
func (c ChoiceType) Label() string {
	if c == ChoiceMultiple {
		return "Multiple Choice"
	}
	return "Single Choice"
}

// ChoiceTypes lists every choice type in display order.
var ChoiceTypes = []ChoiceType{ChoiceSingle, ChoiceMultiple}

type AccessType string

// Access type constants
const (
	AccessPublic     AccessType = "PUBLIC"
	AccessLinkOnly   AccessType = "LINK_ONLY"
	AccessInviteOnly AccessType = "INVITE_ONLY"
)

type ColorScheme string

// ColorSchemes lists every color scheme in display order with its label.
var ColorSchemes = []struct {
	Scheme ColorScheme
	Label  string
}{
	{"RED", "Rot"},
	{"ORANGE", "Orange"},
	{"AMBER", "Amber"},
	{"YELLOW", "Gelb"},
	{"LIME", "Lime"},
	{"GREEN", "Grün"},
	{"TEAL", "Teal"},
	{"CYAN", "Cyan"},
	{"SKY", "Sky"},
	{"BLUE", "Blau"},
	{"INDIGO", "Indigo"},
	{"VIOLET", "Violet"},
	{"PURPLE", "Lila"},
	{"FUCHSIA", "Fuchsia"},
	{"PINK", "Pink"},
	{"ROSE", "Rose"},
	{"SLATE", "Slate"},
	{"GRAY", "Gray"},
	{"ZINC", "Zinc"},
	{"NEUTRAL", "Neutral"},
	{"STONE", "Stone"},
}

// DefaultColorScheme is preselected when creating a poll.
const DefaultColorScheme ColorScheme = "INDIGO"

// Valid reports whether c is one of ColorSchemes.
func (c ColorScheme) Valid() bool {
	for _, s := range ColorSchemes {
		if s.Scheme == c {
			return true
		}
	}
	return false
}

// Theme is the lower case theme name used by the stylesheet, e.g. "indigo".
// Unknown schemes fall back to "gray".
func (c ColorScheme) Theme() string {
	if !c.Valid() {
		return "gray"
	}
	return strings.ToLower(string(c))
}

type PollStatus string

// Poll status constants
const (
	StatusDraft  PollStatus = "DRAFT"
	StatusOpen   PollStatus = "OPEN"
	StatusClosed PollStatus = "CLOSED"
)

func (s PollStatus) rank() int {
	switch s {
	case StatusDraft:
		return 0
	case StatusOpen:
		return 1
	case StatusClosed:
		return 2
	}
	return -1
}

// CanAdvanceTo reports whether a poll may move from s to next. Status is
// monotonic: DRAFT, then OPEN, then CLOSED.
func (s PollStatus) CanAdvanceTo(next PollStatus) bool {
	return s.rank() >= 0 && next.rank() >= s.rank()
}

type PollUserStatus string

// Poll user status constants
const (
	UserEligible PollUserStatus = "ELIGIBLE"
	UserVoted    PollUserStatus = "VOTED"
)

// CanAdvanceTo reports whether a poll user may move from s to next.
// ELIGIBLE may become VOTED; VOTED never reverts.
func (s PollUserStatus) CanAdvanceTo(next PollUserStatus) bool {
	switch s {
	case UserEligible:
		return next == UserEligible || next == UserVoted
	case UserVoted:
		return next == UserVoted
	}
	return false
}

// Request types

type CreatePollRequest struct {
	Title       string      `json:"title"`
	Options     []string    `json:"options"`
	ChoiceType  ChoiceType  `json:"choiceType"`
	AccessType  AccessType  `json:"accessType,omitempty"`
	ColorScheme ColorScheme `json:"colorScheme"`
}

type AddPollUsersRequest struct {
	Users []User `json:"users"`
}

type VoteRequest struct {
	Values []string `json:"values"`
	Secret string   `json:"secret,omitempty"`
}

// Domain types

type User struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"imageUrl,omitempty"`
}

type PollUser struct {
	User
	Status PollUserStatus `json:"status"`
}

// Voted reports whether the user has cast a ballot.
func (u PollUser) Voted() bool {
	return u.Status == UserVoted
}

type Poll struct {
	ID             string      `json:"id"`
	CreatedAt      time.Time   `json:"createdAt"`
	CreatedByEmail string      `json:"createdByEmail,omitempty"`
	Title          string      `json:"title"`
	Options        []string    `json:"options"`
	ChoiceType     ChoiceType  `json:"choiceType"`
	AccessType     AccessType  `json:"accessType,omitempty"`
	ColorScheme    ColorScheme `json:"colorScheme"`
	AccessSecret   string      `json:"accessSecret,omitempty"`
	Status         PollStatus  `json:"status"`

	CreatedBy *User          `json:"createdBy,omitempty"`
	Users     []PollUser     `json:"users,omitempty"`
	Results   map[string]int `json:"results,omitempty"`
}

// UserByEmail returns the poll user with the given email.
func (p *Poll) UserByEmail(email string) (PollUser, bool) {
	for _, u := range p.Users {
		if u.Email == email {
			return u, true
		}
	}
	return PollUser{}, false
}

// IsOwner reports whether email created the poll.
func (p *Poll) IsOwner(email string) bool {
	if email == "" {
		return false
	}
	if p.CreatedBy != nil {
		return p.CreatedBy.Email == email
	}
	return p.CreatedByEmail == email
}

// IsEligible reports whether email is a member of the poll.
func (p *Poll) IsEligible(email string) bool {
	_, ok := p.UserByEmail(email)
	return ok
}

// HasVoted reports whether email already voted.
func (p *Poll) HasVoted(email string) bool {
	u, ok := p.UserByEmail(email)
	return ok && u.Voted()
}

// IsClosed reports whether voting has ended.
func (p *Poll) IsClosed() bool {
	return p.Status == StatusClosed
}

// HasOption reports whether label is one of the poll's options.
func (p *Poll) HasOption(label string) bool {
	return slices.Contains(p.Options, label)
}

// TotalVotes sums every result count.
func (p *Poll) TotalVotes() int {
	total := 0
	for _, n := range p.Results {
		total += n
	}
	return total
}

// MaxVotes is the highest result count, and at least 1.
func (p *Poll) MaxVotes() int {
	m := 1
	for _, n := range p.Results {
		m = max(m, n)
	}
	return m
}

// Percentage is option's share of all votes in [0, 100].
func (p *Poll) Percentage(option string) float64 {
	total := p.TotalVotes()
	if total == 0 {
		return 0
	}
	return float64(p.Results[option]) * 100 / float64(total)
}

// UsersWithStatus filters the poll users by status, keeping their order.
func (p *Poll) UsersWithStatus(status PollUserStatus) []PollUser {
	var out []PollUser
	for _, u := range p.Users {
		if u.Status == status {
			out = append(out, u)
		}
	}
	return out
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
