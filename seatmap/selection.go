package seatmap

import (
	"golang.org/x/exp/slices"

	"seatmap-cli/venue"
)

type Policy int

const (
	// Multi toggles membership of one id at a time.
	Multi Policy = iota
	// Single keeps at most one id: selecting replaces, reselecting clears.
	Single
)

func (p Policy) String() string {
	if p == Single {
		return "single"
	}
	return "multi"
}

// Selection is an ordered set of ids under a cardinality policy. Ids are only
// added when admit accepts them; removal is always allowed.
type Selection[K comparable] struct {
	policy Policy
	admit  func(K) bool
	ids    []K
}

func NewSelection[K comparable](policy Policy, admit func(K) bool) *Selection[K] {
	if admit == nil {
		admit = func(K) bool { return true }
	}
	return &Selection[K]{policy: policy, admit: admit}
}

// NewSeatSelection admits only available seats of layout.
func NewSeatSelection(policy Policy, layout *venue.Layout) *Selection[venue.SeatID] {
	return NewSelection(policy, SeatAvailable(layout))
}

func SeatAvailable(layout *venue.Layout) func(venue.SeatID) bool {
	return func(id venue.SeatID) bool {
		seat, ok := layout.Seat(id)
		return ok && seat.Available
	}
}

func (s *Selection[K]) Policy() Policy { return s.policy }
func (s *Selection[K]) Len() int       { return len(s.ids) }

func (s *Selection[K]) Contains(id K) bool {
	return slices.Contains(s.ids, id)
}

// IDs returns a copy in insertion order.
func (s *Selection[K]) IDs() []K {
	return slices.Clone(s.ids)
}

// Toggle applies the policy to id and reports whether the set changed.
func (s *Selection[K]) Toggle(id K) bool {
	if i := slices.Index(s.ids, id); i >= 0 {
		if s.policy == Single {
			s.ids = nil
		} else {
			s.ids = slices.Delete(s.ids, i, i+1)
		}
		return true
	}
	if !s.admit(id) {
		return false
	}
	if s.policy == Single {
		s.ids = []K{id}
	} else {
		s.ids = append(s.ids, id)
	}
	return true
}

func (s *Selection[K]) Clear() bool {
	if len(s.ids) == 0 {
		return false
	}
	s.ids = nil
	return true
}

// Retain drops every id keep rejects and returns how many were dropped.
func (s *Selection[K]) Retain(keep func(K) bool) int {
	before := len(s.ids)
	s.ids = slices.DeleteFunc(s.ids, func(id K) bool { return !keep(id) })
	if len(s.ids) == 0 {
		s.ids = nil
	}
	return before - len(s.ids)
}

// SetAdmit replaces the admission rule. Ids already selected are kept.
func (s *Selection[K]) SetAdmit(admit func(K) bool) {
	if admit == nil {
		admit = func(K) bool { return true }
	}
	s.admit = admit
}

// SetLayout points a seat selection at layout and drops seats that no longer
// exist in it. Seats that still exist but became unavailable are kept.
func SetLayout(s *Selection[venue.SeatID], layout *venue.Layout) int {
	s.SetAdmit(SeatAvailable(layout))
	return s.Retain(layout.Has)
}
