// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package interact implements the interaction state of the viewer:
// the selection,
// the label search,
// the clade highlights,
// the cursor,
// and the context menus.
package interact

import (
	"strings"
	"unicode/utf8"

	"github.com/js-arias/phyview/edge"
	"golang.org/x/text/cases"
)

// Minimum length (in runes) of a query.
const (
	MinQuery    = 3
	MinTipQuery = 2
)

// A Search is a search of node labels.
type Search struct {
	// Minimum length of a query,
	// for searches on all nodes,
	// and on terminals only.
	MinLen    int
	MinTipLen int

	query   string
	folded  string
	tipOnly bool
	hits    []edge.Edge
	cursor  int
	fold    cases.Caser
}

// NewSearch returns a new empty search.
func NewSearch() *Search {
	return &Search{
		MinLen:    MinQuery,
		MinTipLen: MinTipQuery,
		fold:      cases.Fold(),
	}
}

// Set sets the query of the search
// and returns the number of hits.
//
// Hits are the edges whose name contains the query,
// ignoring case,
// in the order of the edge list.
// If the query is too short,
// there are no hits:
// a search on all nodes requires at least MinLen runes
// (MinQuery by default),
// and a search on terminals only
// requires at least MinTipLen runes
// (MinTipQuery by default),
// so short terminal names can be found.
func (s *Search) Set(query string, tipOnly bool, edges []edge.Edge) int {
	s.query = query
	s.tipOnly = tipOnly
	s.folded = s.fold.String(query)
	s.hits = nil
	s.Update(edges)
	return len(s.hits)
}

// Update recomputes the hits of the current query
// on a new edge list
// (for example, after an ordering change).
// The cursor is kept on the same node,
// if it is still a hit.
func (s *Search) Update(edges []edge.Edge) {
	prev := -1
	if e, ok := s.Current(); ok {
		prev = e.NodeID
	}

	s.hits = nil
	s.cursor = 0
	if !s.valid() {
		return
	}
	for _, e := range edges {
		if s.tipOnly && !e.IsTip {
			continue
		}
		if e.Name == "" {
			continue
		}
		if !strings.Contains(s.fold.String(e.Name), s.folded) {
			continue
		}
		if e.NodeID == prev {
			s.cursor = len(s.hits)
		}
		s.hits = append(s.hits, e)
	}
}

func (s *Search) valid() bool {
	want := s.MinLen
	if s.tipOnly {
		want = s.MinTipLen
	}
	n := utf8.RuneCountInString(s.query)
	return n > 0 && n >= want
}

// Clear removes the query.
func (s *Search) Clear() {
	s.query = ""
	s.folded = ""
	s.hits = nil
	s.cursor = 0
}

// Query returns the current query.
func (s *Search) Query() string {
	return s.query
}

// TipOnly returns true if the search is on terminals only.
func (s *Search) TipOnly() bool {
	return s.tipOnly
}

// Hits returns the edges found by the search.
func (s *Search) Hits() []edge.Edge {
	return s.hits
}

// Cursor returns the index of the current hit.
func (s *Search) Cursor() int {
	return s.cursor
}

// Current returns the current hit.
func (s *Search) Current() (edge.Edge, bool) {
	if len(s.hits) == 0 {
		return edge.Edge{}, false
	}
	return s.hits[s.cursor], true
}

// Next moves the cursor to the next hit,
// and returns it.
// After the last hit,
// the cursor returns to the first hit.
func (s *Search) Next() (edge.Edge, bool) {
	if len(s.hits) == 0 {
		return edge.Edge{}, false
	}
	s.cursor = (s.cursor + 1) % len(s.hits)
	return s.hits[s.cursor], true
}

// Prev moves the cursor to the previous hit,
// and returns it.
func (s *Search) Prev() (edge.Edge, bool) {
	if len(s.hits) == 0 {
		return edge.Edge{}, false
	}
	s.cursor = (s.cursor - 1 + len(s.hits)) % len(s.hits)
	return s.hits[s.cursor], true
}
