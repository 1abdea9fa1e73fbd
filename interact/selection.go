// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package interact

import "slices"

// Selection is a set of selected nodes.
type Selection struct {
	ids map[int]bool
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: make(map[int]bool)}
}

// Toggle flips the membership of a node,
// and returns true if the node is now selected.
func (s *Selection) Toggle(id int) bool {
	if s.ids[id] {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = true
	return true
}

// Has returns true if a node is selected.
func (s *Selection) Has(id int) bool {
	return s.ids[id]
}

// Add adds nodes to the selection,
// and returns the number of new selected nodes.
func (s *Selection) Add(ids ...int) int {
	var n int
	for _, id := range ids {
		if s.ids[id] {
			continue
		}
		s.ids[id] = true
		n++
	}
	return n
}

// Remove removes nodes from the selection,
// and returns the number of removed nodes.
func (s *Selection) Remove(ids ...int) int {
	var n int
	for _, id := range ids {
		if !s.ids[id] {
			continue
		}
		delete(s.ids, id)
		n++
	}
	return n
}

// AddFound adds the hits of a search to the selection.
func (s *Selection) AddFound(sr *Search) int {
	return s.Add(hitIDs(sr)...)
}

// RemoveFound removes the hits of a search
// from the selection.
func (s *Selection) RemoveFound(sr *Search) int {
	return s.Remove(hitIDs(sr)...)
}

func hitIDs(sr *Search) []int {
	hits := sr.Hits()
	ids := make([]int, 0, len(hits))
	for _, e := range hits {
		ids = append(ids, e.NodeID)
	}
	return ids
}

// IDs returns the selected nodes,
// sorted by ID.
func (s *Selection) IDs() []int {
	ids := make([]int, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of selected nodes.
func (s *Selection) Len() int {
	return len(s.ids)
}

// Clear removes all nodes from the selection.
func (s *Selection) Clear() {
	clear(s.ids)
}

// Keep removes the nodes not accepted by a function.
// It is used when a tree is edited
// and some nodes are removed.
func (s *Selection) Keep(fn func(id int) bool) {
	for id := range s.ids {
		if !fn(id) {
			delete(s.ids, id)
		}
	}
}
