// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package state implements the tree state
// used by the layout engine:
// the orderings of a tree
// (original, ascending, and descending),
// each one with its own chunked edge list.
//
// Sorted orderings are built on the first request
// by cloning and sorting the original tree.
package state

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/js-arias/phyview/edge"
	"github.com/js-arias/phyview/tree"
	"github.com/mattn/go-runewidth"
)

// Ordering is the order of the terminals of a tree.
type Ordering int8

// Valid orderings.
const (
	Original Ordering = iota
	Ascending
	Descending
)

var orderNames = map[Ordering]string{
	Original:   "original",
	Ascending:  "ascending",
	Descending: "descending",
}

func (o Ordering) String() string {
	if s, ok := orderNames[o]; ok {
		return s
	}
	return fmt.Sprintf("ordering(%d)", int(o))
}

// ParseOrdering returns an ordering from its name.
func ParseOrdering(s string) (Ordering, error) {
	for o, n := range orderNames {
		if n == s {
			return o, nil
		}
	}
	return Original, fmt.Errorf("unknown ordering %q", s)
}

// Default values of the options.
const (
	DefaultChunks  = 16
	DefaultTallest = 10
)

// Options are the options used to build the views.
type Options struct {
	// Chunks is the number of chunks of the edge list.
	Chunks int

	// Tallest is the number of tallest terminals
	// stored in each view.
	Tallest int
}

// State contains the orderings of a tree.
type State struct {
	opts    Options
	tree    *tree.Tree
	views   [3]*View
	current Ordering
}

// New creates a new state for a tree.
// The tree must not be modified after calling New.
func New(t *tree.Tree, opts Options) *State {
	if opts.Chunks <= 0 {
		opts.Chunks = DefaultChunks
	}
	if opts.Tallest <= 0 {
		opts.Tallest = DefaultTallest
	}
	return &State{
		opts: opts,
		tree: t,
	}
}

// Tree returns the tree in its original ordering.
func (s *State) Tree() *tree.Tree {
	return s.tree
}

// Ordering returns the current ordering.
func (s *State) Ordering() Ordering {
	return s.current
}

// Built returns true if the view of an ordering
// is already built.
func (s *State) Built(o Ordering) bool {
	if o < Original || o > Descending {
		return false
	}
	return s.views[o] != nil
}

// Switch sets the current ordering,
// and returns its view.
// The view is built on the first request.
func (s *State) Switch(o Ordering) *View {
	if o < Original || o > Descending {
		o = Original
	}
	s.current = o
	if v := s.views[o]; v != nil {
		return v
	}

	t := s.tree
	switch o {
	case Ascending:
		t = t.Clone()
		t.Sort(false)
	case Descending:
		t = t.Clone()
		t.Sort(true)
	}
	v := newView(o, t, s.opts)
	s.views[o] = v
	return v
}

// Current returns the view of the current ordering.
func (s *State) Current() *View {
	return s.Switch(s.current)
}

// A View is a tree in a given ordering
// with its edge list.
type View struct {
	Ordering Ordering
	Tree     *tree.Tree

	// Chunks are contiguous sub-slices of Edges.
	Chunks [][]edge.Edge
	Edges  []edge.Edge

	// TipIdx are the positions of the terminals in Edges.
	TipIdx []int

	// Tallest are the terminals used to reserve
	// the space of the terminal labels.
	Tallest []edge.Edge

	index []int
}

func newView(o Ordering, t *tree.Tree, opts Options) *View {
	flat, chunks, tips := edge.Flatten(t, opts.Chunks)
	v := &View{
		Ordering: o,
		Tree:     t,
		Chunks:   chunks,
		Edges:    flat,
		TipIdx:   tips,
		index:    make([]int, t.Cap()),
	}
	for i := range v.index {
		v.index[i] = -1
	}
	for i, e := range flat {
		v.index[e.NodeID] = i
	}
	v.Tallest = TallestTips(flat, tips, opts.Tallest)
	return v
}

// NumTips returns the number of terminals.
func (v *View) NumTips() int {
	return len(v.TipIdx)
}

// Index returns the position of the edge of a node,
// or -1 if the node is not in the tree.
func (v *View) Index(id int) int {
	if id < 0 || id >= len(v.index) {
		return -1
	}
	return v.index[id]
}

// EdgeOf returns the edge of a node.
func (v *View) EdgeOf(id int) (edge.Edge, bool) {
	i := v.Index(id)
	if i < 0 {
		return edge.Edge{}, false
	}
	return v.Edges[i], true
}

// Clade returns the range of positions
// of the edges of a node and its descendants.
// As the edges are in depth-first order,
// the range is contiguous.
func (v *View) Clade(id int) (start, end int) {
	i := v.Index(id)
	if i < 0 {
		return 0, 0
	}
	return i, i + len(v.Tree.Descendants(id))
}

// BoundingEdges returns the terminals of a clade
// that define the boundary of the clade.
//
// The top boundary are the terminals
// that are taller than all the previous terminals
// (in increasing y order),
// and the bottom boundary are the terminals
// that are taller than all the following terminals
// (in decreasing y order).
// Both boundaries end at the tallest terminal.
func (v *View) BoundingEdges(id int) (top, bottom []edge.Edge) {
	start, end := v.Clade(id)
	if start == end {
		return nil, nil
	}
	clade := v.Edges[start:end]

	x := -1.0
	for _, e := range clade {
		if !e.IsTip || e.X1 <= x {
			continue
		}
		top = append(top, e)
		x = e.X1
	}

	x = -1
	for i := len(clade) - 1; i >= 0; i-- {
		e := clade[i]
		if !e.IsTip || e.X1 <= x {
			continue
		}
		bottom = append(bottom, e)
		x = e.X1
	}
	return top, bottom
}

// NearTie is the fraction of the height of the tallest terminal
// that a terminal must reach to be considered
// when looking for long labels.
const NearTie = 0.9

// TallestTips returns the k terminals with the largest x value,
// plus up to k terminals,
// with a height close to the tallest terminal,
// with the widest labels.
// Returned terminals are sorted by decreasing height.
func TallestTips(flat []edge.Edge, tips []int, k int) []edge.Edge {
	if len(tips) == 0 || k <= 0 {
		return nil
	}

	byHeight := make([]edge.Edge, 0, len(tips))
	for _, i := range tips {
		byHeight = append(byHeight, flat[i])
	}
	slices.SortStableFunc(byHeight, func(a, b edge.Edge) int {
		return cmp.Compare(b.X1, a.X1)
	})
	tallest := slices.Clone(byHeight[:min(k, len(byHeight))])

	limit := byHeight[0].X1 * NearTie
	var near []edge.Edge
	for _, e := range byHeight[len(tallest):] {
		if e.X1 < limit {
			break
		}
		near = append(near, e)
	}
	slices.SortStableFunc(near, func(a, b edge.Edge) int {
		return cmp.Compare(runewidth.StringWidth(b.Name), runewidth.StringWidth(a.Name))
	})
	tallest = append(tallest, near[:min(k, len(near))]...)

	slices.SortStableFunc(tallest, func(a, b edge.Edge) int {
		if c := cmp.Compare(b.X1, a.X1); c != 0 {
			return c
		}
		return cmp.Compare(a.EdgeIdx, b.EdgeIdx)
	})
	return tallest
}

// LabelWidth returns the widest label
// (in display columns)
// of a set of edges.
func LabelWidth(edges []edge.Edge) int {
	var w int
	for _, e := range edges {
		w = max(w, runewidth.StringWidth(e.Name))
	}
	return w
}
