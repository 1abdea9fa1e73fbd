// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package viewport implements the queries
// of the edges visible in a viewport.
//
// In a phylogram,
// the visible set is a contiguous range of the edge list
// found from the range of visible terminals.
// In a fan,
// all edges are tested against the visible rectangle.
// In both cases,
// if the visible set is larger than a budget,
// an empty set is returned
// and the set is flagged as an overrun.
package viewport

import (
	"iter"
	"math"

	"github.com/js-arias/phyview/edge"
	"github.com/js-arias/phyview/projection"
	"github.com/js-arias/phyview/state"
	"gonum.org/v1/gonum/spatial/r2"
)

// A Budget is the maximum number of terminals
// and nodes that can be drawn in a frame.
// A zero value means no limit.
type Budget struct {
	MaxTips  int
	MaxNodes int
}

func (b Budget) tipsOver(n int) bool {
	return b.MaxTips > 0 && n > b.MaxTips
}

func (b Budget) nodesOver(n int) bool {
	return b.MaxNodes > 0 && n > b.MaxNodes
}

// A Set is a set of visible edges.
type Set struct {
	// Edges are the visible edges.
	// In a phylogram they are a sub-slice
	// of the edge list of the view.
	Edges []edge.Edge

	// Ancestors are edges outside the visible range
	// of the edge list
	// that are ancestors of the visible edges
	// and whose horizontal edge is inside the viewport.
	Ancestors []edge.Edge

	// Start and End are the range of the visible edges
	// in the edge list
	// (only for phylograms).
	Start, End int

	// TipStart and TipEnd are the range of the visible terminals
	// (only for phylograms).
	TipStart, TipEnd int

	// Overrun is true if the visible set
	// was larger than the budget.
	Overrun bool

	tips int
}

// Len returns the number of edges in the set.
func (s Set) Len() int {
	return len(s.Edges) + len(s.Ancestors)
}

// Tips returns the number of terminals in the set.
func (s Set) Tips() int {
	return s.tips
}

// All returns an iterator over the edges of the set,
// ancestors first.
func (s Set) All() iter.Seq[edge.Edge] {
	return func(yield func(edge.Edge) bool) {
		for _, e := range s.Ancestors {
			if !yield(e) {
				return
			}
		}
		for _, e := range s.Edges {
			if !yield(e) {
				return
			}
		}
	}
}

// A Query is a vertical window of a phylogram
// in canvas pixels.
type Query struct {
	Y0, Y1 float64

	// NodeSize is the number of pixels
	// used by each terminal.
	NodeSize float64
}

// Pixel returns the canvas y of a unit y
// in a tree with the given number of terminals.
// Each terminal is at the center of its own row.
func (q Query) Pixel(y float64, tips int) float64 {
	return q.NodeSize/2 + y*float64(max(tips-1, 0))*q.NodeSize
}

// Phylogram returns the edges visible
// in a vertical window of a phylogram.
func Phylogram(q Query, v *state.View, b Budget) Set {
	n := v.NumTips()
	if n == 0 || q.NodeSize <= 0 || q.Y1 < q.Y0 {
		return Set{}
	}

	start := max(0, int(math.Floor(q.Y0/q.NodeSize)))
	end := min(n-1, int(math.Ceil(q.Y1/q.NodeSize)))
	if start > end {
		return Set{}
	}
	if b.tipsOver(end - start + 1) {
		return Set{Overrun: true}
	}

	lo := v.TipIdx[start]
	hi := v.TipIdx[end] + 1
	if b.nodesOver(hi - lo) {
		return Set{Overrun: true}
	}

	s := Set{
		Edges:    v.Edges[lo:hi:hi],
		Start:    lo,
		End:      hi,
		TipStart: start,
		TipEnd:   end + 1,
		tips:     end - start + 1,
	}

	for p := v.Edges[lo].Parent; p >= 0; {
		e, ok := v.EdgeOf(p)
		if !ok {
			break
		}
		if y := q.Pixel(e.Y, n); y >= q.Y0 && y <= q.Y1 {
			s.Ancestors = append(s.Ancestors, e)
		}
		p = e.Parent
	}
	return s
}

// A FanQuery is a visible rectangle of a fan.
type FanQuery struct {
	Rect r2.Box

	// Translate is the position of the center of the fan
	// in the canvas.
	Translate r2.Vec
}

// Fan returns the edges whose node point
// is visible in a fan.
func Fan(q FanQuery, p projection.Projection, v *state.View, b Budget) Set {
	var s Set
	for _, e := range v.Edges {
		pt := r2.Add(p.NodePoint(e, 0, 0), q.Translate)
		if !projection.Contains(q.Rect, pt) {
			continue
		}
		if e.IsTip {
			s.tips++
			if b.tipsOver(s.tips) {
				return Set{Overrun: true}
			}
		}
		s.Edges = append(s.Edges, e)
		if b.nodesOver(len(s.Edges)) {
			return Set{Overrun: true}
		}
	}
	return s
}
