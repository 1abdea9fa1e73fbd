// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package interact

import (
	"iter"
	"math"

	"github.com/js-arias/phyview/edge"
	"gonum.org/v1/gonum/spatial/r2"
)

// Cursor tracks the node under the pointer.
type Cursor struct {
	node int
	pos  r2.Vec
	set  bool
}

// Set sets the node under the pointer,
// and returns true if the node changed.
func (c *Cursor) Set(node int, pos r2.Vec) bool {
	changed := !c.set || c.node != node
	c.node, c.pos, c.set = node, pos, true
	return changed
}

// Clear removes the node under the pointer,
// and returns true if there was a node.
func (c *Cursor) Clear() bool {
	was := c.set
	c.set = false
	return was
}

// Node returns the node under the pointer.
func (c *Cursor) Node() (int, bool) {
	return c.node, c.set
}

// Pos returns the position of the node under the pointer.
func (c *Cursor) Pos() r2.Vec {
	return c.pos
}

// Pick returns the edge whose node point
// is the closest to a point,
// within a given radius.
func Pick(edges iter.Seq[edge.Edge], place func(edge.Edge) r2.Vec, pt r2.Vec, radius float64) (edge.Edge, bool) {
	var best edge.Edge
	found := false
	dist := math.Inf(1)
	for e := range edges {
		d := r2.Norm(r2.Sub(place(e), pt))
		if d > radius || d >= dist {
			continue
		}
		best, dist, found = e, d, true
	}
	return best, found
}
