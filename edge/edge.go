// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package edge implements the flattening of a tree
// into a dense table of edges
// with coordinates in a unit layout space.
//
// The x coordinate of an edge is the normalized cumulative height
// (0 at the root, 1 at the tallest terminal),
// and the y coordinate of a terminal is its ordinal
// among the terminals,
// normalized to [0, 1].
// Internal nodes are placed at the midpoint
// of the extremes of their children.
package edge

import (
	"errors"
	"fmt"

	"github.com/js-arias/phyview/tree"
)

// An Edge is the branch that connects a node
// with its parent.
// The root has an edge without parent.
type Edge struct {
	// Parent is the ID of the parent node,
	// or -1 for the root.
	Parent int

	// Child is the ID of the node at the end of the edge.
	Child int

	Name   string
	Length float64

	// Normalized coordinates of the edge.
	X0, X1 float64
	XMid   float64
	Y      float64

	// YParent is the y coordinate of the parent edge.
	// It is the same as Y for the root.
	YParent float64

	IsTip bool

	// EdgeIdx is the position of the edge
	// in the flat edge list,
	// and ChunkIdx is the index of the chunk
	// that contains the edge.
	EdgeIdx  int
	ChunkIdx int

	// NodeID is the node of the tree
	// represented by the edge.
	NodeID int
}

// HasParent returns true if the edge is not the root edge.
func (e Edge) HasParent() bool {
	return e.Parent >= 0
}

// Flatten converts a tree into a list of edges
// in depth-first order
// (following the order of the children of each node),
// and partitions the list in chunks.
//
// The number of chunks is at least 1.
// All chunks have the same size,
// except a trailing chunk with the remainder edges.
// Chunks are sub-slices of the flat list.
//
// It also returns the sorted positions
// of the terminals in the flat list.
//
// If the tree has no branch lengths,
// the number of edges from the root is used
// as the x coordinate.
func Flatten(t *tree.Tree, chunks int) (flat []Edge, chunked [][]Edge, tips []int) {
	order := t.Nodes()
	flat = make([]Edge, len(order))

	depth, height := t.Depth, t.Height()
	if height == 0 {
		depth, height = edgeDepth(t, order)
	}
	x := func(id int) float64 {
		if height == 0 {
			return 0
		}
		return depth(id) / height
	}

	numTips := t.NumTips()
	pos := make(map[int]int, len(order))
	for i, id := range order {
		p := t.Parent(id)
		e := Edge{
			Parent: p,
			Child:  id,
			Name:   t.Name(id),
			Length: t.Length(id),
			X1:     x(id),
			IsTip:  t.IsTip(id),
			NodeID: id,
		}
		e.X0 = e.X1
		if p >= 0 {
			e.X0 = x(p)
		}
		e.XMid = (e.X0 + e.X1) / 2
		if e.IsTip {
			if numTips > 1 {
				e.Y = float64(len(tips)) / float64(numTips-1)
			}
			tips = append(tips, i)
		}
		pos[id] = i
		flat[i] = e
	}

	// resolve internal nodes,
	// children are always after its parent
	type extreme struct {
		min, max float64
		set      bool
	}
	ext := make(map[int]extreme)
	for i := len(flat) - 1; i >= 0; i-- {
		e := &flat[i]
		if !e.IsTip {
			m := ext[e.Child]
			e.Y = (m.min + m.max) / 2
		}
		if !e.HasParent() {
			continue
		}
		m := ext[e.Parent]
		if !m.set {
			m = extreme{min: e.Y, max: e.Y, set: true}
		}
		m.min = min(m.min, e.Y)
		m.max = max(m.max, e.Y)
		ext[e.Parent] = m
	}

	for i := range flat {
		e := &flat[i]
		e.EdgeIdx = i
		e.YParent = e.Y
		if e.HasParent() {
			e.YParent = flat[pos[e.Parent]].Y
		}
	}

	chunked = split(flat, chunks)
	return flat, chunked, tips
}

// EdgeDepth returns the number of edges
// from the root to each node,
// and the maximum of that value.
func edgeDepth(t *tree.Tree, order []int) (func(int) float64, float64) {
	d := make(map[int]float64, len(order))
	var height float64
	for _, id := range order {
		p := t.Parent(id)
		if p < 0 {
			d[id] = 0
			continue
		}
		d[id] = d[p] + 1
		height = max(height, d[id])
	}
	return func(id int) float64 { return d[id] }, height
}

func split(flat []Edge, chunks int) [][]Edge {
	if len(flat) == 0 {
		return nil
	}
	chunks = max(chunks, 1)
	size := max(len(flat)/chunks, 1)

	var chunked [][]Edge
	add := func(start, end int) {
		idx := len(chunked)
		for i := start; i < end; i++ {
			flat[i].ChunkIdx = idx
		}
		chunked = append(chunked, flat[start:end:end])
	}

	start := 0
	for range chunks {
		if start >= len(flat) {
			break
		}
		add(start, start+size)
		start += size
	}
	// remainder
	if start < len(flat) {
		add(start, len(flat))
	}
	return chunked
}

// Concat returns the concatenation of a list of chunks.
func Concat(chunks [][]Edge) []Edge {
	var n int
	for _, c := range chunks {
		n += len(c)
	}
	flat := make([]Edge, 0, n)
	for _, c := range chunks {
		flat = append(flat, c...)
	}
	return flat
}

// TipIndices returns the positions of the terminals
// in a list of edges.
func TipIndices(flat []Edge) []int {
	var tips []int
	for i, e := range flat {
		if e.IsTip {
			tips = append(tips, i)
		}
	}
	return tips
}

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid edge list")

// Validate checks the invariants of a flat edge list:
// every y is in [0, 1],
// terminals increase strictly in y,
// and every internal node is bracketed
// by the y values of its descendants.
func Validate(flat []Edge) error {
	pos := make(map[int]int, len(flat))
	for i, e := range flat {
		if e.Y < 0 || e.Y > 1 {
			return fmt.Errorf("edge %d: y value %.6f out of range: %w", i, e.Y, ErrInvalid)
		}
		if e.X0 > e.X1 {
			return fmt.Errorf("edge %d: x0 %.6f after x1 %.6f: %w", i, e.X0, e.X1, ErrInvalid)
		}
		pos[e.Child] = i
	}

	prev := -1.0
	for i, e := range flat {
		if !e.IsTip {
			continue
		}
		if e.Y <= prev {
			return fmt.Errorf("terminal %d: y value %.6f not increasing: %w", i, e.Y, ErrInvalid)
		}
		prev = e.Y
	}

	type bound struct{ min, max float64 }
	desc := make(map[int]bound)
	for i := len(flat) - 1; i >= 0; i-- {
		e := flat[i]
		b, ok := desc[e.Child]
		if e.IsTip {
			b = bound{min: e.Y, max: e.Y}
		} else {
			if !ok {
				return fmt.Errorf("edge %d: internal node without descendants: %w", i, ErrInvalid)
			}
			if e.Y < b.min || e.Y > b.max {
				return fmt.Errorf("edge %d: y value %.6f outside descendants [%.6f, %.6f]: %w", i, e.Y, b.min, b.max, ErrInvalid)
			}
		}
		if !e.HasParent() {
			continue
		}
		if _, ok := pos[e.Parent]; !ok {
			return fmt.Errorf("edge %d: parent %d not in list: %w", i, e.Parent, ErrInvalid)
		}
		pb, ok := desc[e.Parent]
		if !ok {
			pb = b
		}
		desc[e.Parent] = bound{min: min(pb.min, b.min), max: max(pb.max, b.max)}
	}
	return nil
}
