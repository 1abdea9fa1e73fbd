// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package cache implements a graph of named geometry layers
// that are invalidated by the events of the viewer.
//
// Each layer keeps an opaque geometry
// and a generation counter.
// A zero generation means that the layer is invalid,
// and it will be rebuilt on the next request.
package cache

import (
	"fmt"
	"iter"
)

// Layer is a named geometry cache.
type Layer int8

// Valid layers.
const (
	BG Layer = iota
	Edges
	LabelsTip
	LabelsInt
	LabelsBranch
	ScaleBar
	Selection
	Clade
	Cursor

	numLayers
)

var layerNames = [numLayers]string{
	BG:           "bg",
	Edges:        "edges",
	LabelsTip:    "labels_tip",
	LabelsInt:    "labels_int",
	LabelsBranch: "labels_branch",
	ScaleBar:     "scalebar",
	Selection:    "selection",
	Clade:        "clade_highlights",
	Cursor:       "cursor",
}

func (l Layer) String() string {
	if l < 0 || l >= numLayers {
		return fmt.Sprintf("layer(%d)", int(l))
	}
	return layerNames[l]
}

// Layers returns all layers.
func Layers() []Layer {
	ls := make([]Layer, numLayers)
	for i := range ls {
		ls[i] = Layer(i)
	}
	return ls
}

// ZOrder is the order in which layers are composed,
// from bottom to top.
var ZOrder = []Layer{
	BG,
	Clade,
	Edges,
	Selection,
	LabelsBranch,
	LabelsInt,
	LabelsTip,
	ScaleBar,
	Cursor,
}

// Event is an event that invalidates layers.
type Event int8

// Valid events.
const (
	Scroll Event = iota
	Resize
	OrderingChange
	NodeSizeChange
	TipLabelToggle
	IntLabelToggle
	SelectionChange
	CladeHighlight
	SearchChange
	TreeReplace

	numEvents
)

var eventNames = [numEvents]string{
	Scroll:          "scroll",
	Resize:          "resize",
	OrderingChange:  "ordering change",
	NodeSizeChange:  "node-size change",
	TipLabelToggle:  "tip-label toggle",
	IntLabelToggle:  "int-label toggle",
	SelectionChange: "selection change",
	CladeHighlight:  "clade highlight",
	SearchChange:    "search change",
	TreeReplace:     "tree replace",
}

func (e Event) String() string {
	if e < 0 || e >= numEvents {
		return fmt.Sprintf("event(%d)", int(e))
	}
	return eventNames[e]
}

// Events returns all events.
func Events() []Event {
	es := make([]Event, numEvents)
	for i := range es {
		es[i] = Event(i)
	}
	return es
}

// geometry is the set of layers cleared
// by any change of the layout.
var geometry = []Layer{Edges, LabelsTip, LabelsInt, LabelsBranch, Selection, Clade, Cursor}

// The invalidation matrix:
// the layers cleared by each event.
var matrix = [numEvents][]Layer{
	Scroll:          {LabelsTip, LabelsInt, LabelsBranch, Selection, Clade, Cursor},
	Resize:          append([]Layer{BG, ScaleBar}, geometry...),
	OrderingChange:  geometry,
	NodeSizeChange:  geometry,
	TipLabelToggle:  geometry,
	IntLabelToggle:  {LabelsInt},
	SelectionChange: {Selection},
	CladeHighlight:  {Clade},
	SearchChange:    {Cursor},
	TreeReplace:     append([]Layer{BG, ScaleBar}, geometry...),
}

// Clears returns the layers cleared by an event.
func Clears(ev Event) []Layer {
	if ev < 0 || ev >= numEvents {
		return nil
	}
	return append([]Layer(nil), matrix[ev]...)
}

type entry[G any] struct {
	geom G
	gen  uint64
}

// A Graph is a set of geometry layers.
// A Graph is not safe for concurrent use.
type Graph[G any] struct {
	entries [numLayers]entry[G]
	gen     uint64
	size    func(G) int

	hits   int
	misses int
}

// New creates a new graph.
// The size function is used to account
// the bytes retained by the graph;
// it can be nil.
func New[G any](size func(G) int) *Graph[G] {
	return &Graph[G]{size: size}
}

// Get returns the geometry of a layer,
// building it if the layer is invalid.
func (g *Graph[G]) Get(l Layer, build func() G) G {
	e := &g.entries[l]
	if e.gen != 0 {
		g.hits++
		return e.geom
	}
	g.misses++
	g.gen++
	e.geom = build()
	e.gen = g.gen
	return e.geom
}

// Valid returns true if a layer has a valid geometry.
func (g *Graph[G]) Valid(l Layer) bool {
	return g.entries[l].gen != 0
}

// Generation returns the generation of a layer.
// It is 0 if the layer is invalid.
func (g *Graph[G]) Generation(l Layer) uint64 {
	return g.entries[l].gen
}

// Clear invalidates a layer.
func (g *Graph[G]) Clear(l Layer) {
	var zero G
	g.entries[l] = entry[G]{geom: zero}
}

// Invalidate clears the layers affected by an event,
// and returns the layers that were valid
// before the event.
func (g *Graph[G]) Invalidate(ev Event) []Layer {
	var cleared []Layer
	for _, l := range Clears(ev) {
		if g.Valid(l) {
			cleared = append(cleared, l)
		}
		g.Clear(l)
	}
	return cleared
}

// Reset clears all layers.
func (g *Graph[G]) Reset() {
	for l := range numLayers {
		g.Clear(l)
	}
}

// Compose returns an iterator over the layers
// in z-order,
// building the invalid layers with the given function.
func (g *Graph[G]) Compose(build func(Layer) G) iter.Seq2[Layer, G] {
	return func(yield func(Layer, G) bool) {
		for _, l := range ZOrder {
			geom := g.Get(l, func() G { return build(l) })
			if !yield(l, geom) {
				return
			}
		}
	}
}

// Bytes returns the size of the retained geometry.
func (g *Graph[G]) Bytes() int {
	if g.size == nil {
		return 0
	}
	var n int
	for _, e := range g.entries {
		if e.gen == 0 {
			continue
		}
		n += g.size(e.geom)
	}
	return n
}

// Stats returns the number of requests
// served from the cache (hits)
// and the number of rebuilt layers (misses).
func (g *Graph[G]) Stats() (hits, misses int) {
	return g.hits, g.misses
}
