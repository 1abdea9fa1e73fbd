// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package render builds the retained geometry
// of the layers of a tree view.
//
// Geometry is expressed in canvas pixels.
// Layers that are not fixed scroll with the canvas,
// so they should be translated by the scroll offset
// before drawing.
package render

import (
	"image/color"

	"github.com/js-arias/phyview/cache"
	"github.com/js-arias/phyview/projection"
	"gonum.org/v1/gonum/spatial/r2"
)

// A Line is an open polyline.
type Line struct {
	Points []r2.Vec
	Width  float64
	Color  color.RGBA
}

// A Polygon is a closed and filled polygon.
type Polygon struct {
	Points []r2.Vec
	Fill   color.RGBA
}

// A Text is a label.
type Text struct {
	projection.Label
	Text  string
	Size  float64
	Color color.RGBA
}

// A Mark is a circle drawn at a node.
type Mark struct {
	Pos    r2.Vec
	Radius float64
	Color  color.RGBA

	// If Ring is true,
	// only the border of the circle is drawn.
	Ring bool
}

// Geometry is the retained geometry of a layer.
type Geometry struct {
	Layer    cache.Layer
	Lines    []Line
	Polygons []Polygon
	Labels   []Text
	Marks    []Mark

	// Fixed is true if the layer
	// does not scroll with the canvas.
	Fixed bool

	// Span is the vertical range of the canvas
	// (in pixels before the scroll)
	// covered by the geometry.
	// It is only used by phylogram edges.
	Span [2]float64

	// Overrun is true if the geometry
	// was not built because the visible set
	// was larger than the draw budget.
	Overrun bool
}

// Covers returns true if the geometry
// covers a vertical window of the canvas.
func (g *Geometry) Covers(y0, y1 float64) bool {
	return g.Span[0] <= y0 && y1 <= g.Span[1]
}

// Empty returns true if the geometry has no elements.
func (g *Geometry) Empty() bool {
	return len(g.Lines) == 0 && len(g.Polygons) == 0 && len(g.Labels) == 0 && len(g.Marks) == 0
}

// Size of the retained elements,
// in bytes.
const (
	pointBytes = 16
	lineBytes  = 40
	textBytes  = 72
	markBytes  = 32
)

// Bytes returns an estimation of the memory
// retained by the geometry.
func (g *Geometry) Bytes() int {
	if g == nil {
		return 0
	}
	var n int
	for _, l := range g.Lines {
		n += lineBytes + pointBytes*len(l.Points)
	}
	for _, p := range g.Polygons {
		n += lineBytes + pointBytes*len(p.Points)
	}
	for _, t := range g.Labels {
		n += textBytes + len(t.Text)
	}
	n += markBytes * len(g.Marks)
	return n
}

// Translate returns a copy of the geometry
// displaced by a vector.
func (g *Geometry) Translate(d r2.Vec) *Geometry {
	if d == (r2.Vec{}) {
		return g
	}
	ng := &Geometry{
		Layer:   g.Layer,
		Fixed:   g.Fixed,
		Span:    g.Span,
		Overrun: g.Overrun,
	}
	if len(g.Lines) > 0 {
		ng.Lines = make([]Line, len(g.Lines))
		for i, l := range g.Lines {
			l.Points = shift(l.Points, d)
			ng.Lines[i] = l
		}
	}
	if len(g.Polygons) > 0 {
		ng.Polygons = make([]Polygon, len(g.Polygons))
		for i, p := range g.Polygons {
			p.Points = shift(p.Points, d)
			ng.Polygons[i] = p
		}
	}
	if len(g.Labels) > 0 {
		ng.Labels = make([]Text, len(g.Labels))
		for i, t := range g.Labels {
			t.Pos = r2.Add(t.Pos, d)
			ng.Labels[i] = t
		}
	}
	if len(g.Marks) > 0 {
		ng.Marks = make([]Mark, len(g.Marks))
		for i, m := range g.Marks {
			m.Pos = r2.Add(m.Pos, d)
			ng.Marks[i] = m
		}
	}
	return ng
}

func shift(pts []r2.Vec, d r2.Vec) []r2.Vec {
	np := make([]r2.Vec, len(pts))
	for i, p := range pts {
		np[i] = r2.Add(p, d)
	}
	return np
}
