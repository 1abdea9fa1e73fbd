// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package projection maps edges in the unit layout space
// into screen coordinates.
//
// Two projections are supported:
// a rectangular phylogram,
// in which x is the height and y the terminal index,
// and a polar fan,
// in which the radius is the height and the angle
// the terminal index.
package projection

import (
	"fmt"
	"math"

	"github.com/js-arias/phyview/edge"
	"gonum.org/v1/gonum/spatial/r2"
)

// Kind is the kind of a projection.
type Kind int8

// Valid projection kinds.
const (
	Phylogram Kind = iota
	Fan
)

func (k Kind) String() string {
	switch k {
	case Phylogram:
		return "phylogram"
	case Fan:
		return "fan"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind returns a projection kind from its name.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "phylogram", "":
		return Phylogram, nil
	case "fan":
		return Fan, nil
	}
	return Phylogram, fmt.Errorf("unknown projection %q", s)
}

// DefaultTolerance is the default flatness tolerance
// (in pixels)
// used to approximate arcs.
const DefaultTolerance = 0.1

const tau = 2 * math.Pi

// A Projection is a tagged variant
// of the two projections.
// Fan fields are ignored by phylograms.
type Projection struct {
	Kind Kind

	// Opening is the angle used by the terminals,
	// in radians.
	Opening float64

	// Rotation is the angle of the first terminal,
	// in radians.
	Rotation float64

	// RootLen is the radius reserved for the root.
	RootLen float64

	// Radius is the total radius of the fan.
	Radius float64
}

// NewPhylogram returns a phylogram projection.
func NewPhylogram() Projection {
	return Projection{Kind: Phylogram}
}

// NewFan returns a fan projection.
// The opening is clamped to a full circle.
func NewFan(opening, rotation, rootLen, radius float64) Projection {
	if opening <= 0 || opening > tau {
		opening = tau
	}
	return Projection{
		Kind:     Fan,
		Opening:  opening,
		Rotation: rotation,
		RootLen:  rootLen,
		Radius:   radius,
	}
}

// Angle returns the angle of a unit y value.
func (p Projection) Angle(y float64) float64 {
	return p.Opening*y + p.Rotation
}

// Ring returns the radius of a unit x value.
func (p Projection) Ring(x float64) float64 {
	return p.RootLen + x*(p.Radius-p.RootLen)
}

// Point maps a point in the unit space
// into the screen.
// Fans are centered at the origin.
func (p Projection) Point(x, y, w, h float64) r2.Vec {
	if p.Kind == Fan {
		return polar(p.Ring(x), p.Angle(y))
	}
	return r2.Vec{X: x * w, Y: y * h}
}

// Unit is the inverse of Point
// for phylograms.
// For fans it returns the unit x and y
// of a screen point.
func (p Projection) Unit(pt r2.Vec, w, h float64) (x, y float64) {
	if p.Kind == Fan {
		r := r2.Norm(pt)
		if p.Radius != p.RootLen {
			x = (r - p.RootLen) / (p.Radius - p.RootLen)
		}
		if p.Opening != 0 {
			y = normAngle(math.Atan2(pt.Y, pt.X)-p.Rotation) / p.Opening
		}
		return x, y
	}
	if w != 0 {
		x = pt.X / w
	}
	if h != 0 {
		y = pt.Y / h
	}
	return x, y
}

func polar(r, a float64) r2.Vec {
	sin, cos := math.Sincos(a)
	return r2.Vec{X: r * cos, Y: r * sin}
}

// NormAngle returns an angle in [0, 2π).
func normAngle(a float64) float64 {
	a = math.Mod(a, tau)
	if a < 0 {
		a += tau
	}
	return a
}

// EdgePoints returns the points of the parent
// and the child ends of an edge.
func (p Projection) EdgePoints(e edge.Edge, w, h float64) (p0, p1 r2.Vec) {
	return p.Point(e.X0, e.Y, w, h), p.Point(e.X1, e.Y, w, h)
}

// NodePoint returns the point of the node of an edge.
func (p Projection) NodePoint(e edge.Edge, w, h float64) r2.Vec {
	return p.Point(e.X1, e.Y, w, h)
}

// MidPoint returns the point at the middle of an edge.
func (p Projection) MidPoint(e edge.Edge, w, h float64) r2.Vec {
	return p.Point(e.XMid, e.Y, w, h)
}

// Connector returns the path that connects an edge
// with its parent:
// a vertical segment in a phylogram,
// or an arc on the shortest side in a fan.
// The root has no connector.
func (p Projection) Connector(e edge.Edge, w, h, tol float64) []r2.Vec {
	if !e.HasParent() {
		return nil
	}
	if p.Kind != Fan {
		return []r2.Vec{
			{X: e.X0 * w, Y: e.Y * h},
			{X: e.X0 * w, Y: e.YParent * h},
		}
	}
	a0 := p.Angle(e.Y)
	a1 := p.Angle(e.YParent)
	d := math.Remainder(a1-a0, tau)
	return ArcPoints(r2.Vec{}, p.Ring(e.X0), a0, a0+d, tol)
}

// ArcPoints returns a polyline that approximates a circular arc
// from angle a0 to angle a1,
// in which no point deviates more than tol
// from the arc.
func ArcPoints(c r2.Vec, r, a0, a1, tol float64) []r2.Vec {
	if tol <= 0 {
		tol = DefaultTolerance
	}
	sweep := a1 - a0
	n := 1
	if r > tol/2 {
		// the sagitta of a chord with angle θ is r·(1-cos(θ/2))
		step := 2 * math.Acos(1-tol/r)
		if step > 0 {
			n = max(1, int(math.Ceil(math.Abs(sweep)/step)))
		}
	}

	pts := make([]r2.Vec, 0, n+1)
	for i := 0; i <= n; i++ {
		a := a0 + sweep*float64(i)/float64(n)
		pts = append(pts, r2.Add(c, polar(r, a)))
	}
	return pts
}

// A Cubic is a cubic Bézier segment.
type Cubic [4]r2.Vec

// ArcBezier approximates a circular arc
// with cubic Bézier segments,
// each one spanning at most a quarter of circle.
func ArcBezier(c r2.Vec, r, a0, a1 float64) []Cubic {
	sweep := a1 - a0
	n := max(1, int(math.Ceil(math.Abs(sweep)/(math.Pi/2))))
	step := sweep / float64(n)
	k := 4.0 / 3 * math.Tan(step/4)

	segs := make([]Cubic, 0, n)
	for i := range n {
		s := a0 + step*float64(i)
		e := s + step
		ss, cs := math.Sincos(s)
		se, ce := math.Sincos(e)
		segs = append(segs, Cubic{
			r2.Add(c, r2.Vec{X: r * cs, Y: r * ss}),
			r2.Add(c, r2.Vec{X: r * (cs - k*ss), Y: r * (ss + k*cs)}),
			r2.Add(c, r2.Vec{X: r * (ce + k*se), Y: r * (se - k*ce)}),
			r2.Add(c, r2.Vec{X: r * ce, Y: r * se}),
		})
	}
	return segs
}

// Anchor is the horizontal anchor of a label.
type Anchor int8

// Label anchors.
const (
	Start Anchor = iota
	Middle
	End
)

// A Label is the position of a text.
type Label struct {
	Pos r2.Vec

	// Angle is the rotation of the text,
	// in radians.
	Angle  float64
	Anchor Anchor
}

// Label returns the position of the label of a node,
// displaced by offset pixels
// from the node point.
//
// In a fan,
// labels rotate with the edge,
// and labels in the left half are flipped,
// so the text is always readable.
func (p Projection) Label(e edge.Edge, w, h, offset float64) Label {
	if p.Kind != Fan {
		return Label{
			Pos:    r2.Vec{X: e.X1*w + offset, Y: e.Y * h},
			Anchor: Start,
		}
	}

	a := normAngle(p.Angle(e.Y))
	l := Label{
		Pos:    polar(p.Ring(e.X1)+offset, a),
		Angle:  a,
		Anchor: Start,
	}
	if a > math.Pi/2 && a < 3*math.Pi/2 {
		l.Angle = a - math.Pi
		l.Anchor = End
	}
	return l
}

// BranchLabel returns the position of a label
// at the middle of an edge,
// displaced by offset pixels
// above the edge.
func (p Projection) BranchLabel(e edge.Edge, w, h, offset float64) Label {
	if p.Kind != Fan {
		return Label{
			Pos:    r2.Vec{X: e.XMid * w, Y: e.Y*h - offset},
			Anchor: Middle,
		}
	}
	l := p.Label(e, w, h, 0)
	a := p.Angle(e.Y)
	mid := polar(p.Ring(e.XMid), a)
	l.Pos = r2.Add(mid, polar(offset, a-math.Pi/2))
	l.Anchor = Middle
	return l
}

// Bounds returns the rectangle that contains
// the projected unit space.
func (p Projection) Bounds(w, h float64) r2.Box {
	if p.Kind == Fan {
		return r2.Box{
			Min: r2.Vec{X: -p.Radius, Y: -p.Radius},
			Max: r2.Vec{X: p.Radius, Y: p.Radius},
		}
	}
	return r2.Box{Max: r2.Vec{X: w, Y: h}}
}

// Contains returns true if a point is inside a rectangle
// (borders included).
func Contains(b r2.Box, pt r2.Vec) bool {
	return pt.X >= b.Min.X && pt.X <= b.Max.X && pt.Y >= b.Min.Y && pt.Y <= b.Max.Y
}
