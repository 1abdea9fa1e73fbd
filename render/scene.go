// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package render

import (
	"image/color"

	"github.com/js-arias/phyview/interact"
	"github.com/js-arias/phyview/layout"
	"github.com/js-arias/phyview/projection"
	"github.com/js-arias/phyview/state"
	"github.com/js-arias/phyview/viewport"
	"gonum.org/v1/gonum/spatial/r2"
)

// Style is the set of colors and sizes
// used to draw a tree.
type Style struct {
	Background color.RGBA
	Edge       color.RGBA
	Label      color.RGBA
	Selected   color.RGBA
	Found      color.RGBA
	Current    color.RGBA
	Hover      color.RGBA

	// HighlightOpacity is the opacity of the clade highlights
	// over the background.
	HighlightOpacity float64

	// HighlightPad is the space between a highlighted clade
	// and the border of its polygon,
	// in pixels.
	HighlightPad float64

	// MarkRadius is the radius of the node marks.
	MarkRadius float64
}

// DefaultStyle returns the default style.
func DefaultStyle() Style {
	return Style{
		Background:       color.RGBA{255, 255, 255, 255},
		Edge:             color.RGBA{0, 0, 0, 255},
		Label:            color.RGBA{0, 0, 0, 255},
		Selected:         color.RGBA{220, 50, 32, 255},
		Found:            color.RGBA{255, 176, 0, 255},
		Current:          color.RGBA{0, 90, 181, 255},
		Hover:            color.RGBA{120, 120, 120, 255},
		HighlightOpacity: 0.35,
		HighlightPad:     4,
		MarkRadius:       3,
	}
}

// A Frame maps the unit layout space
// into the canvas.
type Frame struct {
	Proj projection.Projection

	// Scale of the unit space.
	// It is ignored by fans.
	W, H float64

	// Origin is the position of the unit space origin
	// (or the center of a fan)
	// in the canvas.
	Origin r2.Vec

	// Scroll is the vertical scroll offset.
	Scroll float64
}

// Point maps a point in the unit space
// into the canvas.
func (f Frame) Point(x, y float64) r2.Vec {
	return r2.Add(f.Proj.Point(x, y, f.W, f.H), f.Origin)
}

// Map translates a path in projection coordinates
// into the canvas,
// in place.
func (f Frame) Map(pts []r2.Vec) []r2.Vec {
	for i, p := range pts {
		pts[i] = r2.Add(p, f.Origin)
	}
	return pts
}

// Offset returns the displacement
// applied to scrolling layers.
func (f Frame) Offset() r2.Vec {
	return r2.Vec{Y: -f.Scroll}
}

// FanOptions are the parameters of a fan projection.
type FanOptions struct {
	// Opening and Rotation in radians.
	Opening  float64
	Rotation float64

	// RootLen is the radius reserved for the root,
	// as a fraction of the fan radius.
	RootLen float64
}

// A Scene is the state used to draw a tree view.
type Scene struct {
	View   *state.View
	Layout *layout.Controller
	Kind   projection.Kind
	Fan    FanOptions

	Selection  *interact.Selection
	Highlights *interact.Highlights
	Search     *interact.Search
	Cursor     *interact.Cursor

	Style     Style
	Tolerance float64

	// Budget is the draw budget of a frame.
	Budget viewport.Budget
}

// Frame returns the frame of the scene.
func (s *Scene) Frame() Frame {
	l := s.Layout
	w, h := l.Size()
	if s.Kind == projection.Fan {
		r := l.FanRadius()
		return Frame{
			Proj:   projection.NewFan(s.Fan.Opening, s.Fan.Rotation, s.Fan.RootLen*r, r),
			Origin: r2.Vec{X: w / 2, Y: h / 2},
		}
	}

	ns := l.NodeSize()
	tips := 0
	if s.View != nil {
		tips = s.View.NumTips()
	}
	top := l.Padding() + l.Stroke()
	return Frame{
		Proj:   projection.NewPhylogram(),
		W:      l.TreeWidth(),
		H:      float64(max(tips-1, 0)) * ns,
		Origin: r2.Vec{X: l.Padding(), Y: top + ns/2},
		Scroll: l.ScrollOffset(),
	}
}

// Window returns the rectangle of the window.
func (s *Scene) Window() r2.Box {
	w, h := s.Layout.Size()
	return r2.Box{Max: r2.Vec{X: w, Y: h}}
}

// Visible returns the set of visible edges.
func (s *Scene) Visible(b viewport.Budget) viewport.Set {
	if s.View == nil {
		return viewport.Set{}
	}
	if s.Kind == projection.Fan {
		f := s.Frame()
		q := viewport.FanQuery{
			Rect:      s.Window(),
			Translate: f.Origin,
		}
		return viewport.Fan(q, f.Proj, s.View, b)
	}
	return viewport.Phylogram(s.Layout.Query(), s.View, b)
}

// Extended returns the set of edges
// visible in a window of three screens
// centered on the current window.
// In a fan it is the same as the visible set.
//
// It is used to build the edge layer,
// so it can be scrolled without rebuilding.
func (s *Scene) Extended(b viewport.Budget) (viewport.Set, [2]float64) {
	if s.Kind == projection.Fan || s.View == nil {
		return s.Visible(b), [2]float64{}
	}
	q := s.Layout.Query()
	d := q.Y1 - q.Y0
	q.Y0 -= d
	q.Y1 += d
	set := viewport.Phylogram(q, s.View, b)
	if set.Overrun {
		// retry with the visible window only
		set = s.Visible(b)
		q = s.Layout.Query()
	}
	return set, [2]float64{q.Y0, q.Y1}
}
