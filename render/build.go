// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package render

import (
	"context"
	"iter"
	"math"
	"runtime"
	"strconv"

	"github.com/js-arias/phyview/cache"
	"github.com/js-arias/phyview/edge"
	"github.com/js-arias/phyview/interact"
	"github.com/js-arias/phyview/projection"
	"github.com/js-arias/phyview/viewport"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r2"
)

// Placeholder is the text drawn
// when the visible set is larger than the draw budget.
const Placeholder = "zoom in further"

// Background returns the geometry of the background.
func Background(s *Scene) *Geometry {
	b := s.Window()
	return &Geometry{
		Layer: cache.BG,
		Fixed: true,
		Polygons: []Polygon{{
			Points: []r2.Vec{
				b.Min,
				{X: b.Max.X, Y: b.Min.Y},
				b.Max,
				{X: b.Min.X, Y: b.Max.Y},
			},
			Fill: s.Style.Background,
		}},
	}
}

// Edges returns the geometry of the edges of a set.
//
// The edges of each chunk are built in parallel.
func Edges(ctx context.Context, s *Scene, set viewport.Set) (*Geometry, error) {
	g := &Geometry{Layer: cache.Edges}
	if set.Overrun {
		w, h := s.Layout.Size()
		g.Fixed = true
		g.Overrun = true
		g.Labels = []Text{{
			Label: projection.Label{
				Pos:    r2.Vec{X: w / 2, Y: h / 2},
				Anchor: projection.Middle,
			},
			Text:  Placeholder,
			Size:  s.Layout.TipLabelSize(),
			Color: s.Style.Label,
		}}
		return g, nil
	}

	f := s.Frame()
	parts := chunkParts(set)
	lines := make([][]Line, len(parts))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, part := range parts {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ls := make([]Line, 0, 2*len(part))
			for _, e := range part {
				ls = appendEdge(ls, f, e, s.Layout.Stroke(), s.Style, s.Tolerance)
			}
			lines[i] = ls
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var n int
	for _, ls := range lines {
		n += len(ls)
	}
	g.Lines = make([]Line, 0, n)
	for _, ls := range lines {
		g.Lines = append(g.Lines, ls...)
	}
	return g, nil
}

// chunkParts splits a set in runs of edges
// of the same chunk.
// Ancestors are a single part.
func chunkParts(set viewport.Set) [][]edge.Edge {
	var parts [][]edge.Edge
	if len(set.Ancestors) > 0 {
		parts = append(parts, set.Ancestors)
	}
	start := 0
	for i := 1; i <= len(set.Edges); i++ {
		if i < len(set.Edges) && set.Edges[i].ChunkIdx == set.Edges[start].ChunkIdx {
			continue
		}
		parts = append(parts, set.Edges[start:i:i])
		start = i
	}
	return parts
}

func appendEdge(ls []Line, f Frame, e edge.Edge, width float64, st Style, tol float64) []Line {
	p0, p1 := f.Proj.EdgePoints(e, f.W, f.H)
	ls = append(ls, Line{
		Points: f.Map([]r2.Vec{p0, p1}),
		Width:  width,
		Color:  st.Edge,
	})
	if c := f.Proj.Connector(e, f.W, f.H, tol); len(c) > 0 {
		ls = append(ls, Line{
			Points: f.Map(c),
			Width:  width,
			Color:  st.Edge,
		})
	}
	return ls
}

// EdgeGeom is an edge in canvas coordinates.
type EdgeGeom struct {
	edge.Edge

	// P0 and P1 are the parent and child ends of the edge.
	P0, P1 r2.Vec

	// Connector is the path from the parent end
	// to the parent node.
	Connector []r2.Vec
}

// VisibleEdges returns an iterator over the edges of a set
// in canvas coordinates
// (scroll included).
func VisibleEdges(f Frame, set viewport.Set, tol float64) iter.Seq[EdgeGeom] {
	d := f.Offset()
	return func(yield func(EdgeGeom) bool) {
		for e := range set.All() {
			p0, p1 := f.Proj.EdgePoints(e, f.W, f.H)
			g := EdgeGeom{
				Edge: e,
				P0:   r2.Add(r2.Add(p0, f.Origin), d),
				P1:   r2.Add(r2.Add(p1, f.Origin), d),
			}
			if c := f.Proj.Connector(e, f.W, f.H, tol); len(c) > 0 {
				g.Connector = shift(c, r2.Add(f.Origin, d))
			}
			if !yield(g) {
				return
			}
		}
	}
}

// TipLabels returns the geometry of the terminal labels.
func TipLabels(s *Scene, set viewport.Set) *Geometry {
	g := &Geometry{Layer: cache.LabelsTip}
	if !s.Layout.DrawTipLabels() {
		return g
	}
	f := s.Frame()
	size := s.Layout.TipLabelSize()
	off := s.Layout.LabelOffset()
	for _, e := range set.Edges {
		if !e.IsTip || e.Name == "" {
			continue
		}
		g.Labels = append(g.Labels, label(f, f.Proj.Label(e, f.W, f.H, off), e.Name, size, s.Style))
	}
	return g
}

// IntLabels returns the geometry of the labels
// of the internal nodes.
func IntLabels(s *Scene, set viewport.Set) *Geometry {
	g := &Geometry{Layer: cache.LabelsInt}
	if !s.Layout.DrawIntLabels() {
		return g
	}
	f := s.Frame()
	size := s.Layout.IntLabelSize()
	off := s.Layout.LabelOffset()
	for e := range set.All() {
		if e.IsTip || e.Name == "" {
			continue
		}
		g.Labels = append(g.Labels, label(f, f.Proj.Label(e, f.W, f.H, off), e.Name, size, s.Style))
	}
	return g
}

// BranchLabels returns the geometry of the branch length labels.
// Branch lengths are only drawn
// if there is space for them.
func BranchLabels(s *Scene, set viewport.Set) *Geometry {
	g := &Geometry{Layer: cache.LabelsBranch}
	size := s.Layout.IntLabelSize()
	if s.View == nil || s.Layout.NodeSize() < 2*size {
		return g
	}
	f := s.Frame()
	t := s.View.Tree
	for e := range set.All() {
		if !e.HasParent() || !t.HasLength(e.NodeID) {
			continue
		}
		txt := strconv.FormatFloat(e.Length, 'g', 3, 64)
		g.Labels = append(g.Labels, label(f, f.Proj.BranchLabel(e, f.W, f.H, size/2), txt, size, s.Style))
	}
	return g
}

func label(f Frame, l projection.Label, txt string, size float64, st Style) Text {
	l.Pos = r2.Add(l.Pos, f.Origin)
	return Text{
		Label: l,
		Text:  txt,
		Size:  size,
		Color: st.Label,
	}
}

// ScaleBar returns the geometry of the scale bar.
// Trees without branch lengths have no scale bar.
func ScaleBar(s *Scene) *Geometry {
	g := &Geometry{Layer: cache.ScaleBar, Fixed: true}
	if s.View == nil {
		return g
	}
	height := s.View.Tree.Height()
	if height <= 0 {
		return g
	}

	f := s.Frame()
	span := f.W
	if f.Proj.Kind == projection.Fan {
		span = f.Proj.Radius - f.Proj.RootLen
	}
	if span <= 0 {
		return g
	}
	v := NiceLength(height / 4)
	px := v / height * span

	_, h := s.Layout.Size()
	pad := s.Layout.Padding()
	y := h - pad
	g.Lines = []Line{{
		Points: []r2.Vec{{X: pad, Y: y}, {X: pad + px, Y: y}},
		Width:  s.Layout.Stroke(),
		Color:  s.Style.Edge,
	}}
	g.Labels = []Text{{
		Label: projection.Label{
			Pos:    r2.Vec{X: pad + px/2, Y: y - s.Layout.LabelOffset()},
			Anchor: projection.Middle,
		},
		Text:  strconv.FormatFloat(v, 'g', -1, 64),
		Size:  s.Layout.IntLabelSize(),
		Color: s.Style.Label,
	}}
	return g
}

// NiceLength returns the largest number
// of the form 1, 2, or 5 times a power of ten
// that is not larger than v.
func NiceLength(v float64) float64 {
	if v <= 0 {
		return 0
	}
	p := math.Pow(10, math.Floor(math.Log10(v)))
	for _, m := range []float64{5, 2, 1} {
		if m*p <= v {
			return m * p
		}
	}
	return p
}

// Selection returns the geometry of the selected nodes.
func Selection(s *Scene, set viewport.Set) *Geometry {
	g := &Geometry{Layer: cache.Selection}
	if s.Selection == nil || s.Selection.Len() == 0 {
		return g
	}
	f := s.Frame()
	w := 2 * s.Layout.Stroke()
	st := s.Style
	st.Edge = st.Selected
	for e := range set.All() {
		if !s.Selection.Has(e.NodeID) {
			continue
		}
		g.Lines = appendEdge(g.Lines, f, e, w, st, s.Tolerance)
		g.Marks = append(g.Marks, Mark{
			Pos:    f.Point(e.X1, e.Y),
			Radius: st.MarkRadius,
			Color:  st.Selected,
		})
	}
	return g
}

// Highlights returns the geometry of the highlighted clades.
func Highlights(s *Scene) *Geometry {
	g := &Geometry{Layer: cache.Clade}
	if s.Highlights == nil || s.View == nil {
		return g
	}
	f := s.Frame()
	pad, ySep := highlightPad(s, f)
	for id, c := range s.Highlights.All() {
		e, ok := s.View.EdgeOf(id)
		if !ok {
			continue
		}
		top, bottom := s.View.BoundingEdges(id)
		unit := projection.Envelope(e, top, bottom, pad, ySep)
		if len(unit) == 0 {
			continue
		}
		poly := f.Map(f.Proj.Polygon(unit, f.W, f.H, s.Tolerance))
		g.Polygons = append(g.Polygons, Polygon{
			Points: poly,
			Fill:   interact.Fill(c, s.Style.Background, s.Style.HighlightOpacity),
		})
	}
	return g
}

// highlightPad returns the padding of a clade polygon
// in unit space.
func highlightPad(s *Scene, f Frame) (pad, ySep float64) {
	tips := s.View.NumTips()
	if tips > 1 {
		ySep = 1 / float64(tips-1)
	}
	span := f.W
	if f.Proj.Kind == projection.Fan {
		span = f.Proj.Radius - f.Proj.RootLen
	}
	if span > 0 {
		pad = s.Style.HighlightPad / span
	}
	return pad, ySep
}

// Cursor returns the geometry of the hovered node
// and the search hits.
func Cursor(s *Scene, set viewport.Set) *Geometry {
	g := &Geometry{Layer: cache.Cursor}
	f := s.Frame()
	r := s.Style.MarkRadius

	if s.Search != nil && len(s.Search.Hits()) > 0 {
		found := make(map[int]bool, len(s.Search.Hits()))
		for _, e := range s.Search.Hits() {
			found[e.NodeID] = true
		}
		cur, _ := s.Search.Current()
		for e := range set.All() {
			if !found[e.NodeID] {
				continue
			}
			m := Mark{
				Pos:    f.Point(e.X1, e.Y),
				Radius: r,
				Color:  s.Style.Found,
			}
			if e.NodeID == cur.NodeID {
				m.Color = s.Style.Current
				m.Radius = 2 * r
				m.Ring = true
			}
			g.Marks = append(g.Marks, m)
		}
	}

	if s.Cursor != nil && s.View != nil {
		if id, ok := s.Cursor.Node(); ok {
			if e, ok := s.View.EdgeOf(id); ok {
				g.Marks = append(g.Marks, Mark{
					Pos:    f.Point(e.X1, e.Y),
					Radius: 1.5 * r,
					Color:  s.Style.Hover,
					Ring:   true,
				})
			}
		}
	}
	return g
}
