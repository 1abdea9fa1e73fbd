// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package render_test

import (
	"context"
	"math"
	"reflect"
	"testing"

	"github.com/js-arias/phyview/cache"
	"github.com/js-arias/phyview/interact"
	"github.com/js-arias/phyview/layout"
	"github.com/js-arias/phyview/newick"
	"github.com/js-arias/phyview/projection"
	"github.com/js-arias/phyview/render"
	"github.com/js-arias/phyview/state"
	"github.com/js-arias/phyview/viewport"
	"gonum.org/v1/gonum/spatial/r2"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

// scene returns a scene of a small tree
// in which all terminals are visible.
//
// With a window of 200×112,
// the available space is 90 pixels,
// and the node size is 30 pixels.
func scene(t testing.TB, s string) *render.Scene {
	t.Helper()
	tr, err := newick.Parse(s)
	if err != nil {
		t.Fatalf("unable to parse %q: %v", s, err)
	}
	v := state.New(tr, state.Options{Chunks: 2}).Current()
	return &render.Scene{
		View:       v,
		Layout:     layout.New(layout.DefaultConfig(), nil, v, 200, 112),
		Selection:  interact.NewSelection(),
		Highlights: interact.NewHighlights(nil),
		Search:     interact.NewSearch(),
		Cursor:     &interact.Cursor{},
		Style:      render.DefaultStyle(),
		Tolerance:  projection.DefaultTolerance,
	}
}

func nodeID(t testing.TB, s *render.Scene, name string) int {
	t.Helper()
	id, ok := s.View.Tree.ByName(name)
	if !ok {
		t.Fatalf("node %q not found", name)
	}
	return id
}

func TestFrame(t *testing.T) {
	s := scene(t, "((A:1,B:1):1,C:2);")
	f := s.Frame()

	reserve := s.Layout.Reserve()
	if w := 200 - 20 - reserve; !near(f.W, w) {
		t.Errorf("width: got %.3f, want %.3f", f.W, w)
	}
	if !near(f.H, 60) {
		t.Errorf("height: got %.3f, want %.3f", f.H, 60.0)
	}
	want := r2.Vec{X: 10, Y: 26}
	if f.Origin != want {
		t.Errorf("origin: got %v, want %v", f.Origin, want)
	}
}

func TestEdges(t *testing.T) {
	s := scene(t, "((A:1,B:1):1,C:2);")
	set := s.Visible(s.Budget)
	g, err := render.Edges(context.Background(), s, set)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 5 edges and 4 connectors
	if len(g.Lines) != 9 {
		t.Errorf("lines: got %d, want %d", len(g.Lines), 9)
	}

	f := s.Frame()
	a, _ := s.View.EdgeOf(nodeID(t, s, "A"))
	tip := f.Point(a.X1, a.Y)
	var found bool
	for _, l := range g.Lines {
		for _, p := range l.Points {
			if near(p.X, tip.X) && near(p.Y, tip.Y) {
				found = true
			}
			if p.X < 10-1e-6 || p.X > 10+f.W+1e-6 {
				t.Errorf("point %v outside of the tree width", p)
			}
		}
	}
	if !found {
		t.Errorf("terminal point %v not found", tip)
	}

	var ge []render.EdgeGeom
	for e := range render.VisibleEdges(f, set, s.Tolerance) {
		ge = append(ge, e)
	}
	if len(ge) != set.Len() {
		t.Fatalf("visible edges: got %d, want %d", len(ge), set.Len())
	}
	for _, e := range ge {
		if e.Name == "A" && e.P1 != tip {
			t.Errorf("visible edge %q: got %v, want %v", e.Name, e.P1, tip)
		}
	}
}

func TestEdgesOverrun(t *testing.T) {
	s := scene(t, "((A:1,B:1):1,C:2);")
	s.Budget = viewport.Budget{MaxTips: 1}
	g, err := render.Build(context.Background(), s, cache.Edges, viewport.Set{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !g.Overrun {
		t.Errorf("overrun: got false")
	}
	if len(g.Lines) != 0 {
		t.Errorf("lines: got %d, want %d", len(g.Lines), 0)
	}
	if len(g.Labels) != 1 || g.Labels[0].Text != render.Placeholder {
		t.Errorf("labels: got %v, want placeholder", g.Labels)
	}
}

func TestTipLabels(t *testing.T) {
	s := scene(t, "((A:1,B:1):1,C:2);")
	g := render.TipLabels(s, s.Visible(s.Budget))

	var names []string
	for _, l := range g.Labels {
		names = append(names, l.Text)
		if l.Anchor != projection.Start {
			t.Errorf("label %q: anchor %v", l.Text, l.Anchor)
		}
	}
	if want := []string{"A", "B", "C"}; !reflect.DeepEqual(names, want) {
		t.Errorf("labels: got %v, want %v", names, want)
	}

	s.Layout.ShowTipLabels(false)
	if g := render.TipLabels(s, s.Visible(s.Budget)); len(g.Labels) != 0 {
		t.Errorf("hidden labels: got %d labels", len(g.Labels))
	}
}

func TestIntLabels(t *testing.T) {
	s := scene(t, "((A:1,B:1)ab:1,C:2)root;")
	if g := render.IntLabels(s, s.Visible(s.Budget)); len(g.Labels) != 0 {
		t.Errorf("hidden labels: got %d labels", len(g.Labels))
	}
	s.Layout.ShowIntLabels(true)
	g := render.IntLabels(s, s.Visible(s.Budget))
	var names []string
	for _, l := range g.Labels {
		names = append(names, l.Text)
	}
	if want := []string{"ab", "root"}; !reflect.DeepEqual(names, want) {
		t.Errorf("labels: got %v, want %v", names, want)
	}
}

func TestBranchLabels(t *testing.T) {
	s := scene(t, "((A:1,B:1):1,C:2);")
	g := render.BranchLabels(s, s.Visible(s.Budget))

	// the root has no branch
	if len(g.Labels) != 4 {
		t.Errorf("labels: got %d, want %d", len(g.Labels), 4)
	}
}

func TestNiceLength(t *testing.T) {
	tests := map[float64]float64{
		0:    0,
		0.25: 0.2,
		0.5:  0.5,
		0.7:  0.5,
		1:    1,
		3:    2,
		12:   10,
		75:   50,
	}
	for v, want := range tests {
		if got := render.NiceLength(v); !near(got, want) {
			t.Errorf("nice length %g: got %g, want %g", v, got, want)
		}
	}
}

func TestScaleBar(t *testing.T) {
	s := scene(t, "((A:1,B:1):1,C:2);")
	g := render.ScaleBar(s)
	if !g.Fixed {
		t.Errorf("scale bar: not fixed")
	}
	if len(g.Lines) != 1 || len(g.Labels) != 1 {
		t.Fatalf("scale bar: got %d lines, %d labels", len(g.Lines), len(g.Labels))
	}
	if g.Labels[0].Text != "0.5" {
		t.Errorf("label: got %q, want %q", g.Labels[0].Text, "0.5")
	}
	pts := g.Lines[0].Points
	if w := s.Frame().W / 4; !near(pts[1].X-pts[0].X, w) {
		t.Errorf("length: got %.3f, want %.3f", pts[1].X-pts[0].X, w)
	}

	// no scale on cladograms
	s = scene(t, "((A,B),C);")
	if g := render.ScaleBar(s); !g.Empty() {
		t.Errorf("cladogram: unexpected scale bar")
	}
}

func TestSelectionAndCursor(t *testing.T) {
	s := scene(t, "((A:1,B:1):1,C:2);")
	set := s.Visible(s.Budget)
	if g := render.Selection(s, set); !g.Empty() {
		t.Errorf("empty selection: unexpected geometry")
	}

	a := nodeID(t, s, "A")
	s.Selection.Toggle(a)
	g := render.Selection(s, set)
	if len(g.Marks) != 1 || len(g.Lines) != 2 {
		t.Errorf("selection: got %d marks, %d lines", len(g.Marks), len(g.Lines))
	}
	if g.Lines[0].Color != s.Style.Selected {
		t.Errorf("selection color: got %v, want %v", g.Lines[0].Color, s.Style.Selected)
	}

	s.Cursor.Set(a, r2.Vec{})
	g = render.Cursor(s, set)
	if len(g.Marks) != 1 || !g.Marks[0].Ring {
		t.Errorf("cursor: got %v", g.Marks)
	}
}

func TestHighlights(t *testing.T) {
	s := scene(t, "((A:1,B:1):1,C:2);")
	a := nodeID(t, s, "A")
	ab := s.View.Tree.Parent(a)
	s.Highlights.Toggle(ab, s.Highlights.Palette()[0])

	g := render.Highlights(s)
	if len(g.Polygons) != 1 {
		t.Fatalf("polygons: got %d, want %d", len(g.Polygons), 1)
	}
	if g.Polygons[0].Fill == s.Style.Background {
		t.Errorf("fill: got background color")
	}

	// the polygon encloses the terminals of the clade
	f := s.Frame()
	box := bounds(g.Polygons[0].Points)
	for _, name := range []string{"A", "B"} {
		e, _ := s.View.EdgeOf(nodeID(t, s, name))
		if p := f.Point(e.X1, e.Y); !projection.Contains(box, p) {
			t.Errorf("terminal %q at %v: outside of %v", name, p, box)
		}
	}
	c, _ := s.View.EdgeOf(nodeID(t, s, "C"))
	if p := f.Point(c.X1, c.Y); projection.Contains(box, p) {
		t.Errorf("terminal %q at %v: inside of %v", "C", p, box)
	}
}

func bounds(pts []r2.Vec) r2.Box {
	b := r2.Box{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		b.Min.X = min(b.Min.X, p.X)
		b.Min.Y = min(b.Min.Y, p.Y)
		b.Max.X = max(b.Max.X, p.X)
		b.Max.Y = max(b.Max.Y, p.Y)
	}
	return b
}

func TestCompose(t *testing.T) {
	s := scene(t, "((A:1,B:1):1,C:2);")
	g := cache.New(func(g *render.Geometry) int { return g.Bytes() })

	var layers []cache.Layer
	for geom := range render.Compose(context.Background(), s, g, nil) {
		layers = append(layers, geom.Layer)
	}
	if !reflect.DeepEqual(layers, cache.ZOrder) {
		t.Errorf("layers: got %v, want %v", layers, cache.ZOrder)
	}
	if g.Bytes() == 0 {
		t.Errorf("bytes: got 0")
	}

	for range render.Compose(context.Background(), s, g, nil) {
	}
	hits, misses := g.Stats()
	if hits != len(cache.ZOrder) || misses != len(cache.ZOrder) {
		t.Errorf("stats: got %d hits, %d misses", hits, misses)
	}
}

func TestScroll(t *testing.T) {
	s := scene(t, "((A:1,B:1):1,C:2);")
	s.Layout.SetNodeSize(1 << 20)
	s.Layout.Scroll(40)
	off := s.Layout.ScrollOffset()
	if off <= 0 {
		t.Fatalf("scroll: got %.3f", off)
	}

	raw := render.TipLabels(s, s.Visible(s.Budget))
	src := render.NewStatic(context.Background(), s)
	for geom := range src.Layers() {
		if geom.Layer != cache.LabelsTip {
			continue
		}
		if len(geom.Labels) != len(raw.Labels) {
			t.Fatalf("labels: got %d, want %d", len(geom.Labels), len(raw.Labels))
		}
		for i, l := range geom.Labels {
			if !near(l.Pos.Y, raw.Labels[i].Pos.Y-off) {
				t.Errorf("label %q: got y %.3f, want %.3f", l.Text, l.Pos.Y, raw.Labels[i].Pos.Y-off)
			}
		}
	}
	if err := src.Err(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFan(t *testing.T) {
	s := scene(t, "((A:1,B:1):1,C:2);")
	s.Kind = projection.Fan
	s.Fan = render.FanOptions{Opening: math.Pi, RootLen: 0.1}

	f := s.Frame()
	if f.Proj.Kind != projection.Fan {
		t.Fatalf("projection: got %v, want %v", f.Proj.Kind, projection.Fan)
	}
	if want := (r2.Vec{X: 100, Y: 56}); f.Origin != want {
		t.Errorf("origin: got %v, want %v", f.Origin, want)
	}

	set := s.Visible(s.Budget)
	if set.Len() != len(s.View.Edges) {
		t.Errorf("visible: got %d, want %d", set.Len(), len(s.View.Edges))
	}
	g, err := render.Edges(context.Background(), s, set)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, l := range g.Lines {
		for _, p := range l.Points {
			if d := r2.Norm(r2.Sub(p, f.Origin)); d > f.Proj.Radius+1e-6 {
				t.Errorf("point %v: outside of the fan radius %.3f", p, f.Proj.Radius)
			}
		}
	}
}
