// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package projection_test

import (
	"math"
	"testing"

	"github.com/js-arias/phyview/edge"
	"github.com/js-arias/phyview/newick"
	"github.com/js-arias/phyview/projection"
	"github.com/js-arias/phyview/state"
	"gonum.org/v1/gonum/spatial/r2"
	"pgregory.net/rapid"
)

const eps = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func testPoint(t testing.TB, name string, got, want r2.Vec) {
	t.Helper()
	if math.Abs(got.X-want.X) > 1e-6 || math.Abs(got.Y-want.Y) > 1e-6 {
		t.Errorf("%s: got point %v, want %v", name, got, want)
	}
}

func TestPhylogram(t *testing.T) {
	p := projection.NewPhylogram()
	e := edge.Edge{Parent: 0, Child: 1, X0: 0.3, X1: 0.6, XMid: 0.45, Y: 0.5, YParent: 0.25}

	p0, p1 := p.EdgePoints(e, 100, 200)
	testPoint(t, "p0", p0, r2.Vec{X: 30, Y: 100})
	testPoint(t, "p1", p1, r2.Vec{X: 60, Y: 100})
	testPoint(t, "node", p.NodePoint(e, 100, 200), r2.Vec{X: 60, Y: 100})
	testPoint(t, "mid", p.MidPoint(e, 100, 200), r2.Vec{X: 45, Y: 100})

	c := p.Connector(e, 100, 200, projection.DefaultTolerance)
	if len(c) != 2 {
		t.Fatalf("connector: got %d points, want 2", len(c))
	}
	testPoint(t, "connector start", c[0], r2.Vec{X: 30, Y: 100})
	testPoint(t, "connector end", c[1], r2.Vec{X: 30, Y: 50})

	root := edge.Edge{Parent: -1}
	if c := p.Connector(root, 100, 200, projection.DefaultTolerance); c != nil {
		t.Errorf("root connector: got %v, want nil", c)
	}

	l := p.Label(e, 100, 200, 5)
	testPoint(t, "label", l.Pos, r2.Vec{X: 65, Y: 100})
	if l.Angle != 0 || l.Anchor != projection.Start {
		t.Errorf("label: got angle %.3f anchor %d", l.Angle, l.Anchor)
	}

	x, y := p.Unit(r2.Vec{X: 30, Y: 100}, 100, 200)
	if !near(x, 0.3) || !near(y, 0.5) {
		t.Errorf("unit: got (%.6f, %.6f), want (0.3, 0.5)", x, y)
	}
}

func TestFan(t *testing.T) {
	p := projection.NewFan(math.Pi, 0, 10, 110)
	e := edge.Edge{Parent: 0, Child: 1, X0: 0, X1: 1, Y: 0.5, YParent: 0}

	if a := p.Angle(0.5); !near(a, math.Pi/2) {
		t.Errorf("angle: got %.6f, want %.6f", a, math.Pi/2)
	}
	p0, p1 := p.EdgePoints(e, 0, 0)
	testPoint(t, "p0", p0, r2.Vec{X: 0, Y: 10})
	testPoint(t, "p1", p1, r2.Vec{X: 0, Y: 110})

	arc := p.Connector(e, 0, 0, projection.DefaultTolerance)
	if len(arc) < 3 {
		t.Fatalf("connector: got %d points, want an arc", len(arc))
	}
	testPoint(t, "arc start", arc[0], r2.Vec{X: 0, Y: 10})
	testPoint(t, "arc end", arc[len(arc)-1], r2.Vec{X: 10, Y: 0})
	testArc(t, arc, r2.Vec{}, 10, projection.DefaultTolerance)

	full := projection.NewFan(0, 0, 0, 100)
	if !near(full.Opening, 2*math.Pi) {
		t.Errorf("opening: got %.6f, want %.6f", full.Opening, 2*math.Pi)
	}
}

func testArc(t testing.TB, arc []r2.Vec, c r2.Vec, r, tol float64) {
	t.Helper()
	for i, pt := range arc {
		if d := r2.Norm(r2.Sub(pt, c)); math.Abs(d-r) > 1e-6 {
			t.Errorf("arc point %d: got radius %.6f, want %.6f", i, d, r)
		}
		if i == 0 {
			continue
		}
		mid := r2.Scale(0.5, r2.Add(arc[i-1], pt))
		if d := r2.Norm(r2.Sub(mid, c)); r-d > tol+1e-9 {
			t.Errorf("arc segment %d: deviation %.6f greater than %.6f", i, r-d, tol)
		}
	}
}

func TestConnectorShortestSide(t *testing.T) {
	p := projection.NewFan(2*math.Pi, 0, 0, 100)
	e := edge.Edge{Parent: 0, Child: 1, X0: 0.5, X1: 1, Y: 0.9, YParent: 0.1}

	arc := p.Connector(e, 0, 0, 0.5)
	a0 := math.Atan2(arc[0].Y, arc[0].X)
	var sweep float64
	for i := 1; i < len(arc); i++ {
		a1 := math.Atan2(arc[i].Y, arc[i].X)
		sweep += math.Remainder(a1-a0, 2*math.Pi)
		a0 = a1
	}
	if !near(math.Abs(sweep), 0.4*math.Pi) {
		t.Errorf("sweep: got %.6f, want %.6f", math.Abs(sweep), 0.4*math.Pi)
	}
	testArc(t, arc, r2.Vec{}, 50, 0.5)
}

func TestFanLabel(t *testing.T) {
	p := projection.NewFan(2*math.Pi, 0, 0, 100)

	right := p.Label(edge.Edge{X1: 1, Y: 0}, 0, 0, 4)
	testPoint(t, "right", right.Pos, r2.Vec{X: 104, Y: 0})
	if right.Anchor != projection.Start || !near(right.Angle, 0) {
		t.Errorf("right: got angle %.6f anchor %d", right.Angle, right.Anchor)
	}

	left := p.Label(edge.Edge{X1: 1, Y: 0.5}, 0, 0, 4)
	testPoint(t, "left", left.Pos, r2.Vec{X: -104, Y: 0})
	if left.Anchor != projection.End || !near(left.Angle, 0) {
		t.Errorf("left: got angle %.6f anchor %d, want flipped", left.Angle, left.Anchor)
	}

	down := p.Label(edge.Edge{X1: 1, Y: 0.25}, 0, 0, 4)
	if down.Anchor != projection.Start || !near(down.Angle, math.Pi/2) {
		t.Errorf("down: got angle %.6f anchor %d", down.Angle, down.Anchor)
	}
}

func TestArcBezier(t *testing.T) {
	c := r2.Vec{X: 5, Y: -3}
	segs := projection.ArcBezier(c, 50, 0.2, 0.2+1.5*math.Pi)
	if len(segs) != 3 {
		t.Fatalf("segments: got %d, want %d", len(segs), 3)
	}
	for i, s := range segs {
		mid := r2.Scale(1.0/8, r2.Add(r2.Add(s[0], r2.Scale(3, s[1])), r2.Add(r2.Scale(3, s[2]), s[3])))
		if d := r2.Norm(r2.Sub(mid, c)); math.Abs(d-50) > 0.05 {
			t.Errorf("segment %d: midpoint radius %.6f, want %.6f", i, d, 50.0)
		}
		if i > 0 {
			testPoint(t, "joint", s[0], segs[i-1][3])
		}
	}
}

func TestProjectionConsistency(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x0 := rapid.Float64Range(0, 1).Draw(t, "x0")
		x1 := rapid.Float64Range(x0, 1).Draw(t, "x1")
		y := rapid.Float64Range(0, 1).Draw(t, "y")
		e := edge.Edge{X0: x0, X1: x1, XMid: (x0 + x1) / 2, Y: y}

		w := rapid.Float64Range(10, 2000).Draw(t, "w")
		h := rapid.Float64Range(10, 2000).Draw(t, "h")
		box := r2.Box{
			Min: r2.Vec{X: rapid.Float64Range(-100, w).Draw(t, "minX"), Y: rapid.Float64Range(-100, h).Draw(t, "minY")},
		}
		box.Max = r2.Vec{X: box.Min.X + w/2, Y: box.Min.Y + h/2}

		p := projection.NewPhylogram()
		p0, _ := p.EdgePoints(e, w, h)
		raw := r2.Vec{X: e.X0 * w, Y: e.Y * h}
		if projection.Contains(box, p0) != projection.Contains(box, raw) {
			t.Fatalf("phylogram: point %v and %v disagree on %v", p0, raw, box)
		}

		opening := rapid.Float64Range(0.1, 2*math.Pi-0.1).Draw(t, "opening")
		rotation := rapid.Float64Range(0, 2*math.Pi).Draw(t, "rotation")
		f := projection.NewFan(opening, rotation, 20, 500)
		p0, _ = f.EdgePoints(e, w, h)
		r := 20 + e.X0*480
		a := opening*e.Y + rotation
		raw = r2.Vec{X: r * math.Cos(a), Y: r * math.Sin(a)}
		if r2.Norm(r2.Sub(p0, raw)) > 1e-6 {
			t.Fatalf("fan: got %v, want %v", p0, raw)
		}

		if y > 0.001 && y < 0.999 {
			ux, uy := f.Unit(p0, w, h)
			if math.Abs(ux-x0) > 1e-6 || math.Abs(uy-y) > 1e-6 {
				t.Fatalf("fan unit: got (%.6f, %.6f), want (%.6f, %.6f)", ux, uy, x0, y)
			}
		}
	})
}

func TestEnvelope(t *testing.T) {
	tr, err := newick.Parse("(((A:0.2,B:0.3):0.3,C:0.7,(D:0.5,E:0.3):0.2):0.3,F:0.7,G:0.7):0.0;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v := state.New(tr, state.Options{}).Current()
	clade := v.Edges[1]
	top, bottom := v.BoundingEdges(clade.NodeID)

	poly := projection.Envelope(clade, top, bottom, 0, 0)
	want := []r2.Vec{
		{X: 0.15, Y: 0},
		{X: 0.8, Y: 0},
		{X: 0.8, Y: 1.0 / 6},
		{X: 0.9, Y: 1.0 / 6},
		{X: 0.9, Y: 2.0 / 6},
		{X: 1.0, Y: 2.0 / 6},
		{X: 1.0, Y: 3.0 / 6},
		{X: 0.8, Y: 3.0 / 6},
		{X: 0.8, Y: 4.0 / 6},
		{X: 0.15, Y: 4.0 / 6},
	}
	if len(poly) != len(want) {
		t.Fatalf("envelope: got %d points, want %d: %v", len(poly), len(want), poly)
	}
	for i := range want {
		testPoint(t, "envelope", poly[i], want[i])
	}

	ph := projection.NewPhylogram().Polygon(poly, 100, 60, 0)
	testPoint(t, "phylogram polygon", ph[1], r2.Vec{X: 80, Y: 0})

	f := projection.NewFan(2*math.Pi, 0, 0, 100)
	fp := f.Polygon(poly, 0, 0, 0.1)
	if len(fp) <= len(poly) {
		t.Errorf("fan polygon: got %d points, want more than %d", len(fp), len(poly))
	}
	for i, pt := range fp {
		if d := r2.Norm(pt); d < 15-1e-6 || d > 100+1e-6 {
			t.Errorf("fan polygon point %d: radius %.6f out of range", i, d)
		}
	}
}
