// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package layout_test

import (
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/js-arias/phyview/cache"
	"github.com/js-arias/phyview/layout"
	"github.com/js-arias/phyview/newick"
	"github.com/js-arias/phyview/state"
)

func view(t testing.TB, s string) *state.View {
	t.Helper()
	tr, err := newick.Parse(s)
	if err != nil {
		t.Fatalf("unable to parse %q: %v", s, err)
	}
	return state.New(tr, state.Options{}).Current()
}

func star(n int) string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("t%d:1", i)
	}
	return "(" + strings.Join(names, ",") + ");"
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestController(t *testing.T) {
	cfg := layout.DefaultConfig()
	v := view(t, "(((A:0.2,B:0.3):0.3,C:0.7,(D:0.5,E:0.3):0.2):0.3,F:0.7,G:0.7):0.0;")
	l := layout.New(cfg, nil, v, 800, 722)

	if a := l.Available(); !near(a, 700) {
		t.Errorf("available: got %.3f, want %.3f", a, 700.0)
	}
	if ns := l.NodeSize(); !near(ns, 100) {
		t.Errorf("node size: got %.3f, want %.3f", ns, 100.0)
	}
	if !l.DrawTipLabels() {
		t.Errorf("draw tip labels: got false")
	}
	want := 1*cfg.CharAspect*l.TipLabelSize() + cfg.LabelOffset
	if r := l.Reserve(); !near(r, want) {
		t.Errorf("reserve: got %.3f, want %.3f", r, want)
	}
	if h := l.CanvasHeight(); !near(h, 700) {
		t.Errorf("canvas height: got %.3f, want %.3f", h, 700.0)
	}
	if w := l.TreeWidth(); !near(w, 800-20-want) {
		t.Errorf("tree width: got %.3f, want %.3f", w, 800-20-want)
	}

	l.ShowTipLabels(false)
	if l.DrawTipLabels() || l.Reserve() != 0 {
		t.Errorf("hidden labels: got draw %v, reserve %.3f", l.DrawTipLabels(), l.Reserve())
	}
}

func TestSingleTip(t *testing.T) {
	l := layout.New(layout.DefaultConfig(), nil, view(t, "A:1.0;"), 800, 722)
	if ns := l.NodeSize(); !near(ns, l.Available()) {
		t.Errorf("node size: got %.3f, want %.3f", ns, l.Available())
	}
}

func TestNodeSizeSlider(t *testing.T) {
	cfg := layout.DefaultConfig()
	l := layout.New(cfg, nil, view(t, star(1000)), 800, 722)

	lo, hi := l.NodeSizeRange()
	if !near(lo, 0.7) || !near(hi, cfg.MaxNodeSize) {
		t.Errorf("range: got [%.3f, %.3f], want [%.3f, %.3f]", lo, hi, 0.7, cfg.MaxNodeSize)
	}
	if !near(l.NodeSize(), lo) {
		t.Errorf("node size: got %.3f, want %.3f", l.NodeSize(), lo)
	}
	if l.DrawTipLabels() {
		t.Errorf("draw tip labels: got true with %.0f labels in window", l.Available()/l.NodeSize())
	}

	l.SetNodeSize(cfg.NodeSizeSteps - 1)
	if !near(l.NodeSize(), hi) {
		t.Errorf("node size: got %.3f, want %.3f", l.NodeSize(), hi)
	}
	if !l.DrawTipLabels() {
		t.Errorf("draw tip labels: got false")
	}
	if h := l.CanvasHeight(); !near(h, 1000*hi) {
		t.Errorf("canvas height: got %.3f, want %.3f", h, 1000*hi)
	}

	l.SetNodeSize(cfg.NodeSizeSteps * 2)
	if l.Slider() != cfg.NodeSizeSteps-1 {
		t.Errorf("slider: got %d, want %d", l.Slider(), cfg.NodeSizeSteps-1)
	}
	mid := (cfg.NodeSizeSteps - 1) / 2
	l.SetNodeSize(mid)
	s := float64(mid) / float64(cfg.NodeSizeSteps-1)
	if want := lo + (hi-lo)*s; !near(l.NodeSize(), want) {
		t.Errorf("node size: got %.3f, want %.3f", l.NodeSize(), want)
	}
}

func TestScroll(t *testing.T) {
	cfg := layout.DefaultConfig()
	l := layout.New(cfg, nil, view(t, star(20)), 800, 722)
	l.SetNodeSize(cfg.NodeSizeSteps - 1)

	l.Scroll(50)
	q := l.Query()
	if !near(q.Y0, 50) || !near(q.Y1, 750) || !near(q.NodeSize, 48) {
		t.Errorf("query: got %+v", q)
	}

	l.Scroll(10_000)
	if y := l.ScrollOffset(); !near(y, 20*48-700) {
		t.Errorf("scroll: got %.3f, want %.3f", y, 20*48-700.0)
	}
	l.Scroll(-10)
	if y := l.ScrollOffset(); y != 0 {
		t.Errorf("scroll: got %.3f, want 0", y)
	}
}

func TestInvalidation(t *testing.T) {
	g := cache.New[int](nil)
	fill := func() {
		for _, ly := range cache.Layers() {
			g.Get(ly, func() int { return 1 })
		}
	}
	l := layout.New(layout.DefaultConfig(), g, view(t, star(20)), 800, 722)

	tests := []struct {
		name  string
		do    func() cache.Event
		event cache.Event
	}{
		{"resize", func() cache.Event { return l.Resize(640, 480) }, cache.Resize},
		{"node size", func() cache.Event { return l.SetNodeSize(10) }, cache.NodeSizeChange},
		{"tip labels", func() cache.Event { return l.ShowTipLabels(false) }, cache.TipLabelToggle},
		{"tip label size", func() cache.Event { return l.SetTipLabelSize(0) }, cache.TipLabelToggle},
		{"int labels", func() cache.Event { return l.ShowIntLabels(true) }, cache.IntLabelToggle},
		{"int label size", func() cache.Event { return l.SetIntLabelSize(0) }, cache.IntLabelToggle},
		{"scroll", func() cache.Event { return l.Scroll(10) }, cache.Scroll},
		{"ordering", func() cache.Event { return l.SetView(l.View()) }, cache.OrderingChange},
		{"tree", func() cache.Event { return l.ReplaceTree(l.View()) }, cache.TreeReplace},
	}

	for _, test := range tests {
		fill()
		ev := test.do()
		if ev != test.event {
			t.Errorf("%s: got event %s, want %s", test.name, ev, test.event)
		}
		cleared := make(map[cache.Layer]bool)
		for _, ly := range cache.Clears(test.event) {
			cleared[ly] = true
		}
		for _, ly := range cache.Layers() {
			if g.Valid(ly) == cleared[ly] {
				t.Errorf("%s: layer %s: got valid %v", test.name, ly, g.Valid(ly))
			}
		}
	}
}

func TestBudget(t *testing.T) {
	cfg := layout.DefaultConfig()
	l := layout.New(cfg, nil, view(t, star(20)), 800, 722)

	b := l.Budget()
	if b.MaxTips != cfg.MaxTips || b.MaxNodes != cfg.MaxNodes {
		t.Errorf("budget without samples: got %+v", b)
	}

	for range 10 {
		l.RecordFrame(1000, time.Millisecond)
	}
	if c := l.EdgeCost(); c != time.Microsecond {
		t.Errorf("edge cost: got %v, want %v", c, time.Microsecond)
	}
	b = l.Budget()
	if b.MaxNodes != 16_000 || b.MaxTips != 16_000 {
		t.Errorf("budget: got %+v, want 16000 nodes and tips", b)
	}

	for range 100 {
		l.RecordFrame(10, time.Millisecond)
	}
	b = l.Budget()
	if b.MaxNodes != 160 || b.MaxTips != 160 {
		t.Errorf("budget: got %+v, want 160 nodes and tips", b)
	}
}
