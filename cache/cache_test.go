// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package cache_test

import (
	"reflect"
	"slices"
	"testing"

	"github.com/js-arias/phyview/cache"
)

// Expected invalidation for each event,
// in the order:
// bg, edges, labels_tip, labels_int, labels_branch,
// scalebar, selection, clade_highlights, cursor.
var matrix = map[cache.Event][]bool{
	cache.Scroll:          {false, false, true, true, true, false, true, true, true},
	cache.Resize:          {true, true, true, true, true, true, true, true, true},
	cache.OrderingChange:  {false, true, true, true, true, false, true, true, true},
	cache.NodeSizeChange:  {false, true, true, true, true, false, true, true, true},
	cache.TipLabelToggle:  {false, true, true, true, true, false, true, true, true},
	cache.IntLabelToggle:  {false, false, false, true, false, false, false, false, false},
	cache.SelectionChange: {false, false, false, false, false, false, true, false, false},
	cache.CladeHighlight:  {false, false, false, false, false, false, false, true, false},
	cache.SearchChange:    {false, false, false, false, false, false, false, false, true},
	cache.TreeReplace:     {true, true, true, true, true, true, true, true, true},
}

func TestInvalidationMatrix(t *testing.T) {
	if len(matrix) != len(cache.Events()) {
		t.Fatalf("matrix: got %d events, want %d", len(matrix), len(cache.Events()))
	}

	for _, ev := range cache.Events() {
		g := cache.New[int](nil)
		for _, l := range cache.Layers() {
			g.Get(l, func() int { return int(l) + 1 })
		}
		before := make(map[cache.Layer]uint64)
		for _, l := range cache.Layers() {
			before[l] = g.Generation(l)
		}

		cleared := g.Invalidate(ev)
		want := matrix[ev]
		for _, l := range cache.Layers() {
			if g.Valid(l) == want[l] {
				t.Errorf("%s: layer %s: got valid %v, want %v", ev, l, g.Valid(l), !want[l])
			}
			if slices.Contains(cleared, l) != want[l] {
				t.Errorf("%s: layer %s: not reported as cleared", ev, l)
			}
			if !want[l] && g.Generation(l) != before[l] {
				t.Errorf("%s: layer %s: generation changed", ev, l)
			}
		}
	}
}

func TestGet(t *testing.T) {
	g := cache.New(func(s []byte) int { return len(s) })

	var builds int
	build := func() []byte {
		builds++
		return make([]byte, 100)
	}

	g.Get(cache.Edges, build)
	g.Get(cache.Edges, build)
	if builds != 1 {
		t.Errorf("builds: got %d, want %d", builds, 1)
	}
	if n := g.Bytes(); n != 100 {
		t.Errorf("bytes: got %d, want %d", n, 100)
	}
	gen := g.Generation(cache.Edges)
	if gen == 0 {
		t.Fatalf("generation: got 0 on a valid layer")
	}

	g.Invalidate(cache.NodeSizeChange)
	if g.Valid(cache.Edges) || g.Bytes() != 0 {
		t.Errorf("after invalidation: valid %v, %d bytes", g.Valid(cache.Edges), g.Bytes())
	}
	g.Get(cache.Edges, build)
	if builds != 2 {
		t.Errorf("builds: got %d, want %d", builds, 2)
	}
	if g.Generation(cache.Edges) <= gen {
		t.Errorf("generation: got %d, want greater than %d", g.Generation(cache.Edges), gen)
	}

	hits, misses := g.Stats()
	if hits != 1 || misses != 2 {
		t.Errorf("stats: got %d hits, %d misses, want 1, 2", hits, misses)
	}

	if cleared := g.Invalidate(cache.Scroll); len(cleared) != 0 {
		t.Errorf("scroll: got cleared %v, want none", cleared)
	}
}

func TestCompose(t *testing.T) {
	g := cache.New[string](nil)
	var order []cache.Layer
	for l, geom := range g.Compose(func(l cache.Layer) string { return l.String() }) {
		if geom != l.String() {
			t.Errorf("layer %s: got geometry %q", l, geom)
		}
		order = append(order, l)
	}
	if !reflect.DeepEqual(order, cache.ZOrder) {
		t.Errorf("order: got %v, want %v", order, cache.ZOrder)
	}
	for _, l := range cache.Layers() {
		if !g.Valid(l) {
			t.Errorf("layer %s: not built", l)
		}
	}

	g.Reset()
	for _, l := range cache.Layers() {
		if g.Valid(l) {
			t.Errorf("layer %s: valid after reset", l)
		}
	}
}
