// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package edge_test

import (
	"math"
	"reflect"
	"testing"

	"github.com/js-arias/phyview/edge"
	"github.com/js-arias/phyview/internal/treegen"
	"github.com/js-arias/phyview/newick"
	"github.com/js-arias/phyview/tree"
	"pgregory.net/rapid"
)

func parse(t testing.TB, s string) *tree.Tree {
	t.Helper()
	tr, err := newick.Parse(s)
	if err != nil {
		t.Fatalf("unable to parse %q: %v", s, err)
	}
	return tr
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFlatten(t *testing.T) {
	tr := parse(t, "(((A:0.2,B:0.3):0.3,C:0.7,(D:0.5,E:0.3):0.2):0.3,F:0.7,G:0.7):0.0;")
	flat, chunks, tips := edge.Flatten(tr, 4)

	if len(flat) != 11 {
		t.Fatalf("edges: got %d, want %d", len(flat), 11)
	}
	if len(tips) != 7 {
		t.Fatalf("tips: got %d, want %d", len(tips), 7)
	}
	if len(chunks) != 5 {
		t.Errorf("chunks: got %d, want %d", len(chunks), 5)
	}
	for i, c := range chunks {
		want := 2
		if i == len(chunks)-1 {
			want = 3
		}
		if len(c) != want {
			t.Errorf("chunk %d: got size %d, want %d", i, len(c), want)
		}
	}
	if got := edge.TipIndices(flat); !reflect.DeepEqual(got, tips) {
		t.Errorf("tip indices: got %v, want %v", got, tips)
	}

	names := []string{"A", "B", "C", "D", "E", "F", "G"}
	for i, idx := range tips {
		e := flat[idx]
		if e.Name != names[i] {
			t.Errorf("tip %d: got %q, want %q", i, e.Name, names[i])
		}
		if y := float64(i) / 6; !near(e.Y, y) {
			t.Errorf("tip %q: y: got %.6f, want %.6f", e.Name, e.Y, y)
		}
	}

	root := flat[0]
	if root.HasParent() {
		t.Errorf("root: got parent %d", root.Parent)
	}
	if root.X0 != 0 || root.X1 != 0 {
		t.Errorf("root: got x [%.6f, %.6f], want [0, 0]", root.X0, root.X1)
	}
	if !near(root.Y, 2.0/3) {
		t.Errorf("root: y: got %.6f, want %.6f", root.Y, 2.0/3)
	}

	a := flat[tips[0]]
	testEdgeX(t, a, 0.6, 0.8)

	ab := flat[tips[0]-1]
	if ab.Child != a.Parent {
		t.Fatalf("edge before A: got node %d, want %d", ab.Child, a.Parent)
	}
	testEdgeX(t, ab, 0.3, 0.6)
	if !near(ab.Y, 1.0/12) {
		t.Errorf("(A,B): y: got %.6f, want %.6f", ab.Y, 1.0/12)
	}
	if !near(a.YParent, ab.Y) {
		t.Errorf("A: y parent: got %.6f, want %.6f", a.YParent, ab.Y)
	}

	// ((A,B),C,(D,E)) is at the midpoint of (A,B) and (D,E)
	clade := flat[1]
	if want := (1.0/12 + 3.5/6) / 2; !near(clade.Y, want) {
		t.Errorf("clade: y: got %.6f, want %.6f", clade.Y, want)
	}

	for i, e := range flat {
		if e.EdgeIdx != i {
			t.Errorf("edge %d: got index %d", i, e.EdgeIdx)
		}
		if !near(e.XMid, (e.X0+e.X1)/2) {
			t.Errorf("edge %d: x mid: got %.6f, want %.6f", i, e.XMid, (e.X0+e.X1)/2)
		}
		if e.NodeID != e.Child {
			t.Errorf("edge %d: node %d, child %d", i, e.NodeID, e.Child)
		}
	}
	for ci, c := range chunks {
		for _, e := range c {
			if e.ChunkIdx != ci {
				t.Errorf("edge %d: chunk: got %d, want %d", e.EdgeIdx, e.ChunkIdx, ci)
			}
		}
	}

	if err := edge.Validate(flat); err != nil {
		t.Errorf("validate: %v", err)
	}
}

func testEdgeX(t testing.TB, e edge.Edge, x0, x1 float64) {
	t.Helper()
	if !near(e.X0, x0) || !near(e.X1, x1) {
		t.Errorf("edge %q: got x [%.6f, %.6f], want [%.6f, %.6f]", e.Name, e.X0, e.X1, x0, x1)
	}
}

func TestFlattenCladogram(t *testing.T) {
	tr := parse(t, "((A,B),C);")
	flat, _, tips := edge.Flatten(tr, 1)

	want := map[string]float64{
		"A": 1,
		"B": 1,
		"C": 0.5,
	}
	for _, idx := range tips {
		e := flat[idx]
		if !near(e.X1, want[e.Name]) {
			t.Errorf("tip %q: x: got %.6f, want %.6f", e.Name, e.X1, want[e.Name])
		}
	}
}

func TestFlattenSingleTip(t *testing.T) {
	tr := parse(t, "A:1.0;")
	flat, chunks, tips := edge.Flatten(tr, 8)

	if len(flat) != 1 || len(chunks) != 1 || len(tips) != 1 {
		t.Fatalf("got %d edges, %d chunks, %d tips; want 1, 1, 1", len(flat), len(chunks), len(tips))
	}
	e := flat[0]
	if e.Y != 0 || e.X0 != 0 || e.X1 != 0 {
		t.Errorf("tip: got x [%.6f, %.6f] y %.6f, want zeros", e.X0, e.X1, e.Y)
	}
	if !e.IsTip || e.HasParent() {
		t.Errorf("tip: got tip %v, parent %d", e.IsTip, e.Parent)
	}
}

func TestFlattenProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tr := treegen.Random(t)
		chunks := rapid.IntRange(1, 16).Draw(t, "chunks")

		flat, chunked, tips := edge.Flatten(tr, chunks)
		again, chunkedAgain, tipsAgain := edge.Flatten(tr, chunks)

		// determinism
		if !reflect.DeepEqual(flat, again) || !reflect.DeepEqual(chunked, chunkedAgain) || !reflect.DeepEqual(tips, tipsAgain) {
			t.Fatalf("flatten is not deterministic")
		}

		// chunk concatenation
		if got := edge.Concat(chunked); !reflect.DeepEqual(got, flat) {
			t.Fatalf("concatenation of chunks differs from flat list")
		}
		if len(chunked) > chunks+1 {
			t.Fatalf("chunks: got %d, want at most %d", len(chunked), chunks+1)
		}
		size := len(chunked[0])
		for i, c := range chunked[:len(chunked)-1] {
			if len(c) != size {
				t.Fatalf("chunk %d: got size %d, want %d", i, len(c), size)
			}
		}

		// tip monotonicity from 0 to 1
		if first := flat[tips[0]].Y; first != 0 {
			t.Fatalf("first tip: got y %.6f, want 0", first)
		}
		if last := flat[tips[len(tips)-1]].Y; !near(last, 1) {
			t.Fatalf("last tip: got y %.6f, want 1", last)
		}
		for i := 1; i < len(tips); i++ {
			if flat[tips[i]].Y <= flat[tips[i-1]].Y {
				t.Fatalf("tip %d: y %.6f not greater than %.6f", i, flat[tips[i]].Y, flat[tips[i-1]].Y)
			}
		}

		// internal bracketing
		if err := edge.Validate(flat); err != nil {
			t.Fatalf("validate: %v", err)
		}
		for _, e := range flat {
			if e.IsTip {
				continue
			}
			lo, hi := math.Inf(1), math.Inf(-1)
			for _, d := range tr.Descendants(e.NodeID)[1:] {
				if !tr.IsTip(d) {
					continue
				}
				for _, idx := range tips {
					if flat[idx].NodeID == d {
						lo, hi = min(lo, flat[idx].Y), max(hi, flat[idx].Y)
					}
				}
			}
			if e.Y <= lo || e.Y >= hi {
				t.Fatalf("node %d: y %.6f not strictly inside [%.6f, %.6f]", e.NodeID, e.Y, lo, hi)
			}
		}
	})
}

func TestSplit(t *testing.T) {
	tr := parse(t, "(A,B,C,D,E,F,G,H,I);")
	tests := map[string]struct {
		chunks int
		sizes  []int
	}{
		"single": {chunks: 1, sizes: []int{10}},
		"even":   {chunks: 2, sizes: []int{5, 5}},
		"rest":   {chunks: 3, sizes: []int{3, 3, 3, 1}},
		"many":   {chunks: 20, sizes: []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}},
		"zero":   {chunks: 0, sizes: []int{10}},
	}
	for name, test := range tests {
		_, chunks, _ := edge.Flatten(tr, test.chunks)
		var sizes []int
		for _, c := range chunks {
			sizes = append(sizes, len(c))
		}
		if !reflect.DeepEqual(sizes, test.sizes) {
			t.Errorf("%s: got sizes %v, want %v", name, sizes, test.sizes)
		}
	}
}
