// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package export_test

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/phyview/export"
	"github.com/js-arias/phyview/interact"
	"github.com/js-arias/phyview/layout"
	"github.com/js-arias/phyview/newick"
	"github.com/js-arias/phyview/projection"
	"github.com/js-arias/phyview/render"
	"github.com/js-arias/phyview/state"
)

func scene(t testing.TB, s string) *render.Scene {
	t.Helper()
	tr, err := newick.Parse(s)
	if err != nil {
		t.Fatalf("unable to parse %q: %v", s, err)
	}
	v := state.New(tr, state.Options{}).Current()
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

const small = "((Apis:1,Bombus:1):1,Crabro:2);"

func TestFormat(t *testing.T) {
	tests := map[string]export.Format{
		"tree.svg":  export.SVG,
		"tree.PNG":  export.PNG,
		"a/b.pdf":   export.PDF,
		"dump.json": export.JSON,
	}
	for name, want := range tests {
		f, err := export.FormatOf(name)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", name, err)
			continue
		}
		if f != want {
			t.Errorf("%s: got %v, want %v", name, f, want)
		}
	}
	if _, err := export.FormatOf("tree.txt"); err == nil {
		t.Errorf("tree.txt: expecting error")
	}
}

func TestSVG(t *testing.T) {
	s := scene(t, small)
	var buf bytes.Buffer
	if err := export.WriteSVG(&buf, render.NewStatic(context.Background(), s)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"<svg", `id="edges"`, `id="labels_tip"`, "<polyline", ">Apis<", ">Crabro<"} {
		if !strings.Contains(out, want) {
			t.Errorf("output: %q not found", want)
		}
	}
}

func TestPNG(t *testing.T) {
	s := scene(t, small)
	var buf bytes.Buffer
	if err := export.WritePNG(&buf, render.NewStatic(context.Background(), s)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("unable to decode PNG: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 200 || b.Dy() != 112 {
		t.Errorf("size: got %dx%d, want 200x112", b.Dx(), b.Dy())
	}

	// the background is white
	r, g, bl, _ := img.At(1, 1).RGBA()
	if r != 0xffff || g != 0xffff || bl != 0xffff {
		t.Errorf("background: got %x %x %x", r, g, bl)
	}
}

func TestPDF(t *testing.T) {
	s := scene(t, small)
	s.Kind = projection.Fan
	s.Fan = render.FanOptions{Opening: 2, RootLen: 0.1}
	var buf bytes.Buffer
	if err := export.WritePDF(&buf, render.NewStatic(context.Background(), s)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Errorf("output is not a PDF document")
	}
}

func TestJSON(t *testing.T) {
	s := scene(t, small)
	f := s.Frame()
	set := s.Visible(s.Budget)
	w, h := s.Layout.Size()
	d := export.NewDocument("small", s.Kind.String(), w, h, render.VisibleEdges(f, set, s.Tolerance))
	if len(d.Edges) != set.Len() {
		t.Fatalf("edges: got %d, want %d", len(d.Edges), set.Len())
	}

	var buf bytes.Buffer
	if err := export.WriteJSON(&buf, d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := export.ReadJSON(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, d) {
		t.Errorf("document: got %+v, want %+v", got, d)
	}

	var tips []string
	for _, e := range got.Edges {
		if e.Tip {
			tips = append(tips, e.Name)
		}
	}
	if want := []string{"Apis", "Bombus", "Crabro"}; !reflect.DeepEqual(tips, want) {
		t.Errorf("terminals: got %v, want %v", tips, want)
	}
}

func TestToFile(t *testing.T) {
	s := scene(t, small)
	dir := t.TempDir()
	src := render.NewStatic(context.Background(), s)

	name := filepath.Join(dir, "tree.svg")
	if err := export.ToFile(name, src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	info, err := os.Stat(name)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Size() == 0 {
		t.Errorf("file %q: empty", name)
	}

	if err := export.ToFile(filepath.Join(dir, "tree.txt"), src); err == nil {
		t.Errorf("tree.txt: expecting error")
	}
}
