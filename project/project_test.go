// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package project_test

import (
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"testing"

	"github.com/js-arias/phyview/project"
)

type setPath struct {
	set  project.Dataset
	path string
}

func TestProject(t *testing.T) {
	p := project.New()

	sets := []setPath{
		{project.Trees, "trees.tab"},
		{project.Newick, "vertebrates.tre"},
		{project.Config, "phyview.yaml"},
	}

	for _, s := range sets {
		p.Add(s.set, s.path)
	}
	testProject(t, p, sets)

	name := filepath.Join(t.TempDir(), "project.tab")
	p.SetName(name)
	if err := p.Write(); err != nil {
		t.Fatalf("error when writing data: %v", err)
	}

	np, err := project.Read(name)
	if err != nil {
		t.Fatalf("error when reading data: %v", err)
	}
	testProject(t, np, sets)

	if want := filepath.Join(filepath.Dir(name), "vertebrates.tre"); np.File(project.Newick) != want {
		t.Errorf("file: got %q, want %q", np.File(project.Newick), want)
	}

	if prev := np.Add(project.Config, ""); prev != "phyview.yaml" {
		t.Errorf("remove: got previous %q, want %q", prev, "phyview.yaml")
	}
	testProject(t, np, sets[:2])
}

func testProject(t testing.TB, p *project.Project, sets []setPath) {
	t.Helper()

	for _, s := range sets {
		if path := p.Path(s.set); path != s.path {
			t.Errorf("set %s: got path %q, want %q", s.set, path, s.path)
		}
	}
	datasets := make([]project.Dataset, 0, len(sets))
	for _, v := range sets {
		datasets = append(datasets, v.set)
	}
	slices.Sort(datasets)

	if ls := p.Sets(); !reflect.DeepEqual(ls, datasets) {
		t.Errorf("sets: got %v, want %v", ls, datasets)
	}
}

func TestTrees(t *testing.T) {
	dir := t.TempDir()
	write := func(name, data string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0o644); err != nil {
			t.Fatalf("unable to write %q: %v", name, err)
		}
	}
	write("bees.tre", "((Apis,Bombus),Crabro);\n((A,B),(C,D));\n")
	write("phyview.yaml", "layout:\n  padding: 2\n")
	write("project.tab", "dataset\tpath\nnewick\tbees.tre\nconfig\tphyview.yaml\n")

	p, err := project.Read(filepath.Join(dir, "project.tab"))
	if err != nil {
		t.Fatalf("unable to read project: %v", err)
	}
	ts, err := p.Trees()
	if err != nil {
		t.Fatalf("unable to read trees: %v", err)
	}
	var titles []string
	for _, tr := range ts {
		titles = append(titles, tr.Title())
	}
	if want := []string{"bees", "bees.1"}; !reflect.DeepEqual(titles, want) {
		t.Errorf("trees: got %v, want %v", titles, want)
	}

	cfg, err := p.Config()
	if err != nil {
		t.Fatalf("unable to read config: %v", err)
	}
	if cfg.Layout.Padding != 2 {
		t.Errorf("config padding: got %.1f, want %.1f", cfg.Layout.Padding, 2.0)
	}

	empty := project.New()
	if _, err := empty.Trees(); err == nil {
		t.Errorf("project without trees: expecting error")
	}
}
