// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/js-arias/phyview/config"
	"github.com/js-arias/phyview/newick"
	"github.com/js-arias/phyview/tree"
)

// Trees reads the trees defined in a project.
// Time calibrated trees are read first,
// followed by the Newick trees.
func (p *Project) Trees() ([]*tree.Tree, error) {
	if p.Path(Trees) == "" && p.Path(Newick) == "" {
		return nil, fmt.Errorf("trees not defined in project %q", p.name)
	}

	var ts []*tree.Tree
	if name := p.File(Trees); name != "" {
		tt, err := readTimeTrees(name)
		if err != nil {
			return nil, err
		}
		ts = append(ts, tt...)
	}
	if name := p.File(Newick); name != "" {
		nt, err := readNewick(name)
		if err != nil {
			return nil, err
		}
		ts = append(ts, nt...)
	}
	return ts, nil
}

func readTimeTrees(name string) ([]*tree.Tree, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ts, err := tree.ReadTimeTrees(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return ts, nil
}

func readNewick(name string) ([]*tree.Tree, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	base := filepath.Base(name)
	ts, err := newick.Read(f, strings.TrimSuffix(base, filepath.Ext(base)))
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}
	return ts, nil
}

// Config reads the viewer configuration
// defined in a project.
// If no configuration is defined,
// it returns the default configuration.
func (p *Project) Config() (config.Config, error) {
	return config.Load(p.File(Config))
}
