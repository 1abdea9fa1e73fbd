// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree

import (
	"fmt"
	"io"

	"github.com/js-arias/timetree"
)

// MillionYears is the scale used to transform
// the ages of a time tree into branch lengths.
const MillionYears = 1_000_000

// FromTimeTree creates a tree from a time calibrated tree.
// Branch lengths are in million years.
func FromTimeTree(tt *timetree.Tree) (*Tree, error) {
	nodes := tt.Nodes()
	if len(nodes) == 0 {
		return nil, fmt.Errorf("tree %q: %w", tt.Name(), ErrEmpty)
	}

	t := New(tt.Name())
	ids := make(map[int]int, len(nodes))
	root := tt.Root()
	ids[root] = t.Root()
	t.SetName(t.Root(), tt.Taxon(root))

	for _, id := range nodes {
		if id == root {
			continue
		}
		p := tt.Parent(id)
		np, ok := ids[p]
		if !ok {
			return nil, fmt.Errorf("tree %q: node %d: parent %d: %w", tt.Name(), id, p, ErrDisconnected)
		}
		brLen := float64(tt.Age(p)-tt.Age(id)) / MillionYears
		nid, err := t.Add(np, tt.Taxon(id), brLen)
		if err != nil {
			return nil, fmt.Errorf("tree %q: %w", tt.Name(), err)
		}
		ids[id] = nid
	}
	return t, nil
}

// ReadTimeTrees reads the time calibrated trees
// of a TSV file.
func ReadTimeTrees(r io.Reader) ([]*Tree, error) {
	c, err := timetree.ReadTSV(r)
	if err != nil {
		return nil, err
	}

	var ts []*Tree
	for _, tn := range c.Names() {
		t, err := FromTimeTree(c.Tree(tn))
		if err != nil {
			return nil, err
		}
		ts = append(ts, t)
	}
	return ts, nil
}
