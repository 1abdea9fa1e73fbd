// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package treegen provides random tree generators
// for property based tests.
package treegen

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/js-arias/phyview/tree"
	"pgregory.net/rapid"
)

// Random draws a random tree
// with at least three terminals,
// in which every internal node has two or three children.
func Random(t *rapid.T) *tree.Tree {
	return Sized(t, 3, 40)
}

// Sized draws a random tree
// with a number of terminals in the given range.
func Sized(t *rapid.T, minTips, maxTips int) *tree.Tree {
	n := rapid.IntRange(minTips, maxTips).Draw(t, "tips")
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("t%03d", i)
	}
	missing := rapid.Bool().Draw(t, "missing-lengths")

	tr := tree.New("random")
	length := func() float64 {
		if missing {
			return tree.Missing
		}
		return rapid.Float64Range(0.01, 2).Draw(t, "length")
	}

	var grow func(id int, names []string)
	grow = func(id int, names []string) {
		k := rapid.IntRange(2, min(3, len(names))).Draw(t, "children")
		cuts := rapid.SliceOfNDistinct(rapid.IntRange(1, len(names)-1), k-1, k-1, func(v int) int { return v }).Draw(t, "cuts")
		slices.Sort(cuts)
		cuts = append(cuts, len(names))

		prev := 0
		for _, c := range cuts {
			g := names[prev:c]
			prev = c
			if len(g) == 1 {
				tr.Add(id, g[0], length())
				continue
			}
			nid, _ := tr.Add(id, "", length())
			grow(nid, g)
		}
	}
	if n == 1 {
		tr.Add(tr.Root(), names[0], length())
		return tr
	}
	grow(tr.Root(), names)
	return tr
}

// Bipartitions returns the set of non trivial and trivial splits
// of the terminals of an unrooted tree.
// Each split is represented by the side
// that does not contain the first terminal name
// (in lexicographic order).
func Bipartitions(t *tree.Tree) map[string]bool {
	all := t.TipNames()
	sort.Strings(all)
	first := all[0]

	below := make(map[int][]string)
	order := t.Nodes()
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		if t.IsTip(id) {
			below[id] = []string{t.Name(id)}
			continue
		}
		var names []string
		for _, c := range t.Children(id) {
			names = append(names, below[c]...)
		}
		below[id] = names
	}

	splits := make(map[string]bool)
	for _, id := range order {
		if id == t.Root() {
			continue
		}
		side := slices.Clone(below[id])
		if len(side) == len(all) {
			continue
		}
		if slices.Contains(side, first) {
			side = complement(all, side)
		}
		sort.Strings(side)
		splits[strings.Join(side, ",")] = true
	}
	return splits
}

func complement(all, side []string) []string {
	in := make(map[string]bool, len(side))
	for _, s := range side {
		in[s] = true
	}
	var c []string
	for _, s := range all {
		if !in[s] {
			c = append(c, s)
		}
	}
	return c
}
