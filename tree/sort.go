// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree

import (
	"math"
	"slices"
)

// Sort reorders the children of each node
// by the number of descendant terminals.
//
// If descending is true,
// nodes with more terminals go first,
// and ties are resolved by the smallest ID
// of the descendant terminals.
// If descending is false the order is the exact reverse,
// so the terminal order of one sort
// is the mirror of the other.
func (t *Tree) Sort(descending bool) {
	order := t.preorder(t.root)

	firstTip := make(map[int]int, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		n := t.nodes[order[i]]
		if len(n.children) == 0 {
			firstTip[n.id] = n.id
			continue
		}
		m := math.MaxInt
		for _, c := range n.children {
			m = min(m, firstTip[c])
		}
		firstTip[n.id] = m
	}

	cmp := func(a, b int) int {
		ta, tb := t.nodes[a].tips, t.nodes[b].tips
		if ta != tb {
			return tb - ta
		}
		return firstTip[a] - firstTip[b]
	}
	for _, id := range order {
		n := t.nodes[id]
		if len(n.children) < 2 {
			continue
		}
		slices.SortStableFunc(n.children, cmp)
		if !descending {
			slices.Reverse(n.children)
		}
	}
}
