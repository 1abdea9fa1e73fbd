// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree

import (
	"fmt"
	"slices"
)

// CanReroot returns nil if the tree can be rerooted
// at the indicated node.
func (t *Tree) CanReroot(id int) error {
	n := t.node(id)
	if n == nil {
		return ErrNoNode
	}
	if id == t.root {
		return ErrIsRoot
	}
	// the root is already on the edge of the node
	if t.IsRooted() && n.parent == t.root {
		return ErrInvalidOutgroup
	}
	return nil
}

// Reroot returns a new tree rooted
// on the branch of the indicated node.
//
// The parent relations in the path
// from the node to the old root are reversed,
// and a new virtual root is added
// with the node and the rest of the tree as children.
// The branch of the node is split in two halves.
// If the old root is left with a single child,
// it is removed.
func (t *Tree) Reroot(id int) (*Tree, error) {
	if err := t.CanReroot(id); err != nil {
		return nil, fmt.Errorf("reroot at node %d: %w", id, err)
	}

	c := t.Clone()
	at := c.nodes[id]

	var path []*node
	for p := at.parent; p >= 0; p = c.nodes[p].parent {
		path = append(path, c.nodes[p])
	}

	v := &node{
		id:       len(c.nodes),
		parent:   -1,
		children: []int{at.id, path[0].id},
	}
	c.nodes = append(c.nodes, v)

	half := at.length / 2
	carryLen, carryHas := half, at.hasLen
	if at.hasLen {
		at.length = half
	}
	at.parent = v.id

	from, parent := at.id, v.id
	for i, p := range path {
		nextLen, nextHas := p.length, p.hasLen
		p.children = deleteID(p.children, from)
		if i+1 < len(path) {
			p.children = append(p.children, path[i+1].id)
		}
		p.parent = parent
		p.length, p.hasLen = carryLen, carryHas
		carryLen, carryHas = nextLen, nextHas
		from, parent = p.id, p.id
	}

	c.root = v.id
	c.rooted = rootYes

	old := path[len(path)-1]
	switch len(old.children) {
	case 0:
		// the old root was unary
		p := old.parent
		c.drop(old.id)
		if pn := c.nodes[p]; pn.id != c.root && len(pn.children) == 1 {
			c.splice(p)
		}
	case 1:
		c.splice(old.id)
	}

	c.update()
	return c, nil
}

// Unroot returns a new unrooted tree.
//
// If the root is binary,
// one of its internal children becomes the new root
// and the other child is attached to it
// (the branch lengths of both are added).
func (t *Tree) Unroot() (*Tree, error) {
	if !t.IsRooted() {
		return nil, fmt.Errorf("unroot: %w", ErrNotRooted)
	}

	c := t.Clone()
	c.rooted = rootNo
	r := c.nodes[c.root]
	if len(r.children) != 2 {
		return c, nil
	}

	keep, other := c.nodes[r.children[0]], c.nodes[r.children[1]]
	if len(keep.children) == 0 {
		keep, other = other, keep
	}
	if len(keep.children) == 0 {
		// two terminals
		return c, nil
	}

	other.parent = keep.id
	other.length += keep.length
	other.hasLen = other.hasLen || keep.hasLen
	keep.children = append(keep.children, other.id)
	keep.parent = -1
	keep.length = 0
	keep.hasLen = false

	c.nodes[r.id] = nil
	c.root = keep.id
	c.update()
	return c, nil
}

// CanRemove returns nil if the node can be removed from the tree.
// A node can be removed if it is not the root,
// and at least two terminals are left in the tree.
func (t *Tree) CanRemove(id int) error {
	n := t.node(id)
	if n == nil {
		return ErrNoNode
	}
	if id == t.root {
		return ErrIsRoot
	}
	if t.NumTips()-n.tips < 2 {
		return ErrNotRemovable
	}
	return nil
}

// RemoveNode returns a new tree without the indicated node
// and its descendants.
// If the parent of the node is left with a single child,
// the parent is removed.
func (t *Tree) RemoveNode(id int) (*Tree, error) {
	if err := t.CanRemove(id); err != nil {
		return nil, fmt.Errorf("remove node %d: %w", id, err)
	}

	c := t.Clone()
	p := c.nodes[c.nodes[id].parent]
	c.drop(id)
	if len(p.children) == 1 {
		if p.id == c.root {
			ch := c.nodes[p.children[0]]
			ch.parent = -1
			ch.length = 0
			ch.hasLen = false
			c.nodes[p.id] = nil
			c.root = ch.id
			c.rooted = rootAuto
		} else {
			c.splice(p.id)
		}
	}

	c.update()
	return c, nil
}

// CanSubTree returns nil if a subtree can be made
// from the indicated node.
func (t *Tree) CanSubTree(id int) error {
	n := t.node(id)
	if n == nil {
		return ErrNoNode
	}
	if id == t.root {
		return ErrIsRoot
	}
	if len(n.children) == 0 {
		return ErrSubtreeTip
	}
	return nil
}

// SubTree returns a new tree
// rooted at the indicated node.
// Node IDs are preserved.
func (t *Tree) SubTree(id int) (*Tree, error) {
	if err := t.CanSubTree(id); err != nil {
		return nil, fmt.Errorf("subtree at node %d: %w", id, err)
	}

	c := &Tree{
		title: t.title,
		nodes: make([]*node, len(t.nodes)),
		root:  id,
	}
	for _, d := range t.preorder(id) {
		nn := *t.nodes[d]
		nn.children = slices.Clone(nn.children)
		c.nodes[d] = &nn
	}
	r := c.nodes[id]
	r.parent = -1
	r.length = 0
	r.hasLen = false

	c.update()
	return c, nil
}

// Drop removes a node and its descendants
// from the arena
// and from the children of its parent.
func (t *Tree) drop(id int) {
	n := t.nodes[id]
	if p := t.node(n.parent); p != nil {
		p.children = deleteID(p.children, id)
	}
	for _, d := range t.preorder(id) {
		t.nodes[d] = nil
	}
}

// Splice removes a non-root node with a single child,
// connecting the child with the parent of the node.
func (t *Tree) splice(id int) {
	n := t.nodes[id]
	ch := t.nodes[n.children[0]]
	p := t.nodes[n.parent]

	ch.parent = p.id
	ch.length += n.length
	ch.hasLen = ch.hasLen || n.hasLen
	i := slices.Index(p.children, id)
	p.children[i] = ch.id
	t.nodes[id] = nil
}

func deleteID(ids []int, id int) []int {
	i := slices.Index(ids, id)
	if i < 0 {
		return ids
	}
	return slices.Delete(ids, i, i+1)
}
