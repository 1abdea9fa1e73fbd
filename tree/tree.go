// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package tree implements an immutable-by-convention node table
// for phylogenetic trees
// used as the source of the layout engine.
//
// Nodes are stored in an arena indexed by node ID.
// IDs are stable:
// edits produce a new tree that keeps the IDs of surviving nodes,
// and new nodes
// (for example a virtual root)
// receive fresh IDs at the end of the arena.
package tree

import (
	"errors"
	"fmt"
	"slices"
)

// Errors returned by tree construction and edits.
var (
	ErrEmpty           = errors.New("tree without terminals")
	ErrDisconnected    = errors.New("disconnected tree")
	ErrNoNode          = errors.New("node not in tree")
	ErrIsRoot          = errors.New("node is the root")
	ErrInvalidOutgroup = errors.New("invalid outgroup")
	ErrNotRooted       = errors.New("tree is not rooted")
	ErrNotRemovable    = errors.New("node can not be removed")
	ErrSubtreeTip      = errors.New("subtree of a terminal")
)

// Missing is the branch length value
// used for a branch without length.
// Any negative length is read as missing.
const Missing = -1

type rootState int8

const (
	rootAuto rootState = iota
	rootYes
	rootNo
)

type node struct {
	id       int
	parent   int
	children []int
	name     string
	length   float64
	hasLen   bool

	// derived values
	tips  int
	depth float64
}

func (n *node) brLen() float64 {
	if !n.hasLen {
		return 0
	}
	return n.length
}

// A Tree is a phylogenetic tree.
type Tree struct {
	title  string
	nodes  []*node
	root   int
	rooted rootState
	height float64
	live   int
}

// New creates a new tree
// with a single root node
// (with ID 0).
func New(title string) *Tree {
	root := &node{
		id:     0,
		parent: -1,
		tips:   1,
	}
	return &Tree{
		title: title,
		nodes: []*node{root},
		root:  0,
		live:  1,
	}
}

// Add adds a new node as a child of the indicated parent.
// A negative length is a missing branch length.
// It returns the ID of the new node.
func (t *Tree) Add(parent int, name string, length float64) (int, error) {
	p := t.node(parent)
	if p == nil {
		return -1, fmt.Errorf("add child of %d: %w", parent, ErrNoNode)
	}

	n := &node{
		id:     len(t.nodes),
		parent: parent,
		name:   name,
		tips:   1,
	}
	if length >= 0 {
		n.length = length
		n.hasLen = true
	}
	n.depth = p.depth + n.brLen()
	wasTip := len(p.children) == 0
	p.children = append(p.children, n.id)
	t.nodes = append(t.nodes, n)
	t.live++

	if !wasTip {
		for a := p; a != nil; a = t.node(a.parent) {
			a.tips++
		}
	}

	if wasTip && p.depth == t.height {
		t.setHeight()
	}
	if n.depth > t.height {
		t.height = n.depth
	}
	return n.id, nil
}

// SetName sets the label of a node.
func (t *Tree) SetName(id int, name string) {
	if n := t.node(id); n != nil {
		n.name = name
	}
}

// Node is a node description
// used to build a tree
// from the output of a parser.
type Node struct {
	ID       int
	Children []int
	Name     string

	// Length is the branch length,
	// a negative value is a missing length.
	Length float64
}

// Build creates a tree from a node table.
// Every node except the root must be listed
// exactly once as a child,
// and all nodes must be reachable from the root.
func Build(title string, nodes []Node, root int) (*Tree, error) {
	if len(nodes) == 0 {
		return nil, ErrEmpty
	}

	maxID := -1
	for _, n := range nodes {
		if n.ID < 0 {
			return nil, fmt.Errorf("invalid node ID %d: %w", n.ID, ErrDisconnected)
		}
		maxID = max(maxID, n.ID)
	}

	t := &Tree{
		title: title,
		nodes: make([]*node, maxID+1),
		root:  root,
	}
	for _, n := range nodes {
		if t.nodes[n.ID] != nil {
			return nil, fmt.Errorf("repeated node ID %d: %w", n.ID, ErrDisconnected)
		}
		nn := &node{
			id:       n.ID,
			parent:   -1,
			name:     n.Name,
			children: slices.Clone(n.Children),
		}
		if n.Length >= 0 {
			nn.length = n.Length
			nn.hasLen = true
		}
		t.nodes[n.ID] = nn
	}
	if t.node(root) == nil {
		return nil, fmt.Errorf("root %d: %w", root, ErrNoNode)
	}

	for _, n := range t.nodes {
		if n == nil {
			continue
		}
		for _, c := range n.children {
			cn := t.node(c)
			if cn == nil {
				return nil, fmt.Errorf("child %d of node %d: %w", c, n.id, ErrNoNode)
			}
			if cn.parent >= 0 || c == root {
				return nil, fmt.Errorf("node %d has more than one parent: %w", c, ErrDisconnected)
			}
			cn.parent = n.id
		}
	}

	order := t.preorder(root)
	if len(order) != len(nodes) {
		return nil, fmt.Errorf("%d of %d nodes unreachable from root: %w", len(nodes)-len(order), len(nodes), ErrDisconnected)
	}
	t.update()
	return t, nil
}

// Clone returns a deep copy of the tree.
func (t *Tree) Clone() *Tree {
	c := &Tree{
		title:  t.title,
		nodes:  make([]*node, len(t.nodes)),
		root:   t.root,
		rooted: t.rooted,
		height: t.height,
		live:   t.live,
	}
	for i, n := range t.nodes {
		if n == nil {
			continue
		}
		nn := *n
		nn.children = slices.Clone(n.children)
		c.nodes[i] = &nn
	}
	return c
}

// Title returns the name of the tree.
func (t *Tree) Title() string {
	return t.title
}

// Root returns the ID of the root node.
// It is the first node of the tree.
func (t *Tree) Root() int {
	return t.root
}

// Parent returns the parent of a node,
// or -1 for the root
// or for an invalid ID.
func (t *Tree) Parent(id int) int {
	n := t.node(id)
	if n == nil {
		return -1
	}
	return n.parent
}

// Children returns the children of a node.
// The returned slice must not be modified.
func (t *Tree) Children(id int) []int {
	n := t.node(id)
	if n == nil {
		return nil
	}
	return n.children
}

// Length returns the branch length of a node.
// It is 0 if the branch length is missing.
func (t *Tree) Length(id int) float64 {
	n := t.node(id)
	if n == nil {
		return 0
	}
	return n.brLen()
}

// HasLength returns true if the node
// has a defined branch length.
func (t *Tree) HasLength(id int) bool {
	n := t.node(id)
	if n == nil {
		return false
	}
	return n.hasLen
}

// Name returns the label of a node.
func (t *Tree) Name(id int) string {
	n := t.node(id)
	if n == nil {
		return ""
	}
	return n.name
}

// IsTip returns true if the node is a terminal.
func (t *Tree) IsTip(id int) bool {
	n := t.node(id)
	if n == nil {
		return false
	}
	return len(n.children) == 0
}

// Has returns true if the ID is a node of the tree.
func (t *Tree) Has(id int) bool {
	return t.node(id) != nil
}

// Tips returns the number of terminals
// descendant of a node
// (a terminal counts itself).
func (t *Tree) Tips(id int) int {
	n := t.node(id)
	if n == nil {
		return 0
	}
	return n.tips
}

// NumTips returns the number of terminals in the tree.
func (t *Tree) NumTips() int {
	return t.Tips(t.root)
}

// NumInternal returns the number of internal nodes
// below the root,
// i.e., the number of internal edges.
func (t *Tree) NumInternal() int {
	var c int
	for _, n := range t.nodes {
		if n == nil || n.id == t.root {
			continue
		}
		if len(n.children) > 0 {
			c++
		}
	}
	return c
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return t.live
}

// Cap returns the size of the ID space
// (the largest ID plus one).
func (t *Tree) Cap() int {
	return len(t.nodes)
}

// Height returns the maximum root-to-tip path length.
// The branch length of the root is ignored.
func (t *Tree) Height() float64 {
	return t.height
}

// Depth returns the cumulative branch length
// from the root to the node.
func (t *Tree) Depth(id int) float64 {
	n := t.node(id)
	if n == nil {
		return 0
	}
	return n.depth
}

// IsRooted returns true if the tree is rooted.
//
// An input tree is considered as rooted
// if the root has two children
// and there are more than two terminals.
// Rerooting always produces a rooted tree,
// and unrooting an unrooted one.
func (t *Tree) IsRooted() bool {
	switch t.rooted {
	case rootYes:
		return true
	case rootNo:
		return false
	}
	r := t.nodes[t.root]
	return len(r.children) == 2 && r.tips > 2
}

// Nodes returns the IDs of the nodes of the tree
// in pre-order.
func (t *Tree) Nodes() []int {
	return t.preorder(t.root)
}

// Descendants returns the IDs of a node
// and all of its descendants in pre-order.
func (t *Tree) Descendants(id int) []int {
	if t.node(id) == nil {
		return nil
	}
	return t.preorder(id)
}

// TipNames returns the names of the terminals
// in pre-order.
func (t *Tree) TipNames() []string {
	var names []string
	for _, id := range t.Nodes() {
		if t.IsTip(id) {
			names = append(names, t.nodes[id].name)
		}
	}
	return names
}

// ByName returns the first node
// (in pre-order)
// with the given name.
func (t *Tree) ByName(name string) (int, bool) {
	for _, id := range t.Nodes() {
		if t.nodes[id].name == name {
			return id, true
		}
	}
	return -1, false
}

func (t *Tree) node(id int) *node {
	if id < 0 || id >= len(t.nodes) {
		return nil
	}
	return t.nodes[id]
}

func (t *Tree) preorder(from int) []int {
	order := make([]int, 0, t.live)
	stack := []int{from}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, id)

		n := t.nodes[id]
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
	return order
}

// Update sets the derived values
// (depth, tip counts, and height)
// of all nodes.
func (t *Tree) update() {
	order := t.preorder(t.root)
	t.live = len(order)

	t.height = 0
	for _, id := range order {
		n := t.nodes[id]
		if n.parent < 0 {
			n.depth = 0
			continue
		}
		n.depth = t.nodes[n.parent].depth + n.brLen()
	}
	for i := len(order) - 1; i >= 0; i-- {
		n := t.nodes[order[i]]
		if len(n.children) == 0 {
			n.tips = 1
			t.height = max(t.height, n.depth)
			continue
		}
		n.tips = 0
		for _, c := range n.children {
			n.tips += t.nodes[c].tips
		}
	}
}

func (t *Tree) setHeight() {
	t.height = 0
	for _, n := range t.nodes {
		if n == nil || len(n.children) > 0 {
			continue
		}
		t.height = max(t.height, n.depth)
	}
}
