// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package interact

import (
	"fmt"
	"image/color"

	"github.com/js-arias/phyview/tree"
	"gonum.org/v1/gonum/spatial/r2"
)

// Kind is the kind of a menu item.
type Kind int8

// Valid menu item kinds.
const (
	Entry Kind = iota
	Submenu
	Separator
)

// Action is the action of a menu entry.
type Action int8

// Valid actions.
const (
	NoAction Action = iota
	ViewSubtree
	Highlight
	RemoveHighlight
	RootHere
	DropNode
)

var actionNames = map[Action]string{
	NoAction:        "none",
	ViewSubtree:     "view subtree",
	Highlight:       "highlight",
	RemoveHighlight: "remove highlight",
	RootHere:        "root here",
	DropNode:        "drop node",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// An Item is an item of a menu.
type Item struct {
	Kind     Kind
	Label    string
	Enabled  bool
	Action   Action
	Node     int
	Color    color.RGBA
	Children []Item
}

// A Menu is the description of a context menu.
type Menu struct {
	Pos   r2.Vec
	Node  int
	Items []Item
}

// Menu labels.
const (
	LabelViewSubtree     = "View Subtree"
	LabelHighlight       = "Highlight"
	LabelRemoveHighlight = "Remove Highlight"
	LabelRootHere        = "Root Here"
	LabelDropNode        = "Drop This Node"
)

// BuildMenu returns the context menu of a node.
//
// "View Subtree" is enabled if the node is not the root
// and has at least two terminals.
// "Highlight" is a submenu with the colors of the palette,
// or "Remove Highlight" if the node is already highlighted.
// "Root Here" is enabled if the node is a valid outgroup
// and the tree is not a subtree view.
// "Drop This Node" is enabled if the node can be removed.
func BuildMenu(node int, t *tree.Tree, hl *Highlights, subtreeView bool, pos r2.Vec) Menu {
	m := Menu{Pos: pos, Node: node}

	m.Items = append(m.Items, Item{
		Kind:    Entry,
		Label:   LabelViewSubtree,
		Enabled: t.CanSubTree(node) == nil && t.Tips(node) >= 2,
		Action:  ViewSubtree,
		Node:    node,
	})
	m.Items = append(m.Items, Item{Kind: Separator})

	if hl.Has(node) {
		m.Items = append(m.Items, Item{
			Kind:    Entry,
			Label:   LabelRemoveHighlight,
			Enabled: true,
			Action:  RemoveHighlight,
			Node:    node,
		})
	} else {
		sub := Item{
			Kind:    Submenu,
			Label:   LabelHighlight,
			Enabled: true,
			Node:    node,
		}
		for _, c := range hl.Palette() {
			sub.Children = append(sub.Children, Item{
				Kind:    Entry,
				Label:   Hex(c),
				Enabled: true,
				Action:  Highlight,
				Node:    node,
				Color:   c,
			})
		}
		m.Items = append(m.Items, sub)
	}
	m.Items = append(m.Items, Item{Kind: Separator})

	m.Items = append(m.Items, Item{
		Kind:    Entry,
		Label:   LabelRootHere,
		Enabled: !subtreeView && t.CanReroot(node) == nil,
		Action:  RootHere,
		Node:    node,
	})
	m.Items = append(m.Items, Item{
		Kind:    Entry,
		Label:   LabelDropNode,
		Enabled: t.CanRemove(node) == nil,
		Action:  DropNode,
		Node:    node,
	})
	return m
}

// Entries returns the entries of a menu
// (including the entries of the submenus)
// in display order.
func (m Menu) Entries() []Item {
	var entries []Item
	var walk func(items []Item)
	walk = func(items []Item) {
		for _, it := range items {
			switch it.Kind {
			case Entry:
				entries = append(entries, it)
			case Submenu:
				walk(it.Children)
			}
		}
	}
	walk(m.Items)
	return entries
}

// Choose returns the entry at the given index
// of the list of entries.
// It returns false if the index is invalid
// or the entry is disabled.
func (m Menu) Choose(i int) (Item, bool) {
	entries := m.Entries()
	if i < 0 || i >= len(entries) {
		return Item{}, false
	}
	it := entries[i]
	if !it.Enabled {
		return Item{}, false
	}
	return it, true
}
