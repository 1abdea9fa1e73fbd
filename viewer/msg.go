// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package viewer

import (
	"image/color"

	"github.com/js-arias/phyview/projection"
	"github.com/js-arias/phyview/state"
	"github.com/js-arias/phyview/tree"
	"gonum.org/v1/gonum/spatial/r2"
)

// A Msg is a message applied to a viewer.
// Messages are applied one at a time,
// and each one can return a follow-up message.
type Msg any

// OpenFile requests to read a tree file.
// If the file has several trees,
// the first one is used.
type OpenFile struct {
	Path string
}

// SaveAs requests to write the current tree
// as a Newick file.
type SaveAs struct {
	Path string
}

// ExportPDF requests to write the current view
// as a PDF file.
type ExportPDF struct {
	Path string
}

// Export requests to write the current view
// as an image.
// The format is defined by the file extension.
type Export struct {
	Path string
}

// ExportSubtree requests to write the clade
// of a node as a Newick file.
type ExportSubtree struct {
	Node int
	Path string
}

// ToggleSearchBar shows or hides the search bar.
// Hiding the search bar clears the search.
type ToggleSearchBar struct{}

// OpenContextMenu opens the context menu
// of the node at a window position.
type OpenContextMenu struct {
	Pos r2.Vec
}

// ContextMenuChosenIdx applies the entry of the open context menu
// at the given index.
type ContextMenuChosenIdx struct {
	Index int
}

// SetSubtreeView shows the subtree of a node.
// A node equal to -1 restores the full tree.
type SetSubtreeView struct {
	Node int
}

// Root reroots the tree at a node.
type Root struct {
	Node int
}

// Unroot unroots the tree.
type Unroot struct{}

// RemoveNode removes a node and its descendants.
type RemoveNode struct {
	Node int
}

// AddRemoveCladeHighlight toggles the highlight of a clade.
// If the color is transparent,
// the next color of the palette is used.
type AddRemoveCladeHighlight struct {
	Node  int
	Color color.RGBA
}

// TipLabelVisibility shows or hides the terminal labels.
type TipLabelVisibility struct {
	Show bool
}

// IntLabelVisibility shows or hides the internal labels.
type IntLabelVisibility struct {
	Show bool
}

// TipLabelSizeIdx sets the size of the terminal labels.
type TipLabelSizeIdx struct {
	Index int
}

// IntLabelSizeIdx sets the size of the internal labels.
type IntLabelSizeIdx struct {
	Index int
}

// NodeSizeIdx sets the position of the node size slider.
type NodeSizeIdx struct {
	Index int
}

// NodeOrdering sets the ordering of the tree.
type NodeOrdering struct {
	Ordering state.Ordering
}

// SetProjection sets the projection of the tree.
type SetProjection struct {
	Kind projection.Kind
}

// Scrolled sets the vertical scroll offset.
type Scrolled struct {
	Y float64
}

// WindowResized sets the size of the window.
type WindowResized struct {
	W, H float64
}

// SelectDeselectNode toggles the selection of a node.
type SelectDeselectNode struct {
	Node int
}

// CursorMoved is the new position of the pointer.
type CursorMoved struct {
	Pos r2.Vec
}

// Search sets the query of the search bar.
type Search struct {
	Query   string
	TipOnly bool
}

// SearchNext moves to the next search hit.
type SearchNext struct{}

// SearchPrev moves to the previous search hit.
type SearchPrev struct{}

// AddFoundToSelection adds the search hits to the selection.
type AddFoundToSelection struct{}

// RemoveFoundFromSelection removes the search hits
// from the selection.
type RemoveFoundFromSelection struct{}

// TreeUpdated replaces the tree of the viewer.
type TreeUpdated struct {
	Tree *tree.Tree
}

// FileChanged is sent when the open file
// is modified on disk.
type FileChanged struct {
	Path string
}

// TreeLoaded is the result of reading a tree file.
type TreeLoaded struct {
	Path string
	Tree *tree.Tree
	Err  error

	// Seq is the load request.
	// Only the result of the last request is applied.
	Seq uint64
}

// ExportDone is the result of writing a file.
type ExportDone struct {
	Path string
	Err  error

	// Gen is the tree generation of the export.
	Gen uint64
}

// Notice is a message for the user,
// returned when an action fails.
type Notice struct {
	Text string
	Err  error
}
