// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package viewer implements the state of an interactive tree viewer.
//
// A Viewer is driven by a serialized stream of messages.
// Each message is applied atomically with Update,
// and can return a follow-up message
// that must be applied in turn.
// File operations are run by an optional Worker;
// its results are messages applied by Update.
//
// A Viewer is not safe for concurrent use.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/js-arias/phyview/cache"
	"github.com/js-arias/phyview/config"
	"github.com/js-arias/phyview/edge"
	"github.com/js-arias/phyview/export"
	"github.com/js-arias/phyview/interact"
	"github.com/js-arias/phyview/layout"
	"github.com/js-arias/phyview/projection"
	"github.com/js-arias/phyview/render"
	"github.com/js-arias/phyview/state"
	"github.com/js-arias/phyview/tree"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"
)

// ErrSubtreeView is returned by the edits
// that are not allowed while a subtree is shown.
var ErrSubtreeView = errors.New("not allowed in a subtree view")

// A Viewer is the state of a tree viewer.
type Viewer struct {
	cfg    config.Config
	log    *zap.Logger
	worker *Worker

	path    string
	loadSeq uint64
	gen     uint64

	state    *state.State
	ordering state.Ordering

	// full is the complete tree
	// when a subtree is shown.
	full *state.State

	graph  *cache.Graph[*render.Geometry]
	layout *layout.Controller
	scene  render.Scene

	menu      *interact.Menu
	searchBar bool
}

// New returns a new viewer without a tree
// for a window of the indicated size.
// If the logger is nil,
// no log is written.
func New(cfg config.Config, log *zap.Logger, w, h float64) (*Viewer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	palette, err := cfg.Colors()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	v := &Viewer{
		cfg: cfg,
		log: log,
		graph: cache.New(func(g *render.Geometry) int {
			if g == nil {
				return 0
			}
			return g.Bytes()
		}),
	}
	v.layout = layout.New(cfg.LayoutConfig(), v.graph, nil, w, h)
	v.scene = render.Scene{
		Layout:     v.layout,
		Fan:        cfg.FanOptions(),
		Selection:  interact.NewSelection(),
		Highlights: interact.NewHighlights(palette),
		Search:     cfg.NewSearch(),
		Cursor:     &interact.Cursor{},
		Style:      render.DefaultStyle(),
		Tolerance:  cfg.Tolerance,
	}
	return v, nil
}

// SetWorker sets the worker used for file operations.
// Without a worker,
// file operations are run by Update
// and the result is returned as the follow-up message.
func (v *Viewer) SetWorker(w *Worker) {
	v.worker = w
}

// Run applies a message
// and all of its follow-up messages.
// If a message fails,
// it returns the error of the failure.
func (v *Viewer) Run(msg Msg) error {
	for msg != nil {
		if n, ok := msg.(Notice); ok {
			if n.Err != nil {
				return n.Err
			}
			return errors.New(n.Text)
		}
		msg = v.Update(msg)
	}
	return nil
}

// Update applies a message
// and returns a follow-up message
// (or nil).
func (v *Viewer) Update(msg Msg) Msg {
	switch m := msg.(type) {
	case OpenFile:
		return v.open(m.Path)
	case FileChanged:
		if v.path == "" || !samePath(v.path, m.Path) {
			return nil
		}
		v.log.Info("reloading tree", zap.String("file", v.path))
		return v.open(v.path)
	case TreeLoaded:
		return v.loaded(m)
	case TreeUpdated:
		if m.Tree == nil || m.Tree.NumTips() == 0 {
			return v.notice("invalid tree", tree.ErrEmpty)
		}
		v.full = nil
		v.setTree(m.Tree)
		return nil

	case SaveAs:
		if v.state == nil {
			return nil
		}
		return v.writeTree(m.Path, v.state.Tree())
	case ExportSubtree:
		if v.state == nil {
			return nil
		}
		sub, err := v.state.Tree().SubTree(m.Node)
		if err != nil {
			return v.notice("unable to export subtree", err)
		}
		return v.writeTree(m.Path, sub)
	case ExportPDF:
		return v.export(m.Path, export.PDF)
	case Export:
		f, err := export.FormatOf(m.Path)
		if err != nil {
			return v.notice("unable to export", err)
		}
		return v.export(m.Path, f)
	case ExportDone:
		return v.exported(m)

	case ToggleSearchBar:
		v.searchBar = !v.searchBar
		if !v.searchBar {
			v.scene.Search.Clear()
			v.graph.Invalidate(cache.SearchChange)
		}
		return nil
	case Search:
		if v.state == nil {
			return nil
		}
		v.searchBar = true
		n := v.scene.Search.Set(m.Query, m.TipOnly, v.scene.View.Edges)
		v.graph.Invalidate(cache.SearchChange)
		v.log.Debug("search", zap.String("query", m.Query), zap.Int("hits", n))
		if e, ok := v.scene.Search.Current(); ok {
			return v.scrollTo(e)
		}
		return nil
	case SearchNext:
		e, ok := v.scene.Search.Next()
		if !ok {
			return nil
		}
		v.graph.Invalidate(cache.SearchChange)
		return v.scrollTo(e)
	case SearchPrev:
		e, ok := v.scene.Search.Prev()
		if !ok {
			return nil
		}
		v.graph.Invalidate(cache.SearchChange)
		return v.scrollTo(e)
	case AddFoundToSelection:
		if v.scene.Selection.AddFound(v.scene.Search) > 0 {
			v.graph.Invalidate(cache.SelectionChange)
		}
		return nil
	case RemoveFoundFromSelection:
		if v.scene.Selection.RemoveFound(v.scene.Search) > 0 {
			v.graph.Invalidate(cache.SelectionChange)
		}
		return nil

	case OpenContextMenu:
		v.menu = nil
		if v.state == nil {
			return nil
		}
		e, ok := v.pick(m.Pos)
		if !ok {
			return nil
		}
		menu := interact.BuildMenu(e.NodeID, v.state.Tree(), v.scene.Highlights, v.full != nil, m.Pos)
		v.menu = &menu
		return nil
	case ContextMenuChosenIdx:
		return v.choose(m.Index)

	case SetSubtreeView:
		return v.subtree(m.Node)
	case Root:
		if v.full != nil {
			return v.notice("unable to reroot", ErrSubtreeView)
		}
		return v.edit("reroot", m.Node, (*tree.Tree).Reroot)
	case Unroot:
		if v.state == nil {
			return nil
		}
		t, err := v.state.Tree().Unroot()
		if err != nil {
			return v.notice("unable to unroot", err)
		}
		v.log.Info("tree unrooted", zap.String("tree", t.Title()))
		v.setTree(t)
		return nil
	case RemoveNode:
		return v.remove(m.Node)

	case AddRemoveCladeHighlight:
		if v.state == nil || !v.state.Tree().Has(m.Node) {
			return nil
		}
		v.scene.Highlights.Toggle(m.Node, m.Color)
		v.graph.Invalidate(cache.CladeHighlight)
		return nil
	case SelectDeselectNode:
		if v.state == nil || !v.state.Tree().Has(m.Node) {
			return nil
		}
		v.scene.Selection.Toggle(m.Node)
		v.graph.Invalidate(cache.SelectionChange)
		return nil

	case TipLabelVisibility:
		v.layout.ShowTipLabels(m.Show)
		return nil
	case IntLabelVisibility:
		v.layout.ShowIntLabels(m.Show)
		return nil
	case TipLabelSizeIdx:
		v.layout.SetTipLabelSize(m.Index)
		return nil
	case IntLabelSizeIdx:
		v.layout.SetIntLabelSize(m.Index)
		return nil
	case NodeSizeIdx:
		v.layout.SetNodeSize(m.Index)
		return nil
	case NodeOrdering:
		v.setOrdering(m.Ordering)
		return nil
	case SetProjection:
		if m.Kind == v.scene.Kind {
			return nil
		}
		v.scene.Kind = m.Kind
		// all geometry depends on the projection
		v.graph.Invalidate(cache.Resize)
		return nil
	case Scrolled:
		v.scroll(m.Y)
		return nil
	case WindowResized:
		v.layout.Resize(m.W, m.H)
		return nil
	case CursorMoved:
		v.hover(m.Pos)
		return nil
	case Notice:
		return nil
	}
	v.log.Warn("unknown message", zap.String("type", fmt.Sprintf("%T", msg)))
	return nil
}

func (v *Viewer) notice(text string, err error) Msg {
	v.log.Warn(text, zap.Error(err))
	return Notice{Text: text, Err: err}
}

// run runs a job in the worker,
// or in place if there is no worker
// or the worker is busy.
func (v *Viewer) run(j Job) Msg {
	if v.worker != nil && v.worker.Submit(j) {
		return nil
	}
	return j(context.Background())
}

func (v *Viewer) open(path string) Msg {
	v.loadSeq++
	seq := v.loadSeq
	v.log.Debug("reading tree", zap.String("file", path), zap.Uint64("seq", seq))
	return v.run(func(ctx context.Context) Msg {
		ts, err := ReadTrees(path)
		if err != nil {
			return TreeLoaded{Path: path, Err: err, Seq: seq}
		}
		return TreeLoaded{Path: path, Tree: ts[0], Seq: seq}
	})
}

func (v *Viewer) loaded(m TreeLoaded) Msg {
	if m.Seq != v.loadSeq {
		v.log.Debug("stale tree load", zap.String("file", m.Path), zap.Uint64("seq", m.Seq))
		return nil
	}
	if m.Err != nil {
		return v.notice("unable to read tree", m.Err)
	}
	if m.Tree == nil || m.Tree.NumTips() == 0 {
		return v.notice("unable to read tree", fmt.Errorf("on file %q: %w", m.Path, tree.ErrEmpty))
	}

	if !samePath(v.path, m.Path) {
		// a different file
		v.scene.Selection.Clear()
		v.scene.Highlights.Clear()
		v.scene.Search.Clear()
	}
	v.path = m.Path
	v.full = nil
	v.setTree(m.Tree)
	v.log.Info("tree loaded",
		zap.String("file", m.Path),
		zap.String("tree", m.Tree.Title()),
		zap.Int("tips", m.Tree.NumTips()),
		zap.Int("nodes", m.Tree.Len()),
	)
	return nil
}

// setTree replaces the tree of the viewer.
func (v *Viewer) setTree(t *tree.Tree) {
	v.state = state.New(t, v.cfg.StateOptions())
	view := v.state.Switch(v.ordering)
	v.gen++
	v.checkView(view)

	v.scene.View = view
	v.layout.ReplaceTree(view)

	v.scene.Selection.Keep(t.Has)
	v.scene.Highlights.Keep(t.Has)
	v.scene.Search.Update(view.Edges)
	v.scene.Cursor.Clear()
	v.menu = nil
}

func (v *Viewer) setOrdering(o state.Ordering) {
	v.ordering = o
	if v.state == nil {
		return
	}
	built := v.state.Built(o)
	start := time.Now()
	view := v.state.Switch(o)
	if !built {
		v.checkView(view)
		v.log.Debug("ordering built",
			zap.Stringer("ordering", o),
			zap.Duration("time", time.Since(start)),
		)
	}
	v.scene.View = view
	v.layout.SetView(view)
	v.scene.Search.Update(view.Edges)
}

// checkView validates the edge list of a view
// when the debug guards are enabled.
func (v *Viewer) checkView(view *state.View) {
	if !v.cfg.Debug {
		return
	}
	if err := edge.Validate(view.Edges); err != nil {
		v.log.Error("invalid edge list", zap.Stringer("ordering", view.Ordering), zap.Error(err))
	}
}

func (v *Viewer) edit(name string, node int, fn func(*tree.Tree, int) (*tree.Tree, error)) Msg {
	if v.state == nil {
		return nil
	}
	t, err := fn(v.state.Tree(), node)
	if err != nil {
		return v.notice("unable to "+name, err)
	}
	v.log.Info("tree edited", zap.String("edit", name), zap.Int("node", node), zap.Int("tips", t.NumTips()))
	v.setTree(t)
	return nil
}

// remove removes a node.
// In a subtree view the node is also removed
// from the full tree.
func (v *Viewer) remove(node int) Msg {
	if v.full == nil {
		return v.edit("remove node", node, (*tree.Tree).RemoveNode)
	}

	sub, err := v.state.Tree().RemoveNode(node)
	if err != nil {
		return v.notice("unable to remove node", err)
	}
	full, err := v.full.Tree().RemoveNode(node)
	if err != nil {
		return v.notice("unable to remove node", err)
	}
	v.full = state.New(full, v.cfg.StateOptions())
	v.log.Info("tree edited", zap.String("edit", "remove node"), zap.Int("node", node), zap.Int("tips", sub.NumTips()))
	v.setTree(sub)
	return nil
}

func (v *Viewer) subtree(node int) Msg {
	if v.state == nil {
		return nil
	}
	if node < 0 {
		if v.full == nil {
			return nil
		}
		full := v.full
		v.full = nil
		v.setTree(full.Tree())
		return nil
	}

	sub, err := v.state.Tree().SubTree(node)
	if err != nil {
		return v.notice("unable to view subtree", err)
	}
	if v.full == nil {
		v.full = v.state
	}
	v.log.Info("subtree view", zap.Int("node", node), zap.Int("tips", sub.NumTips()))
	v.setTree(sub)
	return nil
}

func (v *Viewer) choose(i int) Msg {
	if v.menu == nil {
		return nil
	}
	it, ok := v.menu.Choose(i)
	v.menu = nil
	if !ok {
		return nil
	}
	switch it.Action {
	case interact.ViewSubtree:
		return SetSubtreeView{Node: it.Node}
	case interact.Highlight:
		return AddRemoveCladeHighlight{Node: it.Node, Color: it.Color}
	case interact.RemoveHighlight:
		return AddRemoveCladeHighlight{Node: it.Node}
	case interact.RootHere:
		return Root{Node: it.Node}
	case interact.DropNode:
		return RemoveNode{Node: it.Node}
	}
	return nil
}

// scroll sets the scroll offset.
// The edge layer is rebuilt only if the new window
// is outside the area covered by the layer.
func (v *Viewer) scroll(y float64) {
	if v.scene.Kind == projection.Fan {
		return
	}
	v.layout.Scroll(y)
	if !v.graph.Valid(cache.Edges) {
		return
	}
	q := v.layout.Query()
	if g := v.graph.Get(cache.Edges, nil); g == nil || !g.Covers(q.Y0, q.Y1) {
		v.graph.Clear(cache.Edges)
	}
}

// scrollTo returns the scroll request
// that centers a node in the window.
func (v *Viewer) scrollTo(e edge.Edge) Msg {
	if v.scene.Kind == projection.Fan || v.scene.View == nil {
		return nil
	}
	q := v.layout.Query()
	y := q.Pixel(e.Y, v.scene.View.NumTips()) - v.layout.Available()/2
	return Scrolled{Y: y}
}

// pick returns the visible node
// closest to a window position.
func (v *Viewer) pick(pos r2.Vec) (edge.Edge, bool) {
	if v.scene.View == nil {
		return edge.Edge{}, false
	}
	f := v.scene.Frame()
	off := f.Offset()
	place := func(e edge.Edge) r2.Vec {
		return r2.Add(f.Point(e.X1, e.Y), off)
	}
	radius := max(2*v.scene.Style.MarkRadius, v.layout.NodeSize()/2)
	set := v.scene.Visible(v.layout.Budget())
	return interact.Pick(set.All(), place, pos, radius)
}

func (v *Viewer) hover(pos r2.Vec) {
	var changed bool
	if e, ok := v.pick(pos); ok {
		changed = v.scene.Cursor.Set(e.NodeID, pos)
	} else {
		changed = v.scene.Cursor.Clear()
	}
	if changed {
		v.graph.Invalidate(cache.SearchChange)
	}
}

func (v *Viewer) writeTree(path string, t *tree.Tree) Msg {
	gen := v.gen
	return v.run(func(ctx context.Context) Msg {
		err := WriteTree(path, t)
		return ExportDone{Path: path, Err: err, Gen: gen}
	})
}

// export writes the current view.
// The geometry is collected before the job is sent
// so the job does not share state with the viewer.
func (v *Viewer) export(path string, f export.Format) Msg {
	if v.state == nil {
		return nil
	}
	gen := v.gen
	if f == export.JSON {
		d, _ := v.Document()
		return v.run(func(ctx context.Context) Msg {
			err := createFile(path, func(w io.Writer) error {
				return export.WriteJSON(w, d)
			})
			return ExportDone{Path: path, Err: err, Gen: gen}
		})
	}

	src := v.snapshot()
	return v.run(func(ctx context.Context) Msg {
		err := createFile(path, func(w io.Writer) error {
			return export.Write(w, f, src)
		})
		return ExportDone{Path: path, Err: err, Gen: gen}
	})
}

func (v *Viewer) exported(m ExportDone) Msg {
	if m.Gen != v.gen {
		v.log.Debug("stale export", zap.String("file", m.Path), zap.Uint64("generation", m.Gen))
		return nil
	}
	if m.Err != nil {
		v.log.Error("export failed", zap.String("file", m.Path), zap.Error(m.Err))
		return Notice{Text: "unable to write " + m.Path, Err: m.Err}
	}
	v.log.Info("file written", zap.String("file", m.Path))
	return nil
}

func createFile(name string, fn func(io.Writer) error) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	if err := fn(f); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	return nil
}

func samePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	aa, err := filepath.Abs(a)
	if err != nil {
		return a == b
	}
	bb, err := filepath.Abs(b)
	if err != nil {
		return a == b
	}
	return aa == bb
}

// Size returns the size of the window.
func (v *Viewer) Size() (w, h float64) {
	return v.layout.Size()
}

// Layers returns the layers of the current view
// in z-order.
// Only invalid layers are rebuilt.
func (v *Viewer) Layers() iter.Seq[*render.Geometry] {
	return v.LayersContext(context.Background())
}

// LayersContext is like Layers
// using a context to build the edge layer.
func (v *Viewer) LayersContext(ctx context.Context) iter.Seq[*render.Geometry] {
	return func(yield func(*render.Geometry) bool) {
		if v.state == nil {
			yield(render.Background(&v.scene))
			return
		}

		v.scene.Budget = v.layout.Budget()
		rebuild := !v.graph.Valid(cache.Edges)
		start := time.Now()
		onErr := func(l cache.Layer, err error) {
			v.log.Error("unable to build layer", zap.Stringer("layer", l), zap.Error(err))
		}
		for g := range render.Compose(ctx, &v.scene, v.graph, onErr) {
			if rebuild && g.Layer == cache.Edges {
				v.layout.RecordFrame(len(g.Lines), time.Since(start))
				if g.Overrun {
					v.log.Debug("draw budget exceeded",
						zap.Int("max_tips", v.scene.Budget.MaxTips),
						zap.Int("max_nodes", v.scene.Budget.MaxNodes),
					)
				}
			}
			if !yield(g) {
				return
			}
		}
	}
}

// Document returns the visible edges
// of the current view.
// It returns false if there is no tree.
func (v *Viewer) Document() (export.Document, bool) {
	if v.state == nil {
		return export.Document{}, false
	}
	w, h := v.layout.Size()
	fr := v.scene.Frame()
	set := v.scene.Visible(v.layout.Budget())
	d := export.NewDocument(v.state.Tree().Title(), v.scene.Kind.String(), w, h, render.VisibleEdges(fr, set, v.scene.Tolerance))
	return d, true
}

// snapshot is a copy of the current layers.
type snapshot struct {
	w, h   float64
	layers []*render.Geometry
}

func (v *Viewer) snapshot() *snapshot {
	w, h := v.Size()
	return &snapshot{
		w:      w,
		h:      h,
		layers: slices.Collect(v.Layers()),
	}
}

func (s *snapshot) Size() (w, h float64) {
	return s.w, s.h
}

func (s *snapshot) Layers() iter.Seq[*render.Geometry] {
	return slices.Values(s.layers)
}

// Path returns the path of the open file.
func (v *Viewer) Path() string {
	return v.path
}

// Tree returns the current tree.
// It is nil if no tree is loaded.
func (v *Viewer) Tree() *tree.Tree {
	if v.state == nil {
		return nil
	}
	return v.state.Tree()
}

// View returns the current tree view.
func (v *Viewer) View() *state.View {
	return v.scene.View
}

// Generation returns the tree generation.
// It changes each time the tree is replaced.
func (v *Viewer) Generation() uint64 {
	return v.gen
}

// SubtreeView returns true if the viewer
// shows a subtree.
func (v *Viewer) SubtreeView() bool {
	return v.full != nil
}

// SearchBar returns true if the search bar is visible.
func (v *Viewer) SearchBar() bool {
	return v.searchBar
}

// Menu returns the open context menu.
func (v *Viewer) Menu() (interact.Menu, bool) {
	if v.menu == nil {
		return interact.Menu{}, false
	}
	return *v.menu, true
}

// Layout returns the layout controller.
func (v *Viewer) Layout() *layout.Controller {
	return v.layout
}

// Scene returns the scene of the viewer.
func (v *Viewer) Scene() *render.Scene {
	return &v.scene
}

// Cache returns the geometry cache.
func (v *Viewer) Cache() *cache.Graph[*render.Geometry] {
	return v.graph
}
