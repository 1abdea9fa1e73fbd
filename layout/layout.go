// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package layout implements the layout controller:
// it keeps the size of the nodes,
// the space reserved for the terminal labels,
// and the size of the canvas,
// and drives the invalidation of the geometry caches
// when any of them changes.
package layout

import (
	"math"
	"slices"
	"time"

	"github.com/js-arias/phyview/cache"
	"github.com/js-arias/phyview/state"
	"github.com/js-arias/phyview/viewport"
	"gonum.org/v1/gonum/stat"
)

// Config is the configuration of a controller.
type Config struct {
	// Padding is the space around the tree,
	// in pixels.
	Padding float64

	// Stroke is the width of the edges.
	Stroke float64

	// NodeSizeSteps is the number of positions
	// of the node size slider.
	NodeSizeSteps int

	// Sizes of the labels, in points.
	TipLabelSizes []float64
	IntLabelSizes []float64

	// CharAspect is the width of a label column
	// relative to the label size.
	CharAspect float64

	// LabelOffset is the space between a terminal
	// and its label.
	LabelOffset float64

	// MaxLabelsToDraw is the maximum number of terminal labels
	// that can be drawn in a window.
	MaxLabelsToDraw int

	// MaxNodeSize is the maximum size of a node,
	// in pixels.
	MaxNodeSize float64

	// FrameTarget is the target time to draw a frame.
	FrameTarget time.Duration

	// Hard limits of the draw budget.
	MaxTips  int
	MaxNodes int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Padding:         10,
		Stroke:          1,
		NodeSizeSteps:   100,
		TipLabelSizes:   []float64{8, 10, 12, 14, 18, 24},
		IntLabelSizes:   []float64{6, 8, 10, 12, 14},
		CharAspect:      0.6,
		LabelOffset:     5,
		MaxLabelsToDraw: 400,
		MaxNodeSize:     48,
		FrameTarget:     16 * time.Millisecond,
		MaxTips:         20_000,
		MaxNodes:        40_000,
	}
}

// Invalidator is a cache that can be invalidated by an event.
type Invalidator interface {
	Invalidate(ev cache.Event) []cache.Layer
}

const maxSamples = 64

// A Controller keeps the layout of a tree view.
type Controller struct {
	cfg   Config
	cache Invalidator
	view  *state.View

	w, h   float64
	scroll float64
	slider int

	tipLabels  bool
	intLabels  bool
	tipSizeIdx int
	intSizeIdx int

	samples []float64

	// derived values
	available   float64
	minNodeSize float64
	maxNodeSize float64
	nodeSize    float64
	drawTips    bool
	reserve     float64
	canvasH     float64
}

// New creates a new controller for a view
// and a window size.
// The invalidator can be nil.
func New(cfg Config, c Invalidator, v *state.View, w, h float64) *Controller {
	if cfg.NodeSizeSteps < 1 {
		cfg.NodeSizeSteps = 1
	}
	if len(cfg.TipLabelSizes) == 0 {
		cfg.TipLabelSizes = DefaultConfig().TipLabelSizes
	}
	if len(cfg.IntLabelSizes) == 0 {
		cfg.IntLabelSizes = DefaultConfig().IntLabelSizes
	}
	l := &Controller{
		cfg:        cfg,
		cache:      c,
		view:       v,
		w:          w,
		h:          h,
		tipLabels:  true,
		tipSizeIdx: len(cfg.TipLabelSizes) / 2,
		intSizeIdx: len(cfg.IntLabelSizes) / 2,
	}
	l.update()
	return l
}

func (l *Controller) update() {
	tips := 0
	if l.view != nil {
		tips = l.view.NumTips()
	}

	l.available = max(0, l.h-2*l.cfg.Padding-2*l.cfg.Stroke)
	l.minNodeSize = l.available
	if tips > 1 {
		l.minNodeSize = l.available / float64(tips)
	}
	l.maxNodeSize = max(l.cfg.MaxNodeSize, l.minNodeSize)

	var s float64
	if l.cfg.NodeSizeSteps > 1 {
		s = float64(l.slider) / float64(l.cfg.NodeSizeSteps-1)
	}
	l.nodeSize = l.minNodeSize + (l.maxNodeSize-l.minNodeSize)*s

	l.drawTips = false
	if l.tipLabels && l.nodeSize > 0 {
		l.drawTips = l.available/l.nodeSize <= float64(l.cfg.MaxLabelsToDraw)
	}

	l.reserve = 0
	if l.drawTips && l.view != nil {
		cols := float64(state.LabelWidth(l.view.Tallest))
		l.reserve = cols*l.cfg.CharAspect*l.TipLabelSize() + l.cfg.LabelOffset
	}
	l.canvasH = l.nodeSize * float64(tips)
	l.scroll = l.clampScroll(l.scroll)
}

func (l *Controller) clampScroll(y float64) float64 {
	return max(0, min(y, l.canvasH-l.available))
}

func (l *Controller) invalidate(ev cache.Event) cache.Event {
	l.update()
	if l.cache != nil {
		l.cache.Invalidate(ev)
	}
	return ev
}

// Resize sets the size of the window.
func (l *Controller) Resize(w, h float64) cache.Event {
	l.w, l.h = w, h
	return l.invalidate(cache.Resize)
}

// SetView changes the ordering of the tree.
func (l *Controller) SetView(v *state.View) cache.Event {
	l.view = v
	return l.invalidate(cache.OrderingChange)
}

// ReplaceTree sets the view of a new tree.
func (l *Controller) ReplaceTree(v *state.View) cache.Event {
	l.view = v
	l.scroll = 0
	return l.invalidate(cache.TreeReplace)
}

// SetNodeSize sets the position of the node size slider.
func (l *Controller) SetNodeSize(i int) cache.Event {
	l.slider = max(0, min(i, l.cfg.NodeSizeSteps-1))
	return l.invalidate(cache.NodeSizeChange)
}

// ShowTipLabels sets the visibility of terminal labels.
func (l *Controller) ShowTipLabels(show bool) cache.Event {
	l.tipLabels = show
	return l.invalidate(cache.TipLabelToggle)
}

// ShowIntLabels sets the visibility of internal labels.
func (l *Controller) ShowIntLabels(show bool) cache.Event {
	l.intLabels = show
	return l.invalidate(cache.IntLabelToggle)
}

// SetTipLabelSize sets the size of terminal labels.
// As the label reserve changes,
// it invalidates as a label toggle.
func (l *Controller) SetTipLabelSize(i int) cache.Event {
	l.tipSizeIdx = max(0, min(i, len(l.cfg.TipLabelSizes)-1))
	return l.invalidate(cache.TipLabelToggle)
}

// SetIntLabelSize sets the size of internal labels.
func (l *Controller) SetIntLabelSize(i int) cache.Event {
	l.intSizeIdx = max(0, min(i, len(l.cfg.IntLabelSizes)-1))
	return l.invalidate(cache.IntLabelToggle)
}

// Scroll sets the vertical scroll offset
// of the canvas.
func (l *Controller) Scroll(y float64) cache.Event {
	l.scroll = l.clampScroll(y)
	if l.cache != nil {
		l.cache.Invalidate(cache.Scroll)
	}
	return cache.Scroll
}

// Size returns the size of the window.
func (l *Controller) Size() (w, h float64) {
	return l.w, l.h
}

// View returns the current tree view.
func (l *Controller) View() *state.View {
	return l.view
}

// Available returns the vertical space available for the tree.
func (l *Controller) Available() float64 {
	return l.available
}

// NodeSize returns the number of pixels
// used by each terminal.
func (l *Controller) NodeSize() float64 {
	return l.nodeSize
}

// NodeSizeRange returns the minimum and maximum node size.
func (l *Controller) NodeSizeRange() (lo, hi float64) {
	return l.minNodeSize, l.maxNodeSize
}

// Slider returns the position of the node size slider.
func (l *Controller) Slider() int {
	return l.slider
}

// DrawTipLabels returns true if terminal labels
// should be drawn.
func (l *Controller) DrawTipLabels() bool {
	return l.drawTips
}

// DrawIntLabels returns true if internal labels
// should be drawn.
func (l *Controller) DrawIntLabels() bool {
	return l.intLabels
}

// TipLabelSize returns the current terminal label size.
func (l *Controller) TipLabelSize() float64 {
	return l.cfg.TipLabelSizes[l.tipSizeIdx]
}

// IntLabelSize returns the current internal label size.
func (l *Controller) IntLabelSize() float64 {
	return l.cfg.IntLabelSizes[l.intSizeIdx]
}

// LabelOffset returns the space between a node
// and its label.
func (l *Controller) LabelOffset() float64 {
	return l.cfg.LabelOffset
}

// Stroke returns the width of the edges.
func (l *Controller) Stroke() float64 {
	return l.cfg.Stroke
}

// Padding returns the space around the tree.
func (l *Controller) Padding() float64 {
	return l.cfg.Padding
}

// Reserve returns the width reserved
// for the terminal labels.
func (l *Controller) Reserve() float64 {
	return l.reserve
}

// CanvasHeight returns the height of the phylogram canvas.
func (l *Controller) CanvasHeight() float64 {
	return l.canvasH
}

// TreeWidth returns the horizontal space
// used by the edges of a phylogram.
func (l *Controller) TreeWidth() float64 {
	return max(0, l.w-2*l.cfg.Padding-l.reserve)
}

// FanRadius returns the radius of a fan
// that fits in the window.
func (l *Controller) FanRadius() float64 {
	return max(0, min(l.w, l.h)/2-l.cfg.Padding-l.reserve)
}

// ScrollOffset returns the vertical scroll offset.
func (l *Controller) ScrollOffset() float64 {
	return l.scroll
}

// Query returns the visible window of a phylogram.
func (l *Controller) Query() viewport.Query {
	return viewport.Query{
		Y0:       l.scroll,
		Y1:       l.scroll + l.available,
		NodeSize: l.nodeSize,
	}
}

// RecordFrame records the time used to draw
// a number of edges.
func (l *Controller) RecordFrame(edges int, d time.Duration) {
	if edges <= 0 {
		return
	}
	l.samples = append(l.samples, float64(d)/float64(edges))
	if len(l.samples) > maxSamples {
		l.samples = l.samples[len(l.samples)-maxSamples:]
	}
}

// EdgeCost returns the mean time used to draw an edge.
func (l *Controller) EdgeCost() time.Duration {
	if len(l.samples) == 0 {
		return 0
	}
	return time.Duration(stat.Mean(l.samples, nil))
}

// Budget returns the maximum number of terminals
// and nodes that can be drawn in a frame.
//
// The number of nodes is the number of edges
// that can be drawn in the target frame time,
// using the 90th percentile of the recorded edge costs.
// It is bounded by the hard limits of the configuration.
func (l *Controller) Budget() viewport.Budget {
	b := viewport.Budget{
		MaxTips:  l.cfg.MaxTips,
		MaxNodes: l.cfg.MaxNodes,
	}
	if len(l.samples) == 0 || l.cfg.FrameTarget <= 0 {
		return b
	}

	sorted := slices.Clone(l.samples)
	slices.Sort(sorted)
	cost := stat.Quantile(0.9, stat.Empirical, sorted, nil)
	if cost <= 0 {
		return b
	}
	n := int(math.Floor(float64(l.cfg.FrameTarget) / cost))
	n = max(n, 1)
	if b.MaxNodes <= 0 || n < b.MaxNodes {
		b.MaxNodes = n
	}
	if b.MaxTips <= 0 || b.MaxTips > b.MaxNodes {
		b.MaxTips = b.MaxNodes
	}
	return b
}
