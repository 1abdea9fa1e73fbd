// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package render

import (
	"context"
	"fmt"
	"iter"

	"github.com/js-arias/phyview/cache"
	"github.com/js-arias/phyview/viewport"
)

// A Source is a set of layers ready to be drawn.
// It is the interface used by the exporters.
type Source interface {
	// Size returns the size of the canvas.
	Size() (w, h float64)

	// Layers returns the layers in z-order,
	// with the scroll already applied.
	Layers() iter.Seq[*Geometry]
}

// Build returns the geometry of a layer.
// The visible set is used by the layers
// that depend on the scroll position.
func Build(ctx context.Context, s *Scene, l cache.Layer, visible viewport.Set) (*Geometry, error) {
	switch l {
	case cache.BG:
		return Background(s), nil
	case cache.Edges:
		set, span := s.Extended(s.Budget)
		g, err := Edges(ctx, s, set)
		if err != nil {
			return nil, err
		}
		g.Span = span
		return g, nil
	case cache.LabelsTip:
		return TipLabels(s, visible), nil
	case cache.LabelsInt:
		return IntLabels(s, visible), nil
	case cache.LabelsBranch:
		return BranchLabels(s, visible), nil
	case cache.ScaleBar:
		return ScaleBar(s), nil
	case cache.Selection:
		return Selection(s, visible), nil
	case cache.Clade:
		return Highlights(s), nil
	case cache.Cursor:
		return Cursor(s, visible), nil
	}
	return nil, fmt.Errorf("unknown layer %v", l)
}

// Compose returns an iterator over the layers of a graph
// in z-order,
// building the invalid layers.
// Scrolling layers are translated by the scroll offset.
//
// If a layer cannot be built,
// the error is passed to the error function
// and the layer is skipped.
func Compose(ctx context.Context, s *Scene, g *cache.Graph[*Geometry], onErr func(cache.Layer, error)) iter.Seq[*Geometry] {
	return func(yield func(*Geometry) bool) {
		var visible viewport.Set
		var done bool
		build := func(l cache.Layer) *Geometry {
			if !done {
				visible = s.Visible(s.Budget)
				done = true
			}
			geom, err := Build(ctx, s, l, visible)
			if err != nil {
				if onErr != nil {
					onErr(l, err)
				}
				return nil
			}
			return geom
		}

		off := s.Frame().Offset()
		for l, geom := range g.Compose(build) {
			if geom == nil {
				// do not keep a failed layer
				g.Clear(l)
				continue
			}
			if !geom.Fixed {
				geom = geom.Translate(off)
			}
			if !yield(geom) {
				return
			}
		}
	}
}

// Static is a source built from a scene
// without a cache.
type Static struct {
	ctx   context.Context
	scene *Scene
	err   error
}

// NewStatic returns a source for a scene.
func NewStatic(ctx context.Context, s *Scene) *Static {
	return &Static{ctx: ctx, scene: s}
}

// Size returns the size of the window.
func (st *Static) Size() (w, h float64) {
	return st.scene.Layout.Size()
}

// Layers returns the layers of the scene.
func (st *Static) Layers() iter.Seq[*Geometry] {
	return func(yield func(*Geometry) bool) {
		visible := st.scene.Visible(st.scene.Budget)
		off := st.scene.Frame().Offset()
		for _, l := range cache.ZOrder {
			geom, err := Build(st.ctx, st.scene, l, visible)
			if err != nil {
				st.err = fmt.Errorf("layer %v: %w", l, err)
				return
			}
			if !geom.Fixed {
				geom = geom.Translate(off)
			}
			if !yield(geom) {
				return
			}
		}
	}
}

// Err returns the error found
// while building the layers.
func (st *Static) Err() error {
	return st.err
}
