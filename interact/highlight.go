// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package interact

import (
	"fmt"
	"image/color"
	"iter"
	"slices"

	"github.com/js-arias/blind"
	"github.com/lucasb-eyer/go-colorful"
)

// PaletteSize is the number of colors
// of the default palette.
const PaletteSize = 6

// DefaultPalette returns a palette of n colors
// taken from the iridescent color scheme of Paul Tol.
func DefaultPalette(n int) []color.RGBA {
	if n <= 0 {
		n = PaletteSize
	}
	p := make([]color.RGBA, 0, n)
	for i := range n {
		v := 0.5
		if n > 1 {
			v = float64(i) / float64(n-1)
		}
		c := color.RGBAModel.Convert(blind.Sequential(blind.Iridescent, v)).(color.RGBA)
		p = append(p, c)
	}
	return p
}

// ParseColor parses a color in hex notation
// (for example "#a1b2c3").
func ParseColor(s string) (color.RGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %v", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// Hex returns a color in hex notation.
func Hex(c color.RGBA) string {
	cf, _ := colorful.MakeColor(color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
	return cf.Hex()
}

// Fill returns a color blended with a background,
// so it can be used as a flat fill
// below other layers.
// Opacity is in [0, 1].
func Fill(c, bg color.RGBA, opacity float64) color.RGBA {
	if opacity <= 0 {
		return bg
	}
	if opacity >= 1 {
		return c
	}
	fc, _ := colorful.MakeColor(color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
	fb, _ := colorful.MakeColor(color.RGBA{R: bg.R, G: bg.G, B: bg.B, A: 255})
	r, g, b := fb.BlendLab(fc, opacity).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Highlights are the colors assigned to highlighted clades.
type Highlights struct {
	colors  map[int]color.RGBA
	palette []color.RGBA
	next    int
}

// NewHighlights returns an empty set of highlights.
// If the palette is empty,
// the default palette is used.
func NewHighlights(palette []color.RGBA) *Highlights {
	if len(palette) == 0 {
		palette = DefaultPalette(PaletteSize)
	}
	return &Highlights{
		colors:  make(map[int]color.RGBA),
		palette: palette,
	}
}

// Palette returns the colors available for highlights.
func (h *Highlights) Palette() []color.RGBA {
	return h.palette
}

// Toggle adds or removes the highlight of a node,
// and returns true if the node is now highlighted.
// If the color is transparent,
// the next color of the palette is used.
func (h *Highlights) Toggle(id int, c color.RGBA) bool {
	if _, ok := h.colors[id]; ok {
		delete(h.colors, id)
		return false
	}
	if c.A == 0 {
		c = h.palette[h.next%len(h.palette)]
		h.next++
	}
	h.colors[id] = c
	return true
}

// Has returns true if a node is highlighted.
func (h *Highlights) Has(id int) bool {
	_, ok := h.colors[id]
	return ok
}

// Color returns the color of a highlighted node.
func (h *Highlights) Color(id int) (color.RGBA, bool) {
	c, ok := h.colors[id]
	return c, ok
}

// Len returns the number of highlighted nodes.
func (h *Highlights) Len() int {
	return len(h.colors)
}

// All returns an iterator over the highlighted nodes
// in increasing ID order.
func (h *Highlights) All() iter.Seq2[int, color.RGBA] {
	return func(yield func(int, color.RGBA) bool) {
		ids := make([]int, 0, len(h.colors))
		for id := range h.colors {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for _, id := range ids {
			if !yield(id, h.colors[id]) {
				return
			}
		}
	}
}

// Clear removes all highlights.
func (h *Highlights) Clear() {
	clear(h.colors)
	h.next = 0
}

// Keep removes the highlights of the nodes
// not accepted by a function.
func (h *Highlights) Keep(fn func(id int) bool) {
	for id := range h.colors {
		if !fn(id) {
			delete(h.colors, id)
		}
	}
}
