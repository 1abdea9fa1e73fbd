// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package export

import (
	"fmt"
	"io"

	"git.sr.ht/~sbinet/gg"
	"github.com/js-arias/phyview/render"
	"golang.org/x/image/font/basicfont"
)

// WritePNG writes a source as a PNG image.
func WritePNG(w io.Writer, src render.Source) error {
	width, height := size(src)
	dc := gg.NewContext(width, height)
	dc.SetFontFace(basicfont.Face7x13)

	for g := range src.Layers() {
		drawGeometry(dc, g)
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("while writing PNG data: %v", err)
	}
	return nil
}

func drawGeometry(dc *gg.Context, g *render.Geometry) {
	for _, p := range g.Polygons {
		if len(p.Points) == 0 {
			continue
		}
		dc.NewSubPath()
		dc.MoveTo(p.Points[0].X, p.Points[0].Y)
		for _, pt := range p.Points[1:] {
			dc.LineTo(pt.X, pt.Y)
		}
		dc.ClosePath()
		dc.SetColor(p.Fill)
		dc.Fill()
	}

	dc.SetLineCapRound()
	for _, l := range g.Lines {
		if len(l.Points) < 2 {
			continue
		}
		dc.NewSubPath()
		dc.MoveTo(l.Points[0].X, l.Points[0].Y)
		for _, pt := range l.Points[1:] {
			dc.LineTo(pt.X, pt.Y)
		}
		dc.SetColor(l.Color)
		dc.SetLineWidth(l.Width)
		dc.Stroke()
	}

	for _, m := range g.Marks {
		dc.DrawCircle(m.Pos.X, m.Pos.Y, m.Radius)
		dc.SetColor(m.Color)
		if m.Ring {
			dc.SetLineWidth(1)
			dc.Stroke()
			continue
		}
		dc.Fill()
	}

	// basic font has a fixed size
	for _, t := range g.Labels {
		dc.SetColor(t.Color)
		if t.Angle == 0 {
			dc.DrawStringAnchored(t.Text, t.Pos.X, t.Pos.Y, anchor(t.Anchor), 0.5)
			continue
		}
		dc.Push()
		dc.RotateAbout(t.Angle, t.Pos.X, t.Pos.Y)
		dc.DrawStringAnchored(t.Text, t.Pos.X, t.Pos.Y, anchor(t.Anchor), 0.5)
		dc.Pop()
	}
}
