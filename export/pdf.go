// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package export

import (
	"fmt"
	"io"
	"math"

	"github.com/js-arias/phyview/render"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/font/liberation"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/vgpdf"
)

var fonts = font.NewCache(liberation.Collection())

var labelFont = font.Font{Typeface: "Liberation", Variant: "Sans"}

// WritePDF writes a source as a PDF document.
// Canvas pixels are written as PDF points.
func WritePDF(w io.Writer, src render.Source) error {
	width, height := src.Size()
	c := vgpdf.New(vg.Points(width), vg.Points(height))

	// PDF coordinates grow upwards
	flip := func(p r2.Vec) vg.Point {
		return vg.Point{X: vg.Points(p.X), Y: vg.Points(height - p.Y)}
	}

	for g := range src.Layers() {
		for _, p := range g.Polygons {
			if len(p.Points) == 0 {
				continue
			}
			c.SetColor(p.Fill)
			c.Fill(pdfPath(p.Points, flip, true))
		}
		for _, l := range g.Lines {
			if len(l.Points) < 2 {
				continue
			}
			c.SetColor(l.Color)
			c.SetLineWidth(vg.Points(l.Width))
			c.Stroke(pdfPath(l.Points, flip, false))
		}
		for _, m := range g.Marks {
			var p vg.Path
			ct := flip(m.Pos)
			r := vg.Points(m.Radius)
			p.Move(vg.Point{X: ct.X + r, Y: ct.Y})
			p.Arc(ct, r, 0, 2*math.Pi)
			p.Close()
			c.SetColor(m.Color)
			if m.Ring {
				c.SetLineWidth(vg.Points(1))
				c.Stroke(p)
				continue
			}
			c.Fill(p)
		}
		for _, t := range g.Labels {
			face := fonts.Lookup(labelFont, vg.Points(t.Size))
			dx := -face.Width(t.Text) * vg.Length(anchor(t.Anchor))
			dy := -face.Extents().Ascent / 3

			c.Push()
			c.SetColor(t.Color)
			c.Translate(flip(t.Pos))
			c.Rotate(-t.Angle)
			c.FillString(face, vg.Point{X: dx, Y: dy}, t.Text)
			c.Pop()
		}
	}

	if _, err := c.WriteTo(w); err != nil {
		return fmt.Errorf("while writing PDF data: %v", err)
	}
	return nil
}

func pdfPath(pts []r2.Vec, flip func(r2.Vec) vg.Point, closed bool) vg.Path {
	var p vg.Path
	p.Move(flip(pts[0]))
	for _, pt := range pts[1:] {
		p.Line(flip(pt))
	}
	if closed {
		p.Close()
	}
	return p
}
