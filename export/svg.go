// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package export

import (
	"bufio"
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
	"github.com/js-arias/phyview/projection"
	"github.com/js-arias/phyview/render"
	"gonum.org/v1/gonum/spatial/r2"
)

// WriteSVG writes a source as an SVG image.
func WriteSVG(w io.Writer, src render.Source) error {
	bw := bufio.NewWriter(w)
	width, height := size(src)

	canvas := svg.New(bw)
	canvas.Start(width, height)
	for g := range src.Layers() {
		canvas.Group(fmt.Sprintf("id=%q", g.Layer.String()))
		svgGeometry(canvas, g)
		canvas.Gend()
	}
	canvas.End()

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("while writing SVG data: %v", err)
	}
	return nil
}

func svgGeometry(canvas *svg.SVG, g *render.Geometry) {
	for _, p := range g.Polygons {
		x, y := coords(p.Points)
		canvas.Polygon(x, y, fmt.Sprintf("fill:%s;fill-opacity:%.3f;stroke:none", css(p.Fill), opacity(p.Fill)))
	}
	for _, l := range g.Lines {
		x, y := coords(l.Points)
		canvas.Polyline(x, y, fmt.Sprintf("fill:none;stroke:%s;stroke-width:%.2f;stroke-linecap:round", css(l.Color), l.Width))
	}
	for _, m := range g.Marks {
		x, y := round(m.Pos.X), round(m.Pos.Y)
		r := max(1, round(m.Radius))
		if m.Ring {
			canvas.Circle(x, y, r, fmt.Sprintf("fill:none;stroke:%s;stroke-width:1", css(m.Color)))
			continue
		}
		canvas.Circle(x, y, r, fmt.Sprintf("fill:%s;stroke:none", css(m.Color)))
	}
	for _, t := range g.Labels {
		x, y := round(t.Pos.X), round(t.Pos.Y)
		style := fmt.Sprintf("fill:%s;font-size:%.1fpx;font-family:sans-serif;text-anchor:%s;dominant-baseline:middle", css(t.Color), t.Size, svgAnchor(t.Anchor))
		if t.Angle == 0 {
			canvas.Text(x, y, t.Text, style)
			continue
		}
		deg := t.Angle * 180 / math.Pi
		canvas.Gtransform(fmt.Sprintf("rotate(%.3f,%d,%d)", deg, x, y))
		canvas.Text(x, y, t.Text, style)
		canvas.Gend()
	}
}

func svgAnchor(a projection.Anchor) string {
	switch a {
	case projection.Middle:
		return "middle"
	case projection.End:
		return "end"
	}
	return "start"
}

func coords(pts []r2.Vec) (x, y []int) {
	x = make([]int, len(pts))
	y = make([]int, len(pts))
	for i, p := range pts {
		x[i] = round(p.X)
		y[i] = round(p.Y)
	}
	return x, y
}

func round(v float64) int {
	return int(math.Round(v))
}
