// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package projection

import (
	"math"

	"github.com/js-arias/phyview/edge"
	"gonum.org/v1/gonum/spatial/r2"
)

// Envelope returns a polygon in the unit space
// that encloses a clade.
//
// The clade is defined by the edge of its node,
// and the top and bottom boundaries
// as returned by the BoundingEdges method of a tree state view.
// The polygon is a staircase that follows the height
// of the boundary terminals,
// extended by pad in the x direction,
// and by half of ySep in the y direction.
func Envelope(clade edge.Edge, top, bottom []edge.Edge, pad, ySep float64) []r2.Vec {
	if len(top) == 0 || len(bottom) == 0 {
		return nil
	}
	dy := ySep / 2
	left := clade.XMid

	yMin := top[0].Y - dy
	yMax := bottom[0].Y + dy

	poly := []r2.Vec{
		{X: left, Y: yMin},
		{X: top[0].X1 + pad, Y: yMin},
	}
	for i := 1; i < len(top); i++ {
		y := top[i].Y - dy
		poly = append(poly,
			r2.Vec{X: top[i-1].X1 + pad, Y: y},
			r2.Vec{X: top[i].X1 + pad, Y: y},
		)
	}
	for i := len(bottom) - 1; i > 0; i-- {
		y := bottom[i].Y + dy
		poly = append(poly,
			r2.Vec{X: bottom[i].X1 + pad, Y: y},
			r2.Vec{X: bottom[i-1].X1 + pad, Y: y},
		)
	}
	poly = append(poly,
		r2.Vec{X: bottom[0].X1 + pad, Y: yMax},
		r2.Vec{X: left, Y: yMax},
	)
	return poly
}

// Polygon maps a polygon in the unit space
// into the screen.
// In a fan,
// segments that change the y value are arcs,
// so they are densified with the given tolerance.
func (p Projection) Polygon(unit []r2.Vec, w, h, tol float64) []r2.Vec {
	if p.Kind != Fan {
		poly := make([]r2.Vec, 0, len(unit))
		for _, u := range unit {
			poly = append(poly, p.Point(u.X, u.Y, w, h))
		}
		return poly
	}

	if tol <= 0 {
		tol = DefaultTolerance
	}
	var poly []r2.Vec
	for i, u := range unit {
		poly = append(poly, p.Point(u.X, u.Y, w, h))
		next := unit[(i+1)%len(unit)]
		if next.Y == u.Y {
			continue
		}

		r := p.Ring(max(u.X, next.X))
		sweep := math.Abs(p.Angle(next.Y) - p.Angle(u.Y))
		n := 1
		if r > tol/2 {
			step := 2 * math.Acos(1-tol/r)
			n = max(1, int(math.Ceil(sweep/step)))
		}
		for j := 1; j < n; j++ {
			f := float64(j) / float64(n)
			x := u.X + (next.X-u.X)*f
			y := u.Y + (next.Y-u.Y)*f
			poly = append(poly, p.Point(x, y, w, h))
		}
	}
	return poly
}
