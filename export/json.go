// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package export

import (
	"fmt"
	"io"
	"iter"

	"github.com/goccy/go-json"
	"github.com/js-arias/phyview/render"
)

// Point is a point in canvas coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Edge is an edge in a JSON document.
type Edge struct {
	Node   int     `json:"node"`
	Parent int     `json:"parent"`
	Name   string  `json:"name,omitempty"`
	Length float64 `json:"length"`
	Tip    bool    `json:"tip,omitempty"`

	// Unit space coordinates.
	X0 float64 `json:"x0"`
	X1 float64 `json:"x1"`
	Y  float64 `json:"y"`

	// Canvas coordinates.
	P0        Point   `json:"p0"`
	P1        Point   `json:"p1"`
	Connector []Point `json:"connector,omitempty"`
}

// Document is a JSON dump of the visible edges
// of a tree view.
type Document struct {
	Tree       string  `json:"tree"`
	Projection string  `json:"projection"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Edges      []Edge  `json:"edges"`
}

// NewDocument returns a document from a sequence of edges.
func NewDocument(tree, projection string, w, h float64, edges iter.Seq[render.EdgeGeom]) Document {
	d := Document{
		Tree:       tree,
		Projection: projection,
		Width:      w,
		Height:     h,
		Edges:      []Edge{},
	}
	for e := range edges {
		je := Edge{
			Node:   e.NodeID,
			Parent: e.Parent,
			Name:   e.Name,
			Length: e.Length,
			Tip:    e.IsTip,
			X0:     e.X0,
			X1:     e.X1,
			Y:      e.Y,
			P0:     Point{e.P0.X, e.P0.Y},
			P1:     Point{e.P1.X, e.P1.Y},
		}
		for _, p := range e.Connector {
			je.Connector = append(je.Connector, Point{p.X, p.Y})
		}
		d.Edges = append(d.Edges, je)
	}
	return d
}

// WriteJSON writes a document as JSON.
func WriteJSON(w io.Writer, d Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("while writing JSON data: %v", err)
	}
	return nil
}

// ReadJSON reads a document.
func ReadJSON(r io.Reader) (Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Document{}, fmt.Errorf("while reading JSON data: %v", err)
	}
	return d, nil
}
