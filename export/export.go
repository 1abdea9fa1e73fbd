// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package export writes the layers of a tree view
// as SVG, PNG, or PDF images.
package export

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/js-arias/phyview/projection"
	"github.com/js-arias/phyview/render"
)

// Format is an image format.
type Format int8

// Valid formats.
const (
	Unknown Format = iota
	SVG
	PNG
	PDF
	JSON
)

var formatNames = map[Format]string{
	SVG:  "svg",
	PNG:  "png",
	PDF:  "pdf",
	JSON: "json",
}

func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return "unknown"
}

// ParseFormat returns a format from its name.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimPrefix(s, "."))
	for f, n := range formatNames {
		if n == s {
			return f, nil
		}
	}
	return Unknown, fmt.Errorf("unknown format %q", s)
}

// FormatOf returns the format of a file
// from its extension.
func FormatOf(name string) (Format, error) {
	return ParseFormat(filepath.Ext(name))
}

// Write writes a source in the given image format.
func Write(w io.Writer, f Format, src render.Source) error {
	switch f {
	case SVG:
		return WriteSVG(w, src)
	case PNG:
		return WritePNG(w, src)
	case PDF:
		return WritePDF(w, src)
	}
	return fmt.Errorf("format %v: not an image format", f)
}

// ToFile writes a source into a file.
// The format is defined by the extension of the file.
func ToFile(name string, src render.Source) (err error) {
	format, err := FormatOf(name)
	if err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
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

	if err := Write(f, format, src); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	return nil
}

// anchor returns the horizontal displacement
// of a text anchor
// as a fraction of the text width.
func anchor(a projection.Anchor) float64 {
	switch a {
	case projection.Middle:
		return 0.5
	case projection.End:
		return 1
	}
	return 0
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func opacity(c color.RGBA) float64 {
	return float64(c.A) / 255
}

// size returns the integer size of a source.
func size(src render.Source) (w, h int) {
	fw, fh := src.Size()
	return max(1, int(fw+0.5)), max(1, int(fh+0.5))
}

var _ render.Source = (*render.Static)(nil)
