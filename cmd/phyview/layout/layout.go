// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package layout implements a command to print
// the coordinates of the visible edges of a tree view.
package layout

import (
	"fmt"

	"github.com/js-arias/command"
	"github.com/js-arias/phyview/cmd/phyview/internal/view"
	"github.com/js-arias/phyview/export"
	"go.uber.org/zap"
)

var Command = &command.Command{
	Usage: "layout [--stats] [<view-flags>...] [<tree-file>...]",
	Short: "print the coordinates of a tree view",
	Long: `
Command layout reads a tree, builds a view of the tree, and prints the edges
visible in the window as a JSON document. Each edge has the node and parent
IDs, the normalized coordinates of the edge, and its coordinates in the
window, in pixels. In a fan view, the connector of each internal node is an
arc approximated by a polyline.

The arguments of the command are the tree files. Trees can be read from a
project using the flag --project, or -p. By default the first tree is used.
The view is defined with the flags described in 'phyview help view-flags'.

If the flag --stats is given, the layout parameters of the view (node size,
label sizes, and scroll range) are printed instead of the document.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var opts view.Options
var stats bool

func setFlags(c *command.Command) {
	opts.SetFlags(c.Flags())
	c.Flags().BoolVar(&stats, "stats", false, "")
}

func run(c *command.Command, args []string) (err error) {
	cfg, err := opts.LoadConfig()
	if err != nil {
		return err
	}
	log, err := view.Logger(cfg)
	if err != nil {
		return err
	}
	defer func() {
		e := log.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	v, err := opts.NewViewer(cfg, log.Logger, args)
	if err != nil {
		return err
	}

	if stats {
		l := v.Layout()
		w, h := l.Size()
		lo, hi := l.NodeSizeRange()
		fmt.Fprintf(c.Stdout(), "tree: %s\n", v.Tree().Title())
		fmt.Fprintf(c.Stdout(), "window: %.0fx%.0f\n", w, h)
		fmt.Fprintf(c.Stdout(), "node size: %.4f [%.4f, %.4f] slider %d\n", l.NodeSize(), lo, hi, l.Slider())
		fmt.Fprintf(c.Stdout(), "available height: %.2f\n", l.Available())
		fmt.Fprintf(c.Stdout(), "tip labels: %v (%.1f)\n", l.DrawTipLabels(), l.TipLabelSize())
		fmt.Fprintf(c.Stdout(), "internal labels: %v (%.1f)\n", l.DrawIntLabels(), l.IntLabelSize())
		return nil
	}

	d, ok := v.Document()
	if !ok {
		return fmt.Errorf("no tree to layout")
	}
	log.Debug("layout", zap.String("tree", d.Tree), zap.Int("edges", len(d.Edges)))
	return export.WriteJSON(c.Stdout(), d)
}
