// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package export implements a command to draw
// a tree view into an image file.
package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/phyview/cmd/phyview/internal/view"
	"github.com/js-arias/phyview/project"
	"github.com/js-arias/phyview/viewer"
	"go.uber.org/zap"
)

var Command = &command.Command{
	Usage: `export [-o|--output <file>] [--subtree <node>]
	[<view-flags>...] [<tree-file>...]`,
	Short: "draw a tree view into a file",
	Long: `
Command export reads a tree, builds a view of the tree, and writes the view
into a file.

The arguments of the command are the tree files. Trees can be read from a
project using the flag --project, or -p. By default the first tree is used.
The view is defined with the flags described in 'phyview help view-flags'.

The flag -o, or --output, defines the output file. The format of the file is
defined by its extension:

	.svg   scalable vector graphics
	.png   raster image
	.pdf   portable document format
	.json  coordinates of the visible edges
	.tre   the tree in Newick format

If no output is given, and the tree is read from a project, the "export"
dataset of the project is used.

If the flag --subtree is given, the view is restricted to the clade of the
indicated node.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var opts view.Options
var output string
var subtree string

func setFlags(c *command.Command) {
	opts.SetFlags(c.Flags())
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
	c.Flags().StringVar(&subtree, "subtree", "", "")
}

func run(c *command.Command, args []string) (err error) {
	out, err := outputFile()
	if err != nil {
		return err
	}
	if out == "" {
		return c.UsageError("expecting output file, flag --output")
	}

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
	if subtree != "" {
		id, ok := v.Tree().ByName(subtree)
		if !ok {
			return c.UsageError(fmt.Sprintf("flag --subtree: node %q not found", subtree))
		}
		if err := v.Run(viewer.SetSubtreeView{Node: id}); err != nil {
			return err
		}
	}

	log.Debug("exporting view", zap.String("file", out))
	return Write(v, out)
}

// Write writes the current view of a viewer
// into a file.
// Files with a Newick extension
// receive the tree of the view.
func Write(v *viewer.Viewer, name string) error {
	return v.Run(Message(name))
}

// Message returns the message
// that writes the view into a file.
func Message(name string) viewer.Msg {
	if isNewick(name) {
		return viewer.SaveAs{Path: name}
	}
	return viewer.Export{Path: name}
}

func isNewick(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".tre", ".tree", ".nwk", ".newick":
		return true
	}
	return false
}

func outputFile() (string, error) {
	if output != "" {
		return output, nil
	}
	if opts.Project == "" {
		return "", nil
	}
	p, err := project.Read(opts.Project)
	if err != nil {
		return "", err
	}
	name := p.File(project.Export)
	if name == "" {
		return "", errors.New("expecting output file, flag --output")
	}
	return name, nil
}
