// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package info implements a command to print
// the basic information of trees.
package info

import (
	"fmt"
	"io"
	"time"

	"github.com/js-arias/command"
	"github.com/js-arias/phyview/cmd/phyview/internal/view"
	"github.com/js-arias/phyview/state"
	"github.com/js-arias/phyview/tree"
	"github.com/mattn/go-runewidth"
)

var Command = &command.Command{
	Usage: `info [-p|--project <project-file>] [--tree <name>]
	[--chunks] [<tree-file>...]`,
	Short: "print information about trees",
	Long: `
Command info reads one or more trees and prints the number of terminals and
internal nodes, the tree height, and whether the tree is rooted.

The arguments of the command are the tree files. Trees can be read from a
project using the flag --project, or -p.

If the flag --chunks is given, the edge lists of the tree are built, and the
time used to build them is printed, as well as the terminals used to reserve
the space of the terminal labels.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var projectFile string
var treeName string
var chunks bool

func setFlags(c *command.Command) {
	c.Flags().StringVar(&projectFile, "project", "", "")
	c.Flags().StringVar(&projectFile, "p", "", "")
	c.Flags().StringVar(&treeName, "tree", "", "")
	c.Flags().BoolVar(&chunks, "chunks", false, "")
}

func run(c *command.Command, args []string) error {
	opts := view.Options{Project: projectFile, Tree: treeName}
	ts, err := opts.Trees(args)
	if err != nil {
		return c.UsageError(err.Error())
	}

	for _, t := range ts {
		printTree(c.Stdout(), t)
		if chunks {
			printViews(c.Stdout(), t)
		}
		fmt.Fprintf(c.Stdout(), "\n")
	}
	return nil
}

func printTree(w io.Writer, t *tree.Tree) {
	fmt.Fprintf(w, "Tree %s:\n", t.Title())
	fmt.Fprintf(w, "\tterminals: %d\n", t.NumTips())
	fmt.Fprintf(w, "\tinternal nodes: %d\n", t.NumInternal())
	if h := t.Height(); h > 0 {
		fmt.Fprintf(w, "\theight: %.6f\n", h)
	} else {
		fmt.Fprintf(w, "\theight: undefined (no branch lengths)\n")
	}
	fmt.Fprintf(w, "\trooted: %v\n", t.IsRooted())
}

func printViews(w io.Writer, t *tree.Tree) {
	st := state.New(t, state.Options{})
	for _, o := range []state.Ordering{state.Original, state.Ascending, state.Descending} {
		start := time.Now()
		v := st.Switch(o)
		d := time.Since(start)
		fmt.Fprintf(w, "\t%s: %d edges, %d chunks [%v]\n", o, len(v.Edges), len(v.Chunks), d)
	}

	v := st.Switch(state.Original)
	fmt.Fprintf(w, "\ttallest terminals (label width %d):\n", state.LabelWidth(v.Tallest))
	for _, e := range v.Tallest {
		name := runewidth.Truncate(e.Name, 40, "...")
		fmt.Fprintf(w, "\t\t%s\t%.6f\n", name, e.X1)
	}
}
