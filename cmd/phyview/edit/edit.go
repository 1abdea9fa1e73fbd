// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package edit implements a command to edit
// the topology of a tree.
package edit

import (
	"fmt"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/phyview/cmd/phyview/internal/view"
	"github.com/js-arias/phyview/newick"
	"github.com/js-arias/phyview/tree"
	"github.com/js-arias/phyview/viewer"
)

var Command = &command.Command{
	Usage: `edit [--subtree <node>] [--remove <node>,...]
	[--reroot <node>] [--unroot]
	[-p|--project <project-file>] [--tree <name>]
	[-o|--output <file>] [<tree-file>]`,
	Short: "edit the topology of a tree",
	Long: `
Command edit reads a tree, modifies its topology, and writes the resulting
tree in Newick format.

The argument of the command is the tree file. The tree can be read from a
project using the flag --project, or -p. If there are several trees, use the
flag --tree to select the tree to edit; by default the first tree is used.

Nodes are identified by their label. The edits are applied in the following
order:

	--subtree <node>
		Keeps only the clade of the node.
	--remove <node>,...
		Removes the nodes and their descendants. If the parent of a removed
		node is left with a single child, the parent is removed too. At
		least two terminals must be left in the tree.
	--reroot <node>
		Roots the tree at the branch of the node.
	--unroot
		Removes the root of the tree.

By default, the tree is written into the standard output. Use the flag -o, or
--output, to define an output file.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var subtreeFlag string
var removeFlag string
var rerootFlag string
var unrootFlag bool
var projectFile string
var treeName string
var output string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&subtreeFlag, "subtree", "", "")
	c.Flags().StringVar(&removeFlag, "remove", "", "")
	c.Flags().StringVar(&rerootFlag, "reroot", "", "")
	c.Flags().BoolVar(&unrootFlag, "unroot", false, "")
	c.Flags().StringVar(&projectFile, "project", "", "")
	c.Flags().StringVar(&projectFile, "p", "", "")
	c.Flags().StringVar(&treeName, "tree", "", "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
}

func run(c *command.Command, args []string) error {
	opts := view.Options{Project: projectFile, Tree: treeName}
	ts, err := opts.Trees(args)
	if err != nil {
		return c.UsageError(err.Error())
	}
	t := ts[0]

	if subtreeFlag != "" {
		t, err = apply(t, subtreeFlag, (*tree.Tree).SubTree)
		if err != nil {
			return err
		}
	}
	for _, name := range strings.Split(removeFlag, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		t, err = apply(t, name, (*tree.Tree).RemoveNode)
		if err != nil {
			return err
		}
	}
	if rerootFlag != "" {
		t, err = apply(t, rerootFlag, (*tree.Tree).Reroot)
		if err != nil {
			return err
		}
	}
	if unrootFlag {
		t, err = t.Unroot()
		if err != nil {
			return err
		}
	}

	if output == "" {
		return newick.Write(c.Stdout(), t)
	}
	return viewer.WriteTree(output, t)
}

func apply(t *tree.Tree, name string, fn func(*tree.Tree, int) (*tree.Tree, error)) (*tree.Tree, error) {
	id, ok := t.ByName(name)
	if !ok {
		return nil, fmt.Errorf("node %q not found in tree %q", name, t.Title())
	}
	return fn(t, id)
}
