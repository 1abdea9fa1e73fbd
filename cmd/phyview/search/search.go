// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package search implements a command to search
// the node labels of a tree.
package search

import (
	"bufio"
	"fmt"

	"github.com/js-arias/command"
	"github.com/js-arias/phyview/cmd/phyview/internal/view"
	"github.com/js-arias/phyview/config"
	"github.com/js-arias/phyview/state"
)

var Command = &command.Command{
	Usage: `search [--tips] [--order <ordering>]
	[-p|--project <project-file>] [--tree <name>] [--config <file>]
	<query> [<tree-file>...]`,
	Short: "search node labels",
	Long: `
Command search reads a tree and prints the nodes whose label contains a
query, ignoring case. The output is a tab-delimited table with the node ID,
the position of the node in the edge list, and the node label.

The first argument of the command is the query. The other arguments are the
tree files. Trees can be read from a project using the flag --project, or -p.

By default, all nodes are searched and the query must have at least three
characters. If the flag --tips is given, only terminals are searched, and the
query must have at least two characters.

By default, the nodes are printed in the original order of the tree. Use the
flag --order to define a different order, either "ascending" or "descending".
	`,
	SetFlags: setFlags,
	Run:      run,
}

var tipsFlag bool
var orderFlag string
var projectFile string
var treeName string
var configFile string

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&tipsFlag, "tips", false, "")
	c.Flags().StringVar(&orderFlag, "order", "original", "")
	c.Flags().StringVar(&projectFile, "project", "", "")
	c.Flags().StringVar(&projectFile, "p", "", "")
	c.Flags().StringVar(&treeName, "tree", "", "")
	c.Flags().StringVar(&configFile, "config", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting query")
	}
	query := args[0]

	o, err := state.ParseOrdering(orderFlag)
	if err != nil {
		return c.UsageError(fmt.Sprintf("flag --order: %v", err))
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	opts := view.Options{Project: projectFile, Tree: treeName}
	ts, err := opts.Trees(args[1:])
	if err != nil {
		return c.UsageError(err.Error())
	}

	bw := bufio.NewWriter(c.Stdout())
	fmt.Fprintf(bw, "tree\tnode\tindex\tlabel\n")
	for _, t := range ts {
		v := state.New(t, cfg.StateOptions()).Switch(o)
		s := cfg.NewSearch()
		s.Set(query, tipsFlag, v.Edges)
		for _, e := range s.Hits() {
			fmt.Fprintf(bw, "%s\t%d\t%d\t%s\n", t.Title(), e.NodeID, e.EdgeIdx, e.Name)
		}
	}
	return bw.Flush()
}
