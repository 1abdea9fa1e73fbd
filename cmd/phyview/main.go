// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// PhyView is a tool to view and draw large phylogenetic trees.
package main

import (
	"github.com/js-arias/command"
	"github.com/js-arias/phyview/cmd/phyview/edit"
	"github.com/js-arias/phyview/cmd/phyview/export"
	"github.com/js-arias/phyview/cmd/phyview/info"
	"github.com/js-arias/phyview/cmd/phyview/layout"
	"github.com/js-arias/phyview/cmd/phyview/prj"
	"github.com/js-arias/phyview/cmd/phyview/search"
	"github.com/js-arias/phyview/cmd/phyview/watch"
)

var app = &command.Command{
	Usage: "phyview <command> [<argument>...]",
	Short: "a tool to view and draw large phylogenetic trees",
}

func init() {
	app.Add(edit.Command)
	app.Add(export.Command)
	app.Add(info.Command)
	app.Add(layout.Command)
	app.Add(prj.Command)
	app.Add(search.Command)
	app.Add(watch.Command)
}

func main() {
	app.Main()
}
