// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package main

import "github.com/js-arias/command"

func init() {
	app.Add(configGuide)
	app.Add(projectsGuide)
	app.Add(treeFilesGuide)
	app.Add(viewFlagsGuide)
}

var projectsGuide = &command.Command{
	Usage: "projects",
	Short: "about project files",
	Long: `
A project file is used to keep the references to the files used to view a
tree. Most commands accept a project with the flag --project, or -p, instead
of a tree file.

A project file is a tab-delimited file with the following fields:

	- dataset  for the kind of file
	- path     for the path of the file

Here is an example file:

	# phyview project files
	dataset	path
	newick	vertebrates.tre
	config	phyview.yaml

Paths are relative to the directory of the project file.

The valid file types are:

- Time-calibrated trees. Defined by the dataset keyword "trees". This file
  contains one or more trees in the form of a tab-delimited file.
- Newick trees. Defined by the dataset keyword "newick". This file contains
  one or more trees in parenthetical format.
- Viewer configuration. Defined by the dataset keyword "config". A YAML file
  with the configuration of the viewer.
- Default export. Defined by the dataset keyword "export". The file written
  by 'phyview export' and 'phyview watch' when no output is given.

The recommended way to edit a project is by using the command 'phyview prj'.
	`,
}

var treeFilesGuide = &command.Command{
	Usage: "tree-files",
	Short: "about tree files",
	Long: `
PhyView reads trees in two formats.

Files with the extension ".tab" or ".tsv" are read as tab-delimited files of
time calibrated trees, with the following columns:

	-tree    for the name of the tree.
	-node    for the ID of the node.
	-parent  for of ID of the parent node (-1 is used for the root).
	-age     the age of the node (in years).
	-taxon   the taxonomic name of the node.

Here is an example file:

	# time calibrated phylogenetic tree
	tree	node	parent	age	taxon
	dinosaurs	0	-1	235000000
	dinosaurs	1	0	230000000	Eoraptor lunensis
	dinosaurs	2	0	170000000
	dinosaurs	3	2	145000000	Ceratosaurus nasicornis
	dinosaurs	4	2	71000000	Carnotaurus sastrei

Branch lengths of these trees are drawn in million years.

Any other file is read as a Newick file. A Newick file can have several
trees, each one ended by a semicolon. Branch lengths and internal node labels
are optional. The trees are named after the file name, adding a numeric
suffix when there is more than one tree.
	`,
}

var configGuide = &command.Command{
	Usage: "config",
	Short: "about the configuration file",
	Long: `
The viewer configuration is a YAML file. Any field not defined in the file
uses its default value. Here is a file with the default values:

	layout:
	  padding: 10
	  stroke: 1
	  node_size_steps: 100
	  tip_label_sizes: [8, 10, 12, 14, 18, 24]
	  int_label_sizes: [6, 8, 10, 12, 14]
	  char_aspect: 0.6
	  label_offset: 5
	  max_labels_to_draw: 400
	  max_node_size: 48
	budget:
	  frame_target: 16ms
	  max_tips: 20000
	  max_nodes: 40000
	fan:
	  opening: 360
	  rotation: 0
	  root_len: 0.05
	search:
	  min_len: 3
	  min_tip_len: 2
	palette: []
	chunks: 16
	tallest_tips: 10
	arc_tolerance: 0.1
	log:
	  file: ""
	  level: info
	debug: false

The fan opening and rotation are in degrees. The palette is a list of colors
in hexadecimal notation (for example "#e41a1c") used for clade highlights;
if empty, a colorblind safe palette is used.

If a log file is defined, the log is written as JSON lines, and the file is
rotated when it reaches the size defined by max_size_mb.
	`,
}

var viewFlagsGuide = &command.Command{
	Usage: "view-flags",
	Short: "about the flags that define a view",
	Long: `
The commands export, layout, and watch build a view of a tree. The view is
defined with the following flags:

	--size <width>x<height>
		Size of the window, in pixels. Default "1024x768".
	--projection <name>
		Either "phylogram" (the default) or "fan".
	--order <name>
		Ordering of the terminals. Either "original" (the default),
		"ascending", or "descending". Sorted trees place the smaller
		(or larger) clades first.
	--node-size <number>
		Position of the node size slider. With 0 (the default), the whole
		tree fits in the window.
	--scroll <value>
		Vertical scroll of a phylogram, in pixels.
	--int-labels
		Draw the internal node labels.
	--no-tip-labels
		Do not draw the terminal labels.
	--highlight <name>[=<color>],...
		Highlight the clades of the indicated nodes.
	--select <name>,...
		Select the indicated nodes.
	--search <query>
		Mark the nodes whose name contains the query.
	--tree <name>
		Use the indicated tree. By default the first tree is used.
	--config <file>
		Use a configuration file.
	--log <file>
		Write the log into a file.
	-v, --verbose
		Write debug messages into the log.
	`,
}
