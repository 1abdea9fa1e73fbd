// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package view implements the flags
// shared by the commands that build a tree view.
package view

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/js-arias/phyview/config"
	"github.com/js-arias/phyview/interact"
	"github.com/js-arias/phyview/logging"
	"github.com/js-arias/phyview/project"
	"github.com/js-arias/phyview/projection"
	"github.com/js-arias/phyview/state"
	"github.com/js-arias/phyview/tree"
	"github.com/js-arias/phyview/viewer"
	"go.uber.org/zap"
)

// Options are the options of a tree view.
type Options struct {
	Project string
	Config  string
	Tree    string
	LogFile string
	Verbose bool

	Size      string
	Proj      string
	Order     string
	NodeSize  int
	IntLabels bool
	NoTips    bool
	Scroll    float64

	Highlight string
	Select    string
	Search    string
}

// SetFlags sets the flags of the options.
func (o *Options) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&o.Project, "project", "", "")
	fs.StringVar(&o.Project, "p", "", "")
	fs.StringVar(&o.Config, "config", "", "")
	fs.StringVar(&o.Tree, "tree", "", "")
	fs.StringVar(&o.LogFile, "log", "", "")
	fs.BoolVar(&o.Verbose, "verbose", false, "")
	fs.BoolVar(&o.Verbose, "v", false, "")

	fs.StringVar(&o.Size, "size", "1024x768", "")
	fs.StringVar(&o.Proj, "projection", "phylogram", "")
	fs.StringVar(&o.Order, "order", "original", "")
	fs.IntVar(&o.NodeSize, "node-size", 0, "")
	fs.BoolVar(&o.IntLabels, "int-labels", false, "")
	fs.BoolVar(&o.NoTips, "no-tip-labels", false, "")
	fs.Float64Var(&o.Scroll, "scroll", 0, "")

	fs.StringVar(&o.Highlight, "highlight", "", "")
	fs.StringVar(&o.Select, "select", "", "")
	fs.StringVar(&o.Search, "search", "", "")
}

// LoadConfig returns the configuration
// defined by the flags.
func (o *Options) LoadConfig() (config.Config, error) {
	name := o.Config
	if name == "" && o.Project != "" {
		p, err := project.Read(o.Project)
		if err != nil {
			return config.Config{}, err
		}
		name = p.File(project.Config)
	}
	cfg, err := config.Load(name)
	if err != nil {
		return config.Config{}, err
	}
	if o.LogFile != "" {
		cfg.Log.File = o.LogFile
	}
	if o.Verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// Logger returns the logger of a configuration.
func Logger(cfg config.Config) (*logging.Logger, error) {
	return logging.New(cfg.Log)
}

// Trees returns the trees from the project
// or the tree files in the arguments.
func (o *Options) Trees(args []string) ([]*tree.Tree, error) {
	var ts []*tree.Tree
	if o.Project != "" {
		p, err := project.Read(o.Project)
		if err != nil {
			return nil, err
		}
		pt, err := p.Trees()
		if err != nil {
			return nil, err
		}
		ts = append(ts, pt...)
	}
	for _, a := range args {
		ft, err := viewer.ReadTrees(a)
		if err != nil {
			return nil, err
		}
		ts = append(ts, ft...)
	}
	if len(ts) == 0 {
		return nil, fmt.Errorf("expecting tree file or project")
	}
	if o.Tree == "" {
		return ts, nil
	}
	for _, t := range ts {
		if t.Title() == o.Tree {
			return []*tree.Tree{t}, nil
		}
	}
	return nil, fmt.Errorf("tree %q not found", o.Tree)
}

// WindowSize returns the size of the window.
func (o *Options) WindowSize() (w, h float64, err error) {
	ws, hs, ok := strings.Cut(strings.ToLower(o.Size), "x")
	if !ok {
		return 0, 0, fmt.Errorf("flag --size: invalid value %q", o.Size)
	}
	w, err = strconv.ParseFloat(ws, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("flag --size: invalid width %q: %v", ws, err)
	}
	h, err = strconv.ParseFloat(hs, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("flag --size: invalid height %q: %v", hs, err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("flag --size: invalid value %q", o.Size)
	}
	return w, h, nil
}

// Messages returns the messages
// that set the view defined by the flags.
// They must be applied after the tree is loaded.
func (o *Options) Messages(t *tree.Tree) ([]viewer.Msg, error) {
	order := state.Original
	if o.Order != "" {
		var err error
		order, err = state.ParseOrdering(o.Order)
		if err != nil {
			return nil, fmt.Errorf("flag --order: %v", err)
		}
	}

	msgs := []viewer.Msg{
		viewer.NodeOrdering{Ordering: order},
		viewer.TipLabelVisibility{Show: !o.NoTips},
		viewer.IntLabelVisibility{Show: o.IntLabels},
		viewer.NodeSizeIdx{Index: o.NodeSize},
	}
	kind, err := projection.ParseKind(o.Proj)
	if err != nil {
		return nil, fmt.Errorf("flag --projection: %v", err)
	}
	msgs = append(msgs, viewer.SetProjection{Kind: kind})

	hl, err := o.highlights(t)
	if err != nil {
		return nil, err
	}
	msgs = append(msgs, hl...)

	for _, name := range list(o.Select) {
		id, ok := t.ByName(name)
		if !ok {
			return nil, fmt.Errorf("flag --select: node %q not found", name)
		}
		msgs = append(msgs, viewer.SelectDeselectNode{Node: id})
	}
	if o.Search != "" {
		msgs = append(msgs, viewer.Search{Query: o.Search})
	}
	if o.Scroll > 0 {
		msgs = append(msgs, viewer.Scrolled{Y: o.Scroll})
	}
	return msgs, nil
}

// highlights parses the highlight flag.
// Each highlight is a node name,
// with an optional color:
// "Apidae=#ff0000,Vespidae".
func (o *Options) highlights(t *tree.Tree) ([]viewer.Msg, error) {
	var msgs []viewer.Msg
	for _, h := range list(o.Highlight) {
		name, hex, _ := strings.Cut(h, "=")
		id, ok := t.ByName(strings.TrimSpace(name))
		if !ok {
			return nil, fmt.Errorf("flag --highlight: node %q not found", name)
		}
		m := viewer.AddRemoveCladeHighlight{Node: id}
		if hex != "" {
			c, err := interact.ParseColor(hex)
			if err != nil {
				return nil, fmt.Errorf("flag --highlight: %v", err)
			}
			m.Color = c
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

func list(s string) []string {
	if s == "" {
		return nil
	}
	var ls []string
	for _, v := range strings.Split(s, ",") {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		ls = append(ls, v)
	}
	return ls
}

// Apply applies a list of messages to a viewer.
func Apply(v *viewer.Viewer, msgs []viewer.Msg) error {
	for _, m := range msgs {
		if err := v.Run(m); err != nil {
			return err
		}
	}
	return nil
}

// NewViewer returns a viewer
// with the tree and view defined by the options.
//
// If there is a single tree file,
// the viewer opens the file,
// so it can be reloaded when the file changes.
func (o *Options) NewViewer(cfg config.Config, log *zap.Logger, args []string) (*viewer.Viewer, error) {
	w, h, err := o.WindowSize()
	if err != nil {
		return nil, err
	}
	v, err := viewer.New(cfg, log, w, h)
	if err != nil {
		return nil, err
	}

	if o.Project == "" && o.Tree == "" && len(args) == 1 {
		if err := v.Run(viewer.OpenFile{Path: args[0]}); err != nil {
			return nil, err
		}
	} else {
		ts, err := o.Trees(args)
		if err != nil {
			return nil, err
		}
		if err := v.Run(viewer.TreeUpdated{Tree: ts[0]}); err != nil {
			return nil, err
		}
	}

	msgs, err := o.Messages(v.Tree())
	if err != nil {
		return nil, err
	}
	if err := Apply(v, msgs); err != nil {
		return nil, err
	}
	return v, nil
}
