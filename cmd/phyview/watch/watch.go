// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package watch implements a command to redraw
// a tree view each time the tree file changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/js-arias/command"
	"github.com/js-arias/phyview/cmd/phyview/export"
	"github.com/js-arias/phyview/cmd/phyview/internal/view"
	"github.com/js-arias/phyview/project"
	"github.com/js-arias/phyview/viewer"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var Command = &command.Command{
	Usage: `watch -o|--output <file> [--cpu <number>]
	[<view-flags>...] [<tree-file>]`,
	Short: "redraw a tree view when the tree file changes",
	Long: `
Command watch reads a tree, writes a view of the tree into a file, and waits
for changes in the tree file. Each time the tree file is saved, the tree is
read again and the view is written again, keeping the view flags, the
highlighted clades, and the selected nodes.

The argument of the command is the tree file. The tree file can be defined
with a project using the flag --project, or -p, in which case the "newick"
dataset of the project is watched. The first tree of the file is used.

The flag -o, or --output, defines the output file. The format is defined by
the extension of the file, as in 'phyview export'. If no output is given, the
"export" dataset of the project is used.

The view is defined with the flags described in 'phyview help view-flags'.

Files are read and written in background goroutines. By default all
available CPUs are used; use the flag --cpu to change the number of
goroutines.

The command runs until it is interrupted.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var opts view.Options
var output string
var numCPU int

func setFlags(c *command.Command) {
	opts.SetFlags(c.Flags())
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
	c.Flags().IntVar(&numCPU, "cpu", 0, "")
}

func run(c *command.Command, args []string) (err error) {
	file, out, err := files(args)
	if err != nil {
		return c.UsageError(err.Error())
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

	// the tree is read from the file,
	// not from the project
	vo := opts
	vo.Project = ""
	vo.Tree = ""
	v, err := vo.NewViewer(cfg, log.Logger, []string{file})
	if err != nil {
		return err
	}
	if err := export.Write(v, out); err != nil {
		return err
	}
	fmt.Fprintf(c.Stdout(), "watching %q: output %q\n", file, out)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	w := viewer.NewWorker(ctx, numCPU, log.Logger)
	v.SetWorker(w)
	changes := make(chan viewer.Msg)

	g.Go(func() error {
		return viewer.Watch(ctx, file, changes, log.Logger)
	})
	g.Go(func() error {
		defer w.Close()
		return loop(ctx, v, w, changes, out, log.Logger)
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// loop applies the messages
// from the file watcher and the worker.
func loop(ctx context.Context, v *viewer.Viewer, w *viewer.Worker, changes <-chan viewer.Msg, out string, log *zap.Logger) error {
	apply := func(msg viewer.Msg) {
		for msg != nil {
			if n, ok := msg.(viewer.Notice); ok {
				log.Warn(n.Text, zap.Error(n.Err))
				return
			}
			if _, ok := msg.(viewer.TreeLoaded); ok {
				gen := v.Generation()
				next := v.Update(msg)
				if next == nil && v.Generation() != gen {
					next = export.Message(out)
				}
				msg = next
				continue
			}
			msg = v.Update(msg)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-changes:
			apply(msg)
		case msg, ok := <-w.Results():
			if !ok {
				return nil
			}
			apply(msg)
		}
	}
}

func files(args []string) (file, out string, err error) {
	out = output
	if opts.Project != "" {
		p, err := project.Read(opts.Project)
		if err != nil {
			return "", "", err
		}
		file = p.File(project.Newick)
		if file == "" {
			file = p.File(project.Trees)
		}
		if out == "" {
			out = p.File(project.Export)
		}
	}
	if len(args) > 0 {
		file = args[0]
	}
	if file == "" {
		return "", "", errors.New("expecting tree file")
	}
	if out == "" {
		return "", "", errors.New("expecting output file, flag --output")
	}
	return file, out, nil
}
