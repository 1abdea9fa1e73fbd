// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package prj implements a command to manage
// phyview projects.
package prj

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/phyview/config"
	"github.com/js-arias/phyview/project"
)

var Command = &command.Command{
	Usage: `prj [--add <dataset>=<file>,...] [--remove <dataset>,...]
	[--default-config <file>] <project-file>`,
	Short: "manage a project",
	Long: `
Command prj manages the files of a phyview project.

The argument of the command is the name of the project file. If the project
file does not exist, it will be created.

Without flags, the command prints the datasets of the project.

The flag --add adds one or more files to the project, as a comma separated
list of dataset keywords and file paths, for example:

	phyview prj --add newick=bees.tre,export=bees.svg bees.tab

The flag --remove removes one or more datasets from the project.

The flag --default-config writes a configuration file with the default
values, and adds it as the "config" dataset of the project.

See 'phyview help projects' for the valid dataset keywords.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var addFlag string
var removeFlag string
var defConfig string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&addFlag, "add", "", "")
	c.Flags().StringVar(&removeFlag, "remove", "", "")
	c.Flags().StringVar(&defConfig, "default-config", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	name := args[0]

	p, err := project.Read(name)
	if errors.Is(err, fs.ErrNotExist) {
		p = project.New()
		p.SetName(name)
	} else if err != nil {
		return err
	}

	if addFlag == "" && removeFlag == "" && defConfig == "" {
		for _, s := range p.Sets() {
			fmt.Fprintf(c.Stdout(), "%s\t%s\n", s, p.Path(s))
		}
		return nil
	}

	for _, a := range strings.Split(addFlag, ",") {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		set, path, ok := strings.Cut(a, "=")
		if !ok || path == "" {
			return c.UsageError(fmt.Sprintf("flag --add: invalid value %q", a))
		}
		ds, err := dataset(set)
		if err != nil {
			return c.UsageError(fmt.Sprintf("flag --add: %v", err))
		}
		p.Add(ds, path)
	}
	for _, r := range strings.Split(removeFlag, ",") {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		ds, err := dataset(r)
		if err != nil {
			return c.UsageError(fmt.Sprintf("flag --remove: %v", err))
		}
		p.Add(ds, "")
	}
	if defConfig != "" {
		if err := config.Write(defConfig, config.Default()); err != nil {
			return err
		}
		p.Add(project.Config, defConfig)
	}

	return p.Write()
}

func dataset(s string) (project.Dataset, error) {
	ds := project.Dataset(strings.ToLower(strings.TrimSpace(s)))
	switch ds {
	case project.Trees, project.Newick, project.Config, project.Export:
		return ds, nil
	}
	return "", fmt.Errorf("unknown dataset %q", s)
}
