// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package viewer

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/js-arias/phyview/newick"
	"github.com/js-arias/phyview/tree"
)

// ReadTrees reads the trees of a file.
//
// Files with the extensions ".tab" or ".tsv"
// are read as time calibrated trees
// in the TSV format of the timetree package.
// Any other file is read as Newick.
func ReadTrees(name string) ([]*tree.Tree, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var ts []*tree.Tree
	switch strings.ToLower(filepath.Ext(name)) {
	case ".tab", ".tsv":
		ts, err = tree.ReadTimeTrees(f)
	default:
		ts, err = newick.Read(f, treeName(name))
	}
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	if len(ts) == 0 {
		return nil, fmt.Errorf("on file %q: %w", name, tree.ErrEmpty)
	}
	return ts, nil
}

// treeName returns the name of a file
// without the directory and extension.
func treeName(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// WriteTree writes a tree as a Newick file.
func WriteTree(name string, t *tree.Tree) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	bw := bufio.NewWriter(f)
	if err := newick.Write(bw, t); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	return nil
}
