// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package newick reads and writes trees
// in Newick (parenthetical) format.
//
// Unquoted labels
// have their underscores replaced by spaces,
// quoted labels are read verbatim
// (with doubled quotes as escaped quotes),
// and comments in square brackets are ignored.
// Missing branch lengths are kept as missing.
package newick

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/js-arias/phyview/tree"
)

// Read reads all trees from a Newick input.
// Trees are titled with the given name,
// adding a numeric suffix when there is more than one tree.
func Read(r io.Reader, name string) ([]*tree.Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	p := &parser{src: string(data)}

	var trees []*tree.Tree
	for {
		p.skip()
		if p.eof() {
			break
		}
		tn := name
		if len(trees) > 0 {
			tn = fmt.Sprintf("%s.%d", name, len(trees))
		}
		t, err := p.tree(tn)
		if err != nil {
			return nil, err
		}
		trees = append(trees, t)
	}
	if len(trees) == 0 {
		return nil, fmt.Errorf("newick: %w", tree.ErrEmpty)
	}
	return trees, nil
}

// Parse parses a single tree from a string.
func Parse(s string) (*tree.Tree, error) {
	p := &parser{src: s}
	p.skip()
	if p.eof() {
		return nil, fmt.Errorf("newick: %w", tree.ErrEmpty)
	}
	return p.tree("")
}

type parser struct {
	src   string
	pos   int
	nodes []tree.Node
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

// Skip skips spaces and comments.
func (p *parser) skip() {
	for !p.eof() {
		c := p.src[p.pos]
		if c == '[' {
			end := strings.IndexByte(p.src[p.pos:], ']')
			if end < 0 {
				p.pos = len(p.src)
				return
			}
			p.pos += end + 1
			continue
		}
		if !unicode.IsSpace(rune(c)) {
			return
		}
		p.pos++
	}
}

func (p *parser) errorf(format string, args ...any) error {
	line := 1 + strings.Count(p.src[:min(p.pos, len(p.src))], "\n")
	return fmt.Errorf("newick: line %d: %s", line, fmt.Sprintf(format, args...))
}

func (p *parser) tree(name string) (*tree.Tree, error) {
	p.nodes = p.nodes[:0]
	root, err := p.subtree()
	if err != nil {
		return nil, err
	}
	p.skip()
	if p.peek() != ';' {
		return nil, p.errorf("expecting ';', found %q", p.peek())
	}
	p.pos++

	return tree.Build(name, p.nodes, root)
}

func (p *parser) subtree() (int, error) {
	id := len(p.nodes)
	p.nodes = append(p.nodes, tree.Node{ID: id, Length: tree.Missing})

	p.skip()
	if p.peek() == '(' {
		p.pos++
		for {
			c, err := p.subtree()
			if err != nil {
				return -1, err
			}
			p.nodes[id].Children = append(p.nodes[id].Children, c)
			p.skip()
			switch p.peek() {
			case ',':
				p.pos++
				continue
			case ')':
				p.pos++
			default:
				return -1, p.errorf("expecting ',' or ')', found %q", p.peek())
			}
			break
		}
	}

	p.skip()
	lbl, err := p.label()
	if err != nil {
		return -1, err
	}
	p.nodes[id].Name = lbl

	p.skip()
	if p.peek() == ':' {
		p.pos++
		p.skip()
		start := p.pos
		for !p.eof() && !isDelim(p.peek()) {
			p.pos++
		}
		v := p.src[start:p.pos]
		l, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return -1, p.errorf("invalid branch length %q: %v", v, err)
		}
		if l < 0 {
			l = 0
		}
		p.nodes[id].Length = l
	}
	return id, nil
}

func (p *parser) label() (string, error) {
	if p.peek() == '\'' {
		p.pos++
		var b strings.Builder
		for {
			if p.eof() {
				return "", p.errorf("unterminated quoted label")
			}
			c := p.src[p.pos]
			p.pos++
			if c == '\'' {
				if p.peek() == '\'' {
					b.WriteByte('\'')
					p.pos++
					continue
				}
				return b.String(), nil
			}
			b.WriteByte(c)
		}
	}

	start := p.pos
	for !p.eof() && !isDelim(p.peek()) {
		p.pos++
	}
	return strings.ReplaceAll(p.src[start:p.pos], "_", " "), nil
}

func isDelim(c byte) bool {
	switch c {
	case '(', ')', ',', ':', ';', '[':
		return true
	}
	return unicode.IsSpace(rune(c))
}

// Write writes a tree in Newick format.
func Write(w io.Writer, t *tree.Tree) error {
	bw := bufio.NewWriter(w)
	writeNode(bw, t, t.Root())
	bw.WriteString(";\n")
	return bw.Flush()
}

// String returns a tree in Newick format.
func String(t *tree.Tree) string {
	var b strings.Builder
	Write(&b, t)
	return strings.TrimSpace(b.String())
}

func writeNode(w *bufio.Writer, t *tree.Tree, id int) {
	// explicit stack to support deep trees
	type frame struct {
		id   int
		next int
	}
	stack := []frame{{id: id}}
	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		children := t.Children(f.id)
		if f.next < len(children) {
			if f.next == 0 {
				w.WriteByte('(')
			} else {
				w.WriteByte(',')
			}
			c := children[f.next]
			f.next++
			stack = append(stack, frame{id: c})
			continue
		}
		if len(children) > 0 {
			w.WriteByte(')')
		}
		w.WriteString(quote(t.Name(f.id)))
		if t.HasLength(f.id) && f.id != t.Root() {
			w.WriteByte(':')
			w.WriteString(strconv.FormatFloat(t.Length(f.id), 'g', -1, 64))
		}
		stack = stack[:len(stack)-1]
	}
}

func quote(s string) string {
	if s == "" {
		return ""
	}
	if !strings.ContainsAny(s, "()[],:;'_\t\n") {
		return strings.ReplaceAll(s, " ", "_")
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
