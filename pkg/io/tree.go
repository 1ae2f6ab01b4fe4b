package io

import (
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/erdot/pkg/grammar"
)

// WriteTree writes one line per parse tree node, indented two spaces per
// level. Leaf nodes also show their matched text.
func WriteTree(w io.Writer, root *grammar.Node) error {
	var err error
	root.Walk(func(n *grammar.Node, depth int) bool {
		if err != nil {
			return false
		}
		line := strings.Repeat("  ", depth) + n.Rule.String() + " " + n.Pos.String()
		if len(n.Children) == 0 && n.Text != "" {
			line += " " + fmt.Sprintf("%q", n.Text)
		}
		_, err = fmt.Fprintln(w, line)
		return true
	})
	return err
}
