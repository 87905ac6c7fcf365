package btree

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Dump writes all entries in key order to w, each as "key,value(dNl)" for
// leaf entries and "key,value(dNn)" for inner entries, where N is the depth
// of the node (for debugging purposes).
func (t *Tree[K, V]) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	err := t.Traverse(false, func(e Entry[K, V]) bool {
		kind := 'n'
		if e.Leaf {
			kind = 'l'
		}
		fmt.Fprintf(bw, "%v,%v(d%d%c) ", e.Key, e.Value, e.Depth, kind)
		return true
	})
	if err != nil {
		return err
	}
	bw.WriteByte('\n')
	return bw.Flush()
}

// Outline writes an indented outline of the tree to w, one node per line.
func (t *Tree[K, V]) Outline(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "btree order=%d height=%d len=%d nodes=%d\n",
		t.cfg.Order, t.height, t.Len(), t.nodes.live)
	t.outlineNode(bw, t.root, 0)
	return bw.Flush()
}

func (t *Tree[K, V]) outlineNode(w io.Writer, id nodeID, depth int) {
	n := t.node(id)
	fmt.Fprintf(w, "%s#%d %s size=%d %v\n", strings.Repeat("  ", depth), id, n.kind, n.size, n.keys)
	for _, child := range n.children {
		t.outlineNode(w, child, depth+1)
	}
}

// ToDot outputs the internal structure of the tree in Graphviz DOT format
// (for debugging purposes). Nodes are drawn as records showing their keys,
// labelled with their subtree size.
func (t *Tree[K, V]) ToDot(w io.Writer) error {
	bw := bufio.NewWriter(w)
	io.WriteString(bw, "strict digraph {\n")
	io.WriteString(bw, "\tnode [fontname=Arial,fontsize=12,shape=record];\n")
	var edges strings.Builder
	t.dotNode(bw, &edges, t.root)
	io.WriteString(bw, edges.String())
	io.WriteString(bw, "}\n")
	return bw.Flush()
}

func (t *Tree[K, V]) dotNode(w io.Writer, edges *strings.Builder, id nodeID) {
	n := t.node(id)
	fields := make([]string, 0, 2*len(n.keys)+1)
	for i, k := range n.keys {
		if !n.isLeaf() {
			fields = append(fields, fmt.Sprintf("<c%d>", i))
		}
		fields = append(fields, dotEscape(fmt.Sprint(k)))
	}
	if !n.isLeaf() {
		fields = append(fields, fmt.Sprintf("<c%d>", len(n.keys)))
	}
	fmt.Fprintf(w, "\t\"%d\" [label=\"{%s|%d}\" %s];\n", id,
		strings.Join(fields, "|"), n.size, nodeDotStyles(n.isLeaf()))
	for i, child := range n.children {
		fmt.Fprintf(edges, "\t\"%d\":c%d -> \"%d\";\n", id, i, child)
		t.dotNode(w, edges, child)
	}
}

func nodeDotStyles(isleaf bool) string {
	s := ",style=filled"
	if isleaf {
		s += ",fillcolor=white"
	} else {
		s += ",color=black,fillcolor=\"#a3d7e4\""
	}
	return s
}

var dotEscaper = strings.NewReplacer(
	`\`, `\\`, `"`, `\"`, `{`, `\{`, `}`, `\}`,
	`|`, `\|`, `<`, `\<`, `>`, `\>`,
)

func dotEscape(s string) string {
	return dotEscaper.Replace(s)
}
