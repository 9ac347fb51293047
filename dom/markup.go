package dom

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/xlab/treeprint"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseFragment parses a markup fragment in the context of an element.
// The nodes returned are detached.
func ParseFragment(context *html.Node, markup string) ([]*html.Node, error) {
	if context == nil || context.Type != html.ElementNode {
		context = &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("dom: cannot parse fragment: %w", err)
	}
	return nodes, nil
}

// Markup serializes a node, including the node itself.
func Markup(n *html.Node) string {
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		tracer().Errorf("dom: cannot render %s: %v", NodeName(n), err)
	}
	return buf.String()
}

// InnerMarkup serializes the children of a node.
func InnerMarkup(n *html.Node) string {
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			tracer().Errorf("dom: cannot render %s: %v", NodeName(c), err)
		}
	}
	return buf.String()
}

// DumpTree renders the subtree of n as an indented tree, for debugging.
func DumpTree(n *html.Node) string {
	if n == nil {
		return "<nil>"
	}
	t := treeprint.NewWithRoot(dumpLabel(n))
	dumpChildren(t, n)
	return t.String()
}

func dumpChildren(t treeprint.Tree, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.FirstChild != nil {
			dumpChildren(t.AddBranch(dumpLabel(c)), c)
		} else {
			t.AddNode(dumpLabel(c))
		}
	}
}

func dumpLabel(n *html.Node) string {
	switch n.Type {
	case html.TextNode:
		return fmt.Sprintf("#text %q", n.Data)
	case html.ElementNode:
		var b strings.Builder
		b.WriteString("<" + n.Data)
		for _, a := range n.Attr {
			fmt.Fprintf(&b, " %s=%q", a.Key, a.Val)
		}
		b.WriteString(">")
		return b.String()
	}
	return NodeName(n)
}

// MarkupDiff returns a human readable diff between two markup strings,
// or the empty string if they are equal.
func MarkupDiff(expected, actual string) string {
	if expected == actual {
		return ""
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(expected, actual, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	return dmp.DiffPrettyText(diffs)
}
