package dom

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// NodePath addresses a node by child indices, starting from some root.
// The empty path denotes the root itself. The textual form is
// "0/2/1".
type NodePath []int

// PathOf returns the path from root to n. It fails if n is not within the
// subtree of root.
func PathOf(root, n *html.Node) (NodePath, error) {
	var path NodePath
	for c := n; c != root; c = c.Parent {
		if c == nil {
			return nil, fmt.Errorf("path of %s: %w", NodeName(n), ErrNotFound)
		}
		path = append(path, NodeIndex(c))
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

// ParseNodePath parses the textual form of a node path.
func ParseNodePath(s string) (NodePath, error) {
	s = strings.Trim(strings.TrimSpace(s), "/")
	if s == "" {
		return NodePath{}, nil
	}
	parts := strings.Split(s, "/")
	path := make(NodePath, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("node path %q: invalid step %q", s, p)
		}
		path[i] = n
	}
	return path, nil
}

// Resolve follows a path from root.
func (path NodePath) Resolve(root *html.Node) (*html.Node, error) {
	n := root
	for depth, i := range path {
		c := ChildAt(n, i)
		if c == nil {
			return nil, fmt.Errorf("node path %s: no child %d at depth %d: %w", path, i, depth, ErrNotFound)
		}
		n = c
	}
	return n, nil
}

func (path NodePath) String() string {
	parts := make([]string, len(path))
	for i, n := range path {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, "/")
}
