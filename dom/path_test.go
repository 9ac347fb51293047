package dom

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"pgregory.net/rapid"
)

func TestParseNodePath(t *testing.T) {
	p, err := ParseNodePath("/0/2/1/")
	require.NoError(t, err)
	assert.Equal(t, NodePath{0, 2, 1}, p)
	assert.Equal(t, "0/2/1", p.String())
	p, err = ParseNodePath("")
	require.NoError(t, err)
	assert.Empty(t, p)
	_, err = ParseNodePath("0/x")
	assert.Error(t, err)
	_, err = ParseNodePath("-1")
	assert.Error(t, err)
}

func TestResolveMissingChild(t *testing.T) {
	doc := parse(t, `<body><div id="a">x</div></body>`)
	_, err := NodePath{0, 7}.Resolve(doc.ElementByID("a"))
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = PathOf(doc.ElementByID("a"), CreateText("detached"))
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestNodePathRoundTrip(t *testing.T) {
	doc := parse(t, `<body><div id="r"><p>a<b>b<i>c</i></b></p><ul><li>1</li><li>2<br></li></ul>tail</div></body>`)
	root := doc.ElementByID("r")
	all := FindAll(root, func(*html.Node) bool { return true })
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.SampledFrom(all).Draw(t, "node")
		path, err := PathOf(root, n)
		if err != nil {
			t.Fatalf("path of %s: %v", NodeName(n), err)
		}
		parsed, err := ParseNodePath(path.String())
		if err != nil {
			t.Fatalf("parse %q: %v", path, err)
		}
		m, err := parsed.Resolve(root)
		if err != nil || m != n {
			t.Fatalf("path %s resolves to %s, not %s", path, NodeName(m), NodeName(n))
		}
	})
}
