package editing

import (
	"fmt"
	"testing"

	"github.com/npillmayer/richedit/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"pgregory.net/rapid"
)

func elementWithAttributes(tag string, attrs map[string]string) *html.Node {
	e := dom.CreateElement(tag)
	for k, v := range attrs {
		e.Attr = append(e.Attr, html.Attribute{Key: k, Val: v})
	}
	return e
}

func TestIdenticalElementsIgnoreAttributeOrder(t *testing.T) {
	a := dom.CreateElement("span")
	a.Attr = []html.Attribute{{Key: "class", Val: "x"}, {Key: "style", Val: "color: red"}}
	b := dom.CreateElement("span")
	b.Attr = []html.Attribute{{Key: "style", Val: "color: red"}, {Key: "class", Val: "x"}}
	assert.True(t, areIdenticalElements(a, b))
	b.Attr[1].Val = "y"
	assert.False(t, areIdenticalElements(a, b))
	assert.False(t, areIdenticalElements(a, dom.CreateElement("b")))
	assert.False(t, areIdenticalElements(a, nil))
	assert.False(t, areIdenticalElements(dom.CreateText("x"), dom.CreateText("x")))
}

func TestIdenticalElementsProperties(t *testing.T) {
	keys := rapid.SampledFrom([]string{"class", "style", "id", "title", "lang"})
	vals := rapid.SampledFrom([]string{"a", "b", "c"})
	rapid.Check(t, func(t *rapid.T) {
		tag := rapid.SampledFrom([]string{"span", "b", "font"}).Draw(t, "tag")
		attrs := rapid.MapOf(keys, vals).Draw(t, "attrs")
		a := elementWithAttributes(tag, attrs)
		b := elementWithAttributes(tag, attrs)
		if !areIdenticalElements(a, b) || !areIdenticalElements(b, a) {
			t.Fatalf("elements with attributes %v differ", attrs)
		}
		if len(attrs) == 0 {
			return
		}
		key := rapid.SampledFrom(presentKeys(attrs)).Draw(t, "changed")
		changed := map[string]string{}
		for k, v := range attrs {
			changed[k] = v
		}
		changed[key] += "-"
		c := elementWithAttributes(tag, changed)
		if areIdenticalElements(a, c) || areIdenticalElements(c, a) {
			t.Fatalf("attribute %s=%q did not make a difference", key, changed[key])
		}
	})
}

func presentKeys(m map[string]string) []string {
	var keys []string
	for _, k := range []string{"class", "style", "id", "title", "lang"} {
		if _, ok := m[k]; ok {
			keys = append(keys, k)
		}
	}
	return keys
}

func TestStyleSpanClassification(t *testing.T) {
	doc, err := dom.ParseString(fmt.Sprintf(`<body><span id="a" class="%s" style="color: red">x</span>`+
		`<span id="b" style="color: red">y</span><span id="c">z</span><span id="d" title="t">w</span></body>`,
		styleSpanClass))
	require.NoError(t, err)
	assert.True(t, isStyleSpan(doc.ElementByID("a")))
	assert.False(t, isStyleSpan(doc.ElementByID("b")))
	assert.False(t, isStyleSpanOrSpanWithOnlyStyleAttribute(doc.ElementByID("d")))
	assert.False(t, isSpanWithoutAttributesOrUnstyledStyleSpan(doc.ElementByID("d")))
}
