package style

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestPropertySetOrderAndText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.style")
	defer teardown()
	//
	ps := NewPropertySet()
	ps.Set("font-weight", "bold", false)
	ps.Set("color", "#ff0000", true)
	ps.Set("font-weight", "normal", false)
	assert.Equal(t, []string{"font-weight", "color"}, ps.Keys())
	assert.Equal(t, "font-weight: normal; color: #ff0000 !important;", ps.Text())
	assert.True(t, ps.IsImportant("color"))
	ps.Set("color", "", false)
	assert.False(t, ps.Has("color"))
	assert.Equal(t, 1, ps.Len())
}

func TestPropertySetMergeAndEqual(t *testing.T) {
	a := NewPropertySet(Declaration{Key: "color", Value: "red"})
	b := NewPropertySet(Declaration{Key: "color", Value: "blue"}, Declaration{Key: "font-style", Value: "italic"})
	c := a.Copy()
	c.Merge(b, false)
	assert.Equal(t, Property("red"), c.Value("color"))
	assert.Equal(t, Property("italic"), c.Value("font-style"))
	c.Merge(b, true)
	assert.True(t, c.Equal(b))
	assert.False(t, c.Equal(a))
	assert.Equal(t, "red", a.Value("color").String(), "copy must not alias")
}

func TestSplitCompound(t *testing.T) {
	kv, err := SplitCompoundProperty("margin", "1px 2px")
	require.NoError(t, err)
	require.Len(t, kv, 4)
	assert.Equal(t, KeyValue{"margin-top", "1px"}, kv[0])
	assert.Equal(t, KeyValue{"margin-right", "2px"}, kv[1])
	assert.Equal(t, KeyValue{"margin-bottom", "1px"}, kv[2])
	assert.Equal(t, KeyValue{"margin-left", "2px"}, kv[3])
	kv, err = SplitCompoundProperty("border-color", "red")
	require.NoError(t, err)
	assert.Equal(t, "border-left-color", kv[3].Key)
	_, err = SplitCompoundProperty("color", "red")
	assert.Error(t, err)
}

func TestPropertyMapGroups(t *testing.T) {
	var pm PropertyMap
	pm.Add("font-weight", "Bold")
	pm.Add("text-align", "center")
	pm.Add("funny-margin", "big")
	assert.Equal(t, Property("bold"), pm.GetPropertyValue("font-weight"))
	assert.Equal(t, PGText, GroupNameFromPropertyKey("text-align"))
	assert.Equal(t, 3, pm.Size())
	assert.True(t, strings.Contains(pm.String(), "funny-margin"))
}

func TestNormalizeColor(t *testing.T) {
	for in, want := range map[Property]Property{
		"red":                "#ff0000",
		"#F00":               "#ff0000",
		"rgb(0, 128, 0)":     "#008000",
		"rgba(0, 0, 0, 0)":   "transparent",
		"transparent":        "transparent",
		"rgb(100%, 0%, 0%)":  "#ff0000",
		"currentcolor-ish":   "currentcolor-ish",
		"rgba(0, 0, 255, 1)": "#0000ff",
	} {
		assert.Equal(t, want, NormalizeColor(in), string(in))
	}
}

func TestDisplayModes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.style")
	defer teardown()
	//
	for tag, want := range map[string]Property{
		"p": "block", "li": "list-item", "td": "table-cell", "span": "inline",
		"b": "inline", "blink": "inline", "head": "none", "table": "table",
	} {
		n := &html.Node{Type: html.ElementNode, Data: tag}
		assert.Equal(t, want, DisplayPropertyForHTMLNode(n), tag)
	}
}

func TestPresentationalHints(t *testing.T) {
	font := &html.Node{Type: html.ElementNode, Data: "font", Attr: []html.Attribute{
		{Key: "color", Val: "red"}, {Key: "size", Val: "+2"}, {Key: "face", Val: "Courier"},
	}}
	hints := PresentationalHints(font)
	assert.Contains(t, hints, KeyValue{"color", "red"})
	assert.Contains(t, hints, KeyValue{"font-size", "24px"})
	assert.Contains(t, hints, KeyValue{"font-family", "Courier"})
	b := &html.Node{Type: html.ElementNode, Data: "b"}
	assert.Equal(t, []KeyValue{{"font-weight", "bold"}}, PresentationalHints(b))
}

func TestEditingPropertyTables(t *testing.T) {
	assert.True(t, IsEditingProperty("background-color"))
	assert.False(t, IsInheritableEditingProperty("background-color"))
	assert.True(t, IsBlockProperty("text-align"))
	assert.False(t, IsBlockProperty("font-weight"))
	for _, k := range InheritableEditingProperties {
		assert.True(t, IsEditingProperty(k), k)
	}
}
