/*
Package domdbg implements helpers to debug a DOM tree.

Trees are drawn as GraphViz digraphs. Editing hosts and the nodes of a
selection are highlighted, and each element carries the computed style
groups a resolver finds for it.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package domdbg

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"testing"
	"text/template"

	"github.com/npillmayer/richedit/dom"
	"github.com/npillmayer/richedit/dom/style"
	"github.com/npillmayer/richedit/dom/style/css"
	"golang.org/x/net/html"
)

// Options control the diagram. The zero value draws the tree with the
// default style groups and without highlights.
type Options struct {
	StyleGroups []string              // style groups to include; nil for the default
	Highlight   map[*html.Node]string // extra labels for nodes, e.g. "start" and "end"
}

// Parameters for GraphViz drawing.
type graphParamsType struct {
	Fontname       string
	StyleGroups    []string
	NodeTmpl       *template.Template
	EdgeTmpl       *template.Template
	StylegroupTmpl *template.Template
	PgedgeTmpl     *template.Template
	PgpgTmpl       *template.Template
}

var defaultGroups = []string{
	style.PGFont,
	style.PGText,
	style.PGColor,
}

var (
	headTmpl       = template.Must(template.New("dom").Parse(graphHeadTmpl))
	nodeTmpl       = template.Must(template.New("domnode").Funcs(template.FuncMap{"shortstring": shortText}).Parse(domNodeTmpl))
	edgeTmpl       = template.Must(template.New("domedge").Parse(domEdgeTmpl))
	stylegroupTmpl = template.Must(template.New("stylegroup").Parse(styleGroupTmpl))
	pgedgeTmpl     = template.Must(template.New("pgedge").Parse(pgEdgeTmpl))
	pgpgTmpl       = template.Must(template.New("pgpgedge").Parse(pgpgEdgeTmpl))
)

// ToGraphViz outputs a diagram for the subtree of root in GraphViz (DOT)
// format. styles may be nil, in which case no style groups are drawn.
//
// If the client does not provide a list of style groups, the following
// default will be used:
//
//   - Font
//   - Text
//   - Color
func ToGraphViz(root *html.Node, styles *css.Resolver, w io.Writer, opts Options) error {
	gparams := graphParamsType{
		Fontname:       "Helvetica",
		StyleGroups:    opts.StyleGroups,
		NodeTmpl:       nodeTmpl,
		EdgeTmpl:       edgeTmpl,
		StylegroupTmpl: stylegroupTmpl,
		PgedgeTmpl:     pgedgeTmpl,
		PgpgTmpl:       pgpgTmpl,
	}
	if gparams.StyleGroups == nil {
		gparams.StyleGroups = defaultGroups
	}
	if err := headTmpl.Execute(w, gparams); err != nil {
		return err
	}
	g := graph{
		w:       w,
		styles:  styles,
		params:  &gparams,
		marks:   opts.Highlight,
		dict:    make(map[*html.Node]string, 256),
		groupID: make(map[*style.PropertyGroup]string),
	}
	if err := g.nodes(root); err != nil {
		return err
	}
	_, err := io.WriteString(w, "}\n")
	return err
}

// Dotty is a helper for testing. Given a DOM node and a testing.T, it will
// create a Graphiviz image of the DOM tree under `root` and write it to
// a file in the current folder, choosing a unique file name.
// The image is in SVG format. The test is skipped if GraphViz is not
// installed.
//
// If an error occurs, t.Error(…) will be set, causing the test to fail.
func Dotty(root *html.Node, styles *css.Resolver, t *testing.T) {
	dot, err := exec.LookPath("dot")
	if err != nil {
		t.Skip("GraphViz dot not installed")
	}
	tmpfile, err := os.CreateTemp(".", "dom.*.dot")
	if err != nil {
		t.Error(err)
		return
	}
	defer func() {
		tmpfile.Close()
		os.Remove(tmpfile.Name()) // clean up
	}()
	t.Logf("writing DOM digraph to %s\n", tmpfile.Name())
	if err := ToGraphViz(root, styles, tmpfile, Options{}); err != nil {
		t.Error(err)
		return
	}
	outOption := fmt.Sprintf("-o%s.svg", tmpfile.Name())
	cmd := exec.Command(dot, "-Tsvg", outOption, tmpfile.Name())
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	t.Logf("writing DOM tree image to %s.svg\n", tmpfile.Name())
	if err := cmd.Run(); err != nil {
		t.Error(err.Error())
	}
}

type graph struct {
	w       io.Writer
	styles  *css.Resolver
	params  *graphParamsType
	marks   map[*html.Node]string
	dict    map[*html.Node]string
	groupID map[*style.PropertyGroup]string
}

// node is the template data for a DOM node.
type node struct {
	N        *html.Node
	Name     string
	NodeName string
	Fill     string
	Mark     string
}

func (g *graph) name(n *html.Node) string {
	name := g.dict[n]
	if name == "" {
		name = fmt.Sprintf("node%05d", len(g.dict)+1)
		g.dict[n] = name
	}
	return name
}

func (g *graph) nodes(n *html.Node) error {
	if err := g.domNode(n); err != nil {
		return err
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if err := g.nodes(ch); err != nil {
			return err
		}
		e := edge{N1: g.name(n), N2: g.name(ch)}
		if err := g.params.EdgeTmpl.Execute(g.w, e); err != nil {
			return err
		}
	}
	return nil
}

func (g *graph) domNode(n *html.Node) error {
	data := node{N: n, Name: g.name(n), NodeName: dom.NodeName(n), Fill: "lightblue3", Mark: g.marks[n]}
	switch {
	case n.Type == html.ElementNode && dom.RootEditableElement(n) == n:
		data.Fill = "palegreen3"
	case n.Type == html.ElementNode && !dom.IsContentEditable(n):
		data.Fill = "grey80"
	}
	if err := g.params.NodeTmpl.Execute(g.w, &data); err != nil {
		return err
	}
	if g.styles == nil || n.Type != html.ElementNode {
		return nil
	}
	return g.domStyles(n, data.Name)
}

func (g *graph) domStyles(n *html.Node, name string) error {
	sn := g.styles.ComputedStyle(n)
	if sn == nil {
		return nil
	}
	pmap := sn.Styles()
	var prev *style.PropertyGroup
	for _, s := range g.params.StyleGroups {
		pg := pmap.Group(s)
		if pg == nil {
			continue
		}
		id := g.group(pg)
		if err := g.params.StylegroupTmpl.Execute(g.w, pgnode{ID: id, PropGroup: pg}); err != nil {
			return err
		}
		var err error
		if prev == nil {
			err = g.params.PgedgeTmpl.Execute(g.w, edge{N1: name, N2: id})
		} else {
			err = g.params.PgpgTmpl.Execute(g.w, edge{N1: g.group(prev), N2: id})
		}
		if err != nil {
			return err
		}
		prev = pg
	}
	return nil
}

func (g *graph) group(pg *style.PropertyGroup) string {
	id, ok := g.groupID[pg]
	if !ok {
		id = fmt.Sprintf("pg%04d", len(g.groupID)+1)
		g.groupID[pg] = id
	}
	return id
}

type edge struct {
	N1, N2 string
}

type pgnode struct {
	ID        string
	PropGroup *style.PropertyGroup
}

func shortText(n *html.Node) string {
	r := []rune(n.Data)
	s := "\"\\\""
	if len(r) > 10 {
		s += string(r[:10]) + "...\\\"\""
	} else {
		s += n.Data + "\\\"\""
	}
	s = strings.Replace(s, "\n", `\\n`, -1)
	s = strings.Replace(s, "\t", `\\t`, -1)
	s = strings.Replace(s, " ", "␣", -1)
	s = strings.Replace(s, " ", "␢", -1)
	return s
}

// --- Templates --------------------------------------------------------

const graphHeadTmpl = `digraph g {
  graph [labelloc="t" label="" splines=true overlap=false rankdir = "LR"];
  graph [fontname = "{{ .Fontname }}" fontsize=14] ;
   node [fontname = "{{ .Fontname }}" fontsize=14] ;
   edge [fontname = "{{ .Fontname }}" fontsize=14] ;
`

const domNodeTmpl = `{{ if eq .NodeName "#text" }}
{{ .Name }}	[ label={{ shortstring .N }} {{ if .Mark }}xlabel={{ printf "%q" .Mark }} {{ end }}shape=box style=filled fillcolor=grey95 fontname="Courier" fontsize=11.0 ] ;
{{ else }}
{{ .Name }}	[ label={{ printf "%q" .NodeName }} {{ if .Mark }}xlabel={{ printf "%q" .Mark }} {{ end }}shape=ellipse style=filled fillcolor={{ .Fill }} ] ;
{{ end }}
`

const styleGroupTmpl = `{{ .ID }} [ style="filled" penwidth=1 fillcolor="ivory3" shape="Mrecord" fontsize=12
    label=<<table border="0" cellborder="0" cellpadding="2" cellspacing="0" bgcolor="ivory3">
      <tr><td bgcolor="azure4" align="center" colspan="2"><font color="white">{{ .PropGroup.Name }}</font></td></tr>
      {{ range .PropGroup.Properties }}
      <tr><td align="right">{{ .Key }}:</td><td>{{ .Value }}</td></tr>
      {{ else }}
      <tr><td colspan="2">no styles</td></tr>
      {{ end }}
    </table>> ] ;
`

const domEdgeTmpl = `{{ .N1 }} -> {{ .N2 }} [weight=1] ;
`

const pgEdgeTmpl = `{{ .N1 }} -> {{ .N2 }} [dir=none weight=1 style="dashed"] ;
`

const pgpgEdgeTmpl = `{{ .N1 }} -> {{ .N2 }} [dir=none weight=1 style="dashed"] ;
`
