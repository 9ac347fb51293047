package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/npillmayer/richedit/dom"
	"github.com/npillmayer/richedit/dom/layout"
	"github.com/npillmayer/richedit/dom/style"
	"github.com/npillmayer/richedit/editing"
	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"
)

// Script is a sequence of editing steps.
//
//	steps:
//	  - caret: { path: "0", offset: 5 }
//	  - type: ", dear"
//	  - select: { from: { path: "0", offset: 0 }, to: { path: "0", offset: 5 } }
//	  - style: { font-weight: bold }
//	    action: bold
//	  - key: enter
//	  - undo: 1
//
// Node paths are child index paths relative to the editable root.
type Script struct {
	Steps []Step `yaml:"steps"`
}

// Point addresses a position. A negative offset denotes the end of the node.
type Point struct {
	Path   string `yaml:"path"`
	Offset int    `yaml:"offset"`
}

// Range addresses a selection from base to extent.
type Range struct {
	From Point `yaml:"from"`
	To   Point `yaml:"to"`
}

// Step is a single editing operation. Exactly one operation must be set;
// granularity, kill and action qualify it.
type Step struct {
	Caret          *Point            `yaml:"caret"`
	Select         *Range            `yaml:"select"`
	Type           *string           `yaml:"type"`
	Key            string            `yaml:"key"`
	Style          map[string]string `yaml:"style"`
	ParagraphStyle map[string]string `yaml:"paragraph-style"`
	RemoveFormat   bool              `yaml:"remove-format"`
	Paste          *string           `yaml:"paste"`
	Undo           int               `yaml:"undo"`
	Redo           int               `yaml:"redo"`

	Granularity string `yaml:"granularity"` // for delete keys
	Kill        bool   `yaml:"kill"`        // deleted text goes to the kill ring
	Action      string `yaml:"action"`      // for style steps
}

// ReadScript decodes a YAML edit script. Unknown keys are an error.
func ReadScript(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var s Script
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("edit script: %w", err)
	}
	for i, step := range s.Steps {
		if _, err := step.operation(); err != nil {
			return nil, fmt.Errorf("edit script: step %d: %w", i+1, err)
		}
	}
	return &s, nil
}

func (st Step) operation() (string, error) {
	var ops []string
	set := func(name string, isSet bool) {
		if isSet {
			ops = append(ops, name)
		}
	}
	set("caret", st.Caret != nil)
	set("select", st.Select != nil)
	set("type", st.Type != nil)
	set("key", st.Key != "")
	set("style", len(st.Style) > 0)
	set("paragraph-style", len(st.ParagraphStyle) > 0)
	set("remove-format", st.RemoveFormat)
	set("paste", st.Paste != nil)
	set("undo", st.Undo > 0)
	set("redo", st.Redo > 0)
	switch len(ops) {
	case 0:
		return "", errors.New("no operation")
	case 1:
		return ops[0], nil
	}
	return "", fmt.Errorf("more than one operation: %s", strings.Join(ops, ", "))
}

// Run applies the steps of a script to the editing host root.
func (s *Script) Run(ed *editing.Editor, root *html.Node) error {
	for i, step := range s.Steps {
		op, err := step.operation()
		if err == nil {
			err = step.apply(ed, root, op)
		}
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, op, err)
		}
		tracer().Debugf("step %d (%s): %s", i+1, op, ed.Selection())
	}
	return nil
}

func (st Step) apply(ed *editing.Editor, root *html.Node, op string) error {
	switch op {
	case "caret":
		p, err := st.Caret.position(root)
		if err != nil {
			return err
		}
		ed.SetCaret(p)
	case "select":
		base, err := st.Select.From.position(root)
		if err != nil {
			return err
		}
		extent, err := st.Select.To.position(root)
		if err != nil {
			return err
		}
		ed.Select(base, extent)
	case "type":
		return ed.InsertText(*st.Type, 0)
	case "key":
		return st.pressKey(ed)
	case "style", "paragraph-style":
		props := st.Style
		if op == "paragraph-style" {
			props = st.ParagraphStyle
		}
		action := editing.EditActionUnspecified
		if st.Action != "" {
			a, ok := editing.ParseEditAction(st.Action)
			if !ok {
				return fmt.Errorf("unknown edit action %q", st.Action)
			}
			action = a
		}
		if op == "paragraph-style" {
			return ed.ApplyParagraphStyle(styleOf(props), action)
		}
		return ed.ApplyStyle(styleOf(props), action)
	case "remove-format":
		return ed.RemoveFormat()
	case "paste":
		return ed.InsertHTML(*st.Paste, 0)
	case "undo":
		for i := 0; i < st.Undo; i++ {
			if err := ed.Undo(); err != nil {
				return err
			}
		}
	case "redo":
		for i := 0; i < st.Redo; i++ {
			if err := ed.Redo(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (st Step) pressKey(ed *editing.Editor) error {
	g, err := parseGranularity(st.Granularity)
	if err != nil {
		return err
	}
	var opts editing.TypingOptions
	if st.Kill {
		opts |= editing.TypingKillRing
	}
	switch st.Key {
	case "enter":
		return ed.InsertParagraphSeparator()
	case "line-break":
		return ed.InsertLineBreak()
	case "quote-break":
		return ed.InsertParagraphSeparatorInQuotedContent()
	case "delete", "backspace":
		return ed.DeleteKeyPressed(g, opts)
	case "forward-delete":
		return ed.ForwardDeleteKeyPressed(g, opts)
	case "yank":
		return ed.Yank()
	}
	return fmt.Errorf("unknown key %q", st.Key)
}

func parseGranularity(s string) (layout.Granularity, error) {
	switch s {
	case "", "character":
		return layout.Character, nil
	case "word":
		return layout.Word, nil
	case "paragraph":
		return layout.Paragraph, nil
	}
	return layout.Character, fmt.Errorf("unknown granularity %q", s)
}

func (p *Point) position(root *html.Node) (dom.Position, error) {
	path, err := dom.ParseNodePath(p.Path)
	if err != nil {
		return dom.NullPosition, err
	}
	n, err := path.Resolve(root)
	if err != nil {
		return dom.NullPosition, err
	}
	if p.Offset < 0 {
		return dom.LastPositionInNode(n), nil
	}
	if p.Offset > dom.MaxOffset(n) {
		return dom.NullPosition, fmt.Errorf("offset %d beyond end of %s: %w", p.Offset, dom.NodeName(n), dom.ErrIndexSize)
	}
	return dom.PositionInNode(n, p.Offset), nil
}

// styleOf creates an editing style with properties in a stable order.
func styleOf(props map[string]string) *editing.EditingStyle {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	s := editing.NewEditingStyle()
	for _, k := range keys {
		s.SetProperty(strings.ToLower(k), style.Property(props[k]))
	}
	return s
}
