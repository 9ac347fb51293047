package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/npillmayer/richedit/editing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><body><h1>Title</h1><div id="ed" contenteditable="true">Hello world</div></body></html>`

func run(t *testing.T, script string, opts runOptions) (string, error) {
	t.Helper()
	if opts.settings == (editing.Settings{}) {
		opts.settings = editing.DefaultSettings()
	}
	var out bytes.Buffer
	err := runEdit(strings.NewReader(page), strings.NewReader(script), opts, &out)
	return strings.TrimSpace(out.String()), err
}

func TestRunTypingScript(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.htmledit")
	defer teardown()
	//
	out, err := run(t, `
steps:
  - caret: { path: "0", offset: 5 }
  - type: ","
  - select: { from: { path: "0", offset: 7 }, to: { path: "0", offset: 12 } }
  - style: { font-weight: bold }
    action: bold
`, runOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Hello, <b>world</b>", out)
}

func TestRunUndoRedo(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.htmledit")
	defer teardown()
	//
	out, err := run(t, `
steps:
  - caret: { path: "0", offset: -1 }
  - type: "!"
  - key: delete
    granularity: word
  - undo: 2
  - redo: 1
`, runOptions{rootID: "ed"})
	require.NoError(t, err)
	assert.Equal(t, "Hello world!", out)
}

func TestRunFullDocument(t *testing.T) {
	out, err := run(t, "steps: []\n", runOptions{full: true})
	require.NoError(t, err)
	assert.Contains(t, out, "<h1>Title</h1>")
}

func TestReadScriptRejectsAmbiguousSteps(t *testing.T) {
	_, err := ReadScript(strings.NewReader("steps:\n  - type: a\n    undo: 1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than one operation")
	_, err = ReadScript(strings.NewReader("steps:\n  - granularity: word\n"))
	assert.Error(t, err)
	_, err = ReadScript(strings.NewReader("steps:\n  - typo: x\n"))
	assert.Error(t, err)
}

func TestRunReportsFailingStep(t *testing.T) {
	_, err := run(t, `
steps:
  - caret: { path: "0", offset: 0 }
  - caret: { path: "3/1", offset: 0 }
`, runOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 2 (caret)")
	_, err = run(t, "steps:\n  - key: escape\n", runOptions{})
	assert.Error(t, err)
}

func TestEditableRootMustExist(t *testing.T) {
	_, err := run(t, "steps: []\n", runOptions{rootID: "nope"})
	assert.Error(t, err)
}

func TestParseTraceLevel(t *testing.T) {
	for _, s := range []string{"error", "Info", "debug"} {
		_, err := parseTraceLevel(s)
		assert.NoError(t, err, s)
	}
	_, err := parseTraceLevel("verbose")
	assert.Error(t, err)
}

func TestRunWritesDiagram(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.htmledit")
	defer teardown()
	//
	var dot bytes.Buffer
	_, err := run(t, `
steps:
  - caret: { path: "0", offset: 5 }
  - type: "!"
`, runOptions{dot: &dot})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dot.String(), "digraph g {"))
	assert.Contains(t, dot.String(), `label="div"`)
	assert.Contains(t, dot.String(), `xlabel="caret"`)
}
