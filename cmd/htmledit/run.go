package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/npillmayer/richedit/dom"
	"github.com/npillmayer/richedit/dom/domdbg"
	"github.com/npillmayer/richedit/dom/style/cssom"
	"github.com/npillmayer/richedit/dom/style/cssom/douceuradapter"
	"github.com/npillmayer/richedit/editing"
	"github.com/spf13/cobra"
	"golang.org/x/net/html"
)

var runCmd = &cobra.Command{
	Use:   "run <document.html> <script.yaml>",
	Short: "Apply an edit script to a document",
	Long: `Apply the steps of an edit script to the editable root of an HTML document
and print the markup of the root afterwards. Use "-" to read the script from
standard input.`,
	Args: cobra.ExactArgs(2),
	RunE: runEditScript,
}

func init() {
	runCmd.Flags().String("root", "", "id of the editable root (default: first contenteditable element)")
	runCmd.Flags().Bool("full", false, "print the whole document instead of the editable root")
	runCmd.Flags().Bool("dump", false, "dump the DOM and the last edit command to stderr")
	runCmd.Flags().String("dot", "", "write a GraphViz diagram of the edited root to a file")
	runCmd.Flags().StringSlice("stylesheet", nil, "additional CSS style sheet files")
	rootCmd.AddCommand(runCmd)
}

type runOptions struct {
	rootID   string
	full     bool
	dump     io.Writer // nil for no dumps
	dot      io.Writer // nil for no diagram
	settings editing.Settings
	sheets   []cssom.StyleSheet // in addition to the <style> elements
}

func runEditScript(cmd *cobra.Command, args []string) error {
	s, err := settings()
	if err != nil {
		return err
	}
	opts := runOptions{settings: s}
	opts.rootID, _ = cmd.Flags().GetString("root")
	opts.full, _ = cmd.Flags().GetBool("full")
	if dump, _ := cmd.Flags().GetBool("dump"); dump {
		opts.dump = cmd.ErrOrStderr()
	}
	if dotFile, _ := cmd.Flags().GetString("dot"); dotFile != "" {
		f, err := os.Create(dotFile)
		if err != nil {
			return fmt.Errorf("creating diagram file: %w", err)
		}
		defer f.Close()
		opts.dot = f
	}
	files, _ := cmd.Flags().GetStringSlice("stylesheet")
	if opts.sheets, err = loadStyleSheets(files); err != nil {
		return err
	}
	docFile, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening document: %w", err)
	}
	defer docFile.Close()
	var script io.Reader = cmd.InOrStdin()
	if args[1] != "-" {
		f, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("opening edit script: %w", err)
		}
		defer f.Close()
		script = f
	}
	return runEdit(docFile, script, opts, cmd.OutOrStdout())
}

// runEdit loads a document, runs a script on it and writes the result to out.
func runEdit(document, script io.Reader, opts runOptions, out io.Writer) error {
	doc, err := dom.Parse(document)
	if err != nil {
		return err
	}
	s, err := ReadScript(script)
	if err != nil {
		return err
	}
	root, err := editableRoot(doc, opts.rootID)
	if err != nil {
		return err
	}
	ed := editing.NewEditor(doc, editing.WithSettings(opts.settings), editing.WithStyleSheets(opts.sheets...))
	defer ed.Close()
	ed.SetCaret(dom.FirstPositionInNode(root))
	runErr := s.Run(ed, root)
	if opts.dump != nil {
		fmt.Fprintf(opts.dump, "%s\n%s\n", dom.DumpTree(root), editing.DumpCommandTree(ed.LastEditCommand()))
	}
	if runErr != nil {
		return runErr
	}
	if opts.dot != nil {
		marks := map[*html.Node]string{}
		switch sel := ed.Selection(); {
		case sel.IsCaret():
			marks[sel.Start().ContainerNode()] = "caret"
		case sel.IsRange():
			marks[sel.End().ContainerNode()] = "end"
			if n := sel.Start().ContainerNode(); marks[n] != "" {
				marks[n] = "start end"
			} else {
				marks[n] = "start"
			}
		}
		if err := domdbg.ToGraphViz(root, ed.Styles(), opts.dot, domdbg.Options{Highlight: marks}); err != nil {
			return err
		}
	}
	if opts.full {
		_, err = fmt.Fprintln(out, dom.Markup(doc.Root()))
	} else {
		_, err = fmt.Fprintln(out, dom.InnerMarkup(root))
	}
	return err
}

func editableRoot(doc *dom.Document, id string) (*html.Node, error) {
	if id != "" {
		n := doc.ElementByID(id)
		if n == nil {
			return nil, fmt.Errorf("no element with id %q: %w", id, dom.ErrNotFound)
		}
		if !dom.IsRichlyEditable(n) {
			return nil, fmt.Errorf("element %q: %w", id, dom.ErrNotEditable)
		}
		return dom.RootEditableElement(n), nil
	}
	n := dom.FindFirst(doc.Root(), func(n *html.Node) bool {
		return n.Type == html.ElementNode && dom.IsRichlyEditable(n)
	})
	if n == nil {
		return nil, errors.New("document has no editable content")
	}
	return n, nil
}

func loadStyleSheets(files []string) ([]cssom.StyleSheet, error) {
	var sheets []cssom.StyleSheet
	for _, f := range files {
		text, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("reading style sheet: %w", err)
		}
		sheet, err := douceuradapter.ParseStyleSheet(string(text))
		if err != nil {
			return nil, fmt.Errorf("style sheet %s: %w", f, err)
		}
		sheets = append(sheets, sheet)
	}
	return sheets, nil
}
