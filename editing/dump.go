package editing

import (
	"fmt"
	"strings"

	"github.com/npillmayer/richedit/tree"
	"github.com/xlab/treeprint"
)

// DumpCommandTree renders a command and its child commands, in execution
// order, for debugging.
func DumpCommandTree(cmd EditCommand) string {
	if cmd == nil {
		return "<nil>"
	}
	t := treeprint.NewWithRoot(commandLabel(cmd))
	dumpCommands(t, cmd.base().node)
	return t.String()
}

func dumpCommands(t treeprint.Tree, node *tree.Node[EditCommand]) {
	for _, ch := range node.Children() {
		if ch.ChildCount() > 0 {
			dumpCommands(t.AddBranch(commandLabel(ch.Payload)), ch)
		} else {
			t.AddNode(commandLabel(ch.Payload))
		}
	}
}

func commandLabel(cmd EditCommand) string {
	name := fmt.Sprintf("%T", cmd)
	name = name[strings.LastIndex(name, ".")+1:]
	if a := cmd.EditingAction(); a != EditActionUnspecified {
		return fmt.Sprintf("%s (%s)", name, a)
	}
	return name
}

// DumpComposition lists the simple commands of an undo step.
func DumpComposition(c *EditCommandComposition) string {
	if c == nil {
		return "<nil>"
	}
	t := treeprint.NewWithRoot(c.String())
	for _, cmd := range c.commands {
		t.AddNode(commandLabel(cmd))
	}
	return t.String()
}
