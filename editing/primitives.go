package editing

import (
	"github.com/npillmayer/richedit/dom"
	"github.com/npillmayer/richedit/dom/style"
	"github.com/npillmayer/richedit/dom/style/cssom/douceuradapter"
	"golang.org/x/net/html"
)

// Simple commands. Each performs one mutation of the document and knows
// how to revert it. A simple command does nothing if the nodes it operates
// on are not editable (any more); it raises an InvariantViolation if it is
// asked for something structurally impossible.

// --- Insert node before ----------------------------------------------------

type insertNodeBeforeCommand struct {
	SimpleEditCommand
	node, ref *html.Node
}

func newInsertNodeBeforeCommand(ed *Editor, node, ref *html.Node) *insertNodeBeforeCommand {
	cmd := &insertNodeBeforeCommand{node: node, ref: ref}
	cmd.init(ed, cmd)
	if node == nil || ref == nil {
		violation("insert node before", nil, "missing node")
	}
	if node.Parent != nil {
		violation("insert node before", dom.ErrHierarchy, "%s is still attached", dom.NodeName(node))
	}
	if dom.IsElement(ref, "body", "html") || ref.Type == html.DocumentNode {
		violation("insert node before", dom.ErrHierarchy, "cannot insert before <%s>", dom.NodeName(ref))
	}
	return cmd
}

func (cmd *insertNodeBeforeCommand) doApply() {
	parent := cmd.ref.Parent
	if parent == nil || !dom.IsContentEditable(parent) {
		tracer().Infof("insert node before: %s not in editable content", dom.NodeName(cmd.ref))
		return
	}
	check("insert node before", cmd.doc().InsertBefore(parent, cmd.node, cmd.ref))
}

func (cmd *insertNodeBeforeCommand) doUnapply() {
	if cmd.node.Parent == nil || !dom.IsContentEditable(cmd.node) {
		return
	}
	check("insert node before", cmd.doc().RemoveChild(cmd.node.Parent, cmd.node))
}

// --- Append node -----------------------------------------------------------

type appendNodeCommand struct {
	SimpleEditCommand
	parent, node *html.Node
}

func newAppendNodeCommand(ed *Editor, parent, node *html.Node) *appendNodeCommand {
	cmd := &appendNodeCommand{parent: parent, node: node}
	cmd.init(ed, cmd)
	if parent == nil || node == nil {
		violation("append node", nil, "missing node")
	}
	if node.Parent != nil {
		violation("append node", dom.ErrHierarchy, "%s is still attached", dom.NodeName(node))
	}
	if !dom.CanHaveChildren(parent) {
		violation("append node", dom.ErrHierarchy, "<%s> cannot have children", dom.NodeName(parent))
	}
	return cmd
}

func (cmd *appendNodeCommand) doApply() {
	if !dom.IsContentEditable(cmd.parent) {
		tracer().Infof("append node: %s not editable", dom.NodeName(cmd.parent))
		return
	}
	check("append node", cmd.doc().AppendChild(cmd.parent, cmd.node))
}

func (cmd *appendNodeCommand) doUnapply() {
	if !dom.IsContentEditable(cmd.parent) || cmd.node.Parent != cmd.parent {
		return
	}
	check("append node", cmd.doc().RemoveChild(cmd.parent, cmd.node))
}

// --- Remove node -----------------------------------------------------------

type removeNodeCommand struct {
	SimpleEditCommand
	node        *html.Node
	parent, ref *html.Node // recorded on apply
}

func newRemoveNodeCommand(ed *Editor, node *html.Node) *removeNodeCommand {
	cmd := &removeNodeCommand{node: node}
	cmd.init(ed, cmd)
	if node == nil {
		violation("remove node", nil, "missing node")
	}
	return cmd
}

func (cmd *removeNodeCommand) doApply() {
	parent := cmd.node.Parent
	if parent == nil || !dom.IsContentEditable(parent) {
		tracer().Infof("remove node: %s not in editable content", dom.NodeName(cmd.node))
		return
	}
	cmd.parent, cmd.ref = parent, cmd.node.NextSibling
	check("remove node", cmd.doc().RemoveChild(parent, cmd.node))
}

func (cmd *removeNodeCommand) doUnapply() {
	parent, ref := cmd.parent, cmd.ref
	cmd.parent, cmd.ref = nil, nil
	if parent == nil || !dom.IsContentEditable(parent) {
		return
	}
	check("remove node", cmd.doc().InsertBefore(parent, cmd.node, ref))
}

// --- Split text node -------------------------------------------------------

// splitTextNodeCommand splits a text node into a new prefix node, inserted
// before it, and the remaining suffix.
type splitTextNodeCommand struct {
	SimpleEditCommand
	text   *html.Node // keeps the suffix
	offset int
	prefix *html.Node // created on first apply
}

func newSplitTextNodeCommand(ed *Editor, text *html.Node, offset int) *splitTextNodeCommand {
	cmd := &splitTextNodeCommand{text: text, offset: offset}
	cmd.init(ed, cmd)
	if !dom.IsText(text) {
		violation("split text node", dom.ErrHierarchy, "not a text node")
	}
	if offset <= 0 || offset >= dom.TextLength(text) {
		violation("split text node", dom.ErrIndexSize, "offset %d not inside text of length %d",
			offset, dom.TextLength(text))
	}
	return cmd
}

func (cmd *splitTextNodeCommand) doApply() {
	parent := cmd.text.Parent
	if parent == nil || !dom.IsContentEditable(parent) {
		tracer().Infof("split text node: text not in editable content")
		return
	}
	prefix := dom.Substring(cmd.text.Data, 0, cmd.offset)
	if prefix == "" {
		return
	}
	cmd.prefix = dom.CreateText(prefix)
	cmd.insertPrefixAndTrimText()
}

func (cmd *splitTextNodeCommand) insertPrefixAndTrimText() {
	check("split text node", cmd.doc().InsertBefore(cmd.text.Parent, cmd.prefix, cmd.text))
	check("split text node", cmd.doc().DeleteData(cmd.text, 0, cmd.offset))
}

func (cmd *splitTextNodeCommand) doUnapply() {
	if cmd.prefix == nil || cmd.prefix.Parent == nil || !dom.IsContentEditable(cmd.prefix) {
		return
	}
	check("split text node", cmd.doc().InsertData(cmd.text, 0, cmd.prefix.Data))
	check("split text node", cmd.doc().RemoveChild(cmd.prefix.Parent, cmd.prefix))
}

func (cmd *splitTextNodeCommand) doReapply() {
	if cmd.prefix == nil {
		return
	}
	parent := cmd.text.Parent
	if parent == nil || !dom.IsContentEditable(parent) {
		return
	}
	cmd.insertPrefixAndTrimText()
}

// --- Join text nodes -------------------------------------------------------

// joinTextNodesCommand prepends the text of a node to its next sibling
// and removes it.
type joinTextNodesCommand struct {
	SimpleEditCommand
	first, second *html.Node
}

func newJoinTextNodesCommand(ed *Editor, first, second *html.Node) *joinTextNodesCommand {
	cmd := &joinTextNodesCommand{first: first, second: second}
	cmd.init(ed, cmd)
	if !dom.IsText(first) || !dom.IsText(second) {
		violation("join text nodes", dom.ErrHierarchy, "not a text node")
	}
	return cmd
}

func (cmd *joinTextNodesCommand) doApply() {
	if cmd.first.NextSibling != cmd.second {
		return
	}
	parent := cmd.second.Parent
	if parent == nil || !dom.IsContentEditable(parent) {
		return
	}
	check("join text nodes", cmd.doc().InsertData(cmd.second, 0, cmd.first.Data))
	check("join text nodes", cmd.doc().RemoveChild(parent, cmd.first))
}

func (cmd *joinTextNodesCommand) doUnapply() {
	if cmd.first.Parent != nil {
		return
	}
	parent := cmd.second.Parent
	if parent == nil || !dom.IsContentEditable(parent) {
		return
	}
	check("join text nodes", cmd.doc().InsertBefore(parent, cmd.first, cmd.second))
	check("join text nodes", cmd.doc().DeleteData(cmd.second, 0, dom.TextLength(cmd.first)))
}

// --- Insert into / delete from text node -----------------------------------

type insertIntoTextNodeCommand struct {
	SimpleEditCommand
	node   *html.Node
	offset int
	text   string
}

func newInsertIntoTextNodeCommand(ed *Editor, node *html.Node, offset int, text string) *insertIntoTextNodeCommand {
	cmd := &insertIntoTextNodeCommand{node: node, offset: offset, text: text}
	cmd.init(ed, cmd)
	if !dom.IsText(node) {
		violation("insert into text node", dom.ErrHierarchy, "not a text node")
	}
	if offset < 0 || offset > dom.TextLength(node) {
		violation("insert into text node", dom.ErrIndexSize, "offset %d out of range", offset)
	}
	return cmd
}

func (cmd *insertIntoTextNodeCommand) doApply() {
	if !dom.IsContentEditable(cmd.node) {
		tracer().Infof("insert into text node: text not editable")
		return
	}
	check("insert into text node", cmd.doc().InsertData(cmd.node, cmd.offset, cmd.text))
}

func (cmd *insertIntoTextNodeCommand) doUnapply() {
	if !dom.IsContentEditable(cmd.node) {
		return
	}
	check("insert into text node", cmd.doc().DeleteData(cmd.node, cmd.offset, len([]rune(cmd.text))))
}

type deleteFromTextNodeCommand struct {
	SimpleEditCommand
	node          *html.Node
	offset, count int
	deleted       string // recorded on apply
}

func newDeleteFromTextNodeCommand(ed *Editor, node *html.Node, offset, count int) *deleteFromTextNodeCommand {
	cmd := &deleteFromTextNodeCommand{node: node, offset: offset, count: count}
	cmd.init(ed, cmd)
	if !dom.IsText(node) {
		violation("delete from text node", dom.ErrHierarchy, "not a text node")
	}
	if offset < 0 || count < 0 || offset+count > dom.TextLength(node) {
		violation("delete from text node", dom.ErrIndexSize, "range [%d,%d) out of range", offset, offset+count)
	}
	return cmd
}

func (cmd *deleteFromTextNodeCommand) doApply() {
	if !dom.IsContentEditable(cmd.node) {
		tracer().Infof("delete from text node: text not editable")
		return
	}
	cmd.deleted = dom.Substring(cmd.node.Data, cmd.offset, cmd.offset+cmd.count)
	check("delete from text node", cmd.doc().DeleteData(cmd.node, cmd.offset, cmd.count))
}

func (cmd *deleteFromTextNodeCommand) doUnapply() {
	if !dom.IsContentEditable(cmd.node) {
		return
	}
	check("delete from text node", cmd.doc().InsertData(cmd.node, cmd.offset, cmd.deleted))
}

// --- Attributes ------------------------------------------------------------

// setNodeAttributeCommand sets or removes an attribute.
type setNodeAttributeCommand struct {
	SimpleEditCommand
	elem     *html.Node
	name     string
	value    string
	remove   bool
	oldValue string // recorded on apply
	hadValue bool
}

func newSetNodeAttributeCommand(ed *Editor, elem *html.Node, name, value string) *setNodeAttributeCommand {
	cmd := &setNodeAttributeCommand{elem: elem, name: name, value: value}
	cmd.init(ed, cmd)
	if elem == nil || elem.Type != html.ElementNode {
		violation("set attribute", dom.ErrHierarchy, "not an element")
	}
	return cmd
}

func newRemoveNodeAttributeCommand(ed *Editor, elem *html.Node, name string) *setNodeAttributeCommand {
	cmd := newSetNodeAttributeCommand(ed, elem, name, "")
	cmd.remove = true
	return cmd
}

func (cmd *setNodeAttributeCommand) doApply() {
	cmd.oldValue, cmd.hadValue = dom.AttributeValue(cmd.elem, cmd.name)
	cmd.set(cmd.value, !cmd.remove)
}

func (cmd *setNodeAttributeCommand) doUnapply() {
	cmd.set(cmd.oldValue, cmd.hadValue)
	cmd.oldValue, cmd.hadValue = "", false
}

func (cmd *setNodeAttributeCommand) set(value string, present bool) {
	if present {
		check("set attribute", cmd.doc().SetAttribute(cmd.elem, cmd.name, value))
	} else {
		check("set attribute", cmd.doc().RemoveAttribute(cmd.elem, cmd.name))
	}
}

// removeCSSPropertyCommand removes a single property from the inline style
// of an element. The style attribute is removed when it becomes empty.
type removeCSSPropertyCommand struct {
	SimpleEditCommand
	elem     *html.Node
	property string
	oldStyle string // recorded on apply
	hadStyle bool
}

func newRemoveCSSPropertyCommand(ed *Editor, elem *html.Node, property string) *removeCSSPropertyCommand {
	cmd := &removeCSSPropertyCommand{elem: elem, property: property}
	cmd.init(ed, cmd)
	if elem == nil || elem.Type != html.ElementNode {
		violation("remove CSS property", dom.ErrHierarchy, "not an element")
	}
	return cmd
}

func (cmd *removeCSSPropertyCommand) doApply() {
	cmd.oldStyle, cmd.hadStyle = dom.AttributeValue(cmd.elem, "style")
	if !cmd.hadStyle {
		return
	}
	decls := douceuradapter.MustParseInlineStyle(cmd.oldStyle)
	if !decls.Remove(cmd.property) {
		return
	}
	if decls.IsEmpty() {
		check("remove CSS property", cmd.doc().RemoveAttribute(cmd.elem, "style"))
		return
	}
	check("remove CSS property", cmd.doc().SetAttribute(cmd.elem, "style", decls.Text()))
}

func (cmd *removeCSSPropertyCommand) doUnapply() {
	if !cmd.hadStyle {
		return
	}
	check("remove CSS property", cmd.doc().SetAttribute(cmd.elem, "style", cmd.oldStyle))
}

// inlineStyle returns the parsed inline style of an element; it is empty
// if the element has no style attribute.
func inlineStyle(elem *html.Node) *style.PropertySet {
	if v, ok := dom.AttributeValue(elem, "style"); ok {
		return douceuradapter.MustParseInlineStyle(v)
	}
	return style.NewPropertySet()
}

// --- Element structure -----------------------------------------------------

// splitElementCommand splits an element in front of one of its children.
// A shallow clone of the element is inserted before it and receives the
// children in front of atChild. The element keeps its id, the clone gets
// it while both exist.
type splitElementCommand struct {
	SimpleEditCommand
	elem    *html.Node // becomes the second half
	atChild *html.Node
	clone   *html.Node // the first half, created on first apply
}

func newSplitElementCommand(ed *Editor, elem, atChild *html.Node) *splitElementCommand {
	cmd := &splitElementCommand{elem: elem, atChild: atChild}
	cmd.init(ed, cmd)
	if elem == nil || atChild == nil || atChild.Parent != elem {
		violation("split element", dom.ErrNotFound, "split point is not a child of the element")
	}
	return cmd
}

func (cmd *splitElementCommand) doApply() {
	cmd.clone = dom.CloneNode(cmd.elem, false)
	cmd.executeApply()
}

func (cmd *splitElementCommand) executeApply() {
	if cmd.atChild.Parent != cmd.elem {
		return
	}
	var moving []*html.Node
	for n := cmd.elem.FirstChild; n != cmd.atChild; n = n.NextSibling {
		moving = append(moving, n)
	}
	parent := cmd.elem.Parent
	if parent == nil || !dom.IsContentEditable(parent) {
		tracer().Infof("split element: %s not in editable content", dom.NodeName(cmd.elem))
		return
	}
	check("split element", cmd.doc().InsertBefore(parent, cmd.clone, cmd.elem))
	// the same id cannot be used for more than one element
	check("split element", cmd.doc().RemoveAttribute(cmd.elem, "id"))
	for _, n := range moving {
		check("split element", cmd.doc().AppendChild(cmd.clone, n))
	}
}

func (cmd *splitElementCommand) doUnapply() {
	if cmd.clone == nil || !dom.IsContentEditable(cmd.clone) || !dom.IsContentEditable(cmd.elem) {
		return
	}
	ref := cmd.elem.FirstChild
	for _, n := range dom.Children(cmd.clone) {
		check("split element", cmd.doc().InsertBefore(cmd.elem, n, ref))
	}
	if id, ok := dom.AttributeValue(cmd.clone, "id"); ok {
		check("split element", cmd.doc().SetAttribute(cmd.elem, "id", id))
	}
	check("split element", cmd.doc().RemoveChild(cmd.clone.Parent, cmd.clone))
}

func (cmd *splitElementCommand) doReapply() {
	if cmd.clone == nil {
		return
	}
	cmd.executeApply()
}

// mergeIdenticalElementsCommand moves the children of an element to the
// front of its next sibling and removes it.
type mergeIdenticalElementsCommand struct {
	SimpleEditCommand
	first, second *html.Node
	atChild       *html.Node // first original child of second, recorded on apply
}

func newMergeIdenticalElementsCommand(ed *Editor, first, second *html.Node) *mergeIdenticalElementsCommand {
	cmd := &mergeIdenticalElementsCommand{first: first, second: second}
	cmd.init(ed, cmd)
	if first == nil || second == nil || first.NextSibling != second {
		violation("merge identical elements", dom.ErrHierarchy, "elements are not adjacent siblings")
	}
	return cmd
}

func (cmd *mergeIdenticalElementsCommand) doApply() {
	if cmd.first.NextSibling != cmd.second || !dom.IsContentEditable(cmd.first) || !dom.IsContentEditable(cmd.second) {
		return
	}
	cmd.atChild = cmd.second.FirstChild
	for _, n := range dom.Children(cmd.first) {
		check("merge identical elements", cmd.doc().InsertBefore(cmd.second, n, cmd.atChild))
	}
	check("merge identical elements", cmd.doc().RemoveChild(cmd.first.Parent, cmd.first))
}

func (cmd *mergeIdenticalElementsCommand) doUnapply() {
	atChild := cmd.atChild
	cmd.atChild = nil
	parent := cmd.second.Parent
	if parent == nil || !dom.IsContentEditable(parent) {
		return
	}
	check("merge identical elements", cmd.doc().InsertBefore(parent, cmd.first, cmd.second))
	var moving []*html.Node
	for n := cmd.second.FirstChild; n != nil && n != atChild; n = n.NextSibling {
		moving = append(moving, n)
	}
	for _, n := range moving {
		check("merge identical elements", cmd.doc().AppendChild(cmd.first, n))
	}
}

// replaceNodeWithSpanCommand swaps an element for a <span>, keeping its
// attributes and children.
type replaceNodeWithSpanCommand struct {
	SimpleEditCommand
	elem *html.Node
	span *html.Node // created on first apply
}

func newReplaceNodeWithSpanCommand(ed *Editor, elem *html.Node) *replaceNodeWithSpanCommand {
	cmd := &replaceNodeWithSpanCommand{elem: elem}
	cmd.init(ed, cmd)
	if elem == nil || elem.Type != html.ElementNode {
		violation("replace node with span", dom.ErrHierarchy, "not an element")
	}
	return cmd
}

func (cmd *replaceNodeWithSpanCommand) doApply() {
	if !cmd.doc().Contains(cmd.elem) {
		return
	}
	if cmd.span == nil {
		cmd.span = dom.CreateElement("span")
	}
	cmd.swap(cmd.span, cmd.elem)
}

func (cmd *replaceNodeWithSpanCommand) doUnapply() {
	if cmd.span == nil || !cmd.doc().Contains(cmd.span) {
		return
	}
	cmd.swap(cmd.elem, cmd.span)
}

// swap puts replacement in place of n, with n's attributes and children.
func (cmd *replaceNodeWithSpanCommand) swap(replacement, n *html.Node) {
	parent := n.Parent
	replacement.Attr = append([]html.Attribute(nil), n.Attr...)
	check("replace node with span", cmd.doc().InsertBefore(parent, replacement, n))
	for _, ch := range dom.Children(n) {
		check("replace node with span", cmd.doc().AppendChild(replacement, ch))
	}
	check("replace node with span", cmd.doc().RemoveChild(parent, n))
}

// wrapContentsInSpanCommand moves all children of an element into a new
// <span>, which becomes the element's only child.
type wrapContentsInSpanCommand struct {
	SimpleEditCommand
	elem *html.Node
	span *html.Node // created on first apply
}

func newWrapContentsInSpanCommand(ed *Editor, elem *html.Node) *wrapContentsInSpanCommand {
	cmd := &wrapContentsInSpanCommand{elem: elem}
	cmd.init(ed, cmd)
	return cmd
}

func (cmd *wrapContentsInSpanCommand) doApply() {
	if cmd.span == nil {
		cmd.span = dom.CreateElement("span")
	}
	if !dom.IsContentEditable(cmd.elem) {
		return
	}
	for _, ch := range dom.Children(cmd.elem) {
		check("wrap contents", cmd.doc().AppendChild(cmd.span, ch))
	}
	check("wrap contents", cmd.doc().AppendChild(cmd.elem, cmd.span))
}

func (cmd *wrapContentsInSpanCommand) doUnapply() {
	if cmd.span == nil || cmd.span.Parent != cmd.elem || !dom.IsContentEditable(cmd.elem) {
		return
	}
	for _, ch := range dom.Children(cmd.span) {
		check("wrap contents", cmd.doc().InsertBefore(cmd.elem, ch, cmd.span))
	}
	check("wrap contents", cmd.doc().RemoveChild(cmd.elem, cmd.span))
}
