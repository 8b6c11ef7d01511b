package mdconverter

import (
	"maps"

	"github.com/rgonek/jira-adf-markdown/converter"
)

// markStack tracks the strong, em, strike and link marks opened by the
// inline walker. Every text run between an opener and its closer carries
// the mark, in opening order.
type markStack struct {
	open []converter.Mark
}

func newMarkStack() *markStack {
	return &markStack{}
}

func (s *markStack) push(mark converter.Mark) {
	mark.Attrs = maps.Clone(mark.Attrs)
	s.open = append(s.open, mark)
}

// close ends the innermost mark of the given type. goldmark pairs emphasis
// delimiters itself, so a closer normally matches the top of the stack; a
// link may still close around emphasis left open inside it.
func (s *markStack) close(markType string) {
	for i := len(s.open) - 1; i >= 0; i-- {
		if s.open[i].Type == markType {
			s.open = append(s.open[:i], s.open[i+1:]...)
			return
		}
	}
}

// active returns a copy of the open marks for a new text node.
func (s *markStack) active() []converter.Mark {
	if len(s.open) == 0 {
		return nil
	}
	marks := make([]converter.Mark, len(s.open))
	for i, mark := range s.open {
		marks[i] = converter.Mark{Type: mark.Type, Attrs: maps.Clone(mark.Attrs)}
	}
	return marks
}

// links returns the open link marks. Inline code drops every other mark.
func (s *markStack) links() []converter.Mark {
	var marks []converter.Mark
	for _, mark := range s.active() {
		if mark.Type == converter.MarkLink {
			marks = append(marks, mark)
		}
	}
	return marks
}

func marksEqual(left, right []converter.Mark) bool {
	if len(left) != len(right) {
		return false
	}
	for i := range left {
		if left[i].Type != right[i].Type || !maps.Equal(left[i].Attrs, right[i].Attrs) {
			return false
		}
	}
	return true
}

func newTextNode(textValue string, marks []converter.Mark) converter.Node {
	node := converter.Node{
		Type: converter.NodeText,
		Text: textValue,
	}
	if len(marks) > 0 {
		node.Marks = marks
	}
	return node
}

// appendInlineNode appends next, merging it into a preceding text node with
// the same marks. Empty text is dropped.
func appendInlineNode(content []converter.Node, next converter.Node) []converter.Node {
	if next.Type == converter.NodeText && next.Text == "" {
		return content
	}

	if len(content) == 0 {
		return append(content, next)
	}

	last := &content[len(content)-1]
	if last.Type == converter.NodeText && next.Type == converter.NodeText && marksEqual(last.Marks, next.Marks) {
		last.Text += next.Text
		return content
	}

	return append(content, next)
}
