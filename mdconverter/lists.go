package mdconverter

import (
	"strconv"
	"strings"

	"github.com/rgonek/jira-adf-markdown/converter"
)

// convertList converts a bullet or ordered list span. Each item keeps its
// paragraphs, code blocks and nested lists.
func (s *state) convertList(listType string, open Token, c *cursor) converter.Node {
	list := converter.Node{Type: listType}
	if listType == converter.NodeOrderedList {
		if start, err := strconv.Atoi(open.AttrGet("start")); err == nil && start != 1 {
			list.Attrs = map[string]interface{}{"order": start}
		}
	}

	for !c.done() {
		if c.peek().Type != TokenListItemOpen {
			c.next()
			continue
		}
		list.Content = append(list.Content, converter.Node{
			Type:    converter.NodeListItem,
			Content: s.convertListItem(c.enter()),
		})
	}
	return list
}

func (s *state) convertListItem(c *cursor) []converter.Node {
	var content []converter.Node
	for !c.done() {
		token := c.peek()
		switch token.Type {
		case TokenParagraphOpen:
			if paragraph, ok := s.convertParagraph(c.enter()); ok {
				content = append(content, paragraph)
			}
		case TokenBulletListOpen:
			content = append(content, s.convertList(converter.NodeBulletList, token, c.enter()))
		case TokenOrderedListOpen:
			content = append(content, s.convertList(converter.NodeOrderedList, token, c.enter()))
		case TokenFence, TokenCodeBlock:
			c.next()
			content = append(content, s.convertCodeBlock(token))
		case TokenBlockquoteOpen:
			// Quoted blocks are kept as plain item blocks.
			content = append(content, s.convertListItem(c.enter())...)
		default:
			if _, ok := token.Type.Closer(); ok {
				c.enter()
			} else {
				c.next()
			}
			s.warnUnsupported(unsupportedElement, token.Type)
		}
	}
	return content
}

// convertTaskList converts a task-list span. Items without a checkbox are
// skipped whole; a nested task list becomes a taskList sibling of its
// parent item, the way ADF nests task lists.
func (s *state) convertTaskList(c *cursor) converter.Node {
	taskList := converter.Node{
		Type:  converter.NodeTaskList,
		Attrs: map[string]interface{}{"localId": s.localID()},
	}

	for !c.done() {
		token := c.peek()
		if token.Type != TokenListItemOpen {
			c.next()
			continue
		}
		item := c.enter()
		if token.AttrGet("class") != classTaskListItem {
			continue
		}
		taskList.Content = append(taskList.Content, s.convertTaskItem(item)...)
	}
	return taskList
}

func (s *state) convertTaskItem(c *cursor) []converter.Node {
	taskState := "TODO"
	var content []converter.Node
	var nested []converter.Node

	for !c.done() {
		token := c.peek()
		switch token.Type {
		case TokenParagraphOpen:
			inline, ok := c.enter().find(TokenInline)
			if !ok {
				continue
			}
			children := inline.Children
			if len(children) > 0 && children[0].Type == TokenHTMLInline && len(content) == 0 {
				if strings.Contains(children[0].Content, `checked="checked"`) {
					taskState = "DONE"
				}
				children = children[1:]
			}
			content = appendTaskText(content, s.convertInline(trimLeadingSpace(children)))

		case TokenBlockquoteOpen:
			content = s.appendQuotedTaskText(c.enter(), content)

		case TokenBulletListOpen:
			if token.AttrGet("class") == classTaskList {
				nested = append(nested, s.convertTaskList(c.enter()))
				continue
			}
			c.enter()
			s.warnUnsupported(unsupportedElement, token.Type)

		default:
			if _, ok := token.Type.Closer(); ok {
				c.enter()
			} else {
				c.next()
			}
			s.warnUnsupported(unsupportedElement, token.Type)
		}
	}

	item := converter.Node{
		Type: converter.NodeTaskItem,
		Attrs: map[string]interface{}{
			"localId": s.localID(),
			"state":   taskState,
		},
		Content: content,
	}
	return append([]converter.Node{item}, nested...)
}

// appendQuotedTaskText flattens the paragraphs of a blockquote inside a task
// item into the item's text.
func (s *state) appendQuotedTaskText(c *cursor, content []converter.Node) []converter.Node {
	for !c.done() {
		token := c.peek()
		switch token.Type {
		case TokenParagraphOpen:
			if inline, ok := c.enter().find(TokenInline); ok {
				content = appendTaskText(content, s.convertInline(inline.Children))
			}
		case TokenBlockquoteOpen:
			content = s.appendQuotedTaskText(c.enter(), content)
		default:
			if _, ok := token.Type.Closer(); ok {
				c.enter()
			} else {
				c.next()
			}
			s.warnUnsupported(unsupportedElement, token.Type)
		}
	}
	return content
}

// appendTaskText joins paragraph text into a task item with a single space.
func appendTaskText(content, inline []converter.Node) []converter.Node {
	if len(content) > 0 && len(inline) > 0 {
		content = appendInlineNode(content, converter.Node{Type: converter.NodeText, Text: " "})
	}
	for _, node := range inline {
		content = appendInlineNode(content, node)
	}
	return content
}

// trimLeadingSpace removes the space left between a checkbox and the text.
func trimLeadingSpace(children []Token) []Token {
	if len(children) == 0 || children[0].Type != TokenText {
		return children
	}
	trimmed := strings.TrimLeft(children[0].Content, " ")
	if trimmed == "" {
		return children[1:]
	}
	out := append([]Token{}, children...)
	out[0].Content = trimmed
	return out
}
