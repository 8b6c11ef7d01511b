package mdconverter

import (
	"strconv"
	"strings"

	"github.com/rgonek/jira-adf-markdown/converter"
)

const unsupportedElement = "Unsupported markdown element: %s"

// convertBlocks walks block tokens until the cursor is exhausted.
func (s *state) convertBlocks(c *cursor) []converter.Node {
	var content []converter.Node

	for !c.done() {
		token := c.peek()

		switch token.Type {
		case TokenHeadingOpen:
			content = append(content, s.convertHeading(token, c.enter()))

		case TokenParagraphOpen:
			if paragraph, ok := s.convertParagraph(c.enter()); ok {
				content = append(content, paragraph)
			}

		case TokenBlockquoteOpen:
			content = append(content, s.convertBlockquote(c.enter()))

		case TokenHr:
			c.next()
			content = append(content, converter.Node{Type: converter.NodeRule})

		case TokenBulletListOpen:
			if token.AttrGet("class") == classTaskList {
				content = append(content, s.convertTaskList(c.enter()))
				continue
			}
			content = append(content, s.convertList(converter.NodeBulletList, token, c.enter()))

		case TokenOrderedListOpen:
			content = append(content, s.convertList(converter.NodeOrderedList, token, c.enter()))

		case TokenFence, TokenCodeBlock:
			c.next()
			content = append(content, s.convertCodeBlock(token))

		case TokenTableOpen:
			content = append(content, s.convertTable(c.enter()))

		case TokenInline, TokenSoftbreak, TokenHardbreak,
			TokenParagraphClose, TokenHeadingClose, TokenBulletListClose,
			TokenOrderedListClose, TokenListItemClose, TokenBlockquoteClose:
			c.next()

		default:
			c.next()
			s.warnUnsupported(unsupportedElement, token.Type)
		}
	}

	return content
}

func (s *state) convertHeading(open Token, c *cursor) converter.Node {
	level, _ := strconv.Atoi(strings.TrimPrefix(open.Tag, "h"))
	level += s.config.HeadingOffset
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}

	var content []converter.Node
	if inline, ok := c.find(TokenInline); ok {
		content = s.convertInline(inline.Children)
	}
	return converter.Node{
		Type:    converter.NodeHeading,
		Attrs:   map[string]interface{}{"level": level},
		Content: content,
	}
}

// convertParagraph converts a paragraph span; empty paragraphs are dropped.
func (s *state) convertParagraph(c *cursor) (converter.Node, bool) {
	inline, ok := c.find(TokenInline)
	if !ok {
		return converter.Node{}, false
	}
	content := s.convertInline(inline.Children)
	if len(content) == 0 {
		return converter.Node{}, false
	}
	return converter.Node{Type: converter.NodeParagraph, Content: content}, true
}

func (s *state) convertCodeBlock(token Token) converter.Node {
	attrs := map[string]interface{}{}
	if language := strings.TrimSpace(token.Info); language != "" && token.Type == TokenFence {
		if mapped, ok := s.config.LanguageMap[language]; ok {
			language = mapped
		}
		attrs["language"] = language
	}

	node := converter.Node{Type: converter.NodeCodeBlock, Attrs: attrs}
	if code := strings.TrimSuffix(token.Content, "\n"); code != "" {
		node.Content = []converter.Node{{Type: converter.NodeText, Text: code}}
	}
	return node
}
