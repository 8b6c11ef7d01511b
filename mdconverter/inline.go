package mdconverter

import (
	"regexp"
	"strings"

	"github.com/rgonek/jira-adf-markdown/converter"
)

const unsupportedInline = "Unsupported inline markdown: %s"

var mentionHrefPattern = regexp.MustCompile(`/jira/people/([^/]+)$`)

// convertInline converts the children of an inline token, tracking the
// strong, em and strike marks open at each text run.
func (s *state) convertInline(children []Token) []converter.Node {
	var content []converter.Node
	stack := newMarkStack()
	c := newCursor(children)
	for !c.done() {
		for _, node := range s.convertInlineToken(c, stack) {
			content = appendInlineNode(content, node)
		}
	}
	return content
}

func (s *state) convertInlineToken(c *cursor, stack *markStack) []converter.Node {
	token := c.peek()

	switch token.Type {
	case TokenText:
		c.next()
		return []converter.Node{newTextNode(token.Content, stack.active())}

	case TokenSoftbreak:
		c.next()
		return []converter.Node{newTextNode(" ", stack.active())}

	case TokenHardbreak:
		c.next()
		return []converter.Node{{Type: converter.NodeHardBreak}}

	case TokenStrongOpen, TokenEmOpen, TokenSOpen:
		c.next()
		stack.push(converter.Mark{Type: markForToken(token.Type)})
		return nil

	case TokenStrongClose, TokenEmClose, TokenSClose:
		c.next()
		stack.close(markForToken(token.Type))
		return nil

	case TokenCodeInline:
		c.next()
		return []converter.Node{s.convertCodeInline(token, stack)}

	case TokenLinkOpen:
		return s.convertLink(token, c.enter(), stack)

	case TokenImage:
		c.next()
		return []converter.Node{s.convertImage(token, stack)}

	default:
		c.next()
		s.warnUnsupported(unsupportedInline, token.Type)
		return nil
	}
}

func markForToken(tokenType TokenType) string {
	switch tokenType {
	case TokenStrongOpen, TokenStrongClose:
		return converter.MarkStrong
	case TokenEmOpen, TokenEmClose:
		return converter.MarkEm
	default:
		return converter.MarkStrike
	}
}

// convertCodeInline turns inline code into code-marked text, or into a
// status or date node when tag detection is on.
func (s *state) convertCodeInline(token Token, stack *markStack) converter.Node {
	if node, ok := s.tagNode(token.Content); ok {
		return node
	}

	marks := append([]converter.Mark{{Type: converter.MarkCode}}, stack.links()...)
	return newTextNode(token.Content, marks)
}

// convertLink turns a profile link into a mention and any other link into
// link-marked text.
func (s *state) convertLink(open Token, c *cursor, stack *markStack) []converter.Node {
	href := strings.TrimSpace(open.AttrGet("href"))

	if s.config.MentionDetection == MentionDetectLink {
		if match := mentionHrefPattern.FindStringSubmatch(href); match != nil {
			return []converter.Node{{
				Type: converter.NodeMention,
				Attrs: map[string]interface{}{
					"id":   match[1],
					"text": linkText(c.tokens),
				},
			}}
		}
	}

	if href == "" {
		var content []converter.Node
		for !c.done() {
			content = append(content, s.convertInlineToken(c, stack)...)
		}
		return content
	}

	mark := converter.Mark{
		Type:  converter.MarkLink,
		Attrs: map[string]interface{}{"href": href},
	}
	if title := open.AttrGet("title"); title != "" {
		mark.Attrs["title"] = title
	}

	stack.push(mark)
	var content []converter.Node
	for !c.done() {
		content = append(content, s.convertInlineToken(c, stack)...)
	}
	stack.close(converter.MarkLink)

	if len(content) == 0 {
		marks := append(stack.active(), mark)
		content = append(content, newTextNode(href, marks))
	}
	return content
}

func linkText(tokens []Token) string {
	var sb strings.Builder
	for _, token := range tokens {
		switch token.Type {
		case TokenText, TokenCodeInline:
			sb.WriteString(token.Content)
		case TokenSoftbreak:
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

// convertImage approximates an image as marker-prefixed alt text linking to
// the image source.
func (s *state) convertImage(token Token, stack *markStack) converter.Node {
	src := token.AttrGet("src")
	label := token.AttrGet("alt")
	if label == "" {
		label = src
	}

	marks := stack.active()
	if src != "" {
		marks = append(marks, converter.Mark{
			Type:  converter.MarkLink,
			Attrs: map[string]interface{}{"href": src},
		})
	}
	return newTextNode(s.config.ImageMarker+" "+label, marks)
}
