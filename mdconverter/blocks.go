package mdconverter

import (
	"regexp"
	"strings"

	"github.com/rgonek/jira-adf-markdown/converter"
)

var alertMarkerPattern = regexp.MustCompile(`^\[!(NOTE|TIP|IMPORTANT|WARNING|CAUTION)\]`)

var alertPanelTypes = map[string]string{
	"NOTE":      "info",
	"TIP":       "success",
	"IMPORTANT": "note",
	"WARNING":   "warning",
	"CAUTION":   "error",
}

// convertBlockquote converts a blockquote span into a panel when its first
// paragraph opens with a GitHub alert marker, otherwise into a blockquote.
func (s *state) convertBlockquote(c *cursor) converter.Node {
	panelType, ok := alertType(c)
	if !ok {
		content := s.convertBlocks(c)
		if decisions, ok := s.decisionList(content); ok {
			return decisions
		}
		return converter.Node{Type: converter.NodeBlockquote, Content: content}
	}

	var content []converter.Node
	paragraph := c.enter()
	if inline, ok := paragraph.find(TokenInline); ok {
		children := s.convertInline(stripAlertMarker(inline.Children))
		if len(children) > 0 {
			content = append(content, converter.Node{Type: converter.NodeParagraph, Content: children})
		}
	}
	content = append(content, s.convertBlocks(c)...)

	return converter.Node{
		Type:    converter.NodePanel,
		Attrs:   map[string]interface{}{"panelType": panelType},
		Content: content,
	}
}

// alertType reports the panel type when the span starts with a paragraph
// whose text opens with an alert marker.
func alertType(c *cursor) (string, bool) {
	if c.peek().Type != TokenParagraphOpen || c.pos+1 >= len(c.tokens) {
		return "", false
	}
	inline := c.tokens[c.pos+1]
	if inline.Type != TokenInline {
		return "", false
	}
	match := alertMarkerPattern.FindStringSubmatch(strings.TrimSpace(inline.Content))
	if match == nil {
		return "", false
	}
	return alertPanelTypes[match[1]], true
}

// stripAlertMarker drops the marker text and the line break after it.
func stripAlertMarker(children []Token) []Token {
	filtered := make([]Token, 0, len(children))
	skipBreak := false
	for _, child := range children {
		if child.Type == TokenText && strings.HasPrefix(strings.TrimSpace(child.Content), "[!") {
			skipBreak = true
			continue
		}
		if skipBreak && (child.Type == TokenSoftbreak || child.Type == TokenHardbreak) {
			skipBreak = false
			continue
		}
		skipBreak = false
		filtered = append(filtered, child)
	}
	return filtered
}
