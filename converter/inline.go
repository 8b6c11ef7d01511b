package converter

import (
	"fmt"
	"strings"
)

// convertInlineContent renders inline nodes, keeping marks open across
// adjacent text nodes that share them.
func (s *state) convertInlineContent(content []Node) string {
	var sb strings.Builder
	var activeMarks []Mark

	useUnderscoreForEm := hasStrongAndEm(content)

	closeMarks := func(marks []Mark) {
		for i := len(marks) - 1; i >= 0; i-- {
			_, closing := s.convertMark(marks[i], useUnderscoreForEm)
			sb.WriteString(closing)
		}
	}

	for _, node := range content {
		if node.Type != NodeText {
			closeMarks(activeMarks)
			activeMarks = nil
			sb.WriteString(s.convertInlineNode(node))
			continue
		}
		if node.Text == "" {
			continue
		}

		currentMarks := orderMarks(node.Marks)
		closeMarks(s.getMarksToClose(activeMarks, currentMarks))
		for _, mark := range s.getMarksToOpen(activeMarks, currentMarks) {
			opening, _ := s.convertMark(mark, useUnderscoreForEm)
			sb.WriteString(opening)
		}
		sb.WriteString(node.Text)
		activeMarks = currentMarks
	}
	closeMarks(activeMarks)

	return sb.String()
}

// hasStrongAndEm checks if any text node in content has both strong and em marks
func hasStrongAndEm(content []Node) bool {
	for _, node := range content {
		if node.Type == NodeText && node.HasMark(MarkStrong) && node.HasMark(MarkEm) {
			return true
		}
	}
	return false
}

// convertInlineNode renders a non-text inline node.
func (s *state) convertInlineNode(node Node) string {
	switch node.Type {
	case NodeHardBreak:
		if s.config.HardBreakStyle == HardBreakHTML {
			return "<br>"
		}
		return "\\\n"
	case NodeEmoji:
		return s.convertEmoji(node)
	case NodeMention:
		return s.convertMention(node)
	case NodeInlineCard:
		return s.convertInlineCard(node)
	case NodeMedia:
		return s.convertMedia(node)
	default:
		return s.convertUnknown(node)
	}
}

// convertEmoji converts an emoji node to a shortcode or fallback
func (s *state) convertEmoji(node Node) string {
	if shortName := node.GetStringAttr("shortName", ""); shortName != "" {
		return shortName
	}
	if fallback := node.GetStringAttr("fallback", ""); fallback != "" {
		return fallback
	}
	s.addWarning(WarningMissingAttribute, node.Type, "emoji missing shortName and fallback")
	return ""
}

// convertMention renders a mention that could not become a profile link.
func (s *state) convertMention(node Node) string {
	name := strings.TrimPrefix(mentionName(node), "@")
	if name == "" {
		s.addWarning(WarningMissingAttribute, node.Type, "mention missing display text")
		name = "Unknown User"
	}
	return "@" + name
}

// convertInlineCard converts an inlineCard node
func (s *state) convertInlineCard(node Node) string {
	if url := node.GetStringAttr("url", ""); url != "" {
		return fmt.Sprintf("[%s](%s)", url, url)
	}

	if data, ok := node.Attrs["data"].(map[string]interface{}); ok {
		name, _ := data["name"].(string)
		dataURL, _ := data["url"].(string)
		switch {
		case name != "" && dataURL != "":
			return fmt.Sprintf("[%s](%s)", name, dataURL)
		case dataURL != "":
			return fmt.Sprintf("[%s](%s)", dataURL, dataURL)
		case name != "":
			return name
		}
	}

	s.addWarning(WarningMissingAttribute, node.Type, "inlineCard missing url and data")
	return "[Smart Link]"
}
