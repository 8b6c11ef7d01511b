package converter

import (
	"strconv"
	"strings"
)

// convertBulletList converts a bullet list node to markdown
func (s *state) convertBulletList(node Node) string {
	var sb strings.Builder
	for _, item := range node.Content {
		if item.Type != NodeListItem {
			continue
		}
		sb.WriteString(s.indent(s.convertListItemContent(item.Content), "- "))
		sb.WriteString("\n")
	}
	if sb.Len() == 0 {
		return ""
	}
	return sb.String() + "\n"
}

// convertOrderedList converts an ordered list node to markdown
func (s *state) convertOrderedList(node Node) string {
	currentNum := node.GetIntAttr("order", 1)

	var sb strings.Builder
	for _, item := range node.Content {
		if item.Type != NodeListItem {
			continue
		}
		marker := strconv.Itoa(currentNum) + ". "
		sb.WriteString(s.indent(s.convertListItemContent(item.Content), marker))
		sb.WriteString("\n")
		currentNum++
	}
	if sb.Len() == 0 {
		return ""
	}
	return sb.String() + "\n"
}

// convertTaskList renders GFM task items; the checkbox post-processor turns
// them into ☐/☑ lines.
func (s *state) convertTaskList(node Node) string {
	var sb strings.Builder
	for _, item := range node.Content {
		switch item.Type {
		case NodeTaskItem:
			marker := "- [ ] "
			if item.GetStringAttr("state", "TODO") == "DONE" {
				marker = "- [x] "
			}
			sb.WriteString(s.indent(s.convertListItemContent(item.Content), marker))
			sb.WriteString("\n")
		case NodeTaskList:
			nested := strings.TrimRight(s.convertTaskList(item), "\n")
			if nested != "" {
				sb.WriteString(s.indent(nested, "    "))
				sb.WriteString("\n")
			}
		}
	}
	if sb.Len() == 0 {
		return ""
	}
	return sb.String() + "\n"
}

// convertListItemContent processes the content of a list item
func (s *state) convertListItemContent(content []Node) string {
	var sb strings.Builder
	parts := s.blockParts(content)
	for i, part := range parts {
		text := strings.TrimRight(part.text, "\n")
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			if isListType(part.nodeType) && i > 0 && parts[i-1].nodeType == NodeParagraph {
				sb.WriteString("\n")
			} else {
				sb.WriteString("\n\n")
			}
		}
		sb.WriteString(text)
	}
	return sb.String()
}

func isListType(nodeType string) bool {
	return nodeType == NodeBulletList || nodeType == NodeOrderedList || nodeType == NodeTaskList
}
