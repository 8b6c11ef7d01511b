package converter

import (
	"strings"
)

// convertParagraph converts a paragraph node to markdown
func (s *state) convertParagraph(node Node) string {
	return s.convertParagraphContent(node.Content)
}

// convertParagraphContent renders inline content followed by a blank line.
func (s *state) convertParagraphContent(content []Node) string {
	res := s.convertInlineContent(content)
	if res == "" {
		return ""
	}
	// Standard paragraph has two newlines to separate from next block
	return res + "\n\n"
}

// convertHeading converts a heading node to markdown
func (s *state) convertHeading(node Node) string {
	level := node.GetIntAttr("level", 1)
	level += s.config.HeadingOffset

	// Clamp level to valid range (1-6)
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}

	content := s.convertInlineContent(node.Content)
	if content == "" {
		return ""
	}
	// Headings cannot end with a hard break.
	content = strings.TrimSuffix(content, "\\\n")
	content = strings.ReplaceAll(content, "\\\n", " ")

	return strings.Repeat("#", level) + " " + content + "\n\n"
}

// convertBlockquote converts a blockquote node to markdown
func (s *state) convertBlockquote(node Node) string {
	if len(node.Content) == 0 {
		return ""
	}

	content := s.blockquoteContent(s.convertChildren(node.Content), "")
	if content == "" {
		return ""
	}
	return content + "\n\n"
}

// blockquoteContent converts content to blockquoted format with optional first-line prefix
func (s *state) blockquoteContent(content, firstLinePrefix string) string {
	content = strings.TrimRight(content, "\n")
	if content == "" {
		return ""
	}

	lines := strings.Split(content, "\n")

	quotedLines := make([]string, 0, len(lines))
	for i, line := range lines {
		switch {
		case i == 0 && firstLinePrefix != "":
			quotedLines = append(quotedLines, "> "+firstLinePrefix+line)
		case line == "":
			quotedLines = append(quotedLines, "> ")
		case strings.HasPrefix(line, ">"):
			// Already a blockquote (nested)
			quotedLines = append(quotedLines, ">"+line)
		default:
			quotedLines = append(quotedLines, "> "+line)
		}
	}

	return strings.Join(quotedLines, "\n")
}

// extractTextFromContent extracts raw text from a list of nodes (shallow, mainly for code blocks)
func extractTextFromContent(content []Node) string {
	var sb strings.Builder
	for _, child := range content {
		if child.Type == NodeText {
			sb.WriteString(child.Text)
		}
	}
	return sb.String()
}

// convertCodeBlock converts a code block node to a fenced block
func (s *state) convertCodeBlock(node Node) string {
	content := extractTextFromContent(node.Content)
	if strings.TrimSpace(content) == "" {
		return ""
	}

	language := node.GetStringAttr("language", "")
	if mapped, ok := s.config.LanguageMap[language]; ok {
		language = mapped
	}

	fence := "```"
	for strings.Contains(content, fence) {
		fence += "`"
	}

	var result strings.Builder
	result.WriteString(fence)
	result.WriteString(language)
	result.WriteString("\n")
	result.WriteString(strings.TrimRight(content, "\n"))
	result.WriteString("\n")
	result.WriteString(fence)
	result.WriteString("\n\n")
	return result.String()
}

// indent applies uniform indentation to content within a list item.
// The first line is prefixed with the marker, subsequent lines with spaces matching marker length.
func (s *state) indent(content, marker string) string {
	content = strings.TrimRight(content, "\n")
	if content == "" {
		return strings.TrimRight(marker, " ")
	}

	lines := strings.Split(content, "\n")
	indentStr := strings.Repeat(" ", len(marker))

	result := make([]string, 0, len(lines))
	for i, line := range lines {
		switch {
		case i == 0:
			result = append(result, marker+line)
		case line == "":
			result = append(result, "")
		default:
			result = append(result, indentStr+line)
		}
	}

	return strings.Join(result, "\n")
}

// convertPanel renders a panel as a blockquote headed by its bold type label.
// The alert post-processor later rewrites known labels into alert markers.
func (s *state) convertPanel(node Node) string {
	fullContent := s.convertChildren(node.Content)
	if strings.TrimSpace(fullContent) == "" {
		return ""
	}

	quoted := s.blockquoteContent(fullContent, "")
	label := panelTypeLabel(strings.ToLower(node.GetStringAttr("panelType", "")))
	return "> **" + label + "**\n> \n" + quoted + "\n\n"
}

func panelTypeLabel(panelType string) string {
	switch panelType {
	case "", "info":
		return "INFO"
	default:
		return strings.ToUpper(panelType)
	}
}

// convertExpand renders expand sections as a blockquote with a bold title.
func (s *state) convertExpand(node Node) string {
	title := node.GetStringAttr("title", "")
	content := s.convertChildren(node.Content)

	var text strings.Builder
	if title != "" {
		text.WriteString("> **" + title + "**\n")
	}

	quotedContent := s.blockquoteContent(content, "")
	if quotedContent == "" {
		if title == "" {
			return ""
		}
		return text.String() + "\n"
	}
	if title != "" {
		text.WriteString("> \n")
	}
	text.WriteString(quotedContent)

	return text.String() + "\n\n"
}
