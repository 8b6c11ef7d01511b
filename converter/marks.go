package converter

import (
	"fmt"
	"strings"
)

// getMarksToClose returns marks that need to be closed
func (s *state) getMarksToClose(activeMarks, currentMarks []Mark) []Mark {
	// Find the first mark that differs or is missing in currentMarks
	for i, activeMark := range activeMarks {
		if i >= len(currentMarks) || !marksEqual(activeMark, currentMarks[i]) {
			return activeMarks[i:]
		}
	}
	return nil
}

// getMarksToOpen returns marks that need to be opened
func (s *state) getMarksToOpen(activeMarks, currentMarks []Mark) []Mark {
	commonLen := 0
	for i := 0; i < len(activeMarks) && i < len(currentMarks); i++ {
		if !marksEqual(activeMarks[i], currentMarks[i]) {
			break
		}
		commonLen++
	}
	if commonLen < len(currentMarks) {
		return currentMarks[commonLen:]
	}
	return nil
}

// marksEqual compares two marks; links also compare href and title.
func marksEqual(m1, m2 Mark) bool {
	if m1.Type != m2.Type {
		return false
	}
	if m1.Type == MarkLink {
		return m1.GetStringAttr("href", "") == m2.GetStringAttr("href", "") &&
			m1.GetStringAttr("title", "") == m2.GetStringAttr("title", "")
	}
	return true
}

// orderMarks puts link marks outermost so delimiters nest cleanly.
func orderMarks(marks []Mark) []Mark {
	if len(marks) < 2 {
		return marks
	}
	ordered := make([]Mark, 0, len(marks))
	for _, mark := range marks {
		if mark.Type == MarkLink {
			ordered = append(ordered, mark)
		}
	}
	for _, mark := range marks {
		if mark.Type != MarkLink {
			ordered = append(ordered, mark)
		}
	}
	return ordered
}

// convertMark returns opening and closing delimiters for a mark
func (s *state) convertMark(mark Mark, useUnderscoreForEm bool) (string, string) {
	switch mark.Type {
	case MarkStrong:
		return "**", "**"
	case MarkEm:
		if useUnderscoreForEm {
			return "_", "_"
		}
		return "*", "*"
	case MarkStrike:
		return "~~", "~~"
	case MarkCode:
		return "`", "`"
	case MarkLink:
		href := mark.GetStringAttr("href", "")
		if href == "" {
			return "", ""
		}
		closing := "](" + href
		if title := mark.GetStringAttr("title", ""); title != "" {
			escapedTitle := strings.ReplaceAll(title, "\\", "\\\\")
			escapedTitle = strings.ReplaceAll(escapedTitle, "\"", "\\\"")
			closing += " \"" + escapedTitle + "\""
		}
		return "[", closing + ")"
	case "underline", "textColor", "backgroundColor", "subsup", "border", "alignment", "indentation":
		s.addWarning(WarningDroppedFeature, mark.Type, fmt.Sprintf("mark rendered as plain text: %s", mark.Type))
		return "", ""
	default:
		s.addWarning(WarningUnknownMark, mark.Type, fmt.Sprintf("unknown mark skipped: %s", mark.Type))
		return "", ""
	}
}
