package converter

import (
	"strings"
)

// convertTable converts a table node to GFM table
func (s *state) convertTable(node Node) string {
	var rows [][]string
	hasHeader := false

	for i, rowNode := range node.Content {
		if rowNode.Type != NodeTableRow {
			continue
		}

		var row []string
		isHeaderRow := len(rowNode.Content) > 0
		for _, cellNode := range rowNode.Content {
			if cellNode.Type != NodeTableHeader {
				isHeaderRow = false
			}
			row = append(row, s.convertCellContent(cellNode))
		}

		if i == 0 && isHeaderRow {
			hasHeader = true
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return ""
	}

	colCount := 0
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return ""
	}

	// GFM requires a header row; tables without one get an empty header.
	headerRow := make([]string, colCount)
	dataRows := rows
	if hasHeader {
		headerRow = rows[0]
		dataRows = rows[1:]
	}

	var sb strings.Builder
	writeTableRow(&sb, headerRow, colCount)

	sb.WriteString("|")
	for i := 0; i < colCount; i++ {
		sb.WriteString(" --- |")
	}
	sb.WriteString("\n")

	for _, row := range dataRows {
		writeTableRow(&sb, row, colCount)
	}

	sb.WriteString("\n")
	return sb.String()
}

func writeTableRow(sb *strings.Builder, row []string, colCount int) {
	sb.WriteString("|")
	for i := 0; i < colCount; i++ {
		sb.WriteString(" ")
		if i < len(row) {
			sb.WriteString(row[i])
		}
		sb.WriteString(" |")
	}
	sb.WriteString("\n")
}

// convertCellContent flattens the block content of a cell onto one line.
func (s *state) convertCellContent(node Node) string {
	var parts []string
	for _, child := range node.Content {
		var content string
		switch child.Type {
		case NodeParagraph:
			content = s.convertInlineContent(child.Content)
		case NodeCodeBlock:
			rawCode := extractTextFromContent(child.Content)
			if strings.TrimSpace(rawCode) != "" {
				content = "`" + strings.ReplaceAll(strings.TrimRight(rawCode, "\n"), "\n", " ") + "`"
			}
		default:
			content = s.convertNode(child)
		}
		content = flattenCellLines(content)
		if content != "" {
			parts = append(parts, content)
		}
	}

	// Pipes break GFM tables; child converters never pre-escape them.
	return strings.ReplaceAll(strings.Join(parts, " "), "|", "\\|")
}

func flattenCellLines(content string) string {
	content = strings.ReplaceAll(content, "\\\n", " ")
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, " ")
}
