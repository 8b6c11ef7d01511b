package mdconverter

import "github.com/rgonek/jira-adf-markdown/converter"

// convertTable builds one header row of tableHeader cells from thead and a
// row of tableCell cells per tbody row.
func (s *state) convertTable(c *cursor) converter.Node {
	table := converter.Node{Type: converter.NodeTable}

	for !c.done() {
		switch c.peek().Type {
		case TokenTheadOpen:
			table.Content = append(table.Content, s.convertTableRows(c.enter(), converter.NodeTableHeader)...)
		case TokenTbodyOpen:
			table.Content = append(table.Content, s.convertTableRows(c.enter(), converter.NodeTableCell)...)
		default:
			c.next()
		}
	}
	return table
}

func (s *state) convertTableRows(c *cursor, cellType string) []converter.Node {
	var rows []converter.Node
	for !c.done() {
		if c.peek().Type != TokenTrOpen {
			c.next()
			continue
		}
		row := converter.Node{Type: converter.NodeTableRow}
		cells := c.enter()
		for !cells.done() {
			switch cells.peek().Type {
			case TokenThOpen, TokenTdOpen:
				row.Content = append(row.Content, s.convertTableCell(cells.enter(), cellType))
			default:
				cells.next()
			}
		}
		if len(row.Content) > 0 {
			rows = append(rows, row)
		}
	}
	return rows
}

// convertTableCell wraps the cell text in a single paragraph. An empty cell
// has no content.
func (s *state) convertTableCell(c *cursor, cellType string) converter.Node {
	cell := converter.Node{Type: cellType}
	if inline, ok := c.find(TokenInline); ok {
		if content := s.convertInline(inline.Children); len(content) > 0 {
			cell.Content = []converter.Node{{Type: converter.NodeParagraph, Content: content}}
		}
	}
	return cell
}
