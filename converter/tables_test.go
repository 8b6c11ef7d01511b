package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableCodeBlockCell(t *testing.T) {
	input := []byte(`{
		"type": "doc",
		"content": [
			{
				"type": "table",
				"content": [
					{
						"type": "tableRow",
						"content": [
							{
								"type": "tableCell",
								"content": [
									{
										"type": "codeBlock",
										"content": [
											{
												"type": "text",
												"text": "fmt.Println(\"Hello\")\nreturn"
											}
										]
									}
								]
							}
						]
					}
				]
			}
		]
	}`)

	conv := newTestConverter(t, Config{})
	result, err := conv.Convert(input)
	require.NoError(t, err)

	assert.Equal(t, "|  |\n| --- |\n| `fmt.Println(\"Hello\") return` |\n", result.Markdown)
}

func TestTableRaggedRowsArePadded(t *testing.T) {
	cell := func(cellType, value string) Node {
		return Node{Type: cellType, Content: []Node{paragraph(text(value))}}
	}
	table := Node{Type: NodeTable, Content: []Node{
		{Type: NodeTableRow, Content: []Node{cell(NodeTableHeader, "A"), cell(NodeTableHeader, "B")}},
		{Type: NodeTableRow, Content: []Node{cell(NodeTableCell, "only")}},
	}}

	result := convertNodes(t, Config{}, table)
	assert.Equal(t, "| A | B |\n| --- | --- |\n| only |  |\n", result.Markdown)
}

func TestTableCellFlattensParagraphs(t *testing.T) {
	table := Node{Type: NodeTable, Content: []Node{
		{Type: NodeTableRow, Content: []Node{
			{Type: NodeTableCell, Content: []Node{paragraph(text("one")), paragraph(text("two"))}},
		}},
	}}

	result := convertNodes(t, Config{}, table)
	assert.Equal(t, "|  |\n| --- |\n| one two |\n", result.Markdown)
}
