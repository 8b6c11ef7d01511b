package converter

import (
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var update = flag.Bool("update", false, "update golden files")

func newTestConverter(t testing.TB, cfg Config) *Converter {
	t.Helper()

	conv, err := New(cfg)
	require.NoError(t, err)

	return conv
}

func text(value string, marks ...Mark) Node {
	return Node{Type: NodeText, Text: value, Marks: marks}
}

func paragraph(content ...Node) Node {
	return Node{Type: NodeParagraph, Content: content}
}

func convertNodes(t *testing.T, cfg Config, content ...Node) Result {
	t.Helper()
	return newTestConverter(t, cfg).ConvertDoc(NewDoc(content...))
}

func TestStatusBecomesInlineTag(t *testing.T) {
	result := convertNodes(t, Config{}, paragraph(
		Node{Type: NodeStatus, Attrs: map[string]interface{}{"text": "Done", "color": "green"}},
	))
	assert.Equal(t, "`[status:g]Done`\n", result.Markdown)
}

func TestStatusFallbacks(t *testing.T) {
	result := convertNodes(t, Config{}, paragraph(
		Node{Type: NodeStatus, Attrs: map[string]interface{}{"color": "red"}},
		text(" "),
		Node{Type: NodeStatus, Attrs: map[string]interface{}{"text": "Odd", "color": "magenta"}},
	))
	assert.Equal(t, "`[status:n][no status]` `[status:n]Odd`\n", result.Markdown)
}

func TestDateRendering(t *testing.T) {
	tests := []struct {
		name  string
		attrs map[string]interface{}
		want  string
	}{
		{name: "missing", attrs: nil, want: "`[date][no date]`\n"},
		{name: "zero", attrs: map[string]interface{}{"timestamp": float64(0)}, want: "`[date][no date]`\n"},
		{name: "string millis", attrs: map[string]interface{}{"timestamp": "1700000000000"}, want: "`[date]2023-11-14`\n"},
		{name: "number millis", attrs: map[string]interface{}{"timestamp": float64(1700000000000)}, want: "`[date]2023-11-14`\n"},
		{name: "garbage", attrs: map[string]interface{}{"timestamp": "soon"}, want: "`[date][invalid date]`\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := convertNodes(t, Config{}, paragraph(Node{Type: NodeDate, Attrs: tt.attrs}))
			assert.Equal(t, tt.want, result.Markdown)
		})
	}
}

func TestDateUsesConfiguredFormatAndZone(t *testing.T) {
	result := convertNodes(t, Config{DateFormat: "02 Jan 2006", TimeZone: "Asia/Tokyo"}, paragraph(
		Node{Type: NodeDate, Attrs: map[string]interface{}{"timestamp": "1700000000000"}},
	))
	assert.Equal(t, "`[date]15 Nov 2023`\n", result.Markdown)
}

func TestMentionLink(t *testing.T) {
	mention := Node{Type: NodeMention, Attrs: map[string]interface{}{"id": "abc123", "text": "Jane"}}

	assert.Equal(t,
		"[Jane](https://x.atlassian.net/jira/people/abc123)\n",
		ToMarkdown(NewDoc(paragraph(mention)), "https://x.atlassian.net"))
	assert.Equal(t,
		"[Jane](https://x.atlassian.net/jira/people/abc123)\n",
		ToMarkdown(NewDoc(paragraph(mention)), "https://x.atlassian.net/"))
	assert.Equal(t,
		"[Jane](/jira/people/abc123)\n",
		ToMarkdown(NewDoc(paragraph(mention)), ""))
	assert.Equal(t,
		"[Jane](https://x.atlassian.net/jira/people/abc123)\n",
		ToMarkdown(NewDoc(paragraph(mention)), "x.atlassian.net"))
	assert.Equal(t,
		"[Jane](/jira/people/abc123)\n",
		ToMarkdown(NewDoc(paragraph(mention)), "http://[::1"))
}

func TestMentionWithoutIDIsKept(t *testing.T) {
	result := convertNodes(t, Config{}, paragraph(
		text("ping "),
		Node{Type: NodeMention, Attrs: map[string]interface{}{"text": "@Jane"}},
	))
	assert.Equal(t, "ping @Jane\n", result.Markdown)
}

func TestPanelBecomesAlert(t *testing.T) {
	result := convertNodes(t, Config{}, Node{
		Type:    NodePanel,
		Attrs:   map[string]interface{}{"panelType": "warning"},
		Content: []Node{paragraph(text("careful"))},
	})
	assert.Equal(t, "> [!WARNING]\n> careful\n", result.Markdown)
}

func TestPanelTypesMapToAlerts(t *testing.T) {
	for panelType, alert := range map[string]string{
		"info":    "NOTE",
		"success": "TIP",
		"note":    "IMPORTANT",
		"warning": "WARNING",
		"error":   "CAUTION",
	} {
		result := convertNodes(t, Config{}, Node{
			Type:    NodePanel,
			Attrs:   map[string]interface{}{"panelType": panelType},
			Content: []Node{paragraph(text("x"))},
		})
		assert.True(t, strings.HasPrefix(result.Markdown, "> [!"+alert+"]\n"), panelType)
	}
}

func TestTaskListBecomesCheckboxes(t *testing.T) {
	result := convertNodes(t, Config{}, Node{
		Type: NodeTaskList,
		Content: []Node{
			{Type: NodeTaskItem, Attrs: map[string]interface{}{"state": "DONE"}, Content: []Node{text("Done")}},
			{Type: NodeTaskItem, Attrs: map[string]interface{}{"state": "TODO"}, Content: []Node{text("Todo")}},
		},
	})
	assert.Equal(t, "☑ Done\n\n☐ Todo\n", result.Markdown)
}

func TestDecisionListBecomesQuotedTags(t *testing.T) {
	result := convertNodes(t, Config{}, Node{
		Type: NodeDecisionList,
		Content: []Node{
			{Type: NodeDecisionItem, Attrs: map[string]interface{}{"state": "DECIDED"}, Content: []Node{text("Ship it")}},
			{Type: NodeDecisionItem, Attrs: map[string]interface{}{"state": "ACKNOWLEDGED"}, Content: []Node{paragraph(text(" Later "))}},
			{Type: NodeDecisionItem, Attrs: map[string]interface{}{"state": "DECIDED"}},
		},
	})
	assert.Equal(t, "> `[decision:d]Ship it`\n> \n> `[decision:a]Later`\n", result.Markdown)
}

func TestStandaloneDecisionItemPlaceholder(t *testing.T) {
	result := convertNodes(t, Config{}, paragraph(Node{Type: NodeDecisionItem}))
	assert.Equal(t, "`[decision:d][no decision]`\n", result.Markdown)
}

func TestMediaSingleBecomesAttachmentNote(t *testing.T) {
	result := convertNodes(t, Config{}, Node{
		Type: NodeMediaSingle,
		Content: []Node{
			{Type: NodeMedia, Attrs: map[string]interface{}{"id": "f1", "alt": "diagram.png", "type": "file"}},
		},
	})
	assert.Equal(t, "*(See file \"diagram.png\" in attachments tab)*\n", result.Markdown)
}

func TestMarkBoundarySpacesAreHoisted(t *testing.T) {
	result := convertNodes(t, Config{}, paragraph(
		text("Hello"),
		text(" world ", Mark{Type: MarkStrong}),
		text("!"),
	))
	assert.Equal(t, "Hello **world** !\n", result.Markdown)
}

func TestCodeBlockLeavesList(t *testing.T) {
	result := convertNodes(t, Config{}, Node{
		Type: NodeBulletList,
		Content: []Node{{
			Type: NodeListItem,
			Content: []Node{
				paragraph(text("Step")),
				{Type: NodeCodeBlock, Attrs: map[string]interface{}{"language": "go"}, Content: []Node{text("fmt.Println()")}},
			},
		}},
	})
	assert.Equal(t, "- Step\n\n```go\nfmt.Println()\n```\n", result.Markdown)
}

func TestNestedListUnderOrderedItem(t *testing.T) {
	result := convertNodes(t, Config{}, Node{
		Type: NodeOrderedList,
		Content: []Node{{
			Type: NodeListItem,
			Content: []Node{
				paragraph(text("One")),
				{Type: NodeBulletList, Content: []Node{{Type: NodeListItem, Content: []Node{paragraph(text("a"))}}}},
			},
		}},
	})
	assert.Equal(t, "1. One\n   - a\n", result.Markdown)
}

func TestOrderedListStartsAtOrder(t *testing.T) {
	result := convertNodes(t, Config{}, Node{
		Type:  NodeOrderedList,
		Attrs: map[string]interface{}{"order": float64(3)},
		Content: []Node{
			{Type: NodeListItem, Content: []Node{paragraph(text("c"))}},
			{Type: NodeListItem, Content: []Node{paragraph(text("d"))}},
		},
	})
	assert.Equal(t, "3. c\n4. d\n", result.Markdown)
}

func TestHeadingOffset(t *testing.T) {
	heading := Node{Type: NodeHeading, Attrs: map[string]interface{}{"level": float64(2)}, Content: []Node{text("Title")}}

	assert.Equal(t, "## Title\n", convertNodes(t, Config{}, heading).Markdown)
	assert.Equal(t, "###### Title\n", convertNodes(t, Config{HeadingOffset: 5}, heading).Markdown)
}

func TestTableWithPipesAndStatus(t *testing.T) {
	cell := func(nodeType string, content ...Node) Node {
		return Node{Type: nodeType, Content: []Node{paragraph(content...)}}
	}
	result := convertNodes(t, Config{}, Node{
		Type: NodeTable,
		Content: []Node{
			{Type: NodeTableRow, Content: []Node{cell(NodeTableHeader, text("Name")), cell(NodeTableHeader, text("Status"))}},
			{Type: NodeTableRow, Content: []Node{
				cell(NodeTableCell, text("A|B")),
				cell(NodeTableCell, Node{Type: NodeStatus, Attrs: map[string]interface{}{"text": "Blocked", "color": "red"}}),
			}},
		},
	})
	assert.Equal(t, "| Name | Status |\n| --- | --- |\n| A\\|B | `[status:r]Blocked` |\n", result.Markdown)
}

func TestHardBreakStyles(t *testing.T) {
	p := paragraph(text("a"), Node{Type: NodeHardBreak}, text("b"))

	assert.Equal(t, "a\\\nb\n", convertNodes(t, Config{}, p).Markdown)
	assert.Equal(t, "a<br>b\n", convertNodes(t, Config{HardBreakStyle: HardBreakHTML}, p).Markdown)
}

func TestLinkAndNestedMarks(t *testing.T) {
	link := Mark{Type: MarkLink, Attrs: map[string]interface{}{"href": "https://example.com"}}
	result := convertNodes(t, Config{}, paragraph(
		text("see "),
		text("docs", Mark{Type: MarkStrong}, link),
		text(" and "),
		text("code", Mark{Type: MarkCode}),
	))
	assert.Equal(t, "see [**docs**](https://example.com) and `code`\n", result.Markdown)
}

func TestDroppedMarksWarnOnce(t *testing.T) {
	underline := Mark{Type: "underline"}
	result := convertNodes(t, Config{}, paragraph(text("a", underline), text(" "), text("b", underline)))
	assert.Equal(t, "a b\n", result.Markdown)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, WarningDroppedFeature, result.Warnings[0].Type)
}

func TestUnknownNodePolicies(t *testing.T) {
	input := []byte(`{"type":"doc","version":1,"content":[{"type":"mysteryNode"},{"type":"mysteryNode"}]}`)

	result, err := newTestConverter(t, Config{}).Convert(input)
	require.NoError(t, err)
	assert.Equal(t, "", result.Markdown)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, WarningUnknownNode, result.Warnings[0].Type)
	assert.Equal(t, "mysteryNode", result.Warnings[0].NodeType)

	result, err = newTestConverter(t, Config{UnknownNodes: UnknownPlaceholder}).Convert(input)
	require.NoError(t, err)
	assert.Contains(t, result.Markdown, "[Unknown node: mysteryNode]")
}

func TestConvertRejectsInvalidJSON(t *testing.T) {
	_, err := newTestConverter(t, Config{}).Convert([]byte(`{"type":`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse ADF JSON")
}

func TestSentinelsInInputCannotForgeMarkers(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node
		want  string
	}{
		{
			name:  "forged status",
			nodes: []Node{text("x\u200cg\u200dfake\u200cy")},
			want:  "x\u200cg\u200dfake\u200cy\n",
		},
		{
			name:  "forged date across nodes",
			nodes: []Node{text("a\u200b"), text("2024", Mark{Type: MarkStrong}), text("\u200bb")},
			want:  "a\u200b**2024**\u200bb\n",
		},
		{
			name:  "emoji and non-joiner",
			nodes: []Node{text("family 👨\u200d👩\u200d👧 and می\u200cخواهم")},
			want:  "family 👨\u200d👩\u200d👧 and می\u200cخواهم\n",
		},
		{
			name: "status text with non-joiner",
			nodes: []Node{{Type: NodeStatus, Attrs: map[string]interface{}{
				"text": "می\u200cخواهم", "color": "green",
			}}},
			want: "`[status:g]می\u200cخواهم`\n",
		},
		{
			name:  "private use escape rune",
			nodes: []Node{text("\ue000\ue001 \ue000")},
			want:  "\ue000\ue001 \ue000\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := convertNodes(t, Config{}, paragraph(tt.nodes...))
			assert.Equal(t, tt.want, result.Markdown)
		})
	}
}

func TestConvertDoesNotMutateInput(t *testing.T) {
	doc := NewDoc(
		paragraph(text(" bold ", Mark{Type: MarkStrong}), Node{Type: NodeMention, Attrs: map[string]interface{}{"id": "1", "text": "Al"}}),
		Node{Type: NodeOrderedList, Content: []Node{{Type: NodeListItem, Content: []Node{
			paragraph(text("item")),
			{Type: NodeCodeBlock, Content: []Node{text("x")}},
		}}}},
		Node{Type: NodeDecisionList, Content: []Node{{Type: NodeDecisionItem, Content: []Node{text("d")}}}},
		Node{Type: NodeMediaSingle, Content: []Node{{Type: NodeMedia, Attrs: map[string]interface{}{"alt": "a.png"}}}},
	)
	before := doc.Root().Clone()

	newTestConverter(t, Config{}).ConvertDoc(doc)

	assert.Equal(t, before, doc.Root())
}

func TestEmptyDocument(t *testing.T) {
	result := convertNodes(t, Config{})
	assert.Equal(t, "", result.Markdown)
	assert.Empty(t, result.Warnings)
}

func TestDocMarshalKeepsEmptyContent(t *testing.T) {
	data, err := json.Marshal(NewDoc())
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"type":"doc","content":[]}`, string(data))
}

func normalizeNewlines(value string) string {
	return strings.ReplaceAll(value, "\r\n", "\n")
}

func goldenConfigForPath(path string) Config {
	cfg := Config{}
	base := filepath.Base(path)
	if strings.Contains(base, "_baseurl") {
		cfg.BaseURL = "https://example.atlassian.net"
	}
	if strings.Contains(base, "_placeholder") {
		cfg.UnknownNodes = UnknownPlaceholder
	}
	return cfg
}

func TestGoldenFiles(t *testing.T) {
	testDataDir := filepath.Join("..", "testdata", "adf")

	err := filepath.Walk(testDataDir, func(path string, info os.FileInfo, err error) error {
		require.NoError(t, err)

		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		t.Run(path, func(t *testing.T) {
			input, err := os.ReadFile(path)
			require.NoError(t, err)

			goldenPath := strings.TrimSuffix(path, ".json") + ".md"

			conv := newTestConverter(t, goldenConfigForPath(path))
			result, err := conv.Convert(input)
			require.NoError(t, err)
			output := result.Markdown

			if *update {
				require.NoError(t, os.WriteFile(goldenPath, []byte(output), 0644))
				t.Logf("Updated golden file: %s", goldenPath)
				return
			}

			expectedData, err := os.ReadFile(goldenPath)
			if os.IsNotExist(err) {
				t.Fatalf("Golden file missing: %s. Run with -update to create it.", goldenPath)
			}
			require.NoError(t, err)

			assert.Equal(t, normalizeNewlines(string(expectedData)), normalizeNewlines(output))
		})

		return nil
	})
	require.NoError(t, err)
}
