package converter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceMediaUsesFirstMediaChild(t *testing.T) {
	root := Node{Type: NodeDoc, Content: []Node{
		{Type: NodeMediaSingle, Content: []Node{
			{Type: "caption"},
			{Type: NodeMedia, Attrs: map[string]interface{}{"id": "1"}},
			{Type: NodeMedia, Attrs: map[string]interface{}{"alt": "second.png"}},
		}},
		{Type: NodeMediaSingle},
	}}

	out := ReplaceMedia(root)

	require.Len(t, out.Content, 1)
	assert.Equal(t, paragraph(text(`(See file "unknown" in attachments tab)`, Mark{Type: MarkEm})), out.Content[0])
}

func TestFixMarkBoundariesSkipsEdges(t *testing.T) {
	root := paragraph(
		text(" lead", Mark{Type: MarkEm}),
		text("mid"),
		text("tail ", Mark{Type: MarkStrong}),
	)

	out := FixMarkBoundaries(root)

	assert.Equal(t, []Node{
		text("lead", Mark{Type: MarkEm}),
		text("mid"),
		text("tail", Mark{Type: MarkStrong}),
	}, out.Content)
}

func TestFixMarkBoundariesIgnoresOtherMarks(t *testing.T) {
	root := paragraph(text("a"), text(" code ", Mark{Type: MarkCode}), text("b"))
	assert.Equal(t, root, FixMarkBoundaries(root))
}

func TestExtractListCodeBlocks(t *testing.T) {
	code := Node{Type: NodeCodeBlock, Content: []Node{text("x := 1")}}
	root := Node{Type: NodeDoc, Content: []Node{
		{Type: NodeBulletList, Content: []Node{
			{Type: NodeListItem, Content: []Node{code}},
			{Type: NodeListItem, Content: []Node{paragraph(text("keep"))}},
		}},
		{Type: NodeOrderedList, Content: []Node{
			{Type: NodeListItem, Content: []Node{code}},
		}},
		paragraph(text("after")),
	}}

	out := ExtractListCodeBlocks(root)

	assert.Equal(t, []Node{
		{Type: NodeBulletList, Content: []Node{
			{Type: NodeListItem, Content: []Node{paragraph(text("keep"))}},
		}},
		code,
		code,
		paragraph(text("after")),
	}, out.Content)
}

func TestExtractListCodeBlocksBubblesFromNestedLists(t *testing.T) {
	code := Node{Type: NodeCodeBlock, Content: []Node{text("nested")}}
	root := Node{Type: NodeDoc, Content: []Node{
		{Type: NodeBulletList, Content: []Node{
			{Type: NodeListItem, Content: []Node{
				paragraph(text("outer")),
				{Type: NodeBulletList, Content: []Node{
					{Type: NodeListItem, Content: []Node{code}},
				}},
			}},
		}},
	}}

	out := ExtractListCodeBlocks(root)

	require.Len(t, out.Content, 2)
	assert.Equal(t, code, out.Content[1])
	assert.Equal(t, []Node{paragraph(text("outer"))}, out.Content[0].Content[0].Content)
}

func TestBackfillOrderedListAttrs(t *testing.T) {
	root := Node{Type: NodeDoc, Content: []Node{
		{Type: NodeOrderedList},
		{Type: NodeOrderedList, Attrs: map[string]interface{}{"order": float64(2)}},
	}}

	out := BackfillOrderedListAttrs(root)

	assert.NotNil(t, out.Content[0].Attrs)
	assert.Empty(t, out.Content[0].Attrs)
	assert.Nil(t, root.Content[0].Attrs)
	assert.Equal(t, 2, out.Content[1].GetIntAttr("order", 1))
}

func TestReplaceMentionsKeepsMarks(t *testing.T) {
	strong := []Mark{{Type: MarkStrong}}
	root := paragraph(
		Node{Type: NodeMention, Attrs: map[string]interface{}{"id": "42", "displayName": "Bo"}, Marks: strong},
		Node{Type: NodeMention, Attrs: map[string]interface{}{"text": "No Id"}},
	)

	out := ReplaceMentions(root, "https://jira.example.com/")

	assert.Equal(t, Node{Type: NodeText, Text: "[Bo](https://jira.example.com/jira/people/42)", Marks: strong}, out.Content[0])
	assert.Equal(t, NodeMention, out.Content[1].Type)
}

func TestReplaceStatusesAndDatesEncodeMarkers(t *testing.T) {
	root := paragraph(
		Node{Type: NodeStatus, Attrs: map[string]interface{}{"text": "Done", "color": "teal"}},
		Node{Type: NodeDate, Attrs: map[string]interface{}{"timestamp": "86400000"}},
	)

	out := ReplaceDates(ReplaceStatuses(root))

	assert.Equal(t, Marker{Kind: MarkerStatus, Code: "t", Text: "Done"}.Encode(), out.Content[0].Text)
	assert.Equal(t, Marker{Kind: MarkerDate, Text: "1970-01-02"}.Encode(), out.Content[1].Text)
}

func TestReplaceDecisionsStateCodes(t *testing.T) {
	for state, code := range map[string]string{
		"DECIDED":           "d",
		"ACKNOWLEDGED":      "a",
		"UP_FOR_DISCUSSION": "u",
		"SOMETHING_ELSE":    "d",
	} {
		out := ReplaceDecisions(Node{Type: NodeDecisionList, Content: []Node{
			{Type: NodeDecisionItem, Attrs: map[string]interface{}{"state": state}, Content: []Node{text("x")}},
		}})
		require.Equal(t, NodeBlockquote, out.Type)
		assert.Equal(t, Marker{Kind: MarkerDecision, Code: code, Text: "x"}.Encode(), out.Content[0].Content[0].Text, state)
	}
}

func TestEscapeSentinelsInTree(t *testing.T) {
	link := Mark{Type: MarkLink, Attrs: map[string]interface{}{"href": "https://x/\u200b"}}
	root := paragraph(
		text("a\u200bb", link),
		Node{Type: NodeStatus, Attrs: map[string]interface{}{"text": "x\u200cy", "color": "red"}},
	)

	out := EscapeSentinelsInTree(root)

	assert.Equal(t, "a\ue000\ue001b", out.Content[0].Text)
	assert.Equal(t, "https://x/\ue000\ue001", out.Content[0].Marks[0].Attrs["href"])
	assert.Equal(t, "x\ue000\ue002y", out.Content[1].GetStringAttr("text", ""))
	assert.Equal(t, "x\u200cy", root.Content[1].GetStringAttr("text", ""))
	assert.Equal(t, "https://x/\u200b", root.Content[0].Marks[0].Attrs["href"])
}

func TestEscapeSentinelsRoundTrip(t *testing.T) {
	for _, input := range []string{
		"",
		"plain",
		"👨\u200d👩\u200d👧",
		"\u200b\u200c\u200d\u200e\u200f",
		"\ue000",
		"\ue000\ue001\ue000\ue000",
	} {
		escaped := EscapeSentinels(input)
		assert.False(t, strings.ContainsFunc(escaped, isSentinel), "%q", input)
		assert.Equal(t, input, UnescapeSentinels(escaped), "%q", input)
	}
	assert.Equal(t, "dangling \ue000", UnescapeSentinels("dangling \ue000"))
}
