package mdconverter

import (
	"strconv"
	"time"

	"github.com/rgonek/jira-adf-markdown/converter"
)

// tagNode rebuilds a status or date node from an inline-code tag such as
// "[status:g]Done" or "[date]2024-01-02".
func (s *state) tagNode(code string) (converter.Node, bool) {
	if s.config.TagDetection != TagDetectAll {
		return converter.Node{}, false
	}
	marker, ok := converter.ParseTag(code)
	if !ok {
		return converter.Node{}, false
	}

	switch marker.Kind {
	case converter.MarkerStatus:
		text := marker.Text
		if text == converter.NoStatusText {
			text = ""
		}
		return converter.Node{
			Type: converter.NodeStatus,
			Attrs: map[string]interface{}{
				"text":    text,
				"color":   converter.StatusColor(marker.Code),
				"localId": s.localID(),
			},
		}, true

	case converter.MarkerDate:
		if marker.Text == converter.NoDateText {
			return converter.Node{Type: converter.NodeDate}, true
		}
		parsed, err := time.ParseInLocation(s.config.DateFormat, marker.Text, s.location)
		if err != nil {
			return converter.Node{}, false
		}
		return converter.Node{
			Type: converter.NodeDate,
			Attrs: map[string]interface{}{
				"timestamp": strconv.FormatInt(parsed.UnixMilli(), 10),
			},
		}, true

	default:
		// Decisions are block level; see decisionList.
		return converter.Node{}, false
	}
}

// decisionList rebuilds a decision list from blockquote content in which
// every block is a paragraph opening with a `[decision:x]` tag.
func (s *state) decisionList(content []converter.Node) (converter.Node, bool) {
	if s.config.TagDetection != TagDetectAll || len(content) == 0 {
		return converter.Node{}, false
	}

	items := make([]converter.Node, 0, len(content))
	for _, paragraph := range content {
		if paragraph.Type != converter.NodeParagraph || len(paragraph.Content) == 0 {
			return converter.Node{}, false
		}
		first := paragraph.Content[0]
		if first.Type != converter.NodeText || !first.HasMark(converter.MarkCode) {
			return converter.Node{}, false
		}
		marker, ok := converter.ParseTag(first.Text)
		if !ok || marker.Kind != converter.MarkerDecision {
			return converter.Node{}, false
		}

		var itemContent []converter.Node
		if marker.Text != converter.NoDecisionText {
			itemContent = append(itemContent, converter.Node{Type: converter.NodeText, Text: marker.Text})
		}
		for _, rest := range paragraph.Content[1:] {
			itemContent = appendInlineNode(itemContent, rest)
		}

		items = append(items, converter.Node{
			Type: converter.NodeDecisionItem,
			Attrs: map[string]interface{}{
				"localId": s.localID(),
				"state":   converter.DecisionState(marker.Code),
			},
			Content: itemContent,
		})
	}

	return converter.Node{
		Type:    converter.NodeDecisionList,
		Attrs:   map[string]interface{}{"localId": s.localID()},
		Content: items,
	}, true
}
