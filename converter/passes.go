package converter

import (
	"fmt"
	"strings"
	"time"
)

// The passes below rewrite the tree before rendering. Each one returns a new
// tree and never mutates its input; untouched subtrees are shared.

// transform runs every pass in order.
func (c *Converter) transform(root Node) Node {
	root = EscapeSentinelsInTree(root)
	root = replaceMedia(root, c.config.MediaText)
	root = FixMarkBoundaries(root)
	root = ExtractListCodeBlocks(root)
	root = BackfillOrderedListAttrs(root)
	root = ReplaceMentions(root, c.config.BaseURL)
	root = replaceDates(root, c.config.DateFormat, c.location)
	root = ReplaceStatuses(root)
	root = ReplaceDecisions(root)
	return root
}

// EscapeSentinelsInTree escapes sentinel code points in text, string attrs
// and mark attrs. Content keeps every code point once the Markdown is
// unescaped after post-processing.
func EscapeSentinelsInTree(node Node) Node {
	node.Text = EscapeSentinels(node.Text)
	node.Attrs = escapeAttrs(node.Attrs)
	if node.Marks != nil {
		marks := make([]Mark, len(node.Marks))
		for i, mark := range node.Marks {
			mark.Attrs = escapeAttrs(mark.Attrs)
			marks[i] = mark
		}
		node.Marks = marks
	}
	if node.Content == nil {
		return node
	}
	content := make([]Node, len(node.Content))
	for i, child := range node.Content {
		content[i] = EscapeSentinelsInTree(child)
	}
	node.Content = content
	return node
}

func escapeAttrs(attrs map[string]interface{}) map[string]interface{} {
	var escaped map[string]interface{}
	for key, value := range attrs {
		text, ok := value.(string)
		if !ok || !strings.ContainsFunc(text, needsEscape) {
			continue
		}
		if escaped == nil {
			escaped = cloneAnyMap(attrs)
		}
		escaped[key] = EscapeSentinels(text)
	}
	if escaped == nil {
		return attrs
	}
	return escaped
}

// ReplaceMedia turns every mediaSingle into an italic attachment placeholder paragraph.
func ReplaceMedia(node Node) Node {
	return replaceMedia(node, DefaultMediaText)
}

func replaceMedia(node Node, format string) Node {
	if node.Content == nil {
		return node
	}
	content := make([]Node, 0, len(node.Content))
	for _, child := range node.Content {
		if child.Type != NodeMediaSingle {
			content = append(content, replaceMedia(child, format))
			continue
		}
		for _, media := range child.Content {
			if media.Type == NodeMedia {
				content = append(content, Node{
					Type:    NodeParagraph,
					Content: []Node{mediaPlaceholder(media, format)},
				})
				break
			}
		}
	}
	node.Content = content
	return node
}

func mediaPlaceholder(media Node, format string) Node {
	name := media.GetStringAttr("alt", "")
	if name == "" {
		name = "unknown"
	}
	return Node{
		Type:  NodeText,
		Text:  fmt.Sprintf(format, name),
		Marks: []Mark{{Type: MarkEm}},
	}
}

// FixMarkBoundaries moves leading and trailing spaces of strong/em text
// out into unmarked siblings. No spacer is added before the first or after
// the last child.
func FixMarkBoundaries(node Node) Node {
	if node.Content == nil {
		return node
	}
	last := len(node.Content) - 1
	content := make([]Node, 0, len(node.Content))
	for i, child := range node.Content {
		child = FixMarkBoundaries(child)
		if child.Type != NodeText || !(child.HasMark(MarkStrong) || child.HasMark(MarkEm)) {
			content = append(content, child)
			continue
		}
		stripped := strings.TrimSpace(child.Text)
		if stripped == child.Text {
			content = append(content, child)
			continue
		}
		leading := strings.HasPrefix(child.Text, " ") && i > 0
		trailing := strings.HasSuffix(child.Text, " ") && i < last
		if stripped == "" {
			if leading || trailing {
				content = append(content, spaceNode())
			}
			continue
		}
		if leading {
			content = append(content, spaceNode())
		}
		child.Text = stripped
		content = append(content, child)
		if trailing {
			content = append(content, spaceNode())
		}
	}
	node.Content = content
	return node
}

func spaceNode() Node {
	return Node{Type: NodeText, Text: " "}
}

// ExtractListCodeBlocks hoists code blocks nested directly in list items to
// siblings right after their list. Items emptied by the move are dropped, as
// are lists left without items.
func ExtractListCodeBlocks(node Node) Node {
	if node.Content == nil {
		return node
	}
	content := make([]Node, 0, len(node.Content))
	for _, child := range node.Content {
		child = ExtractListCodeBlocks(child)
		if child.Type != NodeBulletList && child.Type != NodeOrderedList {
			content = append(content, child)
			continue
		}

		var extracted []Node
		items := make([]Node, 0, len(child.Content))
		for _, item := range child.Content {
			if item.Type != NodeListItem {
				items = append(items, item)
				continue
			}
			kept := make([]Node, 0, len(item.Content))
			hadCodeBlock := false
			for _, grandchild := range item.Content {
				if grandchild.Type == NodeCodeBlock {
					hadCodeBlock = true
					extracted = append(extracted, grandchild)
					continue
				}
				kept = append(kept, grandchild)
			}
			if !hadCodeBlock {
				items = append(items, item)
				continue
			}
			if len(kept) > 0 {
				item.Content = kept
				items = append(items, item)
			}
		}

		if len(items) > 0 {
			child.Content = items
			content = append(content, child)
		}
		content = append(content, extracted...)
	}
	node.Content = content
	return node
}

// BackfillOrderedListAttrs gives ordered lists without attrs an empty attrs object.
func BackfillOrderedListAttrs(node Node) Node {
	if node.Type == NodeOrderedList && node.Attrs == nil {
		node.Attrs = map[string]interface{}{}
	}
	if node.Content == nil {
		return node
	}
	content := make([]Node, len(node.Content))
	for i, child := range node.Content {
		content[i] = BackfillOrderedListAttrs(child)
	}
	node.Content = content
	return node
}

// MentionURL returns the profile link for an account. Without a base URL the
// link is relative.
func MentionURL(baseURL, accountID string) string {
	if baseURL == "" {
		return "/jira/people/" + accountID
	}
	return strings.TrimRight(baseURL, "/") + "/jira/people/" + accountID
}

// ReplaceMentions turns mentions with both an account id and a display text
// into text nodes holding a Markdown profile link. Other mentions are kept.
func ReplaceMentions(node Node, baseURL string) Node {
	if node.Content == nil {
		return node
	}
	content := make([]Node, 0, len(node.Content))
	for _, child := range node.Content {
		if child.Type == NodeMention {
			id := child.GetStringAttr("id", "")
			name := mentionName(child)
			if id != "" && name != "" {
				content = append(content, Node{
					Type:  NodeText,
					Text:  "[" + name + "](" + MentionURL(baseURL, id) + ")",
					Marks: child.Marks,
				})
				continue
			}
		}
		content = append(content, ReplaceMentions(child, baseURL))
	}
	node.Content = content
	return node
}

func mentionName(node Node) string {
	if text := node.GetStringAttr("text", ""); text != "" {
		return text
	}
	return node.GetStringAttr("displayName", "")
}

// ReplaceDates turns date nodes into date markers formatted as YYYY-MM-DD in UTC.
func ReplaceDates(node Node) Node {
	return replaceDates(node, "2006-01-02", time.UTC)
}

func replaceDates(node Node, layout string, loc *time.Location) Node {
	if node.Content == nil {
		return node
	}
	content := make([]Node, 0, len(node.Content))
	for _, child := range node.Content {
		if child.Type != NodeDate {
			content = append(content, replaceDates(child, layout, loc))
			continue
		}
		marker := Marker{Kind: MarkerDate, Text: dateText(child, layout, loc)}
		content = append(content, Node{Type: NodeText, Text: marker.Encode(), Marks: child.Marks})
	}
	node.Content = content
	return node
}

// Placeholders substituted for missing or unusable attributes.
const (
	NoDateText      = "[no date]"
	InvalidDateText = "[invalid date]"
	NoStatusText    = "[no status]"
	NoDecisionText  = "[no decision]"
)

// dateText formats the millisecond timestamp of a date node.
func dateText(node Node, layout string, loc *time.Location) string {
	var millis int64
	switch value := node.Attrs["timestamp"].(type) {
	case nil:
		return NoDateText
	case bool:
		if !value {
			return NoDateText
		}
		millis = 1
	case float64:
		if value == 0 {
			return NoDateText
		}
		if value > 1<<62 || value < -(1<<62) {
			return InvalidDateText
		}
		millis = int64(value)
	case string:
		if value == "" {
			return NoDateText
		}
		parsed, ok := node.GetInt64Attr("timestamp")
		if !ok {
			return InvalidDateText
		}
		millis = parsed
	default:
		parsed, ok := node.GetInt64Attr("timestamp")
		if !ok {
			return InvalidDateText
		}
		if parsed == 0 {
			return NoDateText
		}
		millis = parsed
	}

	t := time.UnixMilli(millis).In(loc)
	if t.Year() < 1 || t.Year() > 9999 {
		return InvalidDateText
	}
	return t.Format(layout)
}

var statusColorCodes = map[string]string{
	"neutral": "n",
	"red":     "r",
	"blue":    "b",
	"green":   "g",
	"yellow":  "y",
	"purple":  "p",
	"teal":    "t",
}

// StatusColorCode maps an ADF status colour to its single-letter code.
// Unknown colours map to neutral.
func StatusColorCode(color string) string {
	if code, ok := statusColorCodes[color]; ok {
		return code
	}
	return "n"
}

// ReplaceStatuses turns status nodes into status markers.
func ReplaceStatuses(node Node) Node {
	if node.Content == nil {
		return node
	}
	content := make([]Node, 0, len(node.Content))
	for _, child := range node.Content {
		if child.Type != NodeStatus {
			content = append(content, ReplaceStatuses(child))
			continue
		}
		marker := Marker{Kind: MarkerStatus, Code: "n", Text: NoStatusText}
		if text := child.GetStringAttr("text", ""); text != "" {
			marker.Code = StatusColorCode(child.GetStringAttr("color", "neutral"))
			marker.Text = text
		}
		content = append(content, Node{Type: NodeText, Text: marker.Encode(), Marks: child.Marks})
	}
	node.Content = content
	return node
}

var decisionStateCodes = map[string]string{
	"DECIDED":           "d",
	"ACKNOWLEDGED":      "a",
	"UP_FOR_DISCUSSION": "u",
}

// DecisionStateCode maps a decision state to its single-letter code.
func DecisionStateCode(state string) string {
	if code, ok := decisionStateCodes[state]; ok {
		return code
	}
	return "d"
}

// ReplaceDecisions turns decision items into decision markers and decision
// lists into blockquotes holding one paragraph per non-empty decision.
func ReplaceDecisions(node Node) Node {
	if node.Type == NodeDecisionList {
		return decisionListToBlockquote(node)
	}
	if node.Content == nil {
		return node
	}
	content := make([]Node, 0, len(node.Content))
	for _, child := range node.Content {
		if child.Type != NodeDecisionItem {
			content = append(content, ReplaceDecisions(child))
			continue
		}
		marker := Marker{Kind: MarkerDecision, Code: "d", Text: NoDecisionText}
		if text := decisionText(child); text != "" {
			marker.Code = DecisionStateCode(child.GetStringAttr("state", "DECIDED"))
			marker.Text = text
		}
		content = append(content, Node{Type: NodeText, Text: marker.Encode(), Marks: child.Marks})
	}
	node.Content = content
	return node
}

func decisionListToBlockquote(list Node) Node {
	paragraphs := []Node{}
	for _, item := range list.Content {
		if item.Type != NodeDecisionItem {
			continue
		}
		text := decisionText(item)
		if text == "" {
			continue
		}
		marker := Marker{Kind: MarkerDecision, Code: DecisionStateCode(item.GetStringAttr("state", "DECIDED")), Text: text}
		paragraphs = append(paragraphs, Node{
			Type:    NodeParagraph,
			Content: []Node{{Type: NodeText, Text: marker.Encode()}},
		})
	}
	return Node{Type: NodeBlockquote, Content: paragraphs}
}

// decisionText joins the text of direct text children and of text one level
// further down.
func decisionText(item Node) string {
	var sb strings.Builder
	for _, child := range item.Content {
		if child.Type == NodeText {
			sb.WriteString(child.Text)
			continue
		}
		for _, nested := range child.Content {
			if nested.Type == NodeText {
				sb.WriteString(nested.Text)
			}
		}
	}
	return strings.TrimSpace(sb.String())
}
