package converter

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Node kinds understood by the converter.
const (
	NodeDoc          = "doc"
	NodeParagraph    = "paragraph"
	NodeHeading      = "heading"
	NodeText         = "text"
	NodeHardBreak    = "hardBreak"
	NodeBulletList   = "bulletList"
	NodeOrderedList  = "orderedList"
	NodeListItem     = "listItem"
	NodeTaskList     = "taskList"
	NodeTaskItem     = "taskItem"
	NodeTable        = "table"
	NodeTableRow     = "tableRow"
	NodeTableHeader  = "tableHeader"
	NodeTableCell    = "tableCell"
	NodeCodeBlock    = "codeBlock"
	NodeBlockquote   = "blockquote"
	NodePanel        = "panel"
	NodeRule         = "rule"
	NodeMention      = "mention"
	NodeStatus       = "status"
	NodeDate         = "date"
	NodeDecisionList = "decisionList"
	NodeDecisionItem = "decisionItem"
	NodeMediaSingle  = "mediaSingle"
	NodeMediaGroup   = "mediaGroup"
	NodeMedia        = "media"
	NodeEmoji        = "emoji"
	NodeInlineCard   = "inlineCard"
	NodeExpand       = "expand"
	NodeNestedExpand = "nestedExpand"
)

// Mark kinds understood by the converter.
const (
	MarkStrong = "strong"
	MarkEm     = "em"
	MarkCode   = "code"
	MarkStrike = "strike"
	MarkLink   = "link"
)

// Doc represents the root document node of a Jira ADF JSON.
type Doc struct {
	Version int    `json:"version"`
	Type    string `json:"type"`
	Content []Node `json:"content"`
}

// NewDoc returns an empty version 1 document.
func NewDoc(content ...Node) Doc {
	if content == nil {
		content = []Node{}
	}
	return Doc{Version: 1, Type: NodeDoc, Content: content}
}

// Root returns the document as a tree node so passes can treat it uniformly.
func (d Doc) Root() Node {
	return Node{Type: NodeDoc, Content: d.Content}
}

// MarshalJSON keeps "content" present even for an empty document.
func (d Doc) MarshalJSON() ([]byte, error) {
	type plain Doc
	if d.Content == nil {
		d.Content = []Node{}
	}
	return json.Marshal(plain(d))
}

// Node represents any node in the ADF tree (e.g., paragraph, text, etc.).
type Node struct {
	Type    string                 `json:"type"`
	Text    string                 `json:"text,omitempty"`
	Content []Node                 `json:"content,omitempty"`
	Marks   []Mark                 `json:"marks,omitempty"`
	Attrs   map[string]interface{} `json:"attrs,omitempty"`
}

// Mark represents text formatting applied to a node (e.g., strong, em, etc.).
type Mark struct {
	Type  string                 `json:"type"`
	Attrs map[string]interface{} `json:"attrs,omitempty"`
}

// HasMark reports whether the node carries a mark of the given type.
func (n Node) HasMark(markType string) bool {
	for _, mark := range n.Marks {
		if mark.Type == markType {
			return true
		}
	}
	return false
}

// GetStringAttr returns a string attribute or def when absent or not a string.
func (n Node) GetStringAttr(key, def string) string {
	if n.Attrs == nil {
		return def
	}
	if value, ok := n.Attrs[key].(string); ok {
		return value
	}
	return def
}

// GetIntAttr returns an integer attribute, accepting JSON numbers and numeric strings.
func (n Node) GetIntAttr(key string, def int) int {
	value, ok := n.GetInt64Attr(key)
	if !ok {
		return def
	}
	return int(value)
}

// GetInt64Attr returns an integer attribute and whether it was present and numeric.
func (n Node) GetInt64Attr(key string) (int64, bool) {
	if n.Attrs == nil {
		return 0, false
	}
	switch value := n.Attrs[key].(type) {
	case float64:
		return int64(value), true
	case int:
		return int64(value), true
	case int64:
		return value, true
	case json.Number:
		parsed, err := value.Int64()
		return parsed, err == nil
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}

// GetStringAttr returns a string attribute of the mark or def.
func (m Mark) GetStringAttr(key, def string) string {
	if m.Attrs == nil {
		return def
	}
	if value, ok := m.Attrs[key].(string); ok {
		return value
	}
	return def
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	cloned := n
	cloned.Attrs = cloneAnyMap(n.Attrs)
	cloned.Content = cloneNodes(n.Content)
	if n.Marks != nil {
		cloned.Marks = make([]Mark, len(n.Marks))
		for i, mark := range n.Marks {
			cloned.Marks[i] = Mark{Type: mark.Type, Attrs: cloneAnyMap(mark.Attrs)}
		}
	}
	return cloned
}

func cloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	cloned := make([]Node, len(nodes))
	for i, node := range nodes {
		cloned[i] = node.Clone()
	}
	return cloned
}

func cloneAnyMap(src map[string]interface{}) map[string]interface{} {
	if src == nil {
		return nil
	}
	dst := make(map[string]interface{}, len(src))
	for key, value := range src {
		if nested, ok := value.(map[string]interface{}); ok {
			dst[key] = cloneAnyMap(nested)
			continue
		}
		dst[key] = value
	}
	return dst
}

// PlainText concatenates the text of every text node under n.
func PlainText(n Node) string {
	var sb strings.Builder
	collectText(n, &sb)
	return sb.String()
}

func collectText(n Node, sb *strings.Builder) {
	if n.Type == NodeText {
		sb.WriteString(n.Text)
	}
	for _, child := range n.Content {
		collectText(child, sb)
	}
}
