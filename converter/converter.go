package converter

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Converter converts ADF to Markdown for terminal display.
type Converter struct {
	config   Config
	location *time.Location
}

// New creates a new Converter with the given config.
func New(config Config) (*Converter, error) {
	cfg := config.applyDefaults().clone()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	location, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Converter{config: cfg, location: location}, nil
}

// ToMarkdown converts doc using the default configuration. baseURL is only
// used for mention links. A base URL without a scheme, such as
// "x.atlassian.net", is treated as https; one that still fails to parse
// yields relative links.
func ToMarkdown(doc Doc, baseURL string) string {
	conv, err := New(Config{BaseURL: withScheme(baseURL)})
	if err != nil {
		conv, _ = New(Config{})
	}
	return conv.ConvertDoc(doc).Markdown
}

func withScheme(baseURL string) string {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" || strings.Contains(baseURL, "://") {
		return baseURL
	}
	return "https://" + strings.TrimLeft(baseURL, "/")
}

// Convert takes an ADF JSON document and returns Markdown.
func (c *Converter) Convert(input []byte) (Result, error) {
	var doc Doc
	if err := json.Unmarshal(input, &doc); err != nil {
		return Result{}, fmt.Errorf("failed to parse ADF JSON: %w", err)
	}
	return c.ConvertDoc(doc), nil
}

// ConvertDoc converts a decoded document. It never fails; content it cannot
// represent is dropped and reported as a warning.
func (c *Converter) ConvertDoc(doc Doc) Result {
	s := &state{config: c.config}

	root := c.transform(doc.Root())
	markdown := s.convertChildren(root.Content)
	markdown = fixFences(markdown)
	markdown = strings.TrimLeft(markdown, "\n")
	markdown = PostProcess(markdown)
	markdown = UnescapeSentinels(markdown)

	markdown = strings.TrimRight(markdown, "\n")
	if markdown != "" {
		markdown += "\n"
	}
	return Result{Markdown: markdown, Warnings: s.warnings}
}

// state carries per-call rendering state.
type state struct {
	config   Config
	warnings Warnings
	seen     map[string]bool
}

// addWarning records a warning once per type and node type.
func (s *state) addWarning(warningType WarningType, nodeType, message string) {
	key := string(warningType) + "\x00" + nodeType + "\x00" + message
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	if s.seen[key] {
		return
	}
	s.seen[key] = true
	s.warnings = append(s.warnings, Warning{Type: warningType, NodeType: nodeType, Message: message})
}

// convertNode renders a block node.
func (s *state) convertNode(node Node) string {
	switch node.Type {
	case NodeDoc:
		return s.convertChildren(node.Content)
	case NodeParagraph:
		return s.convertParagraph(node)
	case NodeHeading:
		return s.convertHeading(node)
	case NodeBlockquote:
		return s.convertBlockquote(node)
	case NodeRule:
		return "---\n\n"
	case NodeCodeBlock:
		return s.convertCodeBlock(node)
	case NodePanel:
		return s.convertPanel(node)
	case NodeBulletList:
		return s.convertBulletList(node)
	case NodeOrderedList:
		return s.convertOrderedList(node)
	case NodeTaskList:
		return s.convertTaskList(node)
	case NodeListItem:
		return s.convertListItemContent(node.Content)
	case NodeTable:
		return s.convertTable(node)
	case NodeExpand, NodeNestedExpand:
		return s.convertExpand(node)
	case NodeMediaSingle, NodeMediaGroup:
		return s.convertMediaGroup(node)
	default:
		if isInline(node) {
			return s.convertParagraphContent([]Node{node})
		}
		if placeholder := s.convertUnknown(node); placeholder != "" {
			return placeholder + "\n\n"
		}
		return ""
	}
}

// convertUnknown drops a node the renderer has no mapping for.
func (s *state) convertUnknown(node Node) string {
	s.addWarning(WarningUnknownNode, node.Type, fmt.Sprintf("unknown node skipped: %s", node.Type))
	if s.config.UnknownNodes == UnknownPlaceholder {
		return fmt.Sprintf("[Unknown node: %s]", node.Type)
	}
	return ""
}

func isInline(node Node) bool {
	switch node.Type {
	case NodeText, NodeHardBreak, NodeEmoji, NodeMention, NodeInlineCard, NodeMedia:
		return true
	default:
		return false
	}
}

// blockParts renders each block child, grouping runs of inline nodes that
// appear at block level into paragraphs.
func (s *state) blockParts(content []Node) []renderedBlock {
	var parts []renderedBlock
	for i := 0; i < len(content); {
		if isInline(content[i]) {
			j := i
			for j < len(content) && isInline(content[j]) {
				j++
			}
			parts = append(parts, renderedBlock{nodeType: NodeParagraph, text: s.convertParagraphContent(content[i:j])})
			i = j
			continue
		}
		parts = append(parts, renderedBlock{nodeType: content[i].Type, text: s.convertNode(content[i])})
		i++
	}
	return parts
}

type renderedBlock struct {
	nodeType string
	text     string
}

// convertChildren renders block content in order.
func (s *state) convertChildren(content []Node) string {
	var sb strings.Builder
	for _, part := range s.blockParts(content) {
		sb.WriteString(part.text)
	}
	return sb.String()
}
