package converter

import (
	"fmt"
	"strings"
)

// convertMediaGroup renders every media child as its own attachment placeholder line.
func (s *state) convertMediaGroup(node Node) string {
	var items []string
	for _, child := range node.Content {
		if child.Type != NodeMedia {
			continue
		}
		items = append(items, s.convertMedia(child))
	}
	if len(items) == 0 {
		return ""
	}
	return strings.Join(items, "\n\n") + "\n\n"
}

// convertMedia renders a media node as an italic attachment placeholder.
func (s *state) convertMedia(node Node) string {
	name := node.GetStringAttr("alt", "")
	if name == "" {
		name = node.GetStringAttr("id", "")
	}
	if name == "" {
		s.addWarning(WarningMissingAttribute, node.Type, "media missing alt and id")
		name = "unknown"
	}
	return "*" + fmt.Sprintf(s.config.MediaText, name) + "*"
}
