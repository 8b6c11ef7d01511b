package converter

// Result holds the output of a conversion.
type Result struct {
	Markdown string   `json:"markdown"`
	Warnings Warnings `json:"warnings,omitempty"`
}

// WarningType categorizes conversion warnings.
type WarningType string

const (
	WarningUnknownNode       WarningType = "unknown_node"
	WarningUnknownMark       WarningType = "unknown_mark"
	WarningDroppedFeature    WarningType = "dropped_feature"
	WarningMissingAttribute  WarningType = "missing_attribute"
	WarningMalformedMarkdown WarningType = "malformed_markdown"
)

// Warning represents a non-fatal issue encountered during conversion.
type Warning struct {
	Type     WarningType `json:"type"`
	NodeType string      `json:"nodeType,omitempty"`
	Line     int         `json:"line,omitempty"`
	Message  string      `json:"message"`
}

// Warnings is an ordered list of conversion warnings.
type Warnings []Warning

// Messages returns the warning messages in order.
func (w Warnings) Messages() []string {
	messages := make([]string, 0, len(w))
	for _, warning := range w {
		messages = append(messages, warning.Message)
	}
	return messages
}
