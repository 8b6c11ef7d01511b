package mdconverter

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rgonek/jira-adf-markdown/converter"
)

// Converter converts GFM markdown to Jira ADF.
type Converter struct {
	config   ReverseConfig
	location *time.Location
}

type state struct {
	config   ReverseConfig
	location *time.Location
	warnings converter.Warnings
	seen     map[string]bool
}

// New creates a new reverse Converter with the given config.
func New(config ReverseConfig) (*Converter, error) {
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

// ToADF converts markdown with the default configuration.
func ToADF(markdown string) converter.Doc {
	doc, _ := ToADFWithWarnings(markdown)
	return doc
}

// ToADFWithWarnings converts markdown with the default configuration and
// also returns the warning messages in order.
func ToADFWithWarnings(markdown string) (converter.Doc, []string) {
	conv, err := New(ReverseConfig{})
	if err != nil {
		return converter.NewDoc(), []string{}
	}
	result := conv.Convert(markdown)
	return result.Doc, result.Warnings.Messages()
}

// Convert takes a markdown document and returns its ADF tree. It never
// fails; constructs without an ADF equivalent are dropped with a warning.
func (c *Converter) Convert(markdown string) Result {
	if strings.TrimSpace(markdown) == "" {
		return Result{Doc: converter.NewDoc()}
	}

	tokens := Tokenize(markdown)
	s := &state{config: c.config, location: c.location}

	warnings := detectMalformed(tokens)
	content := s.convertBlocks(newCursor(tokens))

	return Result{
		Doc:      converter.NewDoc(content...),
		Warnings: append(warnings, s.warnings...),
	}
}

// warnUnsupported records one warning per normalised element name.
func (s *state) warnUnsupported(format string, tokenType TokenType) {
	name := strings.ReplaceAll(tokenType.String(), "_", " ")
	name = strings.ReplaceAll(name, "open", "")
	name = strings.TrimSpace(strings.ReplaceAll(name, "close", ""))
	if name == "" {
		return
	}

	message := fmt.Sprintf(format, name)
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	if s.seen[message] {
		return
	}
	s.seen[message] = true
	s.warnings = append(s.warnings, converter.Warning{
		Type:     converter.WarningUnknownNode,
		NodeType: tokenType.String(),
		Message:  message,
	})
}

func (s *state) localID() string {
	if s.config.LocalIDStyle == LocalIDUUID {
		return uuid.NewString()
	}
	return ""
}
