package mdconverter

import (
	"encoding/json"
	"fmt"

	"github.com/rgonek/jira-adf-markdown/converter"
)

// Result holds the output of a reverse conversion. Malformed-markdown
// warnings come first, followed by unsupported-element warnings.
type Result struct {
	Doc      converter.Doc      `json:"doc"`
	Warnings converter.Warnings `json:"warnings,omitempty"`
}

// ADF returns the document as ADF JSON.
func (r Result) ADF() ([]byte, error) {
	adf, err := json.Marshal(r.Doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ADF JSON: %w", err)
	}
	return adf, nil
}
