package converter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultJSONSerialization(t *testing.T) {
	in := Result{
		Markdown: "hello\n",
		Warnings: Warnings{
			{Type: WarningMalformedMarkdown, Line: 3, Message: "Line 3: Unclosed bold marker (**) in \"x\""},
		},
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out Result
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestWarningMessagesKeepOrder(t *testing.T) {
	warnings := Warnings{
		{Type: WarningUnknownNode, Message: "first"},
		{Type: WarningDroppedFeature, Message: "second"},
	}
	assert.Equal(t, []string{"first", "second"}, warnings.Messages())
	assert.Equal(t, []string{}, Warnings(nil).Messages())
}
