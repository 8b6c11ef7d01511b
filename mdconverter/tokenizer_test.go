package mdconverter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTypes(tokens []Token) []string {
	types := make([]string, 0, len(tokens))
	for _, token := range tokens {
		types = append(types, token.Type.String())
	}
	return types
}

func TestTokenTypeString(t *testing.T) {
	assert.Equal(t, "heading_open", TokenHeadingOpen.String())
	assert.Equal(t, "code_inline", TokenCodeInline.String())
	assert.Equal(t, "invalid", TokenType(999).String())
}

func TestTokenizeBlockStream(t *testing.T) {
	tokens := Tokenize("# Title\n\ntext\n\n---\n")

	assert.Equal(t, []string{
		"heading_open", "inline", "heading_close",
		"paragraph_open", "inline", "paragraph_close",
		"hr",
	}, tokenTypes(tokens))
	assert.Equal(t, "h1", tokens[0].Tag)
	assert.Equal(t, "Title", tokens[1].Content)
	assert.Equal(t, []int{2, 3}, tokens[3].Map)
	assert.Equal(t, 3, tokens[4].Line())
}

func TestTokenizeTaskListClasses(t *testing.T) {
	tokens := Tokenize("- [x] done\n- plain\n")

	require.Equal(t, TokenBulletListOpen, tokens[0].Type)
	assert.Equal(t, classTaskList, tokens[0].AttrGet("class"))
	assert.Equal(t, classTaskListItem, tokens[1].AttrGet("class"))

	inline, ok := newCursor(tokens).find(TokenInline)
	require.True(t, ok)
	require.NotEmpty(t, inline.Children)
	assert.Equal(t, TokenHTMLInline, inline.Children[0].Type)
	assert.Contains(t, inline.Children[0].Content, `checked="checked"`)

	var itemClasses []string
	for _, token := range tokens {
		if token.Type == TokenListItemOpen {
			itemClasses = append(itemClasses, token.AttrGet("class"))
		}
	}
	assert.Equal(t, []string{classTaskListItem, ""}, itemClasses)
}

func TestTokenizeMergesUnmatchedDelimiters(t *testing.T) {
	tokens := Tokenize("This is **bold")

	require.Len(t, tokens, 3)
	assert.Equal(t, []Token{{Type: TokenText, Content: "This is **bold"}}, tokens[1].Children)
}

func TestTokenizeInlineStream(t *testing.T) {
	tokens := Tokenize("**a** [b](https://example.com) `c`")

	assert.Equal(t, []string{
		"strong_open", "text", "strong_close", "text",
		"link_open", "text", "link_close", "text", "code_inline",
	}, tokenTypes(tokens[1].Children))
	assert.Equal(t, "https://example.com", tokens[1].Children[4].AttrGet("href"))
}

func TestTokenizeTable(t *testing.T) {
	tokens := Tokenize("| A |\n| :-: |\n| 1 |\n")

	assert.Equal(t, []string{
		"table_open",
		"thead_open", "tr_open", "th_open", "inline", "th_close", "tr_close", "thead_close",
		"tbody_open", "tr_open", "td_open", "inline", "td_close", "tr_close", "tbody_close",
		"table_close",
	}, tokenTypes(tokens))
	assert.Equal(t, "text-align:center", tokens[3].AttrGet("style"))
}

func TestTokenizeFenceInfo(t *testing.T) {
	tokens := Tokenize("```go\nfmt.Println()\n```\n")

	require.Len(t, tokens, 1)
	assert.Equal(t, TokenFence, tokens[0].Type)
	assert.Equal(t, "go", tokens[0].Info)
	assert.Equal(t, "fmt.Println()\n", tokens[0].Content)
}
