package mdconverter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCursorEnterScopesNestedSpans(t *testing.T) {
	c := newCursor([]Token{
		{Type: TokenBlockquoteOpen},
		{Type: TokenBlockquoteOpen},
		{Type: TokenHr},
		{Type: TokenBlockquoteClose},
		{Type: TokenBlockquoteClose},
		{Type: TokenHr},
	})

	inner := c.enter()

	assert.Len(t, inner.tokens, 3)
	assert.Equal(t, TokenHr, c.peek().Type)
	assert.Equal(t, TokenBlockquoteOpen, inner.peek().Type)
}

func TestCursorEnterUnbalancedRunsToEnd(t *testing.T) {
	c := newCursor([]Token{{Type: TokenListItemOpen}, {Type: TokenText}})

	inner := c.enter()

	assert.True(t, c.done())
	assert.Len(t, inner.tokens, 1)
}

func TestCursorEnterLeafIsEmpty(t *testing.T) {
	c := newCursor([]Token{{Type: TokenHr}, {Type: TokenFence}})

	assert.True(t, c.enter().done())
	assert.Equal(t, TokenFence, c.next().Type)
	assert.True(t, c.done())
	assert.Equal(t, Token{}, c.next())
}
