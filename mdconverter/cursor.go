package mdconverter

// cursor is a forward-only position over a token slice. Sub-walkers take a
// child cursor scoped to one open/close span instead of threading indexes.
type cursor struct {
	tokens []Token
	pos    int
}

func newCursor(tokens []Token) *cursor {
	return &cursor{tokens: tokens}
}

func (c *cursor) done() bool {
	return c.pos >= len(c.tokens)
}

// peek returns the current token without consuming it.
func (c *cursor) peek() Token {
	if c.done() {
		return Token{}
	}
	return c.tokens[c.pos]
}

func (c *cursor) next() Token {
	token := c.peek()
	if !c.done() {
		c.pos++
	}
	return token
}

// enter consumes the open token at the cursor together with its matching
// close and returns a cursor over the tokens in between. A token without a
// closer yields an empty cursor. An unbalanced span runs to the end.
func (c *cursor) enter() *cursor {
	open := c.next()
	closeType, ok := open.Type.Closer()
	if !ok {
		return newCursor(nil)
	}

	start := c.pos
	depth := 1
	for i := start; i < len(c.tokens); i++ {
		switch c.tokens[i].Type {
		case open.Type:
			depth++
		case closeType:
			depth--
			if depth == 0 {
				c.pos = i + 1
				return newCursor(c.tokens[start:i])
			}
		}
	}
	c.pos = len(c.tokens)
	return newCursor(c.tokens[start:])
}

// find returns the first token of the given type in the remaining span.
func (c *cursor) find(tokenType TokenType) (Token, bool) {
	for _, token := range c.tokens[c.pos:] {
		if token.Type == tokenType {
			return token, true
		}
	}
	return Token{}, false
}
