package mdconverter

// TokenType identifies a token in the flat Markdown token stream.
type TokenType int

const (
	TokenInvalid TokenType = iota

	// Block tokens.
	TokenHeadingOpen
	TokenHeadingClose
	TokenParagraphOpen
	TokenParagraphClose
	TokenInline
	TokenBlockquoteOpen
	TokenBlockquoteClose
	TokenHr
	TokenBulletListOpen
	TokenBulletListClose
	TokenOrderedListOpen
	TokenOrderedListClose
	TokenListItemOpen
	TokenListItemClose
	TokenFence
	TokenCodeBlock
	TokenHTMLBlock
	TokenTableOpen
	TokenTableClose
	TokenTheadOpen
	TokenTheadClose
	TokenTbodyOpen
	TokenTbodyClose
	TokenTrOpen
	TokenTrClose
	TokenThOpen
	TokenThClose
	TokenTdOpen
	TokenTdClose

	// Inline tokens, found in the Children of a TokenInline.
	TokenText
	TokenSoftbreak
	TokenHardbreak
	TokenStrongOpen
	TokenStrongClose
	TokenEmOpen
	TokenEmClose
	TokenSOpen
	TokenSClose
	TokenCodeInline
	TokenLinkOpen
	TokenLinkClose
	TokenImage
	TokenHTMLInline
)

var tokenNames = map[TokenType]string{
	TokenHeadingOpen:      "heading_open",
	TokenHeadingClose:     "heading_close",
	TokenParagraphOpen:    "paragraph_open",
	TokenParagraphClose:   "paragraph_close",
	TokenInline:           "inline",
	TokenBlockquoteOpen:   "blockquote_open",
	TokenBlockquoteClose:  "blockquote_close",
	TokenHr:               "hr",
	TokenBulletListOpen:   "bullet_list_open",
	TokenBulletListClose:  "bullet_list_close",
	TokenOrderedListOpen:  "ordered_list_open",
	TokenOrderedListClose: "ordered_list_close",
	TokenListItemOpen:     "list_item_open",
	TokenListItemClose:    "list_item_close",
	TokenFence:            "fence",
	TokenCodeBlock:        "code_block",
	TokenHTMLBlock:        "html_block",
	TokenTableOpen:        "table_open",
	TokenTableClose:       "table_close",
	TokenTheadOpen:        "thead_open",
	TokenTheadClose:       "thead_close",
	TokenTbodyOpen:        "tbody_open",
	TokenTbodyClose:       "tbody_close",
	TokenTrOpen:           "tr_open",
	TokenTrClose:          "tr_close",
	TokenThOpen:           "th_open",
	TokenThClose:          "th_close",
	TokenTdOpen:           "td_open",
	TokenTdClose:          "td_close",
	TokenText:             "text",
	TokenSoftbreak:        "softbreak",
	TokenHardbreak:        "hardbreak",
	TokenStrongOpen:       "strong_open",
	TokenStrongClose:      "strong_close",
	TokenEmOpen:           "em_open",
	TokenEmClose:          "em_close",
	TokenSOpen:            "s_open",
	TokenSClose:           "s_close",
	TokenCodeInline:       "code_inline",
	TokenLinkOpen:         "link_open",
	TokenLinkClose:        "link_close",
	TokenImage:            "image",
	TokenHTMLInline:       "html_inline",
}

// String returns the markdown-it name of the token type, e.g. "heading_open".
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "invalid"
}

var tokenClosers = map[TokenType]TokenType{
	TokenHeadingOpen:     TokenHeadingClose,
	TokenParagraphOpen:   TokenParagraphClose,
	TokenBlockquoteOpen:  TokenBlockquoteClose,
	TokenBulletListOpen:  TokenBulletListClose,
	TokenOrderedListOpen: TokenOrderedListClose,
	TokenListItemOpen:    TokenListItemClose,
	TokenTableOpen:       TokenTableClose,
	TokenTheadOpen:       TokenTheadClose,
	TokenTbodyOpen:       TokenTbodyClose,
	TokenTrOpen:          TokenTrClose,
	TokenThOpen:          TokenThClose,
	TokenTdOpen:          TokenTdClose,
	TokenStrongOpen:      TokenStrongClose,
	TokenEmOpen:          TokenEmClose,
	TokenSOpen:           TokenSClose,
	TokenLinkOpen:        TokenLinkClose,
}

// Closer returns the closing type paired with an opening type.
func (t TokenType) Closer() (TokenType, bool) {
	closer, ok := tokenClosers[t]
	return closer, ok
}

// Token is one entry of the flat token stream.
type Token struct {
	Type TokenType
	// Tag is the HTML tag the token stands for, e.g. "h2" or "ul".
	Tag   string
	Attrs map[string]string
	// Info is the fence info string.
	Info string
	// Content is the raw text of leaf and inline tokens.
	Content  string
	Children []Token
	// Map is the [start, end) zero-based source line range, nil when unknown.
	Map []int
}

// AttrGet returns the named attribute or "".
func (t Token) AttrGet(name string) string {
	return t.Attrs[name]
}

func (t *Token) setAttr(name, value string) {
	if t.Attrs == nil {
		t.Attrs = make(map[string]string)
	}
	t.Attrs[name] = value
}

// Line returns the 1-based first source line, or 0 when unknown.
func (t Token) Line() int {
	if len(t.Map) == 0 {
		return 0
	}
	return t.Map[0] + 1
}
