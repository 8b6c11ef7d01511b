package mdconverter

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var (
	gfmParserOnce sync.Once
	gfmParser     parser.Parser
)

// markdownParser returns the shared GFM parser. It is read-only after
// construction and safe for concurrent use.
func markdownParser() parser.Parser {
	gfmParserOnce.Do(func() {
		gfmParser = goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser()
	})
	return gfmParser
}

const (
	classTaskList     = "contains-task-list"
	classTaskListItem = "task-list-item"

	checkboxChecked   = `<input class="task-list-item-checkbox" checked="checked" disabled="disabled" type="checkbox">`
	checkboxUnchecked = `<input class="task-list-item-checkbox" disabled="disabled" type="checkbox">`
)

// Tokenize parses GFM markdown and flattens the tree into a paired
// open/close token stream. Block tokens are flat; the inline content of
// headings, paragraphs and table cells hangs off TokenInline children.
func Tokenize(markdown string) []Token {
	source := []byte(markdown)
	root := markdownParser().Parse(text.NewReader(source))

	t := &tokenizer{source: source, lineStarts: lineStarts(source)}
	t.blocks(root)
	return t.tokens
}

type tokenizer struct {
	source     []byte
	lineStarts []int
	tokens     []Token
}

func (t *tokenizer) emit(token Token) {
	t.tokens = append(t.tokens, token)
}

func (t *tokenizer) blocks(parent ast.Node) {
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		t.block(child)
	}
}

func (t *tokenizer) block(node ast.Node) {
	lines := t.lineRange(node)

	switch typed := node.(type) {
	case *ast.Heading:
		tag := "h" + strconv.Itoa(typed.Level)
		t.emit(Token{Type: TokenHeadingOpen, Tag: tag, Map: lines})
		t.emit(t.inline(node, t.linesText(node), lines))
		t.emit(Token{Type: TokenHeadingClose, Tag: tag})

	case *ast.Paragraph, *ast.TextBlock:
		t.emit(Token{Type: TokenParagraphOpen, Tag: "p", Map: lines})
		t.emit(t.inline(node, t.linesText(node), lines))
		t.emit(Token{Type: TokenParagraphClose, Tag: "p"})

	case *ast.Blockquote:
		t.emit(Token{Type: TokenBlockquoteOpen, Tag: "blockquote", Map: lines})
		t.blocks(node)
		t.emit(Token{Type: TokenBlockquoteClose, Tag: "blockquote"})

	case *ast.ThematicBreak:
		t.emit(Token{Type: TokenHr, Tag: "hr", Map: lines})

	case *ast.List:
		t.list(typed, lines)

	case *ast.FencedCodeBlock:
		info := ""
		if typed.Info != nil {
			info = strings.TrimSpace(string(typed.Info.Segment.Value(t.source)))
		}
		t.emit(Token{Type: TokenFence, Tag: "code", Info: info, Content: t.rawLines(node), Map: lines})

	case *ast.CodeBlock:
		t.emit(Token{Type: TokenCodeBlock, Tag: "code", Content: t.rawLines(node), Map: lines})

	case *ast.HTMLBlock:
		content := t.rawLines(node)
		if typed.HasClosure() {
			content += string(typed.ClosureLine.Value(t.source))
		}
		t.emit(Token{Type: TokenHTMLBlock, Content: content, Map: lines})

	case *extast.Table:
		t.table(typed, lines)

	default:
		if node.HasChildren() {
			t.blocks(node)
		}
	}
}

func (t *tokenizer) list(list *ast.List, lines []int) {
	open := Token{Type: TokenBulletListOpen, Tag: "ul", Map: lines}
	closeType := TokenBulletListClose
	if list.IsOrdered() {
		open = Token{Type: TokenOrderedListOpen, Tag: "ol", Map: lines}
		closeType = TokenOrderedListClose
		if list.Start != 1 {
			open.setAttr("start", strconv.Itoa(list.Start))
		}
	}

	hasTask := false
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		if isTaskItem(item) {
			hasTask = true
			break
		}
	}
	if hasTask {
		open.setAttr("class", classTaskList)
	}

	t.emit(open)
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		itemOpen := Token{Type: TokenListItemOpen, Tag: "li", Map: t.lineRange(item)}
		if isTaskItem(item) {
			itemOpen.setAttr("class", classTaskListItem)
		}
		t.emit(itemOpen)
		t.blocks(item)
		t.emit(Token{Type: TokenListItemClose, Tag: "li"})
	}
	t.emit(Token{Type: closeType, Tag: open.Tag})
}

func isTaskItem(item ast.Node) bool {
	first := item.FirstChild()
	if first == nil {
		return false
	}
	_, ok := first.FirstChild().(*extast.TaskCheckBox)
	return ok
}

func (t *tokenizer) table(table *extast.Table, lines []int) {
	t.emit(Token{Type: TokenTableOpen, Tag: "table", Map: lines})

	bodyOpen := false
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		if _, ok := row.(*extast.TableHeader); ok {
			t.emit(Token{Type: TokenTheadOpen, Tag: "thead"})
			t.tableRow(row, TokenThOpen, TokenThClose, "th")
			t.emit(Token{Type: TokenTheadClose, Tag: "thead"})
			continue
		}
		if !bodyOpen {
			t.emit(Token{Type: TokenTbodyOpen, Tag: "tbody"})
			bodyOpen = true
		}
		t.tableRow(row, TokenTdOpen, TokenTdClose, "td")
	}
	if bodyOpen {
		t.emit(Token{Type: TokenTbodyClose, Tag: "tbody"})
	}

	t.emit(Token{Type: TokenTableClose, Tag: "table"})
}

func (t *tokenizer) tableRow(row ast.Node, openType, closeType TokenType, tag string) {
	t.emit(Token{Type: TokenTrOpen, Tag: "tr"})
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		open := Token{Type: openType, Tag: tag}
		if typed, ok := cell.(*extast.TableCell); ok && typed.Alignment != extast.AlignNone {
			open.setAttr("style", "text-align:"+typed.Alignment.String())
		}
		t.emit(open)
		t.emit(t.inline(cell, strings.TrimSpace(t.plainText(cell)), nil))
		t.emit(Token{Type: closeType, Tag: tag})
	}
	t.emit(Token{Type: TokenTrClose, Tag: "tr"})
}

func (t *tokenizer) inline(node ast.Node, content string, lines []int) Token {
	return Token{
		Type:     TokenInline,
		Content:  content,
		Children: t.inlineChildren(node),
		Map:      lines,
	}
}

func (t *tokenizer) inlineChildren(parent ast.Node) []Token {
	var children []Token
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		children = t.inlineNode(children, child)
	}
	return children
}

// appendText merges adjacent text tokens, so delimiters the parser left
// unmatched stay in the same run as their surrounding text.
func appendText(tokens []Token, value string) []Token {
	if value == "" {
		return tokens
	}
	if n := len(tokens); n > 0 && tokens[n-1].Type == TokenText {
		tokens[n-1].Content += value
		return tokens
	}
	return append(tokens, Token{Type: TokenText, Content: value})
}

func (t *tokenizer) inlineNode(tokens []Token, node ast.Node) []Token {
	switch typed := node.(type) {
	case *ast.Text:
		value := typed.Segment.Value(t.source)
		if !typed.IsRaw() {
			value = unescapeText(value)
		}
		textValue := string(value)
		switch {
		case typed.HardLineBreak():
			tokens = appendText(tokens, strings.TrimRight(textValue, " "))
			tokens = append(tokens, Token{Type: TokenHardbreak, Tag: "br"})
		case typed.SoftLineBreak():
			tokens = appendText(tokens, strings.TrimRight(textValue, " "))
			tokens = append(tokens, Token{Type: TokenSoftbreak})
		default:
			tokens = appendText(tokens, textValue)
		}
		return tokens

	case *ast.String:
		return appendText(tokens, string(typed.Value))

	case *ast.Emphasis:
		open, closeType, tag := TokenEmOpen, TokenEmClose, "em"
		if typed.Level >= 2 {
			open, closeType, tag = TokenStrongOpen, TokenStrongClose, "strong"
		}
		tokens = append(tokens, Token{Type: open, Tag: tag})
		tokens = append(tokens, t.inlineChildren(node)...)
		return append(tokens, Token{Type: closeType, Tag: tag})

	case *extast.Strikethrough:
		tokens = append(tokens, Token{Type: TokenSOpen, Tag: "s"})
		tokens = append(tokens, t.inlineChildren(node)...)
		return append(tokens, Token{Type: TokenSClose, Tag: "s"})

	case *ast.CodeSpan:
		return append(tokens, Token{Type: TokenCodeInline, Tag: "code", Content: t.plainText(node)})

	case *ast.Link:
		open := Token{Type: TokenLinkOpen, Tag: "a"}
		open.setAttr("href", string(typed.Destination))
		if len(typed.Title) > 0 {
			open.setAttr("title", string(typed.Title))
		}
		tokens = append(tokens, open)
		tokens = append(tokens, t.inlineChildren(node)...)
		return append(tokens, Token{Type: TokenLinkClose, Tag: "a"})

	case *ast.AutoLink:
		open := Token{Type: TokenLinkOpen, Tag: "a"}
		open.setAttr("href", string(typed.URL(t.source)))
		tokens = append(tokens, open, Token{Type: TokenText, Content: string(typed.Label(t.source))})
		return append(tokens, Token{Type: TokenLinkClose, Tag: "a"})

	case *ast.Image:
		alt := t.plainText(node)
		image := Token{Type: TokenImage, Tag: "img", Content: alt}
		image.setAttr("src", string(typed.Destination))
		image.setAttr("alt", alt)
		if len(typed.Title) > 0 {
			image.setAttr("title", string(typed.Title))
		}
		return append(tokens, image)

	case *ast.RawHTML:
		var sb strings.Builder
		for i := 0; i < typed.Segments.Len(); i++ {
			segment := typed.Segments.At(i)
			sb.Write(segment.Value(t.source))
		}
		return append(tokens, Token{Type: TokenHTMLInline, Content: sb.String()})

	case *extast.TaskCheckBox:
		content := checkboxUnchecked
		if typed.IsChecked {
			content = checkboxChecked
		}
		return append(tokens, Token{Type: TokenHTMLInline, Content: content})

	default:
		if node.HasChildren() {
			for child := node.FirstChild(); child != nil; child = child.NextSibling() {
				tokens = t.inlineNode(tokens, child)
			}
		}
		return tokens
	}
}

func unescapeText(value []byte) []byte {
	value = util.UnescapePunctuations(value)
	value = util.ResolveNumericReferences(value)
	return util.ResolveEntityNames(value)
}

// plainText concatenates the literal text below node.
func (t *tokenizer) plainText(node ast.Node) string {
	var sb strings.Builder
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		switch typed := n.(type) {
		case *ast.Text:
			value := typed.Segment.Value(t.source)
			if !typed.IsRaw() {
				value = unescapeText(value)
			}
			sb.Write(value)
			if typed.SoftLineBreak() || typed.HardLineBreak() {
				sb.WriteByte(' ')
			}
			return
		case *ast.String:
			sb.Write(typed.Value)
			return
		case *ast.AutoLink:
			sb.Write(typed.Label(t.source))
			return
		}
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			walk(child)
		}
	}
	walk(node)
	return sb.String()
}

// linesText is the trimmed raw source of a leaf block.
func (t *tokenizer) linesText(node ast.Node) string {
	return strings.TrimSpace(t.rawLines(node))
}

func (t *tokenizer) rawLines(node ast.Node) string {
	lines := node.Lines()
	if lines == nil {
		return ""
	}
	var sb strings.Builder
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		sb.Write(segment.Value(t.source))
	}
	return sb.String()
}

// lineRange maps a block to its [start, end) zero-based source lines.
func (t *tokenizer) lineRange(node ast.Node) []int {
	start, ok := firstOffset(node)
	if !ok {
		return nil
	}
	end, ok := lastOffset(node)
	if !ok || end <= start {
		end = start + 1
	}
	return []int{t.lineOf(start), t.lineOf(end-1) + 1}
}

func (t *tokenizer) lineOf(offset int) int {
	return sort.SearchInts(t.lineStarts, offset+1) - 1
}

func firstOffset(node ast.Node) (int, bool) {
	if node.Type() == ast.TypeBlock {
		if lines := node.Lines(); lines != nil && lines.Len() > 0 {
			return lines.At(0).Start, true
		}
	}
	if typed, ok := node.(*ast.Text); ok {
		return typed.Segment.Start, true
	}
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		if offset, ok := firstOffset(child); ok {
			return offset, true
		}
	}
	return 0, false
}

func lastOffset(node ast.Node) (int, bool) {
	for child := node.LastChild(); child != nil; child = child.PreviousSibling() {
		if offset, ok := lastOffset(child); ok {
			return offset, true
		}
	}
	if node.Type() == ast.TypeBlock {
		if lines := node.Lines(); lines != nil && lines.Len() > 0 {
			return lines.At(lines.Len() - 1).Stop, true
		}
	}
	if typed, ok := node.(*ast.Text); ok {
		return typed.Segment.Stop, true
	}
	return 0, false
}

func lineStarts(source []byte) []int {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}
