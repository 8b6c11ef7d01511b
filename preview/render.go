// Package preview renders converted Markdown as styled terminal text. It
// resolves the inline-code tags produced by the converter into coloured
// chips, GitHub alerts into labelled quote bars and task glyphs into
// highlighted checkboxes.
package preview

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/rgonek/jira-adf-markdown/converter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// DefaultWidth is used when Render is given a non-positive width.
const DefaultWidth = 80

const (
	wrapBreakpoints = " ,.;-+|"
	imageMarker     = "🖼  "
	decisionPrefix  = "⤷ "
	uncheckedBox    = '☐'
	checkedBox      = '☑'
)

var (
	parserInstance goldmark.Markdown
	parserOnce     sync.Once

	alertPattern       = regexp.MustCompile(`^\[!(NOTE|TIP|IMPORTANT|WARNING|CAUTION)\]`)
	profileLinkPattern = regexp.MustCompile(`/jira/people/[^/]+$`)
)

func markdownParser() goldmark.Markdown {
	parserOnce.Do(func() {
		parserInstance = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return parserInstance
}

// Render parses markdown and renders it as ANSI-styled text wrapped to
// width columns.
func Render(markdown string, theme Theme, width int) string {
	if strings.TrimSpace(markdown) == "" {
		return ""
	}
	if width <= 0 {
		width = DefaultWidth
	}

	source := []byte(markdown)
	document := markdownParser().Parser().Parse(text.NewReader(source))

	// Output always targets a terminal; without a forced profile lipgloss
	// detects no TTY under tests and drops every colour.
	lip := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	lip.SetColorProfile(termenv.ANSI256)

	r := &renderer{
		source: source,
		theme:  theme,
		width:  width,
		lip:    lip,
	}
	_ = ast.Walk(document, r.walk)

	return strings.TrimRight(r.output.String(), "\n")
}

type prefixLevel struct {
	text  string
	width int
}

type listState struct {
	ordered bool
	counter int
	tight   bool
}

// renderer accumulates inline content per block and wraps it when the
// block closes.
type renderer struct {
	source []byte
	theme  Theme
	width  int
	lip    *lipgloss.Renderer

	output strings.Builder
	inline strings.Builder

	prefixes        []prefixLevel
	linePrefix      string
	linePrefixWidth int
	pendingBullet   string

	bold   int
	italic int
	strike int
	link   int

	lists []listState

	trailingNewlines int

	// skipAlertMarker drops the "[!KIND]" line of an alert paragraph.
	skipAlertMarker bool
}

func (r *renderer) newStyle() lipgloss.Style {
	return r.lip.NewStyle()
}

func (r *renderer) currentWidth() int {
	width := r.width - r.linePrefixWidth
	if width < 10 {
		width = 10
	}
	return width
}

func (r *renderer) pushPrefix(prefix string, width int) {
	r.prefixes = append(r.prefixes, prefixLevel{text: prefix, width: width})
	r.linePrefix += prefix
	r.linePrefixWidth += width
}

func (r *renderer) popPrefix() {
	if len(r.prefixes) == 0 {
		return
	}
	top := r.prefixes[len(r.prefixes)-1]
	r.prefixes = r.prefixes[:len(r.prefixes)-1]
	r.linePrefix = r.linePrefix[:len(r.linePrefix)-len(top.text)]
	r.linePrefixWidth -= top.width
}

func (r *renderer) inTightList() bool {
	return len(r.lists) > 0 && r.lists[len(r.lists)-1].tight
}

func (r *renderer) writeOutput(s string) {
	if s == "" {
		return
	}
	r.output.WriteString(s)

	trimmed := strings.TrimRight(s, "\n")
	newlines := len(s) - len(trimmed)
	if trimmed == "" {
		r.trailingNewlines += newlines
	} else {
		r.trailingNewlines = newlines
	}
}

func (r *renderer) ensureNewline() {
	if r.trailingNewlines < 1 {
		r.writeOutput("\n")
	}
}

func (r *renderer) ensureBlankLine() {
	if r.output.Len() == 0 {
		return
	}
	for r.trailingNewlines < 2 {
		r.writeOutput("\n")
	}
}

func (r *renderer) consumeLinePrefix() string {
	if r.pendingBullet != "" {
		bullet := r.pendingBullet
		r.pendingBullet = ""
		return bullet
	}
	return r.linePrefix
}

func (r *renderer) applyPrefixes(content string) string {
	lines := strings.Split(content, "\n")
	for i := range lines {
		if i == 0 {
			lines[i] = r.consumeLinePrefix() + lines[i]
			continue
		}
		lines[i] = r.linePrefix + lines[i]
	}
	return strings.Join(lines, "\n")
}

func (r *renderer) flushInline() string {
	content := r.inline.String()
	r.inline.Reset()
	if content == "" {
		return ""
	}
	return r.applyPrefixes(ansi.Wrap(content, r.currentWidth(), wrapBreakpoints))
}

func (r *renderer) inlineStyle() lipgloss.Style {
	style := r.newStyle().Foreground(r.theme.NormalText)
	if r.link > 0 {
		style = style.Foreground(r.theme.LinkForeground).Underline(true)
	}
	if r.bold > 0 {
		style = style.Bold(true)
	}
	if r.italic > 0 {
		style = style.Italic(true)
	}
	if r.strike > 0 {
		style = style.Strikethrough(true)
	}
	return style
}

// styledText renders content in the current inline style, giving task
// glyphs their own colours.
func (r *renderer) styledText(content string) string {
	style := r.inlineStyle()
	if !strings.ContainsRune(content, uncheckedBox) && !strings.ContainsRune(content, checkedBox) {
		return style.Render(content)
	}

	var sb strings.Builder
	start := 0
	for i, ch := range content {
		if ch != uncheckedBox && ch != checkedBox {
			continue
		}
		if start < i {
			sb.WriteString(style.Render(content[start:i]))
		}
		sb.WriteString(r.checkbox(ch == checkedBox))
		start = i + utf8.RuneLen(ch)
	}
	if start < len(content) {
		sb.WriteString(style.Render(content[start:]))
	}
	return sb.String()
}

func (r *renderer) checkbox(checked bool) string {
	if checked {
		return r.newStyle().Foreground(r.theme.CheckedForeground).Bold(true).Render(string(checkedBox))
	}
	return r.newStyle().Foreground(r.theme.UncheckedForeground).Faint(true).Render(string(uncheckedBox))
}

func (r *renderer) highlightCode(code, language string) string {
	faint := r.newStyle().Foreground(r.theme.FaintText)
	if language == "" {
		return faint.Render(code)
	}
	var buffer strings.Builder
	if err := quick.Highlight(&buffer, code, language, "terminal256", r.theme.CodeStyle); err != nil {
		return faint.Render(code)
	}
	return buffer.String()
}

func (r *renderer) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node.Kind() {
	case ast.KindParagraph, ast.KindTextBlock:
		if entering {
			r.inline.Reset()
			return ast.WalkContinue, nil
		}
		r.skipAlertMarker = false
		if flushed := r.flushInline(); flushed != "" {
			r.writeOutput(flushed)
			r.ensureNewline()
			if !r.inTightList() {
				r.ensureBlankLine()
			}
		}

	case ast.KindHeading:
		if entering {
			r.inline.Reset()
		} else {
			r.leaveHeading(node.(*ast.Heading))
		}

	case ast.KindFencedCodeBlock:
		if entering {
			block := node.(*ast.FencedCodeBlock)
			r.renderCode(r.highlightCode(r.blockText(block), string(block.Language(r.source))))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindCodeBlock:
		if entering {
			r.renderCode(r.newStyle().Foreground(r.theme.FaintText).Render(r.blockText(node)))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindBlockquote:
		if entering {
			r.enterBlockquote(node)
		} else {
			r.popPrefix()
			r.ensureBlankLine()
		}

	case ast.KindList:
		if entering {
			r.enterList(node.(*ast.List))
		} else {
			r.leaveList()
		}

	case ast.KindListItem:
		if entering {
			r.enterListItem()
		} else {
			r.leaveListItem()
		}

	case ast.KindThematicBreak:
		if entering {
			rule := r.newStyle().Foreground(r.theme.BorderColor).Render(strings.Repeat("─", r.currentWidth()))
			r.ensureBlankLine()
			r.writeOutput(r.applyPrefixes(rule))
			r.ensureNewline()
			r.ensureBlankLine()
		}

	case ast.KindHTMLBlock:
		if entering {
			if stripped := strings.TrimSpace(stripHTMLTags(r.blockText(node))); stripped != "" {
				r.writeOutput(r.applyPrefixes(r.newStyle().Foreground(r.theme.FaintText).Render(stripped)))
				r.ensureNewline()
				r.ensureBlankLine()
			}
			return ast.WalkSkipChildren, nil
		}

	case ast.KindText:
		if entering {
			r.handleText(node.(*ast.Text))
		}

	case ast.KindString:
		if entering {
			r.inline.WriteString(r.styledText(string(node.(*ast.String).Value)))
		}

	case ast.KindEmphasis:
		delta := 1
		if !entering {
			delta = -1
		}
		if node.(*ast.Emphasis).Level >= 2 {
			r.bold += delta
		} else {
			r.italic += delta
		}

	case extast.KindStrikethrough:
		if entering {
			r.strike++
		} else {
			r.strike--
		}

	case ast.KindCodeSpan:
		if entering {
			r.renderCodeSpan(node)
			return ast.WalkSkipChildren, nil
		}

	case ast.KindLink:
		link := node.(*ast.Link)
		if entering {
			r.link++
		} else {
			r.link--
			r.appendDestination(string(link.Destination))
		}

	case ast.KindAutoLink:
		if entering {
			url := string(node.(*ast.AutoLink).URL(r.source))
			r.inline.WriteString(r.newStyle().Foreground(r.theme.LinkForeground).Underline(true).Render(url))
		}

	case ast.KindImage:
		if entering {
			r.renderImage(node.(*ast.Image))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindRawHTML:
		if entering {
			raw := node.(*ast.RawHTML)
			var html strings.Builder
			for i := 0; i < raw.Segments.Len(); i++ {
				segment := raw.Segments.At(i)
				html.Write(segment.Value(r.source))
			}
			if stripped := stripHTMLTags(html.String()); stripped != "" {
				r.inline.WriteString(r.newStyle().Foreground(r.theme.FaintText).Render(stripped))
			}
		}

	case extast.KindTable:
		if entering {
			r.renderTable(node.(*extast.Table))
			return ast.WalkSkipChildren, nil
		}

	case extast.KindTaskCheckBox:
		if entering {
			r.inline.WriteString(r.checkbox(node.(*extast.TaskCheckBox).IsChecked) + " ")
		}
	}

	return ast.WalkContinue, nil
}

func (r *renderer) leaveHeading(heading *ast.Heading) {
	content := ansi.Strip(r.inline.String())
	r.inline.Reset()
	if content == "" {
		return
	}

	style := r.newStyle().Bold(true).Foreground(r.theme.NormalText)
	if heading.Level <= 2 {
		style = style.Foreground(r.theme.HeaderForeground)
	}

	wrapped := ansi.Wrap(style.Render(content), r.currentWidth(), wrapBreakpoints)
	r.ensureBlankLine()
	r.writeOutput(r.applyPrefixes(wrapped))
	r.ensureNewline()
	r.ensureBlankLine()
}

func (r *renderer) blockText(node ast.Node) string {
	var sb strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		sb.Write(segment.Value(r.source))
	}
	return sb.String()
}

func (r *renderer) renderCode(styled string) {
	r.ensureBlankLine()
	for _, line := range strings.Split(strings.TrimRight(styled, "\n"), "\n") {
		r.writeOutput(r.consumeLinePrefix() + line)
		r.ensureNewline()
	}
	r.ensureBlankLine()
}

// enterBlockquote pushes the quote bar. Alerts get a coloured bar and a
// label line in place of their "[!KIND]" marker.
func (r *renderer) enterBlockquote(node ast.Node) {
	kind := r.alertKind(node)
	if kind == "" {
		bar := r.newStyle().Foreground(r.theme.BorderColor).Render("│ ")
		r.pushPrefix(bar, 2)
		return
	}

	color := r.theme.alertColor(kind)
	r.pushPrefix(r.newStyle().Foreground(color).Render("│ "), 2)

	label := kind[:1] + strings.ToLower(kind[1:])
	r.ensureBlankLine()
	r.writeOutput(r.applyPrefixes(r.newStyle().Foreground(color).Bold(true).Render(label)))
	r.ensureNewline()
	r.skipAlertMarker = true
}

func (r *renderer) alertKind(node ast.Node) string {
	paragraph, ok := node.FirstChild().(*ast.Paragraph)
	if !ok || paragraph.Lines().Len() == 0 {
		return ""
	}
	first := paragraph.Lines().At(0)
	match := alertPattern.FindStringSubmatch(strings.TrimSpace(string(first.Value(r.source))))
	if match == nil {
		return ""
	}
	return match[1]
}

func (r *renderer) enterList(list *ast.List) {
	start := 0
	if list.IsOrdered() {
		start = list.Start
	}
	r.lists = append(r.lists, listState{
		ordered: list.IsOrdered(),
		counter: start,
		tight:   list.IsTight,
	})
}

func (r *renderer) leaveList() {
	if len(r.lists) > 0 {
		r.lists = r.lists[:len(r.lists)-1]
	}
	if !r.inTightList() {
		r.ensureBlankLine()
	}
}

func (r *renderer) enterListItem() {
	if len(r.lists) == 0 {
		return
	}
	top := &r.lists[len(r.lists)-1]

	bullet := "• "
	width := 2
	if top.ordered {
		bullet = fmt.Sprintf("%d. ", top.counter)
		width = len(bullet)
		top.counter++
	}

	r.pendingBullet = r.linePrefix + r.newStyle().Foreground(r.theme.FaintText).Render(bullet)
	r.pushPrefix(strings.Repeat(" ", width), width)
}

func (r *renderer) leaveListItem() {
	r.popPrefix()
	if r.inTightList() {
		r.ensureNewline()
		return
	}
	r.ensureBlankLine()
}

func (r *renderer) handleText(node *ast.Text) {
	if r.skipAlertMarker {
		if node.SoftLineBreak() || node.HardLineBreak() {
			r.skipAlertMarker = false
		}
		return
	}

	value := node.Segment.Value(r.source)
	if !node.IsRaw() {
		value = util.UnescapePunctuations(value)
	}
	r.inline.WriteString(r.styledText(string(value)))

	// Soft breaks reflow; hard breaks survive wrapping.
	if node.SoftLineBreak() {
		r.inline.WriteString(" ")
	}
	if node.HardLineBreak() {
		r.inline.WriteString("\n")
	}
}

// renderCodeSpan turns status, date and decision tags into chips and
// leaves any other inline code as tinted text.
func (r *renderer) renderCodeSpan(node ast.Node) {
	code := r.inlineText(node)

	marker, ok := converter.ParseTag(code)
	if !ok {
		r.inline.WriteString(r.newStyle().Foreground(r.theme.CodeForeground).Render(code))
		return
	}

	switch marker.Kind {
	case converter.MarkerStatus:
		chip := r.newStyle().
			Foreground(r.theme.ChipForeground).
			Background(r.theme.statusBackground(marker.Code)).
			Bold(true).
			Padding(0, 1)
		r.inline.WriteString(chip.Render(marker.Text))
	case converter.MarkerDate:
		chip := r.newStyle().
			Foreground(r.theme.ChipForeground).
			Background(r.theme.DateBackground).
			Padding(0, 1)
		r.inline.WriteString(chip.Render(marker.Text))
	case converter.MarkerDecision:
		r.inline.WriteString(r.newStyle().Foreground(r.theme.DecisionForeground).Render(decisionPrefix + marker.Text))
	}
}

// appendDestination follows link text with its URL. Profile links and
// links whose text already is the URL show no suffix.
func (r *renderer) appendDestination(destination string) {
	if destination == "" || profileLinkPattern.MatchString(destination) {
		return
	}
	if strings.HasSuffix(ansi.Strip(r.inline.String()), destination) {
		return
	}
	r.inline.WriteString(" " + r.newStyle().Foreground(r.theme.FaintText).Render("("+destination+")"))
}

func (r *renderer) renderImage(image *ast.Image) {
	label := imageMarker
	if alt := r.inlineText(image); alt != "" {
		label += "(" + alt + ")"
	}
	r.inline.WriteString(r.newStyle().Foreground(r.theme.LinkForeground).Render(label))
}

// inlineText collects the plain text below node.
func (r *renderer) inlineText(node ast.Node) string {
	var sb strings.Builder
	_ = ast.Walk(node, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch child := child.(type) {
		case *ast.Text:
			sb.Write(child.Segment.Value(r.source))
		case *ast.String:
			sb.Write(child.Value)
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

func (r *renderer) renderTable(table *extast.Table) {
	var header []string
	var rows [][]string
	for child := table.FirstChild(); child != nil; child = child.NextSibling() {
		switch child.Kind() {
		case extast.KindTableHeader:
			header = r.tableRow(child)
		case extast.KindTableRow:
			rows = append(rows, r.tableRow(child))
		}
	}

	columns := len(header)
	if columns == 0 && len(rows) > 0 {
		columns = len(rows[0])
	}
	if columns == 0 {
		return
	}

	widths := columnWidths(columns, header, rows, r.currentWidth())

	r.ensureBlankLine()
	if len(header) > 0 {
		bold := r.newStyle().Bold(true).Foreground(r.theme.NormalText)
		r.writeOutput(r.consumeLinePrefix() + formatRow(header, widths, table.Alignments, bold))
		r.ensureNewline()

		parts := make([]string, len(widths))
		for i, width := range widths {
			parts[i] = strings.Repeat("─", width)
		}
		border := r.newStyle().Foreground(r.theme.BorderColor)
		r.writeOutput(r.linePrefix + border.Render(strings.Join(parts, cellSeparator)))
		r.ensureNewline()
	}
	for _, row := range rows {
		r.writeOutput(r.linePrefix + formatRow(row, widths, table.Alignments, r.newStyle()))
		r.ensureNewline()
	}
	r.ensureBlankLine()
}

// tableRow renders each cell's inline content in isolation from the
// surrounding paragraph state.
func (r *renderer) tableRow(row ast.Node) []string {
	saved := r.inline.String()
	var cells []string
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		if cell.Kind() != extast.KindTableCell {
			continue
		}
		r.inline.Reset()
		for child := cell.FirstChild(); child != nil; child = child.NextSibling() {
			_ = ast.Walk(child, r.walk)
		}
		cells = append(cells, r.inline.String())
	}
	r.inline.Reset()
	r.inline.WriteString(saved)
	return cells
}

const cellSeparator = "  "

// columnWidths sizes columns to their widest cell, shrinking them
// proportionally when the table does not fit.
func columnWidths(columns int, header []string, rows [][]string, available int) []int {
	widths := make([]int, columns)
	measure := func(cells []string) {
		for i, cell := range cells {
			if i < columns {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}
	measure(header)
	for _, row := range rows {
		measure(row)
	}

	total := len(cellSeparator) * (columns - 1)
	for _, width := range widths {
		total += width
	}
	if total <= available {
		return widths
	}

	usable := max(available-len(cellSeparator)*(columns-1), columns*3)
	for i := range widths {
		widths[i] = max(widths[i]*usable/total, 3)
	}
	return widths
}

func formatRow(cells []string, widths []int, alignments []extast.Alignment, style lipgloss.Style) string {
	parts := make([]string, len(widths))
	for i, width := range widths {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		if lipgloss.Width(cell) > width {
			cell = ansi.Truncate(cell, width, "…")
		}
		padding := max(width-lipgloss.Width(cell), 0)

		alignment := extast.AlignNone
		if i < len(alignments) {
			alignment = alignments[i]
		}
		switch alignment {
		case extast.AlignRight:
			cell = strings.Repeat(" ", padding) + cell
		case extast.AlignCenter:
			left := padding / 2
			cell = strings.Repeat(" ", left) + cell + strings.Repeat(" ", padding-left)
		default:
			cell += strings.Repeat(" ", padding)
		}
		parts[i] = cell
	}
	return style.Render(strings.Join(parts, cellSeparator))
}

func stripHTMLTags(html string) string {
	var sb strings.Builder
	inTag := false
	for _, ch := range html {
		switch {
		case ch == '<':
			inTag = true
		case ch == '>':
			inTag = false
		case !inTag:
			sb.WriteRune(ch)
		}
	}
	return sb.String()
}
