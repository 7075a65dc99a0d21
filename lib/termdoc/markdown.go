// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package termdoc

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/slipway-systems/slipway/lib/tui"
)

// wrapBreakpoints are the characters ansi.Wrap may break lines at.
const wrapBreakpoints = " ,.;-+|"

// parser is shared: the configuration never changes, and goldmark
// parsers are safe for concurrent use (per-parse state lives in the
// reader).
var (
	parser     goldmark.Markdown
	parserOnce sync.Once
)

func markdownParser() goldmark.Markdown {
	parserOnce.Do(func() {
		parser = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		)
	})
	return parser
}

// Markdown renders markdown as styled terminal text wrapped to width.
// Soft line breaks (single newlines inside paragraphs) become spaces,
// so doc strings hard-wrapped at the server reflow to the reader's
// terminal width. Code blocks, lists, blockquotes, and tables keep
// their structure.
func Markdown(input string, theme tui.Theme, width int) string {
	if input == "" {
		return ""
	}
	source := []byte(input)
	document := markdownParser().Parser().Parse(text.NewReader(source))

	// Force the color profile. lipgloss.Renderer.ColorProfile()
	// re-detects from the environment unless SetColorProfile pins it,
	// which would strip all styling under a test harness or pipe.
	styler := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	styler.SetColorProfile(termenv.ANSI256)

	walker := &docRenderer{
		source: source,
		theme:  theme,
		width:  width,
		styler: styler,
	}
	ast.Walk(document, walker.walk)

	return strings.TrimRight(walker.output.String(), "\n")
}

// docRenderer walks a goldmark AST and accumulates styled terminal
// text. It uses a direct ast.Walk instead of goldmark's renderer
// interface: terminal output needs accumulate-then-wrap semantics
// (collect a paragraph's inline content, then word-wrap it as a unit),
// which goldmark's streaming callbacks don't express.
type docRenderer struct {
	source []byte
	theme  tui.Theme
	width  int
	styler *lipgloss.Renderer

	output strings.Builder

	// inline collects styled fragments within the current paragraph or
	// heading; flushed with word-wrap when the block closes.
	inline strings.Builder

	// Prefix stack for nested containers (blockquotes, list bodies).
	prefixStack     []prefixLevel
	linePrefix      string
	linePrefixWidth int

	// pendingBullet replaces linePrefix for the next emitted line only.
	pendingBullet string

	// Style depth counters; counters rather than booleans so nested
	// emphasis unwinds correctly.
	boldDepth          int
	italicDepth        int
	strikethroughDepth int

	listStack []listLevel

	trailingNewlines int
}

type prefixLevel struct {
	text  string
	width int
}

type listLevel struct {
	ordered bool
	counter int
	tight   bool
}

func (r *docRenderer) style() lipgloss.Style {
	return r.styler.NewStyle()
}

// contentWidth is the space left after nesting prefixes, clamped so
// deep nesting can't produce degenerate one-character wrapping.
func (r *docRenderer) contentWidth() int {
	width := r.width - r.linePrefixWidth
	if width < 10 {
		width = 10
	}
	return width
}

func (r *docRenderer) pushPrefix(text string, visibleWidth int) {
	r.prefixStack = append(r.prefixStack, prefixLevel{text: text, width: visibleWidth})
	r.linePrefix += text
	r.linePrefixWidth += visibleWidth
}

func (r *docRenderer) popPrefix() {
	if len(r.prefixStack) == 0 {
		return
	}
	top := r.prefixStack[len(r.prefixStack)-1]
	r.prefixStack = r.prefixStack[:len(r.prefixStack)-1]
	r.linePrefix = r.linePrefix[:len(r.linePrefix)-len(top.text)]
	r.linePrefixWidth -= top.width
}

func (r *docRenderer) inTightList() bool {
	if len(r.listStack) == 0 {
		return false
	}
	return r.listStack[len(r.listStack)-1].tight
}

func (r *docRenderer) write(s string) {
	if s == "" {
		return
	}
	r.output.WriteString(s)

	trailing := 0
	allNewlines := true
	for index := len(s) - 1; index >= 0; index-- {
		if s[index] == '\n' {
			trailing++
		} else {
			allNewlines = false
			break
		}
	}
	if allNewlines {
		r.trailingNewlines += trailing
	} else {
		r.trailingNewlines = trailing
	}
}

func (r *docRenderer) ensureNewline() {
	if r.trailingNewlines < 1 {
		r.write("\n")
	}
}

func (r *docRenderer) ensureBlankLine() {
	for r.trailingNewlines < 2 {
		r.write("\n")
	}
}

// takeLinePrefix returns the prefix for the current line: the pending
// bullet for the first line of a list item, the stacked prefix
// otherwise.
func (r *docRenderer) takeLinePrefix() string {
	if r.pendingBullet != "" {
		bullet := r.pendingBullet
		r.pendingBullet = ""
		return bullet
	}
	return r.linePrefix
}

func (r *docRenderer) applyPrefixes(content string) string {
	lines := strings.Split(content, "\n")
	var result strings.Builder
	for index, line := range lines {
		if index == 0 {
			result.WriteString(r.takeLinePrefix())
		} else {
			result.WriteString(r.linePrefix)
		}
		result.WriteString(line)
		if index < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// flushInline word-wraps the accumulated inline content and applies
// line prefixes. Resets the accumulator.
func (r *docRenderer) flushInline() string {
	content := r.inline.String()
	r.inline.Reset()
	if content == "" {
		return ""
	}
	return r.applyPrefixes(ansi.Wrap(content, r.contentWidth(), wrapBreakpoints))
}

func (r *docRenderer) styledText(content string) string {
	style := r.style().Foreground(r.theme.NormalText)
	if r.boldDepth > 0 {
		style = style.Bold(true)
	}
	if r.italicDepth > 0 {
		style = style.Italic(true)
	}
	if r.strikethroughDepth > 0 {
		style = style.Strikethrough(true)
	}
	return style.Render(content)
}

// inlineContent renders a node's children into a string, saving and
// restoring the accumulator and style depths around the excursion.
func (r *docRenderer) inlineContent(node ast.Node) string {
	savedInline := r.inline.String()
	savedBold, savedItalic, savedStrike := r.boldDepth, r.italicDepth, r.strikethroughDepth

	r.inline.Reset()
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		ast.Walk(child, r.walk)
	}
	result := r.inline.String()

	r.inline.Reset()
	r.inline.WriteString(savedInline)
	r.boldDepth, r.italicDepth, r.strikethroughDepth = savedBold, savedItalic, savedStrike
	return result
}

func (r *docRenderer) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node.Kind() {

	case ast.KindDocument:

	case ast.KindParagraph, ast.KindTextBlock:
		if entering {
			r.inline.Reset()
		} else if flushed := r.flushInline(); flushed != "" {
			r.write(flushed)
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
			r.renderCode(blockText(node, r.source), string(node.(*ast.FencedCodeBlock).Language(r.source)))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindCodeBlock:
		if entering {
			r.renderCode(blockText(node, r.source), "")
			return ast.WalkSkipChildren, nil
		}

	case ast.KindBlockquote:
		if entering {
			r.pushPrefix("│ ", 2)
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
			r.renderRule()
		}

	case ast.KindHTMLBlock:
		if entering {
			stripped := strings.TrimSpace(stripTags(blockText(node, r.source)))
			if stripped != "" {
				r.write(r.applyPrefixes(r.style().Foreground(r.theme.FaintText).Render(stripped)))
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
		r.handleEmphasis(node.(*ast.Emphasis), entering)

	case ast.KindCodeSpan:
		if entering {
			r.renderCodeSpan(node)
			return ast.WalkSkipChildren, nil
		}

	case ast.KindLink:
		if entering {
			r.renderLink(node.(*ast.Link))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindAutoLink:
		if entering {
			url := string(node.(*ast.AutoLink).URL(r.source))
			r.inline.WriteString(r.style().Foreground(r.theme.DocForeground).Render(url))
		}

	case ast.KindImage:
		if entering {
			r.renderImage(node.(*ast.Image))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindRawHTML:
		if entering {
			r.renderRawHTML(node.(*ast.RawHTML))
		}

	case extast.KindStrikethrough:
		if entering {
			r.strikethroughDepth++
		} else {
			r.strikethroughDepth--
		}

	case extast.KindTable:
		if entering {
			r.renderTable(node.(*extast.Table))
			return ast.WalkSkipChildren, nil
		}
	}

	return ast.WalkContinue, nil
}

func (r *docRenderer) leaveHeading(heading *ast.Heading) {
	// Headings carry their own style; strip whatever the inline pass
	// applied.
	content := ansi.Strip(r.inline.String())
	r.inline.Reset()
	if content == "" {
		return
	}

	style := r.style().Bold(true)
	if heading.Level <= 2 {
		style = style.Foreground(r.theme.HeaderForeground)
	} else {
		style = style.Foreground(r.theme.NormalText)
	}

	wrapped := ansi.Wrap(style.Render(content), r.contentWidth(), wrapBreakpoints)
	r.ensureBlankLine()
	r.write(r.applyPrefixes(wrapped))
	r.ensureNewline()
	r.ensureBlankLine()
}

func (r *docRenderer) renderCode(code, language string) {
	highlighted := highlight(code, language, r.style().Foreground(r.theme.FaintText))
	r.ensureBlankLine()
	for _, line := range strings.Split(strings.TrimRight(highlighted, "\n"), "\n") {
		r.write(r.takeLinePrefix() + line)
		r.ensureNewline()
	}
	r.ensureBlankLine()
}

func (r *docRenderer) enterList(list *ast.List) {
	start := 0
	if list.IsOrdered() {
		start = list.Start
	}
	r.listStack = append(r.listStack, listLevel{
		ordered: list.IsOrdered(),
		counter: start,
		tight:   list.IsTight,
	})
}

func (r *docRenderer) leaveList() {
	if len(r.listStack) > 0 {
		r.listStack = r.listStack[:len(r.listStack)-1]
	}
	if !r.inTightList() {
		r.ensureBlankLine()
	}
}

func (r *docRenderer) enterListItem() {
	if len(r.listStack) == 0 {
		return
	}
	top := &r.listStack[len(r.listStack)-1]

	var bullet string
	if top.ordered {
		bullet = fmt.Sprintf("%d. ", top.counter)
		top.counter++
	} else {
		bullet = "- "
	}

	// Bullets are ASCII, so byte length is visual width.
	continuation := strings.Repeat(" ", len(bullet))

	// The bullet replaces the whole prefix on the item's first line.
	r.pendingBullet = r.linePrefix + bullet
	r.pushPrefix(continuation, len(bullet))
}

func (r *docRenderer) leaveListItem() {
	r.popPrefix()
	if !r.inTightList() {
		r.ensureBlankLine()
	} else {
		r.ensureNewline()
	}
}

func (r *docRenderer) renderRule() {
	rule := strings.Repeat("─", r.contentWidth())
	r.ensureBlankLine()
	r.write(r.applyPrefixes(r.style().Foreground(r.theme.BorderColor).Render(rule)))
	r.ensureNewline()
	r.ensureBlankLine()
}

func (r *docRenderer) handleText(node *ast.Text) {
	r.inline.WriteString(r.styledText(string(node.Segment.Value(r.source))))

	if node.SoftLineBreak() {
		// Soft breaks become spaces: this is what lets hard-wrapped
		// server doc strings reflow to the local terminal width.
		r.inline.WriteString(" ")
	}
	if node.HardLineBreak() {
		r.inline.WriteString("\n")
	}
}

func (r *docRenderer) handleEmphasis(node *ast.Emphasis, entering bool) {
	delta := 1
	if !entering {
		delta = -1
	}
	if node.Level >= 2 {
		r.boldDepth += delta
	} else {
		r.italicDepth += delta
	}
}

func (r *docRenderer) renderCodeSpan(node ast.Node) {
	var code strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch typed := child.(type) {
		case *ast.Text:
			code.Write(typed.Segment.Value(r.source))
		case *ast.String:
			code.Write(typed.Value)
		}
	}
	r.inline.WriteString(r.style().Foreground(r.theme.FaintText).Render(code.String()))
}

func (r *docRenderer) renderLink(node *ast.Link) {
	// inlineContent already styles the link text.
	r.inline.WriteString(r.inlineContent(node))
	if url := string(node.Destination); url != "" {
		r.inline.WriteString(" " + r.style().Foreground(r.theme.FaintText).Render("("+url+")"))
	}
}

func (r *docRenderer) renderImage(node *ast.Image) {
	alt := r.inlineContent(node)
	faint := r.style().Foreground(r.theme.FaintText)
	r.inline.WriteString(faint.Render("[" + alt + "]"))
	if url := string(node.Destination); url != "" {
		r.inline.WriteString(" " + faint.Render("("+url+")"))
	}
}

func (r *docRenderer) renderRawHTML(node *ast.RawHTML) {
	var html strings.Builder
	for index := 0; index < node.Segments.Len(); index++ {
		segment := node.Segments.At(index)
		html.Write(segment.Value(r.source))
	}
	if stripped := stripTags(html.String()); stripped != "" {
		r.inline.WriteString(r.style().Foreground(r.theme.FaintText).Render(stripped))
	}
}

func (r *docRenderer) renderTable(table *extast.Table) {
	alignments := table.Alignments

	var headerCells []string
	var bodyRows [][]string
	for child := table.FirstChild(); child != nil; child = child.NextSibling() {
		switch child.Kind() {
		case extast.KindTableHeader:
			headerCells = r.collectRow(child)
		case extast.KindTableRow:
			bodyRows = append(bodyRows, r.collectRow(child))
		}
	}

	columnCount := len(headerCells)
	if columnCount == 0 && len(bodyRows) > 0 {
		columnCount = len(bodyRows[0])
	}
	if columnCount == 0 {
		return
	}

	widths := make([]int, columnCount)
	measure := func(cells []string) {
		for index, cell := range cells {
			if index < columnCount {
				if width := lipgloss.Width(cell); width > widths[index] {
					widths[index] = width
				}
			}
		}
	}
	measure(headerCells)
	for _, row := range bodyRows {
		measure(row)
	}

	// Shrink proportionally when the table exceeds the available width,
	// keeping at least 3 characters per column.
	const separator = "  "
	total := len(separator) * (columnCount - 1)
	for _, width := range widths {
		total += width
	}
	if available := r.contentWidth(); total > available {
		usable := available - len(separator)*(columnCount-1)
		if usable < columnCount*3 {
			usable = columnCount * 3
		}
		for index := range widths {
			widths[index] = (widths[index] * usable) / total
			if widths[index] < 3 {
				widths[index] = 3
			}
		}
	}

	r.ensureBlankLine()

	if len(headerCells) > 0 {
		bold := r.style().Bold(true).Foreground(r.theme.NormalText)
		r.write(r.takeLinePrefix() + r.formatRow(headerCells, widths, alignments, bold))
		r.ensureNewline()

		parts := make([]string, columnCount)
		for index, width := range widths {
			parts[index] = strings.Repeat("─", width)
		}
		r.write(r.linePrefix + r.style().Foreground(r.theme.BorderColor).Render(strings.Join(parts, separator)))
		r.ensureNewline()
	}

	for _, row := range bodyRows {
		r.write(r.linePrefix + r.formatRow(row, widths, alignments, r.style()))
		r.ensureNewline()
	}

	r.ensureBlankLine()
}

func (r *docRenderer) collectRow(row ast.Node) []string {
	var cells []string
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		if cell.Kind() == extast.KindTableCell {
			cells = append(cells, r.inlineContent(cell))
		}
	}
	return cells
}

func (r *docRenderer) formatRow(cells []string, widths []int, alignments []extast.Alignment, baseStyle lipgloss.Style) string {
	const separator = "  "
	parts := make([]string, 0, len(widths))
	for index, width := range widths {
		var cell string
		if index < len(cells) {
			cell = cells[index]
		}

		visible := lipgloss.Width(cell)
		if visible > width {
			cell = ansi.Truncate(cell, width, "…")
			visible = lipgloss.Width(cell)
		}
		padding := width - visible
		if padding < 0 {
			padding = 0
		}

		var alignment extast.Alignment
		if index < len(alignments) {
			alignment = alignments[index]
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
		parts = append(parts, cell)
	}
	return baseStyle.Render(strings.Join(parts, separator))
}

// blockText joins a block node's line segments into one string.
func blockText(node ast.Node, source []byte) string {
	var content strings.Builder
	lines := node.Lines()
	for index := 0; index < lines.Len(); index++ {
		line := lines.At(index)
		content.Write(line.Value(source))
	}
	return content.String()
}

// stripTags drops HTML tags, keeping text content.
func stripTags(html string) string {
	var result strings.Builder
	inTag := false
	for _, character := range html {
		switch {
		case character == '<':
			inTag = true
		case character == '>':
			inTag = false
		case !inTag:
			result.WriteRune(character)
		}
	}
	return result.String()
}
