package layout

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParagraphs flattens markdown into plain-text paragraphs. Inline
// markup is dropped, soft and hard line breaks become spaces, headings and
// list items each form their own paragraph.
func MarkdownParagraphs(source string) []string {
	src := []byte(source)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	var paras []string
	collectBlocks(doc, src, &paras)
	return paras
}

// MarkdownText is MarkdownParagraphs joined with blank lines, ready for Wrap.
func MarkdownText(source string) string {
	return strings.Join(MarkdownParagraphs(source), "\n\n")
}

func collectBlocks(node ast.Node, src []byte, out *[]string) {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Paragraph, *ast.Heading, *ast.TextBlock:
			if s := strings.Join(strings.Fields(inlineText(n, src)), " "); s != "" {
				*out = append(*out, s)
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := n.Lines()
			var sb strings.Builder
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				sb.Write(seg.Value(src))
			}
			if s := strings.Join(strings.Fields(sb.String()), " "); s != "" {
				*out = append(*out, s)
			}
		default:
			collectBlocks(n, src, out)
		}
	}
}

func inlineText(node ast.Node, src []byte) string {
	var sb strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Text:
			sb.Write(n.Segment.Value(src))
			if n.SoftLineBreak() || n.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(n.Value)
		default:
			sb.WriteString(inlineText(n, src))
		}
	}
	return sb.String()
}
