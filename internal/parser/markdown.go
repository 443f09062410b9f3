package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/docstruct/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. ATX and setext
// headings become "Heading N" paragraphs; every other text block is Normal.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	doc := &doctree.Document{Title: trimExt(filename)}

	err = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			doc.Paragraphs = append(doc.Paragraphs, doctree.Paragraph{
				Text:  inlineText(node, src),
				Style: doctree.HeadingStyle(node.Level),
			})
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph, *ast.TextBlock:
			doc.Paragraphs = append(doc.Paragraphs, doctree.Paragraph{
				Text:  inlineText(node, src),
				Style: doctree.StyleNormal,
			})
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// inlineText concatenates the text of a block's inline descendants.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	var collect func(ast.Node)
	collect = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch t := c.(type) {
			case *ast.Text:
				buf.Write(t.Segment.Value(src))
				if t.HardLineBreak() || t.SoftLineBreak() {
					buf.WriteByte(' ')
				}
			case *ast.String:
				buf.Write(t.Value)
			default:
				collect(c)
			}
		}
	}
	collect(n)
	return strings.TrimSpace(buf.String())
}
