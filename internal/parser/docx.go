package parser

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docstruct/internal/doctree"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	// go-docx and archive/zip both need a ReaderAt plus size.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}
	ra := bytes.NewReader(data)

	doc, err := docx.Parse(ra, int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	names, err := docxStyleNames(ra, int64(len(data)))
	if err != nil {
		return nil, err
	}

	return &doctree.Document{
		Title:      trimExt(filename),
		Paragraphs: docxParagraphs(doc.Document.Body.Items, names),
	}, nil
}

// docxStyleNames loads word/styles.xml from the package. A package without a
// styles part yields an empty map.
func docxStyleNames(ra io.ReaderAt, size int64) (map[string]string, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("open docx archive: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != "word/styles.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open styles.xml: %w", err)
		}
		defer rc.Close()
		return parseStyleNames(rc)
	}
	return map[string]string{}, nil
}

func docxParagraphs(items []interface{}, names map[string]string) []doctree.Paragraph {
	var out []doctree.Paragraph
	for _, item := range items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		out = append(out, doctree.Paragraph{
			Text:  docxParagraphText(para),
			Style: resolveStyleName(docxStyleID(para), names),
		})
	}
	return out
}

func docxStyleID(para *docx.Paragraph) string {
	if para.Properties == nil || para.Properties.Style == nil {
		return ""
	}
	return para.Properties.Style.Val
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		switch c := child.(type) {
		case *docx.Run:
			docxRunText(&buf, c)
		case *docx.Hyperlink:
			// go-docx keeps link text it wrote itself in InstrText.
			if docxRunText(&buf, &c.Run) == 0 {
				buf.WriteString(c.Run.InstrText)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

func docxRunText(buf *strings.Builder, run *docx.Run) int {
	n := 0
	for _, rc := range run.Children {
		if t, ok := rc.(*docx.Text); ok {
			buf.WriteString(t.Text)
			n += len(t.Text)
		}
	}
	return n
}
