package doctree

import "strconv"

// StyleNormal is the style name given to paragraphs that carry no explicit style.
const StyleNormal = "Normal"

// StyleCaption is Word's built-in caption style name.
const StyleCaption = "Caption"

// Document is an ordered sequence of paragraphs read from a source file.
type Document struct {
	Title      string      // Document title (from metadata or filename)
	Paragraphs []Paragraph // Body paragraphs in reading order
}

// Paragraph is a single body paragraph.
type Paragraph struct {
	Text  string // Paragraph text, trimmed
	Style string // Human-readable style name, e.g. "Heading 1"
}

// HeadingStyle returns the style name for a heading of the given outline level.
func HeadingStyle(level int) string {
	return "Heading " + strconv.Itoa(level)
}
