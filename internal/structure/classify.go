package structure

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dgallion1/docstruct/internal/doctree"
)

// MaxLevel is the deepest heading level tracked. Word defines Heading 1 through Heading 9.
const MaxLevel = 9

// headingPrefix marks a paragraph style as a heading style.
const headingPrefix = "Heading"

// Kind is the classification of a single paragraph.
type Kind int

const (
	KindIgnored Kind = iota
	KindHeading
	KindTableCaption
	KindFigureCaption
)

func (k Kind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindTableCaption:
		return "table-caption"
	case KindFigureCaption:
		return "figure-caption"
	}
	return "ignored"
}

// Classification is the result of classifying a paragraph.
type Classification struct {
	Kind  Kind
	Level int // heading level, 0 unless Kind is KindHeading
}

// matcher reports whether it recognizes the paragraph. Matchers are tried in
// order and the first match wins.
type matcher func(text, style string) (Classification, bool, error)

var matchers = []matcher{
	matchHeading,
	matchCaption,
}

// Caption labels. Japanese markers 表 (table) and 図 (figure), plus the
// English "Tab"/"Fig" prefixes. Digits and spaces are matched by Unicode
// class so full-width numbers and the ideographic space count.
var captionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^表[\s\p{Zs}]*\p{Nd}+`),
	regexp.MustCompile(`^図[\s\p{Zs}]*\p{Nd}+`),
	regexp.MustCompile(`^Tab[\p{L}\p{Nd}_]*\.*[\s\p{Zs}]*\p{Nd}+`),
	regexp.MustCompile(`^Fig\.*[\s\p{Zs}]*\p{Nd}+`),
}

var tablePrefixes = []string{"表", "Tab"}

// Classify decides whether p is a heading, a caption or ignorable text.
// Paragraphs whose trimmed text is empty are always ignored.
func Classify(p doctree.Paragraph) (Classification, error) {
	text := strings.TrimSpace(p.Text)
	if text == "" {
		return Classification{Kind: KindIgnored}, nil
	}
	for _, m := range matchers {
		c, ok, err := m(text, p.Style)
		if err != nil {
			return Classification{}, err
		}
		if ok {
			return c, nil
		}
	}
	return Classification{Kind: KindIgnored}, nil
}

func matchHeading(text, style string) (Classification, bool, error) {
	if !strings.HasPrefix(style, headingPrefix) {
		return Classification{}, false, nil
	}
	level, ok := trailingInt(style)
	if !ok || level < 1 || level > MaxLevel {
		return Classification{}, false, &MalformedHeadingStyleError{Style: style, Text: text}
	}
	return Classification{Kind: KindHeading, Level: level}, true, nil
}

func matchCaption(text, _ string) (Classification, bool, error) {
	for _, re := range captionPatterns {
		if !re.MatchString(text) {
			continue
		}
		for _, prefix := range tablePrefixes {
			if strings.HasPrefix(text, prefix) {
				return Classification{Kind: KindTableCaption}, true, nil
			}
		}
		return Classification{Kind: KindFigureCaption}, true, nil
	}
	return Classification{}, false, nil
}

// trailingInt parses the decimal digits at the end of s ("Heading 2" → 2).
func trailingInt(s string) (int, bool) {
	s = strings.TrimRight(s, " ")
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) {
		return 0, false
	}
	n, err := strconv.Atoi(s[i:])
	if err != nil {
		return 0, false
	}
	return n, true
}
