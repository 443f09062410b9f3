package structure

import (
	"strconv"
	"strings"

	"github.com/dgallion1/docstruct/internal/doctree"
)

// ElementType names the kind of structural element in the output tables.
type ElementType string

const (
	TypeHeading       ElementType = "heading"
	TypeTableCaption  ElementType = "table-caption"
	TypeFigureCaption ElementType = "figure-caption"
)

// Element is one structural entry of a document.
type Element struct {
	Type          ElementType `json:"type"`
	Level         int         `json:"level"`
	Number        string      `json:"number"`
	Text          string      `json:"text"`
	FullText      string      `json:"full_text"`
	ParentHeading string      `json:"parent_heading"`
}

// State is the numbering state carried between paragraphs. It is a plain
// value: Step returns an updated copy and never mutates its argument.
//
// Index 0 of both arrays is unused so that level L lives at index L; headings[0]
// stays empty and doubles as the parent of a level-1 heading.
type State struct {
	counters [MaxLevel + 1]int
	headings [MaxLevel + 1]string
	level    int
}

// Level is the level of the most recent heading, 0 before the first one.
func (s State) Level() int { return s.level }

// Counter returns the current counter for a heading level.
func (s State) Counter(level int) int {
	if level < 1 || level > MaxLevel {
		return 0
	}
	return s.counters[level]
}

// Heading returns the full text of the last heading seen at level.
func (s State) Heading(level int) string {
	if level < 0 || level > MaxLevel {
		return ""
	}
	return s.headings[level]
}

// Number joins the nonzero counters from level 1 through level with dots.
func (s State) Number(level int) string {
	parts := make([]string, 0, level)
	for i := 1; i <= level && i <= MaxLevel; i++ {
		if s.counters[i] > 0 {
			parts = append(parts, strconv.Itoa(s.counters[i]))
		}
	}
	return strings.Join(parts, ".")
}

// Step classifies p and advances the state. The returned element is nil for
// ignored paragraphs, in which case the state is returned unchanged.
func Step(s State, p doctree.Paragraph) (State, *Element, error) {
	c, err := Classify(p)
	if err != nil {
		return s, nil, err
	}
	text := strings.TrimSpace(p.Text)
	switch c.Kind {
	case KindHeading:
		next, el := s.heading(c.Level, text)
		return next, &el, nil
	case KindTableCaption:
		el := s.caption(TypeTableCaption, text)
		return s, &el, nil
	case KindFigureCaption:
		el := s.caption(TypeFigureCaption, text)
		return s, &el, nil
	}
	return s, nil, nil
}

func (s State) heading(level int, text string) (State, Element) {
	s.counters[level]++
	for i := level + 1; i <= MaxLevel; i++ {
		s.counters[i] = 0
	}

	number := s.Number(level)
	full := number + " " + text

	s.headings[level] = full
	for i := level + 1; i <= MaxLevel; i++ {
		s.headings[i] = ""
	}
	s.level = level

	return s, Element{
		Type:          TypeHeading,
		Level:         level,
		Number:        number,
		Text:          text,
		FullText:      full,
		ParentHeading: s.headings[level-1],
	}
}

func (s State) caption(typ ElementType, text string) Element {
	return Element{
		Type:          typ,
		Level:         s.level + 1,
		Text:          text,
		FullText:      text,
		ParentHeading: s.headings[s.level],
	}
}
