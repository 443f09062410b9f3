package structure

import (
	"fmt"

	"github.com/dgallion1/docstruct/internal/doctree"
)

// FlatHeader is the column layout of the flat element table.
var FlatHeader = []string{"type", "level", "number", "text", "full_text", "parent_heading"}

// Table is a header row plus data rows, ready to be written to a sheet.
type Table struct {
	Header []string `json:"header"`
	Rows   [][]any  `json:"rows"`
}

// Result holds the elements of one document in encounter order.
type Result struct {
	Elements []Element
}

// Stats summarizes a Result.
type Stats struct {
	Headings       int `json:"headings"`
	TableCaptions  int `json:"table_captions"`
	FigureCaptions int `json:"figure_captions"`
	MaxLevel       int `json:"max_level"`
}

// Extract runs a single pass over paragraphs and returns the structural
// elements found. It fails with ErrEmptyDocument when nothing was found.
func Extract(paragraphs []doctree.Paragraph) (*Result, error) {
	var (
		state    State
		elements []Element
	)
	for _, p := range paragraphs {
		next, el, err := Step(state, p)
		if err != nil {
			return nil, err
		}
		state = next
		if el != nil {
			elements = append(elements, *el)
		}
	}
	if len(elements) == 0 {
		return nil, ErrEmptyDocument
	}
	return &Result{Elements: elements}, nil
}

// MaxLevel returns the deepest level among the elements.
func (r *Result) MaxLevel() int {
	depth := 0
	for _, el := range r.Elements {
		depth = max(depth, el.Level)
	}
	return depth
}

func (r *Result) Stats() Stats {
	st := Stats{MaxLevel: r.MaxLevel()}
	for _, el := range r.Elements {
		switch el.Type {
		case TypeHeading:
			st.Headings++
		case TypeTableCaption:
			st.TableCaptions++
		case TypeFigureCaption:
			st.FigureCaptions++
		}
	}
	return st
}

// Flat returns one row per element.
func (r *Result) Flat() Table {
	rows := make([][]any, 0, len(r.Elements))
	for _, el := range r.Elements {
		rows = append(rows, []any{
			string(el.Type),
			el.Level,
			el.Number,
			el.Text,
			el.FullText,
			el.ParentHeading,
		})
	}
	return Table{Header: append([]string(nil), FlatHeader...), Rows: rows}
}

// Outline returns the level-by-level view. Each row holds the active path
// down to the element's level; deeper columns are empty.
func (r *Result) Outline() Table {
	depth := r.MaxLevel()
	header := make([]string, depth)
	for i := range header {
		header[i] = fmt.Sprintf("Level %d", i+1)
	}

	slots := make([]string, depth)
	rows := make([][]any, 0, len(r.Elements))
	for _, el := range r.Elements {
		slots[el.Level-1] = el.FullText
		clear(slots[el.Level:])

		row := make([]any, depth)
		for i, v := range slots {
			row[i] = v
		}
		rows = append(rows, row)
	}
	return Table{Header: header, Rows: rows}
}
