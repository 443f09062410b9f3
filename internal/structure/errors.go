package structure

import (
	"errors"
	"fmt"
)

// ErrEmptyDocument is returned when a document contains no headings and no captions.
var ErrEmptyDocument = errors.New("no structural elements found")

// MalformedHeadingStyleError reports a heading style whose name does not end
// in a usable level number.
type MalformedHeadingStyleError struct {
	Style string
	Text  string
}

func (e *MalformedHeadingStyleError) Error() string {
	return fmt.Sprintf("heading style %q has no valid level number (paragraph %q)", e.Style, e.Text)
}
