package parser

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docstruct/internal/doctree"
)

// ErrUnsupportedFormat is returned by ForFile for unknown extensions.
var ErrUnsupportedFormat = errors.New("unsupported file extension")

// Parser converts raw document bytes into an ordered list of paragraphs.
type Parser interface {
	Parse(r io.Reader, filename string) (*doctree.Document, error)
}

// ReadError wraps any failure to read or parse an input document.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// SupportedExtensions lists file extensions this tool can handle.
var SupportedExtensions = map[string]bool{
	".docx":     true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".docx":
		return &DOCXParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// Parse picks a parser for filename and runs it over r. Failures are
// returned as *ReadError.
func Parse(r io.Reader, filename string) (*doctree.Document, error) {
	p, err := ForFile(filename)
	if err != nil {
		return nil, &ReadError{Path: filename, Err: err}
	}
	doc, err := p.Parse(r, filename)
	if err != nil {
		return nil, &ReadError{Path: filename, Err: err}
	}
	return doc, nil
}

// ParseFile opens path and parses it.
func ParseFile(path string) (*doctree.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	defer f.Close()

	doc, err := Parse(f, filepath.Base(path))
	if err != nil {
		var re *ReadError
		if errors.As(err, &re) {
			re.Path = path
		}
		return nil, err
	}
	return doc, nil
}

func trimExt(filename string) string {
	return strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
}
