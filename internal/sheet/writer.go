package sheet

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/dgallion1/docstruct/internal/structure"
)

// Default sheet names: "all elements" and "structure by level".
const (
	DefaultFlatSheet    = "全要素一覧"
	DefaultOutlineSheet = "レベル別構造"
)

// Options controls workbook layout.
type Options struct {
	FlatSheet    string
	OutlineSheet string
}

// WriteError wraps any failure to produce or save the output workbook.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

func (o Options) withDefaults() Options {
	if o.FlatSheet == "" {
		o.FlatSheet = DefaultFlatSheet
	}
	if o.OutlineSheet == "" {
		o.OutlineSheet = DefaultOutlineSheet
	}
	return o
}

// Build creates a workbook holding the flat table on the first sheet and the
// level outline on the second. The caller must Close the returned file.
func Build(flat, outline structure.Table, opts Options) (*excelize.File, error) {
	opts = opts.withDefaults()
	if opts.FlatSheet == opts.OutlineSheet {
		return nil, fmt.Errorf("sheet names must differ, both are %q", opts.FlatSheet)
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", opts.FlatSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("name sheet %q: %w", opts.FlatSheet, err)
	}
	if _, err := f.NewSheet(opts.OutlineSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("add sheet %q: %w", opts.OutlineSheet, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("header style: %w", err)
	}

	for _, t := range []struct {
		name  string
		table structure.Table
	}{
		{opts.FlatSheet, flat},
		{opts.OutlineSheet, outline},
	} {
		if err := writeTable(f, t.name, t.table, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %q: %w", t.name, err)
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeTable(f *excelize.File, sheet string, t structure.Table, headerStyle int) error {
	header := make([]any, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if len(t.Header) > 0 {
		if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
			return err
		}
		if err := f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return err
		}
	}

	widths := make([]int, len(t.Header))
	for i, h := range t.Header {
		widths[i] = utf8.RuneCountInString(h)
	}

	for r, row := range t.Rows {
		for c, v := range row {
			// Leave empty outline slots as blank cells.
			if s, ok := v.(string); ok && s == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
			if c < len(widths) {
				widths[c] = max(widths[c], utf8.RuneCountInString(fmt.Sprint(v)))
			}
		}
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, float64(min(max(w, 8), 80)+2)); err != nil {
			return err
		}
	}
	return nil
}

// Write serializes the workbook to w.
func Write(w io.Writer, flat, outline structure.Table, opts Options) error {
	if err := encode(w, flat, outline, opts); err != nil {
		return &WriteError{Path: "<stream>", Err: err}
	}
	return nil
}

func encode(w io.Writer, flat, outline structure.Table, opts Options) error {
	f, err := Build(flat, outline, opts)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// WriteFile saves the workbook at path. The file is written to a temporary
// sibling first and renamed into place, so a failure never leaves a partial
// workbook behind.
func WriteFile(path string, flat, outline structure.Table, opts Options) error {
	var buf bytes.Buffer
	if err := encode(&buf, flat, outline, opts); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".docstruct-*.xlsx")
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	tmpPath := tmp.Name()

	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpPath)
		return &WriteError{Path: path, Err: err}
	}

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		return fail(err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		return fail(err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return &WriteError{Path: path, Err: err}
	}
	return nil
}
