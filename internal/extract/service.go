package extract

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dgallion1/docstruct/internal/parser"
	"github.com/dgallion1/docstruct/internal/sheet"
	"github.com/dgallion1/docstruct/internal/structure"
)

// Service ties document reading, structure extraction and workbook export
// together for the CLI and the HTTP API.
type Service struct {
	opts  sheet.Options
	stats *Stats
	log   *slog.Logger
}

func NewService(opts sheet.Options, stats *Stats, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	if stats == nil {
		stats = NewStats(time.Hour)
	}
	return &Service{opts: opts, stats: stats, log: log}
}

// Stats exposes the rolling extraction window.
func (s *Service) Stats() *Stats { return s.stats }

// Structure reads a document from r and extracts its structure.
func (s *Service) Structure(r io.Reader, filename string) (*structure.Result, error) {
	start := time.Now()

	doc, err := parser.Parse(r, filename)
	if err != nil {
		s.record(filename, start, nil, err)
		return nil, err
	}

	res, err := structure.Extract(doc.Paragraphs)
	if err != nil {
		err = fmt.Errorf("extract %s: %w", filename, err)
	}
	s.record(filename, start, res, err)
	return res, err
}

// StructureFile is Structure for a path on disk.
func (s *Service) StructureFile(path string) (*structure.Result, error) {
	start := time.Now()
	res, err := s.structureFile(path)
	s.record(path, start, res, err)
	return res, err
}

func (s *Service) structureFile(path string) (*structure.Result, error) {
	doc, err := parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	res, err := structure.Extract(doc.Paragraphs)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}
	return res, nil
}

// ExportFile extracts the structure of inPath and saves the workbook at outPath.
// Nothing is written when extraction fails. The run counts as failed when the
// workbook cannot be saved.
func (s *Service) ExportFile(inPath, outPath string) (*structure.Result, error) {
	start := time.Now()
	res, err := s.structureFile(inPath)
	if err == nil {
		err = sheet.WriteFile(outPath, res.Flat(), res.Outline(), s.opts)
	}
	s.record(inPath, start, res, err)
	if err != nil {
		return nil, err
	}
	s.log.Info("workbook written", "output", outPath, "elements", len(res.Elements))
	return res, nil
}

// Export writes the workbook for res to w.
func (s *Service) Export(w io.Writer, res *structure.Result) error {
	return sheet.Write(w, res.Flat(), res.Outline(), s.opts)
}

func (s *Service) record(source string, start time.Time, res *structure.Result, err error) {
	took := time.Since(start)
	elements := 0
	if res != nil {
		elements = len(res.Elements)
	}
	s.stats.Record(took, elements, err)

	if err != nil {
		s.log.Warn("extraction failed", "input", source, "error", err, "duration_ms", took.Milliseconds())
		return
	}
	st := res.Stats()
	s.log.Info("structure extracted",
		"input", source,
		"elements", elements,
		"headings", st.Headings,
		"table_captions", st.TableCaptions,
		"figure_captions", st.FigureCaptions,
		"max_level", st.MaxLevel,
		"duration_ms", took.Milliseconds(),
	)
}
