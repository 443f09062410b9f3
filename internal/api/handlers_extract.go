package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docstruct/internal/parser"
	"github.com/dgallion1/docstruct/internal/structure"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handleExtract accepts a multipart upload ("file") and responds with the
// structure workbook, or JSON when format=json.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	res, err := s.svc.Structure(bytes.NewReader(data), filename)
	if err != nil {
		jsonError(w, err.Error(), extractStatus(err))
		return
	}

	if strings.EqualFold(r.FormValue("format"), "json") {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"filename": filename,
			"stats":    res.Stats(),
			"elements": res.Elements,
			"outline":  res.Outline(),
		})
		return
	}

	// Render fully before sending headers so a failure still yields a JSON error.
	var buf bytes.Buffer
	if err := s.svc.Export(&buf, res); err != nil {
		s.log.Error("render workbook", "filename", filename, "error", err)
		jsonError(w, "failed to render workbook", http.StatusInternalServerError)
		return
	}

	out := strings.TrimSuffix(filename, filepath.Ext(filename)) + "_structure.xlsx"
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": out}))
	w.Write(buf.Bytes())
}

func extractStatus(err error) int {
	var malformed *structure.MalformedHeadingStyleError
	var readErr *parser.ReadError
	switch {
	case errors.Is(err, structure.ErrEmptyDocument), errors.As(err, &malformed):
		return http.StatusUnprocessableEntity
	case errors.As(err, &readErr):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
