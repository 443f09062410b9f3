package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dgallion1/docstruct/internal/config"
	"github.com/dgallion1/docstruct/internal/extract"
)

const sampleMarkdown = "# Intro\n\n## Background\n\nTable 1. Results\n\n# Methods\n"

func newTestServer(t *testing.T, apiKey string) *Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{
		APIKey:           apiKey,
		FlatSheetName:    "Elements",
		OutlineSheetName: "Outline",
		MaxUploadBytes:   1 << 20,
		StatsWindow:      time.Hour,
	}
	svc := extract.NewService(cfg.SheetOptions(), extract.NewStats(cfg.StatsWindow), log)
	return NewServer(svc, log, cfg)
}

func uploadRequest(t *testing.T, filename, content string, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/extract", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, "secret")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestExtract_Workbook(t *testing.T) {
	srv := newTestServer(t, "")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, uploadRequest(t, "report.md", sampleMarkdown, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("unexpected content type %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "report_structure.xlsx") {
		t.Errorf("unexpected content disposition %q", cd)
	}

	f, err := excelize.OpenReader(rec.Body)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	v, err := f.GetCellValue("Elements", "F4")
	if err != nil {
		t.Fatal(err)
	}
	if v != "1.1 Background" {
		t.Errorf("expected parent %q, got %q", "1.1 Background", v)
	}
}

func TestExtract_JSON(t *testing.T) {
	srv := newTestServer(t, "")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, uploadRequest(t, "report.md", sampleMarkdown, map[string]string{"format": "json"}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Filename string `json:"filename"`
		Elements []struct {
			Type          string `json:"type"`
			Level         int    `json:"level"`
			Number        string `json:"number"`
			FullText      string `json:"full_text"`
			ParentHeading string `json:"parent_heading"`
		} `json:"elements"`
		Outline struct {
			Header []string   `json:"header"`
			Rows   [][]string `json:"rows"`
		} `json:"outline"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Filename != "report.md" {
		t.Errorf("unexpected filename %q", resp.Filename)
	}
	if len(resp.Elements) != 4 {
		t.Fatalf("expected 4 elements, got %d", len(resp.Elements))
	}
	if el := resp.Elements[2]; el.Type != "table-caption" || el.Level != 3 || el.ParentHeading != "1.1 Background" {
		t.Errorf("unexpected caption element %+v", el)
	}
	if resp.Elements[3].Number != "2" {
		t.Errorf("expected number 2, got %q", resp.Elements[3].Number)
	}
	if len(resp.Outline.Header) != 3 || resp.Outline.Rows[2][2] != "Table 1. Results" {
		t.Errorf("unexpected outline %+v", resp.Outline)
	}
}

func TestExtract_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		want     int
	}{
		{"no structure", "prose.md", "Just some text.\n", http.StatusUnprocessableEntity},
		{"unsupported", "scan.pdf", "%PDF-1.7", http.StatusBadRequest},
		{"corrupt docx", "broken.docx", "not a zip", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, "")
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, uploadRequest(t, tt.filename, tt.content, nil))
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), `"error"`) {
				t.Errorf("expected JSON error body, got %q", rec.Body.String())
			}
		})
	}
}

func TestExtract_MissingFile(t *testing.T) {
	srv := newTestServer(t, "")
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("format", "json")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/extract", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuth(t *testing.T) {
	srv := newTestServer(t, "secret")

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, uploadRequest(t, "report.md", sampleMarkdown, nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	req := uploadRequest(t, "report.md", sampleMarkdown, nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong token, got %d", rec.Code)
	}

	req = uploadRequest(t, "report.md", sampleMarkdown, nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rec.Code)
	}
}

func TestStats(t *testing.T) {
	srv := newTestServer(t, "")
	srv.ServeHTTP(httptest.NewRecorder(), uploadRequest(t, "a.md", sampleMarkdown, nil))
	srv.ServeHTTP(httptest.NewRecorder(), uploadRequest(t, "b.md", "nothing here\n", nil))

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Window string                `json:"window"`
		Stats  extract.StatsSnapshot `json:"stats"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Window != "1h0m0s" {
		t.Errorf("unexpected window %q", resp.Window)
	}
	if resp.Stats.Count != 2 || resp.Stats.Failures != 1 || resp.Stats.Elements != 4 {
		t.Errorf("unexpected stats %+v", resp.Stats)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"report.docx":           "report.docx",
		"../../etc/passwd.docx": "passwd.docx",
		`C:\Users\me\doc.docx`:  "doc.docx",
		"a..b.md":               "a_b.md",
		"":                      "unnamed",
	}
	for in, want := range tests {
		if got := sanitizeFilename(in); got != want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
