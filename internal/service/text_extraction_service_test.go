package service

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestExtractTextPlainText(t *testing.T) {
	path := writeTempFile(t, "notes.txt", []byte("Lecture notes.\nPage 2\nMore notes."))

	s := NewTextExtractionService()
	got, err := s.ExtractText(path)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if strings.Contains(got, "Page 2") {
		t.Fatalf("extracted text not cleaned: %q", got)
	}
	if !strings.Contains(got, "Lecture notes.") || !strings.Contains(got, "More notes.") {
		t.Fatalf("content lost: %q", got)
	}
}

func TestExtractTextMissingFile(t *testing.T) {
	s := NewTextExtractionService()
	_, err := s.ExtractText(filepath.Join(t.TempDir(), "nope.txt"))
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("want ErrFileNotFound, got %v", err)
	}
}

func TestExtractTextUnsupportedExtension(t *testing.T) {
	path := writeTempFile(t, "lecture.mp4", []byte("binary"))

	s := NewTextExtractionService()
	_, err := s.ExtractText(path)
	if !errors.Is(err, ErrUnsupportedFileType) {
		t.Fatalf("want ErrUnsupportedFileType, got %v", err)
	}
}

func buildZip(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func TestExtractTextDocx(t *testing.T) {
	document := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Routing protocols exchange</w:t></w:r><w:r><w:t>reachability information.</w:t></w:r></w:p>
  </w:body>
</w:document>`
	data := buildZip(t, map[string]string{
		"word/document.xml":   document,
		"word/styles.xml":     `<w:styles xmlns:w="x"><w:t>style noise</w:t></w:styles>`,
		"[Content_Types].xml": `<Types/>`,
	})
	path := writeTempFile(t, "slides.docx", data)

	s := NewTextExtractionService()
	got, err := s.ExtractText(path)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if !strings.Contains(got, "Routing protocols exchange") || !strings.Contains(got, "reachability information.") {
		t.Fatalf("docx text runs lost: %q", got)
	}
	if strings.Contains(got, "style noise") {
		t.Fatalf("non-document part leaked into output: %q", got)
	}
}

func TestExtractTextPptx(t *testing.T) {
	slide := `<?xml version="1.0"?>
<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">
  <p:txBody><a:p><a:r><a:t>Congestion control basics</a:t></a:r></a:p></p:txBody>
</p:sld>`
	data := buildZip(t, map[string]string{
		"ppt/slides/slide1.xml": slide,
		"ppt/presentation.xml":  `<p:presentation xmlns:p="x"/>`,
	})
	path := writeTempFile(t, "deck.pptx", data)

	s := NewTextExtractionService()
	got, err := s.ExtractText(path)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if !strings.Contains(got, "Congestion control basics") {
		t.Fatalf("pptx text runs lost: %q", got)
	}
}

func TestExtractTextDocxWithoutTextRuns(t *testing.T) {
	data := buildZip(t, map[string]string{
		"word/document.xml": `<w:document xmlns:w="x"><w:body/></w:document>`,
	})
	path := writeTempFile(t, "empty.docx", data)

	s := NewTextExtractionService()
	if _, err := s.ExtractText(path); err == nil {
		t.Fatalf("want error for document without text runs")
	}
}

func TestPrintableRuns(t *testing.T) {
	raw := append([]byte{0x01, 0x02}, []byte("Readable sentence here")...)
	raw = append(raw, 0x00, 0x03, 'a', 'b', 0x00) // short run, dropped
	got := printableRuns(raw)
	if !strings.Contains(got, "Readable sentence here") {
		t.Fatalf("readable run lost: %q", got)
	}
	if strings.Contains(got, "ab") {
		t.Fatalf("sub-minimum run kept: %q", got)
	}
}
