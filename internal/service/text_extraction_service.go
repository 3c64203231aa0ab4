package service

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/richardlehane/mscfb"
	"github.com/rs/zerolog/log"
)

// TextExtractionService converts a raw document file into cleaned plain text,
// dispatching on file extension.
type TextExtractionService interface {
	ExtractText(filePath string) (string, error)
}

type textExtractionService struct{}

func NewTextExtractionService() TextExtractionService {
	return &textExtractionService{}
}

func (s *textExtractionService) ExtractText(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrFileNotFound, filePath)
		}
		return "", fmt.Errorf("reading %s: %w", filePath, err)
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	var text string
	switch ext {
	case ".pdf":
		text, err = extractPDF(data)
	case ".docx":
		text, err = extractOpenXML(data, []string{"word/document.xml"}, "")
	case ".pptx":
		text, err = extractOpenXML(data, nil, "ppt/slides/")
	case ".doc", ".ppt":
		text, err = extractLegacyOffice(data)
	case ".txt":
		text = string(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, ext)
	}
	if err != nil {
		return "", fmt.Errorf("extracting %s: %w", filePath, err)
	}

	cleaned := CleanExtractedText(text)
	log.Debug().Str("file", filepath.Base(filePath)).Int("chars", len(cleaned)).Msg("Extracted text from material")
	return cleaned, nil
}

func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf reader: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf plaintext: %w", err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("pdf read: %w", err)
	}
	return string(b), nil
}

// extractOpenXML pulls the text runs (<w:t> / <a:t>) out of an OOXML zip
// container. Either an explicit part list or a part name prefix selects which
// entries to read.
func extractOpenXML(data []byte, parts []string, prefix string) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("openxml container: %w", err)
	}

	wanted := func(name string) bool {
		if prefix != "" {
			return strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".xml")
		}
		for _, p := range parts {
			if name == p {
				return true
			}
		}
		return false
	}

	var out strings.Builder
	for _, f := range zr.File {
		if !wanted(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("openxml part %s: %w", f.Name, err)
		}
		raw, readErr := io.ReadAll(rc)
		rc.Close()
		if readErr != nil {
			return "", fmt.Errorf("openxml part %s: %w", f.Name, readErr)
		}
		out.WriteString(textRunsFromXML(raw))
		out.WriteString("\n\n")
	}

	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", fmt.Errorf("no text runs found in document")
	}
	return text, nil
}

// textRunsFromXML gathers the character data of every <t> element, the text
// run tag shared by WordprocessingML and DrawingML.
func textRunsFromXML(raw []byte) string {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	var out strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "t" {
			continue
		}
		var v string
		if err := dec.DecodeElement(&v, &se); err != nil {
			continue
		}
		if v != "" {
			out.WriteString(v)
			out.WriteString(" ")
		}
	}
	return out.String()
}

// legacyTextStreams are the OLE2 streams that hold document text in the
// pre-OOXML binary formats.
var legacyTextStreams = map[string]bool{
	"WordDocument":        true,
	"PowerPoint Document": true,
}

// extractLegacyOffice scavenges readable runs from the text-bearing streams of
// an OLE2 compound file. A full .doc/.ppt binary parse is out of proportion
// here; the cleaning pass removes whatever format noise survives.
func extractLegacyOffice(data []byte) (string, error) {
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("ole2 container: %w", err)
	}

	var out strings.Builder
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if !legacyTextStreams[entry.Name] {
			continue
		}
		raw, readErr := io.ReadAll(entry)
		if readErr != nil {
			continue
		}
		out.WriteString(printableRuns(raw))
	}

	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", fmt.Errorf("no readable text stream in legacy document")
	}
	return text, nil
}

// printableRuns keeps runs of at least four consecutive printable ASCII bytes,
// separating runs with newlines.
func printableRuns(raw []byte) string {
	const minRun = 4
	var out strings.Builder
	var run []byte
	flush := func() {
		if len(run) >= minRun {
			out.Write(run)
			out.WriteString("\n")
		}
		run = run[:0]
	}
	for _, b := range raw {
		if b >= 0x20 && b <= 0x7e {
			run = append(run, b)
		} else {
			flush()
		}
	}
	flush()
	return out.String()
}
