package services

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// FormatExtractor converts raw document bytes into plain text. Dispatch is a
// case-sensitive suffix match on the reference; anything that is not .pdf or
// .docx fails with UnsupportedFormatError before touching the bytes.
// No OCR and no layout awareness: scanned-image PDFs yield empty text.
type FormatExtractor interface {
	ExtractText(reference string, data []byte) (string, error)
}

type formatExtractor struct{}

func NewFormatExtractor() FormatExtractor {
	return &formatExtractor{}
}

// ExtractText implements FormatExtractor.
func (e *formatExtractor) ExtractText(reference string, data []byte) (string, error) {
	switch {
	case strings.HasSuffix(reference, ".pdf"):
		return e.extractPDF(data)
	case strings.HasSuffix(reference, ".docx"):
		return e.extractDocx(data)
	default:
		return "", &UnsupportedFormatError{Reference: reference}
	}
}

func (e *formatExtractor) extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := reader.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, keep the rest
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	return normalizeWhitespace(textBuilder.String()), nil
}

func (e *formatExtractor) extractDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX archive: %w", err)
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				return "", fmt.Errorf("failed to open document.xml: %w", err)
			}

			docXML, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return "", fmt.Errorf("failed to read document.xml: %w", err)
			}
			break
		}
	}

	if len(docXML) == 0 {
		return "", fmt.Errorf("no document.xml found in docx")
	}

	text := string(docXML)
	text = strings.ReplaceAll(text, "</w:p>", "\n")
	text = strings.ReplaceAll(text, "<w:tab/>", "\t")
	text = xmlTagPattern.ReplaceAllString(text, " ")

	return normalizeWhitespace(text), nil
}

var (
	xmlTagPattern       = regexp.MustCompile(`<[^>]+>`)
	blankRunPattern     = regexp.MustCompile(`[ \t\r\f\v]+`)
	newlinePadPattern   = regexp.MustCompile(` *\n *`)
	paragraphRunPattern = regexp.MustCompile(`\n{3,}`)
)

// normalizeWhitespace collapses horizontal whitespace runs but keeps blank
// lines as paragraph breaks, so downstream chunking sees document structure.
func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = blankRunPattern.ReplaceAllString(s, " ")
	s = newlinePadPattern.ReplaceAllString(s, "\n")
	s = paragraphRunPattern.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
