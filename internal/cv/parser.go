// Package cv turns résumé documents into normalized text and extracts skills
// from that text against a curated taxonomy.
package cv

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"
)

// Format is the declared type of an uploaded document.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatText Format = "text"
)

// Document is the raw content of one uploaded file. It only lives for the
// duration of a single analysis.
type Document struct {
	Data   []byte
	Format Format
}

// ParseFormat maps a declared format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "pdf":
		return FormatPDF, nil
	case "docx":
		return FormatDOCX, nil
	case "text", "txt":
		return FormatText, nil
	default:
		return "", &UnsupportedFormatError{Format: name}
	}
}

// FormatFromFilename derives the document format from a file extension.
func FormatFromFilename(filename string) (Format, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return "", &UnsupportedFormatError{Format: filename}
	}
	return ParseFormat(ext)
}

// Extract converts a document into normalized text. A zero-byte or
// content-free document yields an empty string and no error.
func Extract(doc Document) (string, error) {
	var (
		raw string
		err error
	)

	switch doc.Format {
	case FormatText:
		raw = string(doc.Data)
	case FormatPDF:
		if len(doc.Data) == 0 {
			return "", nil
		}
		raw, err = extractPDFText(doc.Data)
	case FormatDOCX:
		if len(doc.Data) == 0 {
			return "", nil
		}
		raw, err = extractDocxText(doc.Data)
	default:
		return "", &UnsupportedFormatError{Format: string(doc.Format)}
	}
	if err != nil {
		return "", &CorruptDocumentError{Format: doc.Format, Cause: err}
	}

	return Normalize(raw), nil
}

// extractPDFText concatenates the plain text of every page in page order.
// The pdf reader panics on some malformed cross-reference tables, so panics
// are turned into errors here.
func extractPDFText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var textBuilder strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read pdf page %d: %w", i, err)
		}
		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n")
	}

	return textBuilder.String(), nil
}

func extractDocxText(data []byte) (string, error) {
	body, _, err := docconv.ConvertDocx(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	return body, nil
}
