// Package pdftext extracts plain text from PDF documents.
package pdftext

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

const pdfMIME = "application/pdf"

// ExtractionError reports bytes that could not be read as a PDF.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return e.Err.Error()
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Document is a parsed PDF with 1-indexed pages.
type Document interface {
	NumPage() int
	PageText(n int) (string, error)
}

// Extractor turns PDF bytes into text. The zero value is not usable; call New.
type Extractor struct {
	// Open parses raw bytes into a Document.
	Open func(data []byte) (Document, error)
}

// New returns an Extractor backed by github.com/ledongthuc/pdf.
func New() *Extractor {
	return &Extractor{Open: openPDF}
}

// Extract returns the text of every page in page order, one newline after
// each page, trimmed. A document without extractable text yields "" and no error.
func (e *Extractor) Extract(data []byte) (text string, err error) {
	if mt := mimetype.Detect(data); !mt.Is(pdfMIME) {
		return "", &ExtractionError{Err: fmt.Errorf("content is not a PDF document (detected %s)", mt.String())}
	}

	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &ExtractionError{Err: fmt.Errorf("%v", r)}
		}
	}()

	doc, err := e.Open(data)
	if err != nil {
		return "", &ExtractionError{Err: err}
	}

	var sb strings.Builder
	for n := 1; n <= doc.NumPage(); n++ {
		pageText, err := doc.PageText(n)
		if err != nil {
			return "", &ExtractionError{Err: fmt.Errorf("page %d: %w", n, err)}
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String()), nil
}

type ledongthucDoc struct {
	r *pdf.Reader
}

func openPDF(data []byte) (Document, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return ledongthucDoc{r: r}, nil
}

func (d ledongthucDoc) NumPage() int {
	return d.r.NumPage()
}

func (d ledongthucDoc) PageText(n int) (string, error) {
	p := d.r.Page(n)
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}
