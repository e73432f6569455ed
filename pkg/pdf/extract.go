package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

var (
	ErrNotPDF            = errors.New("file is not a PDF")
	ErrNoExtractableText = errors.New("no extractable text found in PDF")
)

// Document is the page-wise text of an uploaded PDF.
type Document struct {
	Pages []string
}

func (d *Document) TotalPages() int {
	return len(d.Pages)
}

// Text joins non-empty pages with blank lines.
func (d *Document) Text() string {
	parts := make([]string, 0, len(d.Pages))
	for _, p := range d.Pages {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "\n\n")
}

func IsPDF(b []byte) bool {
	return len(b) >= 5 && string(b[:5]) == "%PDF-"
}

// ExtractPages reads every page as sanitized plain text. Pages that fail to
// decode are kept as empty strings so numbering stays aligned.
func ExtractPages(data []byte) (*Document, error) {
	if !IsPDF(data) {
		return nil, ErrNotPDF
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("pdf reader: %w", err)
	}

	total := r.NumPage()
	doc := &Document{Pages: make([]string, 0, total)}
	hasText := false

	for i := 1; i <= total; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			doc.Pages = append(doc.Pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			doc.Pages = append(doc.Pages, "")
			continue
		}
		clean := Sanitize(text)
		if clean != "" {
			hasText = true
		}
		doc.Pages = append(doc.Pages, clean)
	}

	if !hasText {
		return nil, ErrNoExtractableText
	}
	return doc, nil
}

// Sanitize drops NUL and control characters and collapses whitespace.
func Sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t' || r == '\r':
			return ' '
		case r == ' ':
			return ' '
		case r == unicode.ReplacementChar, unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
