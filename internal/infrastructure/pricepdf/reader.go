package pricepdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Reader extracts the embedded text layer of a PDF price list as a flat
// sequence of lines, page by page. Scanned (image-only) PDFs have no text
// layer; their text must come from an external OCR pass instead.
type Reader struct{}

// NewReader creates a PDF text-layer reader
func NewReader() *Reader {
	return &Reader{}
}

// Lines parses the document from memory and returns every non-empty text line
// in page order. Pages that fail to decode are skipped so one bad page does
// not lose the rest of the document.
func (r *Reader) Lines(data []byte) ([]string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	fonts := make(map[string]*pdf.Font)
	var lines []string

	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		for _, name := range page.Fonts() {
			if _, ok := fonts[name]; !ok {
				font := page.Font(name)
				fonts[name] = &font
			}
		}

		text, err := page.GetPlainText(fonts)
		if err != nil {
			continue
		}
		lines = append(lines, SplitLines(text)...)
	}

	return lines, nil
}

// SplitLines breaks extracted page text into trimmed non-empty lines
func SplitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
