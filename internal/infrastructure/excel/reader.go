package excel

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Gee9999/proto-catalogue-app/internal/domain"
)

// Reader decodes uploaded xlsx price lists into header-mapped rows.
// The first non-empty row of the first sheet is treated as the header row.
type Reader struct{}

// NewReader creates an xlsx reader
func NewReader() *Reader {
	return &Reader{}
}

// Rows opens the workbook from memory and returns one RawRow per data row,
// keyed by the header texts exactly as they appear in the sheet. Columns with
// blank headers are ignored; fully blank rows are skipped.
func (r *Reader) Rows(data []byte) ([]domain.RawRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, domain.ErrEmptySource
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	headerIdx := -1
	var headers []string
	for i, row := range rows {
		if !rowEmpty(row) {
			headerIdx = i
			headers = row
			break
		}
	}
	if headerIdx < 0 {
		return nil, domain.ErrEmptySource
	}

	var result []domain.RawRow
	for _, row := range rows[headerIdx+1:] {
		if rowEmpty(row) {
			continue
		}
		mapped := make(domain.RawRow, len(headers))
		for col, header := range headers {
			if strings.TrimSpace(header) == "" {
				continue
			}
			if col < len(row) {
				mapped[header] = row[col]
			} else {
				mapped[header] = ""
			}
		}
		result = append(result, mapped)
	}

	return result, nil
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
