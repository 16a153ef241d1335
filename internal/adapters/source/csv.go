package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/okian/vbrank/internal/domain/model"
)

// ParseCSV reads text as a header row followed by data rows. Header labels
// and cell values are trimmed. Short and long rows are tolerated: missing
// cells are absent from the row and cells past the header are dropped.
// Columns with an empty header and rows with no non-empty value are skipped.
func ParseCSV(text string) ([]model.RawRow, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrParse, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []model.RawRow
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return rows, fmt.Errorf("%w: %w", ErrParse, err)
		}

		row := model.RawRow{Cells: make([]model.Cell, 0, len(header))}
		blank := true
		for i, v := range record {
			if i >= len(header) {
				break
			}
			if header[i] == "" {
				continue
			}
			v = strings.TrimSpace(v)
			if v != "" {
				blank = false
			}
			row.Cells = append(row.Cells, model.Cell{Label: header[i], Value: v})
		}
		if blank {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
