package loader

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"ragchat/internal/domain"
)

// loadCSV emits one document per data row, rendered as "header: value"
// lines so column names stay retrievable alongside their values.
func loadCSV(path string) ([]domain.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv %s: %w", path, err)
	}
	if len(rows) < 2 {
		// Header only (or nothing): no data rows to index.
		return nil, nil
	}

	header := rows[0]
	docs := make([]domain.Document, 0, len(rows)-1)
	for i, row := range rows[1:] {
		var sb strings.Builder
		for j, cell := range row {
			name := fmt.Sprintf("column_%d", j+1)
			if j < len(header) {
				name = strings.TrimSpace(header[j])
			}
			sb.WriteString(name)
			sb.WriteString(": ")
			sb.WriteString(strings.TrimSpace(cell))
			sb.WriteByte('\n')
		}
		docs = append(docs, domain.Document{
			SourcePath: path,
			Text:       strings.TrimSpace(sb.String()),
			FileType:   "csv",
			Part:       i + 1,
		})
	}
	return docs, nil
}
