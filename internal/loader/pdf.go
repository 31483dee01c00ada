package loader

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"

	"ragchat/internal/domain"
)

func loadPDF(path string) ([]domain.Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("extract pdf text %s: %w", path, err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return nil, fmt.Errorf("read pdf text %s: %w", path, err)
	}
	return []domain.Document{{
		SourcePath: path,
		Text:       buf.String(),
		FileType:   "pdf",
	}}, nil
}
