package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ragchat/internal/domain"
)

// LoadFunc converts one file into one or more documents.
type LoadFunc func(path string) ([]domain.Document, error)

// handlers maps a lowercase file extension to its format handler.
// Extending to a new format means adding one entry here.
var handlers = map[string]LoadFunc{
	".txt":  loadText,
	".md":   loadText,
	".pdf":  loadPDF,
	".docx": loadDocx,
	".csv":  loadCSV,
}

// Load dispatches on the file extension and returns the documents the
// file contains. Unknown extensions fail with ErrUnsupportedFormat; the
// build pipeline treats that as skip-and-continue, not as a batch abort.
func Load(path string) ([]domain.Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	h, ok := handlers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, ext)
	}
	return h(path)
}

// Supported lists the recognized extensions in sorted order.
func Supported() []string {
	exts := make([]string, 0, len(handlers))
	for ext := range handlers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func loadText(path string) ([]domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return []domain.Document{{
		SourcePath: path,
		Text:       string(data),
		FileType:   strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
	}}, nil
}
