package loader

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"ragchat/internal/domain"
)

// loadDocx extracts plain text from an OOXML word-processing file. A
// .docx is a zip archive; the body lives in word/document.xml as runs of
// <w:t> text inside <w:p> paragraphs.
func loadDocx(path string) ([]domain.Document, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open docx %s: %w", path, err)
	}
	defer zr.Close()

	var body io.ReadCloser
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			body, err = f.Open()
			if err != nil {
				return nil, fmt.Errorf("open docx body %s: %w", path, err)
			}
			break
		}
	}
	if body == nil {
		return nil, fmt.Errorf("docx %s: word/document.xml not found", path)
	}
	defer body.Close()

	text, err := extractDocxText(body)
	if err != nil {
		return nil, fmt.Errorf("parse docx %s: %w", path, err)
	}
	return []domain.Document{{
		SourcePath: path,
		Text:       text,
		FileType:   "docx",
	}}, nil
}

func extractDocxText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var sb strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
