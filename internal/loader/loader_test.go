package loader

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ragchat/internal/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_Text(t *testing.T) {
	path := writeFile(t, t.TempDir(), "note.txt", "hello world")
	docs, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("got %d documents, want 1", len(docs))
	}
	if docs[0].Text != "hello world" {
		t.Errorf("text = %q", docs[0].Text)
	}
	if docs[0].FileType != "txt" {
		t.Errorf("file type = %q, want txt", docs[0].FileType)
	}
}

func TestLoad_Markdown(t *testing.T) {
	path := writeFile(t, t.TempDir(), "readme.md", "# Title\n\nBody.")
	docs, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(docs) != 1 || docs[0].FileType != "md" {
		t.Fatalf("unexpected documents: %+v", docs)
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := writeFile(t, t.TempDir(), "image.png", "not really")
	_, err := Load(path)
	if !errors.Is(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
	if !strings.Contains(err.Error(), ".png") {
		t.Errorf("error does not name the extension: %v", err)
	}
}

func TestLoad_CSVOneDocumentPerRow(t *testing.T) {
	path := writeFile(t, t.TempDir(), "people.csv", "name,role\nAda,engineer\nGrace,admiral\n")
	docs, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want one per data row", len(docs))
	}
	if !strings.Contains(docs[0].Text, "name: Ada") || !strings.Contains(docs[0].Text, "role: engineer") {
		t.Errorf("row rendering wrong: %q", docs[0].Text)
	}
	if docs[1].Part != 2 {
		t.Errorf("second row part = %d, want 2", docs[1].Part)
	}
}

func TestLoad_CSVHeaderOnly(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.csv", "name,role\n")
	docs, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("got %d documents for header-only file, want 0", len(docs))
	}
}

func TestLoad_Docx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create docx: %v", err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	const body = `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second</w:t></w:r><w:r><w:t xml:space="preserve"> paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`
	if _, err := w.Write([]byte(body)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	f.Close()

	docs, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("got %d documents, want 1", len(docs))
	}
	if !strings.Contains(docs[0].Text, "First paragraph.") {
		t.Errorf("missing first paragraph: %q", docs[0].Text)
	}
	if !strings.Contains(docs[0].Text, "Second paragraph.") {
		t.Errorf("split runs not joined: %q", docs[0].Text)
	}
	if !strings.Contains(docs[0].Text, "First paragraph.\n") {
		t.Errorf("paragraphs not separated: %q", docs[0].Text)
	}
}

func TestSupported(t *testing.T) {
	exts := Supported()
	want := []string{".csv", ".docx", ".md", ".pdf", ".txt"}
	if len(exts) != len(want) {
		t.Fatalf("Supported() = %v, want %v", exts, want)
	}
	for i := range want {
		if exts[i] != want[i] {
			t.Fatalf("Supported() = %v, want %v", exts, want)
		}
	}
}
