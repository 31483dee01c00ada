package chunker

import (
	"strings"
	"testing"

	"ragchat/internal/domain"
)

func doc(text string) domain.Document {
	return domain.Document{SourcePath: "test.txt", Text: text}
}

func TestChunk_ShortDocumentSingleChunk(t *testing.T) {
	s := NewSplitter(500, 50)
	chunks := s.Chunk(doc("just a short note"))
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != "just a short note" {
		t.Errorf("chunk text = %q, want full document", chunks[0].Text)
	}
	if chunks[0].OverlapPrefix != 0 {
		t.Errorf("first chunk overlap = %d, want 0", chunks[0].OverlapPrefix)
	}
}

func TestChunk_EmptyDocumentNoChunks(t *testing.T) {
	s := NewSplitter(500, 50)
	if chunks := s.Chunk(doc("")); len(chunks) != 0 {
		t.Fatalf("expected no chunks for empty document, got %d", len(chunks))
	}
}

func TestChunk_CoverageAndOverlap(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 40)
	size, overlap := 120, 20
	s := NewSplitter(size, overlap)
	chunks := s.Chunk(doc(text))
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	// Reconstructing the document from chunk bodies minus each overlap
	// prefix must reproduce the source exactly: no gaps, no reordering.
	var sb strings.Builder
	for i, ch := range chunks {
		if len(ch.Text) > size {
			t.Errorf("chunk %d length %d exceeds budget %d", i, len(ch.Text), size)
		}
		if i == 0 {
			sb.WriteString(ch.Text)
			continue
		}
		if ch.OverlapPrefix != overlap {
			t.Errorf("chunk %d overlap prefix = %d, want %d", i, ch.OverlapPrefix, overlap)
		}
		prev := chunks[i-1].Text
		if prev[len(prev)-overlap:] != ch.Text[:overlap] {
			t.Errorf("chunk %d does not share %d characters with its predecessor", i, overlap)
		}
		sb.WriteString(ch.Text[overlap:])
	}
	if sb.String() != text {
		t.Error("chunks do not cover the source text exactly")
	}
}

func TestChunk_PrefersSentenceBoundaries(t *testing.T) {
	s := NewSplitter(20, 5)
	chunks := s.Chunk(doc("The sky is blue. Grass is green."))
	if len(chunks) < 2 {
		t.Fatalf("expected 2+ chunks, got %d", len(chunks))
	}
	found := false
	for _, ch := range chunks {
		if strings.Contains(ch.Text, "Grass is green") {
			found = true
		}
	}
	if !found {
		t.Errorf("no chunk contains the second sentence intact: %q", chunkTexts(chunks))
	}
}

func TestChunk_NoBoundariesFallsBackToRawSplit(t *testing.T) {
	text := strings.Repeat("x", 45)
	s := NewSplitter(20, 5)
	chunks := s.Chunk(doc(text))
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i, ch := range chunks {
		if len(ch.Text) > 20 {
			t.Errorf("chunk %d length %d exceeds budget", i, len(ch.Text))
		}
	}
}

func TestChunk_IndicesSequential(t *testing.T) {
	s := NewSplitter(30, 5)
	chunks := s.Chunk(doc(strings.Repeat("word ", 40)))
	for i, ch := range chunks {
		if ch.Index != i {
			t.Errorf("chunk %d has index %d", i, ch.Index)
		}
		if ch.SourcePath != "test.txt" {
			t.Errorf("chunk %d lost its source path", i)
		}
	}
}

func chunkTexts(chunks []domain.Chunk) []string {
	out := make([]string, len(chunks))
	for i, ch := range chunks {
		out[i] = ch.Text
	}
	return out
}
