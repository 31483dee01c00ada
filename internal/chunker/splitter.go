package chunker

import (
	"unicode"

	"ragchat/internal/domain"
)

// Splitter cuts document text into chunks of at most chunkSize
// characters, each starting chunkOverlap characters before the end of
// the previous one. Cut points prefer paragraph breaks, then sentence
// ends, then word boundaries, and fall back to a raw character split.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
}

func NewSplitter(chunkSize, chunkOverlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	if chunkOverlap < 0 {
		chunkOverlap = 0
	}
	if chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 10
	}
	return &Splitter{chunkSize: chunkSize, chunkOverlap: chunkOverlap}
}

// Chunk splits a document. Every character of the source appears in at
// least one chunk, and adjacent chunks share exactly chunkOverlap
// characters. Empty documents yield no chunks.
func (s *Splitter) Chunk(doc domain.Document) []domain.Chunk {
	runes := []rune(doc.Text)
	if len(runes) == 0 {
		return nil
	}

	var chunks []domain.Chunk
	pos := 0
	for {
		cut := s.cutPoint(runes, pos)
		overlap := 0
		if len(chunks) > 0 {
			overlap = s.chunkOverlap
		}
		chunks = append(chunks, domain.Chunk{
			Text:          string(runes[pos:cut]),
			SourcePath:    doc.SourcePath,
			Index:         len(chunks),
			OverlapPrefix: overlap,
		})
		if cut == len(runes) {
			return chunks
		}
		pos = cut - s.chunkOverlap
	}
}

// cutPoint returns the end index of the chunk starting at pos. The cut
// must land after pos+chunkOverlap so the next chunk makes progress.
func (s *Splitter) cutPoint(runes []rune, pos int) int {
	hi := pos + s.chunkSize
	if hi >= len(runes) {
		return len(runes)
	}
	lo := pos + s.chunkOverlap + 1
	for c := hi; c >= lo; c-- {
		if paragraphEnd(runes, c, hi) {
			return c
		}
	}
	for c := hi; c >= lo; c-- {
		if sentenceEnd(runes, c, hi) {
			return c
		}
	}
	for c := hi; c >= lo; c-- {
		if wordEnd(runes, c, hi) {
			return c
		}
	}
	return hi
}

// A boundary swallows the whitespace that follows it, so chunks do not
// start mid-whitespace. At the budget cap the trailing run may be cut.
func trailingRunContinues(r []rune, c, hi int) bool {
	return c < hi && unicode.IsSpace(r[c])
}

func paragraphEnd(r []rune, c, hi int) bool {
	if trailingRunContinues(r, c, hi) {
		return false
	}
	newlines := 0
	i := c
	for i > 0 && unicode.IsSpace(r[i-1]) {
		if r[i-1] == '\n' {
			newlines++
		}
		i--
	}
	return newlines >= 2
}

func sentenceEnd(r []rune, c, hi int) bool {
	if trailingRunContinues(r, c, hi) {
		return false
	}
	i := c
	for i > 0 && unicode.IsSpace(r[i-1]) {
		i--
	}
	if i == 0 {
		return false
	}
	switch r[i-1] {
	case '.', '!', '?':
		return true
	}
	return false
}

func wordEnd(r []rune, c, hi int) bool {
	if trailingRunContinues(r, c, hi) {
		return false
	}
	return unicode.IsSpace(r[c-1])
}
