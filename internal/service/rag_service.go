package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"ragchat/internal/domain"
	"ragchat/internal/loader"
)

// NoContextAnswer is returned without calling the generation service
// when retrieval finds nothing to ground an answer on.
const NoContextAnswer = "No relevant documents found."

// Service wires the ingestion and retrieval pipeline together: loader →
// chunker → embedder → store on build, embedder → store → generator on
// query. Build and query are synchronous; collection rebuilds assume no
// concurrent readers.
type Service struct {
	chunker   domain.Chunker
	embedder  domain.Embedder
	store     domain.Store
	generator domain.Generator
	log       *slog.Logger
}

func New(chunker domain.Chunker, embedder domain.Embedder, store domain.Store, generator domain.Generator, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{chunker: chunker, embedder: embedder, store: store, generator: generator, log: log}
}

// SkippedFile names a file the build left out and why.
type SkippedFile struct {
	Path   string
	Reason string
}

// BuildReport summarizes one build pass over the raw directory.
type BuildReport struct {
	FilesLoaded int
	Skipped     []SkippedFile
	Documents   int
	Chunks      int
	Inserted    int
	Duplicates  int
}

// Build ingests every file under rawDir into the collection. Per-file
// failures are logged and recorded in the report, never aborting the
// batch. Records carry content-hash ids, so rebuilding over unchanged
// files inserts nothing new. When no file yields any text the build
// returns ErrEmptyInput with the collection untouched.
func (s *Service) Build(ctx context.Context, rawDir string) (*BuildReport, error) {
	entries, err := os.ReadDir(rawDir)
	if err != nil {
		return nil, fmt.Errorf("read raw directory: %w", err)
	}

	report := &BuildReport{}
	var docs []domain.Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(rawDir, entry.Name())
		loaded, err := loader.Load(path)
		if err != nil {
			s.log.Warn("skipping file", "path", path, "reason", err)
			report.Skipped = append(report.Skipped, SkippedFile{Path: path, Reason: err.Error()})
			continue
		}
		report.FilesLoaded++
		docs = append(docs, loaded...)
	}
	report.Documents = len(docs)

	var chunks []domain.Chunk
	for _, doc := range docs {
		cs := s.chunker.Chunk(doc)
		if len(cs) == 0 {
			s.log.Warn("document is empty, dropping", "source", doc.SourcePath, "part", doc.Part)
			continue
		}
		chunks = append(chunks, cs...)
	}
	report.Chunks = len(chunks)
	if len(chunks) == 0 {
		return report, fmt.Errorf("%w: %s", domain.ErrEmptyInput, rawDir)
	}

	// Content-hash ids make rebuilds idempotent: an unchanged chunk maps
	// to an id the collection already holds and is skipped up front,
	// before any embedding work. The same rule applies within one batch,
	// so identical content (two equal CSV rows, say) collapses to a
	// single record instead of tripping the store's duplicate rejection.
	var (
		fresh []domain.Chunk
		ids   []string
	)
	seen := make(map[string]struct{}, len(chunks))
	for _, ch := range chunks {
		id := recordID(ch)
		if _, dup := seen[id]; dup {
			report.Duplicates++
			continue
		}
		seen[id] = struct{}{}
		exists, err := s.store.Has(ctx, id)
		if err != nil {
			return report, err
		}
		if exists {
			report.Duplicates++
			continue
		}
		fresh = append(fresh, ch)
		ids = append(ids, id)
	}
	if len(fresh) == 0 {
		s.log.Info("collection already up to date", "chunks", len(chunks))
		return report, nil
	}

	texts := make([]string, len(fresh))
	for i, ch := range fresh {
		texts[i] = ch.Text
	}
	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return report, fmt.Errorf("embed chunks: %w", err)
	}

	records := make([]domain.Record, len(fresh))
	for i, ch := range fresh {
		records[i] = domain.Record{
			ID:        ids[i],
			Embedding: vectors[i],
			Text:      ch.Text,
			Metadata: map[string]string{
				"source":      ch.SourcePath,
				"chunk_index": strconv.Itoa(ch.Index),
			},
		}
	}
	if err := s.store.Insert(ctx, records); err != nil {
		return report, err
	}
	if err := s.store.Persist(); err != nil {
		return report, err
	}
	report.Inserted = len(records)
	s.log.Info("build complete",
		"files", report.FilesLoaded, "skipped", len(report.Skipped),
		"chunks", report.Chunks, "inserted", report.Inserted, "duplicates", report.Duplicates)
	return report, nil
}

// Retrieve embeds the question with the collection's model and returns
// the top k chunks by similarity. An empty collection yields an empty
// result, signaling "nothing relevant" rather than failing.
func (s *Service) Retrieve(ctx context.Context, question string, k int) ([]domain.SearchResult, error) {
	vectors, err := s.embedder.Embed(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	return s.store.Search(ctx, vectors[0], k)
}

// Answer retrieves the top k chunks and asks the generation service for
// an answer grounded on them. With nothing retrieved it short-circuits
// to NoContextAnswer and never calls the generator.
func (s *Service) Answer(ctx context.Context, question string, k int) (string, []domain.SearchResult, error) {
	results, err := s.Retrieve(ctx, question, k)
	if err != nil {
		return "", nil, err
	}
	if len(results) == 0 {
		return NoContextAnswer, nil, nil
	}
	answer, err := s.generator.Generate(ctx, BuildPrompt(results, question))
	if err != nil {
		return "", results, err
	}
	return answer, results, nil
}

// BuildPrompt assembles the grounding prompt: retrieved chunk texts in
// ranked order, blank-line separated, followed by the question.
func BuildPrompt(results []domain.SearchResult, question string) string {
	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Record.Text
	}
	return fmt.Sprintf(
		"Answer the question based on the context below.\n\nContext:\n%s\n\nQuestion: %s\nAnswer:",
		strings.Join(texts, "\n\n"), question)
}

func recordID(ch domain.Chunk) string {
	h := sha1.New()
	fmt.Fprintf(h, "%s\x00%d\x00%s", ch.SourcePath, ch.Index, ch.Text)
	return hex.EncodeToString(h.Sum(nil)[:8])
}
