package domain

import "context"

// Document is a raw source unit produced by a loader. One file may yield
// several documents (e.g. one per CSV row).
type Document struct {
	SourcePath string
	Text       string
	FileType   string
	// Part distinguishes multiple documents from the same file.
	Part int
}

// Chunk is a contiguous segment of a document's text, the unit of
// embedding and retrieval. Consecutive chunks from the same document
// overlap by the configured number of characters.
type Chunk struct {
	Text       string
	SourcePath string
	Index      int
	// OverlapPrefix is the number of leading characters shared with the
	// previous chunk (0 for the first chunk).
	OverlapPrefix int
}

// Record is a persisted vector-store entry.
type Record struct {
	ID        string
	Embedding []float32
	Text      string
	Metadata  map[string]string
}

// SearchResult pairs a stored record with its similarity to a query.
type SearchResult struct {
	Record Record
	Score  float64
}

// Embedder maps texts to fixed-dimension vectors using a single model
// chosen at construction. Embedding the same text twice under the same
// model yields the same vector.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
	Model() string
}

// Chunker splits a document into overlapping bounded-length chunks.
type Chunker interface {
	Chunk(doc Document) []Chunk
}

// Store is a persistent vector collection with similarity search.
// Insert batches are atomic: a failure mid-batch rolls the batch back.
type Store interface {
	Insert(ctx context.Context, records []Record) error
	Has(ctx context.Context, id string) (bool, error)
	Search(ctx context.Context, vector []float32, k int) ([]SearchResult, error)
	Count(ctx context.Context) (int, error)
	Persist() error
	Close() error
}

// Generator is the text-completion service behind answer composition.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
