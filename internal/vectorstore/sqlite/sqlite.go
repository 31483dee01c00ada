// Package sqlite persists a vector collection in a single SQLite file
// using the pure-Go modernc.org/sqlite driver. Similarity search is an
// exhaustive cosine scan over the stored records, which is the right
// trade at the collection sizes this pipeline handles.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // register pure-Go SQLite driver

	"ragchat/internal/domain"
	"ragchat/internal/vectorstore"
)

const schema = `
CREATE TABLE IF NOT EXISTS collection (
    id        INTEGER PRIMARY KEY CHECK (id = 1),
    dimension INTEGER NOT NULL,
    metric    TEXT    NOT NULL,
    model     TEXT    NOT NULL
);
CREATE TABLE IF NOT EXISTS records (
    id        TEXT PRIMARY KEY,
    text      TEXT NOT NULL,
    metadata  TEXT NOT NULL,
    embedding BLOB NOT NULL
);
`

// Store is a persistent vector collection. The collection's dimension,
// similarity metric and embedding model are fixed at creation and
// verified on every subsequent open.
type Store struct {
	db        *sql.DB
	dimension int
}

// Open opens or creates the collection at path. Opening an existing
// collection with a different dimension fails with ErrDimensionMismatch;
// a different embedding model fails with ErrModelMismatch, since records
// embedded under different models do not share a similarity space.
func Open(path string, dimension int, model string) (*Store, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("invalid dimension %d", dimension)
	}
	if !strings.HasPrefix(path, ":memory:") {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(path, ":memory:") {
		// Each pooled connection would otherwise get its own empty
		// in-memory database.
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	var storedDim int
	var storedModel string
	row := db.QueryRow(`SELECT dimension, model FROM collection WHERE id = 1`)
	switch err := row.Scan(&storedDim, &storedModel); err {
	case sql.ErrNoRows:
		if _, err := db.Exec(
			`INSERT INTO collection(id, dimension, metric, model) VALUES(1, ?, 'cosine', ?)`,
			dimension, model); err != nil {
			db.Close()
			return nil, err
		}
	case nil:
		if storedDim != dimension {
			db.Close()
			return nil, fmt.Errorf("%w: collection has %d, requested %d",
				domain.ErrDimensionMismatch, storedDim, dimension)
		}
		if storedModel != model {
			db.Close()
			return nil, fmt.Errorf("%w: collection built with %q, configured %q",
				domain.ErrModelMismatch, storedModel, model)
		}
	default:
		db.Close()
		return nil, err
	}

	return &Store{db: db, dimension: dimension}, nil
}

// Insert appends records in a single transaction: a failure anywhere in
// the batch rolls the whole batch back. An id already present in the
// collection (or repeated within the batch) fails with ErrDuplicateID;
// records are never overwritten in place.
func (s *Store) Insert(ctx context.Context, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	check, err := tx.PrepareContext(ctx, `SELECT EXISTS(SELECT 1 FROM records WHERE id = ?)`)
	if err != nil {
		return err
	}
	defer check.Close()
	insert, err := tx.PrepareContext(ctx,
		`INSERT INTO records(id, text, metadata, embedding) VALUES(?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insert.Close()

	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r.ID == "" {
			return fmt.Errorf("record with empty id")
		}
		if len(r.Embedding) != s.dimension {
			return fmt.Errorf("%w: record %s has %d, collection has %d",
				domain.ErrDimensionMismatch, r.ID, len(r.Embedding), s.dimension)
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateID, r.ID)
		}
		seen[r.ID] = struct{}{}
		var exists bool
		if err := check.QueryRowContext(ctx, r.ID).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateID, r.ID)
		}
		meta, err := json.Marshal(r.Metadata)
		if err != nil {
			return err
		}
		if _, err := insert.ExecContext(ctx, r.ID, r.Text, string(meta),
			encodeEmbedding(r.Embedding)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Has reports whether a record id is already present.
func (s *Store) Has(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM records WHERE id = ?)`, id).Scan(&exists)
	return exists, err
}

// Search returns up to k records ranked by descending cosine similarity
// to the query vector. An empty collection yields an empty result, not
// an error.
func (s *Store) Search(ctx context.Context, vector []float32, k int) ([]domain.SearchResult, error) {
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("%w: query has %d, collection has %d",
			domain.ErrDimensionMismatch, len(vector), s.dimension)
	}
	if k <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, text, metadata, embedding FROM records`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.SearchResult
	for rows.Next() {
		var (
			rec  domain.Record
			meta string
			blob []byte
		)
		if err := rows.Scan(&rec.ID, &rec.Text, &meta, &blob); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(meta), &rec.Metadata); err != nil {
			return nil, fmt.Errorf("record %s: corrupt metadata: %w", rec.ID, err)
		}
		if rec.Embedding, err = decodeEmbedding(blob); err != nil {
			return nil, fmt.Errorf("record %s: %w", rec.ID, err)
		}
		results = append(results, domain.SearchResult{
			Record: rec,
			Score:  vectorstore.Cosine(vector, rec.Embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// Count returns the number of records in the collection.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n)
	return n, err
}

// Persist flushes the WAL into the main database file. Inserts are
// already durable on commit, so calling this repeatedly is harmless.
func (s *Store) Persist() error {
	_, err := s.db.Exec(`PRAGMA wal_checkpoint(TRUNCATE)`)
	return err
}

func (s *Store) Close() error { return s.db.Close() }

var _ domain.Store = (*Store)(nil)
