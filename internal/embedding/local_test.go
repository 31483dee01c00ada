package embedding

import (
	"context"
	"math"
	"testing"
)

func TestLocal_Deterministic(t *testing.T) {
	e := NewLocal(256)
	ctx := context.Background()
	a, err := e.Embed(ctx, []string{"The sky is blue."})
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	b, err := e.Embed(ctx, []string{"The sky is blue."})
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	for i := range a[0] {
		if a[0][i] != b[0][i] {
			t.Fatalf("vectors differ at %d: %v vs %v", i, a[0][i], b[0][i])
		}
	}
}

func TestLocal_DimensionFixed(t *testing.T) {
	e := NewLocal(128)
	if e.Dimension() != 128 {
		t.Fatalf("Dimension() = %d, want 128", e.Dimension())
	}
	vecs, err := e.Embed(context.Background(), []string{"one", "two words here", ""})
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(vecs) != 3 {
		t.Fatalf("got %d vectors, want 3", len(vecs))
	}
	for i, v := range vecs {
		if len(v) != 128 {
			t.Errorf("vector %d has dimension %d", i, len(v))
		}
	}
}

func TestLocal_Normalized(t *testing.T) {
	e := NewLocal(256)
	vecs, err := e.Embed(context.Background(), []string{"grass green sky blue fox"})
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	var norm float64
	for _, v := range vecs[0] {
		norm += float64(v) * float64(v)
	}
	if math.Abs(norm-1) > 1e-5 {
		t.Errorf("squared norm = %f, want 1", norm)
	}
}

func TestLocal_EmptyTextZeroVector(t *testing.T) {
	e := NewLocal(64)
	vecs, err := e.Embed(context.Background(), []string{"   "})
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	for i, v := range vecs[0] {
		if v != 0 {
			t.Fatalf("component %d = %v, want zero vector for empty text", i, v)
		}
	}
}

func TestLocal_BatchMatchesSingle(t *testing.T) {
	e := NewLocal(256)
	ctx := context.Background()
	batch, err := e.Embed(ctx, []string{"first text", "second text"})
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	single, err := e.Embed(ctx, []string{"second text"})
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	for i := range batch[1] {
		if batch[1][i] != single[0][i] {
			t.Fatalf("batch and single embeddings differ at %d", i)
		}
	}
}
