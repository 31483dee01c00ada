package sqlite

import "testing"

func TestEncodeDecodeEmbedding(t *testing.T) {
	vec := []float32{0.5, -1.25, 0, 3.75e-3}
	decoded, err := decodeEmbedding(encodeEmbedding(vec))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(decoded) != len(vec) {
		t.Fatalf("decoded %d values, want %d", len(decoded), len(vec))
	}
	for i := range vec {
		if decoded[i] != vec[i] {
			t.Errorf("value %d = %v, want %v", i, decoded[i], vec[i])
		}
	}
}

func TestDecodeEmbedding_InvalidLength(t *testing.T) {
	if _, err := decodeEmbedding([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for blob length not divisible by 4")
	}
}
