package embedding

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
)

// geminiDimensions maps known embedding models to their output width.
var geminiDimensions = map[string]int{
	"text-embedding-004": 768,
	"embedding-001":      768,
}

// Gemini embeds text with a Google Generative AI embedding model. The
// underlying client is created once per process and shared with the
// generation side.
type Gemini struct {
	em    *genai.EmbeddingModel
	model string
	dim   int
}

func NewGemini(client *genai.Client, model string) (*Gemini, error) {
	dim, ok := geminiDimensions[model]
	if !ok {
		return nil, fmt.Errorf("unknown embedding model %q", model)
	}
	return &Gemini{
		em:    client.EmbeddingModel(model),
		model: model,
		dim:   dim,
	}, nil
}

func (g *Gemini) Model() string  { return g.model }
func (g *Gemini) Dimension() int { return g.dim }

// Embed returns one vector per input text. Batches go through a single
// BatchEmbedContents call, which is equivalent to embedding each text
// separately.
func (g *Gemini) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if len(texts) == 1 {
		resp, err := g.em.EmbedContent(ctx, genai.Text(texts[0]))
		if err != nil {
			return nil, fmt.Errorf("embed content: %w", err)
		}
		if resp.Embedding == nil {
			return nil, fmt.Errorf("embed content: no embedding returned")
		}
		return [][]float32{resp.Embedding.Values}, nil
	}

	b := g.em.NewBatch()
	for _, t := range texts {
		b.AddContent(genai.Text(t))
	}
	resp, err := g.em.BatchEmbedContents(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("batch embed: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("batch embed: got %d embeddings for %d texts",
			len(resp.Embeddings), len(texts))
	}
	out := make([][]float32, len(resp.Embeddings))
	for i, e := range resp.Embeddings {
		out[i] = e.Values
	}
	return out, nil
}
