package generation

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
)

func TestResponseText_JoinsParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("Grass "), genai.Text("is green.")}}},
		},
	}
	if got := responseText(resp); got != "Grass is green." {
		t.Errorf("responseText = %q", got)
	}
}

func TestResponseText_EmptyCandidates(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: nil}},
	}
	if got := responseText(resp); got != "" {
		t.Errorf("responseText = %q, want empty", got)
	}
}
