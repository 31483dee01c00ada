// Package generation wraps the text-completion service behind a single
// synchronous call: model identifier and prompt in, answer text out.
package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"

	"ragchat/internal/domain"
)

// Gemini generates answers with a Google Generative AI model. Each call
// runs under a bounded timeout with at most one retry on a transient
// failure; any final failure surfaces as ErrGenerationFailed, never as
// an empty or fabricated answer.
type Gemini struct {
	model   *genai.GenerativeModel
	name    string
	timeout time.Duration
}

func NewGemini(client *genai.Client, model string, timeout time.Duration) *Gemini {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Gemini{
		model:   client.GenerativeModel(model),
		name:    model,
		timeout: timeout,
	}
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		resp, err := g.model.GenerateContent(callCtx, genai.Text(prompt))
		cancel()
		if err != nil {
			lastErr = err
			if attempt == 0 && transient(ctx, err) {
				continue
			}
			break
		}
		text := responseText(resp)
		if text == "" {
			return "", fmt.Errorf("%w: model %s returned no text", domain.ErrGenerationFailed, g.name)
		}
		return text, nil
	}
	return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, lastErr)
}

// transient reports whether a call is worth one more attempt: the call
// itself timed out while the caller's context is still live.
func transient(parent context.Context, err error) bool {
	if parent.Err() != nil {
		return false
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func responseText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
	}
	return strings.TrimSpace(sb.String())
}
