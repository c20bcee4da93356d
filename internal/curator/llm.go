package curator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
)

// ErrAllModelsFailed reports that every model in the priority list was tried.
var ErrAllModelsFailed = errors.New("all rewrite models failed")

// defaultModelTimeout applies when LLM_MODEL_TIMEOUTS is shorter than LLM_MODELS.
const defaultModelTimeout = 300 * time.Second

// Rewriter turns raw transcripts into structured summary documents.
// Models are tried in priority order; each gets its own client so per-model
// timeouts apply at the HTTP layer.
type Rewriter struct {
	models []rewriteModel
}

type rewriteModel struct {
	name string
	call func(ctx context.Context, prompt string) (string, error)
}

// NewRewriter builds per-model clients from the configured priority list.
func NewRewriter(c Config) *Rewriter {
	r := &Rewriter{}
	for i, model := range c.LLMModels {
		timeout := defaultModelTimeout
		if i < len(c.LLMModelTimeouts) {
			timeout = c.LLMModelTimeouts[i]
		}
		client := llm.NewClient(c.LLMAPIBase, c.LLMAPIKey, model,
			llm.WithFallbackKeys(c.LLMAPIKeyFallbacks),
			llm.WithMaxTokens(c.LLMMaxTokens),
			llm.WithTemperature(c.LLMTemperature),
			llm.WithHTTPClient(&http.Client{Timeout: timeout}),
		)
		r.models = append(r.models, rewriteModel{
			name: model,
			call: func(ctx context.Context, prompt string) (string, error) {
				return client.Complete(ctx, "", prompt)
			},
		})
	}
	return r
}

// Rewrite sends the transcript through the model ladder and returns the first
// non-empty completion. The prompt input is rune-capped at MaxContentChars.
func (r *Rewriter) Rewrite(ctx context.Context, in RewriteInput) (string, error) {
	if len(r.models) == 0 {
		return "", errors.New("no rewrite models configured")
	}

	transcript := in.Transcript
	if cfg.MaxContentChars > 0 {
		transcript = TruncateRunes(transcript, cfg.MaxContentChars, "")
	}
	prompt := fmt.Sprintf(rewritePrompt, in.Title, in.Author, in.Platform, transcript)

	var lastErr error
	for _, m := range r.models {
		IncrLLMCalls()
		out, err := m.call(ctx, prompt)
		if err != nil {
			IncrLLMErrors()
			lastErr = err
			slog.Warn("rewrite model failed, trying next",
				slog.String("model", m.name),
				slog.Any("error", err),
			)
			continue
		}
		out = stripFences(out)
		if out == "" {
			IncrLLMErrors()
			lastErr = fmt.Errorf("model %s returned empty completion", m.name)
			continue
		}
		slog.Debug("rewrite done", slog.String("model", m.name), slog.Int("chars", len(out)))
		return out, nil
	}

	if lastErr != nil {
		return "", fmt.Errorf("%w: %w", ErrAllModelsFailed, lastErr)
	}
	return "", ErrAllModelsFailed
}

// FallbackDocument renders the placeholder stored when every model failed,
// keeping the original transcript so the item is recoverable by a rerun.
func FallbackDocument(err error, transcript string) string {
	var sb strings.Builder
	sb.WriteString("# Rewrite Failed\n\n")
	fmt.Fprintf(&sb, "%v\n\n", err)
	sb.WriteString("---\n\n## Original Transcript\n\n")
	sb.WriteString(transcript)
	return sb.String()
}

// IsFallbackDocument reports whether a stored rewritten document is the
// placeholder left behind by a failed rewrite.
func IsFallbackDocument(doc string) bool {
	return strings.Contains(doc, "# Rewrite Failed")
}

// stripFences removes markdown code fences from LLM output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```markdown")
	s = strings.TrimPrefix(s, "```md")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
