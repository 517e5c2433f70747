// Package llm provides the thin text-completion boundary used by workers
// that enrich their output with generated prose. The orchestration core never
// talks to this package directly; a worker that uses it must still convert
// completion failures into structured results.
package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
)

// Completer produces a text completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// LangchainCompleter adapts any langchaingo model to the Completer interface.
type LangchainCompleter struct {
	model llms.Model
}

// NewLangchainCompleter wraps a langchaingo model.
func NewLangchainCompleter(model llms.Model) *LangchainCompleter {
	return &LangchainCompleter{model: model}
}

// Complete generates a single completion for the prompt.
func (c *LangchainCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if c.model == nil {
		return "", fmt.Errorf("no model configured")
	}

	out, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt)
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}
	return out, nil
}

// StaticCompleter returns canned text. It backs non-interactive runs and
// tests, and serves as the fallback when no model is configured.
type StaticCompleter struct {
	Text string
}

// Complete returns the canned text regardless of prompt.
func (c *StaticCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return c.Text, nil
}

// Compile-time interface checks.
var (
	_ Completer = (*LangchainCompleter)(nil)
	_ Completer = (*StaticCompleter)(nil)
)
