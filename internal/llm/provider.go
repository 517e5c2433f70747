package llm

import (
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/types"
)

// Provider names accepted by NewCompleter.
const (
	ProviderNone   = "none"
	ProviderOpenAI = "openai"
)

// NewCompleter builds a Completer for the named provider. ProviderNone (or
// an empty name) returns nil: callers treat a nil Completer as "use the
// deterministic fallback".
func NewCompleter(provider, model, apiKey string) (Completer, error) {
	switch provider {
	case "", ProviderNone:
		return nil, nil

	case ProviderOpenAI:
		opts := []openai.Option{}
		if model != "" {
			opts = append(opts, openai.WithModel(model))
		}
		if apiKey != "" {
			opts = append(opts, openai.WithToken(apiKey))
		}
		client, err := openai.New(opts...)
		if err != nil {
			return nil, types.WrapError(types.CONFIG_VALIDATION_FAILED, "openai client init failed", err)
		}
		return NewLangchainCompleter(client), nil

	default:
		return nil, types.NewError(types.CONFIG_VALIDATION_FAILED, "unknown llm provider "+provider)
	}
}
