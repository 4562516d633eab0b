// Package llmsvc provides the LLM backends used by the tutor and chat services.
package llmsvc

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/tutoria/core"
)

// New returns the completer of the configured AI provider.
func New(ctx context.Context, conf *core.Config) (core.Completer, error) {
	switch conf.AI.Provider {
	case core.AIProviderOpenRouter:
		return NewOpenRouter(conf), nil
	case core.AIProviderGemini:
		return NewGemini(ctx, conf.AI)
	case core.AIProviderNone:
		return None{}, nil
	}
	return nil, errors.Errorf("llmsvc.New: unsupported provider %q", conf.AI.Provider)
}

// None is used when no AI provider is configured.
type None struct{}

func (None) Complete(context.Context, core.CompletionRequest) (string, error) {
	return "", core.ErrAIDisabled
}
