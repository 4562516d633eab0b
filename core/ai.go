package core

import (
	"context"
	"errors"
)

// Chat roles, as understood by OpenAI-compatible APIs.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var ErrAIDisabled = errors.New("AI provider disabled")

type (
	ChatMessage struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	CompletionRequest struct {
		Model       string
		Messages    []ChatMessage
		MaxTokens   int
		Temperature float64
	}

	// Completer is any LLM backend able to answer a chat completion.
	Completer interface {
		Complete(ctx context.Context, req CompletionRequest) (string, error)
	}
)
