package llmsvc

import (
	"context"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	"github.com/trezcool/tutoria/core"
)

// Gemini answers through the Google Gen AI SDK.
type Gemini struct {
	client *genai.Client
}

func NewGemini(ctx context.Context, conf core.AIConfig) (*Gemini, error) {
	if conf.APIKey == "" {
		return nil, errors.New("gemini: API key not configured")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  conf.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "gemini: creating client")
	}
	return &Gemini{client: client}, nil
}

func (g *Gemini) Complete(ctx context.Context, req core.CompletionRequest) (string, error) {
	system, contents := geminiContents(req.Messages)
	conf := &genai.GenerateContentConfig{
		SystemInstruction: system,
		Temperature:       genai.Ptr(float32(req.Temperature)),
	}
	if req.MaxTokens > 0 {
		conf.MaxOutputTokens = int32(req.MaxTokens)
	}

	resp, err := g.client.Models.GenerateContent(ctx, req.Model, contents, conf)
	if err != nil {
		return "", errors.Wrap(err, "gemini: generating content")
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("gemini: empty response")
	}
	return text, nil
}

// geminiContents splits out the system messages; Gemini calls the assistant role "model".
func geminiContents(msgs []core.ChatMessage) (*genai.Content, []*genai.Content) {
	var system *genai.Content
	contents := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case core.RoleSystem:
			if system == nil {
				system = genai.NewContentFromText(m.Content, genai.RoleUser)
			} else {
				system.Parts = append(system.Parts, genai.NewPartFromText(m.Content))
			}
		case core.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	return system, contents
}
