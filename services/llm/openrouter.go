package llmsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/trezcool/tutoria/core"
)

const openRouterMaxRetries = 2

// OpenRouter talks to any OpenAI-compatible chat completions API.
type OpenRouter struct {
	apiKey     string
	baseURL    string
	siteURL    string
	siteName   string
	httpClient *http.Client
	backoff    time.Duration
}

func NewOpenRouter(conf *core.Config) *OpenRouter {
	return &OpenRouter{
		apiKey:     conf.AI.APIKey,
		baseURL:    conf.AI.BaseURL,
		siteURL:    conf.FrontendBaseURL,
		siteName:   conf.AppName,
		httpClient: &http.Client{Timeout: conf.AI.Timeout},
		backoff:    time.Second,
	}
}

type openRouterRequest struct {
	Model       string             `json:"model"`
	Messages    []core.ChatMessage `json:"messages"`
	MaxTokens   int                `json:"max_tokens,omitempty"`
	Temperature float64            `json:"temperature"`
}

// Complete returns the content of the first choice.
// Rate limits and server errors are retried with an exponential backoff.
func (c *OpenRouter) Complete(ctx context.Context, req core.CompletionRequest) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("openrouter: API key not configured")
	}
	body, err := json.Marshal(openRouterRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", errors.Wrap(err, "openrouter: marshalling request")
	}

	var lastErr error
	for i := 0; i <= openRouterMaxRetries; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.backoff << uint(i-1)):
			}
		}

		content, retry, err := c.do(ctx, body)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if !retry {
			break
		}
	}
	return "", lastErr
}

func (c *OpenRouter) do(ctx context.Context, body []byte) (content string, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", false, errors.Wrap(err, "openrouter: creating request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("HTTP-Referer", c.siteURL)
	req.Header.Set("X-Title", c.siteName)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", false, errors.Wrap(err, "openrouter: sending request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, errors.Wrap(err, "openrouter: reading response")
	}

	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(data, "error.message").String()
		if msg == "" {
			msg = string(data)
		}
		retry = resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError
		return "", retry, errors.Errorf("openrouter: API error %d: %s", resp.StatusCode, msg)
	}

	result := gjson.GetBytes(data, "choices.0.message.content")
	if !result.Exists() {
		return "", false, errors.New("openrouter: no choices in response")
	}
	return result.String(), false, nil
}
