// Package gemini generates assistant replies with the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"condo/internal/assistant"
)

const DefaultModel = "gemini-2.5-flash"

var (
	ErrMissingAPIKey = errors.New("gemini: missing API key")
	ErrNoCandidates  = errors.New("gemini: response has no candidates")
)

var _ assistant.Generator = (*Client)(nil)

type Client struct {
	models *genai.Models
	model  string
}

// Option adjusts the client configuration before it is built.
type Option func(*genai.ClientConfig)

// WithBaseURL points the client at another endpoint, such as a local test server.
func WithBaseURL(url string) Option {
	return func(c *genai.ClientConfig) { c.HTTPOptions.BaseURL = url }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *genai.ClientConfig) { c.HTTPClient = hc }
}

// New creates a Gemini Developer API client authenticated with apiKey.
func New(ctx context.Context, apiKey, model string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = DefaultModel
	}
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{models: client.Models, model: model}, nil
}

func (c *Client) Generate(ctx context.Context, req assistant.Request) (string, error) {
	temperature := float32(req.Temperature)
	gcfg := &genai.GenerateContentConfig{Temperature: &temperature}
	if req.SystemInstruction != "" {
		gcfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemInstruction}},
		}
	}
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: req.Prompt}},
	}}

	resp, err := c.models.GenerateContent(ctx, c.model, contents, gcfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	return replyText(resp)
}

// replyText joins the text parts of the first candidate, skipping thoughts.
func replyText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrNoCandidates
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil && !p.Thought {
			b.WriteString(p.Text)
		}
	}
	return b.String(), nil
}
