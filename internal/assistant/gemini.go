package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

var ErrEmptyResponse = errors.New("the model returned no content")

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts ...GenerateOption) (string, error)
}

type generateConfig struct {
	json bool
}

type GenerateOption func(*generateConfig)

// JSON asks the model to answer with a JSON document.
func JSON() GenerateOption {
	return func(c *generateConfig) {
		c.json = true
	}
}

// Gemini generates text with the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a client authenticated with an API key. An empty
// baseURL uses the public Gemini endpoint.
func NewGemini(ctx context.Context, apiKey, model, baseURL string) (*Gemini, error) {
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Generate(ctx context.Context, prompt string, opts ...GenerateOption) (string, error) {
	var cfg generateConfig
	for _, o := range opts {
		o(&cfg)
	}

	var config *genai.GenerateContentConfig
	if cfg.json {
		config = &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("generate content with %s: %w", g.model, err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}

	return text, nil
}
