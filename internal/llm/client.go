package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Result carries generated text plus whether the provider stopped at its
// output-length limit, which downstream truncation detection needs.
type Result struct {
	Text         string
	LengthCapped bool
}

// GenerateOptions tune a single generation call.
type GenerateOptions struct {
	Tier            ModelTier
	MaxOutputTokens int32
}

// Client is an abstraction over generative-model providers
type Client interface {
	// GenerateText generates freeform text content
	GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (*Result, error)
	// GenerateJSON generates content with a JSON response type requested
	GenerateJSON(ctx context.Context, prompt string, opts GenerateOptions) (*Result, error)
	// Close releases any resources held by the client
	Close() error
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultConfig()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{client: client, config: config}, nil
}

// GenerateText generates freeform text content
func (c *GeminiClient) GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (*Result, error) {
	return c.generate(ctx, prompt, opts, "")
}

// GenerateJSON generates content with a JSON response MIME type
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string, opts GenerateOptions) (*Result, error) {
	result, err := c.generate(ctx, prompt, opts, "application/json")
	if err != nil {
		return nil, err
	}
	// Clean any markdown code block wrappers
	result.Text = CleanJSONBlock(result.Text)
	return result, nil
}

func (c *GeminiClient) generate(ctx context.Context, prompt string, opts GenerateOptions, mimeType string) (*Result, error) {
	modelName := c.config.GetModel(opts.Tier)
	if modelName == "" {
		return nil, fmt.Errorf("no model configured for tier %s", opts.Tier)
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(0.1) // Low temperature for consistent output
	if opts.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(opts.MaxOutputTokens)
	}
	if mimeType != "" {
		model.ResponseMIMEType = mimeType
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	return extractResult(resp)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractResult pulls text and the finish reason out of a Gemini response
func extractResult(resp *genai.GenerateContentResponse) (*Result, error) {
	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("no text parts in response")
	}

	return &Result{
		Text:         strings.Join(parts, ""),
		LengthCapped: candidate.FinishReason == genai.FinishReasonMaxTokens,
	}, nil
}
